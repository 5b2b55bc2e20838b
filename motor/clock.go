package motor

// BaseClockHz is the T-series core clock feeding the extended feature
// clock. The pulse rate is BaseClockHz / divisor / roll.
const BaseClockHz = 80e6

// Clock holds the pulse generator settings. Divisor is a power of two
// used for coarse tuning, roll is the fine 32 bit counter. The
// generator is a device-wide resource: every axis on a device pulses at
// the rate programmed here.
type Clock struct {
	Roll    uint32
	Divisor uint32
}

// ClockForFrequency computes the roll/divisor pair closest to the
// requested pulse rate. Roll is halved and the divisor doubled until
// roll fits in 32 bits.
func ClockForFrequency(hz float64) (Clock, error) {
	if hz == 0 {
		return Clock{}, ErrInvalidFrequency
	}
	if hz < 0 {
		hz = -hz
	}
	roll := uint64(BaseClockHz / hz)
	divisor := uint32(1)
	for roll > 0xFFFFFFFF {
		roll >>= 1
		divisor <<= 1
	}
	if roll == 0 {
		return Clock{}, ErrInvalidFrequency
	}
	return Clock{Roll: uint32(roll), Divisor: divisor}, nil
}

// Frequency returns the pulse rate in Hz.
func (c Clock) Frequency() float64 {
	return BaseClockHz / float64(c.Divisor) / float64(c.Roll)
}

// apply reprograms the generator. The write order matters: the
// generator is gated off before roll and divisor change so a half
// written configuration cannot emit a glitch pulse.
func (c Clock) apply(d Device) error {
	writes := []regWrite{
		{"DIO_EF_CLOCK0_ENABLE", 0},
		{"DIO_EF_CLOCK0_ROLL_VALUE", c.Roll},
		{"DIO_EF_CLOCK0_DIVISOR", c.Divisor},
		{"DIO_EF_CLOCK0_ENABLE", 1},
	}
	return writeAll(d, writes)
}

// readClock fetches the shared generator settings from the device.
func readClock(d Device) (Clock, error) {
	divisor, err := d.ReadName("DIO_EF_CLOCK0_DIVISOR")
	if err != nil {
		return Clock{}, err
	}
	roll, err := d.ReadName("DIO_EF_CLOCK0_ROLL_VALUE")
	if err != nil {
		return Clock{}, err
	}
	return Clock{Roll: roll, Divisor: divisor}, nil
}

type regWrite struct {
	reg string
	val uint32
}

func writeAll(d Device, writes []regWrite) error {
	for _, w := range writes {
		if err := d.WriteName(w.reg, w.val); err != nil {
			return err
		}
	}
	return nil
}
