package motor

import (
	"fmt"

	"github.com/pkg/errors"
)

// NoHomePin marks an axis without a home switch. DIO line 0 is a valid
// pin, so the sentinel sits below zero.
const NoHomePin = -1

// Pins binds the logical direction, pulse and home roles to DIO line
// numbers. Home is optional.
type Pins struct {
	Dir   int
	Pulse int
	Home  int
}

func (p Pins) dirReg() string { return fmt.Sprintf("DIO%d", p.Dir) }

// pulseReg is the pulse-count register of the output compare block;
// writing N to it emits N pulses.
func (p Pins) pulseReg() string { return fmt.Sprintf("DIO%d_EF_CONFIG_C", p.Pulse) }

func (p Pins) homeReg() string { return fmt.Sprintf("DIO%d", p.Home) }

// Bound reports whether the mandatory roles are assigned.
func (p Pins) Bound() bool { return p.Dir >= 0 && p.Pulse >= 0 }

// HomeBound reports whether a home switch is assigned.
func (p Pins) HomeBound() bool { return p.Home >= 0 }

func (p Pins) validate() error {
	if p.Dir < 0 || p.Pulse < 0 {
		return errors.Wrapf(ErrConfig,
			"pin numbers must be non-negative, got dir=%d pulse=%d", p.Dir, p.Pulse)
	}
	if p.Dir == p.Pulse || p.Home == p.Dir || p.Home == p.Pulse {
		return errors.Wrapf(ErrConfig,
			"pin assignments must be distinct, got dir=%d pulse=%d home=%d",
			p.Dir, p.Pulse, p.Home)
	}
	return nil
}

// bind programs the device for this pin assignment: the shared
// direction mask (home cleared to an input), the pulse pin's output
// compare block at 50% duty, and the idle state with the generator
// gated. The high phase is half the clock roll currently on the
// device, so the clock must be configured before pins. Rebinding fully
// reprograms every affected register.
func (p Pins) bind(d Device) error {
	if err := p.validate(); err != nil {
		return err
	}

	iomask, err := d.ReadName("DIO_DIRECTION")
	if err != nil {
		return err
	}
	iomask |= 1 << uint(p.Pulse)
	iomask |= 1 << uint(p.Dir)
	if p.Home >= 0 {
		iomask &^= 1 << uint(p.Home)
	}

	clk, err := readClock(d)
	if err != nil {
		return err
	}

	writes := []regWrite{
		// Keep only the default analog lines, the rest go digital.
		{"DIO_ANALOG_ENABLE", 0x0F},
		{"DIO_DIRECTION", iomask},
		{p.dirReg(), 0},
		// Output compare block: gate it off while configuring,
		// low->high at 0, high->low at half roll, no pulses queued.
		{fmt.Sprintf("DIO%d_EF_ENABLE", p.Pulse), 0},
		{fmt.Sprintf("DIO%d_EF_INDEX", p.Pulse), 2},
		{fmt.Sprintf("DIO%d_EF_CONFIG_B", p.Pulse), 0},
		{fmt.Sprintf("DIO%d_EF_CONFIG_A", p.Pulse), clk.Roll / 2},
		{fmt.Sprintf("DIO%d_EF_CONFIG_C", p.Pulse), 1},
		{fmt.Sprintf("DIO%d", p.Pulse), 0},
		{fmt.Sprintf("DIO%d_EF_ENABLE", p.Pulse), 1},
		// Undo the arming step so the stage sits where it started.
		{p.dirReg(), 1},
		{p.pulseReg(), 1},
	}
	return writeAll(d, writes)
}
