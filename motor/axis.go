package motor

import (
	"time"

	logger "github.com/d2r2/go-logger"
)

var lg = logger.NewPackageLogger("motor", logger.InfoLevel)

// DefaultHomeTries bounds the home search when the caller has no better
// estimate of the distance to the switch.
const DefaultHomeTries = 100

// Axis drives one stepper through the device's pulse generator. It
// tracks position in software: there is no feedback path, so counts are
// an estimate that assumes every commanded pulse reached the motor.
//
// An axis becomes usable once both the clock and the pins are
// configured. The clock belongs to the device, not to the axis; two
// axes sharing a device share a pulse rate, and setting it through
// either retunes both. Access to a shared device must be serialized by
// the caller.
type Axis struct {
	dev    Device
	name   string
	pins   Pins
	cal    Calibration
	limits Limits
	counts int64
	invert bool
}

// NewAxis wraps a device handle. The axis wakes up at zero counts with
// an identity calibration, no limits and no pins.
func NewAxis(dev Device, name string) *Axis {
	return &Axis{
		dev:  dev,
		name: name,
		pins: Pins{Dir: -1, Pulse: -1, Home: NoHomePin},
		cal:  identityCal(),
	}
}

func (a *Axis) Name() string { return a.name }

// SetClock programs the shared pulse generator with explicit roll and
// divisor values.
func (a *Axis) SetClock(roll, divisor uint32) error {
	return Clock{Roll: roll, Divisor: divisor}.apply(a.dev)
}

// SetClockHz programs the shared pulse generator for the closest
// representable rate. No acceleration is applied to moves, so the rate
// must be slow enough for the motor to reach speed within one pulse.
func (a *Axis) SetClockHz(hz float64) error {
	clk, err := ClockForFrequency(hz)
	if err != nil {
		return err
	}
	lg.Debugf("%s: clock %g Hz -> roll=%d divisor=%d", a.name, hz, clk.Roll, clk.Divisor)
	return clk.apply(a.dev)
}

// Clock reads back the shared generator settings from the device.
func (a *Axis) Clock() (Clock, error) { return readClock(a.dev) }

// ClockHz reads back the pulse rate in Hz.
func (a *Axis) ClockHz() (float64, error) {
	clk, err := readClock(a.dev)
	if err != nil {
		return 0, err
	}
	return clk.Frequency(), nil
}

// SetPins assigns the direction, pulse and home lines and programs the
// device accordingly. Pass NoHomePin when there is no home switch. The
// clock must be configured first; the pulse timing is derived from it.
func (a *Axis) SetPins(dirPin, pulsePin, homePin int, invert bool) error {
	p := Pins{Dir: dirPin, Pulse: pulsePin, Home: homePin}
	if err := p.bind(a.dev); err != nil {
		return err
	}
	a.pins = p
	a.invert = invert
	lg.Infof("%s: pins dir=%d pulse=%d home=%d invert=%t",
		a.name, dirPin, pulsePin, homePin, invert)
	return nil
}

// Pins returns the current pin assignment.
func (a *Axis) Pins() Pins { return a.pins }

// SetInvert flips the logical-to-physical direction mapping. Safe to
// change at any time; count bookkeeping is unaffected.
func (a *Axis) SetInvert(invert bool) { a.invert = invert }

func (a *Axis) Invert() bool { return a.invert }

// SetCalibration installs a linear calibration. The slope must be
// positive; a 400 count-per-turn axis calibrated in degrees would use
// slope 360.0/400.
func (a *Axis) SetCalibration(zero, slope float64, units string) error {
	if slope <= 0 {
		return ErrInvalidCalibration
	}
	a.cal = Calibration{Zero: zero, Slope: slope, Units: units}
	return nil
}

func (a *Axis) Calibration() Calibration { return a.cal }

// Counts returns the tracked position in raw counts.
func (a *Axis) Counts() int64 { return a.counts }

// Position returns the tracked position in calibrated units.
func (a *Axis) Position() float64 { return a.cal.Physical(a.counts) }

// Limits returns the configured software travel bounds.
func (a *Axis) Limits() Limits { return a.limits }

// LimitState reports whether the axis sits at or beyond a bound.
func (a *Axis) LimitState() bool { return a.limits.AtLimit(a.counts) }

// SetUpperLimit bounds travel at the given raw count position.
func (a *Axis) SetUpperLimit(counts int64) { a.limits.Upper = &counts }

// SetUpperLimitPhysical bounds travel at a calibrated position.
func (a *Axis) SetUpperLimitPhysical(value float64) {
	counts := int64(a.cal.Counts(value))
	a.limits.Upper = &counts
}

// SetUpperLimitHere bounds travel at the current position.
func (a *Axis) SetUpperLimitHere() {
	counts := a.counts
	a.limits.Upper = &counts
}

// ClearUpperLimit removes the upper bound.
func (a *Axis) ClearUpperLimit() { a.limits.Upper = nil }

// SetLowerLimit bounds travel at the given raw count position.
func (a *Axis) SetLowerLimit(counts int64) { a.limits.Lower = &counts }

// SetLowerLimitPhysical bounds travel at a calibrated position.
func (a *Axis) SetLowerLimitPhysical(value float64) {
	counts := int64(a.cal.Counts(value))
	a.limits.Lower = &counts
}

// SetLowerLimitHere bounds travel at the current position.
func (a *Axis) SetLowerLimitHere() {
	counts := a.counts
	a.limits.Lower = &counts
}

// ClearLowerLimit removes the lower bound.
func (a *Axis) ClearLowerLimit() { a.limits.Lower = nil }

// Increment moves by delta counts, clamped to the software limits.
// Position updates as soon as the pulse command is issued; the hardware
// never confirms completion. With block set the call sleeps long enough
// for the pulses to play out at the current clock rate, which is
// advisory timing rather than an acknowledgement.
func (a *Axis) Increment(delta int64, block bool) error {
	positive := delta > 0
	delta = a.limits.Clamp(a.counts, delta)

	physical := positive
	if a.invert {
		physical = !physical
	}
	var dirVal uint32
	if physical {
		dirVal = 1
	}
	if err := a.dev.WriteName(a.pins.dirReg(), dirVal); err != nil {
		return err
	}
	if err := a.dev.WriteName(a.pins.pulseReg(), uint32(abs(delta))); err != nil {
		return err
	}
	a.counts += delta
	lg.Debugf("%s: moved %d counts to %d", a.name, delta, a.counts)

	if block {
		hz, err := a.ClockHz()
		if err != nil {
			return err
		}
		time.Sleep(time.Duration(float64(abs(delta)) / hz * float64(time.Second)))
	}
	return nil
}

// IncrementPhysical moves by a delta in calibrated units, truncated
// toward zero count-wise. Software limits clamp the raw delta, so the
// displacement actually commanded may be shorter than requested.
func (a *Axis) IncrementPhysical(delta float64, block bool) error {
	return a.Increment(int64(delta/a.cal.Slope), block)
}

// GoTo moves to an absolute position in raw counts.
func (a *Axis) GoTo(target int64, block bool) error {
	return a.Increment(target-a.counts, block)
}

// GoToPhysical moves to an absolute position in calibrated units.
func (a *Axis) GoToPhysical(target float64, block bool) error {
	return a.GoTo(int64(a.cal.Counts(target)), block)
}

// Home seeks the reference switch: blocking moves of increment counts
// repeat until the home input changes level, up to maxTries. The search
// reacts to any level change rather than a particular edge, so switch
// polarity does not matter. Keep the increment sign consistent between
// runs; switch hysteresis makes the approach direction part of the
// reference. Returns false when the search is exhausted without a
// level change.
func (a *Axis) Home(increment int64, maxTries int) (bool, error) {
	if !a.pins.HomeBound() {
		return false, ErrHomeNotConfigured
	}
	initial, err := a.dev.ReadName(a.pins.homeReg())
	if err != nil {
		return false, err
	}
	for try := 0; try < maxTries; try++ {
		if err := a.Increment(increment, true); err != nil {
			return false, err
		}
		level, err := a.dev.ReadName(a.pins.homeReg())
		if err != nil {
			return false, err
		}
		if level != initial {
			lg.Infof("%s: home found after %d increments", a.name, try+1)
			return true, nil
		}
	}
	lg.Warningf("%s: home not found after %d increments of %d", a.name, maxTries, increment)
	return false, nil
}
