package motor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalibrationRoundTrip(t *testing.T) {
	cal := Calibration{Zero: 37.5, Slope: 0.9, Units: "deg"}
	for _, counts := range []int64{-100000, -1, 0, 1, 400, 99999} {
		back := cal.Counts(cal.Physical(counts))
		assert.InDelta(t, float64(counts), back, 1e-9)
	}
}

func TestCalibrationMapping(t *testing.T) {
	// A 400 count-per-turn axis in degrees.
	cal := Calibration{Zero: 0, Slope: 360.0 / 400, Units: "deg"}
	assert.InDelta(t, 90.0, cal.Physical(100), 1e-9)
	assert.InDelta(t, 200.0, cal.Counts(180), 1e-9)

	offset := Calibration{Zero: 50, Slope: 2, Units: "nm"}
	assert.InDelta(t, -100.0, offset.Physical(0), 1e-9)
	assert.InDelta(t, 50.0, offset.Counts(0), 1e-9)
}

func TestIdentityCalibration(t *testing.T) {
	cal := identityCal()
	assert.Equal(t, "counts", cal.Units)
	assert.InDelta(t, 123.0, cal.Physical(123), 1e-12)
}
