package motor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAxis returns an axis with clock and pins already configured on
// a fake device: dir on DIO4, pulse on DIO6, home on DIO8.
func newTestAxis(t *testing.T) (*Axis, *fakeDevice) {
	t.Helper()
	dev := newFakeDevice()
	a := NewAxis(dev, "test")
	require.NoError(t, a.SetPins(4, 6, 8, false))
	dev.writes = nil
	return a, dev
}

func TestIncrementMovesAndTracks(t *testing.T) {
	a, dev := newTestAxis(t)

	require.NoError(t, a.Increment(25, false))
	assert.Equal(t, int64(25), a.Counts())
	assert.Equal(t, []uint32{1}, dev.writesTo("DIO4"))
	assert.Equal(t, []uint32{25}, dev.writesTo("DIO6_EF_CONFIG_C"))

	require.NoError(t, a.Increment(-10, false))
	assert.Equal(t, int64(15), a.Counts())
	assert.Equal(t, []uint32{1, 0}, dev.writesTo("DIO4"))
	assert.Equal(t, []uint32{25, 10}, dev.writesTo("DIO6_EF_CONFIG_C"))
}

func TestIncrementClampsToUpperLimit(t *testing.T) {
	a, dev := newTestAxis(t)
	a.SetUpperLimit(100)
	require.NoError(t, a.GoTo(90, false))

	require.NoError(t, a.Increment(50, false))
	assert.Equal(t, int64(100), a.Counts())
	// Only the 10 counts of headroom were commanded.
	assert.Equal(t, []uint32{90, 10}, dev.writesTo("DIO6_EF_CONFIG_C"))
	assert.True(t, a.LimitState())
}

func TestIncrementClampsToLowerLimit(t *testing.T) {
	a, _ := newTestAxis(t)
	a.SetLowerLimit(-30)
	require.NoError(t, a.Increment(-100, false))
	assert.Equal(t, int64(-30), a.Counts())
}

func TestInvertFlipsOnlyTheDirectionLine(t *testing.T) {
	a, dev := newTestAxis(t)
	a.SetInvert(true)

	require.NoError(t, a.Increment(10, false))
	// Logical bookkeeping is unaffected, only the line flips.
	assert.Equal(t, int64(10), a.Counts())
	assert.Equal(t, []uint32{0}, dev.writesTo("DIO4"))

	require.NoError(t, a.Increment(-10, false))
	assert.Equal(t, int64(0), a.Counts())
	assert.Equal(t, []uint32{0, 1}, dev.writesTo("DIO4"))
}

func TestGoToTwiceIssuesZeroLengthMove(t *testing.T) {
	a, dev := newTestAxis(t)

	require.NoError(t, a.GoTo(40, false))
	require.NoError(t, a.GoTo(40, false))
	assert.Equal(t, int64(40), a.Counts())
	assert.Equal(t, []uint32{40, 0}, dev.writesTo("DIO6_EF_CONFIG_C"))
}

func TestGoToPhysical(t *testing.T) {
	a, dev := newTestAxis(t)
	require.NoError(t, a.SetCalibration(0, 0.9, "deg"))

	require.NoError(t, a.GoToPhysical(90, false))
	assert.Equal(t, int64(100), a.Counts())
	assert.Equal(t, []uint32{100}, dev.writesTo("DIO6_EF_CONFIG_C"))
	assert.InDelta(t, 90.0, a.Position(), 1e-9)
}

func TestIncrementPhysicalClampSilentlyTruncates(t *testing.T) {
	a, _ := newTestAxis(t)
	require.NoError(t, a.SetCalibration(0, 0.5, "deg"))
	a.SetUpperLimitPhysical(25) // 50 counts

	require.NoError(t, a.IncrementPhysical(100, false))
	assert.Equal(t, int64(50), a.Counts())
	assert.InDelta(t, 25.0, a.Position(), 1e-9)
}

func TestHomeFindsLevelChange(t *testing.T) {
	a, dev := newTestAxis(t)
	// Initial read plus two unchanged reads, then the switch flips.
	dev.homeReg = "DIO8"
	dev.homeLevels = []uint32{0, 0, 0, 1}

	found, err := a.Home(5, 10)
	require.NoError(t, err)
	assert.True(t, found)
	// Exactly three increments of 5 counts.
	assert.Equal(t, []uint32{5, 5, 5}, dev.writesTo("DIO6_EF_CONFIG_C"))
	assert.Equal(t, int64(15), a.Counts())
}

func TestHomePolarityAgnostic(t *testing.T) {
	a, dev := newTestAxis(t)
	dev.homeReg = "DIO8"
	dev.homeLevels = []uint32{1, 0}

	found, err := a.Home(-5, 10)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(-5), a.Counts())
}

func TestHomeExhausted(t *testing.T) {
	a, dev := newTestAxis(t)
	dev.homeReg = "DIO8"
	dev.homeLevels = []uint32{0}

	found, err := a.Home(5, 4)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, []uint32{5, 5, 5, 5}, dev.writesTo("DIO6_EF_CONFIG_C"))
}

func TestHomeRequiresHomePin(t *testing.T) {
	dev := newFakeDevice()
	a := NewAxis(dev, "test")
	require.NoError(t, a.SetPins(4, 6, NoHomePin, false))
	dev.writes = nil

	_, err := a.Home(5, 10)
	assert.ErrorIs(t, err, ErrHomeNotConfigured)
	// No motion was issued.
	assert.Empty(t, dev.writes)
}

func TestSetPinsProgramsDevice(t *testing.T) {
	dev := newFakeDevice()
	// Home line starts as an output, pulse and dir as inputs.
	dev.regs["DIO_DIRECTION"] = 1 << 8
	dev.regs["DIO_EF_CLOCK0_ROLL_VALUE"] = 80000

	a := NewAxis(dev, "test")
	require.NoError(t, a.SetPins(4, 6, 8, false))

	mask := dev.regs["DIO_DIRECTION"]
	assert.Equal(t, uint32(1<<4|1<<6), mask)
	// 50% duty from the clock roll on the device.
	assert.Equal(t, []uint32{40000}, dev.writesTo("DIO6_EF_CONFIG_A"))
	// Generator gated off during configuration, enabled after.
	assert.Equal(t, []uint32{0, 1}, dev.writesTo("DIO6_EF_ENABLE"))
	// Idle state: direction high, pulse armed.
	vals := dev.writesTo("DIO4")
	assert.Equal(t, []uint32{0, 1}, vals)
}

func TestSetPinsRebindIsIdempotent(t *testing.T) {
	dev := newFakeDevice()
	a := NewAxis(dev, "test")
	require.NoError(t, a.SetPins(4, 6, 8, false))
	first := dev.regs["DIO_DIRECTION"]

	require.NoError(t, a.SetPins(4, 6, 8, false))
	assert.Equal(t, first, dev.regs["DIO_DIRECTION"])
}

func TestSetPinsValidation(t *testing.T) {
	dev := newFakeDevice()
	a := NewAxis(dev, "test")

	assert.ErrorIs(t, a.SetPins(-1, 6, NoHomePin, false), ErrConfig)
	assert.ErrorIs(t, a.SetPins(4, 4, NoHomePin, false), ErrConfig)
	assert.ErrorIs(t, a.SetPins(4, 6, 6, false), ErrConfig)
	// Nothing was programmed.
	assert.Empty(t, dev.writes)
}

func TestSetCalibrationRejectsBadSlope(t *testing.T) {
	a, _ := newTestAxis(t)
	assert.ErrorIs(t, a.SetCalibration(0, 0, "deg"), ErrInvalidCalibration)
	assert.ErrorIs(t, a.SetCalibration(0, -1, "deg"), ErrInvalidCalibration)
	// The previous calibration is untouched.
	assert.Equal(t, "counts", a.Calibration().Units)
}

func TestLimitSetters(t *testing.T) {
	a, _ := newTestAxis(t)
	require.NoError(t, a.SetCalibration(0, 0.5, "deg"))

	a.SetUpperLimitPhysical(50)
	require.NotNil(t, a.Limits().Upper)
	assert.Equal(t, int64(100), *a.Limits().Upper)

	require.NoError(t, a.GoTo(-7, false))
	a.SetLowerLimitHere()
	require.NotNil(t, a.Limits().Lower)
	assert.Equal(t, int64(-7), *a.Limits().Lower)

	a.ClearUpperLimit()
	a.ClearLowerLimit()
	assert.Nil(t, a.Limits().Upper)
	assert.Nil(t, a.Limits().Lower)
}

func TestDeviceFailureLeavesCountsUntouched(t *testing.T) {
	a, dev := newTestAxis(t)
	dev.failOn = "DIO6_EF_CONFIG_C"

	err := a.Increment(10, false)
	require.Error(t, err)
	assert.Equal(t, int64(0), a.Counts())
}
