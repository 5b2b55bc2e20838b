package motor

import "errors"

var (
	// ErrInvalidFrequency is returned for pulse rates that are zero or
	// cannot be represented by the clock divider.
	ErrInvalidFrequency = errors.New("pulse frequency is zero or not representable")

	// ErrInvalidCalibration is returned for a non-positive calibration
	// slope.
	ErrInvalidCalibration = errors.New("calibration slope must be a positive number")

	// ErrHomeNotConfigured is returned when homing is requested without
	// a bound home pin.
	ErrHomeNotConfigured = errors.New("home channel is not configured")

	// ErrConfig is the base error for malformed persisted configuration
	// and invalid pin assignments.
	ErrConfig = errors.New("invalid motor configuration")
)
