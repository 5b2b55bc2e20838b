package motor

// Device is the register-level access the motor layer needs from the
// DAQ. Registers are addressed by their T-series names (DIO4,
// DIO_EF_CLOCK0_ROLL_VALUE, ...). Calls block until the device answers;
// device failures propagate to the caller unchanged, there is no retry.
type Device interface {
	ReadName(name string) (uint32, error)
	WriteName(name string, value uint32) error
}
