package motor

// Calibration is a linear mapping between raw pulse counts and a
// physical unit such as degrees or nanometers:
//
//	physical = Slope * (counts - Zero)
type Calibration struct {
	Zero  float64
	Slope float64
	Units string
}

// identityCal is the power-on mapping: counts map to themselves.
func identityCal() Calibration {
	return Calibration{Zero: 0, Slope: 1, Units: "counts"}
}

// Physical converts a raw count position to calibrated units.
func (c Calibration) Physical(counts int64) float64 {
	return c.Slope * (float64(counts) - c.Zero)
}

// Counts converts a calibrated position back to fractional counts.
// Callers truncate toward zero before commanding motion.
func (c Calibration) Counts(physical float64) float64 {
	return physical/c.Slope + c.Zero
}
