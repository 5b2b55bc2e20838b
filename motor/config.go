package motor

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Config is the persisted axis record. The clock settings and the
// direction/pulse assignment are mandatory; everything else is optional
// and omitted when unset. The schema is strict both ways: loading
// rejects unknown keys as well as missing mandatory ones.
type Config struct {
	ClockRoll    uint32   `json:"clock_roll"`
	ClockDivisor uint32   `json:"clock_divisor"`
	DirPin       int      `json:"dir_pin"`
	PulsePin     int      `json:"pulse_pin"`
	HomePin      *int     `json:"home_pin,omitempty"`
	Invert       *bool    `json:"invert,omitempty"`
	CalZero      *float64 `json:"cal_zero,omitempty"`
	CalSlope     *float64 `json:"cal_slope,omitempty"`
	CalUnits     *string  `json:"cal_units,omitempty"`
	LimUpper     *int64   `json:"lim_upper,omitempty"`
	LimLower     *int64   `json:"lim_lower,omitempty"`
}

var mandatoryKeys = []string{"clock_roll", "clock_divisor", "dir_pin", "pulse_pin"}

var optionalKeys = []string{
	"home_pin", "invert", "cal_zero", "cal_slope", "cal_units",
	"lim_upper", "lim_lower",
}

// ParseConfig decodes a persisted record and validates its key set.
func ParseConfig(data []byte) (*Config, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(ErrConfig, err.Error())
	}

	var missing []string
	for _, k := range mandatoryKeys {
		if _, ok := raw[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(ErrConfig,
			"missing mandatory parameters: %s", strings.Join(missing, ", "))
	}

	allowed := make(map[string]bool, len(mandatoryKeys)+len(optionalKeys))
	for _, k := range mandatoryKeys {
		allowed[k] = true
	}
	for _, k := range optionalKeys {
		allowed[k] = true
	}
	var illegal []string
	for k := range raw {
		if !allowed[k] {
			illegal = append(illegal, k)
		}
	}
	if len(illegal) > 0 {
		sort.Strings(illegal)
		return nil, errors.Wrapf(ErrConfig,
			"unrecognized parameters: %s", strings.Join(illegal, ", "))
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(ErrConfig, err.Error())
	}
	return &cfg, nil
}

// Apply configures the axis from a parsed record: clock first, then
// pins, then the optional calibration and limit fields.
func (a *Axis) Apply(cfg *Config) error {
	if err := a.SetClock(cfg.ClockRoll, cfg.ClockDivisor); err != nil {
		return err
	}

	homePin := NoHomePin
	if cfg.HomePin != nil {
		homePin = *cfg.HomePin
	}
	invert := false
	if cfg.Invert != nil {
		invert = *cfg.Invert
	}
	if err := a.SetPins(cfg.DirPin, cfg.PulsePin, homePin, invert); err != nil {
		return err
	}

	if cfg.CalZero != nil || cfg.CalSlope != nil || cfg.CalUnits != nil {
		cal := a.cal
		if cfg.CalZero != nil {
			cal.Zero = *cfg.CalZero
		}
		if cfg.CalSlope != nil {
			cal.Slope = *cfg.CalSlope
		}
		if cfg.CalUnits != nil {
			cal.Units = *cfg.CalUnits
		}
		if err := a.SetCalibration(cal.Zero, cal.Slope, cal.Units); err != nil {
			return err
		}
	}
	if cfg.LimUpper != nil {
		a.SetUpperLimit(*cfg.LimUpper)
	}
	if cfg.LimLower != nil {
		a.SetLowerLimit(*cfg.LimLower)
	}
	return nil
}

// Config snapshots the axis into a persistable record. The clock is
// read back from the device since it is shared state that another axis
// may have retuned.
func (a *Axis) Config() (*Config, error) {
	clk, err := readClock(a.dev)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		ClockRoll:    clk.Roll,
		ClockDivisor: clk.Divisor,
		DirPin:       a.pins.Dir,
		PulsePin:     a.pins.Pulse,
	}
	if a.pins.HomeBound() {
		home := a.pins.Home
		cfg.HomePin = &home
	}
	invert := a.invert
	cfg.Invert = &invert
	zero, slope, units := a.cal.Zero, a.cal.Slope, a.cal.Units
	cfg.CalZero = &zero
	cfg.CalSlope = &slope
	cfg.CalUnits = &units
	cfg.LimUpper = a.limits.Upper
	cfg.LimLower = a.limits.Lower
	return cfg, nil
}

// Load reads a config file and applies it to the axis.
func (a *Axis) Load(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return err
	}
	return a.Apply(cfg)
}

// Save writes the axis configuration and calibration to a file.
func (a *Axis) Save(filename string) error {
	cfg, err := a.Config()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, append(data, '\n'), 0o644)
}
