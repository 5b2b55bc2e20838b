package motor

import "github.com/pkg/errors"

// fakeDevice is an in-memory register file standing in for the DAQ.
// Reads of homeReg are scripted through homeLevels so tests can flip
// the home switch at a chosen increment.
type fakeDevice struct {
	regs   map[string]uint32
	writes []regWrite

	homeReg    string
	homeLevels []uint32
	homeIdx    int

	failOn string
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		regs: map[string]uint32{
			// 1 MHz pulse rate so blocking waits stay negligible.
			"DIO_EF_CLOCK0_ROLL_VALUE": 80,
			"DIO_EF_CLOCK0_DIVISOR":    1,
		},
	}
}

func (f *fakeDevice) ReadName(name string) (uint32, error) {
	if name == f.failOn {
		return 0, errors.Errorf("device lost reading %s", name)
	}
	if name == f.homeReg && len(f.homeLevels) > 0 {
		i := f.homeIdx
		if i >= len(f.homeLevels) {
			i = len(f.homeLevels) - 1
		}
		f.homeIdx++
		return f.homeLevels[i], nil
	}
	return f.regs[name], nil
}

func (f *fakeDevice) WriteName(name string, value uint32) error {
	if name == f.failOn {
		return errors.Errorf("device lost writing %s", name)
	}
	if f.regs == nil {
		f.regs = map[string]uint32{}
	}
	f.regs[name] = value
	f.writes = append(f.writes, regWrite{name, value})
	return nil
}

// writesTo returns the sequence of values written to one register.
func (f *fakeDevice) writesTo(name string) []uint32 {
	var vals []uint32
	for _, w := range f.writes {
		if w.reg == name {
			vals = append(vals, w.val)
		}
	}
	return vals
}
