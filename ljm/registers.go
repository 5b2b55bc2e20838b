package ljm

import "fmt"

// dioCount is the number of DIO lines on a T4: FIO0-7, EIO0-7, CIO0-3.
const dioCount = 20

// register locates a named register in the Modbus map. Values are
// UINT16 (one word) or UINT32 (two words, most significant word first).
type register struct {
	addr  uint16
	words uint16
}

// registers is the name to address table for the register set the
// motor layer touches. Per-line entries are filled in at init.
var registers = map[string]register{
	"DIO_STATE":                {2500, 2},
	"DIO_DIRECTION":            {2600, 2},
	"DIO_ANALOG_ENABLE":        {2880, 2},
	"DIO_EF_CLOCK0_ENABLE":     {44900, 1},
	"DIO_EF_CLOCK0_DIVISOR":    {44901, 1},
	"DIO_EF_CLOCK0_OPTIONS":    {44902, 1},
	"DIO_EF_CLOCK0_ROLL_VALUE": {44904, 2},
	"DIO_EF_CLOCK0_COUNT":      {44908, 2},
}

func init() {
	for n := 0; n < dioCount; n++ {
		stride := uint16(2 * n)
		registers[fmt.Sprintf("DIO%d", n)] = register{2000 + uint16(n), 1}
		registers[fmt.Sprintf("DIO%d_EF_ENABLE", n)] = register{44000 + stride, 2}
		registers[fmt.Sprintf("DIO%d_EF_INDEX", n)] = register{44100 + stride, 2}
		registers[fmt.Sprintf("DIO%d_EF_OPTIONS", n)] = register{44200 + stride, 2}
		registers[fmt.Sprintf("DIO%d_EF_CONFIG_A", n)] = register{44300 + stride, 2}
		registers[fmt.Sprintf("DIO%d_EF_CONFIG_B", n)] = register{44400 + stride, 2}
		registers[fmt.Sprintf("DIO%d_EF_CONFIG_C", n)] = register{44500 + stride, 2}
		registers[fmt.Sprintf("DIO%d_EF_CONFIG_D", n)] = register{44600 + stride, 2}
	}
}
