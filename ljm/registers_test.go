package ljm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTable(t *testing.T) {
	cases := []struct {
		name  string
		addr  uint16
		words uint16
	}{
		{"DIO5", 2005, 1},
		{"DIO19", 2019, 1},
		{"DIO_DIRECTION", 2600, 2},
		{"DIO0_EF_ENABLE", 44000, 2},
		{"DIO7_EF_CONFIG_A", 44314, 2},
		{"DIO7_EF_CONFIG_C", 44514, 2},
		{"DIO_EF_CLOCK0_ROLL_VALUE", 44904, 2},
		{"DIO_EF_CLOCK0_DIVISOR", 44901, 1},
	}
	for _, c := range cases {
		reg, ok := registers[c.name]
		require.True(t, ok, c.name)
		assert.Equal(t, c.addr, reg.addr, c.name)
		assert.Equal(t, c.words, reg.words, c.name)
	}

	// Lines past the T4's DIO count do not resolve.
	_, ok := registers["DIO20"]
	assert.False(t, ok)
}

func TestUnknownRegisterName(t *testing.T) {
	// Name lookup fails before the bus is touched, so a client-less
	// device is fine here.
	d := &Device{}

	_, err := d.ReadName("AIN0_BOGUS")
	var derr *DeviceError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "read", derr.Op)
	assert.ErrorIs(t, err, errUnknownRegister)

	err = d.WriteName("AIN0_BOGUS", 1)
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "write", derr.Op)
}
