package midiwindows

import (
	"testing"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerateKeepsDeviceIDs(t *testing.T) {
	names := []string{"Elektron Digitone", "Broken Port", "Moog Sub 37"}
	devices := enumerate(uint32(len(names)), func(id uint32) (contracts.DeviceInfo, bool) {
		if id == 1 {
			return contracts.DeviceInfo{}, false
		}
		return contracts.DeviceInfo{Name: names[id], Direction: contracts.PortOutput}, true
	})
	require.Len(t, devices, 2)

	id, err := findDevice(devices, "Moog Sub 37")
	require.NoError(t, err)
	assert.Equal(t, uintptr(2), id)

	id, err = findDevice(devices, "Elektron Digitone")
	require.NoError(t, err)
	assert.Equal(t, uintptr(0), id)

	_, err = findDevice(devices, "Broken Port")
	assert.ErrorIs(t, err, contracts.ErrPortNotFound)
}
