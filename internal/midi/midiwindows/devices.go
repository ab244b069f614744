package midiwindows

import (
	"fmt"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
)

// device is a port with its WinMM device id. The id is the index in the API's
// own enumeration, which still counts devices whose caps could not be read.
type device struct {
	id   uintptr
	info contracts.DeviceInfo
}

// enumerate walks device ids 0..count-1 and keeps those describe accepts.
func enumerate(count uint32, describe func(id uint32) (contracts.DeviceInfo, bool)) []device {
	var devices []device
	for i := uint32(0); i < count; i++ {
		info, ok := describe(i)
		if !ok {
			continue
		}
		devices = append(devices, device{id: uintptr(i), info: info})
	}
	return devices
}

func findDevice(devices []device, name string) (uintptr, error) {
	for _, d := range devices {
		if d.info.Name == name {
			return d.id, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", contracts.ErrPortNotFound, name)
}
