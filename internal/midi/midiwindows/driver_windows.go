//go:build windows
// +build windows

package midiwindows

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Type definitions for MIDI handles
type (
	HMIDIIN  windows.Handle
	HMIDIOUT windows.Handle
)

// Constants for callback flags
const (
	CALLBACK_NULL     = 0x00000000 // No callback
	CALLBACK_FUNCTION = 0x00030000 // Indicates that the callback is a function
	MIDI_IO_STATUS    = 0x00000020 // MIDI input/output status
)

// Constants for MIDI message types
const (
	MIM_OPEN      = 0x3C1 // MIDI device opened
	MIM_CLOSE     = 0x3C2 // MIDI device closed
	MIM_DATA      = 0x3C3 // MIDI data received
	MIM_ERROR     = 0x3C5 // MIDI error
	MIM_LONGERROR = 0x3C6 // Long MIDI error
	MIM_MOREDATA  = 0x3CC // More MIDI data available
)

// Struct representing MIDI input device capabilities
type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// Struct representing MIDI output device capabilities
type midiOutCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	wTechnology    uint16
	wVoices        uint16
	wNotes         uint16
	wChannelMask   uint16
	dwSupport      uint32
}

// Load the winmm.dll library and required functions
var (
	winmm                 = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs  = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps  = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen        = winmm.NewProc("midiInOpen")
	procMidiInStart       = winmm.NewProc("midiInStart")
	procMidiInStop        = winmm.NewProc("midiInStop")
	procMidiInClose       = winmm.NewProc("midiInClose")
	procMidiOutGetNumDevs = winmm.NewProc("midiOutGetNumDevs")
	procMidiOutGetDevCaps = winmm.NewProc("midiOutGetDevCapsW")
	procMidiOutOpen       = winmm.NewProc("midiOutOpen")
	procMidiOutShortMsg   = winmm.NewProc("midiOutShortMsg")
	procMidiOutClose      = winmm.NewProc("midiOutClose")
)

// Input callbacks are routed through a table keyed by an integer instance id,
// since WinMM hands the instance value back from a foreign thread.
var (
	callbackOnce sync.Once
	callbackPtr  uintptr
	inputsMu     sync.RWMutex
	inputs       map[uintptr]*inputPort
	nextInputID  uintptr
)

// Driver uses the Windows multimedia API.
type Driver struct {
	logger contracts.Logger
}

// NewDriver creates a WinMM port driver.
func NewDriver(options *contracts.ClientOptions) (contracts.PortDriver, error) {
	if err := winmm.Load(); err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrDriverUnavailable, err)
	}
	options.Logger.Info("MIDI driver created for Windows")
	return &Driver{logger: options.Logger}, nil
}

// Name implements contracts.PortDriver.
func (d *Driver) Name() string { return contracts.DriverWinMM }

func (d *Driver) inputs() []device {
	count, _, _ := procMidiInGetNumDevs.Call()
	return enumerate(uint32(count), func(id uint32) (contracts.DeviceInfo, bool) {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(uintptr(id), uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps))
		if r1 != 0 {
			d.logger.Warn("Failed to get information for MIDI input", d.logger.Field().Int("device", int(id)))
			return contracts.DeviceInfo{}, false
		}
		name := windows.UTF16ToString(caps.szPname[:])
		return contracts.DeviceInfo{
			Name:         name,
			Direction:    contracts.PortInput,
			EntityName:   name,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		}, true
	})
}

func (d *Driver) outputs() []device {
	count, _, _ := procMidiOutGetNumDevs.Call()
	return enumerate(uint32(count), func(id uint32) (contracts.DeviceInfo, bool) {
		var caps midiOutCaps
		r1, _, _ := procMidiOutGetDevCaps.Call(uintptr(id), uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps))
		if r1 != 0 {
			d.logger.Warn("Failed to get information for MIDI output", d.logger.Field().Int("device", int(id)))
			return contracts.DeviceInfo{}, false
		}
		name := windows.UTF16ToString(caps.szPname[:])
		return contracts.DeviceInfo{
			Name:         name,
			Direction:    contracts.PortOutput,
			EntityName:   name,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		}, true
	})
}

// ListPorts lists every input and output device.
func (d *Driver) ListPorts() ([]contracts.DeviceInfo, error) {
	var devices []contracts.DeviceInfo
	for _, dev := range append(d.inputs(), d.outputs()...) {
		devices = append(devices, dev.info)
	}
	if len(devices) == 0 {
		d.logger.Warn("No MIDI devices found")
	}
	return devices, nil
}

// OpenOutput opens the output device called name.
func (d *Driver) OpenOutput(name string) (contracts.OutputPort, error) {
	id, err := findDevice(d.outputs(), name)
	if err != nil {
		return nil, err
	}

	var handle HMIDIOUT
	r1, _, callErr := procMidiOutOpen.Call(
		uintptr(unsafe.Pointer(&handle)),
		id,
		0,
		0,
		uintptr(CALLBACK_NULL),
	)
	if r1 != 0 {
		d.logger.Error("Failed to open MIDI output", d.logger.Field().String("port", name))
		return nil, fmt.Errorf("failed to open MIDI output %q (code %d): %v", name, r1, callErr)
	}
	return &outputPort{handle: handle}, nil
}

// OpenInput opens and starts the input device called name.
func (d *Driver) OpenInput(name string, handler func([]byte)) (contracts.InputPort, error) {
	id, err := findDevice(d.inputs(), name)
	if err != nil {
		return nil, err
	}

	callbackOnce.Do(func() {
		callbackPtr = windows.NewCallback(midiInCallback)
	})

	in := &inputPort{logger: d.logger, handler: handler}
	inputsMu.Lock()
	if inputs == nil {
		inputs = make(map[uintptr]*inputPort)
	}
	nextInputID++
	in.id = nextInputID
	inputs[in.id] = in
	inputsMu.Unlock()

	fdwOpen := CALLBACK_FUNCTION | MIDI_IO_STATUS
	r1, _, callErr := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&in.handle)),
		id,
		callbackPtr,
		in.id,
		uintptr(fdwOpen),
	)
	if r1 != 0 {
		in.forget()
		d.logger.Error("Failed to open MIDI input", d.logger.Field().String("port", name))
		return nil, fmt.Errorf("failed to open MIDI input %q (code %d): %v", name, r1, callErr)
	}

	r1, _, callErr = procMidiInStart.Call(uintptr(in.handle))
	if r1 != 0 {
		procMidiInClose.Call(uintptr(in.handle))
		in.forget()
		return nil, fmt.Errorf("failed to start MIDI input %q: %v", name, callErr)
	}

	d.logger.Info("MIDI input started", d.logger.Field().String("port", name))
	return in, nil
}

// Close implements contracts.PortDriver.
func (d *Driver) Close() error { return nil }

type outputPort struct {
	mu     sync.Mutex
	handle HMIDIOUT
}

// Send packs a channel message into a WinMM short message.
func (o *outputPort) Send(data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.handle == 0 {
		return contracts.ErrPortClosed
	}
	if len(data) == 0 || len(data) > 3 {
		return fmt.Errorf("short message must be 1-3 bytes, got %d", len(data))
	}
	var msg uint32
	for i, b := range data {
		msg |= uint32(b) << (8 * i)
	}
	r1, _, err := procMidiOutShortMsg.Call(uintptr(o.handle), uintptr(msg))
	if r1 != 0 {
		return fmt.Errorf("midiOutShortMsg failed (code %d): %v", r1, err)
	}
	return nil
}

func (o *outputPort) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.handle == 0 {
		return nil
	}
	r1, _, err := procMidiOutClose.Call(uintptr(o.handle))
	o.handle = 0
	if r1 != 0 {
		return fmt.Errorf("failed to close MIDI output: %v", err)
	}
	return nil
}

type inputPort struct {
	id      uintptr
	handle  HMIDIIN
	logger  contracts.Logger
	handler func([]byte)
}

func (in *inputPort) forget() {
	inputsMu.Lock()
	delete(inputs, in.id)
	inputsMu.Unlock()
}

// Close stops the capture and releases the device.
func (in *inputPort) Close() error {
	defer in.forget()

	if in.handle == 0 {
		return nil
	}
	r1, _, err := procMidiInStop.Call(uintptr(in.handle))
	if r1 != 0 {
		in.logger.Error("Failed to stop MIDI capture", in.logger.Field().Error("error", err))
		return err
	}
	r1, _, err = procMidiInClose.Call(uintptr(in.handle))
	if r1 != 0 {
		in.logger.Error("Failed to close MIDI device", in.logger.Field().Error("error", err))
		return err
	}
	in.handle = 0
	return nil
}

// midiInCallback processes incoming MIDI messages
func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	inputsMu.RLock()
	in := inputs[dwInstance]
	inputsMu.RUnlock()
	if in == nil {
		return 0
	}

	switch wMsg {
	case MIM_OPEN:
		in.logger.Info("MIDI device opened")
	case MIM_CLOSE:
		in.logger.Info("MIDI device closed")
	case MIM_DATA:
		in.handler([]byte{
			byte(dwParam1 & 0xFF),
			byte((dwParam1 >> 8) & 0xFF),
			byte((dwParam1 >> 16) & 0xFF),
		})
	case MIM_ERROR, MIM_LONGERROR:
		in.logger.Error(fmt.Sprintf("MIDI error: msg=0x%X", wMsg))
	case MIM_MOREDATA:
		in.logger.Debug("Received MIM_MOREDATA message; ignored")
	default:
		in.logger.Warn(fmt.Sprintf("Unknown MIDI message: 0x%X", wMsg))
	}

	return 0
}
