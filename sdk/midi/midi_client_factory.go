package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/synthmidi/internal/midi/mididarwin"
	"github.com/leandrodaf/synthmidi/internal/midi/midimock"
	"github.com/leandrodaf/synthmidi/internal/midi/midirt"
	"github.com/leandrodaf/synthmidi/internal/midi/midiserial"
	"github.com/leandrodaf/synthmidi/internal/midi/midiwindows"
	"github.com/leandrodaf/synthmidi/sdk/contracts"
)

// ErrUnsupportedDriver is returned when no driver is registered under the requested name.
var ErrUnsupportedDriver = errors.New("unsupported MIDI driver")

// driverInitializers maps driver names to the constructors of their port drivers.
var driverInitializers = map[string]func(*contracts.ClientOptions) (contracts.PortDriver, error){
	contracts.DriverCoreMIDI: mididarwin.NewDriver,  // macOS CoreMIDI.
	contracts.DriverWinMM:    midiwindows.NewDriver, // Windows multimedia API.
	contracts.DriverRtMidi:   midirt.NewDriver,      // RtMidi through gomidi (ALSA, JACK).
	contracts.DriverSerial:   midiserial.NewDriver,  // Serial line or USB serial bridge.
	contracts.DriverMock:     newMockDriver,         // In-memory ports for dry runs.
}

// defaultDrivers picks a driver when none is named.
var defaultDrivers = map[string]string{
	"darwin":  contracts.DriverCoreMIDI,
	"windows": contracts.DriverWinMM,
}

// DefaultDriverName returns the driver used on the current operating system.
func DefaultDriverName() string {
	if name, ok := defaultDrivers[runtime.GOOS]; ok {
		return name
	}
	return contracts.DriverRtMidi
}

// NewDriver resolves the port driver for opts. An injected driver wins over
// DriverName, and an empty DriverName selects the operating system default.
func NewDriver(opts *contracts.ClientOptions) (contracts.PortDriver, error) {
	if opts.Driver != nil {
		return opts.Driver, nil
	}

	name := opts.DriverName
	if name == "" {
		name = DefaultDriverName()
	}
	if initializer, exists := driverInitializers[name]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, name)
}

func newMockDriver(opts *contracts.ClientOptions) (contracts.PortDriver, error) {
	return midimock.NewDriver(opts.Logger, midimock.DefaultPorts()...), nil
}
