package contracts

// MIDICommand represents the types of MIDI commands for event filtering.
type MIDICommand byte

const (
	// NoteOff is the MIDI command for a Note Off event (0x80).
	NoteOff MIDICommand = 0x80
	// NoteOn is the MIDI command for a Note On event (0x90).
	NoteOn MIDICommand = 0x90
	// ControlChange is the MIDI command for a Control Change message (0xB0).
	ControlChange MIDICommand = 0xB0
)

// MIDIEventFilter allows users to specify which MIDI commands to capture.
type MIDIEventFilter struct {
	Commands []MIDICommand // List of MIDI commands to forward.
}

// Driver names accepted by WithDriverName.
const (
	DriverCoreMIDI = "coremidi"
	DriverWinMM    = "winmm"
	DriverRtMidi   = "rtmidi"
	DriverSerial   = "serial"
	DriverMock     = "mock"
)

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
}

// SerialConfig configures the serial line driver.
type SerialConfig struct {
	BaudRate int // 31250 for a DIN interface, 115200 for most USB serial bridges.
}

// ClientOptions defines the configuration options for the MIDI client.
type ClientOptions struct {
	Logger          Logger           // Logger for logging events and errors.
	LogLevel        LogLevel         // Level of logging to use.
	LogFilePath     string           // When set, logs are written to this file instead of stderr.
	Driver          PortDriver       // Explicit driver; takes precedence over DriverName.
	DriverName      string           // Driver selected by name; empty picks one for the current OS.
	MIDIEventFilter *MIDIEventFilter // Optional filter for captured input events.
	CoreMIDIConfig  *CoreMIDIConfig  // Configuration specific to CoreMIDI.
	SerialConfig    *SerialConfig    // Configuration specific to the serial driver.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the MIDI client.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the MIDI client.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithLogFile sends the client's logs to path.
func WithLogFile(path string) Option {
	return func(opts *ClientOptions) {
		opts.LogFilePath = path
	}
}

// WithDriver injects a port driver, bypassing OS detection.
func WithDriver(d PortDriver) Option {
	return func(opts *ClientOptions) {
		opts.Driver = d
	}
}

// WithDriverName selects one of the built-in drivers.
func WithDriverName(name string) Option {
	return func(opts *ClientOptions) {
		opts.DriverName = name
	}
}

// WithMIDIEventFilter sets the MIDI event filter for the MIDI client.
func WithMIDIEventFilter(filter MIDIEventFilter) Option {
	return func(opts *ClientOptions) {
		opts.MIDIEventFilter = &filter
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration for the MIDI client.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *ClientOptions) {
		opts.CoreMIDIConfig = &config
	}
}

// WithSerialConfig sets the serial driver configuration.
func WithSerialConfig(config SerialConfig) Option {
	return func(opts *ClientOptions) {
		opts.SerialConfig = &config
	}
}
