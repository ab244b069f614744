package contracts

// Event is a channel message received on the input port.
type Event struct {
	Timestamp uint64 // Timestamp indicates when the event was received (unix nanoseconds).
	Status    byte   // Status byte: command in the high nibble, channel in the low nibble.
	Data1     byte   // First data byte (note or controller number).
	Data2     byte   // Second data byte (velocity or controller value).
}

// Command returns the message type without the channel bits.
func (e Event) Command() MIDICommand {
	return MIDICommand(e.Status & 0xF0)
}

// Channel returns the 1-based channel of the event.
func (e Event) Channel() int {
	return int(e.Status&0x0F) + 1
}

// ClientMIDI is the transport: the single place where MIDI bytes leave the process.
//
// Channels are 1-16 at this boundary. Every Send method fails without writing
// when the client is disconnected or any argument is out of range, and a
// multi-message frame is never interleaved with another caller's frame.
type ClientMIDI interface {
	// ListPorts returns the union of input and output port names.
	ListPorts() ([]string, error)
	// ListDevices returns every port with its direction and vendor details.
	ListDevices() ([]DeviceInfo, error)
	// Connect opens the output (required) and the input (best effort) of portName.
	Connect(portName string) error
	// AutoConnect connects to the first output whose name contains match, ignoring case.
	AutoConnect(match string) error
	// Disconnect closes both handles. Safe to call repeatedly.
	Disconnect() error
	IsConnected() bool
	PortName() string

	SendCC(channel, cc, value int) error
	SendHighResCC(channel, ccMSB, ccLSB, value int) error
	SendNRPN(channel, nrpnMSB, nrpnLSB, value int) error

	// StartCapture forwards messages from the input port to eventChannel.
	StartCapture(eventChannel chan Event)
	// Stop ends capture and disconnects.
	Stop() error
}

// OutputPort writes raw MIDI bytes to one device port.
type OutputPort interface {
	Send(data []byte) error
	Close() error
}

// InputPort is an open input connection; incoming bytes go to the handler given to OpenInput.
type InputPort interface {
	Close() error
}

// PortDriver abstracts an operating system MIDI API.
type PortDriver interface {
	Name() string
	ListPorts() ([]DeviceInfo, error)
	OpenOutput(name string) (OutputPort, error)
	OpenInput(name string, handler func(data []byte)) (InputPort, error)
	Close() error
}
