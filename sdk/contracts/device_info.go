package contracts

// PortDirection tells whether a port receives from or sends to the device.
type PortDirection string

const (
	// PortInput carries messages from the device into the process.
	PortInput PortDirection = "input"
	// PortOutput carries messages from the process to the device.
	PortOutput PortDirection = "output"
)

// DeviceInfo contains information about a MIDI port.
type DeviceInfo struct {
	Name         string        // Port name, as accepted by Connect.
	Direction    PortDirection // Input or output.
	Manufacturer string        // Device manufacturer, when the driver reports one.
	EntityName   string        // Name of the entity to which the port belongs.
}
