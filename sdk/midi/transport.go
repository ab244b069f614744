package midi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"go.uber.org/multierr"
)

// Transport errors.
var (
	ErrNotConnected = errors.New("not connected to any MIDI port")
	ErrPortOpen     = errors.New("error opening MIDI port")
	ErrTransport    = errors.New("error sending MIDI message")
)

// Client owns the single output port (and optional input port) of the process.
// All sends are serialized on mu so multi-message frames reach the wire intact.
type Client struct {
	logger          contracts.Logger
	driver          contracts.PortDriver
	midiEventFilter *contracts.MIDIEventFilter

	mu        sync.Mutex
	output    contracts.OutputPort
	input     contracts.InputPort
	portName  string
	session   string
	connected bool

	captureMu    sync.RWMutex // held for reading while an input callback runs
	eventChannel chan contracts.Event
	capturing    bool
	stopOnce     sync.Once
}

var _ contracts.ClientMIDI = (*Client)(nil)

func newClient(options *contracts.ClientOptions, driver contracts.PortDriver) *Client {
	options.Logger.Info("MIDI client created", options.Logger.Field().String("driver", driver.Name()))
	return &Client{
		logger:          options.Logger,
		driver:          driver,
		midiEventFilter: options.MIDIEventFilter,
	}
}

// ListDevices returns every port the driver can see.
func (c *Client) ListDevices() ([]contracts.DeviceInfo, error) {
	devices, err := c.driver.ListPorts()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI ports: %w", err)
	}
	return devices, nil
}

// ListPorts returns the sorted union of input and output port names.
func (c *Client) ListPorts() ([]string, error) {
	devices, err := c.ListDevices()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(devices))
	names := make([]string, 0, len(devices))
	for _, d := range devices {
		if _, ok := seen[d.Name]; ok {
			continue
		}
		seen[d.Name] = struct{}{}
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Connect closes any existing connection, then opens portName. The output
// port is required; failing to open the input only downgrades the connection
// to output-only.
func (c *Client) Connect(portName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.disconnectLocked(); err != nil {
		c.logger.Warn("Error closing previous MIDI connection", c.logger.Field().Error("error", err))
	}

	output, err := c.driver.OpenOutput(portName)
	if err != nil {
		c.logger.Error("Failed to connect to MIDI port",
			c.logger.Field().String("port", portName),
			c.logger.Field().Error("error", err))
		return fmt.Errorf("%w %q: %w", ErrPortOpen, portName, err)
	}
	c.output = output

	input, err := c.driver.OpenInput(portName, c.handleMIDIMessage)
	if err != nil {
		c.logger.Warn("Could not open input port; continuing output-only",
			c.logger.Field().String("port", portName),
			c.logger.Field().Error("error", err))
	} else {
		c.input = input
	}

	c.portName = portName
	c.session = uuid.NewString()
	c.connected = true
	c.logger.Info("Connected to MIDI port",
		c.logger.Field().String("port", portName),
		c.logger.Field().String("session", c.session),
		c.logger.Field().Bool("input", c.input != nil))
	return nil
}

// AutoConnect connects to the first output port, in name order, whose name contains match.
func (c *Client) AutoConnect(match string) error {
	devices, err := c.ListDevices()
	if err != nil {
		return err
	}

	needle := strings.ToLower(match)
	var candidates []string
	for _, d := range devices {
		if d.Direction == contracts.PortOutput && strings.Contains(strings.ToLower(d.Name), needle) {
			candidates = append(candidates, d.Name)
		}
	}
	if len(candidates) == 0 {
		names, _ := c.ListPorts()
		c.logger.Warn("No matching MIDI device found",
			c.logger.Field().String("match", match),
			c.logger.Field().String("available", strings.Join(names, ", ")))
		return fmt.Errorf("%w: no output matching %q", contracts.ErrPortNotFound, match)
	}
	sort.Strings(candidates)
	return c.Connect(candidates[0])
}

// Disconnect closes both ports. It is idempotent and always leaves the client
// disconnected, even when closing a port fails.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disconnectLocked()
}

func (c *Client) disconnectLocked() error {
	var err error
	if c.input != nil {
		err = multierr.Append(err, c.input.Close())
		c.input = nil
	}
	if c.output != nil {
		err = multierr.Append(err, c.output.Close())
		c.output = nil
	}
	if c.connected {
		c.logger.Info("Disconnected from MIDI port",
			c.logger.Field().String("port", c.portName),
			c.logger.Field().String("session", c.session))
	}
	c.connected = false
	c.portName = ""
	c.session = ""
	return err
}

// IsConnected reports whether an output port is open.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// PortName returns the connected port name.
func (c *Client) PortName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.portName
}

// handleMIDIMessage turns raw input bytes into an Event for the capture channel.
func (c *Client) handleMIDIMessage(data []byte) {
	c.captureMu.RLock()
	defer c.captureMu.RUnlock()

	if !c.capturing || c.eventChannel == nil {
		return
	}
	eventChannel := c.eventChannel

	if len(data) < 2 || data[0] < 0x80 || data[0] >= 0xF0 {
		c.logger.Debug("Ignoring non-channel MIDI input", c.logger.Field().Int("length", len(data)))
		return
	}

	event := contracts.Event{
		Timestamp: uint64(time.Now().UTC().UnixNano()),
		Status:    data[0],
		Data1:     data[1],
	}
	if len(data) > 2 {
		event.Data2 = data[2]
	}

	if c.midiEventFilter != nil && !isCommandAllowed(event.Command(), c.midiEventFilter.Commands) {
		return
	}
	select {
	case eventChannel <- event:
	default:
		c.logger.Warn("Event buffer full; dropping MIDI event")
	}
}

// isCommandAllowed verifies if a MIDI command is allowed based on the event filter configuration.
func isCommandAllowed(command contracts.MIDICommand, allowedCommands []contracts.MIDICommand) bool {
	for _, allowedCommand := range allowedCommands {
		if command == allowedCommand {
			return true
		}
	}
	return false
}

// StartCapture forwards input events to eventChannel. Without an open input
// port nothing is delivered.
func (c *Client) StartCapture(eventChannel chan contracts.Event) {
	if eventChannel == nil {
		c.logger.Error("StartCapture called with nil eventChannel")
		return
	}
	c.captureMu.Lock()
	c.eventChannel = eventChannel
	c.capturing = true
	c.captureMu.Unlock()

	c.mu.Lock()
	hasInput := c.input != nil
	c.mu.Unlock()
	if !hasInput {
		c.logger.Warn("Capture started without an input port; no events will arrive")
		return
	}
	c.logger.Info("Starting MIDI event capture")
}

// Stop halts capture, disconnects and releases the driver. Only the first call has any effect.
// Once capture is switched off no callback still in progress can deliver an event.
func (c *Client) Stop() error {
	var err error
	c.stopOnce.Do(func() {
		c.logger.Info("Stopping MIDI client")
		c.stopCapture()
		err = multierr.Combine(c.Disconnect(), c.driver.Close())
	})
	return err
}

// stopCapture waits for running input callbacks and turns capture off.
func (c *Client) stopCapture() {
	c.captureMu.Lock()
	c.capturing = false
	c.eventChannel = nil
	c.captureMu.Unlock()
}
