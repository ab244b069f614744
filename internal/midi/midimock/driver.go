// Package midimock is an in-memory port driver. It records every byte sent to
// its outputs and can inject failures, which makes it the driver of choice for
// tests and dry runs.
package midimock

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("injected MIDI failure")

// DefaultPorts mirrors the two synths the tool server drives.
func DefaultPorts() []string {
	return []string{"Elektron Digitone", "Moog Sub 37"}
}

// Driver implements contracts.PortDriver over a fixed set of virtual ports.
type Driver struct {
	logger contracts.Logger

	mu           sync.Mutex
	ports        []string
	sent         []Message
	sendCount    int
	failOnSend   int // 1-based send index that fails; 0 disables
	failOutput   bool
	failInput    bool
	failClose    bool
	handlers     map[string]func([]byte)
	openOutputs  int
	driverClosed bool
}

// Message is one recorded write.
type Message struct {
	Port string
	Data []byte
}

var _ contracts.PortDriver = (*Driver)(nil)

// NewDriver creates a driver exposing ports as both inputs and outputs.
func NewDriver(logger contracts.Logger, ports ...string) *Driver {
	return &Driver{
		logger:   logger,
		ports:    append([]string(nil), ports...),
		handlers: make(map[string]func([]byte)),
	}
}

// Name implements contracts.PortDriver.
func (d *Driver) Name() string { return contracts.DriverMock }

// SetPorts replaces the visible ports.
func (d *Driver) SetPorts(ports ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ports = append([]string(nil), ports...)
}

// FailOnSend makes the nth send from now on (1-based) return ErrInjected.
func (d *Driver) FailOnSend(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failOnSend = d.sendCount + n
}

// FailOutput makes OpenOutput fail.
func (d *Driver) FailOutput(fail bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failOutput = fail
}

// FailInput makes OpenInput fail.
func (d *Driver) FailInput(fail bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failInput = fail
}

// FailClose makes closing any port return ErrInjected.
func (d *Driver) FailClose(fail bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failClose = fail
}

// ListPorts implements contracts.PortDriver.
func (d *Driver) ListPorts() ([]contracts.DeviceInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	devices := make([]contracts.DeviceInfo, 0, len(d.ports)*2)
	for _, name := range d.ports {
		devices = append(devices,
			contracts.DeviceInfo{Name: name, Direction: contracts.PortInput, Manufacturer: "mock"},
			contracts.DeviceInfo{Name: name, Direction: contracts.PortOutput, Manufacturer: "mock"},
		)
	}
	return devices, nil
}

func (d *Driver) hasPortLocked(name string) bool {
	for _, p := range d.ports {
		if p == name {
			return true
		}
	}
	return false
}

// OpenOutput implements contracts.PortDriver.
func (d *Driver) OpenOutput(name string) (contracts.OutputPort, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.hasPortLocked(name) {
		return nil, fmt.Errorf("%w: %s", contracts.ErrPortNotFound, name)
	}
	if d.failOutput {
		return nil, ErrInjected
	}
	d.openOutputs++
	return &outputPort{driver: d, name: name}, nil
}

// OpenInput implements contracts.PortDriver.
func (d *Driver) OpenInput(name string, handler func([]byte)) (contracts.InputPort, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.hasPortLocked(name) {
		return nil, fmt.Errorf("%w: %s", contracts.ErrPortNotFound, name)
	}
	if d.failInput {
		return nil, ErrInjected
	}
	d.handlers[name] = handler
	return &inputPort{driver: d, name: name}, nil
}

// Inject delivers data to the handler registered for port, as if the device sent it.
func (d *Driver) Inject(port string, data []byte) bool {
	d.mu.Lock()
	handler := d.handlers[port]
	d.mu.Unlock()

	if handler == nil {
		return false
	}
	handler(data)
	return true
}

// Messages returns a copy of every successful write, in order.
func (d *Driver) Messages() []Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Message(nil), d.sent...)
}

// Bytes returns the data of every successful write, in order.
func (d *Driver) Bytes() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(d.sent))
	for i, m := range d.sent {
		out[i] = m.Data
	}
	return out
}

// Reset forgets recorded writes and pending failures.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = nil
	d.sendCount = 0
	d.failOnSend = 0
}

// OpenOutputs returns how many output ports are currently open.
func (d *Driver) OpenOutputs() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.openOutputs
}

// Closed reports whether Close was called.
func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.driverClosed
}

// Close implements contracts.PortDriver.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.driverClosed = true
	return nil
}

type outputPort struct {
	driver *Driver
	name   string
	closed bool
}

func (p *outputPort) Send(data []byte) error {
	d := p.driver
	d.mu.Lock()
	defer d.mu.Unlock()

	if p.closed {
		return contracts.ErrPortClosed
	}
	d.sendCount++
	if d.failOnSend != 0 && d.sendCount == d.failOnSend {
		return ErrInjected
	}
	d.sent = append(d.sent, Message{Port: p.name, Data: append([]byte(nil), data...)})
	if d.logger != nil {
		d.logger.Debug("mock port write",
			d.logger.Field().String("port", p.name),
			d.logger.Field().Int("bytes", len(data)))
	}
	return nil
}

func (p *outputPort) Close() error {
	d := p.driver
	d.mu.Lock()
	defer d.mu.Unlock()

	if !p.closed {
		p.closed = true
		d.openOutputs--
	}
	if d.failClose {
		return ErrInjected
	}
	return nil
}

type inputPort struct {
	driver *Driver
	name   string
}

func (p *inputPort) Close() error {
	d := p.driver
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.handlers, p.name)
	if d.failClose {
		return ErrInjected
	}
	return nil
}
