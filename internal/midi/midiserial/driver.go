// Package midiserial writes MIDI to a serial line: a DIN interface on a UART,
// or a USB serial bridge running at a higher rate.
package midiserial

import (
	"fmt"
	"sync"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"go.bug.st/serial"
)

// Opener opens a serial port. Tests swap it out.
type Opener func(name string, mode *serial.Mode) (serial.Port, error)

// Lister enumerates serial ports.
type Lister func() ([]string, error)

// Driver exposes every serial port as a MIDI output. Serial ports have no
// input side here; OpenInput always fails with ErrInputNotSupported.
type Driver struct {
	logger   contracts.Logger
	baudRate int
	open     Opener
	list     Lister
}

// NewDriver creates a serial driver using options.SerialConfig.
func NewDriver(options *contracts.ClientOptions) (contracts.PortDriver, error) {
	return New(options.Logger, options.SerialConfig.BaudRate, serial.Open, serial.GetPortsList), nil
}

// New creates a serial driver with explicit port functions.
func New(logger contracts.Logger, baudRate int, open Opener, list Lister) *Driver {
	return &Driver{logger: logger, baudRate: baudRate, open: open, list: list}
}

// Name implements contracts.PortDriver.
func (d *Driver) Name() string { return contracts.DriverSerial }

// ListPorts implements contracts.PortDriver.
func (d *Driver) ListPorts() ([]contracts.DeviceInfo, error) {
	names, err := d.list()
	if err != nil {
		return nil, fmt.Errorf("serial: list ports: %w", err)
	}
	devices := make([]contracts.DeviceInfo, 0, len(names))
	for _, name := range names {
		devices = append(devices, contracts.DeviceInfo{Name: name, Direction: contracts.PortOutput})
	}
	return devices, nil
}

// OpenOutput implements contracts.PortDriver.
func (d *Driver) OpenOutput(name string) (contracts.OutputPort, error) {
	port, err := d.open(name, &serial.Mode{BaudRate: d.baudRate})
	if err != nil {
		d.logger.Error("serial: failed to open port",
			d.logger.Field().String("device", name),
			d.logger.Field().Int("baud", d.baudRate),
			d.logger.Field().Error("error", err))
		return nil, fmt.Errorf("serial: open %q: %w", name, err)
	}
	d.logger.Info("serial: port opened",
		d.logger.Field().String("device", name),
		d.logger.Field().Int("baud", d.baudRate))
	return &outputPort{port: port}, nil
}

// OpenInput implements contracts.PortDriver.
func (d *Driver) OpenInput(name string, _ func([]byte)) (contracts.InputPort, error) {
	return nil, fmt.Errorf("%w: serial %s", contracts.ErrInputNotSupported, name)
}

// Close implements contracts.PortDriver.
func (d *Driver) Close() error { return nil }

type outputPort struct {
	mu     sync.Mutex
	port   serial.Port
	closed bool
}

func (o *outputPort) Send(data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return contracts.ErrPortClosed
	}
	n, err := o.port.Write(data)
	if err != nil {
		return fmt.Errorf("serial: write: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("serial: short write: %d of %d bytes", n, len(data))
	}
	return nil
}

func (o *outputPort) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true
	return o.port.Close()
}
