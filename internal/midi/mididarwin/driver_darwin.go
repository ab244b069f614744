//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for CoreMIDI connection and handling issues.
var (
	ErrNoMIDIDevices       = errors.New("no MIDI devices found")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
	ErrCreateOutputPort    = errors.New("error creating output port")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// Driver talks to CoreMIDI. Outputs are CoreMIDI destinations and inputs are
// sources; a synth usually exposes both under the same name.
type Driver struct {
	logger         contracts.Logger
	client         coremidi.Client           // CoreMIDI client instance for MIDI operations.
	coreMIDIConfig *contracts.CoreMIDIConfig // Configuration for MIDI client.
	mu             sync.Mutex                // Guards port creation on the shared client.
}

// NewDriver creates the CoreMIDI client named in options.CoreMIDIConfig.
func NewDriver(options *contracts.ClientOptions) (contracts.PortDriver, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrDriverUnavailable, err)
	}
	options.Logger.Info("CoreMIDI client successfully created",
		options.Logger.Field().String("client", options.CoreMIDIConfig.ClientName))

	return &Driver{
		logger:         options.Logger,
		client:         client,
		coreMIDIConfig: options.CoreMIDIConfig,
	}, nil
}

// Name implements contracts.PortDriver.
func (d *Driver) Name() string { return contracts.DriverCoreMIDI }

// ListPorts retrieves every CoreMIDI source and destination.
func (d *Driver) ListPorts() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI destinations: %w", err)
	}
	if len(sources) == 0 && len(destinations) == 0 {
		d.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, nil
	}

	devices := make([]contracts.DeviceInfo, 0, len(sources)+len(destinations))
	for _, source := range sources {
		entity := source.Entity()
		devices = append(devices, contracts.DeviceInfo{
			Name:         source.Name(),
			Direction:    contracts.PortInput,
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		})
	}
	for _, destination := range destinations {
		entity := destination.Entity()
		devices = append(devices, contracts.DeviceInfo{
			Name:         destination.Name(),
			Direction:    contracts.PortOutput,
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		})
	}
	return devices, nil
}

// OpenOutput creates an output port bound to the destination called name.
func (d *Driver) OpenOutput(name string) (contracts.OutputPort, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	destinations, err := coremidi.AllDestinations()
	if err != nil {
		return nil, fmt.Errorf("error retrieving MIDI destinations: %w", err)
	}
	for _, destination := range destinations {
		if destination.Name() != name {
			continue
		}
		port, err := coremidi.NewOutputPort(d.client, "Output Port")
		if err != nil {
			d.logger.Error(ErrCreateOutputPort.Error(), d.logger.Field().Error("error", err))
			return nil, fmt.Errorf("%w: %v", ErrCreateOutputPort, err)
		}
		d.logger.Info("MIDI destination selected", d.logger.Field().String("deviceName", name))
		return &outputPort{port: port, destination: destination}, nil
	}
	return nil, fmt.Errorf("%w: %s", contracts.ErrPortNotFound, name)
}

// OpenInput connects an input port to the source called name.
func (d *Driver) OpenInput(name string, handler func([]byte)) (contracts.InputPort, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	for _, source := range sources {
		if source.Name() != name {
			continue
		}
		inputPort, err := coremidi.NewInputPort(d.client, "Input Port", func(_ coremidi.Source, packet coremidi.Packet) {
			handler(packet.Data)
		})
		if err != nil {
			d.logger.Error(ErrCreateInputPort.Error(), d.logger.Field().Error("error", err))
			return nil, fmt.Errorf("%w: %v", ErrCreateInputPort, err)
		}
		conn, err := inputPort.Connect(source)
		if err != nil {
			d.logger.Error(ErrMIDIConnectionError.Error(), d.logger.Field().Error("error", err))
			return nil, fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
		}
		return &inputConn{conn: conn}, nil
	}
	return nil, fmt.Errorf("%w: %s", contracts.ErrPortNotFound, name)
}

// Close implements contracts.PortDriver. CoreMIDI releases the client when the process exits.
func (d *Driver) Close() error { return nil }

type outputPort struct {
	mu          sync.Mutex
	port        coremidi.OutputPort
	destination coremidi.Destination
	closed      bool
}

func (o *outputPort) Send(data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return contracts.ErrPortClosed
	}
	packet := coremidi.NewPacket(data, 0)
	return packet.Send(&o.port, &o.destination)
}

func (o *outputPort) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return nil
}

type inputConn struct {
	once sync.Once
	conn internalPortConnection
}

func (i *inputConn) Close() error {
	i.once.Do(i.conn.Disconnect)
	return nil
}
