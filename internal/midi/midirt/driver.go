//go:build cgo
// +build cgo

// Package midirt drives ALSA, JACK and other RtMidi backends through gomidi.
package midirt

import (
	"fmt"
	"sync"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Driver wraps an rtmididrv.Driver.
type Driver struct {
	logger contracts.Logger
	mu     sync.Mutex
	drv    *rtmididrv.Driver
}

// NewDriver initialises the rtmidi backend.
func NewDriver(options *contracts.ClientOptions) (contracts.PortDriver, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("%w: rtmididrv: %v", contracts.ErrDriverUnavailable, err)
	}
	options.Logger.Info("RtMidi driver created")
	return &Driver{logger: options.Logger, drv: drv}, nil
}

// Name implements contracts.PortDriver.
func (d *Driver) Name() string { return contracts.DriverRtMidi }

// ListPorts implements contracts.PortDriver.
func (d *Driver) ListPorts() ([]contracts.DeviceInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ins, err := d.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("list inputs: %w", err)
	}
	outs, err := d.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}

	devices := make([]contracts.DeviceInfo, 0, len(ins)+len(outs))
	for _, in := range ins {
		devices = append(devices, contracts.DeviceInfo{Name: in.String(), Direction: contracts.PortInput})
	}
	for _, out := range outs {
		devices = append(devices, contracts.DeviceInfo{Name: out.String(), Direction: contracts.PortOutput})
	}
	return devices, nil
}

// OpenOutput implements contracts.PortDriver.
func (d *Driver) OpenOutput(name string) (contracts.OutputPort, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	outs, err := d.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	for _, out := range outs {
		if out.String() != name {
			continue
		}
		if err := out.Open(); err != nil {
			return nil, fmt.Errorf("open %q: %w", name, err)
		}
		d.logger.Debug("rtmidi output opened", d.logger.Field().String("port", name))
		return &outputPort{out: out}, nil
	}
	return nil, fmt.Errorf("%w: %s", contracts.ErrPortNotFound, name)
}

// OpenInput implements contracts.PortDriver.
func (d *Driver) OpenInput(name string, handler func([]byte)) (contracts.InputPort, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ins, err := d.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("list inputs: %w", err)
	}
	var found drivers.In
	for _, in := range ins {
		if in.String() == name {
			found = in
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", contracts.ErrPortNotFound, name)
	}
	if err := found.Open(); err != nil {
		return nil, fmt.Errorf("open %q: %w", name, err)
	}

	stop, err := gomidi.ListenTo(found, func(msg gomidi.Message, _ int32) {
		handler(msg.Bytes())
	}, gomidi.HandleError(func(listenErr error) {
		d.logger.Warn("rtmidi listener error",
			d.logger.Field().String("port", name),
			d.logger.Field().Error("error", listenErr))
	}))
	if err != nil {
		_ = found.Close()
		return nil, fmt.Errorf("listen %q: %w", name, err)
	}
	return &inputPort{in: found, stop: stop}, nil
}

// Close implements contracts.PortDriver.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.drv.Close()
}

type outputPort struct {
	out drivers.Out
}

func (o *outputPort) Send(data []byte) error {
	if !o.out.IsOpen() {
		return contracts.ErrPortClosed
	}
	return o.out.Send(data)
}

func (o *outputPort) Close() error {
	return o.out.Close()
}

type inputPort struct {
	once sync.Once
	in   drivers.In
	stop func()
}

func (i *inputPort) Close() error {
	var err error
	i.once.Do(func() {
		i.stop()
		err = i.in.Close()
	})
	return err
}
