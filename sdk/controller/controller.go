// Package controller turns named parameter updates into MIDI sends. One
// generic ParameterController serves every section of every instrument.
package controller

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"github.com/leandrodaf/synthmidi/sdk/params"
	"go.uber.org/multierr"
)

var (
	ErrNoAddressing = errors.New("no MIDI addressing for parameter")
	ErrNoCCAddress  = errors.New("parameter has no CC number")
	ErrNoNRPN       = errors.New("parameter has no NRPN number")
)

// Sender is the part of the transport the controller needs.
type Sender interface {
	SendCC(channel, cc, value int) error
	SendHighResCC(channel, ccMSB, ccLSB, value int) error
	SendNRPN(channel, nrpnMSB, nrpnLSB, value int) error
}

// ParameterController sends updates for the parameters of one section on one channel.
type ParameterController struct {
	sender  Sender
	section *params.Section
	channel int
	logger  contracts.Logger
}

// New binds a controller to section and channel.
func New(sender Sender, section *params.Section, channel int, logger contracts.Logger) *ParameterController {
	return &ParameterController{sender: sender, section: section, channel: channel, logger: logger}
}

// ForSection looks the section up in registry and binds a controller to it.
func ForSection(sender Sender, registry *params.Registry, instrument, section string, channel int, logger contracts.Logger) (*ParameterController, error) {
	inst, err := registry.Instrument(instrument)
	if err != nil {
		return nil, err
	}
	sec, err := inst.Section(section)
	if err != nil {
		return nil, err
	}
	return New(sender, sec, channel, logger), nil
}

// Section returns the bound section.
func (c *ParameterController) Section() *params.Section { return c.section }

// Channel returns the bound MIDI channel.
func (c *ParameterController) Channel() int { return c.channel }

// WithChannel returns a copy of the controller bound to another channel.
func (c *ParameterController) WithChannel(channel int) *ParameterController {
	clone := *c
	clone.channel = channel
	return &clone
}

func (c *ParameterController) lookup(page, name string) (params.Descriptor, error) {
	d, err := c.section.Parameter(page, name)
	if err != nil {
		return params.Descriptor{}, fmt.Errorf("%s: %w", c.section.Instrument, err)
	}
	return d, nil
}

// SetParameter sends value as a plain CC to a page-scoped parameter. The
// value must lie in the parameter's MIDI range.
func (c *ParameterController) SetParameter(page, name string, value int) error {
	d, err := c.lookup(page, name)
	if err != nil {
		return err
	}
	if err := c.validate(d, value); err != nil {
		return err
	}
	return c.SendCC(d, value)
}

// SetParameterNRPN sends value to a page-scoped parameter, NRPN first.
func (c *ParameterController) SetParameterNRPN(page, name string, value int) error {
	d, err := c.lookup(page, name)
	if err != nil {
		return err
	}
	return c.SendNRPNFirst(d, value)
}

// SetDirectParameter sends value as a plain CC to a parameter of a flat section.
func (c *ParameterController) SetDirectParameter(name string, value int) error {
	return c.SetParameter(params.DirectPage, name, value)
}

// SetDirectParameterNRPN sends value to a parameter of a flat section, NRPN first.
func (c *ParameterController) SetDirectParameterNRPN(name string, value int) error {
	return c.SetParameterNRPN(params.DirectPage, name, value)
}

// SetOption resolves an option name and sends it with the parameter's preferred protocol.
func (c *ParameterController) SetOption(page, name, option string) error {
	d, err := c.lookup(page, name)
	if err != nil {
		return err
	}
	value, err := d.OptionValue(option)
	if err != nil {
		return err
	}
	return c.dispatch(d, value)
}

// SetScaled converts a display value (e.g. pan -64..64) to MIDI and sends it.
func (c *ParameterController) SetScaled(page, name string, display float64) error {
	d, err := c.lookup(page, name)
	if err != nil {
		return err
	}
	value, err := d.Scale(display)
	if err != nil {
		return err
	}
	return c.dispatch(d, value)
}

// Apply sends value using the protocol the descriptor's addressing calls for:
// NRPN when there is only an NRPN number, a controller pair for high resolution
// CC, and a plain CC otherwise. Fixed-value parameters ignore value.
func (c *ParameterController) Apply(d params.Descriptor, value int) error {
	if d.Fixed != nil {
		value = *d.Fixed
	}
	if err := c.validate(d, value); err != nil {
		return err
	}
	return c.dispatch(d, value)
}

func (c *ParameterController) validate(d params.Descriptor, value int) error {
	if err := d.Validate(value); err != nil {
		c.logger.Error("Rejected parameter value",
			c.logger.Field().String("parameter", d.Name),
			c.logger.Field().Int("value", value),
			c.logger.Field().Error("error", err))
		return err
	}
	return nil
}

func (c *ParameterController) dispatch(d params.Descriptor, value int) error {
	switch d.Addressing.Kind() {
	case params.NRPNOnly:
		return c.SendNRPN(d, value)
	case params.CCOnly:
		return c.SendCC(d, value)
	case params.CCAndNRPN:
		return c.SendNRPNFirst(d, value)
	default:
		return fmt.Errorf("%w: %s", ErrNoAddressing, d.Name)
	}
}

// SendCC sends value on the descriptor's controller, as a pair when it has an LSB.
func (c *ParameterController) SendCC(d params.Descriptor, value int) error {
	cc, ok := d.Addressing.CC()
	if !ok {
		c.logger.Error("No CC MSB defined", c.logger.Field().String("parameter", d.Name))
		return fmt.Errorf("%w: %s", ErrNoCCAddress, d.Name)
	}

	var err error
	if cc.HighRes() {
		err = c.sender.SendHighResCC(c.channel, cc.MSB, cc.LSB, value)
	} else {
		err = c.sender.SendCC(c.channel, cc.MSB, value)
	}
	if err != nil {
		return fmt.Errorf("set %s: %w", d.Name, err)
	}
	c.logger.Debug("Set parameter using CC",
		c.logger.Field().String("parameter", d.Name),
		c.logger.Field().Int("value", value))
	return nil
}

// SendNRPN sends value as an NRPN frame.
func (c *ParameterController) SendNRPN(d params.Descriptor, value int) error {
	nrpn, ok := d.Addressing.NRPN()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoNRPN, d.Name)
	}
	if err := c.sender.SendNRPN(c.channel, nrpn.MSB, nrpn.LSB, value); err != nil {
		return fmt.Errorf("set %s: %w", d.Name, err)
	}
	c.logger.Debug("Set parameter using NRPN",
		c.logger.Field().String("parameter", d.Name),
		c.logger.Field().Int("value", value))
	return nil
}

// SendNRPNFirst tries NRPN when the descriptor has both NRPN bytes and falls
// back to a plain CC on failure. A CC-only descriptor goes straight to CC.
func (c *ParameterController) SendNRPNFirst(d params.Descriptor, value int) error {
	_, hasNRPN := d.Addressing.NRPN()
	cc, hasCC := d.Addressing.CC()

	switch {
	case !hasNRPN && !hasCC:
		c.logger.Error("No addressing defined", c.logger.Field().String("parameter", d.Name))
		return fmt.Errorf("%w: %s", ErrNoAddressing, d.Name)
	case !hasNRPN:
		c.logger.Debug("No NRPN mapping, using CC", c.logger.Field().String("parameter", d.Name))
		return c.SendCC(d, value)
	}

	nrpnErr := c.SendNRPN(d, value)
	if nrpnErr == nil || !hasCC {
		return nrpnErr
	}

	c.logger.Warn("NRPN failed, trying CC",
		c.logger.Field().String("parameter", d.Name),
		c.logger.Field().Error("error", nrpnErr))
	if err := c.sender.SendCC(c.channel, cc.MSB, value); err != nil {
		c.logger.Error("Failed to set parameter",
			c.logger.Field().String("parameter", d.Name),
			c.logger.Field().Error("error", err))
		return fmt.Errorf("set %s: %w", d.Name, multierr.Combine(nrpnErr, err))
	}
	c.logger.Debug("Set parameter using CC",
		c.logger.Field().String("parameter", d.Name),
		c.logger.Field().Int("value", value))
	return nil
}
