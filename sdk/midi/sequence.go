package midi

import (
	"fmt"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// SendCC sends one Control Change message.
func (c *Client) SendCC(channel, cc, value int) error {
	return c.transmit("control change", func() ([]gomidi.Message, error) {
		msg, err := EncodeCC(channel, cc, value)
		if err != nil {
			return nil, err
		}
		return []gomidi.Message{msg}, nil
	}, c.logger.Field().Int("channel", channel), c.logger.Field().Int("cc", cc), c.logger.Field().Int("value", value))
}

// SendHighResCC sends a 14-bit value as an MSB/LSB controller pair.
func (c *Client) SendHighResCC(channel, ccMSB, ccLSB, value int) error {
	return c.transmit("high resolution control change", func() ([]gomidi.Message, error) {
		return EncodeHighResCC(channel, ccMSB, ccLSB, value)
	}, c.logger.Field().Int("channel", channel), c.logger.Field().Int("cc_msb", ccMSB),
		c.logger.Field().Int("cc_lsb", ccLSB), c.logger.Field().Int("value", value))
}

// SendNRPN sends the full four-message NRPN frame.
func (c *Client) SendNRPN(channel, nrpnMSB, nrpnLSB, value int) error {
	return c.transmit("NRPN", func() ([]gomidi.Message, error) {
		return EncodeNRPN(channel, nrpnMSB, nrpnLSB, value)
	}, c.logger.Field().Int("channel", channel), c.logger.Field().Int("nrpn_msb", nrpnMSB),
		c.logger.Field().Int("nrpn_lsb", nrpnLSB), c.logger.Field().Int("value", value))
}

// transmit holds the port lock for the whole frame. Arguments are validated
// before the first write, so a rejected frame leaves the wire untouched. A
// write failure stops the frame; messages already written are not retracted.
func (c *Client) transmit(op string, encode func() ([]gomidi.Message, error), fields ...contracts.Field) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected || c.output == nil {
		c.logger.Error("Not connected to any MIDI port", c.logger.Field().String("op", op))
		return ErrNotConnected
	}

	msgs, err := encode()
	if err != nil {
		c.logger.Error("Rejected MIDI "+op, append(fields, c.logger.Field().Error("error", err))...)
		return err
	}

	for i, msg := range msgs {
		if err := c.output.Send(msg); err != nil {
			c.logger.Error("Failed to send MIDI "+op,
				append(fields,
					c.logger.Field().Int("message", i+1),
					c.logger.Field().Int("of", len(msgs)),
					c.logger.Field().Error("error", err))...)
			return fmt.Errorf("%w: %s message %d of %d: %w", ErrTransport, op, i+1, len(msgs), err)
		}
		c.logMessage(msg)
	}

	c.logger.Debug("Sent MIDI "+op, append(fields, c.logger.Field().String("session", c.session))...)
	return nil
}

func (c *Client) logMessage(msg gomidi.Message) {
	var ch, cc, val uint8
	if msg.GetControlChange(&ch, &cc, &val) {
		c.logger.Debug("Sent control change",
			c.logger.Field().Uint8("channel", ch+1),
			c.logger.Field().Uint8("cc", cc),
			c.logger.Field().Uint8("value", val))
	}
}
