package midi

import (
	"errors"
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Validation errors. They are returned before any byte is written.
var (
	ErrInvalidChannel = errors.New("invalid MIDI channel")
	ErrInvalidValue   = errors.New("value out of range")
)

// Controller numbers that carry an NRPN frame.
const (
	NRPNParameterMSB = 99
	NRPNParameterLSB = 98
	DataEntryMSB     = 6
	DataEntryLSB     = 38
)

// Value bounds.
const (
	MaxDataValue    = 0x7F
	MaxHighResValue = 0x3FFF
)

// ChannelIndex converts a user-facing channel (1-16) to its wire value (0-15).
func ChannelIndex(channel int) (uint8, error) {
	if channel < 1 || channel > 16 {
		return 0, fmt.Errorf("%w: %d, must be between 1-16", ErrInvalidChannel, channel)
	}
	return uint8(channel - 1), nil
}

// SplitHighRes decomposes a 14-bit value into its most and least significant 7 bits.
func SplitHighRes(value int) (msb, lsb uint8, err error) {
	if value < 0 || value > MaxHighResValue {
		return 0, 0, fmt.Errorf("%w: %d, must be between 0-%d", ErrInvalidValue, value, MaxHighResValue)
	}
	return uint8((value >> 7) & 0x7F), uint8(value & 0x7F), nil
}

// JoinHighRes is the inverse of SplitHighRes.
func JoinHighRes(msb, lsb uint8) int {
	return int(msb&0x7F)<<7 | int(lsb&0x7F)
}

func dataByte(name string, v int) (uint8, error) {
	if v < 0 || v > MaxDataValue {
		return 0, fmt.Errorf("%w: %s %d, must be between 0-%d", ErrInvalidValue, name, v, MaxDataValue)
	}
	return uint8(v), nil
}

// EncodeCC builds a single Control Change message.
func EncodeCC(channel, cc, value int) (gomidi.Message, error) {
	ch, err := ChannelIndex(channel)
	if err != nil {
		return nil, err
	}
	controller, err := dataByte("controller", cc)
	if err != nil {
		return nil, err
	}
	v, err := dataByte("value", value)
	if err != nil {
		return nil, err
	}
	return gomidi.ControlChange(ch, controller, v), nil
}

// EncodeHighResCC builds the MSB/LSB controller pair for a 14-bit value, MSB first.
func EncodeHighResCC(channel, ccMSB, ccLSB, value int) ([]gomidi.Message, error) {
	ch, err := ChannelIndex(channel)
	if err != nil {
		return nil, err
	}
	msbController, err := dataByte("cc_msb", ccMSB)
	if err != nil {
		return nil, err
	}
	lsbController, err := dataByte("cc_lsb", ccLSB)
	if err != nil {
		return nil, err
	}
	msb, lsb, err := SplitHighRes(value)
	if err != nil {
		return nil, err
	}
	return []gomidi.Message{
		gomidi.ControlChange(ch, msbController, msb),
		gomidi.ControlChange(ch, lsbController, lsb),
	}, nil
}

// EncodeNRPN builds the four-message NRPN frame: CC99, CC98, CC6, CC38.
//
// The frame is always complete. A value below 128 yields a data entry MSB of
// zero and carries the value in the LSB; callers that want coarse MSB-only
// semantics must shift the value themselves.
func EncodeNRPN(channel, nrpnMSB, nrpnLSB, value int) ([]gomidi.Message, error) {
	ch, err := ChannelIndex(channel)
	if err != nil {
		return nil, err
	}
	paramMSB, err := dataByte("nrpn_msb", nrpnMSB)
	if err != nil {
		return nil, err
	}
	paramLSB, err := dataByte("nrpn_lsb", nrpnLSB)
	if err != nil {
		return nil, err
	}
	valueMSB, valueLSB, err := SplitHighRes(value)
	if err != nil {
		return nil, err
	}
	return []gomidi.Message{
		gomidi.ControlChange(ch, NRPNParameterMSB, paramMSB),
		gomidi.ControlChange(ch, NRPNParameterLSB, paramLSB),
		gomidi.ControlChange(ch, DataEntryMSB, valueMSB),
		gomidi.ControlChange(ch, DataEntryLSB, valueLSB),
	}, nil
}
