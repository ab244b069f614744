package midi

import (
	"fmt"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
)

// NewMIDIClient builds a disconnected transport. The port driver is the one
// passed with WithDriver, else the one named by WithDriverName, else the
// default for the current OS.
func NewMIDIClient(opts ...contracts.Option) (contracts.ClientMIDI, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	driver, err := NewDriver(&options)
	if err != nil {
		options.Logger.Error("No usable MIDI driver", options.Logger.Field().Error("error", err))
		return nil, fmt.Errorf("selecting MIDI driver: %w", err)
	}

	return newClient(&options, driver), nil
}
