//go:build !darwin
// +build !darwin

package mididarwin

import (
	"fmt"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
)

// NewDriver reports that CoreMIDI only exists on macOS.
func NewDriver(options *contracts.ClientOptions) (contracts.PortDriver, error) {
	options.Logger.Warn("CoreMIDI is only available on macOS")
	return nil, fmt.Errorf("%w: coremidi", contracts.ErrDriverUnavailable)
}
