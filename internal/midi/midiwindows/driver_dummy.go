//go:build !windows
// +build !windows

package midiwindows

import (
	"fmt"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
)

// NewDriver reports that WinMM only exists on Windows.
func NewDriver(options *contracts.ClientOptions) (contracts.PortDriver, error) {
	options.Logger.Warn("WinMM is only available on Windows")
	return nil, fmt.Errorf("%w: winmm", contracts.ErrDriverUnavailable)
}
