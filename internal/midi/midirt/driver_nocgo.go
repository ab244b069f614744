//go:build !cgo
// +build !cgo

package midirt

import (
	"fmt"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
)

// NewDriver reports that RtMidi needs a cgo build.
func NewDriver(options *contracts.ClientOptions) (contracts.PortDriver, error) {
	options.Logger.Warn("RtMidi requires a cgo build")
	return nil, fmt.Errorf("%w: rtmidi without cgo", contracts.ErrDriverUnavailable)
}
