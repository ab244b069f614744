package contracts

import "errors"

// Errors shared by every port driver.
var (
	ErrPortNotFound      = errors.New("MIDI port not found")
	ErrDriverUnavailable = errors.New("MIDI driver is not available on this platform")
	ErrInputNotSupported = errors.New("driver does not support input ports")
	ErrPortClosed        = errors.New("MIDI port is closed")
)
