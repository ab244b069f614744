package midi

import (
	"fmt"

	"github.com/leandrodaf/synthmidi/internal/logger"
	"github.com/leandrodaf/synthmidi/sdk/contracts"
)

// DefaultSerialBaudRate is the MIDI DIN line rate.
const DefaultSerialBaudRate = 31250

// applyDefaultOptions sets default values for ClientOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify ClientOptions.
//
// Returns:
//   - contracts.ClientOptions: A structure containing the finalized client options with defaults applied.
//   - error: An error if there was an issue applying the options.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Set defaults if options are not provided
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: "GO MIDI Client"}
	}
	if options.SerialConfig == nil || options.SerialConfig.BaudRate <= 0 {
		options.SerialConfig = &contracts.SerialConfig{BaudRate: DefaultSerialBaudRate}
	}

	if options.LogFilePath != "" {
		if err := options.Logger.SetDestination(contracts.FileLog, options.LogFilePath); err != nil {
			return contracts.ClientOptions{}, fmt.Errorf("configuring log file: %w", err)
		}
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
