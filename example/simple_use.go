package main

import (
	"fmt"

	"github.com/leandrodaf/synthmidi/internal/logger"
	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"github.com/leandrodaf/synthmidi/sdk/controller"
	"github.com/leandrodaf/synthmidi/sdk/midi"
	"github.com/leandrodaf/synthmidi/sdk/params"
)

func main() {
	log := logger.NewZapLogger()

	client, err := midi.NewMIDIClient(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.DebugLevel),
	)
	if err != nil {
		log.Error("Failed to initialize MIDI client", log.Field().Error("error", err))
		return
	}
	defer client.Stop()

	ports, err := client.ListPorts()
	if err != nil || len(ports) == 0 {
		log.Error("No MIDI ports found or error listing ports", log.Field().Error("error", err))
		return
	}
	fmt.Println("Available MIDI ports:", ports)

	if err = client.AutoConnect("sub 37"); err != nil {
		log.Error("Failed to connect to the Sub 37", log.Field().Error("error", err))
		return
	}

	registry, err := params.Default()
	if err != nil {
		log.Error("Failed to load parameter tables", log.Field().Error("error", err))
		return
	}

	filter, err := controller.ForSection(client, registry, params.Sub37, controller.Sub37Filter, controller.Sub37DefaultChannel, log)
	if err != nil {
		log.Error("Failed to bind filter controller", log.Field().Error("error", err))
		return
	}

	// Half-open cutoff: NRPN 3/115, value 8192 of 16383.
	if err := filter.SetDirectParameterNRPN("filter_cutoff_nrpn", 8192); err != nil {
		log.Error("Failed to set filter cutoff", log.Field().Error("error", err))
		return
	}

	// Raw frame, no registry involved.
	if err := client.SendNRPN(controller.Sub37DefaultChannel, 3, 116, 4096); err != nil {
		log.Error("Failed to set filter resonance", log.Field().Error("error", err))
		return
	}
	fmt.Println("Sent filter cutoff and resonance to", client.PortName())
}
