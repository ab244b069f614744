package main

import (
	"context"
	"strings"

	"github.com/leandrodaf/synthmidi/internal/config"
	"github.com/leandrodaf/synthmidi/sdk/contracts"
)

// connectAtStartup connects to the configured port, or to the first output
// matching the auto-connect pattern. Failure is not fatal: the server keeps
// running and the connect tool can be used later.
func connectAtStartup(client contracts.ClientMIDI, cfg *config.Config, log contracts.Logger) bool {
	var err error
	target := cfg.TargetPort()
	switch {
	case target != "":
		err = client.Connect(target)
	case cfg.AutoConnect != "":
		err = client.AutoConnect(cfg.AutoConnect)
	default:
		log.Info("No MIDI port configured; waiting for connect_midi_port")
		return false
	}
	if err == nil {
		return true
	}

	ports, listErr := client.ListPorts()
	if listErr != nil {
		log.Warn("Could not list MIDI ports", log.Field().Error("error", listErr))
	}
	log.Warn("Starting without a MIDI connection",
		log.Field().String("port", target),
		log.Field().String("match", cfg.AutoConnect),
		log.Field().String("available", strings.Join(ports, ", ")),
		log.Field().Error("error", err))
	return false
}

// watchEcho logs controller messages the connected device sends back.
func watchEcho(ctx context.Context, client contracts.ClientMIDI, log contracts.Logger) chan contracts.Event {
	events := make(chan contracts.Event, 64)
	client.StartCapture(events)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case e := <-events:
				log.Debug("Device echo",
					log.Field().Int("channel", e.Channel()),
					log.Field().Uint8("cc", e.Data1),
					log.Field().Uint8("value", e.Data2))
			}
		}
	}()
	return events
}
