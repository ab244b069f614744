// Command synthmidi serves Elektron Digitone and Moog Sub 37 parameter tools
// over MCP on stdio.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/leandrodaf/synthmidi/internal/config"
	"github.com/leandrodaf/synthmidi/internal/logger"
	"github.com/leandrodaf/synthmidi/internal/tools"
	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"github.com/leandrodaf/synthmidi/sdk/midi"
	"github.com/leandrodaf/synthmidi/sdk/params"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "synthmidi:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	log := logger.NewZapLogger()
	client, err := midi.NewMIDIClient(
		contracts.WithLogger(log),
		contracts.WithLogLevel(cfg.Level()),
		contracts.WithLogFile(cfg.LogFile),
		contracts.WithDriverName(cfg.Driver),
		contracts.WithSerialConfig(contracts.SerialConfig{BaudRate: cfg.Serial.BaudRate}),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{
			Commands: []contracts.MIDICommand{contracts.ControlChange},
		}),
	)
	if err != nil {
		return fmt.Errorf("initializing MIDI client: %w", err)
	}
	defer func() {
		if err := client.Stop(); err != nil {
			log.Warn("Error stopping MIDI client", log.Field().Error("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectAtStartup(client, cfg, log)
	watchEcho(ctx, client, log)

	registry, err := params.Default()
	if err != nil {
		return fmt.Errorf("loading parameter tables: %w", err)
	}
	catalog, err := tools.NewCatalog(client, registry, log)
	if err != nil {
		return fmt.Errorf("building tools: %w", err)
	}

	srv := tools.NewServer(cfg.ServerName, version, catalog, log)
	return tools.Serve(ctx, srv, os.Stdin, os.Stdout, log)
}

// loadConfig reads the config file and applies the flags given on the command line over it.
func loadConfig(args []string) (*config.Config, error) {
	fs := flag.NewFlagSet("synthmidi", flag.ContinueOnError)
	defaultPath, _ := config.DefaultPath()
	configFile := fs.String("config", defaultPath, "Configuration file (.yaml, .yml or .toml)")
	port := fs.String("port", "", "Exact MIDI port name to connect at startup")
	match := fs.String("match", "", "Connect to the first output whose name contains this text")
	driver := fs.String("driver", "", "MIDI driver: coremidi, winmm, rtmidi, serial or mock")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn or error")
	logFile := fs.String("log-file", "", "Write logs to this file instead of stderr")
	baud := fs.Int("baud", 0, "Serial baud rate")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "match":
			cfg.AutoConnect = *match
		case "driver":
			cfg.Driver = *driver
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-file":
			cfg.LogFile = *logFile
		case "baud":
			cfg.Serial.BaudRate = *baud
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
