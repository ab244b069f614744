// Package config loads the server configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported config file format")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// Defaults.
const (
	DefaultServerName  = "synthmidi"
	DefaultAutoConnect = "digitone"
	DefaultLogLevel    = "info"
	DefaultBaudRate    = 31250
)

// Serial configures the serial driver.
type Serial struct {
	Device   string `yaml:"device" toml:"device"`
	BaudRate int    `yaml:"baud_rate" toml:"baud_rate"`
}

// Config is the server configuration. Zero fields take the defaults above.
type Config struct {
	ServerName  string `yaml:"server_name" toml:"server_name"`
	Port        string `yaml:"port" toml:"port"`                 // exact port name checked at startup
	AutoConnect string `yaml:"auto_connect" toml:"auto_connect"` // substring used when Port is empty
	Driver      string `yaml:"driver" toml:"driver"`
	LogLevel    string `yaml:"log_level" toml:"log_level"`
	LogFile     string `yaml:"log_file" toml:"log_file"`
	Serial      Serial `yaml:"serial" toml:"serial"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// DefaultPath returns the platform config location of the file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "synthmidi", "config.yaml"), nil
}

// Load reads path, returning defaults if it is empty or does not exist.
// The format follows the extension: .yaml, .yml or .toml.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ServerName == "" {
		c.ServerName = DefaultServerName
	}
	if c.Port == "" && c.AutoConnect == "" {
		c.AutoConnect = DefaultAutoConnect
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = DefaultBaudRate
	}
}

var drivers = map[string]bool{
	"":                       true,
	contracts.DriverCoreMIDI: true,
	contracts.DriverWinMM:    true,
	contracts.DriverRtMidi:   true,
	contracts.DriverSerial:   true,
	contracts.DriverMock:     true,
}

// Validate rejects unknown drivers and impossible serial settings.
func (c *Config) Validate() error {
	if !drivers[c.Driver] {
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, c.Driver)
	}
	if c.Serial.BaudRate < 0 {
		return fmt.Errorf("%w: serial baud rate %d", ErrInvalidConfig, c.Serial.BaudRate)
	}
	if c.Driver == contracts.DriverSerial && c.Port == "" && c.Serial.Device == "" {
		return fmt.Errorf("%w: serial driver needs port or serial.device", ErrInvalidConfig)
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() contracts.LogLevel {
	return contracts.ParseLogLevel(c.LogLevel)
}

// TargetPort is the port checked at startup: Port, or the serial device when
// the serial driver is selected.
func (c *Config) TargetPort() string {
	if c.Port == "" && c.Driver == contracts.DriverSerial {
		return c.Serial.Device
	}
	return c.Port
}
