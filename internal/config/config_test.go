package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DefaultServerName, cfg.ServerName)
	assert.Equal(t, DefaultAutoConnect, cfg.AutoConnect)
	assert.Equal(t, DefaultBaudRate, cfg.Serial.BaudRate)
	assert.Equal(t, contracts.InfoLevel, cfg.Level())

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "config.yml", `
server_name: studio
port: "Moog Sub 37"
driver: mock
log_level: debug
log_file: /tmp/synthmidi.log
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "studio", cfg.ServerName)
	assert.Equal(t, "Moog Sub 37", cfg.Port)
	assert.Empty(t, cfg.AutoConnect, "an explicit port disables the default auto-connect pattern")
	assert.Equal(t, contracts.DriverMock, cfg.Driver)
	assert.Equal(t, contracts.DebugLevel, cfg.Level())
	assert.Equal(t, "/tmp/synthmidi.log", cfg.LogFile)
	assert.Equal(t, "Moog Sub 37", cfg.TargetPort())
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "config.toml", `
driver = "serial"
auto_connect = "usb"

[serial]
device = "/dev/ttyUSB0"
baud_rate = 38400
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, contracts.DriverSerial, cfg.Driver)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Device)
	assert.Equal(t, 38400, cfg.Serial.BaudRate)
	assert.Equal(t, "/dev/ttyUSB0", cfg.TargetPort())
	assert.Equal(t, "usb", cfg.AutoConnect)
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]struct {
		name    string
		content string
		target  error
	}{
		"unknown extension": {"config.json", `{}`, ErrUnsupportedFormat},
		"unknown driver":    {"config.yaml", "driver: alsa\n", ErrInvalidConfig},
		"negative baud":     {"config.toml", "[serial]\nbaud_rate = -1\n", ErrInvalidConfig},
		"serial no device":  {"config.yaml", "driver: serial\n", ErrInvalidConfig},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(write(t, tt.name, tt.content))
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(write(t, "config.yaml", "port: [unclosed\n"))
	assert.Error(t, err)

	_, err = Load(write(t, "config.toml", "port = \n"))
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Skip("no user config dir:", err)
	}
	assert.Equal(t, "config.yaml", filepath.Base(path))
	assert.Equal(t, "synthmidi", filepath.Base(filepath.Dir(path)))
}
