package midiserial

import (
	"bytes"
	"errors"
	"testing"

	"github.com/leandrodaf/synthmidi/internal/logger"
	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

type fakePort struct {
	serial.Port
	buf    bytes.Buffer
	closed bool
}

func (f *fakePort) Write(p []byte) (int, error) { return f.buf.Write(p) }

func (f *fakePort) Close() error {
	f.closed = true
	return nil
}

func newTestDriver(port *fakePort, openErr error) (*Driver, *serial.Mode) {
	var gotMode serial.Mode
	open := func(name string, mode *serial.Mode) (serial.Port, error) {
		gotMode = *mode
		if openErr != nil {
			return nil, openErr
		}
		return port, nil
	}
	list := func() ([]string, error) { return []string{"/dev/ttyUSB0", "/dev/ttyAMA0"}, nil }
	return New(logger.NewNopLogger(), 31250, open, list), &gotMode
}

func TestSerialListPorts(t *testing.T) {
	d, _ := newTestDriver(&fakePort{}, nil)

	devices, err := d.ListPorts()
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "/dev/ttyUSB0", devices[0].Name)
	assert.Equal(t, contracts.PortOutput, devices[0].Direction)
}

func TestSerialWritesBytes(t *testing.T) {
	port := &fakePort{}
	d, mode := newTestDriver(port, nil)

	out, err := d.OpenOutput("/dev/ttyUSB0")
	require.NoError(t, err)
	assert.Equal(t, 31250, mode.BaudRate)

	require.NoError(t, out.Send([]byte{0xB2, 74, 64}))
	require.NoError(t, out.Send([]byte{0xB2, 106, 0}))
	assert.Equal(t, []byte{0xB2, 74, 64, 0xB2, 106, 0}, port.buf.Bytes())

	require.NoError(t, out.Close())
	assert.True(t, port.closed)
	assert.ErrorIs(t, out.Send([]byte{0xB2, 74, 64}), contracts.ErrPortClosed)
}

func TestSerialOpenFailure(t *testing.T) {
	d, _ := newTestDriver(nil, errors.New("permission denied"))

	_, err := d.OpenOutput("/dev/ttyUSB0")
	assert.ErrorContains(t, err, "permission denied")
}

func TestSerialInputNotSupported(t *testing.T) {
	d, _ := newTestDriver(&fakePort{}, nil)

	_, err := d.OpenInput("/dev/ttyUSB0", func([]byte) {})
	assert.ErrorIs(t, err, contracts.ErrInputNotSupported)
}
