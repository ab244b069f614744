package midimock

import (
	"testing"

	"github.com/leandrodaf/synthmidi/internal/logger"
	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverListPorts(t *testing.T) {
	d := NewDriver(logger.NewNopLogger(), DefaultPorts()...)

	devices, err := d.ListPorts()
	require.NoError(t, err)
	assert.Len(t, devices, 4)
	assert.Equal(t, contracts.DeviceInfo{Name: "Elektron Digitone", Direction: contracts.PortInput, Manufacturer: "mock"}, devices[0])
	assert.Equal(t, contracts.PortOutput, devices[1].Direction)
}

func TestDriverRecordsWrites(t *testing.T) {
	d := NewDriver(logger.NewNopLogger(), "Moog Sub 37")

	out, err := d.OpenOutput("Moog Sub 37")
	require.NoError(t, err)
	assert.Equal(t, 1, d.OpenOutputs())

	require.NoError(t, out.Send([]byte{0xB2, 7, 100}))
	assert.Equal(t, [][]byte{{0xB2, 7, 100}}, d.Bytes())

	require.NoError(t, out.Close())
	assert.Equal(t, 0, d.OpenOutputs())
	assert.ErrorIs(t, out.Send([]byte{0xB2, 7, 1}), contracts.ErrPortClosed)
}

func TestDriverUnknownPort(t *testing.T) {
	d := NewDriver(logger.NewNopLogger(), "Moog Sub 37")

	_, err := d.OpenOutput("Digitone")
	assert.ErrorIs(t, err, contracts.ErrPortNotFound)
	_, err = d.OpenInput("Digitone", func([]byte) {})
	assert.ErrorIs(t, err, contracts.ErrPortNotFound)
}

func TestDriverFailOnSend(t *testing.T) {
	d := NewDriver(logger.NewNopLogger(), "Moog Sub 37")
	out, err := d.OpenOutput("Moog Sub 37")
	require.NoError(t, err)

	d.FailOnSend(2)
	assert.NoError(t, out.Send([]byte{0xB0, 99, 3}))
	assert.ErrorIs(t, out.Send([]byte{0xB0, 98, 115}), ErrInjected)
	assert.NoError(t, out.Send([]byte{0xB0, 6, 0}))
	assert.Len(t, d.Messages(), 2)
}

func TestDriverInject(t *testing.T) {
	d := NewDriver(logger.NewNopLogger(), "Elektron Digitone")

	var got []byte
	in, err := d.OpenInput("Elektron Digitone", func(data []byte) { got = data })
	require.NoError(t, err)

	assert.True(t, d.Inject("Elektron Digitone", []byte{0x90, 60, 100}))
	assert.Equal(t, []byte{0x90, 60, 100}, got)

	require.NoError(t, in.Close())
	assert.False(t, d.Inject("Elektron Digitone", []byte{0x90, 60, 100}))
}
