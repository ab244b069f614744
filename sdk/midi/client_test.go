package midi

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/leandrodaf/synthmidi/internal/logger"
	"github.com/leandrodaf/synthmidi/internal/midi/midimock"
	"github.com/leandrodaf/synthmidi/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const sub37 = "Moog Sub 37"

func newTestClient(t *testing.T, ports ...string) (contracts.ClientMIDI, *midimock.Driver) {
	t.Helper()
	if len(ports) == 0 {
		ports = midimock.DefaultPorts()
	}
	log := logger.NewNopLogger()
	drv := midimock.NewDriver(log, ports...)
	client, err := NewMIDIClient(contracts.WithDriver(drv), contracts.WithLogger(log))
	require.NoError(t, err)
	return client, drv
}

func connected(t *testing.T) (contracts.ClientMIDI, *midimock.Driver) {
	t.Helper()
	client, drv := newTestClient(t)
	require.NoError(t, client.Connect(sub37))
	return client, drv
}

func TestListPorts(t *testing.T) {
	client, _ := newTestClient(t, "b-port", "a-port")

	ports, err := client.ListPorts()
	require.NoError(t, err)
	assert.Equal(t, []string{"a-port", "b-port"}, ports)
}

func TestConnectAndDisconnect(t *testing.T) {
	client, drv := newTestClient(t)
	assert.False(t, client.IsConnected())

	require.NoError(t, client.Connect(sub37))
	assert.True(t, client.IsConnected())
	assert.Equal(t, sub37, client.PortName())
	assert.Equal(t, 1, drv.OpenOutputs())

	require.NoError(t, client.Connect("Elektron Digitone"))
	assert.Equal(t, 1, drv.OpenOutputs(), "reconnecting closes the previous output")
	assert.Equal(t, "Elektron Digitone", client.PortName())

	require.NoError(t, client.Disconnect())
	assert.False(t, client.IsConnected())
	assert.Empty(t, client.PortName())
	assert.Equal(t, 0, drv.OpenOutputs())
}

func TestConnectOutputFailureLeavesDisconnected(t *testing.T) {
	client, drv := connected(t)
	drv.FailOutput(true)

	err := client.Connect(sub37)
	assert.ErrorIs(t, err, ErrPortOpen)
	assert.ErrorIs(t, err, midimock.ErrInjected)
	assert.False(t, client.IsConnected())
	assert.ErrorIs(t, client.SendCC(3, 7, 100), ErrNotConnected)
}

func TestConnectUnknownPort(t *testing.T) {
	client, _ := newTestClient(t)

	err := client.Connect("Nord Lead")
	assert.ErrorIs(t, err, ErrPortOpen)
	assert.ErrorIs(t, err, contracts.ErrPortNotFound)
}

func TestConnectInputFailureIsOutputOnly(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := logger.NewWithCore(core)
	drv := midimock.NewDriver(log, sub37)
	drv.FailInput(true)
	client, err := NewMIDIClient(contracts.WithDriver(drv), contracts.WithLogger(log))
	require.NoError(t, err)

	require.NoError(t, client.Connect(sub37))
	assert.True(t, client.IsConnected())
	assert.Equal(t, 1, logs.FilterMessageSnippet("output-only").Len())

	require.NoError(t, client.SendCC(3, 7, 100))
	assert.Len(t, drv.Messages(), 1)
}

func TestAutoConnect(t *testing.T) {
	client, _ := newTestClient(t)

	require.NoError(t, client.AutoConnect("digitone"))
	assert.Equal(t, "Elektron Digitone", client.PortName())

	err := client.AutoConnect("prophet")
	assert.ErrorIs(t, err, contracts.ErrPortNotFound)
}

func TestDisconnectIsIdempotent(t *testing.T) {
	client, _ := newTestClient(t)
	assert.NoError(t, client.Disconnect())
	assert.NoError(t, client.Disconnect())
	assert.False(t, client.IsConnected())

	client, _ = connected(t)
	assert.NoError(t, client.Disconnect())
	assert.NoError(t, client.Disconnect())
	assert.False(t, client.IsConnected())
}

func TestDisconnectCombinesCloseErrors(t *testing.T) {
	client, drv := connected(t)
	drv.FailClose(true)

	err := client.Disconnect()
	assert.ErrorIs(t, err, midimock.ErrInjected)
	assert.False(t, client.IsConnected(), "state resets even when closing fails")
}

func TestSendWhileDisconnected(t *testing.T) {
	client, drv := newTestClient(t)

	assert.ErrorIs(t, client.SendCC(1, 7, 100), ErrNotConnected)
	assert.ErrorIs(t, client.SendHighResCC(1, 19, 51, 8192), ErrNotConnected)
	assert.ErrorIs(t, client.SendNRPN(3, 3, 115, 16383), ErrNotConnected)
	assert.Empty(t, drv.Messages())
}

func TestSendWhileDisconnectedLogsError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewWithCore(core)
	client, err := NewMIDIClient(contracts.WithDriver(midimock.NewDriver(log, sub37)), contracts.WithLogger(log))
	require.NoError(t, err)

	require.ErrorIs(t, client.SendNRPN(3, 3, 115, 1), ErrNotConnected)

	entries := logs.FilterMessage("Not connected to any MIDI port").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "NRPN", entries[0].ContextMap()["op"])
}

func TestSendCCChannelBounds(t *testing.T) {
	client, drv := connected(t)

	for _, channel := range []int{0, 17, -1} {
		assert.ErrorIs(t, client.SendCC(channel, 7, 100), ErrInvalidChannel, "channel %d", channel)
	}
	assert.Empty(t, drv.Messages())
}

func TestSendCC(t *testing.T) {
	client, drv := connected(t)

	require.NoError(t, client.SendCC(3, 7, 100))
	assert.Equal(t, [][]byte{{0xB2, 7, 100}}, drv.Bytes())
}

func TestSendHighResCCOrder(t *testing.T) {
	client, drv := connected(t)

	require.NoError(t, client.SendHighResCC(1, 19, 51, 8192))
	assert.Equal(t, []cc{{0, 19, 64}, {0, 51, 0}}, decode(t, drv.Bytes()...))
}

func TestSendNRPNFrame(t *testing.T) {
	client, drv := connected(t)

	require.NoError(t, client.SendNRPN(3, 3, 115, 16383))
	got := decode(t, drv.Bytes()...)
	require.Len(t, got, 4)

	controllers := make([]uint8, 0, 4)
	values := make([]uint8, 0, 4)
	for _, m := range got {
		assert.Equal(t, uint8(2), m.channel)
		controllers = append(controllers, m.controller)
		values = append(values, m.value)
	}
	assert.Equal(t, []uint8{99, 98, 6, 38}, controllers)
	assert.Equal(t, []uint8{3, 115, 127, 127}, values)
}

func TestSendNRPNOutOfRange(t *testing.T) {
	client, drv := connected(t)

	assert.ErrorIs(t, client.SendNRPN(3, 3, 19, 16384), ErrInvalidValue)
	assert.ErrorIs(t, client.SendNRPN(3, 3, 19, -1), ErrInvalidValue)
	assert.ErrorIs(t, client.SendHighResCC(3, 19, 51, 16384), ErrInvalidValue)
	assert.Empty(t, drv.Messages())
}

func TestSendNRPNStopsAtFirstFailure(t *testing.T) {
	client, drv := connected(t)
	drv.FailOnSend(2)

	err := client.SendNRPN(3, 3, 115, 16383)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, midimock.ErrInjected)
	assert.Contains(t, err.Error(), "message 2 of 4")
	assert.Len(t, drv.Messages(), 1, "messages after the failure are not written")

	require.NoError(t, client.SendNRPN(3, 3, 115, 0))
	assert.Len(t, drv.Messages(), 5)
}

func TestConcurrentFramesDoNotInterleave(t *testing.T) {
	client, drv := connected(t)

	const workers = 8
	const frames = 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(lsb int) {
			defer wg.Done()
			for i := 0; i < frames; i++ {
				assert.NoError(t, client.SendNRPN(3, 1, lsb, i))
			}
		}(w)
	}
	wg.Wait()

	got := decode(t, drv.Bytes()...)
	require.Len(t, got, workers*frames*4)
	for i := 0; i < len(got); i += 4 {
		assert.Equal(t, []uint8{99, 98, 6, 38},
			[]uint8{got[i].controller, got[i+1].controller, got[i+2].controller, got[i+3].controller})
	}
}

func TestCaptureForwardsFilteredEvents(t *testing.T) {
	log := logger.NewNopLogger()
	drv := midimock.NewDriver(log, sub37)
	client, err := NewMIDIClient(
		contracts.WithDriver(drv),
		contracts.WithLogger(log),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{Commands: []contracts.MIDICommand{contracts.ControlChange}}),
	)
	require.NoError(t, err)
	require.NoError(t, client.Connect(sub37))

	events := make(chan contracts.Event, 4)
	client.StartCapture(events)

	drv.Inject(sub37, []byte{0x92, 60, 100})
	drv.Inject(sub37, []byte{0xB2, 74, 64})

	select {
	case ev := <-events:
		assert.Equal(t, contracts.ControlChange, ev.Command())
		assert.Equal(t, 3, ev.Channel())
		assert.Equal(t, byte(74), ev.Data1)
		assert.Equal(t, byte(64), ev.Data2)
	case <-time.After(time.Second):
		t.Fatal("no event captured")
	}
	assert.Empty(t, events)
}

func TestStopRunsOnce(t *testing.T) {
	client, drv := connected(t)

	require.NoError(t, client.Stop())
	assert.False(t, client.IsConnected())
	assert.True(t, drv.Closed())
	assert.NoError(t, client.Stop())
}

func TestStopWaitsForInputCallbacks(t *testing.T) {
	log := logger.NewNopLogger()
	client := newClient(&contracts.ClientOptions{Logger: log}, midimock.NewDriver(log, sub37))
	require.NoError(t, client.Connect(sub37))

	events := make(chan contracts.Event, 1024)
	client.StartCapture(events)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				client.handleMIDIMessage([]byte{0xB2, 74, 1})
			}
		}()
	}

	require.NoError(t, client.Stop())
	delivered := len(events)
	wg.Wait()
	assert.Equal(t, delivered, len(events), "nothing is delivered once Stop returns")
}

func TestUnknownDriverName(t *testing.T) {
	_, err := NewMIDIClient(contracts.WithLogger(logger.NewNopLogger()), contracts.WithDriverName("alsa"))
	assert.True(t, errors.Is(err, ErrUnsupportedDriver))
}

func TestMockDriverByName(t *testing.T) {
	client, err := NewMIDIClient(contracts.WithLogger(logger.NewNopLogger()), contracts.WithDriverName(contracts.DriverMock))
	require.NoError(t, err)
	require.NoError(t, client.AutoConnect("sub 37"))
	assert.NoError(t, client.SendCC(3, 7, 1))
}
