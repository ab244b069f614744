package params

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := Default()
	require.NoError(t, err)
	return r
}

func TestAddressingVariants(t *testing.T) {
	tests := []struct {
		name     string
		addr     Addressing
		kind     Kind
		wantCC   bool
		wantNRPN bool
	}{
		{"none", Addressing{}, NoAddressing, false, false},
		{"cc", CC(74), CCOnly, true, false},
		{"high res", HighResCC(19, 51), CCOnly, true, false},
		{"nrpn", NRPN(3, 115), NRPNOnly, false, true},
		{"both", Both(84, 30, 1), CCAndNRPN, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.addr.Kind())
			_, ok := tt.addr.CC()
			assert.Equal(t, tt.wantCC, ok)
			_, ok = tt.addr.NRPN()
			assert.Equal(t, tt.wantNRPN, ok)
		})
	}

	cc, _ := HighResCC(19, 51).CC()
	assert.True(t, cc.HighRes())
	assert.Equal(t, 51, cc.LSB)

	nrpn, _ := NRPN(3, 115).NRPN()
	assert.Equal(t, 499, nrpn.Number())
}

func TestDefaultRegistryLoads(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	for _, name := range r.Instruments() {
		inst, err := r.Instrument(name)
		require.NoError(t, err)
		for _, d := range inst.Parameters() {
			assert.LessOrEqual(t, d.MIDIRange.Min, d.MIDIRange.Max, "%s/%s/%s", d.Section, d.Page, d.Name)
		}
	}
}

func TestHarmonyCentered(t *testing.T) {
	d, err := defaultRegistry(t).Lookup(Digitone, "fmtone", "page_1", "HARM")
	require.NoError(t, err)
	assert.Equal(t, Range{Min: 38, Max: 90}, d.MIDIRange)

	for display, want := range map[float64]int{-26: 38, 0: 64, 26: 90} {
		v, err := d.Scale(display)
		require.NoError(t, err)
		assert.Equal(t, want, v, "display %v", display)
	}
}

func TestDefaultRegistryDigitone(t *testing.T) {
	r := defaultRegistry(t)
	assert.Equal(t, []string{Digitone, Sub37}, r.Instruments())

	d, err := r.Lookup(Digitone, "amp", DirectPage, "ATK")
	require.NoError(t, err)
	assert.Equal(t, "attack", d.Alias)
	assert.Equal(t, CCAndNRPN, d.Addressing.Kind())
	cc, _ := d.Addressing.CC()
	assert.Equal(t, 84, cc.MSB)
	nrpn, _ := d.Addressing.NRPN()
	assert.Equal(t, NRPNAddress{MSB: 30, LSB: 1}, nrpn)
	assert.Equal(t, 8.0, d.Default.Number)

	byAlias, err := r.Lookup(Digitone, "amp", DirectPage, "attack")
	require.NoError(t, err)
	assert.Equal(t, d, byAlias)

	page, err := r.Lookup(Digitone, "wavetone", "page_1", "TUN1")
	require.NoError(t, err)
	assert.Equal(t, "osc1_pitch", page.Alias)
	assert.Equal(t, Range{Min: -5, Max: 5}, page.ValueRange)
}

func TestDefaultRegistrySub37(t *testing.T) {
	r := defaultRegistry(t)
	inst, err := r.Instrument(Sub37)
	require.NoError(t, err)
	assert.Equal(t, 3, inst.DefaultChannel)

	d, err := inst.Find("filter_cutoff_nrpn")
	require.NoError(t, err)
	nrpn, ok := d.Addressing.NRPN()
	require.True(t, ok)
	assert.Equal(t, NRPNAddress{MSB: 3, LSB: 115}, nrpn)
	assert.Equal(t, Range{Min: 0, Max: 16383}, d.MIDIRange)

	off, err := inst.Find("all_notes_off")
	require.NoError(t, err)
	require.NotNil(t, off.Fixed)
	assert.Equal(t, 0, *off.Fixed)
	assert.Equal(t, "all_notes_off", off.Tool)

	hr, err := inst.Find("mod_wheel_high_res")
	require.NoError(t, err)
	cc, _ := hr.Addressing.CC()
	assert.Equal(t, CCAddress{MSB: 1, LSB: 33, HasLSB: true}, cc)
}

func TestLookupErrors(t *testing.T) {
	r := defaultRegistry(t)

	_, err := r.Lookup("prophet", "amp", DirectPage, "ATK")
	assert.ErrorIs(t, err, ErrUnknownInstrument)
	_, err = r.Lookup(Digitone, "reverb", DirectPage, "ATK")
	assert.ErrorIs(t, err, ErrUnknownSection)
	_, err = r.Lookup(Digitone, "wavetone", "page_9", "TUN1")
	assert.ErrorIs(t, err, ErrUnknownPage)
	_, err = r.Lookup(Digitone, "amp", DirectPage, "CUTOFF")
	assert.ErrorIs(t, err, ErrUnknownParameter)
}

func TestScale(t *testing.T) {
	r := defaultRegistry(t)
	pan, err := r.Lookup(Digitone, "amp", DirectPage, "PAN")
	require.NoError(t, err)

	for display, want := range map[float64]int{-64: 0, 0: 64, 64: 127} {
		got, err := pan.Scale(display)
		require.NoError(t, err)
		assert.Equal(t, want, got, "display %v", display)
	}

	_, err = pan.Scale(65)
	assert.ErrorIs(t, err, ErrValueOutOfRange)

	// Without a display range the MIDI range is used as is.
	cutoff, err := r.Lookup(Sub37, "filter", DirectPage, "filter_cutoff_nrpn")
	require.NoError(t, err)
	got, err := cutoff.Scale(8192)
	require.NoError(t, err)
	assert.Equal(t, 8192, got)
}

func TestOptions(t *testing.T) {
	r := defaultRegistry(t)

	mode, err := r.Lookup(Digitone, "amp", DirectPage, "MODE")
	require.NoError(t, err)
	assert.Equal(t, []string{"AHD", "ADSR"}, mode.OptionNames())
	v, err := mode.OptionValue("adsr")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	def, ok := mode.DefaultMIDI()
	assert.True(t, ok)
	assert.Equal(t, 1, def)

	glide, err := r.Lookup(Sub37, "fx", DirectPage, "glide_type")
	require.NoError(t, err)
	v, err = glide.OptionValue(" EXP ")
	require.NoError(t, err)
	assert.Equal(t, 85, v)

	_, err = glide.OptionValue("LOG")
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.Contains(t, err.Error(), "LCR, LCT, EXP")
}

func TestValidate(t *testing.T) {
	d := Descriptor{Name: "TYPE", MIDIRange: Range{Min: 0, Max: 2}}
	assert.NoError(t, d.Validate(2))
	assert.ErrorIs(t, d.Validate(3), ErrValueOutOfRange)
	assert.ErrorIs(t, d.Validate(-1), ErrValueOutOfRange)
}

func TestLoadInstrument(t *testing.T) {
	const table = `
instrument: test
default_channel: 5
sections:
  osc:
    parameters:
      wave:
        cc: 9
        midi_range: [10, 12]
        default: saw
        options: [sine, saw, square]
      level:
        cc: 0
`
	inst, err := LoadInstrument(strings.NewReader(table))
	require.NoError(t, err)
	assert.Equal(t, 5, inst.DefaultChannel)

	sec, err := inst.Section("osc")
	require.NoError(t, err)
	assert.False(t, sec.Paged())
	assert.Equal(t, "osc", sec.ToolPrefix)

	wave, err := sec.Parameter(DirectPage, "wave")
	require.NoError(t, err)
	assert.Equal(t, []Option{{"sine", 10}, {"saw", 11}, {"square", 12}}, wave.Options)
	assert.True(t, wave.Default.IsOption)

	level, err := sec.Parameter(DirectPage, "level")
	require.NoError(t, err)
	cc, ok := level.Addressing.CC()
	require.True(t, ok)
	assert.Equal(t, 0, cc.MSB)
	assert.Equal(t, Range{Min: 0, Max: 127}, level.MIDIRange)
	assert.False(t, level.Default.Set)

	assert.Len(t, inst.Parameters(), 2)
}

func TestLoadInstrumentRejectsBadTables(t *testing.T) {
	for name, table := range map[string]string{
		"no instrument": "sections: {}",
		"bad range":     "instrument: x\nsections:\n  a:\n    parameters:\n      p: {cc: 1, midi_range: [5]}\n",
		"not yaml":      "instrument: [",
	} {
		_, err := LoadInstrument(strings.NewReader(table))
		assert.ErrorIs(t, err, ErrInvalidTable, name)
	}
}

func TestEveryEmbeddedParameterIsAddressed(t *testing.T) {
	r := defaultRegistry(t)
	for _, name := range r.Instruments() {
		inst, err := r.Instrument(name)
		require.NoError(t, err)
		for _, d := range inst.Parameters() {
			assert.NotEqual(t, NoAddressing, d.Addressing.Kind(), "%s/%s/%s", d.Section, d.Page, d.Name)
		}
	}
}
