package controller

// Digitone sections. Each Digitone track listens on the MIDI channel of the same number.
const (
	DigitoneAmp             = "amp"
	DigitoneFX              = "fx"
	DigitoneMultiModeFilter = "multi_mode_filter"
	DigitoneLowpass4Filter  = "lowpass_4_filter"
	DigitoneLegacyFilter    = "legacy_lp_hp_filter"
	DigitoneCombMinusFilter = "comb_minus_filter"
	DigitoneCombPlusFilter  = "comb_plus_filter"
	DigitoneEqualizerFilter = "equalizer_filter"
	DigitoneBaseWidthFilter = "base_width_filter"
	DigitoneLFO1            = "lfo_1"
	DigitoneLFO2            = "lfo_2"
	DigitoneLFO3            = "lfo_3"
	DigitoneWavetone        = "wavetone"
	DigitoneFMTone          = "fmtone"
	DigitoneFMDrum          = "fmdrum"
	DigitoneSwarmer         = "swarmer"
)

// Pages of the Digitone machine sections.
const (
	Page1 = "page_1"
	Page2 = "page_2"
	Page3 = "page_3"
	Page4 = "page_4"
)

// Sub 37 sections.
const (
	Sub37Global = "global"
	Sub37Amp    = "amp"
	Sub37Filter = "filter"
	Sub37Osc    = "osc"
	Sub37Mod    = "mod"
	Sub37LFO    = "lfo"
	Sub37Arp    = "arp"
	Sub37Glide  = "glide"
	Sub37FX     = "fx"
)

// Sub37DefaultChannel is the channel every Sub 37 tool uses unless told otherwise.
const Sub37DefaultChannel = 3

// DigitoneSections lists every Digitone section.
var DigitoneSections = []string{
	DigitoneAmp, DigitoneFX,
	DigitoneMultiModeFilter, DigitoneLowpass4Filter, DigitoneLegacyFilter,
	DigitoneCombMinusFilter, DigitoneCombPlusFilter, DigitoneEqualizerFilter, DigitoneBaseWidthFilter,
	DigitoneLFO1, DigitoneLFO2, DigitoneLFO3,
	DigitoneWavetone, DigitoneFMTone, DigitoneFMDrum, DigitoneSwarmer,
}

// Sub37Sections lists every Sub 37 section.
var Sub37Sections = []string{
	Sub37Global, Sub37Amp, Sub37Filter, Sub37Osc, Sub37Mod, Sub37LFO, Sub37Arp, Sub37Glide, Sub37FX,
}
