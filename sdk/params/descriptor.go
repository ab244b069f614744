package params

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrValueOutOfRange = errors.New("value out of parameter range")
	ErrUnknownOption   = errors.New("unknown option")
)

// Range is an inclusive interval.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// IsZero reports whether the range was never set.
func (r Range) IsZero() bool { return r.Min == 0 && r.Max == 0 }

func (r Range) String() string {
	return strconv.FormatFloat(r.Min, 'f', -1, 64) + ".." + strconv.FormatFloat(r.Max, 'f', -1, 64)
}

// Option is a named MIDI value.
type Option struct {
	Name  string
	Value int
}

// DefaultValue is either a number on the display scale or an option name.
type DefaultValue struct {
	Number   float64
	Option   string
	IsOption bool
	Set      bool
}

func (d DefaultValue) String() string {
	switch {
	case !d.Set:
		return ""
	case d.IsOption:
		return d.Option
	default:
		return strconv.FormatFloat(d.Number, 'f', -1, 64)
	}
}

// Descriptor describes one synth parameter. Descriptors are handed out by
// value and never change after the registry is loaded.
type Descriptor struct {
	Instrument  string
	Section     string
	Page        string
	Name        string
	Alias       string
	Tool        string
	Description string
	Help        string
	Addressing  Addressing
	MIDIRange   Range
	ValueRange  Range // display scale; zero when it equals the MIDI range
	Default     DefaultValue
	Options     []Option
	Fixed       *int
}

// Key is the name used in tool names: the alias when there is one.
func (d Descriptor) Key() string {
	if d.Alias != "" {
		return d.Alias
	}
	return d.Name
}

// Validate checks a raw MIDI value against the parameter's MIDI range.
func (d Descriptor) Validate(value int) error {
	if !d.MIDIRange.Contains(float64(value)) {
		return fmt.Errorf("%w: %s=%d, must be between %s", ErrValueOutOfRange, d.Name, value, d.MIDIRange)
	}
	return nil
}

// Scale maps a display value linearly onto the MIDI range, rounding to the
// nearest step.
func (d Descriptor) Scale(display float64) (int, error) {
	src := d.ValueRange
	if src.IsZero() {
		src = d.MIDIRange
	}
	if !src.Contains(display) {
		return 0, fmt.Errorf("%w: %s=%v, must be between %s", ErrValueOutOfRange, d.Name, display, src)
	}
	if src.Max == src.Min {
		return int(d.MIDIRange.Min), nil
	}
	span := d.MIDIRange.Max - d.MIDIRange.Min
	return int(d.MIDIRange.Min + math.Round((display-src.Min)/(src.Max-src.Min)*span)), nil
}

// OptionValue resolves an option name, ignoring case and surrounding space.
func (d Descriptor) OptionValue(name string) (int, error) {
	want := strings.TrimSpace(name)
	for _, o := range d.Options {
		if strings.EqualFold(o.Name, want) {
			return o.Value, nil
		}
	}
	return 0, fmt.Errorf("%w %q for %s (valid: %s)", ErrUnknownOption, name, d.Name, strings.Join(d.OptionNames(), ", "))
}

// OptionNames lists the option names in table order.
func (d Descriptor) OptionNames() []string {
	names := make([]string, len(d.Options))
	for i, o := range d.Options {
		names[i] = o.Name
	}
	return names
}

// DefaultMIDI returns the default as a MIDI value.
func (d Descriptor) DefaultMIDI() (int, bool) {
	if !d.Default.Set {
		return 0, false
	}
	if d.Default.IsOption {
		v, err := d.OptionValue(d.Default.Option)
		return v, err == nil
	}
	v, err := d.Scale(d.Default.Number)
	return v, err == nil
}
