package params

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lookup errors. They signal a caller configuration problem, not a runtime failure.
var (
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrUnknownSection    = errors.New("unknown section")
	ErrUnknownPage       = errors.New("unknown page")
	ErrUnknownParameter  = errors.New("unknown parameter")
	ErrInvalidTable      = errors.New("invalid parameter table")
)

// DirectPage is the page name of sections without pages.
const DirectPage = ""

// Instrument names of the embedded tables.
const (
	Digitone = "digitone"
	Sub37    = "sub37"
)

//go:embed data/*.yaml
var tables embed.FS

// Registry holds the parameter tables of every instrument.
type Registry struct {
	instruments map[string]*Instrument
}

// Instrument is one synth's parameter table.
type Instrument struct {
	Name           string
	DefaultChannel int
	sections       map[string]*Section
}

// Section groups the parameters of one controller, either flat or split into pages.
type Section struct {
	Instrument string
	Name       string
	ToolPrefix string
	pages      map[string]*Page
}

// Page is a set of parameters addressed together.
type Page struct {
	Name       string
	parameters map[string]Descriptor
}

// NewRegistry builds a registry from loaded instruments.
func NewRegistry(instruments ...*Instrument) *Registry {
	r := &Registry{instruments: make(map[string]*Instrument, len(instruments))}
	for _, inst := range instruments {
		r.instruments[inst.Name] = inst
	}
	return r
}

// Default loads the embedded Digitone and Sub 37 tables.
func Default() (*Registry, error) {
	entries, err := tables.ReadDir("data")
	if err != nil {
		return nil, err
	}
	instruments := make([]*Instrument, 0, len(entries))
	for _, entry := range entries {
		f, err := tables.Open("data/" + entry.Name())
		if err != nil {
			return nil, err
		}
		inst, err := LoadInstrument(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		instruments = append(instruments, inst)
	}
	return NewRegistry(instruments...), nil
}

// Instruments returns the instrument names, sorted.
func (r *Registry) Instruments() []string {
	return sortedKeys(r.instruments)
}

// Instrument returns one instrument's table.
func (r *Registry) Instrument(name string) (*Instrument, error) {
	inst, ok := r.instruments[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInstrument, name)
	}
	return inst, nil
}

// Lookup resolves instrument, section, page and parameter in one call.
func (r *Registry) Lookup(instrument, section, page, name string) (Descriptor, error) {
	inst, err := r.Instrument(instrument)
	if err != nil {
		return Descriptor{}, err
	}
	sec, err := inst.Section(section)
	if err != nil {
		return Descriptor{}, err
	}
	return sec.Parameter(page, name)
}

// Sections returns the section names, sorted.
func (i *Instrument) Sections() []string {
	return sortedKeys(i.sections)
}

// Section returns a section by name.
func (i *Instrument) Section(name string) (*Section, error) {
	sec, ok := i.sections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownSection, i.Name, name)
	}
	return sec, nil
}

// Find searches every section of the instrument for name.
func (i *Instrument) Find(name string) (Descriptor, error) {
	for _, secName := range i.Sections() {
		sec := i.sections[secName]
		for _, pageName := range sec.Pages() {
			if d, ok := sec.pages[pageName].find(name); ok {
				return d, nil
			}
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %s/%s", ErrUnknownParameter, i.Name, name)
}

// Parameters returns every descriptor of the instrument in section, page and name order.
func (i *Instrument) Parameters() []Descriptor {
	var out []Descriptor
	for _, secName := range i.Sections() {
		out = append(out, i.sections[secName].Parameters()...)
	}
	return out
}

// Paged reports whether the section is split into pages.
func (s *Section) Paged() bool {
	_, direct := s.pages[DirectPage]
	return !direct
}

// Pages returns the page names, sorted. A flat section has the single page DirectPage.
func (s *Section) Pages() []string {
	return sortedKeys(s.pages)
}

// Page returns a page by name.
func (s *Section) Page(name string) (*Page, error) {
	p, ok := s.pages[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s/%s", ErrUnknownPage, s.Instrument, s.Name, name)
	}
	return p, nil
}

// Parameter resolves name on page by exact name, then ignoring case, then by alias.
func (s *Section) Parameter(page, name string) (Descriptor, error) {
	p, err := s.Page(page)
	if err != nil {
		return Descriptor{}, err
	}
	if d, ok := p.find(name); ok {
		return d, nil
	}
	return Descriptor{}, fmt.Errorf("%w: %s/%s/%s", ErrUnknownParameter, s.Name, page, name)
}

// Parameters returns every descriptor of the section in page and name order.
func (s *Section) Parameters() []Descriptor {
	var out []Descriptor
	for _, pageName := range s.Pages() {
		out = append(out, s.pages[pageName].Parameters()...)
	}
	return out
}

// Parameters returns the page's descriptors sorted by name.
func (p *Page) Parameters() []Descriptor {
	out := make([]Descriptor, 0, len(p.parameters))
	for _, name := range sortedKeys(p.parameters) {
		out = append(out, p.parameters[name])
	}
	return out
}

func (p *Page) find(name string) (Descriptor, bool) {
	if d, ok := p.parameters[name]; ok {
		return d, true
	}
	for _, d := range p.parameters {
		if strings.EqualFold(d.Name, name) || (d.Alias != "" && strings.EqualFold(d.Alias, name)) {
			return d, true
		}
	}
	return Descriptor{}, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type rawTable struct {
	Instrument     string                `yaml:"instrument"`
	DefaultChannel int                   `yaml:"default_channel"`
	Sections       map[string]rawSection `yaml:"sections"`
}

type rawSection struct {
	ToolPrefix string                             `yaml:"tool_prefix"`
	Parameters map[string]rawParameter            `yaml:"parameters"`
	Pages      map[string]map[string]rawParameter `yaml:"pages"`
}

type rawNRPN struct {
	MSB int `yaml:"msb"`
	LSB int `yaml:"lsb"`
}

type rawParameter struct {
	Alias       string       `yaml:"alias"`
	Tool        string       `yaml:"tool"`
	Description string       `yaml:"description"`
	Help        string       `yaml:"help"`
	CC          *int         `yaml:"cc"`
	CCLSB       *int         `yaml:"cc_lsb"`
	NRPN        *rawNRPN     `yaml:"nrpn"`
	MIDIRange   []float64    `yaml:"midi_range"`
	ValueRange  []float64    `yaml:"value_range"`
	Default     DefaultValue `yaml:"default"`
	Options     []rawOption  `yaml:"options"`
	Fixed       *int         `yaml:"fixed"`
}

// rawOption accepts a bare name, whose value is its position above the range
// minimum, or an explicit {name, value} pair.
type rawOption struct {
	Name     string
	Value    int
	Explicit bool
}

func (o *rawOption) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		o.Name = node.Value
		return nil
	}
	var pair struct {
		Name  string `yaml:"name"`
		Value int    `yaml:"value"`
	}
	if err := node.Decode(&pair); err != nil {
		return err
	}
	o.Name, o.Value, o.Explicit = pair.Name, pair.Value, true
	return nil
}

// UnmarshalYAML reads a quoted string as an option name and anything else as a number.
func (d *DefaultValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: default must be a scalar", node.Line)
	}
	d.Set = true
	if node.Tag == "!!str" {
		d.Option, d.IsOption = node.Value, true
		return nil
	}
	return node.Decode(&d.Number)
}

// LoadInstrument parses one YAML parameter table.
func LoadInstrument(r io.Reader) (*Instrument, error) {
	var raw rawTable
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if raw.Instrument == "" {
		return nil, fmt.Errorf("%w: missing instrument name", ErrInvalidTable)
	}

	inst := &Instrument{
		Name:           raw.Instrument,
		DefaultChannel: raw.DefaultChannel,
		sections:       make(map[string]*Section, len(raw.Sections)),
	}
	for secName, rs := range raw.Sections {
		sec := &Section{
			Instrument: inst.Name,
			Name:       secName,
			ToolPrefix: rs.ToolPrefix,
			pages:      make(map[string]*Page),
		}
		if sec.ToolPrefix == "" {
			sec.ToolPrefix = secName
		}

		pages := rs.Pages
		if len(pages) == 0 {
			pages = map[string]map[string]rawParameter{DirectPage: rs.Parameters}
		}
		for pageName, rawParams := range pages {
			page := &Page{Name: pageName, parameters: make(map[string]Descriptor, len(rawParams))}
			for name, rp := range rawParams {
				d, err := rp.descriptor(inst.Name, secName, pageName, name)
				if err != nil {
					return nil, err
				}
				page.parameters[name] = d
			}
			sec.pages[pageName] = page
		}
		inst.sections[secName] = sec
	}
	return inst, nil
}

func (rp rawParameter) descriptor(instrument, section, page, name string) (Descriptor, error) {
	where := strings.Trim(strings.Join([]string{instrument, section, page, name}, "/"), "/")
	d := Descriptor{
		Instrument:  instrument,
		Section:     section,
		Page:        page,
		Name:        name,
		Alias:       rp.Alias,
		Tool:        rp.Tool,
		Description: rp.Description,
		Help:        rp.Help,
		Default:     rp.Default,
		Fixed:       rp.Fixed,
		MIDIRange:   Range{Min: 0, Max: 127},
	}

	switch {
	case rp.CC != nil && rp.NRPN != nil:
		d.Addressing = Both(*rp.CC, rp.NRPN.MSB, rp.NRPN.LSB)
	case rp.CC != nil && rp.CCLSB != nil:
		d.Addressing = HighResCC(*rp.CC, *rp.CCLSB)
	case rp.CC != nil:
		d.Addressing = CC(*rp.CC)
	case rp.NRPN != nil:
		d.Addressing = NRPN(rp.NRPN.MSB, rp.NRPN.LSB)
	}

	if rp.MIDIRange != nil {
		if len(rp.MIDIRange) != 2 || rp.MIDIRange[0] > rp.MIDIRange[1] {
			return Descriptor{}, fmt.Errorf("%w: %s: midi_range must be [min, max]", ErrInvalidTable, where)
		}
		d.MIDIRange = Range{Min: rp.MIDIRange[0], Max: rp.MIDIRange[1]}
	}
	if rp.ValueRange != nil {
		if len(rp.ValueRange) != 2 || rp.ValueRange[0] > rp.ValueRange[1] {
			return Descriptor{}, fmt.Errorf("%w: %s: value_range must be [min, max]", ErrInvalidTable, where)
		}
		d.ValueRange = Range{Min: rp.ValueRange[0], Max: rp.ValueRange[1]}
	}

	for i, o := range rp.Options {
		value := o.Value
		if !o.Explicit {
			value = int(d.MIDIRange.Min) + i
		}
		d.Options = append(d.Options, Option{Name: o.Name, Value: value})
	}
	return d, nil
}
