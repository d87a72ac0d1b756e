// internal/presets/presets.go
//
// Named puzzle variants ("crossword", "word-search", "sopa-de-letras").
//
// Responsibilities:
//   - Load the preset catalogue from PRESETS_FILE or fall back to the
//     embedded assets/presets.yaml.
//   - Normalize target sequences (NFC + locale-aware upper casing) so that
//     "señales" and "SEÑALES" are the same seven-letter sequence.
//   - Validate sizes, sequences and locales up front so the engine never
//     sees a board it cannot place the sequence on.
//
// Catalogue format (YAML):
//
//	default: word-search
//	presets:
//	  - name: word-search
//	    size: 7
//	    sequence: SIGNALS
//	    lockCorrectCells: true
//	    locale: en
//	    offsetUnit: px
//	    daily: [SIGNALS, BEACONS]
package presets

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/wordsearch/assets"
	"github.com/robalobadob/wordsearch/internal/puzzle"
)

// MaxSize bounds the board edge.
const MaxSize = 26

var (
	ErrUnknownPreset   = errors.New("presets: unknown preset")
	ErrInvalidSequence = errors.New("presets: invalid sequence")
	ErrInvalidPreset   = errors.New("presets: invalid preset")
)

// Preset is one game variant.
type Preset struct {
	Name             string   `yaml:"name" json:"name"`
	Size             int      `yaml:"size" json:"size"`
	Sequence         string   `yaml:"sequence" json:"sequence"`
	LockCorrectCells bool     `yaml:"lockCorrectCells" json:"lockCorrectCells"`
	Locale           string   `yaml:"locale" json:"locale"`
	OffsetUnit       string   `yaml:"offsetUnit" json:"offsetUnit"`
	Daily            []string `yaml:"daily" json:"-"`
}

// Options converts the preset into engine options.
func (p Preset) Options() puzzle.Options {
	return puzzle.Options{
		Size:             p.Size,
		Sequence:         p.Sequence,
		LockCorrectCells: p.LockCorrectCells,
	}
}

// WithSequence returns a copy of p targeting another sequence, normalized
// and checked against the board size.
func (p Preset) WithSequence(seq string) (Preset, error) {
	n, err := NormalizeSequence(seq, p.Locale)
	if err != nil {
		return p, err
	}
	if len([]rune(n)) > p.Size {
		return p, fmt.Errorf("%w: %q does not fit a %dx%d board", ErrInvalidSequence, n, p.Size, p.Size)
	}
	p.Sequence = n
	return p, nil
}

// Catalog is a validated, ordered set of presets.
type Catalog struct {
	defaultName string
	order       []string
	byName      map[string]Preset
}

type catalogFile struct {
	Default string   `yaml:"default"`
	Presets []Preset `yaml:"presets"`
}

// Load reads the catalogue from path, or from the embedded default when
// path is empty.
func Load(path string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = assets.Presets()
	}
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalogue.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	if len(f.Presets) == 0 {
		return nil, fmt.Errorf("%w: catalogue is empty", ErrInvalidPreset)
	}

	c := &Catalog{byName: make(map[string]Preset, len(f.Presets))}
	for _, p := range f.Presets {
		p, err := validate(p)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byName[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidPreset, p.Name)
		}
		c.byName[p.Name] = p
		c.order = append(c.order, p.Name)
	}

	c.defaultName = f.Default
	if c.defaultName == "" {
		c.defaultName = c.order[0]
	}
	if _, ok := c.byName[c.defaultName]; !ok {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownPreset, c.defaultName)
	}
	return c, nil
}

func validate(p Preset) (Preset, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return p, fmt.Errorf("%w: missing name", ErrInvalidPreset)
	}
	if p.Size < 1 || p.Size > MaxSize {
		return p, fmt.Errorf("%w: %s: size %d out of [1,%d]", ErrInvalidPreset, p.Name, p.Size, MaxSize)
	}
	if p.Locale == "" {
		p.Locale = "en"
	}
	if _, err := language.Parse(p.Locale); err != nil {
		return p, fmt.Errorf("%w: %s: locale %q: %v", ErrInvalidPreset, p.Name, p.Locale, err)
	}
	if p.OffsetUnit == "" {
		p.OffsetUnit = "px"
	}

	withSeq, err := p.WithSequence(p.Sequence)
	if err != nil {
		return p, fmt.Errorf("%s: %w", p.Name, err)
	}
	p = withSeq

	daily := make([]string, 0, len(p.Daily))
	for _, d := range p.Daily {
		dp, err := p.WithSequence(d)
		if err != nil {
			return p, fmt.Errorf("%s daily: %w", p.Name, err)
		}
		daily = append(daily, dp.Sequence)
	}
	if len(daily) == 0 {
		daily = append(daily, p.Sequence)
	}
	p.Daily = daily
	return p, nil
}

// NormalizeSequence trims, NFC-normalizes and upper-cases seq using the
// casing rules of locale. Only letters are accepted.
func NormalizeSequence(seq, locale string) (string, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	s := norm.NFC.String(strings.TrimSpace(seq))
	s = cases.Upper(tag).String(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidSequence)
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return "", fmt.Errorf("%w: %q contains %q", ErrInvalidSequence, s, r)
		}
	}
	return s, nil
}

// Get looks a preset up by name.
func (c *Catalog) Get(name string) (Preset, error) {
	p, ok := c.byName[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// Default returns the catalogue's default preset.
func (c *Catalog) Default() Preset { return c.byName[c.defaultName] }

// SetDefault changes the default preset.
func (c *Catalog) SetDefault(name string) error {
	if _, ok := c.byName[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	c.defaultName = name
	return nil
}

// Names lists preset names in file order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// All returns every preset in file order.
func (c *Catalog) All() []Preset {
	out := make([]Preset, 0, len(c.order))
	for _, n := range c.order {
		out = append(out, c.byName[n])
	}
	return out
}

// Resolve returns the named preset, or the default when name is empty.
func (c *Catalog) Resolve(name string) (Preset, error) {
	if name == "" {
		return c.Default(), nil
	}
	return c.Get(name)
}
