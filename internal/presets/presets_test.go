package presets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"crossword", "word-search", "sopa-de-letras"}, c.Names())
	assert.Equal(t, "word-search", c.Default().Name)

	cw, err := c.Get("crossword")
	require.NoError(t, err)
	assert.False(t, cw.LockCorrectCells)
	assert.Equal(t, "%", cw.OffsetUnit)

	es, err := c.Get("sopa-de-letras")
	require.NoError(t, err)
	assert.Equal(t, "SEÑALES", es.Sequence)
	assert.Len(t, []rune(es.Sequence), 7)
	assert.True(t, es.LockCorrectCells)
	assert.Equal(t, "es", es.Locale)
	assert.Contains(t, es.Daily, "MONTAÑA")

	opts := es.Options()
	assert.Equal(t, 7, opts.Size)
	assert.Equal(t, "SEÑALES", opts.Sequence)
	assert.True(t, opts.LockCorrectCells)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
presets:
  - name: tiny
    size: 3
    sequence: abc
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	p := c.Default()
	assert.Equal(t, "tiny", p.Name)
	assert.Equal(t, "ABC", p.Sequence)
	assert.Equal(t, "en", p.Locale)
	assert.Equal(t, "px", p.OffsetUnit)
	assert.Equal(t, []string{"ABC"}, p.Daily)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":          `presets: []`,
		"no name":        "presets:\n  - size: 3\n    sequence: abc\n",
		"zero size":      "presets:\n  - name: a\n    size: 0\n    sequence: abc\n",
		"huge size":      "presets:\n  - name: a\n    size: 27\n    sequence: abc\n",
		"too long":       "presets:\n  - name: a\n    size: 2\n    sequence: abc\n",
		"digits":         "presets:\n  - name: a\n    size: 4\n    sequence: ab1\n",
		"dup":            "presets:\n  - name: a\n    size: 3\n    sequence: abc\n  - name: a\n    size: 3\n    sequence: abc\n",
		"bad default":    "default: nope\npresets:\n  - name: a\n    size: 3\n    sequence: abc\n",
		"bad daily":      "presets:\n  - name: a\n    size: 3\n    sequence: abc\n    daily: [abcd]\n",
		"not yaml":       "presets: [",
		"bad locale tag": "presets:\n  - name: a\n    size: 3\n    sequence: abc\n    locale: '!!'\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_UnknownDefaultIsTyped(t *testing.T) {
	_, err := Parse([]byte("default: nope\npresets:\n  - name: a\n    size: 3\n    sequence: abc\n"))
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestNormalizeSequence(t *testing.T) {
	got, err := NormalizeSequence("  señales ", "es")
	require.NoError(t, err)
	assert.Equal(t, "SEÑALES", got)

	// Decomposed N + combining tilde collapses to a single rune.
	got, err = NormalizeSequence("sen\u0303ales", "es")
	require.NoError(t, err)
	assert.Equal(t, "SEÑALES", got)
	assert.Len(t, []rune(got), 7)

	_, err = NormalizeSequence("", "en")
	assert.ErrorIs(t, err, ErrInvalidSequence)
	_, err = NormalizeSequence("two words", "en")
	assert.ErrorIs(t, err, ErrInvalidSequence)
}

func TestPreset_WithSequence(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	p := c.Default()

	q, err := p.WithSequence("beacons")
	require.NoError(t, err)
	assert.Equal(t, "BEACONS", q.Sequence)
	assert.Equal(t, "SIGNALS", p.Sequence)

	_, err = p.WithSequence("lighthouse")
	assert.ErrorIs(t, err, ErrInvalidSequence)
}

func TestCatalog_Resolve(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	p, err := c.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "word-search", p.Name)

	require.NoError(t, c.SetDefault("sopa-de-letras"))
	p, err = c.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "SEÑALES", p.Sequence)
	assert.ErrorIs(t, c.SetDefault("nope"), ErrUnknownPreset)

	_, err = c.Resolve("nope")
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Len(t, c.All(), 3)
}
