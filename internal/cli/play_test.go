package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordsearch/internal/presets"
)

func testCatalog(t *testing.T) *presets.Catalog {
	t.Helper()
	cat, err := presets.Load("")
	require.NoError(t, err)
	return cat
}

func TestParseCell(t *testing.T) {
	row, col, err := parseCell("3 4")
	require.NoError(t, err)
	assert.Equal(t, 3, row)
	assert.Equal(t, 4, col)

	for _, in := range []string{"3", "a b", "1 2 3", "1 x"} {
		_, _, err := parseCell(in)
		assert.ErrorIs(t, err, errBadInput, in)
	}
}

func TestNewEngine(t *testing.T) {
	cat := testCatalog(t)

	e, p, err := newEngine(cat, &PlayOptions{Preset: "sopa-de-letras"})
	require.NoError(t, err)
	assert.Equal(t, "es", p.Locale)
	assert.Equal(t, "SEÑALES", e.Sequence())
	assert.True(t, e.LockCorrectCells())

	e, _, err = newEngine(cat, &PlayOptions{Size: 4, Sequence: "go"})
	require.NoError(t, err)
	assert.Equal(t, 4, e.Size())
	assert.Equal(t, "GO", e.Sequence())

	_, _, err = newEngine(cat, &PlayOptions{Size: 3})
	assert.ErrorIs(t, err, presets.ErrInvalidSequence)
	_, _, err = newEngine(cat, &PlayOptions{Preset: "nope"})
	assert.ErrorIs(t, err, presets.ErrUnknownPreset)

	// Same seed, same board.
	a, _, err := newEngine(cat, &PlayOptions{Seed: 42})
	require.NoError(t, err)
	b, _, err := newEngine(cat, &PlayOptions{Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestRunPlay_Solves(t *testing.T) {
	e, p, err := newEngine(testCatalog(t), &PlayOptions{Seed: 7})
	require.NoError(t, err)

	var in strings.Builder
	in.WriteString("bogus\n9 9\n\n")
	for i := 0; i < len([]rune(e.Sequence())); i++ {
		fmt.Fprintf(&in, "%d %d\n", i, i)
	}

	var out bytes.Buffer
	require.NoError(t, runPlay(strings.NewReader(in.String()), &out, e, p.Locale))

	assert.True(t, e.Finished())
	assert.Equal(t, 7, e.Clicks())
	s := out.String()
	assert.Contains(t, s, errBadInput.Error())
	assert.Contains(t, s, "out of range")
	assert.Contains(t, s, "row col (or 'reset', 'quit')> ")
	assert.True(t, strings.HasSuffix(s, "Solved in 7 clicks!\n"))
}

func TestRunPlay_ResetAndQuit(t *testing.T) {
	e, p, err := newEngine(testCatalog(t), &PlayOptions{Seed: 7})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runPlay(strings.NewReader("1 1\nreset\nquit\nnever read\n"), &out, e, p.Locale))
	assert.Equal(t, 0, e.Clicks())
	assert.False(t, e.Finished())
	assert.Equal(t, 3, strings.Count(out.String(), "SIGNALS "), "one board per prompt")
}

func TestRunPlay_EOF(t *testing.T) {
	e, p, err := newEngine(testCatalog(t), &PlayOptions{Seed: 7})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runPlay(strings.NewReader("0 0\n"), &out, e, p.Locale))
	assert.Equal(t, 1, e.Progress())
}
