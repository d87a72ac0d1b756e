package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/robalobadob/wordsearch/internal/puzzle"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "correct", Label("en", puzzle.StateCorrect))
	assert.Equal(t, "wrong", Label("en", puzzle.StateWrong))

	assert.Equal(t, "inicial", Label("es", puzzle.StateDefault))
	assert.Equal(t, "correcto", Label("es", puzzle.StateCorrect))
	assert.Equal(t, "incorrecto", Label("es", puzzle.StateWrong))
}

func TestLabel_UnknownLocaleFallsBack(t *testing.T) {
	assert.Equal(t, "correct", Label("fr", puzzle.StateCorrect))
	// cached path
	assert.Equal(t, "wrong", Label("fr", puzzle.StateWrong))
}

func TestGet_Formats(t *testing.T) {
	assert.Equal(t, "Solved in 12 clicks!", Get("en", "solved", 12))
	assert.Equal(t, "¡Resuelto en 3 clics!", Get("es", "solved", 3))
}

func TestLabels(t *testing.T) {
	l := Labels("es")
	assert.Len(t, l, 3)
	assert.Equal(t, "incorrecto", l[puzzle.StateWrong])
}
