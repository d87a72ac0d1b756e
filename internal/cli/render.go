package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/robalobadob/wordsearch/internal/locale"
	"github.com/robalobadob/wordsearch/internal/puzzle"
)

// Render draws snap as text: a status line, the grid with column and row
// indices, a localized legend, and the solved message once finished.
//
//	SIG 1/3 clicks=2
//	    0   1   2
//	 0 [S]  X   Q
//	 1  B  (I)  W
func Render(w io.Writer, snap puzzle.Snapshot, lang string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %d/%d clicks=%d\n", snap.Sequence, snap.Progress, len([]rune(snap.Sequence)), snap.Clicks)

	var line strings.Builder
	line.WriteString("  ")
	for j := 0; j < snap.Size; j++ {
		fmt.Fprintf(&line, "%3d ", j)
	}
	writeTrimmed(bw, &line)

	for i := 0; i < snap.Size; i++ {
		fmt.Fprintf(&line, "%2d", i)
		for j := 0; j < snap.Size; j++ {
			line.WriteByte(' ')
			line.WriteString(marker(snap.Letters[i][j], snap.States[i][j]))
		}
		writeTrimmed(bw, &line)
	}

	fmt.Fprintf(bw, "[X] %s  (X) %s\n",
		locale.Label(lang, puzzle.StateCorrect), locale.Label(lang, puzzle.StateWrong))
	if snap.Finished {
		fmt.Fprintln(bw, locale.Get(lang, "solved", snap.Clicks))
	}
	return bw.Flush()
}

func marker(letter string, s puzzle.State) string {
	switch s {
	case puzzle.StateCorrect:
		return "[" + letter + "]"
	case puzzle.StateWrong:
		return "(" + letter + ")"
	default:
		return " " + letter + " "
	}
}

func writeTrimmed(w *bufio.Writer, b *strings.Builder) {
	w.WriteString(strings.TrimRight(b.String(), " "))
	w.WriteByte('\n')
	b.Reset()
}
