package cli

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordsearch/internal/puzzle"
)

const (
	dflt = puzzle.StateDefault
	corr = puzzle.StateCorrect
	wrng = puzzle.StateWrong
)

func TestRender_Golden(t *testing.T) {
	cases := []struct {
		name string
		lang string
		snap puzzle.Snapshot
	}{
		{
			name: "board_en",
			lang: "en",
			snap: puzzle.Snapshot{
				Size:     3,
				Sequence: "SIG",
				Letters:  [][]string{{"S", "X", "Q"}, {"B", "I", "W"}, {"C", "D", "G"}},
				States:   [][]puzzle.State{{corr, dflt, dflt}, {dflt, wrng, dflt}, {dflt, dflt, dflt}},
				Progress: 1,
				Clicks:   2,
			},
		},
		{
			name: "board_es_solved",
			lang: "es",
			snap: puzzle.Snapshot{
				Size:     3,
				Sequence: "SEÑ",
				Letters:  [][]string{{"S", "A", "B"}, {"C", "E", "D"}, {"F", "G", "Ñ"}},
				States:   [][]puzzle.State{{corr, dflt, dflt}, {dflt, corr, dflt}, {dflt, dflt, corr}},
				Progress: 3,
				Clicks:   3,
				Finished: true,
			},
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, tc.snap, tc.lang))
			g.Assert(t, tc.name, buf.Bytes())
		})
	}
}
