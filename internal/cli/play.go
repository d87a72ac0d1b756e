package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordsearch/internal/locale"
	"github.com/robalobadob/wordsearch/internal/presets"
	"github.com/robalobadob/wordsearch/internal/puzzle"
)

var errBadInput = errors.New(`expected "row col", "reset" or "quit"`)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	Preset   string
	Sequence string
	Size     int
	Seed     uint64
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a puzzle in the terminal",
		Long: `Play a puzzle in the terminal.

Type "row col" (zero-based) to click a cell, "reset" for a new board and
"quit" to leave. Correct cells are shown as [X], wrong ones as (X).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Keep log lines readable next to the board.
			if isatty.IsTerminal(os.Stderr.Fd()) {
				log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
			}
			cfg := rootOpts.Config
			cat, err := loadCatalog(cfg.PresetsFile, cfg.DefaultPreset)
			if err != nil {
				return err
			}
			e, p, err := newEngine(cat, opts)
			if err != nil {
				return err
			}
			return runPlay(cmd.InOrStdin(), cmd.OutOrStdout(), e, p.Locale)
		},
	}

	cmd.Flags().StringVarP(&opts.Preset, "preset", "p", "", "preset name (default from catalogue)")
	cmd.Flags().StringVarP(&opts.Sequence, "sequence", "s", "", "override the target sequence")
	cmd.Flags().IntVar(&opts.Size, "size", 0, "override the board size")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "RNG seed for a reproducible board (0 = random)")

	return cmd
}

// newEngine resolves the preset, applies overrides and seeds the engine.
func newEngine(cat *presets.Catalog, opts *PlayOptions) (*puzzle.Engine, presets.Preset, error) {
	p, err := cat.Resolve(opts.Preset)
	if err != nil {
		return nil, p, err
	}
	if opts.Size != 0 {
		if opts.Size < 1 || opts.Size > presets.MaxSize {
			return nil, p, fmt.Errorf("size must be 1-%d", presets.MaxSize)
		}
		p.Size = opts.Size
	}
	seq := opts.Sequence
	if seq == "" {
		seq = p.Sequence
	}
	if p, err = p.WithSequence(seq); err != nil {
		return nil, p, err
	}
	o := p.Options()
	if opts.Seed != 0 {
		o.Rand = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	}
	e, err := puzzle.New(o)
	return e, p, err
}

// runPlay renders the board, reads one command per line and stops on
// "quit", end of input, or a solved puzzle.
func runPlay(in io.Reader, out io.Writer, e *puzzle.Engine, lang string) error {
	sc := bufio.NewScanner(in)
	for {
		if err := Render(out, e.Snapshot(), lang); err != nil {
			return err
		}
		if e.Finished() {
			return nil
		}
		fmt.Fprintf(out, "%s> ", locale.Get(lang, "prompt"))
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}

		line := strings.ToLower(strings.TrimSpace(sc.Text()))
		switch line {
		case "":
			continue
		case "quit", "q":
			return nil
		case "reset":
			e.Initialize()
			continue
		}

		row, col, err := parseCell(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		outcome, err := e.CheckLetter(row, col)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		log.Debug().Int("row", row).Int("col", col).Str("outcome", string(outcome)).Msg("click")
	}
}

func parseCell(line string) (row, col int, err error) {
	f := strings.Fields(line)
	if len(f) != 2 {
		return 0, 0, errBadInput
	}
	if row, err = strconv.Atoi(f[0]); err != nil {
		return 0, 0, errBadInput
	}
	if col, err = strconv.Atoi(f[1]); err != nil {
		return 0, 0, errBadInput
	}
	return row, col, nil
}
