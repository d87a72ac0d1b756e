// internal/puzzle/engine.go
//
// Core engine for a single word-search session.
// Responsibilities:
//   - Build (or reuse) an N×N board with the target sequence on the diagonal.
//   - Accept clicks, enforcing 8-way adjacency to the last correct cell.
//   - Track progress, click count, matched path and the finished flag.
//   - Derive the win-animation intensity from the latest click count.
//
// Notes:
//   - The engine is not safe for concurrent use; callers serialize access
//     (see store.Session).
//   - Listeners are called synchronously after each mutation, so anything
//     they read reflects the state that was just written.
package puzzle

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	DefaultSize         = 7
	DefaultSequence     = "SIGNALS"
	DefaultMaxMagnitude = 300.0
)

var (
	// ErrOutOfRange is returned for coordinates outside the board.
	ErrOutOfRange = errors.New("puzzle: cell out of range")
	// ErrInvalidConfig is returned for a negative board size.
	ErrInvalidConfig = errors.New("puzzle: invalid configuration")
)

// Options configures a new Engine. Zero values fall back to the defaults.
type Options struct {
	Size     int
	Sequence string

	// LockCorrectCells freezes cells once they reach StateCorrect.
	LockCorrectCells bool

	MaxMagnitude float64

	// Rand drives letter generation and animation offsets.
	Rand *rand.Rand
}

// Engine owns the board and the sequence-matching state.
type Engine struct {
	size         int
	sequence     []rune
	lock         bool
	maxMagnitude float64
	rng          *rand.Rand

	board       [][]Cell
	progress    int
	lastClicked *Position
	matched     []Position
	clicks      int
	finished    bool

	listeners map[int]func(Event)
	nextID    int
}

// New constructs an engine and initializes its board.
func New(opts Options) (*Engine, error) {
	if opts.Size == 0 {
		opts.Size = DefaultSize
	}
	if opts.Sequence == "" {
		opts.Sequence = DefaultSequence
	}
	if opts.MaxMagnitude == 0 {
		opts.MaxMagnitude = DefaultMaxMagnitude
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Size < 0 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidConfig, opts.Size)
	}

	e := &Engine{
		size:         opts.Size,
		sequence:     []rune(opts.Sequence),
		lock:         opts.LockCorrectCells,
		maxMagnitude: opts.MaxMagnitude,
		rng:          opts.Rand,
		listeners:    make(map[int]func(Event)),
	}
	e.Initialize()
	return e, nil
}

// Initialize regenerates letters and states and resets every counter.
// The board slice is reused when its size has not changed.
func (e *Engine) Initialize() {
	if len(e.board) != e.size {
		e.createBoard()
	}
	e.fillBoard()

	e.progress = 0
	e.finished = false
	e.lastClicked = nil
	e.clicks = 0
	e.matched = e.matched[:0]

	e.emit(Event{Kind: EventReset})
}

// Reconfigure changes the board size and/or target sequence, then
// initializes. Zero/empty arguments keep the current value.
func (e *Engine) Reconfigure(size int, sequence string) error {
	if size < 0 {
		return fmt.Errorf("%w: size %d", ErrInvalidConfig, size)
	}
	if size > 0 {
		e.size = size
	}
	if sequence != "" {
		e.sequence = []rune(sequence)
	}
	e.Initialize()
	return nil
}

func (e *Engine) createBoard() {
	e.board = make([][]Cell, e.size)
	for i := range e.board {
		e.board[i] = make([]Cell, e.size)
	}
}

func (e *Engine) fillBoard() {
	for i := 0; i < e.size; i++ {
		for j := 0; j < e.size; j++ {
			e.board[i][j] = e.newCell(i, j)
		}
	}
}

// newCell places the sequence on the diagonal and random A–Z elsewhere.
func (e *Engine) newCell(i, j int) Cell {
	c := Cell{State: StateDefault}
	if i == j && i < len(e.sequence) {
		c.Letter = e.sequence[i]
	} else {
		c.Letter = rune('A' + e.rng.IntN(26))
	}
	return c
}

// IsAdjacent reports whether (row, col) is within one step (including
// diagonals and the cell itself) of the last correct cell. Before the first
// correct click every cell is adjacent.
func (e *Engine) IsAdjacent(row, col int) bool {
	if e.lastClicked == nil {
		return true
	}
	return abs(e.lastClicked.Row-row) <= 1 && abs(e.lastClicked.Col-col) <= 1
}

// CheckLetter applies a click on (row, col).
//
// Guards (no-op, OutcomeIgnored):
//   - the puzzle is finished;
//   - LockCorrectCells is set and the cell is already correct.
//
// Otherwise the click counter is incremented and the cell becomes correct
// when it is adjacent and holds the next letter, or wrong in every other
// case. A wrong click never moves the anchor.
func (e *Engine) CheckLetter(row, col int) (Outcome, error) {
	if row < 0 || row >= e.size || col < 0 || col >= e.size {
		return OutcomeIgnored, fmt.Errorf("%w: (%d,%d) on %dx%d", ErrOutOfRange, row, col, e.size, e.size)
	}
	cell := &e.board[row][col]
	if e.finished || (e.lock && cell.State == StateCorrect) {
		return OutcomeIgnored, nil
	}

	e.clicks++

	pos := Position{Row: row, Col: col}
	outcome := OutcomeWrong
	if e.progress < len(e.sequence) && e.IsAdjacent(row, col) && cell.Letter == e.sequence[e.progress] {
		e.progress++
		cell.State = StateCorrect
		e.lastClicked = &Position{Row: row, Col: col}
		e.matched = append(e.matched, pos)
		outcome = OutcomeCorrect
		if e.progress == len(e.sequence) {
			e.finished = true
		}
	} else {
		cell.State = StateWrong
	}

	e.emit(Event{Kind: EventClick, Outcome: outcome, Position: &pos})
	if outcome == OutcomeCorrect && e.finished {
		e.emit(Event{Kind: EventFinished})
	}
	return outcome, nil
}

// Intensity is sequenceLength * maxMagnitude / max(clicks, 1), computed
// from the current click count on every call.
func (e *Engine) Intensity() float64 {
	clicks := e.clicks
	if clicks < 1 {
		clicks = 1
	}
	return float64(len(e.sequence)) * e.maxMagnitude / float64(clicks)
}

// WinAnimation samples the eight keyframe offsets. Each is uniform in
// [-Intensity, Intensity). Trigger mirrors the finished flag.
func (e *Engine) WinAnimation() WinAnimation {
	intensity := e.Intensity()
	params := make(map[string]float64, 8)
	for i := 0; i < 8; i++ {
		axis := "x"
		if i >= 4 {
			axis = "y"
		}
		params[fmt.Sprintf("%s%d", axis, i%4+1)] = (e.rng.Float64()*2 - 1) * intensity
	}
	return WinAnimation{Trigger: e.finished, Params: params}
}

// Subscribe registers fn for engine events and returns a function that
// removes it.
func (e *Engine) Subscribe(fn func(Event)) func() {
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() { delete(e.listeners, id) }
}

func (e *Engine) emit(ev Event) {
	if len(e.listeners) == 0 {
		return
	}
	ev.Progress = e.progress
	ev.Clicks = e.clicks
	ev.Intensity = e.Intensity()
	ev.Finished = e.finished
	for _, fn := range e.listeners {
		fn(ev)
	}
}

// --- read accessors ---

func (e *Engine) Size() int { return e.size }
func (e *Engine) Sequence() string { return string(e.sequence) }
func (e *Engine) Progress() int { return e.progress }
func (e *Engine) Clicks() int { return e.clicks }
func (e *Engine) Finished() bool { return e.finished }
func (e *Engine) LockCorrectCells() bool { return e.lock }

// LastClicked returns the most recent correct cell, or nil.
func (e *Engine) LastClicked() *Position {
	if e.lastClicked == nil {
		return nil
	}
	p := *e.lastClicked
	return &p
}

// MatchedPath returns a copy of the correctly matched cells in order.
func (e *Engine) MatchedPath() []Position {
	out := make([]Position, len(e.matched))
	copy(out, e.matched)
	return out
}

// Board returns a deep copy of the grid.
func (e *Engine) Board() [][]Cell {
	out := make([][]Cell, len(e.board))
	for i, row := range e.board {
		out[i] = make([]Cell, len(row))
		copy(out[i], row)
	}
	return out
}

// Cell returns a copy of a single cell.
func (e *Engine) Cell(row, col int) (Cell, error) {
	if row < 0 || row >= e.size || col < 0 || col >= e.size {
		return Cell{}, ErrOutOfRange
	}
	return e.board[row][col], nil
}

// Snapshot builds a JSON-ready view of the current state.
func (e *Engine) Snapshot() Snapshot {
	letters := make([][]string, e.size)
	states := make([][]State, e.size)
	for i, row := range e.board {
		letters[i] = make([]string, len(row))
		states[i] = make([]State, len(row))
		for j, c := range row {
			letters[i][j] = string(c.Letter)
			states[i][j] = c.State
		}
	}
	return Snapshot{
		Size:        e.size,
		Sequence:    e.Sequence(),
		Letters:     letters,
		States:      states,
		Progress:    e.progress,
		LastClicked: e.LastClicked(),
		MatchedPath: e.MatchedPath(),
		Clicks:      e.clicks,
		Intensity:   e.Intensity(),
		Finished:    e.finished,
		Locked:      e.lock,
	}
}

// String renders the letters row by row, mainly for logs and tests.
func (e *Engine) String() string {
	var b strings.Builder
	for i, row := range e.board {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			b.WriteRune(c.Letter)
		}
	}
	return b.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
