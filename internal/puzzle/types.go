// internal/puzzle/types.go
//
// Core type definitions for the sequence-click puzzle engine.
// Defines:
//   - State: per-cell feedback (default/correct/wrong).
//   - Cell, Position: board contents and coordinates.
//   - Outcome: result of a single click.
//   - Event: notifications pushed to engine listeners.
//   - WinAnimation: randomized offsets for the win flourish.

package puzzle

// State represents the feedback state of a single cell.
type State string

const (
	StateDefault State = "default"
	StateCorrect State = "correct"
	StateWrong   State = "wrong"
)

// Cell is a single board square.
type Cell struct {
	Letter rune  `json:"-"`
	State  State `json:"state"`
}

// Position addresses a cell by row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Outcome is the result of CheckLetter.
type Outcome string

const (
	// OutcomeIgnored: the puzzle is finished or the cell is locked; nothing changed.
	OutcomeIgnored Outcome = "ignored"
	OutcomeCorrect Outcome = "correct"
	OutcomeWrong   Outcome = "wrong"
)

// EventKind identifies what happened inside the engine.
type EventKind string

const (
	EventReset    EventKind = "reset"
	EventClick    EventKind = "click"
	EventFinished EventKind = "finished"
)

// Event is delivered synchronously to every listener after a mutation.
type Event struct {
	Kind      EventKind `json:"kind"`
	Outcome   Outcome   `json:"outcome,omitempty"`
	Position  *Position `json:"position,omitempty"`
	Progress  int       `json:"progress"`
	Clicks    int       `json:"clicks"`
	Intensity float64   `json:"intensity"`
	Finished  bool      `json:"finished"`
}

// WinAnimation carries the trigger value and the eight keyframe offsets
// (x1..x4, y1..y4) used by the win flourish.
type WinAnimation struct {
	Trigger bool               `json:"value"`
	Params  map[string]float64 `json:"params"`
}

// Snapshot is a read-only, JSON-ready view of an engine.
type Snapshot struct {
	Size        int        `json:"size"`
	Sequence    string     `json:"sequence"`
	Letters     [][]string `json:"letters"`
	States      [][]State  `json:"states"`
	Progress    int        `json:"progress"`
	LastClicked *Position  `json:"lastClicked"`
	MatchedPath []Position `json:"matchedPath"`
	Clicks      int        `json:"clicks"`
	Intensity   float64    `json:"intensity"`
	Finished    bool       `json:"finished"`
	Locked      bool       `json:"lockCorrectCells"`
}
