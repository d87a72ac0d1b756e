// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Puzzle sessions are ephemeral: the engine lives here for the lifetime of
// a game, and only summaries (clicks, status) are written to SQLite.
//
// Characteristics:
//   - Stores *Session values keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each Session carries its own mutex; the engine itself is not
//     goroutine-safe, so handlers hold Session.Lock while touching it.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordsearch/internal/puzzle"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("store: session not found")

// Session is one live puzzle.
type Session struct {
	ID        string
	Preset    string
	Locale    string
	OwnerID   string // user ID or anonymous ID
	Anonymous bool
	Daily     string // date key for daily sessions, "" otherwise
	DailyIdx  int
	StartedAt time.Time
	Engine    *puzzle.Engine

	mu sync.Mutex
}

// NewSession wraps an engine with a fresh UUIDv7 identifier.
func NewSession(preset, locale string, e *puzzle.Engine) *Session {
	return &Session{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Preset:    preset,
		Locale:    locale,
		StartedAt: time.Now().UTC(),
		Engine:    e,
	}
}

// Lock serializes access to the session's engine.
func (s *Session) Lock() { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Store defines the persistence interface for live sessions.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session is unknown.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete drops a session; unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Len reports the number of live sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions map
	sessions map[string]*Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

// Save adds or updates the session in the map.
func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
