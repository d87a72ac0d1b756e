package daily

import (
	"context"
	"database/sql"
)

// DefaultLimit is the leaderboard size when none is requested.
const DefaultLimit = 20

// Result is one player's solved daily puzzle.
type Result struct {
	UserID        string `json:"userId"`
	Date          string `json:"date"`
	Preset        string `json:"preset"`
	SequenceIndex int    `json:"sequenceIndex"`
	Clicks        int    `json:"clicks"`
	ElapsedMs     int    `json:"elapsedMs"`
}

// LBRow is a leaderboard line. UserID stays server-side: for guests it is
// the anonymous cookie value, which also proves session ownership.
type LBRow struct {
	UserID    string `json:"-"`
	Username  string `json:"username,omitempty"`
	Clicks    int    `json:"clicks"`
	ElapsedMs int    `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether userID has a result for date and preset.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date, preset string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=? AND preset=?`,
		userID, date, preset,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult stores a result; a second result for the same
// (user, date, preset) is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, preset, sequence_index, clicks, elapsed_ms)
		 VALUES(?,?,?,?,?,?)`,
		r.UserID, r.Date, r.Preset, r.SequenceIndex, r.Clicks, r.ElapsedMs,
	)
	return err
}

// Leaderboard returns the best results for a date and preset: fewest
// clicks, then fastest, then earliest.
func (s *Store) Leaderboard(ctx context.Context, date, preset string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.user_id, COALESCE(u.username, ''), d.clicks, d.elapsed_ms
		 FROM daily_results d
		 LEFT JOIN users u ON u.id = d.user_id
		 WHERE d.date=? AND d.preset=?
		 ORDER BY d.clicks ASC, d.elapsed_ms ASC, d.created_at ASC
		 LIMIT ?`, date, preset, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.Clicks, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
