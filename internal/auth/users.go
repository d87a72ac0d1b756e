// internal/auth/users.go
//
// User accounts and per-user puzzle statistics.
// Responsibilities:
//   - Signup validation, bcrypt hashing and lookup by username/ID.
//   - Recording finished puzzles (played/solved/streak/best clicks).
//   - Claiming anonymous puzzle history after signup/login.

package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken = errors.New("username taken")
	ErrInvalidLogin  = errors.New("invalid username or password")
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidSignup = errors.New("invalid signup")
)

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	Played       int       `json:"played"`
	Solved       int       `json:"solved"`
	Streak       int       `json:"streak"`
	BestClicks   int       `json:"bestClicks"`
}

// Users is the SQLite-backed account repository.
type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users { return &Users{db: db} }

// Create validates input, checks uniqueness, hashes the password and
// inserts a new user.
func (u *Users) Create(ctx context.Context, username, pw string) (*User, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	err := u.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	switch {
	case err == nil:
		return nil, ErrUsernameTaken
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Truncate(time.Second)
	user := &User{ID: GenID(), Username: username, PasswordHash: string(h), CreatedAt: now}
	if _, err := u.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		user.ID, user.Username, user.PasswordHash, now.Format(time.RFC3339)); err != nil {
		// a concurrent signup can win between the lookup and the insert
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user when username/password match.
func (u *Users) Authenticate(ctx context.Context, username, pw string) (*User, error) {
	user, err := u.FindByUsername(ctx, normalizeUsername(username))
	if err != nil || !checkPassword(user.PasswordHash, pw) {
		return nil, ErrInvalidLogin
	}
	return user, nil
}

const userColumns = `id, username, password_hash, created_at, played, solved, streak, best_clicks`

// FindByUsername loads a user case-insensitively.
func (u *Users) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := u.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

// FindByID loads a user by primary key.
func (u *Users) FindByID(ctx context.Context, id string) (*User, error) {
	row := u.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var created string
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &created,
		&user.Played, &user.Solved, &user.Streak, &user.BestClicks); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &user, nil
}

// RecordPuzzle bumps stats for a finished or abandoned puzzle inside tx.
// A solve extends the streak and may improve best clicks; anything else
// resets the streak.
func RecordPuzzle(ctx context.Context, tx *sql.Tx, userID string, solved bool, clicks int) error {
	var played, wins, streak, best int
	row := tx.QueryRowContext(ctx, `SELECT played, solved, streak, best_clicks FROM users WHERE id=?`, userID)
	if err := row.Scan(&played, &wins, &streak, &best); err != nil {
		return err
	}
	played++
	if solved {
		wins++
		streak++
		if best == 0 || clicks < best {
			best = clicks
		}
	} else {
		streak = 0
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE users SET played=?, solved=?, streak=?, best_clicks=? WHERE id=?`,
		played, wins, streak, best, userID)
	return err
}

// ClaimAnonymous transfers puzzles recorded under anonID to userID.
func (u *Users) ClaimAnonymous(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := u.db.ExecContext(ctx,
		`UPDATE puzzles SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// normalizeUsername trims whitespace; adjust here if you want stricter rules.
func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return fmt.Errorf("%w: username must be 3-24 chars", ErrInvalidSignup)
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("%w: username: letters, numbers, underscore only", ErrInvalidSignup)
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return fmt.Errorf("%w: password must be 8-100 chars", ErrInvalidSignup)
	}
	return nil
}

// GenID creates a 22-char URL-safe, crypto-random identifier (no padding).
func GenID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
