package auth

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordsearch/internal/db"
)

func newUsers(t *testing.T) (*Users, *sql.DB) {
	t.Helper()
	sqlDB, err := db.OpenMigrated(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewUsers(sqlDB), sqlDB
}

func newTokens() *Tokens {
	return &Tokens{Secret: []byte("test"), TTL: time.Hour, CookieName: "tok"}
}

func TestUsers_CreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	users, _ := newUsers(t)

	u, err := users.Create(ctx, "  alice ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Len(t, u.ID, 22)

	_, err = users.Create(ctx, "ALICE", "password123")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	got, err := users.Authenticate(ctx, "Alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.Authenticate(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidLogin)
	_, err = users.Authenticate(ctx, "bob", "password123")
	assert.ErrorIs(t, err, ErrInvalidLogin)

	_, err = users.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestValidateSignup(t *testing.T) {
	assert.ErrorIs(t, validateSignup("ab", "password123"), ErrInvalidSignup)
	assert.ErrorIs(t, validateSignup("bad name", "password123"), ErrInvalidSignup)
	assert.ErrorIs(t, validateSignup("alice", "short"), ErrInvalidSignup)
	assert.NoError(t, validateSignup("a_1", "password123"))
}

func TestIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	users, sqlDB := newUsers(t)
	_, err := users.Create(ctx, "frank", "password123")
	require.NoError(t, err)

	// Same insert Create issues when a concurrent signup slips past the lookup.
	_, err = sqlDB.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES ('x','FRANK','h','2026-01-01T00:00:00Z')`)
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))

	_, err = sqlDB.ExecContext(ctx, `INSERT INTO nope VALUES (1)`)
	require.Error(t, err)
	assert.False(t, isUniqueViolation(err))
}

func TestRecordPuzzle(t *testing.T) {
	ctx := context.Background()
	users, sqlDB := newUsers(t)
	u, err := users.Create(ctx, "carol", "password123")
	require.NoError(t, err)

	record := func(solved bool, clicks int) {
		tx, err := sqlDB.BeginTx(ctx, nil)
		require.NoError(t, err)
		require.NoError(t, RecordPuzzle(ctx, tx, u.ID, solved, clicks))
		require.NoError(t, tx.Commit())
	}
	record(true, 12)
	record(true, 9)
	record(true, 15)

	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Played)
	assert.Equal(t, 3, got.Solved)
	assert.Equal(t, 3, got.Streak)
	assert.Equal(t, 9, got.BestClicks)

	record(false, 4)
	got, err = users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Played)
	assert.Equal(t, 0, got.Streak)
	assert.Equal(t, 9, got.BestClicks)
}

func TestClaimAnonymous(t *testing.T) {
	ctx := context.Background()
	users, sqlDB := newUsers(t)
	u, err := users.Create(ctx, "dave", "password123")
	require.NoError(t, err)

	_, err = sqlDB.Exec(`INSERT INTO puzzles (id, anonymous_id, preset, sequence, started_at) VALUES ('p1','anon1','word-search','SIGNALS','2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, users.ClaimAnonymous(ctx, "anon1", u.ID))
	require.NoError(t, users.ClaimAnonymous(ctx, "", u.ID))

	var owner string
	require.NoError(t, sqlDB.QueryRow(`SELECT user_id FROM puzzles WHERE id='p1'`).Scan(&owner))
	assert.Equal(t, u.ID, owner)
}

func TestTokens_SignParse(t *testing.T) {
	tk := newTokens()
	s, exp, err := tk.Sign("id1", "alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	c, err := tk.Parse(s)
	require.NoError(t, err)
	assert.Equal(t, Claims{ID: "id1", Username: "alice"}, c)

	other := &Tokens{Secret: []byte("other"), TTL: time.Hour}
	_, err = other.Parse(s)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := &Tokens{Secret: []byte("test"), TTL: -time.Hour}
	s, _, err = expired.Sign("id1", "alice")
	require.NoError(t, err)
	_, err = tk.Parse(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_FromRequest(t *testing.T) {
	tk := newTokens()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", tk.FromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "tok", Value: "xyz"})
	assert.Equal(t, "xyz", tk.FromRequest(r))

	assert.Equal(t, "", tk.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestTokens_EnsureAnonID(t *testing.T) {
	tk := newTokens()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	id := tk.EnsureAnonID(w, r)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, tk.EnsureAnonID(httptest.NewRecorder(), r), "same request reuses the id")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AnonCookieName, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
}

func TestMiddleware(t *testing.T) {
	ctx := context.Background()
	users, _ := newUsers(t)
	tk := newTokens()
	u, err := users.Create(ctx, "erin", "password123")
	require.NoError(t, err)
	tok, _, err := tk.Sign(u.ID, u.Username)
	require.NoError(t, err)
	ghost, _, err := tk.Sign("ghost", "ghost")
	require.NoError(t, err)

	var seen *Principal
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	do := func(mw func(http.Handler) http.Handler, token string) int {
		seen = nil
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		mw(h).ServeHTTP(w, r)
		return w.Code
	}

	req := RequireAuth(tk, users)
	assert.Equal(t, http.StatusUnauthorized, do(req, ""))
	assert.Equal(t, http.StatusUnauthorized, do(req, "garbage"))
	assert.Equal(t, http.StatusUnauthorized, do(req, ghost))
	assert.Equal(t, http.StatusOK, do(req, tok))
	require.NotNil(t, seen)
	assert.Equal(t, "erin", seen.Username)

	opt := OptionalAuth(tk, users)
	assert.Equal(t, http.StatusOK, do(opt, ""))
	assert.Nil(t, seen)
	assert.Equal(t, http.StatusOK, do(opt, "garbage"))
	assert.Nil(t, seen)
	assert.Equal(t, http.StatusOK, do(opt, tok))
	require.NotNil(t, seen)
	assert.Equal(t, u.ID, seen.ID)
}
