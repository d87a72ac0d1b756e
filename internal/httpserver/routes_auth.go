// internal/httpserver/routes_auth.go
//
// Accounts and per-user history.
//   - POST /auth/signup, /auth/login, /auth/logout
//   - GET  /auth/me, /stats/me, /puzzles/mine (require auth)
//
// Signup and login claim any puzzles played under the anonymous cookie.

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordsearch/internal/auth"
)

// credentials is the payload for signup/login.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers authentication + gated routes.
func (s *Server) mountAuthRoutes(r chi.Router) {
	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(s.tokens, s.users))
		r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, auth.FromContext(r.Context()))
		})
		r.Get("/stats/me", s.handleStats)
		r.Get("/puzzles/mine", s.handleMyPuzzles)
	})
}

// handleSignup creates a new user, signs a JWT, sets the auth cookie and
// claims anonymous history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !decodeJSON(w, r, &body) {
		return
	}
	u, err := s.users.Create(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken")
		return
	case errors.Is(err, auth.ErrInvalidSignup):
		writeError(w, http.StatusBadRequest, "invalid_signup")
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msg("signup")
		writeError(w, http.StatusInternalServerError, "signup_failed")
		return
	}
	if !s.issue(w, r, u) {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates, sets the cookie and claims anonymous history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !decodeJSON(w, r, &body) {
		return
	}
	u, err := s.users.Authenticate(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_login")
		return
	}
	if !s.issue(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

// issue signs a token for u, sets the cookie and attaches anonymous puzzles.
func (s *Server) issue(w http.ResponseWriter, r *http.Request, u *auth.User) bool {
	tok, exp, err := s.tokens.Sign(u.ID, u.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.tokens.SetCookie(w, tok, exp)
	if c, err := r.Cookie(auth.AnonCookieName); err == nil {
		if err := s.users.ClaimAnonymous(r.Context(), c.Value, u.ID); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("user", u.ID).Msg("claim anonymous puzzles")
		}
	}
	return true
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.tokens.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	me := auth.FromContext(r.Context())
	u, err := s.users.FindByID(r.Context(), me.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         u.ID,
		"played":     u.Played,
		"solved":     u.Solved,
		"streak":     u.Streak,
		"bestClicks": u.BestClicks,
	})
}

// puzzleRow is one line of /puzzles/mine.
type puzzleRow struct {
	ID         string `json:"id"`
	Preset     string `json:"preset"`
	Sequence   string `json:"sequence"`
	Status     string `json:"status"`
	Clicks     int    `json:"clicks"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// handleMyPuzzles lists the 50 most recent puzzles of the current user.
func (s *Server) handleMyPuzzles(w http.ResponseWriter, r *http.Request) {
	me := auth.FromContext(r.Context())
	rows, err := s.db.QueryContext(r.Context(),
		`SELECT id, preset, sequence, status, clicks, started_at, COALESCE(finished_at,'')
		 FROM puzzles WHERE user_id=? ORDER BY started_at DESC LIMIT 50`, me.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	defer rows.Close()

	out := []puzzleRow{}
	for rows.Next() {
		var pr puzzleRow
		if err := rows.Scan(&pr.ID, &pr.Preset, &pr.Sequence, &pr.Status, &pr.Clicks, &pr.StartedAt, &pr.FinishedAt); err != nil {
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		out = append(out, pr)
	}
	if err := rows.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, out)
}
