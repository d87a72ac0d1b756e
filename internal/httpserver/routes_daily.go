// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's puzzle for a preset (creates or reuses a session)
//   - POST /daily/click       → click a cell on today's puzzle
//   - GET  /daily/leaderboard → fewest clicks for today (or a given date) and preset
//
// Each player gets one solved result per day and preset (enforced by the
// DB unique key and by the in-memory session map). The sequence is picked
// deterministically from the preset's daily list using date + salt.

package httpserver

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordsearch/internal/daily"
	"github.com/robalobadob/wordsearch/internal/presets"
	"github.com/robalobadob/wordsearch/internal/puzzle"
)

const maxLeaderboard = 100

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	now      func() time.Time
	sessions map[string]dailyEntry // userID|date|preset → live session
	mu       sync.Mutex            // guards sessions
}

type dailyEntry struct {
	id   string
	date string
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	s.daily = &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		now:      time.Now,
		sessions: make(map[string]dailyEntry),
	}
	d := s.daily
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", d.handleNew)
		r.Post("/click", d.handleClick)
		r.Get("/leaderboard", d.handleLeaderboard)
	})
}

// preset resolves name and requires a daily list.
func (d *dailyServer) preset(name string) (presets.Preset, bool) {
	p, err := d.srv.presets.Resolve(name)
	if err != nil || len(p.Daily) == 0 {
		return p, false
	}
	return p, true
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewReq struct {
	Preset string `json:"preset"`
}

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	Date   string     `json:"date"`
	Preset string     `json:"preset"`
	Played bool       `json:"played"`
	Puzzle *puzzleRes `json:"puzzle,omitempty"`
}

// handleNew creates or reuses today's session for the chosen preset.
//   - If the player already has a result for today → Played=true.
//   - Otherwise reuse the live session or start one on today's sequence.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	var req dailyNewReq
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	p, ok := d.preset(req.Preset)
	if !ok {
		writeError(w, http.StatusBadRequest, "no_daily")
		return
	}
	uid, _ := d.srv.ownerOf(w, r)
	now := d.now()
	date := daily.DateKey(now)

	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date, p.Name); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("daily already played")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	} else if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Preset: p.Name, Played: true})
		return
	}

	key := uid + "|" + date + "|" + p.Name
	d.mu.Lock()
	defer d.mu.Unlock()

	d.prune(r, date)
	if ent, ok := d.sessions[key]; ok {
		if sess, err := d.srv.store.Get(r.Context(), ent.id); err == nil {
			sess.Lock()
			res := d.srv.view(sess)
			sess.Unlock()
			writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Preset: p.Name, Puzzle: &res})
			return
		}
	}

	seq, idx := daily.Pick(now, d.salt, p.Daily)
	p, err := p.WithSequence(seq)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("preset", p.Name).Msg("daily sequence")
		writeError(w, http.StatusInternalServerError, "bad_daily_sequence")
		return
	}
	sess, err := d.srv.startSession(w, r, p, date, idx)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("start daily")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.sessions[key] = dailyEntry{id: sess.ID, date: date}

	sess.Lock()
	res := d.srv.view(sess)
	sess.Unlock()
	writeJSON(w, http.StatusCreated, dailyNewRes{Date: date, Preset: p.Name, Puzzle: &res})
}

// prune drops sessions from earlier days. Callers hold d.mu.
func (d *dailyServer) prune(r *http.Request, today string) {
	for key, ent := range d.sessions {
		if ent.date == today {
			continue
		}
		delete(d.sessions, key)
		if err := d.srv.store.Delete(r.Context(), ent.id); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("puzzle", ent.id).Msg("drop stale daily")
		}
	}
}

// -----------------------------------------------------------------------------
// /daily/click

// dailyClickReq is the request payload for /daily/click.
type dailyClickReq struct {
	ID  string `json:"id"`
	Row *int   `json:"row"`
	Col *int   `json:"col"`
}

// dailyClickRes is the response payload for /daily/click.
type dailyClickRes struct {
	Outcome puzzle.Outcome `json:"outcome"`
	State   string         `json:"state"` // in_progress | solved | locked
	Clicks  int            `json:"clicks"`
	Puzzle  puzzleRes      `json:"puzzle"`
}

// handleClick applies a click to today's session.
//   - Rejects unknown, foreign or stale (non-today) sessions.
//   - A click on a solved session is reported as locked.
func (d *dailyServer) handleClick(w http.ResponseWriter, r *http.Request) {
	var req dailyClickReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ID == "" || req.Row == nil || req.Col == nil {
		writeError(w, http.StatusBadRequest, "invalid")
		return
	}
	sess, err := d.srv.store.Get(r.Context(), req.ID)
	if err != nil || sess.Daily == "" || !owns(r, sess) {
		writeError(w, http.StatusConflict, "no_session")
		return
	}
	if sess.Daily != daily.DateKey(d.now()) {
		writeError(w, http.StatusConflict, "expired")
		return
	}

	sess.Lock()
	wasFinished := sess.Engine.Finished()
	sess.Unlock()

	outcome, res, err := d.srv.applyClick(r, sess, *req.Row, *req.Col)
	if err != nil {
		writeClickError(w, err)
		return
	}
	state := "in_progress"
	switch {
	case wasFinished:
		state = "locked"
	case res.Finished:
		state = "solved"
	}
	writeJSON(w, http.StatusOK, dailyClickRes{Outcome: outcome, State: state, Clicks: res.Clicks, Puzzle: res})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date   string        `json:"date"`
	Preset string        `json:"preset"`
	Top    []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for ?date= (default today),
// ?preset= (default preset) and ?limit= (default daily.DefaultLimit).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	p, err := d.srv.presets.Resolve(q.Get("preset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_preset")
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit > maxLeaderboard {
		limit = maxLeaderboard
	}
	rows, err := d.store.Leaderboard(r.Context(), date, p.Name, limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Preset: p.Name, Top: rows})
}
