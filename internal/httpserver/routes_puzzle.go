// internal/httpserver/routes_puzzle.go
//
// HTTP routes for free play.
//   - GET  /presets            → catalogue + default preset name
//   - POST /puzzle/new         → start a puzzle from a preset (optional size/sequence)
//   - GET  /puzzle/{id}        → current snapshot
//   - POST /puzzle/{id}/click  → apply one click (not for daily sessions)
//   - POST /puzzle/{id}/reset  → start over on the same session
//   - GET  /puzzle/{id}/win    → win flourish offsets
//   - GET  /puzzle/{id}/ws     → live event stream
//
// Sessions live in memory; a puzzles row mirrors status and click count
// so history and stats survive restarts.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordsearch/internal/auth"
	"github.com/robalobadob/wordsearch/internal/daily"
	"github.com/robalobadob/wordsearch/internal/locale"
	"github.com/robalobadob/wordsearch/internal/presets"
	"github.com/robalobadob/wordsearch/internal/puzzle"
	"github.com/robalobadob/wordsearch/internal/store"
)

// puzzleRes is the JSON view of a session.
type puzzleRes struct {
	ID         string                  `json:"id"`
	Preset     string                  `json:"preset"`
	Locale     string                  `json:"locale"`
	OffsetUnit string                  `json:"offsetUnit"`
	Labels     map[puzzle.State]string `json:"labels"`
	Daily      string                  `json:"daily,omitempty"`
	puzzle.Snapshot
}

// view renders sess. Callers hold the session lock.
func (s *Server) view(sess *store.Session) puzzleRes {
	unit := ""
	if p, err := s.presets.Get(sess.Preset); err == nil {
		unit = p.OffsetUnit
	}
	return puzzleRes{
		ID:         sess.ID,
		Preset:     sess.Preset,
		Locale:     sess.Locale,
		OffsetUnit: unit,
		Labels:     locale.Labels(sess.Locale),
		Daily:      sess.Daily,
		Snapshot:   sess.Engine.Snapshot(),
	}
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default": s.presets.Default().Name,
		"presets": s.presets.All(),
	})
}

// newPuzzleReq is the payload for POST /puzzle/new; every field is optional.
type newPuzzleReq struct {
	Preset   string `json:"preset"`
	Size     int    `json:"size"`
	Sequence string `json:"sequence"`
}

// handleNewPuzzle resolves the preset, applies overrides and starts a session.
func (s *Server) handleNewPuzzle(w http.ResponseWriter, r *http.Request) {
	var req newPuzzleReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}

	p, err := s.presets.Resolve(req.Preset)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_preset")
		return
	}
	if req.Size != 0 {
		if req.Size < 1 || req.Size > presets.MaxSize {
			writeError(w, http.StatusBadRequest, "invalid_size")
			return
		}
		p.Size = req.Size
	}
	seq := req.Sequence
	if seq == "" {
		seq = p.Sequence
	}
	if p, err = p.WithSequence(seq); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_sequence")
		return
	}

	sess, err := s.startSession(w, r, p, "", 0)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("start puzzle")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	sess.Lock()
	res := s.view(sess)
	sess.Unlock()
	writeJSON(w, http.StatusCreated, res)
}

// startSession builds an engine for p, bridges its events to the hub,
// stores the session and writes its owner row.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, p presets.Preset, dailyDate string, dailyIdx int) (*store.Session, error) {
	e, err := puzzle.New(p.Options())
	if err != nil {
		return nil, err
	}
	sess := store.NewSession(p.Name, p.Locale, e)
	sess.OwnerID, sess.Anonymous = s.ownerOf(w, r)
	sess.Daily, sess.DailyIdx = dailyDate, dailyIdx

	id := sess.ID
	e.Subscribe(func(ev puzzle.Event) { s.hub.Broadcast(id, ev) })

	if err := s.store.Save(r.Context(), sess); err != nil {
		return nil, err
	}

	// Owner row; failures only cost history, not play.
	owner := "user_id"
	if sess.Anonymous {
		owner = "anonymous_id"
	}
	if _, err := s.db.ExecContext(r.Context(),
		`INSERT INTO puzzles (id, `+owner+`, preset, sequence, status, clicks, started_at)
		 VALUES (?,?,?,?,'playing',0,?)`,
		sess.ID, sess.OwnerID, sess.Preset, e.Sequence(), sess.StartedAt.Format(time.RFC3339)); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("puzzle", sess.ID).Msg("insert puzzle row")
	}
	return sess, nil
}

// lookup loads the session named by the {id} URL param. With mustOwn set,
// only the owning user (or the anonymous cookie that started it) passes.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request, mustOwn bool) (*store.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	if mustOwn && !owns(r, sess) {
		writeError(w, http.StatusForbidden, "forbidden")
		return nil, false
	}
	return sess, true
}

func owns(r *http.Request, sess *store.Session) bool {
	if me := auth.FromContext(r.Context()); me != nil && me.ID == sess.OwnerID {
		return true
	}
	c, err := r.Cookie(auth.AnonCookieName)
	return err == nil && c.Value == sess.OwnerID
}

func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, false)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()
	writeJSON(w, http.StatusOK, s.view(sess))
}

// clickReq addresses one cell.
type clickReq struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type clickRes struct {
	Outcome puzzle.Outcome `json:"outcome"`
	puzzleRes
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return false
	}
	return true
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, true)
	if !ok {
		return
	}
	// Daily sessions go through /daily/click, which checks the date.
	if sess.Daily != "" {
		writeError(w, http.StatusConflict, "daily_only")
		return
	}
	var req clickReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Row == nil || req.Col == nil {
		writeError(w, http.StatusBadRequest, "missing_cell")
		return
	}
	outcome, res, err := s.applyClick(r, sess, *req.Row, *req.Col)
	if err != nil {
		writeClickError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clickRes{Outcome: outcome, puzzleRes: res})
}

func writeClickError(w http.ResponseWriter, err error) {
	if errors.Is(err, puzzle.ErrOutOfRange) {
		writeError(w, http.StatusBadRequest, "out_of_range")
		return
	}
	writeError(w, http.StatusInternalServerError, "click_failed")
}

// applyClick runs one click under the session lock and mirrors counted
// clicks to the database before releasing it, so rows never go backwards.
func (s *Server) applyClick(r *http.Request, sess *store.Session, row, col int) (puzzle.Outcome, puzzleRes, error) {
	sess.Lock()
	defer sess.Unlock()

	e := sess.Engine
	before, wasFinished := e.Clicks(), e.Finished()
	outcome, err := e.CheckLetter(row, col)
	if err != nil {
		return outcome, puzzleRes{}, err
	}
	if e.Clicks() != before {
		s.persistClick(r, sess, !wasFinished && e.Finished())
	}
	return outcome, s.view(sess), nil
}

// persistClick is best effort: the live session stays authoritative.
func (s *Server) persistClick(r *http.Request, sess *store.Session, solved bool) {
	ctx := r.Context()
	logger := hlog.FromRequest(r)
	clicks := sess.Engine.Clicks()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("begin click tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE puzzles SET clicks=? WHERE id=?`, clicks, sess.ID); err != nil {
		logger.Warn().Err(err).Msg("update clicks")
	}
	if solved {
		if _, err := tx.ExecContext(ctx, `UPDATE puzzles SET status='solved', finished_at=? WHERE id=?`,
			time.Now().UTC().Format(time.RFC3339), sess.ID); err != nil {
			logger.Warn().Err(err).Msg("finish puzzle")
		}
		if me := auth.FromContext(ctx); me != nil {
			if err := auth.RecordPuzzle(ctx, tx, me.ID, true, clicks); err != nil {
				logger.Warn().Err(err).Str("user", me.ID).Msg("record puzzle")
			}
		}
	}
	if err := tx.Commit(); err != nil {
		logger.Warn().Err(err).Msg("commit click")
	}

	if solved && sess.Daily != "" {
		if err := s.daily.store.InsertResult(ctx, daily.Result{
			UserID:        sess.OwnerID,
			Date:          sess.Daily,
			Preset:        sess.Preset,
			SequenceIndex: sess.DailyIdx,
			Clicks:        clicks,
			ElapsedMs:     int(time.Since(sess.StartedAt).Milliseconds()),
		}); err != nil {
			logger.Warn().Err(err).Str("puzzle", sess.ID).Msg("insert daily result")
		}
	}
}

// handleReset re-initializes the board. An unfinished puzzle with clicks
// counts as an abandoned attempt for a signed-in player. Daily sessions
// cannot be reset.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, true)
	if !ok {
		return
	}
	if sess.Daily != "" {
		writeError(w, http.StatusConflict, "daily_locked")
		return
	}

	sess.Lock()
	defer sess.Unlock()

	e := sess.Engine
	clicks := e.Clicks()
	abandoned := !e.Finished() && clicks > 0
	e.Initialize()
	sess.StartedAt = time.Now().UTC()

	s.persistReset(r, sess, abandoned, clicks)

	writeJSON(w, http.StatusOK, s.view(sess))
}

// persistReset rewinds the puzzles row and, for a signed-in player, books
// an abandoned attempt.
func (s *Server) persistReset(r *http.Request, sess *store.Session, abandoned bool, clicks int) {
	ctx := r.Context()
	logger := hlog.FromRequest(r)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("begin reset tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if me := auth.FromContext(ctx); me != nil && abandoned {
		if err := auth.RecordPuzzle(ctx, tx, me.ID, false, clicks); err != nil {
			logger.Warn().Err(err).Str("user", me.ID).Msg("record abandoned puzzle")
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE puzzles SET status='playing', clicks=0, started_at=?, finished_at=NULL WHERE id=?`,
		sess.StartedAt.Format(time.RFC3339), sess.ID); err != nil {
		logger.Warn().Err(err).Msg("reset puzzle row")
	}
	if err := tx.Commit(); err != nil {
		logger.Warn().Err(err).Msg("commit reset")
	}
}

func (s *Server) handleWin(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, false)
	if !ok {
		return
	}
	sess.Lock()
	anim := sess.Engine.WinAnimation()
	sess.Unlock()
	writeJSON(w, http.StatusOK, anim)
}

// wsHello is the first frame on a puzzle stream.
type wsHello struct {
	Kind   string    `json:"kind"`
	Puzzle puzzleRes `json:"puzzle"`
}

// handleWS streams engine events for a session. The first frame is the
// current snapshot so late joiners can render immediately.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, false)
	if !ok {
		return
	}
	sess.Lock()
	hello := wsHello{Kind: "snapshot", Puzzle: s.view(sess)}
	sess.Unlock()
	s.hub.ServeWS(w, r, sess.ID, hello)
}
