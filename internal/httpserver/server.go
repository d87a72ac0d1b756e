// internal/httpserver/server.go
//
// HTTP server wiring for the word-search backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access logs).
//   - Public endpoints: "/", "/health", "/presets".
//   - Puzzle endpoints (optional auth): /puzzle/new, /puzzle/{id}[/click|/reset|/win|/ws].
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /puzzles/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The websocket route sits outside the request timeout so streams can
//     outlive a single request budget.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/auth"
	"github.com/robalobadob/wordsearch/internal/config"
	"github.com/robalobadob/wordsearch/internal/events"
	"github.com/robalobadob/wordsearch/internal/presets"
	"github.com/robalobadob/wordsearch/internal/store"
)

// Server bundles the router, live sessions, presets and the DB handle.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	store   store.Store
	db      *sql.DB
	presets *presets.Catalog
	hub     *events.Hub
	users   *auth.Users
	tokens  *auth.Tokens
	daily   *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, db *sql.DB, cat *presets.Catalog) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		store:   st,
		db:      db,
		presets: cat,
		users:   auth.NewUsers(db),
		tokens: &auth.Tokens{
			Secret:     []byte(cfg.JWTSecret),
			TTL:        time.Duration(cfg.JWTExpiresDays) * 24 * time.Hour,
			CookieName: cfg.CookieName,
			Secure:     cfg.Production(),
		},
	}
	s.hub = events.NewHub(s.allowedOrigin)

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger)) // request-scoped logger
	s.r.Use(chimw.Recoverer)             // recover from panics
	s.r.Use(s.cors)                      // credentials-friendly CORS

	optional := auth.OptionalAuth(s.tokens, s.users)

	// Streaming routes: no timeout, no JSON content type.
	s.r.With(optional).Get("/puzzle/{id}/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(accessLog)
		r.Use(jsonContentType)

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"service":   "wordsearch-go",
				"endpoints": []string{"/health", "/presets", "POST /puzzle/new", "POST /puzzle/{id}/click", "/daily/*", "/auth/*"},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "sessions": s.store.Len()})
		})
		r.Get("/presets", s.handlePresets)

		// Puzzle endpoints: OPTIONAL AUTH (guests can play)
		r.Group(func(r chi.Router) {
			r.Use(optional)
			r.Post("/puzzle/new", s.handleNewPuzzle)
			r.Get("/puzzle/{id}", s.handleGetPuzzle)
			r.Post("/puzzle/{id}/click", s.handleClick)
			r.Post("/puzzle/{id}/reset", s.handleReset)
			r.Get("/puzzle/{id}/win", s.handleWin)

			s.mountDaily(r)
		})

		s.mountAuthRoutes(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ServeHTTP lets the server be used directly as a handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one zerolog line per request.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
})

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowedOrigin accepts websocket upgrades from the client origin or from
// the server's own host (and from non-browser clients without Origin).
func (s *Server) allowedOrigin(r *http.Request) bool {
	o := r.Header.Get("Origin")
	if o == "" || o == s.cfg.ClientOrigin {
		return true
	}
	u, err := url.Parse(o)
	return err == nil && u.Host == r.Host
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// ownerOf returns the authenticated user ID, or the anonymous cookie ID.
func (s *Server) ownerOf(w http.ResponseWriter, r *http.Request) (id string, anonymous bool) {
	if me := auth.FromContext(r.Context()); me != nil {
		return me.ID, false
	}
	return s.tokens.EnsureAnonID(w, r), true
}
