// internal/httpserver/server.go
//
// HTTP wiring for the word-square backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     request logging).
//   - Public endpoints: "/", "/health", "/letters", "/presets".
//   - Game endpoints (optional auth): one request per engine operation,
//     mounted under /game (routes_game.go).
//   - Daily puzzle endpoints (optional auth): mounted under /daily.
//   - Auth + history endpoints (require auth): /auth/*, /rounds/mine.
//
// Notes:
//   - Each game session owns its own engine; handlers reach it only through
//     store.Session.Do, which serializes access.
//   - History (accounts, won rounds, leaderboard) needs a database; without one
//     those routes answer 503 and games still work.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/Hungryfoodies/WordSquare/internal/game"
	"github.com/Hungryfoodies/WordSquare/internal/history"
	"github.com/Hungryfoodies/WordSquare/internal/puzzle"
	"github.com/Hungryfoodies/WordSquare/internal/store"
	"github.com/Hungryfoodies/WordSquare/internal/words"
)

// Options carries the server's collaborators and settings.
type Options struct {
	Dictionary    *words.Dictionary
	DictionaryErr error // reported by /health when the word list failed to load
	Presets       *puzzle.Set
	DefaultPreset string
	History       *history.Store // nil disables accounts and history

	ClientOrigin string
	JWTSecret    string
	JWTExpiry    time.Duration
	CookieName   string
	DailySalt    string
	Production   bool

	Now func() time.Time
}

// Server bundles router, session store and collaborators.
type Server struct {
	r     *chi.Mux
	store store.Store
	opts  Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, opts Options) *Server {
	if opts.Dictionary == nil {
		opts.Dictionary = words.Empty()
	}
	if opts.Presets == nil {
		opts.Presets = &puzzle.Set{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CookieName == "" {
		opts.CookieName = "wordsquare_token"
	}
	if opts.JWTSecret == "" {
		opts.JWTSecret = "dev_secret_change_me"
	}
	if opts.JWTExpiry <= 0 {
		opts.JWTExpiry = 14 * 24 * time.Hour
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}

	s := &Server{r: chi.NewRouter(), store: st, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics / reference data ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "wordsquare-go",
			"endpoints": []string{"/health", "/letters", "/presets", "POST /game/new", "/game/{id}/*", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", s.handleHealth)
	s.r.Get("/letters", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, game.LetterPoints.Letters())
	})
	s.r.Get("/presets", s.handlePresets)

	// Game + daily: guests can play
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth)
		s.mountGame(r)
		s.mountDaily(r)
	})

	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// ServeHTTP lets the Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{
		"ok":       true,
		"words":    s.opts.Dictionary.Len(),
		"sessions": s.store.Len(),
		"presets":  s.opts.Presets.Len(),
		"history":  s.opts.History != nil,
	}
	if s.opts.DictionaryErr != nil {
		res["dictionaryError"] = s.opts.DictionaryErr.Error()
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	out := make([]puzzle.Preset, 0, s.opts.Presets.Len())
	for i := 0; i < s.opts.Presets.Len(); i++ {
		out = append(out, s.opts.Presets.At(i))
	}
	writeJSON(w, http.StatusOK, out)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.opts.ClientOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one debug line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
