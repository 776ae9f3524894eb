// internal/httpserver/routes_daily.go
//
// HTTP routes for the "puzzle of the day" mode.
//   - POST /daily/new         → start a game on today's preset
//   - GET  /daily/leaderboard → best scores for today (or ?date=YYYY-MM-DD)
//
// The preset is chosen deterministically from the UTC date and DAILY_SALT, so
// every player gets the same board. Wins are tagged with the date when the
// check endpoint records them.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Hungryfoodies/WordSquare/internal/daily"
	"github.com/Hungryfoodies/WordSquare/internal/history"
	"github.com/Hungryfoodies/WordSquare/internal/store"
)

const leaderboardSize = 20

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
		r.With(s.requireHistory).Get("/leaderboard", s.handleDailyLeaderboard)
	})
}

func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	if s.opts.Presets.Len() == 0 {
		writeError(w, http.StatusServiceUnavailable, "no_presets")
		return
	}
	now := s.opts.Now()
	date := daily.DateKey(now)
	p := s.opts.Presets.At(daily.Index(now, s.opts.DailySalt, s.opts.Presets.Len()))

	e := p.NewEngine(s.opts.Dictionary)
	meta := store.Meta{Preset: p.Name, Daily: date}
	sess, err := s.store.Create(r.Context(), e, meta)
	if err != nil {
		log.Error().Err(err).Msg("create daily session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("session", sess.ID).Str("date", date).Str("preset", p.Name).Msg("new daily game")
	writeJSON(w, http.StatusCreated, gameRes{GameID: sess.ID, Preset: p.Name, Daily: date, State: e.Snapshot()})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string              `json:"date"`
	Top  []history.LeaderRow `json:"top"`
}

func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.opts.Now())
	}
	rows, err := s.opts.History.DailyLeaderboard(r.Context(), date, leaderboardSize)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
