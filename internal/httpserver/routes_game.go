// internal/httpserver/routes_game.go
//
// Game endpoints. Each maps onto one engine operation:
//   - POST   /game/new             → start a session (preset, random, or custom size)
//   - GET    /game/{id}            → current board
//   - POST   /game/{id}/type       → TypeLetter
//   - POST   /game/{id}/backspace  → Backspace
//   - POST   /game/{id}/direction  → SetDirection
//   - POST   /game/{id}/cursor     → SetCursor
//   - POST   /game/{id}/check      → CheckWords (a win is recorded in history)
//   - POST   /game/{id}/reset      → Reset
//   - DELETE /game/{id}            → drop the session
//
// Invalid moves (bad coordinates, non-letters, locked cells) are not errors:
// they answer 200 with applied=false and the unchanged board.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Hungryfoodies/WordSquare/internal/game"
	"github.com/Hungryfoodies/WordSquare/internal/history"
	"github.com/Hungryfoodies/WordSquare/internal/puzzle"
	"github.com/Hungryfoodies/WordSquare/internal/store"
)

const (
	defaultCustomTarget = 15
	maxGridSize         = 15
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetGame)
		r.Delete("/", s.handleDeleteGame)
		r.Post("/type", s.handleType)
		r.Post("/backspace", s.handleBackspace)
		r.Post("/direction", s.handleDirection)
		r.Post("/cursor", s.handleCursor)
		r.Post("/check", s.handleCheck)
		r.Post("/reset", s.handleReset)
	})
}

// newGameReq: preset name ("random" for any), or gridSize/targetScore for a
// blank custom board. An empty body starts the default preset.
type newGameReq struct {
	Preset      string `json:"preset"`
	GridSize    *int   `json:"gridSize"`
	TargetScore *int   `json:"targetScore"`
}

type gameRes struct {
	GameID string     `json:"gameId"`
	Preset string     `json:"preset,omitempty"`
	Daily  string     `json:"daily,omitempty"`
	State  game.State `json:"state"`
}

type cellReq struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Char string `json:"char"`
}

type moveRes struct {
	Cursor  game.Position `json:"cursor"`
	Applied bool          `json:"applied"`
	State   game.State    `json:"state"`
}

type directionReq struct {
	Direction game.Direction `json:"direction"`
}

type checkRes struct {
	game.CheckResult
	State game.State `json:"state"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	var (
		e    *game.Engine
		meta store.Meta
	)
	switch {
	case req.GridSize != nil:
		size := *req.GridSize
		if size < 1 || size > maxGridSize {
			writeError(w, http.StatusBadRequest, "bad_grid_size")
			return
		}
		target := defaultCustomTarget
		if req.TargetScore != nil {
			target = *req.TargetScore
		}
		e = game.New(size, target, nil, s.opts.Dictionary)
	default:
		p, ok := s.pickPreset(req.Preset)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown_preset")
			return
		}
		e = p.NewEngine(s.opts.Dictionary)
		meta.Preset = p.Name
	}

	sess, err := s.store.Create(r.Context(), e, meta)
	if err != nil {
		log.Error().Err(err).Msg("create session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("session", sess.ID).Str("preset", meta.Preset).Msg("new game")
	writeJSON(w, http.StatusCreated, gameRes{GameID: sess.ID, Preset: meta.Preset, State: e.Snapshot()})
}

// pickPreset resolves a requested preset name. Empty means the configured
// default, falling back to a random preset if that is missing.
func (s *Server) pickPreset(name string) (puzzle.Preset, bool) {
	set := s.opts.Presets
	if set.Len() == 0 {
		// No presets at all: a blank default-sized board.
		return puzzle.Preset{GridSize: 5, TargetScore: defaultCustomTarget}, name == ""
	}
	switch name {
	case "random":
		return set.Random(), true
	case "":
		if p, ok := set.Find(s.opts.DefaultPreset); ok {
			return p, true
		}
		return set.Random(), true
	}
	return set.Find(name)
}

// session loads the {id} session or writes a 404.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	if err != nil {
		log.Error().Err(err).Msg("load session")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var st game.State
	sess.Do(func(e *game.Engine) { st = e.Snapshot() })
	writeJSON(w, http.StatusOK, gameRes{GameID: sess.ID, Preset: sess.Meta.Preset, Daily: sess.Meta.Daily, State: st})
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleType(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req cellReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	var res moveRes
	sess.Do(func(e *game.Engine) {
		res.Cursor, res.Applied = e.TypeLetter(req.Row, req.Col, req.Char)
		res.State = e.Snapshot()
	})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBackspace(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req cellReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	var res moveRes
	sess.Do(func(e *game.Engine) {
		res.Cursor, res.Applied = e.Backspace(req.Row, req.Col)
		res.State = e.Snapshot()
	})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDirection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req directionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_direction")
		return
	}
	var st game.State
	sess.Do(func(e *game.Engine) {
		e.SetDirection(req.Direction)
		st = e.Snapshot()
	})
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleCursor(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req cellReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	var res moveRes
	sess.Do(func(e *game.Engine) {
		res.Applied = e.SetCursor(req.Row, req.Col)
		res.Cursor = e.Cursor()
		res.State = e.Snapshot()
	})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var (
		res    checkRes
		target int
	)
	sess.Do(func(e *game.Engine) {
		res.CheckResult = e.CheckWords()
		res.State = e.Snapshot()
		target = e.TargetScore()
	})
	log.Debug().Str("session", sess.ID).Int("score", res.Score).Bool("won", res.Won).Msg("check")

	if res.Won {
		s.recordWin(w, r, sess, res.CheckResult, target)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var st game.State
	sess.Do(func(e *game.Engine) {
		e.Reset()
		st = e.Snapshot()
	})
	writeJSON(w, http.StatusOK, st)
}

// recordWin persists a won round (best effort, non-fatal if it fails).
func (s *Server) recordWin(w http.ResponseWriter, r *http.Request, sess *store.Session, res game.CheckResult, target int) {
	if s.opts.History == nil {
		return
	}
	round := history.Round{
		SessionID:   sess.ID,
		Preset:      sess.Meta.Preset,
		DailyDate:   sess.Meta.Daily,
		Score:       res.Score,
		TargetScore: target,
		Words:       append(append([]string{}, res.ValidRows...), res.ValidCols...),
		FinishedAt:  s.opts.Now(),
	}
	if me := currentUser(r); me != nil {
		round.UserID = me.ID
	} else {
		round.AnonymousID = s.ensureAnonID(w, r)
	}
	if _, err := s.opts.History.RecordWin(r.Context(), round); err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("record win")
	}
}
