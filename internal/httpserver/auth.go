// internal/httpserver/auth.go
//
// Accounts, JWT cookies and per-player history.
//   - POST /auth/signup, /auth/login → set the auth cookie, claim guest rounds
//   - POST /auth/logout              → clear the auth cookie
//   - GET  /auth/me                  → current user (requires auth)
//   - GET  /stats/me                 → rounds won + best score (requires auth)
//   - GET  /rounds/mine              → recent won rounds (requires auth)
//
// Guests are identified by an anonymous cookie so their wins can be moved onto
// an account later. Every route here needs the history database and answers
// 503 without it.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Hungryfoodies/WordSquare/internal/history"
)

const anonCookieName = "wordsquare_anon"

// authUser is what the auth middlewares put on the request context.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// currentUser returns the signed-in user, or nil for guests.
func currentUser(r *http.Request) *authUser {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return me
}

func (s *Server) mountAuthRoutes() {
	s.r.Group(func(r chi.Router) {
		r.Use(s.requireHistory)
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, currentUser(r))
			})
			r.Get("/stats/me", s.handleStats)
			r.Get("/rounds/mine", s.handleMyRounds)
		})
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.opts.History.CreateUser(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, history.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken")
		return
	case errors.Is(err, history.ErrInvalidSignup):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Msg("signup failed")
		writeError(w, http.StatusInternalServerError, "signup_failed")
		return
	}
	if !s.startSession(w, r, u) {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.opts.History.FindUserByUsername(r.Context(), strings.TrimSpace(body.Username))
	if err != nil || !u.CheckPassword(body.Password) {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if !s.startSession(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

// startSession signs a token for u, sets the auth cookie and moves any guest
// rounds onto the account.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, u *history.User) bool {
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		log.Error().Err(err).Msg("sign jwt")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.setAuthCookie(w, tok, exp)
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		if err := s.opts.History.ClaimAnonymous(r.Context(), c.Value, u.ID); err != nil {
			log.Warn().Err(err).Str("user", u.ID).Msg("claim anonymous rounds")
		}
	}
	return true
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	u, err := s.opts.History.FindUserByID(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        u.ID,
		"roundsWon": u.RoundsWon,
		"bestScore": u.BestScore,
	})
}

func (s *Server) handleMyRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := s.opts.History.RecentRounds(r.Context(), currentUser(r).ID, 50)
	if err != nil {
		log.Error().Err(err).Msg("recent rounds")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, rounds)
}

// ------------------------------ middleware ---------------------------------

// requireHistory answers 503 when no history database is configured.
func (s *Server) requireHistory(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.History == nil {
			writeError(w, http.StatusServiceUnavailable, "history_disabled")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withOptionalAuth decorates requests with user context if a valid JWT is
// present. It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if me := s.authenticate(r); me != nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, me))
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests without a valid token for an existing user.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		me := s.authenticate(r)
		if me == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, me)))
	})
}

// authenticate resolves the request's token to a user that still exists.
func (s *Server) authenticate(r *http.Request) *authUser {
	if s.opts.History == nil {
		return nil
	}
	tok := s.bearerOrCookie(r)
	if tok == "" {
		return nil
	}
	id, ok := s.parseJWT(tok)
	if !ok {
		return nil
	}
	u, err := s.opts.History.FindUserByID(r.Context(), id)
	if err != nil {
		return nil
	}
	return &authUser{ID: u.ID, Username: u.Username}
}

// ensureAnonID returns an existing anon cookie or sets a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Production,
		SameSite: s.sameSite(),
		Expires:  s.opts.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 JWT carrying id/username.
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	now := s.opts.Now()
	exp := now.Add(s.opts.JWTExpiry)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.opts.JWTSecret))
	return ss, exp, err
}

// parseJWT validates tok and returns its user ID claim.
func (s *Server) parseJWT(tok string) (string, bool) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.opts.Now))
	if err != nil || !t.Valid {
		return "", false
	}
	id, _ := claims["id"].(string)
	return id, id != ""
}

func (s *Server) sameSite() http.SameSite {
	if s.opts.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Production,
		SameSite: s.sameSite(),
		Expires:  exp,
	})
}

func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Production,
		SameSite: s.sameSite(),
		MaxAge:   -1,
	})
}

// bearerOrCookie reads "Authorization: Bearer <token>", then the auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.opts.CookieName); err == nil {
		return c.Value
	}
	return ""
}
