// internal/store/memory.go
//
// In-memory session store: one game.Engine per session.
//
// Characteristics:
//   - Sessions are keyed by a random UUID.
//   - The map is guarded by an RWMutex; each Session carries its own mutex so
//     operations on one board are serialized while other boards proceed.
//     game.Engine does no locking of its own, so all engine access from
//     handlers must go through Session.Do.
//   - Sweep drops sessions idle since before a cutoff; state is lost when
//     the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hungryfoodies/WordSquare/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("store: session not found")

// Meta describes where a session's board came from.
type Meta struct {
	Preset string // preset name, empty for a custom board
	Daily  string // YYYY-MM-DD when started from the daily puzzle
}

// Session is one player's board.
type Session struct {
	ID        string
	Meta      Meta
	CreatedAt time.Time

	mu       sync.Mutex
	engine   *game.Engine
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's engine.
func (s *Session) Do(fn func(e *game.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine)
	s.lastSeen = time.Now()
}

// LastSeen reports when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// idleSince reports whether the session is unused and was last seen before
// cutoff. A session held by Do counts as in use.
func (s *Session) idleSince(cutoff time.Time) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// Store defines the persistence interface for game sessions.
type Store interface {
	// Create registers a new session around e.
	Create(ctx context.Context, e *game.Engine, m Meta) (*Session, error)

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Sweep removes sessions not used since cutoff and returns how many.
	Sweep(ctx context.Context, cutoff time.Time) int

	// Len returns the number of live sessions.
	Len() int
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Create(ctx context.Context, e *game.Engine, meta Meta) (*Session, error) {
	if e == nil {
		return nil, errors.New("store: nil engine")
	}
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Meta:      meta,
		CreatedAt: now,
		engine:    e,
		lastSeen:  now,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) int {
	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	// LastSeen can wait on a busy board, so it is never called under m.mu.
	stale := all[:0]
	for _, s := range all {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
		}
	}
	if len(stale) == 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range stale {
		if m.sessions[s.ID] != s || !s.idleSince(cutoff) {
			continue
		}
		delete(m.sessions, s.ID)
		n++
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
