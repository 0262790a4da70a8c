package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pburglin/adventure2/internal/game"
	"github.com/pburglin/adventure2/internal/runlog"
)

// EventBus carries a session's events from the tick goroutine to the
// connection that owns the session.
type EventBus interface {
	game.Notifier
	Subscribe(sessionId string, handler func(game.Event), onError func(error)) (func(), error)
}

// SessionManager runs one game per connected player.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opened   uint64

	world  *game.World
	policy game.Policy
	bus    EventBus
	runs   runlog.Store

	seed    uint64
	newRand func(n uint64) game.Rand
	now     func() time.Time
}

func NewSessionManager(w *game.World, p game.Policy, bus EventBus, opts ...SessionManagerOpt) *SessionManager {
	m := &SessionManager{
		sessions: map[string]*Session{},
		world:    w,
		policy:   p,
		bus:      bus,
		now:      time.Now,
	}
	m.newRand = m.defaultRand

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *SessionManager) defaultRand(n uint64) game.Rand {
	if m.seed != 0 {
		return rand.New(rand.NewPCG(m.seed, n))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Start blocks until ctx ends, then ends every remaining session.
func (m *SessionManager) Start(ctx context.Context) error {
	<-ctx.Done()

	for _, s := range m.all() {
		m.Close(context.WithoutCancel(ctx), s.id)
	}
	return nil
}

// Tick advances every session one step and publishes what happened.
// Publishing failures are logged; they never stop the simulation.
func (m *SessionManager) Tick(ctx context.Context) error {
	for _, s := range m.all() {
		evs := s.tick()
		if len(evs) == 0 {
			continue
		}
		if err := m.bus.Notify(ctx, s.id, evs); err != nil {
			slog.WarnContext(ctx, "publishing session events", "session", s.id, "events", len(evs), "error", err)
		}
	}
	return nil
}

// Open starts a new session.
func (m *SessionManager) Open(ctx context.Context) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	s := newSession(id, game.NewEngine(m.world, m.policy, m.newRand(m.opened)), m.now())
	m.opened++
	m.sessions[id] = s

	slog.InfoContext(ctx, "session opened", "session", id, "sessions", len(m.sessions))
	return s
}

// Get returns an open session.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Close ends a session and records its run.
func (m *SessionManager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	remaining := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	r := s.finish(m.now())
	slog.InfoContext(ctx, "session closed", "session", id, "outcome", r.Outcome, "ticks", r.Ticks, "sessions", remaining)

	if m.runs == nil {
		return nil
	}
	if err := m.runs.Save(ctx, r); err != nil {
		return fmt.Errorf("saving run for session %s: %w", id, err)
	}
	return nil
}

// RecentRuns lists finished runs, newest first. Without a run log it is empty.
func (m *SessionManager) RecentRuns(ctx context.Context, limit int) ([]*runlog.Record, error) {
	if m.runs == nil {
		return nil, nil
	}
	return m.runs.Recent(ctx, limit)
}

// Count is the number of open sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RunSession plays a new session over conn until the player quits, the
// connection drops or ctx ends.
func (m *SessionManager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	s := m.Open(ctx)
	defer func() {
		// The run is saved even when the session ended because ctx did.
		if err := m.Close(context.WithoutCancel(ctx), s.id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			slog.WarnContext(ctx, "closing session", "session", s.id, "error", err)
		}
	}()

	p := newPlayer(conn, s, m)
	return p.Play(ctx)
}

// all returns the open sessions in a stable order.
func (m *SessionManager) all() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := slices.Sorted(maps.Keys(m.sessions))
	out := make([]*Session, len(ids))
	for i, id := range ids {
		out[i] = m.sessions[id]
	}
	return out
}
