package player

import (
	"time"

	"github.com/pburglin/adventure2/internal/game"
	"github.com/pburglin/adventure2/internal/runlog"
)

type SessionManagerOpt func(*SessionManager)

// WithRunLog records every finished session in store.
func WithRunLog(store runlog.Store) SessionManagerOpt {
	return func(m *SessionManager) {
		m.runs = store
	}
}

// WithSeed makes session randomness reproducible. Session n uses stream n of
// the seed. Zero keeps sessions unseeded.
func WithSeed(seed uint64) SessionManagerOpt {
	return func(m *SessionManager) {
		m.seed = seed
	}
}

// WithRandFactory replaces how each session's randomness is created.
func WithRandFactory(f func(n uint64) game.Rand) SessionManagerOpt {
	return func(m *SessionManager) {
		m.newRand = f
	}
}

// WithClock replaces time.Now for run timestamps.
func WithClock(now func() time.Time) SessionManagerOpt {
	return func(m *SessionManager) {
		m.now = now
	}
}
