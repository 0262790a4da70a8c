package listener

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

const fullMessage = "Every seat at the castle is taken. Please try again later.\n"

// SessionRunner plays one session over a connection.
type SessionRunner interface {
	RunSession(ctx context.Context, conn io.ReadWriter) error
}

// ConnectionManager hands accepted connections to the session runner and
// turns players away once the configured limit is reached.
type ConnectionManager struct {
	runner SessionRunner
	limit  int64
	active atomic.Int64
}

type ConnectionManagerOpt func(*ConnectionManager)

// WithMaxConnections caps concurrent sessions. Zero means unlimited.
func WithMaxConnections(n int) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		if n > 0 {
			m.limit = int64(n)
		}
	}
}

func NewConnectionManager(r SessionRunner, opts ...ConnectionManagerOpt) *ConnectionManager {
	m := &ConnectionManager{runner: r}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AcceptConnection blocks until the session on conn ends.
func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	n := m.active.Add(1)
	defer m.active.Add(-1)

	if m.limit > 0 && n > m.limit {
		slog.WarnContext(ctx, "connection refused, server full", "limit", m.limit)
		if _, err := io.WriteString(conn, fullMessage); err != nil {
			slog.DebugContext(ctx, "writing refusal", "error", err)
		}
		return
	}

	slog.DebugContext(ctx, "connection accepted", "active", n)
	if err := m.runner.RunSession(ctx, conn); err != nil {
		slog.WarnContext(ctx, "player session", "error", err)
	}
}

// Active is the number of connections currently held, including any being
// refused.
func (m *ConnectionManager) Active() int64 {
	return m.active.Load()
}
