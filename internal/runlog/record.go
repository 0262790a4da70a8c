package runlog

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-errors"

	"github.com/pburglin/adventure2/internal/storage"
)

// Outcome is how a run finished.
type Outcome string

const (
	OutcomeWon       Outcome = "won"
	OutcomeAbandoned Outcome = "abandoned"
)

// Record summarises one session from connect to disconnect.
type Record struct {
	Id        string               `json:"id"`
	SessionId string               `json:"session_id"`
	Started   time.Time            `json:"started"`
	Ended     time.Time            `json:"ended"`
	Outcome   Outcome              `json:"outcome"`
	Ticks     uint64               `json:"ticks"`
	Deaths    int                  `json:"deaths"`
	Slain     []storage.Identifier `json:"slain,omitempty"`
	Rooms     int                  `json:"rooms_visited"`
}

// NewRecord starts a record for a session.
func NewRecord(sessionId string, started time.Time) *Record {
	return &Record{
		Id:        uuid.NewString(),
		SessionId: sessionId,
		Started:   started,
		Outcome:   OutcomeAbandoned,
	}
}

// Validate satisfies storage.ValidatingSpec.
func (r *Record) Validate() error {
	el := errors.NewErrorList()

	if _, err := uuid.Parse(r.Id); err != nil {
		el.Add(fmt.Errorf("id: %w", err))
	}
	if r.SessionId == "" {
		el.Add(fmt.Errorf("session_id is required"))
	}
	if r.Ended.Before(r.Started) {
		el.Add(fmt.Errorf("ended before started"))
	}
	switch r.Outcome {
	case OutcomeWon, OutcomeAbandoned:
	default:
		el.Add(fmt.Errorf("unknown outcome %q", r.Outcome))
	}

	return el.Err()
}

// Duration is how long the run lasted.
func (r *Record) Duration() time.Duration {
	return r.Ended.Sub(r.Started)
}

// Store persists finished runs.
type Store interface {
	Save(ctx context.Context, r *Record) error
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]*Record, error)
}

func newestFirst(rs []*Record) {
	slices.SortFunc(rs, func(a, b *Record) int {
		if c := b.Ended.Compare(a.Ended); c != 0 {
			return c
		}
		return cmp.Compare(a.Id, b.Id)
	})
}
