package player

import (
	"sync"
	"time"

	"github.com/pburglin/adventure2/internal/game"
	"github.com/pburglin/adventure2/internal/runlog"
	"github.com/pburglin/adventure2/internal/storage"
)

// Session is one player's game, ticked by the manager and driven by one
// connection.
type Session struct {
	id     string
	engine *game.Engine

	mu     sync.Mutex
	record *runlog.Record
	rooms  map[storage.Identifier]struct{}
}

func newSession(id string, e *game.Engine, started time.Time) *Session {
	s := &Session{
		id:     id,
		engine: e,
		record: runlog.NewRecord(id, started),
		rooms:  map[storage.Identifier]struct{}{},
	}
	s.rooms[e.World().StartRoom()] = struct{}{}
	return s
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Engine() *game.Engine {
	return s.engine
}

// tick advances the game one step and folds the events into the run record.
func (s *Session) tick() []game.Event {
	evs := s.engine.Tick()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.record.Ticks++
	for _, ev := range evs {
		switch ev.Kind {
		case game.EventPlayerDied:
			s.record.Deaths++
		case game.EventDragonSlain:
			s.record.Slain = append(s.record.Slain, ev.ItemId)
		case game.EventRoomChanged:
			s.rooms[ev.RoomId] = struct{}{}
		case game.EventGameWon:
			s.record.Outcome = runlog.OutcomeWon
		}
	}
	return evs
}

// finish stamps the end time and returns a copy of the record.
func (s *Session) finish(ended time.Time) *runlog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := *s.record
	r.Ended = ended
	r.Rooms = len(s.rooms)
	r.Slain = append([]storage.Identifier(nil), s.record.Slain...)
	return &r
}
