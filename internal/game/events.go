package game

import (
	"context"
	"fmt"
	"time"

	"github.com/pburglin/adventure2/internal/storage"
)

type EventKind int

const (
	EventItemPickedUp EventKind = iota + 1
	EventDragonSlain
	EventPlayerDied
	EventPlayerRespawned
	EventSpearThrown
	EventSpearHit
	EventSpearMissed
	EventSpearRetrieved
	EventBirdStarted
	EventBirdEnded
	EventRoomChanged
	EventDoorLocked
	EventGameWon
)

var eventNames = map[EventKind]string{
	EventItemPickedUp:    "item_picked_up",
	EventDragonSlain:     "dragon_slain",
	EventPlayerDied:      "player_died",
	EventPlayerRespawned: "player_respawned",
	EventSpearThrown:     "spear_thrown",
	EventSpearHit:        "spear_hit",
	EventSpearMissed:     "spear_missed",
	EventSpearRetrieved:  "spear_retrieved",
	EventBirdStarted:     "bird_started",
	EventBirdEnded:       "bird_ended",
	EventRoomChanged:     "room_changed",
	EventDoorLocked:      "door_locked",
	EventGameWon:         "game_won",
}

func (k EventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return "unknown"
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(b []byte) error {
	for kind, name := range eventNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", string(b))
}

// Cue is a suggested background flash for presenters. It never feeds back
// into the simulation.
type Cue struct {
	Color    string        `json:"color"`
	Duration time.Duration `json:"duration"`
}

// Event is a notification emitted by the simulation during a tick.
type Event struct {
	Kind    EventKind          `json:"kind"`
	ItemId  storage.Identifier `json:"item_id,omitempty"`
	RoomId  storage.Identifier `json:"room_id,omitempty"`
	Message string             `json:"message,omitempty"`
	Cue     *Cue               `json:"cue,omitempty"`
}

// Notifier delivers a session's events to whoever is presenting them.
type Notifier interface {
	Notify(ctx context.Context, sessionId string, events []Event) error
}
