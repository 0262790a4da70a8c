package game

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pburglin/adventure2/internal/geom"
)

// DeathPolicy decides what happens when a dragon catches the player.
type DeathPolicy int

const (
	// DeathFreeze stops the player until an explicit respawn.
	DeathFreeze DeathPolicy = iota
	// DeathReset respawns the player immediately.
	DeathReset
)

func ParseDeathPolicy(s string) (DeathPolicy, error) {
	switch strings.ToLower(s) {
	case "", "freeze":
		return DeathFreeze, nil
	case "reset":
		return DeathReset, nil
	default:
		return DeathFreeze, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

func (p DeathPolicy) String() string {
	if p == DeathReset {
		return "reset"
	}
	return "freeze"
}

func (p *DeathPolicy) UnmarshalText(b []byte) error {
	v, err := ParseDeathPolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p DeathPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func killPlayer(s *GameState, by *WorldItem) {
	s.Player.Alive = false
	s.Player.Move = geom.Vec3{}

	slog.Info("player died", "dragon", by.Id, "room", s.Player.Room, "policy", s.Policy.Death)

	s.emit(Event{Kind: EventPlayerDied, ItemId: by.Id, RoomId: s.Player.Room, Message: by.Def.Name, Cue: cueKill})

	if s.Policy.Death == DeathReset {
		respawn(s)
	}
}

// Respawn revives a frozen player. It does nothing while the player lives.
func Respawn(s *GameState) bool {
	if s.Player.Alive {
		return false
	}
	respawn(s)
	return true
}

func respawn(s *GameState) {
	s.Bird.cancel(s)

	for _, id := range s.Inventory.Items() {
		if id == SpearId {
			continue
		}
		if it := s.item(id); it != nil {
			it.restore()
		}
	}
	s.Inventory.Clear()

	if !s.Policy.KeepDefeatedOnDeath {
		s.Defeated.Clear()
	}

	s.Spear.forceRespawn()
	s.placePlayer(s.World.StartRoom())

	room := s.CurrentRoom()
	s.emit(Event{Kind: EventPlayerRespawned, RoomId: s.Player.Room})
	s.emit(Event{Kind: EventRoomChanged, RoomId: s.Player.Room, Message: room.Name})
}
