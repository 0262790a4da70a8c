package game

import (
	"github.com/pburglin/adventure2/internal/geom"
)

// Input is the per-tick intent read from a presenter.
type Input struct {
	Move    geom.Vec3
	Throw   bool
	Respawn bool
}

// MovePlayer advances the player along the movement intent.
func MovePlayer(s *GameState) {
	if !s.Player.Alive || s.Player.Carried {
		return
	}
	move := s.Player.Move.Flat()
	if move.IsZero() {
		return
	}

	dir := move.Normalize()
	s.Player.Position = s.Player.Position.Add(dir.Scale(PlayerSpeed))
	s.Player.LastDirection = dir
}

// PickupItems collects every visible ordinary item the player touches.
func PickupItems(s *GameState) {
	if !s.Player.Alive || s.Player.Carried {
		return
	}

	for _, id := range s.World.ItemIds() {
		it := s.Items[id]
		if it == nil || id == SpearId || it.Def.Dragon {
			continue
		}
		if it.Room == "" || it.Room != s.Player.Room || !s.visible(id) {
			continue
		}
		if s.Player.Position.FlatDistanceTo(it.Position) >= PickupRadius {
			continue
		}

		it.rest()
		it.Room = ""
		s.Inventory.Add(id)

		s.emit(Event{Kind: EventItemPickedUp, ItemId: id, RoomId: s.Player.Room, Message: it.Def.Name, Cue: cuePickup})
	}
}
