package game

import (
	"math"

	"github.com/pburglin/adventure2/internal/geom"
)

// TickDragons moves every active dragon in the player's room one step toward
// the player and kills the player on contact.
func TickDragons(s *GameState) {
	for _, id := range s.World.ItemIds() {
		it := s.Items[id]
		if it == nil || !it.Def.Dragon || it.Room == "" || it.Room != s.Player.Room {
			continue
		}
		if s.Defeated.Has(id) || !s.visible(id) || s.Bird.IsCarrying(id) {
			continue
		}

		dir := s.Player.Position.Sub(it.Position).Flat().Normalize()
		speed := DragonSpeed
		if it.Def.Elite {
			speed *= EliteSpeedMultiplier
		}

		it.Position = it.Position.Add(dir.Scale(speed)).
			Clamp(RoomHalfSize - DragonHalfFootprint).
			WithY(DragonGroundY)
		if !dir.IsZero() {
			it.Rotation = geom.V(0, math.Atan2(dir.X, dir.Z), 0)
		}

		if s.Player.Alive && !s.Player.Carried && s.Player.Position.FlatDistanceTo(it.Position) < DragonCatchRadius {
			killPlayer(s, it)
			return
		}
	}
}
