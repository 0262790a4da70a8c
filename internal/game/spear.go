package game

import (
	"log/slog"
	"math"
	"slices"

	"github.com/pburglin/adventure2/internal/geom"
	"github.com/pburglin/adventure2/internal/storage"
)

type SpearState int

const (
	SpearInInventory SpearState = iota
	SpearThrown
	SpearStuck
	SpearRespawned
)

func (st SpearState) String() string {
	switch st {
	case SpearInInventory:
		return "in_inventory"
	case SpearThrown:
		return "thrown"
	case SpearStuck:
		return "stuck"
	case SpearRespawned:
		return "respawned"
	default:
		return "unknown"
	}
}

var spearTransitions = map[SpearState][]SpearState{
	SpearInInventory: {SpearThrown},
	SpearThrown:      {SpearStuck, SpearRespawned},
	SpearStuck:       {SpearInInventory},
	SpearRespawned:   {SpearInInventory},
}

type Projectile struct {
	Active     bool
	Position   geom.Vec3
	Velocity   geom.Vec3
	Direction  geom.Vec3
	Rotation   geom.Vec3
	OriginRoom storage.Identifier
}

type Spear struct {
	State      SpearState
	Projectile Projectile
	Spawn      SpearSpawn
}

func newSpear(spawn SpearSpawn) Spear {
	return Spear{State: SpearRespawned, Spawn: spawn}
}

func (sp *Spear) transition(to SpearState) bool {
	if !slices.Contains(spearTransitions[sp.State], to) {
		slog.Warn("rejected spear transition", "from", sp.State, "to", to)
		return false
	}
	sp.State = to
	return true
}

// forceRespawn sends the spear home regardless of its state. Only a death
// reset does this.
func (sp *Spear) forceRespawn() {
	sp.State = SpearRespawned
	sp.Projectile = Projectile{}
}

func (sp *Spear) stop() {
	sp.Projectile.Active = false
	sp.Projectile.Velocity = geom.Vec3{}
}

// spearRotation orients the spear along the dominant axis of travel.
func spearRotation(dir geom.Vec3) geom.Vec3 {
	if math.Abs(dir.X) > math.Abs(dir.Z) {
		if dir.X > 0 {
			return geom.V(0, 0, -math.Pi/2)
		}
		return geom.V(0, 0, math.Pi/2)
	}
	if dir.Z > 0 {
		return geom.V(math.Pi/2, 0, 0)
	}
	return geom.V(-math.Pi/2, 0, 0)
}

// Throw launches the spear along the player's last movement direction.
// It does nothing unless the spear is held and a direction is known.
func Throw(s *GameState) bool {
	if !s.Player.Alive || s.Player.Carried {
		return false
	}
	if s.Spear.State != SpearInInventory || !s.Inventory.Has(SpearId) {
		slog.Debug("throw ignored, spear not held", "state", s.Spear.State)
		return false
	}
	dir := s.Player.LastDirection.Flat()
	if dir.IsZero() {
		slog.Debug("throw ignored, no direction")
		return false
	}
	if !s.Spear.transition(SpearThrown) {
		return false
	}

	s.Inventory.Remove(SpearId)

	p := &s.Spear.Projectile
	p.Active = true
	p.Position = s.Player.Position.Add(dir.Scale(SpearLaunchOffset)).WithY(SpearFlightY)
	p.Direction = dir.Normalize()
	p.Velocity = p.Direction.Scale(SpearSpeed)
	p.Rotation = spearRotation(dir)
	p.OriginRoom = s.Player.Room

	s.emit(Event{Kind: EventSpearThrown, ItemId: SpearId, RoomId: p.OriginRoom})
	return true
}

// TickSpear advances a thrown spear and resolves hits and misses.
func TickSpear(s *GameState) {
	if s.Spear.State != SpearThrown {
		return
	}

	p := &s.Spear.Projectile
	p.Position = p.Position.Add(p.Velocity)

	if s.Player.Room != p.OriginRoom {
		missSpear(s, "spear left its origin room")
		return
	}

	for _, id := range s.World.ItemIds() {
		it := s.Items[id]
		if it == nil || !it.Def.Dragon || it.Room != p.OriginRoom {
			continue
		}
		if s.Defeated.Has(id) || !s.visible(id) {
			continue
		}
		if p.Position.FlatDistanceTo(it.Position) < SpearHitRadius {
			hitDragon(s, it)
			return
		}
	}

	if math.Abs(p.Position.X) > RoomHalfSize || math.Abs(p.Position.Z) > RoomHalfSize {
		missSpear(s, "spear flew out of the room")
	}
}

func hitDragon(s *GameState, dragon *WorldItem) {
	if !s.Spear.transition(SpearStuck) {
		return
	}
	s.Spear.stop()
	s.Defeated.Add(dragon.Id)

	slog.Info("dragon slain", "dragon", dragon.Id, "room", dragon.Room)

	s.emit(Event{Kind: EventDragonSlain, ItemId: dragon.Id, RoomId: dragon.Room, Message: dragon.Def.Name})
	s.emit(Event{Kind: EventSpearHit, ItemId: SpearId, RoomId: dragon.Room, Cue: cueKill})
}

func missSpear(s *GameState, reason string) {
	if !s.Spear.transition(SpearRespawned) {
		return
	}
	s.Spear.stop()

	slog.Debug("spear missed", "reason", reason, "spawn", s.Spear.Spawn.Room)

	s.emit(Event{Kind: EventSpearMissed, ItemId: SpearId, RoomId: s.Player.Room, Message: reason, Cue: cueMiss})
}

// CheckRetrieval picks up a stuck spear the player is standing on.
func CheckRetrieval(s *GameState) {
	if s.Spear.State != SpearStuck || !s.Player.Alive || s.Player.Carried {
		return
	}
	if s.Player.Room != s.Spear.Projectile.OriginRoom {
		return
	}
	if s.Player.Position.FlatDistanceTo(s.Spear.Projectile.Position) >= SpearRetrieveRadius {
		return
	}
	retrieveSpear(s)
}

// CheckRespawnPickup picks up the spear waiting at its spawn point.
func CheckRespawnPickup(s *GameState) {
	if s.Spear.State != SpearRespawned || !s.Player.Alive || s.Player.Carried {
		return
	}
	if s.Player.Room != s.Spear.Spawn.Room || s.Inventory.Has(SpearId) {
		return
	}
	if s.Player.Position.FlatDistanceTo(s.Spear.Spawn.Position) >= SpearRespawnRadius {
		return
	}
	retrieveSpear(s)
}

func retrieveSpear(s *GameState) {
	if !s.Spear.transition(SpearInInventory) {
		return
	}
	s.Spear.Projectile = Projectile{}
	s.Inventory.Add(SpearId)

	s.emit(Event{Kind: EventSpearRetrieved, ItemId: SpearId, RoomId: s.Player.Room, Message: itemName(s, SpearId), Cue: cueRetrieve})
}
