package game

import (
	"log/slog"

	"github.com/pburglin/adventure2/internal/geom"
	"github.com/pburglin/adventure2/internal/storage"
)

// Rand is the source of randomness for the bird. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Policy holds the rules that differ between game variants.
type Policy struct {
	Death               DeathPolicy
	KeepDefeatedOnDeath bool
	BirdSpawnChance     float64
}

func DefaultPolicy() Policy {
	return Policy{
		Death:           DeathFreeze,
		BirdSpawnChance: BirdSpawnChance,
	}
}

// PlayerState is owned by the room transition controller and read by every
// other subsystem.
type PlayerState struct {
	Position      geom.Vec3
	Alive         bool
	Room          storage.Identifier
	Move          geom.Vec3
	LastDirection geom.Vec3
	Carried       bool

	// LockedContact is set while the player is pressed against a locked door.
	LockedContact bool
}

// WorldItem is the runtime record of an item. An empty Room means the item is
// held, carried by the bird, or out of play.
type WorldItem struct {
	Id       storage.Identifier
	Def      *ItemDef
	Room     storage.Identifier
	Position geom.Vec3
	Rotation geom.Vec3

	restRoom     storage.Identifier
	restPosition geom.Vec3
}

// rest remembers where the item lay before it left the world.
func (it *WorldItem) rest() {
	it.restRoom = it.Room
	it.restPosition = it.Position
}

// restore puts the item back where it was last resting.
func (it *WorldItem) restore() {
	it.Room = it.restRoom
	it.Position = it.restPosition
}

// GameState is the single aggregate every subsystem reads and writes.
type GameState struct {
	World     *World
	Policy    Policy
	Player    PlayerState
	Items     map[storage.Identifier]*WorldItem
	Inventory Inventory
	Defeated  DefeatedSet
	Spear     Spear
	Bird      Bird
	Won       bool

	view   View
	events []Event
}

func NewGameState(w *World, p Policy) *GameState {
	s := &GameState{
		World:    w,
		Policy:   p,
		Items:    make(map[storage.Identifier]*WorldItem, len(w.ItemIds())),
		Defeated: DefeatedSet{},
		Spear:    newSpear(w.SpearSpawn()),
	}

	for _, id := range w.ItemIds() {
		def := w.Item(id)
		it := &WorldItem{
			Id:       id,
			Def:      def,
			Room:     def.Room.Id(),
			Position: def.Position,
		}
		if id == SpearId {
			it.Room = ""
		}
		it.rest()
		s.Items[id] = it
	}

	s.placePlayer(w.StartRoom())
	s.Refresh()

	return s
}

func (s *GameState) placePlayer(room storage.Identifier) {
	s.Player = PlayerState{
		Position: geom.V(0, PlayerGroundY, 0),
		Alive:    true,
		Room:     room,
	}
}

// CurrentRoom returns the room the player stands in.
func (s *GameState) CurrentRoom() *Room {
	return s.World.Room(s.Player.Room)
}

// Refresh recomputes the cached visibility map.
func (s *GameState) Refresh() {
	s.view = ApplyBird(Resolve(s.Items, s.Player.Room, s.Inventory, s.Defeated, s.Spear), s.Bird)
}

// View returns the most recently resolved visibility.
func (s *GameState) View() View {
	return s.view
}

func (s *GameState) visible(id storage.Identifier) bool {
	return s.view[id].Visible
}

// item looks up a runtime record, logging when it does not exist.
func (s *GameState) item(id storage.Identifier) *WorldItem {
	it, ok := s.Items[id]
	if !ok {
		slog.Warn("missing item record", "item", id)
		return nil
	}
	return it
}

func (s *GameState) emit(e Event) {
	s.Refresh()
	s.events = append(s.events, e)
	slog.Debug("game event", "kind", e.Kind, "item", e.ItemId, "room", e.RoomId)
}

// Drain returns and clears the events emitted since the last call.
func (s *GameState) Drain() []Event {
	evs := s.events
	s.events = nil
	return evs
}

func itemName(s *GameState, id storage.Identifier) string {
	if def := s.World.Item(id); def != nil {
		return def.Name
	}
	return string(id)
}
