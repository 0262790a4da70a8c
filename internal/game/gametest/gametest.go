// Package gametest builds small worlds for tests of packages that sit on top
// of the simulation.
package gametest

import (
	"testing"

	"github.com/pburglin/adventure2/internal/game"
	"github.com/pburglin/adventure2/internal/geom"
	"github.com/pburglin/adventure2/internal/storage"
)

// MemStore is an in-memory storage.Storer.
type MemStore[T storage.ValidatingSpec] map[storage.Identifier]T

func (m MemStore[T]) Save(id storage.Identifier, v T) error { m[id] = v; return nil }
func (m MemStore[T]) Get(id storage.Identifier) T          { return m[id] }
func (m MemStore[T]) GetAll() map[storage.Identifier]T {
	out := make(map[storage.Identifier]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// FixedRand never starts a bird sequence and always picks the first option.
type FixedRand struct{}

func (FixedRand) Float64() float64 { return 0.99 }
func (FixedRand) IntN(int) int     { return 0 }

// Rooms returns three rooms: hall (start), vault north of it behind a locked
// door, and yard to the east.
func Rooms() MemStore[*game.Room] {
	return MemStore[*game.Room]{
		"hall": {
			Name:  "Great Hall",
			Color: "#BBBBBB",
			Connections: game.Connections{
				North: &game.Connection{
					RoomId:   storage.NewSmartIdentifier[*game.Room]("vault"),
					LockedBy: storage.NewSmartIdentifier[*game.ItemDef]("key"),
				},
				East: &game.Connection{RoomId: storage.NewSmartIdentifier[*game.Room]("yard")},
			},
			WinConditionItem: storage.NewSmartIdentifier[*game.ItemDef]("chalice"),
		},
		"vault": {
			Name:        "Vault",
			Color:       "#FFFFE0",
			Connections: game.Connections{South: &game.Connection{RoomId: storage.NewSmartIdentifier[*game.Room]("hall")}},
		},
		"yard": {
			Name:        "Yard",
			Color:       "#00AA00",
			Connections: game.Connections{West: &game.Connection{RoomId: storage.NewSmartIdentifier[*game.Room]("hall")}},
		},
	}
}

// Items returns the spear and key in the hall, a dragon in the yard and the
// chalice in the vault.
func Items() MemStore[*game.ItemDef] {
	return MemStore[*game.ItemDef]{
		"spear": {
			Name:     "Spear",
			Color:    "#8B4513",
			Room:     storage.NewSmartIdentifier[*game.Room]("hall"),
			Position: geom.V(2.2, game.ItemGroundY, 2.2),
		},
		"key": {
			Name:     "Gold Key",
			Color:    "#FFD700",
			Room:     storage.NewSmartIdentifier[*game.Room]("hall"),
			Position: geom.V(-3.3, game.ItemGroundY, 0.2),
		},
		"yorgle": {
			Name:     "Yorgle",
			Color:    "#FFFF00",
			Dragon:   true,
			Room:     storage.NewSmartIdentifier[*game.Room]("yard"),
			Position: geom.V(3.3, game.DragonGroundY, 3.3),
		},
		"chalice": {
			Name:     "Chalice",
			Color:    "#FF00FF",
			Room:     storage.NewSmartIdentifier[*game.Room]("vault"),
			Position: geom.V(0, game.ItemGroundY, -3),
		},
	}
}

// World assembles Rooms and Items with hall as the start room.
func World(t testing.TB) *game.World {
	t.Helper()
	w, err := game.NewWorld(Rooms(), Items(), "hall")
	if err != nil {
		t.Fatalf("building world: %v", err)
	}
	return w
}

// Engine returns an engine on World with the default policy and FixedRand.
// Each non-nil arrange func is applied to the fresh game before the engine
// takes it over.
func Engine(t testing.TB, arrange ...func(*game.GameState)) *game.Engine {
	t.Helper()
	s := game.NewGameState(World(t), game.DefaultPolicy())
	for _, fn := range arrange {
		if fn != nil {
			fn(s)
		}
	}
	s.Refresh()
	return game.NewEngineFromState(s, FixedRand{})
}
