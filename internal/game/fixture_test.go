package game

import (
	"math"
	"strings"
	"testing"

	"github.com/pburglin/adventure2/internal/geom"
	"github.com/pburglin/adventure2/internal/storage"
)

type memStore[T storage.ValidatingSpec] map[storage.Identifier]T

func (m memStore[T]) Save(id storage.Identifier, v T) error { m[id] = v; return nil }
func (m memStore[T]) Get(id storage.Identifier) T          { return m[id] }
func (m memStore[T]) GetAll() map[storage.Identifier]T {
	out := make(map[storage.Identifier]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// seqRand replays fixed values. Once exhausted Float64 returns 0.5 and IntN
// returns 0.
type seqRand struct {
	floats []float64
	ints   []int
}

func (r *seqRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *seqRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	i := r.ints[0]
	r.ints = r.ints[1:]
	return i % n
}

func open(id string) *Connection {
	return &Connection{RoomId: storage.NewSmartIdentifier[*Room](id)}
}

func locked(id, key string) *Connection {
	return &Connection{
		RoomId:   storage.NewSmartIdentifier[*Room](id),
		LockedBy: storage.NewSmartIdentifier[*ItemDef](key),
	}
}

func castleRooms() memStore[*Room] {
	return memStore[*Room]{
		"gold-castle-entrance": {
			Name:             "Gold Castle Entrance",
			Color:            "#AAAAAA",
			Connections:      Connections{North: open("main-hall")},
			WinConditionItem: storage.NewSmartIdentifier[*ItemDef]("chalice"),
		},
		"main-hall": {
			Name:  "Main Hall",
			Color: "#BBBBBB",
			Connections: Connections{
				North: locked("throne-room", "gold_key"),
				South: open("gold-castle-entrance"),
				East:  open("east-wing"),
				West:  open("west-wing"),
			},
		},
		"throne-room": {Name: "Throne Room", Color: "#FFFFE0", Connections: Connections{South: open("main-hall")}},
		"east-wing":   {Name: "East Wing", Color: "#CCCCCC", Connections: Connections{East: open("blue-maze-1"), West: open("main-hall")}},
		"west-wing":   {Name: "West Wing", Color: "#DDDDDD", Connections: Connections{East: open("main-hall")}},
		"blue-maze-1": {Name: "Blue Maze 1", Color: "#0000FF", Connections: Connections{West: open("east-wing")}},
	}
}

func item(name, color, room string, pos geom.Vec3) *ItemDef {
	return &ItemDef{Name: name, Color: color, Room: storage.NewSmartIdentifier[*Room](room), Position: pos}
}

func dragon(name, color, room string, pos geom.Vec3, elite bool) *ItemDef {
	d := item(name, color, room, pos)
	d.Dragon = true
	d.Elite = elite
	return d
}

func castleItems() memStore[*ItemDef] {
	return memStore[*ItemDef]{
		"gold_key":       item("Gold Key", "#FFD700", "east-wing", geom.V(2, 0.2, -2)),
		"chalice":        item("Chalice", "#C0C0C0", "throne-room", geom.V(0, 0.25, 0)),
		"spear":          item("Spear", "#AAAAFF", "west-wing", geom.V(-2, 0.25, 2)),
		"dragon_yorgle":  dragon("Yorgle", "#FFFF00", "main-hall", geom.V(-2, 0.5, 0), false),
		"dragon_grundle": dragon("Grundle", "#00FF00", "east-wing", geom.V(0, 0.5, 0), false),
		"dragon_rhindle": dragon("Rhindle", "#FF0000", "throne-room", geom.V(0, 0.5, 0), true),
	}
}

func castleWorld(t *testing.T, mods ...func(memStore[*Room], memStore[*ItemDef])) *World {
	t.Helper()
	rooms, items := castleRooms(), castleItems()
	for _, m := range mods {
		m(rooms, items)
	}
	w, err := NewWorld(rooms, items, "gold-castle-entrance")
	if err != nil {
		t.Fatalf("building world: %v", err)
	}
	return w
}

func castleState(t *testing.T, p Policy, mods ...func(memStore[*Room], memStore[*ItemDef])) *GameState {
	t.Helper()
	return NewGameState(castleWorld(t, mods...), p)
}

// cellWorld is a single room holding the spear and a chalice.
func cellWorld(t *testing.T) *World {
	t.Helper()
	rooms := memStore[*Room]{"cell": {Name: "Cell", Color: "#101010"}}
	items := memStore[*ItemDef]{
		"spear":   item("Spear", "#AAAAFF", "cell", geom.V(-3, 0.25, -3)),
		"chalice": item("Chalice", "#C0C0C0", "cell", geom.V(3, 0.2, 3)),
	}
	w, err := NewWorld(rooms, items, "cell")
	if err != nil {
		t.Fatalf("building world: %v", err)
	}
	return w
}

// enter puts the player at pos in room and refreshes visibility.
func enter(s *GameState, room storage.Identifier, pos geom.Vec3) {
	s.Player.Room = room
	s.Player.Position = pos
	s.Refresh()
}

// kinds renders event kinds as a space separated list.
func kinds(evs []Event) string {
	out := make([]string, 0, len(evs))
	for _, e := range evs {
		out = append(out, e.Kind.String())
	}
	return strings.Join(out, " ")
}

func countKind(evs []Event, k EventKind) int {
	n := 0
	for _, e := range evs {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func assertNear(t *testing.T, label string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: got %v, want %v", label, got, want)
	}
}

func idOf(s string) storage.Identifier {
	return storage.Identifier(s)
}
