package game

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/pixil98/go-errors"

	"github.com/pburglin/adventure2/internal/geom"
	"github.com/pburglin/adventure2/internal/storage"
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Direction names one side of a room.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

// Directions lists every side in the order boundary breaches are checked.
var Directions = []Direction{North, South, West, East}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// Connection leads out of a room. In JSON it is either a bare room id or an
// object with room_id and an optional locked_by item.
type Connection struct {
	RoomId   storage.SmartIdentifier[*Room]    `json:"room_id"`
	LockedBy storage.SmartIdentifier[*ItemDef] `json:"locked_by,omitzero"`
}

func (c *Connection) UnmarshalJSON(b []byte) error {
	var id string
	if err := json.Unmarshal(b, &id); err == nil {
		c.RoomId = storage.NewSmartIdentifier[*Room](id)
		return nil
	}

	type plain Connection
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("connection must be a room id or an object: %w", err)
	}
	*c = Connection(p)
	return nil
}

func (c Connection) MarshalJSON() ([]byte, error) {
	if !c.LockedBy.IsSet() {
		return json.Marshal(c.RoomId)
	}
	type plain Connection
	return json.Marshal(plain(c))
}

// Locked reports whether passing requires an item.
func (c *Connection) Locked() bool {
	return c.LockedBy.IsSet()
}

// Connections holds one optional exit per side. A nil entry is a wall.
type Connections struct {
	North *Connection `json:"north"`
	South *Connection `json:"south"`
	East  *Connection `json:"east"`
	West  *Connection `json:"west"`
}

func (c *Connections) Get(d Direction) *Connection {
	switch d {
	case North:
		return c.North
	case South:
		return c.South
	case East:
		return c.East
	case West:
		return c.West
	default:
		return nil
	}
}

// Room is a square cell of the world graph.
type Room struct {
	Name             string                            `json:"name"`
	Color            string                            `json:"color"`
	Connections      Connections                       `json:"connections"`
	WinConditionItem storage.SmartIdentifier[*ItemDef] `json:"win_condition_item,omitzero"`
}

// Validate satisfies storage.ValidatingSpec. References to other rooms and
// items are checked when the world is assembled.
func (r *Room) Validate() error {
	el := errors.NewErrorList()

	if r.Name == "" {
		el.Add(fmt.Errorf("room name is required"))
	}
	if !colorPattern.MatchString(r.Color) {
		el.Add(fmt.Errorf("room color %q must be #RRGGBB", r.Color))
	}
	for _, d := range Directions {
		if c := r.Connections.Get(d); c != nil {
			if err := c.RoomId.Validate(); err != nil {
				el.Add(fmt.Errorf("%s connection: %w", d, err))
			}
		}
	}

	return el.Err()
}

// ItemDef is the static definition of an item or dragon.
type ItemDef struct {
	Name     string                         `json:"name"`
	Color    string                         `json:"color"`
	Dragon   bool                           `json:"dragon,omitempty"`
	Elite    bool                           `json:"elite,omitempty"`
	Room     storage.SmartIdentifier[*Room] `json:"room_id"`
	Position geom.Vec3                      `json:"position"`
}

// Validate satisfies storage.ValidatingSpec.
func (i *ItemDef) Validate() error {
	el := errors.NewErrorList()

	if i.Name == "" {
		el.Add(fmt.Errorf("item name is required"))
	}
	if !colorPattern.MatchString(i.Color) {
		el.Add(fmt.Errorf("item color %q must be #RRGGBB", i.Color))
	}
	if i.Elite && !i.Dragon {
		el.Add(fmt.Errorf("only dragons can be elite"))
	}

	return el.Err()
}

// SpearSpawn is where the spear reappears after a miss or a death.
type SpearSpawn struct {
	Room     storage.Identifier
	Position geom.Vec3
}

// World is the static room graph and item catalogue. It is never mutated
// after NewWorld returns.
type World struct {
	rooms   map[storage.Identifier]*Room
	items   map[storage.Identifier]*ItemDef
	roomIds []storage.Identifier
	itemIds []storage.Identifier
	start   storage.Identifier
}

// NewWorld assembles a world from loaded assets and resolves every cross
// reference between rooms and items.
func NewWorld(rooms storage.Storer[*Room], items storage.Storer[*ItemDef], start storage.Identifier) (*World, error) {
	w := &World{
		rooms: rooms.GetAll(),
		items: items.GetAll(),
		start: start,
	}

	el := errors.NewErrorList()

	if start == "" {
		el.Add(ErrMissingStartRoom)
	} else if w.rooms[start] == nil {
		el.Add(fmt.Errorf("start room %q: %w", start, ErrUnknownRoom))
	}

	if w.items[SpearId] == nil {
		el.Add(ErrMissingSpear)
	}

	for id, r := range w.rooms {
		for _, d := range Directions {
			c := r.Connections.Get(d)
			if c == nil {
				continue
			}
			if err := c.RoomId.Resolve(rooms); err != nil {
				el.Add(fmt.Errorf("room %s %s connection: %w", id, d, err))
			}
			if c.LockedBy.IsSet() {
				if err := c.LockedBy.Resolve(items); err != nil {
					el.Add(fmt.Errorf("room %s %s lock: %w", id, d, err))
				}
			}
		}
		if r.WinConditionItem.IsSet() {
			if err := r.WinConditionItem.Resolve(items); err != nil {
				el.Add(fmt.Errorf("room %s win condition: %w", id, err))
			}
		}
		w.roomIds = append(w.roomIds, id)
	}

	for id, i := range w.items {
		if i.Room.IsSet() {
			if err := i.Room.Resolve(rooms); err != nil {
				el.Add(fmt.Errorf("item %s: %w", id, err))
			}
		}
		w.itemIds = append(w.itemIds, id)
	}

	if err := el.Err(); err != nil {
		return nil, err
	}

	sortIds(w.roomIds)
	sortIds(w.itemIds)

	return w, nil
}

func (w *World) Room(id storage.Identifier) *Room {
	return w.rooms[id]
}

func (w *World) Item(id storage.Identifier) *ItemDef {
	return w.items[id]
}

// RoomIds returns every room id in ascending order.
func (w *World) RoomIds() []storage.Identifier {
	return w.roomIds
}

// ItemIds returns every item id in ascending order.
func (w *World) ItemIds() []storage.Identifier {
	return w.itemIds
}

func (w *World) StartRoom() storage.Identifier {
	return w.start
}

func (w *World) SpearSpawn() SpearSpawn {
	def := w.items[SpearId]
	return SpearSpawn{Room: def.Room.Id(), Position: def.Position}
}

func sortIds(ids []storage.Identifier) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
