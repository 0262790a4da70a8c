package game

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pburglin/adventure2/internal/geom"
	"github.com/pburglin/adventure2/internal/storage"
)

func TestConnections_UnmarshalJSON(t *testing.T) {
	tests := map[string]struct {
		input     string
		expNil    bool
		expRoom   storage.Identifier
		expLocked storage.Identifier
		expErr    string
	}{
		"wall": {
			input:  `{"north":null}`,
			expNil: true,
		},
		"missing side is a wall": {
			input:  `{}`,
			expNil: true,
		},
		"room id": {
			input:   `{"north":"main-hall"}`,
			expRoom: "main-hall",
		},
		"open object": {
			input:   `{"north":{"room_id":"main-hall"}}`,
			expRoom: "main-hall",
		},
		"locked object": {
			input:     `{"north":{"room_id":"throne-room","locked_by":"gold_key"}}`,
			expRoom:   "throne-room",
			expLocked: "gold_key",
		},
		"number": {
			input:  `{"north":3}`,
			expErr: "connection must be a room id or an object",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var c Connections
			err := json.Unmarshal([]byte(tt.input), &c)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.expNil {
				testutil.AssertEqual(t, "wall", c.North == nil, true)
				return
			}
			testutil.AssertEqual(t, "room", c.North.RoomId.Id(), tt.expRoom)
			testutil.AssertEqual(t, "lock", c.North.LockedBy.Id(), tt.expLocked)
			testutil.AssertEqual(t, "locked", c.North.Locked(), tt.expLocked != "")
		})
	}
}

func TestConnection_MarshalJSON(t *testing.T) {
	tests := map[string]struct {
		conn *Connection
		exp  string
	}{
		"open": {
			conn: open("east-wing"),
			exp:  `"east-wing"`,
		},
		"locked": {
			conn: locked("throne-room", "gold_key"),
			exp:  `{"room_id":"throne-room","locked_by":"gold_key"}`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			b, err := json.Marshal(tt.conn)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "json", string(b), tt.exp)
		})
	}
}

func TestRoom_Validate(t *testing.T) {
	tests := map[string]struct {
		room   *Room
		expErr []string
	}{
		"valid": {
			room: &Room{Name: "Main Hall", Color: "#BBBBBB", Connections: Connections{South: open("gold-castle-entrance")}},
		},
		"missing name and bad color": {
			room:   &Room{Color: "blue"},
			expErr: []string{"room name is required", `room color "blue" must be #RRGGBB`},
		},
		"connection without target": {
			room:   &Room{Name: "Pit", Color: "#000000", Connections: Connections{West: &Connection{}}},
			expErr: []string{"west connection: Room identifier is required"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.room.Validate()
			if len(tt.expErr) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			for _, e := range tt.expErr {
				testutil.AssertErrorContains(t, err, e)
			}
		})
	}
}

func TestItemDef_Validate(t *testing.T) {
	tests := map[string]struct {
		def    *ItemDef
		expErr string
	}{
		"valid dragon": {
			def: &ItemDef{Name: "Rhindle", Color: "#FF0000", Dragon: true, Elite: true},
		},
		"elite item": {
			def:    &ItemDef{Name: "Chalice", Color: "#C0C0C0", Elite: true},
			expErr: "only dragons can be elite",
		},
		"no name": {
			def:    &ItemDef{Color: "#C0C0C0"},
			expErr: "item name is required",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestNewWorld(t *testing.T) {
	tests := map[string]struct {
		mod    func(memStore[*Room], memStore[*ItemDef])
		start  storage.Identifier
		expErr string
	}{
		"castle": {
			start: "gold-castle-entrance",
		},
		"unknown start": {
			start:  "cellar",
			expErr: `start room "cellar": unknown room`,
		},
		"no start": {
			expErr: "start room is required",
		},
		"dangling connection": {
			mod: func(r memStore[*Room], _ memStore[*ItemDef]) {
				r["west-wing"].Connections.West = open("dungeon")
			},
			start:  "gold-castle-entrance",
			expErr: `room west-wing west connection: Room "dungeon" not found`,
		},
		"unknown key": {
			mod: func(r memStore[*Room], _ memStore[*ItemDef]) {
				r["east-wing"].Connections.East = locked("blue-maze-1", "black_key")
			},
			start:  "gold-castle-entrance",
			expErr: `room east-wing east lock: ItemDef "black_key" not found`,
		},
		"item in unknown room": {
			mod: func(_ memStore[*Room], i memStore[*ItemDef]) {
				i["chalice"] = item("Chalice", "#C0C0C0", "vault", geom.Vec3{})
			},
			start:  "gold-castle-entrance",
			expErr: `item chalice: Room "vault" not found`,
		},
		"no spear": {
			mod: func(_ memStore[*Room], i memStore[*ItemDef]) {
				delete(i, "spear")
			},
			start:  "gold-castle-entrance",
			expErr: "world has no spear item",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rooms, items := castleRooms(), castleItems()
			if tt.mod != nil {
				tt.mod(rooms, items)
			}

			w, err := NewWorld(rooms, items, tt.start)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "room ids", fmt.Sprint(w.RoomIds()), "[blue-maze-1 east-wing gold-castle-entrance main-hall throne-room west-wing]")
			testutil.AssertEqual(t, "first item", w.ItemIds()[0], storage.Identifier("chalice"))
			testutil.AssertEqual(t, "spear room", w.SpearSpawn().Room, storage.Identifier("west-wing"))
			testutil.AssertEqual(t, "lock resolved", w.Room("main-hall").Connections.North.LockedBy.Get().Name, "Gold Key")
		})
	}
}
