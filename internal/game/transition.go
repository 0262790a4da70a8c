package game

import (
	"log/slog"
	"math"

	"github.com/pburglin/adventure2/internal/storage"
)

// CheckTransition tests the player against the room boundary and moves them
// through a door when one allows it. At most one side is resolved per tick.
func CheckTransition(s *GameState, rng Rand) bool {
	if !s.Player.Alive || s.Player.Carried {
		return false
	}

	pos := &s.Player.Position
	var side Direction
	switch {
	case pos.Z < -RoomHalfSize:
		side = North
	case pos.Z > RoomHalfSize:
		side = South
	case pos.X < -RoomHalfSize:
		side = West
	case pos.X > RoomHalfSize:
		side = East
	default:
		if math.Abs(pos.X) < RoomHalfSize && math.Abs(pos.Z) < RoomHalfSize {
			s.Player.LockedContact = false
		}
		return false
	}

	room := s.CurrentRoom()
	if room == nil {
		slog.Warn("player in unknown room", "room", s.Player.Room)
		clampToEdge(s, side)
		return false
	}

	conn := room.Connections.Get(side)
	switch {
	case conn == nil:
		clampToEdge(s, side)
		return false
	case conn.Locked() && !s.Inventory.Has(conn.LockedBy.Id()):
		clampToEdge(s, side)
		if !s.Player.LockedContact {
			s.Player.LockedContact = true
			key := conn.LockedBy.Id()
			s.emit(Event{Kind: EventDoorLocked, ItemId: key, RoomId: s.Player.Room, Message: itemName(s, key)})
		}
		return false
	}

	enterFrom(s, conn.RoomId.Id(), side)
	enteredRoom(s, rng)
	return true
}

func clampToEdge(s *GameState, side Direction) {
	pos := &s.Player.Position
	switch side {
	case North:
		pos.Z = -RoomHalfSize
	case South:
		pos.Z = RoomHalfSize
	case West:
		pos.X = -RoomHalfSize
	case East:
		pos.X = RoomHalfSize
	}
}

// enterFrom places the player just inside the edge opposite the one they
// left through.
func enterFrom(s *GameState, room storage.Identifier, side Direction) {
	pos := &s.Player.Position
	edge := RoomHalfSize - DoorInset
	switch side {
	case North:
		pos.Z = edge
	case South:
		pos.Z = -edge
	case West:
		pos.X = edge
	case East:
		pos.X = -edge
	}
	s.Player.Room = room
	s.Player.LockedContact = false

	slog.Debug("player changed room", "room", room, "via", side)
}

// enteredRoom runs everything that follows a room change. A nil rng skips
// the bird roll.
func enteredRoom(s *GameState, rng Rand) {
	room := s.CurrentRoom()
	if room == nil {
		slog.Warn("entered unknown room", "room", s.Player.Room)
		return
	}

	s.emit(Event{Kind: EventRoomChanged, RoomId: s.Player.Room, Message: room.Name})

	if rng != nil {
		MaybeStartBird(s, rng)
	}

	checkWin(s, room)
}

func checkWin(s *GameState, room *Room) {
	if s.Won || !room.WinConditionItem.IsSet() {
		return
	}
	if !s.Inventory.Has(room.WinConditionItem.Id()) {
		return
	}

	s.Won = true
	slog.Info("game won", "room", s.Player.Room, "item", room.WinConditionItem.Id())
	s.emit(Event{Kind: EventGameWon, ItemId: room.WinConditionItem.Id(), RoomId: s.Player.Room, Message: room.Name, Cue: cueWin})
}
