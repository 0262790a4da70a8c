package tui

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/pburglin/adventure2/internal/geom"
)

// Action is what a key press asks of the game.
type Action int

const (
	ActionNone Action = iota
	ActionMove
	ActionStop
	ActionThrow
	ActionRespawn
	ActionQuit
)

const diag = math.Sqrt2 / 2

var runeMoves = map[rune]geom.Vec3{
	'w': geom.V(0, 0, -1),
	's': geom.V(0, 0, 1),
	'a': geom.V(-1, 0, 0),
	'd': geom.V(1, 0, 0),
	'q': geom.V(-diag, 0, -diag),
	'e': geom.V(diag, 0, -diag),
	'z': geom.V(-diag, 0, diag),
	'c': geom.V(diag, 0, diag),
}

var keyMoves = map[tcell.Key]geom.Vec3{
	tcell.KeyUp:    geom.V(0, 0, -1),
	tcell.KeyDown:  geom.V(0, 0, 1),
	tcell.KeyLeft:  geom.V(-1, 0, 0),
	tcell.KeyRight: geom.V(1, 0, 0),
}

// keyAction maps a key press to an action and, for moves, the intent vector.
// Terminals only report presses, so a direction is held until another key
// changes it.
func keyAction(ev *tcell.EventKey) (Action, geom.Vec3) {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return ActionQuit, geom.Vec3{}
	case tcell.KeyRune:
	default:
		if v, ok := keyMoves[ev.Key()]; ok {
			return ActionMove, v
		}
		return ActionNone, geom.Vec3{}
	}

	r := ev.Rune()
	if v, ok := runeMoves[r]; ok {
		return ActionMove, v
	}
	switch r {
	case ' ', 'x':
		return ActionStop, geom.Vec3{}
	case 't', 'f':
		return ActionThrow, geom.Vec3{}
	case 'r':
		return ActionRespawn, geom.Vec3{}
	case 'Q':
		return ActionQuit, geom.Vec3{}
	default:
		return ActionNone, geom.Vec3{}
	}
}
