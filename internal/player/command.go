package player

import (
	"fmt"
	"math"
	"strings"

	"github.com/pburglin/adventure2/internal/geom"
)

// Verb is what a line of player input asks for.
type Verb int

const (
	VerbMove Verb = iota
	VerbStop
	VerbThrow
	VerbRespawn
	VerbLook
	VerbMap
	VerbInventory
	VerbRuns
	VerbHelp
	VerbQuit
)

// Command is a parsed line of input.
type Command struct {
	Verb Verb
	// Dir is the movement intent for VerbMove, on the XZ plane with north
	// towards negative Z.
	Dir geom.Vec3
	// Name is the direction word as typed, for echoing back.
	Name string
}

type heading struct {
	name string
	dir  geom.Vec3
}

var headings = map[string]heading{
	"n":  {"north", geom.V(0, 0, -1)},
	"s":  {"south", geom.V(0, 0, 1)},
	"e":  {"east", geom.V(1, 0, 0)},
	"w":  {"west", geom.V(-1, 0, 0)},
	"ne": {"northeast", geom.V(math.Sqrt2/2, 0, -math.Sqrt2/2)},
	"nw": {"northwest", geom.V(-math.Sqrt2/2, 0, -math.Sqrt2/2)},
	"se": {"southeast", geom.V(math.Sqrt2/2, 0, math.Sqrt2/2)},
	"sw": {"southwest", geom.V(-math.Sqrt2/2, 0, math.Sqrt2/2)},
}

var simpleVerbs = map[string]Verb{
	"stop":      VerbStop,
	"halt":      VerbStop,
	"throw":     VerbThrow,
	"t":         VerbThrow,
	"respawn":   VerbRespawn,
	"look":      VerbLook,
	"l":         VerbLook,
	"map":       VerbMap,
	"m":         VerbMap,
	"inventory": VerbInventory,
	"i":         VerbInventory,
	"runs":      VerbRuns,
	"help":      VerbHelp,
	"?":         VerbHelp,
	"quit":      VerbQuit,
	"q":         VerbQuit,
}

// ParseCommand turns a line of input into a Command. Unknown input is a
// UserError.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, NewUserError("Say something. Type \"help\" for commands.")
	}

	word, args := fields[0], fields[1:]

	if word == "walk" || word == "go" {
		if len(args) != 1 {
			return Command{}, NewUserError(fmt.Sprintf("%s where?", word))
		}
		return parseHeading(args[0])
	}

	if _, ok := lookupHeading(word); ok {
		if len(args) > 0 {
			return Command{}, NewUserError(fmt.Sprintf("%q takes no arguments.", word))
		}
		return parseHeading(word)
	}

	v, ok := simpleVerbs[word]
	if !ok {
		return Command{}, NewUserError(fmt.Sprintf("I don't know how to %q.", word))
	}
	if len(args) > 0 {
		return Command{}, NewUserError(fmt.Sprintf("%q takes no arguments.", word))
	}
	return Command{Verb: v}, nil
}

func parseHeading(word string) (Command, error) {
	h, ok := lookupHeading(word)
	if !ok {
		return Command{}, NewUserError(fmt.Sprintf("%q is not a direction.", word))
	}
	return Command{Verb: VerbMove, Dir: h.dir, Name: h.name}, nil
}

func lookupHeading(word string) (heading, bool) {
	if h, ok := headings[word]; ok {
		return h, true
	}
	for _, h := range headings {
		if h.name == word {
			return h, true
		}
	}
	return heading{}, false
}

const helpText = `Commands:
  n, s, e, w, ne, nw, se, sw  start walking (also: walk <direction>)
  stop                        stand still
  throw                       throw the spear the way you last walked
  respawn                     start over after being eaten
  look                        describe the room
  map                         draw the room
  inventory                   list what you carry
  runs                        show recent runs
  quit                        leave the game`
