package display

import (
	"math"
	"strings"
	"unicode"

	"github.com/pburglin/adventure2/internal/game"
	"github.com/pburglin/adventure2/internal/geom"
	"github.com/pburglin/adventure2/internal/storage"
)

const (
	wallRune   = '#'
	lockedRune = '+'
	playerRune = '@'
	deadRune   = 'x'
	spearRune  = '/'
	birdRune   = 'v'
)

// Cell is one character of a room map.
type Cell struct {
	Rune  rune
	Color string
}

// Grid is a top-down character map of the current room. Row 0 is the north
// wall and column 0 the west wall.
type Grid struct {
	Cells [][]Cell
}

// NewGrid draws snap as a cols by rows map. Sizes below 5 are raised to 5.
func NewGrid(snap game.Snapshot, w *game.World, cols, rows int) Grid {
	cols = max(cols, 5)
	rows = max(rows, 5)

	g := Grid{Cells: make([][]Cell, rows)}
	for r := range g.Cells {
		g.Cells[r] = make([]Cell, cols)
		for c := range g.Cells[r] {
			g.Cells[r][c] = Cell{Rune: ' '}
			if r == 0 || r == rows-1 || c == 0 || c == cols-1 {
				g.Cells[r][c] = Cell{Rune: wallRune}
			}
		}
	}

	if snap.Room != nil {
		g.door(snap.Room.Connections.Get(game.North), 0, cols/2, true)
		g.door(snap.Room.Connections.Get(game.South), rows-1, cols/2, true)
		g.door(snap.Room.Connections.Get(game.West), rows/2, 0, false)
		g.door(snap.Room.Connections.Get(game.East), rows/2, cols-1, false)
		for r := range g.Cells {
			for c := range g.Cells[r] {
				if g.Cells[r][c].Rune == wallRune {
					g.Cells[r][c].Color = snap.Room.Color
				}
			}
		}
	}

	for _, id := range sortedVisible(snap.Items) {
		def := w.Item(id)
		if def == nil {
			continue
		}
		g.plot(snap.Items[id].Position, itemRune(id, def), def.Color)
	}

	if snap.Bird.Active() {
		g.plot(snap.Bird.Position, birdRune, "")
	}

	pr := playerRune
	if !snap.Player.Alive {
		pr = deadRune
	}
	if !snap.Player.Carried {
		g.plot(snap.Player.Position, pr, "")
	}

	return g
}

func (g Grid) door(c *game.Connection, r, col int, horizontal bool) {
	if c == nil {
		return
	}
	fill := ' '
	if c.Locked() {
		fill = lockedRune
	}
	for i := -1; i <= 1; i++ {
		if horizontal {
			g.Cells[r][col+i].Rune = fill
		} else {
			g.Cells[r+i][col].Rune = fill
		}
	}
}

// plot places a rune at a world position. Positions outside the room land on
// the nearest inner cell.
func (g Grid) plot(p geom.Vec3, ch rune, color string) {
	rows := len(g.Cells)
	cols := len(g.Cells[0])
	c := project(p.X, cols)
	r := project(p.Z, rows)
	g.Cells[r][c] = Cell{Rune: ch, Color: color}
}

func project(v float64, n int) int {
	f := (v + game.RoomHalfSize) / (2 * game.RoomHalfSize)
	i := int(math.Floor(f * float64(n-2)))
	return min(max(i, 0), n-3) + 1
}

func itemRune(id storage.Identifier, def *game.ItemDef) rune {
	if id == game.SpearId {
		return spearRune
	}
	r := '?'
	for _, ch := range def.Name {
		r = ch
		break
	}
	if def.Dragon {
		return unicode.ToUpper(r)
	}
	return unicode.ToLower(r)
}

func (g Grid) String() string {
	var sb strings.Builder
	for i, row := range g.Cells {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range row {
			sb.WriteRune(c.Rune)
		}
	}
	return sb.String()
}
