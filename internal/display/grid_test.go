package display

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pburglin/adventure2/internal/game"
	"github.com/pburglin/adventure2/internal/game/gametest"
	"github.com/pburglin/adventure2/internal/geom"
)

func TestNewGrid(t *testing.T) {
	e := gametest.Engine(t)

	g := NewGrid(e.View(), e.World(), 12, 12)

	exp := strings.Join([]string{
		"#####+++####",
		"#          #",
		"#          #",
		"#          #",
		"#          #",
		"#           ",
		"# g   @     ",
		"#           ",
		"#       /  #",
		"#          #",
		"#          #",
		"############",
	}, "\n")
	testutil.AssertEqual(t, "grid", g.String(), exp)
	testutil.AssertEqual(t, "wall colour", g.Cells[0][0].Color, "#BBBBBB")
	testutil.AssertEqual(t, "key colour", g.Cells[6][2].Color, "#FFD700")
}

func TestNewGrid_Markers(t *testing.T) {
	tests := map[string]struct {
		update func(*game.GameState)
		row    int
		col    int
		exp    rune
	}{
		"dead player": {
			update: func(s *game.GameState) { s.Player.Alive = false },
			row:    6,
			col:    6,
			exp:    'x',
		},
		"dragon is upper case": {
			update: func(s *game.GameState) {
				s.Player.Room = "yard"
				s.Player.Position = geom.V(-4, game.PlayerGroundY, -4)
			},
			row: 9,
			col: 9,
			exp: 'Y',
		},
		"out of bounds clamps": {
			update: func(s *game.GameState) { s.Player.Position = geom.V(9, 0, -9) },
			row:    1,
			col:    10,
			exp:    '@',
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := gametest.Engine(t, tt.update)

			g := NewGrid(e.View(), e.World(), 12, 12)
			testutil.AssertEqual(t, "rune", g.Cells[tt.row][tt.col].Rune, tt.exp)
		})
	}
}
