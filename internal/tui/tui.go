// Package tui is a local terminal client that plays one game and draws the
// current room as a character map.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/pburglin/adventure2/internal/display"
	"github.com/pburglin/adventure2/internal/game"
)

const (
	mapCols   = 41
	mapRows   = 21
	baseColor = "#000000"
	logLines  = 200
	helpText  = " [black:gold]wasd/arrows[-:-] walk  [black:gold]qezc[-:-] diagonals  [black:gold]space[-:-] stop  [black:gold]t[-:-] throw  [black:gold]r[-:-] respawn  [black:gold]Q/esc[-:-] quit "
)

// UI owns the terminal application and the engine it presents.
type UI struct {
	app    *tview.Application
	engine *game.Engine

	room    *tview.TextView
	log     *tview.TextView
	status  *tview.TextView
	flicker *display.Flicker

	lines []string
	quit  func()
}

// New builds the UI. quit is called once when the player asks to leave.
func New(e *game.Engine, quit func()) *UI {
	u := &UI{
		app:    tview.NewApplication(),
		engine: e,
		quit:   quit,
	}
	u.build()
	u.flicker = display.NewFlicker(baseColor, u.setBackground)
	return u
}

func (u *UI) build() {
	u.room = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	u.room.SetBorder(true)

	u.log = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	u.log.SetBorder(true).SetTitle(" Log ")

	u.status = tview.NewTextView().SetDynamicColors(true)

	main := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(u.room, mapCols+2, 0, false).
		AddItem(u.log, 0, 1, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(main, mapRows+2, 0, true).
		AddItem(u.status, 1, 0, false).
		AddItem(tview.NewTextView().SetDynamicColors(true).SetText(helpText), 1, 0, false)

	u.app.SetRoot(root, true)
	u.app.SetInputCapture(u.handleKey)
}

// Start runs the terminal application until ctx ends or the player quits.
func (u *UI) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		u.app.Stop()
	}()

	u.app.QueueUpdateDraw(u.redraw)
	if err := u.app.Run(); err != nil {
		return fmt.Errorf("running terminal ui: %w", err)
	}
	u.flicker.Stop()
	return nil
}

// Tick advances the game one step and schedules a redraw.
func (u *UI) Tick(context.Context) error {
	evs := u.engine.Tick()
	for _, ev := range evs {
		if ev.Cue != nil {
			u.flicker.Trigger(*ev.Cue)
		}
	}
	u.app.QueueUpdateDraw(func() {
		u.appendEvents(evs)
		u.redraw()
	})
	return nil
}

func (u *UI) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	action, dir := keyAction(ev)
	switch action {
	case ActionMove:
		u.engine.SetMove(dir)
	case ActionStop:
		u.engine.SetMove(dir)
	case ActionThrow:
		u.engine.RequestThrow()
	case ActionRespawn:
		u.engine.RequestRespawn()
	case ActionQuit:
		slog.Info("player quit")
		u.quit()
	default:
		return ev
	}
	return nil
}

func (u *UI) redraw() {
	snap := u.engine.View()
	w := u.engine.World()

	title := "?"
	if snap.Room != nil {
		title = snap.Room.Name
	}
	u.room.SetTitle(" " + title + " ")
	u.room.SetText(gridText(display.NewGrid(snap, w, mapCols, mapRows)))

	status, err := display.RenderStatus(snap, w)
	if err != nil {
		slog.Warn("rendering status", "error", err)
	}
	u.status.SetText(tview.Escape(" " + status))
	u.log.SetText(strings.Join(u.lines, "\n"))
	u.log.ScrollToEnd()
}

// appendEvents adds the player-facing text of evs to the log.
func (u *UI) appendEvents(evs []game.Event) {
	for _, ev := range evs {
		line := eventLine(ev)
		if line == "" {
			continue
		}
		u.lines = append(u.lines, line)
	}
	if len(u.lines) > logLines {
		u.lines = u.lines[len(u.lines)-logLines:]
	}
}

func eventLine(ev game.Event) string {
	if ev.Kind == game.EventRoomChanged {
		return fmt.Sprintf("[::b]%s[::-]", tview.Escape(ev.Message))
	}
	text, err := display.RenderEvent(ev)
	if err != nil {
		slog.Warn("rendering event", "kind", ev.Kind, "error", err)
		return ""
	}
	if text == "" {
		return ""
	}
	if ev.Cue != nil {
		return fmt.Sprintf("[%s]%s[-]", ev.Cue.Color, tview.Escape(text))
	}
	return tview.Escape(text)
}

// setBackground runs on whichever goroutine triggered the flicker.
func (u *UI) setBackground(color string) {
	c := tcell.GetColor(color)
	u.app.QueueUpdateDraw(func() {
		u.room.SetBackgroundColor(c)
	})
}

// gridText renders a grid with tview colour tags.
func gridText(g display.Grid) string {
	var sb strings.Builder
	for i, row := range g.Cells {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range row {
			ch := tview.Escape(string(c.Rune))
			if c.Color == "" {
				sb.WriteString(ch)
				continue
			}
			fmt.Fprintf(&sb, "[%s]%s[-]", c.Color, ch)
		}
	}
	return sb.String()
}
