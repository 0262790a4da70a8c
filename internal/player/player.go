package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/pburglin/adventure2/internal/display"
	"github.com/pburglin/adventure2/internal/game"
	"github.com/pburglin/adventure2/internal/geom"
)

const (
	eventBuffer = 64
	runsShown   = 5
	mapSize     = 21
)

// Player connects one session to a text connection.
type Player struct {
	conn    io.ReadWriter
	session *Session
	mgr     *SessionManager

	msgs chan game.Event
}

func newPlayer(conn io.ReadWriter, s *Session, m *SessionManager) *Player {
	return &Player{
		conn:    conn,
		session: s,
		mgr:     m,
		msgs:    make(chan game.Event, eventBuffer),
	}
}

func (p *Player) Play(ctx context.Context) error {
	unsub, err := p.mgr.bus.Subscribe(p.session.id, p.enqueue, func(err error) {
		slog.WarnContext(ctx, "session event", "session", p.session.id, "error", err)
	})
	if err != nil {
		return fmt.Errorf("subscribing to session events: %w", err)
	}
	defer unsub()

	// Start goroutine to read input lines into a channel
	inputChan := make(chan string)
	inputErrChan := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		scanner := bufio.NewScanner(p.conn)
		for scanner.Scan() {
			select {
			case inputChan <- scanner.Text():
			case <-done:
				return
			}
		}
		inputErrChan <- scanner.Err()
		close(inputChan)
	}()

	if err := p.writeLine(display.Wrap("You stand at the start of an adventure. Type \"help\" for commands.")); err != nil {
		return err
	}
	if err := p.look(); err != nil {
		return err
	}
	if err := p.prompt(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			p.writeLine("\nThe world fades away.")
			return nil

		case ev := <-p.msgs:
			shown, err := p.showEvent(ev)
			if err != nil {
				return err
			}
			if shown {
				if err := p.prompt(); err != nil {
					return err
				}
			}

		case line, ok := <-inputChan:
			if !ok {
				select {
				case err := <-inputErrChan:
					return err
				default:
					return nil
				}
			}

			line = strings.TrimSpace(line)
			if line == "" {
				if err := p.prompt(); err != nil {
					return err
				}
				continue
			}

			err := p.exec(ctx, line)
			if errors.Is(err, errQuit) {
				return p.writeLine("Goodbye!")
			}
			if err != nil {
				var userErr *UserError
				if !errors.As(err, &userErr) {
					return fmt.Errorf("command execution failed: %w", err)
				}
				if err := p.writeLine(userErr.Message); err != nil {
					return err
				}
			}

			if err := p.prompt(); err != nil {
				return err
			}
		}
	}
}

// enqueue runs on the bus goroutine and must not block it.
func (p *Player) enqueue(ev game.Event) {
	select {
	case p.msgs <- ev:
	default:
		slog.Warn("dropping session event", "session", p.session.id, "kind", ev.Kind)
	}
}

func (p *Player) exec(ctx context.Context, line string) error {
	cmd, err := ParseCommand(line)
	if err != nil {
		return err
	}

	e := p.session.engine
	switch cmd.Verb {
	case VerbMove:
		e.SetMove(cmd.Dir)
		return p.writeLine(fmt.Sprintf("You walk %s.", cmd.Name))
	case VerbStop:
		e.SetMove(geom.Vec3{})
		return p.writeLine("You stop.")
	case VerbThrow:
		if !slices.Contains(e.View().Inventory, game.SpearId) {
			return NewUserError("You have nothing to throw.")
		}
		e.RequestThrow()
		return nil
	case VerbRespawn:
		if e.View().Player.Alive {
			return NewUserError("You are still alive.")
		}
		e.RequestRespawn()
		return nil
	case VerbLook:
		return p.look()
	case VerbMap:
		snap := e.View()
		return p.writeLine(display.NewGrid(snap, e.World(), mapSize, mapSize).String())
	case VerbInventory:
		return p.inventory()
	case VerbRuns:
		return p.runs(ctx)
	case VerbHelp:
		return p.writeLine(helpText)
	case VerbQuit:
		return errQuit
	default:
		return NewUserError("Nothing happens.")
	}
}

func (p *Player) showEvent(ev game.Event) (bool, error) {
	if ev.Kind == game.EventRoomChanged {
		return true, p.look()
	}

	text, err := display.RenderEvent(ev)
	if err != nil {
		return false, fmt.Errorf("rendering %s event: %w", ev.Kind, err)
	}
	if text == "" {
		return false, nil
	}
	return true, p.writeLine(display.Wrap(text))
}

func (p *Player) look() error {
	e := p.session.engine
	text, err := display.RenderRoom(e.View(), e.World())
	if err != nil {
		return err
	}
	return p.writeLine(display.Wrap(text))
}

func (p *Player) inventory() error {
	e := p.session.engine
	held := e.View().Inventory
	if len(held) == 0 {
		return p.writeLine("You are empty-handed.")
	}

	var sb strings.Builder
	sb.WriteString("You carry:")
	for _, id := range held {
		name := display.Title(id.String())
		if def := e.World().Item(id); def != nil {
			name = def.Name
		}
		sb.WriteString("\n  " + name)
	}
	return p.writeLine(sb.String())
}

func (p *Player) runs(ctx context.Context) error {
	rs, err := p.mgr.RecentRuns(ctx, runsShown)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(rs) == 0 {
		return p.writeLine("No runs recorded yet.")
	}

	var sb strings.Builder
	sb.WriteString("Recent runs:")
	for _, r := range rs {
		fmt.Fprintf(&sb, "\n  %s  %-9s %6s  deaths %d  dragons %d  rooms %d",
			r.Ended.Format("2006-01-02 15:04"), r.Outcome, r.Duration().Round(time.Second), r.Deaths, len(r.Slain), r.Rooms)
	}
	return p.writeLine(sb.String())
}

func (p *Player) prompt() error {
	e := p.session.engine
	status, err := display.RenderStatus(e.View(), e.World())
	if err != nil {
		return err
	}
	_, err = p.conn.Write([]byte("[" + status + "] > "))
	return err
}

func (p *Player) writeLine(msg string) error {
	_, err := p.conn.Write([]byte(msg + "\n"))
	return err
}
