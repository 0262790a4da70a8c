package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"syscall"

	"github.com/iammegalith/telnet"
)

type TelnetListener struct {
	addr string
	cm   *ConnectionManager
}

func NewTelnetListener(addr string, cm *ConnectionManager) *TelnetListener {
	return &TelnetListener{
		addr: addr,
		cm:   cm,
	}
}

func (l *TelnetListener) Start(ctx context.Context) error {
	sessCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	h := &telnetSessions{ctx: sessCtx, cm: l.cm}
	svr := telnet.NewServer(l.addr, h)

	stop := context.AfterFunc(ctx, func() {
		svr.Stop()
		cancel()
	})
	defer func() {
		stop()
		cancel()
		h.wg.Wait()
	}()

	slog.InfoContext(ctx, "listening for telnet", "addr", l.addr)

	err := svr.ListenAndServe()
	switch {
	case err == nil || ctx.Err() != nil:
		return nil
	case errors.Is(err, syscall.EADDRINUSE):
		return fmt.Errorf("address %s is already in use", l.addr)
	default:
		return fmt.Errorf("serving telnet on %s: %w", l.addr, err)
	}
}

// telnetSessions runs one game per telnet connection.
type telnetSessions struct {
	ctx context.Context
	cm  *ConnectionManager
	wg  sync.WaitGroup
}

func (h *telnetSessions) HandleTelnet(conn *telnet.Connection) {
	h.wg.Add(1)
	defer h.wg.Done()
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Debug("closing telnet connection", "error", err)
		}
	}()

	h.cm.AcceptConnection(h.ctx, conn)
}
