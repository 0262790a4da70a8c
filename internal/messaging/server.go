package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// NatsServer embeds a NATS server that carries game events between the
// simulation and the connections presenting it. Sessions talk to it over an
// in-process connection; a TCP port is opened only when listening is enabled
// so outside tools can watch the event stream.
type NatsServer struct {
	ns   *server.Server
	conn atomic.Pointer[nats.Conn]

	startupTimeout time.Duration
	listen         bool
	host           string
	port           int
	ready          chan struct{}
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	s := &NatsServer{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
		port:           server.RANDOM_PORT,
		ready:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		ServerName: "adventure",
		Host:       s.host,
		Port:       s.port,
		DontListen: !s.listen,
		NoSigs:     true,
		NoLog:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	s.ns = ns

	return s, nil
}

func (n *NatsServer) Start(ctx context.Context) error {
	n.ns.Start()
	defer func() {
		n.ns.Shutdown()
		n.ns.WaitForShutdown()
	}()

	if !n.ns.ReadyForConnections(n.startupTimeout) {
		return fmt.Errorf("nats server not ready after %s", n.startupTimeout)
	}

	conn, err := nats.Connect("", nats.InProcessServer(n.ns), nats.Name("adventure-sessions"))
	if err != nil {
		return fmt.Errorf("connecting to embedded nats: %w", err)
	}
	n.conn.Store(conn)
	close(n.ready)

	if n.listen {
		slog.InfoContext(ctx, "nats server listening", "url", n.ns.ClientURL())
	} else {
		slog.InfoContext(ctx, "nats server started in process")
	}

	<-ctx.Done()
	if err := conn.Drain(); err != nil {
		slog.Warn("draining nats connection", "error", err)
		conn.Close()
	}

	return nil
}

// Ready is closed once the server accepts publishes and subscriptions.
func (n *NatsServer) Ready() <-chan struct{} {
	return n.ready
}

// ClientURL is where outside clients connect. It is empty unless the server
// listens on TCP.
func (n *NatsServer) ClientURL() string {
	if !n.listen {
		return ""
	}
	return n.ns.ClientURL()
}

// Subscribe delivers every message on subject to handler and returns a
// function that ends the subscription.
func (n *NatsServer) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	conn := n.conn.Load()
	if conn == nil {
		return nil, ErrNotStarted
	}

	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			slog.Debug("unsubscribing", "subject", subject, "error", err)
		}
	}, nil
}

func (n *NatsServer) Publish(subject string, data []byte) error {
	conn := n.conn.Load()
	if conn == nil {
		return ErrNotStarted
	}
	return conn.Publish(subject, data)
}

// Flush waits until the server has processed everything published so far.
func (n *NatsServer) Flush() error {
	conn := n.conn.Load()
	if conn == nil {
		return ErrNotStarted
	}
	return conn.Flush()
}
