package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-service"

	"github.com/pburglin/adventure2/internal/driver"
	"github.com/pburglin/adventure2/internal/listener"
	"github.com/pburglin/adventure2/internal/messaging"
	"github.com/pburglin/adventure2/internal/player"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	cfg.Log.setup()

	world, err := cfg.Storage.buildWorld(cfg.Game.startRoom())
	if err != nil {
		return nil, fmt.Errorf("loading world: %w", err)
	}
	slog.Info("world loaded", "rooms", len(world.RoomIds()), "items", len(world.ItemIds()), "start", world.StartRoom())

	policy, err := cfg.Game.policy()
	if err != nil {
		return nil, fmt.Errorf("building game policy: %w", err)
	}

	nats, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	opts := []player.SessionManagerOpt{player.WithSeed(cfg.Game.Seed)}
	runs, err := cfg.RunLog.buildStore(context.Background())
	if err != nil {
		return nil, fmt.Errorf("creating run log: %w", err)
	}
	if runs != nil {
		opts = append(opts, player.WithRunLog(runs))
	}

	sessions := player.NewSessionManager(world, policy, messaging.NewEventPublisher(nats), opts...)
	cm := listener.NewConnectionManager(sessions, listener.WithMaxConnections(cfg.MaxPlayers))

	// Listeners wait for nats so every session can subscribe to its events.
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.buildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = &afterReady{ready: nats.Ready(), w: w}
	}

	d := driver.NewDriver([]driver.Manager{sessions}, driver.WithTickLength(cfg.tickInterval()))

	return service.WorkerList{
		"nats":      nats,
		"sessions":  sessions,
		"driver":    d,
		"listeners": &listeners,
	}, nil
}

// afterReady delays a worker until ready is closed.
type afterReady struct {
	ready <-chan struct{}
	w     worker
}

func (a *afterReady) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-a.ready:
	}
	return a.w.Start(ctx)
}
