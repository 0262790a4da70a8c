package command

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-service"

	"github.com/pburglin/adventure2/internal/driver"
	"github.com/pburglin/adventure2/internal/game"
	"github.com/pburglin/adventure2/internal/tui"
)

// LocalConfig configures the single-player terminal client.
type LocalConfig struct {
	TickInterval string        `json:"tick_interval"`
	Storage      StorageConfig `json:"storage"`
	Game         GameConfig    `json:"game"`
	LogFile      string        `json:"log_file"`
	Log          LogConfig     `json:"log"`
}

func (c *LocalConfig) Validate() error {
	el := errors.NewErrorList()

	el.Add(validateTickInterval(c.TickInterval))

	el.Add(c.Storage.validate())
	el.Add(c.Game.validate())
	el.Add(c.Log.validate())

	return el.Err()
}

// BuildLocalWorkers wires one engine to the terminal UI and a driver.
func BuildLocalWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*LocalConfig)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// The terminal belongs to the UI, so logs go to a file or nowhere.
	logOut := os.DevNull
	if cfg.LogFile != "" {
		logOut = cfg.LogFile
	}
	f, err := os.OpenFile(logOut, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	slog.SetDefault(cfg.Log.newLogger(f))

	world, err := cfg.Storage.buildWorld(cfg.Game.startRoom())
	if err != nil {
		return nil, fmt.Errorf("loading world: %w", err)
	}
	policy, err := cfg.Game.policy()
	if err != nil {
		return nil, fmt.Errorf("building game policy: %w", err)
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	engine := game.NewEngine(world, policy, rand.New(rand.NewPCG(seed, 0)))
	slog.Info("starting local game", "seed", seed, "start", world.StartRoom())

	ui := tui.New(engine, interrupt)
	d := driver.NewDriver([]driver.Manager{ui}, driver.WithTickLength(cfg.tickInterval()))

	return service.WorkerList{
		"driver": d,
		"ui":     ui,
	}, nil
}

func (c *LocalConfig) tickInterval() time.Duration {
	return parseTickInterval(c.TickInterval)
}

// interrupt asks the application to shut down the same way Ctrl-C would.
func interrupt() {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		slog.Error("finding own process", "error", err)
		return
	}
	if err := p.Signal(os.Interrupt); err != nil {
		slog.Error("signalling shutdown", "error", err)
	}
}
