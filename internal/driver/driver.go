package driver

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	// DefaultTickLength is roughly one frame at 60Hz.
	DefaultTickLength = 16 * time.Millisecond
)

// Manager is anything that advances its own state once per tick.
type Manager interface {
	Tick(context.Context) error
}

// Driver calls each manager once per tick, in order, until its context ends.
type Driver struct {
	tickLength time.Duration
	managers   []Manager
	ticks      atomic.Uint64
	overruns   atomic.Uint64
}

func NewDriver(managers []Manager, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	slog.InfoContext(ctx, "starting driver", "tick", d.tickLength, "managers", len(d.managers))

	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "driver stopped", "ticks", d.ticks.Load(), "overruns", d.overruns.Load())
			return nil
		case <-ticker.C:
			began := time.Now()
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
			// The ticker drops ticks it cannot deliver, so a slow tick
			// slows the simulation rather than queueing catch-up work.
			if took := time.Since(began); took > d.tickLength {
				n := d.overruns.Add(1)
				slog.WarnContext(ctx, "tick overran", "took", took, "tick", d.tickLength, "overruns", n)
			}
		}
	}
}

// Tick advances every manager once. The first failure stops the tick.
func (d *Driver) Tick(ctx context.Context) error {
	d.ticks.Add(1)
	for i, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return fmt.Errorf("ticking manager %d: %w", i, err)
		}
	}
	return nil
}

// Ticks reports how many ticks have run.
func (d *Driver) Ticks() uint64 {
	return d.ticks.Load()
}

// Overruns reports how many ticks took longer than the tick length.
func (d *Driver) Overruns() uint64 {
	return d.overruns.Load()
}
