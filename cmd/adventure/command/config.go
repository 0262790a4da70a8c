package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

const (
	minTickInterval = time.Millisecond
	maxTickInterval = time.Second
)

type Config struct {
	TickInterval string           `json:"tick_interval"`
	Listeners    []ListenerConfig `json:"listeners"`
	MaxPlayers   int              `json:"max_players"`
	Storage      StorageConfig    `json:"storage"`
	Nats         NatsConfig       `json:"nats"`
	Game         GameConfig       `json:"game"`
	RunLog       RunLogConfig     `json:"runlog"`
	Log          LogConfig        `json:"log"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(validateTickInterval(c.TickInterval))

	if c.MaxPlayers < 0 {
		el.Add(fmt.Errorf("max_players must not be negative"))
	}
	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		if err := l.validate(); err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Game.validate())
	el.Add(c.RunLog.validate())
	el.Add(c.Log.validate())

	return el.Err()
}

// tickInterval returns the configured interval, or zero for the driver
// default.
func (c *Config) tickInterval() time.Duration {
	return parseTickInterval(c.TickInterval)
}

// validateTickInterval accepts an empty value, which selects the default.
func validateTickInterval(s string) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing tick_interval: %w", err)
	}
	if d < minTickInterval || d > maxTickInterval {
		return fmt.Errorf("tick_interval must be between %s and %s", minTickInterval, maxTickInterval)
	}
	return nil
}

func parseTickInterval(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
