package command

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pixil98/go-errors"

	"github.com/pburglin/adventure2/internal/runlog"
)

// RunLogConfig picks where finished runs are kept. Leaving both fields empty
// disables the run log.
type RunLogConfig struct {
	Path     string `json:"path"`
	RedisURL string `json:"redis_url"`
}

func (c *RunLogConfig) validate() error {
	el := errors.NewErrorList()

	if c.Path != "" && c.RedisURL != "" {
		el.Add(fmt.Errorf("runlog: set path or redis_url, not both"))
	}
	if c.RedisURL != "" {
		u, err := url.Parse(c.RedisURL)
		if err != nil {
			el.Add(fmt.Errorf("runlog: parsing redis_url: %w", err))
		} else if u.Scheme != "redis" && u.Scheme != "rediss" {
			el.Add(fmt.Errorf("runlog: redis_url scheme must be redis or rediss"))
		}
	}

	return el.Err()
}

func (c *RunLogConfig) buildStore(ctx context.Context) (runlog.Store, error) {
	switch {
	case c.RedisURL != "":
		return runlog.NewRedisStore(ctx, c.RedisURL)
	case c.Path != "":
		return runlog.NewFileStore(c.Path)
	default:
		return nil, nil
	}
}
