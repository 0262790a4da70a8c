package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pburglin/adventure2/internal/messaging"
)

// NatsConfig controls the embedded event bus. It always serves sessions in
// process; Listen also exposes it on host:port so tools such as the nats CLI
// can watch "session.*.events".
type NatsConfig struct {
	Listen       bool   `json:"listen"`
	Host         string `json:"host,omitempty"`
	Port         int    `json:"port,omitempty"`
	StartTimeout string `json:"start_timeout,omitempty"`
}

func (c *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if c.StartTimeout != "" {
		if _, err := time.ParseDuration(c.StartTimeout); err != nil {
			el.Add(fmt.Errorf("parsing start_timeout: %w", err))
		}
	}
	if !c.Listen && (c.Host != "" || c.Port != 0) {
		el.Add(fmt.Errorf("nats host and port require listen"))
	}
	if c.Port < -1 || c.Port > 65535 {
		el.Add(fmt.Errorf("nats port %d out of range", c.Port))
	}

	return el.Err()
}

func (c *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	var opts []messaging.NatsServerOpt

	if c.StartTimeout != "" {
		d, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if c.Listen {
		opts = append(opts, messaging.WithListen(c.Host, c.Port))
	}

	return messaging.NewNatsServer(opts...)
}
