package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pburglin/adventure2/internal/game"
)

// Bus is the part of the NATS server the publisher needs.
type Bus interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// SessionSubject is the subject a session's events are published on.
func SessionSubject(sessionId string) string {
	return fmt.Sprintf("session.%s.events", sessionId)
}

// EventPublisher sends game events to per-session NATS subjects.
type EventPublisher struct {
	bus Bus
}

// NewEventPublisher wraps a bus for per-session event delivery.
func NewEventPublisher(bus Bus) *EventPublisher {
	return &EventPublisher{bus: bus}
}

// Notify publishes each event as its own JSON message, in order.
func (p *EventPublisher) Notify(_ context.Context, sessionId string, events []game.Event) error {
	subject := SessionSubject(sessionId)
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encoding %s event: %w", ev.Kind, err)
		}
		if err := p.bus.Publish(subject, data); err != nil {
			return fmt.Errorf("publishing to %s: %w", subject, err)
		}
	}
	return nil
}

// Subscribe delivers a session's events to handler until the returned
// function is called. Messages that fail to decode are reported through
// onError and skipped.
func (p *EventPublisher) Subscribe(sessionId string, handler func(game.Event), onError func(error)) (func(), error) {
	return p.bus.Subscribe(SessionSubject(sessionId), func(data []byte) {
		var ev game.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			if onError != nil {
				onError(fmt.Errorf("decoding event: %w", err))
			}
			return
		}
		handler(ev)
	})
}
