package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Publisher sends raw payloads to an external broker queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, data []byte, attrs map[string]string) (string, error)
}

// forwardingDispatcher delivers locally first and then mirrors the event to a broker.
type forwardingDispatcher struct {
	Dispatcher
	publisher Publisher
	queue     string
}

// NewForwardingDispatcher wraps inner so every published event is also sent to queue.
// A nil publisher returns inner unchanged.
func NewForwardingDispatcher(inner Dispatcher, publisher Publisher, queue string) Dispatcher {
	if publisher == nil {
		return inner
	}
	return &forwardingDispatcher{Dispatcher: inner, publisher: publisher, queue: queue}
}

func (d *forwardingDispatcher) Publish(ctx context.Context, event Event) error {
	localErr := d.Dispatcher.Publish(ctx, event)

	body, err := json.Marshal(event)
	if err != nil {
		return errors.Join(localErr, fmt.Errorf("encode event: %w", err))
	}
	attrs := map[string]string{
		"event_type": string(event.Type),
		"event_id":   event.ID,
	}
	if _, err := d.publisher.Publish(ctx, d.queue, body, attrs); err != nil {
		return errors.Join(localErr, fmt.Errorf("forward event: %w", err))
	}
	return localErr
}
