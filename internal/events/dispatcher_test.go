package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type recordingPublisher struct {
	queue string
	body  []byte
	attrs map[string]string
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, queue string, data []byte, attrs map[string]string) (string, error) {
	p.queue = queue
	p.body = data
	p.attrs = attrs
	return "msg-1", p.err
}

func TestPublishRunsAllHandlersAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	calls := 0
	d.Subscribe(EventReportResolved, func(context.Context, Event) error {
		calls++
		return errors.New("first failed")
	})
	d.Subscribe(EventReportResolved, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventReportResolved})
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if calls != 2 {
		t.Fatalf("expected both handlers to run, got %d", calls)
	}
}

func TestForwardingDispatcherMirrorsEvent(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewForwardingDispatcher(NewInMemoryDispatcher(), pub, "moderation.events")

	delivered := false
	d.Subscribe(EventUserRestricted, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	event := Event{ID: "evt-1", Type: EventUserRestricted, SubjectID: "p1"}
	if err := d.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !delivered {
		t.Fatalf("expected local delivery")
	}
	if pub.queue != "moderation.events" || pub.attrs["event_type"] != string(EventUserRestricted) {
		t.Fatalf("unexpected forward %q %v", pub.queue, pub.attrs)
	}
	var decoded Event
	if err := json.Unmarshal(pub.body, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.SubjectID != "p1" {
		t.Fatalf("unexpected subject %q", decoded.SubjectID)
	}
}

func TestForwardingDispatcherWithoutPublisher(t *testing.T) {
	inner := NewInMemoryDispatcher()
	if NewForwardingDispatcher(inner, nil, "q") != inner {
		t.Fatalf("expected inner dispatcher when publisher is nil")
	}
}
