package messaging

import (
	"context"
	"testing"
	"time"

	"votekit/internal/shared/events"
)

func TestSubscriberReceivesPublishedEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewBus(4, nil)
	received := make(chan events.Envelope, 1)
	if err := bus.Subscribe(ctx, "document.voted", "test-cg", func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "document.voted", events.Envelope{EventID: "evt-1", EventType: "document.voted"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case event := <-received:
		if event.EventID != "evt-1" {
			t.Fatalf("expected evt-1, got %s", event.EventID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
}

func TestPublishWithoutSubscribersSucceeds(t *testing.T) {
	bus := NewBus(0, nil)
	if err := bus.Publish(context.Background(), "document.unvoted", events.Envelope{EventID: "evt-2"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
}
