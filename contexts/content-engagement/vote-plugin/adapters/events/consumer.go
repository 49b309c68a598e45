package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sharedevents "votekit/internal/shared/events"
)

// Subscriber is the consuming side of the platform bus.
type Subscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, sharedevents.Envelope) error,
	) error
}

// AuditConsumer writes one structured log line per vote event.
type AuditConsumer struct {
	Subscriber    Subscriber
	Topics        []string
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c AuditConsumer) Start(ctx context.Context) error {
	if c.Subscriber == nil {
		return nil
	}
	group := c.ConsumerGroup
	if group == "" {
		group = "vote-plugin-audit"
	}
	for _, topic := range c.Topics {
		if err := c.Subscriber.Subscribe(ctx, topic, group, c.Handle); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}
	return nil
}

func (c AuditConsumer) Handle(_ context.Context, event sharedevents.Envelope) error {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var payload struct {
		Schema     string `json:"schema"`
		DocumentID string `json:"document_id"`
		Path       string `json:"path"`
		Voter      string `json:"voter"`
		VoteCount  int    `json:"vote_count"`
	}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", event.EventType, err)
	}
	logger.Info("vote event received",
		"event", "vote_event_audited",
		"module", "content-engagement/vote-plugin",
		"layer", "adapter",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"schema", payload.Schema,
		"document_id", payload.DocumentID,
		"path", payload.Path,
		"voter", payload.Voter,
		"vote_count", payload.VoteCount,
	)
	return nil
}
