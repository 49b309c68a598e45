package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"votekit/contexts/content-engagement/vote-plugin/ports"
	sharedevents "votekit/internal/shared/events"
)

// Bus is the platform bus the publisher forwards to.
type Bus interface {
	Publish(ctx context.Context, topic string, event sharedevents.Envelope) error
}

// Publisher maps vote events onto the shared envelope.
type Publisher struct {
	bus    Bus
	logger *slog.Logger
}

func NewPublisher(bus Bus, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{bus: bus, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	envelope := sharedevents.Envelope{
		EventID:          event.EventID,
		EventType:        event.EventType,
		SourceService:    event.SourceService,
		OccurredAtUTC:    event.OccurredAt.UTC(),
		CorrelationID:    event.TraceID,
		PartitionKeyPath: event.PartitionKeyPath,
		PartitionKey:     event.PartitionKey,
		PayloadVersion:   event.SchemaVersion,
		Payload:          json.RawMessage(event.Data),
	}
	if err := p.bus.Publish(ctx, topic, envelope); err != nil {
		return err
	}
	p.logger.Info("vote event published",
		"event", "vote_event_published",
		"module", "content-engagement/vote-plugin",
		"layer", "adapter",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
	)
	return nil
}

var _ ports.EventPublisher = (*Publisher)(nil)
