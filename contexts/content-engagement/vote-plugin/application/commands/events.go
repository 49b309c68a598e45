package commands

import (
	"encoding/json"
	"time"

	"votekit/contexts/content-engagement/vote-plugin/ports"
)

const (
	EventTypeDocumentVoted   = "document.voted"
	EventTypeDocumentUnvoted = "document.unvoted"
)

func newVoteEnvelope(
	eventID string,
	eventType string,
	documentID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Partitioned by document so consumers see one document's votes in order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "vote-plugin",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "document_id",
		PartitionKey:     documentID,
		Data:             payload,
	}, nil
}
