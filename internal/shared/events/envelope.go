package events

import (
	"encoding/json"
	"time"
)

// Envelope is the event shape carried on the platform bus.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	SourceService    string          `json:"source_service"`
	OccurredAtUTC    time.Time       `json:"occurred_at_utc"`
	CorrelationID    string          `json:"correlation_id"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	PayloadVersion   int             `json:"payload_version"`
	Payload          json.RawMessage `json:"payload"`
}
