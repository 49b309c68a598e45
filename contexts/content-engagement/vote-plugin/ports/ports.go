package ports

import (
	"context"
	"time"

	"votekit/contexts/content-engagement/vote-plugin/domain/entities"
)

// Document is the slice of a mapped document the vote behaviors need.
type Document interface {
	ID() string
	Get(path string) any
	Set(path string, value any)
}

// VoteBehavior is the vote/unvote capability attached to a schema.
type VoteBehavior interface {
	Path() string
	// Selected reports whether the votes path is returned by default reads.
	Selected() bool
	Cast(raw any) (entities.Voter, error)
	Vote(doc Document, voter any) (bool, error)
	Unvote(doc Document, voter any) (bool, error)
	HasVoted(doc Document, voter any) (bool, error)
	Voters(doc Document) ([]entities.Voter, error)
	Count(doc Document) (int, error)
}

// VoteField tells storage adapters where the votes live and how to build an
// empty set of the configured entry kind.
type VoteField struct {
	Path     string
	NewVotes func() *entities.Votes
}

// MutateFunc changes a loaded document and reports whether it must be saved.
type MutateFunc func(doc Document) (bool, error)

type DocumentRepository interface {
	CreateDocument(ctx context.Context, documentID string) (Document, error)
	GetDocument(ctx context.Context, documentID string) (Document, error)
	// UpdateDocument loads, mutates and saves one document atomically.
	UpdateDocument(ctx context.Context, documentID string, mutate MutateFunc) error
}

type EventEnvelope struct {
	EventID          string
	EventType        string
	OccurredAt       time.Time
	SourceService    string
	TraceID          string
	PartitionKeyPath string
	PartitionKey     string
	SchemaVersion    int
	Data             []byte
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
