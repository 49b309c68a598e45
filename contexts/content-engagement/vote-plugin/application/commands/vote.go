package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "votekit/contexts/content-engagement/vote-plugin/application"
	domainerrors "votekit/contexts/content-engagement/vote-plugin/domain/errors"
	"votekit/contexts/content-engagement/vote-plugin/ports"
)

// CastVoteCommand records Voter on a stored document.
type CastVoteCommand struct {
	DocumentID string
	Voter      string
}

// RetractVoteCommand removes Voter from a stored document.
type RetractVoteCommand struct {
	DocumentID string
	Voter      string
}

type CreateDocumentCommand struct {
	DocumentID string
}

// VoteResult reports whether the set changed and its size afterwards.
type VoteResult struct {
	DocumentID string
	Voter      string
	Changed    bool
	Count      int
}

// VoteUseCase applies the plugin behaviors to persisted documents. Events are
// only emitted when the votes set actually changed.
type VoteUseCase struct {
	Documents ports.DocumentRepository
	Votes     ports.VoteBehavior
	Events    ports.EventPublisher
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Schema    string
	Logger    *slog.Logger
}

func (uc VoteUseCase) CreateDocument(ctx context.Context, cmd CreateDocumentCommand) (string, error) {
	logger := application.ResolveLogger(uc.Logger)
	documentID := strings.TrimSpace(cmd.DocumentID)
	if documentID == "" {
		if uc.IDGen == nil {
			return "", domainerrors.ErrInvalidVoteInput
		}
		id, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return "", err
		}
		documentID = id
	}
	doc, err := uc.Documents.CreateDocument(ctx, documentID)
	if err != nil {
		logger.Warn("document create failed",
			"event", "vote_document_create_failed",
			"module", "content-engagement/vote-plugin",
			"layer", "application",
			"schema", uc.Schema,
			"document_id", documentID,
			"error", err.Error(),
		)
		return "", err
	}
	logger.Info("document created",
		"event", "vote_document_created",
		"module", "content-engagement/vote-plugin",
		"layer", "application",
		"schema", uc.Schema,
		"document_id", doc.ID(),
	)
	return doc.ID(), nil
}

func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (VoteResult, error) {
	return uc.apply(ctx, cmd.DocumentID, cmd.Voter, EventTypeDocumentVoted, uc.Votes.Vote)
}

func (uc VoteUseCase) RetractVote(ctx context.Context, cmd RetractVoteCommand) (VoteResult, error) {
	return uc.apply(ctx, cmd.DocumentID, cmd.Voter, EventTypeDocumentUnvoted, uc.Votes.Unvote)
}

func (uc VoteUseCase) apply(
	ctx context.Context,
	documentID string,
	voter string,
	eventType string,
	mutate func(ports.Document, any) (bool, error),
) (VoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	documentID = strings.TrimSpace(documentID)
	voter = strings.TrimSpace(voter)
	if documentID == "" || voter == "" {
		logger.Warn("vote command validation failed",
			"event", "vote_command_validation_failed",
			"module", "content-engagement/vote-plugin",
			"layer", "application",
			"event_type", eventType,
			"document_id", documentID,
		)
		return VoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	canonical, err := uc.Votes.Cast(voter)
	if err != nil {
		logger.Warn("vote command voter rejected",
			"event", "vote_command_voter_rejected",
			"module", "content-engagement/vote-plugin",
			"layer", "application",
			"event_type", eventType,
			"document_id", documentID,
			"error", err.Error(),
		)
		return VoteResult{}, err
	}

	result := VoteResult{DocumentID: documentID, Voter: canonical.ID}
	err = uc.Documents.UpdateDocument(ctx, documentID, func(doc ports.Document) (bool, error) {
		changed, err := mutate(doc, canonical)
		if err != nil {
			return false, err
		}
		count, err := uc.Votes.Count(doc)
		if err != nil {
			return false, err
		}
		result.Changed = changed
		result.Count = count
		return changed, nil
	})
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, domainerrors.ErrDocumentNotFound) {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "vote command failed",
			"event", "vote_command_failed",
			"module", "content-engagement/vote-plugin",
			"layer", "application",
			"event_type", eventType,
			"document_id", documentID,
			"error", err.Error(),
		)
		return VoteResult{}, err
	}

	logger.Info("vote command applied",
		"event", "vote_command_applied",
		"module", "content-engagement/vote-plugin",
		"layer", "application",
		"event_type", eventType,
		"document_id", documentID,
		"changed", result.Changed,
		"vote_count", result.Count,
	)
	if result.Changed {
		uc.publish(ctx, logger, eventType, result)
	}
	return result, nil
}

// publish is best effort: the vote is already stored when it runs.
func (uc VoteUseCase) publish(ctx context.Context, logger *slog.Logger, eventType string, result VoteResult) {
	if uc.Events == nil || uc.IDGen == nil {
		return
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		logger.Error("vote event id generation failed",
			"event", "vote_event_id_failed",
			"module", "content-engagement/vote-plugin",
			"layer", "application",
			"document_id", result.DocumentID,
			"error", err.Error(),
		)
		return
	}
	envelope, err := newVoteEnvelope(eventID, eventType, result.DocumentID, uc.now(), map[string]any{
		"schema":      uc.Schema,
		"document_id": result.DocumentID,
		"path":        uc.Votes.Path(),
		"voter":       result.Voter,
		"vote_count":  result.Count,
	})
	if err == nil {
		err = uc.Events.Publish(ctx, eventType, envelope)
	}
	if err != nil {
		logger.Error("vote event publish failed",
			"event", "vote_event_publish_failed",
			"module", "content-engagement/vote-plugin",
			"layer", "application",
			"event_type", eventType,
			"event_id", eventID,
			"document_id", result.DocumentID,
			"error", err.Error(),
		)
	}
}

func (uc VoteUseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}
