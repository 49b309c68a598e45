package httpadapter

import (
	"context"
	"log/slog"

	"votekit/contexts/content-engagement/vote-plugin/application/commands"
	"votekit/contexts/content-engagement/vote-plugin/application/queries"
	httptransport "votekit/contexts/content-engagement/vote-plugin/transport/http"
)

type Handler struct {
	Votes  commands.VoteUseCase
	Voters queries.VotersUseCase
	Logger *slog.Logger
}

func (h Handler) CreateDocumentHandler(
	ctx context.Context,
	req httptransport.CreateDocumentRequest,
) (httptransport.CreateDocumentResponse, error) {
	documentID, err := h.Votes.CreateDocument(ctx, commands.CreateDocumentCommand{
		DocumentID: req.DocumentID,
	})
	if err != nil {
		return httptransport.CreateDocumentResponse{}, err
	}
	return httptransport.CreateDocumentResponse{DocumentID: documentID}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	documentID string,
	req httptransport.CastVoteRequest,
) (httptransport.VoteResponse, error) {
	result, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		DocumentID: documentID,
		Voter:      req.Voter,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return mapVoteResult(result), nil
}

func (h Handler) RetractVoteHandler(ctx context.Context, documentID string, voter string) (httptransport.VoteResponse, error) {
	result, err := h.Votes.RetractVote(ctx, commands.RetractVoteCommand{
		DocumentID: documentID,
		Voter:      voter,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return mapVoteResult(result), nil
}

func (h Handler) ListVotersHandler(
	ctx context.Context,
	documentID string,
	selection string,
) (httptransport.VotersResponse, error) {
	view, err := h.Voters.ListVoters(ctx, queries.ListVotersQuery{
		DocumentID: documentID,
		Select:     selection,
	})
	if err != nil {
		return httptransport.VotersResponse{}, err
	}
	if view.Hidden {
		return httptransport.VotersResponse{
			DocumentID: view.DocumentID,
			Path:       view.Path,
			Hidden:     true,
		}, nil
	}
	items := make([]httptransport.VoterItem, 0, len(view.Voters))
	for _, voter := range view.Voters {
		items = append(items, httptransport.VoterItem{ID: voter.ID, Ref: voter.Ref})
	}
	return httptransport.VotersResponse{
		DocumentID: view.DocumentID,
		Path:       view.Path,
		Voters:     items,
		VoteCount:  len(items),
	}, nil
}

func (h Handler) HasVotedHandler(ctx context.Context, documentID string, voter string) (httptransport.HasVotedResponse, error) {
	voted, err := h.Voters.HasVoted(ctx, documentID, voter)
	if err != nil {
		return httptransport.HasVotedResponse{}, err
	}
	return httptransport.HasVotedResponse{
		DocumentID: documentID,
		Voter:      voter,
		Voted:      voted,
	}, nil
}

func mapVoteResult(result commands.VoteResult) httptransport.VoteResponse {
	return httptransport.VoteResponse{
		DocumentID: result.DocumentID,
		Voter:      result.Voter,
		Changed:    result.Changed,
		VoteCount:  result.Count,
	}
}
