package queries

import (
	"context"
	"fmt"
	"strings"

	"votekit/contexts/content-engagement/vote-plugin/domain/entities"
	domainerrors "votekit/contexts/content-engagement/vote-plugin/domain/errors"
	"votekit/contexts/content-engagement/vote-plugin/ports"
)

// VotersView is the read model of one document's votes. Hidden is set when
// the path is excluded from the read and Voters is left empty.
type VotersView struct {
	DocumentID string
	Path       string
	Voters     []entities.Voter
	Hidden     bool
}

// ListVotersQuery reads one document. Select follows the projection syntax
// of the votes path: "+votes" or "votes" forces it in, "-votes" leaves it
// out, and empty keeps the path's select option.
type ListVotersQuery struct {
	DocumentID string
	Select     string
}

type VotersUseCase struct {
	Documents ports.DocumentRepository
	Votes     ports.VoteBehavior
}

func (uc VotersUseCase) ListVoters(ctx context.Context, query ListVotersQuery) (VotersView, error) {
	include, err := uc.projected(query.Select)
	if err != nil {
		return VotersView{}, err
	}
	doc, err := uc.load(ctx, query.DocumentID)
	if err != nil {
		return VotersView{}, err
	}
	if !include {
		return VotersView{
			DocumentID: doc.ID(),
			Path:       uc.Votes.Path(),
			Hidden:     true,
		}, nil
	}
	voters, err := uc.Votes.Voters(doc)
	if err != nil {
		return VotersView{}, err
	}
	return VotersView{
		DocumentID: doc.ID(),
		Path:       uc.Votes.Path(),
		Voters:     voters,
	}, nil
}

func (uc VotersUseCase) HasVoted(ctx context.Context, documentID string, voter string) (bool, error) {
	if strings.TrimSpace(voter) == "" {
		return false, domainerrors.ErrInvalidVoteInput
	}
	doc, err := uc.load(ctx, documentID)
	if err != nil {
		return false, err
	}
	return uc.Votes.HasVoted(doc, strings.TrimSpace(voter))
}

func (uc VotersUseCase) projected(selection string) (bool, error) {
	path := uc.Votes.Path()
	switch strings.TrimSpace(selection) {
	case "":
		return uc.Votes.Selected(), nil
	case path, "+" + path:
		return true, nil
	case "-" + path:
		return false, nil
	default:
		return false, fmt.Errorf("%w: select must name %s", domainerrors.ErrInvalidVoteInput, path)
	}
}

func (uc VotersUseCase) load(ctx context.Context, documentID string) (ports.Document, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, domainerrors.ErrInvalidVoteInput
	}
	return uc.Documents.GetDocument(ctx, documentID)
}
