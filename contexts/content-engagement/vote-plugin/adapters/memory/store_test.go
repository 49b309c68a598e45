package memory

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"votekit/contexts/content-engagement/vote-plugin/domain/entities"
	domainerrors "votekit/contexts/content-engagement/vote-plugin/domain/errors"
	"votekit/contexts/content-engagement/vote-plugin/ports"
	"votekit/internal/platform/odm"
)

func newTestStore(seed map[string][]string) *Store {
	field := ports.VoteField{
		Path: "likes",
		NewVotes: func() *entities.Votes {
			return entities.NewVotes(entities.VoterKindToken, "")
		},
	}
	return NewStore(odm.NewSchema("Blog", nil), field, seed)
}

func TestSeedIsDeduplicated(t *testing.T) {
	store := newTestStore(map[string][]string{" doc-1 ": {"alice", "bob", "alice"}})

	doc, err := store.GetDocument(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("get document failed: %v", err)
	}
	votes := doc.Get("likes").(*entities.Votes)
	if !reflect.DeepEqual(votes.IDs(), []string{"alice", "bob"}) {
		t.Fatalf("expected [alice bob], got %v", votes.IDs())
	}
}

func TestUpdateOnlyStoresChanges(t *testing.T) {
	store := newTestStore(map[string][]string{"doc-1": {"alice"}})
	ctx := context.Background()

	err := store.UpdateDocument(ctx, "doc-1", func(doc ports.Document) (bool, error) {
		votes := doc.Get("likes").(*entities.Votes)
		votes.Add(votes.Voter("bob"))
		return false, nil
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	doc, _ := store.GetDocument(ctx, "doc-1")
	if got := doc.Get("likes").(*entities.Votes).IDs(); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Fatalf("expected unchanged votes, got %v", got)
	}

	err = store.UpdateDocument(ctx, "doc-1", func(doc ports.Document) (bool, error) {
		votes := doc.Get("likes").(*entities.Votes)
		return votes.Add(votes.Voter("bob")), nil
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	doc, _ = store.GetDocument(ctx, "doc-1")
	if got := doc.Get("likes").(*entities.Votes).IDs(); !reflect.DeepEqual(got, []string{"alice", "bob"}) {
		t.Fatalf("expected [alice bob], got %v", got)
	}
}

func TestMutationErrorIsReturned(t *testing.T) {
	store := newTestStore(map[string][]string{"doc-1": nil})
	boom := errors.New("boom")

	err := store.UpdateDocument(context.Background(), "doc-1", func(ports.Document) (bool, error) {
		return true, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected mutation error, got %v", err)
	}
}

func TestReplacedVotesPathIsRejected(t *testing.T) {
	store := newTestStore(map[string][]string{"doc-1": nil})

	err := store.UpdateDocument(context.Background(), "doc-1", func(doc ports.Document) (bool, error) {
		doc.Set("likes", "alice")
		return true, nil
	})
	if !errors.Is(err, domainerrors.ErrIncompatibleVotes) {
		t.Fatalf("expected incompatible votes, got %v", err)
	}
}

func TestCreateAndMissingDocuments(t *testing.T) {
	store := newTestStore(nil)
	ctx := context.Background()

	if _, err := store.CreateDocument(ctx, "doc-2"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := store.CreateDocument(ctx, "doc-2"); !errors.Is(err, domainerrors.ErrDocumentExists) {
		t.Fatalf("expected document exists, got %v", err)
	}
	if _, err := store.GetDocument(ctx, "doc-3"); !errors.Is(err, domainerrors.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.UpdateDocument(ctx, "doc-3", func(ports.Document) (bool, error) { return true, nil }); !errors.Is(err, domainerrors.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if ids := store.DocumentIDs(); !reflect.DeepEqual(ids, []string{"doc-2"}) {
		t.Fatalf("expected [doc-2], got %v", ids)
	}
}
