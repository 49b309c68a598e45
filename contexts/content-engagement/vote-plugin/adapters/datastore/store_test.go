package datastoreadapter

import (
	"context"
	"testing"

	"votekit/contexts/content-engagement/vote-plugin/domain/entities"
	domainerrors "votekit/contexts/content-engagement/vote-plugin/domain/errors"
	"votekit/contexts/content-engagement/vote-plugin/ports"
	"votekit/internal/platform/odm"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, datastore.Datastore) {
	t.Helper()
	ds := dssync.MutexWrap(datastore.NewMapDatastore())
	field := ports.VoteField{
		Path: "votes",
		NewVotes: func() *entities.Votes {
			return entities.NewVotes(entities.VoterKindRef, "User")
		},
	}
	return NewStore(ds, odm.NewSchema("Blog", nil), field), ds
}

func addVoter(id string) ports.MutateFunc {
	return func(doc ports.Document) (bool, error) {
		votes := doc.Get("votes").(*entities.Votes)
		return votes.Add(votes.Voter(id)), nil
	}
}

func TestCreateUpdateAndReload(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	doc, err := store.CreateDocument(ctx, "doc-1")
	require.NoError(t, err)
	require.Equal(t, "doc-1", doc.ID())

	_, err = store.CreateDocument(ctx, "doc-1")
	require.ErrorIs(t, err, domainerrors.ErrDocumentExists)

	require.NoError(t, store.UpdateDocument(ctx, "doc-1", addVoter("6f9619ff-8b86-d011-b42d-00c04fc964ff")))
	require.NoError(t, store.UpdateDocument(ctx, "doc-1", addVoter("6F9619FF-8B86-D011-B42D-00C04FC964FF")))
	require.NoError(t, store.UpdateDocument(ctx, "doc-1", addVoter("0b7e2a4e-9c3f-4a55-9a57-2c8f3f1e6d10")))

	loaded, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	votes := loaded.Get("votes").(*entities.Votes)
	require.Equal(t, []string{
		"6f9619ff-8b86-d011-b42d-00c04fc964ff",
		"0b7e2a4e-9c3f-4a55-9a57-2c8f3f1e6d10",
	}, votes.IDs())
	require.Equal(t, "User", votes.At(0).Ref)
}

func TestUnchangedMutationIsNotWritten(t *testing.T) {
	ctx := context.Background()
	store, ds := newTestStore(t)

	_, err := store.CreateDocument(ctx, "doc-1")
	require.NoError(t, err)
	key := datastore.NewKey("/votekit/Blog").Child(store.key("doc-1"))
	before, err := ds.Get(ctx, key)
	require.NoError(t, err)

	require.NoError(t, store.UpdateDocument(ctx, "doc-1", func(ports.Document) (bool, error) {
		return false, nil
	}))
	after, err := ds.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestMissingDocument(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.GetDocument(ctx, "missing")
	require.ErrorIs(t, err, domainerrors.ErrDocumentNotFound)
	err = store.UpdateDocument(ctx, "missing", addVoter("6f9619ff-8b86-d011-b42d-00c04fc964ff"))
	require.ErrorIs(t, err, domainerrors.ErrDocumentNotFound)
}

func TestDocumentIDs(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	for _, id := range []string{"b", "a", "c"} {
		_, err := store.CreateDocument(ctx, id)
		require.NoError(t, err)
	}
	ids, err := store.DocumentIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestDocumentIDsWithSlashesAndDotsStayDistinct(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	ids := []string{"a//b", "a/b", "team/doc-1", ".", "..", "/lead"}
	for _, id := range ids {
		_, err := store.CreateDocument(ctx, id)
		require.NoError(t, err, "create %q", id)
	}

	require.NoError(t, store.UpdateDocument(ctx, "a/b", addVoter("6f9619ff-8b86-d011-b42d-00c04fc964ff")))
	other, err := store.GetDocument(ctx, "a//b")
	require.NoError(t, err)
	require.Zero(t, other.Get("votes").(*entities.Votes).Len())

	listed, err := store.DocumentIDs(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, ids, listed)

	_, err = store.CreateDocument(ctx, "team/doc-1")
	require.ErrorIs(t, err, domainerrors.ErrDocumentExists)
}
