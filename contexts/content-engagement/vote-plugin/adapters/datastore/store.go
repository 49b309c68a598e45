package datastoreadapter

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"votekit/contexts/content-engagement/vote-plugin/domain/entities"
	domainerrors "votekit/contexts/content-engagement/vote-plugin/domain/errors"
	"votekit/contexts/content-engagement/vote-plugin/ports"
	"votekit/internal/platform/odm"

	"github.com/google/uuid"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	"github.com/ipfs/go-datastore/query"
	"github.com/ugorji/go/codec"
)

// record is the msgpack form of one document's votes.
type record struct {
	ID     string   `codec:"id"`
	Path   string   `codec:"path"`
	Kind   string   `codec:"kind"`
	Ref    string   `codec:"ref,omitempty"`
	Voters []string `codec:"voters"`
}

// Store keeps documents under /votekit/<schema>/<key> in any go-datastore
// backend, where key is the base32 form of the document id so ids holding
// '/' or dot segments stay one key segment. Read-modify-write cycles are
// serialised by the store.
type Store struct {
	mu     sync.Mutex
	ds     datastore.Datastore
	schema *odm.Schema
	field  ports.VoteField
}

func NewStore(ds datastore.Datastore, schema *odm.Schema, field ports.VoteField) *Store {
	prefix := datastore.NewKey("/votekit").ChildString(schema.Name())
	return &Store{
		ds:     namespace.Wrap(ds, prefix),
		schema: schema,
		field:  field,
	}
}

func (s *Store) CreateDocument(ctx context.Context, documentID string) (ports.Document, error) {
	documentID = strings.TrimSpace(documentID)
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.ds.Has(ctx, s.key(documentID))
	if err != nil {
		return nil, fmt.Errorf("checking document in datastore: %w", err)
	}
	if exists {
		return nil, domainerrors.ErrDocumentExists
	}
	doc, votes := s.build(documentID, nil)
	if err := s.put(ctx, documentID, votes); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) GetDocument(ctx context.Context, documentID string) (ports.Document, error) {
	documentID = strings.TrimSpace(documentID)
	rec, err := s.get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	doc, _ := s.build(documentID, rec.Voters)
	return doc, nil
}

func (s *Store) UpdateDocument(ctx context.Context, documentID string, mutate ports.MutateFunc) error {
	documentID = strings.TrimSpace(documentID)
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.get(ctx, documentID)
	if err != nil {
		return err
	}
	doc, _ := s.build(documentID, rec.Voters)
	changed, err := mutate(doc)
	if err != nil || !changed {
		return err
	}
	current, ok := doc.Get(s.field.Path).(*entities.Votes)
	if !ok {
		return fmt.Errorf("%w: %s is %T", domainerrors.ErrIncompatibleVotes, s.field.Path, doc.Get(s.field.Path))
	}
	return s.put(ctx, documentID, current)
}

// DocumentIDs lists the stored document ids.
func (s *Store) DocumentIDs(ctx context.Context) ([]string, error) {
	res, err := s.ds.Query(ctx, query.Query{KeysOnly: true, Orders: []query.Order{query.OrderByKey{}}})
	if err != nil {
		return nil, fmt.Errorf("querying datastore: %w", err)
	}
	entries, err := res.Rest()
	if err != nil {
		return nil, fmt.Errorf("reading datastore query: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		id, err := decodeKey(datastore.RawKey(entry.Key))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) get(ctx context.Context, documentID string) (record, error) {
	b, err := s.ds.Get(ctx, s.key(documentID))
	if errors.Is(err, datastore.ErrNotFound) {
		return record{}, domainerrors.ErrDocumentNotFound
	}
	if err != nil {
		return record{}, fmt.Errorf("accessing document in datastore: %w", err)
	}
	var rec record
	if err := codec.NewDecoderBytes(b, &codec.MsgpackHandle{}).Decode(&rec); err != nil {
		return record{}, fmt.Errorf("decoding document %s: %w", documentID, err)
	}
	return rec, nil
}

func (s *Store) put(ctx context.Context, documentID string, votes *entities.Votes) error {
	rec := record{
		ID:     documentID,
		Path:   s.field.Path,
		Kind:   string(votes.Kind()),
		Ref:    votes.Ref(),
		Voters: votes.IDs(),
	}
	var buf []byte
	if err := codec.NewEncoderBytes(&buf, &codec.MsgpackHandle{}).Encode(rec); err != nil {
		return fmt.Errorf("encoding document %s: %w", documentID, err)
	}
	if err := s.ds.Put(ctx, s.key(documentID), buf); err != nil {
		return fmt.Errorf("putting document in datastore: %w", err)
	}
	return nil
}

func (s *Store) build(documentID string, ids []string) (*odm.Document, *entities.Votes) {
	doc := s.schema.New(documentID)
	votes := s.field.NewVotes()
	votes.Reset(ids)
	doc.Set(s.field.Path, votes)
	return doc, votes
}

var keyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

func (*Store) key(documentID string) datastore.Key {
	return datastore.NewKey(keyEncoding.EncodeToString([]byte(documentID)))
}

func decodeKey(key datastore.Key) (string, error) {
	raw, err := keyEncoding.DecodeString(key.BaseNamespace())
	if err != nil {
		return "", fmt.Errorf("decoding datastore key %s: %w", key, err)
	}
	return string(raw), nil
}

var _ ports.DocumentRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
