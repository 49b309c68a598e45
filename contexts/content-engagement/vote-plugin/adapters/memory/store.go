package memory

import (
	"context"
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
)

// Store keeps the votes path of every document in process memory.
type Store struct {
	mu sync.RWMutex

	schema    *odm.Schema
	field     ports.VoteField
	documents map[string][]string
}

func NewStore(schema *odm.Schema, field ports.VoteField, seed map[string][]string) *Store {
	documents := make(map[string][]string, len(seed))
	for id, voters := range seed {
		votes := field.NewVotes()
		votes.Reset(voters)
		documents[strings.TrimSpace(id)] = votes.IDs()
	}
	return &Store{
		schema:    schema,
		field:     field,
		documents: documents,
	}
}

func (s *Store) CreateDocument(_ context.Context, documentID string) (ports.Document, error) {
	documentID = strings.TrimSpace(documentID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[documentID]; ok {
		return nil, domainerrors.ErrDocumentExists
	}
	doc := s.build(documentID, nil)
	s.documents[documentID] = []string{}
	return doc, nil
}

func (s *Store) GetDocument(_ context.Context, documentID string) (ports.Document, error) {
	documentID = strings.TrimSpace(documentID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids, ok := s.documents[documentID]
	if !ok {
		return nil, domainerrors.ErrDocumentNotFound
	}
	return s.build(documentID, ids), nil
}

func (s *Store) UpdateDocument(_ context.Context, documentID string, mutate ports.MutateFunc) error {
	documentID = strings.TrimSpace(documentID)
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, ok := s.documents[documentID]
	if !ok {
		return domainerrors.ErrDocumentNotFound
	}
	doc := s.build(documentID, ids)
	changed, err := mutate(doc)
	if err != nil || !changed {
		return err
	}
	votes, ok := doc.Get(s.field.Path).(*entities.Votes)
	if !ok {
		return fmt.Errorf("%w: %s is %T", domainerrors.ErrIncompatibleVotes, s.field.Path, doc.Get(s.field.Path))
	}
	s.documents[documentID] = votes.IDs()
	return nil
}

// DocumentIDs lists stored documents in sorted order.
func (s *Store) DocumentIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.documents))
	for id := range s.documents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) build(documentID string, ids []string) *odm.Document {
	doc := s.schema.New(documentID)
	votes := s.field.NewVotes()
	votes.Reset(ids)
	doc.Set(s.field.Path, votes)
	return doc
}

var _ ports.DocumentRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
