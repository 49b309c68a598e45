package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AddToSet appends item when no equal element exists. Existing elements keep
// their order.
func AddToSet[T any](seq []T, item T, equal func(a, b T) bool) ([]T, bool) {
	for _, existing := range seq {
		if equal(existing, item) {
			return seq, false
		}
	}
	return append(seq, item), true
}

// Pull removes the first element equal to item. Survivors keep their order and
// the input slice is not modified.
func Pull[T any](seq []T, item T, equal func(a, b T) bool) ([]T, bool) {
	for i, existing := range seq {
		if !equal(existing, item) {
			continue
		}
		out := make([]T, 0, len(seq)-1)
		out = append(out, seq[:i]...)
		out = append(out, seq[i+1:]...)
		return out, true
	}
	return seq, false
}

// Votes is the ordered set of voters stored on a document. Every element shares
// the same kind; the zero value is an empty token set.
type Votes struct {
	kind  VoterKind
	ref   string
	items []Voter
}

func NewVotes(kind VoterKind, ref string) *Votes {
	if kind == "" {
		kind = VoterKindToken
	}
	if kind == VoterKindToken {
		ref = ""
	}
	return &Votes{kind: kind, ref: ref, items: []Voter{}}
}

func (v *Votes) Kind() VoterKind {
	if v.kind == "" {
		return VoterKindToken
	}
	return v.kind
}

func (v *Votes) Ref() string {
	return v.ref
}

// Voter builds an entry of this set's kind from an already canonical id.
func (v *Votes) Voter(id string) Voter {
	if v.Kind() == VoterKindRef {
		return RefVoter(v.ref, id)
	}
	return TokenVoter(id)
}

// Add records voter unless an equal entry is present.
func (v *Votes) Add(voter Voter) bool {
	var added bool
	v.items, added = AddToSet(v.items, voter, Voter.Equal)
	return added
}

// Remove drops the entry equal to voter; absence is not an error.
func (v *Votes) Remove(voter Voter) bool {
	var removed bool
	v.items, removed = Pull(v.items, voter, Voter.Equal)
	return removed
}

func (v *Votes) Contains(voter Voter) bool {
	for _, item := range v.items {
		if item.Equal(voter) {
			return true
		}
	}
	return false
}

func (v *Votes) Len() int {
	return len(v.items)
}

func (v *Votes) At(i int) Voter {
	return v.items[i]
}

// Items returns a copy of the entries in insertion order.
func (v *Votes) Items() []Voter {
	return append([]Voter(nil), v.items...)
}

// IDs returns the entry identifiers in insertion order.
func (v *Votes) IDs() []string {
	ids := make([]string, 0, len(v.items))
	for _, item := range v.items {
		ids = append(ids, item.ID)
	}
	return ids
}

// Reset replaces the entries with ids, dropping duplicates.
func (v *Votes) Reset(ids []string) {
	v.items = make([]Voter, 0, len(ids))
	for _, id := range ids {
		v.Add(v.Voter(id))
	}
}

func (v *Votes) Clone() *Votes {
	return &Votes{kind: v.kind, ref: v.ref, items: v.Items()}
}

// Value stores the set as a JSON array of identifiers.
func (v *Votes) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(v.IDs())
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan loads a JSON array of identifiers, keeping the receiver's kind.
func (v *Votes) Scan(src any) error {
	var raw []byte
	switch value := src.(type) {
	case nil:
		v.Reset(nil)
		return nil
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return fmt.Errorf("scan votes: unsupported source %T", src)
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("scan votes: %w", err)
	}
	v.Reset(ids)
	return nil
}

func (v *Votes) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.IDs())
}

func (v *Votes) UnmarshalJSON(data []byte) error {
	return v.Scan(data)
}
