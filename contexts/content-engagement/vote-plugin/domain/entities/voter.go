package entities

import "strings"

type VoterKind string

const (
	// VoterKindToken entries are opaque strings compared by value.
	VoterKindToken VoterKind = "token"
	// VoterKindRef entries reference a document of another schema by id.
	VoterKindRef VoterKind = "ref"
)

// Voter is one recorded vote. For references ID is the canonical identifier of
// the referenced document and Ref names its schema.
type Voter struct {
	Kind VoterKind
	ID   string
	Ref  string
}

func TokenVoter(token string) Voter {
	return Voter{Kind: VoterKindToken, ID: token}
}

func RefVoter(ref string, id string) Voter {
	return Voter{Kind: VoterKindRef, ID: strings.ToLower(strings.TrimSpace(id)), Ref: strings.TrimSpace(ref)}
}

func (v Voter) IsRef() bool {
	return v.Kind == VoterKindRef
}

// Equal compares tokens by value and references by target identifier.
func (v Voter) Equal(other Voter) bool {
	return v.Kind == other.Kind && v.ID == other.ID
}

func (v Voter) String() string {
	if v.IsRef() && v.Ref != "" {
		return v.Ref + ":" + v.ID
	}
	return v.ID
}
