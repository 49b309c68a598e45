package errors

import "errors"

var (
	ErrInvalidVoter      = errors.New("invalid voter")
	ErrInvalidVoteInput  = errors.New("invalid vote input")
	ErrIncompatibleVotes = errors.New("votes path holds an incompatible value")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrDocumentExists    = errors.New("document already exists")
)
