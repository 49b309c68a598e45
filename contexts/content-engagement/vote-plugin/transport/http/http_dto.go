package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateDocumentRequest struct {
	DocumentID string `json:"document_id,omitempty"`
}

type CreateDocumentResponse struct {
	DocumentID string `json:"document_id"`
}

type CastVoteRequest struct {
	Voter string `json:"voter"`
}

type VoteResponse struct {
	DocumentID string `json:"document_id"`
	Voter      string `json:"voter"`
	Changed    bool   `json:"changed"`
	VoteCount  int    `json:"vote_count"`
}

type VoterItem struct {
	ID  string `json:"id"`
	Ref string `json:"ref,omitempty"`
}

type VotersResponse struct {
	DocumentID string      `json:"document_id"`
	Path       string      `json:"path"`
	Voters     []VoterItem `json:"voters,omitempty"`
	VoteCount  int         `json:"vote_count"`
	Hidden     bool        `json:"hidden,omitempty"`
}

type HasVotedResponse struct {
	DocumentID string `json:"document_id"`
	Voter      string `json:"voter"`
	Voted      bool   `json:"voted"`
}
