package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	voteplugin "votekit/contexts/content-engagement/vote-plugin"
	"votekit/contexts/content-engagement/vote-plugin/domain/valueobjects"
	votehttp "votekit/contexts/content-engagement/vote-plugin/transport/http"
	"votekit/internal/platform/odm"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	module, err := voteplugin.NewInMemoryModule(
		odm.NewSchema("Blog", nil),
		valueobjects.Options{},
		map[string][]string{"doc-1": {"alice"}},
		nil,
	)
	if err != nil {
		t.Fatalf("new module failed: %v", err)
	}
	return New(module, nil, ":0")
}

func serve(s *Server, method string, target string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestVoteRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodPost, "/v1/documents/doc-1/votes", `{"voter":"bob"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var vote votehttp.VoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &vote); err != nil {
		t.Fatalf("decode vote response: %v", err)
	}
	if !vote.Changed || vote.VoteCount != 2 {
		t.Fatalf("unexpected vote response %+v", vote)
	}

	rec = serve(s, http.MethodDelete, "/v1/documents/doc-1/votes/alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(s, http.MethodGet, "/v1/documents/doc-1/votes", "")
	var voters votehttp.VotersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &voters); err != nil {
		t.Fatalf("decode voters response: %v", err)
	}
	if voters.VoteCount != 1 || voters.Voters[0].ID != "bob" {
		t.Fatalf("expected [bob], got %+v", voters)
	}

	rec = serve(s, http.MethodGet, "/v1/documents/doc-1/votes/bob", "")
	var voted votehttp.HasVotedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &voted); err != nil {
		t.Fatalf("decode has voted response: %v", err)
	}
	if !voted.Voted {
		t.Fatalf("expected bob to have voted")
	}
}

func TestCreateDocumentRoute(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodPost, "/v1/documents", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = serve(s, http.MethodPost, "/v1/documents", `{"document_id":"doc-1"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestVoteRouteErrors(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		method string
		target string
		body   string
		status int
		code   string
	}{
		{http.MethodPost, "/v1/documents/missing/votes", `{"voter":"bob"}`, http.StatusNotFound, "document_not_found"},
		{http.MethodPost, "/v1/documents/doc-1/votes", `{"voter":""}`, http.StatusBadRequest, "invalid_request"},
		{http.MethodPost, "/v1/documents/doc-1/votes", `{`, http.StatusBadRequest, "invalid_json"},
		{http.MethodGet, "/v1/documents/missing/votes", "", http.StatusNotFound, "document_not_found"},
	}
	for _, tc := range cases {
		rec := serve(s, tc.method, tc.target, tc.body)
		if rec.Code != tc.status {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.target, tc.status, rec.Code)
		}
		var resp votehttp.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode error response: %v", err)
		}
		if resp.Code != tc.code {
			t.Fatalf("%s %s: expected code %s, got %s", tc.method, tc.target, tc.code, resp.Code)
		}
	}
}

func TestListVotersHonoursSelect(t *testing.T) {
	module, err := voteplugin.NewInMemoryModule(
		odm.NewSchema("Blog", nil),
		valueobjects.Options{Options: valueobjects.FieldOptions{"select": false}},
		map[string][]string{"doc-1": {"alice"}},
		nil,
	)
	if err != nil {
		t.Fatalf("new module failed: %v", err)
	}
	s := New(module, nil, ":0")

	rec := serve(s, http.MethodGet, "/v1/documents/doc-1/votes", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"hidden":true`) || strings.Contains(rec.Body.String(), "alice") {
		t.Fatalf("expected hidden votes, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(s, http.MethodGet, "/v1/documents/doc-1/votes?select=%2Bvotes", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"id":"alice"`) {
		t.Fatalf("expected explicit select to include votes, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = serve(s, http.MethodGet, "/v1/documents/doc-1/votes?select=title", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown projection, got %d", rec.Code)
	}
}
