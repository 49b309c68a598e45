package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"votekit/internal/platform/config"
)

func TestBuildWiresConfiguredPlugin(t *testing.T) {
	for _, backend := range []string{config.BackendMemory, config.BackendDatastore} {
		app, err := Build(config.Config{
			ServiceName:      "votekit",
			HTTPPort:         "0",
			StoreBackend:     backend,
			EventBuffer:      8,
			VotesSchema:      "Blog",
			VotesPath:        "likes",
			VoteMethodName:   "like",
			UnvoteMethodName: "unlike",
			VotesSelect:      true,
		})
		if err != nil {
			t.Fatalf("%s: build failed: %v", backend, err)
		}

		rec := httptest.NewRecorder()
		app.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/documents", strings.NewReader(`{"document_id":"doc-1"}`)))
		if rec.Code != http.StatusCreated {
			t.Fatalf("%s: expected 201, got %d: %s", backend, rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		app.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/documents/doc-1/votes", strings.NewReader(`{"voter":"alice"}`)))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", backend, rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		app.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/documents/doc-1/votes", nil))
		if !strings.Contains(rec.Body.String(), `"path":"likes"`) || !strings.Contains(rec.Body.String(), `"id":"alice"`) {
			t.Fatalf("%s: unexpected voters body %s", backend, rec.Body.String())
		}
		if err := app.Close(); err != nil {
			t.Fatalf("%s: close failed: %v", backend, err)
		}
	}
}

func TestPluginOptionsFromConfig(t *testing.T) {
	options := pluginOptions(config.Config{VotesRef: "User", VotesSelect: false})
	if options.Votes.Ref != "User" {
		t.Fatalf("expected ref to be carried, got %+v", options)
	}
	if selected, ok := options.Options["select"]; !ok || selected != false {
		t.Fatalf("expected select=false, got %v", options.Options)
	}
}

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9090": ":9090", ":7070": ":7070"}
	for in, want := range cases {
		if got := normalizeAddr(in); got != want {
			t.Fatalf("normalizeAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestVotesSelectConfigHidesVoters(t *testing.T) {
	app, err := Build(config.Config{
		ServiceName:  "votekit",
		StoreBackend: config.BackendMemory,
		VotesSchema:  "Blog",
		VotesSelect:  false,
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	handler := app.server.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/documents", strings.NewReader(`{"document_id":"doc-1"}`)))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/documents/doc-1/votes", strings.NewReader(`{"voter":"alice"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/documents/doc-1/votes", nil))
	if !strings.Contains(rec.Body.String(), `"hidden":true`) {
		t.Fatalf("expected VOTES_SELECT=false to hide voters, got %s", rec.Body.String())
	}
}
