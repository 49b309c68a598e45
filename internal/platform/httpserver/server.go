package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	voteplugin "votekit/contexts/content-engagement/vote-plugin"
	votedomainerrors "votekit/contexts/content-engagement/vote-plugin/domain/errors"
	votehttp "votekit/contexts/content-engagement/vote-plugin/transport/http"
	"votekit/internal/platform/odm"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "votekit/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	http   *http.Server
	logger *slog.Logger
	addr   string
	votes  voteplugin.Module
}

func New(votes voteplugin.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		votes:  votes,
	}
	s.registerRoutes()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the routes without a listener.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return s.http.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("POST /v1/documents", s.handleCreateDocument)
	s.mux.HandleFunc("GET /v1/documents/{document_id}/votes", s.handleListVoters)
	s.mux.HandleFunc("POST /v1/documents/{document_id}/votes", s.handleCastVote)
	s.mux.HandleFunc("GET /v1/documents/{document_id}/votes/{voter}", s.handleHasVoted)
	s.mux.HandleFunc("DELETE /v1/documents/{document_id}/votes/{voter}", s.handleRetractVote)
}

// handleHealth godoc
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"schema": s.votes.Plugin.Schema(),
		"path":   s.votes.Plugin.Path(),
	})
}

// handleCreateDocument godoc
// @Summary Create a document with an empty votes set
// @Tags votes
// @Accept json
// @Produce json
// @Param request body votehttp.CreateDocumentRequest false "document id, generated when empty"
// @Success 201 {object} votehttp.CreateDocumentResponse
// @Failure 409 {object} votehttp.ErrorResponse
// @Router /v1/documents [post]
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req votehttp.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeVoteError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.votes.Handler.CreateDocumentHandler(r.Context(), req)
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleCastVote godoc
// @Summary Record a vote on a document
// @Tags votes
// @Accept json
// @Produce json
// @Param document_id path string true "document id"
// @Param request body votehttp.CastVoteRequest true "voter"
// @Success 200 {object} votehttp.VoteResponse
// @Failure 400 {object} votehttp.ErrorResponse
// @Failure 404 {object} votehttp.ErrorResponse
// @Router /v1/documents/{document_id}/votes [post]
func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req votehttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoteError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.votes.Handler.CastVoteHandler(r.Context(), r.PathValue("document_id"), req)
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRetractVote godoc
// @Summary Remove a vote from a document
// @Tags votes
// @Produce json
// @Param document_id path string true "document id"
// @Param voter path string true "voter"
// @Success 200 {object} votehttp.VoteResponse
// @Failure 404 {object} votehttp.ErrorResponse
// @Router /v1/documents/{document_id}/votes/{voter} [delete]
func (s *Server) handleRetractVote(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.RetractVoteHandler(r.Context(), r.PathValue("document_id"), r.PathValue("voter"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListVoters godoc
// @Summary List the voters of a document in vote order
// @Tags votes
// @Produce json
// @Param document_id path string true "document id"
// @Param select query string false "+<path> to include an unselected votes path, -<path> to leave it out"
// @Success 200 {object} votehttp.VotersResponse
// @Failure 404 {object} votehttp.ErrorResponse
// @Router /v1/documents/{document_id}/votes [get]
func (s *Server) handleListVoters(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.ListVotersHandler(r.Context(), r.PathValue("document_id"), r.URL.Query().Get("select"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleHasVoted godoc
// @Summary Check whether a voter is in the votes set
// @Tags votes
// @Produce json
// @Param document_id path string true "document id"
// @Param voter path string true "voter"
// @Success 200 {object} votehttp.HasVotedResponse
// @Failure 404 {object} votehttp.ErrorResponse
// @Router /v1/documents/{document_id}/votes/{voter} [get]
func (s *Server) handleHasVoted(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.HasVotedHandler(r.Context(), r.PathValue("document_id"), r.PathValue("voter"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVoteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votedomainerrors.ErrInvalidVoteInput):
		writeVoteError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, votedomainerrors.ErrInvalidVoter):
		writeVoteError(w, http.StatusUnprocessableEntity, "invalid_voter", err.Error())
	case errors.Is(err, votedomainerrors.ErrDocumentNotFound):
		writeVoteError(w, http.StatusNotFound, "document_not_found", err.Error())
	case errors.Is(err, votedomainerrors.ErrDocumentExists):
		writeVoteError(w, http.StatusConflict, "document_exists", err.Error())
	case errors.Is(err, votedomainerrors.ErrIncompatibleVotes),
		errors.Is(err, odm.ErrPathConflict):
		writeVoteError(w, http.StatusConflict, "incompatible_votes_path", err.Error())
	default:
		writeVoteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVoteError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
