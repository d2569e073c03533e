// Package server exposes the synthesis engine over HTTP. It serves a JSON
// API for one-shot analysis and history lookup, plus a WebSocket endpoint
// that streams pipeline stage events while an analysis runs.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/normanking/docsight/internal/config"
	"github.com/normanking/docsight/internal/engine"
	"github.com/normanking/docsight/internal/github"
	"github.com/normanking/docsight/internal/insight"
	"github.com/normanking/docsight/internal/store"
)

// Server wires the engine, the GitHub client, and the history store behind
// an HTTP handler.
type Server struct {
	cfg    *config.Config
	engine *engine.Engine
	github *github.Client
	store  *store.Store // nil disables history
}

// New creates a server. The store may be nil when history is disabled.
func New(cfg *config.Config, eng *engine.Engine, gh *github.Client, st *store.Store) *Server {
	return &Server{
		cfg:    cfg,
		engine: eng,
		github: gh,
		store:  st,
	}
}

// Handler returns the routed HTTP handler, with authentication applied when
// a token hash is configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/history/{id}", s.handleHistoryItem)
	mux.HandleFunc("GET /ws/analyze", s.handleAnalyzeStream)

	return s.requireAuth(mux)
}

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// requireAuth enforces a bearer token checked against the configured bcrypt
// hash. An empty hash disables the check entirely.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	hash := s.cfg.Server.AuthTokenHash
	if hash == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts a Bearer credential from the Authorization header.
// WebSocket clients cannot set headers from browsers, so the access_token
// query parameter is accepted as an alternative.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("access_token")
}

// AnalyzeRequest is the JSON body accepted by the analyze endpoints.
// Exactly one of Repo or Content must be set.
type AnalyzeRequest struct {
	// Repo is an "owner/name" GitHub reference
	Repo string `json:"repo,omitempty"`
	// Content is raw document text to analyze
	Content string `json:"content,omitempty"`
	// FileName labels the content for classification and reporting
	FileName string `json:"fileName,omitempty"`
	// Provider overrides the default backend provider
	Provider string `json:"provider,omitempty"`
}

// AnalyzeResponse carries the produced insight and its provenance.
type AnalyzeResponse struct {
	ID       string           `json:"id"`
	Source   string           `json:"source"`
	Provider string           `json:"provider"`
	Insight  *insight.Insight `json:"insight"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "docsight",
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := s.analyze(r.Context(), &req, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// analyze runs one synthesis. The optional notify callback receives stage
// names as the pipeline advances; the WebSocket path uses it.
func (s *Server) analyze(ctx context.Context, req *AnalyzeRequest, notify func(stage string)) (*AnalyzeResponse, error) {
	if notify == nil {
		notify = func(string) {}
	}

	var (
		in     insight.Request
		source string
	)

	switch {
	case req.Repo != "":
		notify("fetching")
		meta, readme, err := s.github.Fetch(ctx, req.Repo)
		if err != nil {
			return nil, fmt.Errorf("fetch repository %s: %w", req.Repo, err)
		}
		in = insight.Request{Content: readme, Repo: meta}
		source = req.Repo
	case req.Content != "":
		in = insight.Request{
			Content: req.Content,
			Document: &insight.DocumentInfo{
				FileName: req.FileName,
				FileSize: int64(len(req.Content)),
			},
		}
		source = req.FileName
		if source == "" {
			source = "inline"
		}
	default:
		return nil, errors.New("request needs either repo or content")
	}

	in.Classification = insight.Classify(in.Content, in.Repo)
	notify("classified:" + string(in.Classification))

	notify("synthesizing")
	result, provider := s.engine.Synthesize(ctx, &in, s.cfg.BackendConfig(req.Provider))
	if provider == engine.SourceHeuristic {
		notify("fallback")
	}

	resp := &AnalyzeResponse{
		ID:       uuid.NewString(),
		Source:   source,
		Provider: provider,
		Insight:  result,
	}

	if s.store != nil && s.cfg.Analysis.SaveHistory {
		rec := &store.Record{
			ID:             resp.ID,
			CreatedAt:      time.Now(),
			Source:         source,
			Classification: in.Classification,
			Provider:       provider,
			Insight:        result,
		}
		if err := s.store.Save(ctx, rec); err != nil {
			log.Warn().Err(err).Str("id", resp.ID).Msg("failed to save analysis history")
		}
	}

	return resp, nil
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	limit := 20
	if n := r.URL.Query().Get("limit"); n != "" {
		fmt.Sscanf(n, "%d", &limit)
	}

	records, err := s.store.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "history query failed")
		return
	}
	if records == nil {
		records = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleHistoryItem(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	rec, err := s.store.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "history query failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
