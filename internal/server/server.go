// Package server exposes the agent over HTTP: POST /ask and GET /health.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/neersetu/neersetu/internal/model"
)

// maxRequestBodySize caps /ask payloads at 1 MB.
const maxRequestBodySize = 1 << 20

// Asker answers one query; the agent satisfies this.
type Asker interface {
	Ask(ctx context.Context, query string) string
}

// AskRequest is the /ask request body.
type AskRequest struct {
	Query string `json:"query"`
}

// AskResponse is the /ask response body.
type AskResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves the QA API. Requests are independent: net/http runs each in
// its own goroutine and the agent holds no per-request state.
type Server struct {
	agent   Asker
	limiter *rate.Limiter
	config  model.ServerConfig
}

// New creates a server around agent.
func New(agent Asker, config model.ServerConfig) *Server {
	if config.RatePerSecond <= 0 {
		config.RatePerSecond = 10
	}
	if config.Burst <= 0 {
		config.Burst = 20
	}
	return &Server{
		agent:   agent,
		limiter: rate.NewLimiter(rate.Limit(config.RatePerSecond), config.Burst),
		config:  config,
	}
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ask", s.handleAsk)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
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

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	if !s.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
		return
	}

	var req AskRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query must not be empty"})
		return
	}

	answer := s.agent.Ask(r.Context(), req.Query)
	writeJSON(w, http.StatusOK, AskResponse{Answer: answer})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
