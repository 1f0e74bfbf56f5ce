// Package serve exposes the session archive over HTTP and WebSocket so a
// GUI frontend can consume the same data the CLI renders. It is a data
// surface only: every handler delegates to the session store, stats, and
// classification packages.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/classify"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/logging"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/session"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/stats"
)

const (
	defaultPageLimit = 100
	maxClassifyBody  = 16 << 20 // 16 MiB, matches the parser's line cap order
)

// envelope is the uniform JSON response shape.
type envelope struct {
	Success  bool     `json:"success"`
	Data     any      `json:"data,omitempty"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Server serves the archive rooted at ClaudeDir.
type Server struct {
	claudeDir string
	store     *session.Store
	tail      tailConfig
}

// NewServer builds a server over an existing session store.
func NewServer(claudeDir string, store *session.Store) *Server {
	return &Server{
		claudeDir: claudeDir,
		store:     store,
		tail:      defaultTailConfig(),
	}
}

// Handler returns the full route table wrapped in access logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects", s.handleProjects)
	mux.HandleFunc("GET /api/sessions", s.handleSessions)
	mux.HandleFunc("GET /api/messages", s.handleMessages)
	mux.HandleFunc("GET /api/stats/session", s.handleSessionStats)
	mux.HandleFunc("GET /api/stats/project", s.handleProjectStats)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/classify", s.handleClassify)
	mux.HandleFunc("GET /ws/tail", s.handleTail)
	return s.accessLog(mux)
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ctx = logging.WithComponent(ctx, "serve")
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info(ctx, "listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	}
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithComponent(r.Context(), "serve")
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		logging.Debug(ctx, "request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)))
	})
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ScanProjects(r.Context(), s.claudeDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeData(w, projects, nil)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")
	if project == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing project parameter"))
		return
	}
	sessions, err := s.store.ListSessions(r.Context(), project, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeData(w, sessions, nil)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	sessionPath := r.URL.Query().Get("session")
	if sessionPath == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing session parameter"))
		return
	}
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", defaultPageLimit)

	page, err := s.store.LoadMessagesPage(r.Context(), sessionPath, offset, limit, false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeData(w, page, nil)
}

func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	sessionPath := r.URL.Query().Get("session")
	if sessionPath == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing session parameter"))
		return
	}
	msgs, _, warnings, err := s.store.LoadMessages(r.Context(), sessionPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	sessionID := session.ActualSessionID(msgs, sessionPath)
	writeData(w, stats.ForSession(sessionID, r.URL.Query().Get("project"), msgs), warnings)
}

func (s *Server) handleProjectStats(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")
	if project == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing project parameter"))
		return
	}
	perSession, summary, err := stats.ForProject(r.Context(), s.store, project, r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeData(w, map[string]any{
		"sessions": perSession,
		"summary":  summary,
	}, nil)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing q parameter"))
		return
	}
	hits, err := s.store.Search(r.Context(), s.claudeDir, query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeData(w, hits, nil)
}

// handleClassify classifies an arbitrary payload so a frontend renders
// tool results identically to the CLI.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var payload any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClassifyBody))
	if err := dec.Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to decode payload: %w", err))
		return
	}
	writeData(w, classify.Classify(payload), nil)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func writeData(w http.ResponseWriter, data any, warnings []string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Warnings: warnings})
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, envelope{Success: false, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
