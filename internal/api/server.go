package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"videodigest/internal/language"
	"videodigest/internal/logging"
	"videodigest/internal/pipeline"
	"videodigest/internal/reference"
	"videodigest/internal/runstore"
	"videodigest/internal/services"
)

// Launcher executes a digest run. *pipeline.Runner satisfies it.
type Launcher interface {
	Run(ctx context.Context, rawReference string, opts pipeline.Options) (*pipeline.Result, error)
}

// Server exposes digest runs over HTTP. Runs launch in the background; the
// run store provides their status afterwards.
type Server struct {
	logger   *slog.Logger
	launcher Launcher
	store    *runstore.Store
	defaults pipeline.Options

	// background builds the context detached run executions use. Tests
	// override it to observe completion.
	background func() context.Context

	listener net.Listener
	server   *http.Server
}

// NewServer wires the HTTP surface. store may be nil, which disables the
// run listing endpoints.
func NewServer(logger *slog.Logger, launcher Launcher, store *runstore.Store, defaults pipeline.Options) *Server {
	return &Server{
		logger:     logging.NewComponentLogger(logger, "api"),
		launcher:   launcher,
		store:      store,
		defaults:   defaults,
		background: context.Background,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/runs", s.handleRuns)
	mux.HandleFunc("/api/runs/", s.handleRun)
	return mux
}

// ListenAndServe binds the address and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, bind string) error {
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.startRun(w, r)
	case http.MethodGet:
		s.listRuns(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) startRun(w http.ResponseWriter, r *http.Request) {
	var req StartRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	opts := s.defaults
	opts.RunID = uuid.NewString()
	if req.Language != "" {
		opts.Language = req.Language
	}
	if req.MaxFrames > 0 {
		opts.MaxFrames = req.MaxFrames
	}
	if req.SkipKeyframes {
		opts.SkipKeyframes = true
	}
	if req.OutputDir != "" {
		opts.OutputDir = req.OutputDir
	}
	if req.WhisperModel != "" {
		opts.WhisperModel = req.WhisperModel
	}
	if err := preflight(req.URL, opts); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	go func() {
		if _, err := s.launcher.Run(s.background(), req.URL, opts); err != nil {
			s.logger.Error("run failed",
				logging.String("run_id", opts.RunID),
				logging.Error(err))
		}
	}()

	s.writeJSON(w, http.StatusAccepted, StartRunResponse{
		RunID:  opts.RunID,
		Status: string(runstore.StatusPending),
	})
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "run history disabled")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.store.ListRecent(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	views := make([]RunView, 0, len(runs))
	for _, run := range runs {
		views = append(views, runView(run))
	}
	s.writeJSON(w, http.StatusOK, RunListResponse{Runs: views})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "run history disabled")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "run not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, runView(run))
}

// preflight rejects requests the pipeline would immediately fail, so the
// caller gets a 400 instead of a failed background run.
func preflight(rawReference string, opts pipeline.Options) error {
	if _, err := reference.Parse(rawReference); err != nil {
		return err
	}
	if opts.Language != "" && !language.IsTarget(opts.Language) {
		return fmt.Errorf("unsupported language %q", opts.Language)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
