package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"log/slog"

	"reelsmith/internal/config"
	"reelsmith/internal/logging"
)

// Server hosts the generation API.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	mux      *http.ServeMux
	server   *http.Server
	listener net.Listener
}

// New builds a Server around the given configuration. The configuration is
// expected to be validated already.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	srv := &Server{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "server"),
		mux:    http.NewServeMux(),
	}
	srv.mux.HandleFunc("/api/shorts/generate", srv.handleGenerate)
	srv.mux.HandleFunc("/api/status", srv.handleStatus)
	srv.mux.HandleFunc("/api/healthz", srv.handleHealthz)

	srv.server = &http.Server{
		Handler:           srv.mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler returns the routing handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start begins serving on the configured bind address. It returns once the
// listener is up; shutdown is tied to ctx.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Server.Bind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Bind, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("listening", slog.String("address", listener.Addr().String()))
	return nil
}

// Stop drains in-flight requests and closes the listener.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

type statusResponse struct {
	Running bool   `json:"running"`
	Bind    string `json:"bind"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{Running: true, Bind: s.cfg.Server.Bind})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{ErrorMessage: message})
}

func decodeJSONBody(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
