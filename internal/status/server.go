package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/showgo/player/internal/session"
)

const shutdownTimeout = 5 * time.Second

// InfoSource reports the running session for the status endpoint
type InfoSource interface {
	Info() session.Info
}

// Server is the local observability listener: health, session status and
// Prometheus metrics. An empty listen address disables it entirely; the
// player renders fine without it.
type Server struct {
	logger  *zap.Logger
	addr    string
	source  InfoSource
	metrics *PromMetrics

	mu  sync.Mutex
	srv *http.Server
}

// NewServer wires the listener; addr may be empty to disable it
func NewServer(logger *zap.Logger, addr string, source InfoSource, metrics *PromMetrics) *Server {
	return &Server{logger: logger, addr: addr, source: source, metrics: metrics}
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/status", s.handleStatus)
	r.Get("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type statusResponse struct {
	SessionID       string  `json:"session_id"`
	State           string  `json:"state"`
	PlaylistIndex   int     `json:"playlist_index"`
	PlaylistSize    int     `json:"playlist_size"`
	CurrentItem     string  `json:"current_item,omitempty"`
	ConfigTimestamp float64 `json:"config_timestamp"`
	Restarts        int     `json:"restarts"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

func (s *Server) handleStatus(w http.ResponseWriter, req *http.Request) {
	info := s.source.Info()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{
		SessionID:       info.SessionID,
		State:           info.State,
		PlaylistIndex:   info.Index,
		PlaylistSize:    info.PlaylistLen,
		CurrentItem:     info.Current,
		ConfigTimestamp: info.ConfigTimestamp,
		Restarts:        info.Restarts,
		UptimeSeconds:   info.Uptime.Seconds(),
	})
}

// Start begins serving in the background
func (s *Server) Start(_ context.Context) error {
	if s.addr == "" {
		s.logger.Info("Status listener disabled")
		return nil
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.New("status listener already running")
	}
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}
	s.srv = srv
	s.mu.Unlock()

	go func() {
		// A dead listener must never take playback down with it
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Status listener failed", zap.Error(err))
		}
	}()

	s.logger.Info("Status listener started", zap.String("addr", s.addr))
	return nil
}

// Stop drains the listener
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
