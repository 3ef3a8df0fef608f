package status

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
	"github.com/showgo/player/internal/session"
)

type fakeInfoSource struct {
	info session.Info
}

func (f *fakeInfoSource) Info() session.Info { return f.info }

func newTestServer() (*Server, *PromMetrics, *fakeInfoSource) {
	metrics := NewMetrics()
	source := &fakeInfoSource{info: session.Info{
		SessionID:       "f3b9a2c4",
		State:           "showing",
		Index:           2,
		PlaylistLen:     9,
		Current:         "beach.jpg",
		ConfigTimestamp: 1724418000.125,
		Restarts:        1,
		Uptime:          90 * time.Second,
	}}
	return NewServer(zap.NewNop(), "", source, metrics), metrics, source
}

func TestHealthEndpoint(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("status field = %q, want ok", body["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	s, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body statusResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if body.SessionID != "f3b9a2c4" {
		t.Errorf("session_id = %q, want f3b9a2c4", body.SessionID)
	}
	if body.State != "showing" {
		t.Errorf("state = %q, want showing", body.State)
	}
	if body.PlaylistIndex != 2 || body.PlaylistSize != 9 {
		t.Errorf("playlist position = %d/%d, want 2/9", body.PlaylistIndex, body.PlaylistSize)
	}
	if body.CurrentItem != "beach.jpg" {
		t.Errorf("current_item = %q, want beach.jpg", body.CurrentItem)
	}
	if body.ConfigTimestamp != 1724418000.125 {
		t.Errorf("config_timestamp = %v, want 1724418000.125", body.ConfigTimestamp)
	}
	if body.Restarts != 1 {
		t.Errorf("restarts = %d, want 1", body.Restarts)
	}
	if body.UptimeSeconds != 90 {
		t.Errorf("uptime_seconds = %v, want 90", body.UptimeSeconds)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, metrics, _ := newTestServer()

	metrics.ItemShown(domain.KindImage)
	metrics.ItemShown(domain.KindImage)
	metrics.ItemShown(domain.KindVideo)
	metrics.MediaLoadFailure()
	metrics.ConfigPoll(true)
	metrics.ConfigPoll(false)
	metrics.SessionRestart()
	metrics.SetPlaylistSize(7)
	metrics.SetConfigTimestamp(1724418000.125)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	for _, want := range []string{
		`player_items_shown_total{kind="image"} 2`,
		`player_items_shown_total{kind="video"} 1`,
		`player_media_load_failures_total 1`,
		`player_config_polls_total{outcome="ok"} 1`,
		`player_config_polls_total{outcome="error"} 1`,
		`player_session_restarts_total 1`,
		`player_playlist_size 7`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestDisabledListenerLifecycle(t *testing.T) {
	s, _, _ := newTestServer()

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("disabled Start returned error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("disabled Stop returned error: %v", err)
	}
}
