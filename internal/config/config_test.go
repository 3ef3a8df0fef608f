package config

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewAppConfig(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		expectedError string
		check         func(*testing.T, *AppConfig)
	}{
		{
			name:          "Error - No Source Configured",
			env:           map[string]string{},
			expectedError: "PLAYER_SERVER_URL or PLAYER_SNAPSHOT_PATH",
		},
		{
			name: "Defaults With Server URL",
			env:  map[string]string{"PLAYER_SERVER_URL": "http://signage.local"},
			check: func(t *testing.T, c *AppConfig) {
				if c.GetServerURL() != "http://signage.local" {
					t.Errorf("unexpected server URL: %s", c.GetServerURL())
				}
				if c.GetPollInterval() != 30*time.Second {
					t.Errorf("expected default poll interval 30s, got %v", c.GetPollInterval())
				}
				if c.GetRendererMode() != "auto" {
					t.Errorf("expected auto renderer, got %s", c.GetRendererMode())
				}
				if c.GetListenAddr() != ":9800" {
					t.Errorf("expected default listen addr, got %s", c.GetListenAddr())
				}
				if c.GetSettleDelay() != 150*time.Millisecond {
					t.Errorf("expected 150ms settle delay, got %v", c.GetSettleDelay())
				}
			},
		},
		{
			name: "Snapshot File Mode",
			env:  map[string]string{"PLAYER_SNAPSHOT_PATH": "/var/lib/player/snapshot.json"},
			check: func(t *testing.T, c *AppConfig) {
				if c.GetSnapshotPath() != "/var/lib/player/snapshot.json" {
					t.Errorf("unexpected snapshot path: %s", c.GetSnapshotPath())
				}
				if c.GetServerURL() != "" {
					t.Errorf("server URL should be empty, got %s", c.GetServerURL())
				}
			},
		},
		{
			name: "Overrides Applied",
			env: map[string]string{
				"PLAYER_SERVER_URL":            "http://signage.local",
				"PLAYER_POLL_INTERVAL_SECONDS": "10",
				"PLAYER_RENDERER":              "headless",
				"PLAYER_LISTEN_ADDR":           "",
				"PLAYER_SETTLE_MS":             "50",
			},
			check: func(t *testing.T, c *AppConfig) {
				if c.GetPollInterval() != 10*time.Second {
					t.Errorf("expected 10s poll interval, got %v", c.GetPollInterval())
				}
				if c.GetRendererMode() != "headless" {
					t.Errorf("expected headless renderer, got %s", c.GetRendererMode())
				}
				if c.GetListenAddr() != "" {
					// An explicitly empty listen address disables the listener
					t.Errorf("expected disabled listener, got %s", c.GetListenAddr())
				}
				if c.GetSettleDelay() != 50*time.Millisecond {
					t.Errorf("expected 50ms settle, got %v", c.GetSettleDelay())
				}
			},
		},
		{
			name: "Invalid Values Fall Back",
			env: map[string]string{
				"PLAYER_SERVER_URL":            "http://signage.local",
				"PLAYER_POLL_INTERVAL_SECONDS": "not-a-number",
				"PLAYER_RENDERER":              "directfb",
			},
			check: func(t *testing.T, c *AppConfig) {
				if c.GetPollInterval() != 30*time.Second {
					t.Errorf("expected default poll interval, got %v", c.GetPollInterval())
				}
				if c.GetRendererMode() != "auto" {
					t.Errorf("expected auto fallback, got %s", c.GetRendererMode())
				}
			},
		},
		{
			name: "Poll Interval Clamped",
			env: map[string]string{
				"PLAYER_SERVER_URL":            "http://signage.local",
				"PLAYER_POLL_INTERVAL_SECONDS": "0",
			},
			check: func(t *testing.T, c *AppConfig) {
				if c.GetPollInterval() != time.Second {
					t.Errorf("expected clamp to 1s, got %v", c.GetPollInterval())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			// Isolate from the host environment for keys the case leaves unset
			for _, k := range []string{"PLAYER_SERVER_URL", "PLAYER_SNAPSHOT_PATH"} {
				if _, ok := tt.env[k]; !ok {
					t.Setenv(k, "")
				}
			}

			cfg, err := NewAppConfig(zap.NewNop())

			if tt.expectedError != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.expectedError)
				}
				if !strings.Contains(err.Error(), tt.expectedError) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.expectedError)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}
