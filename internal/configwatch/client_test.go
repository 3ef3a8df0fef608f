package configwatch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPVersionClient_CheckVersion(t *testing.T) {
	var gotPath, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"timestamp": 1724418000.125}`))
	}))
	defer server.Close()

	client, err := NewHTTPVersionClient(server.URL)
	if err != nil {
		t.Fatalf("NewHTTPVersionClient() error = %v", err)
	}

	ts, err := client.CheckVersion(context.Background())
	if err != nil {
		t.Fatalf("CheckVersion() error = %v", err)
	}

	if gotPath != "/api/config/check" {
		t.Errorf("Request path = %q, want /api/config/check", gotPath)
	}
	if gotAgent != userAgent {
		t.Errorf("User-Agent = %q, want %q", gotAgent, userAgent)
	}
	if ts != 1724418000.125 {
		t.Errorf("Timestamp = %v, want 1724418000.125", ts)
	}
}

func TestHTTPVersionClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		errPart string
	}{
		{
			name: "Server Reports Failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error": "database unavailable", "timestamp": 0}`))
			},
			errPart: "status 500",
		},
		{
			name: "Invalid JSON Body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>proxy error</html>"))
			},
			errPart: "failed to decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client, err := NewHTTPVersionClient(server.URL)
			if err != nil {
				t.Fatalf("NewHTTPVersionClient() error = %v", err)
			}

			_, err = client.CheckVersion(context.Background())
			if err == nil {
				t.Fatal("Expected CheckVersion() to fail")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Error = %v, want substring %q", err, tt.errPart)
			}
		})
	}
}

func TestNewHTTPVersionClient_InvalidURL(t *testing.T) {
	if _, err := NewHTTPVersionClient("://missing-scheme"); err == nil {
		t.Fatal("Expected error for invalid server URL")
	}
}
