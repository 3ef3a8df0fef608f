package playlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

const (
	snapshotTimeout = 10 * time.Second
	userAgent       = "showgo-player/1.0"
)

// HTTPSource loads snapshots from the signage server's player endpoint
type HTTPSource struct {
	logger *zap.Logger
	client *http.Client
	url    string
}

// NewHTTPSource builds a source for the given server base URL
func NewHTTPSource(logger *zap.Logger, serverURL string) (*HTTPSource, error) {
	endpoint, err := url.JoinPath(serverURL, "api", "player", "snapshot")
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", serverURL, err)
	}
	return &HTTPSource{
		logger: logger,
		client: &http.Client{Timeout: snapshotTimeout},
		url:    endpoint,
	}, nil
}

// Load fetches and decodes one snapshot
func (s *HTTPSource) Load(ctx context.Context) (*domain.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snapshot request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("snapshot request returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot body: %w", err)
	}

	return decodeSnapshot(s.logger, data)
}

// FileSource loads snapshots from a local JSON file, for kiosks that run
// without a server and for tests
type FileSource struct {
	logger *zap.Logger
	path   string
}

// NewFileSource builds a source reading the given path on every Load
func NewFileSource(logger *zap.Logger, path string) *FileSource {
	return &FileSource{logger: logger, path: path}
}

// Load reads and decodes the snapshot file
func (s *FileSource) Load(_ context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return decodeSnapshot(s.logger, data)
}

// NewSource picks the snapshot source the configuration names. A local
// snapshot file takes precedence over the server endpoint.
func NewSource(logger *zap.Logger, cfg domain.Config) (domain.SnapshotSource, error) {
	if path := cfg.GetSnapshotPath(); path != "" {
		logger.Info("Using file snapshot source", zap.String("path", path))
		return NewFileSource(logger, path), nil
	}
	if server := cfg.GetServerURL(); server != "" {
		logger.Info("Using HTTP snapshot source", zap.String("server", server))
		return NewHTTPSource(logger, server)
	}
	return nil, errors.New("no snapshot source configured")
}
