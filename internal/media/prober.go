package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"

	// Registers the webp decoder; the server accepts webp uploads
	_ "golang.org/x/image/webp"
)

const _maxMediaBytes = 64 * 1024 * 1024 // 64 MB, signage photos can be large

const userAgent = "showgo-player/1.0"

// Prober fetches media and verifies it is actually presentable before a
// surface ever shows it: images must decode, videos must at least be
// reachable.
type Prober struct {
	logger *zap.Logger
	client *http.Client
}

// NewProber creates a prober with a bounded-latency HTTP client
func NewProber(logger *zap.Logger) *Prober {
	return &Prober{
		logger: logger,
		client: &http.Client{
			Timeout: 30 * time.Second, // media fetches, larger than API calls
		},
	}
}

// Fetch reads the full media body from an http(s) URL or a local path
func (p *Prober) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		// Cached media resolves to a plain file path
		data, err := os.ReadFile(strings.TrimPrefix(rawURL, "file://"))
		if err != nil {
			return nil, fmt.Errorf("failed to read local media: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, _maxMediaBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	p.logger.Debug("Media fetched",
		zap.Int("bytes", len(data)),
		zap.String("url", rawURL))
	return data, nil
}

// ProbeImage fetches and decodes an image, returning its pixel dimensions
func (p *Prober) ProbeImage(ctx context.Context, rawURL string) (domain.ScreenResolution, error) {
	data, err := p.Fetch(ctx, rawURL)
	if err != nil {
		return domain.ScreenResolution{}, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.ScreenResolution{}, fmt.Errorf("image decode failed: %w", err)
	}

	bounds := img.Bounds()
	return domain.ScreenResolution{Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

// ProbeVideo verifies a video URL is reachable without downloading it.
// Local paths are checked with a stat.
func (p *Prober) ProbeVideo(ctx context.Context, rawURL string) error {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		if _, err := os.Stat(strings.TrimPrefix(rawURL, "file://")); err != nil {
			return fmt.Errorf("local video missing: %w", err)
		}
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
