package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

// Preloader warms the item that will be shown next. Images are downloaded
// into a small disk cache (so the next activation reads locally even on a
// flaky uplink); videos only get a reachability probe since caching them
// wholesale is not worth the disk churn.
type Preloader struct {
	logger   *zap.Logger
	builder  *URLBuilder
	prober   *Prober
	cacheDir string
}

// NewPreloader creates a preloader writing into cacheDir. The directory
// is created lazily on first use.
func NewPreloader(logger *zap.Logger, builder *URLBuilder, prober *Prober, cacheDir string) *Preloader {
	return &Preloader{
		logger:   logger,
		builder:  builder,
		prober:   prober,
		cacheDir: cacheDir,
	}
}

// Resolve returns the playable location for an item: the cached file when
// the preloader already has it, the remote URL otherwise.
func (p *Preloader) Resolve(item domain.MediaItem) string {
	path := p.cachePath(item)
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return p.builder.MediaURL(item)
}

// Preload fetches an item ahead of its activation. Best effort: callers
// log failures and move on, a cold cache only costs latency.
func (p *Preloader) Preload(ctx context.Context, item domain.MediaItem) error {
	switch item.Kind {
	case domain.KindVideo:
		return p.prober.ProbeVideo(ctx, p.builder.MediaURL(item))
	case domain.KindImage:
		return p.preloadImage(ctx, item)
	default:
		return fmt.Errorf("cannot preload media kind %q", item.Kind)
	}
}

func (p *Preloader) preloadImage(ctx context.Context, item domain.MediaItem) error {
	path := p.cachePath(item)
	if path == "" {
		return fmt.Errorf("unsafe cache filename %q", item.Filename)
	}
	if _, err := os.Stat(path); err == nil {
		return nil // already warm
	}

	data, err := p.prober.Fetch(ctx, p.builder.MediaURL(item))
	if err != nil {
		return err
	}

	// A cache entry that cannot decode would just move the failure later
	if _, err := imaging.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("refusing to cache undecodable image: %w", err)
	}

	if err := os.MkdirAll(p.cacheDir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	// Write-then-rename so a concurrent Resolve never sees a partial file
	tmp, err := os.CreateTemp(p.cacheDir, ".preload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to publish cache file: %w", err)
	}

	p.logger.Debug("Preloaded image into cache",
		zap.String("filename", item.Filename),
		zap.Int("bytes", len(data)))
	return nil
}

// cachePath maps an item to its cache location, rejecting filenames that
// would escape the cache directory. Returns "" for unsafe names.
func (p *Preloader) cachePath(item domain.MediaItem) string {
	name := filepath.Base(item.Filename)
	if name == "." || name == ".." || name == "/" || name != item.Filename {
		return ""
	}
	return filepath.Join(p.cacheDir, name)
}
