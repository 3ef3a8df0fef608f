package configwatch

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

// Epsilon is the tolerance for comparing config version markers. The
// marker is a float timestamp that crosses JSON twice, so equality has
// to be banded rather than exact.
const Epsilon = 0.01

// Watcher polls the server's config version and fires the change
// callback exactly once when the marker moves away from the value the
// running session was built from. It never patches the session itself;
// whoever owns the callback decides how to rebuild.
type Watcher struct {
	logger   *zap.Logger
	client   VersionClient
	metrics  domain.Metrics
	initial  float64
	interval time.Duration
	onChange func()

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	once    sync.Once
}

// New creates a watcher comparing against the given session marker.
// metrics may be nil.
func New(logger *zap.Logger, client VersionClient, metrics domain.Metrics, initial float64, interval time.Duration, onChange func()) *Watcher {
	return &Watcher{
		logger:   logger,
		client:   client,
		metrics:  metrics,
		initial:  initial,
		interval: interval,
		onChange: onChange,
	}
}

// Start launches the poll loop
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.mu.Unlock()

	w.logger.Info("Config version watcher started",
		zap.Float64("marker", w.initial),
		zap.Duration("interval", w.interval))

	w.wg.Add(1)
	go w.run(runCtx)
	return nil
}

// Stop halts the poll loop and waits for it to finish
func (w *Watcher) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.cancel()
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
	w.logger.Debug("Config version watcher stopped")
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.poll(ctx) {
				return
			}
		}
	}
}

// poll performs one version check, returning true once a change has
// fired and the loop has nothing left to do
func (w *Watcher) poll(ctx context.Context) bool {
	ts, err := w.client.CheckVersion(ctx)
	if err != nil {
		// A failed poll is not a change. The session keeps playing its
		// snapshot and the next tick tries again.
		w.logger.Warn("Config version check failed", zap.Error(err))
		w.report(false)
		return false
	}
	w.report(true)

	if math.Abs(ts-w.initial) <= Epsilon {
		return false
	}

	w.logger.Info("Configuration change detected",
		zap.Float64("sessionMarker", w.initial),
		zap.Float64("serverMarker", ts))
	w.once.Do(w.onChange)
	return true
}

func (w *Watcher) report(ok bool) {
	if w.metrics != nil {
		w.metrics.ConfigPoll(ok)
	}
}
