package fullscreen

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

// DoubleTapWindow is how close two taps must land to count as a toggle
// gesture
const DoubleTapWindow = 400 * time.Millisecond

// Controller turns renderer input into fullscreen toggles: a double tap
// anywhere on the output, or the f / F11 keys. Single taps are absorbed;
// a kiosk audience pokes screens constantly.
type Controller struct {
	logger  *zap.Logger
	source  domain.InputSource
	adapter WindowAdapter

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewController creates a controller. source may be nil when the
// renderer forwards no input; the controller then stays idle.
func NewController(logger *zap.Logger, source domain.InputSource, adapter WindowAdapter) *Controller {
	return &Controller{
		logger:  logger,
		source:  source,
		adapter: adapter,
	}
}

// Start launches the input loop
func (c *Controller) Start(ctx context.Context) error {
	if c.source == nil {
		c.logger.Info("Renderer forwards no input, fullscreen toggle disabled")
		return nil
	}

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.running = true
	c.mu.Unlock()

	c.logger.Info("Fullscreen controller started",
		zap.String("adapter", c.adapter.Name()),
		zap.Duration("doubleTapWindow", DoubleTapWindow))

	c.wg.Add(1)
	go c.run(runCtx)
	return nil
}

// Stop halts the input loop
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	c.cancel()
	c.running = false
	c.mu.Unlock()

	c.wg.Wait()
	c.logger.Debug("Fullscreen controller stopped")
	return nil
}

func (c *Controller) run(ctx context.Context) {
	defer c.wg.Done()

	var lastTap time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-c.source.Inputs():
			if !ok {
				return
			}
			c.handle(ctx, ev, &lastTap)
		}
	}
}

func (c *Controller) handle(ctx context.Context, ev domain.InputEvent, lastTap *time.Time) {
	switch ev.Kind {
	case domain.InputKey:
		if isToggleKey(ev.Key) {
			c.toggle(ctx)
		}
	case domain.InputTap:
		at := ev.At
		if at.IsZero() {
			at = time.Now()
		}
		if !lastTap.IsZero() && at.Sub(*lastTap) <= DoubleTapWindow {
			// Consume the pair so a triple tap cannot toggle twice
			*lastTap = time.Time{}
			c.toggle(ctx)
			return
		}
		*lastTap = at
	}
}

func isToggleKey(key string) bool {
	switch strings.ToLower(key) {
	case "f", "f11":
		return true
	}
	return false
}

func (c *Controller) toggle(ctx context.Context) {
	if err := c.adapter.Toggle(ctx); err != nil {
		c.logger.Warn("Fullscreen toggle failed", zap.Error(err))
	}
}
