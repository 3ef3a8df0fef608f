package display

import (
	"context"

	"go.uber.org/zap"
)

// noopInhibitor is used where no screen saver service is reachable.
// Playback still works; the panel may blank under the host's own policy.
type noopInhibitor struct {
	logger *zap.Logger
}

func (n *noopInhibitor) Inhibit(ctx context.Context) error {
	n.logger.Debug("Display inhibition unavailable, skipping")
	return nil
}

func (n *noopInhibitor) Release(ctx context.Context) error {
	return nil
}
