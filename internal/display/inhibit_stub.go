//go:build !linux
// +build !linux

package display

import (
	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

// NewInhibitor returns a no-op inhibitor on platforms without a
// freedesktop screen saver service
func NewInhibitor(logger *zap.Logger) domain.Inhibitor {
	logger.Debug("Display inhibition not supported on this platform")
	return &noopInhibitor{logger: logger}
}
