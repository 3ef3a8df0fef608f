package render

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
	"github.com/showgo/player/internal/render/headless"
	"github.com/showgo/player/internal/render/mpv"
)

// Backend mode names accepted by the PLAYER_RENDERER setting
const (
	ModeAuto     = "auto"
	ModeMPV      = "mpv"
	ModeHeadless = "headless"
)

// New builds the display backend for the requested mode. Auto prefers
// mpv and falls back to headless, so a misprovisioned kiosk still runs
// its scheduling loop and reports status instead of crash-looping.
func New(logger *zap.Logger, cfg domain.Config) (domain.Renderer, error) {
	mode := cfg.GetRendererMode()
	switch mode {
	case ModeHeadless:
		logger.Info("Using headless renderer")
		return headless.New(logger), nil
	case ModeMPV:
		return mpv.New(logger)
	case ModeAuto:
		r, err := mpv.New(logger)
		if err != nil {
			logger.Warn("mpv backend unavailable, falling back to headless", zap.Error(err))
			return headless.New(logger), nil
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown renderer mode %q", mode)
	}
}
