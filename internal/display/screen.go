package display

import (
	"os"
	"strconv"
	"strings"

	"github.com/kbinani/screenshot"
	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

// NewScreenResolution detects the primary screen resolution at startup.
// PLAYER_SCREEN=WxH overrides detection for headless hosts, where no
// display server answers.
func NewScreenResolution(logger *zap.Logger) *domain.ScreenResolution {
	if override := os.Getenv("PLAYER_SCREEN"); override != "" {
		if res, ok := parseResolution(override); ok {
			logger.Info("Screen resolution overridden",
				zap.Int("width", res.Width),
				zap.Int("height", res.Height))
			return res
		}
		logger.Warn("Ignoring malformed PLAYER_SCREEN value", zap.String("value", override))
	}

	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		logger.Warn("No active displays detected, falling back to 1920x1080")
		return &domain.ScreenResolution{Width: 1920, Height: 1080}
	}

	// Use primary monitor (index 0)
	bounds := screenshot.GetDisplayBounds(0)
	res := &domain.ScreenResolution{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}

	logger.Info("Screen resolution detected",
		zap.Int("width", res.Width),
		zap.Int("height", res.Height))

	return res
}

// parseResolution accepts "1920x1080" style values
func parseResolution(s string) (*domain.ScreenResolution, bool) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return nil, false
	}
	width, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || width <= 0 {
		return nil, false
	}
	height, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || height <= 0 {
		return nil, false
	}
	return &domain.ScreenResolution{Width: width, Height: height}, true
}
