package overlay

import (
	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

// MarginPx is the fixed distance between the overlay box and the screen
// edges it anchors to
const MarginPx = 20

// logoTextGapPx separates a side-by-side logo from its trailing text
const logoTextGapPx = 8

// Build computes the overlay view for a session. The whole view is
// recomputed from the configuration every time; live views are replaced,
// never patched, so stale content cannot survive a config change.
//
// Layout fallback: a display mode that asks for a logo the server does
// not have (or that is disabled) silently drops the logo and falls back
// to the text when present. A view with nothing to show comes back Empty
// so the renderer hides the box instead of painting a bare background.
func Build(logger *zap.Logger, cfg domain.OverlayConfig) domain.OverlayView {
	if !cfg.Enabled {
		return domain.OverlayView{Empty: true}
	}

	view := domain.OverlayView{
		Position:        normalizePosition(logger, cfg.Position),
		MarginPx:        MarginPx,
		FontSizePx:      cfg.FontSizePx,
		FontColor:       cfg.FontColor,
		BackgroundColor: cfg.BackgroundColor,
		PaddingPx:       cfg.PaddingPx,
	}

	logoAvailable := cfg.LogoEnabled && cfg.LogoURL != ""
	hasText := cfg.Text != ""

	wantLogo, wantText, stacked := layoutFor(cfg.DisplayMode)
	if wantLogo && !logoAvailable {
		wantLogo = false
		// LogoOnly degenerates to text when the logo is unavailable
		if !wantText {
			wantText = true
		}
	}

	if wantLogo {
		block := domain.OverlayBlock{
			Kind:     domain.BlockLogo,
			LogoURL:  cfg.LogoURL,
			Centered: stacked,
		}
		if !stacked && wantText && hasText {
			block.TrailingMarginPx = logoTextGapPx
		}
		view.Blocks = append(view.Blocks, block)
	}
	if wantText && hasText {
		view.Blocks = append(view.Blocks, domain.OverlayBlock{
			Kind:     domain.BlockText,
			Text:     cfg.Text,
			Centered: stacked,
		})
	}

	if len(view.Blocks) == 0 {
		return domain.OverlayView{Empty: true}
	}

	view.Stacked = stacked && len(view.Blocks) > 1
	return view
}

// layoutFor maps a display mode to its block selection and arrangement
func layoutFor(mode domain.OverlayDisplayMode) (wantLogo, wantText, stacked bool) {
	switch mode {
	case domain.OverlayLogoOnly:
		return true, false, false
	case domain.OverlayLogoTextSide:
		return true, true, false
	case domain.OverlayLogoTextBelow:
		return true, true, true
	case domain.OverlayTextOnly:
		return false, true, false
	default:
		return false, true, false
	}
}

// normalizePosition validates the 9-way anchor, falling back to the
// bottom-right corner for unknown values
func normalizePosition(logger *zap.Logger, pos domain.OverlayPosition) domain.OverlayPosition {
	switch pos {
	case domain.PositionTopLeft, domain.PositionTopCenter, domain.PositionTopRight,
		domain.PositionMiddleLeft, domain.PositionMiddleCenter, domain.PositionMiddleRight,
		domain.PositionBottomLeft, domain.PositionBottomCenter, domain.PositionBottomRight:
		return pos
	default:
		logger.Warn("Unknown overlay position, using bottom-right",
			zap.String("position", string(pos)))
		return domain.PositionBottomRight
	}
}

// Anchor resolves a grid position into vertical and horizontal alignment
// for renderers that place the box themselves. Values are one of
// top/middle/bottom and left/center/right.
func Anchor(pos domain.OverlayPosition) (vertical, horizontal string) {
	switch pos {
	case domain.PositionTopLeft:
		return "top", "left"
	case domain.PositionTopCenter:
		return "top", "center"
	case domain.PositionTopRight:
		return "top", "right"
	case domain.PositionMiddleLeft:
		return "middle", "left"
	case domain.PositionMiddleCenter:
		return "middle", "center"
	case domain.PositionMiddleRight:
		return "middle", "right"
	case domain.PositionBottomLeft:
		return "bottom", "left"
	case domain.PositionBottomCenter:
		return "bottom", "center"
	default:
		return "bottom", "right"
	}
}
