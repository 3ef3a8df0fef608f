package widgets

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

const (
	widgetTimeout = 10 * time.Second
	userAgent     = "showgo-player/1.0"
)

// Builder assembles the per-session widget views. Widgets resolve once
// per session; a configuration change rebuilds the session and with it
// every view.
type Builder struct {
	logger  *zap.Logger
	weather *WeatherProvider
	rss     *RSSProvider
}

// NewBuilder wires the providers from process configuration
func NewBuilder(logger *zap.Logger, cfg domain.Config) *Builder {
	return &Builder{
		logger:  logger,
		weather: NewWeatherProvider(logger, cfg.GetWeatherAPIKey()),
		rss:     NewRSSProvider(logger),
	}
}

// BuildViews resolves every enabled widget. A widget whose fetch fails
// is disabled for this session rather than failing the session; the
// next restart retries it.
func (b *Builder) BuildViews(ctx context.Context, cfg domain.WidgetConfig) domain.WidgetViews {
	views := domain.WidgetViews{
		Time: domain.TimeView{Enabled: cfg.Time.Enabled},
	}

	if cfg.Weather.Enabled {
		view, err := b.weather.Fetch(ctx, cfg.Weather.Location)
		if err != nil {
			b.logger.Warn("Weather widget disabled for this session", zap.Error(err))
		} else {
			views.Weather = view
		}
	}

	if cfg.RSS.Enabled {
		view, err := b.rss.Fetch(ctx, cfg.RSS.FeedURL, cfg.RSS.ScrollSpeed)
		if err != nil {
			b.logger.Warn("RSS widget disabled for this session", zap.Error(err))
		} else {
			views.RSS = view
		}
	}

	return views
}
