package playlist

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

// Wire mirrors of the server's snapshot payload. Field sets and key
// names follow the admin UI's settings document, so anything the server
// omits falls back to the same defaults the server itself would apply.
type snapshotWire struct {
	Timestamp    float64         `json:"timestamp"`
	MediaBaseURL string          `json:"media_base_url"`
	Media        []mediaItemWire `json:"media"`
	Config       configWire      `json:"config"`
}

type mediaItemWire struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
}

type configWire struct {
	Slideshow slideshowWire `json:"slideshow"`
	Overlay   overlayWire   `json:"overlay"`
	Widgets   widgetsWire   `json:"widgets"`
	BurnIn    burnInWire    `json:"burn_in_prevention"`
}

type slideshowWire struct {
	DurationSeconds    float64 `json:"duration_seconds"`
	TransitionEffect   string  `json:"transition_effect"`
	ImageScaling       string  `json:"image_scaling"`
	VideoScaling       string  `json:"video_scaling"`
	VideoAutoplay      bool    `json:"video_autoplay"`
	VideoLoop          bool    `json:"video_loop"`
	VideoMuted         bool    `json:"video_muted"`
	VideoShowControls  bool    `json:"video_show_controls"`
	VideoDurationLimit float64 `json:"video_duration_limit_seconds"`
	VideoRandomStart   bool    `json:"video_random_start"`
}

type overlayWire struct {
	Enabled         bool   `json:"enabled"`
	Text            string `json:"text"`
	Position        string `json:"position"`
	FontSize        int    `json:"font_size"`
	FontColor       string `json:"font_color"`
	BackgroundColor string `json:"background_color"`
	Padding         int    `json:"padding"`
	DisplayMode     string `json:"display_mode"`
	LogoEnabled     bool   `json:"logo_enabled"`
	LogoURL         string `json:"logo_url"`
}

type widgetsWire struct {
	Time    timeWire    `json:"time"`
	Weather weatherWire `json:"weather"`
	RSS     rssWire     `json:"rss"`
}

type timeWire struct {
	Enabled bool `json:"enabled"`
}

type weatherWire struct {
	Enabled  bool   `json:"enabled"`
	Location string `json:"location"`
}

type rssWire struct {
	Enabled     bool   `json:"enabled"`
	FeedURL     string `json:"feed_url"`
	ScrollSpeed string `json:"scroll_speed"`
}

type burnInWire struct {
	Enabled         bool     `json:"enabled"`
	Elements        []string `json:"elements"`
	IntervalSeconds float64  `json:"interval_seconds"`
	StrengthPixels  int      `json:"strength_pixels"`
}

// defaultWire seeds the wire struct before unmarshalling. Keys present in
// the payload overwrite these values; absent keys keep them, which gives
// partial snapshots the server's own default behavior.
func defaultWire() snapshotWire {
	return snapshotWire{
		Config: configWire{
			Slideshow: slideshowWire{
				DurationSeconds:  10,
				TransitionEffect: string(domain.TransitionKenBurns),
				ImageScaling:     string(domain.ScaleCover),
				VideoScaling:     string(domain.ScaleContain),
				VideoAutoplay:    true,
				VideoMuted:       true,
			},
			Overlay: overlayWire{
				Position:        string(domain.PositionBottomRight),
				FontSize:        16,
				FontColor:       "#FFFFFF",
				BackgroundColor: "rgba(0,0,0,0.5)",
				Padding:         10,
				DisplayMode:     string(domain.OverlayTextOnly),
			},
			Widgets: widgetsWire{
				Time:    timeWire{Enabled: true},
				Weather: weatherWire{Enabled: true, Location: "Oshkosh"},
				RSS: rssWire{
					FeedURL:     "https://feeds.bbci.co.uk/news/rss.xml?edition=us",
					ScrollSpeed: string(domain.ScrollMedium),
				},
			},
			BurnIn: burnInWire{
				Elements:        []string{domain.RegionOverlay},
				IntervalSeconds: 15,
				StrengthPixels:  3,
			},
		},
	}
}

// decodeSnapshot parses a snapshot payload into the domain model,
// applying defaults and dropping entries the player cannot handle.
func decodeSnapshot(logger *zap.Logger, data []byte) (*domain.Snapshot, error) {
	wire := defaultWire()
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	media := make([]domain.MediaItem, 0, len(wire.Media))
	for _, m := range wire.Media {
		kind := domain.KindFromString(m.Type)
		if kind == domain.KindUnknown {
			logger.Warn("Dropping media item of unknown type",
				zap.String("filename", m.Filename),
				zap.String("type", m.Type))
			continue
		}
		if m.Filename == "" {
			logger.Warn("Dropping media item without filename")
			continue
		}
		media = append(media, domain.MediaItem{Filename: m.Filename, Kind: kind})
	}

	slides := wire.Config.Slideshow
	if slides.DurationSeconds <= 0 {
		logger.Warn("Invalid slideshow duration, using 10s",
			zap.Float64("durationSeconds", slides.DurationSeconds))
		slides.DurationSeconds = 10
	}
	if slides.VideoDurationLimit < 0 {
		slides.VideoDurationLimit = 0
	}

	snap := &domain.Snapshot{
		Timestamp:    wire.Timestamp,
		MediaBaseURL: wire.MediaBaseURL,
		Media:        media,
		Playback: domain.PlaybackConfig{
			ImageDuration:    secondsToDuration(slides.DurationSeconds),
			Transition:       parseTransition(logger, slides.TransitionEffect),
			ImageScaling:     parseScaling(logger, slides.ImageScaling, domain.ScaleCover),
			VideoScaling:     parseScaling(logger, slides.VideoScaling, domain.ScaleContain),
			VideoAutoplay:    slides.VideoAutoplay,
			VideoLoop:        slides.VideoLoop,
			VideoMuted:       slides.VideoMuted,
			VideoControls:    slides.VideoShowControls,
			VideoDurationCap: secondsToDuration(slides.VideoDurationLimit),
			VideoRandomStart: slides.VideoRandomStart,
		},
		Overlay: domain.OverlayConfig{
			Enabled:         wire.Config.Overlay.Enabled,
			Text:            wire.Config.Overlay.Text,
			Position:        domain.OverlayPosition(wire.Config.Overlay.Position),
			FontSizePx:      wire.Config.Overlay.FontSize,
			FontColor:       wire.Config.Overlay.FontColor,
			BackgroundColor: wire.Config.Overlay.BackgroundColor,
			PaddingPx:       wire.Config.Overlay.Padding,
			DisplayMode:     domain.OverlayDisplayMode(wire.Config.Overlay.DisplayMode),
			LogoEnabled:     wire.Config.Overlay.LogoEnabled,
			LogoURL:         wire.Config.Overlay.LogoURL,
		},
		BurnIn: domain.BurnInConfig{
			Enabled:    wire.Config.BurnIn.Enabled,
			Regions:    wire.Config.BurnIn.Elements,
			Interval:   secondsToDuration(wire.Config.BurnIn.IntervalSeconds),
			StrengthPx: wire.Config.BurnIn.StrengthPixels,
		},
		Widgets: domain.WidgetConfig{
			Time: domain.TimeWidgetConfig{Enabled: wire.Config.Widgets.Time.Enabled},
			Weather: domain.WeatherWidgetConfig{
				Enabled:  wire.Config.Widgets.Weather.Enabled,
				Location: wire.Config.Widgets.Weather.Location,
			},
			RSS: domain.RSSWidgetConfig{
				Enabled:     wire.Config.Widgets.RSS.Enabled,
				FeedURL:     wire.Config.Widgets.RSS.FeedURL,
				ScrollSpeed: parseScrollSpeed(logger, wire.Config.Widgets.RSS.ScrollSpeed),
			},
		},
	}

	return snap, nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func parseTransition(logger *zap.Logger, s string) domain.TransitionEffect {
	switch effect := domain.TransitionEffect(s); effect {
	case domain.TransitionFade, domain.TransitionSlide, domain.TransitionKenBurns:
		return effect
	default:
		logger.Warn("Unknown transition effect, using fade", zap.String("effect", s))
		return domain.TransitionFade
	}
}

func parseScaling(logger *zap.Logger, s string, fallback domain.ScalingMode) domain.ScalingMode {
	switch mode := domain.ScalingMode(s); mode {
	case domain.ScaleCover, domain.ScaleContain, domain.ScaleStretch:
		return mode
	default:
		logger.Warn("Unknown scaling mode, using fallback",
			zap.String("mode", s),
			zap.String("fallback", string(fallback)))
		return fallback
	}
}

func parseScrollSpeed(logger *zap.Logger, s string) domain.ScrollSpeed {
	switch speed := domain.ScrollSpeed(s); speed {
	case domain.ScrollSlow, domain.ScrollMedium, domain.ScrollFast:
		return speed
	default:
		logger.Warn("Unknown scroll speed, using medium", zap.String("speed", s))
		return domain.ScrollMedium
	}
}
