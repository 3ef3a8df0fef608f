package domain

import "time"

// MediaKind identifies how a playlist item must be presented
type MediaKind string

const (
	// KindImage is a still image shown for a fixed duration
	KindImage MediaKind = "image"
	// KindVideo is a video played through the video surface
	KindVideo MediaKind = "video"
	// KindUnknown marks an unrecognized wire value; items of this kind
	// are dropped at snapshot decode time
	KindUnknown MediaKind = ""
)

// KindFromString maps a snapshot wire value to a MediaKind
func KindFromString(s string) MediaKind {
	switch s {
	case "image":
		return KindImage
	case "video":
		return KindVideo
	default:
		return KindUnknown
	}
}

// MediaItem is one entry of the playlist snapshot.
// Items are immutable and ordered; the server decides the order
// (sequential or pre-shuffled), the player never reorders.
type MediaItem struct {
	// Filename as stored on the server, percent-encoded into the fetch URL
	Filename string
	// Kind selects the image or the video presentation path
	Kind MediaKind
}

// TransitionEffect selects the visual effect applied to image items
type TransitionEffect string

const (
	// TransitionFade cross-fades the incoming image over a fixed duration
	TransitionFade TransitionEffect = "fade"
	// TransitionSlide is an alias for fade, kept for configuration
	// compatibility with older servers
	TransitionSlide TransitionEffect = "slide"
	// TransitionKenBurns slowly scales and pans the image for its whole
	// display duration
	TransitionKenBurns TransitionEffect = "kenburns"
)

// ScalingMode mirrors object-fit semantics for media surfaces
type ScalingMode string

const (
	// ScaleCover fills the screen, cropping overflow
	ScaleCover ScalingMode = "cover"
	// ScaleContain letterboxes the media inside the screen
	ScaleContain ScalingMode = "contain"
	// ScaleStretch distorts the media to the exact screen size
	ScaleStretch ScalingMode = "stretch"
)

// PlaybackConfig drives the scheduler's timing decisions for a session
type PlaybackConfig struct {
	// ImageDuration is how long a still image stays on screen
	ImageDuration time.Duration
	// Transition is the effect applied when an image becomes active
	Transition TransitionEffect
	// ImageScaling applies to the image surface
	ImageScaling ScalingMode
	// VideoScaling applies to the video surface
	VideoScaling ScalingMode
	// VideoAutoplay is carried from the server configuration; the player
	// always starts playback itself since nobody is there to press play
	VideoAutoplay bool
	// VideoLoop restarts a video from the beginning when it ends
	VideoLoop bool
	// VideoMuted silences video playback
	VideoMuted bool
	// VideoControls shows the renderer's playback controls if it has any
	VideoControls bool
	// VideoDurationCap limits how long one video may play; zero means
	// uncapped
	VideoDurationCap time.Duration
	// VideoRandomStart seeks to a random offset when the natural duration
	// exceeds the cap, so repeated playlist cycles show varied footage
	VideoRandomStart bool
}

// OverlayPosition is one of the 9 anchor cells of the 3x3 placement grid
type OverlayPosition string

const (
	PositionTopLeft      OverlayPosition = "top-left"
	PositionTopCenter    OverlayPosition = "top-center"
	PositionTopRight     OverlayPosition = "top-right"
	PositionMiddleLeft   OverlayPosition = "middle-left"
	PositionMiddleCenter OverlayPosition = "middle-center"
	PositionMiddleRight  OverlayPosition = "middle-right"
	PositionBottomLeft   OverlayPosition = "bottom-left"
	PositionBottomCenter OverlayPosition = "bottom-center"
	PositionBottomRight  OverlayPosition = "bottom-right"
)

// OverlayDisplayMode selects which overlay blocks are rendered and how
// they are arranged
type OverlayDisplayMode string

const (
	// OverlayTextOnly renders just the text block
	OverlayTextOnly OverlayDisplayMode = "text_only"
	// OverlayLogoOnly renders just the logo block
	OverlayLogoOnly OverlayDisplayMode = "logo_only"
	// OverlayLogoTextSide renders the logo left of the text
	OverlayLogoTextSide OverlayDisplayMode = "logo_and_text_side"
	// OverlayLogoTextBelow stacks the logo above centered text
	OverlayLogoTextBelow OverlayDisplayMode = "logo_and_text_below"
)

// OverlayConfig describes the branding box composed by the overlay renderer
type OverlayConfig struct {
	Enabled         bool
	Text            string
	Position        OverlayPosition
	FontSizePx      int
	FontColor       string
	BackgroundColor string
	PaddingPx       int
	DisplayMode     OverlayDisplayMode
	LogoEnabled     bool
	// LogoURL points at the server-hosted logo asset; empty means the
	// server has no logo uploaded
	LogoURL string
}

// Burn-in target region identifiers. These name the shiftable screen
// regions a renderer exposes; the media surfaces themselves are never
// shifted.
const (
	RegionOverlay = "overlay"
	RegionTime    = "time"
	RegionWeather = "weather"
	RegionRSS     = "rss"
	RegionStatus  = "status"
)

// KnownRegions lists every region identifier a burn-in configuration may
// reference
var KnownRegions = []string{RegionOverlay, RegionTime, RegionWeather, RegionRSS, RegionStatus}

// BurnInConfig drives the periodic pixel-shift mitigation
type BurnInConfig struct {
	Enabled bool
	// Regions are the target region identifiers to nudge each tick
	Regions []string
	// Interval between shifts
	Interval time.Duration
	// StrengthPx bounds each axis offset: offsets are drawn uniformly
	// from [-StrengthPx, +StrengthPx]
	StrengthPx int
}

// ScrollSpeed tunes the RSS ticker animation
type ScrollSpeed string

const (
	ScrollSlow   ScrollSpeed = "slow"
	ScrollMedium ScrollSpeed = "medium"
	ScrollFast   ScrollSpeed = "fast"
)

// TimeWidgetConfig enables the on-screen clock
type TimeWidgetConfig struct {
	Enabled bool
}

// WeatherWidgetConfig enables the weather panel for a location
type WeatherWidgetConfig struct {
	Enabled  bool
	Location string
}

// RSSWidgetConfig enables the scrolling headline ticker
type RSSWidgetConfig struct {
	Enabled     bool
	FeedURL     string
	ScrollSpeed ScrollSpeed
}

// WidgetConfig groups the per-widget settings from the snapshot
type WidgetConfig struct {
	Time    TimeWidgetConfig
	Weather WeatherWidgetConfig
	RSS     RSSWidgetConfig
}

// Snapshot is the immutable per-session input: the playlist plus every
// configuration blob, captured together with the server's config version
// marker. A session consumes exactly one snapshot; configuration changes
// are handled by discarding the session and loading a fresh snapshot,
// never by patching a live one.
type Snapshot struct {
	// Timestamp is the config version marker compared on every poll
	Timestamp float64
	// MediaBaseURL prefixes every media fetch URL
	MediaBaseURL string
	// Media is the ordered playlist
	Media    []MediaItem
	Playback PlaybackConfig
	Overlay  OverlayConfig
	BurnIn   BurnInConfig
	Widgets  WidgetConfig
}

// ScreenResolution holds the display dimensions
type ScreenResolution struct {
	Width  int
	Height int
}
