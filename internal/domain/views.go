package domain

import "time"

// TransitionPlan is the computed recipe a renderer follows when an image
// becomes active. Plans are pure data so the same computation drives any
// backend (and is directly assertable in tests).
type TransitionPlan struct {
	Effect TransitionEffect
	// FadeDuration is fixed per effect, independent of the display duration
	FadeDuration time.Duration
	// StartDelay postpones the ken burns animation so it does not race
	// the fade-in
	StartDelay time.Duration
	// StartScale and EndScale are drawn from {1.0, 1.15} in random order
	StartScale float64
	EndScale   float64
	// Pan offsets in pixels, bounded by half the scale delta of each
	// screen dimension
	StartPanX float64
	StartPanY float64
	EndPanX   float64
	EndPanY   float64
	// Transform origin in percent of the element, inside the central
	// 50-75% box
	OriginXPct float64
	OriginYPct float64
	// AnimDuration spans the whole per-item display duration
	AnimDuration time.Duration
	// Deferred marks a plan computed against a zero-size element; the
	// renderer must re-measure on its next paint before animating
	Deferred bool
}

// OverlayBlockKind distinguishes overlay content blocks
type OverlayBlockKind string

const (
	// BlockLogo is the uploaded logo image
	BlockLogo OverlayBlockKind = "logo"
	// BlockText is the configured overlay text
	BlockText OverlayBlockKind = "text"
)

// OverlayBlock is one ordered piece of overlay content
type OverlayBlock struct {
	Kind OverlayBlockKind
	// Text content, only for BlockText
	Text string
	// LogoURL, only for BlockLogo
	LogoURL string
	// TrailingMarginPx separates a side-by-side logo from its text
	TrailingMarginPx int
	// Centered applies in stacked layouts
	Centered bool
}

// OverlayView is the fully computed overlay box a renderer displays.
// Views are rebuilt wholesale per session; nothing patches a live view.
type OverlayView struct {
	// Empty means nothing renderable was configured; the renderer hides
	// the box entirely
	Empty           bool
	Position        OverlayPosition
	MarginPx        int
	FontSizePx      int
	FontColor       string
	BackgroundColor string
	PaddingPx       int
	// Stacked arranges blocks vertically instead of side by side
	Stacked bool
	Blocks  []OverlayBlock
}

// TimeView is the clock widget state for a session
type TimeView struct {
	Enabled bool
}

// WeatherView carries one weather report fetched at session build
type WeatherView struct {
	Enabled     bool
	Location    string
	TempF       float64
	Description string
	Icon        string
}

// RSSItem is one headline of the ticker
type RSSItem struct {
	Title string
	Link  string
}

// RSSView carries the headlines fetched at session build
type RSSView struct {
	Enabled bool
	Speed   ScrollSpeed
	Items   []RSSItem
}

// WidgetViews groups every widget view; applied to the renderer as one
// unit per session
type WidgetViews struct {
	Time    TimeView
	Weather WeatherView
	RSS     RSSView
}

// SurfaceEventKind classifies asynchronous surface completions
type SurfaceEventKind string

const (
	// SurfaceReady fires when a load finished and the media can be shown
	SurfaceReady SurfaceEventKind = "ready"
	// SurfaceEnded fires when a non-looping video reaches its natural end
	SurfaceEnded SurfaceEventKind = "ended"
	// SurfaceFailed fires on any load or playback error
	SurfaceFailed SurfaceEventKind = "failed"
)

// SurfaceEvent is delivered on the renderer's event channel. Token echoes
// the load request's token so consumers can discard events that belong to
// an abandoned load; a stale token makes the event inert by construction.
type SurfaceEvent struct {
	Token uint64
	Kind  SurfaceEventKind
	// Duration is the media's natural duration on video SurfaceReady
	// events, zero when unknown
	Duration time.Duration
	Err      error
}

// ImageOptions parameterize one image surface load
type ImageOptions struct {
	Scaling ScalingMode
}

// VideoOptions parameterize one video surface load
type VideoOptions struct {
	Scaling      ScalingMode
	Muted        bool
	Loop         bool
	ShowControls bool
}

// InputEventKind classifies user input forwarded by a renderer
type InputEventKind string

const (
	// InputTap is a tap or mouse click anywhere on the output
	InputTap InputEventKind = "tap"
	// InputKey is a key press
	InputKey InputEventKind = "key"
)

// InputEvent is a user gesture or key press from the renderer's output
type InputEvent struct {
	Kind InputEventKind
	// Key name for InputKey events
	Key string
	At  time.Time
}
