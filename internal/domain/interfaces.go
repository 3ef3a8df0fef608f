package domain

import (
	"context"
	"time"
)

// ImageSurface is the still-image half of a renderer's surface pair.
// Load is asynchronous: it returns immediately and the outcome arrives as
// a SurfaceEvent carrying the same token on the renderer's event channel.
type ImageSurface interface {
	// Load begins fetching and decoding the image at url
	Load(ctx context.Context, url string, opts ImageOptions, token uint64)

	// Show makes the loaded image visible, applying the transition plan.
	// Only valid after a SurfaceReady event for the current token.
	Show(plan TransitionPlan) error

	// Hide removes the image from screen
	Hide()
}

// VideoSurface is the video half of a renderer's surface pair.
// Load probes the media and reports readiness (with the natural duration
// when known) before anything is shown, so a half-loaded frame never
// flashes on screen.
type VideoSurface interface {
	// Load begins preparing the video at url
	Load(ctx context.Context, url string, opts VideoOptions, token uint64)

	// Play seeks to start and begins playback.
	// Only valid after a SurfaceReady event for the current token.
	Play(start time.Duration) error

	// Stop halts playback and removes the video from screen
	Stop()
}

// Renderer is a display backend: it owns the single pair of media
// surfaces plus the ancillary screen regions (overlay, widgets, status).
// Exactly one renderer lives for the whole process; per-session content
// is pushed into it and replaced wholesale on restart.
type Renderer interface {
	// ImageSurface returns the image surface, nil if the backend lacks one
	ImageSurface() ImageSurface

	// VideoSurface returns the video surface, nil if the backend lacks one
	VideoSurface() VideoSurface

	// Events returns the channel both surfaces deliver their
	// ready/ended/failed completions on
	Events() <-chan SurfaceEvent

	// SetOverlay replaces the overlay box content
	SetOverlay(view OverlayView)

	// SetWidgets replaces every widget view
	SetWidgets(views WidgetViews)

	// ShowStatus renders a status line (empty playlist, fatal errors)
	ShowStatus(message string)

	// Shift translates a named region by (dx, dy) pixels
	Shift(region string, dx, dy int)

	// ResetShifts restores every region to the identity transform
	ResetShifts()

	// SetCursorHidden toggles pointer visibility over the output
	SetCursorHidden(hidden bool)

	// Close releases the backend; no events are delivered afterwards
	Close() error
}

// InputSource is implemented by renderers that can forward user input.
// The fullscreen controller consumes it when available; backends without
// an input path simply do not implement it.
type InputSource interface {
	// Inputs returns the renderer's input event channel
	Inputs() <-chan InputEvent
}

// SnapshotSource loads the immutable session snapshot from the server or
// from a local file
type SnapshotSource interface {
	// Load fetches and decodes one snapshot
	Load(ctx context.Context) (*Snapshot, error)
}

// Inhibitor keeps the display awake while the player runs
type Inhibitor interface {
	// Inhibit asks the platform to suspend screen blanking
	Inhibit(ctx context.Context) error

	// Release undoes Inhibit
	Release(ctx context.Context) error
}

// Metrics is the counter surface the playback components report into.
// The concrete implementation lives with the status listener; components
// only ever see this interface.
type Metrics interface {
	// ItemShown counts one media item becoming active
	ItemShown(kind MediaKind)

	// MediaLoadFailure counts one skipped item
	MediaLoadFailure()

	// ConfigPoll counts one version poll by outcome
	ConfigPoll(ok bool)

	// SessionRestart counts one watcher-triggered restart
	SessionRestart()

	// SetPlaylistSize records the current session's playlist length
	SetPlaylistSize(n int)

	// SetConfigTimestamp records the current session's version marker
	SetConfigTimestamp(ts float64)
}

// Config defines the process-level configuration surface
type Config interface {
	// GetServerURL returns the signage server base URL, empty in
	// snapshot-file mode
	GetServerURL() string

	// GetSnapshotPath returns the local snapshot file path, empty when
	// the snapshot is fetched from the server
	GetSnapshotPath() string

	// GetPollInterval returns the config version poll cadence
	GetPollInterval() time.Duration

	// GetRendererMode returns the requested backend: auto, mpv or headless
	GetRendererMode() string

	// GetListenAddr returns the status listener address, empty to disable
	GetListenAddr() string

	// GetCacheDir returns the preload cache directory
	GetCacheDir() string

	// GetSettleDelay returns the fixed exit-transition settle delay
	GetSettleDelay() time.Duration

	// GetWeatherAPIKey returns the OpenWeatherMap credential, may be empty
	GetWeatherAPIKey() string
}
