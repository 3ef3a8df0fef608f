package headless

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

const (
	eventBufferSize  = 10
	dropWarnInterval = 5 * time.Second

	// defaultVideoRunTime stands in for a video's natural duration; the
	// surface reports it on Ready and ends playback after it elapses
	defaultVideoRunTime = 500 * time.Millisecond
)

type offset struct {
	dx, dy int
}

// Renderer is a display backend that renders nothing. Every surface
// operation succeeds immediately and is logged instead of drawn, which
// makes it the backend for hosts without mpv and for exercising the
// playback pipeline in tests.
type Renderer struct {
	logger *zap.Logger
	events chan domain.SurfaceEvent
	img    *imageSurface
	vid    *videoSurface

	mu           sync.Mutex
	overlay      domain.OverlayView
	widgets      domain.WidgetViews
	status       string
	shifts       map[string]offset
	cursorHidden bool
	closed       bool
	lastDropWarn time.Time
}

// New creates a headless renderer
func New(logger *zap.Logger) *Renderer {
	r := &Renderer{
		logger: logger,
		events: make(chan domain.SurfaceEvent, eventBufferSize),
		shifts: make(map[string]offset),
	}
	r.img = &imageSurface{r: r}
	r.vid = &videoSurface{r: r, runTime: defaultVideoRunTime}
	return r
}

// SetVideoRunTime overrides the simulated video duration. Call before
// the first load.
func (r *Renderer) SetVideoRunTime(d time.Duration) {
	r.vid.runTime = d
}

// ImageSurface returns the image surface
func (r *Renderer) ImageSurface() domain.ImageSurface { return r.img }

// VideoSurface returns the video surface
func (r *Renderer) VideoSurface() domain.VideoSurface { return r.vid }

// Events returns the surface completion channel
func (r *Renderer) Events() <-chan domain.SurfaceEvent { return r.events }

// SetOverlay replaces the overlay box content
func (r *Renderer) SetOverlay(view domain.OverlayView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlay = view
	r.logger.Debug("Overlay updated",
		zap.Bool("empty", view.Empty),
		zap.String("position", string(view.Position)),
		zap.Int("blocks", len(view.Blocks)))
}

// SetWidgets replaces every widget view
func (r *Renderer) SetWidgets(views domain.WidgetViews) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.widgets = views
	r.logger.Debug("Widgets updated",
		zap.Bool("time", views.Time.Enabled),
		zap.Bool("weather", views.Weather.Enabled),
		zap.Bool("rss", views.RSS.Enabled))
}

// ShowStatus renders a status line, which here means logging it
func (r *Renderer) ShowStatus(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = message
	r.logger.Info("Status", zap.String("message", message))
}

// Shift translates a named region by (dx, dy) pixels
func (r *Renderer) Shift(region string, dx, dy int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shifts[region] = offset{dx: dx, dy: dy}
	r.logger.Debug("Region shifted",
		zap.String("region", region),
		zap.Int("dx", dx),
		zap.Int("dy", dy))
}

// ResetShifts restores every region to the identity transform
func (r *Renderer) ResetShifts() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shifts = make(map[string]offset)
	r.logger.Debug("Region shifts reset")
}

// SetCursorHidden toggles pointer visibility
func (r *Renderer) SetCursorHidden(hidden bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursorHidden = hidden
}

// Close releases the backend; pending simulated events are discarded
func (r *Renderer) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.img.Hide()
	r.vid.Stop()
	r.logger.Debug("Headless renderer closed")
	return nil
}

// emit delivers a surface event without ever blocking the caller
func (r *Renderer) emit(ev domain.SurfaceEvent) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return
	}

	select {
	case r.events <- ev:
	default:
		r.mu.Lock()
		if time.Since(r.lastDropWarn) > dropWarnInterval {
			r.lastDropWarn = time.Now()
			r.logger.Warn("Surface event dropped, consumer too slow",
				zap.String("kind", string(ev.Kind)),
				zap.Uint64("token", ev.Token))
		}
		r.mu.Unlock()
	}
}

type imageSurface struct {
	r *Renderer

	mu      sync.Mutex
	loaded  bool
	visible bool
	url     string
}

func (s *imageSurface) Load(ctx context.Context, url string, opts domain.ImageOptions, token uint64) {
	if ctx.Err() != nil {
		return
	}
	if url == "" {
		s.r.emit(domain.SurfaceEvent{
			Token: token,
			Kind:  domain.SurfaceFailed,
			Err:   errors.New("empty image URL"),
		})
		return
	}

	s.mu.Lock()
	s.loaded = true
	s.url = url
	s.mu.Unlock()

	s.r.logger.Debug("Image loaded",
		zap.String("url", url),
		zap.String("scaling", string(opts.Scaling)),
		zap.Uint64("token", token))
	s.r.emit(domain.SurfaceEvent{Token: token, Kind: domain.SurfaceReady})
}

func (s *imageSurface) Show(plan domain.TransitionPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return errors.New("no image loaded")
	}
	s.visible = true
	s.r.logger.Debug("Image shown",
		zap.String("url", s.url),
		zap.String("effect", string(plan.Effect)))
	return nil
}

func (s *imageSurface) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
	s.visible = false
}

type videoSurface struct {
	r       *Renderer
	runTime time.Duration

	mu       sync.Mutex
	loaded   bool
	playing  bool
	loop     bool
	token    uint64
	endTimer *time.Timer
}

func (s *videoSurface) Load(ctx context.Context, url string, opts domain.VideoOptions, token uint64) {
	if ctx.Err() != nil {
		return
	}
	if url == "" {
		s.r.emit(domain.SurfaceEvent{
			Token: token,
			Kind:  domain.SurfaceFailed,
			Err:   errors.New("empty video URL"),
		})
		return
	}

	s.mu.Lock()
	s.loaded = true
	s.loop = opts.Loop
	s.token = token
	s.mu.Unlock()

	s.r.logger.Debug("Video loaded",
		zap.String("url", url),
		zap.Bool("loop", opts.Loop),
		zap.Uint64("token", token))
	s.r.emit(domain.SurfaceEvent{
		Token:    token,
		Kind:     domain.SurfaceReady,
		Duration: s.runTime,
	})
}

func (s *videoSurface) Play(start time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return errors.New("no video loaded")
	}
	s.playing = true

	if !s.loop {
		token := s.token
		s.endTimer = time.AfterFunc(s.runTime, func() {
			s.r.emit(domain.SurfaceEvent{Token: token, Kind: domain.SurfaceEnded})
		})
	}

	s.r.logger.Debug("Video playing",
		zap.Duration("start", start),
		zap.Bool("loop", s.loop))
	return nil
}

func (s *videoSurface) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.endTimer != nil {
		s.endTimer.Stop()
		s.endTimer = nil
	}
	s.loaded = false
	s.playing = false
}
