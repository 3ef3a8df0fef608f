package mpv

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

const (
	eventBufferSize  = 10
	dropWarnInterval = 5 * time.Second
)

// Renderer drives one mpv subprocess per media item. mpv owns the whole
// output while a process runs, so transitions degrade to cuts and the
// overlay and widget regions are not composited; what it buys is solid
// fullscreen playback of anything ffmpeg can decode on a bare kiosk.
type Renderer struct {
	logger *zap.Logger
	binary string
	events chan domain.SurfaceEvent
	img    *imageSurface
	vid    *videoSurface
	wg     sync.WaitGroup

	mu           sync.Mutex
	cursorHidden bool
	closed       bool
	lastDropWarn time.Time
}

// New creates an mpv renderer, failing when the binary is not installed
func New(logger *zap.Logger) (*Renderer, error) {
	binary, err := exec.LookPath("mpv")
	if err != nil {
		return nil, fmt.Errorf("mpv not found in PATH: %w", err)
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		logger.Warn("ffprobe not found, video durations will be unknown")
	}

	r := &Renderer{
		logger: logger,
		binary: binary,
		events: make(chan domain.SurfaceEvent, eventBufferSize),
	}
	r.img = &imageSurface{r: r}
	r.vid = &videoSurface{r: r}

	logger.Info("mpv renderer ready", zap.String("binary", binary))
	return r, nil
}

// ImageSurface returns the image surface
func (r *Renderer) ImageSurface() domain.ImageSurface { return r.img }

// VideoSurface returns the video surface
func (r *Renderer) VideoSurface() domain.VideoSurface { return r.vid }

// Events returns the surface completion channel
func (r *Renderer) Events() <-chan domain.SurfaceEvent { return r.events }

// SetOverlay is not composited by this backend
func (r *Renderer) SetOverlay(view domain.OverlayView) {
	r.logger.Debug("Overlay not supported by mpv backend", zap.Bool("empty", view.Empty))
}

// SetWidgets is not composited by this backend
func (r *Renderer) SetWidgets(views domain.WidgetViews) {
	r.logger.Debug("Widgets not supported by mpv backend")
}

// ShowStatus logs the status line
func (r *Renderer) ShowStatus(message string) {
	r.logger.Info("Status", zap.String("message", message))
}

// Shift is not supported by this backend; mpv owns the whole output
func (r *Renderer) Shift(region string, dx, dy int) {}

// ResetShifts is not supported by this backend
func (r *Renderer) ResetShifts() {}

// SetCursorHidden applies to processes spawned afterwards
func (r *Renderer) SetCursorHidden(hidden bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursorHidden = hidden
}

// Close kills any running mpv process and stops event delivery
func (r *Renderer) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.img.Hide()
	r.vid.Stop()
	r.wg.Wait()
	r.logger.Debug("mpv renderer closed")
	return nil
}

func (r *Renderer) hideCursor() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursorHidden
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

// process wraps one spawned mpv instance. stopped marks kills we issued
// ourselves so the exit watcher can tell them from real failures.
type process struct {
	cmd     *exec.Cmd
	stopped atomic.Bool
}

func (p *process) kill() {
	if p == nil {
		return
	}
	p.stopped.Store(true)
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
}

// spawn starts mpv with the given arguments
func (r *Renderer) spawn(args []string) (*process, error) {
	cmd := exec.Command(r.binary, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start mpv: %w", err)
	}
	r.logger.Debug("mpv started",
		zap.Int("pid", cmd.Process.Pid),
		zap.Strings("args", args))
	return &process{cmd: cmd}, nil
}

// watch reaps the process and maps its exit to a surface event. A clean
// exit means Ended only where the media has a natural end; for images it
// is as wrong as a crash.
func (r *Renderer) watch(p *process, token uint64, endedOnExit bool) {
	defer r.wg.Done()

	err := p.cmd.Wait()
	if p.stopped.Load() {
		return
	}

	if err == nil && endedOnExit {
		r.emit(domain.SurfaceEvent{Token: token, Kind: domain.SurfaceEnded})
		return
	}
	if err == nil {
		err = errors.New("mpv exited unexpectedly")
	}
	r.emit(domain.SurfaceEvent{Token: token, Kind: domain.SurfaceFailed, Err: err})
}

type imageSurface struct {
	r *Renderer

	mu     sync.Mutex
	loaded bool
	url    string
	opts   domain.ImageOptions
	token  uint64
	proc   *process
}

// Load records the request and reports Ready at once; the process is
// only spawned at Show so the previous item stays on screen until then
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
	s.opts = opts
	s.token = token
	s.mu.Unlock()

	s.r.emit(domain.SurfaceEvent{Token: token, Kind: domain.SurfaceReady})
}

func (s *imageSurface) Show(plan domain.TransitionPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return errors.New("no image loaded")
	}
	if plan.Effect != "" {
		s.r.logger.Debug("Transition rendered as cut by mpv backend",
			zap.String("effect", string(plan.Effect)))
	}

	s.proc.kill()
	proc, err := s.r.spawn(imageArgs(s.url, s.opts, s.r.hideCursor()))
	if err != nil {
		return err
	}
	s.proc = proc

	s.r.wg.Add(1)
	go s.r.watch(proc, s.token, false)
	return nil
}

func (s *imageSurface) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proc.kill()
	s.proc = nil
	s.loaded = false
}

type videoSurface struct {
	r *Renderer

	mu     sync.Mutex
	loaded bool
	url    string
	opts   domain.VideoOptions
	token  uint64
	proc   *process
}

// Load probes the natural duration in the background and reports Ready
// when done. A failed probe still yields Ready with an unknown duration,
// since playback itself may well succeed.
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
	s.url = url
	s.opts = opts
	s.token = token
	s.mu.Unlock()

	s.r.wg.Add(1)
	go func() {
		defer s.r.wg.Done()

		duration, err := probeDuration(ctx, url)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			s.r.logger.Warn("Video duration probe failed",
				zap.String("url", url),
				zap.Error(err))
			duration = 0
		}
		s.r.emit(domain.SurfaceEvent{
			Token:    token,
			Kind:     domain.SurfaceReady,
			Duration: duration,
		})
	}()
}

func (s *videoSurface) Play(start time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return errors.New("no video loaded")
	}

	s.proc.kill()
	proc, err := s.r.spawn(videoArgs(s.url, s.opts, start, s.r.hideCursor()))
	if err != nil {
		return err
	}
	s.proc = proc

	s.r.wg.Add(1)
	go s.r.watch(proc, s.token, true)
	return nil
}

func (s *videoSurface) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proc.kill()
	s.proc = nil
	s.loaded = false
}

// scalingArgs maps a scaling mode onto mpv flags. Contain is mpv's
// native behavior and needs none.
func scalingArgs(mode domain.ScalingMode) []string {
	switch mode {
	case domain.ScaleCover:
		return []string{"--panscan=1.0"}
	case domain.ScaleStretch:
		return []string{"--keepaspect=no"}
	default:
		return nil
	}
}

func imageArgs(url string, opts domain.ImageOptions, hideCursor bool) []string {
	args := []string{"--fs", "--no-terminal", "--really-quiet", "--image-display-duration=inf"}
	args = append(args, scalingArgs(opts.Scaling)...)
	if hideCursor {
		args = append(args, "--cursor-autohide=always")
	}
	return append(args, url)
}

func videoArgs(url string, opts domain.VideoOptions, start time.Duration, hideCursor bool) []string {
	args := []string{"--fs", "--no-terminal", "--really-quiet", "--keep-open=no"}
	if opts.Muted {
		args = append(args, "--mute=yes")
	} else {
		args = append(args, "--mute=no")
	}
	if opts.Loop {
		args = append(args, "--loop-file=inf")
	}
	if opts.ShowControls {
		args = append(args, "--osc=yes")
	} else {
		args = append(args, "--osc=no")
	}
	if start > 0 {
		args = append(args, fmt.Sprintf("--start=%.3f", start.Seconds()))
	}
	args = append(args, scalingArgs(opts.Scaling)...)
	if hideCursor {
		args = append(args, "--cursor-autohide=always")
	}
	return append(args, url)
}
