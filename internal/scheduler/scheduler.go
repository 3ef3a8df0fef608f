package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

const (
	// retryDelay is how long a failed item blocks the loop before the
	// playlist skips past it
	retryDelay = 3 * time.Second

	defaultSettleDelay = 150 * time.Millisecond
)

// State names one phase of the playback loop
type State string

const (
	// StateIdle means started but nothing activated yet (empty playlist)
	StateIdle State = "idle"
	// StateLoading means a transition is in progress
	StateLoading State = "loading"
	// StateShowing means exactly one surface is active
	StateShowing State = "showing"
	// StateDestroyed is terminal
	StateDestroyed State = "destroyed"
)

// TransitionPlanner builds the show plan applied when an image becomes
// active
type TransitionPlanner interface {
	Plan(effect domain.TransitionEffect, displayDur time.Duration, size domain.ScreenResolution) domain.TransitionPlan
}

// MediaResolver maps playlist items onto playable URLs and warms the
// local cache
type MediaResolver interface {
	// Resolve returns the best URL for an item, preferring the cache
	Resolve(item domain.MediaItem) string

	// Preload warms the cache for an upcoming item
	Preload(ctx context.Context, item domain.MediaItem) error
}

// Status is an immutable snapshot of the loop state for the status
// listener
type Status struct {
	State       State
	Index       int
	PlaylistLen int
	Current     string
	CurrentKind domain.MediaKind
}

// Deps bundles everything one scheduler instance needs
type Deps struct {
	Logger   *zap.Logger
	Snapshot *domain.Snapshot
	Renderer domain.Renderer
	Planner  TransitionPlanner
	Resolver MediaResolver
	Screen   domain.ScreenResolution
	// Metrics may be nil
	Metrics domain.Metrics
	// Settle is the blank gap between deactivating one item and loading
	// the next; zero or negative means the default
	Settle time.Duration
	// Retry is how long a failed item blocks the loop before it is
	// skipped; zero or negative means the default
	Retry time.Duration
	// RNG drives video start offsets; nil means time-seeded
	RNG *rand.Rand
}

// Scheduler drives one session's playback: a single goroutine owns the
// playlist index, the active surface and every timer, and consumes
// surface completions from the renderer. It is built from one immutable
// snapshot and never reconfigured; a config change discards the whole
// scheduler and builds a fresh one.
type Scheduler struct {
	logger   *zap.Logger
	snapshot *domain.Snapshot
	renderer domain.Renderer
	planner  TransitionPlanner
	resolver MediaResolver
	screen   domain.ScreenResolution
	metrics  domain.Metrics
	settle   time.Duration
	retry    time.Duration
	rng      *rand.Rand

	advanceReq  chan struct{}
	destroyCh   chan struct{}
	destroyOnce sync.Once
	done        chan struct{}

	mu      sync.Mutex
	started bool

	// Everything below is owned by the run goroutine
	index         int
	state         State
	transitioning bool
	activeKind    domain.MediaKind
	token         uint64
	loadCtx       context.Context
	loadCancel    context.CancelFunc

	advanceTimer *time.Timer
	advanceC     <-chan time.Time
	settleTimer  *time.Timer
	settleC      <-chan time.Time
	cutoffTimer  *time.Timer
	cutoffC      <-chan time.Time
	retryTimer   *time.Timer
	retryC       <-chan time.Time

	statusMu sync.Mutex
	status   Status
}

// New creates a scheduler for one session snapshot
func New(deps Deps) *Scheduler {
	settle := deps.Settle
	if settle <= 0 {
		settle = defaultSettleDelay
	}
	retry := deps.Retry
	if retry <= 0 {
		retry = retryDelay
	}
	rng := deps.RNG
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(time.Now().Unix())))
	}

	s := &Scheduler{
		logger:     deps.Logger,
		snapshot:   deps.Snapshot,
		renderer:   deps.Renderer,
		planner:    deps.Planner,
		resolver:   deps.Resolver,
		screen:     deps.Screen,
		metrics:    deps.Metrics,
		settle:     settle,
		retry:      retry,
		rng:        rng,
		advanceReq: make(chan struct{}, 1),
		destroyCh:  make(chan struct{}),
		done:       make(chan struct{}),
		index:      -1,
		state:      StateIdle,
	}
	s.publishStatus()
	return s
}

// Start launches the playback loop. An empty playlist is not an error:
// the scheduler idles behind a status message so a config change can
// still revive the kiosk.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("scheduler already started")
	}
	s.started = true
	s.mu.Unlock()

	s.loadCtx, s.loadCancel = context.WithCancel(ctx)

	n := len(s.snapshot.Media)
	s.logger.Info("Scheduler starting",
		zap.Int("playlistSize", n),
		zap.Duration("imageDuration", s.snapshot.Playback.ImageDuration),
		zap.String("transition", string(s.snapshot.Playback.Transition)))

	if n == 0 {
		s.logger.Warn("Playlist is empty, nothing to play")
		s.renderer.ShowStatus("No media configured")
	}

	go s.run()

	if n > 0 {
		s.Advance()
	}
	return nil
}

// Advance asynchronously requests a skip to the next item. Requests
// during a transition are absorbed.
func (s *Scheduler) Advance() {
	select {
	case s.advanceReq <- struct{}{}:
	default:
	}
}

// Destroy tears the loop down: every timer stopped, in-flight loads
// canceled, both surfaces deactivated. Idempotent, and terminal.
func (s *Scheduler) Destroy() {
	s.mu.Lock()
	if !s.started {
		// Mark started so a destroyed scheduler cannot be revived, and
		// release done so repeated Destroy calls return immediately
		s.started = true
		s.destroyOnce.Do(func() {
			close(s.destroyCh)
			close(s.done)
		})
		s.mu.Unlock()
		s.setStatus(Status{State: StateDestroyed, Index: -1, PlaylistLen: len(s.snapshot.Media)})
		return
	}
	s.mu.Unlock()

	s.destroyOnce.Do(func() { close(s.destroyCh) })
	<-s.done
}

// Status returns a copy of the current loop state
func (s *Scheduler) Status() Status {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.status
}

func (s *Scheduler) run() {
	defer close(s.done)
	defer s.teardown()

	for {
		select {
		case <-s.loadCtx.Done():
			return
		case <-s.destroyCh:
			return
		case <-s.advanceReq:
			s.advance()
		case ev := <-s.renderer.Events():
			s.handleSurfaceEvent(ev)
		case <-s.settleC:
			s.settleTimer = nil
			s.settleC = nil
			s.activateNext()
		case <-s.advanceC:
			s.advanceTimer = nil
			s.advanceC = nil
			s.logger.Debug("Display duration elapsed")
			s.advance()
		case <-s.cutoffC:
			s.cutoffTimer = nil
			s.cutoffC = nil
			s.logger.Debug("Video duration cap reached")
			s.advance()
		case <-s.retryC:
			s.retryTimer = nil
			s.retryC = nil
			s.advance()
		}
	}
}

// advance begins the switch to the next playlist item: deactivate the
// current surface, let the display settle, then load
func (s *Scheduler) advance() {
	if len(s.snapshot.Media) == 0 {
		s.logger.Debug("Advance ignored, playlist empty")
		return
	}
	if s.transitioning {
		s.logger.Debug("Advance ignored, transition in progress")
		return
	}

	s.transitioning = true
	s.state = StateLoading
	s.stopAdvanceTimer()
	s.stopCutoffTimer()
	// A pending failure retry is itself an advance; this one supersedes it
	s.stopRetryTimer()
	s.deactivate()
	s.armSettleTimer(s.settle)
	s.publishStatus()
}

// activateNext runs after the settle gap: move the index and load
func (s *Scheduler) activateNext() {
	n := len(s.snapshot.Media)
	s.index = (s.index + 1) % n
	item := s.snapshot.Media[s.index]
	s.token++

	s.logger.Info("Activating media item",
		zap.Int("index", s.index),
		zap.String("filename", item.Filename),
		zap.String("kind", string(item.Kind)))
	s.publishStatus()

	url := s.resolver.Resolve(item)

	switch item.Kind {
	case domain.KindImage:
		img := s.renderer.ImageSurface()
		if img == nil {
			s.handleFailure(errors.New("renderer has no image surface"))
			return
		}
		img.Load(s.loadCtx, url, domain.ImageOptions{
			Scaling: s.snapshot.Playback.ImageScaling,
		}, s.token)
	case domain.KindVideo:
		vid := s.renderer.VideoSurface()
		if vid == nil {
			s.handleFailure(errors.New("renderer has no video surface"))
			return
		}
		vid.Load(s.loadCtx, url, domain.VideoOptions{
			Scaling:      s.snapshot.Playback.VideoScaling,
			Muted:        s.snapshot.Playback.VideoMuted,
			Loop:         s.snapshot.Playback.VideoLoop,
			ShowControls: s.snapshot.Playback.VideoControls,
		}, s.token)
	default:
		s.handleFailure(fmt.Errorf("unplayable media kind %q", item.Kind))
	}
}

func (s *Scheduler) handleSurfaceEvent(ev domain.SurfaceEvent) {
	if ev.Token != s.token {
		s.logger.Debug("Dropping stale surface event",
			zap.Uint64("token", ev.Token),
			zap.Uint64("current", s.token),
			zap.String("kind", string(ev.Kind)))
		return
	}

	switch ev.Kind {
	case domain.SurfaceReady:
		s.handleReady(ev)
	case domain.SurfaceEnded:
		s.logger.Debug("Video reached its natural end")
		s.advance()
	case domain.SurfaceFailed:
		s.handleFailure(ev.Err)
	}
}

func (s *Scheduler) handleReady(ev domain.SurfaceEvent) {
	if !s.transitioning {
		s.logger.Debug("Ready event outside a transition, ignoring")
		return
	}

	item := s.snapshot.Media[s.index]
	switch item.Kind {
	case domain.KindImage:
		s.showImage()
	case domain.KindVideo:
		s.playVideo(ev.Duration)
	}
}

func (s *Scheduler) showImage() {
	pb := s.snapshot.Playback
	plan := s.planner.Plan(pb.Transition, pb.ImageDuration, s.screen)
	if err := s.renderer.ImageSurface().Show(plan); err != nil {
		s.handleFailure(fmt.Errorf("failed to show image: %w", err))
		return
	}

	s.transitioning = false
	s.state = StateShowing
	s.activeKind = domain.KindImage
	s.reportShown(domain.KindImage)

	// The warm-up for the following item must be in flight before the
	// display timer starts counting down
	s.preloadNext()
	s.armAdvanceTimer(pb.ImageDuration)
	s.publishStatus()
}

func (s *Scheduler) playVideo(natural time.Duration) {
	pb := s.snapshot.Playback
	start := s.videoStart(natural)
	if err := s.renderer.VideoSurface().Play(start); err != nil {
		s.handleFailure(fmt.Errorf("failed to start video: %w", err))
		return
	}

	s.transitioning = false
	s.state = StateShowing
	s.activeKind = domain.KindVideo
	s.reportShown(domain.KindVideo)
	s.preloadNext()

	switch {
	case pb.VideoDurationCap > 0:
		s.armCutoffTimer(pb.VideoDurationCap)
	case pb.VideoLoop:
		// A looping surface never reports Ended; supervise with the
		// image cadence so the playlist keeps moving
		s.armAdvanceTimer(pb.ImageDuration)
	}
	// Neither cap nor loop: the Ended event is trusted exclusively

	s.publishStatus()
}

// videoStart picks the random start offset: only when a cap is set,
// random start is on and the footage is longer than the cap
func (s *Scheduler) videoStart(natural time.Duration) time.Duration {
	pb := s.snapshot.Playback
	if pb.VideoDurationCap <= 0 || !pb.VideoRandomStart || natural <= pb.VideoDurationCap {
		return 0
	}
	bound := int64(natural - pb.VideoDurationCap)
	return time.Duration(s.rng.Int64N(bound + 1))
}

// handleFailure logs, counts and schedules a skip past the broken item.
// The loop never stops on bad media; a kiosk with one corrupt file must
// keep cycling the rest.
func (s *Scheduler) handleFailure(err error) {
	s.logger.Warn("Media item failed, skipping after delay",
		zap.Int("index", s.index),
		zap.Duration("retryIn", s.retry),
		zap.Error(err))
	if s.metrics != nil {
		s.metrics.MediaLoadFailure()
	}

	s.stopAdvanceTimer()
	s.stopCutoffTimer()
	s.deactivate()
	if s.index >= 0 {
		s.hideSurfaceFor(s.snapshot.Media[s.index].Kind)
	}

	s.transitioning = false
	s.state = StateLoading
	s.armRetryTimer(s.retry)
	s.publishStatus()
}

// preloadNext warms the cache for the upcoming item, best effort
func (s *Scheduler) preloadNext() {
	n := len(s.snapshot.Media)
	if n < 2 {
		return
	}
	next := s.snapshot.Media[(s.index+1)%n]
	ctx := s.loadCtx
	go func() {
		if err := s.resolver.Preload(ctx, next); err != nil {
			s.logger.Warn("Preload failed",
				zap.String("filename", next.Filename),
				zap.Error(err))
		}
	}()
}

// deactivate removes whatever is currently on screen
func (s *Scheduler) deactivate() {
	s.hideSurfaceFor(s.activeKind)
	s.activeKind = domain.KindUnknown
}

func (s *Scheduler) hideSurfaceFor(kind domain.MediaKind) {
	switch kind {
	case domain.KindImage:
		if img := s.renderer.ImageSurface(); img != nil {
			img.Hide()
		}
	case domain.KindVideo:
		if vid := s.renderer.VideoSurface(); vid != nil {
			vid.Stop()
		}
	}
}

func (s *Scheduler) reportShown(kind domain.MediaKind) {
	if s.metrics != nil {
		s.metrics.ItemShown(kind)
	}
}

// teardown runs exactly once as the loop exits
func (s *Scheduler) teardown() {
	s.stopAdvanceTimer()
	s.stopSettleTimer()
	s.stopCutoffTimer()
	s.stopRetryTimer()
	s.loadCancel()

	if img := s.renderer.ImageSurface(); img != nil {
		img.Hide()
	}
	if vid := s.renderer.VideoSurface(); vid != nil {
		vid.Stop()
	}

	s.transitioning = false
	s.activeKind = domain.KindUnknown
	s.state = StateDestroyed
	s.publishStatus()
	s.logger.Info("Scheduler destroyed")
}

func (s *Scheduler) armAdvanceTimer(d time.Duration) {
	s.stopAdvanceTimer()
	s.advanceTimer = time.NewTimer(d)
	s.advanceC = s.advanceTimer.C
}

func (s *Scheduler) stopAdvanceTimer() {
	if s.advanceTimer != nil {
		s.advanceTimer.Stop()
		s.advanceTimer = nil
		s.advanceC = nil
	}
}

func (s *Scheduler) armSettleTimer(d time.Duration) {
	s.stopSettleTimer()
	s.settleTimer = time.NewTimer(d)
	s.settleC = s.settleTimer.C
}

func (s *Scheduler) stopSettleTimer() {
	if s.settleTimer != nil {
		s.settleTimer.Stop()
		s.settleTimer = nil
		s.settleC = nil
	}
}

func (s *Scheduler) armCutoffTimer(d time.Duration) {
	s.stopCutoffTimer()
	s.cutoffTimer = time.NewTimer(d)
	s.cutoffC = s.cutoffTimer.C
}

func (s *Scheduler) stopCutoffTimer() {
	if s.cutoffTimer != nil {
		s.cutoffTimer.Stop()
		s.cutoffTimer = nil
		s.cutoffC = nil
	}
}

func (s *Scheduler) armRetryTimer(d time.Duration) {
	s.stopRetryTimer()
	s.retryTimer = time.NewTimer(d)
	s.retryC = s.retryTimer.C
}

func (s *Scheduler) stopRetryTimer() {
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
		s.retryC = nil
	}
}

func (s *Scheduler) publishStatus() {
	st := Status{
		State:       s.state,
		Index:       s.index,
		PlaylistLen: len(s.snapshot.Media),
	}
	if s.index >= 0 && s.index < len(s.snapshot.Media) {
		item := s.snapshot.Media[s.index]
		st.Current = item.Filename
		st.CurrentKind = item.Kind
	}
	s.setStatus(st)
}

func (s *Scheduler) setStatus(st Status) {
	s.statusMu.Lock()
	s.status = st
	s.statusMu.Unlock()
}
