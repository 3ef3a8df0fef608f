package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/showgo/player/internal/burnin"
	"github.com/showgo/player/internal/configwatch"
	"github.com/showgo/player/internal/domain"
	"github.com/showgo/player/internal/fullscreen"
	"github.com/showgo/player/internal/media"
	"github.com/showgo/player/internal/overlay"
	"github.com/showgo/player/internal/scheduler"
	"github.com/showgo/player/internal/transition"
	"github.com/showgo/player/internal/widgets"
)

// snapshotRetryDelay paces snapshot load attempts when the server is
// unreachable. The screen is unattended, so the loop never gives up.
const snapshotRetryDelay = 10 * time.Second

// ErrMissingSurface means the renderer cannot present media at all.
// There is no session to run without surfaces; the daemon exits and the
// supervisor decides what happens next.
var ErrMissingSurface = errors.New("renderer is missing a media surface")

// Info is the manager's state snapshot for the status listener
type Info struct {
	SessionID       string
	State           string
	Index           int
	PlaylistLen     int
	Current         string
	ConfigTimestamp float64
	Restarts        int
	Uptime          time.Duration
}

// Deps bundles the process-level collaborators the manager needs
type Deps struct {
	Logger   *zap.Logger
	Config   domain.Config
	Source   domain.SnapshotSource
	Renderer domain.Renderer
	Screen   domain.ScreenResolution
	// Metrics may be nil
	Metrics domain.Metrics
	// OnFatal is invoked after an unrecoverable error is logged; the
	// caller uses it to stop the daemon. May be nil.
	OnFatal func(error)
	// SnapshotRetry overrides the load retry delay; zero or negative
	// means the default
	SnapshotRetry time.Duration
}

// Manager owns the session lifecycle: load a config snapshot, assemble
// the per-session components around the shared renderer, run until the
// config watcher reports a change, tear everything down and start over.
// Sessions are immutable; reconfiguration is always a full rebuild.
type Manager struct {
	logger   *zap.Logger
	cfg      domain.Config
	source   domain.SnapshotSource
	renderer domain.Renderer
	screen   domain.ScreenResolution
	metrics  domain.Metrics
	onFatal  func(error)
	retryIn  time.Duration

	engine  *transition.Engine
	prober  *media.Prober
	widgets *widgets.Builder
	adapter fullscreen.WindowAdapter
	inputs  domain.InputSource
	version configwatch.VersionClient

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	stateMu   sync.Mutex
	sessionID string
	timestamp float64
	restarts  int
	startedAt time.Time
	sched     *scheduler.Scheduler
}

// New wires a manager from process-level dependencies
func New(deps Deps) (*Manager, error) {
	retryIn := deps.SnapshotRetry
	if retryIn <= 0 {
		retryIn = snapshotRetryDelay
	}
	m := &Manager{
		logger:   deps.Logger,
		cfg:      deps.Config,
		source:   deps.Source,
		renderer: deps.Renderer,
		screen:   deps.Screen,
		metrics:  deps.Metrics,
		onFatal:  deps.OnFatal,
		retryIn:  retryIn,
		engine:   transition.NewEngine(deps.Logger, nil),
		prober:   media.NewProber(deps.Logger),
		widgets:  widgets.NewBuilder(deps.Logger, deps.Config),
		adapter:  fullscreen.DetectAdapter(deps.Logger),
	}

	if src, ok := deps.Renderer.(domain.InputSource); ok {
		m.inputs = src
	}

	if serverURL := deps.Config.GetServerURL(); serverURL != "" {
		client, err := configwatch.NewHTTPVersionClient(serverURL)
		if err != nil {
			return nil, fmt.Errorf("failed to build version client: %w", err)
		}
		m.version = client
	}

	return m, nil
}

// Start launches the session loop in the background
func (m *Manager) Start(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return errors.New("session manager already running")
	}
	m.running = true

	// The lifecycle hook context only spans startup; the loop needs its
	// own, canceled in Stop
	runCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	m.stateMu.Lock()
	m.startedAt = time.Now()
	m.stateMu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.run(runCtx)
	}()

	m.logger.Info("Session manager started")
	return nil
}

// Stop shuts the session loop down and waits for the current session's
// teardown to finish
func (m *Manager) Stop(_ context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.logger.Info("Session manager stopped")
	return nil
}

// Info reports the current session for the status listener
func (m *Manager) Info() Info {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	info := Info{
		SessionID:       m.sessionID,
		State:           string(scheduler.StateIdle),
		Index:           -1,
		ConfigTimestamp: m.timestamp,
		Restarts:        m.restarts,
	}
	if !m.startedAt.IsZero() {
		info.Uptime = time.Since(m.startedAt)
	}
	if m.sched != nil {
		st := m.sched.Status()
		info.State = string(st.State)
		info.Index = st.Index
		info.PlaylistLen = st.PlaylistLen
		info.Current = st.Current
	}
	return info
}

func (m *Manager) run(ctx context.Context) {
	for {
		snap, err := m.loadSnapshot(ctx)
		if err != nil {
			return
		}

		if err := m.runSession(ctx, snap); err != nil {
			m.logger.Error("Session aborted", zap.Error(err))
			if m.onFatal != nil {
				m.onFatal(err)
			}
			return
		}

		if ctx.Err() != nil {
			return
		}

		m.stateMu.Lock()
		m.restarts++
		m.stateMu.Unlock()
		if m.metrics != nil {
			m.metrics.SessionRestart()
		}
	}
}

// loadSnapshot blocks until a snapshot loads or the context ends
func (m *Manager) loadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	for {
		snap, err := m.source.Load(ctx)
		if err == nil {
			return snap, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		m.logger.Error("Failed to load config snapshot, retrying",
			zap.Duration("retryIn", m.retryIn),
			zap.Error(err))
		m.renderer.ShowStatus("Waiting for configuration...")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.retryIn):
		}
	}
}

// runSession assembles one session around the snapshot and runs it to
// completion. A nil return means the loop should build the next session
// (config change) or exit (context canceled); a non-nil return is fatal.
func (m *Manager) runSession(ctx context.Context, snap *domain.Snapshot) error {
	id := uuid.NewString()
	logger := m.logger.With(zap.String("sessionID", id))

	if m.renderer.ImageSurface() == nil || m.renderer.VideoSurface() == nil {
		m.renderer.ShowStatus("Display backend is missing a media surface")
		return ErrMissingSurface
	}

	logger.Info("Starting session",
		zap.Float64("configTimestamp", snap.Timestamp),
		zap.Int("playlistSize", len(snap.Media)))

	if m.metrics != nil {
		m.metrics.SetPlaylistSize(len(snap.Media))
		m.metrics.SetConfigTimestamp(snap.Timestamp)
	}

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Static per-session content goes in before playback starts
	m.renderer.SetOverlay(overlay.Build(logger, snap.Overlay))
	m.renderer.SetWidgets(m.widgets.BuildViews(sessCtx, snap.Widgets))

	urls := media.NewURLBuilder(snap.MediaBaseURL)
	preloader := media.NewPreloader(logger, urls, m.prober, m.cfg.GetCacheDir())

	sched := scheduler.New(scheduler.Deps{
		Logger:   logger,
		Snapshot: snap,
		Renderer: m.renderer,
		Planner:  m.engine,
		Resolver: preloader,
		Screen:   m.screen,
		Metrics:  m.metrics,
		Settle:   m.cfg.GetSettleDelay(),
	})
	mitigator := burnin.New(logger, snap.BurnIn, m.renderer, nil)
	controller := fullscreen.NewController(logger, m.inputs, m.adapter)

	restartCh := make(chan struct{}, 1)
	var watcher *configwatch.Watcher
	if m.version != nil {
		watcher = configwatch.New(logger, m.version, m.metrics, snap.Timestamp,
			m.cfg.GetPollInterval(), func() { restartCh <- struct{}{} })
	}

	// Components stop in reverse start order; the scheduler goes down
	// first so nothing paints over the teardown
	var stops []func() error
	teardown := func() error {
		var err error
		for i := len(stops) - 1; i >= 0; i-- {
			err = multierr.Append(err, stops[i]())
		}
		return err
	}

	if err := mitigator.Start(sessCtx); err != nil {
		return err
	}
	stops = append(stops, func() error { return mitigator.Stop(context.Background()) })

	if err := controller.Start(sessCtx); err != nil {
		return multierr.Append(err, teardown())
	}
	stops = append(stops, func() error { return controller.Stop(context.Background()) })

	if watcher != nil {
		if err := watcher.Start(sessCtx); err != nil {
			return multierr.Append(err, teardown())
		}
		stops = append(stops, func() error { return watcher.Stop(context.Background()) })
	}

	if err := sched.Start(sessCtx); err != nil {
		return multierr.Append(err, teardown())
	}
	stops = append(stops, func() error { sched.Destroy(); return nil })

	m.stateMu.Lock()
	m.sessionID = id
	m.timestamp = snap.Timestamp
	m.sched = sched
	m.stateMu.Unlock()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down session")
	case <-restartCh:
		logger.Info("Configuration changed, restarting session")
	}

	if err := teardown(); err != nil {
		logger.Warn("Session teardown reported errors", zap.Error(err))
	}
	return nil
}
