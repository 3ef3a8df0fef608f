package burnin

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

// Shifter is the small slice of the renderer the mitigator needs
type Shifter interface {
	// Shift translates a named region by (dx, dy) pixels
	Shift(region string, dx, dy int)

	// ResetShifts restores every region to the identity transform
	ResetShifts()
}

// Mitigator periodically nudges the configured screen regions by a small
// random offset so static UI chrome does not burn into the panel. It owns
// exactly one timer; configuration changes go through session restart,
// which builds a fresh mitigator, never through in-place mutation.
type Mitigator struct {
	logger  *zap.Logger
	cfg     domain.BurnInConfig
	shifter Shifter
	rng     *rand.Rand

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a mitigator for one session's burn-in configuration.
// Regions the renderer does not know are dropped with a warning. A nil
// rng gets a time-seeded one.
func New(logger *zap.Logger, cfg domain.BurnInConfig, shifter Shifter, rng *rand.Rand) *Mitigator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(time.Now().Unix())))
	}

	known := make(map[string]bool, len(domain.KnownRegions))
	for _, r := range domain.KnownRegions {
		known[r] = true
	}
	regions := make([]string, 0, len(cfg.Regions))
	for _, r := range cfg.Regions {
		if !known[r] {
			logger.Warn("Ignoring unknown burn-in region", zap.String("region", r))
			continue
		}
		regions = append(regions, r)
	}
	cfg.Regions = regions

	return &Mitigator{
		logger:  logger,
		cfg:     cfg,
		shifter: shifter,
		rng:     rng,
	}
}

// Start arms the shift timer. When mitigation is disabled (or has nothing
// to do) it resets every region to identity instead: no residual offset
// may survive a configuration that turned the feature off.
func (m *Mitigator) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}

	if !m.enabled() {
		m.mu.Unlock()
		m.shifter.ResetShifts()
		m.logger.Info("Burn-in mitigation disabled, regions reset")
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.mu.Unlock()

	m.logger.Info("Burn-in mitigation started",
		zap.Duration("interval", m.cfg.Interval),
		zap.Int("strengthPx", m.cfg.StrengthPx),
		zap.Strings("regions", m.cfg.Regions))

	m.wg.Add(1)
	go m.run(runCtx)
	return nil
}

// Stop clears the timer and resets every region to identity
func (m *Mitigator) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.cancel()
	m.running = false
	m.mu.Unlock()

	m.wg.Wait()
	m.shifter.ResetShifts()
	m.logger.Debug("Burn-in mitigation stopped, regions reset")
	return nil
}

func (m *Mitigator) enabled() bool {
	return m.cfg.Enabled && m.cfg.StrengthPx > 0 && m.cfg.Interval > 0 && len(m.cfg.Regions) > 0
}

// run owns the single live timer for this mitigator
func (m *Mitigator) run(ctx context.Context) {
	defer m.wg.Done()

	timer := time.NewTimer(m.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			m.tick()
			timer.Reset(m.cfg.Interval)
		}
	}
}

// tick draws one shared offset pair and applies it to every target
// region. The rss ticker always gets dx=0: a horizontal nudge would fight
// its own continuous scroll animation.
func (m *Mitigator) tick() {
	strength := m.cfg.StrengthPx
	dx := m.rng.IntN(2*strength+1) - strength
	dy := m.rng.IntN(2*strength+1) - strength

	for _, region := range m.cfg.Regions {
		rdx := dx
		if region == domain.RegionRSS {
			rdx = 0
		}
		m.shifter.Shift(region, rdx, dy)
	}

	m.logger.Debug("Applied burn-in shift",
		zap.Int("dx", dx),
		zap.Int("dy", dy),
		zap.Int("regions", len(m.cfg.Regions)))
}
