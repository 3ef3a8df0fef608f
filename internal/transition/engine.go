package transition

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

const (
	// fadeDuration is fixed regardless of how long the item stays on screen
	fadeDuration = time.Second

	// kenBurnsDelay keeps the pan/zoom from racing the fade-in
	kenBurnsDelay = 50 * time.Millisecond

	kenBurnsScaleLow  = 1.0
	kenBurnsScaleHigh = 1.15

	// The transform origin lands inside a centered box spanning between
	// 50% and 75% of the element
	originBoxMin = 0.50
	originBoxMax = 0.75
)

// Engine computes transition plans for image activations. It holds no
// timers and touches no surfaces; the scheduler asks for a plan and the
// renderer executes it.
type Engine struct {
	logger *zap.Logger
	rng    *rand.Rand
}

// NewEngine creates a transition engine. A nil rng gets a time-seeded one;
// tests inject a fixed seed.
func NewEngine(logger *zap.Logger, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(time.Now().Unix())))
	}
	return &Engine{logger: logger, rng: rng}
}

// Plan computes the recipe for showing one image. displayDur is the full
// per-item display duration; size is the on-screen element size, which may
// be zero when the renderer has not measured yet.
func (e *Engine) Plan(effect domain.TransitionEffect, displayDur time.Duration, size domain.ScreenResolution) domain.TransitionPlan {
	switch effect {
	case domain.TransitionKenBurns:
		return e.kenBurns(displayDur, size)
	case domain.TransitionSlide:
		// Slide has always rendered as a fade; the alias survives so old
		// server configurations keep working
		return e.fade()
	case domain.TransitionFade:
		return e.fade()
	default:
		e.logger.Warn("Unknown transition effect, using fade",
			zap.String("effect", string(effect)))
		return e.fade()
	}
}

func (e *Engine) fade() domain.TransitionPlan {
	return domain.TransitionPlan{
		Effect:       domain.TransitionFade,
		FadeDuration: fadeDuration,
	}
}

// kenBurns draws a fresh random pan/zoom each activation: scale moves
// between 1.0 and 1.15 (direction random), pan offsets stay within half
// the scale delta of each dimension so edges never show, and the
// transform origin lands inside the central 50-75% box.
func (e *Engine) kenBurns(displayDur time.Duration, size domain.ScreenResolution) domain.TransitionPlan {
	plan := domain.TransitionPlan{
		Effect:       domain.TransitionKenBurns,
		FadeDuration: fadeDuration,
		StartDelay:   kenBurnsDelay,
		AnimDuration: displayDur,
	}

	plan.StartScale, plan.EndScale = kenBurnsScaleLow, kenBurnsScaleHigh
	if e.rng.IntN(2) == 1 {
		plan.StartScale, plan.EndScale = plan.EndScale, plan.StartScale
	}

	boxFrac := originBoxMin + e.rng.Float64()*(originBoxMax-originBoxMin)
	plan.OriginXPct = 50 + (e.rng.Float64()-0.5)*boxFrac*100
	plan.OriginYPct = 50 + (e.rng.Float64()-0.5)*boxFrac*100

	if size.Width <= 0 || size.Height <= 0 {
		// Element not measured yet: the renderer re-measures on its next
		// paint and pans stay centered until then
		plan.Deferred = true
		return plan
	}

	panBoundX := float64(size.Width) * (kenBurnsScaleHigh - kenBurnsScaleLow) / 2
	panBoundY := float64(size.Height) * (kenBurnsScaleHigh - kenBurnsScaleLow) / 2
	plan.StartPanX = (e.rng.Float64()*2 - 1) * panBoundX
	plan.StartPanY = (e.rng.Float64()*2 - 1) * panBoundY
	plan.EndPanX = (e.rng.Float64()*2 - 1) * panBoundX
	plan.EndPanY = (e.rng.Float64()*2 - 1) * panBoundY

	return plan
}
