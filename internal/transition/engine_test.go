package transition

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

func newTestEngine(seed uint64) *Engine {
	return NewEngine(zap.NewNop(), rand.New(rand.NewPCG(seed, seed)))
}

func TestPlan_FadeAndSlide(t *testing.T) {
	tests := []struct {
		name   string
		effect domain.TransitionEffect
	}{
		{name: "Fade", effect: domain.TransitionFade},
		{name: "Slide Aliases Fade", effect: domain.TransitionSlide},
		{name: "Unknown Effect Falls Back To Fade", effect: domain.TransitionEffect("wipe")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := newTestEngine(1).Plan(tt.effect, 10*time.Second, domain.ScreenResolution{Width: 1920, Height: 1080})

			if plan.Effect != domain.TransitionFade {
				t.Errorf("expected fade plan, got %s", plan.Effect)
			}
			if plan.FadeDuration != time.Second {
				t.Errorf("fade duration must be fixed at 1s, got %v", plan.FadeDuration)
			}
			if plan.StartScale != 0 || plan.EndScale != 0 {
				t.Error("fade plans must not carry ken burns scales")
			}
		})
	}
}

func TestPlan_KenBurnsBounds(t *testing.T) {
	size := domain.ScreenResolution{Width: 1920, Height: 1080}
	panBoundX := float64(size.Width) * 0.15 / 2
	panBoundY := float64(size.Height) * 0.15 / 2

	// The values are random; run many plans and assert every invariant
	engine := newTestEngine(42)
	for i := 0; i < 500; i++ {
		plan := engine.Plan(domain.TransitionKenBurns, 10*time.Second, size)

		if plan.Deferred {
			t.Fatal("plan with a measured element must not be deferred")
		}
		if plan.AnimDuration != 10*time.Second {
			t.Fatalf("animation must span the display duration, got %v", plan.AnimDuration)
		}
		if plan.StartDelay != 50*time.Millisecond {
			t.Fatalf("expected 50ms start delay, got %v", plan.StartDelay)
		}

		scales := map[float64]bool{plan.StartScale: true, plan.EndScale: true}
		if !scales[1.0] || !scales[1.15] || plan.StartScale == plan.EndScale {
			t.Fatalf("scales must be {1.0, 1.15} in some order, got %v -> %v", plan.StartScale, plan.EndScale)
		}

		for _, pan := range []float64{plan.StartPanX, plan.EndPanX} {
			if math.Abs(pan) > panBoundX {
				t.Fatalf("x pan %v exceeds bound %v", pan, panBoundX)
			}
		}
		for _, pan := range []float64{plan.StartPanY, plan.EndPanY} {
			if math.Abs(pan) > panBoundY {
				t.Fatalf("y pan %v exceeds bound %v", pan, panBoundY)
			}
		}

		// Origin within the central 75% box worst case: [12.5, 87.5]
		for _, origin := range []float64{plan.OriginXPct, plan.OriginYPct} {
			if origin < 12.5 || origin > 87.5 {
				t.Fatalf("origin %v outside central box", origin)
			}
		}
	}
}

func TestPlan_KenBurnsScaleDirectionVaries(t *testing.T) {
	engine := newTestEngine(7)
	zoomIn, zoomOut := 0, 0
	for i := 0; i < 200; i++ {
		plan := engine.Plan(domain.TransitionKenBurns, time.Second, domain.ScreenResolution{Width: 100, Height: 100})
		if plan.StartScale < plan.EndScale {
			zoomIn++
		} else {
			zoomOut++
		}
	}
	if zoomIn == 0 || zoomOut == 0 {
		t.Errorf("scale order should randomize, got %d in / %d out", zoomIn, zoomOut)
	}
}

func TestPlan_KenBurnsZeroSizeDefers(t *testing.T) {
	plan := newTestEngine(3).Plan(domain.TransitionKenBurns, 5*time.Second, domain.ScreenResolution{})

	if !plan.Deferred {
		t.Fatal("zero-size element must produce a deferred plan")
	}
	if plan.StartPanX != 0 || plan.StartPanY != 0 || plan.EndPanX != 0 || plan.EndPanY != 0 {
		t.Error("deferred plans must keep pans centered")
	}
	if plan.StartScale == plan.EndScale {
		t.Error("deferred plans still carry a scale pair")
	}
}
