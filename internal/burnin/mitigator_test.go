package burnin

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

type recordedShift struct {
	region string
	dx, dy int
}

type recordingShifter struct {
	mu     sync.Mutex
	shifts []recordedShift
	resets int
}

func (r *recordingShifter) Shift(region string, dx, dy int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shifts = append(r.shifts, recordedShift{region: region, dx: dx, dy: dy})
}

func (r *recordingShifter) ResetShifts() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
}

func (r *recordingShifter) snapshot() ([]recordedShift, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]recordedShift, len(r.shifts))
	copy(out, r.shifts)
	return out, r.resets
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func TestMitigator_ShiftsStayWithinStrength(t *testing.T) {
	shifter := &recordingShifter{}
	cfg := domain.BurnInConfig{
		Enabled:    true,
		Interval:   10 * time.Millisecond,
		StrengthPx: 3,
		Regions:    []string{domain.RegionOverlay, domain.RegionTime, domain.RegionRSS},
	}

	m := New(zap.NewNop(), cfg, shifter, testRNG())
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		shifts, _ := shifter.snapshot()
		if len(shifts) >= 15 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected at least 15 shifts, got %d", len(shifts))
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	shifts, resets := shifter.snapshot()
	for _, s := range shifts {
		if s.dx < -3 || s.dx > 3 {
			t.Errorf("Shift dx %d for %s outside [-3, 3]", s.dx, s.region)
		}
		if s.dy < -3 || s.dy > 3 {
			t.Errorf("Shift dy %d for %s outside [-3, 3]", s.dy, s.region)
		}
		if s.region == domain.RegionRSS && s.dx != 0 {
			t.Errorf("RSS region received horizontal shift dx=%d", s.dx)
		}
	}
	if resets != 1 {
		t.Errorf("Expected exactly one reset after Stop, got %d", resets)
	}
}

func TestMitigator_SharedOffsetPerTick(t *testing.T) {
	shifter := &recordingShifter{}
	cfg := domain.BurnInConfig{
		Enabled:    true,
		Interval:   10 * time.Millisecond,
		StrengthPx: 3,
		Regions:    []string{domain.RegionOverlay, domain.RegionTime, domain.RegionWeather},
	}

	m := New(zap.NewNop(), cfg, shifter, testRNG())
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		shifts, _ := shifter.snapshot()
		if len(shifts) >= 9 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected at least 9 shifts, got %d", len(shifts))
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	// Every tick shifts all three regions with the same offsets, so
	// consecutive groups of three must agree.
	shifts, _ := shifter.snapshot()
	complete := len(shifts) / 3 * 3
	for i := 0; i < complete; i += 3 {
		first := shifts[i]
		for j := i + 1; j < i+3; j++ {
			if shifts[j].dx != first.dx || shifts[j].dy != first.dy {
				t.Errorf("Tick %d: region %s got (%d,%d), want shared (%d,%d)",
					i/3, shifts[j].region, shifts[j].dx, shifts[j].dy, first.dx, first.dy)
			}
		}
	}
}

func TestMitigator_DisabledResetsWithoutTimer(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.BurnInConfig
	}{
		{
			name: "Disabled Flag",
			cfg: domain.BurnInConfig{
				Enabled:    false,
				Interval:   10 * time.Millisecond,
				StrengthPx: 3,
				Regions:    []string{domain.RegionOverlay},
			},
		},
		{
			name: "Zero Strength",
			cfg: domain.BurnInConfig{
				Enabled:    true,
				Interval:   10 * time.Millisecond,
				StrengthPx: 0,
				Regions:    []string{domain.RegionOverlay},
			},
		},
		{
			name: "No Regions",
			cfg: domain.BurnInConfig{
				Enabled:    true,
				Interval:   10 * time.Millisecond,
				StrengthPx: 3,
				Regions:    nil,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shifter := &recordingShifter{}
			m := New(zap.NewNop(), tt.cfg, shifter, testRNG())

			if err := m.Start(context.Background()); err != nil {
				t.Fatalf("Start() error = %v", err)
			}

			time.Sleep(50 * time.Millisecond)

			shifts, resets := shifter.snapshot()
			if len(shifts) != 0 {
				t.Errorf("Expected no shifts when disabled, got %d", len(shifts))
			}
			if resets != 1 {
				t.Errorf("Expected one reset on disabled start, got %d", resets)
			}

			if err := m.Stop(context.Background()); err != nil {
				t.Fatalf("Stop() error = %v", err)
			}
		})
	}
}

func TestMitigator_DropsUnknownRegions(t *testing.T) {
	shifter := &recordingShifter{}
	cfg := domain.BurnInConfig{
		Enabled:    true,
		Interval:   10 * time.Millisecond,
		StrengthPx: 3,
		Regions:    []string{domain.RegionOverlay, "banner", "footer"},
	}

	m := New(zap.NewNop(), cfg, shifter, testRNG())
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		shifts, _ := shifter.snapshot()
		if len(shifts) >= 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected at least 3 shifts, got %d", len(shifts))
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	shifts, _ := shifter.snapshot()
	for _, s := range shifts {
		if s.region != domain.RegionOverlay {
			t.Errorf("Unknown region %q was shifted", s.region)
		}
	}
}

func TestMitigator_StopIsIdempotent(t *testing.T) {
	shifter := &recordingShifter{}
	cfg := domain.BurnInConfig{
		Enabled:    true,
		Interval:   time.Hour,
		StrengthPx: 3,
		Regions:    []string{domain.RegionOverlay},
	}

	m := New(zap.NewNop(), cfg, shifter, testRNG())
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("First Stop() error = %v", err)
	}
	if err := m.Stop(context.Background()); err != nil {
		t.Fatalf("Second Stop() error = %v", err)
	}

	_, resets := shifter.snapshot()
	if resets != 1 {
		t.Errorf("Expected one reset across repeated stops, got %d", resets)
	}
}
