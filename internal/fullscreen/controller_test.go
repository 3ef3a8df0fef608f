package fullscreen

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

type fakeInputs struct {
	ch chan domain.InputEvent
}

func (f *fakeInputs) Inputs() <-chan domain.InputEvent { return f.ch }

type countingAdapter struct {
	mu    sync.Mutex
	count int
}

func (a *countingAdapter) Name() string { return "counting" }

func (a *countingAdapter) Toggle(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.count++
	return nil
}

func (a *countingAdapter) toggles() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

func waitToggles(t *testing.T, a *countingAdapter, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for a.toggles() < want {
		if time.Now().After(deadline) {
			t.Fatalf("Toggles = %d, want %d", a.toggles(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func startController(t *testing.T, adapter WindowAdapter) (*Controller, *fakeInputs) {
	t.Helper()
	inputs := &fakeInputs{ch: make(chan domain.InputEvent, 10)}
	c := NewController(zap.NewNop(), inputs, adapter)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		if err := c.Stop(context.Background()); err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	})
	return c, inputs
}

func TestController_DoubleTapToggles(t *testing.T) {
	adapter := &countingAdapter{}
	_, inputs := startController(t, adapter)

	base := time.Now()
	inputs.ch <- domain.InputEvent{Kind: domain.InputTap, At: base}
	inputs.ch <- domain.InputEvent{Kind: domain.InputTap, At: base.Add(300 * time.Millisecond)}

	waitToggles(t, adapter, 1)

	// Settle and confirm there was exactly one
	time.Sleep(50 * time.Millisecond)
	if got := adapter.toggles(); got != 1 {
		t.Errorf("Toggles = %d, want exactly 1", got)
	}
}

func TestController_SlowTapsDoNotToggle(t *testing.T) {
	adapter := &countingAdapter{}
	_, inputs := startController(t, adapter)

	base := time.Now()
	inputs.ch <- domain.InputEvent{Kind: domain.InputTap, At: base}
	inputs.ch <- domain.InputEvent{Kind: domain.InputTap, At: base.Add(500 * time.Millisecond)}

	time.Sleep(100 * time.Millisecond)
	if got := adapter.toggles(); got != 0 {
		t.Errorf("Toggles = %d, want 0 for taps outside the window", got)
	}
}

func TestController_TripleTapTogglesOnce(t *testing.T) {
	adapter := &countingAdapter{}
	_, inputs := startController(t, adapter)

	base := time.Now()
	inputs.ch <- domain.InputEvent{Kind: domain.InputTap, At: base}
	inputs.ch <- domain.InputEvent{Kind: domain.InputTap, At: base.Add(200 * time.Millisecond)}
	inputs.ch <- domain.InputEvent{Kind: domain.InputTap, At: base.Add(350 * time.Millisecond)}

	waitToggles(t, adapter, 1)

	time.Sleep(100 * time.Millisecond)
	if got := adapter.toggles(); got != 1 {
		t.Errorf("Toggles = %d, want 1; the pair must be consumed", got)
	}
}

func TestController_ToggleKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want int
	}{
		{name: "Lowercase F", key: "f", want: 1},
		{name: "Uppercase F", key: "F", want: 1},
		{name: "F11", key: "F11", want: 1},
		{name: "Unrelated Key", key: "q", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := &countingAdapter{}
			_, inputs := startController(t, adapter)

			inputs.ch <- domain.InputEvent{Kind: domain.InputKey, Key: tt.key, At: time.Now()}

			if tt.want > 0 {
				waitToggles(t, adapter, tt.want)
			} else {
				time.Sleep(50 * time.Millisecond)
			}
			if got := adapter.toggles(); got != tt.want {
				t.Errorf("Toggles = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestController_NilSourceStaysIdle(t *testing.T) {
	c := NewController(zap.NewNop(), nil, &countingAdapter{})
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestDetectAdapter_FallsBackToState(t *testing.T) {
	t.Setenv("PATH", "")
	t.Setenv("XDG_SESSION_TYPE", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	adapter := DetectAdapter(zap.NewNop())
	if adapter.Name() != "state" {
		t.Fatalf("Adapter = %q, want state fallback", adapter.Name())
	}

	if err := adapter.Toggle(context.Background()); err != nil {
		t.Errorf("Toggle() error = %v", err)
	}

	state := adapter.(*stateAdapter)
	state.mu.Lock()
	defer state.mu.Unlock()
	if !state.fullscreen {
		t.Error("State adapter should track the toggled state")
	}
}

func TestDetectAdapter_SkipsX11ToolsOnWayland(t *testing.T) {
	t.Setenv("WAYLAND_DISPLAY", "wayland-0")

	adapter := DetectAdapter(zap.NewNop())
	if adapter.Name() != "state" {
		t.Fatalf("Adapter = %q, want state on Wayland", adapter.Name())
	}
}
