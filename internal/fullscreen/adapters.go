package fullscreen

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"go.uber.org/zap"
)

// WindowAdapter toggles the output window's fullscreen state
type WindowAdapter interface {
	// Name identifies the adapter in logs
	Name() string

	// Toggle flips fullscreen
	Toggle(ctx context.Context) error
}

// commandAdapter shells out to a window management tool
type commandAdapter struct {
	logger *zap.Logger
	name   string
	binary string
	args   []string
}

func (a *commandAdapter) Name() string { return a.name }

func (a *commandAdapter) Toggle(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, a.binary, a.args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to toggle fullscreen with %s: %w (output: %s)",
			a.name, err, string(output))
	}
	a.logger.Debug("Fullscreen toggled", zap.String("tool", a.name))
	return nil
}

// stateAdapter is the fallback when no window tool exists. It tracks the
// requested state so toggling still behaves consistently end to end.
type stateAdapter struct {
	logger *zap.Logger

	mu         sync.Mutex
	fullscreen bool
}

func (a *stateAdapter) Name() string { return "state" }

func (a *stateAdapter) Toggle(ctx context.Context) error {
	a.mu.Lock()
	a.fullscreen = !a.fullscreen
	current := a.fullscreen
	a.mu.Unlock()

	a.logger.Info("Fullscreen state toggled, no window tool available",
		zap.Bool("fullscreen", current))
	return nil
}

// Ordered list of window tools to try (highest priority first)
var windowCommands = []commandAdapter{
	{name: "wmctrl", binary: "wmctrl", args: []string{"-r", ":ACTIVE:", "-b", "toggle,fullscreen"}},
	{name: "xdotool", binary: "xdotool", args: []string{"key", "--clearmodifiers", "F11"}},
}

// DetectAdapter picks the best available window tool
func DetectAdapter(logger *zap.Logger) WindowAdapter {
	// Check environment variables for hints
	session := os.Getenv("XDG_SESSION_TYPE")
	wayland := os.Getenv("WAYLAND_DISPLAY")

	logger.Debug("Detecting fullscreen toggle tool",
		zap.String("session", session),
		zap.String("wayland", wayland))

	// wmctrl and xdotool speak X11 only
	if wayland != "" || session == "wayland" {
		logger.Info("Wayland session detected, tracking fullscreen state only")
		return &stateAdapter{logger: logger}
	}

	for _, c := range windowCommands {
		if commandExists(c.binary) {
			logger.Info("Fullscreen toggle tool detected",
				zap.String("name", c.name),
				zap.String("binary", c.binary))
			adapter := c
			adapter.logger = logger
			return &adapter
		}
	}

	logger.Info("No fullscreen toggle tool found, tracking state only")
	return &stateAdapter{logger: logger}
}

// commandExists checks if a binary exists in PATH
func commandExists(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}
