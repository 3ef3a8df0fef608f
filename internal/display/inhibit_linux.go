//go:build linux
// +build linux

package display

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

const (
	screenSaverName = "org.freedesktop.ScreenSaver"
	screenSaverPath = "/org/freedesktop/ScreenSaver"
)

// DBusInhibitor keeps the display awake through the freedesktop
// ScreenSaver service while media plays
type DBusInhibitor struct {
	logger *zap.Logger
	conn   *dbus.Conn

	mu     sync.Mutex
	held   bool
	cookie uint32
}

// NewInhibitor connects to the session bus. Kiosks without one get a
// no-op inhibitor instead of a startup failure.
func NewInhibitor(logger *zap.Logger) domain.Inhibitor {
	conn, err := dbus.SessionBus()
	if err != nil {
		logger.Warn("Session bus unavailable, display may blank", zap.Error(err))
		return &noopInhibitor{logger: logger}
	}
	return &DBusInhibitor{logger: logger, conn: conn}
}

// Inhibit asks the screen saver service to suspend blanking. Holding an
// inhibition twice is a no-op; exactly one cookie is outstanding.
func (i *DBusInhibitor) Inhibit(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.held {
		return nil
	}

	obj := i.conn.Object(screenSaverName, dbus.ObjectPath(screenSaverPath))
	call := obj.CallWithContext(ctx, screenSaverName+".Inhibit", 0, "showgo-player", "media playback")

	var cookie uint32
	if err := call.Store(&cookie); err != nil {
		return fmt.Errorf("screen saver inhibit failed: %w", err)
	}

	i.held = true
	i.cookie = cookie
	i.logger.Info("Display blanking inhibited", zap.Uint32("cookie", cookie))
	return nil
}

// Release undoes Inhibit
func (i *DBusInhibitor) Release(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.held {
		return nil
	}

	obj := i.conn.Object(screenSaverName, dbus.ObjectPath(screenSaverPath))
	call := obj.CallWithContext(ctx, screenSaverName+".UnInhibit", 0, i.cookie)
	if call.Err != nil {
		return fmt.Errorf("screen saver uninhibit failed: %w", call.Err)
	}

	i.held = false
	i.logger.Debug("Display blanking inhibition released")
	return nil
}
