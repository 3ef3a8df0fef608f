package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	defaultPollIntervalSeconds = 30
	defaultSettleMillis        = 150
	defaultListenAddr          = ":9800"
	defaultRendererMode        = "auto"
)

// AppConfig holds process configuration read from the environment
type AppConfig struct {
	logger        *zap.Logger
	serverURL     string
	snapshotPath  string
	pollInterval  time.Duration
	rendererMode  string
	listenAddr    string
	cacheDir      string
	settleDelay   time.Duration
	weatherAPIKey string
}

// NewAppConfig loads configuration from the environment, with an optional
// .env file for development setups. One of PLAYER_SERVER_URL or
// PLAYER_SNAPSHOT_PATH must be set; everything else has a default.
func NewAppConfig(logger *zap.Logger) (*AppConfig, error) {
	// A missing .env is the normal production case
	_ = godotenv.Load()

	// An explicitly empty listen address disables the status listener,
	// so this one distinguishes unset from empty
	listenAddr := defaultListenAddr
	if v, ok := os.LookupEnv("PLAYER_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	cfg := &AppConfig{
		logger:        logger,
		serverURL:     getEnv("PLAYER_SERVER_URL", ""),
		snapshotPath:  getEnv("PLAYER_SNAPSHOT_PATH", ""),
		pollInterval:  time.Duration(getEnvInt(logger, "PLAYER_POLL_INTERVAL_SECONDS", defaultPollIntervalSeconds)) * time.Second,
		rendererMode:  getEnv("PLAYER_RENDERER", defaultRendererMode),
		listenAddr:    listenAddr,
		cacheDir:      getEnv("PLAYER_CACHE_DIR", filepath.Join(os.TempDir(), "showgo-player")),
		settleDelay:   time.Duration(getEnvInt(logger, "PLAYER_SETTLE_MS", defaultSettleMillis)) * time.Millisecond,
		weatherAPIKey: getEnv("OPENWEATHERMAP_API_KEY", ""),
	}

	if cfg.serverURL == "" && cfg.snapshotPath == "" {
		return nil, fmt.Errorf("configuration incomplete: set PLAYER_SERVER_URL or PLAYER_SNAPSHOT_PATH")
	}

	if cfg.pollInterval < time.Second {
		logger.Warn("Poll interval below 1s, clamping",
			zap.Duration("requested", cfg.pollInterval))
		cfg.pollInterval = time.Second
	}

	switch cfg.rendererMode {
	case "auto", "mpv", "headless":
	default:
		logger.Warn("Unknown renderer mode, using auto",
			zap.String("mode", cfg.rendererMode))
		cfg.rendererMode = defaultRendererMode
	}

	logger.Info("Configuration loaded",
		zap.String("serverURL", cfg.serverURL),
		zap.String("snapshotPath", cfg.snapshotPath),
		zap.Duration("pollInterval", cfg.pollInterval),
		zap.String("renderer", cfg.rendererMode),
		zap.String("listenAddr", cfg.listenAddr),
		zap.String("cacheDir", cfg.cacheDir))

	return cfg, nil
}

// getEnv reads a string variable with a fallback default
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt reads an integer variable with a fallback default
func getEnvInt(logger *zap.Logger, key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("Invalid integer in environment, using default",
			zap.String("key", key),
			zap.String("value", v),
			zap.Int("default", fallback))
		return fallback
	}
	return n
}

// GetServerURL returns the signage server base URL
func (c *AppConfig) GetServerURL() string {
	return c.serverURL
}

// GetSnapshotPath returns the local snapshot file path
func (c *AppConfig) GetSnapshotPath() string {
	return c.snapshotPath
}

// GetPollInterval returns the config version poll cadence
func (c *AppConfig) GetPollInterval() time.Duration {
	return c.pollInterval
}

// GetRendererMode returns the requested display backend
func (c *AppConfig) GetRendererMode() string {
	return c.rendererMode
}

// GetListenAddr returns the status listener address
func (c *AppConfig) GetListenAddr() string {
	return c.listenAddr
}

// GetCacheDir returns the preload cache directory
func (c *AppConfig) GetCacheDir() string {
	return c.cacheDir
}

// GetSettleDelay returns the exit-transition settle delay
func (c *AppConfig) GetSettleDelay() time.Duration {
	return c.settleDelay
}

// GetWeatherAPIKey returns the OpenWeatherMap credential
func (c *AppConfig) GetWeatherAPIKey() string {
	return c.weatherAPIKey
}
