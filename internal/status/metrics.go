package status

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/showgo/player/internal/domain"
)

// PromMetrics implements domain.Metrics on a dedicated Prometheus
// registry, so the player never collides with the global one when it is
// embedded or tested.
type PromMetrics struct {
	registry        *prometheus.Registry
	itemsShown      *prometheus.CounterVec
	loadFailures    prometheus.Counter
	configPolls     *prometheus.CounterVec
	sessionRestarts prometheus.Counter
	playlistSize    prometheus.Gauge
	configTimestamp prometheus.Gauge
}

// NewMetrics creates and registers the player's metric set
func NewMetrics() *PromMetrics {
	registry := prometheus.NewRegistry()

	itemsShown := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "player_items_shown_total",
		Help: "Media items that became active, by kind",
	}, []string{"kind"})
	loadFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "player_media_load_failures_total",
		Help: "Media items skipped after a load or playback failure",
	})
	configPolls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "player_config_polls_total",
		Help: "Config version polls, by outcome",
	}, []string{"outcome"})
	sessionRestarts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "player_session_restarts_total",
		Help: "Sessions rebuilt after a config change",
	})
	playlistSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "player_playlist_size",
		Help: "Playlist length of the current session",
	})
	configTimestamp := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "player_config_timestamp",
		Help: "Config version marker of the current session",
	})

	registry.MustRegister(
		itemsShown,
		loadFailures,
		configPolls,
		sessionRestarts,
		playlistSize,
		configTimestamp,
	)

	return &PromMetrics{
		registry:        registry,
		itemsShown:      itemsShown,
		loadFailures:    loadFailures,
		configPolls:     configPolls,
		sessionRestarts: sessionRestarts,
		playlistSize:    playlistSize,
		configTimestamp: configTimestamp,
	}
}

// ItemShown counts one media item becoming active
func (m *PromMetrics) ItemShown(kind domain.MediaKind) {
	m.itemsShown.WithLabelValues(string(kind)).Inc()
}

// MediaLoadFailure counts one skipped item
func (m *PromMetrics) MediaLoadFailure() {
	m.loadFailures.Inc()
}

// ConfigPoll counts one version poll by outcome
func (m *PromMetrics) ConfigPoll(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.configPolls.WithLabelValues(outcome).Inc()
}

// SessionRestart counts one watcher-triggered restart
func (m *PromMetrics) SessionRestart() {
	m.sessionRestarts.Inc()
}

// SetPlaylistSize records the current session's playlist length
func (m *PromMetrics) SetPlaylistSize(n int) {
	m.playlistSize.Set(float64(n))
}

// SetConfigTimestamp records the current session's version marker
func (m *PromMetrics) SetConfigTimestamp(ts float64) {
	m.configTimestamp.Set(ts)
}

// Registry exposes the metric set for the scrape endpoint
func (m *PromMetrics) Registry() *prometheus.Registry {
	return m.registry
}
