package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters for the subtitle engine. It implements
// subtitles.Stats.
type Metrics struct {
	registry        *prometheus.Registry
	eventsTotal     *prometheus.CounterVec
	duplicatesTotal prometheus.Counter
	renderedTotal   prometheus.Counter
	replayedTotal   prometheus.Counter
	switchesTotal   prometheus.Counter
	activeTrack     prometheus.Gauge
}

// New creates and registers the engine metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	eventsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cuesync_subtitle_events_total",
		Help: "Subtitle events received from the demuxer, by track",
	}, []string{"track"})
	duplicatesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cuesync_subtitle_duplicates_total",
		Help: "Subtitle events ignored because they were already recorded",
	})
	renderedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cuesync_subtitle_events_rendered_total",
		Help: "Subtitle events pushed live to the renderer",
	})
	replayedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cuesync_subtitle_events_replayed_total",
		Help: "Subtitle events replayed into the renderer on track selection",
	})
	switchesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cuesync_subtitle_track_switches_total",
		Help: "Subtitle track selections, including switching subtitles off",
	})
	activeTrack := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cuesync_subtitle_active_track",
		Help: "Active subtitle track number, -1 when none",
	})
	activeTrack.Set(-1)

	registry.MustRegister(
		eventsTotal,
		duplicatesTotal,
		renderedTotal,
		replayedTotal,
		switchesTotal,
		activeTrack,
	)

	return &Metrics{
		registry:        registry,
		eventsTotal:     eventsTotal,
		duplicatesTotal: duplicatesTotal,
		renderedTotal:   renderedTotal,
		replayedTotal:   replayedTotal,
		switchesTotal:   switchesTotal,
		activeTrack:     activeTrack,
	}
}

func (m *Metrics) EventRecorded(track int, isNew bool) {
	m.eventsTotal.WithLabelValues(strconv.Itoa(track)).Inc()
	if !isNew {
		m.duplicatesTotal.Inc()
	}
}

func (m *Metrics) EventRendered(int) {
	m.renderedTotal.Inc()
}

func (m *Metrics) TrackReplayed(_ int, events int) {
	m.replayedTotal.Add(float64(events))
}

func (m *Metrics) TrackSelected(track int) {
	m.switchesTotal.Inc()
	m.activeTrack.Set(float64(track))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Router serves /metrics and /healthz.
func (m *Metrics) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	return r
}
