package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/anchorlayout/pkg/observability"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	solvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchorlayout_solves_total",
		Help: "Total solves by finishing stage and outcome",
	}, []string{"stage", "outcome"})

	solveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "anchorlayout_solve_duration_seconds",
		Help:    "Duration of a complete solve by finishing stage",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"stage"})

	solveWidgets = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "anchorlayout_solve_widgets",
		Help:    "Number of widgets per solved container",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 1000},
	})

	stagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchorlayout_stages_total",
		Help: "Total stage runs by stage and whether the stage resolved every widget",
	}, []string{"stage", "resolved"})

	measuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchorlayout_measures_total",
		Help: "Total measurer invocations by stage",
	}, []string{"stage"})

	cacheEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchorlayout_cache_events_total",
		Help: "Total cache events by key type and event",
	}, []string{"key_type", "event"})

	cacheSetBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "anchorlayout_cache_set_bytes",
		Help:    "Size of cache writes",
		Buckets: prometheus.ExponentialBuckets(256, 4, 8),
	}, []string{"key_type"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anchorlayout_http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "anchorlayout_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "anchorlayout_http_requests_in_flight",
		Help: "HTTP requests currently being served",
	})
)

// registerMetrics routes observability hooks to the Prometheus collectors.
func registerMetrics() {
	observability.SetLayoutHooks(promLayoutHooks{})
	observability.SetCacheHooks(promCacheHooks{})
	observability.SetHTTPHooks(promHTTPHooks{})
}

type promLayoutHooks struct{}

func (promLayoutHooks) OnSolveStart(_ context.Context, _ string, widgets int) {
	solveWidgets.Observe(float64(widgets))
}

func (promLayoutHooks) OnStageComplete(_ context.Context, stage string, resolved bool, measures int, _ time.Duration) {
	stagesTotal.WithLabelValues(stage, strconv.FormatBool(resolved)).Inc()
	measuresTotal.WithLabelValues(stage).Add(float64(measures))
}

func (promLayoutHooks) OnSolveComplete(_ context.Context, _, stage string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	solvesTotal.WithLabelValues(stage, outcome).Inc()
	solveDuration.WithLabelValues(stage).Observe(d.Seconds())
}

type promCacheHooks struct{}

func (promCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	cacheEventsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (promCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	cacheEventsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (promCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	cacheEventsTotal.WithLabelValues(keyType, "set").Inc()
	cacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

type promHTTPHooks struct{}

func (promHTTPHooks) OnRequest(context.Context, string, string) {
	httpInFlight.Inc()
}

func (promHTTPHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	httpInFlight.Dec()
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
