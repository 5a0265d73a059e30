package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements every hook interface on a private prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	RecordsExpanded     prometheus.Counter
	ExpandDuration      prometheus.Histogram
	ExpandErrors        prometheus.Counter
	ArtifactsSerialized *prometheus.CounterVec
	ArtifactBytes       *prometheus.CounterVec
	SerializeDuration   *prometheus.HistogramVec
	FilesWritten        *prometheus.CounterVec
	CacheOps            *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	HTTPInFlight        prometheus.Gauge
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RecordsExpanded: f.NewCounter(prometheus.CounterOpts{
			Name: "aeda_records_expanded_total",
			Help: "Total number of component records expanded",
		}),
		ExpandDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "aeda_expand_duration_seconds",
			Help:    "Time taken to expand a request into records",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		ExpandErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "aeda_expand_errors_total",
			Help: "Total number of rejected or cancelled expansions",
		}),
		ArtifactsSerialized: f.NewCounterVec(prometheus.CounterOpts{
			Name: "aeda_artifacts_serialized_total",
			Help: "Total number of artifacts serialized",
		}, []string{"format", "package"}),
		ArtifactBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "aeda_artifact_bytes_total",
			Help: "Total bytes of serialized artifacts",
		}, []string{"format"}),
		SerializeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aeda_serialize_duration_seconds",
			Help:    "Time taken to serialize one artifact",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"format"}),
		FilesWritten: f.NewCounterVec(prometheus.CounterOpts{
			Name: "aeda_files_written_total",
			Help: "Total number of output files written, by result",
		}, []string{"format", "result"}),
		CacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "aeda_cache_operations_total",
			Help: "Total number of artifact cache operations",
		}, []string{"format", "op"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "aeda_http_requests_total",
			Help: "Total number of API requests",
		}, []string{"method", "route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aeda_http_request_duration_seconds",
			Help:    "Duration of API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "aeda_http_requests_in_flight",
			Help: "Number of API requests being served",
		}),
	}
}

// Register installs m as the pipeline, cache and HTTP hooks.
func (m *Metrics) Register() {
	SetPipelineHooks(m)
	SetCacheHooks(m)
	SetHTTPHooks(m)
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry for the node_exporter textfile
// collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) OnExpandStart(context.Context, string, int) {}

func (m *Metrics) OnExpandComplete(_ context.Context, records int, d time.Duration, err error) {
	m.ExpandDuration.Observe(d.Seconds())
	if err != nil {
		m.ExpandErrors.Inc()
		return
	}
	m.RecordsExpanded.Add(float64(records))
}

func (m *Metrics) OnSerialize(_ context.Context, format, pkg string, size int, d time.Duration) {
	m.ArtifactsSerialized.WithLabelValues(format, pkg).Inc()
	m.ArtifactBytes.WithLabelValues(format).Add(float64(size))
	m.SerializeDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (m *Metrics) OnWrite(_ context.Context, format, _ string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.FilesWritten.WithLabelValues(format, result).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, format string) {
	m.CacheOps.WithLabelValues(format, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, format string) {
	m.CacheOps.WithLabelValues(format, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, format string, _ int) {
	m.CacheOps.WithLabelValues(format, "set").Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.HTTPInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.HTTPInFlight.Dec()
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
