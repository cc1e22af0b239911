// Package metrics records per-request HTTP metrics into a private Prometheus
// registry and exposes that registry for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	applog "github.com/janisto/hello-metrics/internal/platform/logging"
)

const (
	// DefaultPath is where the scrape endpoint is mounted unless overridden.
	DefaultPath = "/metrics"

	// UnmatchedPath is the path label for requests that hit no route.
	UnmatchedPath = "#unmatched"
)

// DefaultBuckets are the latency histogram buckets in seconds.
var DefaultBuckets = []float64{0.003, 0.03, 0.1, 0.3, 1.5, 10}

// Options configures the metric set.
type Options struct {
	IncludeMethod         bool
	IncludePath           bool
	IncludeStatusCode     bool
	CollectDefaultMetrics bool
	Buckets               []float64
	MetricsPath           string
	Namespace             string
}

// DefaultOptions enables method, path and status labels plus the Go runtime
// and process collectors.
func DefaultOptions() Options {
	return Options{
		IncludeMethod:         true,
		IncludePath:           true,
		IncludeStatusCode:     true,
		CollectDefaultMetrics: true,
		Buckets:               DefaultBuckets,
		MetricsPath:           DefaultPath,
	}
}

// Bundle owns a registry and the HTTP collectors registered in it.
type Bundle struct {
	opts     Options
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// New builds a Bundle with its own registry. Each call is independent, so
// tests can create as many as they need.
func New(opts Options) *Bundle {
	if opts.MetricsPath == "" {
		opts.MetricsPath = DefaultPath
	}
	if len(opts.Buckets) == 0 {
		opts.Buckets = DefaultBuckets
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	labels := opts.labelNames()

	b := &Bundle{opts: opts, registry: registry}
	b.duration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: opts.Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration histogram of HTTP responses labeled with: " + strings.Join(labels, ", "),
		Buckets:   opts.Buckets,
	}, labels)
	b.requests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: opts.Namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests labeled with: " + strings.Join(labels, ", "),
	}, labels)
	factory.NewGauge(prometheus.GaugeOpts{
		Namespace: opts.Namespace,
		Name:      "up",
		Help:      "1 = up, 0 = not up",
	}).Set(1)

	if opts.CollectDefaultMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: opts.Namespace}),
		)
	}
	return b
}

func (o Options) labelNames() []string {
	labels := make([]string, 0, 3)
	if o.IncludeStatusCode {
		labels = append(labels, "status_code")
	}
	if o.IncludeMethod {
		labels = append(labels, "method")
	}
	if o.IncludePath {
		labels = append(labels, "path")
	}
	return labels
}

// Registry exposes the underlying registry, mainly for tests and extra collectors.
func (b *Bundle) Registry() *prometheus.Registry {
	return b.registry
}

// Path returns the configured scrape path.
func (b *Bundle) Path() string {
	return b.opts.MetricsPath
}

// Middleware records one duration sample and one counter increment per
// request once the downstream handler returns. Scrapes of the metrics path
// are not recorded.
func (b *Bundle) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == b.opts.MetricsPath {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			values := b.labelValues(r, ww.Status())
			b.duration.WithLabelValues(values...).Observe(time.Since(start).Seconds())
			b.requests.WithLabelValues(values...).Inc()
		})
	}
}

func (b *Bundle) labelValues(r *http.Request, status int) []string {
	if status == 0 {
		status = http.StatusOK
	}
	values := make([]string, 0, 3)
	if b.opts.IncludeStatusCode {
		values = append(values, strconv.Itoa(status))
	}
	if b.opts.IncludeMethod {
		values = append(values, r.Method)
	}
	if b.opts.IncludePath {
		values = append(values, routePath(r))
	}
	return values
}

// routePath uses the matched chi pattern so path parameters do not explode
// label cardinality.
func routePath(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return UnmatchedPath
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return UnmatchedPath
}

// Handler serves the registry in the Prometheus exposition format.
func (b *Bundle) Handler() http.Handler {
	opts := promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
		Registry:      b.registry,
	}
	if errLog, err := zap.NewStdLogAt(applog.Logger().With(zap.String("component", "metrics")), zapcore.ErrorLevel); err == nil {
		opts.ErrorLog = errLog
	}
	return promhttp.HandlerFor(b.registry, opts)
}
