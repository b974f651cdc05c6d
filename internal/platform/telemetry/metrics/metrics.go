package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const namespace = "llzcal"

// Recorder owns the calibration collectors registered on one registry.
type Recorder struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	readingsRecorded *prometheus.CounterVec
	readingsRejected *prometheus.CounterVec
	metricsComputed  *prometheus.CounterVec
	setsReset        prometheus.Counter
}

// New registers the calibration collectors and the Go runtime collectors on a
// fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "grpc_requests_total",
				Help:      "Total number of calibration gRPC requests.",
			},
			[]string{"method", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "grpc_request_duration_seconds",
				Help:      "Calibration gRPC request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		readingsRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "readings_recorded_total",
				Help:      "Readings accepted into a session.",
			},
			[]string{"transmitter", "stage"},
		),
		readingsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "readings_rejected_total",
				Help:      "Readings rejected by validation, by error code.",
			},
			[]string{"code"},
		),
		metricsComputed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "metrics_computed_total",
				Help:      "Comparison metrics computed, by transmitter.",
			},
			[]string{"transmitter"},
		),
		setsReset: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stored_sets_reset_total",
				Help:      "Reading sets replaced with a fresh set while loading saved state.",
			},
		),
	}
	r.registry.MustRegister(
		r.requestsTotal,
		r.requestDuration,
		r.readingsRecorded,
		r.readingsRejected,
		r.metricsComputed,
		r.setsReset,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler returns the Prometheus metrics HTTP handler.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// UnaryServerInterceptor records request count and latency for each RPC.
func (r *Recorder) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		r.requestDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
		r.requestsTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		return resp, err
	}
}

// ReadingRecorded counts an accepted reading.
func (r *Recorder) ReadingRecorded(transmitter, stage string) {
	if r == nil {
		return
	}
	r.readingsRecorded.WithLabelValues(transmitter, stage).Inc()
}

// ReadingRejected counts a reading rejected with code.
func (r *Recorder) ReadingRejected(code string) {
	if r == nil {
		return
	}
	r.readingsRejected.WithLabelValues(code).Inc()
}

// MetricsComputed counts a comparison computation.
func (r *Recorder) MetricsComputed(transmitter string) {
	if r == nil {
		return
	}
	r.metricsComputed.WithLabelValues(transmitter).Inc()
}

// SetsReset counts reading sets replaced while loading saved state.
func (r *Recorder) SetsReset(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.setsReset.Add(float64(n))
}
