package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcome labels
const (
	StatusSuccess  = "success"
	StatusAPIError = "api_error"
	StatusError    = "error"
)

// Metrics tracks metrics for a single synthesis run. Each run owns its
// registry so the exported textfile holds only that run's series.
type Metrics struct {
	registry  *prometheus.Registry
	startTime time.Time

	requests     *prometheus.CounterVec
	latency      prometheus.Histogram
	bytesWritten prometheus.Counter
	filesWritten prometheus.Counter
	lastStatus   *prometheus.GaugeVec
	runDuration  prometheus.Gauge
	runSuccess   prometheus.Gauge
}

// NewRunMetrics creates a new metrics tracker for a run
func NewRunMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry:  reg,
		startTime: time.Now(),

		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wakeword_synth_requests_total",
			Help: "Total number of synthesize requests",
		}, []string{"voice", "status"}),

		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wakeword_synth_request_latency_seconds",
			Help:    "Synthesize request latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
		}),

		bytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "wakeword_synth_audio_bytes_total",
			Help: "Total audio bytes written to disk",
		}),

		filesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "wakeword_synth_files_total",
			Help: "Total audio files written",
		}),

		lastStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wakeword_synth_last_http_status",
			Help: "HTTP status code of the last request per voice (0 = no response)",
		}, []string{"voice"}),

		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wakeword_synth_run_duration_seconds",
			Help: "Wall time of the synthesis run",
		}),

		runSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wakeword_synth_run_success",
			Help: "1 if every voice was synthesized, 0 otherwise",
		}),
	}
}

// RecordRequest records one synthesize request for voice
func (m *Metrics) RecordRequest(voice, status string, httpStatus int, latency time.Duration) {
	m.requests.WithLabelValues(voice, status).Inc()
	m.latency.Observe(latency.Seconds())
	m.lastStatus.WithLabelValues(voice).Set(float64(httpStatus))
}

// RecordFile records one audio file written to disk
func (m *Metrics) RecordFile(bytes int) {
	m.filesWritten.Inc()
	m.bytesWritten.Add(float64(bytes))
}

// RecordRunEnd records the end of the run
func (m *Metrics) RecordRunEnd(success bool) {
	m.runDuration.Set(time.Since(m.startTime).Seconds())
	if success {
		m.runSuccess.Set(1)
	} else {
		m.runSuccess.Set(0)
	}
}

// Registry exposes the run's registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the run's metrics in Prometheus text format, atomically
// replacing path, for pickup by a textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
