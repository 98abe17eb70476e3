package gpu

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records per-pass timing and dispatch counts, the ambient
// instrument behind spec scenario 5's "total wall time is recorded"
// requirement, matching the teacher's Accelerator.Stats() counters in
// dex/gpu/gpu.go but expressed as real Prometheus collectors instead of
// raw atomics.
type Metrics struct {
	passDuration *prometheus.HistogramVec
	dispatches   *prometheus.CounterVec
}

// NewMetrics registers the pipeline's collectors against reg. Passing a
// fresh prometheus.NewRegistry() per call (rather than the global default
// registry) avoids duplicate-registration panics across repeated Run
// calls or parallel tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		passDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kimchi_msm",
			Name:      "pass_duration_seconds",
			Help:      "Wall-clock duration of one pipeline pass dispatch.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"pass"}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kimchi_msm",
			Name:      "dispatches_total",
			Help:      "Number of dispatch calls issued per pass.",
		}, []string{"pass"}),
	}
	reg.MustRegister(m.passDuration, m.dispatches)
	return m
}

// Observe records one dispatch of the named pass taking d.
func (m *Metrics) Observe(pass string, d time.Duration) {
	if m == nil {
		return
	}
	m.passDuration.WithLabelValues(pass).Observe(d.Seconds())
	m.dispatches.WithLabelValues(pass).Inc()
}

// Track is a convenience wrapper: Track("A")() records the elapsed time
// since Track was called.
func (m *Metrics) Track(pass string) func() {
	start := time.Now()
	return func() { m.Observe(pass, time.Since(start)) }
}
