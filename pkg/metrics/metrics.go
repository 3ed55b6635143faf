package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics records bridge-backed store actions.
type StoreMetrics struct {
	duration *prometheus.HistogramVec
	failure  *prometheus.CounterVec
}

// NewStoreMetrics registers the store action metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_action_duration_seconds",
		Help:    "Duration of store actions against the bridge in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"store", "action"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_action_failure",
		Help: "Failed store actions.",
	}, []string{"store", "action"})
	reg.MustRegister(duration, failure)
	return &StoreMetrics{
		duration: duration,
		failure:  failure,
	}
}

// ObserveAction records the duration of one store action.
func (s *StoreMetrics) ObserveAction(store, action string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(store), normalizeLabel(action)).Observe(duration.Seconds())
}

// IncFailure increments the failure counter for one store action.
func (s *StoreMetrics) IncFailure(store, action string) {
	if s == nil || s.failure == nil {
		return
	}
	s.failure.WithLabelValues(normalizeLabel(store), normalizeLabel(action)).Inc()
}

// RefreshJobMetrics records metadata for the reports refresh poller.
type RefreshJobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewRefreshJobMetrics registers the refresh job metrics on the provided registerer.
func NewRefreshJobMetrics(reg prometheus.Registerer) *RefreshJobMetrics {
	if reg == nil {
		return &RefreshJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "refresh_duration_seconds",
		Help:    "Duration of report refresh cycles in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "refresh_success",
		Help: "Successful report refresh cycles.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "refresh_failure",
		Help: "Failed report refresh cycles.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure)
	return &RefreshJobMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named job.
func (r *RefreshJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (r *RefreshJobMetrics) IncSuccess(job string) {
	if r == nil || r.success == nil {
		return
	}
	r.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (r *RefreshJobMetrics) IncFailure(job string) {
	if r == nil || r.failure == nil {
		return
	}
	r.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
