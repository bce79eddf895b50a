package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking funnel.
type BookingMetrics struct {
	submissionsTotal  *prometheus.CounterVec
	wizardActionTotal *prometheus.CounterVec
	honeypotTotal     prometheus.Counter
	submitLatency     prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wellvitas",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Total booking submissions by outcome",
		}, []string{"status"}),
		wizardActionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wellvitas",
			Subsystem: "booking",
			Name:      "wizard_actions_total",
			Help:      "Total wizard actions applied",
		}, []string{"action"}),
		honeypotTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wellvitas",
			Subsystem: "booking",
			Name:      "honeypot_hits_total",
			Help:      "Submissions silently dropped by the honeypot",
		}),
		submitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wellvitas",
			Subsystem: "booking",
			Name:      "submit_latency_seconds",
			Help:      "Latency of booking submission handling",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.wizardActionTotal, m.honeypotTotal, m.submitLatency)
	return m
}

func (m *BookingMetrics) ObserveSubmission(status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveWizardAction(action string) {
	if m == nil {
		return
	}
	m.wizardActionTotal.WithLabelValues(action).Inc()
}

func (m *BookingMetrics) ObserveHoneypot() {
	if m == nil {
		return
	}
	m.honeypotTotal.Inc()
}

func (m *BookingMetrics) ObserveSubmitLatency(seconds float64) {
	if m == nil {
		return
	}
	m.submitLatency.Observe(seconds)
}
