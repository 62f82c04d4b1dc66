package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics counts booking outcomes. A nil *BookingMetrics is a valid
// no-op so use cases never need to check.
type BookingMetrics struct {
	created              *prometheus.CounterVec
	conflicts            *prometheus.CounterVec
	transitions          *prometheus.CounterVec
	availabilityDuration *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "created_total",
			Help:      "Appointments committed, by origin",
		}, []string{"origin"}),
		conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "conflicts_total",
			Help:      "Bookings rejected because the slot was taken, by detection stage",
		}, []string{"stage"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "status_transitions_total",
			Help:      "Appointment status changes",
		}, []string{"from", "to"}),
		availabilityDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "booking",
			Name:      "availability_duration_seconds",
			Help:      "Latency of slot listing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"cache"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.created, m.conflicts, m.transitions, m.availabilityDuration)
	return m
}

func (m *BookingMetrics) ObserveCreated(origin string) {
	if m == nil {
		return
	}
	m.created.WithLabelValues(origin).Inc()
}

// ObserveConflict records where a double booking was caught: "recheck" for
// the in-transaction availability check, "unique_index" for the store.
func (m *BookingMetrics) ObserveConflict(stage string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(stage).Inc()
}

func (m *BookingMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *BookingMetrics) ObserveAvailability(cacheHit bool, seconds float64) {
	if m == nil {
		return
	}
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	m.availabilityDuration.WithLabelValues(label).Observe(seconds)
}
