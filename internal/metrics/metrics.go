package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hotel_ops"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status class.",
		},
		[]string{"route", "code"},
	)

	cleaningStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleaning_sessions_started_total",
			Help:      "Cleaning sessions opened.",
		},
	)

	cleaningClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleaning_sessions_closed_total",
			Help:      "Cleaning sessions closed by outcome and punctuality.",
		},
		[]string{"status", "on_time"},
	)

	cleaningDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cleaning_duration_minutes",
			Help:      "Length of completed cleaning sessions.",
			Buckets:   []float64{15, 30, 45, 60, 75, 90, 108, 120, 150, 180},
		},
	)

	overdueSessions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleaning_sessions_overdue_total",
			Help:      "Open sessions flagged by the overdue monitor.",
		},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Applied status transitions by entity and target status.",
		},
		[]string{"entity", "to"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_notifications_total",
			Help:      "Push deliveries by result.",
		},
		[]string{"result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			cleaningStarted,
			cleaningClosed,
			cleaningDuration,
			overdueSessions,
			transitions,
			notifications,
		)
	})
}

// IncHTTP increments the counter for a route and status code class such as "2xx".
func IncHTTP(route, code string) {
	httpRequests.WithLabelValues(route, code).Inc()
}

func CleaningStarted() {
	cleaningStarted.Inc()
}

// CleaningClosed records a closed session. Only completed sessions feed the histogram.
func CleaningClosed(status string, minutes int, onTime bool) {
	label := "false"
	if onTime {
		label = "true"
	}
	cleaningClosed.WithLabelValues(status, label).Inc()
	if status == "completed" {
		cleaningDuration.Observe(float64(minutes))
	}
}

func Overdue() {
	overdueSessions.Inc()
}

// Transition counts an applied status change of an entity kind.
func Transition(entity, to string) {
	transitions.WithLabelValues(entity, to).Inc()
}

// Notification counts a push delivery result: sent, expired or failed.
func Notification(result string) {
	notifications.WithLabelValues(result).Inc()
}
