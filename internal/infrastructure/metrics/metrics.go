package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helperhive_bookings_created_total",
		Help: "Bookings requested by customers",
	})

	BookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helperhive_booking_transitions_total",
		Help: "Booking transition attempts by action and outcome",
	}, []string{"action", "outcome"})

	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helperhive_messages_sent_total",
		Help: "Direct messages persisted",
	})

	ReviewsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helperhive_reviews_total",
		Help: "Review submissions by outcome",
	}, []string{"outcome"})

	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helperhive_moderation_actions_total",
		Help: "Admin moderation actions",
	}, []string{"action"})

	NotificationsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helperhive_notifications_total",
		Help: "Notification deliveries by channel and outcome",
	}, []string{"channel", "outcome"})

	ActiveSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "helperhive_live_subscriptions",
		Help: "Open live query subscriptions",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "helperhive_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Outcome labels an operation result for counters.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
