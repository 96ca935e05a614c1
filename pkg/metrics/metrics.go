package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "codesync", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "codesync", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "codesync", Name: "webhook_events_total", Help: "Identity provider webhook events by type and outcome."},
		[]string{"type", "outcome"},
	)
	InterviewStatusUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "codesync", Name: "interview_status_updates_total", Help: "Interview status writes by target status."},
		[]string{"status"},
	)
	CommentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "codesync", Name: "comments_created_total", Help: "Number of stored interview comments."},
	)
	RealtimePublishes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "codesync", Name: "realtime_publishes_total", Help: "Query invalidations published by topic kind."},
		[]string{"topic_kind"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(WebhookEvents)
	reg.MustRegister(InterviewStatusUpdates)
	reg.MustRegister(CommentsCreated)
	reg.MustRegister(RealtimePublishes)
}
