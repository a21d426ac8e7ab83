package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thelife_actions_total",
			Help: "Player actions by name and result kind",
		},
		[]string{"action", "result"},
	)

	ActionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thelife_action_duration_seconds",
			Help:    "Wall time of player actions including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	TxRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thelife_tx_retries_total",
			Help: "Transactions retried after a concurrent modification",
		},
		[]string{"action"},
	)

	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thelife_rate_limited_total",
			Help: "Requests rejected by the per-player rate limiter",
		},
		[]string{"route"},
	)

	EventsForwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thelife_events_forwarded_total",
			Help: "Committed events handed to the message bus",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(ActionsTotal, ActionDuration, TxRetries, RateLimited, EventsForwarded)
}

// ObserveAction records one finished action
func ObserveAction(action, result string, started time.Time) {
	if result == "" {
		result = "ok"
	}
	ActionsTotal.WithLabelValues(action, result).Inc()
	ActionDuration.WithLabelValues(action).Observe(time.Since(started).Seconds())
}
