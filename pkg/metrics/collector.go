// Package metrics exposes Prometheus collectors for the bot's two update lanes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot commands received labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot command handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	callbackQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "callback_queries_total",
			Help: "Total number of callback queries handled labeled by action and status",
		},
		[]string{"action", "status"},
	)
	callbackDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "callback_duration_seconds",
			Help:    "Duration of callback query handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
	quoteFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_fetch_total",
			Help: "Total number of quote fetch attempts by outcome",
		},
		[]string{"status"},
	)
	quoteFetchDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quote_fetch_duration_seconds",
			Help:    "Latency of quote endpoint calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	updatesDiscardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "updates_discarded_total",
			Help: "Updates dropped by the pump because no lane consumes their kind",
		},
	)
	duplicateUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "duplicate_updates_total",
			Help: "Updates skipped because they were already claimed by the dedup store",
		},
	)
)

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordCallback increments callback counters and records duration.
func RecordCallback(action, status string, duration time.Duration) {
	if action == "" {
		action = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	callbackQueriesTotal.WithLabelValues(action, status).Inc()
	callbackDurationSeconds.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordQuoteFetch tracks a fetch attempt against the quote endpoint.
func RecordQuoteFetch(status string, duration time.Duration) {
	if status == "" {
		status = "unknown"
	}

	quoteFetchTotal.WithLabelValues(status).Inc()
	quoteFetchDurationSeconds.Observe(duration.Seconds())
}

// RecordDiscardedUpdate counts updates carrying neither a message nor a callback.
func RecordDiscardedUpdate() {
	updatesDiscardedTotal.Inc()
}

// RecordDuplicateUpdate counts updates skipped by the dedup middleware.
func RecordDuplicateUpdate() {
	duplicateUpdatesTotal.Inc()
}
