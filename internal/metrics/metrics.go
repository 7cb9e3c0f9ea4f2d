// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tutor"

var (
	ChatTurns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_turns_total",
			Help:      "Chat turns handled, by outcome (ok, completion_failed, persist_failed).",
		},
		[]string{"outcome"},
	)

	CompletionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Latency of completion gateway calls including retries.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 90},
		},
		[]string{"purpose", "status"},
	)

	PromptTokens = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prompt_tokens_estimated",
			Help:      "Estimated prompt size of assembled chat turns.",
			Buckets:   prometheus.ExponentialBuckets(128, 2, 8),
		},
	)

	Compactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions_total",
			Help:      "Compaction attempts, by result (compacted, skipped, conflict, warning, error).",
		},
		[]string{"result"},
	)

	PrunedMessages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pruned_messages_total",
			Help:      "Messages deleted after being folded into a summary.",
		},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Chat requests rejected by the per-session limiter.",
		},
	)

	QueueTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_tasks_total",
			Help:      "Compaction tasks seen by the worker, by outcome (done, requeued, dlq).",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		ChatTurns,
		CompletionDuration,
		PromptTokens,
		Compactions,
		PrunedMessages,
		RateLimited,
		QueueTasks,
	)
}
