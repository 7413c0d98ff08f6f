package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueueDepth tracks the number of live items in the offline queue
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storyforge_queue_depth",
			Help: "Number of live items in the offline queue",
		},
	)

	// QueueItemsTotal tracks processed queue items by outcome
	QueueItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storyforge_queue_items_total",
			Help: "Total number of queue items by outcome",
		},
		[]string{"outcome"},
	)

	// QueueRetriesTotal tracks retries performed while draining the queue
	QueueRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storyforge_queue_retries_total",
			Help: "Total number of retry waits performed for queued items",
		},
	)

	// ConnectivityOnline reports the current connectivity flag (1 = online)
	ConnectivityOnline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storyforge_connectivity_online",
			Help: "Whether the client currently considers itself online",
		},
	)

	// LLMRequestsTotal tracks generation calls per provider
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storyforge_llm_requests_total",
			Help: "Total number of LLM generation requests",
		},
		[]string{"provider", "status"},
	)

	// LLMRequestDuration tracks generation call latency per provider
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storyforge_llm_request_duration_seconds",
			Help:    "LLM generation request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
)
