package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Outbox metrics
	OutboxPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrollment_sync_outbox_published_total",
			Help: "Total number of outbox records delivered to the broker",
		},
		[]string{"topic"},
	)

	OutboxPublishFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrollment_sync_outbox_publish_failures_total",
			Help: "Total number of failed outbox send attempts",
		},
		[]string{"topic"},
	)

	OutboxPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "enrollment_sync_outbox_pending",
			Help: "Unpublished outbox records observed after the last drain",
		},
	)

	OutboxDrainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrollment_sync_outbox_drain_duration_seconds",
			Help:    "Duration of one outbox drain in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Consumer metrics
	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrollment_sync_messages_consumed_total",
			Help: "Total number of inbound messages handled",
		},
		[]string{"topic", "outcome"},
	)

	// Ledger metrics
	LedgerPurgedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "enrollment_sync_ledger_purged_total",
			Help: "Total number of processed-event entries purged",
		},
	)
)
