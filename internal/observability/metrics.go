package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stream outcomes used as the outcome label.
const (
	OutcomeComplete     = "complete"
	OutcomeFetchError   = "fetch_error"
	OutcomeModelError   = "model_error"
	OutcomeDisconnected = "disconnected"
)

var (
	streamCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "itinerary_service",
		Subsystem: "stream",
		Name:      "streams_total",
		Help:      "Number of itinerary streams grouped by how they ended.",
	}, []string{"outcome"})

	streamDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "itinerary_service",
		Subsystem: "stream",
		Name:      "duration_seconds",
		Help:      "Wall time from request to terminal event.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
	})

	itemsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "itinerary_service",
		Subsystem: "stream",
		Name:      "items_emitted_total",
		Help:      "Number of itinerary items forwarded to clients.",
	})

	rejectedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "itinerary_service",
		Subsystem: "parser",
		Name:      "lines_rejected_total",
		Help:      "Complete lines of model output skipped by the record validator, labeled by reason.",
	}, []string{"reason"})

	discardedTailCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "itinerary_service",
		Subsystem: "parser",
		Name:      "discarded_tails_total",
		Help:      "Streams that ended with unterminated content left in the buffer.",
	})

	upstreamDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "itinerary_service",
		Subsystem: "upstream",
		Name:      "fetch_duration_seconds",
		Help:      "Latency of activities service requests.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	})

	classifierCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "itinerary_service",
		Subsystem: "classifier",
		Name:      "lookups_total",
		Help:      "Category classification requests labeled by cache result.",
	}, []string{"cache"})

	publishFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "itinerary_service",
		Subsystem: "eventbus",
		Name:      "publish_failures_total",
		Help:      "Itinerary events that could not be published to Kafka.",
	})

	lastCompletedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "itinerary_service",
		Subsystem: "stream",
		Name:      "last_stream_completed_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successfully completed stream.",
	})
)

func init() {
	prometheus.MustRegister(
		streamCounter,
		streamDuration,
		itemsCounter,
		rejectedCounter,
		discardedTailCounter,
		upstreamDuration,
		classifierCounter,
		publishFailures,
		lastCompletedGauge,
	)
}

// RecordStream counts a finished stream and its duration.
func RecordStream(outcome string, elapsed time.Duration) {
	streamCounter.WithLabelValues(outcome).Inc()
	streamDuration.Observe(elapsed.Seconds())
	if outcome == OutcomeComplete {
		lastCompletedGauge.Set(float64(time.Now().Unix()))
	}
}

// RecordItem counts one forwarded item.
func RecordItem() {
	itemsCounter.Inc()
}

// RecordRejection counts one skipped line.
func RecordRejection(reason string) {
	rejectedCounter.WithLabelValues(reason).Inc()
}

// RecordDiscardedTail counts a stream that ended mid-line.
func RecordDiscardedTail() {
	discardedTailCounter.Inc()
}

// ObserveUpstreamFetch records activities service latency.
func ObserveUpstreamFetch(elapsed time.Duration) {
	upstreamDuration.Observe(elapsed.Seconds())
}

// RecordClassifierLookup counts a classification request.
func RecordClassifierLookup(cacheHit bool) {
	result := "miss"
	if cacheHit {
		result = "hit"
	}
	classifierCounter.WithLabelValues(result).Inc()
}

// RecordPublishFailure counts an itinerary event that was not delivered.
func RecordPublishFailure() {
	publishFailures.Inc()
}
