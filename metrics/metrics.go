// Package metrics provides Prometheus metrics for the dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsTotal counts UI events handled by the session.
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "events_total",
			Help:      "Total number of UI events handled",
		},
		[]string{"event"},
	)

	// RecomputeDuration measures view model recomputation.
	RecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "dashboard",
			Name:      "recompute_duration_seconds",
			Help:      "Duration of view model recomputation in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)

	// VisibleRows tracks the row count of the last recomputed view.
	VisibleRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "dashboard",
			Name:      "visible_rows",
			Help:      "Number of rows in the last recomputed view",
		},
	)

	// LikeTogglesTotal counts like toggles by outcome.
	LikeTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "like_toggles_total",
			Help:      "Total number of like toggles",
		},
		[]string{"result"},
	)

	// StorageRecoveriesTotal counts like-set reads that fell back to an empty set.
	StorageRecoveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "storage_recoveries_total",
			Help:      "Total number of like-set reads recovered as empty",
		},
		[]string{"reason"},
	)

	// DatasetLoadsTotal counts dataset fetch attempts.
	DatasetLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "dataset_loads_total",
			Help:      "Total number of dataset fetch attempts",
		},
		[]string{"document", "source", "status"},
	)

	// FeedFetchesTotal counts crawler feed fetches by status.
	FeedFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "crawl",
			Name:      "feed_fetches_total",
			Help:      "Total number of feed fetches",
		},
		[]string{"status"},
	)

	// CrawlItemsTotal counts feed entries by what the crawler did with them.
	CrawlItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "crawl",
			Name:      "items_total",
			Help:      "Total number of feed entries processed",
		},
		[]string{"outcome"},
	)
)

// RecordEvent records a handled UI event and the recompute it triggered.
func RecordEvent(event string, duration float64, rows int) {
	EventsTotal.WithLabelValues(event).Inc()
	RecomputeDuration.Observe(duration)
	VisibleRows.Set(float64(rows))
}

// RecordLikeToggle records a toggle outcome: "liked", "unliked" or "error".
func RecordLikeToggle(result string) {
	LikeTogglesTotal.WithLabelValues(result).Inc()
}

// RecordStorageRecovery records an empty-set fallback.
func RecordStorageRecovery(reason string) {
	StorageRecoveriesTotal.WithLabelValues(reason).Inc()
}

// RecordDatasetLoad records one fetch attempt of a dataset document.
func RecordDatasetLoad(document, source, status string) {
	DatasetLoadsTotal.WithLabelValues(document, source, status).Inc()
}

func RecordFeedFetch(status string) {
	FeedFetchesTotal.WithLabelValues(status).Inc()
}

// RecordCrawlItem records an entry outcome: "added", "too_short" or "duplicate".
func RecordCrawlItem(outcome string) {
	CrawlItemsTotal.WithLabelValues(outcome).Inc()
}
