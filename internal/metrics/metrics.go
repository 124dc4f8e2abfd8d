// Package metrics defines Prometheus metrics for the marketplace client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "huskymart"

// Remote store metrics, labeled by Data API action (find, insertOne,
// updateOne, deleteOne).
var (
	StoreRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_requests_total",
		Help:      "Total number of Data API requests issued.",
	}, []string{"action"})

	StoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of Data API requests that failed.",
	}, []string{"action"})

	StoreRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_request_duration_seconds",
		Help:      "Duration of Data API requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"action"})

	StoreQuotaHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_quota_hits_total",
		Help:      "Times the daily Data API quota blocked a request.",
	})
)

// Purchase metrics, labeled by outcome: won, lost, self, not_found, error.
var (
	PurchasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Total purchase attempts by outcome.",
	}, []string{"outcome"})
)
