package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeUpdated    = "updated"
	outcomeFetchError = "fetch_error"
	outcomeInvalid    = "invalid"
	outcomeStale      = "stale"
)

var (
	resourceRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tack",
		Name:      "resource_refresh_total",
		Help:      "Background refreshes of revalidating resources by outcome.",
	}, []string{"resource", "outcome"})

	storageWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tack",
		Name:      "storage_write_failures_total",
		Help:      "Storage writes that failed and were degraded to no-ops.",
	})

	sessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tack",
		Name:      "sessions_created_total",
		Help:      "Sessions created from the catalog.",
	})

	sessionsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tack",
		Name:      "sessions_expired_total",
		Help:      "Stored sessions discarded because their TTL elapsed.",
	})
)
