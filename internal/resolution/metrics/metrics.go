package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchTotal tracks remote lookups per entity and outcome
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oldestdate_fetch_total",
			Help: "Total number of MusicBrainz lookups",
		},
		[]string{"entity", "outcome"},
	)

	// FetchRetries tracks retries after transient network failures
	FetchRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oldestdate_fetch_retries_total",
			Help: "Total number of retried MusicBrainz lookups",
		},
		[]string{"entity"},
	)

	// FetchLatency tracks lookup latency
	FetchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oldestdate_fetch_latency_seconds",
			Help:    "MusicBrainz lookup latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"entity"},
	)

	// CacheLookups tracks recording cache hits and misses per tier
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oldestdate_cache_lookups_total",
			Help: "Total number of recording cache lookups",
		},
		[]string{"tier", "result"},
	)

	// Resolutions tracks resolution outcomes
	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oldestdate_resolutions_total",
			Help: "Total number of oldest date resolutions",
		},
		[]string{"outcome"},
	)

	// TracksProcessed tracks library items handled by the processor
	TracksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oldestdate_tracks_processed_total",
			Help: "Total number of library tracks processed",
		},
		[]string{"result"},
	)

	// DBConnectionPoolUsage tracks the library database pool usage in percent
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "oldestdate_db_connection_pool_usage",
			Help: "Library database connection pool usage percentage",
		},
	)
)
