package postgrid

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postgrid_source_pages_fetched_total",
		Help: "Pages fetched from the external content source.",
	})
	recordsNormalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postgrid_records_normalized_total",
		Help: "Records successfully normalized into posts.",
	})
	recordsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postgrid_records_skipped_total",
		Help: "Records skipped during normalization.",
	})
	titleLookups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postgrid_title_lookups_total",
		Help: "Title lookups issued to the external content source.",
	})
	nameCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postgrid_name_cache_hits_total",
		Help: "Id-to-name resolutions served from the cache.",
	})
)
