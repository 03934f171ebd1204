package prometheus

import "github.com/prometheus/client_golang/prometheus"

// Default buckets, in seconds.
var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultFilterDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1}
	DefaultReloadDurationBuckets = []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60}
)

// AppMetrics holds every metric the explorer emits.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Query layer
	FilterRequestsTotal  *prometheus.CounterVec
	FilterDuration       *prometheus.HistogramVec
	FilterResultRows     *prometheus.HistogramVec
	GroupingRebuildTotal *prometheus.CounterVec
	GroupingRebuildDuration *prometheus.HistogramVec
	GroupCount           *prometheus.GaugeVec

	// Table lifecycle
	ReloadTotal    *prometheus.CounterVec
	ReloadDuration *prometheus.HistogramVec
	ReactionRows   *prometheus.GaugeVec
	UniquePhases   *prometheus.GaugeVec

	// Infrastructure
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec
}

// NewAppMetrics registers the explorer's metrics against the collector.
func NewAppMetrics(c MetricsCollector) *AppMetrics {
	return &AppMetrics{
		HTTPRequestsTotal: c.RegisterCounter("http_requests_total",
			"Total HTTP requests", "method", "path", "status"),
		HTTPRequestDuration: c.RegisterHistogram("http_request_duration_seconds",
			"HTTP request duration", DefaultHTTPDurationBuckets, "method", "path"),

		FilterRequestsTotal: c.RegisterCounter("filter_requests_total",
			"Filter operations served", "operation", "method"),
		FilterDuration: c.RegisterHistogram("filter_duration_seconds",
			"Filter operation duration", DefaultFilterDurationBuckets, "operation"),
		FilterResultRows: c.RegisterHistogram("filter_result_rows",
			"Rows returned per filter operation",
			[]float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000}, "operation"),
		GroupingRebuildTotal: c.RegisterCounter("grouping_rebuild_total",
			"Similarity grouping rebuilds", "method", "status"),
		GroupingRebuildDuration: c.RegisterHistogram("grouping_rebuild_duration_seconds",
			"Similarity grouping rebuild duration", DefaultReloadDurationBuckets, "method"),
		GroupCount: c.RegisterGauge("grouping_groups",
			"Groups in the current similarity grouping", "method"),

		ReloadTotal: c.RegisterCounter("table_reload_total",
			"Reaction table reloads", "source", "status"),
		ReloadDuration: c.RegisterHistogram("table_reload_duration_seconds",
			"Reaction table reload duration", DefaultReloadDurationBuckets, "source"),
		ReactionRows: c.RegisterGauge("table_reaction_rows",
			"Rows in the loaded reaction table", "source"),
		UniquePhases: c.RegisterGauge("table_unique_phases",
			"Distinct phase tokens in the loaded table", "source"),

		CacheHitsTotal: c.RegisterCounter("cache_hits_total",
			"Query cache hits", "operation"),
		CacheMissesTotal: c.RegisterCounter("cache_misses_total",
			"Query cache misses", "operation"),
		EventsPublished: c.RegisterCounter("events_published_total",
			"Lifecycle events published", "topic", "status"),
	}
}
