package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultEmpty = "empty"
)

var (
	// liveFetchTotal counts live fetches by source and outcome
	liveFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bitflation_live_fetch_total",
		Help: "Total live data fetches by source and result",
	}, []string{"source", "result"})

	// livePoints tracks how many points the last fetch of each source returned
	livePoints = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bitflation_live_points",
		Help: "Number of points returned by the last live fetch per source",
	}, []string{"source"})

	// refreshDuration tracks end-to-end refresh latency
	refreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bitflation_refresh_duration_seconds",
		Help:    "Live refresh duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
	})

	// snapshotVersion is the current dashboard snapshot version
	snapshotVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bitflation_snapshot_version",
		Help: "Version of the current pipeline input snapshot",
	})

	// viewCacheTotal counts view cache lookups by result
	viewCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bitflation_view_cache_total",
		Help: "Total view cache lookups by result",
	}, []string{"view", "result"})

	// grpcRequestsTotal counts gRPC requests by method and status code
	grpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bitflation_grpc_requests_total",
		Help: "Total gRPC requests by method and code",
	}, []string{"method", "code"})
)

// ObserveLiveFetch records the outcome of one live fetch
func ObserveLiveFetch(source string, points int) {
	result := ResultOK
	if points == 0 {
		result = ResultEmpty
	}
	liveFetchTotal.WithLabelValues(source, result).Inc()
	livePoints.WithLabelValues(source).Set(float64(points))
}

// ObserveRefresh records how long a refresh took
func ObserveRefresh(d time.Duration) {
	refreshDuration.Observe(d.Seconds())
}

// SetSnapshotVersion publishes the current snapshot version
func SetSnapshotVersion(version uint64) {
	snapshotVersion.Set(float64(version))
}

// ObserveViewCache records a view cache hit or miss
func ObserveViewCache(view string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	viewCacheTotal.WithLabelValues(view, result).Inc()
}

// ObserveGRPCRequest records a completed gRPC request
func ObserveGRPCRequest(method, code string) {
	grpcRequestsTotal.WithLabelValues(method, code).Inc()
}

// Handler serves the default registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.Handler()
}
