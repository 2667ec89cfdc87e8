package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the fitledger service.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Aggregation engine metrics.
	TeamRecomputesTotal        *prometheus.CounterVec
	TeamRecomputeDuration      prometheus.Histogram
	LeaderboardRebuildsTotal   *prometheus.CounterVec
	LeaderboardRebuildDuration prometheus.Histogram
	LeaderboardSize            prometheus.Gauge

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitledger_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fitledger_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		TeamRecomputesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitledger_team_recomputes_total",
			Help: "Total number of team aggregate recomputations.",
		}, []string{"status"}),

		TeamRecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fitledger_team_recompute_duration_seconds",
			Help:    "Duration of team aggregate recomputations in seconds.",
			Buckets: prometheus.DefBuckets,
		}),

		LeaderboardRebuildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitledger_leaderboard_rebuilds_total",
			Help: "Total number of leaderboard rebuilds.",
		}, []string{"status"}),

		LeaderboardRebuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fitledger_leaderboard_rebuild_duration_seconds",
			Help:    "Duration of leaderboard rebuilds in seconds.",
			Buckets: prometheus.DefBuckets,
		}),

		LeaderboardSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fitledger_leaderboard_size",
			Help: "Number of leaderboard entries after the last rebuild.",
		}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fitledger_server_start_time_seconds",
			Help: "Unix timestamp at which the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.TeamRecomputesTotal,
		m.TeamRecomputeDuration,
		m.LeaderboardRebuildsTotal,
		m.LeaderboardRebuildDuration,
		m.LeaderboardSize,
		m.ServerStartTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m.ServerStartTime.SetToCurrentTime()
	return m
}

// RegisterDBPool adds the database pool collector to the registry.
func (m *Metrics) RegisterDBPool(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, pathPattern, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(duration.Seconds())
}

// ObserveTeamRecompute records one team aggregate recomputation.
func (m *Metrics) ObserveTeamRecompute(duration time.Duration, err error) {
	m.TeamRecomputesTotal.WithLabelValues(statusLabel(err)).Inc()
	m.TeamRecomputeDuration.Observe(duration.Seconds())
}

// ObserveLeaderboardRebuild records one leaderboard rebuild.
func (m *Metrics) ObserveLeaderboardRebuild(duration time.Duration, size int, err error) {
	m.LeaderboardRebuildsTotal.WithLabelValues(statusLabel(err)).Inc()
	m.LeaderboardRebuildDuration.Observe(duration.Seconds())
	if err == nil {
		m.LeaderboardSize.Set(float64(size))
	}
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
