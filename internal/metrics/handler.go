package metrics

import (
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Summary is the JSON response for the metrics summary endpoint.
type Summary struct {
	HTTP        httpSummary        `json:"http"`
	Aggregation aggregationSummary `json:"aggregation"`
	Leaderboard leaderboardSummary `json:"leaderboard"`
	DB          dbInfo             `json:"db"`
	Server      serverInfo         `json:"server"`
}

type httpSummary struct {
	TotalRequests float64 `json:"totalRequests"`
	ErrorRate     float64 `json:"errorRate"`
	P50Latency    float64 `json:"p50Latency"`
	P95Latency    float64 `json:"p95Latency"`
	P99Latency    float64 `json:"p99Latency"`
}

type aggregationSummary struct {
	TeamRecomputes      float64 `json:"teamRecomputes"`
	TeamRecomputeErrors float64 `json:"teamRecomputeErrors"`
	P95RecomputeSeconds float64 `json:"p95RecomputeSeconds"`
}

type leaderboardSummary struct {
	Rebuilds      float64 `json:"rebuilds"`
	RebuildErrors float64 `json:"rebuildErrors"`
	Entries       float64 `json:"entries"`
	P95Rebuild    float64 `json:"p95RebuildSeconds"`
}

type dbInfo struct {
	TotalConns    float64 `json:"totalConns"`
	IdleConns     float64 `json:"idleConns"`
	AcquiredConns float64 `json:"acquiredConns"`
}

type serverInfo struct {
	StartTime     float64 `json:"startTime"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
}

// PrometheusHandler serves the registry in the Prometheus text format.
func (m *Metrics) PrometheusHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SummaryHandler returns an http.HandlerFunc that serves a condensed JSON
// snapshot of the registry.
func (m *Metrics) SummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.handleSummary(w)
	}
}

func (m *Metrics) handleSummary(w http.ResponseWriter) {
	families, err := m.registry.Gather()
	if err != nil {
		http.Error(w, "failed to gather metrics", http.StatusInternalServerError)
		return
	}

	fam := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		fam[f.GetName()] = f
	}

	summary := Summary{
		HTTP: httpSummary{
			TotalRequests: sumCounter(fam["fitledger_http_requests_total"]),
			ErrorRate:     computeErrorRate(fam["fitledger_http_requests_total"]),
			P50Latency:    histogramPercentile(fam["fitledger_http_request_duration_seconds"], 0.50),
			P95Latency:    histogramPercentile(fam["fitledger_http_request_duration_seconds"], 0.95),
			P99Latency:    histogramPercentile(fam["fitledger_http_request_duration_seconds"], 0.99),
		},
		Aggregation: aggregationSummary{
			TeamRecomputes:      sumCounter(fam["fitledger_team_recomputes_total"]),
			TeamRecomputeErrors: counterWithLabel(fam["fitledger_team_recomputes_total"], "status", "error"),
			P95RecomputeSeconds: histogramPercentile(fam["fitledger_team_recompute_duration_seconds"], 0.95),
		},
		Leaderboard: leaderboardSummary{
			Rebuilds:      sumCounter(fam["fitledger_leaderboard_rebuilds_total"]),
			RebuildErrors: counterWithLabel(fam["fitledger_leaderboard_rebuilds_total"], "status", "error"),
			Entries:       gaugeValue(fam["fitledger_leaderboard_size"]),
			P95Rebuild:    histogramPercentile(fam["fitledger_leaderboard_rebuild_duration_seconds"], 0.95),
		},
		DB: dbInfo{
			TotalConns:    gaugeWithLabel(fam["fitledger_db_pool_conns"], "state", "total"),
			IdleConns:     gaugeWithLabel(fam["fitledger_db_pool_conns"], "state", "idle"),
			AcquiredConns: gaugeWithLabel(fam["fitledger_db_pool_conns"], "state", "acquired"),
		},
		Server: serverInfo{
			StartTime:     gaugeValue(fam["fitledger_server_start_time_seconds"]),
			UptimeSeconds: float64(time.Now().Unix()) - gaugeValue(fam["fitledger_server_start_time_seconds"]),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store")
	_ = json.NewEncoder(w).Encode(summary)
}

// --- Prometheus metric helpers ---

func sumCounter(f *dto.MetricFamily) float64 {
	if f == nil {
		return 0
	}
	var total float64
	for _, m := range f.GetMetric() {
		if m.GetCounter() != nil {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func gaugeValue(f *dto.MetricFamily) float64 {
	if f == nil {
		return 0
	}
	ms := f.GetMetric()
	if len(ms) == 0 {
		return 0
	}
	if ms[0].GetGauge() != nil {
		return ms[0].GetGauge().GetValue()
	}
	return 0
}

func gaugeWithLabel(f *dto.MetricFamily, labelName, labelValue string) float64 {
	if f == nil {
		return 0
	}
	for _, m := range f.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == labelName && lp.GetValue() == labelValue {
				if m.GetGauge() != nil {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	return 0
}

func counterWithLabel(f *dto.MetricFamily, labelName, labelValue string) float64 {
	if f == nil {
		return 0
	}
	for _, m := range f.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == labelName && lp.GetValue() == labelValue {
				if m.GetCounter() != nil {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func computeErrorRate(f *dto.MetricFamily) float64 {
	if f == nil {
		return 0
	}
	var total, errors float64
	for _, m := range f.GetMetric() {
		if m.GetCounter() == nil {
			continue
		}
		v := m.GetCounter().GetValue()
		total += v
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "status_code" {
				code := lp.GetValue()
				if len(code) > 0 && code[0] >= '4' {
					errors += v
				}
			}
		}
	}
	if total == 0 {
		return 0
	}
	return errors / total
}

// histogramPercentile estimates a percentile by linear interpolation across
// the merged cumulative buckets of every metric in the family.
func histogramPercentile(f *dto.MetricFamily, q float64) float64 {
	if f == nil {
		return 0
	}

	type bucket struct {
		upper float64
		count float64
	}
	merged := map[float64]float64{}
	var totalCount float64
	for _, m := range f.GetMetric() {
		h := m.GetHistogram()
		if h == nil {
			continue
		}
		totalCount += float64(h.GetSampleCount())
		for _, b := range h.GetBucket() {
			merged[b.GetUpperBound()] += float64(b.GetCumulativeCount())
		}
	}
	if totalCount == 0 {
		return 0
	}

	buckets := make([]bucket, 0, len(merged))
	for upper, count := range merged {
		buckets = append(buckets, bucket{upper: upper, count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].upper < buckets[j].upper })

	target := q * totalCount
	var prevUpper, prevCount float64
	for _, b := range buckets {
		if b.count >= target {
			if math.IsInf(b.upper, 1) || b.count == prevCount {
				return prevUpper
			}
			// Interpolate within the bucket.
			frac := (target - prevCount) / (b.count - prevCount)
			return prevUpper + frac*(b.upper-prevUpper)
		}
		prevUpper, prevCount = b.upper, b.count
	}
	return prevUpper
}
