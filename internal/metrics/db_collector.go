package metrics

import "github.com/prometheus/client_golang/prometheus"

// DBPoolStatFunc returns database pool statistics without importing pgxpool.
type DBPoolStatFunc func() (total, idle, acquired int32)

// dbPoolCollector exposes the pool stats as a labeled gauge, sampled on
// every scrape.
type dbPoolCollector struct {
	statFunc DBPoolStatFunc
	desc     *prometheus.Desc
}

// NewDBPoolCollector creates a collector reporting
// fitledger_db_pool_conns{state="total"|"idle"|"acquired"}.
func NewDBPoolCollector(statFunc DBPoolStatFunc) prometheus.Collector {
	return &dbPoolCollector{
		statFunc: statFunc,
		desc: prometheus.NewDesc(
			"fitledger_db_pool_conns",
			"Connections in the database pool by state.",
			[]string{"state"}, nil,
		),
	}
}

func (c *dbPoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *dbPoolCollector) Collect(ch chan<- prometheus.Metric) {
	total, idle, acquired := c.statFunc()
	for state, v := range map[string]int32{"total": total, "idle": idle, "acquired": acquired} {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(v), state)
	}
}
