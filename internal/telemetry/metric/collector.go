package metric

import "github.com/prometheus/client_golang/prometheus"

// Stats is the point-in-time state the Collector reports.
type Stats struct {
	CoreRunning      bool
	CoreRestarts     int
	EventSubscribers int
}

// Collector reports values pulled from the application at scrape time.
type Collector struct {
	stats func() Stats

	coreUp      *prometheus.Desc
	restarts    *prometheus.Desc
	subscribers *prometheus.Desc
}

// NewCollector creates a collector backed by stats.
func NewCollector(stats func() Stats) *Collector {
	return &Collector{
		stats: stats,
		coreUp: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "core", "up"),
			"Whether the managed core is running (1) or not (0)", nil, nil),
		restarts: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "core", "restarts"),
			"Restarts performed since the service started", nil, nil),
		subscribers: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "events", "subscribers"),
			"Live event bus subscriptions", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.coreUp
	ch <- c.restarts
	ch <- c.subscribers
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()

	up := 0.0
	if s.CoreRunning {
		up = 1
	}
	ch <- prometheus.MustNewConstMetric(c.coreUp, prometheus.GaugeValue, up)
	ch <- prometheus.MustNewConstMetric(c.restarts, prometheus.CounterValue, float64(s.CoreRestarts))
	ch <- prometheus.MustNewConstMetric(c.subscribers, prometheus.GaugeValue, float64(s.EventSubscribers))
}
