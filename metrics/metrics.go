// Package metrics exposes compiled-registry statistics as Prometheus
// collectors. The registry is immutable after startup, so collection reads
// need no synchronization.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/reoring/apischema"
)

// Config configures a Collector.
type Config struct {
	// Registry to report on. Required.
	Registry *apischema.Registry

	// Prefix is prepended to all metric names (default: "apischema").
	Prefix string
}

// Collector implements prometheus.Collector over a schema registry. It
// reports the number of compiled schemas, the field count of each, and how
// long each compilation pass took.
type Collector struct {
	reg *apischema.Registry

	schemas        *prometheus.Desc
	fields         *prometheus.Desc
	compileSeconds *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector for the given registry.
func NewCollector(cfg Config) *Collector {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "apischema"
	}
	return &Collector{
		reg: cfg.Registry,
		schemas: prometheus.NewDesc(
			prefix+"_registry_schemas",
			"Number of compiled schemas in the registry.",
			nil, nil,
		),
		fields: prometheus.NewDesc(
			prefix+"_schema_fields",
			"Number of top-level field declarations per compiled schema.",
			[]string{"schema"}, nil,
		),
		compileSeconds: prometheus.NewDesc(
			prefix+"_schema_compile_seconds",
			"Time the compilation pass took per schema.",
			[]string{"schema"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.schemas
	ch <- c.fields
	ch <- c.compileSeconds
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.schemas, prometheus.GaugeValue, float64(c.reg.Len()))
	for _, s := range c.reg.Schemas() {
		ch <- prometheus.MustNewConstMetric(c.fields, prometheus.GaugeValue, float64(s.FieldCount()), s.Name())
		ch <- prometheus.MustNewConstMetric(c.compileSeconds, prometheus.GaugeValue, s.CompileDuration().Seconds(), s.Name())
	}
}
