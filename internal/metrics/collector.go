package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector handles metrics collection for the whitelist daemon
type Collector struct {
	registry *prometheus.Registry

	// Authorization metrics
	decisionsTotal *prometheus.CounterVec

	// Command metrics
	commandsTotal *prometheus.CounterVec

	// Store metrics
	entries         prometheus.Gauge
	persistFailures prometheus.Counter
	reloads         prometheus.Counter
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	collector := &Collector{
		registry: registry,
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warden_authorization_decisions_total",
				Help: "Total number of connection authorization decisions",
			},
			[]string{"decision", "reason"},
		),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warden_commands_total",
				Help: "Total number of administrative commands handled",
			},
			[]string{"command", "outcome"},
		),
		entries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "warden_whitelist_entries",
				Help: "Current number of whitelisted identifiers",
			},
		),
		persistFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "warden_whitelist_persist_failures_total",
				Help: "Total number of failed whitelist file writes",
			},
		),
		reloads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "warden_whitelist_reloads_total",
				Help: "Total number of whitelist reloads from disk",
			},
		),
	}

	// Register metrics
	registry.MustRegister(
		collector.decisionsTotal,
		collector.commandsTotal,
		collector.entries,
		collector.persistFailures,
		collector.reloads,
	)

	return collector
}

// ServeHTTP implements http.Handler for the metrics endpoint
func (c *Collector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

// RecordDecision records an authorization decision. A nil Collector is a no-op
// so the store and authorizer can run without metrics wired.
func (c *Collector) RecordDecision(decision, reason string) {
	if c == nil {
		return
	}
	c.decisionsTotal.WithLabelValues(decision, reason).Inc()
}

// RecordCommand records an administrative command outcome
func (c *Collector) RecordCommand(command, outcome string) {
	if c == nil {
		return
	}
	c.commandsTotal.WithLabelValues(command, outcome).Inc()
}

// SetEntries records the current whitelist size
func (c *Collector) SetEntries(n int) {
	if c == nil {
		return
	}
	c.entries.Set(float64(n))
}

// RecordPersistFailure records a failed whitelist file write
func (c *Collector) RecordPersistFailure() {
	if c == nil {
		return
	}
	c.persistFailures.Inc()
}

// RecordReload records a whitelist reload from disk
func (c *Collector) RecordReload() {
	if c == nil {
		return
	}
	c.reloads.Inc()
}
