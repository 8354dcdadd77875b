package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all fwguard metrics.
type Registry struct {
	// Snapshots is the number of ruleset snapshots on disk.
	Snapshots prometheus.Gauge

	// SnapshotLastUnixtime is when the newest snapshot was taken.
	SnapshotLastUnixtime prometheus.Gauge

	// RulesConfigured is the number of rules in the loaded config.
	RulesConfigured prometheus.Gauge

	// RulesetInSync is 1 when the live ruleset carries every marker the
	// declared config requires, 0 otherwise.
	RulesetInSync prometheus.Gauge

	// Info carries the build version as a label.
	Info *prometheus.GaugeVec
}

// Get returns the global metrics registry, creating it if necessary.
func Get() *Registry {
	once.Do(func() {
		registry = newRegistry()
	})
	return registry
}

func newRegistry() *Registry {
	r := &Registry{}

	r.Snapshots = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fwguard_snapshots",
		Help: "Number of ruleset snapshots on disk",
	})

	r.SnapshotLastUnixtime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fwguard_snapshot_last_unixtime",
		Help: "Unix timestamp of the newest snapshot, 0 when there is none",
	})

	r.RulesConfigured = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fwguard_rules_configured",
		Help: "Number of rules in the loaded configuration",
	})

	r.RulesetInSync = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fwguard_ruleset_in_sync",
		Help: "Whether the live ruleset matches the declared configuration (1) or has drifted (0)",
	})

	r.Info = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fwguard_info",
		Help: "Build information",
	}, []string{"version"})

	return r
}

// SetInfo publishes the build version.
func (r *Registry) SetInfo(version string) {
	r.Info.WithLabelValues(version).Set(1)
}
