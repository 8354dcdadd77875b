package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/fwguard/fwguard/internal/clock"
	"github.com/fwguard/fwguard/internal/config"
	"github.com/fwguard/fwguard/internal/firewall"
	"github.com/fwguard/fwguard/internal/log"
	"github.com/fwguard/fwguard/internal/snapshot"
)

// Status is one observation of the firewall against the declared config.
type Status struct {
	// Rules is the number of configured rules.
	Rules int `json:"rules"`
	// Snapshots is the number of snapshots on disk.
	Snapshots int `json:"snapshots"`
	// LastSnapshot is when the newest snapshot was taken, zero when none.
	LastSnapshot time.Time `json:"last_snapshot"`
	// LivePolicies are the chain policies currently reported by the
	// firewall, empty when the live ruleset could not be read.
	LivePolicies []string `json:"live_policies,omitempty"`
	// InSync reports whether the live ruleset carries every declared marker.
	InSync bool `json:"in_sync"`
	// SyncError explains what is missing when InSync is false.
	SyncError string `json:"sync_error,omitempty"`
}

// Collector periodically observes the firewall and updates the Prometheus
// registry. The serve command runs it next to the HTTP API.
type Collector struct {
	registry *Registry
	cfg      *config.Config
	store    *snapshot.Store
	ctl      firewall.Controller
	clk      clock.Clock
	interval time.Duration
	stopCh   chan struct{}

	// Last observation, for API access
	mu         sync.RWMutex
	lastStatus Status
	lastUpdate time.Time
}

// NewCollector creates a collector observing the given config, snapshot
// store and firewall.
func NewCollector(cfg *config.Config, store *snapshot.Store, ctl firewall.Controller, clk clock.Clock, interval time.Duration) *Collector {
	return &Collector{
		registry: Get(),
		cfg:      cfg,
		store:    store,
		ctl:      ctl,
		clk:      clk,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start observes once immediately, then on every tick until Stop is called.
func (c *Collector) Start() {
	log.Infof("Starting metrics collector (interval: %s)", c.interval)

	c.Observe()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Observe()
		case <-c.stopCh:
			log.Infof("Stopping metrics collector")
			return
		}
	}
}

// Stop stops the collection loop.
func (c *Collector) Stop() {
	close(c.stopCh)
}

// Observe takes a fresh observation, updates the Prometheus gauges and
// returns it. The status API calls this directly so its answers are never
// staler than the request.
func (c *Collector) Observe() Status {
	var status Status

	status.Rules = len(c.cfg.Rules)

	snapshots, err := c.store.List()
	if err != nil {
		log.Warnf("Failed to list snapshots: %v", err)
	}
	status.Snapshots = len(snapshots)
	if len(snapshots) > 0 {
		status.LastSnapshot = snapshots[0].TakenAt
	}

	policies, rules := c.cfg.RuleSet()
	live, err := c.ctl.CurrentRules()
	if err != nil {
		status.SyncError = err.Error()
	} else {
		status.LivePolicies = livePolicies(live)
		if err := firewall.ValidateLive(live, policies, rules); err != nil {
			status.SyncError = err.Error()
		} else {
			status.InSync = true
		}
	}

	c.registry.Snapshots.Set(float64(status.Snapshots))
	if status.LastSnapshot.IsZero() {
		c.registry.SnapshotLastUnixtime.Set(0)
	} else {
		c.registry.SnapshotLastUnixtime.Set(float64(status.LastSnapshot.Unix()))
	}
	c.registry.RulesConfigured.Set(float64(status.Rules))
	if status.InSync {
		c.registry.RulesetInSync.Set(1)
	} else {
		c.registry.RulesetInSync.Set(0)
	}

	c.mu.Lock()
	c.lastStatus = status
	c.lastUpdate = c.clk.Now()
	c.mu.Unlock()

	return status
}

// Last returns the most recent observation and when it was taken.
func (c *Collector) Last() (Status, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastStatus, c.lastUpdate
}

// livePolicies extracts the chain policy lines from an iptables listing.
func livePolicies(live string) []string {
	var out []string
	for _, line := range strings.Split(live, "\n") {
		if strings.HasPrefix(line, "-P ") {
			out = append(out, strings.TrimPrefix(line, "-P "))
		}
	}
	return out
}
