package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fwguard/fwguard/internal/clock"
	"github.com/fwguard/fwguard/internal/config"
	"github.com/fwguard/fwguard/internal/engine"
	"github.com/fwguard/fwguard/internal/firewall"
	"github.com/fwguard/fwguard/internal/metrics"
	"github.com/fwguard/fwguard/internal/snapshot"
)

// Handler manages all API endpoints and dependencies. Every endpoint is
// read-only; changing the firewall goes through the apply command on the
// host, never over HTTP.
type Handler struct {
	configPath string
	cfg        *config.Config
	ctl        firewall.Controller
	store      *snapshot.Store
	collector  *metrics.Collector
	clk        clock.Clock
	version    VersionInfo
}

// NewHandler creates a new API handler with the given dependencies.
func NewHandler(configPath string, cfg *config.Config, ctl firewall.Controller, store *snapshot.Store, collector *metrics.Collector, clk clock.Clock, version VersionInfo) *Handler {
	return &Handler{
		configPath: configPath,
		cfg:        cfg,
		ctl:        ctl,
		store:      store,
		collector:  collector,
		clk:        clk,
		version:    version,
	}
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(DataResponse{Data: data})
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

// writeText writes a successful plain text response.
func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

// GetStatus reports the declared ruleset, the running firewall and the
// snapshot inventory in one observation.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := h.collector.Observe()

	resp := StatusResponse{
		Version:      h.version,
		ConfigPath:   h.configPath,
		Policies:     h.cfg.Policies,
		Rules:        status.Rules,
		AdminAccess:  firewall.HasAdminAccess(h.cfg.Rules),
		LivePolicies: status.LivePolicies,
		InSync:       status.InSync,
		SyncError:    status.SyncError,
		Snapshots:    status.Snapshots,
		ObservedAt:   h.clk.Now().UTC(),
	}
	if !status.LastSnapshot.IsZero() {
		t := status.LastSnapshot
		resp.LastSnapshot = &t
	}

	writeJSONData(w, resp)
}

// GetRulesetPreview compiles the declared ruleset and returns the
// iptables-restore program that apply would load, without touching the
// firewall.
func (h *Handler) GetRulesetPreview(w http.ResponseWriter, r *http.Request) {
	policies, rules := h.cfg.RuleSet()
	session, err := engine.Preview(h.clk, policies, rules)
	if err != nil {
		WriteInvalidRuleset(w, err.Error())
		return
	}

	writeText(w, session.Program.Text())
}

// GetRulesetLive returns the running ruleset as reported by the firewall.
func (h *Handler) GetRulesetLive(w http.ResponseWriter, r *http.Request) {
	live, err := h.ctl.CurrentRules()
	if err != nil {
		WriteFirewallError(w, fmt.Sprintf("Failed to read the running ruleset: %v", err))
		return
	}

	writeText(w, live)
}

// GetRulesetDiff reports drift between the declared and running rulesets.
func (h *Handler) GetRulesetDiff(w http.ResponseWriter, r *http.Request) {
	live, err := h.ctl.CurrentRules()
	if err != nil {
		WriteFirewallError(w, fmt.Sprintf("Failed to read the running ruleset: %v", err))
		return
	}

	policies, rules := h.cfg.RuleSet()
	diff, err := firewall.DiffMarkers(live, policies, rules)
	if err != nil {
		WriteInternalError(w, fmt.Sprintf("Failed to compute the diff: %v", err))
		return
	}

	writeJSONData(w, DiffResponse{InSync: diff == "", Diff: diff})
}

// GetSnapshots lists the snapshots on disk, newest first.
func (h *Handler) GetSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.store.List()
	if err != nil {
		WriteInternalError(w, fmt.Sprintf("Failed to list snapshots: %v", err))
		return
	}

	infos := make([]SnapshotInfo, 0, len(snapshots))
	for _, snap := range snapshots {
		infos = append(infos, SnapshotInfo{
			Name:    snap.Name,
			TakenAt: snap.TakenAt,
			Size:    snap.Size,
			Age:     h.clk.Since(snap.TakenAt).Round(time.Second).String(),
		})
	}

	writeJSONData(w, SnapshotsResponse{Snapshots: infos})
}
