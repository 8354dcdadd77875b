package api

import (
	"time"

	"github.com/fwguard/fwguard/internal/firewall"
)

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// VersionInfo contains build version information.
type VersionInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// StatusResponse reports the declared ruleset against the running firewall.
type StatusResponse struct {
	Version    VersionInfo `json:"version"`
	ConfigPath string      `json:"config_path"`

	// Declared side.
	Policies    *firewall.PolicySet `json:"policies"`
	Rules       int                 `json:"rules"`
	AdminAccess bool                `json:"admin_access"`

	// Running side. LivePolicies is empty when the firewall could not
	// be read; SyncError then explains why.
	LivePolicies []string `json:"live_policies,omitempty"`
	InSync       bool     `json:"in_sync"`
	SyncError    string   `json:"sync_error,omitempty"`

	Snapshots    int        `json:"snapshots"`
	LastSnapshot *time.Time `json:"last_snapshot,omitempty"`
	ObservedAt   time.Time  `json:"observed_at"`
}

// DiffResponse reports drift between the declared and running rulesets.
// Diff is a unified diff over the expected markers, empty when in sync.
type DiffResponse struct {
	InSync bool   `json:"in_sync"`
	Diff   string `json:"diff,omitempty"`
}

// SnapshotInfo describes one snapshot on disk.
type SnapshotInfo struct {
	Name    string    `json:"name"`
	TakenAt time.Time `json:"taken_at"`
	Size    int64     `json:"size"`
	Age     string    `json:"age"`
}

// SnapshotsResponse returns all snapshots, newest first.
type SnapshotsResponse struct {
	Snapshots []SnapshotInfo `json:"snapshots"`
}
