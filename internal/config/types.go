package config

import (
	"path/filepath"
	"time"

	"github.com/fwguard/fwguard/internal/firewall"
	"github.com/fwguard/fwguard/internal/utils"
)

const (
	// DefaultConfigPath is where the daemonless CLI looks for its config.
	DefaultConfigPath = "/etc/fwguard/fwguard.toml"

	// DefaultSnapshotDir holds ruleset snapshots taken before each apply.
	DefaultSnapshotDir = "/var/lib/fwguard/snapshots"

	// DefaultLogDir holds the per-day operation journals.
	DefaultLogDir = "/var/log/fwguard"

	// DefaultConfirmTimeoutSeconds is the post-apply confirmation window.
	DefaultConfirmTimeoutSeconds = 60

	// DefaultAPIListen is the status API address when [api] is present but
	// has no listen value.
	DefaultAPIListen = "127.0.0.1:8137"

	currentConfigVersion = 1
)

type Config struct {
	// ConfigVersion is the configuration file version.
	ConfigVersion uint8 `toml:"config_version" json:"config_version"`
	// General holds directories and timing.
	General *GeneralConfig `toml:"general" json:"general"`
	// Policies are the default verdicts for the three built-in chains.
	Policies *firewall.PolicySet `toml:"policies" json:"policies"`
	// Rules is the ordered list of INPUT rules. Order is preserved all the
	// way into the compiled program.
	Rules []*firewall.Rule `toml:"rule,omitempty" json:"rule,omitempty"`
	// API enables the read-only status API when present.
	API *APIConfig `toml:"api,omitempty" json:"api,omitempty"`

	_absConfigFilePath string
}

type GeneralConfig struct {
	// SnapshotDir is the directory for ruleset snapshots. Relative paths
	// resolve against the config file location.
	SnapshotDir string `toml:"snapshot_dir" json:"snapshot_dir"`
	// LogDir is the directory for operation journals. Relative paths resolve
	// against the config file location.
	LogDir string `toml:"log_dir" json:"log_dir"`
	// ConfirmTimeoutSeconds is how long an apply waits for confirmation
	// before rolling back (default: 60).
	ConfirmTimeoutSeconds int `toml:"confirm_timeout_seconds" json:"confirm_timeout_seconds" validate:"gte=0"`
}

type APIConfig struct {
	// Listen is the host:port of the read-only status API (default: 127.0.0.1:8137).
	Listen string `toml:"listen" json:"listen" validate:"hostport_or_empty"`
}

// applyDefaults fills unset values after decoding. Called by LoadConfig, so
// every loaded Config is fully populated.
func (c *Config) applyDefaults() {
	if c.ConfigVersion == 0 {
		c.ConfigVersion = currentConfigVersion
	}
	if c.General == nil {
		c.General = &GeneralConfig{}
	}
	if c.General.SnapshotDir == "" {
		c.General.SnapshotDir = DefaultSnapshotDir
	}
	if c.General.LogDir == "" {
		c.General.LogDir = DefaultLogDir
	}
	if c.General.ConfirmTimeoutSeconds == 0 {
		c.General.ConfirmTimeoutSeconds = DefaultConfirmTimeoutSeconds
	}
	for _, rule := range c.Rules {
		if rule.Source == "" {
			rule.Source = firewall.SourceAny
		}
	}
	if c.API != nil && c.API.Listen == "" {
		c.API.Listen = DefaultAPIListen
	}
}

// GetConfigDir returns the directory of the loaded config file.
func (c *Config) GetConfigDir() string {
	return filepath.Dir(c._absConfigFilePath)
}

// GetAbsSnapshotDir returns the snapshot directory as an absolute path.
func (c *Config) GetAbsSnapshotDir() string {
	return utils.GetAbsolutePath(c.General.SnapshotDir, c.GetConfigDir())
}

// GetAbsLogDir returns the journal directory as an absolute path.
func (c *Config) GetAbsLogDir() string {
	return utils.GetAbsolutePath(c.General.LogDir, c.GetConfigDir())
}

// ConfirmTimeout returns the confirmation window as a duration.
func (c *Config) ConfirmTimeout() time.Duration {
	return time.Duration(c.General.ConfirmTimeoutSeconds) * time.Second
}

// RuleSet returns the declared policies and rules, ready for the compiler.
func (c *Config) RuleSet() (firewall.PolicySet, []*firewall.Rule) {
	if c.Policies == nil {
		return firewall.PolicySet{}, c.Rules
	}
	return *c.Policies, c.Rules
}
