package firewall

// Controller is the boundary to the host firewall. Everything above it
// (engine, snapshot store, commands, API) treats the firewall as four text
// operations; everything below it is exec plumbing.
type Controller interface {
	// Save returns the complete running ruleset in iptables-save format,
	// suitable for a later Restore.
	Save() (string, error)

	// Restore replaces the running ruleset with a previously saved one.
	// Used by the rollback path.
	Restore(ruleset string) error

	// Apply replaces the running ruleset with a compiled program.
	// Mechanically identical to Restore; kept separate so compensation is
	// distinguishable from forward mutation.
	Apply(ruleset string) error

	// CurrentRules returns the chain policies and rules of the filter table
	// in iptables -S format, used by post-apply validation and drift checks.
	CurrentRules() (string, error)
}
