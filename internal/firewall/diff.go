package firewall

import (
	"github.com/pmezard/go-difflib/difflib"
)

// DiffMarkers renders drift between the declared ruleset and the live
// listing as a unified diff over the expected markers. Removed lines are
// markers the running firewall does not carry. An empty diff means the
// firewall is in sync.
//
// The diff is over markers, not raw listings, because iptables echoes rules
// back with arguments reordered and match modules inserted; a textual diff
// of full listings would report drift on every line.
func DiffMarkers(live string, policies PolicySet, rules []*Rule) (string, error) {
	expected := ExpectedMarkers(policies, rules)

	declared := make([]string, 0, len(expected))
	running := make([]string, 0, len(expected))
	for _, m := range expected {
		line := m.Needle + "\n"
		declared = append(declared, line)
		if containsLine(live, m.Needle) {
			running = append(running, line)
		}
	}

	diff := difflib.UnifiedDiff{
		A:        declared,
		B:        running,
		FromFile: "declared",
		ToFile:   "running",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
