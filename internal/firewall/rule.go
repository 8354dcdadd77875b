package firewall

import (
	"fmt"
	"net"
	"strings"
)

// Protocol is the transport protocol a rule matches.
type Protocol string

const (
	ProtocolTCP Protocol = "tcp"
	ProtocolUDP Protocol = "udp"
)

// Action is what happens to a packet matched by a rule.
type Action string

const (
	ActionAccept Action = "accept"
	ActionDrop   Action = "drop"
	ActionReject Action = "reject"
)

// Target returns the iptables jump target for the action.
func (a Action) Target() string {
	return strings.ToUpper(string(a))
}

// Policy is the default verdict of a built-in chain. iptables only accepts
// ACCEPT and DROP as chain policies, so reject is not a valid value here.
type Policy string

const (
	PolicyAccept Policy = "accept"
	PolicyDrop   Policy = "drop"
)

// Target returns the iptables spelling of the policy.
func (p Policy) Target() string {
	return strings.ToUpper(string(p))
}

// PolicySet holds the default policy for each built-in chain of the filter
// table. All three must be set; there is no implicit default.
type PolicySet struct {
	// Input is the default policy for the INPUT chain.
	Input Policy `toml:"input" json:"input" validate:"required,oneof=accept drop"`
	// Forward is the default policy for the FORWARD chain.
	Forward Policy `toml:"forward" json:"forward" validate:"required,oneof=accept drop"`
	// Output is the default policy for the OUTPUT chain.
	Output Policy `toml:"output" json:"output" validate:"required,oneof=accept drop"`
}

// Rule describes one INPUT chain rule: a verdict for a single destination
// port, optionally restricted to (or excluding) a source.
type Rule struct {
	// Name identifies the rule in logs and validation errors.
	Name string `toml:"name" json:"name" validate:"required"`
	// Port is the destination port to match.
	Port int `toml:"port" json:"port" validate:"required,min=1,max=65535"`
	// Protocol is the transport protocol to match (tcp or udp).
	Protocol Protocol `toml:"protocol" json:"protocol" validate:"required,oneof=tcp udp"`
	// Action is the verdict for matching packets (accept, drop or reject).
	Action Action `toml:"action" json:"action" validate:"required,oneof=accept drop reject"`
	// Source restricts the rule to a source address. "any" (or empty) matches
	// everything; a CIDR block or host address matches that source; a "!"
	// prefix inverts the match.
	Source string `toml:"source" json:"source" validate:"fw_source"`
}

// SourceAny is the wildcard source.
const SourceAny = "any"

// AdminPort is the SSH port every applied ruleset must keep reachable.
const AdminPort = 22

// SourceSpec splits the source into its negation flag and address part.
// The wildcard returns ("", false).
func (r *Rule) SourceSpec() (addr string, negate bool) {
	src := strings.TrimSpace(r.Source)
	if src == "" || src == SourceAny {
		return "", false
	}
	if rest, ok := strings.CutPrefix(src, "!"); ok {
		return strings.TrimSpace(rest), true
	}
	return src, false
}

// IsAdminAccess reports whether the rule keeps remote administration alive:
// an accept verdict for tcp/22. The source is deliberately not inspected;
// the live validation pass checks reachability in the applied ruleset.
func (r *Rule) IsAdminAccess() bool {
	return r.Action == ActionAccept && r.Protocol == ProtocolTCP && r.Port == AdminPort
}

// String renders the rule for logs: "ssh: accept tcp/22 from any".
func (r *Rule) String() string {
	src := r.Source
	if src == "" {
		src = SourceAny
	}
	return fmt.Sprintf("%s: %s %s/%d from %s", r.Name, r.Action, r.Protocol, r.Port, src)
}

// HasAdminAccess reports whether any rule in the set is an admin access rule.
func HasAdminAccess(rules []*Rule) bool {
	for _, r := range rules {
		if r.IsAdminAccess() {
			return true
		}
	}
	return false
}

// ValidSourceSpec reports whether source is a well-formed rule source:
// the wildcard, a host address, a CIDR block, or any of those negated.
func ValidSourceSpec(source string) bool {
	src := strings.TrimSpace(source)
	if src == "" || src == SourceAny {
		return true
	}
	if rest, ok := strings.CutPrefix(src, "!"); ok {
		src = strings.TrimSpace(rest)
		if src == "" || src == SourceAny {
			return false
		}
	}
	if strings.Contains(src, "/") {
		ip, _, err := net.ParseCIDR(src)
		return err == nil && ip.To4() != nil
	}
	ip := net.ParseIP(src)
	return ip != nil && ip.To4() != nil
}
