package firewall

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/fwguard/fwguard/internal/errors"
)

// The compiled program is plain iptables-restore input for the filter table.
// Statement fragments are rendered from templates so the shape of every line
// lives in one place.
var (
	policyTpl = fasttemplate.New(":{{chain}} {{policy}}", "{{", "}}")
	ruleTpl   = fasttemplate.New("-A INPUT -p {{protocol}}{{source}} --dport {{port}} -j {{target}}", "{{", "}}")
)

// baselineStatements are emitted before any user rule, in this order. They
// keep established connections and loopback traffic alive no matter what the
// user ruleset says.
var baselineStatements = []string{
	"-A INPUT -m conntrack --ctstate ESTABLISHED,RELATED -j ACCEPT",
	"-A INPUT -i lo -j ACCEPT",
}

// chainOrder fixes the order of policy declarations.
var chainOrder = []string{"INPUT", "FORWARD", "OUTPUT"}

// Program is a compiled firewall ruleset, ready for iptables-restore.
type Program struct {
	lines       []string
	text        string
	ruleCount   int
	adminAccess bool
}

// Lines returns every line of the program in order, including the table
// header, policy declarations and the COMMIT terminator.
func (p *Program) Lines() []string {
	return p.lines
}

// Text returns the full program with a trailing newline.
func (p *Program) Text() string {
	return p.text
}

// NumRules returns the number of user rules compiled into the program.
func (p *Program) NumRules() int {
	return p.ruleCount
}

// NumStatements returns the number of -A statements (baseline + user rules).
func (p *Program) NumStatements() int {
	return len(baselineStatements) + p.ruleCount
}

// HasAdminAccess reports whether the compiled ruleset contains a rule that
// keeps tcp/22 reachable. Programs without it must never be applied.
func (p *Program) HasAdminAccess() bool {
	return p.adminAccess
}

// Compile renders policies and rules into a deterministic iptables-restore
// program. It is pure: identical input produces byte-identical output, and
// no dataplane access happens here.
//
// Rules are compiled in the order given; the baseline safety statements
// always come first. Structurally invalid rules (unknown protocol or action,
// port out of range, malformed source) are rejected so that broken input can
// never reach iptables-restore, even when it bypassed config validation.
func Compile(policies PolicySet, rules []*Rule) (*Program, error) {
	if err := validatePolicies(policies); err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(chainOrder)+len(baselineStatements)+len(rules)+2)
	lines = append(lines, "*filter")

	for _, chain := range chainOrder {
		lines = append(lines, policyTpl.ExecuteString(map[string]interface{}{
			"chain":  chain,
			"policy": policyFor(policies, chain).Target(),
		}))
	}

	lines = append(lines, baselineStatements...)

	for i, rule := range rules {
		stmt, err := compileRule(i, rule)
		if err != nil {
			return nil, err
		}
		lines = append(lines, stmt)
	}

	lines = append(lines, "COMMIT")

	return &Program{
		lines:       lines,
		text:        strings.Join(lines, "\n") + "\n",
		ruleCount:   len(rules),
		adminAccess: HasAdminAccess(rules),
	}, nil
}

func policyFor(policies PolicySet, chain string) Policy {
	switch chain {
	case "INPUT":
		return policies.Input
	case "FORWARD":
		return policies.Forward
	default:
		return policies.Output
	}
}

func validatePolicies(policies PolicySet) error {
	for _, chain := range chainOrder {
		policy := policyFor(policies, chain)
		switch policy {
		case PolicyAccept, PolicyDrop:
		default:
			return errors.NewInvalidRuleError(
				fmt.Sprintf("chain policy for %s must be accept or drop, got %q",
					strings.ToLower(chain), policy), nil)
		}
	}
	return nil
}

func compileRule(index int, rule *Rule) (string, error) {
	name := rule.Name
	if name == "" {
		name = fmt.Sprintf("rule[%d]", index)
	}

	switch rule.Protocol {
	case ProtocolTCP, ProtocolUDP:
	default:
		return "", errors.NewInvalidRuleError(
			fmt.Sprintf("rule %s: protocol must be tcp or udp, got %q", name, rule.Protocol), nil)
	}

	switch rule.Action {
	case ActionAccept, ActionDrop, ActionReject:
	default:
		return "", errors.NewInvalidRuleError(
			fmt.Sprintf("rule %s: action must be accept, drop or reject, got %q", name, rule.Action), nil)
	}

	if rule.Port < 1 || rule.Port > 65535 {
		return "", errors.NewInvalidRuleError(
			fmt.Sprintf("rule %s: port must be within 1-65535, got %d", name, rule.Port), nil)
	}

	if !ValidSourceSpec(rule.Source) {
		return "", errors.NewInvalidRuleError(
			fmt.Sprintf("rule %s: source must be %q, an IPv4 address or CIDR, or a negation of one, got %q",
				name, SourceAny, rule.Source), nil)
	}

	addr, negate := rule.SourceSpec()
	source := ""
	switch {
	case addr == "":
	case negate:
		source = " ! -s " + addr
	default:
		source = " -s " + addr
	}

	return ruleTpl.ExecuteString(map[string]interface{}{
		"protocol": string(rule.Protocol),
		"source":   source,
		"port":     strconv.Itoa(rule.Port),
		"target":   rule.Action.Target(),
	}), nil
}

// Marker is one trace the declared ruleset must leave in `iptables -S`
// output. Needle is matched as a substring of a single line, which keeps the
// check independent of the extra arguments iptables inserts when echoing
// rules back (`-m tcp` and friends).
type Marker struct {
	// Label says what the marker stands for, for reports.
	Label string
	// Needle is the substring searched for.
	Needle string
}

// ExpectedMarkers returns every marker the declared ruleset must leave in
// the live listing: one per chain policy, one for the admin access rule, and
// one per accept rule. Drop and reject rules carry no marker; their absence
// would already surface as unexpected reachability, and the policies cover
// the default verdict. Duplicate needles (two accept rules on the same port)
// are listed once.
func ExpectedMarkers(policies PolicySet, rules []*Rule) []Marker {
	markers := make([]Marker, 0, len(chainOrder)+1+len(rules))
	seen := make(map[string]bool)

	for _, chain := range chainOrder {
		needle := fmt.Sprintf("-P %s %s", chain, policyFor(policies, chain).Target())
		markers = append(markers, Marker{
			Label:  fmt.Sprintf("%s policy", strings.ToLower(chain)),
			Needle: needle,
		})
		seen[needle] = true
	}

	adminNeedle := fmt.Sprintf("--dport %d -j ACCEPT", AdminPort)
	markers = append(markers, Marker{
		Label:  "admin access rule (tcp/22 accept)",
		Needle: adminNeedle,
	})
	seen[adminNeedle] = true

	for _, rule := range rules {
		if rule.Action != ActionAccept {
			continue
		}
		needle := fmt.Sprintf("--dport %d -j ACCEPT", rule.Port)
		if seen[needle] {
			continue
		}
		seen[needle] = true
		markers = append(markers, Marker{
			Label:  fmt.Sprintf("rule %s", rule.Name),
			Needle: needle,
		})
	}

	return markers
}

// MissingMarkers returns the expected markers that are absent from the live
// listing, in declaration order.
func MissingMarkers(live string, policies PolicySet, rules []*Rule) []Marker {
	var missing []Marker
	for _, m := range ExpectedMarkers(policies, rules) {
		if !containsLine(live, m.Needle) {
			missing = append(missing, m)
		}
	}
	return missing
}

// ValidateLive checks the output of Controller.CurrentRules against the
// declared intent and reports everything that is missing at once.
func ValidateLive(live string, policies PolicySet, rules []*Rule) error {
	missing := MissingMarkers(live, policies, rules)
	if len(missing) == 0 {
		return nil
	}

	parts := make([]string, len(missing))
	for i, m := range missing {
		parts[i] = fmt.Sprintf("%s (%q)", m.Label, m.Needle)
	}
	return errors.NewValidationFailedError(
		fmt.Sprintf("live ruleset is missing: %s", strings.Join(parts, "; ")), nil)
}

// containsLine reports whether any line of text contains the marker.
func containsLine(text, marker string) bool {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
