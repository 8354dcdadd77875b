// Package firewall contains the rule model, the ruleset compiler and the
// dataplane boundary.
//
// # Rule model
//
// A ruleset is a PolicySet (default verdict per built-in chain of the filter
// table) plus an ordered list of Rules (port-level INPUT verdicts with an
// optional source restriction). The model is IPv4-only and deliberately
// small: no custom chains, no NAT, no tables beyond filter.
//
// # Compiler
//
// Compile renders a ruleset into an iptables-restore program:
//
//	*filter
//	:INPUT DROP
//	:FORWARD DROP
//	:OUTPUT ACCEPT
//	-A INPUT -m conntrack --ctstate ESTABLISHED,RELATED -j ACCEPT
//	-A INPUT -i lo -j ACCEPT
//	-A INPUT -p tcp --dport 22 -j ACCEPT
//	COMMIT
//
// The two baseline statements always precede user rules, so established
// connections and loopback traffic survive any user ruleset. Compilation is
// deterministic and pure; nothing here touches the dataplane.
//
// # Controller
//
// Controller abstracts the four firewall operations (save, restore, apply,
// current rules) as text in, text out. IPTables is the production
// implementation on top of iptables-save/iptables-restore/iptables -S.
// ValidateLive checks iptables -S output against a declared ruleset.
//
// # Preflight
//
// The Check* helpers verify the environment (binaries, filter table,
// loopback, privileges, directories) before anything is mutated.
package firewall
