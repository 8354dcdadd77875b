// Package mocks provides mock implementations for testing.
//
// This package should ONLY be imported in test files (_test.go).
// The Go toolchain will automatically exclude this package from production builds
// since it's not imported in any production code.
package mocks

import (
	"strings"
)

// MockFirewallController is a mock implementation of the firewall.Controller
// interface.
//
// It allows tests to provide custom behavior for each method through function
// fields. If a function field is nil, the mock behaves like a tiny in-memory
// dataplane: Apply and Restore replace the Live ruleset, Save and
// CurrentRules read it back.
//
// Example usage:
//
//	mock := &mocks.MockFirewallController{Live: "*filter\n:INPUT ACCEPT\nCOMMIT\n"}
//	err := engine.Run(...)
//	if mock.RestoreCalls != 1 { ... }
type MockFirewallController struct {
	// SaveFunc is called by Save if not nil
	SaveFunc func() (string, error)

	// RestoreFunc is called by Restore if not nil
	RestoreFunc func(ruleset string) error

	// ApplyFunc is called by Apply if not nil
	ApplyFunc func(ruleset string) error

	// CurrentRulesFunc is called by CurrentRules if not nil
	CurrentRulesFunc func() (string, error)

	// Live is the simulated ruleset. Save returns it, the default Apply and
	// Restore replace it, and the default CurrentRules renders it in
	// `iptables -S` form when it looks like a restore-format program.
	Live string

	// Track calls for verification in tests
	SaveCalls         int
	RestoreCalls      int
	ApplyCalls        int
	CurrentRulesCalls int

	// AppliedRulesets records every Apply argument in order.
	AppliedRulesets []string

	// RestoredRulesets records every Restore argument in order.
	RestoredRulesets []string
}

// Save returns the simulated running ruleset.
func (m *MockFirewallController) Save() (string, error) {
	m.SaveCalls++
	if m.SaveFunc != nil {
		return m.SaveFunc()
	}
	return m.Live, nil
}

// Restore records the ruleset and, by default, makes it the live one.
func (m *MockFirewallController) Restore(ruleset string) error {
	m.RestoreCalls++
	m.RestoredRulesets = append(m.RestoredRulesets, ruleset)
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ruleset)
	}
	m.Live = ruleset
	return nil
}

// Apply records the ruleset and, by default, makes it the live one.
func (m *MockFirewallController) Apply(ruleset string) error {
	m.ApplyCalls++
	m.AppliedRulesets = append(m.AppliedRulesets, ruleset)
	if m.ApplyFunc != nil {
		return m.ApplyFunc(ruleset)
	}
	m.Live = ruleset
	return nil
}

// CurrentRules returns the simulated ruleset as `iptables -S` would list it.
func (m *MockFirewallController) CurrentRules() (string, error) {
	m.CurrentRulesCalls++
	if m.CurrentRulesFunc != nil {
		return m.CurrentRulesFunc()
	}
	return RenderListing(m.Live), nil
}

// RenderListing converts a restore-format ruleset into the listing
// `iptables -S` would produce for it: policy declarations become `-P` lines,
// append rules pass through, table markers and COMMIT disappear. Input that
// is not restore-format is returned unchanged.
func RenderListing(ruleset string) string {
	if !strings.HasPrefix(strings.TrimSpace(ruleset), "*") {
		return ruleset
	}

	var lines []string
	for _, line := range strings.Split(ruleset, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "" || line == "COMMIT" || strings.HasPrefix(line, "*"):
			continue
		case strings.HasPrefix(line, ":"):
			// ":INPUT DROP" lists as "-P INPUT DROP".
			fields := strings.Fields(strings.TrimPrefix(line, ":"))
			if len(fields) >= 2 {
				lines = append(lines, "-P "+fields[0]+" "+fields[1])
			}
		default:
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
