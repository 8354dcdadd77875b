package mocks

import (
	"errors"
	"testing"
)

// TestMockFirewallController_DefaultBehavior tests default mock behavior
func TestMockFirewallController_DefaultBehavior(t *testing.T) {
	mock := &MockFirewallController{Live: "*filter\n:INPUT ACCEPT\nCOMMIT\n"}

	saved, err := mock.Save()
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if saved != mock.Live {
		t.Errorf("Expected Save to return the live ruleset, got %q", saved)
	}
	if mock.SaveCalls != 1 {
		t.Errorf("Expected 1 call, got %d", mock.SaveCalls)
	}

	program := "*filter\n:INPUT DROP\n-A INPUT -p tcp --dport 22 -j ACCEPT\nCOMMIT\n"
	if err := mock.Apply(program); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if mock.Live != program {
		t.Error("Expected Apply to replace the live ruleset")
	}
	if mock.ApplyCalls != 1 || len(mock.AppliedRulesets) != 1 {
		t.Errorf("Expected 1 recorded apply, got %d/%d", mock.ApplyCalls, len(mock.AppliedRulesets))
	}

	if err := mock.Restore(saved); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if mock.Live != saved {
		t.Error("Expected Restore to replace the live ruleset")
	}
	if mock.RestoreCalls != 1 || mock.RestoredRulesets[0] != saved {
		t.Errorf("Expected the restored ruleset to be recorded, got %v", mock.RestoredRulesets)
	}
}

// TestMockFirewallController_CustomBehavior tests custom function behavior
func TestMockFirewallController_CustomBehavior(t *testing.T) {
	expectedErr := errors.New("test error")

	mock := &MockFirewallController{
		Live: "original",
		ApplyFunc: func(ruleset string) error {
			return expectedErr
		},
	}

	err := mock.Apply("new ruleset")
	if !errors.Is(err, expectedErr) {
		t.Errorf("Expected the custom error, got: %v", err)
	}
	if mock.Live != "original" {
		t.Error("Expected a failed Apply to leave the live ruleset alone")
	}
	if mock.ApplyCalls != 1 || mock.AppliedRulesets[0] != "new ruleset" {
		t.Error("Expected the attempted apply to be recorded")
	}
}

func TestRenderListing(t *testing.T) {
	program := "*filter\n" +
		":INPUT DROP\n" +
		":FORWARD DROP\n" +
		":OUTPUT ACCEPT\n" +
		"-A INPUT -i lo -j ACCEPT\n" +
		"COMMIT\n"

	want := "-P INPUT DROP\n" +
		"-P FORWARD DROP\n" +
		"-P OUTPUT ACCEPT\n" +
		"-A INPUT -i lo -j ACCEPT\n"

	if got := RenderListing(program); got != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestRenderListing_PassesThroughListings(t *testing.T) {
	listing := "-P INPUT ACCEPT\n-A INPUT -i lo -j ACCEPT\n"
	if got := RenderListing(listing); got != listing {
		t.Errorf("Expected listing to pass through unchanged, got %q", got)
	}
}

func TestMockFirewallController_CurrentRulesRendersLive(t *testing.T) {
	mock := &MockFirewallController{}

	if err := mock.Apply("*filter\n:INPUT DROP\n-A INPUT -p tcp --dport 22 -j ACCEPT\nCOMMIT\n"); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	live, err := mock.CurrentRules()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	want := "-P INPUT DROP\n-A INPUT -p tcp --dport 22 -j ACCEPT\n"
	if live != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, live)
	}
	if mock.CurrentRulesCalls != 1 {
		t.Errorf("Expected 1 call, got %d", mock.CurrentRulesCalls)
	}
}
