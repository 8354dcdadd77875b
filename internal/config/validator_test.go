package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwguard/fwguard/internal/firewall"
)

func validPolicies() *firewall.PolicySet {
	return &firewall.PolicySet{
		Input:   firewall.PolicyDrop,
		Forward: firewall.PolicyDrop,
		Output:  firewall.PolicyAccept,
	}
}

func asValidationErrors(t *testing.T, err error) ValidationErrors {
	t.Helper()
	if err == nil {
		t.Fatal("Expected a validation error, got nil")
	}
	var ve ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationErrors, got %T: %v", err, err)
	}
	return ve
}

// hasError reports whether one of the collected errors names the given item
// and field.
func hasError(ve ValidationErrors, itemName, fieldPath string) bool {
	for _, e := range ve {
		if e.ItemName == itemName && strings.Contains(e.FieldPath, fieldPath) {
			return true
		}
	}
	return false
}

func TestValidateConfig_Success(t *testing.T) {
	config := &Config{
		ConfigVersion: 1,
		General:       &GeneralConfig{ConfirmTimeoutSeconds: 60},
		Policies:      validPolicies(),
		Rules: []*firewall.Rule{
			{Name: "ssh", Port: 22, Protocol: "tcp", Action: "accept", Source: "any"},
			{Name: "web", Port: 443, Protocol: "tcp", Action: "accept", Source: "10.0.0.0/8"},
			{Name: "no-legacy", Port: 23, Protocol: "tcp", Action: "drop", Source: "! 192.168.1.0/24"},
		},
	}

	if err := config.ValidateConfig(); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestValidateConfig_MissingPolicies(t *testing.T) {
	config := &Config{
		Rules: []*firewall.Rule{
			{Name: "ssh", Port: 22, Protocol: "tcp", Action: "accept", Source: "any"},
		},
	}

	ve := asValidationErrors(t, config.ValidateConfig())
	if !hasError(ve, "", "policies") {
		t.Errorf("Expected an error naming the policies section, got: %v", ve)
	}
}

func TestValidateConfig_IncompletePolicies(t *testing.T) {
	config := &Config{
		Policies: &firewall.PolicySet{Input: firewall.PolicyDrop},
	}

	ve := asValidationErrors(t, config.ValidateConfig())
	if !hasError(ve, "", "policies.forward") {
		t.Errorf("Expected an error for the missing forward policy, got: %v", ve)
	}
	if !hasError(ve, "", "policies.output") {
		t.Errorf("Expected an error for the missing output policy, got: %v", ve)
	}
}

func TestValidateConfig_RejectPolicyRefused(t *testing.T) {
	config := &Config{
		Policies: &firewall.PolicySet{
			Input:   "reject",
			Forward: firewall.PolicyDrop,
			Output:  firewall.PolicyAccept,
		},
	}

	ve := asValidationErrors(t, config.ValidateConfig())
	if !hasError(ve, "", "policies.input") {
		t.Errorf("Expected an error for the reject input policy, got: %v", ve)
	}
}

func TestValidateConfig_RuleFieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		rule      *firewall.Rule
		wantField string
	}{
		{
			name:      "port zero",
			rule:      &firewall.Rule{Name: "bad", Port: 0, Protocol: "tcp", Action: "accept", Source: "any"},
			wantField: "port",
		},
		{
			name:      "port too large",
			rule:      &firewall.Rule{Name: "bad", Port: 65536, Protocol: "tcp", Action: "accept", Source: "any"},
			wantField: "port",
		},
		{
			name:      "unknown protocol",
			rule:      &firewall.Rule{Name: "bad", Port: 22, Protocol: "icmp", Action: "accept", Source: "any"},
			wantField: "protocol",
		},
		{
			name:      "unknown action",
			rule:      &firewall.Rule{Name: "bad", Port: 22, Protocol: "tcp", Action: "allow", Source: "any"},
			wantField: "action",
		},
		{
			name:      "malformed source",
			rule:      &firewall.Rule{Name: "bad", Port: 22, Protocol: "tcp", Action: "accept", Source: "10.0.0.0/40"},
			wantField: "source",
		},
		{
			name:      "bare negation",
			rule:      &firewall.Rule{Name: "bad", Port: 22, Protocol: "tcp", Action: "accept", Source: "!"},
			wantField: "source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{
				Policies: validPolicies(),
				Rules:    []*firewall.Rule{tt.rule},
			}

			ve := asValidationErrors(t, config.ValidateConfig())
			if !hasError(ve, "bad", tt.wantField) {
				t.Errorf("Expected an error naming rule %q field %q, got: %v", "bad", tt.wantField, ve)
			}
		})
	}
}

func TestValidateConfig_UnnamedRule(t *testing.T) {
	config := &Config{
		Policies: validPolicies(),
		Rules: []*firewall.Rule{
			{Port: 22, Protocol: "tcp", Action: "accept", Source: "any"},
		},
	}

	ve := asValidationErrors(t, config.ValidateConfig())
	if !hasError(ve, "rule[0]", "name") {
		t.Errorf("Expected an error for the unnamed rule, got: %v", ve)
	}
}

func TestValidateConfig_DuplicateRuleNames(t *testing.T) {
	config := &Config{
		Policies: validPolicies(),
		Rules: []*firewall.Rule{
			{Name: "ssh", Port: 22, Protocol: "tcp", Action: "accept", Source: "any"},
			{Name: "ssh", Port: 2222, Protocol: "tcp", Action: "accept", Source: "any"},
		},
	}

	ve := asValidationErrors(t, config.ValidateConfig())
	if !hasError(ve, "ssh", "name") {
		t.Errorf("Expected a duplicate-name error for rule ssh, got: %v", ve)
	}
}

func TestValidateConfig_UnsupportedVersion(t *testing.T) {
	config := &Config{
		ConfigVersion: 2,
		Policies:      validPolicies(),
	}

	ve := asValidationErrors(t, config.ValidateConfig())
	if !hasError(ve, "", "config_version") {
		t.Errorf("Expected a config_version error, got: %v", ve)
	}
}

func TestValidateConfig_EmptyRulesAllowed(t *testing.T) {
	config := &Config{
		Policies: validPolicies(),
	}

	if err := config.ValidateConfig(); err != nil {
		t.Errorf("Expected a config without rules to validate, got: %v", err)
	}
}

func TestValidateConfig_BadAPIListen(t *testing.T) {
	config := &Config{
		Policies: validPolicies(),
		API:      &APIConfig{Listen: "localhost"},
	}

	ve := asValidationErrors(t, config.ValidateConfig())
	if !hasError(ve, "", "api.listen") {
		t.Errorf("Expected an error for the malformed listen address, got: %v", ve)
	}
}

func TestValidateConfig_CollectsAllErrors(t *testing.T) {
	config := &Config{
		Policies: &firewall.PolicySet{Input: "reject"},
		Rules: []*firewall.Rule{
			{Name: "a", Port: 0, Protocol: "tcp", Action: "accept", Source: "any"},
			{Name: "b", Port: 22, Protocol: "icmp", Action: "accept", Source: "any"},
		},
	}

	ve := asValidationErrors(t, config.ValidateConfig())
	if len(ve) < 4 {
		t.Errorf("Expected validation to collect every error, got %d: %v", len(ve), ve)
	}

	rendered := ve.Error()
	if !strings.Contains(rendered, "1.") || !strings.Contains(rendered, "2.") {
		t.Errorf("Expected a numbered error list, got:\n%s", rendered)
	}
}

func TestExampleConfig(t *testing.T) {
	configFile := filepath.Join("../../fwguard.example.toml")

	config, err := LoadConfig(configFile)
	if err != nil {
		t.Fatalf("Expected no error for the example config: %v", err)
	}

	if config == nil {
		t.Fatal("Expected config to be non-nil")
	}

	if err := config.ValidateConfig(); err != nil {
		t.Errorf("Expected the example config to validate: %v", err)
	}

	if !firewall.HasAdminAccess(config.Rules) {
		t.Error("Expected the example config to keep ssh reachable")
	}
}
