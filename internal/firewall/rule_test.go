package firewall

import "testing"

func TestRule_SourceSpec(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		wantAddr   string
		wantNegate bool
	}{
		{"wildcard", "any", "", false},
		{"empty means any", "", "", false},
		{"host address", "192.0.2.10", "192.0.2.10", false},
		{"cidr block", "10.0.0.0/8", "10.0.0.0/8", false},
		{"negated cidr", "!10.0.0.0/8", "10.0.0.0/8", true},
		{"negated with space", "! 192.0.2.10", "192.0.2.10", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Rule{Source: tt.source}
			addr, negate := r.SourceSpec()
			if addr != tt.wantAddr || negate != tt.wantNegate {
				t.Errorf("SourceSpec() = (%q, %v), want (%q, %v)", addr, negate, tt.wantAddr, tt.wantNegate)
			}
		})
	}
}

func TestValidSourceSpec(t *testing.T) {
	tests := []struct {
		source string
		valid  bool
	}{
		{"any", true},
		{"", true},
		{"192.0.2.10", true},
		{"10.0.0.0/8", true},
		{"!10.0.0.0/8", true},
		{"!192.0.2.10", true},
		{"!", false},
		{"!any", false},
		{"not-an-address", false},
		{"10.0.0.0/33", false},
		{"2001:db8::1", false},
		{"2001:db8::/64", false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := ValidSourceSpec(tt.source); got != tt.valid {
				t.Errorf("ValidSourceSpec(%q) = %v, want %v", tt.source, got, tt.valid)
			}
		})
	}
}

func TestRule_IsAdminAccess(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		want bool
	}{
		{"ssh accept", Rule{Name: "ssh", Port: 22, Protocol: ProtocolTCP, Action: ActionAccept}, true},
		{"ssh accept from subnet", Rule{Name: "ssh", Port: 22, Protocol: ProtocolTCP, Action: ActionAccept, Source: "10.0.0.0/8"}, true},
		{"ssh drop", Rule{Name: "no-ssh", Port: 22, Protocol: ProtocolTCP, Action: ActionDrop}, false},
		{"udp 22", Rule{Name: "odd", Port: 22, Protocol: ProtocolUDP, Action: ActionAccept}, false},
		{"other port", Rule{Name: "web", Port: 443, Protocol: ProtocolTCP, Action: ActionAccept}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.IsAdminAccess(); got != tt.want {
				t.Errorf("IsAdminAccess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasAdminAccess(t *testing.T) {
	with := []*Rule{
		{Name: "web", Port: 443, Protocol: ProtocolTCP, Action: ActionAccept},
		{Name: "ssh", Port: 22, Protocol: ProtocolTCP, Action: ActionAccept},
	}
	without := []*Rule{
		{Name: "web", Port: 443, Protocol: ProtocolTCP, Action: ActionAccept},
		{Name: "dns", Port: 53, Protocol: ProtocolUDP, Action: ActionAccept},
	}

	if !HasAdminAccess(with) {
		t.Error("expected admin access to be detected")
	}
	if HasAdminAccess(without) {
		t.Error("expected no admin access without a tcp/22 accept rule")
	}
	if HasAdminAccess(nil) {
		t.Error("expected no admin access in an empty ruleset")
	}
}

func TestRule_String(t *testing.T) {
	r := &Rule{Name: "ssh", Port: 22, Protocol: ProtocolTCP, Action: ActionAccept, Source: ""}
	want := "ssh: accept tcp/22 from any"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestActionAndPolicyTargets(t *testing.T) {
	if got := ActionReject.Target(); got != "REJECT" {
		t.Errorf("ActionReject.Target() = %q, want REJECT", got)
	}
	if got := PolicyDrop.Target(); got != "DROP" {
		t.Errorf("PolicyDrop.Target() = %q, want DROP", got)
	}
}
