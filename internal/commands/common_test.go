package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwguard/fwguard/internal/errors"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.NewInvalidRuleError("bad rule", nil), ExitInvalidRuleset},
		{errors.NewPolicyRefusedError("no admin rule"), ExitInvalidRuleset},
		{errors.NewBackupFailedError("save failed", nil), ExitBackupFailed},
		{errors.NewApplyFailedError("restore rejected", nil), ExitApplyFailed},
		{errors.NewValidationFailedError("marker missing", nil), ExitValidationFailed},
		{errors.NewRollbackFailedError("restore failed", nil), ExitRollbackFailed},
		{fmt.Errorf("plain error"), ExitError},
	}

	for _, tt := range tests {
		if got := exitCodeFor(tt.err); got != tt.want {
			t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestAcquireLock(t *testing.T) {
	dir := t.TempDir()

	unlock, err := acquireLock(dir)
	if err != nil {
		t.Fatalf("first acquireLock() failed: %v", err)
	}

	if _, err := acquireLock(dir); err == nil {
		t.Fatal("Expected the second lock attempt to fail while the first is held")
	} else if !strings.Contains(err.Error(), "holds the lock") {
		t.Errorf("Unexpected error: %v", err)
	}

	unlock()

	unlock2, err := acquireLock(dir)
	if err != nil {
		t.Fatalf("acquireLock() after release failed: %v", err)
	}
	unlock2()
}

func TestAcquireLock_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "snapshots")

	unlock, err := acquireLock(dir)
	if err != nil {
		t.Fatalf("acquireLock() failed: %v", err)
	}
	defer unlock()

	if _, err := os.Stat(filepath.Join(dir, ".lock")); err != nil {
		t.Errorf("Lock file not created: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fwguard.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadAndValidateConfigOrFail(t *testing.T) {
	path := writeConfig(t, `config_version = 1

[policies]
input = "drop"
forward = "drop"
output = "accept"

[[rule]]
name = "ssh"
port = 22
protocol = "tcp"
action = "accept"
`)

	cfg, err := loadAndValidateConfigOrFail(path)
	if err != nil {
		t.Fatalf("loadAndValidateConfigOrFail() failed: %v", err)
	}
	if len(cfg.Rules) != 1 {
		t.Errorf("Expected 1 rule, got %d", len(cfg.Rules))
	}
}

func TestLoadAndValidateConfigOrFail_InvalidConfig(t *testing.T) {
	path := writeConfig(t, `config_version = 1

[policies]
input = "drop"
forward = "drop"
output = "accept"

[[rule]]
name = "bad"
port = 0
protocol = "tcp"
action = "accept"
`)

	_, err := loadAndValidateConfigOrFail(path)
	if err == nil {
		t.Fatal("Expected a validation error for port 0")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoadConfigOrFail_MissingFile(t *testing.T) {
	_, err := loadConfigOrFail(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("Expected an error for a missing config file")
	}
}
