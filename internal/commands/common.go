package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/fwguard/fwguard/internal/config"
	"github.com/fwguard/fwguard/internal/errors"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	Verbose    bool

	// Build information, filled in by main.
	Version   string
	Commit    string
	BuildDate string
}

// Exit codes reported by the apply, diff and rollback commands. Scripts
// depend on these; do not renumber.
const (
	ExitOK               = 0
	ExitError            = 1
	ExitInvalidRuleset   = 2
	ExitBackupFailed     = 3
	ExitApplyFailed      = 4
	ExitValidationFailed = 5
	ExitNotConfirmed     = 6
	ExitRollbackFailed   = 7
)

// loadConfigOrFail loads configuration from file without validating it.
func loadConfigOrFail(configPath string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	return cfg, nil
}

// loadAndValidateConfigOrFail loads configuration from file and validates it.
func loadAndValidateConfigOrFail(configPath string) (*config.Config, error) {
	cfg, err := loadConfigOrFail(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("configuration validation failed:\n%v", err)
	}

	return cfg, nil
}

// exitCodeFor maps a failed firewall operation to its exit code.
func exitCodeFor(err error) int {
	switch errors.CodeOf(err) {
	case errors.ErrCodeInvalidRule, errors.ErrCodePolicyRefused:
		return ExitInvalidRuleset
	case errors.ErrCodeBackupFailed:
		return ExitBackupFailed
	case errors.ErrCodeApplyFailed:
		return ExitApplyFailed
	case errors.ErrCodeValidationFailed:
		return ExitValidationFailed
	case errors.ErrCodeRollbackFailed:
		return ExitRollbackFailed
	default:
		return ExitError
	}
}

// acquireLock takes an exclusive lock on <dir>/.lock so concurrent mutating
// commands cannot interleave snapshot and restore operations. The returned
// function releases the lock.
func acquireLock(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %v", dir, err)
	}

	path := filepath.Join(dir, ".lock")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file %s: %v", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, fmt.Errorf("another fwguard instance holds the lock on %s", path)
		}
		return nil, fmt.Errorf("failed to lock %s: %v", path, err)
	}

	return func() {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
	}, nil
}
