package firewall

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/fwguard/fwguard/internal/log"
)

const (
	saveCommand    = "iptables-save"
	restoreCommand = "iptables-restore"
	ruleCommand    = "iptables"
)

// IPTables drives the host firewall through the iptables command family.
type IPTables struct{}

var _ Controller = (*IPTables)(nil)

// NewIPTables returns the production controller.
func NewIPTables() *IPTables {
	return &IPTables{}
}

// Save captures the running ruleset with iptables-save.
func (ipt *IPTables) Save() (string, error) {
	return runCapture(saveCommand)
}

// CurrentRules lists policies and rules of the filter table with iptables -S.
func (ipt *IPTables) CurrentRules() (string, error) {
	return runCapture(ruleCommand, "-S")
}

// Apply feeds a compiled program to iptables-restore. The restore is atomic
// on the iptables side: either the whole program commits or nothing changes.
func (ipt *IPTables) Apply(ruleset string) error {
	log.Debugf("Applying ruleset (%d bytes) via %s", len(ruleset), restoreCommand)
	return ipt.runRestore(ruleset)
}

// Restore feeds a previously saved ruleset to iptables-restore.
func (ipt *IPTables) Restore(ruleset string) error {
	log.Debugf("Restoring ruleset (%d bytes) via %s", len(ruleset), restoreCommand)
	return ipt.runRestore(ruleset)
}

func (ipt *IPTables) runRestore(ruleset string) error {
	if _, err := exec.LookPath(restoreCommand); err != nil {
		return fmt.Errorf("failed to find %s command: %v", restoreCommand, err)
	}

	cmd := exec.Command(restoreCommand)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %v", err)
	}

	errCh := make(chan error, 2)
	go func() {
		defer func() {
			if err := stdin.Close(); err != nil {
				errCh <- fmt.Errorf("failed to close stdin pipe: %v", err)
			}
			close(errCh)
		}()

		if _, err := io.WriteString(stdin, ruleset); err != nil {
			errCh <- fmt.Errorf("failed to write ruleset to %s: %v", restoreCommand, err)
		}
	}()

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %v\n%s", restoreCommand, err, strings.TrimSpace(string(output)))
	}

	for err := range errCh {
		if err != nil {
			return err
		}
	}

	return nil
}

// runCapture runs a command whose stdout is the payload. stderr is folded
// into the error.
func runCapture(name string, args ...string) (string, error) {
	if _, err := exec.LookPath(name); err != nil {
		return "", fmt.Errorf("failed to find %s command: %v", name, err)
	}

	out, err := exec.Command(name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%s failed: %v: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%s failed: %v", name, err)
	}

	return string(out), nil
}
