package firewall

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"

	"github.com/coreos/go-iptables/iptables"
	"github.com/vishvananda/netlink"
)

// requiredBinaries are the commands the controller shells out to.
var requiredBinaries = []string{ruleCommand, saveCommand, restoreCommand}

// filterChains are the built-in chains this tool manages.
var filterChains = []string{"INPUT", "FORWARD", "OUTPUT"}

// CheckBinaries verifies the iptables command family is on PATH.
func CheckBinaries() error {
	var missing []string
	for _, name := range requiredBinaries {
		if _, err := exec.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing commands: %s", strings.Join(missing, ", "))
	}
	return nil
}

// CheckFilterTable verifies the filter table is reachable and carries the
// built-in chains. Catches missing kernel modules and permission problems
// before the apply flow starts mutating anything.
func CheckFilterTable() error {
	ipt, err := iptables.NewWithProtocol(iptables.ProtocolIPv4)
	if err != nil {
		return fmt.Errorf("failed to initialize iptables: %v", err)
	}

	chains, err := ipt.ListChains("filter")
	if err != nil {
		return fmt.Errorf("failed to list filter table chains: %v", err)
	}

	present := make(map[string]bool, len(chains))
	for _, chain := range chains {
		present[chain] = true
	}
	for _, chain := range filterChains {
		if !present[chain] {
			return fmt.Errorf("filter table is missing built-in chain %s", chain)
		}
	}

	return nil
}

// CheckLoopback verifies the loopback interface exists and is up. The
// baseline ruleset depends on lo; a machine without it would lose local
// traffic the moment a drop policy lands.
func CheckLoopback() error {
	link, err := netlink.LinkByName("lo")
	if err != nil {
		return fmt.Errorf("loopback interface not found: %v", err)
	}

	attrs := link.Attrs()
	if attrs.Flags&net.FlagLoopback == 0 {
		return fmt.Errorf("interface lo is not a loopback")
	}
	if attrs.Flags&net.FlagUp == 0 {
		return fmt.Errorf("loopback interface is down")
	}

	return nil
}

// CheckRoot verifies the process runs with root privileges.
func CheckRoot() error {
	if euid := os.Geteuid(); euid != 0 {
		return fmt.Errorf("must run as root (euid %d)", euid)
	}
	return nil
}

// CheckWritableDir verifies dir exists (creating it if needed) and that the
// process can create files in it.
func CheckWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".fwguard-probe-*")
	if err != nil {
		return fmt.Errorf("directory %s is not writable: %v", dir, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return nil
}
