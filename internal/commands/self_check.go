package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/fwguard/fwguard/internal/clock"
	"github.com/fwguard/fwguard/internal/config"
	"github.com/fwguard/fwguard/internal/engine"
	"github.com/fwguard/fwguard/internal/firewall"
	"github.com/fwguard/fwguard/internal/log"
)

func CreateSelfCheckCommand() *SelfCheckCommand {
	gc := &SelfCheckCommand{
		fs: flag.NewFlagSet("self-check", flag.ExitOnError),
	}
	return gc
}

type SelfCheckCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config
}

func (g *SelfCheckCommand) Name() string {
	return g.fs.Name()
}

func (g *SelfCheckCommand) Init(args []string, ctx *AppContext) error {
	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	return nil
}

func (g *SelfCheckCommand) Run() error {
	log.Infof("Running self-check...")
	log.Infof("---------------- Configuration START -----------------")

	if buf, err := g.cfg.SerializeConfig(); err != nil {
		log.Errorf("Failed to serialize config: %v", err)
		return err
	} else if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
		log.Errorf("Failed to output config: %v", err)
		return err
	}

	log.Infof("----------------- Configuration END ------------------")

	checks := []struct {
		name string
		fn   func() error
	}{
		{"iptables binaries", firewall.CheckBinaries},
		{"filter table", firewall.CheckFilterTable},
		{"loopback interface", firewall.CheckLoopback},
		{"root privileges", firewall.CheckRoot},
		{"snapshot directory", func() error { return firewall.CheckWritableDir(g.cfg.GetAbsSnapshotDir()) }},
		{"log directory", func() error { return firewall.CheckWritableDir(g.cfg.GetAbsLogDir()) }},
		{"declared ruleset", g.checkRuleset},
	}

	hasFailures := false
	for _, check := range checks {
		if err := check.fn(); err != nil {
			log.Errorf("[FAIL] %s: %v", check.name, err)
			hasFailures = true
		} else {
			log.Infof("[ OK ] %s", check.name)
		}
	}

	if hasFailures {
		log.Errorf("Self-check completed with failures")
		return fmt.Errorf("self-check failed")
	}

	log.Infof("Self-check completed successfully")
	return nil
}

// checkRuleset compiles the declared ruleset and runs the same lockout
// precondition apply would.
func (g *SelfCheckCommand) checkRuleset() error {
	policies, rules := g.cfg.RuleSet()
	_, err := engine.Preview(&clock.RealClock{}, policies, rules)
	return err
}
