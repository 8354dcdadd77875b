package commands

import (
	"flag"
	"fmt"

	"github.com/fwguard/fwguard/internal/config"
	"github.com/fwguard/fwguard/internal/firewall"
	"github.com/fwguard/fwguard/internal/log"
)

func CreateDiffCommand() *DiffCommand {
	gc := &DiffCommand{
		fs: flag.NewFlagSet("diff", flag.ExitOnError),
	}
	return gc
}

type DiffCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config
}

func (g *DiffCommand) Name() string {
	return g.fs.Name()
}

func (g *DiffCommand) Init(args []string, ctx *AppContext) error {
	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	return firewall.CheckRoot()
}

func (g *DiffCommand) Run() error {
	log.SetForceStdErr(true)

	live, err := firewall.NewIPTables().CurrentRules()
	if err != nil {
		return fmt.Errorf("failed to read the running ruleset: %v", err)
	}

	policies, rules := g.cfg.RuleSet()
	diff, err := firewall.DiffMarkers(live, policies, rules)
	if err != nil {
		return err
	}

	if diff == "" {
		log.Infof("Running firewall matches the declared ruleset")
		return nil
	}

	fmt.Print(diff)
	return fmt.Errorf("running firewall differs from the declared ruleset")
}
