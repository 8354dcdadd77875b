package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/fwguard/fwguard/internal/clock"
	"github.com/fwguard/fwguard/internal/config"
	"github.com/fwguard/fwguard/internal/engine"
	"github.com/fwguard/fwguard/internal/log"
)

func CreatePreviewCommand() *PreviewCommand {
	gc := &PreviewCommand{
		fs: flag.NewFlagSet("preview", flag.ExitOnError),
	}
	return gc
}

type PreviewCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config
}

func (g *PreviewCommand) Name() string {
	return g.fs.Name()
}

func (g *PreviewCommand) Init(args []string, ctx *AppContext) error {
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

func (g *PreviewCommand) Run() error {
	// Keep stdout clean: it carries the program, which may be piped
	// straight into iptables-restore.
	log.SetForceStdErr(true)

	policies, rules := g.cfg.RuleSet()
	session, err := engine.Preview(&clock.RealClock{}, policies, rules)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(exitCodeFor(err))
	}

	fmt.Print(session.Program.Text())
	return nil
}
