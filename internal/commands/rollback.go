package commands

import (
	"flag"
	"os"

	"github.com/fwguard/fwguard/internal/clock"
	"github.com/fwguard/fwguard/internal/config"
	"github.com/fwguard/fwguard/internal/firewall"
	"github.com/fwguard/fwguard/internal/journal"
	"github.com/fwguard/fwguard/internal/snapshot"
	"github.com/fwguard/fwguard/internal/utils"
)

func CreateRollbackCommand() *RollbackCommand {
	gc := &RollbackCommand{
		fs: flag.NewFlagSet("rollback", flag.ExitOnError),
	}

	gc.fs.StringVar(&gc.Snapshot, "snapshot", "", "Snapshot name to restore (default: newest)")

	return gc
}

type RollbackCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config

	Snapshot string
}

func (g *RollbackCommand) Name() string {
	return g.fs.Name()
}

func (g *RollbackCommand) Init(args []string, ctx *AppContext) error {
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

func (g *RollbackCommand) Run() error {
	code, err := g.run()
	if err != nil {
		return err
	}
	if code != ExitOK {
		os.Exit(code)
	}
	return nil
}

func (g *RollbackCommand) run() (int, error) {
	clk := &clock.RealClock{}
	snapshotDir := g.cfg.GetAbsSnapshotDir()

	unlock, err := acquireLock(snapshotDir)
	if err != nil {
		return 0, err
	}
	defer unlock()

	jnl, err := journal.Open(g.cfg.GetAbsLogDir(), clk)
	if err != nil {
		return 0, err
	}
	defer utils.CloseOrWarn(jnl)

	store := snapshot.NewStore(snapshotDir, clk)

	var snap *snapshot.Snapshot
	if g.Snapshot != "" {
		snap, err = store.Find(g.Snapshot)
	} else {
		snap, err = store.Latest()
	}
	if err != nil {
		return 0, err
	}

	jnl.Infof("Manual rollback: restoring %s", snap.Name)

	if err := store.Restore(firewall.NewIPTables(), snap); err != nil {
		jnl.Errorf("Manual rollback failed, firewall state unknown: %v", err)
		return ExitRollbackFailed, nil
	}

	jnl.Infof("Previous ruleset restored from %s", snap.Name)
	return ExitOK, nil
}
