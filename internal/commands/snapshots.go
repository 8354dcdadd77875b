package commands

import (
	"flag"
	"fmt"

	"github.com/fwguard/fwguard/internal/clock"
	"github.com/fwguard/fwguard/internal/config"
	"github.com/fwguard/fwguard/internal/snapshot"
)

func CreateSnapshotsCommand() *SnapshotsCommand {
	gc := &SnapshotsCommand{
		fs: flag.NewFlagSet("snapshots", flag.ExitOnError),
	}
	return gc
}

type SnapshotsCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config
}

func (g *SnapshotsCommand) Name() string {
	return g.fs.Name()
}

func (g *SnapshotsCommand) Init(args []string, ctx *AppContext) error {
	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	return nil
}

func (g *SnapshotsCommand) Run() error {
	clk := &clock.RealClock{}
	store := snapshot.NewStore(g.cfg.GetAbsSnapshotDir(), clk)

	snapshots, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %v", err)
	}

	if len(snapshots) == 0 {
		fmt.Printf("No snapshots in %s\n", store.Dir())
		return nil
	}

	fmt.Printf("%-36s  %-23s  %10s\n", "NAME", "TAKEN AT", "SIZE")
	for _, snap := range snapshots {
		fmt.Printf("%-36s  %-23s  %10d\n",
			snap.Name,
			snap.TakenAt.Format("2006-01-02 15:04:05")+" UTC",
			snap.Size)
	}

	return nil
}
