package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fwguard/fwguard/internal/clock"
	"github.com/fwguard/fwguard/internal/config"
	"github.com/fwguard/fwguard/internal/engine"
	"github.com/fwguard/fwguard/internal/firewall"
	"github.com/fwguard/fwguard/internal/journal"
	"github.com/fwguard/fwguard/internal/snapshot"
	"github.com/fwguard/fwguard/internal/utils"
)

func CreateApplyCommand() *ApplyCommand {
	gc := &ApplyCommand{
		fs: flag.NewFlagSet("apply", flag.ExitOnError),
	}

	gc.fs.BoolVar(&gc.Yes, "yes", false, "Skip the pre-apply prompt")
	gc.fs.BoolVar(&gc.NoConfirm, "no-confirm", false, "Keep the new ruleset without waiting for confirmation (reduced safety)")
	gc.fs.IntVar(&gc.ConfirmTimeoutSeconds, "confirm-timeout", 0, "Seconds to wait for confirmation before rolling back (overrides config)")

	return gc
}

type ApplyCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config

	Yes                   bool
	NoConfirm             bool
	ConfirmTimeoutSeconds int
}

func (g *ApplyCommand) Name() string {
	return g.fs.Name()
}

func (g *ApplyCommand) Init(args []string, ctx *AppContext) error {
	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if g.ConfirmTimeoutSeconds < 0 {
		return fmt.Errorf("--confirm-timeout must not be negative")
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		g.cfg = cfg
	}

	return firewall.CheckRoot()
}

func (g *ApplyCommand) Run() error {
	code, err := g.run()
	if err != nil {
		return err
	}
	if code != ExitOK {
		os.Exit(code)
	}
	return nil
}

func (g *ApplyCommand) run() (int, error) {
	clk := &clock.RealClock{}
	snapshotDir := g.cfg.GetAbsSnapshotDir()

	unlock, err := acquireLock(snapshotDir)
	if err != nil {
		return 0, err
	}
	defer unlock()

	jnl, err := journal.Open(g.cfg.GetAbsLogDir(), clk)
	if err != nil {
		return 0, fmt.Errorf("failed to open the operation journal: %v", err)
	}
	defer utils.CloseOrWarn(jnl)

	if !g.Yes && !g.NoConfirm {
		ok, err := promptApply(os.Stdin, os.Stdout)
		if err != nil {
			return 0, err
		}
		if !ok {
			jnl.Infof("Apply aborted at the pre-apply prompt, firewall untouched")
			return ExitOK, nil
		}
	}

	timeout := g.cfg.ConfirmTimeout()
	if g.ConfirmTimeoutSeconds > 0 {
		timeout = time.Duration(g.ConfirmTimeoutSeconds) * time.Second
	}

	// SIGINT/SIGTERM while waiting for confirmation abandon the wait; the
	// engine still restores the snapshot before the process exits.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := engine.New(
		firewall.NewIPTables(),
		snapshot.NewStore(snapshotDir, clk),
		&engine.StdinGate{In: os.Stdin, Out: os.Stdout},
		jnl,
		clk,
	)

	policies, rules := g.cfg.RuleSet()
	session, err := eng.Run(ctx, policies, rules, engine.Options{
		ConfirmTimeout:   timeout,
		SkipConfirmation: g.NoConfirm,
	})
	if err != nil {
		return exitCodeFor(err), nil
	}

	if session.Decision != engine.DecisionConfirmed && session.Decision != "" {
		return ExitNotConfirmed, nil
	}

	return ExitOK, nil
}

// promptApply asks the operator to type APPLY before the firewall is
// touched. Anything else aborts.
func promptApply(in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprint(out, "This will modify iptables rules. Type APPLY to continue: ")

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, err
		}
		return false, nil
	}

	return strings.TrimSpace(scanner.Text()) == "APPLY", nil
}
