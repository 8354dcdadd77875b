package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/fwguard/fwguard/internal/commands"
	"github.com/fwguard/fwguard/internal/config"
	"github.com/fwguard/fwguard/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{
		Version:   version,
		Commit:    commit,
		BuildDate: date,
	}

	// Define flags
	flag.StringVar(&ctx.ConfigPath, "config", config.DefaultConfigPath, "Path to configuration file")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Declarative firewall manager with confirmed apply and automatic rollback\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  apply                   Apply the declared ruleset, roll back unless confirmed\n")
		fmt.Fprintf(os.Stderr, "  preview                 Print the compiled ruleset without touching the firewall\n")
		fmt.Fprintf(os.Stderr, "  diff                    Show drift between the declared and running rulesets\n")
		fmt.Fprintf(os.Stderr, "  rollback                Restore a firewall snapshot\n")
		fmt.Fprintf(os.Stderr, "  snapshots               List firewall snapshots\n")
		fmt.Fprintf(os.Stderr, "  self-check              Verify the host, directories and configuration\n")
		fmt.Fprintf(os.Stderr, "  serve                   Run the read-only status API and metrics endpoint\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	// Ensure cfg file exists
	if _, err := os.Stat(ctx.ConfigPath); errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Configuration file not found: %s", ctx.ConfigPath)
	}

	cmds := []commands.Runner{
		commands.CreateApplyCommand(),
		commands.CreatePreviewCommand(),
		commands.CreateDiffCommand(),
		commands.CreateRollbackCommand(),
		commands.CreateSnapshotsCommand(),
		commands.CreateSelfCheckCommand(),
		commands.CreateServeCommand(),
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				log.Fatalf("Failed to initialize command: %v", err)
			}

			if err := cmd.Run(); err != nil {
				log.Fatalf("Failed to run command: %v", err)
			}

			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}
