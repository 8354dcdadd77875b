package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fwguard/fwguard/internal/api"
	"github.com/fwguard/fwguard/internal/clock"
	"github.com/fwguard/fwguard/internal/config"
	"github.com/fwguard/fwguard/internal/firewall"
	"github.com/fwguard/fwguard/internal/log"
	"github.com/fwguard/fwguard/internal/metrics"
	"github.com/fwguard/fwguard/internal/snapshot"
)

func CreateServeCommand() *ServeCommand {
	gc := &ServeCommand{
		fs: flag.NewFlagSet("serve", flag.ExitOnError),
	}

	gc.fs.StringVar(&gc.Listen, "listen", "", "Address to bind the HTTP server (overrides config)")
	gc.fs.IntVar(&gc.ObserveIntervalSeconds, "observe-interval", 30, "Seconds between firewall observations for the metrics gauges")

	return gc
}

type ServeCommand struct {
	fs  *flag.FlagSet
	ctx *AppContext
	cfg *config.Config

	Listen                 string
	ObserveIntervalSeconds int
}

func (g *ServeCommand) Name() string {
	return g.fs.Name()
}

func (g *ServeCommand) Init(args []string, ctx *AppContext) error {
	g.ctx = ctx

	if err := g.fs.Parse(args); err != nil {
		return err
	}

	if g.ObserveIntervalSeconds < 1 {
		return fmt.Errorf("--observe-interval must be at least 1 second")
	}

	cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath)
	if err != nil {
		return err
	}
	g.cfg = cfg

	if g.Listen == "" {
		g.Listen = config.DefaultAPIListen
		if cfg.API != nil && cfg.API.Listen != "" {
			g.Listen = cfg.API.Listen
		}
	}

	return nil
}

func (g *ServeCommand) Run() error {
	log.Infof("Starting fwguard status API on %s", g.Listen)
	log.Infof("Configuration loaded from: %s", g.ctx.ConfigPath)
	log.Infof("Access restricted to private subnets; requests from public IPs are rejected with 403")

	clk := &clock.RealClock{}
	ctl := firewall.NewIPTables()
	store := snapshot.NewStore(g.cfg.GetAbsSnapshotDir(), clk)

	metrics.Get().SetInfo(g.ctx.Version)

	collector := metrics.NewCollector(g.cfg, store, ctl, clk,
		time.Duration(g.ObserveIntervalSeconds)*time.Second)
	go collector.Start()
	defer collector.Stop()

	handler := api.NewHandler(g.ctx.ConfigPath, g.cfg, ctl, store, collector, clk, api.VersionInfo{
		Version: g.ctx.Version,
		Date:    g.ctx.BuildDate,
		Commit:  g.ctx.Commit,
	})
	server := api.NewServer(g.Listen, handler)

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		serverErrors <- server.Start()
	}()

	// Block until we receive a signal or an error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-serverErrors:
		if err != nil {
			return err
		}

	case sig := <-shutdown:
		log.Infof("Received signal %v, shutting down server...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		log.Infof("Server stopped gracefully")
	}

	return nil
}
