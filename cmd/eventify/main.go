package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/tailored-agentic-units/eventify/shell"
)

func main() {
	flags := pflag.NewFlagSet("eventify", pflag.ContinueOnError)
	var (
		configFile  = flags.String("config", "", "Path to shell config file (.json, .yaml or .yml)")
		allow       = flags.StringSlice("allow", nil, "Commands to instrument (overrides config; empty means all)")
		markedOnly  = flags.Bool("marked-only", false, "Instrument only marked commands")
		observers   = flags.StringSlice("observers", nil, "Named observers to attach: noop, slog, zap, metrics, trace")
		delivery    = flags.String("delivery", "", "Observer failure handling: stop or isolate (overrides config)")
		echo        = flags.String("echo", "", "Print every event to stderr: text or json (overrides config)")
		verbose     = flags.Bool("verbose", false, "Enable verbose logging to stderr")
		metricsAddr = flags.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	)
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := shell.DefaultConfig()
	if *configFile != "" {
		loaded, err := shell.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	if err := shell.ApplyEnv(&cfg); err != nil {
		log.Fatalf("Failed to apply environment: %v", err)
	}

	cfg.Merge(&shell.Config{
		Observers: *observers,
		Delivery:  *delivery,
		Echo:      *echo,
	})
	if flags.Changed("allow") {
		cfg.Policy.AllowList = *allow
	}
	if flags.Changed("marked-only") {
		cfg.Policy.MarkedOnly = *markedOnly
	}
	if len(cfg.Marked) == 0 {
		cfg.Marked = markedCommands
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	zl := newZapLogger(os.Stderr, *verbose)
	defer func() { _ = zl.Sync() }()
	restore := installZapLogger(zl)
	defer restore()

	sh, err := shell.New(&cfg, builtinCommands(), shell.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create shell: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *metricsAddr != "" {
		startMetricsServer(ctx, logger, *metricsAddr)
	}

	if err := sh.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Shell failed: %v", err)
	}
}
