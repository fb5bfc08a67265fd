// Package main is the entry point for the stoploss order controller.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ockhamtrading/stoploss/internal/config"
	"github.com/ockhamtrading/stoploss/internal/custody"
	"github.com/ockhamtrading/stoploss/internal/engine"
	"github.com/ockhamtrading/stoploss/internal/ledger"
	"github.com/ockhamtrading/stoploss/internal/metrics"
	"github.com/ockhamtrading/stoploss/internal/persistence"
	"github.com/ockhamtrading/stoploss/internal/types"
	"github.com/ockhamtrading/stoploss/internal/venue"
	"github.com/ockhamtrading/stoploss/internal/venue/paper"
	"github.com/ockhamtrading/stoploss/internal/venue/rest"
)

// Version information (set by build flags).
var (
	Version   = "0.2.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const controllerAuthority = types.Address("stoploss-controller")

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version", "-v", "--version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	case "run":
		cmdRun(os.Args[2:])
	case "demo":
		cmdDemo(os.Args[2:])
	case "validate":
		cmdValidate(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Stoploss - Conditional Order Controller

Usage:
  stoplossd <command> [options]

Commands:
  run        Start the controller service
  demo       Run a scripted order lifecycle against the paper venue
  validate   Validate configuration file
  version    Show version information
  help       Show this help message

Examples:
  stoplossd run --config config.yaml
  stoplossd demo
  stoplossd validate --config config.yaml

Use "stoplossd <command> --help" for more information about a command.`)
}

func cmdVersion() {
	fmt.Printf("stoplossd version %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid!")
	fmt.Printf("  Venue: %s\n", cfg.Venue.Type)
	if cfg.Persistence.Enabled {
		fmt.Printf("  Persistence: %s\n", cfg.Persistence.Type)
	} else {
		fmt.Println("  Persistence: disabled")
	}
	fmt.Printf("  Metrics: %v\n", cfg.Metrics.Enabled)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func newRepository(cfg config.PersistenceConfig) (persistence.Repository, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Type {
	case "sqlite":
		return persistence.NewSQLiteRepository(cfg.Path)
	case "postgres":
		return persistence.NewPostgresRepository(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown persistence type %q", cfg.Type)
	}
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("stoplossd starting",
		"version", Version,
		"venue", cfg.Venue.Type,
	)
	metrics.SetBuildInfo(Version, GitCommit, BuildTime)

	repo, err := newRepository(cfg.Persistence)
	if err != nil {
		logger.Error("failed to open repository", "err", err)
		os.Exit(1)
	}
	if repo != nil {
		defer repo.Close()
	}

	bank := custody.NewBank()

	var vn venue.Venue
	switch cfg.Venue.Type {
	case "rest":
		vn = rest.NewClient(rest.Config{
			BaseURL:            cfg.Venue.BaseURL,
			APIKey:             cfg.Venue.APIKey,
			Timeout:            cfg.VenueTimeout(),
			RateLimitPerSecond: cfg.Venue.RateLimitPerSecond,
			RateLimitBurst:     cfg.Venue.RateLimitBurst,
		}, logger)
	default:
		vn = paper.NewVenue(bank, logger)
	}

	opts := []engine.Option{}
	if repo != nil {
		opts = append(opts, engine.WithRepository(repo))
	}
	ctrl := engine.NewController(controllerAuthority, bank, vn, logger, opts...)
	_ = ctrl // operations arrive through the signal process driving this controller

	recorder := metrics.NewRecorder()

	// Recover open orders from the ledger store.
	if repo != nil {
		open, err := repo.ListOpenOrders(ctx)
		if err != nil {
			logger.Error("failed to recover open orders", "err", err)
			os.Exit(1)
		}
		logger.Info("recovered open orders", "count", len(open))
		recorder.RecordOpenOrders(len(open))
	}

	var srv *metrics.Server
	if cfg.Metrics.Enabled {
		srv = metrics.NewServer(metrics.ServerConfig{
			Port:        cfg.Metrics.Port,
			MetricsPath: cfg.Metrics.Path,
			HealthPath:  "/health",
		}, logger)

		if repo != nil {
			srv.RegisterHealthCheck("store", func() metrics.Check {
				if _, err := repo.ListOpenOrders(context.Background()); err != nil {
					return metrics.Check{Status: "unhealthy", Message: err.Error()}
				}
				return metrics.Check{Status: "healthy"}
			})
		}

		if err := srv.Start(); err != nil {
			logger.Error("failed to start metrics server", "err", err)
			os.Exit(1)
		}
	}

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()
	recorder.RecordHeartbeat()

	for {
		select {
		case <-heartbeat.C:
			recorder.RecordHeartbeat()
		case <-ctx.Done():
			logger.Info("shutdown signal received")
			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Warn("metrics server shutdown", "err", err)
				}
				cancel()
			}
			logger.Info("stoplossd stopped")
			return
		}
	}
}

// cmdDemo walks one parent order through its whole lifecycle against the
// paper venue: create, partial execution, amend down, execute again,
// cancel the remainder.
func cmdDemo(args []string) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Verbose output")
	fs.Parse(args)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := context.Background()

	const (
		market   = types.Address("SOL-USDC")
		client   = types.Address("demo-client")
		provider = types.Address("demo-signal-provider")
	)

	bank := custody.NewBank()
	bank.Deposit("demo-client-quote", 10_000)

	vn := paper.NewVenue(bank, logger)
	vn.AddMarket(venue.MarketInfo{Address: market, BaseLotSize: 1, QuoteLotSize: 1})

	ctrl := engine.NewController(controllerAuthority, bank, vn, logger)

	fmt.Println("=== DEMO: buy 10000 quote at limit 10 ===")
	order, err := ctrl.CreateOrder(ctx, engine.CreateOrderParams{
		OwnAddress:        "demo-order-1",
		Market:            market,
		BaseVault:         "demo-vault-base",
		QuoteVault:        "demo-vault-quote",
		ClientBaseWallet:  "demo-client-base",
		ClientQuoteWallet: "demo-client-quote",
		RoutingRecord:     "demo-routing-1",
		Side:              types.SideBuy,
		LimitPrice:        10,
		TriggerPrice:      12,
		ClientOrderID:     1,
		MaxBaseQty:        1_000,
		MaxQuoteQty:       10_000,
		SignalProvider:    provider,
		Authority:         client,
	})
	if err != nil {
		logger.Error("create failed", "err", err)
		os.Exit(1)
	}
	printSnapshot("after create", order)

	signer := types.Signer{Address: provider, Signed: true}

	vn.SetAsks(market, []paper.Level{{Price: 10, BaseQty: 200}})
	if err := ctrl.Execute(ctx, order, signer, 2_000, 10, true); err != nil {
		logger.Error("first execute failed", "err", err)
		os.Exit(1)
	}
	printSnapshot("after first execution", order)

	if err := ctrl.Amend(ctx, order, client, 10, 6_000, 12); err != nil {
		logger.Error("amend failed", "err", err)
		os.Exit(1)
	}
	printSnapshot("after amend down to 6000", order)

	vn.SetAsks(market, []paper.Level{{Price: 9, BaseQty: 100}})
	if err := ctrl.Execute(ctx, order, signer, 1_000, 10, true); err != nil {
		logger.Error("second execute failed", "err", err)
		os.Exit(1)
	}
	printSnapshot("after second execution", order)

	if err := ctrl.Cancel(ctx, order, client); err != nil {
		logger.Error("cancel failed", "err", err)
		os.Exit(1)
	}
	printSnapshot("after cancel", order)

	quote, _ := bank.Balance(ctx, "demo-client-quote")
	base, _ := bank.Balance(ctx, "demo-client-base")
	fmt.Printf("\nclient wallets: base=%d quote=%d\n", base, quote)
}

func printSnapshot(stage string, o *ledger.Order) {
	fmt.Printf("\n--- %s ---\n", stage)
	fmt.Printf("status:          %s\n", o.Status)
	fmt.Printf("base  max/leaves/cum:  %d / %d / %d\n", o.MaxBaseQty, o.BaseLeavesQty, o.BaseCumQty)
	fmt.Printf("quote max/leaves/cum:  %d / %d / %d\n", o.MaxQuoteQty, o.QuoteLeavesQty, o.QuoteCumQty)
	fmt.Printf("last/avg price:  %d / %d\n", o.LastPrice, o.AvgPrice)
	fmt.Printf("child orders:    %d\n", o.ChildOrderCount)
}
