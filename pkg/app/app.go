package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"coffeemachine/pkg/cash"
	"coffeemachine/pkg/config"
	"coffeemachine/pkg/console"
	"coffeemachine/pkg/httpapi"
	"coffeemachine/pkg/journal"
	"coffeemachine/pkg/machine"
	"coffeemachine/pkg/metrics"
	"coffeemachine/pkg/recipe"
	"coffeemachine/pkg/supply"
	"coffeemachine/pkg/version"
)

// Flags captures the command line so the machine can run with a single Run call.
type Flags struct {
	showVersion bool
	serve       bool
	configPath  string
	envFile     string
	addr        string
	logLevel    string
}

// Run loads configuration, builds one machine, and either drives the text
// menu over in/out or serves the HTTP API until ctx is cancelled.
// A nil logger is built from the configuration.
func Run(ctx context.Context, args []string, in io.Reader, out io.Writer, logger *zap.Logger) error {
	flags, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if flags.showVersion {
		fmt.Fprintf(out, "coffeemachine version %s\n", version.Version())
		return nil
	}

	cfg, err := config.Load(flags.configPath, flags.envFile)
	if err != nil {
		return fmt.Errorf("unable to load configuration: %w", err)
	}
	if flags.addr != "" {
		cfg.Addr = flags.addr
	}

	if logger == nil {
		logger, err = newLogger(cfg, flags)
		if err != nil {
			return fmt.Errorf("unable to build logger: %w", err)
		}
		defer logger.Sync()
	}

	store, err := supply.New(cfg.Stock.Water, cfg.Stock.Milk, cfg.Stock.CoffeeBeans, cfg.Stock.DisposableCups)
	if err != nil {
		return fmt.Errorf("unable to stock the machine: %w", err)
	}
	ledger, err := cash.New(cfg.Cash)
	if err != nil {
		return fmt.Errorf("unable to open the cash ledger: %w", err)
	}

	recorder := metrics.New()
	svc := machine.NewService(machine.New(store, ledger), journal.New(cfg.JournalLimit), recorder, logger)
	defer svc.Close()

	catalog := recipe.DefaultCatalog()

	if !flags.serve {
		return console.New(svc, catalog, in, out, logger).Run(ctx)
	}

	api := httpapi.New(svc, catalog, recorder.Handler(), logger)
	return serve(ctx, cfg.Addr, api.Handler(), logger)
}

// serve runs the HTTP server and shuts it down when ctx ends.
func serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("coffee machine is serving", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped unexpectedly: %w", err)
	}
	return nil
}

// newLogger keeps the interactive menu quiet unless a level is asked for;
// the HTTP mode logs at info by default.
func newLogger(cfg config.Config, flags Flags) (*zap.Logger, error) {
	level := cfg.LogLevel
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	if level == "" {
		level = "warn"
		if flags.serve {
			level = "info"
		}
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = atomic
	return zcfg.Build()
}

// parseFlags uses a dedicated FlagSet so Run can be called from multiple entry points.
func parseFlags(args []string) (Flags, error) {
	set := flag.NewFlagSet("coffeemachine", flag.ContinueOnError)
	set.SetOutput(io.Discard)

	var f Flags
	set.BoolVar(&f.showVersion, "version", false, "Show the application version")
	set.BoolVar(&f.serve, "serve", false, "Serve the HTTP API instead of the interactive menu.")
	set.StringVar(&f.configPath, "config", "", "Path to a YAML file with opening stock and settings.")
	set.StringVar(&f.envFile, "env-file", "", "Optional .env file loaded before reading COFFEE_* variables.")
	set.StringVar(&f.addr, "addr", "", "Listen address for -serve; overrides the configuration.")
	set.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error).")

	if err := set.Parse(args); err != nil {
		return Flags{}, err
	}
	return f, nil
}
