package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mikey/daily-briefer/internal/briefing"
	"github.com/mikey/daily-briefer/internal/collect"
	"github.com/mikey/daily-briefer/internal/config"
	"github.com/mikey/daily-briefer/internal/core"
	"github.com/mikey/daily-briefer/internal/di"
)

const (
	exitConfigError = 1
	exitInterrupted = 130
)

var (
	verbose = flag.Bool("verbose", false, "Enable verbose logging")
	quiet   = flag.Bool("quiet", false, "Only log errors")
	noCache = flag.Bool("no-cache", false, "Skip the narrative cache for this run")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] [date]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Generates the daily briefing for the given date (YYYY-MM-DD, default today).\n\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	// Environment files are optional
	_ = godotenv.Load()

	targetDate, err := parseTargetDate(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid date %q: %v\n", flag.Arg(0), err)
		fmt.Fprintf(os.Stderr, "Dates must be in YYYY-MM-DD format, for example %s\n", time.Now().Format("2006-01-02"))
		os.Exit(exitConfigError)
	}

	// The log level flags win over the configured level
	logLevel := ""
	if *verbose {
		logLevel = "debug"
	} else if *quiet {
		logLevel = "error"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := di.BuildContainer(ctx, logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(exitConfigError)
	}

	err = container.Invoke(func(
		logger *zap.Logger,
		cfg *config.Config,
		svc *briefing.Service,
		narrative core.NarrativeClient,
		cacheRepo core.CacheRepository,
	) error {
		defer logger.Sync()
		defer shutdown(logger, narrative, cacheRepo)
		return run(ctx, logger, cfg, svc, targetDate)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Interrupted.")
			os.Exit(exitInterrupted)
		}
		fmt.Fprintf(os.Stderr, "Briefing generation failed: %v\n", err)
		printTroubleshooting()
		os.Exit(exitConfigError)
	}
}

func run(ctx context.Context, logger *zap.Logger, cfg *config.Config, svc *briefing.Service, targetDate time.Time) error {
	b := cfg.GetBriefing()

	var cacheTTL time.Duration
	if !*noCache {
		ttl, err := cfg.GetDuration("cache.ttl")
		if err != nil {
			return fmt.Errorf("invalid cache.ttl: %w", err)
		}
		cacheTTL = ttl
	}

	opts := briefing.Options{
		Collect: collect.Options{
			DaysBack:      b.EmailDaysBack,
			MaxEmails:     b.MaxEmails,
			DocumentQuery: targetDate.Format("2006-01-02"),
			MaxDocuments:  b.DocSearchResults,
		},
		CacheTTL:     cacheTTL,
		StageTimeout: b.StageTimeout,
	}

	logger.Info("Generating daily briefing", zap.Time("target_date", targetDate))

	document, result, err := svc.Generate(ctx, targetDate, opts)
	if err != nil {
		return err
	}

	if result.Degraded {
		for stage, stageErr := range result.StageErrors {
			logger.Warn("Briefing is degraded",
				zap.String("stage", stage),
				zap.Error(stageErr))
		}
	}

	// The briefing itself always goes to stdout; logs go to stderr
	fmt.Println(document)
	return nil
}

// shutdown releases any resources the narrative client or cache hold open.
func shutdown(logger *zap.Logger, narrative core.NarrativeClient, cacheRepo core.CacheRepository) {
	if closer, ok := narrative.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("Failed to close narrative client", zap.Error(err))
		}
	}
	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}
}

func parseTargetDate(arg string) (time.Time, error) {
	if arg == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	return time.ParseInLocation("2006-01-02", arg, time.Local)
}

func printTroubleshooting() {
	fmt.Fprintln(os.Stderr, "\nTroubleshooting steps:")
	fmt.Fprintln(os.Stderr, "  1. Check your API credentials and authentication tokens")
	fmt.Fprintln(os.Stderr, "  2. Verify the Gmail, Calendar, Todoist, and Workspace services are reachable")
	fmt.Fprintln(os.Stderr, "  3. Ensure proper network connectivity")
	fmt.Fprintln(os.Stderr, "  4. Review the configuration file for missing or invalid values")
}
