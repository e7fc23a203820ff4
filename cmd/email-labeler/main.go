package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mikey/daily-briefer/internal/adapters/gmailapi"
	"github.com/mikey/daily-briefer/internal/auth"
	"github.com/mikey/daily-briefer/internal/config"
	"github.com/mikey/daily-briefer/internal/labeler"
	"github.com/mikey/daily-briefer/internal/logging"
	"github.com/mikey/daily-briefer/internal/rate"
)

const (
	exitConfigError = 1
	exitInterrupted = 130
)

var (
	daysBack  = flag.Int("days", 0, "How many days back to search (overrides config)")
	maxEmails = flag.Int("max-emails", 0, "Maximum emails to process (overrides config)")
	dryRun    = flag.Bool("dry-run", false, "Classify emails but do not create or apply labels")
	verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog   = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	// Environment files are optional
	_ = godotenv.Load()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(exitConfigError)
	}
	defer logger.Sync()

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(exitConfigError)
	}

	opts := labeler.Options{
		DaysBack:  cfg.GetInt("labeling.days_back"),
		MaxEmails: cfg.GetInt("labeling.max_emails"),
		DryRun:    *dryRun,
	}
	if *daysBack > 0 {
		opts.DaysBack = *daysBack
	}
	if *maxEmails > 0 {
		opts.MaxEmails = *maxEmails
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g := cfg.GetGoogle()
	cred, err := auth.Authenticate(ctx, g.CredentialsPath, g.GmailTokenPath, auth.ScopeGmailModify)
	if err != nil {
		logger.Error("Gmail authentication failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Check google.credentials_path and google.gmail_token_path in the configuration.")
		os.Exit(exitConfigError)
	}

	limiter := rate.NewTokenBucket(g.RateLimitPerSecond)
	defer limiter.Stop()

	mail, err := gmailapi.NewClient(ctx, cred, limiter, logger)
	if err != nil {
		logger.Error("Failed to create Gmail client", zap.Error(err))
		os.Exit(exitConfigError)
	}

	svc := labeler.NewService(mail, logger)
	report, err := svc.Run(ctx, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Interrupted.")
			os.Exit(exitInterrupted)
		}
		logger.Error("Labeling run failed", zap.Error(err))
		os.Exit(exitConfigError)
	}

	fmt.Print(report.String())
}
