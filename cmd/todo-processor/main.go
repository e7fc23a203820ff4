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
	"github.com/mikey/daily-briefer/internal/factory"
	"github.com/mikey/daily-briefer/internal/logging"
	"github.com/mikey/daily-briefer/internal/rate"
	"github.com/mikey/daily-briefer/internal/todos"
)

const (
	exitConfigError = 1
	exitInterrupted = 130
)

var (
	forwardTo = flag.String("forward-to", "", "Forwarding address (overrides config)")
	daysBack  = flag.Int("days-back", 0, "How many days back to search (overrides config)")
	maxEmails = flag.Int("max-emails", 0, "Maximum emails to process (overrides config)")
	dryRun    = flag.Bool("dry-run", false, "Preview what would be forwarded and archived")
	quiet     = flag.Bool("quiet", false, "Only log errors")
	jsonLog   = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	// Environment files are optional
	_ = godotenv.Load()

	var logger *zap.Logger
	var err error
	if *quiet {
		logger, err = logging.InitQuietLogger(*jsonLog)
	} else {
		logger, err = logging.InitConsoleLogger(false, *jsonLog)
	}
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

	t := cfg.GetTodos()
	opts := todos.Options{
		ForwardAddress: t.ForwardAddress,
		DaysBack:       t.DaysBack,
		MaxEmails:      t.MaxEmails,
		Workers:        t.Workers,
		DryRun:         *dryRun,
	}
	if *forwardTo != "" {
		opts.ForwardAddress = *forwardTo
	}
	if *daysBack > 0 {
		opts.DaysBack = *daysBack
	}
	if *maxEmails > 0 {
		opts.MaxEmails = *maxEmails
	}

	// Refuse to start without a destination; failing here beats forwarding
	// nothing after a long label query.
	if opts.ForwardAddress == "" {
		fmt.Fprintln(os.Stderr, "No forwarding address configured.")
		fmt.Fprintln(os.Stderr, "Set todos.forward_address in the configuration or pass -forward-to.")
		os.Exit(exitConfigError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g := cfg.GetGoogle()
	cred, err := auth.Authenticate(ctx, g.CredentialsPath, g.GmailTokenPath,
		auth.ScopeGmailModify, auth.ScopeGmailSend)
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

	forwarder, err := factory.NewForwarder(cfg, mail, logger)
	if err != nil {
		logger.Error("Failed to create forwarder", zap.Error(err))
		os.Exit(exitConfigError)
	}

	svc := todos.NewService(mail, forwarder, logger)
	report, err := svc.Run(ctx, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Interrupted.")
			os.Exit(exitInterrupted)
		}
		logger.Error("Todo processing failed", zap.Error(err))
		os.Exit(exitConfigError)
	}

	fmt.Print(report.String())
}
