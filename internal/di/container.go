// Package di wires the briefing application together
package di

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/daily-briefer/internal/adapters/gcal"
	"github.com/mikey/daily-briefer/internal/adapters/gmailapi"
	"github.com/mikey/daily-briefer/internal/adapters/todoist"
	"github.com/mikey/daily-briefer/internal/auth"
	"github.com/mikey/daily-briefer/internal/briefing"
	"github.com/mikey/daily-briefer/internal/collect"
	"github.com/mikey/daily-briefer/internal/config"
	"github.com/mikey/daily-briefer/internal/core"
	"github.com/mikey/daily-briefer/internal/factory"
	"github.com/mikey/daily-briefer/internal/logging"
	"github.com/mikey/daily-briefer/internal/rate"

	driveadapter "github.com/mikey/daily-briefer/internal/adapters/drive"
)

// BuildContainer creates and configures a dependency injection container for
// the briefing binary. A non-empty logLevel overrides the configured logging
// level, so command line verbosity flags win without touching the process
// environment.
func BuildContainer(ctx context.Context, logLevel string) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		cfg, err := config.New()
		if err != nil {
			return nil, err
		}
		if logLevel != "" {
			cfg.GetViper().Set("logging.level", logLevel)
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register the Google API rate limiter
	if err := container.Provide(func(cfg *config.Config) rate.Limiter {
		return rate.NewTokenBucket(cfg.GetGoogle().RateLimitPerSecond)
	}); err != nil {
		return nil, err
	}

	// Source providers never fail the container build. An unreachable or
	// unauthenticated source becomes a nil source, which the collection
	// service reports as unavailable so the run continues degraded.

	// Register the mail source
	if err := container.Provide(func(cfg *config.Config, limiter rate.Limiter, logger *zap.Logger) core.MailSource {
		g := cfg.GetGoogle()
		cred, err := auth.Authenticate(ctx, g.CredentialsPath, g.GmailTokenPath,
			auth.ScopeGmailModify, auth.ScopeGmailSend)
		if err != nil {
			logger.Warn("Gmail source unavailable", zap.Error(err))
			return nil
		}
		client, err := gmailapi.NewClient(ctx, cred, limiter, logger)
		if err != nil {
			logger.Warn("Gmail source unavailable", zap.Error(err))
			return nil
		}
		return client
	}); err != nil {
		return nil, err
	}

	// Register the calendar source
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.CalendarSource {
		g := cfg.GetGoogle()
		cred, err := auth.Authenticate(ctx, g.CredentialsPath, g.CalendarTokenPath,
			auth.ScopeCalendarReadonly)
		if err != nil {
			logger.Warn("Calendar source unavailable", zap.Error(err))
			return nil
		}
		client, err := gcal.NewClient(ctx, cred, logger)
		if err != nil {
			logger.Warn("Calendar source unavailable", zap.Error(err))
			return nil
		}
		return client
	}); err != nil {
		return nil, err
	}

	// Register the document source
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.DocumentSource {
		g := cfg.GetGoogle()
		cred, err := auth.Authenticate(ctx, g.CredentialsPath, g.WorkspaceTokenPath,
			auth.ScopeDriveReadonly)
		if err != nil {
			logger.Warn("Document source unavailable", zap.Error(err))
			return nil
		}
		client, err := driveadapter.NewClient(ctx, cred, logger)
		if err != nil {
			logger.Warn("Document source unavailable", zap.Error(err))
			return nil
		}
		return client
	}); err != nil {
		return nil, err
	}

	// Register the task source
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.TaskSource {
		t := cfg.GetTodoist()
		if t.APIKey == "" {
			return nil
		}
		return todoist.NewClient(t.BaseURL, t.APIKey, logger)
	}); err != nil {
		return nil, err
	}

	// Register the narrative client
	if err := container.Provide(factory.NewNarrativeClient); err != nil {
		return nil, err
	}

	// Register the narrative cache
	if err := container.Provide(factory.NewCacheRepository); err != nil {
		return nil, err
	}

	// Register the collection service
	if err := container.Provide(func(
		mail core.MailSource,
		calendar core.CalendarSource,
		tasks core.TaskSource,
		docs core.DocumentSource,
		logger *zap.Logger,
	) *collect.Service {
		return collect.NewService(mail, calendar, tasks, docs, logger)
	}); err != nil {
		return nil, err
	}

	// Register the briefing service
	if err := container.Provide(func(
		collector *collect.Service,
		narrative core.NarrativeClient,
		cacheRepo core.CacheRepository,
		logger *zap.Logger,
	) *briefing.Service {
		return briefing.NewService(collector, narrative, cacheRepo, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
