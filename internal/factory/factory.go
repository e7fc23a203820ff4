// Package factory builds the configured adapter implementations
package factory

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/daily-briefer/internal/adapters/bedrock"
	"github.com/mikey/daily-briefer/internal/adapters/cache"
	"github.com/mikey/daily-briefer/internal/adapters/gemini"
	"github.com/mikey/daily-briefer/internal/adapters/gmailapi"
	"github.com/mikey/daily-briefer/internal/adapters/openai"
	"github.com/mikey/daily-briefer/internal/adapters/smtpfwd"
	"github.com/mikey/daily-briefer/internal/config"
	"github.com/mikey/daily-briefer/internal/core"
	"github.com/mikey/daily-briefer/internal/utils"
)

// NewNarrativeClient creates a narrative client for the configured provider
func NewNarrativeClient(cfg *config.Config, logger *zap.Logger) (core.NarrativeClient, error) {
	textProcessor := utils.NewTextProcessor(logger)
	provider := cfg.GetLLM().Provider

	switch provider {
	case "gemini":
		g := cfg.GetGemini()
		return gemini.NewGeminiClient(
			g.APIKey,
			g.ModelName,
			g.MaxTokens,
			g.Temperature,
			g.TopP,
			g.MaxInputSize,
			logger,
			textProcessor,
		)
	case "openai":
		o := cfg.GetOpenAI()
		return openai.NewOpenAIClient(
			o.APIKey,
			o.ModelName,
			o.MaxTokens,
			o.Temperature,
			o.TopP,
			o.MaxInputSize,
			logger,
			textProcessor,
		), nil
	case "bedrock":
		b := cfg.GetBedrock()
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(b.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		client := bedrockruntime.NewFromConfig(awsCfg)
		return bedrock.NewBedrockClient(
			client,
			b.ModelID,
			b.MaxTokens,
			b.Temperature,
			b.TopP,
			b.MaxInputSize,
			logger,
			textProcessor,
		), nil
	default:
		return nil, fmt.Errorf("unsupported narrative provider: %s", provider)
	}
}

// NewCacheRepository creates the configured narrative cache, or nil when
// caching is disabled
func NewCacheRepository(cfg *config.Config, logger *zap.Logger) (core.CacheRepository, error) {
	c := cfg.GetCache()
	if !c.Enabled {
		return nil, nil
	}

	cleanupFreq, err := time.ParseDuration(c.CleanupFrequency)
	if err != nil {
		return nil, fmt.Errorf("invalid cache cleanup frequency: %w", err)
	}

	switch c.Type {
	case "memory":
		return cache.NewMemoryCache(logger, cleanupFreq), nil
	case "sqlite":
		return cache.NewSqliteCache(c.SqlitePath, logger, cleanupFreq)
	case "mysql":
		return cache.NewMysqlCache(c.MysqlDSN, logger, cleanupFreq)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", c.Type)
	}
}

// NewForwarder creates the configured forwarding transport
func NewForwarder(cfg *config.Config, mail core.MailSource, logger *zap.Logger) (core.Forwarder, error) {
	transport := cfg.GetTodos().Transport
	switch transport {
	case "gmail":
		return gmailapi.NewForwarder(mail, logger), nil
	case "smtp":
		s := cfg.GetSMTP()
		if s.Address == "" {
			return nil, fmt.Errorf("smtp transport selected but smtp.address is not set")
		}
		return smtpfwd.NewForwarder(s.Address, s.Username, s.Password, s.From, logger), nil
	default:
		return nil, fmt.Errorf("unsupported forwarding transport: %s", transport)
	}
}
