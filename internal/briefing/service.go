// Package briefing builds and runs the daily briefing stage graph. Collection
// feeds three analysis branches which merge into a single briefing document;
// the document is produced even when branches fail, with notices in place of
// the missing content.
package briefing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/daily-briefer/internal/adapters/cache"
	"github.com/mikey/daily-briefer/internal/collect"
	"github.com/mikey/daily-briefer/internal/core"
	"github.com/mikey/daily-briefer/internal/pipeline"
)

// Collector produces the data snapshot the stage graph consumes
type Collector interface {
	Collect(ctx context.Context, targetDate time.Time, opts collect.Options) (*core.Snapshot, error)
}

// Options controls one briefing run
type Options struct {
	Collect  collect.Options
	CacheTTL time.Duration

	// StageTimeout bounds each narrative model call. A call that exceeds it
	// fails that stage only; the rest of the run continues. Zero disables
	// the bound.
	StageTimeout time.Duration
}

// Service generates daily briefing documents
type Service struct {
	collector Collector
	narrative core.NarrativeClient
	cache     core.CacheRepository
	logger    *zap.Logger
}

// NewService creates a briefing service. The cache may be nil, in which case
// every narrative stage calls the model.
func NewService(collector Collector, narrative core.NarrativeClient, cacheRepo core.CacheRepository, logger *zap.Logger) *Service {
	return &Service{
		collector: collector,
		narrative: narrative,
		cache:     cacheRepo,
		logger:    logger,
	}
}

// Generate runs the full briefing pipeline for the target date and returns
// the finished document along with the run result for degradation reporting.
func (s *Service) Generate(ctx context.Context, targetDate time.Time, opts Options) (string, *pipeline.Result, error) {
	var snapshot *core.Snapshot

	stages := []pipeline.Stage{
		{
			ID: StageDataCollection,
			Run: func(ctx context.Context, _ []string) (string, error) {
				snap, err := s.collector.Collect(ctx, targetDate, opts.Collect)
				if err != nil {
					return "", err
				}
				snapshot = snap
				return renderSnapshot(snap), nil
			},
		},
		{
			ID:        StageEmailAnalysis,
			DependsOn: []string{StageDataCollection},
			Run: func(_ context.Context, _ []string) (string, error) {
				if snapshot == nil {
					return "", fmt.Errorf("no data snapshot available")
				}
				emails := make([]core.EmailMessage, len(snapshot.Emails))
				copy(emails, snapshot.Emails)
				for i := range emails {
					if emails[i].Classification == "" {
						emails[i].Classification = core.ClassifyWithDefault(
							emails[i].Sender, emails[i].Subject, emails[i].Body, emails[i].TypeLabels)
					}
				}
				return renderEmailsByLabel(emails), nil
			},
		},
		{
			ID:        StageEmailBriefing,
			DependsOn: []string{StageEmailAnalysis},
			Run: func(ctx context.Context, inputs []string) (string, error) {
				return s.generateNarrative(ctx, StageEmailBriefing, emailBriefingProfile, inputs[0], opts)
			},
		},
		{
			ID:        StageCalendarAnalysis,
			DependsOn: []string{StageDataCollection},
			Run: func(ctx context.Context, _ []string) (string, error) {
				if snapshot == nil {
					return "", fmt.Errorf("no data snapshot available")
				}
				input := renderEvents(snapshot.Events)
				if docs := renderDocuments(snapshot.Documents); docs != "" {
					input += "\n" + docs
				}
				return s.generateNarrative(ctx, StageCalendarAnalysis, calendarAnalysisProfile, input, opts)
			},
		},
		{
			ID:        StageTaskAnalysis,
			DependsOn: []string{StageDataCollection},
			Run: func(ctx context.Context, inputs []string) (string, error) {
				if snapshot == nil {
					return "", fmt.Errorf("no data snapshot available")
				}
				input := renderTasks(snapshot.Tasks) + "\nCONTEXT\n" + inputs[0]
				return s.generateNarrative(ctx, StageTaskAnalysis, taskAnalysisProfile, input, opts)
			},
		},
		{
			ID:        StageDocumentAssembly,
			DependsOn: []string{StageEmailBriefing, StageCalendarAnalysis, StageTaskAnalysis},
			Run: func(ctx context.Context, inputs []string) (string, error) {
				return s.assemble(ctx, targetDate, snapshot, inputs, opts), nil
			},
		},
	}

	p, err := pipeline.New(stages, s.logger)
	if err != nil {
		return "", nil, err
	}

	result, err := p.Run(ctx)
	if err != nil {
		return "", nil, err
	}
	return result.Output, result, nil
}

// assemble produces the final document. The synthesizer model gets the first
// try; when it is unavailable the document is assembled deterministically from
// the branch outputs so this stage never fails.
func (s *Service) assemble(ctx context.Context, targetDate time.Time, snapshot *core.Snapshot, inputs []string, opts Options) string {
	emailSummary, agenda, actionItems := inputs[0], inputs[1], inputs[2]

	var failures []string
	if snapshot != nil {
		for _, st := range snapshot.FailedSources() {
			failures = append(failures, fmt.Sprintf("The %s source was unavailable: %s", st.Name, st.Err))
		}
	} else {
		failures = append(failures, "Data collection did not complete; this briefing is assembled from partial results.")
	}
	for _, input := range inputs {
		if isFailureNote(input) {
			failures = append(failures, fmt.Sprintf("A briefing stage did not complete: %s", input))
		}
	}

	prompt := fmt.Sprintf("Target date: %s\n\nEMAIL SUMMARY\n%s\n\nDAILY AGENDA\n%s\n\nACTION ITEMS\n%s\n",
		targetDate.Format("Monday, January 2, 2006"), emailSummary, agenda, actionItems)
	if len(failures) > 0 {
		prompt += "\nUNAVAILABLE DATA\n"
		for _, f := range failures {
			prompt += "- " + f + "\n"
		}
	}

	doc, err := s.generateNarrative(ctx, StageDocumentAssembly, documentAssemblyProfile, prompt, opts)
	if err != nil {
		s.logger.Warn("Document synthesizer unavailable, assembling briefing directly", zap.Error(err))
		return assembleFallback(targetDate, emailSummary, agenda, actionItems, failures)
	}
	return doc
}

// generateNarrative calls the model for one stage, consulting the cache
// first. The cache key binds the stage to its exact input, so a changed input
// always regenerates. The model call runs under the stage timeout; a call
// that overruns fails this stage only.
func (s *Service) generateNarrative(ctx context.Context, stageID string, profile core.StageProfile, input string, opts Options) (string, error) {
	key := cacheKey(stageID, input)

	if s.cache != nil {
		entry, err := s.cache.Get(ctx, key)
		if err == nil {
			s.logger.Debug("Narrative cache hit", zap.String("stage", stageID))
			return entry.Output, nil
		}
		if err != cache.ErrNotFound {
			s.logger.Warn("Narrative cache lookup failed",
				zap.String("stage", stageID),
				zap.Error(err))
		}
	}

	genCtx := ctx
	if opts.StageTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, opts.StageTimeout)
		defer cancel()
	}

	output, err := s.narrative.Generate(genCtx, profile, input)
	if err != nil {
		return "", fmt.Errorf("narrative generation failed: %w", err)
	}

	if s.cache != nil && opts.CacheTTL > 0 {
		now := time.Now()
		entry := &core.NarrativeCacheEntry{
			Key:       key,
			Output:    output,
			CreatedAt: now,
			ExpiresAt: now.Add(opts.CacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Warn("Failed to cache narrative output",
				zap.String("stage", stageID),
				zap.Error(err))
		}
	}
	return output, nil
}

func cacheKey(stageID, input string) string {
	digest := sha256.Sum256([]byte(input))
	return stageID + ":" + hex.EncodeToString(digest[:])
}

func isFailureNote(s string) bool {
	return strings.HasPrefix(s, "[stage ")
}
