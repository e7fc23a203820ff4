// Package labeler reconciles the fixed set of action labels against a Gmail
// account and applies a classification to each unlabeled inbox email.
package labeler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/daily-briefer/internal/adapters/gmailapi"
	"github.com/mikey/daily-briefer/internal/core"
)

// Options controls one labeling run
type Options struct {
	DaysBack  int
	MaxEmails int
	DryRun    bool
}

// Service classifies unlabeled inbox emails and applies action labels
type Service struct {
	mail   core.MailSource
	logger *zap.Logger
}

// NewService creates a labeling service
func NewService(mail core.MailSource, logger *zap.Logger) *Service {
	return &Service{mail: mail, logger: logger}
}

// EnsureLabels reconciles the account's labels against the fixed action label
// set. Missing labels are created; existing labels, including Gmail's system
// labels, are never modified or removed. The returned map resolves an action
// label name to its Gmail id.
func (s *Service) EnsureLabels(ctx context.Context) (map[core.ActionLabel]string, error) {
	byName, err := s.mail.ListLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}

	ids := make(map[core.ActionLabel]string, len(core.ActionLabels))
	for _, label := range core.ActionLabels {
		if id, ok := byName[string(label)]; ok {
			ids[label] = id
			continue
		}
		id, err := s.mail.CreateLabel(ctx, string(label))
		if err != nil {
			return nil, fmt.Errorf("failed to create label %q: %w", label, err)
		}
		s.logger.Info("Created missing action label", zap.String("label", string(label)))
		ids[label] = id
	}
	return ids, nil
}

// Run classifies and labels unlabeled inbox emails from the last DaysBack
// days. In dry run mode no labels are created or applied; the report shows
// what would have happened. A failure on one email never stops the batch.
func (s *Service) Run(ctx context.Context, opts Options) (*Report, error) {
	query := gmailapi.QueryInbox(opts.DaysBack, core.ActionLabels)

	report := &Report{
		ProcessedAt: time.Now(),
		DaysBack:    opts.DaysBack,
		Query:       query,
		DryRun:      opts.DryRun,
	}

	var ids map[core.ActionLabel]string
	if !opts.DryRun {
		var err error
		ids, err = s.EnsureLabels(ctx)
		if err != nil {
			return nil, err
		}
	}

	emails, err := s.mail.ListMessages(ctx, core.MailQuery{
		DaysBack:   opts.DaysBack,
		MaxResults: opts.MaxEmails,
		Raw:        query,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search for unlabeled emails: %w", err)
	}
	report.TotalFound = len(emails)

	for _, email := range emails {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result := s.processEmail(ctx, email, ids, opts.DryRun)
		report.Results = append(report.Results, result)
	}

	s.logger.Info("Labeling run complete",
		zap.Int("found", report.TotalFound),
		zap.Int("labeled", report.LabeledCount()),
		zap.Int("skipped", report.SkippedCount()),
		zap.Bool("dry_run", opts.DryRun))

	return report, nil
}

func (s *Service) processEmail(ctx context.Context, email core.EmailMessage, ids map[core.ActionLabel]string, dryRun bool) Result {
	result := Result{
		MessageID: email.ID,
		Subject:   email.Subject,
		Sender:    email.Sender,
	}

	if reason, skip := skipReason(email, ids); skip {
		result.Outcome = OutcomeSkipped
		result.Detail = reason
		return result
	}

	label, ok := core.Classify(email.Sender, email.Subject, email.Body, email.TypeLabels)
	if !ok {
		result.Outcome = OutcomeUnclassified
		return result
	}
	result.Label = label

	if dryRun {
		result.Outcome = OutcomeWouldLabel
		return result
	}

	if err := s.apply(ctx, email, label, ids); err != nil {
		s.logger.Warn("Failed to apply label",
			zap.String("message_id", email.ID),
			zap.String("label", string(label)),
			zap.Error(err))
		result.Outcome = OutcomeFailed
		result.Detail = err.Error()
		return result
	}

	result.Outcome = OutcomeLabeled
	return result
}

// apply adds the chosen action label and strips any other action labels in a
// single mutation. The remove set is built only from this system's own label
// ids so a system label can never be touched.
func (s *Service) apply(ctx context.Context, email core.EmailMessage, label core.ActionLabel, ids map[core.ActionLabel]string) error {
	add := []string{ids[label]}

	present := make(map[string]struct{}, len(email.LabelIDs))
	for _, id := range email.LabelIDs {
		present[id] = struct{}{}
	}

	var remove []string
	for _, other := range core.ActionLabels {
		if other == label {
			continue
		}
		id, ok := ids[other]
		if !ok {
			continue
		}
		if _, onMessage := present[id]; onMessage {
			remove = append(remove, id)
		}
	}

	return s.mail.ModifyLabels(ctx, email.ID, add, remove)
}

// skipReason reports whether an email must not be labeled and why. The search
// query already excludes labeled mail; this check keeps reruns idempotent even
// when the search index lags behind a mutation.
func skipReason(email core.EmailMessage, ids map[core.ActionLabel]string) (string, bool) {
	for _, id := range email.LabelIDs {
		switch id {
		case core.SystemSpam, core.SystemTrash, core.SystemDraft, core.SystemSent:
			return fmt.Sprintf("in %s", id), true
		}
	}
	actionIDs := make(map[string]struct{}, len(ids))
	for label, id := range ids {
		actionIDs[id] = struct{}{}
		actionIDs[string(label)] = struct{}{}
	}
	if len(ids) == 0 {
		for _, label := range core.ActionLabels {
			actionIDs[string(label)] = struct{}{}
		}
	}
	for _, id := range email.LabelIDs {
		if _, ok := actionIDs[id]; ok {
			return "already labeled", true
		}
	}
	return "", false
}
