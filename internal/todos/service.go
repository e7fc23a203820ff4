// Package todos implements the forward-then-archive workflow for emails
// labeled todo. Forwarding and archiving are strictly ordered per email: an
// email is archived only after its forward succeeded, so a failure can leave
// mail in the inbox but never lose it.
package todos

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mikey/daily-briefer/internal/adapters/gmailapi"
	"github.com/mikey/daily-briefer/internal/core"
)

// ErrNoForwardAddress is returned when no forwarding address is configured
var ErrNoForwardAddress = errors.New("no forward address configured")

// Options controls one todo processing run
type Options struct {
	ForwardAddress string
	DaysBack       int
	MaxEmails      int
	Workers        int
	DryRun         bool
}

// Service forwards todo emails to an external inbox and archives them
type Service struct {
	mail      core.MailSource
	forwarder core.Forwarder
	logger    *zap.Logger
}

// NewService creates a todo processing service
func NewService(mail core.MailSource, forwarder core.Forwarder, logger *zap.Logger) *Service {
	return &Service{mail: mail, forwarder: forwarder, logger: logger}
}

// Run queries for todo-labeled emails and pushes each through the two phase
// workflow. The label query runs fresh every time, so mail already archived by
// an earlier run is simply absent and reruns are idempotent. Emails are
// processed concurrently up to Workers at a time; one email's failure never
// stops the rest.
func (s *Service) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.ForwardAddress == "" {
		return nil, ErrNoForwardAddress
	}

	query := gmailapi.QueryLabeled(core.LabelTodo, opts.DaysBack)

	report := &Report{
		ProcessedAt:    time.Now(),
		ForwardAddress: opts.ForwardAddress,
		DaysBack:       opts.DaysBack,
		DryRun:         opts.DryRun,
	}

	emails, err := s.mail.ListMessages(ctx, core.MailQuery{
		DaysBack:   opts.DaysBack,
		MaxResults: opts.MaxEmails,
		Raw:        query,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search for todo emails: %w", err)
	}
	report.TotalFound = len(emails)

	items := make([]core.TodoItem, len(emails))

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, email := range emails {
		i, email := i, email
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			item := s.processEmail(gctx, email, opts)
			mu.Lock()
			items[i] = item
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	report.Items = items

	s.logger.Info("Todo processing complete",
		zap.Int("found", report.TotalFound),
		zap.Int("forwarded", report.ForwardedCount()),
		zap.Int("archived", report.ArchivedCount()),
		zap.Bool("dry_run", opts.DryRun))

	return report, nil
}

// processEmail runs the two phase workflow for one email. Phase two only
// starts after phase one succeeded.
func (s *Service) processEmail(ctx context.Context, email core.EmailMessage, opts Options) core.TodoItem {
	item := core.TodoItem{
		MessageID: email.ID,
		Sender:    email.Sender,
		Subject:   email.Subject,
		State:     core.TodoPending,
	}

	if isArchivedOrTrashed(email) {
		item.State = core.TodoAlreadyArchived
		return item
	}

	if opts.DryRun {
		item.State = core.TodoPending
		return item
	}

	if err := s.forwarder.Forward(ctx, email, opts.ForwardAddress); err != nil {
		s.logger.Warn("Failed to forward todo email",
			zap.String("message_id", email.ID),
			zap.Error(err))
		item.State = core.TodoFailedForward
		item.Err = err.Error()
		return item
	}
	item.State = core.TodoForwarded

	if err := s.mail.ModifyLabels(ctx, email.ID, nil, []string{core.SystemInbox}); err != nil {
		s.logger.Warn("Forwarded email could not be archived",
			zap.String("message_id", email.ID),
			zap.Error(err))
		item.State = core.TodoFailedArchive
		item.Err = err.Error()
		return item
	}
	item.State = core.TodoArchived

	return item
}

// isArchivedOrTrashed reports whether the email is already out of the inbox
func isArchivedOrTrashed(email core.EmailMessage) bool {
	inInbox := false
	for _, id := range email.LabelIDs {
		switch id {
		case core.SystemTrash:
			return true
		case core.SystemInbox:
			inInbox = true
		}
	}
	return !inInbox
}
