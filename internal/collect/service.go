// Package collect gathers a day's data from every configured source in one
// fan-out pass. A source failure never aborts the run; it is recorded in the
// snapshot so downstream stages can degrade honestly.
package collect

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mikey/daily-briefer/internal/core"
)

// Source names used in availability reporting
const (
	SourceGmail    = "gmail"
	SourceCalendar = "calendar"
	SourceTasks    = "tasks"
	SourceDocs     = "documents"
)

// Options controls the collection pass
type Options struct {
	DaysBack         int
	MaxEmails        int
	IncludeDeclined  bool
	DocumentQuery    string
	MaxDocuments     int
	ExcludeTaskAfter bool
}

// Service fans out to the data sources and assembles a snapshot
type Service struct {
	mail     core.MailSource
	calendar core.CalendarSource
	tasks    core.TaskSource
	docs     core.DocumentSource
	logger   *zap.Logger
}

// NewService creates a collection service. Any source may be nil; nil sources
// are reported as unavailable rather than queried.
func NewService(
	mail core.MailSource,
	calendar core.CalendarSource,
	tasks core.TaskSource,
	docs core.DocumentSource,
	logger *zap.Logger,
) *Service {
	return &Service{
		mail:     mail,
		calendar: calendar,
		tasks:    tasks,
		docs:     docs,
		logger:   logger,
	}
}

// Collect queries every source concurrently and returns a snapshot for the
// target date. Each source runs to completion regardless of the others; per
// source errors land in the snapshot's status records and the returned error
// is always nil unless the context itself was cancelled.
func (s *Service) Collect(ctx context.Context, targetDate time.Time, opts Options) (*core.Snapshot, error) {
	snapshot := &core.Snapshot{TargetDate: targetDate}

	var mu sync.Mutex
	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		status := core.SourceStatus{Name: name, Available: err == nil, CheckedAt: time.Now()}
		if err != nil {
			status.Err = err.Error()
			s.logger.Warn("Data source unavailable",
				zap.String("source", name),
				zap.Error(err))
		}
		snapshot.Statuses = append(snapshot.Statuses, status)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if s.mail == nil {
			record(SourceGmail, errNotConfigured)
			return nil
		}
		emails, err := s.mail.ListMessages(gctx, core.MailQuery{
			DaysBack:   opts.DaysBack,
			MaxResults: opts.MaxEmails,
		})
		if err == nil {
			mu.Lock()
			snapshot.Emails = emails
			mu.Unlock()
		}
		record(SourceGmail, err)
		return nil
	})

	g.Go(func() error {
		if s.calendar == nil {
			record(SourceCalendar, errNotConfigured)
			return nil
		}
		events, err := s.calendar.ListEvents(gctx, targetDate, opts.IncludeDeclined)
		if err == nil {
			mu.Lock()
			snapshot.Events = events
			mu.Unlock()
		}
		record(SourceCalendar, err)
		return nil
	})

	g.Go(func() error {
		if s.tasks == nil {
			record(SourceTasks, errNotConfigured)
			return nil
		}
		due := targetDate
		items, err := s.tasks.ListTasks(gctx, &due)
		if err == nil {
			mu.Lock()
			snapshot.Tasks = items
			mu.Unlock()
		}
		record(SourceTasks, err)
		return nil
	})

	g.Go(func() error {
		if s.docs == nil {
			record(SourceDocs, errNotConfigured)
			return nil
		}
		query := opts.DocumentQuery
		if query == "" {
			record(SourceDocs, nil)
			return nil
		}
		refs, err := s.docs.Search(gctx, query, opts.MaxDocuments)
		if err == nil {
			mu.Lock()
			snapshot.Documents = refs
			mu.Unlock()
		}
		record(SourceDocs, err)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Info("Collected data snapshot",
		zap.Time("target_date", targetDate),
		zap.Int("emails", len(snapshot.Emails)),
		zap.Int("events", len(snapshot.Events)),
		zap.Int("tasks", len(snapshot.Tasks)),
		zap.Int("documents", len(snapshot.Documents)),
		zap.Int("failed_sources", len(snapshot.FailedSources())))

	return snapshot, nil
}

var errNotConfigured = notConfiguredError{}

type notConfiguredError struct{}

func (notConfiguredError) Error() string { return "source not configured" }
