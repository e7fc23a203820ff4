package gcal

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/mikey/daily-briefer/internal/auth"
	"github.com/mikey/daily-briefer/internal/core"
)

// Client adapts the Google Calendar API to the core.CalendarSource port
type Client struct {
	svc    *calendar.Service
	logger *zap.Logger
}

// NewClient creates a Calendar client from an authenticated credential
func NewClient(ctx context.Context, cred *auth.Credential, logger *zap.Logger) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithTokenSource(cred.TokenSource()))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return &Client{svc: svc, logger: logger}, nil
}

// ListEvents returns the primary calendar's events for one day, ordered by
// start time
func (c *Client) ListEvents(ctx context.Context, day time.Time, includeDeclined bool) ([]core.CalendarEvent, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	res, err := c.svc.Events.List("primary").
		TimeMin(dayStart.Format(time.RFC3339)).
		TimeMax(dayEnd.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]core.CalendarEvent, 0, len(res.Items))
	for _, item := range res.Items {
		if !includeDeclined && isDeclined(item) {
			continue
		}
		events = append(events, toEvent(item))
	}
	return events, nil
}

func isDeclined(item *calendar.Event) bool {
	for _, a := range item.Attendees {
		if a.Self && a.ResponseStatus == "declined" {
			return true
		}
	}
	return false
}

func toEvent(item *calendar.Event) core.CalendarEvent {
	ev := core.CalendarEvent{
		ID:          item.Id,
		Title:       item.Summary,
		Location:    item.Location,
		Description: item.Description,
		MeetingURL:  item.HangoutLink,
		Status:      item.Status,
	}
	ev.Start = parseEventTime(item.Start)
	ev.End = parseEventTime(item.End)
	if item.Organizer != nil {
		ev.Organizer = item.Organizer.Email
	}
	for _, a := range item.Attendees {
		ev.Attendees = append(ev.Attendees, a.Email)
	}
	if ev.MeetingURL == "" && item.ConferenceData != nil {
		for _, ep := range item.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				ev.MeetingURL = ep.Uri
				break
			}
		}
	}
	return ev
}

// parseEventTime handles both timed and all-day events
func parseEventTime(edt *calendar.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

var _ core.CalendarSource = (*Client)(nil)
