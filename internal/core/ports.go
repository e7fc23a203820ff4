package core

import (
	"context"
	"time"
)

// MailQuery narrows a mail source listing
type MailQuery struct {
	DaysBack   int
	MaxResults int
	Raw        string
}

// MailSource defines the narrow mail surface the services need
type MailSource interface {
	// ListMessages returns full messages matching the query
	ListMessages(ctx context.Context, q MailQuery) ([]EmailMessage, error)

	// ModifyLabels adds and removes label ids on a message in one call
	ModifyLabels(ctx context.Context, id string, add, remove []string) error

	// Send sends a plain-text message from the authenticated account
	Send(ctx context.Context, to, subject, body string) error

	// ListLabels returns the name to id mapping of every label in the store
	ListLabels(ctx context.Context) (map[string]string, error)

	// CreateLabel creates a user label and returns its id
	CreateLabel(ctx context.Context, name string) (string, error)
}

// CalendarSource lists events for a single day
type CalendarSource interface {
	ListEvents(ctx context.Context, day time.Time, includeDeclined bool) ([]CalendarEvent, error)
}

// TaskSource lists tasks, optionally filtered by due date
type TaskSource interface {
	ListTasks(ctx context.Context, due *time.Time) ([]Task, error)
}

// DocumentSource searches workspace documents for briefing context
type DocumentSource interface {
	Search(ctx context.Context, query string, maxResults int) ([]DocumentReference, error)
}

// NarrativeClient generates narrative text for a pipeline stage. It is an
// opaque collaborator; a failure here surfaces as a stage failure, never a
// crashed run.
type NarrativeClient interface {
	Generate(ctx context.Context, profile StageProfile, input string) (string, error)
}

// Forwarder resends an email's content to an external address, preserving
// the original subject
type Forwarder interface {
	Forward(ctx context.Context, msg EmailMessage, to string) error
}

// CacheRepository stores narrative stage outputs between runs
type CacheRepository interface {
	// Get retrieves a cached entry by key
	Get(ctx context.Context, key string) (*NarrativeCacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *NarrativeCacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
