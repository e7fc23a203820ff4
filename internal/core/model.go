package core

import (
	"time"
)

// EmailMessage represents an email retrieved from the mail source
type EmailMessage struct {
	ID             string
	ThreadID       string
	Sender         string
	Subject        string
	Body           string
	Timestamp      time.Time
	LabelIDs       []string
	TypeLabels     []string
	Classification ActionLabel
}

// CalendarEvent represents a calendar event on the target date
type CalendarEvent struct {
	ID          string
	Title       string
	Start       time.Time
	End         time.Time
	Location    string
	MeetingURL  string
	Description string
	Attendees   []string
	Organizer   string
	Status      string
}

// Task represents a task from the task source
type Task struct {
	ID        string
	Title     string
	DueDate   time.Time
	Priority  int
	Project   string
	Completed bool
	Overdue   bool
}

// DocumentReference points at a workspace document related to an email or event
type DocumentReference struct {
	Title   string
	URL     string
	Source  string
	DocType string
}

// SourceStatus tracks the availability of a data source during a run
type SourceStatus struct {
	Name      string
	Available bool
	Err       string
	CheckedAt time.Time
}

// Snapshot holds everything the collection stage gathered for one run
type Snapshot struct {
	TargetDate time.Time
	Emails     []EmailMessage
	Events     []CalendarEvent
	Tasks      []Task
	Documents  []DocumentReference
	Statuses   []SourceStatus
}

// FailedSources returns the status records of sources that were unavailable
func (s *Snapshot) FailedSources() []SourceStatus {
	var failed []SourceStatus
	for _, st := range s.Statuses {
		if !st.Available {
			failed = append(failed, st)
		}
	}
	return failed
}

// TodoState describes where a todo email is in the forward/archive lifecycle
type TodoState int

const (
	TodoPending TodoState = iota
	TodoForwarded
	TodoArchived
	TodoFailedForward
	TodoFailedArchive
	// TodoAlreadyArchived marks mail that was out of the inbox before the
	// run started; nothing was forwarded or archived for it this run.
	TodoAlreadyArchived
)

// String returns a human-readable state name for reports
func (s TodoState) String() string {
	switch s {
	case TodoPending:
		return "pending"
	case TodoForwarded:
		return "forwarded"
	case TodoArchived:
		return "forwarded and archived"
	case TodoFailedForward:
		return "failed to forward"
	case TodoFailedArchive:
		return "forwarded but not archived"
	case TodoAlreadyArchived:
		return "already archived"
	default:
		return "unknown"
	}
}

// TodoItem tracks a single todo email through the forwarding workflow
type TodoItem struct {
	MessageID string
	Sender    string
	Subject   string
	State     TodoState
	Err       string
}

// StageProfile carries the role and goal prose handed to the narrative
// collaborator for one pipeline stage. The prose is configuration, not behavior.
type StageProfile struct {
	Role    string
	Goal    string
	Context string
}

// NarrativeCacheEntry is a cached narrative stage output
type NarrativeCacheEntry struct {
	Key       string
	Output    string
	CreatedAt time.Time
	ExpiresAt time.Time
}
