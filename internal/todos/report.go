package todos

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikey/daily-briefer/internal/core"
)

// Report summarizes a todo processing run for the operator
type Report struct {
	ProcessedAt    time.Time
	ForwardAddress string
	DaysBack       int
	DryRun         bool
	TotalFound     int
	Items          []core.TodoItem
}

// ForwardedCount returns how many emails were forwarded, including those that
// later failed to archive
func (r *Report) ForwardedCount() int {
	n := 0
	for _, item := range r.Items {
		switch item.State {
		case core.TodoForwarded, core.TodoArchived, core.TodoFailedArchive:
			n++
		}
	}
	return n
}

// ArchivedCount returns how many emails completed both phases
func (r *Report) ArchivedCount() int {
	n := 0
	for _, item := range r.Items {
		if item.State == core.TodoArchived {
			n++
		}
	}
	return n
}

// SkippedCount returns how many emails were already out of the inbox and
// needed no work this run
func (r *Report) SkippedCount() int {
	n := 0
	for _, item := range r.Items {
		if item.State == core.TodoAlreadyArchived {
			n++
		}
	}
	return n
}

// FailedCount returns how many emails failed to forward
func (r *Report) FailedCount() int {
	n := 0
	for _, item := range r.Items {
		if item.State == core.TodoFailedForward {
			n++
		}
	}
	return n
}

// String renders the report as operator-facing text
func (r *Report) String() string {
	var b strings.Builder
	b.WriteString("GMAIL TODO PROCESSING REPORT\n")
	fmt.Fprintf(&b, "Processing Date: %s\n", r.ProcessedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Forward Address: %s\n", r.ForwardAddress)
	fmt.Fprintf(&b, "Search Period: Last %d days\n", r.DaysBack)
	fmt.Fprintf(&b, "Total Todo Emails Found: %d\n", r.TotalFound)
	if r.DryRun {
		b.WriteString("DRY RUN MODE: Yes - No emails will be forwarded/archived\n\n")
	} else {
		b.WriteString("DRY RUN MODE: No - Emails will be processed\n\n")
	}

	if len(r.Items) == 0 {
		b.WriteString("No todo emails found in the specified time period.\n")
		return b.String()
	}

	b.WriteString("EMAIL PROCESSING RESULTS:\n")
	for i, item := range r.Items {
		subject := truncate(item.Subject, 40)
		if item.State == core.TodoAlreadyArchived {
			fmt.Fprintf(&b, "  ⏭️  Email %d: %s → Already archived, skipped\n", i+1, subject)
			continue
		}
		if r.DryRun {
			fmt.Fprintf(&b, "  🔍 Email %d: From %s Subject: %s → Would forward and archive\n",
				i+1, truncate(item.Sender, 30), subject)
			continue
		}
		switch item.State {
		case core.TodoArchived:
			fmt.Fprintf(&b, "  ✅ Email %d: %s → Forwarded and archived\n", i+1, subject)
		case core.TodoFailedArchive:
			fmt.Fprintf(&b, "  ⚠️  Email %d: %s → Forwarded but failed to archive\n", i+1, subject)
		case core.TodoFailedForward:
			fmt.Fprintf(&b, "  ❌ Email %d: %s → Failed to forward\n", i+1, subject)
		default:
			fmt.Fprintf(&b, "  ❓ Email %d: %s → %s\n", i+1, subject, item.State)
		}
	}

	b.WriteString("\nSUMMARY:\n")
	fmt.Fprintf(&b, "  Processed: %d emails\n", len(r.Items))
	if r.DryRun {
		actionable := len(r.Items) - r.SkippedCount()
		fmt.Fprintf(&b, "  Would Forward: %d emails\n", actionable)
		fmt.Fprintf(&b, "  Would Archive: %d emails\n", actionable)
		b.WriteString("\n💡 This was a DRY RUN - no actual emails were forwarded or archived.\n")
		b.WriteString("   Remove --dry-run flag to process these emails.\n")
	} else {
		fmt.Fprintf(&b, "  Successfully Forwarded: %d emails\n", r.ForwardedCount())
		fmt.Fprintf(&b, "  Successfully Archived: %d emails\n", r.ArchivedCount())
		fmt.Fprintf(&b, "  Failed: %d emails\n", r.FailedCount())
		if n := r.SkippedCount(); n > 0 {
			fmt.Fprintf(&b, "  Skipped (already archived): %d emails\n", n)
		}
		if r.ForwardedCount() > 0 {
			fmt.Fprintf(&b, "\n✅ %d todo emails have been forwarded to %s\n", r.ForwardedCount(), r.ForwardAddress)
		}
		if r.ArchivedCount() > 0 {
			fmt.Fprintf(&b, "📁 %d emails have been archived from your inbox\n", r.ArchivedCount())
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
