package labeler

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikey/daily-briefer/internal/core"
)

// Outcome describes what happened to one email during a labeling run
type Outcome int

const (
	OutcomeLabeled Outcome = iota
	OutcomeWouldLabel
	OutcomeSkipped
	OutcomeUnclassified
	OutcomeFailed
)

// Result records the outcome for a single email
type Result struct {
	MessageID string
	Subject   string
	Sender    string
	Label     core.ActionLabel
	Outcome   Outcome
	Detail    string
}

// Report summarizes a labeling run for the operator
type Report struct {
	ProcessedAt time.Time
	DaysBack    int
	Query       string
	DryRun      bool
	TotalFound  int
	Results     []Result
}

// LabeledCount returns how many emails were labeled, or would have been in a
// dry run
func (r *Report) LabeledCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == OutcomeLabeled || res.Outcome == OutcomeWouldLabel {
			n++
		}
	}
	return n
}

// SkippedCount returns how many emails were skipped as already labeled
func (r *Report) SkippedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == OutcomeSkipped {
			n++
		}
	}
	return n
}

// String renders the report as operator-facing text
func (r *Report) String() string {
	var b strings.Builder
	b.WriteString("GMAIL LABELING REPORT\n")
	fmt.Fprintf(&b, "Processing Date: %s\n", r.ProcessedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Search Period: Last %d days\n", r.DaysBack)
	fmt.Fprintf(&b, "Search Query: %s\n", r.Query)
	fmt.Fprintf(&b, "Total Emails Found: %d\n", r.TotalFound)
	if r.DryRun {
		b.WriteString("DRY RUN MODE: Yes - No labels will be applied\n\n")
	} else {
		b.WriteString("DRY RUN MODE: No - Labels will be applied\n\n")
	}

	if len(r.Results) == 0 {
		b.WriteString("No unlabeled emails found in the specified time period.\n")
		return b.String()
	}

	b.WriteString("EMAIL PROCESSING RESULTS:\n")
	for i, res := range r.Results {
		subject := truncateSubject(res.Subject)
		switch res.Outcome {
		case OutcomeWouldLabel:
			fmt.Fprintf(&b, "  🔍 Email %d: %s → Would label as '%s'\n", i+1, subject, res.Label)
		case OutcomeLabeled:
			fmt.Fprintf(&b, "  ✅ Email %d: %s → %s\n", i+1, subject, res.Label)
		case OutcomeSkipped:
			fmt.Fprintf(&b, "  ⏭️ Email %d: %s → Skipped (%s)\n", i+1, subject, res.Detail)
		case OutcomeUnclassified:
			fmt.Fprintf(&b, "  ❓ Email %d: %s → Could not classify\n", i+1, subject)
		case OutcomeFailed:
			fmt.Fprintf(&b, "  ❌ Email %d: %s → Failed to apply label '%s'\n", i+1, subject, res.Label)
		}
	}

	b.WriteString("\nSUMMARY:\n")
	fmt.Fprintf(&b, "  Processed: %d emails\n", len(r.Results))
	failed := len(r.Results) - r.LabeledCount() - r.SkippedCount()
	if r.DryRun {
		fmt.Fprintf(&b, "  Would Label: %d emails\n", r.LabeledCount())
		fmt.Fprintf(&b, "  Skipped (already labeled): %d emails\n", r.SkippedCount())
		fmt.Fprintf(&b, "  Could Not Classify: %d emails\n", failed)
		b.WriteString("\n💡 This was a DRY RUN - no actual labels were applied to Gmail.\n")
		b.WriteString("   Remove --dry-run flag to apply these labels.\n")
	} else {
		fmt.Fprintf(&b, "  Successfully Labeled: %d emails\n", r.LabeledCount())
		fmt.Fprintf(&b, "  Skipped (already labeled): %d emails\n", r.SkippedCount())
		fmt.Fprintf(&b, "  Failed: %d emails\n", failed)
	}
	return b.String()
}

func truncateSubject(subject string) string {
	runes := []rune(subject)
	if len(runes) <= 50 {
		return subject
	}
	return string(runes[:50]) + "..."
}
