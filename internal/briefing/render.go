package briefing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mikey/daily-briefer/internal/core"
)

// renderSnapshot summarizes what the collection pass gathered. It becomes the
// data-collection stage's output, so downstream narrative prompts can mention
// what is and is not available.
func renderSnapshot(snap *core.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Data collected for %s:\n", snap.TargetDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Emails: %d\n", len(snap.Emails))
	fmt.Fprintf(&b, "- Calendar events: %d\n", len(snap.Events))
	fmt.Fprintf(&b, "- Tasks: %d\n", len(snap.Tasks))
	fmt.Fprintf(&b, "- Documents: %d\n", len(snap.Documents))
	for _, st := range snap.FailedSources() {
		fmt.Fprintf(&b, "- Source %s unavailable: %s\n", st.Name, st.Err)
	}
	return b.String()
}

// renderEmailsByLabel groups classified emails by action label in briefing
// priority order
func renderEmailsByLabel(emails []core.EmailMessage) string {
	grouped := make(map[core.ActionLabel][]core.EmailMessage)
	for _, email := range emails {
		grouped[email.Classification] = append(grouped[email.Classification], email)
	}

	var b strings.Builder
	b.WriteString("CLASSIFIED EMAILS\n")
	for _, label := range core.ActionLabelsByPriority() {
		group := grouped[label]
		if len(group) == 0 {
			continue
		}
		md := label.Metadata()
		fmt.Fprintf(&b, "\n%s %s (%d):\n", md.Emoji, md.DisplayName, len(group))
		for _, email := range group {
			fmt.Fprintf(&b, "- From: %s | Subject: %s | https://mail.google.com/mail/u/0/#inbox/%s\n",
				email.Sender, email.Subject, email.ID)
		}
	}
	if len(emails) == 0 {
		b.WriteString("\nNo emails in the collection window.\n")
	}
	return b.String()
}

// renderEvents lists calendar events chronologically
func renderEvents(events []core.CalendarEvent) string {
	sorted := make([]core.CalendarEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var b strings.Builder
	b.WriteString("CALENDAR EVENTS\n")
	if len(sorted) == 0 {
		b.WriteString("No events scheduled.\n")
		return b.String()
	}
	for _, ev := range sorted {
		fmt.Fprintf(&b, "- %s-%s %s", ev.Start.Format("15:04"), ev.End.Format("15:04"), ev.Title)
		if ev.Location != "" {
			fmt.Fprintf(&b, " @ %s", ev.Location)
		}
		if ev.MeetingURL != "" {
			fmt.Fprintf(&b, " (%s)", ev.MeetingURL)
		}
		b.WriteString("\n")
		if len(ev.Attendees) > 0 {
			fmt.Fprintf(&b, "  Attendees: %s\n", strings.Join(ev.Attendees, ", "))
		}
		if ev.Description != "" {
			fmt.Fprintf(&b, "  %s\n", firstLine(ev.Description))
		}
	}
	return b.String()
}

// renderTasks lists tasks, overdue first
func renderTasks(tasks []core.Task) string {
	var b strings.Builder
	b.WriteString("TASKS\n")
	if len(tasks) == 0 {
		b.WriteString("No tasks due.\n")
		return b.String()
	}
	for _, t := range tasks {
		marker := "-"
		if t.Overdue {
			marker = "- [OVERDUE]"
		}
		fmt.Fprintf(&b, "%s %s", marker, t.Title)
		if t.Project != "" {
			fmt.Fprintf(&b, " (%s)", t.Project)
		}
		if !t.DueDate.IsZero() {
			fmt.Fprintf(&b, " due %s", t.DueDate.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderDocuments lists workspace documents as markdown links
func renderDocuments(docs []core.DocumentReference) string {
	if len(docs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("RELATED DOCUMENTS\n")
	for _, d := range docs {
		fmt.Fprintf(&b, "- [%s](%s)\n", d.Title, d.URL)
	}
	return b.String()
}

// assembleFallback builds the briefing document deterministically from the
// stage outputs. It is used when the narrative synthesizer is unavailable, so
// a degraded run still yields a complete document.
func assembleFallback(targetDate time.Time, emailSummary, agenda, actionItems string, failures []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Briefing for %s\n\n", targetDate.Format("Monday, January 2, 2006"))

	if len(failures) > 0 {
		b.WriteString("## Notices\n\n")
		for _, f := range failures {
			fmt.Fprintf(&b, "Warning: %s\n", f)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Action Items\n\n")
	b.WriteString(strings.TrimSpace(actionItems))
	b.WriteString("\n\n## Email Summary\n\n")
	b.WriteString(strings.TrimSpace(emailSummary))
	b.WriteString("\n\n## Daily Agenda\n\n")
	b.WriteString(strings.TrimSpace(agenda))
	b.WriteString("\n")
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
