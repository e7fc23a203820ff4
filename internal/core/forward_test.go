package core

import (
	"strings"
	"testing"
	"time"
)

func TestForwardSubjectPreservesOriginal(t *testing.T) {
	// The subject becomes the Todoist task name, so it must pass through
	// untouched, with no forwarding prefix.
	for _, subject := range []string{
		"Pay the bill",
		"Re: [urgent] Pay the bill!!",
		"",
	} {
		if got := ForwardSubject(EmailMessage{Subject: subject}); got != subject {
			t.Errorf("ForwardSubject(%q) = %q, want subject unchanged", subject, got)
		}
	}
}

func TestForwardBodyEnvelope(t *testing.T) {
	msg := EmailMessage{
		Sender:    "Jane Doe <jane@example.com>",
		Subject:   "Pay the bill",
		Body:      "Please pay by Friday.",
		Timestamp: time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC),
	}

	body := ForwardBody(msg)
	if !strings.HasPrefix(body, "---------- Forwarded message ----------\n") {
		t.Errorf("body missing forward marker:\n%s", body)
	}
	for _, want := range []string{
		"From: Jane Doe <jane@example.com>",
		"Subject: Pay the bill",
		"Please pay by Friday.",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}
