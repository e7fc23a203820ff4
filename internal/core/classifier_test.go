package core

import (
	"testing"
)

func TestClassifyPhases(t *testing.T) {
	tests := []struct {
		name       string
		sender     string
		subject    string
		body       string
		typeLabels []string
		want       ActionLabel
		wantMatch  bool
	}{
		{
			name:      "meeting keyword",
			sender:    "alice@example.com",
			subject:   "Team Standup - Zoom link inside",
			want:      LabelMeetings,
			wantMatch: true,
		},
		{
			name:      "meeting beats todo keywords",
			sender:    "billing@bank.com",
			subject:   "Meeting about your overdue invoice payment",
			want:      LabelMeetings,
			wantMatch: true,
		},
		{
			name:      "payment failure",
			sender:    "stripe@stripe.com",
			subject:   "Payment failed for invoice #123",
			want:      LabelTodo,
			wantMatch: true,
		},
		{
			name:      "action required sender domain",
			sender:    "office@lincoln-school.edu",
			subject:   "Spring semester updates",
			want:      LabelTodo,
			wantMatch: true,
		},
		{
			name:      "failure keyword in subject",
			sender:    "ci@builds.example.com",
			subject:   "Build suspended on main",
			want:      LabelTodo,
			wantMatch: true,
		},
		{
			name:      "review request",
			sender:    "bob@example.com",
			subject:   "Feedback on the Q3 roadmap",
			want:      LabelReview,
			wantMatch: true,
		},
		{
			name:      "doc share indicator in body",
			sender:    "drive-shares@google.com",
			subject:   "Roadmap draft",
			body:      "Bob has shared a document with you: https://docs.google.com/document/d/abc",
			want:      LabelReview,
			wantMatch: true,
		},
		{
			name:      "direct question",
			sender:    "carol@example.com",
			subject:   "What do you think about the new logo",
			want:      LabelReview,
			wantMatch: true,
		},
		{
			name:      "quick rsvp",
			sender:    "events@example.com",
			subject:   "Please confirm your RSVP",
			want:      Label2Min,
			wantMatch: true,
		},
		{
			name:      "quick keyword plus financial term is todo",
			sender:    "events@example.com",
			subject:   "Please confirm your billing details",
			want:      LabelTodo,
			wantMatch: true,
		},
		{
			name:      "verify plus account is todo",
			sender:    "support@example.com",
			subject:   "Verify your account",
			want:      LabelTodo,
			wantMatch: true,
		},
		{
			name:       "promotions type label defaults to fyi",
			sender:     "deals@shop.example.com",
			subject:    "Big sale this weekend",
			typeLabels: []string{CategoryPromotions},
			want:       LabelFYI,
			wantMatch:  true,
		},
		{
			name:       "forums type label defaults to fyi",
			sender:     "list@discuss.example.com",
			subject:    "Weekly digest",
			typeLabels: []string{CategoryForums},
			want:       LabelFYI,
			wantMatch:  true,
		},
		{
			name:      "automated sender defaults to fyi",
			sender:    "noreply@service.com",
			subject:   "Your weekly summary",
			want:      LabelFYI,
			wantMatch: true,
		},
		{
			name:      "nothing matches",
			sender:    "friend@example.com",
			subject:   "lunch",
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Classify(tc.sender, tc.subject, tc.body, tc.typeLabels)
			if ok != tc.wantMatch {
				t.Fatalf("matched=%v, want %v", ok, tc.wantMatch)
			}
			if ok && got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifyMeetingPrecedence(t *testing.T) {
	// A meeting keyword in the subject wins regardless of any other match.
	subjects := []string{
		"Meeting: payment review",
		"Calendar invite - please confirm your billing",
		"Schedule feedback session",
	}
	for _, subject := range subjects {
		got, ok := Classify("bank@bank.com", subject, "", nil)
		if !ok || got != LabelMeetings {
			t.Fatalf("subject %q: got %q (matched=%v), want meetings", subject, got, ok)
		}
	}
}

func TestClassifyQuickFinancialNever2Min(t *testing.T) {
	subjects := []string{
		"Please confirm your billing details",
		"Verify payment method",
		"Quick account verification needed",
	}
	for _, subject := range subjects {
		got, _ := Classify("x@example.com", subject, "", nil)
		if got == Label2Min {
			t.Fatalf("subject %q classified as 2min, want todo", subject)
		}
		if got != LabelTodo {
			t.Fatalf("subject %q: got %q, want todo", subject, got)
		}
	}
}

func TestClassifyWithDefault(t *testing.T) {
	got := ClassifyWithDefault("friend@example.com", "lunch", "", nil)
	if got != LabelFYI {
		t.Fatalf("got %q, want fyi", got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	labels := []string{CategoryUpdates}
	first, okFirst := Classify("noreply@service.com", "Your receipt", "thanks", labels)
	for i := 0; i < 50; i++ {
		got, ok := Classify("noreply@service.com", "Your receipt", "thanks", labels)
		if got != first || ok != okFirst {
			t.Fatalf("iteration %d: got (%q,%v), want (%q,%v)", i, got, ok, first, okFirst)
		}
	}
	if labels[0] != CategoryUpdates {
		t.Fatalf("input slice mutated")
	}
}
