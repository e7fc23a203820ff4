package core

import (
	"strings"
)

// Keyword sets for the ordered classification phases. Evaluation order encodes
// priority: the first phase that matches wins.
var (
	meetingKeywords = []string{
		"meeting", "invite", "calendar", "schedule", "conference",
		"zoom", "teams", "appointment",
	}

	todoKeywords = []string{
		"payment", "bill", "invoice", "action required", "please complete",
		"due date", "deadline", "submit", "approve", "sign", "register",
		"application",
	}
	todoSenders = []string{
		"school", "physician", "doctor", "security", "bank", "finance", "billing",
	}
	failureKeywords = []string{
		"failed", "declined", "error", "problem", "issue", "suspended", "blocked",
	}

	// "please" on its own is not a review signal; it would swallow
	// quick-action confirmations like "please confirm your rsvp"
	reviewKeywords = []string{
		"review", "feedback", "opinion", "thoughts", "comment", "input",
	}
	docShareIndicators = []string{
		"docs.google.com", "has shared", "commented on", "shared with you",
	}
	questionIndicators = []string{
		"?", "what do you think", "can you", "would you", "could you",
	}

	quickKeywords = []string{
		"confirm", "verify", "click here", "one-click", "quick", "rsvp", "yes/no",
	}
	financialTerms = []string{
		"payment", "billing", "account", "financial",
	}

	automatedSenders = []string{
		"noreply", "no-reply", "donotreply", "automated", "system",
	}
)

// Classify determines the action required for an email. It is a pure function
// of its inputs: identical inputs always yield the same label and it never
// touches the label store.
//
// The second return value is false only when no rule matched at all; callers
// that want the production behavior use ClassifyWithDefault, which maps that
// case to fyi.
func Classify(sender, subject, body string, typeLabels []string) (ActionLabel, bool) {
	subjectLower := strings.ToLower(subject)
	senderLower := strings.ToLower(sender)
	bodyLower := strings.ToLower(body)

	// Phase 1: meeting-related actions take precedence over everything else
	if containsAny(subjectLower, meetingKeywords) {
		return LabelMeetings, true
	}

	// Phase 2: significant action required
	if containsAny(subjectLower, todoKeywords) ||
		containsAny(senderLower, todoSenders) ||
		containsAny(subjectLower, failureKeywords) {
		return LabelTodo, true
	}

	// Phase 3: review and feedback requests
	if containsAny(subjectLower, reviewKeywords) ||
		containsAny(bodyLower, docShareIndicators) ||
		containsAny(subjectLower, questionIndicators) {
		return LabelReview, true
	}

	// Phase 4: quick actions, unless the subject carries financial or account
	// terms; financial confirmations are never 2min tasks
	if containsAny(subjectLower, quickKeywords) {
		if containsAny(subjectLower, financialTerms) {
			return LabelTodo, true
		}
		return Label2Min, true
	}

	// Phase 5: weak signals only. Gmail category labels and automated sender
	// prefixes mark informational mail.
	for _, tl := range typeLabels {
		switch tl {
		case CategoryPromotions, CategoryForums, CategoryUpdates, CategorySocial:
			return LabelFYI, true
		}
	}
	if containsAny(senderLower, automatedSenders) {
		return LabelFYI, true
	}

	return "", false
}

// ClassifyWithDefault is Classify with the production fallback: anything no
// rule matched is informational.
func ClassifyWithDefault(sender, subject, body string, typeLabels []string) ActionLabel {
	if label, ok := Classify(sender, subject, body, typeLabels); ok {
		return label
	}
	return LabelFYI
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
