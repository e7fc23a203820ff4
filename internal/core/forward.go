package core

import (
	"fmt"
	"strings"
)

// ForwardSubject builds the subject line for a forwarded email. The original
// subject is preserved verbatim; Todoist's mail-in parser turns the subject
// into the task name, so no "Fwd:" prefix is added.
func ForwardSubject(msg EmailMessage) string {
	return msg.Subject
}

// ForwardBody builds the body of a forwarded email, wrapping the original
// message in a standard forwarding envelope.
func ForwardBody(msg EmailMessage) string {
	var b strings.Builder
	b.WriteString("---------- Forwarded message ----------\n")
	fmt.Fprintf(&b, "From: %s\n", msg.Sender)
	fmt.Fprintf(&b, "Date: %s\n", msg.Timestamp.Format("Mon, 2 Jan 2006 15:04:05 -0700"))
	fmt.Fprintf(&b, "Subject: %s\n", msg.Subject)
	b.WriteString("\n")
	b.WriteString(msg.Body)
	return b.String()
}
