package gmailapi

import (
	"strings"
	"testing"
	"time"

	"github.com/mikey/daily-briefer/internal/core"
)

func TestQueryInbox(t *testing.T) {
	q := QueryInbox(7, core.ActionLabels)

	if !strings.HasPrefix(q, "in:inbox after:") {
		t.Errorf("query = %q, want in:inbox with date window", q)
	}
	for _, label := range core.ActionLabels {
		if !strings.Contains(q, "-label:"+string(label)) {
			t.Errorf("query %q missing exclusion for %s", q, label)
		}
	}

	cutoff := time.Now().AddDate(0, 0, -7).Format("2006/01/02")
	if !strings.Contains(q, "after:"+cutoff) {
		t.Errorf("query %q missing cutoff %s", q, cutoff)
	}
}

func TestQueryInboxNoExclusions(t *testing.T) {
	q := QueryInbox(1, nil)
	if strings.Contains(q, "-label:") {
		t.Errorf("query %q has exclusions without labels", q)
	}
}

func TestQueryLabeled(t *testing.T) {
	q := QueryLabeled(core.LabelTodo, 7)
	if !strings.HasPrefix(q, "label:todo after:") {
		t.Errorf("query = %q", q)
	}
}
