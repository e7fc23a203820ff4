package gmailapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikey/daily-briefer/internal/core"
)

// QueryInbox builds a Gmail search query for inbox mail newer than daysBack
// days, excluding any of the given labels.
func QueryInbox(daysBack int, excludeLabels []core.ActionLabel) string {
	parts := []string{"in:inbox", afterClause(daysBack)}
	for _, l := range excludeLabels {
		parts = append(parts, fmt.Sprintf("-label:%s", l))
	}
	return strings.Join(parts, " ")
}

// QueryLabeled builds a Gmail search query for mail carrying one label newer
// than daysBack days.
func QueryLabeled(label core.ActionLabel, daysBack int) string {
	return fmt.Sprintf("label:%s %s", label, afterClause(daysBack))
}

func afterClause(daysBack int) string {
	cutoff := time.Now().AddDate(0, 0, -daysBack)
	return "after:" + cutoff.Format("2006/01/02")
}
