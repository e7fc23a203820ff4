package core

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ActionLabel is a user-applied label describing what to do with an email,
// as opposed to the Gmail-managed type labels describing what the email is.
type ActionLabel string

const (
	LabelTodo     ActionLabel = "todo"
	Label2Min     ActionLabel = "2min"
	LabelFYI      ActionLabel = "fyi"
	LabelReview   ActionLabel = "review"
	LabelMeetings ActionLabel = "meetings"
)

// ActionLabels lists every action label this system owns
var ActionLabels = []ActionLabel{
	LabelTodo,
	Label2Min,
	LabelFYI,
	LabelReview,
	LabelMeetings,
}

// LabelMetadata holds presentation data for an action label. Priority ranks
// the label for briefing organization; it is not part of classification.
type LabelMetadata struct {
	DisplayName string
	Description string
	Emoji       string
	Priority    int
}

var labelMetadata = map[ActionLabel]LabelMetadata{
	LabelTodo: {
		DisplayName: "Todo",
		Description: "Emails requiring action that cannot be completed in less than 2 minutes",
		Emoji:       "📋",
		Priority:    1,
	},
	Label2Min: {
		DisplayName: "2min",
		Description: "Emails requiring action that can be resolved in less than 2 minutes",
		Emoji:       "⚡",
		Priority:    2,
	},
	LabelReview: {
		DisplayName: "Review",
		Description: "Emails asking for feedback, review, or opinion on documents",
		Emoji:       "🔍",
		Priority:    3,
	},
	LabelMeetings: {
		DisplayName: "Meetings",
		Description: "Meeting-related communications including invitations and notes",
		Emoji:       "📅",
		Priority:    4,
	},
	LabelFYI: {
		DisplayName: "FYI",
		Description: "Informational emails requiring no action",
		Emoji:       "💡",
		Priority:    5,
	},
}

var titleCaser = cases.Title(language.English)

// Metadata returns the display metadata for a label. Unknown labels get a
// title-cased fallback so report rendering never fails.
func (l ActionLabel) Metadata() LabelMetadata {
	if md, ok := labelMetadata[l]; ok {
		return md
	}
	return LabelMetadata{DisplayName: titleCaser.String(string(l)), Priority: len(labelMetadata) + 1}
}

// IsValid reports whether l is one of the fixed action labels
func (l ActionLabel) IsValid() bool {
	_, ok := labelMetadata[l]
	return ok
}

// ActionLabelsByPriority returns the action labels ordered by briefing priority
func ActionLabelsByPriority() []ActionLabel {
	out := make([]ActionLabel, len(ActionLabels))
	copy(out, ActionLabels)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Metadata().Priority < out[j-1].Metadata().Priority; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Gmail system labels are never created, removed, or duplicated by this system.
const (
	SystemInbox     = "INBOX"
	SystemImportant = "IMPORTANT"
	SystemStarred   = "STARRED"
	SystemSent      = "SENT"
	SystemDraft     = "DRAFT"
	SystemSpam      = "SPAM"
	SystemTrash     = "TRASH"
	SystemUnread    = "UNREAD"

	CategoryPromotions = "CATEGORY_PROMOTIONS"
	CategoryForums     = "CATEGORY_FORUMS"
	CategoryUpdates    = "CATEGORY_UPDATES"
	CategorySocial     = "CATEGORY_SOCIAL"
	CategoryPrimary    = "CATEGORY_PRIMARY"
)

var systemLabels = map[string]struct{}{
	SystemInbox:        {},
	SystemImportant:    {},
	SystemStarred:      {},
	SystemSent:         {},
	SystemDraft:        {},
	SystemSpam:         {},
	SystemTrash:        {},
	SystemUnread:       {},
	CategoryPromotions: {},
	CategoryForums:     {},
	CategoryUpdates:    {},
	CategorySocial:     {},
	CategoryPrimary:    {},
}

// IsSystemLabel reports whether id names a Gmail-managed label. Category
// labels are matched by prefix because Gmail owns the whole CATEGORY_ space.
func IsSystemLabel(id string) bool {
	if _, ok := systemLabels[id]; ok {
		return true
	}
	return len(id) > 9 && id[:9] == "CATEGORY_"
}
