package core

import "testing"

func TestIsSystemLabel(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"INBOX", true},
		{"SPAM", true},
		{"TRASH", true},
		{"CATEGORY_PROMOTIONS", true},
		{"CATEGORY_SOMETHING_NEW", true},
		{"todo", false},
		{"Label_42", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSystemLabel(tt.id); got != tt.want {
			t.Errorf("IsSystemLabel(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestActionLabelsByPriority(t *testing.T) {
	ordered := ActionLabelsByPriority()
	if len(ordered) != len(ActionLabels) {
		t.Fatalf("got %d labels, want %d", len(ordered), len(ActionLabels))
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Metadata().Priority > ordered[i].Metadata().Priority {
			t.Errorf("labels out of priority order: %v", ordered)
		}
	}
	if ordered[0] != LabelTodo {
		t.Errorf("highest priority label = %q, want todo", ordered[0])
	}
	if ordered[len(ordered)-1] != LabelFYI {
		t.Errorf("lowest priority label = %q, want fyi", ordered[len(ordered)-1])
	}
}

func TestMetadataFallbackForUnknownLabel(t *testing.T) {
	md := ActionLabel("someday").Metadata()
	if md.DisplayName != "Someday" {
		t.Errorf("DisplayName = %q, want title-cased fallback", md.DisplayName)
	}
}
