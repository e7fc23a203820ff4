package labeler

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mikey/daily-briefer/internal/core"
)

type modification struct {
	id     string
	add    []string
	remove []string
}

// fakeMail is an in-memory core.MailSource for exercising the service
type fakeMail struct {
	labels        map[string]string
	messages      []core.EmailMessage
	modifications []modification
	created       []string
	failModify    map[string]error
	listErr       error
}

func newFakeMail() *fakeMail {
	return &fakeMail{
		labels:     map[string]string{"INBOX": "INBOX"},
		failModify: map[string]error{},
	}
}

func (f *fakeMail) ListMessages(_ context.Context, _ core.MailQuery) ([]core.EmailMessage, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.messages, nil
}

func (f *fakeMail) ModifyLabels(_ context.Context, id string, add, remove []string) error {
	if err := f.failModify[id]; err != nil {
		return err
	}
	f.modifications = append(f.modifications, modification{id: id, add: add, remove: remove})
	return nil
}

func (f *fakeMail) Send(_ context.Context, _, _, _ string) error { return nil }

func (f *fakeMail) ListLabels(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(f.labels))
	for k, v := range f.labels {
		out[k] = v
	}
	return out, nil
}

func (f *fakeMail) CreateLabel(_ context.Context, name string) (string, error) {
	id := "Label_" + name
	f.labels[name] = id
	f.created = append(f.created, name)
	return id, nil
}

func email(id, sender, subject string, labelIDs ...string) core.EmailMessage {
	return core.EmailMessage{
		ID:       id,
		Sender:   sender,
		Subject:  subject,
		LabelIDs: labelIDs,
	}
}

func TestEnsureLabelsCreatesOnlyMissing(t *testing.T) {
	mail := newFakeMail()
	mail.labels["todo"] = "Label_existing_todo"
	mail.labels["fyi"] = "Label_existing_fyi"

	svc := NewService(mail, zap.NewNop())
	ids, err := svc.EnsureLabels(context.Background())
	if err != nil {
		t.Fatalf("EnsureLabels() error = %v", err)
	}

	if len(mail.created) != 3 {
		t.Fatalf("created %v labels, want 3", mail.created)
	}
	for _, name := range mail.created {
		if name == "todo" || name == "fyi" {
			t.Errorf("recreated existing label %q", name)
		}
	}
	if ids[core.LabelTodo] != "Label_existing_todo" {
		t.Errorf("todo id = %q, want existing id", ids[core.LabelTodo])
	}
	if len(ids) != len(core.ActionLabels) {
		t.Errorf("got %d label ids, want %d", len(ids), len(core.ActionLabels))
	}
}

func TestEnsureLabelsNeverTouchesSystemLabels(t *testing.T) {
	mail := newFakeMail()
	svc := NewService(mail, zap.NewNop())

	if _, err := svc.EnsureLabels(context.Background()); err != nil {
		t.Fatalf("EnsureLabels() error = %v", err)
	}
	for _, name := range mail.created {
		if core.IsSystemLabel(name) {
			t.Errorf("created system label %q", name)
		}
	}
}

func TestRunAppliesLabels(t *testing.T) {
	mail := newFakeMail()
	mail.messages = []core.EmailMessage{
		email("m1", "team@zoom.us", "Meeting invite for Thursday", "INBOX"),
		email("m2", "noreply@example.com", "Weekly digest", "INBOX"),
	}

	svc := NewService(mail, zap.NewNop())
	report, err := svc.Run(context.Background(), Options{DaysBack: 7, MaxEmails: 50})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := report.LabeledCount(); got != 2 {
		t.Fatalf("LabeledCount() = %d, want 2", got)
	}
	if len(mail.modifications) != 2 {
		t.Fatalf("got %d modifications, want 2", len(mail.modifications))
	}
	first := mail.modifications[0]
	if len(first.add) != 1 || first.add[0] != mail.labels["meetings"] {
		t.Errorf("first add = %v, want meetings id", first.add)
	}
}

func TestRunRemoveSetExcludesSystemLabels(t *testing.T) {
	mail := newFakeMail()
	svc := NewService(mail, zap.NewNop())

	ids, err := svc.EnsureLabels(context.Background())
	if err != nil {
		t.Fatalf("EnsureLabels() error = %v", err)
	}

	// Mail carrying a stale action label alongside system labels
	mail.messages = []core.EmailMessage{
		email("m1", "team@zoom.us", "Meeting invite", "INBOX", "IMPORTANT", ids[core.LabelFYI]),
	}

	msg := mail.messages[0]
	if err := svc.apply(context.Background(), msg, core.LabelMeetings, ids); err != nil {
		t.Fatalf("apply() error = %v", err)
	}

	mod := mail.modifications[len(mail.modifications)-1]
	for _, id := range mod.remove {
		if core.IsSystemLabel(id) {
			t.Errorf("remove set contains system label %q", id)
		}
	}
	found := false
	for _, id := range mod.remove {
		if id == ids[core.LabelFYI] {
			found = true
		}
	}
	if !found {
		t.Error("remove set missing the stale action label")
	}
}

func TestRunDryRunPerformsNoMutations(t *testing.T) {
	mail := newFakeMail()
	mail.messages = []core.EmailMessage{
		email("m1", "team@zoom.us", "Meeting invite", "INBOX"),
	}

	svc := NewService(mail, zap.NewNop())
	report, err := svc.Run(context.Background(), Options{DaysBack: 7, MaxEmails: 50, DryRun: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(mail.modifications) != 0 {
		t.Errorf("dry run performed %d modifications", len(mail.modifications))
	}
	if len(mail.created) != 0 {
		t.Errorf("dry run created labels %v", mail.created)
	}
	if got := report.LabeledCount(); got != 1 {
		t.Errorf("LabeledCount() = %d, want 1", got)
	}
	if !strings.Contains(report.String(), "DRY RUN") {
		t.Error("report does not mention dry run mode")
	}
}

func TestRunSecondPassIsIdempotent(t *testing.T) {
	mail := newFakeMail()
	mail.messages = []core.EmailMessage{
		email("m1", "team@zoom.us", "Meeting invite", "INBOX"),
	}

	svc := NewService(mail, zap.NewNop())
	if _, err := svc.Run(context.Background(), Options{DaysBack: 7, MaxEmails: 50}); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	before := len(mail.modifications)

	// Simulate the search index lagging: the labeled message still shows up
	mail.messages[0].LabelIDs = append(mail.messages[0].LabelIDs, mail.labels["meetings"])

	report, err := svc.Run(context.Background(), Options{DaysBack: 7, MaxEmails: 50})
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if len(mail.modifications) != before {
		t.Errorf("second run performed %d extra modifications", len(mail.modifications)-before)
	}
	if got := report.SkippedCount(); got != 1 {
		t.Errorf("SkippedCount() = %d, want 1", got)
	}
}

func TestRunSkipsSpamTrashDraftSent(t *testing.T) {
	mail := newFakeMail()
	mail.messages = []core.EmailMessage{
		email("m1", "a@example.com", "Meeting invite", "SPAM"),
		email("m2", "b@example.com", "Meeting invite", "TRASH"),
		email("m3", "c@example.com", "Meeting invite", "DRAFT"),
		email("m4", "d@example.com", "Meeting invite", "SENT"),
	}

	svc := NewService(mail, zap.NewNop())
	report, err := svc.Run(context.Background(), Options{DaysBack: 7, MaxEmails: 50})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(mail.modifications) != 0 {
		t.Errorf("modified %d protected messages", len(mail.modifications))
	}
	if got := report.SkippedCount(); got != 4 {
		t.Errorf("SkippedCount() = %d, want 4", got)
	}
}

func TestRunContinuesAfterApplyFailure(t *testing.T) {
	mail := newFakeMail()
	mail.messages = []core.EmailMessage{
		email("m1", "team@zoom.us", "Meeting invite", "INBOX"),
		email("m2", "other@zoom.us", "Another meeting invite", "INBOX"),
	}
	mail.failModify["m1"] = fmt.Errorf("transient API error")

	svc := NewService(mail, zap.NewNop())
	report, err := svc.Run(context.Background(), Options{DaysBack: 7, MaxEmails: 50})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := report.LabeledCount(); got != 1 {
		t.Errorf("LabeledCount() = %d, want 1", got)
	}
	var failed int
	for _, res := range report.Results {
		if res.Outcome == OutcomeFailed {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("failed outcomes = %d, want 1", failed)
	}
}
