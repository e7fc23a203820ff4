package briefing

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/daily-briefer/internal/adapters/cache"
	"github.com/mikey/daily-briefer/internal/collect"
	"github.com/mikey/daily-briefer/internal/core"
	"github.com/mikey/daily-briefer/internal/pipeline"
)

type fakeCollector struct {
	snapshot *core.Snapshot
	err      error
}

func (f *fakeCollector) Collect(_ context.Context, _ time.Time, _ collect.Options) (*core.Snapshot, error) {
	return f.snapshot, f.err
}

type fakeNarrative struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeNarrative) Generate(_ context.Context, profile core.StageProfile, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, profile.Role)
	if err := f.fail[profile.Role]; err != nil {
		return "", err
	}
	return "narrative by " + profile.Role, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*core.NarrativeCacheEntry
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*core.NarrativeCacheEntry{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (*core.NarrativeCacheEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[key]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return entry, nil
}

func (f *fakeCache) Set(_ context.Context, entry *core.NarrativeCacheEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[entry.Key] = entry
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	return nil
}

func (f *fakeCache) Cleanup(_ context.Context) error { return nil }

func testSnapshot(day time.Time) *core.Snapshot {
	return &core.Snapshot{
		TargetDate: day,
		Emails: []core.EmailMessage{
			{ID: "m1", Sender: "team@zoom.us", Subject: "Meeting invite"},
			{ID: "m2", Sender: "noreply@example.com", Subject: "Weekly digest"},
		},
		Events: []core.CalendarEvent{
			{ID: "e1", Title: "Standup", Start: day.Add(9 * time.Hour), End: day.Add(9*time.Hour + 30*time.Minute)},
		},
		Tasks: []core.Task{
			{ID: "t1", Title: "File expenses", DueDate: day},
		},
		Statuses: []core.SourceStatus{
			{Name: "gmail", Available: true},
			{Name: "calendar", Available: true},
		},
	}
}

func TestGenerateProducesDocument(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	narrative := &fakeNarrative{}
	svc := NewService(&fakeCollector{snapshot: testSnapshot(day)}, narrative, nil, zap.NewNop())

	doc, result, err := svc.Generate(context.Background(), day, Options{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Degraded {
		t.Errorf("clean run degraded: %v", result.StageErrors)
	}
	if doc != "narrative by Executive Briefing Document Synthesizer" {
		t.Errorf("doc = %q, want the synthesizer output", doc)
	}

	// Every narrative stage ran exactly once
	want := map[string]int{
		emailBriefingProfile.Role:    1,
		calendarAnalysisProfile.Role: 1,
		taskAnalysisProfile.Role:     1,
		documentAssemblyProfile.Role: 1,
	}
	got := map[string]int{}
	for _, role := range narrative.calls {
		got[role]++
	}
	for role, n := range want {
		if got[role] != n {
			t.Errorf("stage %q ran %d times, want %d", role, got[role], n)
		}
	}
}

func TestGenerateSynthesizerFailureFallsBack(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	narrative := &fakeNarrative{
		fail: map[string]error{documentAssemblyProfile.Role: errors.New("model overloaded")},
	}
	svc := NewService(&fakeCollector{snapshot: testSnapshot(day)}, narrative, nil, zap.NewNop())

	doc, result, err := svc.Generate(context.Background(), day, Options{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Degraded {
		t.Error("fallback assembly must not mark the run degraded")
	}
	for _, section := range []string{"## Action Items", "## Email Summary", "## Daily Agenda"} {
		if !strings.Contains(doc, section) {
			t.Errorf("fallback document missing section %q", section)
		}
	}
	if !strings.Contains(doc, "Daily Briefing for Sunday, August 30, 2026") {
		t.Errorf("fallback document missing title: %q", doc)
	}
}

func TestGenerateBranchFailureStillProducesDocument(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	narrative := &fakeNarrative{
		fail: map[string]error{calendarAnalysisProfile.Role: errors.New("model timeout")},
	}
	svc := NewService(&fakeCollector{snapshot: testSnapshot(day)}, narrative, nil, zap.NewNop())

	doc, result, err := svc.Generate(context.Background(), day, Options{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.Degraded {
		t.Error("branch failure not reported as degraded")
	}
	if _, ok := result.StageErrors[StageCalendarAnalysis]; !ok {
		t.Errorf("StageErrors = %v, want calendar-analysis", result.StageErrors)
	}
	if doc == "" {
		t.Fatal("no document produced after branch failure")
	}
}

func TestGenerateFailedSourcesSurfaceInFallback(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	snap := testSnapshot(day)
	snap.Statuses = append(snap.Statuses, core.SourceStatus{
		Name: "tasks", Available: false, Err: "todoist unreachable",
	})
	narrative := &fakeNarrative{
		fail: map[string]error{documentAssemblyProfile.Role: errors.New("model overloaded")},
	}
	svc := NewService(&fakeCollector{snapshot: snap}, narrative, nil, zap.NewNop())

	doc, _, err := svc.Generate(context.Background(), day, Options{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(doc, "tasks") || !strings.Contains(doc, "todoist unreachable") {
		t.Errorf("fallback document does not mention the failed source:\n%s", doc)
	}
}

func TestGenerateUsesCache(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	cacheRepo := newFakeCache()
	collector := &fakeCollector{snapshot: testSnapshot(day)}

	first := &fakeNarrative{}
	svc := NewService(collector, first, cacheRepo, zap.NewNop())
	opts := Options{CacheTTL: time.Hour}
	if _, _, err := svc.Generate(context.Background(), day, opts); err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
	if len(first.calls) == 0 {
		t.Fatal("first run made no narrative calls")
	}

	second := &fakeNarrative{}
	svc = NewService(collector, second, cacheRepo, zap.NewNop())
	if _, _, err := svc.Generate(context.Background(), day, opts); err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}
	if len(second.calls) != 0 {
		t.Errorf("second run hit the model %d times despite warm cache: %v",
			len(second.calls), second.calls)
	}
}

func TestGenerateCollectionFailureStillYieldsBriefing(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	narrative := &fakeNarrative{}
	svc := NewService(&fakeCollector{err: errors.New("all credentials expired")}, narrative, nil, zap.NewNop())

	doc, result, err := svc.Generate(context.Background(), day, Options{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.Degraded {
		t.Error("collection failure not reported as degraded")
	}
	if doc == "" {
		t.Fatal("no document produced after collection failure")
	}
}

type hangingNarrative struct {
	fakeNarrative
	hangRole string
}

func (f *hangingNarrative) Generate(ctx context.Context, profile core.StageProfile, input string) (string, error) {
	if profile.Role == f.hangRole {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.fakeNarrative.Generate(ctx, profile, input)
}

func TestGenerateStageTimeoutFailsStageOnly(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	narrative := &hangingNarrative{hangRole: calendarAnalysisProfile.Role}
	svc := NewService(&fakeCollector{snapshot: testSnapshot(day)}, narrative, nil, zap.NewNop())

	type runResult struct {
		doc    string
		result *pipeline.Result
		err    error
	}
	done := make(chan runResult, 1)
	go func() {
		doc, result, err := svc.Generate(context.Background(), day, Options{
			StageTimeout: 20 * time.Millisecond,
		})
		done <- runResult{doc, result, err}
	}()

	var got runResult
	select {
	case got = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run never completed; a hung model call was not bounded")
	}

	if got.err != nil {
		t.Fatalf("Generate() error = %v", got.err)
	}
	if !got.result.Degraded {
		t.Error("timed-out stage not reported as degraded")
	}
	if stageErr, ok := got.result.StageErrors[StageCalendarAnalysis]; !ok {
		t.Errorf("StageErrors = %v, want calendar-analysis", got.result.StageErrors)
	} else if !errors.Is(stageErr, context.DeadlineExceeded) {
		t.Errorf("stage error = %v, want deadline exceeded", stageErr)
	}
	if got.doc == "" {
		t.Fatal("no document produced after a stage timeout")
	}
}
