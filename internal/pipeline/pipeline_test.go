package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func echoStage(id string, deps ...string) Stage {
	return Stage{
		ID:        id,
		DependsOn: deps,
		Run: func(_ context.Context, inputs []string) (string, error) {
			return id + "(" + strings.Join(inputs, ",") + ")", nil
		},
	}
}

func TestNewRejectsUnknownDependency(t *testing.T) {
	_, err := New([]Stage{echoStage("a", "missing")}, zap.NewNop())
	if err == nil {
		t.Fatal("New() accepted a dependency on an unknown stage")
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New([]Stage{echoStage("a"), echoStage("a")}, zap.NewNop())
	if err == nil {
		t.Fatal("New() accepted duplicate stage ids")
	}
}

func TestNewRejectsCycles(t *testing.T) {
	stages := []Stage{
		echoStage("a", "c"),
		echoStage("b", "a"),
		echoStage("c", "b"),
	}
	_, err := New(stages, zap.NewNop())
	if err == nil {
		t.Fatal("New() accepted a cyclic graph")
	}
}

func TestRunExecutesInDependencyOrder(t *testing.T) {
	var order []string
	mk := func(id string, deps ...string) Stage {
		return Stage{
			ID:        id,
			DependsOn: deps,
			Run: func(_ context.Context, _ []string) (string, error) {
				order = append(order, id)
				return id, nil
			},
		}
	}
	// Declared deliberately out of order
	stages := []Stage{
		mk("assemble", "summary", "agenda"),
		mk("agenda", "collect"),
		mk("summary", "collect"),
		mk("collect"),
	}

	p, err := New(stages, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, st := range stages {
		for _, dep := range st.DependsOn {
			if pos[dep] > pos[st.ID] {
				t.Errorf("stage %q ran before its dependency %q", st.ID, dep)
			}
		}
	}
	if result.Output != "assemble" {
		t.Errorf("Output = %q, want terminal stage output", result.Output)
	}
	if result.Degraded {
		t.Error("clean run reported as degraded")
	}
}

func TestRunStageFailureProducesNoteAndContinues(t *testing.T) {
	stageErr := errors.New("provider unavailable")
	stages := []Stage{
		echoStage("collect"),
		{
			ID:        "summary",
			DependsOn: []string{"collect"},
			Run: func(_ context.Context, _ []string) (string, error) {
				return "", stageErr
			},
		},
		{
			ID:        "assemble",
			DependsOn: []string{"summary"},
			Run: func(_ context.Context, inputs []string) (string, error) {
				return "final: " + inputs[0], nil
			},
		},
	}

	p, err := New(stages, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.Degraded {
		t.Error("run with a failed stage not marked degraded")
	}
	if !errors.Is(result.StageErrors["summary"], stageErr) {
		t.Errorf("StageErrors[summary] = %v", result.StageErrors["summary"])
	}
	note := FailureNote("summary", stageErr)
	if result.Outputs["summary"] != note {
		t.Errorf("Outputs[summary] = %q, want failure note", result.Outputs["summary"])
	}
	if want := "final: " + note; result.Output != want {
		t.Errorf("Output = %q, want %q", result.Output, want)
	}
}

func TestRunTerminalStageAlwaysRuns(t *testing.T) {
	ran := false
	stages := []Stage{
		{
			ID: "collect",
			Run: func(_ context.Context, _ []string) (string, error) {
				return "", fmt.Errorf("everything is down")
			},
		},
		{
			ID:        "assemble",
			DependsOn: []string{"collect"},
			Run: func(_ context.Context, inputs []string) (string, error) {
				ran = true
				return "degraded document\n" + inputs[0], nil
			},
		},
	}

	p, err := New(stages, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !ran {
		t.Fatal("terminal stage did not run after upstream failure")
	}
	if !strings.Contains(result.Output, "degraded document") {
		t.Errorf("Output = %q", result.Output)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stages := []Stage{
		{
			ID: "collect",
			Run: func(_ context.Context, _ []string) (string, error) {
				cancel()
				return "collected", nil
			},
		},
		echoStage("assemble", "collect"),
	}

	p, err := New(stages, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}
