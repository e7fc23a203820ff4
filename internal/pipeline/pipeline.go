// Package pipeline runs a directed acyclic graph of briefing stages in
// dependency order. A failed stage contributes a placeholder note instead of
// its output; downstream stages still run, and the terminal stage always runs
// so a degraded briefing is produced rather than none.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// RunFunc executes one stage. Inputs are the outputs of the stage's
// dependencies in declaration order.
type RunFunc func(ctx context.Context, inputs []string) (string, error)

// Stage is a single node in the briefing graph
type Stage struct {
	ID        string
	DependsOn []string
	Run       RunFunc
}

// Result holds everything a finished run produced
type Result struct {
	// Output is the terminal stage's output, degraded or not
	Output string

	// Degraded reports whether any stage failed during the run
	Degraded bool

	// StageErrors maps failed stage ids to their errors
	StageErrors map[string]error

	// Outputs maps every stage id to the text it contributed, which for a
	// failed stage is its placeholder note
	Outputs map[string]string
}

// Pipeline is a validated, runnable stage graph
type Pipeline struct {
	stages []Stage
	order  []int
	logger *zap.Logger
}

// New validates the stage graph and fixes its execution order. It fails when
// a stage id repeats, a dependency names an unknown stage, or the graph has a
// cycle.
func New(stages []Stage, logger *zap.Logger) (*Pipeline, error) {
	index := make(map[string]int, len(stages))
	for i, st := range stages {
		if st.ID == "" {
			return nil, fmt.Errorf("stage %d has no id", i)
		}
		if st.Run == nil {
			return nil, fmt.Errorf("stage %q has no run function", st.ID)
		}
		if _, dup := index[st.ID]; dup {
			return nil, fmt.Errorf("duplicate stage id %q", st.ID)
		}
		index[st.ID] = i
	}

	indegree := make([]int, len(stages))
	dependents := make([][]int, len(stages))
	for i, st := range stages {
		for _, dep := range st.DependsOn {
			j, ok := index[dep]
			if !ok {
				return nil, fmt.Errorf("stage %q depends on unknown stage %q", st.ID, dep)
			}
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	// Kahn's algorithm; a leftover node means a cycle
	var ready []int
	for i := range stages {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}
	order := make([]int, 0, len(stages))
	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		order = append(order, i)
		for _, j := range dependents[i] {
			indegree[j]--
			if indegree[j] == 0 {
				ready = append(ready, j)
			}
		}
	}
	if len(order) != len(stages) {
		return nil, fmt.Errorf("stage graph contains a cycle")
	}

	return &Pipeline{stages: stages, order: order, logger: logger}, nil
}

// Run executes the stages in dependency order. A stage error is recorded and
// replaced by a placeholder note; execution continues so every stage gets its
// turn. Only context cancellation aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		StageErrors: make(map[string]error),
		Outputs:     make(map[string]string, len(p.stages)),
	}

	for _, i := range p.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st := p.stages[i]

		inputs := make([]string, len(st.DependsOn))
		for k, dep := range st.DependsOn {
			inputs[k] = result.Outputs[dep]
		}

		p.logger.Debug("Running stage", zap.String("stage", st.ID))
		output, err := st.Run(ctx, inputs)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Warn("Stage failed",
				zap.String("stage", st.ID),
				zap.Error(err))
			result.StageErrors[st.ID] = err
			result.Degraded = true
			output = FailureNote(st.ID, err)
		}
		result.Outputs[st.ID] = output
		result.Output = output
	}

	return result, nil
}

// FailureNote is the placeholder text a failed stage contributes downstream
func FailureNote(stageID string, err error) string {
	return fmt.Sprintf("[stage %s unavailable: %v]", stageID, err)
}
