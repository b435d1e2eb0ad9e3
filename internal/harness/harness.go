package harness

import (
	"fmt"

	"github.com/soundlane/renderplan/internal/compiler"
	"github.com/soundlane/renderplan/internal/graph"
	"github.com/soundlane/renderplan/internal/timeline"
	"github.com/soundlane/renderplan/internal/timemap"
)

// Evaluation is one evaluated instant: the graph and its compiled plan.
type Evaluation struct {
	At    float64
	Graph *graph.Graph
	Plan  *compiler.Plan
}

// Result holds a scenario run's output.
type Result struct {
	Scenario    *Scenario
	Evaluations []Evaluation
}

// Run evaluates the scenario's project at each instant and compiles each
// graph. A nil binder compiles plans without bound sources, which keeps
// golden files independent of any catalog state.
func Run(s *Scenario, binder compiler.Binder) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	project, err := s.Project.Project()
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	clock := timemap.NewClock(timemap.DefaultSampleRate)
	result := &Result{Scenario: s}
	for _, at := range s.At {
		g := timeline.Evaluate(project, at, clock)
		plan := compiler.Compile(g, s.quality(), binder)
		result.Evaluations = append(result.Evaluations, Evaluation{At: at, Graph: g, Plan: plan})
	}
	return result, nil
}

// Doc converts a run result to its canonical document form.
func (r *Result) Doc() map[string]any {
	evals := make([]any, len(r.Evaluations))
	for i, e := range r.Evaluations {
		evals[i] = map[string]any{
			"at":    e.At,
			"graph": e.Graph.Doc(),
			"plan":  e.Plan.Doc(),
		}
	}
	return map[string]any{
		"scenario":    r.Scenario.Name,
		"evaluations": evals,
	}
}

// MarshalDocument renders the result as canonical JSON bytes.
func (r *Result) MarshalDocument() ([]byte, error) {
	return graph.MarshalCanonical(r.Doc())
}
