package harness

import (
	"fmt"

	"github.com/soundlane/renderplan/internal/compiler"
)

// AssertionType identifies a scenario assertion kind.
type AssertionType string

const (
	// AssertNodeCount checks the number of graph nodes at an instant.
	AssertNodeCount AssertionType = "nodeCount"
	// AssertDiagnosticCount checks the number of compile diagnostics.
	AssertDiagnosticCount AssertionType = "diagnosticCount"
	// AssertDiagnosticKind checks that a diagnostic of the given kind
	// is present.
	AssertDiagnosticKind AssertionType = "diagnosticKind"
	// AssertMainOutput checks whether the graph declared a main output.
	AssertMainOutput AssertionType = "mainOutput"
)

// Assertion is one declarative check against a scenario's evaluations.
// Assertions apply to every evaluated instant unless At pins one.
type Assertion struct {
	Type AssertionType `yaml:"type"`

	// At restricts the assertion to the evaluation at this instant.
	At *float64 `yaml:"at,omitempty"`

	// Count is the expected count for nodeCount and diagnosticCount.
	Count int `yaml:"count,omitempty"`

	// Kind is the expected diagnostic kind for diagnosticKind.
	Kind string `yaml:"kind,omitempty"`

	// Present is the expected state for mainOutput.
	Present bool `yaml:"present,omitempty"`
}

// CheckAssertions evaluates every scenario assertion against the result,
// returning one error per failed assertion.
func CheckAssertions(result *Result) []error {
	var failures []error
	for i, a := range result.Scenario.Assertions {
		for _, e := range result.Evaluations {
			if a.At != nil && *a.At != e.At {
				continue
			}
			if err := checkAssertion(a, e); err != nil {
				failures = append(failures, fmt.Errorf("assertion %d at t=%g: %w", i, e.At, err))
			}
		}
	}
	return failures
}

func checkAssertion(a Assertion, e Evaluation) error {
	switch a.Type {
	case AssertNodeCount:
		if got := len(e.Graph.Nodes); got != a.Count {
			return fmt.Errorf("nodeCount: want %d, got %d", a.Count, got)
		}
	case AssertDiagnosticCount:
		if got := len(e.Plan.Diagnostics); got != a.Count {
			return fmt.Errorf("diagnosticCount: want %d, got %d", a.Count, got)
		}
	case AssertDiagnosticKind:
		for _, issue := range e.Plan.Diagnostics {
			if issue.Kind == compiler.IssueKind(a.Kind) {
				return nil
			}
		}
		return fmt.Errorf("diagnosticKind: no %q diagnostic found", a.Kind)
	case AssertMainOutput:
		got := e.Graph.MainOutput != nil
		if got != a.Present {
			return fmt.Errorf("mainOutput: want present=%t, got present=%t", a.Present, got)
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
