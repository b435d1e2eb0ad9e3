package compiler

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/soundlane/renderplan/internal/graph"
)

// IssueKind tags a compile diagnostic variant.
type IssueKind string

const (
	// IssueMissingNode: an edge references a node id absent from the table.
	IssueMissingNode IssueKind = "missingNode"
	// IssueDanglingMainOutput: the declared main output node does not exist.
	IssueDanglingMainOutput IssueKind = "danglingMainOutput"
	// IssueCycleDetected: one or more nodes could not be linearized.
	IssueCycleDetected IssueKind = "cycleDetected"
	// IssueUnboundSource: the resource binder could not supply a handle.
	IssueUnboundSource IssueKind = "unboundSource"
)

// Issue is one compile diagnostic. Issues are data, not errors:
// compilation always completes and returns a plan.
type Issue struct {
	Kind IssueKind `json:"kind"`

	// Node is the offending node id for missingNode, danglingMainOutput
	// and unboundSource.
	Node graph.NodeID `json:"node,omitempty"`

	// Edge is the edge that referenced a missing node.
	Edge *graph.Edge `json:"edge,omitempty"`

	// Remaining lists the unlinearizable nodes for cycleDetected,
	// sorted by id.
	Remaining []graph.NodeID `json:"remaining,omitempty"`

	// ClipID and AssetID identify the unbindable source.
	ClipID  uuid.UUID `json:"clip_id,omitempty"`
	AssetID uuid.UUID `json:"asset_id,omitempty"`
}

// String renders a human-readable description for CLI output.
func (i Issue) String() string {
	switch i.Kind {
	case IssueMissingNode:
		return fmt.Sprintf("missingNode: edge %s -> %s references absent node %s",
			i.Edge.From, i.Edge.To, i.Node)
	case IssueDanglingMainOutput:
		return fmt.Sprintf("danglingMainOutput: declared main output %s does not exist", i.Node)
	case IssueCycleDetected:
		ids := make([]string, len(i.Remaining))
		for n, id := range i.Remaining {
			ids[n] = id.String()
		}
		return fmt.Sprintf("cycleDetected: could not linearize [%s]", strings.Join(ids, ", "))
	case IssueUnboundSource:
		return fmt.Sprintf("unboundSource: node %s (clip %s, asset %s)", i.Node, i.ClipID, i.AssetID)
	default:
		return string(i.Kind)
	}
}

// doc converts the issue to its canonical document form.
func (i Issue) doc() map[string]any {
	doc := map[string]any{"kind": string(i.Kind)}
	switch i.Kind {
	case IssueMissingNode:
		doc["node"] = i.Node.String()
		doc["edge"] = map[string]any{"from": i.Edge.From.String(), "to": i.Edge.To.String()}
	case IssueDanglingMainOutput:
		doc["node"] = i.Node.String()
	case IssueCycleDetected:
		remaining := make([]any, len(i.Remaining))
		for n, id := range i.Remaining {
			remaining[n] = id.String()
		}
		doc["remaining"] = remaining
	case IssueUnboundSource:
		doc["node"] = i.Node.String()
		doc["clip_id"] = i.ClipID.String()
		doc["asset_id"] = i.AssetID.String()
	}
	return doc
}
