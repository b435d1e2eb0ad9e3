package compiler

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/soundlane/renderplan/internal/graph"
)

// SourceHandle is an opaque reference to bound source material, supplied
// by a Binder during compilation. The compiler never inspects it beyond
// attaching it to the planned source node.
type SourceHandle struct {
	AssetID         uuid.UUID `json:"asset_id"`
	Path            string    `json:"path"`
	SampleRate      int       `json:"sample_rate"`
	Channels        int       `json:"channels"`
	DurationSamples int64     `json:"duration_samples"`
}

// Binder supplies decode/cache handles for source nodes. Implementations
// must be safe to call once per source node per compilation. Failure is
// signaled by returning ok=false, never by an error or panic.
type Binder interface {
	Bind(clipID, assetID uuid.UUID, hint *graph.FormatHint, quality graph.Quality) (handle *SourceHandle, ok bool)
}

// PlannedNode is a graph node annotated with its resolved input list and
// any bound external resource, ready for runtime instantiation.
type PlannedNode struct {
	ID     graph.NodeID
	Spec   graph.NodeSpec
	Inputs []graph.NodeID // sorted by id, not edge declaration order
	Bound  *SourceHandle
}

// Plan is a compiled render plan: a topologically ordered node list plus
// diagnostics. Runtime factories instantiate one unit per node in Ordered,
// wiring each node's Inputs; the order is already valid for single-pass
// construction (modulo cycleDetected remainders).
type Plan struct {
	Quality graph.Quality

	// PlanHash is a process-local hash for in-memory dedup only. It is
	// excluded from dumps and carries no cross-process meaning.
	PlanHash int

	// StableHash64 is identical across machines, processes, and runs for
	// semantically equal plans. It is the persistent cache key.
	StableHash64 uint64

	Ordered     []PlannedNode
	Diagnostics []Issue
}

// Doc converts the plan to its canonical document form for golden dumps.
// PlanHash is intentionally absent; StableHash64 is encoded as a fixed
// width hex string because JSON numbers cannot carry a full uint64.
func (p *Plan) Doc() map[string]any {
	ordered := make([]any, len(p.Ordered))
	for i, n := range p.Ordered {
		inputs := make([]any, len(n.Inputs))
		for j, id := range n.Inputs {
			inputs[j] = id.String()
		}
		node := map[string]any{
			"id":     n.ID.String(),
			"kind":   string(n.Spec.Kind()),
			"spec":   graph.SpecDoc(n.Spec),
			"inputs": inputs,
		}
		if n.Bound != nil {
			node["bound"] = map[string]any{
				"asset_id":         n.Bound.AssetID.String(),
				"path":             n.Bound.Path,
				"sample_rate":      int64(n.Bound.SampleRate),
				"channels":         int64(n.Bound.Channels),
				"duration_samples": n.Bound.DurationSamples,
			}
		}
		ordered[i] = node
	}

	diagnostics := make([]any, len(p.Diagnostics))
	for i, issue := range p.Diagnostics {
		diagnostics[i] = issue.doc()
	}

	return map[string]any{
		"quality":       string(p.Quality),
		"stable_hash64": fmt.Sprintf("%016x", p.StableHash64),
		"ordered":       ordered,
		"diagnostics":   diagnostics,
	}
}

// MarshalDocument renders the plan as canonical JSON bytes.
func (p *Plan) MarshalDocument() ([]byte, error) {
	return graph.MarshalCanonical(p.Doc())
}
