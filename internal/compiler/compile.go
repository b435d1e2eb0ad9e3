package compiler

import (
	"slices"

	"github.com/soundlane/renderplan/internal/graph"
)

// Compile turns a graph into a render plan.
//
// binder may be nil, in which case source nodes are planned without bound
// handles and no unboundSource diagnostics are recorded. Compile never
// panics on malformed graphs; see package doc for the degradation policy.
func Compile(g *graph.Graph, quality graph.Quality, binder Binder) *Plan {
	var issues []Issue

	// Validate the declared main output.
	mainOK := false
	if g.MainOutput != nil {
		if _, ok := g.Nodes[*g.MainOutput]; ok {
			mainOK = true
		} else {
			issues = append(issues, Issue{Kind: IssueDanglingMainOutput, Node: *g.MainOutput})
		}
	}

	// Build adjacency from the deduplicated edge list in (from, to) order
	// so the per-node lists come out sorted and issue order is stable.
	// Edges touching a missing node are recorded and skipped.
	outgoing := make(map[graph.NodeID][]graph.NodeID)
	incoming := make(map[graph.NodeID][]graph.NodeID)
	for _, e := range g.SortedEdges() {
		edge := e
		_, fromOK := g.Nodes[e.From]
		_, toOK := g.Nodes[e.To]
		if !fromOK {
			issues = append(issues, Issue{Kind: IssueMissingNode, Node: e.From, Edge: &edge})
		}
		if !toOK {
			issues = append(issues, Issue{Kind: IssueMissingNode, Node: e.To, Edge: &edge})
		}
		if !fromOK || !toOK {
			continue
		}
		outgoing[e.From] = append(outgoing[e.From], e.To)
		incoming[e.To] = append(incoming[e.To], e.From)
	}

	// Prune nodes that cannot reach the main output, walking edges
	// backwards from it. Without a valid main output the graph degrades
	// gracefully: everything is kept.
	kept := make(map[graph.NodeID]bool, len(g.Nodes))
	if mainOK {
		stack := []graph.NodeID{*g.MainOutput}
		kept[*g.MainOutput] = true
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, up := range incoming[n] {
				if !kept[up] {
					kept[up] = true
					stack = append(stack, up)
				}
			}
		}
	} else {
		for id := range g.Nodes {
			kept[id] = true
		}
	}

	// Restrict adjacency to the kept set. The filtered lists inherit the
	// sorted order of the originals, so indegree and inputs stay
	// deterministic.
	in := make(map[graph.NodeID][]graph.NodeID, len(kept))
	out := make(map[graph.NodeID][]graph.NodeID, len(kept))
	indegree := make(map[graph.NodeID]int, len(kept))
	for id := range kept {
		in[id] = filterKept(incoming[id], kept)
		out[id] = filterKept(outgoing[id], kept)
		indegree[id] = len(in[id])
	}

	// Kahn's algorithm. The ready list is kept sorted by node id so the
	// chosen order never depends on map iteration or insertion order.
	ready := make([]graph.NodeID, 0, len(kept))
	for id, d := range indegree {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	graph.SortIDs(ready)

	order := make([]graph.NodeID, 0, len(kept))
	placed := make(map[graph.NodeID]bool, len(kept))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)
		placed[n] = true
		for _, m := range out[n] {
			indegree[m]--
			if indegree[m] == 0 {
				pos, _ := slices.BinarySearchFunc(ready, m, graph.NodeID.Compare)
				ready = slices.Insert(ready, pos, m)
			}
		}
	}

	// Nodes trapped in cycles never reach indegree zero. Append them in
	// id order and report, rather than failing: the plan must always be
	// a best-effort total order.
	if len(order) < len(kept) {
		remaining := make([]graph.NodeID, 0, len(kept)-len(order))
		for id := range kept {
			if !placed[id] {
				remaining = append(remaining, id)
			}
		}
		graph.SortIDs(remaining)
		issues = append(issues, Issue{Kind: IssueCycleDetected, Remaining: remaining})
		order = append(order, remaining...)
	}

	planned := make([]PlannedNode, len(order))
	for i, id := range order {
		planned[i] = PlannedNode{
			ID:     id,
			Spec:   g.Nodes[id],
			Inputs: slices.Clone(in[id]),
		}
	}

	// Resource binding, in plan order.
	if binder != nil {
		for i := range planned {
			src, ok := planned[i].Spec.(graph.Source)
			if !ok {
				continue
			}
			handle, ok := binder.Bind(src.ClipID, src.AssetID, src.Hint, quality)
			if !ok {
				issues = append(issues, Issue{
					Kind:    IssueUnboundSource,
					Node:    planned[i].ID,
					ClipID:  src.ClipID,
					AssetID: src.AssetID,
				})
				continue
			}
			planned[i].Bound = handle
		}
	}

	foldGains(planned, out)

	plan := &Plan{
		Quality:     quality,
		Ordered:     planned,
		Diagnostics: issues,
	}
	plan.StableHash64 = stableHash(g.Version, quality, planned)
	plan.PlanHash = planHash(planned)
	return plan
}

// foldGains collapses gain→gain pairs: a gain node whose single input is
// another gain consumed only by it adopts the product of both values and
// the parent's inputs. One pass in plan order folds whole linear chains
// because each child sees its (already folded) parent. Folded parents stay
// in the plan, dead and unreferenced; downstream consumers must not assume
// every listed node is reachable.
func foldGains(planned []PlannedNode, out map[graph.NodeID][]graph.NodeID) {
	index := make(map[graph.NodeID]int, len(planned))
	for i, n := range planned {
		index[n.ID] = i
	}
	for i := range planned {
		child, ok := planned[i].Spec.(graph.Gain)
		if !ok || len(planned[i].Inputs) != 1 {
			continue
		}
		parentIdx, ok := index[planned[i].Inputs[0]]
		if !ok {
			continue
		}
		parent, ok := planned[parentIdx].Spec.(graph.Gain)
		if !ok {
			continue
		}
		if len(out[planned[parentIdx].ID]) != 1 {
			continue
		}
		planned[i].Spec = graph.Gain{Value: parent.Value * child.Value}
		planned[i].Inputs = slices.Clone(planned[parentIdx].Inputs)
	}
}

// filterKept returns the elements of sorted ids that are in the kept set.
func filterKept(ids []graph.NodeID, kept map[graph.NodeID]bool) []graph.NodeID {
	var out []graph.NodeID
	for _, id := range ids {
		if kept[id] {
			out = append(out, id)
		}
	}
	return out
}
