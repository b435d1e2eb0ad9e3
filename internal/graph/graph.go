package graph

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Version is the graph schema version recorded on every Graph and mixed
// into the stable plan hash.
const Version = 1

// Edge is a directed connection between two nodes. Multiple edges between
// the same pair carry no extra meaning and are deduplicated by consumers.
type Edge struct {
	From NodeID `json:"from"`
	To   NodeID `json:"to"`
}

// Compare orders edges by (From, To) for deterministic serialization.
func (e Edge) Compare(other Edge) int {
	if c := e.From.Compare(other.From); c != 0 {
		return c
	}
	return e.To.Compare(other.To)
}

// ClipParameters records one clip's effective mix parameters at the
// evaluation instant. Diagnostic only; routing never reads it.
type ClipParameters struct {
	ClipID  uuid.UUID `json:"clip_id"`
	TrackID uuid.UUID `json:"track_id"`
	BusID   uuid.UUID `json:"bus_id"`
	Role    string    `json:"role,omitempty"`
	Muted   bool      `json:"muted"`
	Gain    float64   `json:"gain"`
	Pan     float64   `json:"pan"`
}

// ParameterSnapshot is the diagnostic record accumulated alongside a
// graph, used for golden testing. Clips are kept sorted by clip id.
type ParameterSnapshot struct {
	TimeSeconds float64          `json:"time_seconds"`
	Clips       []ClipParameters `json:"clips"`
}

// SortClips sorts the snapshot's clips by clip id.
func (s *ParameterSnapshot) SortClips() {
	slices.SortFunc(s.Clips, func(a, b ClipParameters) int {
		return strings.Compare(a.ClipID.String(), b.ClipID.String())
	})
}

// Graph is the abstract audio routing graph for one evaluation instant.
//
// The node table is unordered; iteration order is never semantically
// meaningful. MainOutput is nil when the timeline was silent at the
// instant. Graphs are immutable snapshots: build once, then only read.
type Graph struct {
	Version    int
	Nodes      map[NodeID]NodeSpec
	Edges      []Edge
	MainOutput *NodeID
	Snapshot   *ParameterSnapshot
}

// New creates an empty graph at the current schema version.
func New() *Graph {
	return &Graph{
		Version: Version,
		Nodes:   make(map[NodeID]NodeSpec),
	}
}

// AddNode inserts a node, replacing any previous spec under the same id.
func (g *Graph) AddNode(id NodeID, spec NodeSpec) {
	g.Nodes[id] = spec
}

// Connect appends a directed edge.
func (g *Graph) Connect(from, to NodeID) {
	g.Edges = append(g.Edges, Edge{From: from, To: to})
}

// SetMainOutput declares the graph's single main output node.
func (g *Graph) SetMainOutput(id NodeID) {
	g.MainOutput = &id
}

// SortedEdges returns the deduplicated edges in (from, to) order. The
// graph's own edge list is left untouched.
func (g *Graph) SortedEdges() []Edge {
	edges := slices.Clone(g.Edges)
	slices.SortFunc(edges, Edge.Compare)
	return slices.Compact(edges)
}
