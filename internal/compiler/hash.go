package compiler

import (
	"encoding/binary"
	"math"

	"github.com/soundlane/renderplan/internal/graph"
)

// Stable plan hashing.
//
// The stable hash is the persistent cache key for compiled plans: equal
// semantic content must hash equally across machines, processes, and
// runs. FNV-1a over an explicit byte encoding, never over Go-level
// in-memory representations. Strings are length-prefixed and optional
// fields write a presence byte before their content, so "absent" and
// "zero" never collide and field boundaries never shift.
//
// The edge list is intentionally excluded: planned-node input lists
// already encode the same information deterministically.

const (
	fnvOffset64 uint64 = 14695981039346656037
	fnvPrime64  uint64 = 1099511628211

	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
)

type stableHasher struct {
	sum uint64
}

func newStableHasher() *stableHasher {
	return &stableHasher{sum: fnvOffset64}
}

func (h *stableHasher) bytes(p []byte) {
	for _, b := range p {
		h.sum ^= uint64(b)
		h.sum *= fnvPrime64
	}
}

func (h *stableHasher) u64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	h.bytes(b[:])
}

func (h *stableHasher) i64(v int64) {
	h.u64(uint64(v))
}

func (h *stableHasher) f64(v float64) {
	h.u64(math.Float64bits(v))
}

func (h *stableHasher) str(s string) {
	h.u64(uint64(len(s)))
	h.bytes([]byte(s))
}

func (h *stableHasher) presence(present bool) {
	if present {
		h.bytes([]byte{1})
	} else {
		h.bytes([]byte{0})
	}
}

// stableHash computes the cross-process hash over the final topological
// order: graph version, quality, node count, then per node its id bytes,
// variant-tagged spec fields, input count, and input id bytes.
func stableHash(version int, quality graph.Quality, nodes []PlannedNode) uint64 {
	h := newStableHasher()
	h.i64(int64(version))
	h.str(string(quality))
	h.i64(int64(len(nodes)))
	for _, n := range nodes {
		h.bytes(n.ID.UUID[:])
		hashSpec(h, n.Spec)
		h.i64(int64(len(n.Inputs)))
		for _, id := range n.Inputs {
			h.bytes(id.UUID[:])
		}
	}
	return h.sum
}

// hashSpec mixes a node spec's full field set, tagged by variant. Every
// field participates; absent optionals write an explicit sentinel rather
// than being skipped.
func hashSpec(h *stableHasher, spec graph.NodeSpec) {
	h.str(string(spec.Kind()))
	switch s := spec.(type) {
	case graph.Source:
		h.bytes(s.ClipID[:])
		h.bytes(s.AssetID[:])
		h.presence(s.Hint != nil)
		if s.Hint != nil {
			h.i64(int64(s.Hint.SampleRate))
			h.i64(int64(s.Hint.Channels))
		}
	case graph.TimeMap:
		h.str(string(s.Stretch))
		m := s.Map
		h.f64(m.SampleRate)
		h.i64(m.Start)
		h.i64(m.Duration)
		h.i64(m.SourceIn)
		h.presence(m.SourceTrim != nil)
		if m.SourceTrim != nil {
			h.i64(m.SourceTrim.In)
			h.i64(m.SourceTrim.Out)
		}
		h.f64(m.Speed)
		h.str(string(m.Reverse))
		h.presence(m.Loop != nil)
		if m.Loop != nil {
			h.i64(m.Loop.Start)
			h.i64(m.Loop.End)
		}
	case graph.Fade:
		h.bytes(s.ClipID[:])
		h.i64(s.WindowStart)
		h.i64(s.WindowDur)
		h.presence(s.In != nil)
		if s.In != nil {
			h.i64(s.In.Duration)
			h.str(string(s.In.Shape))
		}
		h.presence(s.Out != nil)
		if s.Out != nil {
			h.i64(s.Out.Duration)
			h.str(string(s.Out.Shape))
		}
	case graph.Gain:
		h.f64(s.Value)
	case graph.Pan:
		h.f64(s.Value)
	case graph.Bus:
		h.bytes(s.BusID[:])
		h.str(s.Role)
	case graph.MeterTap, graph.AnalyzerTap:
		// Variant tag alone identifies these.
	}
}

// planHash computes the process-local dedup hash: FNV-1a/32 over the
// ordered node ids. Cheap, in-memory only, never persisted.
func planHash(nodes []PlannedNode) int {
	sum := fnvOffset32
	for _, n := range nodes {
		for _, b := range n.ID.UUID[:] {
			sum ^= uint32(b)
			sum *= fnvPrime32
		}
	}
	return int(sum)
}
