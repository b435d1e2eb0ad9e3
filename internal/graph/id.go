package graph

import (
	"bytes"
	"crypto/sha256"
	"slices"

	"github.com/google/uuid"
)

// idDomain is the domain prefix for node id derivation.
// Version suffix enables future algorithm migration.
const idDomain = "renderplan/node/v1"

// NodeID identifies a node in an audio graph.
//
// NodeIDs carry a total, deterministic order (byte order of the underlying
// 128-bit value, which coincides with the canonical string form) used for
// every tie-break in the compiler: ready-queue extraction, input lists,
// hashing, and serialization.
type NodeID struct {
	uuid.UUID
}

// NilNodeID is the zero NodeID.
var NilNodeID = NodeID{}

// NewNodeID wraps a uuid as a NodeID.
func NewNodeID(u uuid.UUID) NodeID {
	return NodeID{UUID: u}
}

// ParseNodeID parses the canonical string form of a NodeID.
func ParseNodeID(s string) (NodeID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NodeID{}, err
	}
	return NodeID{UUID: u}, nil
}

// Compare returns -1, 0, or 1 ordering ids by their canonical byte value.
func (id NodeID) Compare(other NodeID) int {
	return bytes.Compare(id.UUID[:], other.UUID[:])
}

// Less reports whether id orders before other.
func (id NodeID) Less(other NodeID) bool {
	return id.Compare(other) < 0
}

// IsNil reports whether the id is the zero value.
func (id NodeID) IsNil() bool {
	return id.UUID == uuid.Nil
}

// Derive computes a per-purpose node id from a base id (typically a clip
// id) by XOR-folding a fixed salt into its byte representation.
//
// The salt is SHA-256(idDomain + 0x00 + purpose) truncated to 16 bytes.
// The null separator prevents domain/purpose boundary ambiguity. Derivation
// is pure: the same (base, purpose) pair always yields the same id, across
// processes and machines, which is what makes plans cacheable and golden
// tests stable. Never replace this with a counter or a random source.
func Derive(base NodeID, purpose string) NodeID {
	h := sha256.New()
	h.Write([]byte(idDomain))
	h.Write([]byte{0x00})
	h.Write([]byte(purpose))
	salt := h.Sum(nil)

	var out NodeID
	for i := 0; i < len(out.UUID); i++ {
		out.UUID[i] = base.UUID[i] ^ salt[i]
	}
	return out
}

// SortIDs sorts ids in place into canonical order.
func SortIDs(ids []NodeID) {
	slices.SortFunc(ids, NodeID.Compare)
}

// SortedNodeIDs returns the keys of a node table in canonical order.
// This is the ONLY sanctioned way to iterate a node table when order
// can reach output.
func SortedNodeIDs[V any](nodes map[NodeID]V) []NodeID {
	ids := make([]NodeID, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}
