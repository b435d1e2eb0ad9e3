package graph

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedID(name string) NodeID {
	return NewNodeID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)))
}

func TestDerive_Deterministic(t *testing.T) {
	base := namedID("clip/vocals")

	a := Derive(base, "source")
	b := Derive(base, "source")
	assert.Equal(t, a, b, "same (base, purpose) must yield the same id")
}

func TestDerive_DistinctPurposes(t *testing.T) {
	base := namedID("clip/vocals")

	seen := make(map[NodeID]string)
	for _, purpose := range []string{"source", "timeMap", "fade", "gain", "pan", "bus"} {
		id := Derive(base, purpose)
		prev, dup := seen[id]
		require.False(t, dup, "purpose %q collides with %q", purpose, prev)
		seen[id] = purpose
		assert.NotEqual(t, base, id, "derived id must differ from base")
	}
}

func TestDerive_DistinctBases(t *testing.T) {
	a := Derive(namedID("clip/vocals"), "gain")
	b := Derive(namedID("clip/drums"), "gain")
	assert.NotEqual(t, a, b)
}

func TestNodeID_Ordering(t *testing.T) {
	a := NewNodeID(uuid.UUID{0x01})
	b := NewNodeID(uuid.UUID{0x02})

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestNodeID_StringOrderMatchesByteOrder(t *testing.T) {
	// The canonical string form is the lowercase hex of the bytes, so
	// byte order and string order agree.
	a := namedID("clip/a")
	b := namedID("clip/b")

	if a.String() < b.String() {
		assert.True(t, a.Less(b))
	} else {
		assert.True(t, b.Less(a))
	}
}

func TestSortedNodeIDs_Deterministic(t *testing.T) {
	nodes := map[NodeID]NodeSpec{
		namedID("clip/c"): Gain{Value: 1},
		namedID("clip/a"): Gain{Value: 1},
		namedID("clip/b"): Gain{Value: 1},
	}

	first := SortedNodeIDs(nodes)
	require.Len(t, first, 3)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, SortedNodeIDs(nodes), "iteration %d", i)
	}
	assert.True(t, first[0].Less(first[1]))
	assert.True(t, first[1].Less(first[2]))
}

func TestParseNodeID_RoundTrip(t *testing.T) {
	id := namedID("clip/vocals")
	parsed, err := ParseNodeID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseNodeID_Invalid(t *testing.T) {
	_, err := ParseNodeID("not-a-uuid")
	assert.Error(t, err)
}

func TestNodeID_IsNil(t *testing.T) {
	assert.True(t, NilNodeID.IsNil())
	assert.False(t, namedID("clip/vocals").IsNil())
}
