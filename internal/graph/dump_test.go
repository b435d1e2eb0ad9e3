package graph

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundlane/renderplan/internal/timemap"
)

func buildDumpGraph() *Graph {
	clipID := uuid.NewSHA1(uuid.NameSpaceOID, []byte("clip/vocals"))
	assetID := uuid.NewSHA1(uuid.NameSpaceOID, []byte("asset/vocals"))
	busID := uuid.NewSHA1(uuid.NameSpaceOID, []byte("bus/music"))
	base := NewNodeID(clipID)

	src := Derive(base, "source")
	tm := Derive(base, "timeMap")
	fade := Derive(base, "fade")
	gain := Derive(base, "gain")
	pan := Derive(base, "pan")
	bus := Derive(base, "bus")

	g := New()
	g.AddNode(src, Source{
		ClipID:  clipID,
		AssetID: assetID,
		Hint:    &FormatHint{SampleRate: 48000, Channels: 2},
	})
	trim := timemap.NewSampleRange(0, 480000)
	loop := timemap.NewLoopRange(0, 96000)
	g.AddNode(tm, TimeMap{
		Stretch: StretchElastic,
		Map: timemap.NewMap(timemap.Map{
			SampleRate: 48000,
			Start:      48000,
			Duration:   96000,
			SourceIn:   0,
			SourceTrim: &trim,
			Speed:      1.5,
			Reverse:    timemap.ReverseRough,
			Loop:       &loop,
		}),
	})
	g.AddNode(fade, Fade{
		ClipID:      clipID,
		WindowStart: 48000,
		WindowDur:   96000,
		In:          &FadeRamp{Duration: 4800, Shape: FadeEqualPower},
		Out:         &FadeRamp{Duration: 2400, Shape: FadeLinear},
	})
	g.AddNode(gain, Gain{Value: 0.5})
	g.AddNode(pan, Pan{Value: -0.25})
	g.AddNode(bus, Bus{BusID: busID, Role: "music"})

	g.Connect(src, tm)
	g.Connect(tm, fade)
	g.Connect(fade, gain)
	g.Connect(gain, pan)
	g.Connect(pan, bus)
	g.SetMainOutput(bus)

	g.Snapshot = &ParameterSnapshot{
		TimeSeconds: 1.5,
		Clips: []ClipParameters{{
			ClipID:  clipID,
			TrackID: uuid.NewSHA1(uuid.NameSpaceOID, []byte("track/lead")),
			BusID:   busID,
			Role:    "music",
			Muted:   false,
			Gain:    0.5,
			Pan:     -0.25,
		}},
	}
	return g
}

func TestGraph_MarshalDocument_Deterministic(t *testing.T) {
	g := buildDumpGraph()

	first, err := g.MarshalDocument()
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := g.MarshalDocument()
		require.NoError(t, err)
		assert.Equal(t, first, again, "iteration %d", i)
	}
}

func TestGraph_Document_RoundTrip(t *testing.T) {
	g := buildDumpGraph()

	data, err := g.MarshalDocument()
	require.NoError(t, err)

	parsed, err := ParseDocument(data)
	require.NoError(t, err)

	// Semantic equality: every node, edge, output, and snapshot entry
	// survives the trip.
	assert.Equal(t, g.Version, parsed.Version)
	assert.Equal(t, len(g.Nodes), len(parsed.Nodes))
	for id, spec := range g.Nodes {
		assert.Equal(t, spec, parsed.Nodes[id], "node %s", id)
	}
	assert.Equal(t, g.SortedEdges(), parsed.SortedEdges())
	require.NotNil(t, parsed.MainOutput)
	assert.Equal(t, *g.MainOutput, *parsed.MainOutput)
	require.NotNil(t, parsed.Snapshot)
	assert.Equal(t, g.Snapshot.TimeSeconds, parsed.Snapshot.TimeSeconds)
	assert.Equal(t, g.Snapshot.Clips, parsed.Snapshot.Clips)

	// Byte equality: re-encoding the parsed graph reproduces the dump.
	again, err := parsed.MarshalDocument()
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestGraph_Document_EmptyGraph(t *testing.T) {
	g := New()

	data, err := g.MarshalDocument()
	require.NoError(t, err)
	assert.Equal(t, `{"edges":[],"nodes":[],"version":1}`, string(data))

	parsed, err := ParseDocument(data)
	require.NoError(t, err)
	assert.Empty(t, parsed.Nodes)
	assert.Nil(t, parsed.MainOutput)
	assert.Nil(t, parsed.Snapshot)
}

func TestGraph_Doc_OmitsAbsentOptionals(t *testing.T) {
	clipID := uuid.NewSHA1(uuid.NameSpaceOID, []byte("clip/bare"))
	base := NewNodeID(clipID)

	g := New()
	g.AddNode(Derive(base, "source"), Source{
		ClipID:  clipID,
		AssetID: uuid.NewSHA1(uuid.NameSpaceOID, []byte("asset/bare")),
	})

	data, err := g.MarshalDocument()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
	assert.NotContains(t, string(data), "hint")
	assert.NotContains(t, string(data), "outputs")
}

func TestParseDocument_BadNodeID(t *testing.T) {
	_, err := ParseDocument([]byte(`{"version":1,"nodes":[{"id":"nope","kind":"gain","spec":{"value":1}}],"edges":[]}`))
	assert.Error(t, err)
}

func TestParseSpec_UnknownKind(t *testing.T) {
	_, err := ParseSpec("reverb", []byte(`{}`))
	assert.Error(t, err)
}

func TestGraph_SortedEdges_DeduplicatesAndSorts(t *testing.T) {
	a := NewNodeID(uuid.UUID{0x01})
	b := NewNodeID(uuid.UUID{0x02})
	c := NewNodeID(uuid.UUID{0x03})

	g := New()
	g.Connect(b, c)
	g.Connect(a, b)
	g.Connect(b, c) // duplicate

	edges := g.SortedEdges()
	require.Len(t, edges, 2)
	assert.Equal(t, Edge{From: a, To: b}, edges[0])
	assert.Equal(t, Edge{From: b, To: c}, edges[1])
	assert.Len(t, g.Edges, 3, "the graph's own edge list is untouched")
}

func TestParameterSnapshot_SortClips(t *testing.T) {
	ids := []uuid.UUID{
		uuid.NewSHA1(uuid.NameSpaceOID, []byte("clip/c")),
		uuid.NewSHA1(uuid.NameSpaceOID, []byte("clip/a")),
		uuid.NewSHA1(uuid.NameSpaceOID, []byte("clip/b")),
	}
	snap := &ParameterSnapshot{Clips: []ClipParameters{
		{ClipID: ids[0]}, {ClipID: ids[1]}, {ClipID: ids[2]},
	}}
	snap.SortClips()

	for i := 0; i+1 < len(snap.Clips); i++ {
		assert.Less(t, snap.Clips[i].ClipID.String(), snap.Clips[i+1].ClipID.String())
	}
}
