package graph

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/soundlane/renderplan/internal/timemap"
)

// Document building for the golden/diagnostic dump format.
//
// The dump is canonical JSON whose collections are sorted by a canonical
// key (node id string, then edge from/to, then clip id) so the encoding is
// independent of any hash-table iteration order. Absent optional fields
// are omitted entirely; null never appears. Every field of the data model
// round-trips through ParseDocument.

// Doc converts the graph to its canonical document form.
func (g *Graph) Doc() map[string]any {
	nodes := make([]any, 0, len(g.Nodes))
	for _, id := range SortedNodeIDs(g.Nodes) {
		nodes = append(nodes, map[string]any{
			"id":   id.String(),
			"kind": string(g.Nodes[id].Kind()),
			"spec": SpecDoc(g.Nodes[id]),
		})
	}

	edges := make([]any, 0, len(g.Edges))
	for _, e := range g.SortedEdges() {
		edges = append(edges, map[string]any{
			"from": e.From.String(),
			"to":   e.To.String(),
		})
	}

	doc := map[string]any{
		"version": int64(g.Version),
		"nodes":   nodes,
		"edges":   edges,
	}
	if g.MainOutput != nil {
		doc["outputs"] = map[string]any{"main": g.MainOutput.String()}
	}
	if g.Snapshot != nil {
		doc["snapshot"] = snapshotDoc(g.Snapshot)
	}
	return doc
}

// MarshalDocument renders the graph as canonical JSON bytes.
func (g *Graph) MarshalDocument() ([]byte, error) {
	return MarshalCanonical(g.Doc())
}

func snapshotDoc(s *ParameterSnapshot) map[string]any {
	snap := *s
	snap.SortClips()
	clips := make([]any, 0, len(snap.Clips))
	for _, c := range snap.Clips {
		clip := map[string]any{
			"clip_id":  c.ClipID.String(),
			"track_id": c.TrackID.String(),
			"bus_id":   c.BusID.String(),
			"muted":    c.Muted,
			"gain":     c.Gain,
			"pan":      c.Pan,
		}
		if c.Role != "" {
			clip["role"] = c.Role
		}
		clips = append(clips, clip)
	}
	return map[string]any{
		"time_seconds": snap.TimeSeconds,
		"clips":        clips,
	}
}

// SpecDoc converts a node spec to its canonical document form.
func SpecDoc(spec NodeSpec) map[string]any {
	switch s := spec.(type) {
	case Source:
		doc := map[string]any{
			"clip_id":  s.ClipID.String(),
			"asset_id": s.AssetID.String(),
		}
		if s.Hint != nil {
			doc["hint"] = map[string]any{
				"sample_rate": int64(s.Hint.SampleRate),
				"channels":    int64(s.Hint.Channels),
			}
		}
		return doc
	case TimeMap:
		return map[string]any{
			"stretch": string(s.Stretch),
			"map":     timeMapDoc(s.Map),
		}
	case Fade:
		doc := map[string]any{
			"clip_id":      s.ClipID.String(),
			"window_start": s.WindowStart,
			"window_dur":   s.WindowDur,
		}
		if s.In != nil {
			doc["in"] = rampDoc(*s.In)
		}
		if s.Out != nil {
			doc["out"] = rampDoc(*s.Out)
		}
		return doc
	case Gain:
		return map[string]any{"value": s.Value}
	case Pan:
		return map[string]any{"value": s.Value}
	case Bus:
		doc := map[string]any{"bus_id": s.BusID.String()}
		if s.Role != "" {
			doc["role"] = s.Role
		}
		return doc
	case MeterTap, AnalyzerTap:
		return map[string]any{}
	default:
		// The NodeSpec interface is sealed; this is unreachable.
		return map[string]any{}
	}
}

func timeMapDoc(m timemap.Map) map[string]any {
	doc := map[string]any{
		"sample_rate": m.SampleRate,
		"start":       m.Start,
		"duration":    m.Duration,
		"source_in":   m.SourceIn,
		"speed":       m.Speed,
		"reverse":     string(m.Reverse),
	}
	if m.SourceTrim != nil {
		doc["source_trim"] = map[string]any{"in": m.SourceTrim.In, "out": m.SourceTrim.Out}
	}
	if m.Loop != nil {
		doc["loop"] = map[string]any{"start": m.Loop.Start, "end": m.Loop.End}
	}
	return doc
}

func rampDoc(r FadeRamp) map[string]any {
	return map[string]any{
		"duration": r.Duration,
		"shape":    string(r.Shape),
	}
}

// ParseDocument decodes a canonical graph document back into a Graph.
// Together with MarshalDocument it makes the dump format lossless.
func ParseDocument(data []byte) (*Graph, error) {
	var doc struct {
		Version int64 `json:"version"`
		Nodes   []struct {
			ID   string          `json:"id"`
			Kind string          `json:"kind"`
			Spec json.RawMessage `json:"spec"`
		} `json:"nodes"`
		Edges []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"edges"`
		Outputs *struct {
			Main string `json:"main"`
		} `json:"outputs"`
		Snapshot *struct {
			TimeSeconds float64 `json:"time_seconds"`
			Clips       []struct {
				ClipID  string  `json:"clip_id"`
				TrackID string  `json:"track_id"`
				BusID   string  `json:"bus_id"`
				Role    string  `json:"role"`
				Muted   bool    `json:"muted"`
				Gain    float64 `json:"gain"`
				Pan     float64 `json:"pan"`
			} `json:"clips"`
		} `json:"snapshot"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("graph document: %w", err)
	}

	g := New()
	g.Version = int(doc.Version)
	for _, n := range doc.Nodes {
		id, err := ParseNodeID(n.ID)
		if err != nil {
			return nil, fmt.Errorf("node id %q: %w", n.ID, err)
		}
		spec, err := ParseSpec(NodeKind(n.Kind), n.Spec)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		g.AddNode(id, spec)
	}
	for _, e := range doc.Edges {
		from, err := ParseNodeID(e.From)
		if err != nil {
			return nil, fmt.Errorf("edge from %q: %w", e.From, err)
		}
		to, err := ParseNodeID(e.To)
		if err != nil {
			return nil, fmt.Errorf("edge to %q: %w", e.To, err)
		}
		g.Connect(from, to)
	}
	if doc.Outputs != nil {
		id, err := ParseNodeID(doc.Outputs.Main)
		if err != nil {
			return nil, fmt.Errorf("main output %q: %w", doc.Outputs.Main, err)
		}
		g.SetMainOutput(id)
	}
	if doc.Snapshot != nil {
		snap := &ParameterSnapshot{TimeSeconds: doc.Snapshot.TimeSeconds}
		for _, c := range doc.Snapshot.Clips {
			clipID, err := uuid.Parse(c.ClipID)
			if err != nil {
				return nil, fmt.Errorf("snapshot clip id %q: %w", c.ClipID, err)
			}
			trackID, err := uuid.Parse(c.TrackID)
			if err != nil {
				return nil, fmt.Errorf("snapshot track id %q: %w", c.TrackID, err)
			}
			busID, err := uuid.Parse(c.BusID)
			if err != nil {
				return nil, fmt.Errorf("snapshot bus id %q: %w", c.BusID, err)
			}
			snap.Clips = append(snap.Clips, ClipParameters{
				ClipID:  clipID,
				TrackID: trackID,
				BusID:   busID,
				Role:    c.Role,
				Muted:   c.Muted,
				Gain:    c.Gain,
				Pan:     c.Pan,
			})
		}
		g.Snapshot = snap
	}
	return g, nil
}

// ParseSpec decodes one node spec document of the given kind.
func ParseSpec(kind NodeKind, data []byte) (NodeSpec, error) {
	switch kind {
	case KindSource:
		var raw struct {
			ClipID  string      `json:"clip_id"`
			AssetID string      `json:"asset_id"`
			Hint    *FormatHint `json:"hint"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		clipID, err := uuid.Parse(raw.ClipID)
		if err != nil {
			return nil, fmt.Errorf("clip_id: %w", err)
		}
		assetID, err := uuid.Parse(raw.AssetID)
		if err != nil {
			return nil, fmt.Errorf("asset_id: %w", err)
		}
		return Source{ClipID: clipID, AssetID: assetID, Hint: raw.Hint}, nil
	case KindTimeMap:
		var raw struct {
			Stretch string      `json:"stretch"`
			Map     timemap.Map `json:"map"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return TimeMap{Stretch: StretchMode(raw.Stretch), Map: raw.Map}, nil
	case KindFade:
		var raw struct {
			ClipID      string    `json:"clip_id"`
			WindowStart int64     `json:"window_start"`
			WindowDur   int64     `json:"window_dur"`
			In          *FadeRamp `json:"in"`
			Out         *FadeRamp `json:"out"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		clipID, err := uuid.Parse(raw.ClipID)
		if err != nil {
			return nil, fmt.Errorf("clip_id: %w", err)
		}
		return Fade{
			ClipID:      clipID,
			WindowStart: raw.WindowStart,
			WindowDur:   raw.WindowDur,
			In:          raw.In,
			Out:         raw.Out,
		}, nil
	case KindGain:
		var raw Gain
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	case KindPan:
		var raw Pan
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	case KindBus:
		var raw struct {
			BusID string `json:"bus_id"`
			Role  string `json:"role"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		busID, err := uuid.Parse(raw.BusID)
		if err != nil {
			return nil, fmt.Errorf("bus_id: %w", err)
		}
		return Bus{BusID: busID, Role: raw.Role}, nil
	case KindMeterTap:
		return MeterTap{}, nil
	case KindAnalyzerTap:
		return AnalyzerTap{}, nil
	default:
		return nil, fmt.Errorf("unknown node kind %q", kind)
	}
}
