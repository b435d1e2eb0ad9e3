package timeline

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/soundlane/renderplan/internal/automation"
	"github.com/soundlane/renderplan/internal/graph"
	"github.com/soundlane/renderplan/internal/timemap"
)

// boundaryEpsilon absorbs floating-point error at clip boundaries so a
// clip does not flicker in and out when t sits exactly on an edge.
const boundaryEpsilon = 1e-9

// Node id derivation purposes, one per chain position.
const (
	purposeSource  = "source"
	purposeTimeMap = "timeMap"
	purposeFade    = "fade"
	purposeGain    = "gain"
	purposePan     = "pan"
	purposeBus     = "bus"
)

// Evaluate produces the audio graph for one instant t (timeline seconds).
//
// Track iteration order defines the processing sequence. Solo is resolved
// globally first; muted tracks are skipped entirely while muted clips
// contribute a silent chain (gain 0) so that unmuting never changes the
// graph topology mid-playback. Each audible clip becomes a fixed
// source→timeMap→[fade]→gain→pan→bus chain; bus nodes are linked in
// sequence into a single main bus, and the last bus becomes the graph's
// main output.
func Evaluate(p *Project, t float64, clock timemap.Clock) *graph.Graph {
	g := graph.New()
	snap := &graph.ParameterSnapshot{TimeSeconds: t}

	anySolo := p.AnySolo()

	var prevBus graph.NodeID
	havePrev := false

	for _, track := range p.Tracks {
		if track.Kind != TrackAudio {
			continue
		}
		if !anySolo && track.Muted {
			continue
		}

		// Storage order is not trusted; sort by (start, id).
		clips := slices.Clone(track.Clips)
		slices.SortFunc(clips, func(a, b Clip) int {
			switch {
			case a.TimelineStartSeconds < b.TimelineStartSeconds:
				return -1
			case a.TimelineStartSeconds > b.TimelineStartSeconds:
				return 1
			default:
				return strings.Compare(a.ID.String(), b.ID.String())
			}
		})

		for i := range clips {
			clip := &clips[i]
			if !clipActiveAt(clip, t) {
				continue
			}
			if anySolo && !track.Solo && !clip.Solo {
				continue
			}

			busOut := synthesizeClipChain(g, snap, &track, clip, t, clock)
			if havePrev {
				g.Connect(prevBus, busOut)
			}
			prevBus = busOut
			havePrev = true
		}
	}

	if havePrev {
		g.SetMainOutput(prevBus)
	}
	snap.SortClips()
	g.Snapshot = snap
	return g
}

// clipActiveAt tests the clip's half-open timeline window with epsilon
// tolerance on both edges.
func clipActiveAt(clip *Clip, t float64) bool {
	start := clip.TimelineStartSeconds
	end := start + clip.DurationSeconds
	return t-start >= -boundaryEpsilon && end-t > boundaryEpsilon
}

// synthesizeClipChain emits one clip's node chain and snapshot entry,
// returning the clip's bus node id.
func synthesizeClipChain(g *graph.Graph, snap *graph.ParameterSnapshot, track *Track, clip *Clip, t float64, clock timemap.Clock) graph.NodeID {
	base := graph.NewNodeID(clip.ID)
	srcID := graph.Derive(base, purposeSource)
	mapID := graph.Derive(base, purposeTimeMap)
	gainID := graph.Derive(base, purposeGain)
	panID := graph.Derive(base, purposePan)
	busID := graph.Derive(base, purposeBus)

	g.AddNode(srcID, graph.Source{
		ClipID:  clip.ID,
		AssetID: clip.AssetID,
		Hint:    clip.FormatHint,
	})
	g.AddNode(mapID, graph.TimeMap{
		Stretch: clip.Stretch,
		Map:     clipTimeMap(clip, clock),
	})
	g.Connect(srcID, mapID)
	tail := mapID

	if fade, ok := clipFade(clip, clock); ok {
		fadeID := graph.Derive(base, purposeFade)
		g.AddNode(fadeID, fade)
		g.Connect(tail, fadeID)
		tail = fadeID
	}

	muted := track.Muted || clip.Muted
	muteFactor := 1.0
	if muted {
		muteFactor = 0
	}
	localT := t - clip.TimelineStartSeconds
	gainValue := muteFactor *
		automation.Value(clip.VolumeCurve, localT, clip.Volume) *
		clip.Gain *
		track.Volume
	panValue := clampPan(automation.Value(clip.PanCurve, localT, clip.Pan) + track.Pan)

	g.AddNode(gainID, graph.Gain{Value: gainValue})
	g.Connect(tail, gainID)
	g.AddNode(panID, graph.Pan{Value: panValue})
	g.Connect(gainID, panID)

	outputBus := clip.OutputBusID
	if outputBus == uuid.Nil {
		outputBus = track.OutputBusID
	}
	role := clip.Role
	if role == "" {
		role = track.Role
	}
	g.AddNode(busID, graph.Bus{BusID: outputBus, Role: role})
	g.Connect(panID, busID)

	snap.Clips = append(snap.Clips, graph.ClipParameters{
		ClipID:  clip.ID,
		TrackID: track.ID,
		BusID:   outputBus,
		Role:    role,
		Muted:   muted,
		Gain:    gainValue,
		Pan:     panValue,
	})
	return busID
}

// clipTimeMap converts the clip's seconds-domain placement to a sample
// accurate time map using the clock's single quantization rule.
func clipTimeMap(clip *Clip, clock timemap.Clock) timemap.Map {
	m := timemap.Map{
		SampleRate: clock.SampleRate,
		Start:      clock.SampleTime(clip.TimelineStartSeconds),
		Duration:   clock.SampleTime(clip.DurationSeconds),
		SourceIn:   clock.SampleTime(clip.SourceInSeconds),
		Speed:      clip.Speed,
		Reverse:    clip.Reverse,
	}
	if clip.SourceTrim != nil {
		r := timemap.NewSampleRange(
			clock.SampleTime(clip.SourceTrim.In),
			clock.SampleTime(clip.SourceTrim.Out),
		)
		m.SourceTrim = &r
	}
	if clip.Loop != nil {
		r := timemap.NewLoopRange(
			clock.SampleTime(clip.Loop.In),
			clock.SampleTime(clip.Loop.Out),
		)
		m.Loop = &r
	}
	return timemap.NewMap(m)
}

// clipFade builds the fade node spec, if any fade is configured. Fade
// durations clamp to the clip duration, and when in+out would overlap the
// fade-out is shortened so the pair never exceeds the clip.
func clipFade(clip *Clip, clock timemap.Clock) (graph.Fade, bool) {
	if clip.FadeIn == nil && clip.FadeOut == nil {
		return graph.Fade{}, false
	}

	windowStart := clock.SampleTime(clip.TimelineStartSeconds)
	windowDur := clock.SampleTime(clip.DurationSeconds)

	fade := graph.Fade{
		ClipID:      clip.ID,
		WindowStart: windowStart,
		WindowDur:   windowDur,
	}

	var inDur int64
	if clip.FadeIn != nil {
		inDur = min(clock.SampleTime(clip.FadeIn.DurationSeconds), windowDur)
		fade.In = &graph.FadeRamp{Duration: inDur, Shape: clip.FadeIn.Shape}
	}
	if clip.FadeOut != nil {
		outDur := min(clock.SampleTime(clip.FadeOut.DurationSeconds), windowDur)
		if inDur+outDur > windowDur {
			outDur = windowDur - inDur
		}
		fade.Out = &graph.FadeRamp{Duration: outDur, Shape: clip.FadeOut.Shape}
	}
	return fade, true
}

func clampPan(v float64) float64 {
	switch {
	case v < -1:
		return -1
	case v > 1:
		return 1
	default:
		return v
	}
}
