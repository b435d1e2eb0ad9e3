// Package testutil provides deterministic fixtures for tests.
//
// All ids are name-derived (UUIDv5), never random, so tests and golden
// files see identical ids on every run and every machine.
package testutil

import (
	"github.com/google/uuid"

	"github.com/soundlane/renderplan/internal/graph"
	"github.com/soundlane/renderplan/internal/timeline"
)

// ID derives a stable uuid from a name, matching the project document
// loader's derivation so fixtures and authored documents agree.
func ID(name string) uuid.UUID {
	return timeline.DeriveID(name)
}

// NodeID derives a stable graph node id from a name.
func NodeID(name string) graph.NodeID {
	return graph.NewNodeID(ID(name))
}

// NewClip builds a clip with neutral mix defaults: unity volume and gain,
// centered pan, speed 1. The clip and asset ids derive from the name.
func NewClip(name string, startSeconds, durationSeconds float64) timeline.Clip {
	return timeline.Clip{
		ID:                   ID("clip/" + name),
		AssetID:              ID("asset/" + name),
		Name:                 name,
		TimelineStartSeconds: startSeconds,
		DurationSeconds:      durationSeconds,
		Speed:                1,
		Volume:               1,
		Gain:                 1,
	}
}

// NewTrack builds an audio track with unity volume and a name-derived
// output bus.
func NewTrack(name string, clips ...timeline.Clip) timeline.Track {
	return timeline.Track{
		ID:          ID("track/" + name),
		Name:        name,
		Kind:        timeline.TrackAudio,
		Volume:      1,
		OutputBusID: ID("bus/" + name),
		Clips:       clips,
	}
}

// NewProject builds a project from tracks in the given timeline order.
func NewProject(tracks ...timeline.Track) *timeline.Project {
	return &timeline.Project{Tracks: tracks}
}
