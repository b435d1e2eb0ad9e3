package timeline

import (
	"github.com/google/uuid"

	"github.com/soundlane/renderplan/internal/automation"
	"github.com/soundlane/renderplan/internal/graph"
	"github.com/soundlane/renderplan/internal/timemap"
)

// TrackKind discriminates track content. Only audio tracks contribute to
// the audio graph.
type TrackKind string

const (
	TrackAudio TrackKind = "audio"
	TrackVideo TrackKind = "video"
)

// SecondsRange is a half-open [In, Out) range in timeline-rate seconds.
// It is the seconds-domain counterpart of timemap.SampleRange, used where
// the project model speaks seconds.
type SecondsRange struct {
	In  float64 `json:"in"`
	Out float64 `json:"out"`
}

// FadeSpec configures one side of a clip fade.
type FadeSpec struct {
	DurationSeconds float64         `json:"duration_seconds"`
	Shape           graph.FadeShape `json:"shape"`
}

// Clip is one piece of source material placed on a track.
//
// Volume is the clip's nominal volume and doubles as the default for the
// volume automation curve; Gain is an additional static trim applied on
// top. Speed must be positive; a non-positive speed renders no samples.
type Clip struct {
	ID      uuid.UUID `json:"id"`
	AssetID uuid.UUID `json:"asset_id"`
	Name    string    `json:"name,omitempty"`

	TimelineStartSeconds float64 `json:"timeline_start_seconds"`
	SourceInSeconds      float64 `json:"source_in_seconds"`
	DurationSeconds      float64 `json:"duration_seconds"`
	Speed                float64 `json:"speed"`

	Volume float64 `json:"volume"`
	Pan    float64 `json:"pan"`
	Gain   float64 `json:"gain"`
	Muted  bool    `json:"muted"`
	Solo   bool    `json:"solo"`

	VolumeCurve automation.Curve `json:"volume_curve,omitempty"`
	PanCurve    automation.Curve `json:"pan_curve,omitempty"`

	FadeIn  *FadeSpec `json:"fade_in,omitempty"`
	FadeOut *FadeSpec `json:"fade_out,omitempty"`

	SourceTrim *SecondsRange `json:"source_trim,omitempty"`
	Loop       *SecondsRange `json:"loop,omitempty"`

	Reverse timemap.ReverseMode `json:"reverse,omitempty"`
	Stretch graph.StretchMode   `json:"stretch,omitempty"`

	Role string `json:"role,omitempty"`
	// OutputBusID overrides the track's bus when non-nil (uuid.Nil means
	// inherit).
	OutputBusID uuid.UUID `json:"output_bus_id,omitempty"`

	FormatHint *graph.FormatHint `json:"format_hint,omitempty"`
}

// Track is an ordered lane of clips. Track order in the project defines
// the deterministic processing sequence, not playback priority.
type Track struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
	Kind TrackKind `json:"kind"`

	Muted  bool    `json:"muted"`
	Solo   bool    `json:"solo"`
	Volume float64 `json:"volume"`
	Pan    float64 `json:"pan"`

	Role        string    `json:"role,omitempty"`
	OutputBusID uuid.UUID `json:"output_bus_id"`

	Clips []Clip `json:"clips"`
}

// Project is the consumed project state: tracks in timeline order.
type Project struct {
	Tracks []Track `json:"tracks"`
}

// AnySolo reports whether any audio track or any of its clips is soloed.
// Solo is global: one soloed clip anywhere silences every non-soloed
// contributor.
func (p *Project) AnySolo() bool {
	for _, track := range p.Tracks {
		if track.Kind != TrackAudio {
			continue
		}
		if track.Solo {
			return true
		}
		for _, clip := range track.Clips {
			if clip.Solo {
				return true
			}
		}
	}
	return false
}
