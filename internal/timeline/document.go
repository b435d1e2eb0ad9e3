package timeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/soundlane/renderplan/internal/automation"
	"github.com/soundlane/renderplan/internal/graph"
	"github.com/soundlane/renderplan/internal/timemap"
)

// Document model for authored project descriptions.
//
// The CLI's CUE loader and the test harness's YAML scenarios both decode
// into these structs and convert them to the value model with Project().
// Ids may be written as uuids or as free names; names are derived into
// stable uuids so documents stay human-writable while evaluation stays
// reproducible.

// DeriveID turns a name into a stable uuid (UUIDv5 over the OID
// namespace). Same name, same id, on every machine.
func DeriveID(name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name))
}

// resolveID parses explicit as a uuid, failing that derives from it, and
// with no explicit id derives from prefix/name.
func resolveID(explicit, prefix, name string) uuid.UUID {
	if explicit != "" {
		if id, err := uuid.Parse(explicit); err == nil {
			return id
		}
		return DeriveID(explicit)
	}
	return DeriveID(prefix + "/" + name)
}

// ProjectDoc is the root of an authored project document.
type ProjectDoc struct {
	Tracks []TrackDoc `json:"tracks" yaml:"tracks"`
}

// TrackDoc describes one track. Volume defaults to 1 when omitted.
type TrackDoc struct {
	ID     string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name   string     `json:"name" yaml:"name"`
	Kind   string     `json:"kind,omitempty" yaml:"kind,omitempty"`
	Muted  bool       `json:"muted,omitempty" yaml:"muted,omitempty"`
	Solo   bool       `json:"solo,omitempty" yaml:"solo,omitempty"`
	Volume *float64   `json:"volume,omitempty" yaml:"volume,omitempty"`
	Pan    float64    `json:"pan,omitempty" yaml:"pan,omitempty"`
	Role   string     `json:"role,omitempty" yaml:"role,omitempty"`
	Bus    string     `json:"bus,omitempty" yaml:"bus,omitempty"`
	Clips  []ClipDoc  `json:"clips,omitempty" yaml:"clips,omitempty"`
}

// ClipDoc describes one clip. Volume, gain and speed default to 1.
type ClipDoc struct {
	ID       string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string   `json:"name" yaml:"name"`
	Asset    string   `json:"asset" yaml:"asset"`
	Start    float64  `json:"start" yaml:"start"`
	Duration float64  `json:"duration" yaml:"duration"`
	SourceIn float64  `json:"source_in,omitempty" yaml:"source_in,omitempty"`
	Speed    *float64 `json:"speed,omitempty" yaml:"speed,omitempty"`
	Volume   *float64 `json:"volume,omitempty" yaml:"volume,omitempty"`
	Pan      float64  `json:"pan,omitempty" yaml:"pan,omitempty"`
	Gain     *float64 `json:"gain,omitempty" yaml:"gain,omitempty"`
	Muted    bool     `json:"muted,omitempty" yaml:"muted,omitempty"`
	Solo     bool     `json:"solo,omitempty" yaml:"solo,omitempty"`

	FadeIn  *FadeDoc  `json:"fade_in,omitempty" yaml:"fade_in,omitempty"`
	FadeOut *FadeDoc  `json:"fade_out,omitempty" yaml:"fade_out,omitempty"`
	Trim    *RangeDoc `json:"trim,omitempty" yaml:"trim,omitempty"`
	Loop    *RangeDoc `json:"loop,omitempty" yaml:"loop,omitempty"`

	Reverse string `json:"reverse,omitempty" yaml:"reverse,omitempty"`
	Stretch string `json:"stretch,omitempty" yaml:"stretch,omitempty"`
	Role    string `json:"role,omitempty" yaml:"role,omitempty"`
	Bus     string `json:"bus,omitempty" yaml:"bus,omitempty"`

	VolumeCurve []KeyframeDoc `json:"volume_curve,omitempty" yaml:"volume_curve,omitempty"`
	PanCurve    []KeyframeDoc `json:"pan_curve,omitempty" yaml:"pan_curve,omitempty"`
}

// FadeDoc describes one side of a fade.
type FadeDoc struct {
	Duration float64 `json:"duration" yaml:"duration"`
	Shape    string  `json:"shape,omitempty" yaml:"shape,omitempty"`
}

// RangeDoc is a half-open [in, out) range in seconds.
type RangeDoc struct {
	In  float64 `json:"in" yaml:"in"`
	Out float64 `json:"out" yaml:"out"`
}

// KeyframeDoc is one automation keyframe; interp defaults to linear.
type KeyframeDoc struct {
	Time   float64 `json:"time" yaml:"time"`
	Value  float64 `json:"value" yaml:"value"`
	Interp string  `json:"interp,omitempty" yaml:"interp,omitempty"`
}

// Project converts the document into the value model, applying defaults
// and deriving ids from names where none are given.
func (d *ProjectDoc) Project() (*Project, error) {
	p := &Project{}
	for ti, td := range d.Tracks {
		if td.Name == "" {
			return nil, fmt.Errorf("track %d: name is required", ti)
		}
		kind := TrackKind(td.Kind)
		if kind == "" {
			kind = TrackAudio
		}
		track := Track{
			ID:          resolveID(td.ID, "track", td.Name),
			Name:        td.Name,
			Kind:        kind,
			Muted:       td.Muted,
			Solo:        td.Solo,
			Volume:      orDefault(td.Volume, 1),
			Pan:         td.Pan,
			Role:        td.Role,
			OutputBusID: resolveID(td.Bus, "bus", td.Name),
		}
		for ci, cd := range td.Clips {
			if cd.Name == "" {
				return nil, fmt.Errorf("track %q clip %d: name is required", td.Name, ci)
			}
			if cd.Asset == "" {
				return nil, fmt.Errorf("clip %q: asset is required", cd.Name)
			}
			clip, err := cd.clip()
			if err != nil {
				return nil, fmt.Errorf("clip %q: %w", cd.Name, err)
			}
			track.Clips = append(track.Clips, clip)
		}
		p.Tracks = append(p.Tracks, track)
	}
	return p, nil
}

func (cd *ClipDoc) clip() (Clip, error) {
	clip := Clip{
		ID:                   resolveID(cd.ID, "clip", cd.Name),
		AssetID:              resolveID("", "asset", cd.Asset),
		Name:                 cd.Name,
		TimelineStartSeconds: cd.Start,
		SourceInSeconds:      cd.SourceIn,
		DurationSeconds:      cd.Duration,
		Speed:                orDefault(cd.Speed, 1),
		Volume:               orDefault(cd.Volume, 1),
		Pan:                  cd.Pan,
		Gain:                 orDefault(cd.Gain, 1),
		Muted:                cd.Muted,
		Solo:                 cd.Solo,
		Role:                 cd.Role,
	}
	if cd.Bus != "" {
		clip.OutputBusID = resolveID(cd.Bus, "bus", cd.Name)
	}
	if cd.FadeIn != nil {
		clip.FadeIn = &FadeSpec{DurationSeconds: cd.FadeIn.Duration, Shape: fadeShape(cd.FadeIn.Shape)}
	}
	if cd.FadeOut != nil {
		clip.FadeOut = &FadeSpec{DurationSeconds: cd.FadeOut.Duration, Shape: fadeShape(cd.FadeOut.Shape)}
	}
	if cd.Trim != nil {
		clip.SourceTrim = &SecondsRange{In: cd.Trim.In, Out: cd.Trim.Out}
	}
	if cd.Loop != nil {
		clip.Loop = &SecondsRange{In: cd.Loop.In, Out: cd.Loop.Out}
	}
	switch cd.Reverse {
	case "":
		clip.Reverse = timemap.ReverseMute
	case string(timemap.ReverseMute), string(timemap.ReverseRough), string(timemap.ReverseHighQuality):
		clip.Reverse = timemap.ReverseMode(cd.Reverse)
	default:
		return Clip{}, fmt.Errorf("unknown reverse mode %q", cd.Reverse)
	}
	switch cd.Stretch {
	case "":
		clip.Stretch = graph.StretchResample
	case string(graph.StretchResample), string(graph.StretchElastic):
		clip.Stretch = graph.StretchMode(cd.Stretch)
	default:
		return Clip{}, fmt.Errorf("unknown stretch mode %q", cd.Stretch)
	}
	var err error
	if clip.VolumeCurve, err = curve(cd.VolumeCurve); err != nil {
		return Clip{}, fmt.Errorf("volume_curve: %w", err)
	}
	if clip.PanCurve, err = curve(cd.PanCurve); err != nil {
		return Clip{}, fmt.Errorf("pan_curve: %w", err)
	}
	return clip, nil
}

func curve(keys []KeyframeDoc) (automation.Curve, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	c := make(automation.Curve, 0, len(keys))
	for _, k := range keys {
		var interp automation.Interp
		switch k.Interp {
		case "", "linear":
			interp = automation.Linear
		case "hold":
			interp = automation.Hold
		default:
			return nil, fmt.Errorf("unknown interp %q", k.Interp)
		}
		c = append(c, automation.Keyframe{Time: k.Time, Value: k.Value, Interp: interp})
	}
	return c, nil
}

func fadeShape(s string) graph.FadeShape {
	if s == "" {
		return graph.FadeLinear
	}
	return graph.FadeShape(s)
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
