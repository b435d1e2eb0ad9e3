package graph

import (
	"github.com/google/uuid"

	"github.com/soundlane/renderplan/internal/timemap"
)

// NodeKind tags a NodeSpec variant.
type NodeKind string

const (
	KindSource      NodeKind = "source"
	KindTimeMap     NodeKind = "timeMap"
	KindFade        NodeKind = "fade"
	KindGain        NodeKind = "gain"
	KindPan         NodeKind = "pan"
	KindBus         NodeKind = "bus"
	KindMeterTap    NodeKind = "meterTap"
	KindAnalyzerTap NodeKind = "analyzerTap"
)

// Quality selects the rendering quality a plan is compiled for. It feeds
// the stable hash and the resource binder; the compiler itself treats it
// as opaque.
type Quality string

const (
	QualityDraft    Quality = "draft"
	QualityStandard Quality = "standard"
	QualityHigh     Quality = "high"
)

// StretchMode selects the time-stretch algorithm family for a timeMap node.
type StretchMode string

const (
	// StretchResample changes pitch along with speed.
	StretchResample StretchMode = "resample"
	// StretchElastic preserves pitch while changing speed.
	StretchElastic StretchMode = "elastic"
)

// FadeShape selects the ramp curve of a fade.
type FadeShape string

const (
	FadeLinear     FadeShape = "linear"
	FadeEqualPower FadeShape = "equalPower"
	FadeSCurve     FadeShape = "sCurve"
)

// FormatHint carries optional decode hints for a source node.
type FormatHint struct {
	SampleRate int `json:"sample_rate"`
	Channels   int `json:"channels"`
}

// FadeRamp describes one side of a fade: how long and with what shape.
type FadeRamp struct {
	Duration int64     `json:"duration"` // samples
	Shape    FadeShape `json:"shape"`
}

// NodeSpec is the closed set of node variants. Each variant is immutable
// value data; no behavior is attached. Only the types in this file
// implement it.
type NodeSpec interface {
	Kind() NodeKind
	nodeSpec() // sealed
}

// Source references a clip's underlying asset.
type Source struct {
	ClipID  uuid.UUID   `json:"clip_id"`
	AssetID uuid.UUID   `json:"asset_id"`
	Hint    *FormatHint `json:"hint,omitempty"`
}

func (Source) Kind() NodeKind { return KindSource }
func (Source) nodeSpec()      {}

// TimeMap applies a per-clip timeline→source time mapping.
type TimeMap struct {
	Stretch StretchMode `json:"stretch"`
	Map     timemap.Map `json:"map"`
}

func (TimeMap) Kind() NodeKind { return KindTimeMap }
func (TimeMap) nodeSpec()      {}

// Fade applies optional fade-in/out ramps over a clip's timeline window.
type Fade struct {
	ClipID      uuid.UUID `json:"clip_id"`
	WindowStart int64     `json:"window_start"` // samples
	WindowDur   int64     `json:"window_dur"`   // samples
	In          *FadeRamp `json:"in,omitempty"`
	Out         *FadeRamp `json:"out,omitempty"`
}

func (Fade) Kind() NodeKind { return KindFade }
func (Fade) nodeSpec()      {}

// Gain scales the signal by a constant factor.
type Gain struct {
	Value float64 `json:"value"`
}

func (Gain) Kind() NodeKind { return KindGain }
func (Gain) nodeSpec()      {}

// Pan positions the signal in the stereo field, -1 (left) to +1 (right).
type Pan struct {
	Value float64 `json:"value"`
}

func (Pan) Kind() NodeKind { return KindPan }
func (Pan) nodeSpec()      {}

// Bus is a named aggregation point where clip chains are summed.
type Bus struct {
	BusID uuid.UUID `json:"bus_id"`
	Role  string    `json:"role,omitempty"`
}

func (Bus) Kind() NodeKind { return KindBus }
func (Bus) nodeSpec()      {}

// MeterTap marks a point where the runtime may attach level metering.
type MeterTap struct{}

func (MeterTap) Kind() NodeKind { return KindMeterTap }
func (MeterTap) nodeSpec()      {}

// AnalyzerTap marks a point where the runtime may attach spectrum analysis.
type AnalyzerTap struct{}

func (AnalyzerTap) Kind() NodeKind { return KindAnalyzerTap }
func (AnalyzerTap) nodeSpec()      {}
