package timemap

// ReverseMode selects how a clip plays its source material backwards.
type ReverseMode string

const (
	// ReverseMute plays forward; the runtime is responsible for silencing.
	ReverseMute ReverseMode = "mute"
	// ReverseRough mirrors source positions without interpolation.
	ReverseRough ReverseMode = "roughReverse"
	// ReverseHighQuality mirrors source positions; the runtime applies
	// its high-quality reversal path.
	ReverseHighQuality ReverseMode = "highQualityReverse"
)

// reversed reports whether the mode mirrors source positions.
func (m ReverseMode) reversed() bool {
	return m == ReverseRough || m == ReverseHighQuality
}

// SampleRange is a half-open [In, Out) range of source sample positions.
type SampleRange struct {
	In  int64 `json:"in"`
	Out int64 `json:"out"`
}

// NewSampleRange builds a normalized range: In clamps to ≥ 0 and Out
// clamps to ≥ In.
func NewSampleRange(in, out int64) SampleRange {
	if in < 0 {
		in = 0
	}
	if out < in {
		out = in
	}
	return SampleRange{In: in, Out: out}
}

// Contains reports whether t falls inside the half-open range.
func (r SampleRange) Contains(t int64) bool {
	return t >= r.In && t < r.Out
}

// LoopRange is a half-open [Start, End) range that source time wraps
// within.
type LoopRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// NewLoopRange builds a normalized loop range: Start clamps to ≥ 0 and
// End clamps to ≥ Start.
func NewLoopRange(start, end int64) LoopRange {
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	return LoopRange{Start: start, End: end}
}

// Wrap folds a sample position into the loop range.
//
// Zero-length ranges are a no-op. Positions before the loop start clamp to
// the start; positions inside [Start, End) pass through; positions at or
// beyond End wrap via modulo relative to Start. Exact integer arithmetic
// throughout, and idempotent: Wrap(Wrap(t)) == Wrap(t).
func (r LoopRange) Wrap(t int64) int64 {
	span := r.End - r.Start
	if span <= 0 {
		return t
	}
	if t < r.Start {
		return r.Start
	}
	if t < r.End {
		return t
	}
	return r.Start + (t-r.Start)%span
}

// Map converts timeline sample positions to source sample positions for
// one clip. All placement fields are in samples at SampleRate.
type Map struct {
	SampleRate float64      `json:"sample_rate"`
	Start      int64        `json:"start"`    // timeline placement
	Duration   int64        `json:"duration"` // timeline length
	SourceIn   int64        `json:"source_in"` // source placement
	SourceTrim *SampleRange `json:"source_trim,omitempty"`
	Speed      float64      `json:"speed"` // > 0
	Reverse    ReverseMode  `json:"reverse"`
	Loop       *LoopRange   `json:"loop,omitempty"`
}

// NewMap normalizes a Map: negative sample counts clamp to zero, trim and
// loop ranges are re-normalized, and an empty reverse mode defaults to
// ReverseMute. Speed and SampleRate are validated at use-time instead so
// that a malformed map degrades to "no sample" rather than a constructor
// error.
func NewMap(m Map) Map {
	if m.Start < 0 {
		m.Start = 0
	}
	if m.Duration < 0 {
		m.Duration = 0
	}
	if m.SourceIn < 0 {
		m.SourceIn = 0
	}
	if m.SourceTrim != nil {
		r := NewSampleRange(m.SourceTrim.In, m.SourceTrim.Out)
		m.SourceTrim = &r
	}
	if m.Loop != nil {
		r := NewLoopRange(m.Loop.Start, m.Loop.End)
		m.Loop = &r
	}
	if m.Reverse == "" {
		m.Reverse = ReverseMute
	}
	return m
}

// SourceSampleTime maps a timeline sample position to a source sample
// position. The second return is false when the position carries no
// sample: outside the clip's timeline window, outside the source trim,
// or the map itself is malformed (non-finite/non-positive rate or speed).
func (m Map) SourceSampleTime(t int64) (int64, bool) {
	if !isFinite(m.SampleRate) || m.SampleRate <= 0 {
		return 0, false
	}
	if !isFinite(m.Speed) || m.Speed <= 0 {
		return 0, false
	}

	dt := t - m.Start
	if dt < 0 || dt >= m.Duration {
		return 0, false
	}

	// Samples → seconds → scale by speed → samples, using the one
	// quantization rule shared with Clock.
	offset := roundHalfAwayFromZero(float64(dt) / m.SampleRate * m.Speed * m.SampleRate)

	var pos int64
	if m.Reverse.reversed() {
		// Mirror around the implied exclusive source end: the first
		// timeline sample maps to the last valid source sample.
		span := roundHalfAwayFromZero(float64(m.Duration) / m.SampleRate * m.Speed * m.SampleRate)
		if span <= 0 {
			pos = m.SourceIn
		} else {
			pos = m.SourceIn + span - 1 - offset
		}
	} else {
		pos = m.SourceIn + offset
	}

	if pos < 0 {
		pos = 0
	}
	if m.Loop != nil {
		pos = m.Loop.Wrap(pos)
	}
	if m.SourceTrim != nil && !m.SourceTrim.Contains(pos) {
		return 0, false
	}
	return pos, true
}
