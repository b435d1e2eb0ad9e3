// Package automation evaluates keyframed scalar curves.
//
// Curves are stored unsorted; evaluation first sorts keyframes into a
// canonical order (time, then value, then interpolation mode) so the
// result is identical regardless of input order, including for duplicate
// timestamps. Extrapolation on both sides is flat.
package automation

import (
	"math"
	"slices"
)

// Interp selects how a segment moves from its left keyframe to the next.
type Interp uint8

const (
	// Hold keeps the left keyframe's value until the next keyframe.
	Hold Interp = iota
	// Linear interpolates proportionally by elapsed fraction.
	Linear
)

// String returns the interpolation mode name.
func (i Interp) String() string {
	switch i {
	case Hold:
		return "hold"
	case Linear:
		return "linear"
	default:
		return "unknown"
	}
}

// Keyframe is one point on a curve.
type Keyframe struct {
	Time   float64 `json:"time"`
	Value  float64 `json:"value"`
	Interp Interp  `json:"interp"`
}

// Curve is an unordered list of keyframes.
type Curve []Keyframe

// canonical returns the keyframes sorted by (time, value, interp ordinal).
// The input is never mutated.
func (c Curve) canonical() []Keyframe {
	keys := slices.Clone(c)
	slices.SortFunc(keys, func(a, b Keyframe) int {
		switch {
		case a.Time != b.Time:
			if a.Time < b.Time {
				return -1
			}
			return 1
		case a.Value != b.Value:
			if a.Value < b.Value {
				return -1
			}
			return 1
		default:
			return int(a.Interp) - int(b.Interp)
		}
	})
	return keys
}

// Value evaluates the curve at time t.
//
// An empty curve returns def. Before the earliest keyframe the earliest
// value is returned, after the latest the latest value; between two
// keyframes the left keyframe's interpolation mode governs the segment.
// Zero-length segments return the right endpoint's value. A non-finite t
// is treated as zero.
func Value(c Curve, t, def float64) float64 {
	if len(c) == 0 {
		return def
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		t = 0
	}

	keys := c.canonical()
	if t <= keys[0].Time {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if t >= last.Time {
		return last.Value
	}

	// Find the segment whose left keyframe is the latest at or before t.
	i := 0
	for i+1 < len(keys) && keys[i+1].Time <= t {
		i++
	}
	left, right := keys[i], keys[i+1]

	if left.Interp == Hold {
		return left.Value
	}
	dt := right.Time - left.Time
	if dt <= 0 {
		return right.Value
	}
	frac := (t - left.Time) / dt
	return left.Value + (right.Value-left.Value)*frac
}
