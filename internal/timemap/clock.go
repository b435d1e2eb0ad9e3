package timemap

import "math"

// DefaultSampleRate is the fixed engine sample rate in Hz.
const DefaultSampleRate = 48000

// Clock converts between timeline seconds and sample counts at a fixed
// engine sample rate.
//
// Only the seconds→samples direction is quantized; samples→seconds is the
// exact reciprocal division. The quantization rule is round half away from
// zero and must be used everywhere a seconds value becomes a sample count.
type Clock struct {
	SampleRate float64
}

// NewClock creates a clock at the given sample rate.
// Non-positive or non-finite rates fall back to DefaultSampleRate.
func NewClock(sampleRate float64) Clock {
	if !isFinite(sampleRate) || sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return Clock{SampleRate: sampleRate}
}

// SampleTime converts timeline seconds to a sample count.
// Negative and non-finite inputs clamp to sample zero.
func (c Clock) SampleTime(seconds float64) int64 {
	if !isFinite(seconds) || seconds <= 0 {
		return 0
	}
	return roundHalfAwayFromZero(seconds * c.SampleRate)
}

// Seconds converts a sample count to timeline seconds. Exact division,
// no rounding.
func (c Clock) Seconds(samples int64) float64 {
	return float64(samples) / c.SampleRate
}

// roundHalfAwayFromZero quantizes to the nearest integer, with ties going
// away from zero: 0.5 → 1, -0.5 → -1.
func roundHalfAwayFromZero(x float64) int64 {
	return int64(math.Copysign(math.Floor(math.Abs(x)+0.5), x))
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
