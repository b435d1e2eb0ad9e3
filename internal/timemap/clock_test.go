package timemap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_NewClock(t *testing.T) {
	c := NewClock(44100)
	assert.Equal(t, 44100.0, c.SampleRate)
}

func TestClock_NewClock_BadRateFallsBack(t *testing.T) {
	for _, rate := range []float64{0, -48000, math.NaN(), math.Inf(1)} {
		c := NewClock(rate)
		assert.Equal(t, float64(DefaultSampleRate), c.SampleRate, "rate %v should fall back", rate)
	}
}

func TestClock_SampleTime_RoundsHalfAwayFromZero(t *testing.T) {
	c := NewClock(1000)

	// 0.0005s * 1000Hz = 0.5 samples, a tie: rounds away from zero.
	assert.Equal(t, int64(1), c.SampleTime(0.0005))
	assert.Equal(t, int64(2), c.SampleTime(0.0015))
	assert.Equal(t, int64(1), c.SampleTime(0.0014))
	assert.Equal(t, int64(2), c.SampleTime(0.0016))
}

func TestClock_SampleTime_NegativeClampsToZero(t *testing.T) {
	c := NewClock(48000)
	assert.Equal(t, int64(0), c.SampleTime(-1))
	assert.Equal(t, int64(0), c.SampleTime(-0.0001))
	assert.Equal(t, int64(0), c.SampleTime(0))
}

func TestClock_SampleTime_NonFiniteClampsToZero(t *testing.T) {
	c := NewClock(48000)
	assert.Equal(t, int64(0), c.SampleTime(math.NaN()))
	assert.Equal(t, int64(0), c.SampleTime(math.Inf(1)))
	assert.Equal(t, int64(0), c.SampleTime(math.Inf(-1)))
}

func TestClock_SampleTime_ExactSeconds(t *testing.T) {
	c := NewClock(48000)
	assert.Equal(t, int64(48000), c.SampleTime(1))
	assert.Equal(t, int64(24000), c.SampleTime(0.5))
	assert.Equal(t, int64(120000), c.SampleTime(2.5))
}

func TestClock_Seconds_ExactDivision(t *testing.T) {
	c := NewClock(48000)
	assert.Equal(t, 1.0, c.Seconds(48000))
	assert.Equal(t, 0.5, c.Seconds(24000))
	assert.Equal(t, -1.0, c.Seconds(-48000))
}

func TestClock_RoundTrip_SampleAligned(t *testing.T) {
	c := NewClock(48000)

	// Sample-aligned values survive samples → seconds → samples exactly.
	for _, samples := range []int64{0, 1, 479, 48000, 48001, 1234567} {
		assert.Equal(t, samples, c.SampleTime(c.Seconds(samples)), "samples %d", samples)
	}
}

func TestRoundHalfAwayFromZero_Ties(t *testing.T) {
	assert.Equal(t, int64(1), roundHalfAwayFromZero(0.5))
	assert.Equal(t, int64(-1), roundHalfAwayFromZero(-0.5))
	assert.Equal(t, int64(2), roundHalfAwayFromZero(1.5))
	assert.Equal(t, int64(-2), roundHalfAwayFromZero(-1.5))
	assert.Equal(t, int64(0), roundHalfAwayFromZero(0.49))
	assert.Equal(t, int64(0), roundHalfAwayFromZero(-0.49))
}
