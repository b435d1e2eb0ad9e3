package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_KeyOrder(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{
		"zebra": int64(1),
		"alpha": int64(2),
		"mango": int64(3),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"mango":3,"zebra":1}`, string(data))
}

func TestMarshalCanonical_Deterministic(t *testing.T) {
	doc := map[string]any{
		"b": []any{"x", int64(1), true},
		"a": map[string]any{"nested": 0.5},
	}

	first, err := MarshalCanonical(doc)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := MarshalCanonical(doc)
		require.NoError(t, err)
		assert.Equal(t, first, again, "iteration %d", i)
	}
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{"s": "<a> & </a>"})
	require.NoError(t, err)
	assert.Equal(t, `{"s":"<a> & </a>"}`, string(data))
}

func TestMarshalCanonical_ControlCharEscaping(t *testing.T) {
	data, err := MarshalCanonical("line1\nline2\ttab\x01end")
	require.NoError(t, err)
	assert.Equal(t, `"line1\nline2\ttab\u0001end"`, string(data))
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// "é" as e + combining acute vs precomposed must encode identically.
	decomposed, err := MarshalCanonical("é")
	require.NoError(t, err)
	precomposed, err := MarshalCanonical("é")
	require.NoError(t, err)
	assert.Equal(t, precomposed, decomposed)
}

func TestMarshalCanonical_Floats(t *testing.T) {
	cases := map[float64]string{
		0:        "0",
		1:        "1",
		-1:       "-1",
		0.5:      "0.5",
		2.5:      "2.5",
		-0.125:   "-0.125",
		48000:    "48000",
		1e21:     "1e+21",
		0.000001: "1e-06",
	}
	for f, want := range cases {
		data, err := MarshalCanonical(f)
		require.NoError(t, err)
		assert.Equal(t, want, string(data), "float %v", f)
	}
}

func TestMarshalCanonical_NegativeZeroCollapses(t *testing.T) {
	data, err := MarshalCanonical(math.Copysign(0, -1))
	require.NoError(t, err)
	assert.Equal(t, "0", string(data))
}

func TestMarshalCanonical_NonFiniteFloatErrors(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := MarshalCanonical(f)
		assert.Error(t, err, "float %v", f)
	}
}

func TestMarshalCanonical_NullForbidden(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"k": nil})
	assert.Error(t, err)
}

func TestMarshalCanonical_UnsupportedType(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	assert.Error(t, err)
}

func TestMarshalCanonical_Integers(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{
		"i":   -42,
		"i64": int64(1 << 40),
		"u64": uint64(math.MaxUint64),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"i":-42,"i64":1099511627776,"u64":18446744073709551615}`, string(data))
}

func TestCompareUTF16_SupplementaryPlane(t *testing.T) {
	// U+FF61 (halfwidth ideographic full stop) is one UTF-16 unit 0xFF61;
	// U+10000 encodes as the surrogate pair D800 DC00. In UTF-16 order the
	// supplementary character sorts first, the reverse of UTF-8 byte order.
	assert.Equal(t, -1, compareUTF16("\U00010000", "｡"))
	assert.Equal(t, 1, compareUTF16("｡", "\U00010000"))
	assert.Equal(t, 0, compareUTF16("abc", "abc"))
	assert.Equal(t, -1, compareUTF16("ab", "abc"), "prefix sorts first")
}
