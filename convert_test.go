package ringavg

import (
	"math"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntConverter(t *testing.T) {
	d, ok := IntConverter(int8(-128))
	require.True(t, ok)
	assert.Equal(t, "-128", d.String())

	d, ok = IntConverter(uint64(math.MaxUint64))
	require.True(t, ok)
	assert.Equal(t, "18446744073709551615", d.String())

	d, ok = IntConverter(int64(math.MinInt64))
	require.True(t, ok)
	assert.Equal(t, "-9223372036854775808", d.String())
}

func TestFloatConverterUsesShortestText(t *testing.T) {
	d, ok := FloatConverter(float32(0.1))
	require.True(t, ok)
	assert.Zero(t, d.Cmp(dec(t, "0.1")), d.String())

	d, ok = FloatConverter(0.1)
	require.True(t, ok)
	assert.Zero(t, d.Cmp(dec(t, "0.1")), d.String())

	d, ok = FloatConverter(float64(float32(0.1)))
	require.True(t, ok)
	assert.NotZero(t, d.Cmp(dec(t, "0.1")), d.String())
}

func TestFloatConverterRejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, ok := FloatConverter(f)
		assert.False(t, ok, f)
	}
}

type celsius float32

func TestFloatBits(t *testing.T) {
	assert.Equal(t, 32, floatBits[float32]())
	assert.Equal(t, 32, floatBits[celsius]())
	assert.Equal(t, 64, floatBits[float64]())
}

func TestDecimalConverterCopies(t *testing.T) {
	in := dec(t, "1.25")
	d, ok := DecimalConverter(in)
	require.True(t, ok)
	assert.NotSame(t, in, d)
	assert.Zero(t, in.Cmp(d))

	_, ok = DecimalConverter(nil)
	assert.False(t, ok)
	_, ok = DecimalConverter(&apd.Decimal{Form: apd.NaN})
	assert.False(t, ok)
}
