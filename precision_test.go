package ringavg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRounding(t *testing.T) {
	for in, want := range map[string]Rounding{
		"half_even": RoundHalfEven,
		"HALF_UP":   RoundHalfUp,
		" floor ":   RoundFloor,
		"05up":      Round05Up,
		"Ceiling":   RoundCeiling,
		"half_down": RoundHalfDown,
		"up":        RoundUp,
		"down":      RoundDown,
	} {
		got, err := ParseRounding(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseRounding("bankers")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParsePrecision(t *testing.T) {
	p, err := ParsePrecision("Decimal64")
	require.NoError(t, err)
	assert.Equal(t, Decimal64, p)

	_, err = ParsePrecision("decimal256")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPresetsAreValid(t *testing.T) {
	for _, p := range []Precision{Decimal32, Decimal64, Decimal128} {
		require.NoError(t, p.Validate(), p.String())
	}
	assert.Equal(t, uint32(34), Decimal128.Digits)
	assert.Equal(t, "7 digits, half_even", Decimal32.String())
}
