package ringavg

import (
	"math"
	"strconv"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/exp/constraints"
)

// Integer is satisfied by every built-in integer type.
type Integer = constraints.Integer

// Float is satisfied by float32 and float64.
type Float = constraints.Float

// Converter returns the exact decimal value of v, or false if v must not be
// stored in a Buffer.
type Converter[T any] func(v T) (*apd.Decimal, bool)

// IntConverter accepts every integer.
func IntConverter[T Integer](v T) (*apd.Decimal, bool) {
	var s string
	if signed := ^T(0) < 0; signed {
		s = strconv.FormatInt(int64(v), 10)
	} else {
		s = strconv.FormatUint(uint64(v), 10)
	}
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, false
	}
	return d, true
}

// FloatConverter rejects NaN and infinities. A finite value is read from its
// shortest decimal text at the type's own width, so float32(0.1) is 0.1.
func FloatConverter[T Float](v T) (*apd.Decimal, bool) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	d, _, err := apd.NewFromString(strconv.FormatFloat(f, 'g', -1, floatBits[T]()))
	if err != nil {
		return nil, false
	}
	return d, true
}

// DecimalConverter rejects nil, NaN and infinite decimals.
func DecimalConverter(v *apd.Decimal) (*apd.Decimal, bool) {
	if v == nil || v.Form != apd.Finite {
		return nil, false
	}
	return new(apd.Decimal).Set(v), true
}

// floatBits is 32 when T overflows at twice MaxFloat32.
func floatBits[T Float]() int {
	x := T(math.MaxFloat32)
	x *= 2
	if math.IsInf(float64(x), 0) {
		return 32
	}
	return 64
}
