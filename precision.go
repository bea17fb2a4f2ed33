package ringavg

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Rounding names how a division result is rounded to the requested digits.
type Rounding string

const (
	// RoundHalfEven rounds to nearest, ties to the even digit.
	RoundHalfEven Rounding = "half_even"
	// RoundHalfUp rounds to nearest, ties away from zero.
	RoundHalfUp   Rounding = "half_up"
	// RoundHalfDown rounds to nearest, ties toward zero.
	RoundHalfDown Rounding = "half_down"
	// RoundUp rounds away from zero.
	RoundUp       Rounding = "up"
	// RoundDown truncates toward zero.
	RoundDown     Rounding = "down"
	// RoundCeiling rounds toward positive infinity.
	RoundCeiling  Rounding = "ceiling"
	// RoundFloor rounds toward negative infinity.
	RoundFloor    Rounding = "floor"
	// Round05Up truncates, unless the last kept digit would be 0 or 5, then rounds away from zero.
	Round05Up     Rounding = "05up"
)

var rounders = map[Rounding]apd.Rounder{
	RoundHalfEven: apd.RoundHalfEven,
	RoundHalfUp:   apd.RoundHalfUp,
	RoundHalfDown: apd.RoundHalfDown,
	RoundUp:       apd.RoundUp,
	RoundDown:     apd.RoundDown,
	RoundCeiling:  apd.RoundCeiling,
	RoundFloor:    apd.RoundFloor,
	Round05Up:     apd.Round05Up,
}

// ParseRounding returns the rounding mode called s, ignoring case.
func ParseRounding(s string) (Rounding, error) {
	r := Rounding(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rounders[r]; !ok {
		return "", fmt.Errorf("unknown rounding mode %q: %w", s, ErrInvalidArgument)
	}
	return r, nil
}

// Precision is the number of significant digits and the rounding mode of an average.
type Precision struct {
	Digits   uint32
	Rounding Rounding
}

// Presets matching the IEEE 754 decimal interchange formats.
var (
	// Decimal32 keeps 7 significant digits, rounding half even.
	Decimal32  = Precision{Digits: 7, Rounding: RoundHalfEven}
	// Decimal64 keeps 16 significant digits, rounding half even.
	Decimal64  = Precision{Digits: 16, Rounding: RoundHalfEven}
	// Decimal128 keeps 34 significant digits, rounding half even. It is the default.
	Decimal128 = Precision{Digits: 34, Rounding: RoundHalfEven}
)

var presets = map[string]Precision{
	"decimal32":  Decimal32,
	"decimal64":  Decimal64,
	"decimal128": Decimal128,
}

// ParsePrecision returns the preset called s, ignoring case.
func ParsePrecision(s string) (Precision, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return Precision{}, fmt.Errorf("unknown precision %q: %w", s, ErrInvalidArgument)
	}
	return p, nil
}

// Validate reports whether p can be used to divide.
func (p Precision) Validate() error {
	if p.Digits == 0 {
		return fmt.Errorf("precision needs at least one digit: %w", ErrInvalidArgument)
	}
	if _, ok := rounders[p.Rounding]; !ok {
		return fmt.Errorf("unknown rounding mode %q: %w", p.Rounding, ErrInvalidArgument)
	}
	return nil
}

func (p Precision) String() string {
	return fmt.Sprintf("%d digits, %s", p.Digits, p.Rounding)
}

// exact sums without rounding; a zero precision disables it in apd.
var exact = apd.BaseContext.WithPrecision(0)

func (p Precision) context() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(p.Digits)
	ctx.Rounding = rounders[p.Rounding]
	return ctx
}
