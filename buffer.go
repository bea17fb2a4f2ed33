// Package ringavg provides a fixed-capacity buffer of numbers that keeps the
// most recently added values and reports their mean as an exact decimal.
package ringavg

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"
	"github.com/gammazero/deque"
	log "github.com/golang/glog"
)

// DefaultCapacity is the capacity of a Buffer built without WithCapacity.
const DefaultCapacity = 5

var (
	// ErrInvalidArgument is returned for a negative capacity, a nil converter or an unusable precision.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmpty is returned when averaging a buffer that holds no values.
	ErrEmpty = errors.New("buffer is empty")
	// ErrIndexOutOfRange is returned by NthElement for positions outside [1, Len()].
	ErrIndexOutOfRange = errors.New("index out of range")
)

type options struct {
	capacity  int
	precision Precision
}

// Option configures a Buffer at construction.
type Option func(*options)

// WithCapacity sets how many values the buffer retains. The default is DefaultCapacity.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithPrecision sets the precision Average uses. The default is Decimal128.
func WithPrecision(p Precision) Option {
	return func(o *options) {
		o.precision = p
	}
}

// Buffer holds at most Cap() values of type T in insertion order. Once full,
// each Add evicts the oldest value.
//
// A Buffer is not safe for concurrent use.
type Buffer[T any] struct {
	capacity  int
	precision Precision
	conv      Converter[T]

	// margin is the number of digits a sum of capacity values can grow by.
	margin int64
	values deque.Deque[entry[T]]
}

// entry keeps a value with the decimal it converted to on Add.
type entry[T any] struct {
	value T
	dec   *apd.Decimal
}

// New returns an empty Buffer whose elements are turned into decimals by conv.
func New[T any](conv Converter[T], opts ...Option) (*Buffer[T], error) {
	cfg := options{
		capacity:  DefaultCapacity,
		precision: Decimal128,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if conv == nil {
		return nil, fmt.Errorf("nil converter: %w", ErrInvalidArgument)
	}
	if cfg.capacity < 0 {
		return nil, fmt.Errorf("capacity must not be negative, got %d: %w", cfg.capacity, ErrInvalidArgument)
	}
	if err := cfg.precision.Validate(); err != nil {
		return nil, fmt.Errorf("default precision: %w", err)
	}

	return &Buffer[T]{
		capacity:  cfg.capacity,
		precision: cfg.precision,
		conv:      conv,
		margin:    int64(len(strconv.Itoa(cfg.capacity))),
	}, nil
}

// NewInts returns a Buffer of integers.
func NewInts[T Integer](opts ...Option) (*Buffer[T], error) {
	return New(IntConverter[T], opts...)
}

// NewFloats returns a Buffer of floats. NaN and infinite values are never stored.
func NewFloats[T Float](opts ...Option) (*Buffer[T], error) {
	return New(FloatConverter[T], opts...)
}

// NewDecimals returns a Buffer of decimals. Nil, NaN and infinite values are never stored.
func NewDecimals(opts ...Option) (*Buffer[*apd.Decimal], error) {
	return New(DecimalConverter, opts...)
}

// Add appends v, evicting the oldest value if the buffer is full. Values the
// converter rejects are dropped without error, as are decimals whose exponent
// is too close to apd's limits to be summed. A zero capacity buffer stays empty.
func (b *Buffer[T]) Add(v T) {
	d, ok := b.conv(v)
	if !ok {
		log.V(2).Infof("ringavg: dropping %v: nil or not finite", v)
		return
	}
	if !b.summable(d) {
		log.V(2).Infof("ringavg: dropping %v: exponent out of range", v)
		return
	}
	if b.capacity == 0 {
		return
	}
	if b.values.Len() == b.capacity {
		b.values.PopFront()
	}
	b.values.PushBack(entry[T]{value: v, dec: d})
}

// summable reports whether a sum of Cap() values like d, and its mean, stay
// inside apd's exponent range.
func (b *Buffer[T]) summable(d *apd.Decimal) bool {
	adjusted := int64(d.Exponent) + int64(d.NumDigits()) - 1
	return adjusted+b.margin <= apd.MaxExponent && int64(d.Exponent)-b.margin >= apd.MinExponent
}

// AddAll adds each value in order.
func (b *Buffer[T]) AddAll(vs ...T) {
	for _, v := range vs {
		b.Add(v)
	}
}

// Average returns the mean of the retained values at the buffer's precision.
func (b *Buffer[T]) Average() (*apd.Decimal, error) {
	return b.AverageWithPrecision(b.precision)
}

// AverageWithPrecision returns the mean of the retained values. The sum is
// exact; only the final division is rounded to p. An exact mean carries no
// trailing zeros below the exponent of the sum, so [9 8 7 6] averages to 7.5.
//
// p is checked before the buffer's contents: an invalid precision fails with
// ErrInvalidArgument even on an empty buffer.
func (b *Buffer[T]) AverageWithPrecision(p Precision) (*apd.Decimal, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := b.values.Len()
	if n == 0 {
		return nil, fmt.Errorf("cannot average: %w", ErrEmpty)
	}

	sum := new(apd.Decimal)
	for i := 0; i < n; i++ {
		if _, err := exact.Add(sum, sum, b.values.At(i).dec); err != nil {
			return nil, fmt.Errorf("failed to sum element %d: %w", i+1, err)
		}
	}

	ctx := p.context()
	avg := new(apd.Decimal)
	cond, err := ctx.Quo(avg, sum, apd.New(int64(n), 0))
	if err != nil {
		return nil, fmt.Errorf("failed to divide sum %s by %d: %w", sum, n, err)
	}
	if cond.Inexact() || avg.Exponent >= sum.Exponent {
		return avg, nil
	}

	reduced := new(apd.Decimal)
	reduced.Reduce(avg)
	if reduced.Exponent <= sum.Exponent {
		return reduced, nil
	}
	// Only zeros are dropped, so this never rounds.
	if _, err := ctx.Quantize(avg, avg, sum.Exponent); err != nil {
		return nil, fmt.Errorf("failed to trim %s: %w", avg, err)
	}
	return avg, nil
}

// NthElement returns the n-th oldest retained value, counting from 1.
func (b *Buffer[T]) NthElement(n int) (T, error) {
	if n < 1 || n > b.values.Len() {
		var zero T
		return zero, fmt.Errorf("position %d not in [1, %d]: %w", n, b.values.Len(), ErrIndexOutOfRange)
	}
	return b.values.At(n - 1).value, nil
}

// AllElements returns a copy of the retained values, oldest first.
func (b *Buffer[T]) AllElements() []T {
	out := make([]T, b.values.Len())
	for i := range out {
		out[i] = b.values.At(i).value
	}
	return out
}

// Len returns the number of retained values.
func (b *Buffer[T]) Len() int {
	return b.values.Len()
}

// Cap returns the maximum number of retained values.
func (b *Buffer[T]) Cap() int {
	return b.capacity
}

// Precision returns the precision Average uses.
func (b *Buffer[T]) Precision() Precision {
	return b.precision
}
