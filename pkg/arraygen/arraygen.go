// Package arraygen produces the integer arrays that sort runs operate on,
// either drawn at random within bounds or parsed from user input.
package arraygen

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// Default value bounds, inclusive.
const (
	DefaultMin = 1
	DefaultMax = 100
)

// Sentinel errors.
var (
	ErrInvalidSize  = errors.New("array size must be a positive integer")
	ErrInvalidRange = errors.New("minimum value exceeds maximum value")
	ErrInvalidValue = errors.New("array value must be an integer")
)

// Generator draws uniformly distributed values in [Min, Max].
// A non-zero Seed makes the output reproducible.
type Generator struct {
	Min  int
	Max  int
	Seed uint64
}

// NewGenerator returns a generator with the default bounds.
func NewGenerator(seed uint64) Generator {
	return Generator{Min: DefaultMin, Max: DefaultMax, Seed: seed}
}

// Generate returns size random values using the default bounds and a
// time-based seed.
func Generate(size int) ([]int, error) {
	return NewGenerator(0).Generate(size)
}

// Generate returns a fresh array of size values.
func (g Generator) Generate(size int) ([]int, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	if g.Min > g.Max {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidRange, g.Min, g.Max)
	}

	rng := g.source()

	// Unsigned arithmetic keeps wide bounds exact. Zero means [Min, Max]
	// covers every int and any draw is in range.
	span := uint64(g.Max) - uint64(g.Min) + 1 //nolint:gosec // two's complement difference.

	values := make([]int, size)
	for i := range values {
		var offset uint64
		if span == 0 {
			offset = rng.Uint64()
		} else {
			offset = rng.Uint64N(span)
		}

		values[i] = g.Min + int(offset) //nolint:gosec // wraps back into [Min, Max].
	}

	return values, nil
}

func (g Generator) source() *rand.Rand {
	seed := g.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint:gosec // wall clock is a seed, not a secret.
	}

	return rand.New(rand.NewPCG(seed, seed>>1|1)) //nolint:gosec // visualization data, not security sensitive.
}

// ParseSize parses a requested array size from text, rejecting anything
// that is not a positive integer.
func ParseSize(text string) (int, error) {
	size, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, text)
	}

	if size <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	return size, nil
}

// ParseValues parses explicit values separated by commas and/or whitespace.
// An empty string yields an empty array.
func ParseValues(text string) ([]int, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	values := make([]int, 0, len(fields))

	for _, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidValue, field)
		}

		values = append(values, v)
	}

	return values, nil
}
