// Package safeconv converts between signed and unsigned byte counts without
// silent wraparound.
package safeconv

import "math"

// ByteCount converts a signed size to the unsigned form humanize expects.
// Negative sizes clamp to zero.
func ByteCount[T ~int | ~int64](v T) uint64 {
	if v < 0 {
		return 0
	}

	return uint64(v)
}

// Int64 converts an unsigned size to int64, reporting false when it does
// not fit.
func Int64(v uint64) (int64, bool) {
	if v > math.MaxInt64 {
		return 0, false
	}

	return int64(v), true
}
