package safeconv_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/sortviz/pkg/safeconv"
)

func TestByteCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(42), safeconv.ByteCount(42))
	assert.Equal(t, uint64(0), safeconv.ByteCount(0))
	assert.Equal(t, uint64(0), safeconv.ByteCount(int64(-7)))
	assert.Equal(t, uint64(math.MaxInt64), safeconv.ByteCount(int64(math.MaxInt64)))
}

func TestInt64(t *testing.T) {
	t.Parallel()

	got, ok := safeconv.Int64(1 << 20)
	assert.True(t, ok)
	assert.Equal(t, int64(1<<20), got)

	got, ok = safeconv.Int64(math.MaxInt64)
	assert.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64), got)

	_, ok = safeconv.Int64(math.MaxInt64 + 1)
	assert.False(t, ok)
}
