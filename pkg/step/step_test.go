package step_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

func TestNew_FreezesSnapshot(t *testing.T) {
	t.Parallel()

	arr := []int{3, 1, 2}
	roles := step.Pair(step.RoleSwapped, 0, 1)

	ev := step.New(0, arr, roles)

	arr[0] = 99
	roles[2] = step.RolePivot

	assert.Equal(t, []int{3, 1, 2}, ev.Snapshot)
	assert.Len(t, ev.Roles, 2)
	assert.Equal(t, step.RoleNone, ev.RoleAt(2))
}

func TestEvent_RoleAtAndIndices(t *testing.T) {
	t.Parallel()

	ev := step.New(4, []int{1, 2, 3, 4}, step.Span(step.RoleMergedRange, 1, 3))

	assert.Equal(t, 4, ev.Len())
	assert.Equal(t, step.RoleNone, ev.RoleAt(0))
	assert.Equal(t, step.RoleMergedRange, ev.RoleAt(2))
	assert.Equal(t, []int{1, 2, 3}, ev.Indices(step.RoleMergedRange))
	assert.Empty(t, ev.Indices(step.RolePivot))
}

func TestPair_SameIndex(t *testing.T) {
	t.Parallel()

	roles := step.Pair(step.RoleSwapped, 2, 2)

	assert.Equal(t, map[int]step.Role{2: step.RoleSwapped}, roles)
}

func TestEvent_Validate(t *testing.T) {
	t.Parallel()

	ok := step.New(0, []int{1, 2}, step.Pair(step.RoleCompared, 0, 1))
	require.NoError(t, ok.Validate())

	bad := step.New(1, []int{1, 2}, map[int]step.Role{2: step.RolePivot})
	require.ErrorIs(t, bad.Validate(), step.ErrIndexOutOfRange)

	negative := step.New(2, []int{1}, map[int]step.Role{-1: step.RolePivot})
	require.ErrorIs(t, negative.Validate(), step.ErrIndexOutOfRange)
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, r := range step.Roles() {
		got, err := step.ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := step.ParseRole("highlighted")
	require.ErrorIs(t, err, step.ErrUnknownRole)
}
