// Package step defines the observable unit of a sort trace: a frozen array
// snapshot plus the roles highlighted on some of its indices.
package step

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Role is the visualization category of an array index at a given step.
type Role string

// Supported roles. Indices absent from an event's role map are RoleNone.
const (
	RoleNone        Role = "none"
	RoleCompared    Role = "compared"
	RoleSwapped     Role = "swapped"
	RolePivot       Role = "pivot"
	RoleMergedRange Role = "merged_range"
)

// ErrUnknownRole is returned by ParseRole for text outside the role set.
var ErrUnknownRole = errors.New("unknown role")

// ErrIndexOutOfRange is returned by Event.Validate when a role key falls
// outside the snapshot.
var ErrIndexOutOfRange = errors.New("role index out of range")

// Roles lists every role in legend order.
func Roles() []Role {
	return []Role{RoleNone, RoleCompared, RoleSwapped, RolePivot, RoleMergedRange}
}

// ParseRole converts text to a Role.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles() {
		if string(r) == s {
			return r, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Event is one immutable instant of a sort trace.
//
// Snapshot is a private copy of the working array taken at emission time;
// later in-place mutation of the array never reaches it. Callers must treat
// both Snapshot and Roles as read-only.
type Event struct {
	Index    int          `json:"index"    yaml:"index"`
	Snapshot []int        `json:"snapshot" yaml:"snapshot"`
	Roles    map[int]Role `json:"roles"    yaml:"roles"`
}

// New builds an Event, copying the array so the caller may keep mutating it.
func New(index int, array []int, roles map[int]Role) Event {
	frozen := make(map[int]Role, len(roles))
	maps.Copy(frozen, roles)

	return Event{
		Index:    index,
		Snapshot: slices.Clone(array),
		Roles:    frozen,
	}
}

// Len returns the snapshot length.
func (e Event) Len() int {
	return len(e.Snapshot)
}

// RoleAt returns the role of index i, RoleNone when unlisted.
func (e Event) RoleAt(i int) Role {
	if r, ok := e.Roles[i]; ok {
		return r
	}

	return RoleNone
}

// Indices returns the sorted indices carrying the given role.
func (e Event) Indices(role Role) []int {
	var out []int

	for i, r := range e.Roles {
		if r == role {
			out = append(out, i)
		}
	}

	slices.Sort(out)

	return out
}

// Validate checks that every role key lies within the snapshot.
func (e Event) Validate() error {
	for i := range e.Roles {
		if i < 0 || i >= len(e.Snapshot) {
			return fmt.Errorf("%w: event %d index %d (len %d)", ErrIndexOutOfRange, e.Index, i, len(e.Snapshot))
		}
	}

	return nil
}

// Pair builds a role map assigning role to both a and b.
// When a == b the map holds a single key.
func Pair(role Role, a, b int) map[int]Role {
	return map[int]Role{a: role, b: role}
}

// Span builds a role map assigning role to every index in [lo, hi].
func Span(role Role, lo, hi int) map[int]Role {
	roles := make(map[int]Role, hi-lo+1)
	for i := lo; i <= hi; i++ {
		roles[i] = role
	}

	return roles
}
