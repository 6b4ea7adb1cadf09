// Package tracediff compares two recorded traces line by line, one line per event.
package tracediff

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

// DefaultTimeout bounds the diff computation.
const DefaultTimeout = 5 * time.Second

// Result summarizes the difference between two traces.
type Result struct {
	// Equal, Inserted and Deleted count lines; header lines included.
	Equal    int
	Inserted int
	Deleted  int
	// FirstDivergence is the index of the first event that differs, or -1
	// when every event matches.
	FirstDivergence int
	// Text is the full line diff, each line prefixed by ' ', '+' or '-'.
	Text string
}

// Identical reports whether both traces rendered to the same text.
func (r Result) Identical() bool {
	return r.Inserted == 0 && r.Deleted == 0
}

// Diff compares a (old) against b (new).
func Diff(a, b *sorting.Trace) Result {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = DefaultTimeout

	src, dst, lines := dmp.DiffLinesToRunes(Render(a), Render(b))
	diffs := dmp.DiffMainRunes(src, dst, false)

	res := Result{FirstDivergence: firstDivergence(a.Events, b.Events)}

	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			res.Equal += n
		case diffmatchpatch.DiffInsert:
			res.Inserted += n
		case diffmatchpatch.DiffDelete:
			res.Deleted += n
		}
	}

	res.Text = unified(dmp.DiffCharsToLines(diffs, lines))

	return res
}

// Render formats a trace as text: a header with the algorithm and input,
// one line per event, and the final array.
func Render(t *sorting.Trace) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "algorithm %s\n", t.Algorithm)
	fmt.Fprintf(&sb, "input %s\n", formatValues(t.Input))

	for _, ev := range t.Events {
		sb.WriteString(EventLine(ev))
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "final %s\n", formatValues(t.Final))

	return sb.String()
}

// EventLine formats one event as "#idx roles | snapshot".
func EventLine(ev step.Event) string {
	keys := make([]int, 0, len(ev.Roles))
	for i := range ev.Roles {
		keys = append(keys, i)
	}

	slices.Sort(keys)

	roles := make([]string, len(keys))
	for n, i := range keys {
		roles[n] = strconv.Itoa(i) + ":" + string(ev.Roles[i])
	}

	return fmt.Sprintf("#%d %s | %s", ev.Index, strings.Join(roles, ","), formatValues(ev.Snapshot))
}

func formatValues(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}

	return "[" + strings.Join(parts, " ") + "]"
}

func firstDivergence(a, b []step.Event) int {
	for i := range min(len(a), len(b)) {
		if EventLine(a[i]) != EventLine(b[i]) {
			return i
		}
	}

	if len(a) != len(b) {
		return min(len(a), len(b))
	}

	return -1
}

func unified(diffs []diffmatchpatch.Diff) string {
	var sb strings.Builder

	for _, d := range diffs {
		prefix := " "

		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffEqual:
		}

		for line := range strings.Lines(d.Text) {
			sb.WriteString(prefix)
			sb.WriteString(line)
		}
	}

	return sb.String()
}
