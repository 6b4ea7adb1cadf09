// Package sorting implements the traced sort engine: five classic comparison
// sorts that run over a private copy of their input and expose every
// observable moment as a lazy sequence of step events.
package sorting

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

// Algorithm identifies one sort variant by its canonical id.
type Algorithm string

// Supported algorithms, in menu order.
const (
	Bubble    Algorithm = "bubble"
	Selection Algorithm = "selection"
	Insertion Algorithm = "insertion"
	Merge     Algorithm = "merge"
	Quick     Algorithm = "quick"
)

// DefaultAlgorithm is the variant preselected by configuration defaults.
// Lookup never falls back to it.
const DefaultAlgorithm = Bubble

// ErrUnknownAlgorithm is returned when a name matches none of the variants.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

var displayNames = map[Algorithm]string{
	Bubble:    "Bubble Sort",
	Selection: "Selection Sort",
	Insertion: "Insertion Sort",
	Merge:     "Merge Sort",
	Quick:     "Quick Sort",
}

// DisplayName returns the human-facing label, e.g. "Merge Sort".
func (a Algorithm) DisplayName() string {
	if name, ok := displayNames[a]; ok {
		return name
	}

	return string(a)
}

// Granularity describes which operations of the variant are observable.
func (a Algorithm) Granularity() string {
	switch a {
	case Bubble:
		return "every comparison"
	case Selection:
		return "one swap per position"
	case Insertion:
		return "one placement per key"
	case Merge:
		return "one event per merged range"
	case Quick:
		return "one event per pivot placement"
	default:
		return ""
	}
}

// EventBound states how many events a run over n elements emits.
func (a Algorithm) EventBound() string {
	switch a {
	case Bubble:
		return "n(n-1)/2"
	case Selection:
		return "n"
	case Insertion, Merge:
		return "n-1"
	case Quick:
		return "at most n-1"
	default:
		return ""
	}
}

// Algorithms lists every supported variant in menu order.
func Algorithms() []Algorithm {
	return []Algorithm{Bubble, Selection, Insertion, Merge, Quick}
}

// Sorter is the common contract of all variants.
//
// Run captures a copy of values and returns a finite, ordered sequence of
// events. The caller's slice is never modified. Each iteration of the
// returned sequence re-runs the sort from the captured input; stopping early
// abandons the run with no background work left behind.
type Sorter interface {
	Name() Algorithm
	Run(values []int) iter.Seq[step.Event]
}

// New returns the sorter for a canonical algorithm id.
func New(algo Algorithm) (Sorter, error) {
	switch algo {
	case Bubble:
		return bubbleSorter{}, nil
	case Selection:
		return selectionSorter{}, nil
	case Insertion:
		return insertionSorter{}, nil
	case Merge:
		return mergeSorter{}, nil
	case Quick:
		return quickSorter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownAlgorithm, string(algo), availableList())
	}
}

// Lookup resolves a user-supplied name to a sorter. Canonical ids, display
// names and the "<name>sort" spelling are accepted regardless of case,
// spacing, dashes or underscores.
func Lookup(name string) (Sorter, error) {
	algo, err := ParseAlgorithm(name)
	if err != nil {
		return nil, err
	}

	return New(algo)
}

// ParseAlgorithm normalizes a user-supplied name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	key := normalize(name)

	for _, algo := range Algorithms() {
		if key == string(algo) {
			return algo, nil
		}
	}

	return "", fmt.Errorf("%w: %q (available: %s)", ErrUnknownAlgorithm, name, availableList())
}

func normalize(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)

	if trimmed := strings.TrimSuffix(key, "sort"); trimmed != "" {
		key = trimmed
	}

	return key
}

func availableList() string {
	names := make([]string, 0, len(displayNames))
	for _, algo := range Algorithms() {
		names = append(names, string(algo))
	}

	return strings.Join(names, ", ")
}
