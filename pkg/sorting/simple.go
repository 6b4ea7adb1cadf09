package sorting

import (
	"iter"

	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

type bubbleSorter struct{}

func (bubbleSorter) Name() Algorithm { return Bubble }

// Run emits one event per compared pair: swapped when the pair was out of
// order and exchanged, compared otherwise. There is no early exit, so an
// array of n elements always produces n(n-1)/2 events.
func (bubbleSorter) Run(values []int) iter.Seq[step.Event] {
	return sequence(values, func(em *emitter) {
		arr := em.array
		n := len(arr)

		for i := range n {
			for j := 0; j < n-i-1; j++ {
				role := step.RoleCompared

				if arr[j] > arr[j+1] {
					arr[j], arr[j+1] = arr[j+1], arr[j]
					role = step.RoleSwapped
				}

				if !em.emit(step.Pair(role, j, j+1)) {
					return
				}
			}
		}
	})
}

type selectionSorter struct{}

func (selectionSorter) Name() Algorithm { return Selection }

// Run scans silently for the minimum of the unsorted suffix and emits a
// single swapped event per position, including self-swaps.
func (selectionSorter) Run(values []int) iter.Seq[step.Event] {
	return sequence(values, func(em *emitter) {
		arr := em.array
		n := len(arr)

		for i := range n {
			minIdx := i

			for j := i + 1; j < n; j++ {
				if arr[j] < arr[minIdx] {
					minIdx = j
				}
			}

			arr[i], arr[minIdx] = arr[minIdx], arr[i]

			if !em.emit(step.Pair(step.RoleSwapped, i, minIdx)) {
				return
			}
		}
	})
}

type insertionSorter struct{}

func (insertionSorter) Name() Algorithm { return Insertion }

// Run shifts larger elements right without emitting, then places the key
// and emits swapped on {j+1, i}, where i is the key's source position.
func (insertionSorter) Run(values []int) iter.Seq[step.Event] {
	return sequence(values, func(em *emitter) {
		arr := em.array

		for i := 1; i < len(arr); i++ {
			key := arr[i]
			j := i - 1

			for j >= 0 && key < arr[j] {
				arr[j+1] = arr[j]
				j--
			}

			arr[j+1] = key

			if !em.emit(step.Pair(step.RoleSwapped, j+1, i)) {
				return
			}
		}
	})
}
