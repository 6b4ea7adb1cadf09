package sorting

import (
	"iter"
	"slices"

	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

type mergeSorter struct{}

func (mergeSorter) Name() Algorithm { return Merge }

// Run performs a top-down merge sort and emits one merged_range event after
// each merge, covering [left, right]. The last event spans the whole array.
func (mergeSorter) Run(values []int) iter.Seq[step.Event] {
	return sequence(values, func(em *emitter) {
		mergeSort(em, 0, len(em.array)-1)
	})
}

func mergeSort(em *emitter, left, right int) bool {
	if left >= right {
		return true
	}

	mid := (left + right) / 2

	if !mergeSort(em, left, mid) || !mergeSort(em, mid+1, right) {
		return false
	}

	mergeRuns(em.array, left, mid, right)

	return em.emit(step.Span(step.RoleMergedRange, left, right))
}

// mergeRuns merges the sorted runs [left, mid] and [mid+1, right] in place.
// Ties take from the left run, which keeps the sort stable.
func mergeRuns(arr []int, left, mid, right int) {
	lhs := slices.Clone(arr[left : mid+1])
	rhs := slices.Clone(arr[mid+1 : right+1])

	li, ri, w := 0, 0, left

	for li < len(lhs) && ri < len(rhs) {
		if lhs[li] <= rhs[ri] {
			arr[w] = lhs[li]
			li++
		} else {
			arr[w] = rhs[ri]
			ri++
		}

		w++
	}

	w += copy(arr[w:], lhs[li:])
	copy(arr[w:], rhs[ri:])
}

type quickSorter struct{}

func (quickSorter) Name() Algorithm { return Quick }

// Run performs quicksort with Lomuto partitioning. Only the final pivot
// placement of each partition is observable.
func (quickSorter) Run(values []int) iter.Seq[step.Event] {
	return sequence(values, func(em *emitter) {
		quickSort(em, 0, len(em.array)-1)
	})
}

func quickSort(em *emitter, low, high int) bool {
	if low >= high {
		return true
	}

	p := partition(em.array, low, high)

	if !em.emit(map[int]step.Role{p: step.RolePivot}) {
		return false
	}

	return quickSort(em, low, p-1) && quickSort(em, p+1, high)
}

// partition places arr[high] at its final position and returns that index.
func partition(arr []int, low, high int) int {
	pivot := arr[high]
	i := low - 1

	for j := low; j < high; j++ {
		if arr[j] < pivot {
			i++
			arr[i], arr[j] = arr[j], arr[i]
		}
	}

	arr[i+1], arr[high] = arr[high], arr[i+1]

	return i + 1
}
