package kernel

import "sort"

// HIndex computes the h-index over a set of citation counts: the largest i
// such that the i-th ranked (1-indexed, descending) entry has at least i
// citations.
func HIndex(citations []int) int {
	sorted := append([]int(nil), citations...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	h := 0
	for i, c := range sorted {
		rank := i + 1
		if c >= rank {
			h = rank
		} else {
			break
		}
	}
	return h
}
