// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package qsort

import (
	"cmp"
	"container/heap"
)

// Min-heap over a slice, smallest element at index 0
type minHeap[T cmp.Ordered] []T

func (h minHeap[T]) Len() int           { return len(h) }
func (h minHeap[T]) Less(i, j int) bool { return cmp.Less(h[i], h[j]) }
func (h minHeap[T]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *minHeap[T]) Push(x any)        { *h = append(*h, x.(T)) }
func (h *minHeap[T]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Partial heap sort baseline: keeps the k largest elements seen so far in a
// min-heap of size k, and returns its root once all elements are consumed.
// Does not modify a.
func KthLargestHeap[T cmp.Ordered](a []T, k int) (T, error) {
	var zero T
	if err := checkRank(len(a), k); err != nil {
		return zero, err
	}
	h := make(minHeap[T], k)
	copy(h, a[:k])
	heap.Init(&h)
	for _, x := range a[k:] {
		if cmp.Less(h[0], x) {
			h[0] = x
			heap.Fix(&h, 0)
		}
	}
	return h[0], nil
}
