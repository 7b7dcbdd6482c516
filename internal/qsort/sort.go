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
	"math"
)

// Sort a slice in descending order with a middle-pivot quicksort.
// NaNs sort last, as they compare lowest under cmp.Compare.
func SortDesc[T cmp.Ordered](a []T) {
	SortDescFunc(a, cmp.Compare[T])
}

// Sort a slice in descending order of the given total order.
// Recurses into the smaller half and loops on the larger one.
func SortDescFunc[T any](a []T, compare func(x, y T) int) {
	for len(a) > 1 {
		index := partitionDesc(a, compare)
		if index+1 < len(a)-index-1 {
			SortDescFunc(a[:index+1], compare)
			a = a[index+1:]
		} else {
			SortDescFunc(a[index+1:], compare)
			a = a[:index+1]
		}
	}
}

// Partitions a slice with the middle pivot element, and returns the split index.
// Values greater than the pivot are moved left of the split, those less are moved right.
func partitionDesc[T any](a []T, compare func(x, y T) int) int {
	left, right := 0, len(a)-1
	mid := (left + right) >> 1
	pivot := a[mid]
	l := left - 1
	r := right + 1
	for {
		for {
			l++
			if compare(a[l], pivot) <= 0 {
				break
			}
		}
		for {
			r--
			if compare(a[r], pivot) >= 0 {
				break
			}
		}
		if l >= r {
			return r
		}
		a[l], a[r] = a[r], a[l]
	}
}

// Full sort baseline: sorts a copy in descending order and picks rank k.
func KthLargestSort[T cmp.Ordered](a []T, k int) (T, error) {
	var zero T
	if err := checkRank(len(a), k); err != nil {
		return zero, err
	}
	sorted := make([]T, len(a))
	copy(sorted, a)
	SortDesc(sorted)
	return sorted[k-1], nil
}

// Select median of a slice of float64. Does not change the data.
// Returns the upper median for even lengths, NaN for empty input.
func Median(data []float64) float64 {
	return lowRank(data, (len(data)>>1)+1)
}

// Select first quartile of a slice of float64. Does not change the data.
func FirstQuartile(data []float64) float64 {
	return lowRank(data, (len(data)>>2)+1)
}

// Returns the k-th lowest value by translating to a descending rank
func lowRank(data []float64, k int) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	tmp := make([]float64, len(data))
	copy(tmp, data)
	v, err := SelectInPlace(tmp, len(tmp)-k+1, Deterministic, nil)
	if err != nil {
		return math.NaN()
	}
	return v
}
