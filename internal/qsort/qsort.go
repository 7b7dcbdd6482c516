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

// Package qsort selects the k-th largest element of a slice without sorting it.
//
// Two pivot policies share one partition routine. The deterministic policy
// always uses the last element of the working range and degrades to quadratic
// time on sorted input. The randomized policy draws the pivot uniformly from
// positions 1..n-1 of the working range and runs in expected linear time on
// any input.
package qsort

import (
	"cmp"

	"github.com/pkg/errors"
)

// Errors returned by the selection functions. Callers test with errors.Is.
var (
	ErrEmptyInput         = errors.New("empty input")
	ErrInvalidRank        = errors.New("invalid rank")
	ErrPartitionInvariant = errors.New("partition invariant violated")
)

// Pivot selection policy
type Policy int

const (
	Deterministic Policy = iota // last element of the working range
	Randomized                  // uniform draw from positions 1..n-1 of the working range
)

func (p Policy) String() string {
	switch p {
	case Deterministic:
		return "deterministic"
	case Randomized:
		return "randomized"
	}
	return "unknown"
}

// Parses a policy name as printed by String. Also accepts "det" and "rand".
// The empty string selects Deterministic.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "deterministic", "det", "last", "":
		return Deterministic, nil
	case "randomized", "rand", "random":
		return Randomized, nil
	}
	return Deterministic, errors.Errorf("unknown pivot policy '%s'", s)
}

// Select returns the element at rank k (1-based) of a sorted in descending order,
// i.e. the k-th largest element. Does not modify a; works on one private copy.
// A nil src with the Randomized policy uses the process-wide fastrand source.
func Select[T cmp.Ordered](a []T, k int, p Policy, src IndexSource) (T, error) {
	return SelectFunc(a, k, cmp.Compare[T], p, src)
}

// SelectFunc is Select with a caller-provided total order. compare returns
// a negative number if x<y, zero if x==y and a positive number if x>y.
func SelectFunc[T any](a []T, k int, compare func(x, y T) int, p Policy, src IndexSource) (T, error) {
	var zero T
	if err := checkRank(len(a), k); err != nil {
		return zero, err
	}
	work := make([]T, len(a))
	copy(work, a)
	return selectLoop(work, k, compare, pivotPicker(p, src), nil)
}

// SelectInPlace is Select without the copy. Partially reorders a, allocates nothing.
func SelectInPlace[T cmp.Ordered](a []T, k int, p Policy, src IndexSource) (T, error) {
	return SelectInPlaceFunc(a, k, cmp.Compare[T], p, src)
}

// SelectInPlaceFunc is SelectFunc without the copy. Partially reorders a.
func SelectInPlaceFunc[T any](a []T, k int, compare func(x, y T) int, p Policy, src IndexSource) (T, error) {
	var zero T
	if err := checkRank(len(a), k); err != nil {
		return zero, err
	}
	return selectLoop(a, k, compare, pivotPicker(p, src), nil)
}

// Validates the caller's rank against the collection length
func checkRank(n, k int) error {
	if n == 0 {
		return errors.Wrapf(ErrEmptyInput, "rank %d requested", k)
	}
	if k < 1 || k > n {
		return errors.Wrapf(ErrInvalidRank, "rank %d outside [1,%d]", k, n)
	}
	return nil
}

// Returns the index of the pivot within a working range of length n>=2
type pivotFunc func(n int) int

func pivotPicker(p Policy, src IndexSource) pivotFunc {
	if p != Randomized {
		return func(n int) int { return n - 1 }
	}
	if src == nil {
		src = FastRand()
	}
	return func(n int) int { return 1 + src.Intn(n-1) }
}

// Records one partition step: working length, len(left), len(right)
type stepObserver func(n, left, right int)

// Iterative selection over a[lo:hi]. Each step partitions the working range into
// left, pivot and right, then either returns the pivot or narrows the range to one
// side with a translated rank.
func selectLoop[T any](a []T, k int, compare func(x, y T) int, pick pivotFunc, observe stepObserver) (T, error) {
	lo, hi := 0, len(a)
	for hi-lo > 1 {
		n := hi - lo
		w := a[lo:hi]
		pos := partition(w, pick(n), compare)

		left, right := pos, n-pos-1
		if observe != nil {
			observe(n, left, right)
		}
		if left+right+1 != n || !placedPivot(w, pos, compare) {
			var zero T
			return zero, errors.Wrapf(ErrPartitionInvariant, "n=%d left=%d right=%d", n, left, right)
		}

		if k <= left {
			hi = lo + left
		} else if k == left+1 {
			return w[pos], nil
		} else {
			k -= left + 1
			lo = lo + pos + 1
		}
	}
	if k != 1 {
		var zero T
		return zero, errors.Wrapf(ErrPartitionInvariant, "rank %d left for a single element", k)
	}
	return a[lo], nil
}

// Checks the neighbours of the placed pivot: the element before it must be
// strictly greater, the last element of the range must not be greater.
func placedPivot[T any](w []T, pos int, compare func(x, y T) int) bool {
	if pos > 0 && compare(w[pos-1], w[pos]) <= 0 {
		return false
	}
	last := len(w) - 1
	if pos < last && compare(w[last], w[pos]) > 0 {
		return false
	}
	return true
}

// Partitions w around the value at index p. Afterwards w[:pos] holds the elements
// strictly greater than the pivot, w[pos] holds the pivot itself and w[pos+1:]
// holds the remaining elements less than or equal to it, duplicates of the pivot
// value included. Returns pos. Keeps the relative order of the greater elements,
// so sorted input stays sorted on the left side.
func partition[T any](w []T, p int, compare func(x, y T) int) (pos int) {
	last := len(w) - 1
	w[p], w[last] = w[last], w[p]
	pivot := w[last]
	for i := 0; i < last; i++ {
		if compare(w[i], pivot) > 0 {
			w[pos], w[i] = w[i], w[pos]
			pos++
		}
	}
	w[pos], w[last] = w[last], w[pos]
	return pos
}
