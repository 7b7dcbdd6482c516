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

// Package gen generates synthetic inputs and ranks for selection experiments.
package gen

import (
	"github.com/pkg/errors"
	"github.com/valyala/fastrand"
)

// Upper bound for random values, as in the reference experiments
const DefaultMaxValue = 1000000

// Order of a generated input
type Order string

const (
	OrderRandom       Order = "random"
	OrderAscending    Order = "sorted"
	OrderDescending   Order = "reversed"
	OrderNearlySorted Order = "nearlySorted"
	OrderFewDistinct  Order = "fewDistinct"
)

var Orders = []Order{OrderRandom, OrderAscending, OrderDescending, OrderNearlySorted, OrderFewDistinct}

// Rank scenario for choosing k relative to n
type Scenario string

const (
	RankSmall  Scenario = "k_small"
	RankMiddle Scenario = "k_middle"
	RankLarge  Scenario = "k_large"
	RankRandom Scenario = "k_random"
)

var Scenarios = []Scenario{RankSmall, RankMiddle, RankLarge, RankRandom}

// Fixed k for the small rank scenario
const SmallRank = 10

// Creates an RNG. A zero seed gives a randomly seeded generator.
func NewRNG(seed uint32) *fastrand.RNG {
	rng := &fastrand.RNG{}
	if seed != 0 {
		rng.Seed(seed)
	}
	return rng
}

// Uniform random values in [1,maxValue]
func Random(rng *fastrand.RNG, n, maxValue int) []int {
	a := make([]int, n)
	for i := range a {
		a[i] = 1 + int(rng.Uint32n(uint32(maxValue)))
	}
	return a
}

// The values 0..n-1 in ascending order, the deterministic pivot's worst case
func Ascending(n int) []int {
	a := make([]int, n)
	for i := range a {
		a[i] = i
	}
	return a
}

// The values n-1..0 in descending order
func Descending(n int) []int {
	a := make([]int, n)
	for i := range a {
		a[i] = n - 1 - i
	}
	return a
}

// Ascending values with the given number of random transpositions of two
// distinct positions. swaps<0 picks n/100, at least one.
func NearlySorted(rng *fastrand.RNG, n, swaps int) []int {
	a := Ascending(n)
	if n < 2 {
		return a
	}
	if swaps < 0 {
		swaps = n / 100
		if swaps < 1 {
			swaps = 1
		}
	}
	for s := 0; s < swaps; s++ {
		i, j := rng.Uint32n(uint32(n)), rng.Uint32n(uint32(n))
		for j == i {
			j = rng.Uint32n(uint32(n))
		}
		a[i], a[j] = a[j], a[i]
	}
	return a
}

// Random values drawn from only the given number of distinct values
func FewDistinct(rng *fastrand.RNG, n, distinct int) []int {
	if distinct < 1 {
		distinct = 1
	}
	return Random(rng, n, distinct)
}

// Generates an input of given order and length
func Generate(rng *fastrand.RNG, order Order, n int) ([]int, error) {
	if n < 0 {
		return nil, errors.Errorf("negative input length %d", n)
	}
	switch order {
	case OrderRandom, "":
		return Random(rng, n, DefaultMaxValue), nil
	case OrderAscending:
		return Ascending(n), nil
	case OrderDescending:
		return Descending(n), nil
	case OrderNearlySorted:
		return NearlySorted(rng, n, -1), nil
	case OrderFewDistinct:
		return FewDistinct(rng, n, 10), nil
	}
	return nil, errors.Errorf("unknown input order '%s'", order)
}

// Picks a rank for the given scenario and input length n>=1
func Rank(rng *fastrand.RNG, scenario Scenario, n int) (int, error) {
	if n < 1 {
		return 0, errors.Errorf("no valid rank for input length %d", n)
	}
	switch scenario {
	case RankSmall:
		if n < SmallRank {
			return n, nil
		}
		return SmallRank, nil
	case RankMiddle:
		return max(1, n/2), nil
	case RankLarge:
		return max(1, n-10), nil
	case RankRandom, "":
		return 1 + int(rng.Uint32n(uint32(n))), nil
	}
	return 0, errors.Errorf("unknown rank scenario '%s'", scenario)
}
