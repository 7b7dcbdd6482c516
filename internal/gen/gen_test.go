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

package gen

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomRange(t *testing.T) {
	rng := NewRNG(1)
	a := Random(rng, 10000, 6)
	seen := map[int]bool{}
	for _, v := range a {
		require.True(t, v >= 1 && v <= 6, "value %d outside [1,6]", v)
		seen[v] = true
	}
	assert.Len(t, seen, 6)
}

func TestSortedInputs(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3}, Ascending(4))
	assert.Equal(t, []int{3, 2, 1, 0}, Descending(4))
	assert.Empty(t, Ascending(0))
}

func TestNearlySorted(t *testing.T) {
	rng := NewRNG(5)
	a := NearlySorted(rng, 1000, -1)
	require.Len(t, a, 1000)

	displaced := 0
	for i, v := range a {
		if v != i {
			displaced++
		}
	}
	// ten transpositions displace at most twenty elements
	assert.LessOrEqual(t, displaced, 20)

	sorted := append([]int(nil), a...)
	sort.Ints(sorted)
	assert.Equal(t, Ascending(1000), sorted)

	assert.Equal(t, []int{0}, NearlySorted(rng, 1, -1))

	// every transposition moves two elements
	for seed := uint32(1); seed <= 50; seed++ {
		assert.Equal(t, []int{1, 0}, NearlySorted(NewRNG(seed), 2, 1), "seed %d", seed)
		displaced := 0
		for i, v := range NearlySorted(NewRNG(seed), 5, 1) {
			if v != i {
				displaced++
			}
		}
		assert.Equal(t, 2, displaced, "seed %d", seed)
	}
}

func TestGenerate(t *testing.T) {
	rng := NewRNG(9)
	for _, o := range Orders {
		a, err := Generate(rng, o, 50)
		require.NoError(t, err, "order %s", o)
		assert.Len(t, a, 50)
	}
	_, err := Generate(rng, "zigzag", 5)
	assert.Error(t, err)
	_, err = Generate(rng, OrderRandom, -1)
	assert.Error(t, err)
}

func TestRank(t *testing.T) {
	rng := NewRNG(3)
	tcs := []struct {
		scenario Scenario
		n        int
		want     int
	}{
		{RankSmall, 5, 5},
		{RankSmall, 100, 10},
		{RankMiddle, 1, 1},
		{RankMiddle, 101, 50},
		{RankLarge, 3, 1},
		{RankLarge, 100, 90},
	}
	for _, tc := range tcs {
		k, err := Rank(rng, tc.scenario, tc.n)
		require.NoError(t, err)
		assert.Equal(t, tc.want, k, "%s n=%d", tc.scenario, tc.n)
	}
	for i := 0; i < 1000; i++ {
		k, err := Rank(rng, RankRandom, 7)
		require.NoError(t, err)
		require.True(t, k >= 1 && k <= 7)
	}
	_, err := Rank(rng, RankMiddle, 0)
	assert.Error(t, err)
	_, err = Rank(rng, "k_huge", 10)
	assert.Error(t, err)
}
