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

package main

import (
	"flag"
	"testing"

	"github.com/mlnoga/quickselect/internal/bench"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSizes(t *testing.T) {
	got, err := parseSizes("100, 200,300")
	require.NoError(t, err)
	assert.Equal(t, []int{100, 200, 300}, got)

	got, err = parseSizes("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseSizes("100,x")
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	require.NoError(t, flag.Set("sizes", "10,20"))
	require.NoError(t, flag.Set("trials", "3"))
	require.NoError(t, flag.Set("policy", "randomized"))
	defer func() {
		flag.Set("sizes", "")
		flag.Set("trials", "0")
		flag.Set("policy", "deterministic")
	}()

	e := bench.NewInputOrderDefault()
	require.NoError(t, applyFlags(e))
	assert.Equal(t, []int{10, 20}, e.Sizes)
	assert.Equal(t, 3, e.Trials)
	assert.Equal(t, "randomized", e.Policy)

	sc := bench.NewSortComparisonDefault()
	require.NoError(t, applyFlags(sc))
	assert.Equal(t, []int{10, 20}, sc.Sizes)
	assert.Equal(t, 20, sc.Reps)

	assert.Error(t, applyFlags(bench.NewRunningTimesDefault()))
}

func TestCmdSelect(t *testing.T) {
	assert.NoError(t, cmdSelect([]string{"5", "81", "2", "25", "33", "69", "39", "42", "17", "62", "15"}))
	assert.Error(t, cmdSelect(nil))
	assert.Error(t, cmdSelect([]string{"x", "1"}))
	assert.Error(t, cmdSelect([]string{"1", "y"}))
	assert.Error(t, cmdSelect([]string{"4", "1", "2", "3"}))
	assert.Error(t, cmdSelect([]string{"1"}))
	assert.NoError(t, cmdExample())
}
