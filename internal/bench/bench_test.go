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

package bench

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlnoga/quickselect/internal/gen"
	"github.com/mlnoga/quickselect/internal/qsort"
	"github.com/mlnoga/quickselect/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() *Context {
	c := NewContext(io.Discard)
	c.Seed = 42
	c.Verify = true
	return c
}

func TestExperimentTypes(t *testing.T) {
	assert.Equal(t, []string{"inputOrder", "policyGrowth", "runningTimes", "sortComparison"}, ExperimentTypes())
	_, err := NewExperiment("bogus")
	assert.Error(t, err)
}

func TestRunningTimes(t *testing.T) {
	c := testContext()
	steps := 0
	c.Progress = func(done, total int) {
		steps++
		assert.Equal(t, steps, done)
		assert.Equal(t, 12, total)
	}
	e := NewRunningTimes(3, 50, 4, qsort.Randomized)
	r, err := e.Run(c)
	require.NoError(t, err)
	assert.Equal(t, 12, steps)

	require.Len(t, r.Series, 1)
	s := r.Series[0]
	assert.Equal(t, string(AlgRandomized), s.Name)
	require.Len(t, s.Points, 3)
	for i, p := range s.Points {
		assert.Equal(t, float64(50*(i+1)), p.X)
		assert.Equal(t, 4, p.Count)
		assert.LessOrEqual(t, p.Min, p.Mean)
		assert.LessOrEqual(t, p.Mean, p.Worst)
	}
	assert.NotNil(t, r.Fit("randomized", stats.ModelLinear))
	assert.NotNil(t, r.Fit("randomized worst", stats.ModelQuadratic))
	assert.True(t, r.Worst)

	e.Policy = "bogus"
	_, err = e.Run(c)
	assert.Error(t, err)
}

func TestSortComparison(t *testing.T) {
	e := NewSortComparison([]int{20, 40}, 2, gen.Scenarios, []Algorithm{AlgQuickselect, AlgFullSort, AlgHeap})
	r, err := e.Run(testContext())
	require.NoError(t, err)
	require.Len(t, r.Series, 12)
	assert.Equal(t, "quickselect k_small", r.Series[0].Name)
	assert.Equal(t, "heap k_random", r.Series[11].Name)
	for _, s := range r.Series {
		require.Len(t, s.Points, 2)
		assert.Equal(t, 2, s.Points[1].Count)
	}

	e.Algorithms = []Algorithm{"bubble"}
	_, err = e.Run(testContext())
	assert.Error(t, err)
}

func TestInputOrder(t *testing.T) {
	e := NewInputOrder([]int{50, 100, 200}, 2, []gen.Order{gen.OrderAscending, gen.OrderRandom}, qsort.Deterministic)
	r, err := e.Run(testContext())
	require.NoError(t, err)
	require.Len(t, r.Series, 2)
	assert.Equal(t, "sorted", r.Series[0].Name)
	assert.Equal(t, "random", r.Series[1].Name)
	assert.Len(t, r.Series[1].Points, 3)
	assert.True(t, r.LogX && r.LogY)

	e.Orders = []gen.Order{"shuffled"}
	_, err = e.Run(testContext())
	assert.Error(t, err)
}

func TestPolicyGrowth(t *testing.T) {
	e := NewPolicyGrowth([]int{100, 200, 400}, 3, gen.OrderAscending)
	assert.Equal(t, 18, e.NumTrials())
	r, err := e.Run(testContext())
	require.NoError(t, err)
	require.Len(t, r.Series, 2)
	assert.Equal(t, "quickselect", r.Series[0].Name)
	assert.Equal(t, "randomized", r.Series[1].Name)
	assert.Len(t, r.Series[0].Points, 3)
}

func TestRunRejectsBadSizes(t *testing.T) {
	_, err := NewPolicyGrowth(nil, 3, gen.OrderAscending).Run(testContext())
	assert.Error(t, err)
	_, err = NewPolicyGrowth([]int{10}, 0, gen.OrderAscending).Run(testContext())
	assert.Error(t, err)
	_, err = NewInputOrder([]int{0}, 1, gen.Orders, qsort.Deterministic).Run(testContext())
	assert.Error(t, err)
}

func TestCheckLength(t *testing.T) {
	c := testContext()
	c.MaxInputLength = 100
	assert.NoError(t, c.checkLength(100))
	assert.Error(t, c.checkLength(101))
	assert.Error(t, c.checkLength(0))

	c.MaxInputLength = 0
	c.BenchMemoryMB = 1
	assert.NoError(t, c.checkLength(1000))
	assert.Error(t, c.checkLength(1<<20))
}

func TestVerifyCatchesWrongAnswer(t *testing.T) {
	c := testContext()
	c.start(1)
	input := []int{3, 1, 2}
	wrong := func(w []int, k int) (int, error) { return w[0] + 100, nil }
	_, err := c.timeOnce(wrong, "wrong", input, make([]int, 3), 2)
	assert.Error(t, err)

	c.Verify = false
	_, err = c.timeOnce(wrong, "wrong", input, make([]int, 3), 2)
	assert.NoError(t, err)
}

func TestUnmarshalExperiment(t *testing.T) {
	e, err := UnmarshalExperiment([]byte(`{"type":"sortComparison","reps":3}`))
	require.NoError(t, err)
	sc, ok := e.(*SortComparison)
	require.True(t, ok)
	assert.Equal(t, 3, sc.Reps)
	assert.Equal(t, NewSortComparisonDefault().Sizes, sc.Sizes)

	e, err = UnmarshalExperiment([]byte(`{"type":"runningTimes","policy":"randomized","maxFactor":5}`))
	require.NoError(t, err)
	rt := e.(*RunningTimes)
	assert.Equal(t, "randomized", rt.Policy)
	assert.Equal(t, 5, rt.MaxFactor)
	assert.Equal(t, 100, rt.Scale)

	_, err = UnmarshalExperiment([]byte(`{"type":"bogus"}`))
	assert.Error(t, err)
	_, err = UnmarshalExperiment([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestUnmarshalExperimentYAML(t *testing.T) {
	e, err := UnmarshalExperimentYAML([]byte("type: policyGrowth\nsizes: [10, 20]\ntrials: 2\n"))
	require.NoError(t, err)
	pg, ok := e.(*PolicyGrowth)
	require.True(t, ok)
	assert.Equal(t, []int{10, 20}, pg.Sizes)
	assert.Equal(t, 2, pg.Trials)
	assert.Equal(t, gen.OrderAscending, pg.Order)

	_, err = UnmarshalExperimentYAML([]byte("type: policyGrowth\nbogus: 1\n"))
	assert.Error(t, err)
	_, err = UnmarshalExperimentYAML([]byte("type: nope\n"))
	assert.Error(t, err)
}

func TestLoadExperiment(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		fileName := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(fileName, []byte(content), 0644))
		return fileName
	}

	e, err := LoadExperiment(write("plan.json", `{"type":"inputOrder","trials":7}`))
	require.NoError(t, err)
	assert.Equal(t, 7, e.(*InputOrder).Trials)

	e, err = LoadExperiment(write("plan.yml", "type: runningTimes\nmaxFactor: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 2*20, e.NumTrials())

	_, err = LoadExperiment(write("plan.txt", "type: runningTimes\n"))
	assert.Error(t, err)
	_, err = LoadExperiment(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestResultCSVAndChart(t *testing.T) {
	r, err := NewRunningTimes(2, 10, 2, qsort.Deterministic).Run(testContext())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.WriteCSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, r.ToCSVHeader(), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "quickselect,10,2,"))

	c := r.Chart()
	require.Len(t, c.Series, 2)
	assert.Equal(t, "quickselect worst", c.Series[1].Name)
	assert.Len(t, c.Curves, len(r.Fits))

	fileName := filepath.Join(t.TempDir(), "result.csv")
	require.NoError(t, r.WriteCSVFile(fileName))
	b, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(b))
}

func TestHost(t *testing.T) {
	h := CurrentHost()
	assert.Greater(t, h.MemoryMB, 0)
	assert.Contains(t, h.String(), "RAM")
}

func TestSizedPool(t *testing.T) {
	p := NewSizedPool[int]()
	a := p.Get(10)
	assert.Len(t, a, 10)
	p.Put(a[:3])
	b := p.Get(10)
	assert.Len(t, b, 10)
	assert.Len(t, p.Get(5), 5)
	assert.Equal(t, 2, p.InUse())
	p.Put(b)
	assert.Equal(t, 1, p.InUse())
}

func TestWork(t *testing.T) {
	assert.Equal(t, int64(18*400), Work(NewPolicyGrowth([]int{100, 400, 200}, 3, gen.OrderAscending)))
	assert.Equal(t, int64(12*150), Work(NewRunningTimes(3, 50, 4, qsort.Randomized)))
	assert.Equal(t, int64(0), Work(NewSortComparison(nil, 2, gen.Scenarios, []Algorithm{AlgHeap})))
}

func TestRunStopsWhenCanceled(t *testing.T) {
	experiments := []Experiment{
		NewRunningTimes(3, 50, 4, qsort.Deterministic),
		NewSortComparison([]int{20, 40}, 2, gen.Scenarios, []Algorithm{AlgQuickselect, AlgHeap}),
		NewInputOrder([]int{20, 40}, 3, gen.Orders, qsort.Randomized),
		NewPolicyGrowth([]int{50, 100}, 3, gen.OrderAscending),
	}
	for _, e := range experiments {
		t.Run(e.GetType(), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			c := testContext()
			c.Ctx = ctx
			trials := 0
			c.Progress = func(done, total int) {
				trials = done
				if done == 3 {
					cancel()
				}
			}
			_, err := e.Run(c)
			require.Error(t, err)
			assert.True(t, errors.Is(err, context.Canceled))
			assert.Equal(t, 3, trials)
			assert.Equal(t, 0, workBuffers.InUse())
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := testContext()
	c.Ctx = ctx
	_, err := NewPolicyGrowth([]int{50}, 1, gen.OrderAscending).Run(c)
	assert.True(t, errors.Is(err, context.Canceled))
}
