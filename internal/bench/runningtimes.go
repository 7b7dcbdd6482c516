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
	"encoding/json"
	"time"

	"github.com/mlnoga/quickselect/internal/gen"
	"github.com/mlnoga/quickselect/internal/qsort"
	"github.com/mlnoga/quickselect/internal/stats"
)

// Average and worst running times on random inputs of length Scale*1..Scale*MaxFactor,
// with a random rank per trial
type RunningTimes struct {
	ExpBase   `yaml:",inline"`
	MaxFactor int    `json:"maxFactor" yaml:"maxFactor"`
	Scale     int    `json:"scale"     yaml:"scale"`
	Trials    int    `json:"trials"    yaml:"trials"`
	Policy    string `json:"policy"    yaml:"policy"`
}

func init() { SetExperimentFactory(func() Experiment { return NewRunningTimesDefault() }) } // register the experiment for decoding

func NewRunningTimesDefault() *RunningTimes { return NewRunningTimes(100, 100, 20, qsort.Deterministic) }

func NewRunningTimes(maxFactor, scale, trials int, p qsort.Policy) *RunningTimes {
	return &RunningTimes{
		ExpBase:   ExpBase{Type: "runningTimes"},
		MaxFactor: maxFactor,
		Scale:     scale,
		Trials:    trials,
		Policy:    p.String(),
	}
}

// Unmarshal the type from JSON with default values for missing entries
func (e *RunningTimes) UnmarshalJSON(data []byte) error {
	type defaults RunningTimes
	def := defaults(*NewRunningTimesDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*e = RunningTimes(def)
	return nil
}

func (e *RunningTimes) sizes() []int {
	sizes := make([]int, 0, max(0, e.MaxFactor))
	for f := 1; f <= e.MaxFactor; f++ {
		sizes = append(sizes, f*e.Scale)
	}
	return sizes
}

func (e *RunningTimes) NumTrials() int { return max(0, e.MaxFactor) * max(0, e.Trials) }

func (e *RunningTimes) LargestInput() int { return max(0, e.MaxFactor) * max(0, e.Scale) }

func (e *RunningTimes) Run(c *Context) (*Result, error) {
	sizes := e.sizes()
	if err := checkSizes(sizes, e.Trials); err != nil {
		return nil, err
	}
	for _, n := range sizes {
		if err := c.checkLength(n); err != nil {
			return nil, err
		}
	}
	p, err := qsort.ParsePolicy(e.Policy)
	if err != nil {
		return nil, err
	}
	alg := policyAlgorithm(p)
	f, err := c.selector(alg)
	if err != nil {
		return nil, err
	}

	c.start(e.NumTrials())
	c.logf("Running times of %s for n=%d..%d, %d trials each\n", alg, sizes[0], sizes[len(sizes)-1], e.Trials)
	s := Series{Name: string(alg)}
	for _, n := range sizes {
		samples, err := e.measure(c, f, alg, n)
		if err != nil {
			return nil, err
		}
		s.Points = append(s.Points, c.point(s.Name, n, samples))
	}

	r := newResult(e.Type, "Running times of "+string(alg))
	r.Worst = true
	r.Series = []Series{s}
	c.fitSeries(r, &s, false, stats.ModelLinear)
	c.fitSeries(r, &s, true, stats.ModelQuadratic)
	return r, nil
}

// Times all trials for input length n, each on a fresh random input and rank
func (e *RunningTimes) measure(c *Context, f selectFunc, alg Algorithm, n int) ([]time.Duration, error) {
	work := workBuffers.Get(n)
	defer workBuffers.Put(work)

	samples := make([]time.Duration, 0, e.Trials)
	for t := 0; t < e.Trials; t++ {
		input := gen.Random(c.rng, n, gen.DefaultMaxValue)
		k, err := gen.Rank(c.rng, gen.RankRandom, n)
		if err != nil {
			return nil, err
		}
		d, err := c.timeOnce(f, alg, input, work, k)
		if err != nil {
			return nil, err
		}
		samples = append(samples, d)
	}
	return samples, nil
}
