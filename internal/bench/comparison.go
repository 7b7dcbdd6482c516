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

// Compares selection against the full sort and heap baselines across rank scenarios.
// All algorithms see the same random input in each repetition.
type SortComparison struct {
	ExpBase    `yaml:",inline"`
	Sizes      []int          `json:"sizes"      yaml:"sizes"`
	Reps       int            `json:"reps"       yaml:"reps"`
	Scenarios  []gen.Scenario `json:"scenarios"  yaml:"scenarios"`
	Algorithms []Algorithm    `json:"algorithms" yaml:"algorithms"`
}

func init() { SetExperimentFactory(func() Experiment { return NewSortComparisonDefault() }) } // register the experiment for decoding

func NewSortComparisonDefault() *SortComparison {
	return NewSortComparison([]int{100, 500, 1000, 2000, 5000, 10000}, 20,
		gen.Scenarios, []Algorithm{AlgQuickselect, AlgFullSort, AlgHeap})
}

func NewSortComparison(sizes []int, reps int, scenarios []gen.Scenario, algs []Algorithm) *SortComparison {
	return &SortComparison{
		ExpBase:    ExpBase{Type: "sortComparison"},
		Sizes:      sizes,
		Reps:       reps,
		Scenarios:  scenarios,
		Algorithms: algs,
	}
}

// Unmarshal the type from JSON with default values for missing entries
func (e *SortComparison) UnmarshalJSON(data []byte) error {
	type defaults SortComparison
	def := defaults(*NewSortComparisonDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*e = SortComparison(def)
	return nil
}

func (e *SortComparison) NumTrials() int {
	return len(e.Sizes) * max(0, e.Reps) * len(e.Scenarios) * len(e.Algorithms)
}

func (e *SortComparison) LargestInput() int { return largest(e.Sizes) }

func (e *SortComparison) Run(c *Context) (*Result, error) {
	if err := checkSizes(e.Sizes, e.Reps); err != nil {
		return nil, err
	}
	for _, n := range e.Sizes {
		if err := c.checkLength(n); err != nil {
			return nil, err
		}
	}
	funcs := make([]selectFunc, len(e.Algorithms))
	for i, a := range e.Algorithms {
		f, err := c.selector(a)
		if err != nil {
			return nil, err
		}
		funcs[i] = f
	}

	c.start(e.NumTrials())
	c.logf("Comparing %v on %v, %d repetitions each\n", e.Algorithms, e.Scenarios, e.Reps)

	// one series per algorithm and scenario, indexed [alg*len(scenarios)+scenario]
	series := make([]Series, len(e.Algorithms)*len(e.Scenarios))
	for ai, a := range e.Algorithms {
		for si, s := range e.Scenarios {
			series[ai*len(e.Scenarios)+si].Name = string(a) + " " + string(s)
		}
	}

	for _, n := range e.Sizes {
		samples, err := e.measure(c, funcs, n)
		if err != nil {
			return nil, err
		}
		for i := range series {
			series[i].Points = append(series[i].Points, c.point(series[i].Name, n, samples[i]))
		}
	}

	r := newResult(e.Type, "Selection versus sorting baselines")
	r.Series = series
	for i := range series {
		c.fitSeries(r, &series[i], false, stats.ModelLinear, stats.ModelNLogN)
	}
	return r, nil
}

// Times all repetitions for input length n. Returns one sample list per series,
// indexed [alg*len(scenarios)+scenario].
func (e *SortComparison) measure(c *Context, funcs []selectFunc, n int) ([][]time.Duration, error) {
	work := workBuffers.Get(n)
	defer workBuffers.Put(work)

	samples := make([][]time.Duration, len(e.Algorithms)*len(e.Scenarios))
	for rep := 0; rep < e.Reps; rep++ {
		input := gen.Random(c.rng, n, gen.DefaultMaxValue)
		for si, s := range e.Scenarios {
			k, err := gen.Rank(c.rng, s, n)
			if err != nil {
				return nil, err
			}
			for ai, a := range e.Algorithms {
				d, err := c.timeOnce(funcs[ai], a, input, work, k)
				if err != nil {
					return nil, err
				}
				idx := ai*len(e.Scenarios) + si
				samples[idx] = append(samples[idx], d)
			}
		}
	}
	return samples, nil
}

// Running times of one selection policy on sorted, nearly sorted and random
// inputs, with k in the middle
type InputOrder struct {
	ExpBase `yaml:",inline"`
	Sizes   []int       `json:"sizes"  yaml:"sizes"`
	Trials  int         `json:"trials" yaml:"trials"`
	Orders  []gen.Order `json:"orders" yaml:"orders"`
	Policy  string      `json:"policy" yaml:"policy"`
}

func init() { SetExperimentFactory(func() Experiment { return NewInputOrderDefault() }) } // register the experiment for decoding

func NewInputOrderDefault() *InputOrder {
	return NewInputOrder([]int{100, 500, 1000, 2000, 5000}, 10,
		[]gen.Order{gen.OrderAscending, gen.OrderNearlySorted, gen.OrderRandom}, qsort.Deterministic)
}

func NewInputOrder(sizes []int, trials int, orders []gen.Order, p qsort.Policy) *InputOrder {
	return &InputOrder{
		ExpBase: ExpBase{Type: "inputOrder"},
		Sizes:   sizes,
		Trials:  trials,
		Orders:  orders,
		Policy:  p.String(),
	}
}

// Unmarshal the type from JSON with default values for missing entries
func (e *InputOrder) UnmarshalJSON(data []byte) error {
	type defaults InputOrder
	def := defaults(*NewInputOrderDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*e = InputOrder(def)
	return nil
}

func (e *InputOrder) NumTrials() int { return len(e.Sizes) * max(0, e.Trials) * len(e.Orders) }

func (e *InputOrder) LargestInput() int { return largest(e.Sizes) }

func (e *InputOrder) Run(c *Context) (*Result, error) {
	if err := checkSizes(e.Sizes, e.Trials); err != nil {
		return nil, err
	}
	for _, n := range e.Sizes {
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
	c.logf("Input order sensitivity of %s on %v, %d trials each\n", alg, e.Orders, e.Trials)
	series := make([]Series, len(e.Orders))
	for i, o := range e.Orders {
		series[i].Name = string(o)
	}
	for _, n := range e.Sizes {
		for i, o := range e.Orders {
			samples, err := e.measure(c, f, alg, o, n)
			if err != nil {
				return nil, err
			}
			series[i].Points = append(series[i].Points, c.point(series[i].Name, n, samples))
		}
	}

	r := newResult(e.Type, "Input order sensitivity of "+string(alg))
	r.LogX, r.LogY = true, true
	r.Series = series
	for i := range series {
		c.fitSeries(r, &series[i], false, stats.ModelPowerLaw)
	}
	return r, nil
}

// Times all trials for input order o and length n, with k in the middle
func (e *InputOrder) measure(c *Context, f selectFunc, alg Algorithm, o gen.Order, n int) ([]time.Duration, error) {
	work := workBuffers.Get(n)
	defer workBuffers.Put(work)

	k := max(1, n/2)
	samples := make([]time.Duration, 0, e.Trials)
	for t := 0; t < e.Trials; t++ {
		input, err := gen.Generate(c.rng, o, n)
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
