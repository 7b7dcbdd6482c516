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
	"math"
	"time"

	"github.com/mlnoga/quickselect/internal/gen"
	"github.com/mlnoga/quickselect/internal/qsort"
	"github.com/mlnoga/quickselect/internal/stats"
)

// Growth of both pivot policies on adversarial input. Fits a power law per policy;
// an exponent near 2 means quadratic, near 1 linear growth.
type PolicyGrowth struct {
	ExpBase `yaml:",inline"`
	Sizes   []int     `json:"sizes"  yaml:"sizes"`
	Trials  int       `json:"trials" yaml:"trials"`
	Order   gen.Order `json:"order"  yaml:"order"`
}

func init() { SetExperimentFactory(func() Experiment { return NewPolicyGrowthDefault() }) } // register the experiment for decoding

func NewPolicyGrowthDefault() *PolicyGrowth {
	return NewPolicyGrowth([]int{500, 1000, 2000, 4000, 8000}, 10, gen.OrderAscending)
}

func NewPolicyGrowth(sizes []int, trials int, order gen.Order) *PolicyGrowth {
	return &PolicyGrowth{
		ExpBase: ExpBase{Type: "policyGrowth"},
		Sizes:   sizes,
		Trials:  trials,
		Order:   order,
	}
}

// Unmarshal the type from JSON with default values for missing entries
func (e *PolicyGrowth) UnmarshalJSON(data []byte) error {
	type defaults PolicyGrowth
	def := defaults(*NewPolicyGrowthDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*e = PolicyGrowth(def)
	return nil
}

var growthAlgorithms = []Algorithm{AlgQuickselect, AlgRandomized}

func (e *PolicyGrowth) NumTrials() int { return len(e.Sizes) * max(0, e.Trials) * len(growthAlgorithms) }

func (e *PolicyGrowth) LargestInput() int { return largest(e.Sizes) }

func (e *PolicyGrowth) Run(c *Context) (*Result, error) {
	if err := checkSizes(e.Sizes, e.Trials); err != nil {
		return nil, err
	}
	for _, n := range e.Sizes {
		if err := c.checkLength(n); err != nil {
			return nil, err
		}
	}
	funcs := make([]selectFunc, len(growthAlgorithms))
	for i, a := range growthAlgorithms {
		f, err := c.selector(a)
		if err != nil {
			return nil, err
		}
		funcs[i] = f
	}

	c.start(e.NumTrials())
	c.logf("Growth of pivot policies on %s input, %d trials each\n", e.Order, e.Trials)
	series := make([]Series, len(growthAlgorithms))
	for i, a := range growthAlgorithms {
		series[i].Name = string(a)
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

	r := newResult(e.Type, "Pivot policies on "+string(e.Order)+" input")
	r.LogX, r.LogY = true, true
	r.Series = series
	for i := range series {
		c.fitSeries(r, &series[i], false, stats.ModelPowerLaw)
	}
	for _, f := range r.Fits {
		c.logf("%-12s growth exponent %.2f\n", f.Series, f.Exponent)
	}
	return r, nil
}

// Times all trials for input length n. Both policies see the same input and rank.
func (e *PolicyGrowth) measure(c *Context, funcs []selectFunc, n int) ([][]time.Duration, error) {
	work := workBuffers.Get(n)
	defer workBuffers.Put(work)

	samples := make([][]time.Duration, len(growthAlgorithms))
	for t := 0; t < e.Trials; t++ {
		input, err := gen.Generate(c.rng, e.Order, n)
		if err != nil {
			return nil, err
		}
		k, err := gen.Rank(c.rng, gen.RankRandom, n)
		if err != nil {
			return nil, err
		}
		for i, a := range growthAlgorithms {
			d, err := c.timeOnce(funcs[i], a, input, work, k)
			if err != nil {
				return nil, err
			}
			samples[i] = append(samples[i], d)
		}
	}
	return samples, nil
}

// Returns the fitted growth exponent of the given policy, or NaN if no fit exists
func (r *Result) GrowthExponent(p qsort.Policy) float64 {
	if f := r.Fit(string(policyAlgorithm(p)), stats.ModelPowerLaw); f != nil {
		return f.Exponent
	}
	return math.NaN()
}
