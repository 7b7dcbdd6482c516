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
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mlnoga/quickselect/internal/stats"
)

type fitter func(x, y []float64) (stats.Fit, error)

var fitters = map[stats.Model]fitter{
	stats.ModelLinear:    stats.FitLinear,
	stats.ModelNLogN:     stats.FitNLogN,
	stats.ModelQuadratic: stats.QuadraticBound,
	stats.ModelPowerLaw:  stats.FitPowerLaw,
}

// Suffix of series names for worst case curves
const worstSuffix = " worst"

// Fits the given models to the mean (or worst) times of series s and appends
// them to the result. Fits that fail, e.g. for too few points, are logged and skipped.
func (c *Context) fitSeries(r *Result, s *Series, worst bool, models ...stats.Model) {
	xs, ys := s.XY(worst)
	name := s.Name
	if worst {
		name += worstSuffix
	}
	for _, m := range models {
		f, err := fitters[m](xs, ys)
		if err != nil {
			c.logf("Skipping %s fit for %s: %s\n", m, name, err.Error())
			continue
		}
		if !finite(f.Intercept) || !finite(f.Slope) || !finite(f.Exponent) {
			c.logf("Skipping %s fit for %s: not finite\n", m, name)
			continue
		}
		if !finite(f.RSquared) {
			f.RSquared = 0 // undefined for constant data
		}
		f.Series = name
		r.Fits = append(r.Fits, f)
	}
}

// Summarizes the timing samples of one point and logs it
func (c *Context) point(name string, n int, samples []time.Duration) Point {
	p := Point{X: float64(n), Summary: stats.Summarize(stats.Seconds(samples))}
	c.logf("%-24s n=%-9s mean %-10s worst %-10s stddev %s\n", name, humanize.Comma(int64(n)),
		seconds(p.Mean), seconds(p.Worst), seconds(p.StdDev))
	return p
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

func seconds(s float64) string {
	return time.Duration(s * float64(time.Second)).String()
}

func newResult(t, title string) *Result {
	return &Result{
		Type:   t,
		Title:  title,
		XLabel: "input length n",
		YLabel: "time [s]",
		Host:   CurrentHost(),
	}
}
