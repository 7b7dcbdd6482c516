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

package stats

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// Enumerated type for growth models fitted to runtime curves
type Model string

const (
	ModelLinear    Model = "linear"    // y = a + b*x
	ModelNLogN     Model = "nlogn"     // y = a + b*x*ln(x+1)
	ModelQuadratic Model = "quadratic" // y <= b*x^2, b the empirical upper bound constant
	ModelPowerLaw  Model = "power"     // y = b*x^e
)

// A fitted growth curve
type Fit struct {
	Series    string  `json:"series"`
	Model     Model   `json:"model"`
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	Exponent  float64 `json:"exponent"`
	RSquared  float64 `json:"rSquared"`
}

// Evaluates the fitted curve at x
func (f Fit) Eval(x float64) float64 {
	switch f.Model {
	case ModelLinear:
		return f.Intercept + f.Slope*x
	case ModelNLogN:
		return f.Intercept + f.Slope*x*math.Log(x+1)
	case ModelQuadratic:
		return f.Slope * x * x
	case ModelPowerLaw:
		return f.Slope * math.Pow(x, f.Exponent)
	}
	return math.NaN()
}

// Pretty print the curve equation
func (f Fit) String() string {
	switch f.Model {
	case ModelLinear:
		return fmt.Sprintf("y = %.2ex + %.2e", f.Slope, f.Intercept)
	case ModelNLogN:
		return fmt.Sprintf("y = %.2e x ln(x+1) + %.2e", f.Slope, f.Intercept)
	case ModelQuadratic:
		return fmt.Sprintf("y <= %.2e x^2", f.Slope)
	case ModelPowerLaw:
		return fmt.Sprintf("y = %.2e x^%.2f", f.Slope, f.Exponent)
	}
	return string(f.Model)
}

func checkPoints(x, y []float64, minPoints int) error {
	if len(x) != len(y) {
		return errors.Errorf("fit with %d x values and %d y values", len(x), len(y))
	}
	if len(x) < minPoints {
		return errors.Errorf("fit needs at least %d points, have %d", minPoints, len(x))
	}
	return nil
}

// Least squares line through the points
func FitLinear(x, y []float64) (f Fit, err error) {
	if err = checkPoints(x, y, 2); err != nil {
		return f, err
	}
	a, b := stat.LinearRegression(x, y, nil, false)
	return Fit{Model: ModelLinear, Intercept: a, Slope: b, Exponent: 1,
		RSquared: stat.RSquared(x, y, nil, a, b)}, nil
}

// Least squares fit against x*ln(x+1)
func FitNLogN(x, y []float64) (f Fit, err error) {
	if err = checkPoints(x, y, 2); err != nil {
		return f, err
	}
	xs := make([]float64, len(x))
	for i, v := range x {
		xs[i] = v * math.Log(v+1)
	}
	a, b := stat.LinearRegression(xs, y, nil, false)
	return Fit{Model: ModelNLogN, Intercept: a, Slope: b, Exponent: 1,
		RSquared: stat.RSquared(xs, y, nil, a, b)}, nil
}

// Smallest constant C with y_i <= C*x_i^2 for all points
func QuadraticBound(x, y []float64) (f Fit, err error) {
	if err = checkPoints(x, y, 1); err != nil {
		return f, err
	}
	c := 0.0
	for i := range x {
		if x[i] <= 0 {
			return f, errors.Errorf("quadratic bound needs positive x, have %g", x[i])
		}
		if r := y[i] / (x[i] * x[i]); r > c {
			c = r
		}
	}
	return Fit{Model: ModelQuadratic, Slope: c, Exponent: 2}, nil
}

// Fits y = b*x^e. Takes an initial guess from a log-log regression, then
// minimizes the relative squared error with Nelder-Mead. Keeps the initial
// guess if the optimizer fails or does not improve on it.
func FitPowerLaw(x, y []float64) (f Fit, err error) {
	if err = checkPoints(x, y, 2); err != nil {
		return f, err
	}
	lx, ly := make([]float64, len(x)), make([]float64, len(y))
	for i := range x {
		if x[i] <= 0 || y[i] <= 0 {
			return f, errors.Errorf("power law fit needs positive values, have (%g, %g)", x[i], y[i])
		}
		lx[i], ly[i] = math.Log(x[i]), math.Log(y[i])
	}
	logB, e := stat.LinearRegression(lx, ly, nil, false)

	// optimize over log(b) to keep the simplex well scaled for tiny runtimes
	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			b, e := math.Exp(p[0]), p[1]
			sumSqDiff := 0.0
			for i := range x {
				diff := (b*math.Pow(x[i], e) - y[i]) / y[i]
				sumSqDiff += diff * diff
			}
			return sumSqDiff / float64(len(x))
		},
	}
	f = Fit{Model: ModelPowerLaw, Slope: math.Exp(logB), Exponent: e}
	result, err := optimize.Minimize(problem, []float64{logB, e}, nil, &optimize.NelderMead{})
	if err == nil && result != nil && result.F <= problem.Func([]float64{logB, e}) {
		f.Slope, f.Exponent = math.Exp(result.X[0]), result.X[1]
	}
	f.RSquared = stat.RSquared(lx, ly, nil, math.Log(f.Slope), f.Exponent)
	return f, nil
}
