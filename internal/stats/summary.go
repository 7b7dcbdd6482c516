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
	"time"

	"github.com/mlnoga/quickselect/internal/qsort"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary statistics of a set of timing samples, in seconds
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"` // sample standard deviation, zero below two samples
	Min    float64 `json:"min"`
	Worst  float64 `json:"worst"`
	Median float64 `json:"median"`
	Mode   float64 `json:"mode"` // most typical value, see Mode
}

// Calculate summary statistics for the given samples. Does not change the data.
func Summarize(samples []float64) (s Summary) {
	s.Count = len(samples)
	if s.Count == 0 {
		return s
	}
	s.Mean = stat.Mean(samples, nil)
	if s.Count > 1 {
		s.StdDev = stat.StdDev(samples, nil)
	}
	s.Min = floats.Min(samples)
	s.Worst = floats.Max(samples)
	s.Median = qsort.Median(samples)
	s.Mode = Mode(samples, s.Min, s.Worst)
	return s
}

// Pretty print summary to string
func (s Summary) String() string {
	return fmt.Sprintf("Count %d Mean %.4g StdDev %.4g Min %.4g Worst %.4g Median %.4g Mode %.4g",
		s.Count, s.Mean, s.StdDev, s.Min, s.Worst, s.Median, s.Mode)
}

// Converts durations to seconds
func Seconds(ds []time.Duration) []float64 {
	res := make([]float64, len(ds))
	for i, d := range ds {
		res[i] = d.Seconds()
	}
	return res
}
