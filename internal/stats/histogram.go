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
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize"
)

// Calculate histogram of data between min and max into given bins.
// Values outside [min,max] go into the first or last bin.
func Histogram(data []float64, min, max float64, bins []int32) {
	for i := range bins {
		bins[i] = 0
	}
	if len(bins) == 0 {
		return
	}
	scale := 0.0
	if max > min {
		scale = float64(len(bins)) / (max - min)
	}
	for _, d := range data {
		index := int((d - min) * scale)
		if index < 0 {
			index = 0
		} else if index >= len(bins) {
			index = len(bins) - 1
		}
		bins[index]++
	}
}

// Center of bin i
func binCenter(i int, min, max float64, numBins int) float64 {
	return min + (float64(i)+0.5)*(max-min)/float64(numBins)
}

// Returns the location and the value of the histogram peak
func GetPeak(bins []int32, min, max float64) (x, y float64) {
	maxIndex, maxValue := 0, int32(math.MinInt32)
	for i, v := range bins {
		if v > maxValue {
			maxIndex, maxValue = i, v
		}
	}
	return binCenter(maxIndex, min, max, len(bins)), float64(maxValue)
}

// Calculates the mode and the standard deviation of the given histogram by
// fitting a normal distribution, starting from the histogram peak
func GetModeStdDevFromHistogram(bins []int32, min, max float64) (mode, stdDev float64, err error) {
	if len(bins) < 3 || max <= min {
		return 0, 0, errors.Errorf("normal fit needs at least 3 bins over a non-empty range, have %d over [%g,%g]", len(bins), min, max)
	}
	peak, peakVal := GetPeak(bins, min, max)
	binWidth := (max - min) / float64(len(bins))

	// Now minimize the distance between the histogram and a normal distribution
	x0 := []float64{peakVal * binWidth * math.Sqrt(2*math.Pi), peak, binWidth}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			alpha, mu, sigma := x[0], x[1], math.Abs(x[2])+1e-12*binWidth
			scaler := alpha / (sigma * math.Sqrt(2*math.Pi))
			sumSqDiff := 0.0
			for i, y := range bins {
				xmusig := (binCenter(i, min, max, len(bins)) - mu) / sigma
				diff := float64(y) - scaler*math.Exp(-0.5*xmusig*xmusig)
				sumSqDiff += diff * diff
			}
			return math.Sqrt(sumSqDiff / float64(len(bins)))
		},
	}
	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return 0, 0, err
	}
	return result.X[1], math.Abs(result.X[2]), nil
}

// Samples per histogram bin for mode estimates
const samplesPerBin = 4

// Minimum number of samples for refining the mode with a normal fit
const minSamplesForFit = 32

// Estimates the most typical value of the samples: the histogram peak, refined
// with a normal fit when there are enough samples and the fit lands inside the range
func Mode(samples []float64, min, max float64) float64 {
	if len(samples) == 0 {
		return math.NaN()
	}
	if max <= min {
		return min
	}
	numBins := len(samples) / samplesPerBin
	if numBins < 1 {
		numBins = 1
	} else if numBins > 64 {
		numBins = 64
	}
	bins := make([]int32, numBins)
	Histogram(samples, min, max, bins)
	peak, _ := GetPeak(bins, min, max)
	if len(samples) < minSamplesForFit {
		return peak
	}
	mode, _, err := GetModeStdDevFromHistogram(bins, min, max)
	if err != nil || mode < min || mode > max || math.IsNaN(mode) {
		return peak
	}
	return mode
}
