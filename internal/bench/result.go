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
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/cpuid"
	"github.com/mlnoga/quickselect/internal/stats"
	"github.com/pbnjay/memory"
	"github.com/pkg/errors"
)

// One measured point of a series: x value and timing summary in seconds
type Point struct {
	X float64 `json:"x"`
	stats.Summary
}

// A named series of measurements, e.g. one algorithm under one rank scenario
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Returns the x values and the mean or worst y values of the series
func (s *Series) XY(worst bool) (xs, ys []float64) {
	xs, ys = make([]float64, len(s.Points)), make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i] = p.X
		if worst {
			ys[i] = p.Worst
		} else {
			ys[i] = p.Mean
		}
	}
	return xs, ys
}

// The machine an experiment ran on
type Host struct {
	CPU      string `json:"cpu"`
	Cores    int    `json:"cores"`
	Threads  int    `json:"threads"`
	MemoryMB int    `json:"memoryMB"`
}

func CurrentHost() Host {
	return Host{
		CPU:      cpuid.CPU.BrandName,
		Cores:    cpuid.CPU.PhysicalCores,
		Threads:  cpuid.CPU.LogicalCores,
		MemoryMB: int(memory.TotalMemory() / 1024 / 1024),
	}
}

// Pretty print host to string
func (h Host) String() string {
	return fmt.Sprintf("%s, %d cores, %d threads, %s RAM", h.CPU, h.Cores, h.Threads,
		humanize.IBytes(uint64(h.MemoryMB)*1024*1024))
}

// Results of an experiment, with axis hints for plotting
type Result struct {
	Type   string      `json:"type"`
	Title  string      `json:"title"`
	XLabel string      `json:"xLabel"`
	YLabel string      `json:"yLabel"`
	LogX   bool        `json:"logX"`
	LogY   bool        `json:"logY"`
	Worst  bool        `json:"worst"` // plot worst instead of mean times
	Host   Host        `json:"host"`
	Series []Series    `json:"series"`
	Fits   []stats.Fit `json:"fits"`
}

// Returns the fit for the given series and model, or nil
func (r *Result) Fit(series string, model stats.Model) *stats.Fit {
	for i := range r.Fits {
		if r.Fits[i].Series == series && r.Fits[i].Model == model {
			return &r.Fits[i]
		}
	}
	return nil
}

// Pretty print result header to CSV
func (r *Result) ToCSVHeader() string {
	return "Series,X,Count,Mean,StdDev,Min,Worst,Median"
}

// Pretty print result series to CSV line items, one per point
func (r *Result) ToCSVLines() []string {
	var lines []string
	for _, s := range r.Series {
		for _, p := range s.Points {
			lines = append(lines, fmt.Sprintf("%s,%g,%d,%.6g,%.6g,%.6g,%.6g,%.6g",
				s.Name, p.X, p.Count, p.Mean, p.StdDev, p.Min, p.Worst, p.Median))
		}
	}
	return lines
}

// Writes header and line items as CSV
func (r *Result) WriteCSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, r.ToCSVHeader()); err != nil {
		return err
	}
	for _, l := range r.ToCSVLines() {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// Writes CSV to a file
func (r *Result) WriteCSVFile(fileName string) error {
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "creating CSV file")
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := r.WriteCSV(writer); err != nil {
		return errors.Wrap(err, "writing CSV file")
	}
	return errors.Wrap(writer.Flush(), "writing CSV file")
}

// Logs the fitted curves
func (r *Result) LogFits(w io.Writer) {
	for _, f := range r.Fits {
		fmt.Fprintf(w, "%-24s %-9s %s", f.Series, f.Model, f.String())
		if f.Model != stats.ModelQuadratic {
			fmt.Fprintf(w, "  R^2 %.4f", f.RSquared)
		}
		fmt.Fprintln(w)
	}
}
