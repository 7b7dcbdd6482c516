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
	"github.com/mlnoga/quickselect/internal/plot"
)

// Converts the result into a chart of mean times, plus worst times if requested,
// with one curve per fit
func (r *Result) Chart() *plot.Chart {
	c := &plot.Chart{
		Title:  r.Title,
		XLabel: r.XLabel,
		YLabel: r.YLabel,
		LogX:   r.LogX,
		LogY:   r.LogY,
	}
	for i := range r.Series {
		xs, ys := r.Series[i].XY(false)
		c.Series = append(c.Series, plot.Series{Name: r.Series[i].Name, X: xs, Y: ys})
		if r.Worst {
			xs, ys = r.Series[i].XY(true)
			c.Series = append(c.Series, plot.Series{Name: r.Series[i].Name + worstSuffix, X: xs, Y: ys})
		}
	}
	for _, f := range r.Fits {
		f := f
		c.Curves = append(c.Curves, plot.Curve{
			Name:   f.String(),
			Series: f.Series,
			F:      f.Eval,
		})
	}
	return c
}
