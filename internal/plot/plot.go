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


// Package plot renders measurement series and fitted curves as PNG or TIFF charts.
package plot

import (
	"bufio"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"golang.org/x/image/tiff"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Smallest chart that still leaves room for axes, labels and legend
const (
	minWidth  = 200
	minHeight = 150
)

// A set of measured points, drawn as markers
type Series struct {
	Name string
	X, Y []float64
}

// A fitted curve, drawn as a polyline across the x range of the chart
type Curve struct {
	Name   string
	Series string // name of the series whose color the curve takes, if any
	F      func(x float64) float64
}

// A chart with optional logarithmic axes
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	LogX   bool
	LogY   bool
	Series []Series
	Curves []Curve
	Width  int // pixels, 0 for DefaultWidth
	Height int // pixels, 0 for DefaultHeight
}

// Output image format
type Format string

const (
	FormatPNG  Format = "png"
	FormatTIFF Format = "tiff"
)

// Determines the image format from the suffix of a file name
func FormatFromFileName(fileName string) (Format, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".png":
		return FormatPNG, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	}
	return "", errors.Errorf("unknown image suffix for file %s, want .png, .tif or .tiff", fileName)
}

// Renders the chart and encodes it to the writer in the given format
func Render(w io.Writer, c *Chart, f Format) error {
	if f != FormatPNG && f != FormatTIFF {
		return errors.Errorf("unknown image format '%s'", f)
	}
	img, err := c.Draw()
	if err != nil {
		return err
	}
	if f == FormatPNG {
		return png.Encode(w, img)
	}
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

// Renders the chart to a file, with the format determined by the file suffix
func WriteFile(fileName string, c *Chart) error {
	f, err := FormatFromFileName(fileName)
	if err != nil {
		return err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "creating chart file")
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err = Render(writer, c, f); err != nil {
		return errors.Wrap(err, "writing chart file")
	}
	return errors.Wrap(writer.Flush(), "writing chart file")
}

// Evenly spaced hues at constant chroma and luminance
func palette(n int) []color.Color {
	cols := make([]color.Color, n)
	for i := range cols {
		cols[i] = colorful.Hcl(float64(i)*360/float64(max(n, 1)), 0.7, 0.55).Clamped()
	}
	return cols
}

// Draws the chart into a new image, one pixel per point at 72 dpi
func (c *Chart) Draw() (image.Image, error) {
	width, height := c.Width, c.Height
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	if width < minWidth || height < minHeight {
		return nil, errors.Errorf("chart size %dx%d too small, need at least %dx%d", width, height, minWidth, minHeight)
	}
	p, err := c.Plot()
	if err != nil {
		return nil, err
	}
	canvas := vgimg.NewWith(
		vgimg.UseWH(vg.Length(width), vg.Length(height)),
		vgimg.UseDPI(72),
		vgimg.UseBackgroundColor(color.White),
	)
	p.Draw(draw.New(canvas))
	return canvas.Image(), nil
}

// Builds the gonum plot: scatter markers per series, one line per curve, legend.
// Points that cannot be shown on a logarithmic axis are left out.
func (c *Chart) Plot() (*gplot.Plot, error) {
	pts := make([]plotter.XYs, len(c.Series))
	xmin, xmax := math.Inf(1), math.Inf(-1)
	for i, s := range c.Series {
		for j := range s.X {
			if j < len(s.Y) && valid(c.LogX, s.X[j]) && valid(c.LogY, s.Y[j]) {
				pts[i] = append(pts[i], plotter.XY{X: s.X[j], Y: s.Y[j]})
				xmin, xmax = math.Min(xmin, s.X[j]), math.Max(xmax, s.X[j])
			}
		}
	}
	if xmin > xmax {
		return nil, errors.New("chart has no points to plot")
	}

	p := gplot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	if c.LogX {
		p.X.Scale = gplot.LogScale{}
		p.X.Tick.Marker = gplot.LogTicks{Prec: -1}
	}
	if c.LogY {
		p.Y.Scale = gplot.LogScale{}
		p.Y.Tick.Marker = gplot.LogTicks{Prec: -1}
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true

	cols := palette(len(c.Series) + len(c.Curves))
	seriesCol := map[string]color.Color{}
	for i, s := range c.Series {
		seriesCol[s.Name] = cols[i]
		if len(pts[i]) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(pts[i])
		if err != nil {
			return nil, errors.Wrapf(err, "series %s", s.Name)
		}
		sc.GlyphStyle.Color = cols[i]
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(3)
		p.Add(sc)
		p.Legend.Add(s.Name, sc)
	}
	for i, cu := range c.Curves {
		samples := c.sample(cu.F, xmin, xmax)
		if len(samples) < 2 {
			continue
		}
		l, err := plotter.NewLine(samples)
		if err != nil {
			return nil, errors.Wrapf(err, "curve %s", cu.Name)
		}
		col, ok := seriesCol[cu.Series]
		if !ok {
			col = cols[len(c.Series)+i]
		}
		l.Color = col
		l.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(cu.Name, l)
	}

	if !c.LogY && p.Y.Min > 0 {
		p.Y.Min = 0
	}
	widen(&p.X, c.LogX)
	widen(&p.Y, c.LogY)
	return p, nil
}

const curveSamples = 200

// Samples f across [lo,hi], evenly spaced on the chart's x scale. Drops
// samples the y axis cannot show.
func (c *Chart) sample(f func(float64) float64, lo, hi float64) plotter.XYs {
	xys := make(plotter.XYs, 0, curveSamples+1)
	for i := 0; i <= curveSamples; i++ {
		t := float64(i) / curveSamples
		x := lo + (hi-lo)*t
		if c.LogX {
			x = lo * math.Pow(hi/lo, t)
		}
		if y := f(x); valid(c.LogY, y) {
			xys = append(xys, plotter.XY{X: x, Y: y})
		}
	}
	return xys
}

// Opens up an empty axis range around its single value
func widen(a *gplot.Axis, log bool) {
	if a.Min != a.Max {
		return
	}
	if log {
		a.Min, a.Max = a.Min/2, a.Max*2
	} else {
		a.Min, a.Max = a.Min-0.5, a.Max+0.5
	}
}

func valid(log bool, v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && (!log || v > 0)
}
