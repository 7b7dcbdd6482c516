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

// Package rest exposes selection and benchmark experiments over HTTP.
package rest

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mlnoga/quickselect/internal/bench"
	"github.com/mlnoga/quickselect/internal/plot"
	"github.com/mlnoga/quickselect/internal/qsort"
	"github.com/pkg/errors"
)

// Error kinds reported to clients
const (
	KindBadRequest  = "badRequest"
	KindEmptyInput  = "emptyInput"
	KindInvalidRank = "invalidRank"
	KindInternal    = "internal"
	KindCanceled    = "canceled"
)

// HTTP server settings
type Server struct {
	Log            io.Writer // experiment progress, nil for none
	MaxInputLength int       // per request input length limit, 0=unlimited
	MaxWork        int64     // per experiment limit on timed calls times largest input length, 0=unlimited
	MaxBodyBytes   int64     // request body limit, 0=unlimited
}

func NewServer(log io.Writer) *Server {
	return &Server{
		Log:            log,
		MaxInputLength: 1000000,
		MaxWork:        50000000,
		MaxBodyBytes:   32 << 20,
	}
}

// Serves the API on the given address, e.g. ":8080"
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	api := r.Group("/api")
	{
		v1 := api.Group("/v1")
		v1.Use(s.limitBody)
		{
			v1.GET("/ping", getPing)
			v1.POST("/select", s.postSelect)
			v1.POST("/bench", s.postBench)
			v1.POST("/plot", s.postPlot)
		}
	}
	return r
}

// Caps the number of bytes handlers may read from the request body
func (s *Server) limitBody(c *gin.Context) {
	if s.MaxBodyBytes > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.MaxBodyBytes)
	}
	c.Next()
}

func getPing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

func abort(c *gin.Context, status int, kind string, err error) {
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

type postSelectArgs struct {
	Values []float64 `json:"values"`
	K      int       `json:"k"`
	Policy string    `json:"policy"`
	Seed   uint32    `json:"seed"` // 0 for the process-wide random source
}

func (s *Server) postSelect(c *gin.Context) {
	var args postSelectArgs
	if err := c.ShouldBindJSON(&args); err != nil {
		abort(c, http.StatusBadRequest, KindBadRequest, err)
		return
	}
	if s.MaxInputLength > 0 && len(args.Values) > s.MaxInputLength {
		abort(c, http.StatusBadRequest, KindBadRequest,
			errors.Errorf("%d values exceeds limit of %d", len(args.Values), s.MaxInputLength))
		return
	}
	p, err := qsort.ParsePolicy(args.Policy)
	if err != nil {
		abort(c, http.StatusBadRequest, KindBadRequest, err)
		return
	}
	var src qsort.IndexSource
	if args.Seed != 0 {
		src = qsort.NewSeededSource(args.Seed)
	}

	res, err := qsort.Select(args.Values, args.K, p, src)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"result": res})
	case errors.Is(err, qsort.ErrEmptyInput):
		abort(c, http.StatusBadRequest, KindEmptyInput, err)
	case errors.Is(err, qsort.ErrInvalidRank):
		abort(c, http.StatusBadRequest, KindInvalidRank, err)
	default:
		abort(c, http.StatusInternalServerError, KindInternal, err)
	}
}

// Query parameters of experiment runs
type benchQuery struct {
	Seed   uint32 `form:"seed"`
	Verify bool   `form:"verify"`
	Format string `form:"format"` // plot only: png or tiff
}

// Decodes the experiment plan in the request body and runs it
func (s *Server) runExperiment(c *gin.Context) (*bench.Result, *benchQuery, bool) {
	var q benchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abort(c, http.StatusBadRequest, KindBadRequest, err)
		return nil, nil, false
	}
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abort(c, http.StatusRequestEntityTooLarge, KindBadRequest, err)
		} else {
			abort(c, http.StatusBadRequest, KindBadRequest, err)
		}
		return nil, nil, false
	}
	e, err := bench.UnmarshalExperiment(body)
	if err != nil {
		abort(c, http.StatusBadRequest, KindBadRequest, err)
		return nil, nil, false
	}
	if work := bench.Work(e); s.MaxWork > 0 && work > s.MaxWork {
		abort(c, http.StatusBadRequest, KindBadRequest,
			errors.Errorf("%s experiment needs work %d, exceeds limit of %d", e.GetType(), work, s.MaxWork))
		return nil, nil, false
	}

	ctx := bench.NewContext(s.Log)
	ctx.MaxInputLength = s.MaxInputLength
	ctx.Seed, ctx.Verify = q.Seed, q.Verify
	ctx.Ctx = c.Request.Context()
	r, err := e.Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		abort(c, http.StatusServiceUnavailable, KindCanceled, err)
		return nil, nil, false
	default:
		abort(c, http.StatusBadRequest, KindBadRequest, err)
		return nil, nil, false
	}
	return r, &q, true
}

func (s *Server) postBench(c *gin.Context) {
	if r, _, ok := s.runExperiment(c); ok {
		c.JSON(http.StatusOK, r)
	}
}

func (s *Server) postPlot(c *gin.Context) {
	r, q, ok := s.runExperiment(c)
	if !ok {
		return
	}
	format, contentType := plot.FormatPNG, "image/png"
	switch q.Format {
	case "", "png":
	case "tif", "tiff":
		format, contentType = plot.FormatTIFF, "image/tiff"
	default:
		abort(c, http.StatusBadRequest, KindBadRequest, errors.Errorf("unknown image format '%s'", q.Format))
		return
	}
	var buf bytes.Buffer
	if err := plot.Render(&buf, r.Chart(), format); err != nil {
		abort(c, http.StatusInternalServerError, KindInternal, err)
		return
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
