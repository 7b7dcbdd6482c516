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

// Package bench times the selection algorithm and its baselines on synthetic inputs.
package bench

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mlnoga/quickselect/internal/gen"
	"github.com/mlnoga/quickselect/internal/qsort"
	"github.com/pbnjay/memory"
	"github.com/pkg/errors"
	"github.com/valyala/fastrand"
)

// An execution context for experiments
type Context struct {
	Log            io.Writer
	MemoryMB       int    // memory.TotalMemory()/1024/1024
	BenchMemoryMB  int    // MemoryMB*7/10
	MaxInputLength int    // 0=unlimited
	Seed           uint32 // 0=random seeds
	Verify         bool   // cross-check every result against the full sort baseline

	// Called after every timed trial, if set
	Progress func(done, total int)

	// Stops the experiment before the next timed trial once done, if set
	Ctx context.Context

	done, total int
	rng         *fastrand.RNG
	pivots      qsort.IndexSource
}

func NewContext(log io.Writer) *Context {
	memoryMB := int(memory.TotalMemory() / 1024 / 1024)
	return &Context{
		Log:           log,
		MemoryMB:      memoryMB,
		BenchMemoryMB: memoryMB * 7 / 10,
	}
}

// Prepares per-run state: random generators and progress counters
func (c *Context) start(total int) {
	c.done, c.total = 0, total
	c.rng = gen.NewRNG(c.Seed)
	if c.Seed != 0 {
		c.pivots = qsort.NewSeededSource(c.Seed + 1)
	} else {
		c.pivots = qsort.FastRand()
	}
}

func (c *Context) logf(format string, args ...interface{}) {
	if c.Log != nil {
		fmt.Fprintf(c.Log, format, args...)
	}
}

func (c *Context) step() {
	c.done++
	if c.Progress != nil {
		c.Progress(c.done, c.total)
	}
}

// Bytes held per input element during one trial: input, work copy and sort copy
const bytesPerElement = 3 * 8

// Refuses input lengths beyond the configured limit or the memory budget
func (c *Context) checkLength(n int) error {
	if n < 1 {
		return errors.Errorf("input length %d, need at least 1", n)
	}
	if c.MaxInputLength > 0 && n > c.MaxInputLength {
		return errors.Errorf("input length %s exceeds limit of %s",
			humanize.Comma(int64(n)), humanize.Comma(int64(c.MaxInputLength)))
	}
	need := uint64(n) * bytesPerElement
	if c.BenchMemoryMB > 0 && need > uint64(c.BenchMemoryMB)*1024*1024 {
		return errors.Errorf("input length %s needs %s, budget is %s", humanize.Comma(int64(n)),
			humanize.Bytes(need), humanize.Bytes(uint64(c.BenchMemoryMB)*1024*1024))
	}
	return nil
}

// Algorithms under measurement
type Algorithm string

const (
	AlgQuickselect Algorithm = "quickselect" // deterministic pivot
	AlgRandomized  Algorithm = "randomized"  // randomized pivot
	AlgFullSort    Algorithm = "fullsort"
	AlgHeap        Algorithm = "heap"
)

type selectFunc func(work []int, k int) (int, error)

func (c *Context) selector(a Algorithm) (selectFunc, error) {
	switch a {
	case AlgQuickselect:
		return func(w []int, k int) (int, error) { return qsort.SelectInPlace(w, k, qsort.Deterministic, nil) }, nil
	case AlgRandomized:
		return func(w []int, k int) (int, error) { return qsort.SelectInPlace(w, k, qsort.Randomized, c.pivots) }, nil
	case AlgFullSort:
		return qsort.KthLargestSort[int], nil
	case AlgHeap:
		return qsort.KthLargestHeap[int], nil
	}
	return nil, errors.Errorf("unknown algorithm '%s'", a)
}

// Maps a pivot policy to the algorithm measuring it
func policyAlgorithm(p qsort.Policy) Algorithm {
	if p == qsort.Randomized {
		return AlgRandomized
	}
	return AlgQuickselect
}

// Times one call of f on a fresh copy of input. The copy is made outside the
// timed region. With c.Verify set, checks the answer against the full sort.
func (c *Context) timeOnce(f selectFunc, name Algorithm, input, work []int, k int) (time.Duration, error) {
	if c.Ctx != nil {
		if err := c.Ctx.Err(); err != nil {
			return 0, errors.Wrapf(err, "stopped after %d of %d trials", c.done, c.total)
		}
	}
	copy(work, input)
	start := time.Now()
	res, err := f(work, k)
	elapsed := time.Since(start)
	if err != nil {
		return 0, errors.Wrapf(err, "%s n=%d k=%d", name, len(input), k)
	}
	if c.Verify {
		want, err := qsort.KthLargestSort(input, k)
		if err != nil {
			return 0, err
		}
		if res != want {
			return 0, errors.Errorf("%s n=%d k=%d returned %d, full sort says %d", name, len(input), k, res, want)
		}
	}
	c.step()
	return elapsed, nil
}
