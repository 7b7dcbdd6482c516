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

package qsort

import (
	"math"

	"github.com/valyala/fastrand"
)

// A source of uniformly distributed indices. Intn returns a value in [0,n) for n>0.
type IndexSource interface {
	Intn(n int) int
}

// Adapts a plain function, e.g. (*rand.Rand).Intn, to an IndexSource
type IndexFunc func(n int) int

func (f IndexFunc) Intn(n int) int { return f(n) }

// Process-wide source backed by the goroutine-safe fastrand package functions
type fastRandSource struct{}

var processSource = fastRandSource{}

// Returns the process-wide random index source. Safe for concurrent use.
func FastRand() IndexSource { return processSource }

func (fastRandSource) Intn(n int) int {
	if uint64(n) <= math.MaxUint32 {
		return int(fastrand.Uint32n(uint32(n)))
	}
	return int(wide(fastrand.Uint32(), fastrand.Uint32()) % uint64(n))
}

// Seeded source with its own fastrand.RNG state. Not safe for concurrent use.
type SeededSource struct {
	rng fastrand.RNG
}

// Returns a deterministic source for reproducible runs and tests
func NewSeededSource(seed uint32) *SeededSource {
	s := &SeededSource{}
	s.rng.Seed(seed)
	return s
}

func (s *SeededSource) Intn(n int) int {
	if uint64(n) <= math.MaxUint32 {
		return int(s.rng.Uint32n(uint32(n)))
	}
	return int(wide(s.rng.Uint32(), s.rng.Uint32()) % uint64(n))
}

// Uint32 exposes the raw generator, used by the input generators
func (s *SeededSource) Uint32() uint32 { return s.rng.Uint32() }

func wide(hi, lo uint32) uint64 { return uint64(hi)<<32 | uint64(lo) }
