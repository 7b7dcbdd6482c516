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
	"sync"
	"sync/atomic"
)

// Pool of constant sized arrays of given type, to reduce memory allocation overhead.
// Safe for concurrent use, e.g. by experiments running in parallel server requests.
type SizedPool[T any] struct {
	sync.RWMutex
	m     map[int]*sync.Pool
	inUse atomic.Int64
}

func NewSizedPool[T any]() *SizedPool[T] {
	return &SizedPool[T]{m: make(map[int]*sync.Pool)}
}

// Returns the pool for arrays of the given size
func (p *SizedPool[T]) sized(size int) *sync.Pool {
	p.RLock()
	pool := p.m[size]
	p.RUnlock()
	if pool != nil {
		return pool
	}
	p.Lock()
	defer p.Unlock()
	if pool = p.m[size]; pool == nil {
		pool = &sync.Pool{
			New: func() interface{} {
				return make([]T, size)
			},
		}
		p.m[size] = pool
	}
	return pool
}

// Retrieves an array of given size from the pool. Contents are undefined.
func (p *SizedPool[T]) Get(size int) []T {
	p.inUse.Add(1)
	return p.sized(size).Get().([]T)
}

// Returns an array to the pool
func (p *SizedPool[T]) Put(arr []T) {
	p.inUse.Add(-1)
	p.sized(cap(arr)).Put(arr[:cap(arr)])
}

// Number of arrays handed out and not yet returned
func (p *SizedPool[T]) InUse() int { return int(p.inUse.Load()) }

// Work buffers for timed selections
var workBuffers = NewSizedPool[int]()
