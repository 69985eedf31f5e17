/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package session

import (
	"sync"

	"github.com/numaproj/sessionize/pkg/event"
	"github.com/numaproj/sessionize/pkg/window"
)

// Pool recycles accumulators sharing one window spec and one identifier generator. Every accumulator
// leaving the pool is in the NO_SESSION state, so no group can observe the state of a previous one.
type Pool struct {
	spec window.Spec
	ids  IDGenerator
	pool sync.Pool
}

// NewPool returns a Pool of accumulators for spec.
func NewPool(spec window.Spec, ids IDGenerator) *Pool {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	p := &Pool{
		spec: spec,
		ids:  ids,
	}
	p.pool.New = func() any {
		return NewAccumulator(p.spec, WithIDGenerator(p.ids))
	}
	return p
}

// Spec returns the window spec of the pool.
func (p *Pool) Spec() window.Spec {
	return p.spec
}

// Get returns an accumulator in the NO_SESSION state.
func (p *Pool) Get() *Accumulator {
	acc := p.pool.Get().(*Accumulator)
	acc.Reset()
	return acc
}

// Put resets acc and returns it to the pool.
func (p *Pool) Put(acc *Accumulator) {
	if acc == nil {
		return
	}
	acc.Reset()
	p.pool.Put(acc)
}

// NewTagger returns a Tagger backed by a pooled accumulator, Release returns it.
func (p *Pool) NewTagger(extractor *event.Extractor) *Tagger {
	t := NewTagger(p.Get(), extractor)
	t.release = p.Put
	return t
}

// NewCounter returns a Counter backed by a pooled accumulator, Release returns it.
func (p *Pool) NewCounter(extractor *event.Extractor) *Counter {
	c := NewCounter(p.Get(), extractor)
	c.release = p.Put
	return c
}
