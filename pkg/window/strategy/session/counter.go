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
	"github.com/numaproj/sessionize/pkg/event"
)

// Counter counts the sessions of a group without retaining the events.
type Counter struct {
	acc       *Accumulator
	extractor *event.Extractor
	count     int
	release   func(*Accumulator)
}

// NewCounter returns a Counter driving acc. The accumulator is reset so the counter starts a fresh group.
// extractor may be nil when only AddTimestamps is used.
func NewCounter(acc *Accumulator, extractor *event.Extractor) *Counter {
	acc.Reset()
	return &Counter{
		acc:       acc,
		extractor: extractor,
	}
}

// Add evaluates events in order.
func (c *Counter) Add(events ...event.Event) error {
	if c.extractor == nil {
		return &InputShapeError{Index: -1, Reason: "counter has no timestamp extractor"}
	}
	for _, e := range events {
		ts, err := timestampOf(c.acc, c.extractor, e)
		if err != nil {
			return err
		}
		if err := c.observe(ts); err != nil {
			return err
		}
	}
	return nil
}

// AddTimestamps evaluates already extracted epoch millisecond timestamps in order.
func (c *Counter) AddTimestamps(ts ...int64) error {
	for _, v := range ts {
		if err := c.observe(v); err != nil {
			return err
		}
	}
	return nil
}

func (c *Counter) observe(ts int64) error {
	d, _, err := c.acc.Process(ts)
	if err != nil {
		return err
	}
	if d == Start {
		c.count++
	}
	return nil
}

// Finalize returns the number of sessions seen since the last Reset: 0 for an empty group, at least 1 otherwise.
func (c *Counter) Finalize() int {
	return c.count
}

// State returns the group state of the underlying accumulator.
func (c *Counter) State() GroupState {
	return c.acc.State()
}

// Reset clears the count and the group state.
func (c *Counter) Reset() {
	c.count = 0
	c.acc.Reset()
}

// Release hands the accumulator back to the pool it came from. The counter must not be used afterwards.
func (c *Counter) Release() {
	if c.release != nil {
		c.release(c.acc)
		c.release = nil
	}
	c.acc = nil
}

// Count counts the sessions of a complete group in one call.
func Count(acc *Accumulator, extractor *event.Extractor, events []event.Event) (int, error) {
	c := NewCounter(acc, extractor)
	if err := c.Add(events...); err != nil {
		return 0, err
	}
	return c.Finalize(), nil
}
