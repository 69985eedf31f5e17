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

// Tagger tags every event of a group with the identifier of its session.
type Tagger struct {
	acc       *Accumulator
	extractor *event.Extractor
	buf       []event.Tagged
	release   func(*Accumulator)
}

// NewTagger returns a Tagger driving acc. The accumulator is reset so the tagger starts a fresh group.
func NewTagger(acc *Accumulator, extractor *event.Extractor) *Tagger {
	acc.Reset()
	return &Tagger{
		acc:       acc,
		extractor: extractor,
	}
}

// Add tags events in order. Events processed before a failing one stay in the buffer, the failing event
// and every later one are rejected.
func (t *Tagger) Add(events ...event.Event) error {
	for _, e := range events {
		ts, err := timestampOf(t.acc, t.extractor, e)
		if err != nil {
			return err
		}
		_, id, err := t.acc.Process(ts)
		if err != nil {
			return err
		}
		t.buf = append(t.buf, event.Tagged{Event: e, SessionID: id})
	}
	return nil
}

// Finalize returns the tagged events accumulated since the last Reset, in input order.
// It does not change any state; calling Add afterwards continues the same group.
func (t *Tagger) Finalize() []event.Tagged {
	return t.buf[:len(t.buf):len(t.buf)]
}

// State returns the group state of the underlying accumulator.
func (t *Tagger) State() GroupState {
	return t.acc.State()
}

// Reset clears the output buffer and the group state.
func (t *Tagger) Reset() {
	t.buf = nil
	t.acc.Reset()
}

// Release hands the accumulator back to the pool it came from. The tagger must not be used afterwards.
func (t *Tagger) Release() {
	t.buf = nil
	if t.release != nil {
		t.release(t.acc)
		t.release = nil
	}
	t.acc = nil
}

// Tag tags a complete group in one call. An empty group is an InputShapeError.
func Tag(acc *Accumulator, extractor *event.Extractor, events []event.Event) ([]event.Tagged, error) {
	if len(events) == 0 {
		return nil, &InputShapeError{Index: -1, Reason: "group has no events"}
	}
	t := NewTagger(acc, extractor)
	if err := t.Add(events...); err != nil {
		return nil, err
	}
	return t.Finalize(), nil
}

// timestampOf extracts the timestamp of e, failing the group when e has the wrong shape.
func timestampOf(acc *Accumulator, extractor *event.Extractor, e event.Event) (int64, error) {
	if err := acc.Err(); err != nil {
		return 0, ErrGroupFailed
	}
	index := acc.State().Events
	if len(e) == 0 {
		err := &InputShapeError{Index: index, Reason: "event has no fields"}
		acc.Fail(err)
		return 0, err
	}
	ts, err := extractor.Millis(e)
	if err != nil {
		shapeErr := &InputShapeError{Index: index, Reason: err.Error()}
		acc.Fail(shapeErr)
		return 0, shapeErr
	}
	return ts, nil
}
