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
	"github.com/numaproj/sessionize/pkg/window"
)

// GroupState is the mutable state of one group. The zero value is the NO_SESSION state.
type GroupState struct {
	// Seen is false until the first event has been processed.
	Seen bool
	// LastTimestamp is the timestamp of the last processed event, valid only when Seen.
	LastTimestamp int64
	// SessionID identifies the current session, empty before the first event.
	SessionID string
	// Sessions is the number of Start decisions so far.
	Sessions int
	// Events is the number of events processed without error.
	Events int
}

// Last returns the last timestamp, nil before the first event.
func (s GroupState) Last() *int64 {
	if !s.Seen {
		return nil
	}
	last := s.LastTimestamp
	return &last
}

// Transition evaluates ts against s and returns the next state. On Unsorted the returned state is s
// itself along with an *UnsortedInputError. A new identifier is drawn from ids on every Start.
func Transition(s GroupState, ts int64, threshold int64, ids IDGenerator) (GroupState, Decision, error) {
	d := Decide(s.Last(), ts, threshold)
	switch d {
	case Unsorted:
		return s, d, &UnsortedInputError{Index: s.Events, Previous: s.LastTimestamp, Current: ts}
	case Start:
		s.SessionID = ids.NextID()
		s.Sessions++
	}
	s.Seen = true
	s.LastTimestamp = ts
	s.Events++
	return s, d, nil
}

// Accumulator applies the boundary rule across the events of one group, possibly spread over several calls.
// An Accumulator is not safe for concurrent use; use one per group (see Pool).
type Accumulator struct {
	threshold int64
	ids       IDGenerator
	state     GroupState
	err       error
}

// Option configures an Accumulator.
type Option func(*Accumulator)

// WithIDGenerator sets the session identifier generator, the default is UUIDGenerator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(a *Accumulator) {
		if ids != nil {
			a.ids = ids
		}
	}
}

// NewAccumulator returns an Accumulator in the NO_SESSION state.
func NewAccumulator(spec window.Spec, opts ...Option) *Accumulator {
	a := &Accumulator{
		threshold: spec.Millis(),
		ids:       UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Threshold returns the idle-gap threshold in milliseconds.
func (a *Accumulator) Threshold() int64 {
	return a.threshold
}

// Process evaluates the next event timestamp of the group and returns the decision and the id of the
// session the event belongs to. After an error the accumulator refuses further events until Reset.
func (a *Accumulator) Process(ts int64) (Decision, string, error) {
	if a.err != nil {
		return Unsorted, "", ErrGroupFailed
	}
	next, d, err := Transition(a.state, ts, a.threshold, a.ids)
	if err != nil {
		a.err = err
		return d, "", err
	}
	a.state = next
	return d, next.SessionID, nil
}

// Fail marks the group as failed, used by consumers that reject an event before it reaches Process.
func (a *Accumulator) Fail(err error) {
	if a.err == nil {
		a.err = err
	}
}

// Err returns the error that failed the group, nil if the group is healthy.
func (a *Accumulator) Err() error {
	return a.err
}

// State returns a snapshot of the group state.
func (a *Accumulator) State() GroupState {
	return a.state
}

// Reset returns the accumulator to the NO_SESSION state. No identifier is generated until the next event.
func (a *Accumulator) Reset() {
	a.state = GroupState{}
	a.err = nil
}
