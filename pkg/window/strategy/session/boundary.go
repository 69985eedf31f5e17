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

// Package session implements Session windows. A session is a maximal run of events of one key such that
// the gap between consecutive events never exceeds the idle-gap threshold; a gap strictly greater than the
// threshold starts a new session.
//
// Events of a group must arrive sorted by timestamp. The package never sorts, it only verifies the ordering
// and fails the group on the first inversion.
//
// The lifecycle of every consumer is explicit: Reset, zero or more Add (or Process) calls, Finalize.
// State survives across calls until Reset, so a group may be fed in several incremental batches.
package session

// Decision is the outcome of evaluating one event against the previous one.
type Decision int

const (
	// Continue keeps the event in the current session.
	Continue Decision = iota
	// Start begins a new session with the event.
	Start
	// Unsorted means the event is older than the previous one.
	Unsorted
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "Continue"
	case Start:
		return "Start"
	case Unsorted:
		return "Unsorted"
	default:
		return "Unknown"
	}
}

// Decide applies the boundary rule. last is nil for the first event of a group.
// A gap equal to threshold continues the session, only a strictly greater gap starts a new one.
func Decide(last *int64, current int64, threshold int64) Decision {
	if last == nil {
		return Start
	}
	if current < *last {
		return Unsorted
	}
	// current >= *last here, so the unsigned difference is the exact gap even when the signed one overflows.
	if uint64(current)-uint64(*last) > uint64(threshold) {
		return Start
	}
	return Continue
}
