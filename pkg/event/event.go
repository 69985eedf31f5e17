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

// Package event defines the tuples flowing through session segmentation. An event is an ordered
// tuple whose first field is its timestamp; every other field is an opaque payload carried through
// untouched.
package event

// TimestampField is the index of the timestamp inside an Event.
const TimestampField = 0

// Event is an ordered tuple of fields.
type Event []any

// New returns an Event with the given timestamp followed by the payload fields.
func New(ts any, payload ...any) Event {
	e := make(Event, 0, len(payload)+1)
	e = append(e, ts)
	return append(e, payload...)
}

// Timestamp returns the raw timestamp field, false if the event is empty.
func (e Event) Timestamp() (any, bool) {
	if len(e) == 0 {
		return nil, false
	}
	return e[TimestampField], true
}

// Tagged is an event annotated with the identifier of the session it belongs to.
type Tagged struct {
	Event     Event
	SessionID string
}

// Fields returns the original fields with the session id appended as the trailing field.
func (t Tagged) Fields() []any {
	out := make([]any, 0, len(t.Event)+1)
	out = append(out, t.Event...)
	return append(out, t.SessionID)
}
