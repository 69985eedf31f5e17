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
	"errors"
	"fmt"
	"time"

	"github.com/numaproj/sessionize/pkg/errkind"
)

// ErrGroupFailed is returned when events are fed to a consumer whose group already failed.
// The consumer must be reset before it can be used again.
var ErrGroupFailed = errors.New("group processing already failed, reset before reuse")

// UnsortedInputError reports an event older than its predecessor within the same group.
type UnsortedInputError struct {
	// Index is the position of the offending event within the group.
	Index    int
	Previous int64
	Current  int64
}

func (e *UnsortedInputError) Error() string {
	return fmt.Sprintf("unsorted input at event %d: timestamp %s is before previous timestamp %s",
		e.Index, formatMillis(e.Current), formatMillis(e.Previous))
}

func (e *UnsortedInputError) ErrorKind() errkind.ErrKind {
	return errkind.NonRetryable
}

func (e *UnsortedInputError) ErrorMessage() string {
	return e.Error()
}

// InputShapeError reports a group or an event that does not have the expected shape.
type InputShapeError struct {
	// Index is the position of the offending event within the group, -1 when the whole group is at fault.
	Index  int
	Reason string
}

func (e *InputShapeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid group: %s", e.Reason)
	}
	return fmt.Sprintf("invalid event %d: %s", e.Index, e.Reason)
}

func (e *InputShapeError) ErrorKind() errkind.ErrKind {
	return errkind.NonRetryable
}

func (e *InputShapeError) ErrorMessage() string {
	return e.Error()
}

func formatMillis(ms int64) string {
	return fmt.Sprintf("%d (%s)", ms, time.UnixMilli(ms).UTC().Format(time.RFC3339Nano))
}
