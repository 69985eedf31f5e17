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

package window

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/numaproj/sessionize/pkg/errkind"
)

// maxMillis keeps Duration() from overflowing.
const maxMillis = math.MaxInt64 / int64(time.Millisecond)

var shorthand = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*([a-z]+)$`)

// units maps every accepted unit spelling to its length.
var units = map[string]time.Duration{
	"ms":           time.Millisecond,
	"msec":         time.Millisecond,
	"millisecond":  time.Millisecond,
	"milliseconds": time.Millisecond,
	"s":            time.Second,
	"sec":          time.Second,
	"secs":         time.Second,
	"second":       time.Second,
	"seconds":      time.Second,
	"m":            time.Minute,
	"min":          time.Minute,
	"mins":         time.Minute,
	"minute":       time.Minute,
	"minutes":      time.Minute,
	"h":            time.Hour,
	"hr":           time.Hour,
	"hrs":          time.Hour,
	"hour":         time.Hour,
	"hours":        time.Hour,
	"d":            24 * time.Hour,
	"day":          24 * time.Hour,
	"days":         24 * time.Hour,
	"w":            7 * 24 * time.Hour,
	"week":         7 * 24 * time.Hour,
	"weeks":        7 * 24 * time.Hour,
}

// Spec is the idle-gap threshold of a session window. The zero value is a threshold of 0ms.
type Spec struct {
	raw    string
	millis int64
}

// InvalidWindowSpecError is returned when a window duration cannot be parsed as a non-negative duration.
type InvalidWindowSpecError struct {
	Input  string
	Reason string
}

func (e *InvalidWindowSpecError) Error() string {
	return fmt.Sprintf("invalid window spec %q: %s", e.Input, e.Reason)
}

func (e *InvalidWindowSpecError) ErrorKind() errkind.ErrKind {
	return errkind.NonRetryable
}

func (e *InvalidWindowSpecError) ErrorMessage() string {
	return e.Error()
}

// ParseSpec parses a shorthand duration such as "30m", "10s", "1h", "2d" or "1.5h". Compound Go durations
// ("1h30m") are accepted as well. Fractional results are truncated to whole milliseconds.
func ParseSpec(s string) (Spec, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if in == "" {
		return Spec{}, &InvalidWindowSpecError{Input: s, Reason: "empty duration"}
	}
	if strings.HasPrefix(in, "-") {
		return Spec{}, &InvalidWindowSpecError{Input: s, Reason: "duration must not be negative"}
	}

	if m := shorthand.FindStringSubmatch(in); m != nil {
		unit, ok := units[m[2]]
		if !ok {
			return Spec{}, &InvalidWindowSpecError{Input: s, Reason: fmt.Sprintf("unknown unit %q", m[2])}
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Spec{}, &InvalidWindowSpecError{Input: s, Reason: err.Error()}
		}
		millis := n * float64(unit/time.Millisecond)
		if millis > float64(maxMillis) {
			return Spec{}, &InvalidWindowSpecError{Input: s, Reason: "duration out of range"}
		}
		return Spec{raw: s, millis: int64(millis)}, nil
	}

	d, err := time.ParseDuration(in)
	if err != nil {
		return Spec{}, &InvalidWindowSpecError{Input: s, Reason: "expected <number><unit>, e.g. 30m"}
	}
	if d < 0 {
		return Spec{}, &InvalidWindowSpecError{Input: s, Reason: "duration must not be negative"}
	}
	return Spec{raw: s, millis: d.Milliseconds()}, nil
}

// MustParseSpec is like ParseSpec but panics on error.
func MustParseSpec(s string) Spec {
	spec, err := ParseSpec(s)
	if err != nil {
		panic(err)
	}
	return spec
}

// SpecFromDuration builds a Spec from an already typed duration.
func SpecFromDuration(d time.Duration) (Spec, error) {
	if d < 0 {
		return Spec{}, &InvalidWindowSpecError{Input: d.String(), Reason: "duration must not be negative"}
	}
	return Spec{raw: d.String(), millis: d.Milliseconds()}, nil
}

// Millis returns the threshold in milliseconds.
func (s Spec) Millis() int64 {
	return s.millis
}

// Duration returns the threshold as a time.Duration.
func (s Spec) Duration() time.Duration {
	return time.Duration(s.millis) * time.Millisecond
}

func (s Spec) String() string {
	if s.raw != "" {
		return s.raw
	}
	return s.Duration().String()
}
