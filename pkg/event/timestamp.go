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

package event

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// TimestampFormat declares how the timestamp field of every event in a run is represented.
// It is configured once, never detected per event.
type TimestampFormat string

const (
	ISO8601     TimestampFormat = "iso8601"
	EpochMillis TimestampFormat = "epoch-millis"
)

// ParseTimestampFormat accepts the canonical names plus a few common aliases.
func ParseTimestampFormat(s string) (TimestampFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "iso8601", "iso-8601", "iso", "rfc3339":
		return ISO8601, nil
	case "epoch-millis", "epoch_millis", "epochmillis", "millis", "ms":
		return EpochMillis, nil
	default:
		return "", fmt.Errorf("unsupported timestamp format %q, expected %q or %q", s, ISO8601, EpochMillis)
	}
}

// Extractor converts the timestamp field of an event into epoch milliseconds.
type Extractor struct {
	format TimestampFormat
}

// NewExtractor returns an Extractor for the given format.
func NewExtractor(format TimestampFormat) (*Extractor, error) {
	switch format {
	case ISO8601, EpochMillis:
		return &Extractor{format: format}, nil
	default:
		return nil, fmt.Errorf("unsupported timestamp format %q", format)
	}
}

// Format returns the configured timestamp format.
func (x *Extractor) Format() TimestampFormat {
	return x.format
}

// Millis returns the timestamp of e in epoch milliseconds.
func (x *Extractor) Millis(e Event) (int64, error) {
	raw, ok := e.Timestamp()
	if !ok {
		return 0, fmt.Errorf("event has no fields")
	}
	if x.format == EpochMillis {
		return epochMillis(raw)
	}
	return isoMillis(raw)
}

func epochMillis(raw any) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("epoch millis %d out of range", v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("epoch millis %v is not an integer", v)
		}
		// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
		if v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, fmt.Errorf("epoch millis %v out of range", v)
		}
		return int64(v), nil
	case json.Number:
		return strconv.ParseInt(v.String(), 10, 64)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("epoch millis %q is not an integer", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported epoch millis type %T", raw)
	}
}

func isoMillis(raw any) (int64, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.UnixMilli(), nil
	case string:
		s := strings.TrimSpace(v)
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UnixMilli(), nil
		}
		t, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return 0, fmt.Errorf("timestamp %q is not ISO-8601: %w", v, err)
		}
		return t.UnixMilli(), nil
	default:
		return 0, fmt.Errorf("unsupported ISO-8601 timestamp type %T", raw)
	}
}
