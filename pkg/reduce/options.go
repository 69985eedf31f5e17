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

package reduce

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/numaproj/sessionize/pkg/event"
	"github.com/numaproj/sessionize/pkg/window/strategy/session"
)

// Mode selects the output shape of a run.
type Mode string

const (
	// ModeTag emits every event with its session id appended.
	ModeTag Mode = "tag"
	// ModeCount emits the number of sessions of every group.
	ModeCount Mode = "count"
)

// ParseMode parses a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeTag:
		return ModeTag, nil
	case ModeCount:
		return ModeCount, nil
	default:
		return "", fmt.Errorf("unsupported mode %q, expected %q or %q", s, ModeTag, ModeCount)
	}
}

// ErrorPolicy decides what happens to a run when one group fails.
type ErrorPolicy string

const (
	// FailFast aborts the whole run on the first failed group.
	FailFast ErrorPolicy = "fail-fast"
	// SkipGroup drops the failed group from the output and carries on with the others.
	SkipGroup ErrorPolicy = "skip-group"
)

// ParseErrorPolicy parses an ErrorPolicy.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch ErrorPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case FailFast:
		return FailFast, nil
	case SkipGroup:
		return SkipGroup, nil
	default:
		return "", fmt.Errorf("unsupported error policy %q, expected %q or %q", s, FailFast, SkipGroup)
	}
}

// Options for processing groups
type Options struct {
	// mode is the output shape
	mode Mode
	// parallelism is the number of slots processing groups concurrently
	parallelism int
	// batchSize is the number of events fed to a consumer per call, 0 feeds the whole group at once
	batchSize int
	// errorPolicy decides whether a failed group aborts the run
	errorPolicy ErrorPolicy
	// ids generates session identifiers
	ids session.IDGenerator
	// timestampFormat is the representation of the timestamp field
	timestampFormat event.TimestampFormat
}

type Option func(*Options) error

func DefaultOptions() *Options {
	return &Options{
		mode:            ModeTag,
		parallelism:     runtime.NumCPU(),
		errorPolicy:     FailFast,
		ids:             session.UUIDGenerator{},
		timestampFormat: event.ISO8601,
	}
}

// WithMode sets the output mode
func WithMode(m Mode) Option {
	return func(o *Options) error {
		if _, err := ParseMode(string(m)); err != nil {
			return err
		}
		o.mode = m
		return nil
	}
}

// WithParallelism sets the number of slots
func WithParallelism(n int) Option {
	return func(o *Options) error {
		if n < 1 {
			return fmt.Errorf("parallelism must be at least 1, got %d", n)
		}
		o.parallelism = n
		return nil
	}
}

// WithBatchSize sets the number of events fed to a consumer per call
func WithBatchSize(n int) Option {
	return func(o *Options) error {
		if n < 0 {
			return fmt.Errorf("batch size must not be negative, got %d", n)
		}
		o.batchSize = n
		return nil
	}
}

// WithErrorPolicy sets the error policy
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(o *Options) error {
		if _, err := ParseErrorPolicy(string(p)); err != nil {
			return err
		}
		o.errorPolicy = p
		return nil
	}
}

// WithIDGenerator sets the session id generator
func WithIDGenerator(ids session.IDGenerator) Option {
	return func(o *Options) error {
		if ids == nil {
			return fmt.Errorf("id generator must not be nil")
		}
		o.ids = ids
		return nil
	}
}

// WithTimestampFormat sets the timestamp representation
func WithTimestampFormat(f event.TimestampFormat) Option {
	return func(o *Options) error {
		o.timestampFormat = f
		return nil
	}
}
