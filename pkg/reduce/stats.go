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
	"go.uber.org/atomic"
)

// Stats accumulates processing statistics across runs of a Processor.
type Stats struct {
	groups   *atomic.Int64
	failed   *atomic.Int64
	events   *atomic.Int64
	sessions *atomic.Int64
}

// StatsSnapshot is a point in time copy of Stats.
type StatsSnapshot struct {
	Groups   int64
	Failed   int64
	Events   int64
	Sessions int64
}

func newStats() *Stats {
	return &Stats{
		groups:   atomic.NewInt64(0),
		failed:   atomic.NewInt64(0),
		events:   atomic.NewInt64(0),
		sessions: atomic.NewInt64(0),
	}
}

// Snapshot returns the current values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Groups:   s.groups.Load(),
		Failed:   s.failed.Load(),
		Events:   s.events.Load(),
		Sessions: s.sessions.Load(),
	}
}
