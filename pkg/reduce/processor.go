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

// Package reduce runs session segmentation over many groups. Groups are spread over a fixed number of
// slots by key hash; each slot processes its groups one after the other, every group with its own
// accumulator taken from a pool, and slots run concurrently.
package reduce

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/spaolacci/murmur3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/numaproj/sessionize/pkg/errkind"
	"github.com/numaproj/sessionize/pkg/event"
	"github.com/numaproj/sessionize/pkg/metrics"
	"github.com/numaproj/sessionize/pkg/shared/logging"
	"github.com/numaproj/sessionize/pkg/window"
	"github.com/numaproj/sessionize/pkg/window/strategy/session"
)

// Result is the output of one run.
type Result struct {
	Mode Mode
	// Keys lists the keys of every input group in input order, including failed ones.
	Keys []string
	// Tagged holds the tagged events per key, ModeTag only.
	Tagged map[string][]event.Tagged
	// Counts holds the session count per key, ModeCount only.
	Counts map[string]int
	// Failed holds the error of every skipped group, SkipGroup only.
	Failed map[string]error
}

// Err combines the errors of all failed groups in key order, nil if none failed.
func (r *Result) Err() error {
	keys := make([]string, 0, len(r.Failed))
	for k := range r.Failed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var err error
	for _, k := range keys {
		err = multierr.Append(err, fmt.Errorf("group %q: %w", k, r.Failed[k]))
	}
	return err
}

// Processor segments groups of events into sessions.
type Processor struct {
	spec      window.Spec
	opts      *Options
	pool      *session.Pool
	extractor *event.Extractor
	stats     *Stats
}

// NewProcessor returns a Processor for the given idle-gap threshold.
func NewProcessor(spec window.Spec, opts ...Option) (*Processor, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	x, err := event.NewExtractor(o.timestampFormat)
	if err != nil {
		return nil, err
	}
	return &Processor{
		spec:      spec,
		opts:      o,
		pool:      session.NewPool(spec, o.ids),
		extractor: x,
		stats:     newStats(),
	}, nil
}

// Stats returns the statistics accumulated over every run of the processor.
func (p *Processor) Stats() *Stats {
	return p.stats
}

// Process segments every group. With FailFast the first failed group cancels the run and its error is
// returned; with SkipGroup failed groups are recorded in Result.Failed and the others complete.
func (p *Processor) Process(ctx context.Context, groups []Group) (*Result, error) {
	log := logging.FromContext(ctx).With("mode", p.opts.mode, "window", p.spec.String())

	res := &Result{
		Mode:   p.opts.mode,
		Keys:   make([]string, 0, len(groups)),
		Failed: make(map[string]error),
	}
	if p.opts.mode == ModeTag {
		res.Tagged = make(map[string][]event.Tagged, len(groups))
	} else {
		res.Counts = make(map[string]int, len(groups))
	}

	slots := make([][]Group, p.opts.parallelism)
	seen := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if _, ok := seen[g.Key]; ok {
			return nil, errkind.New(errkind.NonRetryable, fmt.Sprintf("duplicate group key %q", g.Key))
		}
		seen[g.Key] = struct{}{}
		res.Keys = append(res.Keys, g.Key)
		i := p.slotOf(g.Key)
		slots[i] = append(slots[i], g)
	}

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	for i := range slots {
		slot := strconv.Itoa(i)
		assigned := slots[i]
		if len(assigned) == 0 {
			continue
		}
		eg.Go(func() error {
			for _, g := range assigned {
				if err := egCtx.Err(); err != nil {
					return err
				}
				start := time.Now()
				tagged, count, err := p.processGroup(g, slot)
				metrics.GroupProcessingTime.WithLabelValues(string(p.opts.mode), slot).Observe(float64(time.Since(start).Microseconds()))
				if err != nil {
					p.stats.failed.Inc()
					metrics.GroupsFailed.WithLabelValues(string(p.opts.mode), slot, reasonOf(err)).Inc()
					if p.opts.errorPolicy == FailFast {
						return fmt.Errorf("group %q: %w", g.Key, err)
					}
					log.Warnw("Skipping failed group", "key", g.Key, "kind", errkind.KindOf(err).String(), zap.Error(err))
					mu.Lock()
					res.Failed[g.Key] = err
					mu.Unlock()
					continue
				}
				p.stats.groups.Inc()
				metrics.GroupsProcessed.WithLabelValues(string(p.opts.mode), slot).Inc()
				mu.Lock()
				if p.opts.mode == ModeTag {
					res.Tagged[g.Key] = tagged
				} else {
					res.Counts[g.Key] = count
				}
				mu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	log.Debugw("Processed groups", "groups", len(groups), "failed", len(res.Failed))
	return res, nil
}

func (p *Processor) slotOf(key string) int {
	return int(murmur3.Sum32([]byte(key)) % uint32(p.opts.parallelism))
}

// processGroup runs one group through a pooled consumer, feeding it in batches of batchSize events.
func (p *Processor) processGroup(g Group, slot string) ([]event.Tagged, int, error) {
	if len(g.Events) == 0 {
		if p.opts.mode == ModeTag {
			return nil, 0, &session.InputShapeError{Index: -1, Reason: "group has no events"}
		}
		return nil, 0, nil
	}

	var (
		add   func(...event.Event) error
		state func() session.GroupState
		done  func() ([]event.Tagged, int)
	)
	if p.opts.mode == ModeTag {
		t := p.pool.NewTagger(p.extractor)
		defer t.Release()
		add, state = t.Add, t.State
		done = func() ([]event.Tagged, int) { return t.Finalize(), 0 }
	} else {
		c := p.pool.NewCounter(p.extractor)
		defer c.Release()
		add, state = c.Add, c.State
		done = func() ([]event.Tagged, int) { return nil, c.Finalize() }
	}

	defer func() {
		s := state()
		p.stats.events.Add(int64(s.Events))
		p.stats.sessions.Add(int64(s.Sessions))
		metrics.EventsProcessed.WithLabelValues(string(p.opts.mode), slot).Add(float64(s.Events))
		metrics.SessionsStarted.WithLabelValues(string(p.opts.mode), slot).Add(float64(s.Sessions))
	}()

	for _, batch := range batches(g.Events, p.opts.batchSize) {
		if err := add(batch...); err != nil {
			return nil, 0, err
		}
	}
	tagged, count := done()
	return tagged, count, nil
}

func batches(events []event.Event, size int) [][]event.Event {
	if size <= 0 || size >= len(events) {
		return [][]event.Event{events}
	}
	out := make([][]event.Event, 0, (len(events)+size-1)/size)
	for len(events) > size {
		out = append(out, events[:size])
		events = events[size:]
	}
	return append(out, events)
}

func reasonOf(err error) string {
	var unsorted *session.UnsortedInputError
	var shape *session.InputShapeError
	switch {
	case errors.As(err, &unsorted):
		return "unsorted"
	case errors.As(err, &shape):
		return "input_shape"
	default:
		return "other"
	}
}
