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
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/sessionize/pkg/errkind"
	"github.com/numaproj/sessionize/pkg/window"
)

var thirtyMinutes = window.MustParseSpec("30m")

// clock returns epoch millis of hh:mm on a fixed day.
func clock(hh, mm int) int64 {
	return time.Date(2024, 3, 1, hh, mm, 0, 0, time.UTC).UnixMilli()
}

func TestTransition(t *testing.T) {
	ids := NewSequenceGenerator("s")
	var s GroupState

	next, d, err := Transition(s, 100, 10, ids)
	require.NoError(t, err)
	assert.Equal(t, Start, d)
	assert.Equal(t, GroupState{Seen: true, LastTimestamp: 100, SessionID: "s-1", Sessions: 1, Events: 1}, next)
	// the input state is a value, it is never modified
	assert.Equal(t, GroupState{}, s)

	next2, d, err := Transition(next, 110, 10, ids)
	require.NoError(t, err)
	assert.Equal(t, Continue, d)
	assert.Equal(t, "s-1", next2.SessionID)
	assert.Equal(t, int64(110), next2.LastTimestamp)
	assert.Equal(t, 2, next2.Events)

	next3, d, err := Transition(next2, 121, 10, ids)
	require.NoError(t, err)
	assert.Equal(t, Start, d)
	assert.Equal(t, "s-2", next3.SessionID)
	assert.Equal(t, 2, next3.Sessions)

	unchanged, d, err := Transition(next3, 120, 10, ids)
	assert.Equal(t, Unsorted, d)
	assert.Equal(t, next3, unchanged)
	var unsorted *UnsortedInputError
	require.True(t, errors.As(err, &unsorted))
	assert.Equal(t, 3, unsorted.Index)
	assert.Equal(t, int64(121), unsorted.Previous)
	assert.Equal(t, int64(120), unsorted.Current)
}

func TestGroupState_Last(t *testing.T) {
	assert.Nil(t, GroupState{}.Last())
	s := GroupState{Seen: true, LastTimestamp: 0}
	require.NotNil(t, s.Last())
	assert.Equal(t, int64(0), *s.Last())
}

func TestAccumulator_Process(t *testing.T) {
	acc := NewAccumulator(thirtyMinutes, WithIDGenerator(NewSequenceGenerator("s")))
	assert.Equal(t, int64(30*60*1000), acc.Threshold())
	assert.Equal(t, GroupState{}, acc.State())

	d, id, err := acc.Process(clock(1, 0))
	require.NoError(t, err)
	assert.Equal(t, Start, d)
	assert.Equal(t, "s-1", id)

	d, id, err = acc.Process(clock(1, 30))
	require.NoError(t, err)
	assert.Equal(t, Continue, d)
	assert.Equal(t, "s-1", id)

	d, id, err = acc.Process(clock(2, 1))
	require.NoError(t, err)
	assert.Equal(t, Start, d)
	assert.Equal(t, "s-2", id)
	assert.Equal(t, 2, acc.State().Sessions)
	assert.Equal(t, 3, acc.State().Events)
}

func TestAccumulator_UnsortedLeavesStateUnchanged(t *testing.T) {
	acc := NewAccumulator(thirtyMinutes, WithIDGenerator(NewSequenceGenerator("s")))
	_, _, err := acc.Process(clock(1, 0))
	require.NoError(t, err)
	_, _, err = acc.Process(clock(1, 10))
	require.NoError(t, err)
	before := acc.State()

	d, id, err := acc.Process(clock(1, 5))
	assert.Equal(t, Unsorted, d)
	assert.Empty(t, id)
	var unsorted *UnsortedInputError
	require.True(t, errors.As(err, &unsorted))
	assert.Equal(t, clock(1, 10), unsorted.Previous)
	assert.Equal(t, clock(1, 5), unsorted.Current)
	assert.Equal(t, errkind.NonRetryable, errkind.KindOf(err))
	assert.Contains(t, err.Error(), "unsorted input at event 2")
	assert.Equal(t, before, acc.State())
	assert.Equal(t, err, acc.Err())

	// the group is failed, even a well ordered event is refused
	_, _, err = acc.Process(clock(1, 20))
	assert.ErrorIs(t, err, ErrGroupFailed)
	assert.Equal(t, before, acc.State())

	acc.Reset()
	assert.NoError(t, acc.Err())
	d, _, err = acc.Process(clock(1, 5))
	require.NoError(t, err)
	assert.Equal(t, Start, d)
}

func TestAccumulator_IncrementalBatches(t *testing.T) {
	ts := []int64{clock(1, 0), clock(1, 15), clock(1, 31), clock(1, 35), clock(2, 30)}

	whole := NewAccumulator(thirtyMinutes, WithIDGenerator(NewSequenceGenerator("s")))
	var want []string
	for _, v := range ts {
		_, id, err := whole.Process(v)
		require.NoError(t, err)
		want = append(want, id)
	}

	// the same group split over several calls keeps session continuity across chunk boundaries
	chunked := NewAccumulator(thirtyMinutes, WithIDGenerator(NewSequenceGenerator("s")))
	var got []string
	for _, chunk := range [][]int64{ts[:2], ts[2:3], ts[3:]} {
		for _, v := range chunk {
			_, id, err := chunked.Process(v)
			require.NoError(t, err)
			got = append(got, id)
		}
	}
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"s-1", "s-1", "s-1", "s-1", "s-2"}, got)
}

func TestAccumulator_FreshIDAfterReset(t *testing.T) {
	acc := NewAccumulator(thirtyMinutes, WithIDGenerator(NewSequenceGenerator("s")))
	_, first, err := acc.Process(clock(1, 0))
	require.NoError(t, err)

	acc.Reset()
	assert.Equal(t, GroupState{}, acc.State())

	// the next group starts within the gap of the previous group's last event, it still gets a new id
	d, second, err := acc.Process(clock(1, 1))
	require.NoError(t, err)
	assert.Equal(t, Start, d)
	assert.NotEqual(t, first, second)
}

func TestAccumulator_ResetIsIdempotent(t *testing.T) {
	ts := []int64{clock(1, 0), clock(1, 1), clock(1, 40), clock(1, 41), clock(3, 0), clock(3, 30)}
	acc := NewAccumulator(thirtyMinutes)

	run := func() ([]Decision, []string) {
		var ds []Decision
		var ids []string
		for _, v := range ts {
			d, id, err := acc.Process(v)
			require.NoError(t, err)
			ds = append(ds, d)
			ids = append(ids, id)
		}
		return ds, ids
	}

	first, firstIDs := run()
	acc.Reset()
	second, secondIDs := run()
	assert.Equal(t, first, second)
	assert.Equal(t, groupingPattern(firstIDs), groupingPattern(secondIDs))
	// random identifiers are regenerated
	assert.NotEqual(t, firstIDs[0], secondIDs[0])
}

// groupingPattern maps identifiers to their order of first appearance.
func groupingPattern(ids []string) []int {
	seen := make(map[string]int)
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = len(seen)
		}
		out = append(out, seen[id])
	}
	return out
}

func TestAccumulator_FailsAtFirstInversion(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		ts := sortedTimestamps(r, 2+r.Intn(30))
		at := 1 + r.Intn(len(ts)-1)
		if ts[at-1] == 0 {
			continue
		}
		ts[at] = ts[at-1] - 1 - r.Int63n(ts[at-1])

		acc := NewAccumulator(thirtyMinutes)
		var failedAt = -1
		for j, v := range ts {
			if _, _, err := acc.Process(v); err != nil {
				var unsorted *UnsortedInputError
				require.True(t, errors.As(err, &unsorted))
				assert.Equal(t, j, unsorted.Index)
				failedAt = j
				break
			}
		}
		assert.Equal(t, at, failedAt)
	}
}

func TestAccumulator_DefaultIDsAreUUIDs(t *testing.T) {
	acc := NewAccumulator(thirtyMinutes, WithIDGenerator(nil))
	_, id, err := acc.Process(1)
	require.NoError(t, err)
	assert.Len(t, id, 36)
}

// sortedTimestamps returns n non-decreasing timestamps with gaps of up to two hours.
func sortedTimestamps(r *rand.Rand, n int) []int64 {
	ts := make([]int64, n)
	cur := clock(0, 0)
	for i := range ts {
		switch r.Intn(4) {
		case 0:
			// duplicate timestamp
		case 1:
			cur += thirtyMinutes.Millis()
		default:
			cur += r.Int63n(2 * time.Hour.Milliseconds())
		}
		ts[i] = cur
	}
	return ts
}
