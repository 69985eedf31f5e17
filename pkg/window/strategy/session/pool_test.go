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
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/sessionize/pkg/event"
)

func TestPool_GetReturnsFreshState(t *testing.T) {
	p := NewPool(thirtyMinutes, NewSequenceGenerator("s"))
	assert.Equal(t, thirtyMinutes, p.Spec())

	acc := p.Get()
	_, _, err := acc.Process(clock(1, 0))
	require.NoError(t, err)
	p.Put(acc)
	p.Put(nil)

	again := p.Get()
	assert.Equal(t, GroupState{}, again.State())
	assert.NoError(t, again.Err())
}

func TestPool_TaggerRelease(t *testing.T) {
	x := mustExtractor(t, event.EpochMillis)
	p := NewPool(thirtyMinutes, NewSequenceGenerator("s"))

	tagger := p.NewTagger(x)
	require.NoError(t, tagger.Add(event.New(int64(1)), event.New(int64(2))))
	out := tagger.Finalize()
	tagger.Release()
	// the output survives the release
	assert.Equal(t, []string{"s-1", "s-1"}, sessionIDs(out))
	tagger.Release()

	// the next group does not inherit the previous session
	tagger = p.NewTagger(x)
	require.NoError(t, tagger.Add(event.New(int64(3))))
	assert.Equal(t, []string{"s-2"}, sessionIDs(tagger.Finalize()))
	tagger.Release()
}

func TestPool_ConcurrentGroups(t *testing.T) {
	p := NewPool(thirtyMinutes, nil)
	gap := thirtyMinutes.Millis()

	const groups = 64
	results := make([]int, groups)
	var wg sync.WaitGroup
	for g := 0; g < groups; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			c := p.NewCounter(nil)
			defer c.Release()
			ts := make([]int64, 0, g+1)
			for i := 0; i <= g; i++ {
				// every other event is past the gap
				ts = append(ts, int64(i)*(gap+int64(i%2)))
			}
			if err := c.AddTimestamps(ts...); err != nil {
				panic(fmt.Sprintf("group %d: %v", g, err))
			}
			results[g] = c.Finalize()
		}(g)
	}
	wg.Wait()

	for g := 0; g < groups; g++ {
		ts := make([]int64, 0, g+1)
		for i := 0; i <= g; i++ {
			ts = append(ts, int64(i)*(gap+int64(i%2)))
		}
		want := 1
		for i := 1; i < len(ts); i++ {
			if ts[i]-ts[i-1] > gap {
				want++
			}
		}
		assert.Equal(t, want, results[g], "group %d", g)
	}
}

func TestSequenceGenerator(t *testing.T) {
	g := NewSequenceGenerator("")
	assert.Equal(t, "session-1", g.NextID())
	assert.Equal(t, "session-2", g.NextID())
}
