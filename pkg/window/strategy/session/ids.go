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

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// IDGenerator generates session identifiers. Implementations must be safe for concurrent use since a
// single generator is shared by every accumulator of a Pool.
type IDGenerator interface {
	NextID() string
}

// UUIDGenerator generates random (version 4) UUIDs.
type UUIDGenerator struct{}

var _ IDGenerator = UUIDGenerator{}

func (UUIDGenerator) NextID() string {
	return uuid.NewString()
}

// SequenceGenerator generates "<prefix>-1", "<prefix>-2", ... in call order.
type SequenceGenerator struct {
	prefix string
	next   *atomic.Int64
}

var _ IDGenerator = (*SequenceGenerator)(nil)

// NewSequenceGenerator returns a SequenceGenerator, the prefix defaults to "session".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "session"
	}
	return &SequenceGenerator{
		prefix: prefix,
		next:   atomic.NewInt64(0),
	}
}

func (g *SequenceGenerator) NextID() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.next.Inc())
}
