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

package errkind

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrKind_String(t *testing.T) {
	assert.Equal(t, "Retryable", Retryable.String())
	assert.Equal(t, "NonRetryable", NonRetryable.String())
	assert.Equal(t, "Unknown", Unknown.String())
	assert.Equal(t, "Unknown", ErrKind(42).String())
}

func TestFromError(t *testing.T) {
	e, ok := FromError(nil)
	assert.True(t, ok)
	assert.Nil(t, e)

	e, ok = FromError(errors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, Unknown, e.ErrorKind())
	assert.Equal(t, "plain", e.ErrorMessage())

	wrapped := fmt.Errorf("group %q: %w", "k1", New(NonRetryable, "bad input"))
	e, ok = FromError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, NonRetryable, e.ErrorKind())
	assert.Equal(t, "bad input", e.ErrorMessage())
	assert.Equal(t, "NonRetryable: bad input", e.Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Unknown, KindOf(nil))
	assert.Equal(t, Unknown, KindOf(errors.New("x")))
	assert.Equal(t, Retryable, KindOf(New(Retryable, "later")))
}
