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

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupEnvStringOr(t *testing.T) {
	assert.Equal(t, "hello", LookupEnvStringOr("SESSIONIZE_FAKE_ENV", "hello"))
	t.Setenv("SESSIONIZE_FAKE_ENV", "")
	assert.Equal(t, "hello", LookupEnvStringOr("SESSIONIZE_FAKE_ENV", "hello"))
	t.Setenv("SESSIONIZE_FAKE_ENV", "world")
	assert.Equal(t, "world", LookupEnvStringOr("SESSIONIZE_FAKE_ENV", "hello"))
}

func TestLookupEnvBoolOr(t *testing.T) {
	assert.True(t, LookupEnvBoolOr("SESSIONIZE_FAKE_BOOL", true))
	t.Setenv("SESSIONIZE_FAKE_BOOL", "true")
	assert.True(t, LookupEnvBoolOr("SESSIONIZE_FAKE_BOOL", false))
	t.Setenv("SESSIONIZE_FAKE_BOOL", " 0 ")
	assert.False(t, LookupEnvBoolOr("SESSIONIZE_FAKE_BOOL", true))
	t.Setenv("SESSIONIZE_FAKE_BOOL", "yes please")
	assert.True(t, LookupEnvBoolOr("SESSIONIZE_FAKE_BOOL", true))
}
