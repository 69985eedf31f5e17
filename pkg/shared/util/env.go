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
	"os"
	"strconv"
	"strings"
)

// LookupEnvStringOr returns the value of the environment variable key, defaultValue when it is unset or empty.
func LookupEnvStringOr(key, defaultValue string) string {
	if v, existing := os.LookupEnv(key); existing && v != "" {
		return v
	}
	return defaultValue
}

// LookupEnvBoolOr returns the boolean value of the environment variable key. Values that are unset, empty
// or not a valid boolean yield defaultValue.
func LookupEnvBoolOr(key string, defaultValue bool) bool {
	valStr, existing := os.LookupEnv(key)
	if !existing || strings.TrimSpace(valStr) == "" {
		return defaultValue
	}
	val, err := strconv.ParseBool(strings.TrimSpace(valStr))
	if err != nil {
		return defaultValue
	}
	return val
}
