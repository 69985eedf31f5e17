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

	"github.com/numaproj/sessionize/pkg/event"
	"github.com/numaproj/sessionize/pkg/window/strategy/session"
)

// Group is the set of events sharing a key, in arrival order.
type Group struct {
	Key    string
	Events []event.Event
}

// GroupBy partitions a flat stream of events by the value of keyField. Groups are returned in the order
// their key is first seen and events keep their arrival order; nothing is sorted.
func GroupBy(events []event.Event, keyField int) ([]Group, error) {
	if keyField == event.TimestampField || keyField < 0 {
		return nil, fmt.Errorf("invalid key field %d, field %d is the timestamp", keyField, event.TimestampField)
	}
	index := make(map[string]int)
	var groups []Group
	for i, e := range events {
		if len(e) <= keyField {
			return nil, &session.InputShapeError{Index: i, Reason: fmt.Sprintf("event has %d fields, key field is %d", len(e), keyField)}
		}
		key := fmt.Sprint(e[keyField])
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, Group{Key: key})
		}
		groups[pos].Events = append(groups[pos].Events, e)
	}
	return groups, nil
}
