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

package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/numaproj/sessionize/pkg/event"
	"github.com/numaproj/sessionize/pkg/reduce"
)

// readEvents decodes a stream of JSON arrays. Numbers are kept as json.Number so epoch millis survive
// without float rounding.
func readEvents(r io.Reader) ([]event.Event, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var events []event.Event
	for {
		var fields []any
		err := dec.Decode(&fields)
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode event %d, %w", len(events), err)
		}
		events = append(events, event.Event(fields))
	}
}

type countRecord struct {
	Key      string `json:"key"`
	Sessions int    `json:"sessions"`
}

// writeResult writes the groups of res in input order, skipping failed ones.
func writeResult(w io.Writer, res *reduce.Result) error {
	enc := json.NewEncoder(w)
	for _, key := range res.Keys {
		if _, failed := res.Failed[key]; failed {
			continue
		}
		switch res.Mode {
		case reduce.ModeTag:
			for _, tagged := range res.Tagged[key] {
				if err := enc.Encode(tagged.Fields()); err != nil {
					return err
				}
			}
		case reduce.ModeCount:
			if err := enc.Encode(countRecord{Key: key, Sessions: res.Counts[key]}); err != nil {
				return err
			}
		}
	}
	return nil
}
