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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelVersion  = "version"
	LabelPlatform = "platform"
	LabelMode     = "mode"
	LabelSlot     = "slot"
	LabelReason   = "reason"
)

var (
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "A metric with a constant value '1', labeled by sessionize binary version and platform",
	}, []string{LabelVersion, LabelPlatform})
)

// Session processing metrics
var (
	// GroupsProcessed is used to indicate the number of groups processed successfully
	GroupsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "sessionize",
		Name:      "groups_total",
		Help:      "Total number of groups processed successfully",
	}, []string{LabelMode, LabelSlot})

	// GroupsFailed is used to indicate the number of groups that failed, by reason
	GroupsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "sessionize",
		Name:      "groups_failed_total",
		Help:      "Total number of groups failed",
	}, []string{LabelMode, LabelSlot, LabelReason})

	// EventsProcessed is used to indicate the number of events evaluated
	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "sessionize",
		Name:      "events_total",
		Help:      "Total number of events evaluated",
	}, []string{LabelMode, LabelSlot})

	// SessionsStarted is used to indicate the number of sessions opened
	SessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "sessionize",
		Name:      "sessions_total",
		Help:      "Total number of sessions started",
	}, []string{LabelMode, LabelSlot})

	// GroupProcessingTime is a histogram to observe the processing time of one group
	GroupProcessingTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Subsystem: "sessionize",
		Name:      "group_processing_time",
		Help:      "Processing times of groups (10 microseconds to 10 minutes)",
		Buckets:   prometheus.ExponentialBucketsRange(10, 60000000*10, 10),
	}, []string{LabelMode, LabelSlot})
)
