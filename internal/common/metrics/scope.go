// The MIT License
//
// Copyright (c) 2020 Temporal Technologies Inc.  All rights reserved.
//
// Copyright (c) 2020 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package metrics wires a tally.Scope through the worker and client paths, sanitizing
// tag/metric names the way the rest of the pack's tally-based services do.
package metrics

import (
	"github.com/uber-go/tally"
)

var safeCharacters = []rune{'_', '-', '.'}

// SanitizeOptions matches the character set Temporal's metric backends accept; reused
// whenever a caller builds their own root scope instead of passing one in.
var SanitizeOptions = tally.SanitizeOptions{
	NameCharacters: tally.ValidCharacters{
		Ranges:     tally.AlphanumericRange,
		Characters: safeCharacters,
	},
	KeyCharacters: tally.ValidCharacters{
		Ranges:     tally.AlphanumericRange,
		Characters: safeCharacters,
	},
	ValueCharacters: tally.ValidCharacters{
		Ranges:     tally.AlphanumericRange,
		Characters: safeCharacters,
	},
	ReplacementCharacter: tally.DefaultReplacementCharacter,
}

// Metric name constants shared by the worker supervisor, activity engine, and workflow
// engine when they report through a tally.Scope.
const (
	WorkflowTaskScheduleToStartLatency = "workflow_task_schedule_to_start_latency"
	WorkflowTaskExecutionLatency       = "workflow_task_execution_latency"
	ActivityTaskScheduleToStartLatency = "activity_task_schedule_to_start_latency"
	ActivityExecutionLatency           = "activity_execution_latency"
	ActivityTaskErrorCounter           = "activity_task_error_counter"
	WorkflowTaskErrorCounter           = "workflow_task_error_counter"
	WorkflowCompletedCounter           = "workflow_completed_counter"
	WorkflowFailedCounter              = "workflow_failed_counter"
	StickyCacheHit                     = "sticky_cache_hit"
	StickyCacheMiss                    = "sticky_cache_miss"
	StickyCacheEvict                   = "sticky_cache_evict"
	PollerRequestCounter               = "poller_request_counter"
	HeartbeatRecordedCounter           = "heartbeat_recorded_counter"
	HeartbeatThrottledCounter          = "heartbeat_throttled_counter"
)

// NewNoopScope returns a tally.NoopScope, used as the default when no caller-supplied
// root scope is configured.
func NewNoopScope() tally.Scope {
	return tally.NoopScope
}

// TaggedScope returns scope tagged with namespace/task-queue, the common dimension pair
// every worker-side metric in this package is reported under.
func TaggedScope(scope tally.Scope, namespace, taskQueue string) tally.Scope {
	return scope.Tagged(map[string]string{
		"namespace":  namespace,
		"task_queue": taskQueue,
	})
}
