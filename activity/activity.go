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

// Package activity provides the API an activity implementation runs against:
// reading the task's ActivityInfo and reporting heartbeats. Every call here
// must be made with the context.Context an activity function was invoked
// with; none of it is meaningful from workflow code.
package activity

import (
	"context"

	"go.temporal.io/sdk-core/internal"
	"go.temporal.io/sdk-core/internal/log"

	"github.com/uber-go/tally"
)

type (
	// Info is the read-only snapshot an activity implementation observes
	// through its context.
	Info = internal.ActivityInfo

	// Type identifies a registered activity function.
	Type = internal.ActivityType
)

// GetInfo extracts the Info carried by ctx.
func GetInfo(ctx context.Context) Info {
	return internal.GetActivityInfo(ctx)
}

// RecordHeartbeat reports liveness/progress from within a running activity.
// details are made available to a subsequent attempt via GetHeartbeatDetails.
func RecordHeartbeat(ctx context.Context, details ...interface{}) {
	internal.RecordActivityHeartbeat(ctx, details...)
}

// HasHeartbeatDetails reports whether the current attempt was retried after
// a prior attempt recorded heartbeat details.
func HasHeartbeatDetails(ctx context.Context) bool {
	return internal.HasHeartbeatDetails(ctx)
}

// GetHeartbeatDetails decodes the details recorded by the last heartbeat of
// a prior, failed attempt into d. Returns ErrNoData if HasHeartbeatDetails is
// false.
func GetHeartbeatDetails(ctx context.Context, d ...interface{}) error {
	return internal.GetHeartbeatDetails(ctx, d...)
}

// GetLogger returns the logger configured for the worker running this
// activity, annotated with the activity's identity for every call.
func GetLogger(ctx context.Context) log.Logger {
	return internal.GetActivityLogger(ctx)
}

// GetMetricsScope returns the metrics scope configured for the worker
// running this activity, tagged with the activity's type.
func GetMetricsScope(ctx context.Context) tally.Scope {
	return internal.GetActivityMetricsScope(ctx)
}
