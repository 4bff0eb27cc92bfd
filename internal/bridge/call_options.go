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

// Package bridge implements the single unary RPC seam the rest of the SDK calls
// through: retry/backoff policy tables, request metadata injection, and an optional
// callback-override transport for embedding scenarios.
package bridge

import (
	"time"

	"google.golang.org/grpc/codes"

	"go.temporal.io/sdk-core/internal/common/backoff"
)

// CallOptions configures one Call: which retry policy preset to use and the overall
// deadline that bounds every attempt combined.
type CallOptions struct {
	RetryPolicy     backoff.RetryPolicy
	RetryableCodes  map[codes.Code]bool
	OverallDeadline time.Duration
}

func codeSet(cs ...codes.Code) map[codes.Code]bool {
	m := make(map[codes.Code]bool, len(cs))
	for _, c := range cs {
		m[c] = true
	}
	return m
}

var defaultRetryableCodes = codeSet(
	codes.DataLoss,
	codes.Internal,
	codes.Unknown,
	codes.ResourceExhausted,
	codes.Aborted,
	codes.OutOfRange,
	codes.Unavailable,
)

var taskPollRetryableCodes = codeSet(
	codes.DataLoss,
	codes.Internal,
	codes.Unknown,
	codes.ResourceExhausted,
	codes.Aborted,
	codes.OutOfRange,
	codes.Unavailable,
	codes.Canceled,
	codes.DeadlineExceeded,
)

// DefaultCallOptions is the preset used for ordinary unary RPCs: start/signal/describe
// and similar. 5 attempts, 100ms initial backoff growing by 1.7x up to 5s, 30s overall.
func DefaultCallOptions() CallOptions {
	return CallOptions{
		RetryPolicy: backoff.NewRetryPolicy(100*time.Millisecond, 5*time.Second, 1.7, 5, 0),
		RetryableCodes: defaultRetryableCodes,
		OverallDeadline: 30 * time.Second,
	}
}

// TaskPollCallOptions is the preset used for PollWorkflowTaskQueue/PollActivityTaskQueue:
// longer overall deadline (the poll itself can legitimately block), and cancelled/
// deadline-exceeded are retryable since a long poll timing out server-side is routine.
func TaskPollCallOptions() CallOptions {
	return CallOptions{
		RetryPolicy: backoff.NewRetryPolicy(200*time.Millisecond, 10*time.Second, 2.0, 5, 0),
		RetryableCodes: taskPollRetryableCodes,
		OverallDeadline: 70 * time.Second,
	}
}

// UserPollCallOptions is the preset used for user-facing long polls (history long poll
// for WorkflowRun.Get, schedule describe-wait, etc).
func UserPollCallOptions() CallOptions {
	return CallOptions{
		RetryPolicy: backoff.NewRetryPolicy(1*time.Second, 10*time.Second, 2.0, 5, 0),
		RetryableCodes: defaultRetryableCodes,
		OverallDeadline: 70 * time.Second,
	}
}

func (o CallOptions) isRetryableCode(c codes.Code) bool {
	return o.RetryableCodes[c]
}
