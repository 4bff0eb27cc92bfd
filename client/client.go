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

// Package client connects to a Temporal server to start, signal, query, update,
// and terminate workflow executions, and to complete activities out of band.
package client

import (
	"go.temporal.io/sdk-core/internal"
)

type (
	// Client is the external facade for starting, signaling, querying, updating,
	// and terminating workflow executions, plus out-of-band activity completion.
	// A Client is namespace-scoped: every call is issued against the namespace it
	// was built with.
	Client = internal.Client

	// Options configures Dial.
	Options = internal.ClientOptions

	// ConnectionOptions configures the gRPC connection a Client dials, or
	// substitutes a pre-built one.
	ConnectionOptions = internal.ConnectionOptions

	// StartWorkflowOptions configures a new workflow execution.
	StartWorkflowOptions = internal.StartWorkflowOptions

	// WorkflowRun represents one (possibly continued-as-new) workflow execution
	// started or retrieved through a Client.
	WorkflowRun = internal.WorkflowRun

	// WorkflowUpdateHandle tracks the outcome of a workflow update.
	WorkflowUpdateHandle = internal.WorkflowUpdateHandle

	// HistoryEventIterator iterates a workflow execution's history events.
	HistoryEventIterator = internal.HistoryEventIterator

	// RetryPolicy retries a workflow, as a whole new execution, on failure.
	RetryPolicy = internal.RetryPolicy

	// WorkflowIDReusePolicy controls whether a workflow ID may be reused by a new
	// execution.
	WorkflowIDReusePolicy = internal.WorkflowIDReusePolicy

	// ScheduleClient creates and manages server-evaluated cron schedules.
	ScheduleClient = internal.ScheduleClient

	// ScheduleOptions configures a new schedule.
	ScheduleOptions = internal.ScheduleOptions

	// ScheduleWorkflowAction is the workflow a schedule starts on each trigger.
	ScheduleWorkflowAction = internal.ScheduleWorkflowAction

	// ScheduleHandle operates on one named schedule.
	ScheduleHandle = internal.ScheduleHandle

	// ScheduleBackfill asks the server to evaluate a schedule's spec over a past
	// time range and start the runs it would have started had the schedule
	// existed then.
	ScheduleBackfill = internal.ScheduleBackfill

	// ClientInterceptor wraps every outbound client call.
	ClientInterceptor = internal.ClientInterceptor

	// ClientOutboundInterceptor is implemented by each link in the client
	// interceptor chain.
	ClientOutboundInterceptor = internal.ClientOutboundInterceptor
)

const (
	// QueryTypeStackTrace is the built-in query type that returns the blocked
	// coroutine stack trace of the target workflow.
	QueryTypeStackTrace = internal.QueryTypeStackTrace

	// DefaultHostPort is the server address Dial targets when Options.HostPort is
	// left empty.
	DefaultHostPort = internal.LocalHostPort

	// WorkflowIDReusePolicyAllowDuplicate allows starting a new execution with the
	// same ID whenever no execution with that ID is currently running.
	WorkflowIDReusePolicyAllowDuplicate = internal.WorkflowIDReusePolicyAllowDuplicate

	// WorkflowIDReusePolicyAllowDuplicateFailedOnly allows reuse only when the
	// prior execution's close status was failed/timed out/terminated/canceled.
	WorkflowIDReusePolicyAllowDuplicateFailedOnly = internal.WorkflowIDReusePolicyAllowDuplicateFailedOnly

	// WorkflowIDReusePolicyRejectDuplicate never allows ID reuse, even after the
	// prior execution closed.
	WorkflowIDReusePolicyRejectDuplicate = internal.WorkflowIDReusePolicyRejectDuplicate
)

// Dial creates a Client connected to options.HostPort (or a caller-supplied
// connection in options.ConnectionOptions).
func Dial(options Options) (Client, error) {
	return internal.Dial(options)
}
