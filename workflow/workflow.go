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

// Package workflow provides the deterministic API a workflow function runs
// against: scheduling activities and child workflows, timers, signals,
// queries, updates, and versioning. Every call in this package must only be
// made from within a function registered as a workflow; calling any of it
// from an activity or from outside either panics or simply does nothing
// useful, since the Context it reads is never populated outside workflow
// dispatch.
package workflow

import (
	"math/rand"
	"time"

	commonpb "go.temporal.io/api/common/v1"

	"go.temporal.io/sdk-core/internal"
	"go.temporal.io/sdk-core/internal/log"

	"github.com/uber-go/tally"
)

type (
	// Context is the workflow's analogue of context.Context.
	Context = internal.Context

	// Channel is workflow code's substitute for a Go channel.
	Channel = internal.Channel

	// Selector waits on the first ready of several registered futures/channels.
	Selector = internal.Selector

	// Future represents the result of an asynchronous operation: an activity,
	// a timer, or a child workflow.
	Future = internal.Future

	// Settable is the write side of a Future.
	Settable = internal.Settable

	// WaitGroup mirrors sync.WaitGroup for deterministic workflow code.
	WaitGroup = internal.WaitGroup

	// Version identifies which branch of a GetVersion-guarded code change is
	// in effect for a particular changeID.
	Version = internal.Version

	// WorkflowType carries a registered workflow's type name.
	WorkflowType = internal.WorkflowType

	// WorkflowExecution identifies one run of a workflow.
	WorkflowExecution = internal.WorkflowExecution

	// WorkflowInfo is the read-only snapshot a workflow observes through GetInfo.
	WorkflowInfo = internal.WorkflowInfo

	// ActivityOptions configures one ExecuteActivity call.
	ActivityOptions = internal.ActivityOptions

	// LocalActivityOptions configures one ExecuteLocalActivity call.
	LocalActivityOptions = internal.LocalActivityOptions

	// ChildWorkflowOptions configures one ExecuteChildWorkflow call.
	ChildWorkflowOptions = internal.ChildWorkflowOptions

	// ChildWorkflowFuture is the handle ExecuteChildWorkflow returns.
	ChildWorkflowFuture = internal.ChildWorkflowFuture

	// ParentClosePolicy controls what happens to a running child workflow when
	// its parent closes.
	ParentClosePolicy = internal.ParentClosePolicy

	// WorkflowIDReusePolicy controls whether a workflow ID may be reused by a
	// new execution.
	WorkflowIDReusePolicy = internal.WorkflowIDReusePolicy

	// RetryPolicy retries a child workflow, as a whole new execution, on failure.
	RetryPolicy = internal.RetryPolicy
)

// DefaultVersion (-1) is the Version value that stands for "no change
// applied". GetVersion does not return it: the first call for a changeID
// records and returns maxSupported.
const DefaultVersion = internal.DefaultVersion

const (
	// ParentClosePolicyTerminate terminates the child when the parent closes.
	ParentClosePolicyTerminate = internal.ParentClosePolicyTerminate
	// ParentClosePolicyAbandon leaves the child running when the parent closes.
	ParentClosePolicyAbandon = internal.ParentClosePolicyAbandon
	// ParentClosePolicyRequestCancel requests cancellation of the child when
	// the parent closes.
	ParentClosePolicyRequestCancel = internal.ParentClosePolicyRequestCancel
)

// WithActivityOptions returns a child context carrying opts, consulted by
// every ExecuteActivity call made from it.
func WithActivityOptions(ctx Context, opts ActivityOptions) Context {
	return internal.WithActivityOptions(ctx, opts)
}

// WithLocalActivityOptions returns a child context carrying opts, consulted
// by every ExecuteLocalActivity call made from it.
func WithLocalActivityOptions(ctx Context, opts LocalActivityOptions) Context {
	return internal.WithLocalActivityOptions(ctx, opts)
}

// WithChildWorkflowOptions returns a child context carrying opts, consulted
// by every ExecuteChildWorkflow call made from it.
func WithChildWorkflowOptions(ctx Context, opts ChildWorkflowOptions) Context {
	return internal.WithChildWorkflowOptions(ctx, opts)
}

// WithValue returns a Context with key bound to val.
func WithValue(parent Context, key interface{}, val interface{}) Context {
	return internal.WithValue(parent, key, val)
}

// NewChannel creates an unbuffered Channel.
func NewChannel(ctx Context) Channel {
	return internal.NewChannel(ctx)
}

// NewBufferedChannel creates a Channel with the given buffer size.
func NewBufferedChannel(ctx Context, size int) Channel {
	return internal.NewBufferedChannel(ctx, size)
}

// NewSelector creates a Selector.
func NewSelector(ctx Context) Selector {
	return internal.NewSelector(ctx)
}

// NewWaitGroup creates a WaitGroup.
func NewWaitGroup(ctx Context) WaitGroup {
	return internal.NewWaitGroup(ctx)
}

// Go spawns f as a new coroutine under ctx's dispatcher, named for
// diagnostics and stack traces.
func Go(ctx Context, name string, f func(ctx Context)) {
	internal.Go(ctx, name, f)
}

// ExecuteActivity schedules an activity and returns a Future for its result.
// activityFn may be the function value itself or its registered name.
func ExecuteActivity(ctx Context, activityFn interface{}, args ...interface{}) Future {
	return internal.ExecuteActivity(ctx, activityFn, args...)
}

// ExecuteLocalActivity runs an activity in-process on the worker and returns
// its already-resolved Future.
func ExecuteLocalActivity(ctx Context, activityFn interface{}, args ...interface{}) Future {
	return internal.ExecuteLocalActivity(ctx, activityFn, args...)
}

// ExecuteChildWorkflow starts childFn as a child of the current workflow and
// returns a ChildWorkflowFuture tracking both its start and its result.
func ExecuteChildWorkflow(ctx Context, childFn interface{}, args ...interface{}) ChildWorkflowFuture {
	return internal.ExecuteChildWorkflow(ctx, childFn, args...)
}

// SignalExternalWorkflow sends a signal to another workflow execution.
func SignalExternalWorkflow(ctx Context, workflowID, runID, signalName string, arg interface{}) Future {
	return internal.SignalExternalWorkflow(ctx, workflowID, runID, signalName, arg)
}

// RequestCancelExternalWorkflow requests cancellation of another workflow
// execution.
func RequestCancelExternalWorkflow(ctx Context, workflowID, runID string) Future {
	return internal.RequestCancelExternalWorkflow(ctx, workflowID, runID)
}

// NewTimer returns a Future that resolves after d of workflow time elapses.
func NewTimer(ctx Context, d time.Duration) Future {
	return internal.NewTimer(ctx, d)
}

// Sleep blocks the calling coroutine for d of workflow time.
func Sleep(ctx Context, d time.Duration) error {
	return internal.Sleep(ctx, d)
}

// Await blocks until predicate returns true, re-evaluating it whenever any
// selectable condition in the workflow changes.
func Await(ctx Context, predicate func() bool) error {
	return internal.Await(ctx, predicate)
}

// Now returns the current workflow time, stable across replay.
func Now(ctx Context) time.Time {
	return internal.Now(ctx)
}

// NewRandom returns a *rand.Rand seeded deterministically for this workflow run.
func NewRandom(ctx Context) *rand.Rand {
	return internal.NewRandom(ctx)
}

// GetVersion returns the version of changeID already recorded for this run,
// or records and returns maxSupported if this is the first time changeID has
// been checked.
func GetVersion(ctx Context, changeID string, minSupported, maxSupported Version) Version {
	return internal.GetVersion(ctx, changeID, minSupported, maxSupported)
}

// UpsertSearchAttributes adds to or overwrites the run's indexed search
// attributes.
func UpsertSearchAttributes(ctx Context, attrs map[string]interface{}) error {
	return internal.UpsertSearchAttributes(ctx, attrs)
}

// UpsertMemo adds to or overwrites the run's non-indexed memo fields.
func UpsertMemo(ctx Context, memoFields map[string]interface{}) error {
	return internal.UpsertMemo(ctx, memoFields)
}

// GetSignalChannel returns the Channel a workflow receives signalName's
// payloads on.
func GetSignalChannel(ctx Context, signalName string) Channel {
	return internal.GetSignalChannel(ctx, signalName)
}

// SetQueryHandler registers handler to answer queries of queryType sent to
// this workflow.
func SetQueryHandler(ctx Context, queryType string, handler func(*commonpb.Payloads) (interface{}, error)) error {
	return internal.SetQueryHandler(ctx, queryType, handler)
}

// SetUpdateHandler registers validate/execute to answer updates of
// updateName sent to this workflow.
func SetUpdateHandler(ctx Context, updateName string, validate func(*commonpb.Payloads) error, execute func(Context, *commonpb.Payloads) (*commonpb.Payloads, error)) error {
	return internal.SetUpdateHandler(ctx, updateName, validate, execute)
}

// ContinueAsNew completes the current run and starts a new one of wfn with
// args, carrying the new run's *ContinueAsNewError back through the
// workflow's return path. wfn must not be nil: a nil wfn panics.
func ContinueAsNew(ctx Context, wfn interface{}, args ...interface{}) error {
	return internal.ContinueAsNew(ctx, wfn, args...)
}

// GetInfo extracts the WorkflowInfo carried by ctx.
func GetInfo(ctx Context) *WorkflowInfo {
	return internal.GetWorkflowInfo(ctx)
}

// GetLogger returns the logger configured for the worker running this
// workflow, annotated with the run's identity for every subsequent call.
func GetLogger(ctx Context) log.Logger {
	return internal.GetLogger(ctx)
}

// GetMetricsScope returns the metrics scope configured for the worker
// running this workflow, tagged with the workflow's type.
func GetMetricsScope(ctx Context) tally.Scope {
	return internal.GetMetricsScope(ctx)
}

// IsReplaying reports whether the current activation is replaying previously
// recorded history rather than executing for the first time.
func IsReplaying(ctx Context) bool {
	return internal.IsReplaying(ctx)
}
