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

package internal

import (
	"context"
	"fmt"

	commonpb "go.temporal.io/api/common/v1"
)

type (
	// WorkerInterceptor wraps the inbound half of worker execution: every workflow
	// task and every activity task dispatched by one AggregatedWorker passes through
	// the chain it builds, outermost interceptor first. It is the worker-side
	// counterpart to ClientInterceptor.
	WorkerInterceptor interface {
		// InterceptActivity returns the ActivityInboundInterceptor this worker calls for
		// every activity task, with next as the next link (eventually the activity
		// implementation itself).
		InterceptActivity(next ActivityInboundInterceptor) ActivityInboundInterceptor
		// InterceptWorkflow returns the WorkflowInboundInterceptor this worker calls for
		// every workflow task, with next as the next link.
		InterceptWorkflow(next WorkflowInboundInterceptor) WorkflowInboundInterceptor
	}

	// WorkflowInboundInterceptor is implemented by each link in the workflow
	// interceptor chain; a no-op embeds WorkflowInboundInterceptorBase and overrides
	// only what it needs.
	WorkflowInboundInterceptor interface {
		ExecuteWorkflow(ctx Context, in *ExecuteWorkflowInput) (interface{}, error)
		HandleSignal(ctx Context, in *HandleSignalInput) error
		HandleQuery(ctx Context, in *HandleQueryInput) (*commonpb.Payload, error)
		ValidateUpdate(ctx Context, in *UpdateInput) error
		ExecuteUpdate(ctx Context, in *UpdateInput) (interface{}, error)
	}

	// ActivityInboundInterceptor is implemented by each link in the activity
	// interceptor chain; a no-op embeds ActivityInboundInterceptorBase and overrides
	// only what it needs.
	ActivityInboundInterceptor interface {
		ExecuteActivity(ctx context.Context, in *ExecuteActivityInput) (interface{}, error)
	}

	// ExecuteWorkflowInput is the input seen by WorkflowInboundInterceptor.ExecuteWorkflow.
	ExecuteWorkflowInput struct {
		Args *commonpb.Payloads
	}

	// HandleSignalInput is the input seen by WorkflowInboundInterceptor.HandleSignal.
	HandleSignalInput struct {
		SignalName string
		Arg        *commonpb.Payloads
	}

	// HandleQueryInput is the input seen by WorkflowInboundInterceptor.HandleQuery.
	HandleQueryInput struct {
		QueryType string
		Args      *commonpb.Payloads
	}

	// UpdateInput is the input seen by WorkflowInboundInterceptor.ValidateUpdate and
	// ExecuteUpdate.
	UpdateInput struct {
		UpdateName string
		Args       *commonpb.Payloads
	}

	// ExecuteActivityInput is the input seen by ActivityInboundInterceptor.ExecuteActivity.
	ExecuteActivityInput struct {
		Args *commonpb.Payloads
	}

	// WorkflowInboundInterceptorBase provides default pass-through implementations of
	// every WorkflowInboundInterceptor method; embed it and override only the methods
	// an interceptor cares about.
	WorkflowInboundInterceptorBase struct {
		Next WorkflowInboundInterceptor
	}

	// ActivityInboundInterceptorBase provides a default pass-through implementation of
	// ActivityInboundInterceptor; embed it and override ExecuteActivity to add behavior.
	ActivityInboundInterceptorBase struct {
		Next ActivityInboundInterceptor
	}

	// workflowInboundInterceptorBase is the terminus of the workflow interceptor
	// chain: it performs the actual dispatch into user code instead of forwarding
	// anywhere further.
	workflowInboundInterceptorBase struct {
		we *workflowExecutorImpl
	}

	// activityInboundInterceptorBase is the terminus of the activity interceptor
	// chain: it performs the actual reflective call into the registered activity
	// function.
	activityInboundInterceptorBase struct {
		ae *activityExecutor
		dc DataConverter
	}
)

func (b WorkflowInboundInterceptorBase) ExecuteWorkflow(ctx Context, in *ExecuteWorkflowInput) (interface{}, error) {
	return b.Next.ExecuteWorkflow(ctx, in)
}
func (b WorkflowInboundInterceptorBase) HandleSignal(ctx Context, in *HandleSignalInput) error {
	return b.Next.HandleSignal(ctx, in)
}
func (b WorkflowInboundInterceptorBase) HandleQuery(ctx Context, in *HandleQueryInput) (*commonpb.Payload, error) {
	return b.Next.HandleQuery(ctx, in)
}
func (b WorkflowInboundInterceptorBase) ValidateUpdate(ctx Context, in *UpdateInput) error {
	return b.Next.ValidateUpdate(ctx, in)
}
func (b WorkflowInboundInterceptorBase) ExecuteUpdate(ctx Context, in *UpdateInput) (interface{}, error) {
	return b.Next.ExecuteUpdate(ctx, in)
}

func (b ActivityInboundInterceptorBase) ExecuteActivity(ctx context.Context, in *ExecuteActivityInput) (interface{}, error) {
	return b.Next.ExecuteActivity(ctx, in)
}

func (t *workflowInboundInterceptorBase) ExecuteWorkflow(ctx Context, in *ExecuteWorkflowInput) (interface{}, error) {
	return invokeWorkflowFunc(ctx, t.we.workflowType, t.we.fn, in.Args, t.we.env.dataConverter)
}

func (t *workflowInboundInterceptorBase) HandleSignal(ctx Context, in *HandleSignalInput) error {
	if ch, ok := t.we.env.signalChannels[in.SignalName]; ok {
		ch.SendAsync(in.Arg)
	}
	return nil
}

func (t *workflowInboundInterceptorBase) HandleQuery(ctx Context, in *HandleQueryInput) (*commonpb.Payload, error) {
	handler, ok := t.we.env.queryHandlers[in.QueryType]
	if !ok {
		return nil, fmt.Errorf("unknown query type %q", in.QueryType)
	}
	return handler(in.Args)
}

func (t *workflowInboundInterceptorBase) ValidateUpdate(ctx Context, in *UpdateInput) error {
	handler, ok := t.we.env.updateHandlers[in.UpdateName]
	if !ok {
		return fmt.Errorf("unknown update handler %q", in.UpdateName)
	}
	if handler.validate == nil {
		return nil
	}
	return handler.validate(in.Args)
}

func (t *workflowInboundInterceptorBase) ExecuteUpdate(ctx Context, in *UpdateInput) (interface{}, error) {
	handler, ok := t.we.env.updateHandlers[in.UpdateName]
	if !ok {
		return nil, fmt.Errorf("unknown update handler %q", in.UpdateName)
	}
	return handler.execute(ctx, in.Args)
}

func (t *activityInboundInterceptorBase) ExecuteActivity(ctx context.Context, in *ExecuteActivityInput) (interface{}, error) {
	return t.ae.Execute(ctx, in.Args, t.dc)
}

// buildWorkflowInterceptorChain composes interceptors outermost-first around
// terminus, mirroring buildClientInterceptorChain.
func buildWorkflowInterceptorChain(interceptors []WorkerInterceptor, terminus WorkflowInboundInterceptor) WorkflowInboundInterceptor {
	chain := terminus
	for i := len(interceptors) - 1; i >= 0; i-- {
		chain = interceptors[i].InterceptWorkflow(chain)
	}
	return chain
}

// buildActivityInterceptorChain composes interceptors outermost-first around
// terminus, mirroring buildClientInterceptorChain.
func buildActivityInterceptorChain(interceptors []WorkerInterceptor, terminus ActivityInboundInterceptor) ActivityInboundInterceptor {
	chain := terminus
	for i := len(interceptors) - 1; i >= 0; i-- {
		chain = interceptors[i].InterceptActivity(chain)
	}
	return chain
}
