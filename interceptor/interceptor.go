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

// Package interceptor exposes the client- and worker-side interceptor chain
// types: a way to wrap every outbound client call and every inbound workflow
// or activity task dispatched by a worker without modifying the call sites
// themselves. Third-party interceptor authors implement ClientOutboundInterceptor,
// WorkflowInboundInterceptor, and/or ActivityInboundInterceptor, embedding the
// matching Base type so they only need to override the methods they care about.
package interceptor

import (
	"io"

	"github.com/opentracing/opentracing-go"

	"go.temporal.io/sdk-core/internal"
)

type (
	// ClientInterceptor composes ClientOutboundInterceptor into client.Options.Interceptors.
	ClientInterceptor = internal.ClientInterceptor

	// ClientOutboundInterceptor is implemented by each link in the client outbound
	// interceptor chain.
	ClientOutboundInterceptor = internal.ClientOutboundInterceptor

	// ClientOutboundInterceptorBase provides default pass-through implementations of
	// every ClientOutboundInterceptor method; embed it and override selectively.
	ClientOutboundInterceptorBase = internal.ClientOutboundInterceptorBase

	// WorkerInterceptor composes WorkflowInboundInterceptor and ActivityInboundInterceptor
	// into worker.Options.Interceptors.
	WorkerInterceptor = internal.WorkerInterceptor

	// WorkflowInboundInterceptor is implemented by each link in the workflow
	// interceptor chain.
	WorkflowInboundInterceptor = internal.WorkflowInboundInterceptor

	// WorkflowInboundInterceptorBase provides default pass-through implementations of
	// every WorkflowInboundInterceptor method; embed it and override selectively.
	WorkflowInboundInterceptorBase = internal.WorkflowInboundInterceptorBase

	// ActivityInboundInterceptor is implemented by each link in the activity
	// interceptor chain.
	ActivityInboundInterceptor = internal.ActivityInboundInterceptor

	// ActivityInboundInterceptorBase provides a default pass-through implementation of
	// ActivityInboundInterceptor; embed it and override ExecuteActivity.
	ActivityInboundInterceptorBase = internal.ActivityInboundInterceptorBase

	// ClientExecuteWorkflowInput is the input seen by ClientOutboundInterceptor.ExecuteWorkflow.
	ClientExecuteWorkflowInput = internal.ClientExecuteWorkflowInput

	// ClientSignalWorkflowInput is the input seen by ClientOutboundInterceptor.SignalWorkflow.
	ClientSignalWorkflowInput = internal.ClientSignalWorkflowInput

	// ClientSignalWithStartWorkflowInput is the input seen by
	// ClientOutboundInterceptor.SignalWithStartWorkflow.
	ClientSignalWithStartWorkflowInput = internal.ClientSignalWithStartWorkflowInput

	// ClientCancelWorkflowInput is the input seen by ClientOutboundInterceptor.CancelWorkflow.
	ClientCancelWorkflowInput = internal.ClientCancelWorkflowInput

	// ClientTerminateWorkflowInput is the input seen by ClientOutboundInterceptor.TerminateWorkflow.
	ClientTerminateWorkflowInput = internal.ClientTerminateWorkflowInput

	// ClientQueryWorkflowInput is the input seen by ClientOutboundInterceptor.QueryWorkflow.
	ClientQueryWorkflowInput = internal.ClientQueryWorkflowInput

	// ClientUpdateWorkflowInput is the input seen by ClientOutboundInterceptor.UpdateWorkflow.
	ClientUpdateWorkflowInput = internal.ClientUpdateWorkflowInput

	// ClientDescribeWorkflowExecutionInput is the input seen by
	// ClientOutboundInterceptor.DescribeWorkflowExecution.
	ClientDescribeWorkflowExecutionInput = internal.ClientDescribeWorkflowExecutionInput

	// ClientGetWorkflowHistoryInput is the input seen by ClientOutboundInterceptor.GetWorkflowHistory.
	ClientGetWorkflowHistoryInput = internal.ClientGetWorkflowHistoryInput

	// ClientListWorkflowInput is the input seen by ClientOutboundInterceptor.ListWorkflow.
	ClientListWorkflowInput = internal.ClientListWorkflowInput

	// ClientCountWorkflowInput is the input seen by ClientOutboundInterceptor.CountWorkflow.
	ClientCountWorkflowInput = internal.ClientCountWorkflowInput

	// ClientCompleteActivityInput is the input seen by ClientOutboundInterceptor.CompleteActivity.
	ClientCompleteActivityInput = internal.ClientCompleteActivityInput

	// ClientCompleteActivityByIDInput is the input seen by
	// ClientOutboundInterceptor.CompleteActivityByID.
	ClientCompleteActivityByIDInput = internal.ClientCompleteActivityByIDInput

	// ClientRecordActivityHeartbeatInput is the input seen by
	// ClientOutboundInterceptor.RecordActivityHeartbeat.
	ClientRecordActivityHeartbeatInput = internal.ClientRecordActivityHeartbeatInput

	// ClientRecordActivityHeartbeatByIDInput is the input seen by
	// ClientOutboundInterceptor.RecordActivityHeartbeatByID.
	ClientRecordActivityHeartbeatByIDInput = internal.ClientRecordActivityHeartbeatByIDInput

	// ClientCreateScheduleInput is the input seen by ClientOutboundInterceptor.CreateSchedule.
	ClientCreateScheduleInput = internal.ClientCreateScheduleInput

	// ClientDescribeScheduleInput is the input seen by ClientOutboundInterceptor.DescribeSchedule.
	ClientDescribeScheduleInput = internal.ClientDescribeScheduleInput

	// ClientUpdateScheduleInput is the input seen by ClientOutboundInterceptor.UpdateSchedule.
	ClientUpdateScheduleInput = internal.ClientUpdateScheduleInput

	// ClientPatchScheduleInput is the input seen by ClientOutboundInterceptor.PatchSchedule.
	ClientPatchScheduleInput = internal.ClientPatchScheduleInput

	// ClientListSchedulesInput is the input seen by ClientOutboundInterceptor.ListSchedules.
	ClientListSchedulesInput = internal.ClientListSchedulesInput

	// ClientDeleteScheduleInput is the input seen by ClientOutboundInterceptor.DeleteSchedule.
	ClientDeleteScheduleInput = internal.ClientDeleteScheduleInput

	// ExecuteWorkflowInput is the input seen by WorkflowInboundInterceptor.ExecuteWorkflow.
	ExecuteWorkflowInput = internal.ExecuteWorkflowInput

	// HandleSignalInput is the input seen by WorkflowInboundInterceptor.HandleSignal.
	HandleSignalInput = internal.HandleSignalInput

	// HandleQueryInput is the input seen by WorkflowInboundInterceptor.HandleQuery.
	HandleQueryInput = internal.HandleQueryInput

	// UpdateInput is the input seen by WorkflowInboundInterceptor.ValidateUpdate and
	// ExecuteUpdate.
	UpdateInput = internal.UpdateInput

	// ExecuteActivityInput is the input seen by ActivityInboundInterceptor.ExecuteActivity.
	ExecuteActivityInput = internal.ExecuteActivityInput

	// TracingInterceptor is both a ClientInterceptor and a WorkerInterceptor that
	// opens an opentracing span around every outbound call, workflow execution, and
	// activity execution.
	TracingInterceptor = internal.TracingInterceptor
)

// NewTracingInterceptor builds a TracingInterceptor that starts spans on tracer.
func NewTracingInterceptor(tracer opentracing.Tracer) *TracingInterceptor {
	return internal.NewTracingInterceptor(tracer)
}

// NewJaegerTracer builds a Jaeger-backed opentracing.Tracer reporting as serviceName,
// suitable for client.Options.Tracer or NewTracingInterceptor. The returned io.Closer
// must be closed to flush buffered spans on shutdown.
func NewJaegerTracer(serviceName string) (opentracing.Tracer, io.Closer, error) {
	return internal.NewJaegerTracer(serviceName)
}
