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
	"io"

	"github.com/opentracing/opentracing-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	jaegermetrics "github.com/uber/jaeger-lib/metrics"
)

// NewJaegerTracer builds a Jaeger-backed opentracing.Tracer reporting as serviceName,
// suitable for ClientOptions.Tracer or NewTracingInterceptor. It always-samples and
// reports through jaeger-client-go's default UDP agent reporter; the returned
// io.Closer must be closed to flush buffered spans on shutdown.
func NewJaegerTracer(serviceName string) (opentracing.Tracer, io.Closer, error) {
	cfg := jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler:     &jaegercfg.SamplerConfig{Type: "const", Param: 1},
		Reporter:    &jaegercfg.ReporterConfig{LogSpans: false},
	}
	return cfg.NewTracer(jaegercfg.Metrics(jaegermetrics.NullFactory))
}

// TracingInterceptor is both a ClientInterceptor and a WorkerInterceptor: installed
// client-side (automatically, when ClientOptions.Tracer is set, or explicitly via
// ClientOptions.Interceptors) it opens one span per workflow start, signal,
// signal-with-start, query, update, cancel or terminate call (other client calls
// pass through untraced); installed
// worker-side (via WorkerOptions.Interceptors) it opens one span per workflow or
// activity execution. It uses tracer directly rather than the global
// opentracing.GlobalTracer() so a caller's tracer is never silently ignored.
type TracingInterceptor struct {
	tracer opentracing.Tracer
}

// NewTracingInterceptor builds a TracingInterceptor that starts spans on tracer.
func NewTracingInterceptor(tracer opentracing.Tracer) *TracingInterceptor {
	return &TracingInterceptor{tracer: tracer}
}

func (t *TracingInterceptor) InterceptClient(next ClientOutboundInterceptor) ClientOutboundInterceptor {
	return &tracingClientOutboundInterceptor{ClientOutboundInterceptorBase: ClientOutboundInterceptorBase{Next: next}, tracer: t.tracer}
}

func (t *TracingInterceptor) InterceptWorkflow(next WorkflowInboundInterceptor) WorkflowInboundInterceptor {
	return &tracingWorkflowInboundInterceptor{WorkflowInboundInterceptorBase: WorkflowInboundInterceptorBase{Next: next}, tracer: t.tracer}
}

func (t *TracingInterceptor) InterceptActivity(next ActivityInboundInterceptor) ActivityInboundInterceptor {
	return &tracingActivityInboundInterceptor{ActivityInboundInterceptorBase: ActivityInboundInterceptorBase{Next: next}, tracer: t.tracer}
}

type tracingClientOutboundInterceptor struct {
	ClientOutboundInterceptorBase
	tracer opentracing.Tracer
}

func (i *tracingClientOutboundInterceptor) startSpan(ctx context.Context, operationName string) (opentracing.Span, context.Context) {
	span := i.tracer.StartSpan(operationName)
	return span, opentracing.ContextWithSpan(ctx, span)
}

func (i *tracingClientOutboundInterceptor) ExecuteWorkflow(ctx context.Context, in *ClientExecuteWorkflowInput) (WorkflowRun, error) {
	span, ctx := i.startSpan(ctx, "StartWorkflow")
	defer span.Finish()
	run, err := i.Next.ExecuteWorkflow(ctx, in)
	if err != nil {
		span.SetTag("error", true)
	}
	return run, err
}

func (i *tracingClientOutboundInterceptor) SignalWorkflow(ctx context.Context, in *ClientSignalWorkflowInput) error {
	span, ctx := i.startSpan(ctx, "SignalWorkflow:"+in.SignalName)
	defer span.Finish()
	err := i.Next.SignalWorkflow(ctx, in)
	if err != nil {
		span.SetTag("error", true)
	}
	return err
}

func (i *tracingClientOutboundInterceptor) SignalWithStartWorkflow(ctx context.Context, in *ClientSignalWithStartWorkflowInput) (WorkflowRun, error) {
	span, ctx := i.startSpan(ctx, "SignalWithStartWorkflow:"+in.SignalName)
	defer span.Finish()
	run, err := i.Next.SignalWithStartWorkflow(ctx, in)
	if err != nil {
		span.SetTag("error", true)
	}
	return run, err
}

func (i *tracingClientOutboundInterceptor) QueryWorkflow(ctx context.Context, in *ClientQueryWorkflowInput) (Value, error) {
	span, ctx := i.startSpan(ctx, "QueryWorkflow:"+in.QueryType)
	defer span.Finish()
	val, err := i.Next.QueryWorkflow(ctx, in)
	if err != nil {
		span.SetTag("error", true)
	}
	return val, err
}

func (i *tracingClientOutboundInterceptor) UpdateWorkflow(ctx context.Context, in *ClientUpdateWorkflowInput) (WorkflowUpdateHandle, error) {
	span, ctx := i.startSpan(ctx, "UpdateWorkflow:"+in.UpdateName)
	defer span.Finish()
	handle, err := i.Next.UpdateWorkflow(ctx, in)
	if err != nil {
		span.SetTag("error", true)
	}
	return handle, err
}

func (i *tracingClientOutboundInterceptor) CancelWorkflow(ctx context.Context, in *ClientCancelWorkflowInput) error {
	span, ctx := i.startSpan(ctx, "CancelWorkflow")
	defer span.Finish()
	err := i.Next.CancelWorkflow(ctx, in)
	if err != nil {
		span.SetTag("error", true)
	}
	return err
}

func (i *tracingClientOutboundInterceptor) TerminateWorkflow(ctx context.Context, in *ClientTerminateWorkflowInput) error {
	span, ctx := i.startSpan(ctx, "TerminateWorkflow")
	defer span.Finish()
	err := i.Next.TerminateWorkflow(ctx, in)
	if err != nil {
		span.SetTag("error", true)
	}
	return err
}

type tracingWorkflowInboundInterceptor struct {
	WorkflowInboundInterceptorBase
	tracer opentracing.Tracer
}

func (i *tracingWorkflowInboundInterceptor) ExecuteWorkflow(ctx Context, in *ExecuteWorkflowInput) (interface{}, error) {
	info := GetWorkflowInfo(ctx)
	span := i.tracer.StartSpan("RunWorkflow:" + info.WorkflowType.Name)
	defer span.Finish()
	result, err := i.Next.ExecuteWorkflow(ctx, in)
	if err != nil {
		span.SetTag("error", true)
	}
	return result, err
}

type tracingActivityInboundInterceptor struct {
	ActivityInboundInterceptorBase
	tracer opentracing.Tracer
}

func (i *tracingActivityInboundInterceptor) ExecuteActivity(ctx context.Context, in *ExecuteActivityInput) (interface{}, error) {
	info := GetActivityInfo(ctx)
	span := i.tracer.StartSpan("RunActivity:" + info.ActivityType.Name)
	defer span.Finish()
	result, err := i.Next.ExecuteActivity(ctx, in)
	if err != nil {
		span.SetTag("error", true)
	}
	return result, err
}
