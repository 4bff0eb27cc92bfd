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
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"time"

	commonpb "go.temporal.io/api/common/v1"
)

type (
	// ContextPropagator carries out-of-band context (tracing baggage, request-scoped
	// auth) across the workflow/activity boundary via the header on every command and
	// task. Implementations serialize to/from the wire header map.
	ContextPropagator interface {
		Inject(ctx Context, writer HeaderWriter) error
		InjectFromWorkflow(ctx Context, writer HeaderWriter) error
		Extract(ctx Context, reader HeaderReader) (Context, error)
		ExtractToWorkflow(ctx Context, reader HeaderReader) (Context, error)
	}

	// HeaderWriter sets a single header field.
	HeaderWriter interface {
		Set(string, *commonpb.Payload)
	}

	// HeaderReader iterates every header field.
	HeaderReader interface {
		ForEachKey(handler func(string, *commonpb.Payload) error) error
	}

	// WorkflowOptions captures everything a workflow run needs that isn't part of its
	// positional arguments: scheduling parameters, the converter/propagators in effect,
	// and the registry used to resolve workflow/activity names.
	WorkflowOptions struct {
		TaskQueueName                    string
		WorkflowExecutionTimeout         time.Duration
		WorkflowRunTimeout               time.Duration
		WorkflowTaskTimeout              time.Duration
		Namespace                        string
		WorkflowID                       string
		DataConverter                    DataConverter
		ContextPropagators               []ContextPropagator
		Memo                             map[string]interface{}
		SearchAttributes                 map[string]interface{}
		RetryPolicy                      *RetryPolicy
		CronSchedule                     string
	}

	// ExecuteWorkflowParams is the fully resolved request to start (or continue-as-new)
	// one workflow run: its type, encoded input, and the options above.
	ExecuteWorkflowParams struct {
		WorkflowOptions
		WorkflowType *WorkflowType
		Input        *commonpb.Payloads
		Header       *commonpb.Header
	}

	// RetryPolicy configures how a workflow or activity is retried on failure; mirrors
	// the server's RetryPolicy message shape so it serializes without translation.
	RetryPolicy struct {
		InitialInterval        time.Duration
		BackoffCoefficient     float64
		MaximumInterval        time.Duration
		MaximumAttempts        int32
		NonRetryableErrorTypes []string
	}

	// workflowEnvironment is the sandboxed host API a running workflow instance calls
	// into: every side-effecting operation (schedule activity, start timer, get info)
	// goes through it rather than touching the outside world directly, keeping replay
	// deterministic. A *workflowEnvironmentImpl (internal_workflow_instance.go)
	// is the concrete implementation used by the engine; tests substitute a fake.
	workflowEnvironment interface {
		GetRegistry() *registry
		GetDataConverter() DataConverter
		GetContextPropagators() []ContextPropagator
		WorkflowInfo() *WorkflowInfo
	}

	// WorkflowInfo surfaces the read-only facts about the current run that workflow
	// code can query: IDs, timeouts, task queue, attempt count, and so on.
	WorkflowInfo struct {
		WorkflowExecution                  WorkflowExecution
		WorkflowType                       WorkflowType
		TaskQueueName                      string
		WorkflowExecutionTimeout           time.Duration
		WorkflowRunTimeout                 time.Duration
		WorkflowTaskTimeout                time.Duration
		Namespace                          string
		Attempt                            int32
		CronSchedule                       string
		ContinuedExecutionRunID            string
		ParentWorkflowNamespace            string
		ParentWorkflowExecution            *WorkflowExecution
		SearchAttributes                   map[string]*commonpb.Payload
		Memo                               map[string]*commonpb.Payload
	}

	// WorkflowExecution identifies one run of one workflow.
	WorkflowExecution struct {
		ID    string
		RunID string
	}

	// workflowDefinition adapts a registered workflow function to the dispatcher:
	// Execute starts the workflow coroutine, OnWorkflowTaskStarted lets it run until
	// blocked, StackTrace renders every blocked coroutine for diagnostics.
	workflowDefinition interface {
		Execute(env workflowEnvironment, header *commonpb.Header, input *commonpb.Payloads) error
		OnWorkflowTaskStarted()
		StackTrace() string
		Close()
	}

	// registry holds every workflow and activity function registered on a worker,
	// keyed by their wire type name (defaulting to the Go function's name).
	registry struct {
		mu         sync.RWMutex
		workflows  map[string]interface{}
		activities map[string]interface{}
	}
)

func newRegistry() *registry {
	return &registry{
		workflows:  make(map[string]interface{}),
		activities: make(map[string]interface{}),
	}
}

// RegisterWorkflow adds fn under its function name.
func (r *registry) RegisterWorkflow(fn interface{}) {
	r.RegisterWorkflowWithOptions(fn, RegisterWorkflowOptions{})
}

// RegisterWorkflowOptions customizes the wire name a workflow function registers
// under.
type RegisterWorkflowOptions struct {
	Name string
}

func (r *registry) RegisterWorkflowWithOptions(fn interface{}, opts RegisterWorkflowOptions) {
	name := opts.Name
	if name == "" {
		name = functionName(fn)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[name] = fn
}

// RegisterActivityOptions customizes the wire name an activity function registers
// under.
type RegisterActivityOptions struct {
	Name string
}

func (r *registry) RegisterActivity(fn interface{}) {
	r.RegisterActivityWithOptions(fn, RegisterActivityOptions{})
}

func (r *registry) RegisterActivityWithOptions(fn interface{}, opts RegisterActivityOptions) {
	name := opts.Name
	if name == "" {
		name = functionName(fn)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities[name] = fn
}

func (r *registry) GetWorkflow(name string) (interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.workflows[name]
	return fn, ok
}

func (r *registry) GetActivity(name string) (interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.activities[name]
	return fn, ok
}

// getFunctionName derives the default wire name for a registered workflow or activity
// function: the function's runtime name with its package path stripped.
func getFunctionName(fn interface{}) string {
	return functionName(fn)
}

func functionName(fn interface{}) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Sprintf("%T", fn)
	}
	full := runtime.FuncForPC(v.Pointer()).Name()
	// Strip package path, keeping only the final identifier (and any method receiver
	// suffix Go's runtime attaches), mirroring how the real SDK derives default names.
	if idx := strings.LastIndex(full, "."); idx >= 0 {
		return full[idx+1:]
	}
	return full
}

// getWorkflowEnvOptions returns the WorkflowOptions bound to ctx, or nil if ctx is not
// a workflow context (e.g. called outside of workflow code).
func getWorkflowEnvOptions(ctx Context) *WorkflowOptions {
	opts, _ := ctx.Value(workflowEnvOptionsContextKey).(*WorkflowOptions)
	return opts
}

// getWorkflowEnvironment returns the workflowEnvironment bound to ctx.
func getWorkflowEnvironment(ctx Context) workflowEnvironment {
	env, _ := ctx.Value(workflowEnvironmentContextKey).(workflowEnvironment)
	return env
}

// getWorkflowHeader builds the outbound header for a new command (activity, child
// workflow, signal) by running every configured ContextPropagator's InjectFromWorkflow.
func getWorkflowHeader(ctx Context, propagators []ContextPropagator) *commonpb.Header {
	header := &commonpb.Header{Fields: make(map[string]*commonpb.Payload)}
	writer := &headerWriter{header: header}
	for _, p := range propagators {
		_ = p.InjectFromWorkflow(ctx, writer)
	}
	return header
}

type headerWriter struct {
	header *commonpb.Header
}

func (w *headerWriter) Set(key string, value *commonpb.Payload) {
	w.header.Fields[key] = value
}

type headerReader struct {
	header *commonpb.Header
}

func (r *headerReader) ForEachKey(handler func(string, *commonpb.Payload) error) error {
	for k, v := range r.header.GetFields() {
		if err := handler(k, v); err != nil {
			return err
		}
	}
	return nil
}

const (
	workflowEnvOptionsContextKey contextKey = iota + 100
	workflowEnvironmentContextKey
)

// getValidatedWorkflowFunction resolves wfn (a function value or a registered type
// name string) against registry, encodes args with dc, and returns the WorkflowType
// to send on the wire.
func getValidatedWorkflowFunction(wfn interface{}, args []interface{}, dc DataConverter, r *registry) (*WorkflowType, *commonpb.Payloads, error) {
	var name string
	switch fn := wfn.(type) {
	case string:
		name = fn
	default:
		v := reflect.ValueOf(wfn)
		if v.Kind() != reflect.Func {
			return nil, nil, fmt.Errorf("workflow must be a function or registered name, got %T", wfn)
		}
		name = functionName(wfn)
	}

	if r != nil {
		if _, ok := r.GetWorkflow(name); !ok {
			return nil, nil, fmt.Errorf("unable to find workflow type: %s", name)
		}
	}

	if dc == nil {
		dc = getDefaultDataConverter()
	}
	input, err := dc.ToPayloads(args...)
	if err != nil {
		return nil, nil, err
	}

	return &WorkflowType{Name: name}, input, nil
}
