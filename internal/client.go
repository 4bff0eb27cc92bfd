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
	"os"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pborman/uuid"
	"github.com/uber-go/tally"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/durationpb"

	commonpb "go.temporal.io/api/common/v1"
	enumspb "go.temporal.io/api/enums/v1"
	historypb "go.temporal.io/api/history/v1"
	querypb "go.temporal.io/api/query/v1"
	schedulepb "go.temporal.io/api/schedule/v1"
	updatepb "go.temporal.io/api/update/v1"
	"go.temporal.io/api/workflowservice/v1"

	"go.temporal.io/sdk-core/internal/bridge"
	"go.temporal.io/sdk-core/internal/common/metrics"
)

const (
	// QueryTypeStackTrace is the built-in query type for Client.QueryWorkflow() that
	// returns the blocked-coroutine stack trace of the target workflow.
	QueryTypeStackTrace string = "__stack_trace"

	// LocalHostPort is the default server address used when ClientOptions.HostPort is
	// left empty.
	LocalHostPort = "localhost:7233"

	clientImplHeaderName  = "client-name"
	clientImplHeaderValue = "temporal-go-sdk-core"
)

type (
	// Client is the external facade for starting, signaling, querying, updating, and
	// terminating workflow executions, plus out-of-band activity completion. A Client
	// is namespace-scoped: every call is issued against the namespace it was built with.
	Client interface {
		// ExecuteWorkflow starts a workflow execution and returns a WorkflowRun handle.
		// workflow may be the registered function value or its registered string name.
		ExecuteWorkflow(ctx context.Context, options StartWorkflowOptions, workflow interface{}, args ...interface{}) (WorkflowRun, error)

		// GetWorkflow returns a WorkflowRun bound to an existing execution. runID may be
		// empty, in which case the current run of workflowID is used.
		GetWorkflow(ctx context.Context, workflowID string, runID string) WorkflowRun

		// SignalWorkflow sends a signal to a running workflow execution.
		SignalWorkflow(ctx context.Context, workflowID string, runID string, signalName string, arg interface{}) error

		// SignalWithStartWorkflow starts workflow (if not already running) and sends it
		// signalName/signalArg atomically.
		SignalWithStartWorkflow(ctx context.Context, workflowID string, signalName string, signalArg interface{},
			options StartWorkflowOptions, workflow interface{}, workflowArgs ...interface{}) (WorkflowRun, error)

		// UpdateWorkflow sends an update to a running workflow execution and returns a
		// handle to track its outcome once admitted by the workflow's update validator.
		UpdateWorkflow(ctx context.Context, workflowID, runID, updateName string, args ...interface{}) (WorkflowUpdateHandle, error)

		// CancelWorkflow requests cancellation of a workflow execution.
		CancelWorkflow(ctx context.Context, workflowID string, runID string) error

		// TerminateWorkflow forcibly ends a workflow execution without running its
		// cancellation cleanup.
		TerminateWorkflow(ctx context.Context, workflowID string, runID string, reason string, details ...interface{}) error

		// GetWorkflowHistory returns an iterator over one workflow execution's history
		// events, optionally long-polling for new events as they occur.
		GetWorkflowHistory(ctx context.Context, workflowID string, runID string, isLongPoll bool, filterType enumspb.HistoryEventFilterType) HistoryEventIterator

		// CompleteActivity reports the outcome of an activity whose Execute method
		// returned ErrActivityResultPending, identified by its task token.
		CompleteActivity(ctx context.Context, taskToken []byte, result interface{}, err error) error

		// CompleteActivityByID is CompleteActivity addressed by business ID instead of
		// task token.
		CompleteActivityByID(ctx context.Context, namespace, workflowID, runID, activityID string, result interface{}, err error) error

		// RecordActivityHeartbeat reports activity progress, identified by task token.
		RecordActivityHeartbeat(ctx context.Context, taskToken []byte, details ...interface{}) error

		// RecordActivityHeartbeatByID is RecordActivityHeartbeat addressed by business ID.
		RecordActivityHeartbeatByID(ctx context.Context, namespace, workflowID, runID, activityID string, details ...interface{}) error

		// ListWorkflow returns workflow executions matching a visibility query.
		ListWorkflow(ctx context.Context, request *workflowservice.ListWorkflowExecutionsRequest) (*workflowservice.ListWorkflowExecutionsResponse, error)

		// CountWorkflow returns the number of workflow executions matching a visibility
		// query.
		CountWorkflow(ctx context.Context, request *workflowservice.CountWorkflowExecutionsRequest) (*workflowservice.CountWorkflowExecutionsResponse, error)

		// QueryWorkflow synchronously queries a workflow execution and decodes its
		// result into a Value.
		QueryWorkflow(ctx context.Context, workflowID string, runID string, queryType string, args ...interface{}) (Value, error)

		// DescribeWorkflowExecution returns metadata and pending-activity state for a
		// workflow execution.
		DescribeWorkflowExecution(ctx context.Context, workflowID, runID string) (*workflowservice.DescribeWorkflowExecutionResponse, error)

		// DescribeTaskQueue returns the pollers currently polling a task queue.
		DescribeTaskQueue(ctx context.Context, taskQueue string, taskQueueType enumspb.TaskQueueType) (*workflowservice.DescribeTaskQueueResponse, error)

		// ScheduleClient returns the facade for create/update/describe/delete of
		// schedules (cron workflows superseded by the server-side Schedule API).
		ScheduleClient() ScheduleClient

		// Close releases the underlying gRPC connection, if this Client owns one.
		Close()
	}

	// ClientOptions are the optional parameters for Dial.
	ClientOptions struct {
		// HostPort is the server address to connect to. Use the "dns:///" prefix to
		// enable DNS-based round robin. Default: localhost:7233.
		HostPort string

		// Namespace scopes every call this Client makes. Default: "default".
		Namespace string

		// ConnectionOptions overrides how the underlying gRPC connection is dialed, or
		// provides a pre-built connection/transport.
		ConnectionOptions ConnectionOptions

		// MetricsScope is the tally.Scope metrics are emitted against. Use
		// metrics.SanitizeOptions when constructing the root scope to keep names
		// Prometheus-compatible. Default: a no-op scope.
		MetricsScope tally.Scope

		// Identity labels this client for debugging. Default: pid@hostname.
		Identity string

		// DataConverter customizes argument/result (de)serialization. Default:
		// converter.GetDefaultDataConverter().
		DataConverter DataConverter

		// ContextPropagators propagate out-of-band context across the client/workflow
		// boundary via the wire header.
		ContextPropagators []ContextPropagator

		// Tracer emits tracing spans around every outbound call. Default: no-op.
		Tracer opentracing.Tracer

		// Interceptors wrap every outbound call in declaration order (first wraps
		// outermost).
		Interceptors []ClientInterceptor
	}

	// ConnectionOptions configures the gRPC connection a Client dials, or substitutes a
	// pre-built one (e.g. an in-process bufconn for tests, or a CallbackTransport for
	// embedding a host-supplied RPC stack).
	ConnectionOptions struct {
		// DialOptions are appended to the gRPC dial call (TLS credentials, keepalive,
		// interceptors).
		DialOptions []grpc.DialOption

		// ExistingConnection reuses an already-dialed *grpc.ClientConn instead of
		// dialing HostPort.
		ExistingConnection *grpc.ClientConn

		// ExistingTransport routes every call through a bridge.Transport instead of a
		// real network connection (e.g. bridge.CallbackTransport, for embedding a
		// host-supplied RPC stack, or a test double).
		ExistingTransport bridge.Transport
	}

	// ClientInterceptor is the client-side half of the interceptor chain; see
	// buildClientInterceptorChain for the composition machinery.
	ClientInterceptor interface {
		InterceptClient(next ClientOutboundInterceptor) ClientOutboundInterceptor
	}

	// ClientOutboundInterceptor is implemented by each link in the client interceptor
	// chain; a no-op embeds ClientOutboundInterceptorBase and overrides only what it
	// needs.
	ClientOutboundInterceptor interface {
		ExecuteWorkflow(ctx context.Context, in *ClientExecuteWorkflowInput) (WorkflowRun, error)
		SignalWorkflow(ctx context.Context, in *ClientSignalWorkflowInput) error
		SignalWithStartWorkflow(ctx context.Context, in *ClientSignalWithStartWorkflowInput) (WorkflowRun, error)
		CancelWorkflow(ctx context.Context, in *ClientCancelWorkflowInput) error
		TerminateWorkflow(ctx context.Context, in *ClientTerminateWorkflowInput) error
		QueryWorkflow(ctx context.Context, in *ClientQueryWorkflowInput) (Value, error)
		UpdateWorkflow(ctx context.Context, in *ClientUpdateWorkflowInput) (WorkflowUpdateHandle, error)
		DescribeWorkflowExecution(ctx context.Context, in *ClientDescribeWorkflowExecutionInput) (*workflowservice.DescribeWorkflowExecutionResponse, error)
		GetWorkflowHistory(ctx context.Context, in *ClientGetWorkflowHistoryInput) HistoryEventIterator
		ListWorkflow(ctx context.Context, in *ClientListWorkflowInput) (*workflowservice.ListWorkflowExecutionsResponse, error)
		CountWorkflow(ctx context.Context, in *ClientCountWorkflowInput) (*workflowservice.CountWorkflowExecutionsResponse, error)
		CompleteActivity(ctx context.Context, in *ClientCompleteActivityInput) error
		CompleteActivityByID(ctx context.Context, in *ClientCompleteActivityByIDInput) error
		RecordActivityHeartbeat(ctx context.Context, in *ClientRecordActivityHeartbeatInput) error
		RecordActivityHeartbeatByID(ctx context.Context, in *ClientRecordActivityHeartbeatByIDInput) error
		CreateSchedule(ctx context.Context, in *ClientCreateScheduleInput) (ScheduleHandle, error)
		DescribeSchedule(ctx context.Context, in *ClientDescribeScheduleInput) (*workflowservice.DescribeScheduleResponse, error)
		UpdateSchedule(ctx context.Context, in *ClientUpdateScheduleInput) error
		PatchSchedule(ctx context.Context, in *ClientPatchScheduleInput) error
		ListSchedules(ctx context.Context, in *ClientListSchedulesInput) ([]*schedulepb.ScheduleListEntry, error)
		DeleteSchedule(ctx context.Context, in *ClientDeleteScheduleInput) error
	}

	// ClientExecuteWorkflowInput is the input seen by ClientOutboundInterceptor.ExecuteWorkflow.
	ClientExecuteWorkflowInput struct {
		Options  *StartWorkflowOptions
		Workflow interface{}
		Args     []interface{}
	}

	// ClientSignalWorkflowInput is the input seen by ClientOutboundInterceptor.SignalWorkflow.
	ClientSignalWorkflowInput struct {
		WorkflowID, RunID, SignalName string
		Arg                           interface{}
	}

	// ClientSignalWithStartWorkflowInput is the input seen by
	// ClientOutboundInterceptor.SignalWithStartWorkflow.
	ClientSignalWithStartWorkflowInput struct {
		WorkflowID, SignalName string
		SignalArg              interface{}
		Options                *StartWorkflowOptions
		Workflow               interface{}
		WorkflowArgs           []interface{}
	}

	// ClientCancelWorkflowInput is the input seen by ClientOutboundInterceptor.CancelWorkflow.
	ClientCancelWorkflowInput struct {
		WorkflowID, RunID string
	}

	// ClientTerminateWorkflowInput is the input seen by ClientOutboundInterceptor.TerminateWorkflow.
	ClientTerminateWorkflowInput struct {
		WorkflowID, RunID, Reason string
		Details                   []interface{}
	}

	// ClientQueryWorkflowInput is the input seen by ClientOutboundInterceptor.QueryWorkflow.
	ClientQueryWorkflowInput struct {
		WorkflowID, RunID, QueryType string
		Args                         []interface{}
	}

	// ClientUpdateWorkflowInput is the input seen by ClientOutboundInterceptor.UpdateWorkflow.
	ClientUpdateWorkflowInput struct {
		WorkflowID, RunID, UpdateName string
		Args                          []interface{}
	}

	// ClientDescribeWorkflowExecutionInput is the input seen by
	// ClientOutboundInterceptor.DescribeWorkflowExecution.
	ClientDescribeWorkflowExecutionInput struct {
		WorkflowID, RunID string
	}

	// ClientGetWorkflowHistoryInput is the input seen by
	// ClientOutboundInterceptor.GetWorkflowHistory.
	ClientGetWorkflowHistoryInput struct {
		WorkflowID, RunID string
		IsLongPoll        bool
		FilterType        enumspb.HistoryEventFilterType
	}

	// ClientListWorkflowInput is the input seen by ClientOutboundInterceptor.ListWorkflow.
	ClientListWorkflowInput struct {
		Request *workflowservice.ListWorkflowExecutionsRequest
	}

	// ClientCountWorkflowInput is the input seen by ClientOutboundInterceptor.CountWorkflow.
	ClientCountWorkflowInput struct {
		Request *workflowservice.CountWorkflowExecutionsRequest
	}

	// ClientCompleteActivityInput is the input seen by
	// ClientOutboundInterceptor.CompleteActivity.
	ClientCompleteActivityInput struct {
		TaskToken []byte
		Result    interface{}
		Err       error
	}

	// ClientCompleteActivityByIDInput is the input seen by
	// ClientOutboundInterceptor.CompleteActivityByID.
	ClientCompleteActivityByIDInput struct {
		Namespace, WorkflowID, RunID, ActivityID string
		Result                                   interface{}
		Err                                       error
	}

	// ClientRecordActivityHeartbeatInput is the input seen by
	// ClientOutboundInterceptor.RecordActivityHeartbeat.
	ClientRecordActivityHeartbeatInput struct {
		TaskToken []byte
		Details   []interface{}
	}

	// ClientRecordActivityHeartbeatByIDInput is the input seen by
	// ClientOutboundInterceptor.RecordActivityHeartbeatByID.
	ClientRecordActivityHeartbeatByIDInput struct {
		Namespace, WorkflowID, RunID, ActivityID string
		Details                                  []interface{}
	}

	// ClientCreateScheduleInput is the input seen by ClientOutboundInterceptor.CreateSchedule.
	ClientCreateScheduleInput struct {
		Options ScheduleOptions
	}

	// ClientDescribeScheduleInput is the input seen by ClientOutboundInterceptor.DescribeSchedule.
	ClientDescribeScheduleInput struct {
		ScheduleID string
	}

	// ClientUpdateScheduleInput is the input seen by ClientOutboundInterceptor.UpdateSchedule.
	ClientUpdateScheduleInput struct {
		ScheduleID string
		Options    ScheduleOptions
	}

	// ClientPatchScheduleInput is the input seen by ClientOutboundInterceptor.PatchSchedule;
	// Pause, Unpause, Trigger, and Backfill all compile down to one server-side patch.
	ClientPatchScheduleInput struct {
		ScheduleID string
		Patch      *schedulepb.SchedulePatch
	}

	// ClientListSchedulesInput is the input seen by ClientOutboundInterceptor.ListSchedules.
	ClientListSchedulesInput struct {
		PageSize int
	}

	// ClientDeleteScheduleInput is the input seen by ClientOutboundInterceptor.DeleteSchedule.
	ClientDeleteScheduleInput struct {
		ScheduleID string
	}

	// StartWorkflowOptions configures a new workflow execution.
	StartWorkflowOptions struct {
		// ID is the business identifier of the execution. Default: a generated UUID.
		ID string

		// TaskQueue workflow tasks (and, by default, activities) are scheduled on.
		// Mandatory.
		TaskQueue string

		// WorkflowExecutionTimeout bounds the total duration of the workflow execution,
		// including retries and any continue-as-new chain. Default: unbounded.
		WorkflowExecutionTimeout time.Duration

		// WorkflowRunTimeout bounds the duration of a single run. Default: unbounded.
		WorkflowRunTimeout time.Duration

		// WorkflowTaskTimeout bounds how long a worker has to respond to one workflow
		// task before the server times it out and reschedules it. Default: 10s.
		WorkflowTaskTimeout time.Duration

		// WorkflowIDReusePolicy controls whether a new execution may reuse ID. Default:
		// WorkflowIDReusePolicyAllowDuplicate.
		WorkflowIDReusePolicy WorkflowIDReusePolicy

		// RetryPolicy retries the workflow (as a whole new execution) on failure.
		RetryPolicy *RetryPolicy

		// CronSchedule, if set, runs the workflow repeatedly on this schedule. Prefer
		// ScheduleClient for new code; CronSchedule is kept for parity with existing
		// workflows.
		CronSchedule string

		// Memo is optional non-indexed metadata visible in ListWorkflow.
		Memo map[string]interface{}

		// SearchAttributes is optional indexed metadata queryable via ListWorkflow.
		SearchAttributes map[string]interface{}
	}

	// WorkflowIDReusePolicy controls whether a workflow ID may be reused by a new
	// execution.
	WorkflowIDReusePolicy int

	// WorkflowRun represents one (possibly continued-as-new) workflow execution
	// started or retrieved through a Client.
	WorkflowRun interface {
		// GetID returns the workflow ID.
		GetID() string

		// GetRunID returns the RunID of the first run in this continue-as-new chain.
		GetRunID() string

		// Get blocks until the execution completes and decodes its result into
		// valuePtr, or returns the execution's terminal error wrapped in a
		// *WorkflowExecutionError. Continue-as-new runs are followed to the last run.
		Get(ctx context.Context, valuePtr interface{}) error
	}

	// HistoryEventIterator iterates a workflow execution's history events, lazily
	// paging through the server as needed.
	HistoryEventIterator interface {
		HasNext() bool
		Next() (*historypb.HistoryEvent, error)
	}

	workflowClient struct {
		bridge             *bridge.Client
		connection         *grpc.ClientConn
		namespace          string
		registry           *registry
		metricsScope       tally.Scope
		identity           string
		dataConverter      DataConverter
		contextPropagators []ContextPropagator
		interceptor        ClientOutboundInterceptor
	}

	workflowRunImpl struct {
		workflowID string
		firstRunID string
		client     *workflowClient
	}
)

const (
	// WorkflowIDReusePolicyAllowDuplicate allows starting a new execution with the same
	// ID whenever no execution with that ID is currently running.
	WorkflowIDReusePolicyAllowDuplicate WorkflowIDReusePolicy = iota

	// WorkflowIDReusePolicyAllowDuplicateFailedOnly allows reuse only when the prior
	// execution's close status was failed/timed out/terminated/canceled.
	WorkflowIDReusePolicyAllowDuplicateFailedOnly

	// WorkflowIDReusePolicyRejectDuplicate never allows ID reuse, even after the prior
	// execution closed.
	WorkflowIDReusePolicyRejectDuplicate
)

// Dial creates a Client connected to options.HostPort (or a caller-supplied connection
// in options.ConnectionOptions).
func Dial(options ClientOptions) (Client, error) {
	if options.Namespace == "" {
		options.Namespace = "default"
	}
	if options.HostPort == "" {
		options.HostPort = LocalHostPort
	}
	if options.Identity == "" {
		options.Identity = defaultIdentity()
	}
	if options.DataConverter == nil {
		options.DataConverter = getDefaultDataConverter()
	}
	if options.MetricsScope == nil {
		options.MetricsScope = metrics.NewNoopScope()
	}
	options.MetricsScope = metrics.TaggedScope(options.MetricsScope, options.Namespace, "")

	br, conn, err := dialBridge(options)
	if err != nil {
		return nil, err
	}

	c := &workflowClient{
		bridge:             br,
		connection:         conn,
		namespace:          options.Namespace,
		registry:           newRegistry(),
		metricsScope:       options.MetricsScope,
		identity:           options.Identity,
		dataConverter:      options.DataConverter,
		contextPropagators: options.ContextPropagators,
	}
	interceptors := options.Interceptors
	if options.Tracer != nil {
		interceptors = append([]ClientInterceptor{NewTracingInterceptor(options.Tracer)}, interceptors...)
	}
	c.interceptor = buildClientInterceptorChain(interceptors, c)
	return c, nil
}

func dialBridge(options ClientOptions) (*bridge.Client, *grpc.ClientConn, error) {
	identity := bridge.Identity{ClientName: SDKName, ClientVersion: SDKVersion}

	if options.ConnectionOptions.ExistingTransport != nil {
		return bridge.NewClientWithTransport(options.ConnectionOptions.ExistingTransport, identity), nil, nil
	}

	conn := options.ConnectionOptions.ExistingConnection
	if conn == nil {
		var err error
		conn, err = grpc.Dial(options.HostPort, options.ConnectionOptions.DialOptions...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to dial %s: %w", options.HostPort, err)
		}
	}
	return bridge.NewClient(conn, identity), conn, nil
}

func defaultIdentity() string {
	host, _ := os.Hostname()
	return fmt.Sprintf("%d@%s", os.Getpid(), host)
}

// NewAPIKeyCredential wraps key into the conventional Authorization bearer header
// callers can attach via ConnectionOptions.DialOptions.
func NewAPIKeyCredential(key string) string {
	return "Bearer " + key
}

func (wc *workflowClient) ExecuteWorkflow(ctx context.Context, options StartWorkflowOptions, workflow interface{}, args ...interface{}) (WorkflowRun, error) {
	return wc.interceptor.ExecuteWorkflow(ctx, &ClientExecuteWorkflowInput{Options: &options, Workflow: workflow, Args: args})
}

func (wc *workflowClient) executeWorkflow(ctx context.Context, in *ClientExecuteWorkflowInput) (WorkflowRun, error) {
	options := in.Options
	workflowType, input, err := getValidatedWorkflowFunction(in.Workflow, in.Args, wc.dataConverter, wc.registry)
	if err != nil {
		return nil, err
	}
	if options.ID == "" {
		options.ID = uuid.New()
	}

	req := &workflowservice.StartWorkflowExecutionRequest{
		Namespace:                wc.namespace,
		WorkflowId:               options.ID,
		WorkflowType:             &commonpb.WorkflowType{Name: workflowType.Name},
		TaskQueue:                taskqueueFromName(options.TaskQueue),
		Input:                    input,
		WorkflowExecutionTimeout: durationToProto(options.WorkflowExecutionTimeout),
		WorkflowRunTimeout:       durationToProto(options.WorkflowRunTimeout),
		WorkflowTaskTimeout:      durationToProto(options.WorkflowTaskTimeout),
		Identity:                 wc.identity,
		RequestId:                uuid.New(),
		WorkflowIdReusePolicy:    options.WorkflowIDReusePolicy.toProto(),
		RetryPolicy:              options.RetryPolicy.toProto(),
		CronSchedule:             options.CronSchedule,
		Memo:                     encodeMemo(wc.dataConverter, options.Memo),
		SearchAttributes:         encodeSearchAttributes(wc.dataConverter, options.SearchAttributes),
		Header:                   getWorkflowHeader(Background(), wc.contextPropagators),
	}

	resp, err := wc.bridge.WorkflowService.StartWorkflowExecution(ctx, req)
	if err != nil {
		return nil, err
	}
	return &workflowRunImpl{workflowID: options.ID, firstRunID: resp.GetRunId(), client: wc}, nil
}

func (wc *workflowClient) GetWorkflow(ctx context.Context, workflowID string, runID string) WorkflowRun {
	return &workflowRunImpl{workflowID: workflowID, firstRunID: runID, client: wc}
}

func (wc *workflowClient) SignalWorkflow(ctx context.Context, workflowID string, runID string, signalName string, arg interface{}) error {
	return wc.interceptor.SignalWorkflow(ctx, &ClientSignalWorkflowInput{WorkflowID: workflowID, RunID: runID, SignalName: signalName, Arg: arg})
}

func (wc *workflowClient) signalWorkflow(ctx context.Context, in *ClientSignalWorkflowInput) error {
	input, err := wc.dataConverter.ToPayloads(in.Arg)
	if err != nil {
		return err
	}
	_, err = wc.bridge.WorkflowService.SignalWorkflowExecution(ctx, &workflowservice.SignalWorkflowExecutionRequest{
		Namespace:         wc.namespace,
		WorkflowExecution: &commonpb.WorkflowExecution{WorkflowId: in.WorkflowID, RunId: in.RunID},
		SignalName:        in.SignalName,
		Input:             input,
		Identity:          wc.identity,
		RequestId:         uuid.New(),
	})
	return err
}

func (wc *workflowClient) SignalWithStartWorkflow(ctx context.Context, workflowID string, signalName string, signalArg interface{},
	options StartWorkflowOptions, workflow interface{}, workflowArgs ...interface{}) (WorkflowRun, error) {
	options.ID = workflowID
	return wc.interceptor.SignalWithStartWorkflow(ctx, &ClientSignalWithStartWorkflowInput{
		WorkflowID: workflowID, SignalName: signalName, SignalArg: signalArg,
		Options: &options, Workflow: workflow, WorkflowArgs: workflowArgs,
	})
}

func (wc *workflowClient) signalWithStartWorkflow(ctx context.Context, in *ClientSignalWithStartWorkflowInput) (WorkflowRun, error) {
	options := in.Options
	workflowType, input, err := getValidatedWorkflowFunction(in.Workflow, in.WorkflowArgs, wc.dataConverter, wc.registry)
	if err != nil {
		return nil, err
	}
	signalInput, err := wc.dataConverter.ToPayloads(in.SignalArg)
	if err != nil {
		return nil, err
	}

	req := &workflowservice.SignalWithStartWorkflowExecutionRequest{
		Namespace:                wc.namespace,
		WorkflowId:               in.WorkflowID,
		WorkflowType:             &commonpb.WorkflowType{Name: workflowType.Name},
		TaskQueue:                taskqueueFromName(options.TaskQueue),
		Input:                    input,
		WorkflowExecutionTimeout: durationToProto(options.WorkflowExecutionTimeout),
		WorkflowRunTimeout:       durationToProto(options.WorkflowRunTimeout),
		WorkflowTaskTimeout:      durationToProto(options.WorkflowTaskTimeout),
		Identity:                 wc.identity,
		RequestId:                uuid.New(),
		WorkflowIdReusePolicy:    options.WorkflowIDReusePolicy.toProto(),
		RetryPolicy:              options.RetryPolicy.toProto(),
		CronSchedule:             options.CronSchedule,
		SignalName:               in.SignalName,
		SignalInput:              signalInput,
	}
	resp, err := wc.bridge.WorkflowService.SignalWithStartWorkflowExecution(ctx, req)
	if err != nil {
		return nil, err
	}
	return &workflowRunImpl{workflowID: in.WorkflowID, firstRunID: resp.GetRunId(), client: wc}, nil
}

func (wc *workflowClient) UpdateWorkflow(ctx context.Context, workflowID, runID, updateName string, args ...interface{}) (WorkflowUpdateHandle, error) {
	return wc.interceptor.UpdateWorkflow(ctx, &ClientUpdateWorkflowInput{WorkflowID: workflowID, RunID: runID, UpdateName: updateName, Args: args})
}

func (wc *workflowClient) updateWorkflow(ctx context.Context, in *ClientUpdateWorkflowInput) (WorkflowUpdateHandle, error) {
	input, err := wc.dataConverter.ToPayloads(in.Args...)
	if err != nil {
		return nil, err
	}
	updateID := uuid.New()
	resp, err := wc.bridge.WorkflowService.UpdateWorkflowExecution(ctx, &workflowservice.UpdateWorkflowExecutionRequest{
		Namespace:         wc.namespace,
		WorkflowExecution: &commonpb.WorkflowExecution{WorkflowId: in.WorkflowID, RunId: in.RunID},
		Request: &updatepb.Request{
			Meta: &updatepb.Meta{UpdateId: updateID, Identity: wc.identity},
			Input: &updatepb.Input{
				Name:   in.UpdateName,
				Args:   input,
				Header: getWorkflowHeader(Background(), wc.contextPropagators),
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return &workflowUpdateHandleImpl{
		workflowID: in.WorkflowID,
		runID:      in.RunID,
		updateID:   resp.GetUpdateRef().GetUpdateId(),
		updateName: in.UpdateName,
		client:     wc,
	}, nil
}

func (wc *workflowClient) CancelWorkflow(ctx context.Context, workflowID string, runID string) error {
	return wc.interceptor.CancelWorkflow(ctx, &ClientCancelWorkflowInput{WorkflowID: workflowID, RunID: runID})
}

func (wc *workflowClient) cancelWorkflow(ctx context.Context, in *ClientCancelWorkflowInput) error {
	_, err := wc.bridge.WorkflowService.RequestCancelWorkflowExecution(ctx, &workflowservice.RequestCancelWorkflowExecutionRequest{
		Namespace:         wc.namespace,
		WorkflowExecution: &commonpb.WorkflowExecution{WorkflowId: in.WorkflowID, RunId: in.RunID},
		Identity:          wc.identity,
		RequestId:         uuid.New(),
	})
	return err
}

func (wc *workflowClient) TerminateWorkflow(ctx context.Context, workflowID string, runID string, reason string, details ...interface{}) error {
	return wc.interceptor.TerminateWorkflow(ctx, &ClientTerminateWorkflowInput{WorkflowID: workflowID, RunID: runID, Reason: reason, Details: details})
}

func (wc *workflowClient) terminateWorkflow(ctx context.Context, in *ClientTerminateWorkflowInput) error {
	detailPayloads, err := wc.dataConverter.ToPayloads(in.Details...)
	if err != nil {
		return err
	}
	_, err = wc.bridge.WorkflowService.TerminateWorkflowExecution(ctx, &workflowservice.TerminateWorkflowExecutionRequest{
		Namespace:         wc.namespace,
		WorkflowExecution: &commonpb.WorkflowExecution{WorkflowId: in.WorkflowID, RunId: in.RunID},
		Reason:            in.Reason,
		Details:           detailPayloads,
		Identity:          wc.identity,
	})
	return err
}

func (wc *workflowClient) GetWorkflowHistory(ctx context.Context, workflowID string, runID string, isLongPoll bool, filterType enumspb.HistoryEventFilterType) HistoryEventIterator {
	return wc.interceptor.GetWorkflowHistory(ctx, &ClientGetWorkflowHistoryInput{
		WorkflowID: workflowID, RunID: runID, IsLongPoll: isLongPoll, FilterType: filterType,
	})
}

func (wc *workflowClient) getWorkflowHistory(ctx context.Context, in *ClientGetWorkflowHistoryInput) HistoryEventIterator {
	return &historyEventIteratorImpl{
		ctx:         ctx,
		client:      wc,
		workflowID:  in.WorkflowID,
		runID:       in.RunID,
		isLongPoll:  in.IsLongPoll,
		filterType:  in.FilterType,
		nextPageTok: nil,
		started:     false,
	}
}

func (wc *workflowClient) CompleteActivity(ctx context.Context, taskToken []byte, result interface{}, err error) error {
	return wc.interceptor.CompleteActivity(ctx, &ClientCompleteActivityInput{TaskToken: taskToken, Result: result, Err: err})
}

func (wc *workflowClient) completeActivity(ctx context.Context, in *ClientCompleteActivityInput) error {
	return completeActivity(ctx, wc, in.TaskToken, in.Result, in.Err)
}

func (wc *workflowClient) CompleteActivityByID(ctx context.Context, namespace, workflowID, runID, activityID string, result interface{}, err error) error {
	return wc.interceptor.CompleteActivityByID(ctx, &ClientCompleteActivityByIDInput{
		Namespace: namespace, WorkflowID: workflowID, RunID: runID, ActivityID: activityID, Result: result, Err: err,
	})
}

func (wc *workflowClient) completeActivityByID(ctx context.Context, in *ClientCompleteActivityByIDInput) error {
	return completeActivityByID(ctx, wc, in.Namespace, in.WorkflowID, in.RunID, in.ActivityID, in.Result, in.Err)
}

func (wc *workflowClient) RecordActivityHeartbeat(ctx context.Context, taskToken []byte, details ...interface{}) error {
	return wc.interceptor.RecordActivityHeartbeat(ctx, &ClientRecordActivityHeartbeatInput{TaskToken: taskToken, Details: details})
}

func (wc *workflowClient) recordActivityHeartbeat(ctx context.Context, in *ClientRecordActivityHeartbeatInput) error {
	return recordActivityHeartbeat(ctx, wc, in.TaskToken, in.Details...)
}

func (wc *workflowClient) RecordActivityHeartbeatByID(ctx context.Context, namespace, workflowID, runID, activityID string, details ...interface{}) error {
	return wc.interceptor.RecordActivityHeartbeatByID(ctx, &ClientRecordActivityHeartbeatByIDInput{
		Namespace: namespace, WorkflowID: workflowID, RunID: runID, ActivityID: activityID, Details: details,
	})
}

func (wc *workflowClient) recordActivityHeartbeatByID(ctx context.Context, in *ClientRecordActivityHeartbeatByIDInput) error {
	return recordActivityHeartbeatByID(ctx, wc, in.Namespace, in.WorkflowID, in.RunID, in.ActivityID, in.Details...)
}

func (wc *workflowClient) ListWorkflow(ctx context.Context, request *workflowservice.ListWorkflowExecutionsRequest) (*workflowservice.ListWorkflowExecutionsResponse, error) {
	return wc.interceptor.ListWorkflow(ctx, &ClientListWorkflowInput{Request: request})
}

func (wc *workflowClient) listWorkflow(ctx context.Context, in *ClientListWorkflowInput) (*workflowservice.ListWorkflowExecutionsResponse, error) {
	request := in.Request
	if request.GetNamespace() == "" {
		request.Namespace = wc.namespace
	}
	return wc.bridge.WorkflowService.ListWorkflowExecutions(ctx, request)
}

func (wc *workflowClient) CountWorkflow(ctx context.Context, request *workflowservice.CountWorkflowExecutionsRequest) (*workflowservice.CountWorkflowExecutionsResponse, error) {
	return wc.interceptor.CountWorkflow(ctx, &ClientCountWorkflowInput{Request: request})
}

func (wc *workflowClient) countWorkflow(ctx context.Context, in *ClientCountWorkflowInput) (*workflowservice.CountWorkflowExecutionsResponse, error) {
	request := in.Request
	if request.GetNamespace() == "" {
		request.Namespace = wc.namespace
	}
	return wc.bridge.WorkflowService.CountWorkflowExecutions(ctx, request)
}

func (wc *workflowClient) QueryWorkflow(ctx context.Context, workflowID string, runID string, queryType string, args ...interface{}) (Value, error) {
	return wc.interceptor.QueryWorkflow(ctx, &ClientQueryWorkflowInput{WorkflowID: workflowID, RunID: runID, QueryType: queryType, Args: args})
}

func (wc *workflowClient) queryWorkflow(ctx context.Context, in *ClientQueryWorkflowInput) (Value, error) {
	input, err := wc.dataConverter.ToPayloads(in.Args...)
	if err != nil {
		return nil, err
	}
	resp, err := wc.bridge.WorkflowService.QueryWorkflow(ctx, &workflowservice.QueryWorkflowRequest{
		Namespace: wc.namespace,
		Execution: &commonpb.WorkflowExecution{WorkflowId: in.WorkflowID, RunId: in.RunID},
		Query: &querypb.WorkflowQuery{
			QueryType: in.QueryType,
			QueryArgs: input,
			Header:    getWorkflowHeader(Background(), wc.contextPropagators),
		},
	})
	if err != nil {
		return nil, err
	}
	var payload *commonpb.Payload
	if payloads := resp.GetQueryResult().GetPayloads(); len(payloads) > 0 {
		payload = payloads[0]
	}
	return newEncodedValue(payload, wc.dataConverter), nil
}

func (wc *workflowClient) DescribeWorkflowExecution(ctx context.Context, workflowID, runID string) (*workflowservice.DescribeWorkflowExecutionResponse, error) {
	return wc.interceptor.DescribeWorkflowExecution(ctx, &ClientDescribeWorkflowExecutionInput{WorkflowID: workflowID, RunID: runID})
}

func (wc *workflowClient) describeWorkflowExecution(ctx context.Context, in *ClientDescribeWorkflowExecutionInput) (*workflowservice.DescribeWorkflowExecutionResponse, error) {
	return wc.bridge.WorkflowService.DescribeWorkflowExecution(ctx, &workflowservice.DescribeWorkflowExecutionRequest{
		Namespace: wc.namespace,
		Execution: &commonpb.WorkflowExecution{WorkflowId: in.WorkflowID, RunId: in.RunID},
	})
}

func (wc *workflowClient) DescribeTaskQueue(ctx context.Context, taskQueue string, taskQueueType enumspb.TaskQueueType) (*workflowservice.DescribeTaskQueueResponse, error) {
	return wc.bridge.WorkflowService.DescribeTaskQueue(ctx, &workflowservice.DescribeTaskQueueRequest{
		Namespace:     wc.namespace,
		TaskQueue:     &commonpb.TaskQueue{Name: taskQueue},
		TaskQueueType: taskQueueType,
	})
}

func (wc *workflowClient) ScheduleClient() ScheduleClient {
	return newScheduleClient(wc)
}

func (wc *workflowClient) Close() {
	if wc.connection != nil {
		_ = wc.connection.Close()
	}
}

func (r *workflowRunImpl) GetID() string    { return r.workflowID }
func (r *workflowRunImpl) GetRunID() string { return r.firstRunID }

func (r *workflowRunImpl) Get(ctx context.Context, valuePtr interface{}) error {
	runID := r.firstRunID
	for {
		iter := r.client.GetWorkflowHistory(ctx, r.workflowID, runID, true, enumspb.HISTORY_EVENT_FILTER_TYPE_CLOSE_EVENT)
		if !iter.HasNext() {
			return fmt.Errorf("no close event found for workflow %s", r.workflowID)
		}
		event, err := iter.Next()
		if err != nil {
			return err
		}
		if attrs, ok := event.GetAttributes().(*historypb.HistoryEvent_WorkflowExecutionContinuedAsNewEventAttributes); ok {
			runID = attrs.WorkflowExecutionContinuedAsNewEventAttributes.GetNewExecutionRunId()
			continue
		}
		err = extractWorkflowResult(event, r.client.dataConverter, valuePtr)
		if _, completed := event.GetAttributes().(*historypb.HistoryEvent_WorkflowExecutionCompletedEventAttributes); err != nil && !completed {
			return NewWorkflowExecutionError(r.workflowID, runID, "", err)
		}
		return err
	}
}

func extractWorkflowResult(event *historypb.HistoryEvent, dc DataConverter, valuePtr interface{}) error {
	switch attrs := event.GetAttributes().(type) {
	case *historypb.HistoryEvent_WorkflowExecutionCompletedEventAttributes:
		if valuePtr == nil {
			return nil
		}
		return dc.FromPayloads(attrs.WorkflowExecutionCompletedEventAttributes.GetResult(), valuePtr)
	case *historypb.HistoryEvent_WorkflowExecutionFailedEventAttributes:
		return convertFailureToError(attrs.WorkflowExecutionFailedEventAttributes.GetFailure(), dc)
	case *historypb.HistoryEvent_WorkflowExecutionCanceledEventAttributes:
		return NewCanceledError()
	case *historypb.HistoryEvent_WorkflowExecutionTerminatedEventAttributes:
		return fmt.Errorf("workflow terminated: %s", attrs.WorkflowExecutionTerminatedEventAttributes.GetReason())
	case *historypb.HistoryEvent_WorkflowExecutionTimedOutEventAttributes:
		return NewTimeoutError(enumspb.TIMEOUT_TYPE_START_TO_CLOSE, nil)
	case *historypb.HistoryEvent_WorkflowExecutionContinuedAsNewEventAttributes:
		return fmt.Errorf("workflow continued as new to run %s", attrs.WorkflowExecutionContinuedAsNewEventAttributes.GetNewExecutionRunId())
	default:
		return fmt.Errorf("unexpected close event type %T", attrs)
	}
}

func (p WorkflowIDReusePolicy) toProto() enumspb.WorkflowIdReusePolicy {
	switch p {
	case WorkflowIDReusePolicyAllowDuplicate:
		return enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE
	case WorkflowIDReusePolicyAllowDuplicateFailedOnly:
		return enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY
	case WorkflowIDReusePolicyRejectDuplicate:
		return enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE
	default:
		panic(fmt.Sprintf("unknown workflow id reuse policy %v", p))
	}
}

func (rp *RetryPolicy) toProto() *commonpb.RetryPolicy {
	if rp == nil {
		return nil
	}
	return &commonpb.RetryPolicy{
		InitialInterval:        durationToProto(rp.InitialInterval),
		BackoffCoefficient:     rp.BackoffCoefficient,
		MaximumInterval:        durationToProto(rp.MaximumInterval),
		MaximumAttempts:        rp.MaximumAttempts,
		NonRetryableErrorTypes: rp.NonRetryableErrorTypes,
	}
}

func taskqueueFromName(name string) *commonpb.TaskQueue {
	return &commonpb.TaskQueue{Name: name, Kind: enumspb.TASK_QUEUE_KIND_NORMAL}
}

func durationToProto(d time.Duration) *durationpb.Duration {
	if d == 0 {
		return nil
	}
	return durationpb.New(d)
}

func encodeMemo(dc DataConverter, memo map[string]interface{}) *commonpb.Memo {
	if len(memo) == 0 {
		return nil
	}
	fields := make(map[string]*commonpb.Payload, len(memo))
	for k, v := range memo {
		p, err := dc.ToPayload(v)
		if err != nil {
			continue
		}
		fields[k] = p
	}
	return &commonpb.Memo{Fields: fields}
}

func encodeSearchAttributes(dc DataConverter, attrs map[string]interface{}) *commonpb.SearchAttributes {
	if len(attrs) == 0 {
		return nil
	}
	fields := make(map[string]*commonpb.Payload, len(attrs))
	for k, v := range attrs {
		p, err := dc.ToPayload(v)
		if err != nil {
			continue
		}
		fields[k] = p
	}
	return &commonpb.SearchAttributes{IndexedFields: fields}
}

// buildClientInterceptorChain composes interceptors outermost-first around wc's own
// RPC implementations, mirroring the command state machine's chain-of-responsibility
// composition.
func buildClientInterceptorChain(interceptors []ClientInterceptor, wc *workflowClient) ClientOutboundInterceptor {
	root := ClientOutboundInterceptor(&clientOutboundInterceptorBase{wc: wc})
	for i := len(interceptors) - 1; i >= 0; i-- {
		root = interceptors[i].InterceptClient(root)
	}
	return root
}

// ClientOutboundInterceptorBase is embedded by a ClientInterceptor's returned link to
// get every method's default "pass through to Next" behavior for free; the embedder
// overrides only the calls it actually wants to observe or modify.
type ClientOutboundInterceptorBase struct {
	Next ClientOutboundInterceptor
}

func (b ClientOutboundInterceptorBase) ExecuteWorkflow(ctx context.Context, in *ClientExecuteWorkflowInput) (WorkflowRun, error) {
	return b.Next.ExecuteWorkflow(ctx, in)
}
func (b ClientOutboundInterceptorBase) SignalWorkflow(ctx context.Context, in *ClientSignalWorkflowInput) error {
	return b.Next.SignalWorkflow(ctx, in)
}
func (b ClientOutboundInterceptorBase) SignalWithStartWorkflow(ctx context.Context, in *ClientSignalWithStartWorkflowInput) (WorkflowRun, error) {
	return b.Next.SignalWithStartWorkflow(ctx, in)
}
func (b ClientOutboundInterceptorBase) CancelWorkflow(ctx context.Context, in *ClientCancelWorkflowInput) error {
	return b.Next.CancelWorkflow(ctx, in)
}
func (b ClientOutboundInterceptorBase) TerminateWorkflow(ctx context.Context, in *ClientTerminateWorkflowInput) error {
	return b.Next.TerminateWorkflow(ctx, in)
}
func (b ClientOutboundInterceptorBase) QueryWorkflow(ctx context.Context, in *ClientQueryWorkflowInput) (Value, error) {
	return b.Next.QueryWorkflow(ctx, in)
}
func (b ClientOutboundInterceptorBase) UpdateWorkflow(ctx context.Context, in *ClientUpdateWorkflowInput) (WorkflowUpdateHandle, error) {
	return b.Next.UpdateWorkflow(ctx, in)
}
func (b ClientOutboundInterceptorBase) DescribeWorkflowExecution(ctx context.Context, in *ClientDescribeWorkflowExecutionInput) (*workflowservice.DescribeWorkflowExecutionResponse, error) {
	return b.Next.DescribeWorkflowExecution(ctx, in)
}
func (b ClientOutboundInterceptorBase) GetWorkflowHistory(ctx context.Context, in *ClientGetWorkflowHistoryInput) HistoryEventIterator {
	return b.Next.GetWorkflowHistory(ctx, in)
}
func (b ClientOutboundInterceptorBase) ListWorkflow(ctx context.Context, in *ClientListWorkflowInput) (*workflowservice.ListWorkflowExecutionsResponse, error) {
	return b.Next.ListWorkflow(ctx, in)
}
func (b ClientOutboundInterceptorBase) CountWorkflow(ctx context.Context, in *ClientCountWorkflowInput) (*workflowservice.CountWorkflowExecutionsResponse, error) {
	return b.Next.CountWorkflow(ctx, in)
}
func (b ClientOutboundInterceptorBase) CompleteActivity(ctx context.Context, in *ClientCompleteActivityInput) error {
	return b.Next.CompleteActivity(ctx, in)
}
func (b ClientOutboundInterceptorBase) CompleteActivityByID(ctx context.Context, in *ClientCompleteActivityByIDInput) error {
	return b.Next.CompleteActivityByID(ctx, in)
}
func (b ClientOutboundInterceptorBase) RecordActivityHeartbeat(ctx context.Context, in *ClientRecordActivityHeartbeatInput) error {
	return b.Next.RecordActivityHeartbeat(ctx, in)
}
func (b ClientOutboundInterceptorBase) RecordActivityHeartbeatByID(ctx context.Context, in *ClientRecordActivityHeartbeatByIDInput) error {
	return b.Next.RecordActivityHeartbeatByID(ctx, in)
}
func (b ClientOutboundInterceptorBase) CreateSchedule(ctx context.Context, in *ClientCreateScheduleInput) (ScheduleHandle, error) {
	return b.Next.CreateSchedule(ctx, in)
}
func (b ClientOutboundInterceptorBase) DescribeSchedule(ctx context.Context, in *ClientDescribeScheduleInput) (*workflowservice.DescribeScheduleResponse, error) {
	return b.Next.DescribeSchedule(ctx, in)
}
func (b ClientOutboundInterceptorBase) UpdateSchedule(ctx context.Context, in *ClientUpdateScheduleInput) error {
	return b.Next.UpdateSchedule(ctx, in)
}
func (b ClientOutboundInterceptorBase) PatchSchedule(ctx context.Context, in *ClientPatchScheduleInput) error {
	return b.Next.PatchSchedule(ctx, in)
}
func (b ClientOutboundInterceptorBase) ListSchedules(ctx context.Context, in *ClientListSchedulesInput) ([]*schedulepb.ScheduleListEntry, error) {
	return b.Next.ListSchedules(ctx, in)
}
func (b ClientOutboundInterceptorBase) DeleteSchedule(ctx context.Context, in *ClientDeleteScheduleInput) error {
	return b.Next.DeleteSchedule(ctx, in)
}

// clientOutboundInterceptorBase is the innermost link: it performs the actual RPCs.
type clientOutboundInterceptorBase struct {
	wc *workflowClient
}

func (b *clientOutboundInterceptorBase) ExecuteWorkflow(ctx context.Context, in *ClientExecuteWorkflowInput) (WorkflowRun, error) {
	return b.wc.executeWorkflow(ctx, in)
}
func (b *clientOutboundInterceptorBase) SignalWorkflow(ctx context.Context, in *ClientSignalWorkflowInput) error {
	return b.wc.signalWorkflow(ctx, in)
}
func (b *clientOutboundInterceptorBase) SignalWithStartWorkflow(ctx context.Context, in *ClientSignalWithStartWorkflowInput) (WorkflowRun, error) {
	return b.wc.signalWithStartWorkflow(ctx, in)
}
func (b *clientOutboundInterceptorBase) CancelWorkflow(ctx context.Context, in *ClientCancelWorkflowInput) error {
	return b.wc.cancelWorkflow(ctx, in)
}
func (b *clientOutboundInterceptorBase) TerminateWorkflow(ctx context.Context, in *ClientTerminateWorkflowInput) error {
	return b.wc.terminateWorkflow(ctx, in)
}
func (b *clientOutboundInterceptorBase) QueryWorkflow(ctx context.Context, in *ClientQueryWorkflowInput) (Value, error) {
	return b.wc.queryWorkflow(ctx, in)
}
func (b *clientOutboundInterceptorBase) UpdateWorkflow(ctx context.Context, in *ClientUpdateWorkflowInput) (WorkflowUpdateHandle, error) {
	return b.wc.updateWorkflow(ctx, in)
}
func (b *clientOutboundInterceptorBase) DescribeWorkflowExecution(ctx context.Context, in *ClientDescribeWorkflowExecutionInput) (*workflowservice.DescribeWorkflowExecutionResponse, error) {
	return b.wc.describeWorkflowExecution(ctx, in)
}
func (b *clientOutboundInterceptorBase) GetWorkflowHistory(ctx context.Context, in *ClientGetWorkflowHistoryInput) HistoryEventIterator {
	return b.wc.getWorkflowHistory(ctx, in)
}
func (b *clientOutboundInterceptorBase) ListWorkflow(ctx context.Context, in *ClientListWorkflowInput) (*workflowservice.ListWorkflowExecutionsResponse, error) {
	return b.wc.listWorkflow(ctx, in)
}
func (b *clientOutboundInterceptorBase) CountWorkflow(ctx context.Context, in *ClientCountWorkflowInput) (*workflowservice.CountWorkflowExecutionsResponse, error) {
	return b.wc.countWorkflow(ctx, in)
}
func (b *clientOutboundInterceptorBase) CompleteActivity(ctx context.Context, in *ClientCompleteActivityInput) error {
	return b.wc.completeActivity(ctx, in)
}
func (b *clientOutboundInterceptorBase) CompleteActivityByID(ctx context.Context, in *ClientCompleteActivityByIDInput) error {
	return b.wc.completeActivityByID(ctx, in)
}
func (b *clientOutboundInterceptorBase) RecordActivityHeartbeat(ctx context.Context, in *ClientRecordActivityHeartbeatInput) error {
	return b.wc.recordActivityHeartbeat(ctx, in)
}
func (b *clientOutboundInterceptorBase) RecordActivityHeartbeatByID(ctx context.Context, in *ClientRecordActivityHeartbeatByIDInput) error {
	return b.wc.recordActivityHeartbeatByID(ctx, in)
}
func (b *clientOutboundInterceptorBase) CreateSchedule(ctx context.Context, in *ClientCreateScheduleInput) (ScheduleHandle, error) {
	return b.wc.createSchedule(ctx, in)
}
func (b *clientOutboundInterceptorBase) DescribeSchedule(ctx context.Context, in *ClientDescribeScheduleInput) (*workflowservice.DescribeScheduleResponse, error) {
	return b.wc.describeSchedule(ctx, in)
}
func (b *clientOutboundInterceptorBase) UpdateSchedule(ctx context.Context, in *ClientUpdateScheduleInput) error {
	return b.wc.updateSchedule(ctx, in)
}
func (b *clientOutboundInterceptorBase) PatchSchedule(ctx context.Context, in *ClientPatchScheduleInput) error {
	return b.wc.patchSchedule(ctx, in)
}
func (b *clientOutboundInterceptorBase) ListSchedules(ctx context.Context, in *ClientListSchedulesInput) ([]*schedulepb.ScheduleListEntry, error) {
	return b.wc.listSchedules(ctx, in)
}
func (b *clientOutboundInterceptorBase) DeleteSchedule(ctx context.Context, in *ClientDeleteScheduleInput) error {
	return b.wc.deleteSchedule(ctx, in)
}
