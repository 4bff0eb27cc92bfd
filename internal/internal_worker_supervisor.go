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
	"runtime/debug"
	"sync"
	"time"

	"github.com/uber-go/tally"

	commandpb "go.temporal.io/api/command/v1"
	commonpb "go.temporal.io/api/common/v1"
	enumspb "go.temporal.io/api/enums/v1"
	historypb "go.temporal.io/api/history/v1"
	querypb "go.temporal.io/api/query/v1"
	"go.temporal.io/api/workflowservice/v1"

	"go.temporal.io/sdk-core/internal/bridge"
	"go.temporal.io/sdk-core/internal/log"
)

// supervisorState is the AggregatedWorker lifecycle: New -> Starting -> Running, then
// initiateShutdown (Running -> Draining -> Finalizing -> Terminated).
type supervisorState int32

const (
	supervisorStateNew supervisorState = iota
	supervisorStateStarting
	supervisorStateRunning
	supervisorStateDraining
	supervisorStateFinalizing
	supervisorStateTerminated
)

func (s supervisorState) String() string {
	switch s {
	case supervisorStateNew:
		return "New"
	case supervisorStateStarting:
		return "Starting"
	case supervisorStateRunning:
		return "Running"
	case supervisorStateDraining:
		return "Draining"
	case supervisorStateFinalizing:
		return "Finalizing"
	case supervisorStateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// VersioningStrategy selects how this worker identifies itself to the server for
// worker-versioning purposes.
type VersioningStrategy int

const (
	// VersioningStrategyNone sends no build ID; the worker is eligible for every task
	// regardless of any deployment or build-ID based versioning rules.
	VersioningStrategyNone VersioningStrategy = iota
	// VersioningStrategyDeploymentBased binds the worker to a deployment name/build ID
	// pair, opting into server-managed deployment versioning.
	VersioningStrategyDeploymentBased
	// VersioningStrategyLegacyBuildIDBased binds a bare build ID using the older
	// per-task-queue compatible-build-ID chains rather than deployments.
	VersioningStrategyLegacyBuildIDBased
)

// WorkerOptions configures one AggregatedWorker: slot sizing, poller behavior,
// versioning, and the ambient logging/metrics/data-conversion stack every other
// component in this package already takes as options.
type WorkerOptions struct {
	Identity      string
	DataConverter DataConverter
	Logger        log.Logger
	MetricsScope  tally.Scope

	MaxConcurrentWorkflowTaskExecutionSize  int
	MaxConcurrentActivityExecutionSize      int
	MaxConcurrentLocalActivityExecutionSize int

	WorkflowTaskPollerBehavior PollerBehavior
	ActivityTaskPollerBehavior PollerBehavior

	MaxActivitiesPerSecond         float64
	MaxTaskQueueActivitiesPerSecond float64

	StickyScheduleToStartTimeout time.Duration
	StickyCacheSize              int

	NoRemoteActivities bool
	EnableNexus        bool

	VersioningStrategy VersioningStrategy
	BuildID            string
	DeploymentName     string

	GracefulShutdownPeriod time.Duration

	// NonDeterministicWorkflowPolicy is the default applied to every workflow type this
	// worker runs when a replaying instance emits a command that disagrees with history.
	// NonDeterministicWorkflowPolicyOverrides replaces it for individual workflow types.
	NonDeterministicWorkflowPolicy          NonDeterministicWorkflowPolicy
	NonDeterministicWorkflowPolicyOverrides map[string]NonDeterministicWorkflowPolicy

	ContextPropagators []ContextPropagator

	// Interceptors wraps every workflow task and activity task this worker executes,
	// outermost interceptor first.
	Interceptors []WorkerInterceptor
}

const (
	defaultWorkflowTaskPollers = 2
	defaultActivityTaskPollers = 2
)

// AggregatedWorker owns everything one worker process needs for one task queue: the
// slot pools, the workflow engine and activity handler it dispatches into, and the
// three poll-loop families (workflow, activity, nexus) that keep those dispatchers
// fed. Exactly one AggregatedWorker exists per (client, task queue) pair.
type AggregatedWorker struct {
	mu    sync.Mutex
	state supervisorState

	client    *bridge.Client
	taskQueue string
	registry  *registry
	options   WorkerOptions

	slots  *slotManager
	engine *engine

	activityHandler      *activityTaskHandler
	activityRateLimiters *activityRateLimiters

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewAggregatedWorker builds a worker sharing client's connection and registry, bound
// to taskQueue and ready to Run once Register* calls have populated its workflows and
// activities. client must be the concrete type Dial returns; passing a fake built for
// testing (anything other than *workflowClient) is rejected, since a worker always
// needs the real bridge connection and registry Dial wires together.
func NewAggregatedWorker(client Client, taskQueue string, options WorkerOptions) (*AggregatedWorker, error) {
	wc, ok := client.(*workflowClient)
	if !ok {
		return nil, fmt.Errorf("worker requires a Client returned by Dial, got %T", client)
	}
	if options.Identity == "" {
		options.Identity = wc.identity
	}
	if options.DataConverter == nil {
		options.DataConverter = wc.dataConverter
	}
	if options.MetricsScope == nil {
		options.MetricsScope = wc.metricsScope
	}
	if options.ContextPropagators == nil {
		options.ContextPropagators = wc.contextPropagators
	}
	return newAggregatedWorker(wc.bridge, taskQueue, wc.registry, options), nil
}

// newAggregatedWorker builds a worker bound to taskQueue, ready to Run. No poll loop
// starts until Run is called.
func newAggregatedWorker(client *bridge.Client, taskQueue string, r *registry, options WorkerOptions) *AggregatedWorker {
	if options.Logger == nil {
		options.Logger = log.NewDefaultLogger()
	}
	if options.MetricsScope == nil {
		options.MetricsScope = tally.NoopScope
	}
	if options.DataConverter == nil {
		options.DataConverter = getDefaultDataConverter()
	}

	w := &AggregatedWorker{
		state:     supervisorStateNew,
		client:    client,
		taskQueue: taskQueue,
		registry:  r,
		options:   options,
		stopCh:    make(chan struct{}),
	}

	w.slots = newSlotManager(slotManagerOptions{
		MaxConcurrentWorkflowTaskExecutionSize:  options.MaxConcurrentWorkflowTaskExecutionSize,
		MaxConcurrentActivityExecutionSize:      options.MaxConcurrentActivityExecutionSize,
		MaxConcurrentLocalActivityExecutionSize: options.MaxConcurrentLocalActivityExecutionSize,
	})

	w.engine = newEngine(engineOptions{
		Registry:                        r,
		DataConverter:                   options.DataConverter,
		ContextPropagators:              options.ContextPropagators,
		Logger:                          options.Logger,
		MetricsScope:                    options.MetricsScope,
		StickyCacheSize:                 options.StickyCacheSize,
		NonDeterministicPolicy:          options.NonDeterministicWorkflowPolicy,
		NonDeterministicPolicyOverrides: options.NonDeterministicWorkflowPolicyOverrides,
		WorkerInterceptors:              options.Interceptors,
	})

	w.activityRateLimiters = newActivityRateLimiters(options.MaxActivitiesPerSecond, options.MaxTaskQueueActivitiesPerSecond)
	w.activityHandler = newActivityTaskHandler(r, options.DataConverter, options.Logger, options.MetricsScope, options.Identity,
		w.stopCh, w.recordActivityHeartbeat, options.Interceptors)

	return w
}

// RegisterWorkflow registers fn under its function name. Must be called before Run.
func (w *AggregatedWorker) RegisterWorkflow(fn interface{}) {
	w.registry.RegisterWorkflow(fn)
}

// RegisterWorkflowWithOptions registers fn under a caller-chosen wire name.
func (w *AggregatedWorker) RegisterWorkflowWithOptions(fn interface{}, opts RegisterWorkflowOptions) {
	w.registry.RegisterWorkflowWithOptions(fn, opts)
}

// RegisterActivity registers fn under its function name. Must be called before Run.
func (w *AggregatedWorker) RegisterActivity(fn interface{}) {
	w.registry.RegisterActivity(fn)
}

// RegisterActivityWithOptions registers fn under a caller-chosen wire name.
func (w *AggregatedWorker) RegisterActivityWithOptions(fn interface{}, opts RegisterActivityOptions) {
	w.registry.RegisterActivityWithOptions(fn, opts)
}

// resolveVersioning returns the worker-version-stamp metadata this worker's poll
// requests should carry, per the configured VersioningStrategy. None carries nothing,
// so the server applies no build-ID-based eligibility filtering to this worker.
func (w *AggregatedWorker) resolveVersioning() (buildID string, useDeployment bool) {
	switch w.options.VersioningStrategy {
	case VersioningStrategyDeploymentBased:
		return w.options.BuildID, true
	case VersioningStrategyLegacyBuildIDBased:
		return w.options.BuildID, false
	default:
		return "", false
	}
}

func (w *AggregatedWorker) transition(to supervisorState) {
	w.mu.Lock()
	w.state = to
	w.mu.Unlock()
	w.options.Logger.Debug("worker state transition", "taskQueue", w.taskQueue, "state", to.String())
}

func (w *AggregatedWorker) State() supervisorState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Run starts all poll-loop families and blocks until Stop drains them; poll errors
// are swallowed and never end Run. Run is idempotent only in the sense that calling Stop more than once is
// safe; calling Run twice on the same worker is not supported.
func (w *AggregatedWorker) Run() error {
	w.transition(supervisorStateStarting)

	buildID, useDeployment := w.resolveVersioning()
	if buildID != "" {
		w.options.Logger.Info("worker versioning resolved", "buildID", buildID, "deploymentBased", useDeployment)
	}

	w.transition(supervisorStateRunning)

	if !w.options.NoRemoteActivities {
		w.startPollerFamily("activity", w.options.ActivityTaskPollerBehavior, defaultActivityTaskPollers, w.pollAndDispatchActivity)
	}
	w.startPollerFamily("workflow", w.options.WorkflowTaskPollerBehavior, defaultWorkflowTaskPollers, w.pollAndDispatchWorkflow)
	if w.options.EnableNexus {
		w.startPollerFamily("nexus", nil, 1, w.pollAndDispatchNexus)
	} else {
		// A no-op sink still runs so State()/metrics observers see all three poll
		// families present, matching the spec's "nexus polls a no-op sink if not
		// enabled" requirement, without ever issuing a real PollNexusTaskQueue call.
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			<-w.stopCh
		}()
	}

	w.wg.Wait()
	w.transition(supervisorStateTerminated)
	return nil
}

// pollerCount resolves a PollerBehavior to a poll-loop count; autoscaling uses its
// Initial value, simple_maximum its maximum. The count does not change after start.
func pollerCount(behavior PollerBehavior, fallback int) int {
	switch b := behavior.(type) {
	case PollerBehaviorSimpleMaximum:
		if b.MaxConcurrentTaskPollers > 0 {
			return b.MaxConcurrentTaskPollers
		}
	case PollerBehaviorAutoscaling:
		if b.Initial > 0 {
			return b.Initial
		}
	}
	return fallback
}

func (w *AggregatedWorker) startPollerFamily(name string, behavior PollerBehavior, fallback int, loop func()) {
	n := pollerCount(behavior, fallback)
	for i := 0; i < n; i++ {
		w.wg.Add(1)
		go func(idx int) {
			defer w.wg.Done()
			w.options.Logger.Debug("poller starting", "family", name, "index", idx)
			for {
				select {
				case <-w.stopCh:
					return
				default:
				}
				if w.State() != supervisorStateRunning {
					return
				}
				w.runPollIteration(name, loop)
			}
		}(i)
	}
}

// runPollIteration runs one poll/dispatch iteration with a recover guard, so a panic
// surfacing from a single malformed task (a state-machine mismatch that escaped the
// engine's own recovery, a bug in a registered workflow or activity function) takes
// down only the in-flight task rather than this poller goroutine and, if it were the
// last one standing, the whole worker process.
func (w *AggregatedWorker) runPollIteration(name string, loop func()) {
	defer func() {
		if r := recover(); r != nil {
			w.options.Logger.Error("recovered panic in poller", "family", name, "panic", fmt.Sprintf("%v", r), "stack", string(debug.Stack()))
		}
	}()
	loop()
}

// pollAndDispatchWorkflow performs one long-poll for a workflow task, translates the
// response into a WorkflowActivation, routes it through the engine, and writes the
// resulting commands back. Any poll-level error (including a context-deadline
// timeout, the server's own long-poll idle signal) is swallowed so the loop just
// polls again; only a malformed response or a dispatch error is logged.
func (w *AggregatedWorker) pollAndDispatchWorkflow() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := w.slots.poolFor(slotKindWorkflow).Acquire(ctx); err != nil {
		return
	}
	released := false
	release := func() {
		if !released {
			released = true
			w.slots.poolFor(slotKindWorkflow).Release()
		}
	}
	defer release()

	resp, err := w.client.WorkflowService.PollWorkflowTaskQueue(ctx, &workflowservice.PollWorkflowTaskQueueRequest{
		Namespace: "",
		TaskQueue: taskqueueFromName(w.taskQueue),
		Identity:  w.options.Identity,
	})
	if err != nil || resp == nil || len(resp.GetTaskToken()) == 0 {
		return
	}
	release()

	act, err := w.translateWorkflowTask(resp)
	if err != nil {
		w.options.Logger.Error("failed to translate workflow task", "error", err)
		return
	}

	completion, err := w.engine.ProcessActivation(act)
	if err != nil {
		w.options.Logger.Error("failed to process workflow activation", "error", err, "runID", act.WorkflowExecution.RunID)
		return
	}
	if completion.Failed != nil && len(completion.Commands) == 0 {
		// A Block-policy non-determinism failure (or a recovered command state-machine
		// panic) fails only this task: deliberately not responding lets it time out and
		// retry, rather than completing the workflow task with nothing useful in it.
		w.options.Logger.Error("workflow task failed", "error", completion.Failed, "runID", act.WorkflowExecution.RunID)
		return
	}

	req := &workflowservice.RespondWorkflowTaskCompletedRequest{
		TaskToken: resp.GetTaskToken(),
		Commands:  completion.Commands,
		Identity:  w.options.Identity,
	}
	if len(completion.QueryResults) > 0 {
		req.QueryResults = make(map[string]*querypb.WorkflowQueryResult, len(completion.QueryResults))
		for id, qr := range completion.QueryResults {
			req.QueryResults[id] = convertQueryResult(qr)
		}
	}
	if _, err := w.client.WorkflowService.RespondWorkflowTaskCompleted(ctx, req); err != nil {
		w.options.Logger.Error("failed to respond workflow task completed", "error", err)
	}
}

// pollAndDispatchActivity performs one long-poll for an activity task and executes it
// synchronously within this poller goroutine, bounded by the activity slot pool.
func (w *AggregatedWorker) pollAndDispatchActivity() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := w.activityRateLimiters.Wait(ctx); err != nil {
		return
	}
	if err := w.slots.poolFor(slotKindActivity).Acquire(ctx); err != nil {
		return
	}
	defer w.slots.poolFor(slotKindActivity).Release()

	resp, err := w.client.WorkflowService.PollActivityTaskQueue(ctx, &workflowservice.PollActivityTaskQueueRequest{
		Namespace: "",
		TaskQueue: taskqueueFromName(w.taskQueue),
		Identity:  w.options.Identity,
	})
	if err != nil || resp == nil || len(resp.GetTaskToken()) == 0 {
		return
	}

	response := w.activityHandler.Execute(ctx, resp)
	if response == nil {
		return
	}
	switch r := response.(type) {
	case *workflowservice.RespondActivityTaskCompletedRequest:
		if _, err := w.client.WorkflowService.RespondActivityTaskCompleted(ctx, r); err != nil {
			w.options.Logger.Error("failed to respond activity task completed", "error", err)
		}
	case *workflowservice.RespondActivityTaskFailedRequest:
		if _, err := w.client.WorkflowService.RespondActivityTaskFailed(ctx, r); err != nil {
			w.options.Logger.Error("failed to respond activity task failed", "error", err)
		}
	}
}

// pollAndDispatchNexus is the iteration of the nexus poller family when EnableNexus is
// set; otherwise the worker runs the no-op sink goroutine in Run instead of calling
// this at all. It issues no PollNexusTaskQueue call and dispatches nothing.
func (w *AggregatedWorker) pollAndDispatchNexus() {
	// Each iteration waits one second, or until stop, so the loop does not spin.
	select {
	case <-w.stopCh:
	case <-time.After(time.Second):
	}
}

// recordActivityHeartbeat is activityTaskHandler's heartbeatFunc: it reports progress
// for the task identified by taskToken and surfaces a server-requested cancellation as
// a *CanceledError, the same translation workflowClient's recordActivityHeartbeat
// applies on the client-facing RecordActivityHeartbeat path.
func (w *AggregatedWorker) recordActivityHeartbeat(ctx context.Context, taskToken []byte, details ...interface{}) error {
	data, err := w.options.DataConverter.ToPayloads(details...)
	if err != nil {
		return err
	}
	resp, err := w.client.WorkflowService.RecordActivityTaskHeartbeat(ctx, &workflowservice.RecordActivityTaskHeartbeatRequest{
		TaskToken: taskToken,
		Identity:  w.options.Identity,
		Details:   data,
	})
	if err != nil {
		return err
	}
	if resp.GetCancelRequested() {
		return NewCanceledError()
	}
	return nil
}

// convertQueryResult translates one engine QueryResult into the wire
// WorkflowQueryResult the server expects back on RespondWorkflowTaskCompleted.
func convertQueryResult(qr QueryResult) *querypb.WorkflowQueryResult {
	if qr.Succeeded {
		var answer *commonpb.Payloads
		if qr.Payload != nil {
			answer = &commonpb.Payloads{Payloads: []*commonpb.Payload{qr.Payload}}
		}
		return &querypb.WorkflowQueryResult{
			ResultType: enumspb.QUERY_RESULT_TYPE_ANSWERED,
			Answer:     answer,
		}
	}
	msg := ""
	if qr.Failure != nil {
		msg = qr.Failure.Error()
	}
	return &querypb.WorkflowQueryResult{
		ResultType:   enumspb.QUERY_RESULT_TYPE_FAILED,
		ErrorMessage: msg,
	}
}

// translateWorkflowTask converts one polled workflow task into the activation jobs
// the engine understands. Jobs are derived from every history event the poll
// response carries, in order; events are not filtered by
// resp.GetPreviousStartedEventId(), which only sets IsReplaying.
//
// Not yet covered, scoped out rather than silently dropped: child-workflow resolution
// events (StartChildWorkflowExecutionInitiated/Failed, ChildWorkflowExecution*) and
// update wire events (WorkflowExecutionUpdateAccepted/Completed) — a workflow using
// child workflows or updates driven by a real server round trip will not resolve
// those jobs until a translator case is added for them.
func (w *AggregatedWorker) translateWorkflowTask(resp *workflowservice.PollWorkflowTaskQueueResponse) (*WorkflowActivation, error) {
	act := &WorkflowActivation{
		WorkflowExecution: WorkflowExecution{
			ID:    resp.GetWorkflowExecution().GetWorkflowId(),
			RunID: resp.GetWorkflowExecution().GetRunId(),
		},
		Timestamp:      time.Now(),
		IsReplaying:    resp.GetPreviousStartedEventId() > 0,
		StartedEventID: resp.GetStartedEventId(),
	}

	for _, event := range resp.GetHistory().GetEvents() {
		job, cmdType, err := w.translateHistoryEvent(event)
		if err != nil {
			return nil, err
		}
		if job != nil {
			act.Jobs = append(act.Jobs, *job)
		}
		if cmdType != nil {
			act.HistoryCommands = append(act.HistoryCommands, *cmdType)
		}
	}

	if q := resp.GetQuery(); q != nil {
		act.Jobs = append(act.Jobs, WorkflowActivationJob{
			Kind:      jobKindQueryWorkflow,
			QueryType: q.GetQueryType(),
			QueryArgs: q.GetQueryArgs(),
		})
	}
	for id, q := range resp.GetQueries() {
		act.Jobs = append(act.Jobs, WorkflowActivationJob{
			Kind:      jobKindQueryWorkflow,
			QueryID:   id,
			QueryType: q.GetQueryType(),
			QueryArgs: q.GetQueryArgs(),
		})
	}

	// An activation the history events carried nothing new for (a heartbeat-only
	// workflow task, or one whose only new event was WorkflowTaskScheduled/Started
	// themselves) still goes through ProcessActivation with an empty job list, so any
	// already-scheduled commands the instance owes the server get re-sent.
	return act, nil
}

// translateHistoryEvent converts a single history event into its WorkflowActivationJob
// and, for command-echoing events, the command type the server recorded at that point
// in history (ActivityTaskScheduled, TimerStarted, and similar — events that exist only
// because some earlier attempt at this workflow task emitted a command, not because
// anything needs resolving now). checkNonDeterminism compares a replaying instance's
// freshly emitted commands against this sequence, so an event kind can return a non-nil
// job, a non-nil command type, both, or neither.
func (w *AggregatedWorker) translateHistoryEvent(event *historypb.HistoryEvent) (*WorkflowActivationJob, *commandpb.CommandType, error) {
	switch attrs := event.GetAttributes().(type) {
	case *historypb.HistoryEvent_WorkflowExecutionStartedEventAttributes:
		a := attrs.WorkflowExecutionStartedEventAttributes
		return &WorkflowActivationJob{
			Kind: jobKindInitializeWorkflow,
			StartAttributes: &ExecuteWorkflowParams{
				WorkflowOptions: WorkflowOptions{
					TaskQueueName:            a.GetTaskQueue().GetName(),
					WorkflowExecutionTimeout: a.GetWorkflowExecutionTimeout().AsDuration(),
					WorkflowRunTimeout:       a.GetWorkflowRunTimeout().AsDuration(),
					WorkflowTaskTimeout:      a.GetWorkflowTaskTimeout().AsDuration(),
					CronSchedule:             a.GetCronSchedule(),
				},
				WorkflowType: &WorkflowType{Name: a.GetWorkflowType().GetName()},
				Input:        a.GetInput(),
				Header:       a.GetHeader(),
			},
		}, nil, nil

	case *historypb.HistoryEvent_WorkflowExecutionSignaledEventAttributes:
		a := attrs.WorkflowExecutionSignaledEventAttributes
		return &WorkflowActivationJob{
			Kind:        jobKindSignalWorkflow,
			SignalName:  a.GetSignalName(),
			SignalInput: a.GetInput(),
		}, nil, nil

	case *historypb.HistoryEvent_WorkflowExecutionCancelRequestedEventAttributes:
		return &WorkflowActivationJob{Kind: jobKindCancelWorkflow}, nil, nil

	case *historypb.HistoryEvent_ActivityTaskCompletedEventAttributes:
		a := attrs.ActivityTaskCompletedEventAttributes
		return &WorkflowActivationJob{
			Kind:   jobKindResolveActivity,
			SeqID:  a.GetScheduledEventId(),
			Result: a.GetResult(),
		}, nil, nil

	case *historypb.HistoryEvent_ActivityTaskFailedEventAttributes:
		a := attrs.ActivityTaskFailedEventAttributes
		return &WorkflowActivationJob{
			Kind:    jobKindResolveActivity,
			SeqID:   a.GetScheduledEventId(),
			Failure: convertFailureToError(a.GetFailure(), w.options.DataConverter),
		}, nil, nil

	case *historypb.HistoryEvent_ActivityTaskTimedOutEventAttributes:
		a := attrs.ActivityTaskTimedOutEventAttributes
		return &WorkflowActivationJob{
			Kind:    jobKindResolveActivity,
			SeqID:   a.GetScheduledEventId(),
			Failure: convertFailureToError(a.GetFailure(), w.options.DataConverter),
		}, nil, nil

	case *historypb.HistoryEvent_ActivityTaskCanceledEventAttributes:
		a := attrs.ActivityTaskCanceledEventAttributes
		return &WorkflowActivationJob{
			Kind:    jobKindResolveActivity,
			SeqID:   a.GetScheduledEventId(),
			Failure: NewCanceledError(),
		}, nil, nil

	case *historypb.HistoryEvent_TimerFiredEventAttributes:
		a := attrs.TimerFiredEventAttributes
		return &WorkflowActivationJob{
			Kind:          jobKindFireTimer,
			CorrelationID: a.GetTimerId(),
		}, nil, nil

	case *historypb.HistoryEvent_ActivityTaskScheduledEventAttributes:
		ct := commandpb.CommandType_ScheduleActivityTask
		return nil, &ct, nil

	case *historypb.HistoryEvent_TimerStartedEventAttributes:
		ct := commandpb.CommandType_StartTimer
		return nil, &ct, nil

	case *historypb.HistoryEvent_StartChildWorkflowExecutionInitiatedEventAttributes:
		ct := commandpb.CommandType_StartChildWorkflowExecution
		return nil, &ct, nil

	case *historypb.HistoryEvent_RequestCancelExternalWorkflowExecutionInitiatedEventAttributes:
		ct := commandpb.CommandType_RequestCancelExternalWorkflowExecution
		return nil, &ct, nil

	case *historypb.HistoryEvent_SignalExternalWorkflowExecutionInitiatedEventAttributes:
		ct := commandpb.CommandType_SignalExternalWorkflowExecution
		return nil, &ct, nil

	case *historypb.HistoryEvent_MarkerRecordedEventAttributes:
		ct := commandpb.CommandType_RecordMarker
		return nil, &ct, nil

	default:
		return nil, nil, nil
	}
}

// initiateShutdown begins graceful shutdown: the state moves to Draining, so poll
// loops stop starting new polls; after GracefulShutdownPeriod (at once if 0) it
// finalizes. In-flight tasks are not cancelled; Run returns once they finish.
// Idempotent: a second call sees the state already past Running and returns.
func (w *AggregatedWorker) initiateShutdown() {
	w.mu.Lock()
	if w.state == supervisorStateDraining || w.state == supervisorStateFinalizing || w.state == supervisorStateTerminated {
		w.mu.Unlock()
		return
	}
	w.state = supervisorStateDraining
	w.mu.Unlock()

	if w.options.GracefulShutdownPeriod > 0 {
		w.options.Logger.Info("worker draining", "taskQueue", w.taskQueue, "gracePeriod", w.options.GracefulShutdownPeriod)
		time.Sleep(w.options.GracefulShutdownPeriod)
	}
	w.finalizeShutdown()
}

// finalizeShutdown stops every poll loop and waits for any already-dispatched task to
// finish. Safe to call more than once; stopOnce guards the channel close.
func (w *AggregatedWorker) finalizeShutdown() {
	w.transition(supervisorStateFinalizing)
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Stop requests graceful shutdown and returns immediately; Run's goroutine finishes
// draining asynchronously and Run itself returns once every poller has exited.
func (w *AggregatedWorker) Stop() {
	go w.initiateShutdown()
}
