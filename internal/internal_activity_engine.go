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
	"reflect"
	"runtime/debug"
	"time"

	"github.com/uber-go/tally"
	"golang.org/x/time/rate"

	commonpb "go.temporal.io/api/common/v1"
	"go.temporal.io/api/workflowservice/v1"

	"go.temporal.io/sdk-core/internal/log"
)

type (
	// ActivityType identifies a registered activity function, threaded through
	// ActivityInfo and the command attributes that schedule it.
	ActivityType struct {
		Name string
	}

	// ActivityInfo is the read-only snapshot an activity implementation observes
	// through its context, answering the "what am I, for whom, on whose behalf"
	// questions without giving it a handle back into workflow internals.
	ActivityInfo struct {
		TaskToken           []byte
		WorkflowExecution   WorkflowExecution
		WorkflowNamespace   string
		WorkflowType         WorkflowType
		TaskQueue            string
		ActivityID           string
		ActivityType         ActivityType
		Attempt              int32
		ScheduledTime        time.Time
		StartedTime          time.Time
		Deadline             time.Time
		HeartbeatTimeout     time.Duration
		IsLocalActivity      bool
	}

	// activityEnvironment is carried on the activity's context.Context; the activity
	// accessors (GetActivityInfo, RecordActivityHeartbeat, the heartbeat-details getters,
	// the logger and metrics-scope getters) read it back.
	activityEnvironment struct {
		info             ActivityInfo
		dataConverter    DataConverter
		logger           log.Logger
		metricsScope     tally.Scope
		heartbeat        func(ctx context.Context, details ...interface{}) error
		heartbeatDetails *commonpb.Payloads
		workerStopCh     <-chan struct{}
	}

	// activityExecutor invokes one already-resolved activity function through
	// reflection, the same shape invokeWorkflowFunc uses on the workflow side: decode
	// Payloads positionally into the function's declared parameter types, call, and
	// return the single non-error return value unencoded.
	activityExecutor struct {
		name string
		fn   interface{}
	}

	// activityTaskHandler dispatches one polled activity task to its registered
	// implementation and converts the outcome into the matching Respond* request.
	activityTaskHandler struct {
		registry      *registry
		dataConverter DataConverter
		logger        log.Logger
		metricsScope  tally.Scope
		identity      string
		workerStopCh  <-chan struct{}
		heartbeatFunc func(ctx context.Context, taskToken []byte, details ...interface{}) error
		interceptors  []WorkerInterceptor
	}
)

type activityEnvContextKeyType struct{}

var activityEnvContextKey activityEnvContextKeyType

func getActivityEnv(ctx context.Context) *activityEnvironment {
	env, ok := ctx.Value(activityEnvContextKey).(*activityEnvironment)
	if !ok {
		panic("GetActivityInfo/RecordActivityHeartbeat called from outside an activity")
	}
	return env
}

// GetActivityInfo extracts the ActivityInfo carried by ctx.
func GetActivityInfo(ctx context.Context) ActivityInfo {
	return getActivityEnv(ctx).info
}

// RecordActivityHeartbeat reports liveness/progress from within a running activity.
// details are made available to a subsequent attempt via GetHeartbeatDetails.
func RecordActivityHeartbeat(ctx context.Context, details ...interface{}) {
	env := getActivityEnv(ctx)
	if env.heartbeat == nil {
		return
	}
	if err := env.heartbeat(ctx, details...); err != nil {
		panic(err)
	}
}

// HasHeartbeatDetails reports whether the current attempt was retried after a prior
// attempt recorded heartbeat details.
func HasHeartbeatDetails(ctx context.Context) bool {
	return getActivityEnv(ctx).heartbeatDetails != nil
}

// GetHeartbeatDetails decodes the details recorded by the last heartbeat of a
// prior, failed attempt into d. Returns ErrNoData if HasHeartbeatDetails is false.
func GetHeartbeatDetails(ctx context.Context, d ...interface{}) error {
	env := getActivityEnv(ctx)
	if env.heartbeatDetails == nil {
		return ErrNoData
	}
	return newEncodedValues(env.heartbeatDetails, env.dataConverter).Get(d...)
}

// GetActivityLogger returns the logger configured for the worker running this
// activity, annotated with the activity's ID, type, and owning workflow for
// every call. Named distinctly from the workflow-side GetLogger since this
// package holds both under one namespace.
func GetActivityLogger(ctx context.Context) log.Logger {
	env := getActivityEnv(ctx)
	return log.With2(env.logger,
		"ActivityID", env.info.ActivityID,
		"ActivityType", env.info.ActivityType.Name,
		"WorkflowID", env.info.WorkflowExecution.ID,
		"RunID", env.info.WorkflowExecution.RunID,
	)
}

// GetActivityMetricsScope returns the metrics scope configured for the worker
// running this activity, tagged with the activity's type.
func GetActivityMetricsScope(ctx context.Context) tally.Scope {
	env := getActivityEnv(ctx)
	return env.metricsScope.Tagged(map[string]string{"ActivityType": env.info.ActivityType.Name})
}

// newActivityExecutor returns an executor bound to the already-resolved activity
// function fn, registered under name.
func newActivityExecutor(name string, fn interface{}) *activityExecutor {
	return &activityExecutor{name: name, fn: fn}
}

// Execute decodes input positionally into fn's declared parameter types and invokes
// it. fn's first parameter may optionally be context.Context; its results must be
// (result) or (result, error) or just (error).
func (ae *activityExecutor) Execute(ctx context.Context, input *commonpb.Payloads, dc DataConverter) (interface{}, error) {
	fnType := reflect.TypeOf(ae.fn)
	fnValue := reflect.ValueOf(ae.fn)

	args := make([]reflect.Value, 0, fnType.NumIn())
	argIndex := 0
	if fnType.NumIn() > 0 && fnType.In(0) == reflect.TypeOf((*context.Context)(nil)).Elem() {
		args = append(args, reflect.ValueOf(ctx))
		argIndex = 1
	}

	payloads := input.GetPayloads()
	for i := argIndex; i < fnType.NumIn(); i++ {
		argPtr := reflect.New(fnType.In(i))
		if i-argIndex < len(payloads) {
			if err := dc.FromPayload(payloads[i-argIndex], argPtr.Interface()); err != nil {
				return nil, fmt.Errorf("unable to decode activity argument %d for %s: %w", i-argIndex, ae.name, err)
			}
		}
		args = append(args, argPtr.Elem())
	}

	results := fnValue.Call(args)
	return unpackActivityResult(ae.name, results)
}

func unpackActivityResult(name string, results []reflect.Value) (result interface{}, err error) {
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		if e, ok := results[0].Interface().(error); ok {
			return nil, e
		}
		return results[0].Interface(), nil
	case 2:
		if e, ok := results[1].Interface().(error); ok && e != nil {
			return nil, e
		}
		return results[0].Interface(), nil
	default:
		return nil, fmt.Errorf("activity %s: unsupported return signature with %d results", name, len(results))
	}
}

func newActivityTaskHandler(r *registry, dc DataConverter, logger log.Logger, metricsScope tally.Scope, identity string,
	workerStopCh <-chan struct{}, heartbeatFunc func(ctx context.Context, taskToken []byte, details ...interface{}) error,
	interceptors []WorkerInterceptor) *activityTaskHandler {
	return &activityTaskHandler{
		registry:      r,
		dataConverter: dc,
		logger:        logger,
		metricsScope:  metricsScope,
		identity:      identity,
		workerStopCh:  workerStopCh,
		heartbeatFunc: heartbeatFunc,
		interceptors:  interceptors,
	}
}

// Execute runs one polled activity task to completion (or ErrActivityResultPending)
// and returns the Respond*Request the caller should send back to the server.
func (h *activityTaskHandler) Execute(ctx context.Context, task *workflowservice.PollActivityTaskQueueResponse) (response interface{}) {
	activityType := task.GetActivityType().GetName()
	fn, ok := h.registry.GetActivity(activityType)
	if !ok {
		return &workflowservice.RespondActivityTaskFailedRequest{
			TaskToken: task.GetTaskToken(),
			Failure:   convertErrorToFailure(NewApplicationError(fmt.Sprintf("unable to find activity type %q", activityType), true, nil), h.dataConverter),
			Identity:  h.identity,
		}
	}

	info := ActivityInfo{
		TaskToken: task.GetTaskToken(),
		WorkflowExecution: WorkflowExecution{
			ID:    task.GetWorkflowExecution().GetWorkflowId(),
			RunID: task.GetWorkflowExecution().GetRunId(),
		},
		WorkflowNamespace: task.GetWorkflowNamespace(),
		WorkflowType:      WorkflowType{Name: task.GetWorkflowType().GetName()},
		TaskQueue:         task.GetTaskQueue().GetName(),
		ActivityID:        task.GetActivityId(),
		ActivityType:      ActivityType{Name: activityType},
		Attempt:           task.GetAttempt(),
		HeartbeatTimeout:  task.GetHeartbeatTimeout().AsDuration(),
	}
	if task.GetScheduledTime() != nil {
		info.ScheduledTime = task.GetScheduledTime().AsTime()
	}
	if task.GetCurrentAttemptScheduledTime() != nil {
		info.StartedTime = task.GetCurrentAttemptScheduledTime().AsTime()
	}

	activityCtx := context.Background()
	var cancel context.CancelFunc
	if task.GetStartToCloseTimeout() != nil {
		activityCtx, cancel = context.WithTimeout(activityCtx, task.GetStartToCloseTimeout().AsDuration())
		info.Deadline = time.Now().Add(task.GetStartToCloseTimeout().AsDuration())
	} else {
		activityCtx, cancel = context.WithCancel(activityCtx)
	}
	defer cancel()

	env := &activityEnvironment{
		info:             info,
		dataConverter:    h.dataConverter,
		logger:           h.logger,
		metricsScope:     h.metricsScope,
		heartbeatDetails: task.GetHeartbeatDetails(),
		workerStopCh:     h.workerStopCh,
	}
	if h.heartbeatFunc != nil {
		sender := func(sendCtx context.Context, taskToken []byte, details ...interface{}) (bool, error) {
			err := h.heartbeatFunc(sendCtx, taskToken, details...)
			if err == nil {
				return false, nil
			}
			if IsCanceledError(err) {
				return true, nil
			}
			return false, err
		}
		hc := newHeartbeatController(nil, sender, task.GetTaskToken(), info.HeartbeatTimeout, h.logger)
		defer hc.Close()
		env.heartbeat = hc.RecordHeartbeat

		activityDone := activityCtx.Done()
		go func() {
			select {
			case <-hc.Canceled():
				cancel()
			case <-activityDone:
			}
		}()
	}
	activityCtx = context.WithValue(activityCtx, activityEnvContextKey, env)

	result, err := h.safeExecute(activityCtx, newActivityExecutor(activityType, fn), task.GetInput())
	if err == ErrActivityResultPending {
		return nil
	}
	if err != nil {
		return &workflowservice.RespondActivityTaskFailedRequest{
			TaskToken: task.GetTaskToken(),
			Failure:   convertErrorToFailure(err, h.dataConverter),
			Identity:  h.identity,
		}
	}

	output, encErr := h.dataConverter.ToPayloads(result)
	if encErr != nil {
		return &workflowservice.RespondActivityTaskFailedRequest{
			TaskToken: task.GetTaskToken(),
			Failure:   convertErrorToFailure(encErr, h.dataConverter),
			Identity:  h.identity,
		}
	}
	return &workflowservice.RespondActivityTaskCompletedRequest{
		TaskToken: task.GetTaskToken(),
		Result:    output,
		Identity:  h.identity,
	}
}

// safeExecute recovers a panicking activity into a *PanicError, matching how a
// panicking workflow coroutine is turned into a failure rather than crashing the
// worker process.
func (h *activityTaskHandler) safeExecute(ctx context.Context, ae *activityExecutor, input *commonpb.Payloads) (result interface{}, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = newPanicError(p, string(debug.Stack()))
		}
	}()
	inbound := buildActivityInterceptorChain(h.interceptors, &activityInboundInterceptorBase{ae: ae, dc: h.dataConverter})
	return inbound.ExecuteActivity(ctx, &ExecuteActivityInput{Args: input})
}

// activityRateLimiters bundles the two independent rate.Limiters worker.Options
// exposes: a global cap on remote-activity starts and a per-task-queue cap.
type activityRateLimiters struct {
	global    *rate.Limiter
	taskQueue *rate.Limiter
}

func newActivityRateLimiters(activitiesPerSecond, taskQueueActivitiesPerSecond float64) *activityRateLimiters {
	l := &activityRateLimiters{}
	if activitiesPerSecond > 0 {
		l.global = rate.NewLimiter(rate.Limit(activitiesPerSecond), int(activitiesPerSecond)+1)
	}
	if taskQueueActivitiesPerSecond > 0 {
		l.taskQueue = rate.NewLimiter(rate.Limit(taskQueueActivitiesPerSecond), int(taskQueueActivitiesPerSecond)+1)
	}
	return l
}

// Wait blocks until both configured limiters admit one more activity start.
func (l *activityRateLimiters) Wait(ctx context.Context) error {
	if l.global != nil {
		if err := l.global.Wait(ctx); err != nil {
			return err
		}
	}
	if l.taskQueue != nil {
		if err := l.taskQueue.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}
