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
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"strconv"
	"time"

	"github.com/uber-go/tally"

	commandpb "go.temporal.io/api/command/v1"
	commonpb "go.temporal.io/api/common/v1"
	enumspb "go.temporal.io/api/enums/v1"

	"go.temporal.io/sdk-core/internal/log"
)

// NonDeterministicWorkflowPolicy controls what happens when a replaying instance
// emits a command that disagrees with the historical command at the same position.
type NonDeterministicWorkflowPolicy int

const (
	// NonDeterministicWorkflowPolicyBlockWorkflow fails only the current workflow task,
	// leaving the workflow itself running so a fixed worker build can retry it.
	NonDeterministicWorkflowPolicyBlockWorkflow NonDeterministicWorkflowPolicy = iota
	// NonDeterministicWorkflowPolicyFailWorkflow fails the workflow run outright.
	NonDeterministicWorkflowPolicyFailWorkflow
)

// nonDeterministicError reports that a replaying instance emitted a command that
// disagrees with the command the server actually recorded at the same position in
// history, meaning the workflow code took a different path than it did on a previous
// attempt (a changed branch condition, a non-deterministic call, reordered
// goroutines, ...).
type nonDeterministicError struct {
	position int
	expected commandpb.CommandType
	actual   commandpb.CommandType
}

func (e *nonDeterministicError) Error() string {
	return fmt.Sprintf("non-deterministic workflow: command at position %d was %s during a previous attempt but is now %s",
		e.position, e.expected, e.actual)
}

type (
	// jobKind discriminates the job variants an activation can carry. The protocol
	// groups jobs so the instance can apply them in a fixed order regardless of the
	// order the server happened to put them on the wire (spec §4.3 step 2).
	jobKind int32

	jobOrderClass int32
)

const (
	jobKindInitializeWorkflow jobKind = iota
	jobKindFireTimer
	jobKindResolveActivity
	jobKindResolveChildWorkflowExecutionStart
	jobKindResolveChildWorkflowExecution
	jobKindResolveSignalExternalWorkflow
	jobKindResolveRequestCancelExternalWorkflow
	jobKindNotifyHasPatch
	jobKindCancelWorkflow
	jobKindSignalWorkflow
	jobKindQueryWorkflow
	jobKindDoUpdate
	jobKindRemoveFromCache
)

const (
	jobOrderResolution jobOrderClass = iota
	jobOrderNotification
	jobOrderSignal
	jobOrderQuery
	jobOrderUpdate
)

// orderClass buckets a job kind into the resolutions/notifications/signals/queries/
// updates ordering spec §4.3 step 2 mandates.
func (k jobKind) orderClass() jobOrderClass {
	switch k {
	case jobKindFireTimer, jobKindResolveActivity, jobKindResolveChildWorkflowExecutionStart,
		jobKindResolveChildWorkflowExecution, jobKindResolveSignalExternalWorkflow,
		jobKindResolveRequestCancelExternalWorkflow:
		return jobOrderResolution
	case jobKindInitializeWorkflow, jobKindNotifyHasPatch, jobKindCancelWorkflow, jobKindRemoveFromCache:
		return jobOrderNotification
	case jobKindSignalWorkflow:
		return jobOrderSignal
	case jobKindQueryWorkflow:
		return jobOrderQuery
	case jobKindDoUpdate:
		return jobOrderUpdate
	default:
		return jobOrderNotification
	}
}

// WorkflowActivationJob is one unit of work delivered to a workflow instance: a timer
// firing, an activity resolving, a signal arriving, a query or update needing a
// response, or lifecycle notifications (initialize, cancel, evict).
type WorkflowActivationJob struct {
	Kind jobKind

	// Resolution jobs (timer, activity, child workflow, external signal/cancel).
	SeqID   int64
	CorrelationID string
	Result  *commonpb.Payloads
	Failure error

	// InitializeWorkflow.
	StartAttributes *ExecuteWorkflowParams

	// SignalWorkflow.
	SignalName  string
	SignalInput *commonpb.Payloads

	// QueryWorkflow.
	QueryID   string
	QueryType string
	QueryArgs *commonpb.Payloads

	// DoUpdate.
	UpdateID   string
	UpdateName string
	UpdateArgs *commonpb.Payloads

	// NotifyHasPatch.
	ChangeID string
}

// WorkflowActivation is one batch of jobs the engine routes to a cached (or newly
// instantiated) workflow instance, along with the logical clock value to advance to
// before applying any of them.
type WorkflowActivation struct {
	WorkflowExecution WorkflowExecution
	Timestamp         time.Time
	Jobs              []WorkflowActivationJob
	IsReplaying       bool
	StartedEventID    int64

	// HistoryCommands carries the command type recorded by the server for each
	// command-echoing history event (ActivityTaskScheduled, TimerStarted, and similar)
	// delivered as part of this activation's underlying workflow task, in history order.
	// The instance appends these onto its own running history before comparing its
	// newly emitted commands against them to detect non-determinism.
	HistoryCommands []commandpb.CommandType
}

// QueryResult is the per-query outcome produced while applying one activation; queries
// never contribute commands to the completion, only a result or a failure.
type QueryResult struct {
	Succeeded bool
	Payload   *commonpb.Payload
	Failure   error
}

// WorkflowActivationCompletion is the outcome of applying one activation: either a
// command list (workflow still running) plus any query results bundled alongside it,
// or a terminal failure.
type WorkflowActivationCompletion struct {
	Commands     []*commandpb.Command
	QueryResults map[string]QueryResult
	Failed       error
}

// updateHandlerFuncs is the two-phase Update dispatch target spec §4.3 describes: a
// read-only validator that may reject before anything mutates, then a handler that may
// mutate state and suspend.
type updateHandlerFuncs struct {
	validate func(args *commonpb.Payloads) error
	execute  func(ctx Context, args *commonpb.Payloads) (*commonpb.Payloads, error)
}

// workflowEnvironmentImpl is the concrete workflowEnvironment a running instance calls
// into for every side-effecting operation, and the bookkeeping home for the sandboxed
// API functions below (ExecuteActivity, NewTimer, GetVersion, ...). Keeping all
// mutable, replay-sensitive state here (rather than in user code) is what makes replay
// deterministic: the same activation sequence always drives the same calls into this
// struct in the same order.
type workflowEnvironmentImpl struct {
	registry            *registry
	dataConverter        DataConverter
	contextPropagators   []ContextPropagator
	logger               log.Logger
	metricsScope         tally.Scope
	info                 *WorkflowInfo
	commandsHelper       *commandsHelper

	activityFutures      map[int64]Settable
	timerFutures         map[string]Settable
	childStartFutures    map[string]Settable
	childResultFutures   map[string]Settable
	cancelFutures        map[string]Settable
	signalFutures        map[string]Settable

	signalChannels       map[string]Channel
	queryHandlers        map[string]func(*commonpb.Payloads) (*commonpb.Payload, error)
	updateHandlers       map[string]updateHandlerFuncs
	appliedPatches       map[string]Version

	activityIDCounter    int64
	timerIDCounter       int64
	childIDCounter       int64
	sideEffectCounter    int64

	now         time.Time
	isReplaying bool
	rng         *rand.Rand

	nonDeterministicPolicy NonDeterministicWorkflowPolicy
	historicalCommands     []commandpb.CommandType
	historicalIndex        int

	continueAsNewError error
	workflowResult      *commonpb.Payloads
	workflowFailure     error
	completed           bool

	workerInterceptors []WorkerInterceptor
	inboundInterceptor WorkflowInboundInterceptor
}

// checkNonDeterminism compares commands newly emitted during this activation against
// the historical commands recorded for the same run, position by position, and returns
// a *nonDeterministicError on the first mismatch. Once historicalIndex runs past the end
// of historicalCommands there is nothing left from history to compare against — the
// remaining emitted commands are new ground the server has not seen yet on any prior
// attempt, not a replay discrepancy, so they pass through unchecked.
func (w *workflowEnvironmentImpl) checkNonDeterminism(commands []*commandpb.Command) error {
	for _, cmd := range commands {
		if w.historicalIndex >= len(w.historicalCommands) {
			return nil
		}
		expected := w.historicalCommands[w.historicalIndex]
		actual := cmd.GetCommandType()
		position := w.historicalIndex
		w.historicalIndex++
		if expected != actual {
			return &nonDeterministicError{position: position, expected: expected, actual: actual}
		}
	}
	return nil
}

func (w *workflowEnvironmentImpl) GetRegistry() *registry                    { return w.registry }
func (w *workflowEnvironmentImpl) GetDataConverter() DataConverter           { return w.dataConverter }
func (w *workflowEnvironmentImpl) GetContextPropagators() []ContextPropagator { return w.contextPropagators }
func (w *workflowEnvironmentImpl) WorkflowInfo() *WorkflowInfo               { return w.info }

// workflowEnvironmentContextKeyImpl exposes the concrete environment to the sandboxed
// API functions below, which only have a Context to work from.
func getWorkflowEnv(ctx Context) *workflowEnvironmentImpl {
	env, _ := getWorkflowEnvironment(ctx).(*workflowEnvironmentImpl)
	if env == nil {
		panic("workflow API called outside of workflow context")
	}
	return env
}

// workflowExecutorImpl adapts one registered workflow function to the workflowDefinition
// the engine drives: it owns the dispatcher, the root coroutine running the user
// function, and the environment the coroutine's calls land in.
type workflowExecutorImpl struct {
	workflowType string
	fn           interface{}

	env        *workflowEnvironmentImpl
	dispatcher *dispatcherImpl
	rootCtx    Context

	started bool
}

func newWorkflowExecutor(workflowType string, fn interface{}, env *workflowEnvironmentImpl) *workflowExecutorImpl {
	return &workflowExecutorImpl{workflowType: workflowType, fn: fn, env: env}
}

// Execute implements workflowDefinition: it builds the root Context carrying this
// environment and starts (but does not yet run) the coroutine invoking fn with the
// decoded input.
func (we *workflowExecutorImpl) Execute(env workflowEnvironment, header *commonpb.Header, input *commonpb.Payloads) error {
	concreteEnv, ok := env.(*workflowEnvironmentImpl)
	if !ok {
		return fmt.Errorf("internal_workflow_instance: unexpected workflowEnvironment implementation %T", env)
	}
	we.env = concreteEnv
	concreteEnv.inboundInterceptor = buildWorkflowInterceptorChain(concreteEnv.workerInterceptors, &workflowInboundInterceptorBase{we: we})

	rootCtx := Background()
	rootCtx = WithValue(rootCtx, workflowEnvironmentContextKey, concreteEnv)
	rootCtx = WithValue(rootCtx, workflowEnvOptionsContextKey, &WorkflowOptions{})

	ctx, dispatcher := newDispatcher(rootCtx, func(ctx Context) {
		we.runWorkflow(ctx, input)
	})
	we.rootCtx = ctx
	we.dispatcher = dispatcher
	we.started = true
	return nil
}

// runWorkflow invokes the registered function, decoding input positionally (skipping a
// leading Context parameter the same way activityExecutor does), and records the
// terminal outcome on the environment once it returns.
func (we *workflowExecutorImpl) runWorkflow(ctx Context, input *commonpb.Payloads) {
	defer func() {
		if r := recover(); r != nil {
			we.env.workflowFailure = newPanicError(r, "")
			we.env.completed = true
		}
	}()

	result, err := we.env.inboundInterceptor.ExecuteWorkflow(ctx, &ExecuteWorkflowInput{Args: input})

	if we.env.continueAsNewError != nil {
		we.env.workflowFailure = we.env.continueAsNewError
		we.env.completed = true
		return
	}
	if err != nil {
		we.env.workflowFailure = err
		we.env.completed = true
		return
	}
	payloads, encErr := we.env.dataConverter.ToPayloads(result)
	if encErr != nil {
		we.env.workflowFailure = encErr
		we.env.completed = true
		return
	}
	we.env.workflowResult = payloads
	we.env.completed = true
}

// workflowContextType is the reflect.Type of the Context interface, used to recognize a
// workflow function's leading parameter the same way activityExecutor recognizes a
// leading context.Context.
var workflowContextType = reflect.TypeOf((*Context)(nil)).Elem()

// invokeWorkflowFunc decodes input positionally into fn's declared parameter types
// (after its required leading Context parameter) and calls it, mirroring
// activityExecutor.Execute but for workflow functions, whose first parameter is this
// package's Context rather than context.Context.
func invokeWorkflowFunc(ctx Context, name string, fn interface{}, input *commonpb.Payloads, dc DataConverter) (interface{}, error) {
	fnType := reflect.TypeOf(fn)
	fnValue := reflect.ValueOf(fn)
	if fnType.Kind() != reflect.Func || fnType.NumIn() == 0 || fnType.In(0) != workflowContextType {
		return nil, fmt.Errorf("workflow %s must be a function whose first parameter is workflow.Context", name)
	}

	args := make([]reflect.Value, 0, fnType.NumIn())
	args = append(args, reflect.ValueOf(ctx))

	payloads := input.GetPayloads()
	for i := 1; i < fnType.NumIn(); i++ {
		argPtr := reflect.New(fnType.In(i))
		if i-1 < len(payloads) {
			if err := dc.FromPayload(payloads[i-1], argPtr.Interface()); err != nil {
				return nil, fmt.Errorf("unable to decode workflow argument %d for %s: %w", i-1, name, err)
			}
		}
		args = append(args, argPtr.Elem())
	}

	results := fnValue.Call(args)
	return unpackActivityResult(name, results)
}

// OnWorkflowTaskStarted implements workflowDefinition: runs the dispatcher until every
// coroutine is blocked or the workflow has completed.
func (we *workflowExecutorImpl) OnWorkflowTaskStarted() {
	if !we.started {
		return
	}
	_ = we.dispatcher.ExecuteUntilAllBlocked()
}

// StackTrace implements workflowDefinition for worker diagnostics (GetWorkflowStackTrace).
func (we *workflowExecutorImpl) StackTrace() string {
	if we.dispatcher == nil {
		return ""
	}
	if we.dispatcher.IsDone() {
		return "workflow completed"
	}
	return "workflow blocked (stack trace capture not wired to a symbolizer)"
}

// Close implements workflowDefinition.
func (we *workflowExecutorImpl) Close() {
	if we.dispatcher != nil {
		we.dispatcher.Close()
	}
}

// Activation applies one batch of jobs to the instance and returns the resulting
// completion, implementing spec §4.3's activation application algorithm.
func (we *workflowExecutorImpl) Activation(act *WorkflowActivation) (completion *WorkflowActivationCompletion, err error) {
	defer func() {
		if r := recover(); r != nil {
			if illegal, ok := r.(stateMachineIllegalStatePanic); ok {
				completion, err = we.handleIllegalState(illegal)
				return
			}
			panic(r)
		}
	}()

	we.env.now = act.Timestamp
	we.env.isReplaying = act.IsReplaying
	if act.StartedEventID > 0 {
		we.env.commandsHelper.setCurrentCommandStartedEventID(act.StartedEventID)
	}
	we.env.historicalCommands = append(we.env.historicalCommands, act.HistoryCommands...)

	ordered := make([]WorkflowActivationJob, len(act.Jobs))
	copy(ordered, act.Jobs)
	stableOrderSort(ordered)

	completion = &WorkflowActivationCompletion{QueryResults: make(map[string]QueryResult)}

	for _, job := range ordered {
		if err := we.applyJob(job, completion); err != nil {
			return nil, err
		}
	}

	if !we.started {
		return nil, errors.New("internal_workflow_instance: activation applied before InitializeWorkflow")
	}

	if dispatchErr := we.dispatcher.ExecuteUntilAllBlocked(); dispatchErr != nil && !we.env.completed {
		// A panic from a non-root coroutine (one started with workflow.Go) surfaces here
		// rather than through Activation's own recover, since dispatcherImpl.newCoroutine
		// already caught it at the goroutine boundary. Treat it the same way runWorkflow
		// treats a root-coroutine panic: a workflow failure, not a task-level one, so it
		// still needs a terminal command.
		we.env.workflowFailure = dispatchErr
		we.env.completed = true
	}

	commands := we.env.commandsHelper.getCommands(true)
	if ndErr := we.env.checkNonDeterminism(commands); ndErr != nil {
		return we.handleNonDeterminism(ndErr, completion)
	}

	completion.Commands = commands
	if we.env.completed {
		completion.Commands = append(completion.Commands, we.terminalCommand())
	}
	return completion, nil
}

// handleNonDeterminism applies the configured NonDeterministicWorkflowPolicy once
// checkNonDeterminism has found a mismatch. Block leaves the workflow run itself alone
// — no terminal command is produced, and the completion only carries the failure so the
// caller can choose not to respond, letting the task time out and retry against
// (hopefully) a fixed worker build. Fail instead ends the run outright, reusing
// terminalCommand's existing FailWorkflowExecution path.
func (we *workflowExecutorImpl) handleNonDeterminism(err error, completion *WorkflowActivationCompletion) (*WorkflowActivationCompletion, error) {
	completion.Failed = err
	if we.env.nonDeterministicPolicy == NonDeterministicWorkflowPolicyFailWorkflow {
		we.env.workflowFailure = err
		we.env.completed = true
		completion.Commands = []*commandpb.Command{we.terminalCommand()}
	}
	return completion, nil
}

// handleIllegalState converts a command state-machine panic (panicIllegalState) into a
// failed completion instead of letting it crash the poller goroutine and, with it, the
// rest of the worker's in-flight work. It is always treated as a per-task failure
// (Block semantics) regardless of the configured policy: a state-machine mismatch means
// the commandsHelper bookkeeping itself is suspect, so there is no safe terminal command
// to build from it.
func (we *workflowExecutorImpl) handleIllegalState(r stateMachineIllegalStatePanic) (*WorkflowActivationCompletion, error) {
	if we.env.logger != nil {
		we.env.logger.Error("workflow task failed on illegal command state transition", "error", r.String())
	}
	return &WorkflowActivationCompletion{
		QueryResults: make(map[string]QueryResult),
		Failed:       errors.New(r.String()),
	}, nil
}

// terminalCommand builds the CompleteWorkflowExecution, FailWorkflowExecution, or
// ContinueAsNewWorkflowExecution command spec §4.3 step 5 requires once the workflow
// function has returned or thrown. A *ContinueAsNewError is not a task failure: it is
// the signal that this run ends by starting a successor, so it maps to its own command
// type rather than contributing to WorkflowActivationCompletion.Failed (which is
// reserved for task-level failures — non-determinism, a misbehaving update handler —
// that leave the run itself still open for retry).
func (we *workflowExecutorImpl) terminalCommand() *commandpb.Command {
	if cane, ok := we.env.workflowFailure.(*ContinueAsNewError); ok {
		return &commandpb.Command{
			CommandType: commandpb.CommandType_ContinueAsNewWorkflowExecution,
			Attributes: &commandpb.Command_ContinueAsNewWorkflowExecutionCommandAttributes{
				ContinueAsNewWorkflowExecutionCommandAttributes: &commandpb.ContinueAsNewWorkflowExecutionCommandAttributes{
					WorkflowType: &commonpb.WorkflowType{Name: cane.params.WorkflowType.Name},
					Input:        cane.params.Input,
					TaskQueue:    taskqueueFromName(cane.params.TaskQueueName),
				},
			},
		}
	}
	if we.env.workflowFailure != nil {
		return &commandpb.Command{
			CommandType: commandpb.CommandType_FailWorkflowExecution,
			Attributes: &commandpb.Command_FailWorkflowExecutionCommandAttributes{
				FailWorkflowExecutionCommandAttributes: &commandpb.FailWorkflowExecutionCommandAttributes{
					Failure: convertErrorToFailure(we.env.workflowFailure, we.env.dataConverter),
				},
			},
		}
	}
	return &commandpb.Command{
		CommandType: commandpb.CommandType_CompleteWorkflowExecution,
		Attributes: &commandpb.Command_CompleteWorkflowExecutionCommandAttributes{
			CompleteWorkflowExecutionCommandAttributes: &commandpb.CompleteWorkflowExecutionCommandAttributes{
				Result: we.env.workflowResult,
			},
		},
	}
}

// stableOrderSort groups jobs by their protocol order class (resolutions, then
// notifications, signals, queries, updates) while preserving arrival order within each
// class, using a plain stable insertion rather than sort.Slice so the ordering logic
// stays obviously total and side-effect free.
func stableOrderSort(jobs []WorkflowActivationJob) {
	buckets := make([][]WorkflowActivationJob, 5)
	for _, j := range jobs {
		c := j.Kind.orderClass()
		buckets[c] = append(buckets[c], j)
	}
	i := 0
	for _, bucket := range buckets {
		for _, j := range bucket {
			jobs[i] = j
			i++
		}
	}
}

func (we *workflowExecutorImpl) applyJob(job WorkflowActivationJob, completion *WorkflowActivationCompletion) error {
	switch job.Kind {
	case jobKindInitializeWorkflow:
		return nil
	case jobKindFireTimer:
		if f, ok := we.env.timerFutures[job.CorrelationID]; ok {
			delete(we.env.timerFutures, job.CorrelationID)
			f.Set(nil, job.Failure)
		}
	case jobKindResolveActivity:
		if f, ok := we.env.activityFutures[job.SeqID]; ok {
			delete(we.env.activityFutures, job.SeqID)
			f.Set(job.Result, job.Failure)
		}
	case jobKindResolveChildWorkflowExecutionStart:
		if f, ok := we.env.childStartFutures[job.CorrelationID]; ok {
			delete(we.env.childStartFutures, job.CorrelationID)
			f.Set(nil, job.Failure)
		}
	case jobKindResolveChildWorkflowExecution:
		if f, ok := we.env.childResultFutures[job.CorrelationID]; ok {
			delete(we.env.childResultFutures, job.CorrelationID)
			f.Set(job.Result, job.Failure)
		}
	case jobKindResolveSignalExternalWorkflow:
		if f, ok := we.env.signalFutures[job.CorrelationID]; ok {
			delete(we.env.signalFutures, job.CorrelationID)
			f.Set(nil, job.Failure)
		}
	case jobKindResolveRequestCancelExternalWorkflow:
		if f, ok := we.env.cancelFutures[job.CorrelationID]; ok {
			delete(we.env.cancelFutures, job.CorrelationID)
			f.Set(nil, job.Failure)
		}
	case jobKindNotifyHasPatch:
		we.env.appliedPatches[job.ChangeID] = 1
	case jobKindCancelWorkflow:
		we.env.workflowFailure = NewCanceledError()
		we.env.completed = true
	case jobKindSignalWorkflow:
		return we.env.inboundInterceptor.HandleSignal(we.rootCtx, &HandleSignalInput{SignalName: job.SignalName, Arg: job.SignalInput})
	case jobKindQueryWorkflow:
		we.applyQuery(job, completion)
	case jobKindDoUpdate:
		return we.applyUpdate(job)
	case jobKindRemoveFromCache:
		we.Close()
	}
	return nil
}

func (we *workflowExecutorImpl) applyQuery(job WorkflowActivationJob, completion *WorkflowActivationCompletion) {
	payload, err := we.env.inboundInterceptor.HandleQuery(we.rootCtx, &HandleQueryInput{QueryType: job.QueryType, Args: job.QueryArgs})
	if err != nil {
		completion.QueryResults[job.QueryID] = QueryResult{Failure: err}
		return
	}
	completion.QueryResults[job.QueryID] = QueryResult{Succeeded: true, Payload: payload}
}

// applyUpdate runs the two-phase Update dispatch spec §4.3 describes: validate
// synchronously (it must never suspend, only accept or reject), then run execute as
// its own coroutine so a handler that calls Await/Get/Receive actually suspends and
// resumes on a later activation instead of returning immediately, the same way any
// other workflow-spawned coroutine (Go) does.
func (we *workflowExecutorImpl) applyUpdate(job WorkflowActivationJob) error {
	in := &UpdateInput{UpdateName: job.UpdateName, Args: job.UpdateArgs}
	if err := we.env.inboundInterceptor.ValidateUpdate(we.rootCtx, in); err != nil {
		return err
	}
	Go(we.rootCtx, "update-"+job.UpdateID, func(ctx Context) {
		_, _ = we.env.inboundInterceptor.ExecuteUpdate(ctx, in)
	})
	return nil
}

// nextActivityID returns the next deterministic activity command ID for this run.
func (w *workflowEnvironmentImpl) nextActivityID() string {
	w.activityIDCounter++
	return strconv.FormatInt(w.activityIDCounter, 10)
}

func (w *workflowEnvironmentImpl) nextTimerID() string {
	w.timerIDCounter++
	return strconv.FormatInt(w.timerIDCounter, 10)
}

func (w *workflowEnvironmentImpl) nextChildWorkflowID(workflowType string) string {
	w.childIDCounter++
	return fmt.Sprintf("%s_%s_%d", w.info.WorkflowExecution.ID, workflowType, w.childIDCounter)
}

// ActivityOptions configures one ExecuteActivity call: queue placement, timeouts, and
// retry behavior. Zero-value timeouts mean "use the workflow's defaults".
type ActivityOptions struct {
	TaskQueue              string
	ScheduleToCloseTimeout time.Duration
	ScheduleToStartTimeout time.Duration
	StartToCloseTimeout    time.Duration
	HeartbeatTimeout       time.Duration
	WaitForCancellation    bool
	ActivityID             string
	RetryPolicy            *RetryPolicy
}

type activityOptionsContextKeyType struct{}

var activityOptionsContextKey activityOptionsContextKeyType

// WithActivityOptions returns a child Context carrying opts for subsequent
// ExecuteActivity calls.
func WithActivityOptions(ctx Context, opts ActivityOptions) Context {
	return WithValue(ctx, activityOptionsContextKey, opts)
}

func getActivityOptions(ctx Context) ActivityOptions {
	opts, _ := ctx.Value(activityOptionsContextKey).(ActivityOptions)
	return opts
}

// ExecuteActivity schedules the named (or function-identified) activity and returns a
// Future that resolves when the corresponding ResolveActivity job arrives.
func ExecuteActivity(ctx Context, activityFn interface{}, args ...interface{}) Future {
	env := getWorkflowEnv(ctx)
	future, settable := NewFuture(ctx)

	name, ok := activityFn.(string)
	if !ok {
		name = functionName(activityFn)
	}
	input, err := env.dataConverter.ToPayloads(args...)
	if err != nil {
		settable.SetError(err)
		return future
	}

	opts := getActivityOptions(ctx)
	activityID := opts.ActivityID
	if activityID == "" {
		activityID = env.nextActivityID()
	}

	attrs := &commandpb.ScheduleActivityTaskCommandAttributes{
		ActivityId:             activityID,
		ActivityType:           &commonpb.ActivityType{Name: name},
		TaskQueue:              taskqueueFromName(opts.TaskQueue),
		Input:                  input,
		ScheduleToCloseTimeout: durationToProto(opts.ScheduleToCloseTimeout),
		ScheduleToStartTimeout: durationToProto(opts.ScheduleToStartTimeout),
		StartToCloseTimeout:    durationToProto(opts.StartToCloseTimeout),
		HeartbeatTimeout:       durationToProto(opts.HeartbeatTimeout),
	}
	scheduleID := env.commandsHelper.getNextID()
	env.commandsHelper.scheduleActivityTask(scheduleID, attrs)
	env.activityFutures[scheduleID] = settable

	return future
}

// NewTimer starts a deterministic timer and returns a Future that resolves (with a nil
// value) when the matching FireTimer job arrives. A non-positive d resolves it at once
// with an ArgumentError. No operation cancels a started timer.
func NewTimer(ctx Context, d time.Duration) Future {
	env := getWorkflowEnv(ctx)
	future, settable := NewFuture(ctx)

	if d <= 0 {
		settable.SetError(NewArgumentError(fmt.Sprintf("invalid duration %v for NewTimer: must be positive", d)))
		return future
	}

	timerID := env.nextTimerID()
	env.commandsHelper.startTimer(&commandpb.StartTimerCommandAttributes{
		TimerId:            timerID,
		StartToFireTimeout: durationToProto(d),
	})
	env.timerFutures[timerID] = settable
	return future
}

// Sleep blocks the calling coroutine for d, the workflow-safe substitute for time.Sleep.
func Sleep(ctx Context, d time.Duration) error {
	return NewTimer(ctx, d).Get(ctx, nil)
}

// Await blocks until predicate returns true, re-evaluating it on every scheduling turn
// the dispatcher gives this coroutine (spec's condition primitive).
func Await(ctx Context, predicate func() bool) error {
	for !predicate() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		state := coroutineStateFromContext(ctx)
		if state == nil {
			return nil
		}
		state.yield("awaiting condition")
	}
	return nil
}

// Now returns the activation's logical timestamp, monotonic within a run.
func Now(ctx Context) time.Time {
	return getWorkflowEnv(ctx).now
}

// NewRandom returns a random source seeded deterministically from the run ID, so replay
// reproduces the same sequence.
func NewRandom(ctx Context) *rand.Rand {
	env := getWorkflowEnv(ctx)
	if env.rng == nil {
		env.rng = rand.New(rand.NewSource(seedFromRunID(env.info.WorkflowExecution.RunID)))
	}
	return env.rng
}

func seedFromRunID(runID string) int64 {
	var seed int64
	for _, r := range runID {
		seed = seed*31 + int64(r)
	}
	if seed == 0 {
		seed = 1
	}
	return seed
}

// GetVersion returns the version recorded for changeID in this run; the first time
// changeID is encountered it records maxSupported as a version marker and returns it.
func GetVersion(ctx Context, changeID string, minSupported, maxSupported Version) Version {
	env := getWorkflowEnv(ctx)
	if v, ok := env.appliedPatches[changeID]; ok {
		return v
	}
	version := maxSupported
	env.appliedPatches[changeID] = version
	env.commandsHelper.recordVersionMarker(changeID, version, env.dataConverter)
	return version
}

// UpsertSearchAttributes merges attrs into the run's indexed search attributes.
func UpsertSearchAttributes(ctx Context, attrs map[string]interface{}) error {
	env := getWorkflowEnv(ctx)
	payloads := &commonpb.SearchAttributes{IndexedFields: make(map[string]*commonpb.Payload)}
	for k, v := range attrs {
		p, err := env.dataConverter.ToPayload(v)
		if err != nil {
			return err
		}
		payloads.IndexedFields[k] = p
	}
	upsertID := strconv.FormatInt(env.commandsHelper.getNextID(), 10)
	env.commandsHelper.upsertSearchAttributes(upsertID, payloads)
	return nil
}

// GetSignalChannel returns the Channel signals of the given name arrive on, creating it
// on first use.
func GetSignalChannel(ctx Context, signalName string) Channel {
	env := getWorkflowEnv(ctx)
	ch, ok := env.signalChannels[signalName]
	if !ok {
		ch = NewBufferedChannel(ctx, 4096)
		env.signalChannels[signalName] = ch
	}
	return ch
}

// SetQueryHandler registers handler to answer queries of the given type. Query handlers
// run synchronously within activation application and must not emit commands.
func SetQueryHandler(ctx Context, queryType string, handler func(*commonpb.Payloads) (interface{}, error)) error {
	env := getWorkflowEnv(ctx)
	env.queryHandlers[queryType] = func(args *commonpb.Payloads) (*commonpb.Payload, error) {
		result, err := handler(args)
		if err != nil {
			return nil, err
		}
		return env.dataConverter.ToPayload(result)
	}
	return nil
}

// SetUpdateHandler registers the validate/execute pair for updates of the given name.
func SetUpdateHandler(ctx Context, updateName string, validate func(*commonpb.Payloads) error, execute func(Context, *commonpb.Payloads) (*commonpb.Payloads, error)) error {
	env := getWorkflowEnv(ctx)
	env.updateHandlers[updateName] = updateHandlerFuncs{validate: validate, execute: execute}
	return nil
}

// NewContinueAsNewError is re-declared here only as a thin forwarding call so workflow
// code importing this package's sandboxed API does not need to reach into error.go
// directly; error.go owns the actual type and constructor.
func buildContinueAsNewError(ctx Context, wfn interface{}, args ...interface{}) *ContinueAsNewError {
	return NewContinueAsNewError(ctx, wfn, args...)
}

// ContinueAsNew terminates the current run and starts a new one, recording the
// ContinueAsNewError on the environment so Activation's terminal-command step emits
// ContinueAsNewWorkflowExecution instead of CompleteWorkflowExecution.
func ContinueAsNew(ctx Context, wfn interface{}, args ...interface{}) error {
	env := getWorkflowEnv(ctx)
	env.continueAsNewError = buildContinueAsNewError(ctx, wfn, args...)
	return env.continueAsNewError
}

// GetWorkflowInfo extracts the WorkflowInfo carried by ctx.
func GetWorkflowInfo(ctx Context) *WorkflowInfo {
	return getWorkflowEnv(ctx).info
}

// GetLogger returns the logger configured for the worker running this workflow,
// annotated with the workflow's ID, run ID, and type for every subsequent call.
func GetLogger(ctx Context) log.Logger {
	env := getWorkflowEnv(ctx)
	return log.With2(env.logger,
		"WorkflowID", env.info.WorkflowExecution.ID,
		"RunID", env.info.WorkflowExecution.RunID,
		"WorkflowType", env.info.WorkflowType.Name,
	)
}

// GetMetricsScope returns the metrics scope configured for the worker running this
// workflow, tagged with the workflow's type.
func GetMetricsScope(ctx Context) tally.Scope {
	env := getWorkflowEnv(ctx)
	return env.metricsScope.Tagged(map[string]string{"WorkflowType": env.info.WorkflowType.Name})
}

// IsReplaying reports whether the current activation is replaying previously recorded
// history rather than executing for the first time. Code with side effects outside the
// deterministic API (logging aside) must branch on this before running.
func IsReplaying(ctx Context) bool {
	return getWorkflowEnv(ctx).isReplaying
}

// UpsertMemo merges memoFields into the run's non-indexed memo, visible through
// GetWorkflowInfo and DescribeWorkflowExecution. Unlike UpsertSearchAttributes, memo
// fields are never indexed and so carry no query restrictions on value shape; this
// merges into the locally cached WorkflowInfo rather than emitting its own command,
// since the corpus's command set (grounded on commandpb.Command_*) has no dedicated
// memo-upsert command variant alongside UpsertWorkflowSearchAttributesCommandAttributes.
func UpsertMemo(ctx Context, memoFields map[string]interface{}) error {
	env := getWorkflowEnv(ctx)
	if env.info.Memo == nil {
		env.info.Memo = make(map[string]*commonpb.Payload)
	}
	for k, v := range memoFields {
		p, err := env.dataConverter.ToPayload(v)
		if err != nil {
			return err
		}
		env.info.Memo[k] = p
	}
	return nil
}

// ChildWorkflowOptions configures one ExecuteChildWorkflow call.
type ChildWorkflowOptions struct {
	WorkflowID               string
	TaskQueue                string
	WorkflowExecutionTimeout time.Duration
	WorkflowRunTimeout       time.Duration
	WorkflowTaskTimeout      time.Duration
	Namespace                string
	WorkflowIDReusePolicy    WorkflowIDReusePolicy
	RetryPolicy              *RetryPolicy
	CronSchedule             string
	Memo                     map[string]interface{}
	SearchAttributes         map[string]interface{}
	ParentClosePolicy        ParentClosePolicy
}

// ParentClosePolicy controls what happens to a running child workflow when its parent
// closes.
type ParentClosePolicy int

const (
	// ParentClosePolicyTerminate terminates the child when the parent closes.
	ParentClosePolicyTerminate ParentClosePolicy = iota
	// ParentClosePolicyAbandon leaves the child running after the parent closes.
	ParentClosePolicyAbandon
	// ParentClosePolicyRequestCancel requests cancellation of the child when the
	// parent closes.
	ParentClosePolicyRequestCancel
)

type childWorkflowOptionsContextKeyType struct{}

var childWorkflowOptionsContextKey childWorkflowOptionsContextKeyType

// WithChildWorkflowOptions returns a child Context carrying opts for subsequent
// ExecuteChildWorkflow calls.
func WithChildWorkflowOptions(ctx Context, opts ChildWorkflowOptions) Context {
	return WithValue(ctx, childWorkflowOptionsContextKey, opts)
}

func getChildWorkflowOptions(ctx Context) ChildWorkflowOptions {
	opts, _ := ctx.Value(childWorkflowOptionsContextKey).(ChildWorkflowOptions)
	return opts
}

// ChildWorkflowFuture is the handle ExecuteChildWorkflow returns: GetChildWorkflowExecution
// resolves once the child has started (its WorkflowExecution is known), while the future
// itself resolves once the child's run completes.
type ChildWorkflowFuture interface {
	Future
	// GetChildWorkflowExecution returns a Future that resolves with the child's
	// WorkflowExecution once the server has accepted the StartChildWorkflowExecution
	// command.
	GetChildWorkflowExecution() Future
}

type childWorkflowFutureImpl struct {
	Future
	startFuture Future
}

func (c *childWorkflowFutureImpl) GetChildWorkflowExecution() Future {
	return c.startFuture
}

// ExecuteChildWorkflow schedules the named (or function-identified) workflow as a
// child of the currently executing run and returns a ChildWorkflowFuture that resolves
// when the corresponding ResolveChildWorkflowExecution job arrives.
func ExecuteChildWorkflow(ctx Context, childFn interface{}, args ...interface{}) ChildWorkflowFuture {
	env := getWorkflowEnv(ctx)
	resultFuture, resultSettable := NewFuture(ctx)
	startFuture, startSettable := NewFuture(ctx)

	name, ok := childFn.(string)
	if !ok {
		name = functionName(childFn)
	}
	input, err := env.dataConverter.ToPayloads(args...)
	if err != nil {
		startSettable.SetError(err)
		resultSettable.SetError(err)
		return &childWorkflowFutureImpl{Future: resultFuture, startFuture: startFuture}
	}

	opts := getChildWorkflowOptions(ctx)
	workflowID := opts.WorkflowID
	if workflowID == "" {
		workflowID = env.nextChildWorkflowID(name)
	}

	attrs := &commandpb.StartChildWorkflowExecutionCommandAttributes{
		Namespace:                opts.Namespace,
		WorkflowId:               workflowID,
		WorkflowType:             &commonpb.WorkflowType{Name: name},
		TaskQueue:                taskqueueFromName(opts.TaskQueue),
		Input:                    input,
		WorkflowExecutionTimeout: durationToProto(opts.WorkflowExecutionTimeout),
		WorkflowRunTimeout:       durationToProto(opts.WorkflowRunTimeout),
		WorkflowTaskTimeout:      durationToProto(opts.WorkflowTaskTimeout),
		WorkflowIdReusePolicy:    opts.WorkflowIDReusePolicy.toProto(),
		RetryPolicy:              opts.RetryPolicy.toProto(),
		CronSchedule:             opts.CronSchedule,
		Memo:                     encodeMemo(env.dataConverter, opts.Memo),
		SearchAttributes:         encodeSearchAttributes(env.dataConverter, opts.SearchAttributes),
		// ParentClosePolicy isn't wired to the wire enum here: the corpus never
		// exercises enumspb.ParentClosePolicy anywhere it could be grounded on.
	}
	env.commandsHelper.startChildWorkflowExecution(attrs)
	env.childStartFutures[workflowID] = startSettable
	env.childResultFutures[workflowID] = resultSettable

	return &childWorkflowFutureImpl{Future: resultFuture, startFuture: startFuture}
}

// SignalExternalWorkflow sends a signal to another workflow execution (not necessarily
// a child of this one) and returns a Future that resolves once the server confirms
// delivery or reports failure.
func SignalExternalWorkflow(ctx Context, workflowID, runID, signalName string, arg interface{}) Future {
	env := getWorkflowEnv(ctx)
	future, settable := NewFuture(ctx)

	input, err := env.dataConverter.ToPayloads(arg)
	if err != nil {
		settable.SetError(err)
		return future
	}

	signalID := strconv.FormatInt(env.commandsHelper.getNextID(), 10)
	env.commandsHelper.signalExternalWorkflowExecution(env.info.Namespace, workflowID, runID, signalName, input, signalID, false)
	env.signalFutures[signalID] = settable
	return future
}

// RequestCancelExternalWorkflow requests cancellation of another workflow execution
// (not necessarily a child of this one) and returns a Future that resolves once the
// server confirms the request or reports failure.
func RequestCancelExternalWorkflow(ctx Context, workflowID, runID string) Future {
	env := getWorkflowEnv(ctx)
	future, settable := NewFuture(ctx)

	cancellationID := strconv.FormatInt(env.commandsHelper.getNextID(), 10)
	env.commandsHelper.requestCancelExternalWorkflowExecution(env.info.Namespace, workflowID, runID, cancellationID, false)
	env.cancelFutures[cancellationID] = settable
	return future
}

// LocalActivityOptions configures one ExecuteLocalActivity call. Local activities run
// in-process on the worker instead of being scheduled through the task queue, trading
// the ability to run on a different worker for lower latency and no activity-task
// roundtrip; ScheduleToCloseTimeout is enforced by the caller's context, not the server.
type LocalActivityOptions struct {
	ScheduleToCloseTimeout time.Duration
	RetryPolicy            *RetryPolicy
}

type localActivityOptionsContextKeyType struct{}

var localActivityOptionsContextKey localActivityOptionsContextKeyType

// WithLocalActivityOptions returns a child Context carrying opts for subsequent
// ExecuteLocalActivity calls.
func WithLocalActivityOptions(ctx Context, opts LocalActivityOptions) Context {
	return WithValue(ctx, localActivityOptionsContextKey, opts)
}

// ExecuteLocalActivity runs the named (or function-identified) activity synchronously
// within the workflow's worker process and records its result in a marker command.
// Returns a Future already resolved by the time it is returned, kept as a Future for
// call-site symmetry with ExecuteActivity. Unlike a real local activity, this always
// re-invokes the function, including on replay, rather than short-circuiting from a
// previously recorded marker; workflow code relying on ExecuteLocalActivity's
// side-effect-free-on-replay guarantee should still go through GetVersion/SideEffect
// for anything non-deterministic.
func ExecuteLocalActivity(ctx Context, activityFn interface{}, args ...interface{}) Future {
	env := getWorkflowEnv(ctx)
	future, settable := NewFuture(ctx)

	name, ok := activityFn.(string)
	if !ok {
		name = functionName(activityFn)
	}

	activityID := env.nextActivityID()

	fn, ok := env.registry.GetActivity(name)
	if !ok {
		err := fmt.Errorf("unable to find activity type: %s", name)
		settable.SetError(err)
		return future
	}

	input, err := env.dataConverter.ToPayloads(args...)
	if err != nil {
		settable.SetError(err)
		return future
	}

	result, err := newActivityExecutor(name, fn).Execute(context.Background(), input, env.dataConverter)
	var resultPayloads *commonpb.Payloads
	if err == nil {
		resultPayloads, err = env.dataConverter.ToPayloads(result)
	}

	env.commandsHelper.recordLocalActivityMarker(activityID, resultPayloads)
	settable.Set(resultPayloads, err)
	return future
}
