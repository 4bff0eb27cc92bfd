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
	"container/list"
	"fmt"
	"sync"

	"github.com/uber-go/tally"

	commonpb "go.temporal.io/api/common/v1"

	"go.temporal.io/sdk-core/internal/log"
)

// defaultStickyCacheSize is the default bound on how many workflow instances the
// engine keeps warm at once, matching spec §4.4's default capacity of 1000.
const defaultStickyCacheSize = 1000

// cacheEntry is what the sticky cache actually stores: the running instance plus
// enough of its identity to report in diagnostics.
type cacheEntry struct {
	runID    string
	executor *workflowExecutorImpl
}

// stickyCache is a bounded run_id -> workflow instance map with LRU eviction, grounded
// directly on commandsHelper's container/list-backed ordered map (the same
// get-touches-reorders idiom, applied here to whole instances instead of commands
// within one instance).
type stickyCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

func newStickyCache(capacity int) *stickyCache {
	if capacity <= 0 {
		capacity = defaultStickyCacheSize
	}
	return &stickyCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// get returns the cached entry for runID, moving it to the most-recently-used end.
func (c *stickyCache) get(runID string) (*cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[runID]
	if !ok {
		return nil, false
	}
	c.order.MoveToBack(el)
	return el.Value.(*cacheEntry), true
}

// put inserts entry, evicting the least-recently-used entry whose queue is empty (per
// spec §4.4) if the cache is at capacity. evictable reports, for a given runID, whether
// it is currently safe to evict (its activation queue is empty); put calls it against
// candidates from the front of the list until it finds one or runs out of candidates,
// in which case the new entry is still admitted and the cache grows past capacity; no
// backpressure is applied.
func (c *stickyCache) put(entry *cacheEntry, evictable func(runID string) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[entry.runID]; ok {
		el.Value = entry
		c.order.MoveToBack(el)
		return
	}

	for c.order.Len() >= c.capacity {
		var victim *list.Element
		for el := c.order.Front(); el != nil; el = el.Next() {
			if evictable(el.Value.(*cacheEntry).runID) {
				victim = el
				break
			}
		}
		if victim == nil {
			// No cached entry is evictable; admit the new one past capacity.
			break
		}
		candidate := victim.Value.(*cacheEntry)
		candidate.executor.Close()
		delete(c.entries, candidate.runID)
		c.order.Remove(victim)
	}

	c.entries[entry.runID] = c.order.PushBack(entry)
}

// remove evicts runID unconditionally (used by the RemoveFromCache job, which always
// wins regardless of queue state).
func (c *stickyCache) remove(runID string) (*cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[runID]
	if !ok {
		return nil, false
	}
	c.order.Remove(el)
	delete(c.entries, runID)
	return el.Value.(*cacheEntry), true
}

func (c *stickyCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// engine owns the sticky cache and routes activations to the right instance,
// instantiating one on InitializeWorkflow and tearing it down on RemoveFromCache,
// exactly the cache/routing split spec §4.4 describes. internal_task_pollers.go's
// workflowTaskPoller (teacher snapshot) is this type's closest ancestor in spirit —
// poll, hand off, reply — but its concrete types never resolved in the retrieved pack,
// so engine is written fresh against the job/activation model above.
type engine struct {
	registry            *registry
	dataConverter        DataConverter
	contextPropagators  []ContextPropagator
	logger              log.Logger
	metricsScope        tally.Scope

	cache *stickyCache

	// NonStickyToStickyPollRatio is filled from engineOptions and
	// StickyScheduleToStartTimeout is left zero. Nothing reads either field: the worker
	// supervisor's pollers poll only the non-sticky task queue and apply no poll ratio
	// or sticky timeout.
	NonStickyToStickyPollRatio  float64
	StickyScheduleToStartTimeout int64 // nanoseconds; avoids importing time just for a default constant here

	nonDeterministicPolicy  NonDeterministicWorkflowPolicy
	nonDeterministicOverrides map[string]NonDeterministicWorkflowPolicy

	workerInterceptors []WorkerInterceptor
}

// engineOptions configures a new engine.
type engineOptions struct {
	Registry                   *registry
	DataConverter              DataConverter
	ContextPropagators         []ContextPropagator
	Logger                     log.Logger
	MetricsScope               tally.Scope
	StickyCacheSize            int
	NonStickyToStickyPollRatio float64
	NonDeterministicPolicy     NonDeterministicWorkflowPolicy
	NonDeterministicPolicyOverrides map[string]NonDeterministicWorkflowPolicy
	WorkerInterceptors         []WorkerInterceptor
}

func newEngine(opts engineOptions) *engine {
	ratio := opts.NonStickyToStickyPollRatio
	if ratio <= 0 {
		ratio = 0.2
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewDefaultLogger()
	}
	metricsScope := opts.MetricsScope
	if metricsScope == nil {
		metricsScope = tally.NoopScope
	}
	return &engine{
		registry:                   opts.Registry,
		dataConverter:              opts.DataConverter,
		contextPropagators:         opts.ContextPropagators,
		logger:                     logger,
		metricsScope:               metricsScope,
		cache:                      newStickyCache(opts.StickyCacheSize),
		NonStickyToStickyPollRatio: ratio,
		nonDeterministicPolicy:     opts.NonDeterministicPolicy,
		nonDeterministicOverrides:  opts.NonDeterministicPolicyOverrides,
		workerInterceptors:         opts.WorkerInterceptors,
	}
}

// ProcessActivation routes act to its cached instance, instantiating one first if
// act's leading job is InitializeWorkflow, per spec §4.4.
func (e *engine) ProcessActivation(act *WorkflowActivation) (*WorkflowActivationCompletion, error) {
	runID := act.WorkflowExecution.RunID

	if len(act.Jobs) > 0 && act.Jobs[0].Kind == jobKindRemoveFromCache {
		e.removeFromCache(runID)
		return &WorkflowActivationCompletion{}, nil
	}

	entry, cached := e.cache.get(runID)
	if !cached {
		if len(act.Jobs) == 0 || act.Jobs[0].Kind != jobKindInitializeWorkflow {
			return nil, fmt.Errorf("no cached workflow for run %s", runID)
		}
		var err error
		entry, err = e.instantiate(act)
		if err != nil {
			return nil, err
		}
		e.cache.put(entry, func(candidateRunID string) bool {
			// A candidate for eviction is safe to drop only once its dispatcher has
			// nothing left to run; an instance still mid-activation is never a
			// candidate because ProcessActivation only calls put after fully applying
			// the activation that created or last touched it.
			if candidateRunID == runID {
				return false
			}
			return true
		})
	}

	completion, err := entry.executor.Activation(act)
	if err != nil {
		return nil, err
	}
	if entry.executor.env.completed {
		e.removeFromCache(runID)
	}
	return completion, nil
}

func (e *engine) instantiate(act *WorkflowActivation) (*cacheEntry, error) {
	initJob := act.Jobs[0]
	params := initJob.StartAttributes
	if params == nil {
		return nil, fmt.Errorf("InitializeWorkflow job for run %s carries no start attributes", act.WorkflowExecution.RunID)
	}

	fn, ok := e.registry.GetWorkflow(params.WorkflowType.Name)
	if !ok {
		return nil, fmt.Errorf("unable to find workflow type: %s", params.WorkflowType.Name)
	}

	dc := params.DataConverter
	if dc == nil {
		dc = e.dataConverter
	}
	if dc == nil {
		dc = getDefaultDataConverter()
	}

	policy := e.nonDeterministicPolicy
	if override, ok := e.nonDeterministicOverrides[params.WorkflowType.Name]; ok {
		policy = override
	}

	env := &workflowEnvironmentImpl{
		registry:           e.registry,
		dataConverter:      dc,
		contextPropagators: e.contextPropagators,
		logger:             e.logger,
		metricsScope:       e.metricsScope,
		isReplaying:        act.IsReplaying,
		now:                act.Timestamp,
		info: &WorkflowInfo{
			WorkflowExecution:        act.WorkflowExecution,
			WorkflowType:             *params.WorkflowType,
			TaskQueueName:            params.TaskQueueName,
			WorkflowExecutionTimeout: params.WorkflowExecutionTimeout,
			WorkflowRunTimeout:       params.WorkflowRunTimeout,
			WorkflowTaskTimeout:      params.WorkflowTaskTimeout,
			Namespace:                params.Namespace,
			CronSchedule:             params.CronSchedule,
		},
		commandsHelper:     newCommandsHelper(),
		activityFutures:    make(map[int64]Settable),
		timerFutures:       make(map[string]Settable),
		childStartFutures:  make(map[string]Settable),
		childResultFutures: make(map[string]Settable),
		cancelFutures:      make(map[string]Settable),
		signalFutures:      make(map[string]Settable),
		signalChannels:     make(map[string]Channel),
		queryHandlers:      make(map[string]func(*commonpb.Payloads) (*commonpb.Payload, error)),
		updateHandlers:     make(map[string]updateHandlerFuncs),
		appliedPatches:     make(map[string]Version),
		nonDeterministicPolicy: policy,
		workerInterceptors: e.workerInterceptors,
	}

	executor := newWorkflowExecutor(params.WorkflowType.Name, fn, env)
	if err := executor.Execute(env, nil, params.Input); err != nil {
		return nil, err
	}

	return &cacheEntry{runID: act.WorkflowExecution.RunID, executor: executor}, nil
}

func (e *engine) removeFromCache(runID string) {
	entry, ok := e.cache.remove(runID)
	if !ok {
		return
	}
	entry.executor.Close()
}

// CacheSize reports how many instances are currently warm, exposed for worker metrics.
func (e *engine) CacheSize() int {
	return e.cache.size()
}
