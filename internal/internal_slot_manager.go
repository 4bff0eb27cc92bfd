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

	"go.uber.org/atomic"
)

// slotKind identifies which of the three bounded pools a slot belongs to.
type slotKind int

const (
	slotKindWorkflow slotKind = iota
	slotKindActivity
	slotKindLocalActivity
)

func (k slotKind) String() string {
	switch k {
	case slotKindWorkflow:
		return "workflow"
	case slotKindActivity:
		return "activity"
	case slotKindLocalActivity:
		return "local_activity"
	default:
		return "unknown"
	}
}

// PollerBehavior selects how a poller pool sizes itself against the slot supply it is
// feeding. SimpleMaximum keeps a fixed poller count; Autoscaling carries a floor,
// ceiling and starting count, of which the supervisor uses only the starting count.
type PollerBehavior interface {
	pollerBehavior()
}

// PollerBehaviorSimpleMaximum runs exactly MaxConcurrentTaskPollers poll loops for the
// life of the worker.
type PollerBehaviorSimpleMaximum struct {
	MaxConcurrentTaskPollers int
}

func (PollerBehaviorSimpleMaximum) pollerBehavior() {}

// PollerBehaviorAutoscaling starts Initial poll loops. The count is not adjusted after
// start: Minimum and Maximum are not read by the supervisor, and no slot-pressure or
// server-feedback signal grows or shrinks it.
type PollerBehaviorAutoscaling struct {
	Minimum int
	Maximum int
	Initial int
}

func (PollerBehaviorAutoscaling) pollerBehavior() {}

// slotPool is a bounded concurrency pool: a buffered channel of tokens acts as the
// semaphore, and an atomic counter tracks in-flight permits for introspection
// (WorkerStatus, autoscaling decisions) without taking a lock.
type slotPool struct {
	kind    slotKind
	tokens  chan struct{}
	inUse   atomic.Int64
	issued  atomic.Int64
}

func newSlotPool(kind slotKind, capacity int) *slotPool {
	p := &slotPool{
		kind:   kind,
		tokens: make(chan struct{}, capacity),
	}
	for i := 0; i < capacity; i++ {
		p.tokens <- struct{}{}
	}
	return p
}

// Acquire blocks until a slot is available or ctx is done. On success the caller must
// call Release exactly once.
func (p *slotPool) Acquire(ctx context.Context) error {
	select {
	case <-p.tokens:
		p.inUse.Inc()
		p.issued.Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire acquires a slot without blocking, reporting false if none are free.
func (p *slotPool) TryAcquire() bool {
	select {
	case <-p.tokens:
		p.inUse.Inc()
		p.issued.Inc()
		return true
	default:
		return false
	}
}

// Release returns a slot to the pool. Calling Release without a matching successful
// Acquire/TryAcquire adds a surplus token (raising the effective capacity), or blocks
// forever if every token is already back in the pool; callers must track their own
// acquisition state (the worker supervisor does this per in-flight task).
func (p *slotPool) Release() {
	p.inUse.Dec()
	p.tokens <- struct{}{}
}

// InUse reports the number of slots currently held.
func (p *slotPool) InUse() int64 {
	return p.inUse.Load()
}

// Capacity reports the pool's total size.
func (p *slotPool) Capacity() int {
	return cap(p.tokens)
}

// TotalIssued reports the lifetime count of successful acquires, monotonically
// increasing.
func (p *slotPool) TotalIssued() int64 {
	return p.issued.Load()
}

// slotManager owns the three slot pools a worker needs: workflow task execution,
// activity task execution, and local activity execution. Each pool is sized
// independently so a slow activity backlog cannot starve workflow task progress.
type slotManager struct {
	workflow       *slotPool
	activity       *slotPool
	localActivity  *slotPool
}

// slotManagerOptions mirrors worker.Options' MaxConcurrentWorkflowTaskExecutionSize
// and friends; zero means "use the package default".
type slotManagerOptions struct {
	MaxConcurrentWorkflowTaskExecutionSize int
	MaxConcurrentActivityExecutionSize     int
	MaxConcurrentLocalActivityExecutionSize int
}

const (
	defaultMaxConcurrentWorkflowTaskExecutionSize  = 1000
	defaultMaxConcurrentActivityExecutionSize      = 1000
	defaultMaxConcurrentLocalActivityExecutionSize = 1000
)

func newSlotManager(opts slotManagerOptions) *slotManager {
	wf := opts.MaxConcurrentWorkflowTaskExecutionSize
	if wf <= 0 {
		wf = defaultMaxConcurrentWorkflowTaskExecutionSize
	}
	act := opts.MaxConcurrentActivityExecutionSize
	if act <= 0 {
		act = defaultMaxConcurrentActivityExecutionSize
	}
	la := opts.MaxConcurrentLocalActivityExecutionSize
	if la <= 0 {
		la = defaultMaxConcurrentLocalActivityExecutionSize
	}

	return &slotManager{
		workflow:      newSlotPool(slotKindWorkflow, wf),
		activity:      newSlotPool(slotKindActivity, act),
		localActivity: newSlotPool(slotKindLocalActivity, la),
	}
}

// poolFor returns the pool backing the given slot kind.
func (m *slotManager) poolFor(kind slotKind) *slotPool {
	switch kind {
	case slotKindWorkflow:
		return m.workflow
	case slotKindActivity:
		return m.activity
	case slotKindLocalActivity:
		return m.localActivity
	default:
		return nil
	}
}
