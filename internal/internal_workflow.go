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
	"runtime/debug"
	"sync"
	"time"
)

type (
	// Context is the workflow's analogue of context.Context: cancellation, deadlines, and
	// values flow through it, but it must never be used outside of workflow code, since its
	// Done channel is driven by the deterministic dispatcher rather than a real clock.
	Context interface {
		Deadline() (deadline time.Time, ok bool)
		Done() Channel
		Err() error
		Value(key interface{}) interface{}
	}

	// Channel is workflow code's substitute for a Go channel: sends and receives are
	// routed through the dispatcher so that two coroutines never actually run
	// concurrently, keeping workflow execution replay-deterministic.
	Channel interface {
		Receive(ctx Context, valuePtr interface{}) (more bool)
		ReceiveAsync(valuePtr interface{}) (ok bool)
		ReceiveAsyncWithMoreFlag(valuePtr interface{}) (ok bool, more bool)
		Send(ctx Context, v interface{})
		SendAsync(v interface{}) (ok bool)
		Close()
	}

	// Selector waits on the first ready of several registered futures/channels, the
	// workflow equivalent of a select statement across non-deterministic goroutines.
	Selector interface {
		AddReceive(c Channel, f func(c Channel, more bool)) Selector
		AddSend(c Channel, v interface{}, f func()) Selector
		AddFuture(future Future, f func(f Future)) Selector
		AddDefault(f func())
		Select(ctx Context)
	}

	// Future represents the result of an asynchronous computation (activity, timer,
	// child workflow). Get blocks the calling coroutine until the result is ready.
	Future interface {
		Get(ctx Context, valuePtr interface{}) error
		IsReady() bool
	}

	// Settable is the write side of a Future, used by internal command callbacks to
	// resolve the future once an activation event produces a result.
	Settable interface {
		Set(value interface{}, err error)
		SetValue(value interface{})
		SetError(err error)
		Chain(future Future)
	}

	// WaitGroup mirrors sync.WaitGroup for deterministic workflow code.
	WaitGroup interface {
		Add(delta int)
		Done()
		Wait(ctx Context)
	}

	// Version identifies which branch of a GetVersion-guarded code change is in effect
	// for a particular changeID, recorded via a marker so replay takes the same branch.
	Version int32

	// WorkflowType carries the registered workflow type name across the dispatch,
	// command, and client layers.
	WorkflowType struct {
		Name string
	}
)

// DefaultVersion (-1) is the Version value that stands for "no change applied".
// GetVersion does not return it: the first call for a changeID records and returns
// maxSupported.
const DefaultVersion Version = -1

type contextKey int

const (
	valuesCtxKey contextKey = iota
	coroutineStateCtxKey
)

type valueCtx struct {
	Context
	key, val interface{}
}

func (v *valueCtx) Value(key interface{}) interface{} {
	if v.key == key {
		return v.val
	}
	return v.Context.Value(key)
}

// WithValue returns a Context with key bound to val, the workflow-context equivalent
// of context.WithValue.
func WithValue(parent Context, key interface{}, val interface{}) Context {
	return &valueCtx{Context: parent, key: key, val: val}
}

// background is the root Context every workflow dispatch starts from; it is never
// done and carries no values of its own.
type background struct{}

func (*background) Deadline() (time.Time, bool) { return time.Time{}, false }
func (*background) Done() Channel               { return nil }
func (*background) Err() error                  { return nil }
func (*background) Value(interface{}) interface{} {
	return nil
}

// Background returns an empty root Context for a new workflow dispatch.
func Background() Context {
	return &background{}
}

// panicError is recorded by the dispatcher when a coroutine panics, so the owning
// workflow task can be failed with the panic's message and stack trace instead of
// crashing the worker process.
type panicError struct {
	value      interface{}
	stackTrace string
}

func (p *panicError) Error() string      { return fmt.Sprintf("%v", p.value) }
func (p *panicError) StackTrace() string { return p.stackTrace }

// coroutineState is one schedulable unit of workflow code, always a goroutine, but
// handed off cooperatively: the dispatcher only ever lets one coroutine run at a time,
// using unblock/aboutToBlock channels to pass control back and forth.
type coroutineState struct {
	name         string
	id           int64
	unblock      chan unblockFunc
	aboutToBlock chan bool
	closed       bool
	done         bool
	err          error
	dispatcher   *dispatcherImpl
}

type unblockFunc func(status string) (keepBlocked bool)

// yield parks the calling coroutine: it tells the dispatcher (blocked in
// ExecuteUntilAllBlocked, waiting on aboutToBlock) that this coroutine has nothing
// left to do this turn, then waits for the next turn's unblockFunc. Every blocking
// primitive (Channel.Receive/Send, Future.Get, Selector.Select, Await) calls this
// instead of re-entering ExecuteUntilAllBlocked directly — that call runs on the
// dispatcher's own goroutine, not the coroutine's, so calling it from inside the
// coroutine that's already mid-turn would try to hand this same coroutine a second
// unblock signal nobody is left to send.
func (s *coroutineState) yield(status string) {
	for {
		s.aboutToBlock <- true
		f := <-s.unblock
		if !f(status) {
			return
		}
	}
}

// coroutineStateFromContext returns the coroutineState running the calling goroutine,
// bound into ctx by newCoroutine. Returns nil outside of any dispatcher-owned goroutine.
func coroutineStateFromContext(ctx Context) *coroutineState {
	s, _ := ctx.Value(coroutineStateCtxKey).(*coroutineState)
	return s
}

// dispatcherImpl owns the full set of coroutines for one workflow instance and drives
// them one at a time until every coroutine is blocked (ExecuteUntilAllBlocked) or the
// workflow completes.
type dispatcherImpl struct {
	mutex       sync.Mutex
	sequence    int64
	coroutines  []*coroutineState
	closed      bool
}

func newDispatcher(ctx Context, root func(ctx Context)) (Context, *dispatcherImpl) {
	d := &dispatcherImpl{}
	rootCtx := WithValue(ctx, valuesCtxKey, d)
	d.newCoroutine(rootCtx, "root", root)
	return rootCtx, d
}

func dispatcherFromContext(ctx Context) *dispatcherImpl {
	d, _ := ctx.Value(valuesCtxKey).(*dispatcherImpl)
	return d
}

func (d *dispatcherImpl) newCoroutine(ctx Context, name string, f func(ctx Context)) *coroutineState {
	d.mutex.Lock()
	d.sequence++
	id := d.sequence
	d.mutex.Unlock()

	state := &coroutineState{
		name:         name,
		id:           id,
		unblock:      make(chan unblockFunc),
		aboutToBlock: make(chan bool, 1),
		dispatcher:   d,
	}

	d.mutex.Lock()
	d.coroutines = append(d.coroutines, state)
	d.mutex.Unlock()

	coroutineCtx := WithValue(ctx, coroutineStateCtxKey, state)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				state.err = &panicError{value: r, stackTrace: string(debug.Stack())}
			}
			state.done = true
			state.aboutToBlock <- true
		}()
		// Wait for the first scheduling turn before running any user code, so coroutine
		// creation never races with the dispatcher's own bookkeeping.
		<-state.unblock
		f(coroutineCtx)
	}()

	return state
}

// Go starts a new coroutine as part of ctx's dispatcher, the workflow analogue of the
// go statement.
func Go(ctx Context, name string, f func(ctx Context)) {
	d := dispatcherFromContext(ctx)
	if d == nil {
		panic("Go called outside of workflow dispatcher context")
	}
	d.newCoroutine(ctx, name, f)
}

// ExecuteUntilAllBlocked runs every runnable coroutine in turn until each is blocked
// (or finished), returning any panic captured from a coroutine along the way. A single
// sweep isn't enough: a coroutine's turn can unblock another one that already had its
// turn this activation (an update's execute phase setting a flag a root-level Await is
// waiting on, a Go()-spawned coroutine sending on a channel a sibling already polled),
// so sweeps repeat until one completes no coroutine and spawns none, meaning nothing
// left could possibly make progress.
func (d *dispatcherImpl) ExecuteUntilAllBlocked() (err error) {
	for {
		d.mutex.Lock()
		coroutines := make([]*coroutineState, len(d.coroutines))
		copy(coroutines, d.coroutines)
		startCount := len(coroutines)
		d.mutex.Unlock()

		anyFinished := false
		for _, c := range coroutines {
			if c.done {
				continue
			}
			c.unblock <- func(status string) bool { return false }
			<-c.aboutToBlock
			if c.err != nil {
				return c.err
			}
			if c.done {
				anyFinished = true
			}
		}

		d.mutex.Lock()
		alive := d.coroutines[:0]
		for _, c := range d.coroutines {
			if !c.done {
				alive = append(alive, c)
			}
		}
		d.coroutines = alive
		endCount := len(d.coroutines)
		d.mutex.Unlock()

		if endCount == 0 {
			return nil
		}
		if !anyFinished && endCount == startCount {
			return nil
		}
	}
}

// IsDone reports whether every coroutine owned by the dispatcher has finished.
func (d *dispatcherImpl) IsDone() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.coroutines) == 0
}

// Close marks the dispatcher closed; any coroutine still blocked at this point is a
// workflow that never finished draining (usually because the workflow is deadlocked),
// and is abandoned rather than forcibly unblocked.
func (d *dispatcherImpl) Close() {
	d.mutex.Lock()
	d.closed = true
	d.mutex.Unlock()
}
