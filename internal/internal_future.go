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
	commonpb "go.temporal.io/api/common/v1"
)

// futureImpl is the result of an asynchronous workflow operation (activity, timer,
// child workflow, signal-external). It resolves at most once; Get blocks the calling
// coroutine, via the dispatcher, until Set has been called.
type futureImpl struct {
	value    interface{}
	err      error
	ready    bool
	channel  *channelImpl
	chained  []*futureImpl
}

// NewFuture creates a Future/Settable pair. The caller holding the Settable resolves
// the future once; every coroutine calling Get is unblocked on the next scheduling
// turn after that.
func NewFuture(ctx Context) (Future, Settable) {
	f := &futureImpl{channel: &channelImpl{size: 1}}
	return f, f
}

func (f *futureImpl) IsReady() bool {
	return f.ready
}

func (f *futureImpl) Get(ctx Context, valuePtr interface{}) error {
	for !f.ready {
		state := coroutineStateFromContext(ctx)
		if state == nil {
			break
		}
		state.yield("blocked on future")
	}
	if f.err != nil {
		return f.err
	}
	if valuePtr == nil {
		return nil
	}
	if ptr, ok := valuePtr.(*interface{}); ok {
		*ptr = f.value
		return nil
	}
	// Activity, child workflow, and signal-external futures resolve with the raw
	// *commonpb.Payloads the activation carried; decode it into the caller's concrete
	// pointer the same way invokeWorkflowFunc decodes positional arguments. Futures
	// resolved via SetValue with an already-decoded Go value (e.g. timers, which
	// resolve with nil) fall through untouched.
	if payloads, ok := f.value.(*commonpb.Payloads); ok {
		env := getWorkflowEnvironment(ctx)
		if env == nil {
			return nil
		}
		ps := payloads.GetPayloads()
		if len(ps) == 0 {
			return nil
		}
		return env.GetDataConverter().FromPayload(ps[0], valuePtr)
	}
	return nil
}

func (f *futureImpl) Set(value interface{}, err error) {
	if f.ready {
		return
	}
	f.value = value
	f.err = err
	f.ready = true
	for _, c := range f.chained {
		c.Set(value, err)
	}
}

func (f *futureImpl) SetValue(value interface{}) {
	f.Set(value, nil)
}

func (f *futureImpl) SetError(err error) {
	f.Set(nil, err)
}

// Chain propagates future's eventual result to f once future resolves; used by
// ContinueAsNew-style forwarding where one future's outcome IS another's.
func (f *futureImpl) Chain(future Future) {
	other, ok := future.(*futureImpl)
	if !ok {
		return
	}
	if other.ready {
		f.Set(other.value, other.err)
		return
	}
	other.chained = append(other.chained, f)
}
