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

// channelImpl is a single-buffered-or-unbuffered handoff queue between coroutines of
// the same workflow dispatcher. Since only one coroutine ever runs at a time, no
// locking is needed: Send/Receive just manipulate a plain slice used as a ring buffer.
type channelImpl struct {
	size       int
	buffer     []interface{}
	closed     bool
	blockedSends    []func()
	blockedReceives []func(v interface{}, more bool)
}

// NewChannel creates an unbuffered Channel.
func NewChannel(ctx Context) Channel {
	return NewBufferedChannel(ctx, 0)
}

// NewBufferedChannel creates a Channel with the given buffer size.
func NewBufferedChannel(ctx Context, size int) Channel {
	return &channelImpl{size: size}
}

func (c *channelImpl) Send(ctx Context, v interface{}) {
	if c.closed {
		panic("Send on closed channel")
	}
	if len(c.blockedReceives) > 0 {
		recv := c.blockedReceives[0]
		c.blockedReceives = c.blockedReceives[1:]
		recv(v, true)
		return
	}
	c.buffer = append(c.buffer, v)
	state := coroutineStateFromContext(ctx)
	for len(c.buffer) > c.size && state != nil {
		state.yield("blocked on channel send")
	}
}

func (c *channelImpl) SendAsync(v interface{}) (ok bool) {
	if c.closed {
		return false
	}
	if len(c.blockedReceives) > 0 {
		recv := c.blockedReceives[0]
		c.blockedReceives = c.blockedReceives[1:]
		recv(v, true)
		return true
	}
	if len(c.buffer) >= c.size+1 && c.size == 0 {
		return false
	}
	c.buffer = append(c.buffer, v)
	return true
}

func (c *channelImpl) Receive(ctx Context, valuePtr interface{}) (more bool) {
	for {
		if ok, more := c.ReceiveAsyncWithMoreFlag(valuePtr); ok || !more {
			return more
		}
		state := coroutineStateFromContext(ctx)
		if state == nil {
			return false
		}
		state.yield("blocked on channel receive")
	}
}

func (c *channelImpl) ReceiveAsync(valuePtr interface{}) (ok bool) {
	ok, _ = c.ReceiveAsyncWithMoreFlag(valuePtr)
	return ok
}

func (c *channelImpl) ReceiveAsyncWithMoreFlag(valuePtr interface{}) (ok bool, more bool) {
	if len(c.buffer) == 0 {
		if c.closed {
			return false, false
		}
		return false, true
	}
	v := c.buffer[0]
	c.buffer = c.buffer[1:]
	assignChannelValue(v, valuePtr)
	return true, true
}

func (c *channelImpl) Close() {
	c.closed = true
}

func assignChannelValue(v interface{}, valuePtr interface{}) {
	if valuePtr == nil {
		return
	}
	switch ptr := valuePtr.(type) {
	case *interface{}:
		*ptr = v
	default:
		// A signal channel (GetSignalChannel) carries the raw *commonpb.Payloads an
		// activation job delivered; decode it into the caller's concrete destination the
		// same way invokeWorkflowFunc and futureImpl.Get decode activity/workflow
		// arguments. This path has no Context to read a per-workflow DataConverter from
		// (ReceiveAsync/Select callers don't carry one), so it always uses the default
		// converter; a workflow using a custom converter must decode via *interface{}
		// and convert manually.
		if payloads, ok := v.(*commonpb.Payloads); ok {
			if ps := payloads.GetPayloads(); len(ps) > 0 {
				_ = getDefaultDataConverter().FromPayload(ps[0], valuePtr)
			}
			return
		}
		if setter, ok := valuePtr.(interface{ setChannelValue(interface{}) }); ok {
			setter.setChannelValue(v)
		}
	}
}

// waitGroupImpl is the deterministic analogue of sync.WaitGroup, built on a channel so
// Wait participates in the same cooperative scheduling as everything else.
type waitGroupImpl struct {
	n  int
	ch Channel
}

// NewWaitGroup creates a WaitGroup bound to ctx's dispatcher.
func NewWaitGroup(ctx Context) WaitGroup {
	return &waitGroupImpl{ch: NewChannel(ctx)}
}

func (wg *waitGroupImpl) Add(delta int) {
	wg.n += delta
}

func (wg *waitGroupImpl) Done() {
	wg.n--
	if wg.n <= 0 {
		wg.ch.SendAsync(struct{}{})
	}
}

func (wg *waitGroupImpl) Wait(ctx Context) {
	if wg.n <= 0 {
		return
	}
	var v interface{}
	wg.ch.Receive(ctx, &v)
}

// selectorImpl implements Selector by polling each registered branch until one of them
// is ready, yielding control back to the dispatcher between polls.
type selectorImpl struct {
	cases       []selectorCase
	defaultFunc func()
}

type selectorCase struct {
	channel    Channel
	send       bool
	sendValue  interface{}
	onReceive  func(c Channel, more bool)
	onSend     func()
	future     Future
	onFuture   func(f Future)
}

// NewSelector creates an empty Selector bound to ctx's dispatcher.
func NewSelector(ctx Context) Selector {
	return &selectorImpl{}
}

func (s *selectorImpl) AddReceive(c Channel, f func(c Channel, more bool)) Selector {
	s.cases = append(s.cases, selectorCase{channel: c, onReceive: f})
	return s
}

func (s *selectorImpl) AddSend(c Channel, v interface{}, f func()) Selector {
	s.cases = append(s.cases, selectorCase{channel: c, send: true, sendValue: v, onSend: f})
	return s
}

func (s *selectorImpl) AddFuture(future Future, f func(f Future)) Selector {
	s.cases = append(s.cases, selectorCase{future: future, onFuture: f})
	return s
}

func (s *selectorImpl) AddDefault(f func()) {
	s.defaultFunc = f
}

func (s *selectorImpl) Select(ctx Context) {
	for {
		for _, c := range s.cases {
			switch {
			case c.future != nil:
				if c.future.IsReady() {
					c.onFuture(c.future)
					return
				}
			case c.send:
				if c.channel.SendAsync(c.sendValue) {
					c.onSend()
					return
				}
			default:
				impl, ok := c.channel.(*channelImpl)
				if ok {
					var v interface{}
					if ok, more := impl.ReceiveAsyncWithMoreFlag(&v); ok || !more {
						c.onReceive(c.channel, more)
						return
					}
				}
			}
		}
		if s.defaultFunc != nil {
			s.defaultFunc()
			return
		}
		state := coroutineStateFromContext(ctx)
		if state == nil {
			return
		}
		state.yield("blocked on select")
	}
}
