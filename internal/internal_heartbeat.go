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
	"sync"
	"time"

	"github.com/facebookgo/clock"

	"go.temporal.io/sdk-core/internal/log"
)

// CancelReason names why a running activity was asked to stop, surfaced to activity
// code via the heartbeat error path so it can tell a server cancellation apart from a
// worker shutting down.
type CancelReason int

const (
	// CancelReasonServerRequested means CancelWorkflow or a workflow-side
	// RequestCancelActivity command reached the server and the server told the next
	// heartbeat to cancel.
	CancelReasonServerRequested CancelReason = iota
	// CancelReasonTimeout means the activity exceeded one of its configured timeouts.
	CancelReasonTimeout
	// CancelReasonWorkerShutdown means the worker hosting the activity is draining.
	CancelReasonWorkerShutdown
	// CancelReasonHeartbeatRecordFailure means the heartbeat record call itself kept
	// failing, and the SDK gave up waiting for the server to confirm liveness.
	CancelReasonHeartbeatRecordFailure
	// CancelReasonPaused means the activity's task queue or type was paused.
	CancelReasonPaused
)

func (r CancelReason) String() string {
	switch r {
	case CancelReasonServerRequested:
		return "ServerRequested"
	case CancelReasonTimeout:
		return "Timeout"
	case CancelReasonWorkerShutdown:
		return "WorkerShutdown"
	case CancelReasonHeartbeatRecordFailure:
		return "HeartbeatRecordFailure"
	case CancelReasonPaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// heartbeatSender is the narrow slice of Client a heartbeatController needs, so tests
// can fake it without standing up a whole workflowClient.
type heartbeatSender func(ctx context.Context, taskToken []byte, details ...interface{}) (cancelRequested bool, err error)

// heartbeatController owns heartbeat coalescing/throttling for one in-flight activity
// task: RecordHeartbeat may be called arbitrarily often by user code, but the
// controller only ever has at most one record call in flight, sent no more often than
// every max(defaultInterval, suggestedInterval/2) as the spec's backoff formula
// requires. The actual network send always runs on the controller's own goroutine,
// never inline in the caller's RecordHeartbeat call: RecordHeartbeat only replaces the
// buffered details and wakes the sender, so a burst of calls that arrive faster than
// one send can complete always ends up transmitting whatever was most recently
// recorded by the time the sender gets to look, never a stale earlier call's payload.
type heartbeatController struct {
	mu        sync.Mutex
	clock     clock.Clock
	send      heartbeatSender
	taskToken []byte
	logger    log.Logger

	defaultInterval time.Duration
	interval        time.Duration

	pending    bool
	details    []interface{}
	lastSentAt time.Time
	inFlight   bool
	cancelCh   chan CancelReason
	closed     bool

	wakeCh chan struct{}
	doneCh chan struct{}
}

// newHeartbeatController builds a controller for one task and starts its background
// sender goroutine; Close must be called once the task is done to stop it.
// defaultInterval is the floor throttle period used until the server suggests a
// heartbeat_timeout-derived interval via a completed RecordActivityTaskHeartbeat
// response (there is no such signal in the current RPC surface, so the floor is also
// the steady-state period unless a caller supplies a heartbeat timeout up front).
func newHeartbeatController(c clock.Clock, send heartbeatSender, taskToken []byte, heartbeatTimeout time.Duration, logger log.Logger) *heartbeatController {
	if c == nil {
		c = clock.New()
	}
	interval := heartbeatTimeout / 2
	if interval <= 0 {
		interval = defaultHeartbeatInterval
	}
	h := &heartbeatController{
		clock:           c,
		send:            send,
		taskToken:       taskToken,
		logger:          logger,
		defaultInterval: defaultHeartbeatInterval,
		interval:        throttleInterval(defaultHeartbeatInterval, interval),
		cancelCh:        make(chan CancelReason, 1),
		wakeCh:          make(chan struct{}, 1),
		doneCh:          make(chan struct{}),
	}
	go h.run()
	return h
}

const defaultHeartbeatInterval = 30 * time.Second

// throttleInterval returns the larger of the default floor and suggested. The caller
// passes suggested already halved (heartbeat timeout / 2), so the combined period is
// max(default floor, heartbeat timeout / 2).
func throttleInterval(defaultInterval, suggested time.Duration) time.Duration {
	half := suggested
	if half < defaultInterval {
		return defaultInterval
	}
	return half
}

// RecordHeartbeat replaces the buffered details with the latest call's and wakes the
// sender goroutine; it never performs the network call itself, so a caller recording
// several heartbeats back to back never blocks on one of them reaching the server.
func (h *heartbeatController) RecordHeartbeat(ctx context.Context, details ...interface{}) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.details = details
	h.pending = true
	h.mu.Unlock()

	h.wake()
	return nil
}

func (h *heartbeatController) wake() {
	select {
	case h.wakeCh <- struct{}{}:
	default:
	}
}

// run is the controller's sender loop: it wakes whenever RecordHeartbeat signals new
// details, or when a throttle timer it armed itself expires, and on each wake decides
// whether it's allowed to send yet. Because the payload is read fresh from h.details
// at the moment a send actually starts (never captured earlier), the most recently
// recorded details always win even if several RecordHeartbeat calls raced ahead of the
// sender while it was busy or throttled.
func (h *heartbeatController) run() {
	ctx := context.Background()
	for {
		h.mu.Lock()
		if h.closed {
			h.mu.Unlock()
			return
		}
		ready := h.pending && !h.inFlight
		wait := h.interval - h.clock.Now().Sub(h.lastSentAt)
		h.mu.Unlock()

		if ready && wait <= 0 {
			h.sendOnce(ctx)
			continue
		}

		var timerC <-chan time.Time
		var timer *clock.Timer
		if ready {
			timer = h.clock.Timer(wait)
			timerC = timer.C
		}

		select {
		case <-h.doneCh:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-h.wakeCh:
			if timer != nil {
				timer.Stop()
			}
		case <-timerC:
		}
	}
}

// sendOnce performs exactly one network heartbeat with whatever details are currently
// buffered and is only ever called from run, so at most one send is ever in flight.
func (h *heartbeatController) sendOnce(ctx context.Context) {
	h.mu.Lock()
	if h.closed || !h.pending || h.inFlight {
		h.mu.Unlock()
		return
	}
	details := h.details
	h.pending = false
	h.inFlight = true
	h.mu.Unlock()

	cancelRequested, err := h.send(ctx, h.taskToken, details...)

	h.mu.Lock()
	h.inFlight = false
	if err == nil {
		h.lastSentAt = h.clock.Now()
	}
	h.mu.Unlock()

	if err != nil {
		if h.logger != nil {
			h.logger.Warn("failed to record activity heartbeat", "error", err)
		}
		h.wake()
		return
	}
	if cancelRequested {
		h.requestCancel(CancelReasonServerRequested)
	}
}

func (h *heartbeatController) requestCancel(reason CancelReason) {
	select {
	case h.cancelCh <- reason:
	default:
	}
}

// Canceled returns a channel that receives exactly once, with the reason the activity
// was asked to stop.
func (h *heartbeatController) Canceled() <-chan CancelReason {
	return h.cancelCh
}

// Close stops the sender goroutine; any send already in flight completes but no
// further heartbeat is ever transmitted afterward.
func (h *heartbeatController) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()
	close(h.doneCh)
}
