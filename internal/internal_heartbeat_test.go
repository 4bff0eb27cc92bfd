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
	"sync"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/require"

	"go.temporal.io/sdk-core/internal/log"
)

func TestThrottleInterval(t *testing.T) {
	require.Equal(t, 30*time.Second, throttleInterval(30*time.Second, 10*time.Second))
	require.Equal(t, 45*time.Second, throttleInterval(30*time.Second, 45*time.Second))
	require.Equal(t, 30*time.Second, throttleInterval(30*time.Second, 30*time.Second))
}

// awaitCondition polls cond until it returns true or the deadline passes, giving the
// controller's background sender goroutine a chance to run without the test hardcoding
// a sleep duration long enough on every machine.
func awaitCondition(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.True(t, cond(), "condition never became true")
}

func TestHeartbeatController_ThrottlesBurst(t *testing.T) {
	mock := clock.NewMock()
	var sends int
	var mu sync.Mutex
	send := func(ctx context.Context, taskToken []byte, details ...interface{}) (bool, error) {
		mu.Lock()
		sends++
		mu.Unlock()
		return false, nil
	}

	hc := newHeartbeatController(mock, send, []byte("token"), 2*time.Second, log.NewDefaultLogger())
	defer hc.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, hc.RecordHeartbeat(context.Background(), i))
	}

	awaitCondition(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return sends == 1
	})
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	got := sends
	mu.Unlock()
	require.Equal(t, 1, got, "only the first heartbeat in a burst should send")
}

// TestHeartbeatController_BurstSendsLatestDetails mirrors the rapid-heartbeat scenario:
// several heartbeats recorded faster than the controller can send must result in
// exactly one transmission, carrying the most recently recorded details rather than
// the first or any intermediate one.
func TestHeartbeatController_BurstSendsLatestDetails(t *testing.T) {
	mock := clock.NewMock()
	var mu sync.Mutex
	var sent []interface{}
	sends := 0
	send := func(ctx context.Context, taskToken []byte, details ...interface{}) (bool, error) {
		mu.Lock()
		sends++
		sent = details
		mu.Unlock()
		return false, nil
	}

	hc := newHeartbeatController(mock, send, []byte("token"), 2*time.Second, log.NewDefaultLogger())
	defer hc.Close()

	for i := 1; i <= 4; i++ {
		require.NoError(t, hc.RecordHeartbeat(context.Background(), fmt.Sprintf("Heartbeat %d", i)))
	}

	awaitCondition(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return sends >= 1
	})
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, sends)
	require.Equal(t, []interface{}{"Heartbeat 4"}, sent)
}

func TestHeartbeatController_ResendsAfterInterval(t *testing.T) {
	mock := clock.NewMock()
	var sends int
	var mu sync.Mutex
	send := func(ctx context.Context, taskToken []byte, details ...interface{}) (bool, error) {
		mu.Lock()
		sends++
		mu.Unlock()
		return false, nil
	}

	hc := newHeartbeatController(mock, send, []byte("token"), 2*time.Second, log.NewDefaultLogger())
	defer hc.Close()

	require.NoError(t, hc.RecordHeartbeat(context.Background(), "first"))
	awaitCondition(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return sends == 1
	})

	mock.Add(defaultHeartbeatInterval + time.Second)
	require.NoError(t, hc.RecordHeartbeat(context.Background(), "second"))

	awaitCondition(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return sends == 2
	})
}

func TestHeartbeatController_ServerCancelSurfaces(t *testing.T) {
	mock := clock.NewMock()
	send := func(ctx context.Context, taskToken []byte, details ...interface{}) (bool, error) {
		return true, nil
	}
	hc := newHeartbeatController(mock, send, []byte("token"), 0, log.NewDefaultLogger())
	defer hc.Close()

	require.NoError(t, hc.RecordHeartbeat(context.Background()))

	select {
	case reason := <-hc.Canceled():
		require.Equal(t, CancelReasonServerRequested, reason)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a cancellation to be queued")
	}
}

func TestHeartbeatController_ClosedDropsHeartbeats(t *testing.T) {
	mock := clock.NewMock()
	called := false
	send := func(ctx context.Context, taskToken []byte, details ...interface{}) (bool, error) {
		called = true
		return false, nil
	}
	hc := newHeartbeatController(mock, send, []byte("token"), 0, log.NewDefaultLogger())
	hc.Close()
	require.NoError(t, hc.RecordHeartbeat(context.Background(), "ignored"))
	require.False(t, called)
}

func TestCancelReason_String(t *testing.T) {
	require.Equal(t, "ServerRequested", CancelReasonServerRequested.String())
	require.Equal(t, "Timeout", CancelReasonTimeout.String())
	require.Equal(t, "WorkerShutdown", CancelReasonWorkerShutdown.String())
	require.Equal(t, "HeartbeatRecordFailure", CancelReasonHeartbeatRecordFailure.String())
	require.Equal(t, "Paused", CancelReasonPaused.String())
}
