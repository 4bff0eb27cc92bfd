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
	"testing"

	"github.com/stretchr/testify/require"
	commandpb "go.temporal.io/api/command/v1"
	enumspb "go.temporal.io/api/enums/v1"
)

func Test_TimerStateMachine_CancelBeforeSent(t *testing.T) {
	timerID := "test-timer-1"
	attributes := &commandpb.StartTimerCommandAttributes{TimerId: timerID}
	h := newCommandsHelper()
	d := h.startTimer(attributes)
	require.Equal(t, commandStateCreated, d.getState())
	h.cancelTimer(timerID)
	require.Equal(t, commandStateCompleted, d.getState())
	commands := h.getCommands(true)
	require.Equal(t, 0, len(commands))
}

func Test_TimerStateMachine_CancelAfterInitiated(t *testing.T) {
	timerID := "test-timer-1"
	attributes := &commandpb.StartTimerCommandAttributes{TimerId: timerID}
	h := newCommandsHelper()
	d := h.startTimer(attributes)
	require.Equal(t, commandStateCreated, d.getState())
	commands := h.getCommands(true)
	require.Equal(t, commandStateCommandSent, d.getState())
	require.Equal(t, 1, len(commands))
	require.Equal(t, enumspb.COMMAND_TYPE_START_TIMER, commands[0].GetCommandType())
	require.Equal(t, attributes, commands[0].GetStartTimerCommandAttributes())
	h.handleTimerStarted(timerID)
	require.Equal(t, commandStateInitiated, d.getState())
	h.cancelTimer(timerID)
	require.Equal(t, commandStateCanceledAfterInitiated, d.getState())
	commands = h.getCommands(true)
	require.Equal(t, 1, len(commands))
	require.Equal(t, enumspb.COMMAND_TYPE_CANCEL_TIMER, commands[0].GetCommandType())
	require.Equal(t, commandStateCancellationCommandSent, d.getState())
	h.handleTimerCanceled(timerID)
	require.Equal(t, commandStateCompleted, d.getState())
}

func Test_TimerStateMachine_CompletedAfterCancel(t *testing.T) {
	timerID := "test-timer-1"
	attributes := &commandpb.StartTimerCommandAttributes{TimerId: timerID}
	h := newCommandsHelper()
	d := h.startTimer(attributes)
	require.Equal(t, commandStateCreated, d.getState())
	commands := h.getCommands(true)
	require.Equal(t, commandStateCommandSent, d.getState())
	require.Equal(t, 1, len(commands))
	h.handleTimerStarted(timerID)
	require.Equal(t, commandStateInitiated, d.getState())
	h.cancelTimer(timerID)
	commands = h.getCommands(true)
	require.Equal(t, commandStateCancellationCommandSent, d.getState())
	require.Equal(t, 1, len(commands))
	h.handleTimerClosed(timerID)
	require.Equal(t, commandStateCompletedAfterCancellationCommandSent, d.getState())
}

func Test_ActivityStateMachine_Basic(t *testing.T) {
	h := newCommandsHelper()
	scheduleID := h.getNextID()
	attrs := &commandpb.ScheduleActivityTaskCommandAttributes{ActivityId: "act-1"}
	d := h.scheduleActivityTask(scheduleID, attrs)
	require.Equal(t, commandStateCreated, d.getState())

	commands := h.getCommands(true)
	require.Equal(t, 1, len(commands))
	require.Equal(t, enumspb.COMMAND_TYPE_SCHEDULE_ACTIVITY_TASK, commands[0].GetCommandType())
	require.Equal(t, commandStateCommandSent, d.getState())

	h.handleActivityTaskScheduled(scheduleID, "act-1")
	require.Equal(t, commandStateInitiated, d.getState())

	h.handleActivityTaskClosed("act-1")
	require.Equal(t, commandStateCompleted, d.getState())
	require.Equal(t, 0, len(h.getCommands(true)))
}

func Test_CommandsHelper_NextCommandEventID_StartsAtOne(t *testing.T) {
	h := newCommandsHelper()
	require.Equal(t, int64(1), h.getNextID())
	h.startTimer(&commandpb.StartTimerCommandAttributes{TimerId: "t"})
	require.Equal(t, int64(2), h.getNextID())
}
