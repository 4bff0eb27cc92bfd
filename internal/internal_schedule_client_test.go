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
)

func scheduledWorkflow(ctx Context) error { return nil }

func newTestWorkflowClientForSchedules(t *testing.T) *workflowClient {
	r := newRegistry()
	r.RegisterWorkflow(scheduledWorkflow)
	return &workflowClient{
		namespace:     "test-namespace",
		registry:      r,
		dataConverter: getDefaultDataConverter(),
		identity:      "test-identity",
	}
}

func TestBuildSchedule_RejectsInvalidCronExpression(t *testing.T) {
	wc := newTestWorkflowClientForSchedules(t)
	_, err := buildSchedule(wc, ScheduleOptions{
		ID:             "sched-1",
		CronExpression: "not a cron expression",
		Action:         ScheduleWorkflowAction{Workflow: scheduledWorkflow},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid cron expression")
}

func TestBuildSchedule_RejectsUnregisteredWorkflow(t *testing.T) {
	wc := newTestWorkflowClientForSchedules(t)
	_, err := buildSchedule(wc, ScheduleOptions{
		ID:             "sched-2",
		CronExpression: "@every 1h",
		Action:         ScheduleWorkflowAction{Workflow: "neverRegistered"},
	})
	require.Error(t, err)
}

func TestBuildSchedule_ProducesStartWorkflowAction(t *testing.T) {
	wc := newTestWorkflowClientForSchedules(t)
	schedule, err := buildSchedule(wc, ScheduleOptions{
		ID:             "sched-3",
		CronExpression: "@every 1h",
		Paused:         true,
		Note:           "paused on creation",
		Action: ScheduleWorkflowAction{
			ID:        "sched-3-action",
			Workflow:  scheduledWorkflow,
			TaskQueue: "test-queue",
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"@every 1h"}, schedule.GetSpec().GetCronString())
	require.True(t, schedule.GetState().GetPaused())
	require.Equal(t, "paused on creation", schedule.GetState().GetNotes())

	startWorkflow := schedule.GetAction().GetStartWorkflow()
	require.NotNil(t, startWorkflow)
	require.Equal(t, "sched-3-action", startWorkflow.GetWorkflowId())
	require.Equal(t, "test-queue", startWorkflow.GetTaskQueue().GetName())
	require.Equal(t, "test-namespace", startWorkflow.GetNamespace())
}

func TestBuildSchedule_DefaultsActionIDToScheduleID(t *testing.T) {
	wc := newTestWorkflowClientForSchedules(t)
	schedule, err := buildSchedule(wc, ScheduleOptions{
		ID:             "sched-4",
		CronExpression: "@every 1h",
		Action:         ScheduleWorkflowAction{Workflow: scheduledWorkflow},
	})
	require.NoError(t, err)
	require.Equal(t, "sched-4", schedule.GetAction().GetStartWorkflow().GetWorkflowId())
}

func TestBuildSchedule_SharedByCreateAndUpdate(t *testing.T) {
	wc := newTestWorkflowClientForSchedules(t)
	options := ScheduleOptions{
		ID:             "sched-5",
		CronExpression: "@every 30m",
		Action:         ScheduleWorkflowAction{Workflow: scheduledWorkflow, TaskQueue: "test-queue"},
	}
	created, err := buildSchedule(wc, options)
	require.NoError(t, err)
	updated, err := buildSchedule(wc, options)
	require.NoError(t, err)
	require.Equal(t, created.GetSpec().GetCronString(), updated.GetSpec().GetCronString())
	require.Equal(t, created.GetAction().GetStartWorkflow().GetWorkflowId(), updated.GetAction().GetStartWorkflow().GetWorkflowId())
}
