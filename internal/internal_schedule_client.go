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
	"time"

	"github.com/pborman/uuid"
	"github.com/robfig/cron"
	"google.golang.org/protobuf/types/known/timestamppb"

	commonpb "go.temporal.io/api/common/v1"
	enumspb "go.temporal.io/api/enums/v1"
	schedulepb "go.temporal.io/api/schedule/v1"
	"go.temporal.io/api/workflowservice/v1"
)

type (
	// ScheduleClient creates and manages server-evaluated cron schedules, the
	// replacement for StartWorkflowOptions.CronSchedule: the server computes run
	// times (no client polling), supports pause/unpause and overlap policies, and
	// backfills missed windows on request.
	ScheduleClient interface {
		// Create registers a new schedule and returns a handle to it.
		Create(ctx context.Context, options ScheduleOptions) (ScheduleHandle, error)
		// GetHandle returns a handle to an existing schedule by ID, without validating
		// that it exists.
		GetHandle(ctx context.Context, scheduleID string) ScheduleHandle
		// List returns the first page (up to pageSize entries) of the namespace's
		// schedules; later pages are not fetched.
		List(ctx context.Context, pageSize int) ([]*schedulepb.ScheduleListEntry, error)
	}

	// ScheduleBackfill asks the server to evaluate a schedule's spec over a past time
	// range and start the runs it would have started had the schedule existed then.
	ScheduleBackfill struct {
		Start         time.Time
		End           time.Time
		OverlapPolicy enumspb.ScheduleOverlapPolicy
	}

	// ScheduleOptions configures a new schedule.
	ScheduleOptions struct {
		ID             string
		CronExpression string
		Action         ScheduleWorkflowAction
		Paused         bool
		Note           string
	}

	// ScheduleWorkflowAction is the workflow a schedule starts on each trigger.
	ScheduleWorkflowAction struct {
		ID        string
		Workflow  interface{}
		Args      []interface{}
		TaskQueue string
	}

	// ScheduleHandle operates on one named schedule.
	ScheduleHandle interface {
		GetID() string
		Describe(ctx context.Context) (*workflowservice.DescribeScheduleResponse, error)
		// Update replaces the schedule's spec, action, and state with options in one
		// call, so callers don't have to diff their way to the fields that changed.
		Update(ctx context.Context, options ScheduleOptions) error
		// Trigger starts an out-of-band run immediately, independent of the schedule's
		// own spec. overlapPolicy resolves what to do if a run is already in flight;
		// the zero value defers to the schedule's own overlap policy.
		Trigger(ctx context.Context, overlapPolicy enumspb.ScheduleOverlapPolicy) error
		// Backfill starts the runs the schedule would have started over one or more
		// past time ranges, as if it had existed and been unpaused then.
		Backfill(ctx context.Context, backfills ...ScheduleBackfill) error
		Pause(ctx context.Context, note string) error
		Unpause(ctx context.Context, note string) error
		Delete(ctx context.Context) error
	}

	scheduleClientImpl struct {
		wc *workflowClient
	}

	scheduleHandleImpl struct {
		id string
		wc *workflowClient
	}
)

func newScheduleClient(wc *workflowClient) ScheduleClient {
	return &scheduleClientImpl{wc: wc}
}

func (c *scheduleClientImpl) Create(ctx context.Context, options ScheduleOptions) (ScheduleHandle, error) {
	if options.ID == "" {
		options.ID = uuid.New()
	}
	return c.wc.interceptor.CreateSchedule(ctx, &ClientCreateScheduleInput{Options: options})
}

func (wc *workflowClient) createSchedule(ctx context.Context, in *ClientCreateScheduleInput) (ScheduleHandle, error) {
	options := in.Options
	schedule, err := buildSchedule(wc, options)
	if err != nil {
		return nil, err
	}
	_, err = wc.bridge.WorkflowService.CreateSchedule(ctx, &workflowservice.CreateScheduleRequest{
		Namespace:  wc.namespace,
		ScheduleId: options.ID,
		Schedule:   schedule,
		Identity:   wc.identity,
		RequestId:  uuid.New(),
	})
	if err != nil {
		return nil, err
	}
	return &scheduleHandleImpl{id: options.ID, wc: wc}, nil
}

// buildSchedule validates options and translates them into the wire Schedule message
// shared by CreateSchedule and UpdateSchedule.
func buildSchedule(wc *workflowClient, options ScheduleOptions) (*schedulepb.Schedule, error) {
	if _, err := cron.Parse(options.CronExpression); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", options.CronExpression, err)
	}

	workflowType, input, err := getValidatedWorkflowFunction(options.Action.Workflow, options.Action.Args, wc.dataConverter, wc.registry)
	if err != nil {
		return nil, err
	}
	actionID := options.Action.ID
	if actionID == "" {
		actionID = options.ID
	}

	return &schedulepb.Schedule{
		Spec: &schedulepb.ScheduleSpec{
			CronString: []string{options.CronExpression},
		},
		Action: &schedulepb.ScheduleAction{
			Action: &schedulepb.ScheduleAction_StartWorkflow{
				StartWorkflow: &workflowservice.StartWorkflowExecutionRequest{
					Namespace:    wc.namespace,
					WorkflowId:   actionID,
					WorkflowType: &commonpb.WorkflowType{Name: workflowType.Name},
					TaskQueue:    taskqueueFromName(options.Action.TaskQueue),
					Input:        input,
				},
			},
		},
		State: &schedulepb.ScheduleState{Paused: options.Paused, Notes: options.Note},
	}, nil
}

func (c *scheduleClientImpl) GetHandle(ctx context.Context, scheduleID string) ScheduleHandle {
	return &scheduleHandleImpl{id: scheduleID, wc: c.wc}
}

func (c *scheduleClientImpl) List(ctx context.Context, pageSize int) ([]*schedulepb.ScheduleListEntry, error) {
	return c.wc.interceptor.ListSchedules(ctx, &ClientListSchedulesInput{PageSize: pageSize})
}

func (wc *workflowClient) listSchedules(ctx context.Context, in *ClientListSchedulesInput) ([]*schedulepb.ScheduleListEntry, error) {
	resp, err := wc.bridge.WorkflowService.ListSchedules(ctx, &workflowservice.ListSchedulesRequest{
		Namespace:       wc.namespace,
		MaximumPageSize: int32(in.PageSize),
	})
	if err != nil {
		return nil, err
	}
	return resp.GetSchedules(), nil
}

func (h *scheduleHandleImpl) GetID() string { return h.id }

func (h *scheduleHandleImpl) Describe(ctx context.Context) (*workflowservice.DescribeScheduleResponse, error) {
	return h.wc.interceptor.DescribeSchedule(ctx, &ClientDescribeScheduleInput{ScheduleID: h.id})
}

func (wc *workflowClient) describeSchedule(ctx context.Context, in *ClientDescribeScheduleInput) (*workflowservice.DescribeScheduleResponse, error) {
	return wc.bridge.WorkflowService.DescribeSchedule(ctx, &workflowservice.DescribeScheduleRequest{
		Namespace:  wc.namespace,
		ScheduleId: in.ScheduleID,
	})
}

func (h *scheduleHandleImpl) Update(ctx context.Context, options ScheduleOptions) error {
	return h.wc.interceptor.UpdateSchedule(ctx, &ClientUpdateScheduleInput{ScheduleID: h.id, Options: options})
}

func (wc *workflowClient) updateSchedule(ctx context.Context, in *ClientUpdateScheduleInput) error {
	schedule, err := buildSchedule(wc, in.Options)
	if err != nil {
		return err
	}
	_, err = wc.bridge.WorkflowService.UpdateSchedule(ctx, &workflowservice.UpdateScheduleRequest{
		Namespace:  wc.namespace,
		ScheduleId: in.ScheduleID,
		Schedule:   schedule,
		Identity:   wc.identity,
		RequestId:  uuid.New(),
	})
	return err
}

func (h *scheduleHandleImpl) Trigger(ctx context.Context, overlapPolicy enumspb.ScheduleOverlapPolicy) error {
	return h.wc.interceptor.PatchSchedule(ctx, &ClientPatchScheduleInput{
		ScheduleID: h.id,
		Patch: &schedulepb.SchedulePatch{
			TriggerImmediately: &schedulepb.TriggerImmediatelyRequest{OverlapPolicy: overlapPolicy},
		},
	})
}

func (h *scheduleHandleImpl) Backfill(ctx context.Context, backfills ...ScheduleBackfill) error {
	requests := make([]*schedulepb.BackfillRequest, 0, len(backfills))
	for _, b := range backfills {
		requests = append(requests, &schedulepb.BackfillRequest{
			StartTime:     timestamppb.New(b.Start),
			EndTime:       timestamppb.New(b.End),
			OverlapPolicy: b.OverlapPolicy,
		})
	}
	return h.wc.interceptor.PatchSchedule(ctx, &ClientPatchScheduleInput{
		ScheduleID: h.id,
		Patch:      &schedulepb.SchedulePatch{BackfillRequest: requests},
	})
}

func (h *scheduleHandleImpl) Pause(ctx context.Context, note string) error {
	return h.patchState(ctx, true, note)
}

func (h *scheduleHandleImpl) Unpause(ctx context.Context, note string) error {
	return h.patchState(ctx, false, note)
}

func (h *scheduleHandleImpl) patchState(ctx context.Context, paused bool, note string) error {
	patch := &schedulepb.SchedulePatch{}
	if paused {
		patch.Pause = note
	} else {
		patch.Unpause = note
	}
	return h.wc.interceptor.PatchSchedule(ctx, &ClientPatchScheduleInput{ScheduleID: h.id, Patch: patch})
}

func (wc *workflowClient) patchSchedule(ctx context.Context, in *ClientPatchScheduleInput) error {
	_, err := wc.bridge.WorkflowService.PatchSchedule(ctx, &workflowservice.PatchScheduleRequest{
		Namespace:  wc.namespace,
		ScheduleId: in.ScheduleID,
		Patch:      in.Patch,
		Identity:   wc.identity,
		RequestId:  uuid.New(),
	})
	return err
}

func (h *scheduleHandleImpl) Delete(ctx context.Context) error {
	return h.wc.interceptor.DeleteSchedule(ctx, &ClientDeleteScheduleInput{ScheduleID: h.id})
}

func (wc *workflowClient) deleteSchedule(ctx context.Context, in *ClientDeleteScheduleInput) error {
	_, err := wc.bridge.WorkflowService.DeleteSchedule(ctx, &workflowservice.DeleteScheduleRequest{
		Namespace:  wc.namespace,
		ScheduleId: in.ScheduleID,
		Identity:   wc.identity,
	})
	return err
}
