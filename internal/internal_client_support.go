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

	commonpb "go.temporal.io/api/common/v1"
	enumspb "go.temporal.io/api/enums/v1"
	historypb "go.temporal.io/api/history/v1"
	updatepb "go.temporal.io/api/update/v1"
	"go.temporal.io/api/workflowservice/v1"
)

type (
	// WorkflowUpdateHandle tracks one in-flight or completed workflow update.
	WorkflowUpdateHandle interface {
		// WorkflowID is the target workflow's ID.
		WorkflowID() string
		// RunID is the target run's ID.
		RunID() string
		// UpdateID is the server-assigned ID of this update.
		UpdateID() string
		// Get blocks until the update reaches a terminal outcome (completed or
		// rejected) and decodes its result into valuePtr.
		Get(ctx context.Context, valuePtr interface{}) error
	}

	workflowUpdateHandleImpl struct {
		workflowID, runID, updateID, updateName string
		client                                  *workflowClient
	}
)

func (h *workflowUpdateHandleImpl) WorkflowID() string { return h.workflowID }
func (h *workflowUpdateHandleImpl) RunID() string      { return h.runID }
func (h *workflowUpdateHandleImpl) UpdateID() string   { return h.updateID }

func (h *workflowUpdateHandleImpl) Get(ctx context.Context, valuePtr interface{}) error {
	resp, err := h.client.bridge.WorkflowService.PollWorkflowExecutionUpdate(ctx, &workflowservice.PollWorkflowExecutionUpdateRequest{
		Namespace: h.client.namespace,
		UpdateRef: &updatepb.UpdateRef{
			WorkflowExecution: &commonpb.WorkflowExecution{WorkflowId: h.workflowID, RunId: h.runID},
			UpdateId:          h.updateID,
		},
	})
	if err != nil {
		return err
	}
	outcome := resp.GetOutcome()
	if failure := outcome.GetFailure(); failure != nil {
		cause := convertFailureToError(failure, h.client.dataConverter)
		return NewWorkflowUpdateError(h.workflowID, h.runID, h.updateID, h.updateName, cause)
	}
	if valuePtr == nil {
		return nil
	}
	return h.client.dataConverter.FromPayloads(outcome.GetSuccess(), valuePtr)
}

// historyEventIteratorImpl pages through GetWorkflowExecutionHistory, optionally
// long-polling the server for new events as the execution progresses (isLongPoll).
type historyEventIteratorImpl struct {
	ctx         context.Context
	client      *workflowClient
	workflowID  string
	runID       string
	isLongPoll  bool
	filterType  enumspb.HistoryEventFilterType
	nextPageTok []byte
	events      []*historypb.HistoryEvent
	index       int
	started     bool
	err         error
}

func (it *historyEventIteratorImpl) HasNext() bool {
	if it.err != nil {
		return false
	}
	if it.index < len(it.events) {
		return true
	}
	if it.started && len(it.nextPageTok) == 0 {
		return false
	}
	it.started = true

	resp, err := it.client.bridge.WorkflowService.GetWorkflowExecutionHistory(it.ctx, &workflowservice.GetWorkflowExecutionHistoryRequest{
		Namespace:              it.client.namespace,
		Execution:              &commonpb.WorkflowExecution{WorkflowId: it.workflowID, RunId: it.runID},
		WaitNewEvent:           it.isLongPoll,
		HistoryEventFilterType: it.filterType,
		NextPageToken:          it.nextPageTok,
	})
	if err != nil {
		it.err = err
		return false
	}
	it.events = resp.GetHistory().GetEvents()
	it.index = 0
	it.nextPageTok = resp.GetNextPageToken()
	return len(it.events) > 0
}

func (it *historyEventIteratorImpl) Next() (*historypb.HistoryEvent, error) {
	if it.err != nil {
		return nil, it.err
	}
	if it.index >= len(it.events) {
		return nil, fmt.Errorf("no more history events")
	}
	event := it.events[it.index]
	it.index++
	return event, nil
}

// completeActivity reports an out-of-band activity's result identified by task token.
func completeActivity(ctx context.Context, wc *workflowClient, taskToken []byte, result interface{}, activityErr error) error {
	if activityErr != nil {
		if _, ok := activityErr.(*CanceledError); ok {
			_, err := wc.bridge.WorkflowService.RespondActivityTaskCanceled(ctx, &workflowservice.RespondActivityTaskCanceledRequest{
				TaskToken: taskToken,
				Identity:  wc.identity,
			})
			return err
		}
		_, err := wc.bridge.WorkflowService.RespondActivityTaskFailed(ctx, &workflowservice.RespondActivityTaskFailedRequest{
			TaskToken: taskToken,
			Failure:   convertErrorToFailure(activityErr, wc.dataConverter),
			Identity:  wc.identity,
		})
		return err
	}

	output, err := wc.dataConverter.ToPayloads(result)
	if err != nil {
		return err
	}
	_, err = wc.bridge.WorkflowService.RespondActivityTaskCompleted(ctx, &workflowservice.RespondActivityTaskCompletedRequest{
		TaskToken: taskToken,
		Result:    output,
		Identity:  wc.identity,
	})
	return err
}

// completeActivityByID is completeActivity addressed by business ID instead of task
// token.
func completeActivityByID(ctx context.Context, wc *workflowClient, namespace, workflowID, runID, activityID string, result interface{}, activityErr error) error {
	if namespace == "" {
		namespace = wc.namespace
	}
	if activityErr != nil {
		if _, ok := activityErr.(*CanceledError); ok {
			_, err := wc.bridge.WorkflowService.RespondActivityTaskCanceledById(ctx, &workflowservice.RespondActivityTaskCanceledByIdRequest{
				Namespace: namespace, WorkflowId: workflowID, RunId: runID, ActivityId: activityID, Identity: wc.identity,
			})
			return err
		}
		_, err := wc.bridge.WorkflowService.RespondActivityTaskFailedById(ctx, &workflowservice.RespondActivityTaskFailedByIdRequest{
			Namespace: namespace, WorkflowId: workflowID, RunId: runID, ActivityId: activityID,
			Failure: convertErrorToFailure(activityErr, wc.dataConverter), Identity: wc.identity,
		})
		return err
	}

	output, err := wc.dataConverter.ToPayloads(result)
	if err != nil {
		return err
	}
	_, err = wc.bridge.WorkflowService.RespondActivityTaskCompletedById(ctx, &workflowservice.RespondActivityTaskCompletedByIdRequest{
		Namespace: namespace, WorkflowId: workflowID, RunId: runID, ActivityId: activityID,
		Result: output, Identity: wc.identity,
	})
	return err
}

// recordActivityHeartbeat reports activity progress identified by task token; returns
// CanceledError when the server indicates the activity should stop.
func recordActivityHeartbeat(ctx context.Context, wc *workflowClient, taskToken []byte, details ...interface{}) error {
	data, err := wc.dataConverter.ToPayloads(details...)
	if err != nil {
		return err
	}
	resp, err := wc.bridge.WorkflowService.RecordActivityTaskHeartbeat(ctx, &workflowservice.RecordActivityTaskHeartbeatRequest{
		TaskToken: taskToken,
		Details:   data,
		Identity:  wc.identity,
	})
	if err != nil {
		return err
	}
	if resp.GetCancelRequested() {
		return NewCanceledError()
	}
	return nil
}

// recordActivityHeartbeatByID is recordActivityHeartbeat addressed by business ID.
func recordActivityHeartbeatByID(ctx context.Context, wc *workflowClient, namespace, workflowID, runID, activityID string, details ...interface{}) error {
	if namespace == "" {
		namespace = wc.namespace
	}
	data, err := wc.dataConverter.ToPayloads(details...)
	if err != nil {
		return err
	}
	resp, err := wc.bridge.WorkflowService.RecordActivityTaskHeartbeatById(ctx, &workflowservice.RecordActivityTaskHeartbeatByIdRequest{
		Namespace: namespace, WorkflowId: workflowID, RunId: runID, ActivityId: activityID,
		Details: data, Identity: wc.identity,
	})
	if err != nil {
		return err
	}
	if resp.GetCancelRequested() {
		return NewCanceledError()
	}
	return nil
}
