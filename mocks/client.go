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

// Package mocks provides testify-mock implementations of the public client
// interfaces so callers can unit test code that depends on client.Client
// without a running server.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	enumspb "go.temporal.io/api/enums/v1"
	historypb "go.temporal.io/api/history/v1"
	"go.temporal.io/api/workflowservice/v1"

	"go.temporal.io/sdk-core/client"
	"go.temporal.io/sdk-core/internal"
)

// Client is a mock implementation of client.Client.
type Client struct {
	mock.Mock
}

// ExecuteWorkflow is a mock implementation that records the call and returns a
// pre-programmed WorkflowRun.
func (c *Client) ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error) {
	callArgs := []interface{}{ctx, options, workflow}
	callArgs = append(callArgs, args...)
	ret := c.Called(callArgs...)

	var r0 client.WorkflowRun
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(client.WorkflowRun)
	}
	return r0, ret.Error(1)
}

// GetWorkflow is a mock implementation of client.Client.GetWorkflow.
func (c *Client) GetWorkflow(ctx context.Context, workflowID string, runID string) client.WorkflowRun {
	ret := c.Called(ctx, workflowID, runID)

	var r0 client.WorkflowRun
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(client.WorkflowRun)
	}
	return r0
}

// SignalWorkflow is a mock implementation of client.Client.SignalWorkflow.
func (c *Client) SignalWorkflow(ctx context.Context, workflowID string, runID string, signalName string, arg interface{}) error {
	ret := c.Called(ctx, workflowID, runID, signalName, arg)
	return ret.Error(0)
}

// SignalWithStartWorkflow is a mock implementation of client.Client.SignalWithStartWorkflow.
func (c *Client) SignalWithStartWorkflow(ctx context.Context, workflowID string, signalName string, signalArg interface{},
	options client.StartWorkflowOptions, workflow interface{}, workflowArgs ...interface{}) (client.WorkflowRun, error) {
	callArgs := []interface{}{ctx, workflowID, signalName, signalArg, options, workflow}
	callArgs = append(callArgs, workflowArgs...)
	ret := c.Called(callArgs...)

	var r0 client.WorkflowRun
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(client.WorkflowRun)
	}
	return r0, ret.Error(1)
}

// UpdateWorkflow is a mock implementation of client.Client.UpdateWorkflow.
func (c *Client) UpdateWorkflow(ctx context.Context, workflowID, runID, updateName string, args ...interface{}) (client.WorkflowUpdateHandle, error) {
	callArgs := []interface{}{ctx, workflowID, runID, updateName}
	callArgs = append(callArgs, args...)
	ret := c.Called(callArgs...)

	var r0 client.WorkflowUpdateHandle
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(client.WorkflowUpdateHandle)
	}
	return r0, ret.Error(1)
}

// CancelWorkflow is a mock implementation of client.Client.CancelWorkflow.
func (c *Client) CancelWorkflow(ctx context.Context, workflowID string, runID string) error {
	ret := c.Called(ctx, workflowID, runID)
	return ret.Error(0)
}

// TerminateWorkflow is a mock implementation of client.Client.TerminateWorkflow.
func (c *Client) TerminateWorkflow(ctx context.Context, workflowID string, runID string, reason string, details ...interface{}) error {
	callArgs := []interface{}{ctx, workflowID, runID, reason}
	callArgs = append(callArgs, details...)
	ret := c.Called(callArgs...)
	return ret.Error(0)
}

// GetWorkflowHistory is a mock implementation of client.Client.GetWorkflowHistory.
func (c *Client) GetWorkflowHistory(ctx context.Context, workflowID string, runID string, isLongPoll bool,
	filterType enumspb.HistoryEventFilterType) client.HistoryEventIterator {
	ret := c.Called(ctx, workflowID, runID, isLongPoll, filterType)

	var r0 client.HistoryEventIterator
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(client.HistoryEventIterator)
	}
	return r0
}

// CompleteActivity is a mock implementation of client.Client.CompleteActivity.
func (c *Client) CompleteActivity(ctx context.Context, taskToken []byte, result interface{}, err error) error {
	ret := c.Called(ctx, taskToken, result, err)
	return ret.Error(0)
}

// CompleteActivityByID is a mock implementation of client.Client.CompleteActivityByID.
func (c *Client) CompleteActivityByID(ctx context.Context, namespace, workflowID, runID, activityID string, result interface{}, err error) error {
	ret := c.Called(ctx, namespace, workflowID, runID, activityID, result, err)
	return ret.Error(0)
}

// RecordActivityHeartbeat is a mock implementation of client.Client.RecordActivityHeartbeat.
func (c *Client) RecordActivityHeartbeat(ctx context.Context, taskToken []byte, details ...interface{}) error {
	callArgs := []interface{}{ctx, taskToken}
	callArgs = append(callArgs, details...)
	ret := c.Called(callArgs...)
	return ret.Error(0)
}

// RecordActivityHeartbeatByID is a mock implementation of client.Client.RecordActivityHeartbeatByID.
func (c *Client) RecordActivityHeartbeatByID(ctx context.Context, namespace, workflowID, runID, activityID string, details ...interface{}) error {
	callArgs := []interface{}{ctx, namespace, workflowID, runID, activityID}
	callArgs = append(callArgs, details...)
	ret := c.Called(callArgs...)
	return ret.Error(0)
}

// ListWorkflow is a mock implementation of client.Client.ListWorkflow.
func (c *Client) ListWorkflow(ctx context.Context, request *workflowservice.ListWorkflowExecutionsRequest) (*workflowservice.ListWorkflowExecutionsResponse, error) {
	ret := c.Called(ctx, request)

	var r0 *workflowservice.ListWorkflowExecutionsResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*workflowservice.ListWorkflowExecutionsResponse)
	}
	return r0, ret.Error(1)
}

// CountWorkflow is a mock implementation of client.Client.CountWorkflow.
func (c *Client) CountWorkflow(ctx context.Context, request *workflowservice.CountWorkflowExecutionsRequest) (*workflowservice.CountWorkflowExecutionsResponse, error) {
	ret := c.Called(ctx, request)

	var r0 *workflowservice.CountWorkflowExecutionsResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*workflowservice.CountWorkflowExecutionsResponse)
	}
	return r0, ret.Error(1)
}

// QueryWorkflow is a mock implementation of client.Client.QueryWorkflow.
func (c *Client) QueryWorkflow(ctx context.Context, workflowID string, runID string, queryType string, args ...interface{}) (internal.Value, error) {
	callArgs := []interface{}{ctx, workflowID, runID, queryType}
	callArgs = append(callArgs, args...)
	ret := c.Called(callArgs...)

	var r0 internal.Value
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(internal.Value)
	}
	return r0, ret.Error(1)
}

// DescribeWorkflowExecution is a mock implementation of client.Client.DescribeWorkflowExecution.
func (c *Client) DescribeWorkflowExecution(ctx context.Context, workflowID, runID string) (*workflowservice.DescribeWorkflowExecutionResponse, error) {
	ret := c.Called(ctx, workflowID, runID)

	var r0 *workflowservice.DescribeWorkflowExecutionResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*workflowservice.DescribeWorkflowExecutionResponse)
	}
	return r0, ret.Error(1)
}

// DescribeTaskQueue is a mock implementation of client.Client.DescribeTaskQueue.
func (c *Client) DescribeTaskQueue(ctx context.Context, taskQueue string, taskQueueType enumspb.TaskQueueType) (*workflowservice.DescribeTaskQueueResponse, error) {
	ret := c.Called(ctx, taskQueue, taskQueueType)

	var r0 *workflowservice.DescribeTaskQueueResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*workflowservice.DescribeTaskQueueResponse)
	}
	return r0, ret.Error(1)
}

// ScheduleClient is a mock implementation of client.Client.ScheduleClient.
func (c *Client) ScheduleClient() client.ScheduleClient {
	ret := c.Called()

	var r0 client.ScheduleClient
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(client.ScheduleClient)
	}
	return r0
}

// Close is a mock implementation of client.Client.Close.
func (c *Client) Close() {
	c.Called()
}

// WorkflowRun is a mock implementation of client.WorkflowRun.
type WorkflowRun struct {
	mock.Mock
}

// GetID is a mock implementation of client.WorkflowRun.GetID.
func (r *WorkflowRun) GetID() string {
	return r.Called().String(0)
}

// GetRunID is a mock implementation of client.WorkflowRun.GetRunID.
func (r *WorkflowRun) GetRunID() string {
	return r.Called().String(0)
}

// Get is a mock implementation of client.WorkflowRun.Get.
func (r *WorkflowRun) Get(ctx context.Context, valuePtr interface{}) error {
	return r.Called(ctx, valuePtr).Error(0)
}

// HistoryEventIterator is a mock implementation of client.HistoryEventIterator.
type HistoryEventIterator struct {
	mock.Mock
}

// HasNext is a mock implementation of client.HistoryEventIterator.HasNext.
func (i *HistoryEventIterator) HasNext() bool {
	return i.Called().Bool(0)
}

// Next is a mock implementation of client.HistoryEventIterator.Next.
func (i *HistoryEventIterator) Next() (*historypb.HistoryEvent, error) {
	ret := i.Called()

	var r0 *historypb.HistoryEvent
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*historypb.HistoryEvent)
	}
	return r0, ret.Error(1)
}
