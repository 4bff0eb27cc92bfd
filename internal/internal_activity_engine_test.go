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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	commonpb "go.temporal.io/api/common/v1"
	"go.temporal.io/api/workflowservice/v1"

	"go.temporal.io/sdk-core/internal/log"
)

func greetActivity(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", errors.New("name is required")
	}
	return "hello " + name, nil
}

func panickingActivity(ctx context.Context) error {
	panic("boom")
}

func encodePayloads(t *testing.T, dc DataConverter, values ...interface{}) *commonpb.Payloads {
	t.Helper()
	p, err := dc.ToPayloads(values...)
	require.NoError(t, err)
	return p
}

func newTestActivityTaskHandler(r *registry) *activityTaskHandler {
	return newActivityTaskHandler(r, getDefaultDataConverter(), log.NewDefaultLogger(), nil, "test-identity", nil, nil, nil)
}

func TestActivityExecutor_DecodesArgsAndResult(t *testing.T) {
	dc := getDefaultDataConverter()
	executor := newActivityExecutor("greet", greetActivity)

	result, err := executor.Execute(context.Background(), encodePayloads(t, dc, "world"), dc)
	require.NoError(t, err)
	require.Equal(t, "hello world", result)
}

func TestActivityExecutor_PropagatesActivityError(t *testing.T) {
	dc := getDefaultDataConverter()
	executor := newActivityExecutor("greet", greetActivity)

	_, err := executor.Execute(context.Background(), encodePayloads(t, dc, ""), dc)
	require.EqualError(t, err, "name is required")
}

func TestActivityTaskHandler_Execute_Success(t *testing.T) {
	r := newRegistry()
	r.RegisterActivity(greetActivity)
	h := newTestActivityTaskHandler(r)

	dc := getDefaultDataConverter()
	task := &workflowservice.PollActivityTaskQueueResponse{
		TaskToken:    []byte("token"),
		ActivityId:   "1",
		ActivityType: &commonpb.ActivityType{Name: "greetActivity"},
		Input:        encodePayloads(t, dc, "world"),
	}

	resp := h.Execute(context.Background(), task)
	completed, ok := resp.(*workflowservice.RespondActivityTaskCompletedRequest)
	require.True(t, ok, "expected a completed response, got %T", resp)
	require.Equal(t, []byte("token"), completed.TaskToken)

	var got string
	require.NoError(t, dc.FromPayload(completed.Result.Payloads[0], &got))
	require.Equal(t, "hello world", got)
}

func TestActivityTaskHandler_Execute_UnknownType(t *testing.T) {
	h := newTestActivityTaskHandler(newRegistry())
	task := &workflowservice.PollActivityTaskQueueResponse{
		TaskToken:    []byte("token"),
		ActivityType: &commonpb.ActivityType{Name: "doesNotExist"},
	}

	resp := h.Execute(context.Background(), task)
	failed, ok := resp.(*workflowservice.RespondActivityTaskFailedRequest)
	require.True(t, ok, "expected a failed response, got %T", resp)
	require.NotNil(t, failed.Failure)
}

func TestActivityTaskHandler_Execute_RecoversPanic(t *testing.T) {
	r := newRegistry()
	r.RegisterActivity(panickingActivity)
	h := newTestActivityTaskHandler(r)

	task := &workflowservice.PollActivityTaskQueueResponse{
		TaskToken:    []byte("token"),
		ActivityType: &commonpb.ActivityType{Name: "panickingActivity"},
	}

	resp := h.Execute(context.Background(), task)
	failed, ok := resp.(*workflowservice.RespondActivityTaskFailedRequest)
	require.True(t, ok, "expected a failed response, got %T", resp)
	require.Contains(t, failed.Failure.Message, "boom")
}

func TestGetActivityInfo_PanicsOutsideActivity(t *testing.T) {
	require.Panics(t, func() {
		GetActivityInfo(context.Background())
	})
}

func TestActivityRateLimiters_ZeroMeansUnlimited(t *testing.T) {
	l := newActivityRateLimiters(0, 0)
	require.NoError(t, l.Wait(context.Background()))
}
