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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	commonpb "go.temporal.io/api/common/v1"
	enumspb "go.temporal.io/api/enums/v1"
)

func Test_ApplicationError_RoundTrip(t *testing.T) {
	dc := getDefaultDataConverter()
	original := NewApplicationError("boom", false, errors.New("root cause"), "detail-a", 7)

	f := convertErrorToFailure(original, dc)
	require.Equal(t, "boom", f.GetMessage())
	require.NotNil(t, f.GetApplicationFailureInfo())
	require.False(t, f.GetApplicationFailureInfo().GetNonRetryable())
	require.NotNil(t, f.GetCause())

	back := convertFailureToError(f, dc)
	var appErr *ApplicationError
	require.True(t, errors.As(back, &appErr))
	require.Equal(t, "boom", appErr.Error())
	require.True(t, appErr.HasDetails())
	var a string
	var b int
	require.NoError(t, appErr.Details(&a, &b))
	require.Equal(t, "detail-a", a)
	require.Equal(t, 7, b)

	var cause *ApplicationError
	require.True(t, errors.As(errors.Unwrap(back), &cause))
	require.Equal(t, "root cause", cause.Error())
}

func Test_ApplicationError_NonRetryable_RoundTrip(t *testing.T) {
	dc := getDefaultDataConverter()
	original := NewApplicationError("fatal", true, nil)

	f := convertErrorToFailure(original, dc)
	require.True(t, f.GetApplicationFailureInfo().GetNonRetryable())

	back := convertFailureToError(f, dc)
	var appErr *ApplicationError
	require.True(t, errors.As(back, &appErr))
	require.True(t, appErr.NonRetryable())
}

func Test_CanceledError_RoundTrip(t *testing.T) {
	dc := getDefaultDataConverter()
	original := NewCanceledError("cancel detail")

	f := convertErrorToFailure(original, dc)
	require.NotNil(t, f.GetCanceledFailureInfo())

	back := convertFailureToError(f, dc)
	var canceledErr *CanceledError
	require.True(t, errors.As(back, &canceledErr))
	require.True(t, canceledErr.HasDetails())
	var detail string
	require.NoError(t, canceledErr.Details(&detail))
	require.Equal(t, "cancel detail", detail)
}

func Test_TimeoutError_RoundTrip(t *testing.T) {
	dc := getDefaultDataConverter()
	original := NewTimeoutError(enumspb.TIMEOUT_TYPE_HEARTBEAT, nil, "last heartbeat")

	f := convertErrorToFailure(original, dc)
	require.Equal(t, enumspb.TIMEOUT_TYPE_HEARTBEAT, f.GetTimeoutFailureInfo().GetTimeoutType())

	back := convertFailureToError(f, dc)
	var timeoutErr *TimeoutError
	require.True(t, errors.As(back, &timeoutErr))
	require.Equal(t, enumspb.TIMEOUT_TYPE_HEARTBEAT, timeoutErr.TimeoutType())
	require.True(t, timeoutErr.HasLastHeartbeatDetails())
	var last string
	require.NoError(t, timeoutErr.LastHeartbeatDetails(&last))
	require.Equal(t, "last heartbeat", last)
}

func Test_ServerError_RoundTrip(t *testing.T) {
	dc := getDefaultDataConverter()
	original := NewServerError("unavailable", false, nil)

	f := convertErrorToFailure(original, dc)
	require.NotNil(t, f.GetServerFailureInfo())

	back := convertFailureToError(f, dc)
	var serverErr *ServerError
	require.True(t, errors.As(back, &serverErr))
	require.Equal(t, "unavailable", serverErr.Error())
}

func Test_ActivityError_RoundTrip(t *testing.T) {
	dc := getDefaultDataConverter()
	original := NewActivityError(
		5, 6, "worker-1",
		&commonpb.ActivityType{Name: "DoWork"},
		"activity-1",
		enumspb.RETRY_STATE_IN_PROGRESS,
		NewApplicationError("inner failure", false, nil),
	)

	f := convertErrorToFailure(original, dc)
	require.Equal(t, int64(5), f.GetActivityFailureInfo().GetScheduledEventId())
	require.Equal(t, "activity-1", f.GetActivityFailureInfo().GetActivityId())

	back := convertFailureToError(f, dc)
	var activityErr *ActivityError
	require.True(t, errors.As(back, &activityErr))
	var innerErr *ApplicationError
	require.True(t, errors.As(errors.Unwrap(back), &innerErr))
	require.Equal(t, "inner failure", innerErr.Error())
}

func Test_ChildWorkflowExecutionError_RoundTrip(t *testing.T) {
	dc := getDefaultDataConverter()
	original := NewChildWorkflowExecutionError(
		"ns", "wid", "rid", "MyWorkflow",
		1, 2, enumspb.RETRY_STATE_MAXIMUM_ATTEMPTS_REACHED,
		NewCanceledError(),
	)

	f := convertErrorToFailure(original, dc)
	require.Equal(t, "ns", f.GetChildWorkflowExecutionFailureInfo().GetNamespace())
	require.Equal(t, "wid", f.GetChildWorkflowExecutionFailureInfo().GetWorkflowExecution().GetWorkflowId())

	back := convertFailureToError(f, dc)
	var childErr *ChildWorkflowExecutionError
	require.True(t, errors.As(back, &childErr))
	var canceledErr *CanceledError
	require.True(t, errors.As(errors.Unwrap(back), &canceledErr))
}

// RetryError is a named error type; IsRetryable matches nonRetryableTypes against the
// error's type name, not its message.
type RetryError struct{}

func (*RetryError) Error() string { return "RetryError" }

func Test_IsRetryable(t *testing.T) {
	require.False(t, IsRetryable(nil, nil))
	require.False(t, IsRetryable(NewCanceledError(), nil))
	require.False(t, IsRetryable(newTerminatedError(), nil))
	require.False(t, IsRetryable(NewApplicationError("x", true, nil), nil))
	require.True(t, IsRetryable(NewApplicationError("x", false, nil), nil))
	require.False(t, IsRetryable(&RetryError{}, []string{"RetryError"}))
	require.True(t, IsRetryable(errors.New("OtherError"), []string{"RetryError"}))

	startToClose := NewTimeoutError(enumspb.TIMEOUT_TYPE_START_TO_CLOSE, nil)
	require.True(t, IsRetryable(startToClose, nil))
	scheduleToStart := NewTimeoutError(enumspb.TIMEOUT_TYPE_SCHEDULE_TO_START, nil)
	require.False(t, IsRetryable(scheduleToStart, nil))
}

func Test_ApplicationError_WrappedGenericError_IsRetryableByType(t *testing.T) {
	dc := getDefaultDataConverter()
	original := errors.New("plain failure")

	f := convertErrorToFailure(original, dc)
	require.Equal(t, "plain failure", f.GetMessage())
	require.False(t, f.GetApplicationFailureInfo().GetNonRetryable())

	back := convertFailureToError(f, dc)
	var appErr *ApplicationError
	require.True(t, errors.As(back, &appErr))
	require.True(t, IsRetryable(back, nil))
}
