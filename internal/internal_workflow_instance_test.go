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
	"time"

	"github.com/stretchr/testify/require"

	commandpb "go.temporal.io/api/command/v1"
	commonpb "go.temporal.io/api/common/v1"
)

func TestJobKind_OrderClass(t *testing.T) {
	require.Equal(t, jobOrderResolution, jobKindResolveActivity.orderClass())
	require.Equal(t, jobOrderResolution, jobKindFireTimer.orderClass())
	require.Equal(t, jobOrderNotification, jobKindInitializeWorkflow.orderClass())
	require.Equal(t, jobOrderNotification, jobKindCancelWorkflow.orderClass())
	require.Equal(t, jobOrderSignal, jobKindSignalWorkflow.orderClass())
	require.Equal(t, jobOrderQuery, jobKindQueryWorkflow.orderClass())
	require.Equal(t, jobOrderUpdate, jobKindDoUpdate.orderClass())
}

func TestStableOrderSort_GroupsByClassPreservingArrivalOrder(t *testing.T) {
	jobs := []WorkflowActivationJob{
		{Kind: jobKindQueryWorkflow, QueryID: "q1"},
		{Kind: jobKindSignalWorkflow, SignalName: "s1"},
		{Kind: jobKindResolveActivity, SeqID: 1},
		{Kind: jobKindDoUpdate, UpdateID: "u1"},
		{Kind: jobKindFireTimer, CorrelationID: "t1"},
		{Kind: jobKindSignalWorkflow, SignalName: "s2"},
	}
	stableOrderSort(jobs)

	var kinds []jobKind
	for _, j := range jobs {
		kinds = append(kinds, j.Kind)
	}
	require.Equal(t, []jobKind{
		jobKindResolveActivity, jobKindFireTimer,
		jobKindSignalWorkflow, jobKindSignalWorkflow,
		jobKindQueryWorkflow,
		jobKindDoUpdate,
	}, kinds)
	require.Equal(t, "s1", jobs[2].SignalName)
	require.Equal(t, "s2", jobs[3].SignalName)
}

func versionWorkflow(ctx Context) (int, error) {
	v := GetVersion(ctx, "change-1", DefaultVersion, 2)
	return int(v), nil
}

func TestEngine_GetVersionRecordsMarkerOnFirstEncounter(t *testing.T) {
	r := newRegistry()
	r.RegisterWorkflow(versionWorkflow)
	e := newTestEngine(r)

	completion, err := e.ProcessActivation(startActivation("versionWorkflow", "run-v1", nil))
	require.NoError(t, err)

	var sawMarker bool
	var sawComplete bool
	for _, c := range completion.Commands {
		if c.GetCommandType() == commandpb.CommandType_RecordMarker {
			sawMarker = true
		}
		if c.GetCommandType() == commandpb.CommandType_CompleteWorkflowExecution {
			sawComplete = true
			var got int
			require.NoError(t, getDefaultDataConverter().FromPayload(c.GetCompleteWorkflowExecutionCommandAttributes().Result.Payloads[0], &got))
			require.Equal(t, 2, got)
		}
	}
	require.True(t, sawMarker, "GetVersion must record a marker the first time a changeID is seen")
	require.True(t, sawComplete)
}

func queryableWorkflow(ctx Context) (string, error) {
	state := "initial"
	err := SetQueryHandler(ctx, "state", func(args *commonpb.Payloads) (interface{}, error) {
		return state, nil
	})
	if err != nil {
		return "", err
	}
	ch := GetSignalChannel(ctx, "advance")
	var v interface{}
	ch.Receive(ctx, &v)
	state = "advanced"
	return state, nil
}

func TestEngine_QueryAnsweredWithoutProducingCommands(t *testing.T) {
	r := newRegistry()
	r.RegisterWorkflow(queryableWorkflow)
	e := newTestEngine(r)

	_, err := e.ProcessActivation(startActivation("queryableWorkflow", "run-q1", nil))
	require.NoError(t, err)

	queryAct := &WorkflowActivation{
		WorkflowExecution: WorkflowExecution{ID: "wf-q1", RunID: "run-q1"},
		Jobs: []WorkflowActivationJob{
			{Kind: jobKindQueryWorkflow, QueryID: "query-1", QueryType: "state"},
		},
	}
	completion, err := e.ProcessActivation(queryAct)
	require.NoError(t, err)
	require.Empty(t, completion.Commands, "queries never contribute commands")
	result, ok := completion.QueryResults["query-1"]
	require.True(t, ok)
	require.True(t, result.Succeeded)

	var got string
	require.NoError(t, getDefaultDataConverter().FromPayload(result.Payload, &got))
	require.Equal(t, "initial", got)
}

func TestEngine_UnknownQueryTypeFails(t *testing.T) {
	r := newRegistry()
	r.RegisterWorkflow(queryableWorkflow)
	e := newTestEngine(r)

	_, err := e.ProcessActivation(startActivation("queryableWorkflow", "run-q2", nil))
	require.NoError(t, err)

	completion, err := e.ProcessActivation(&WorkflowActivation{
		WorkflowExecution: WorkflowExecution{ID: "wf-q2", RunID: "run-q2"},
		Jobs: []WorkflowActivationJob{
			{Kind: jobKindQueryWorkflow, QueryID: "query-2", QueryType: "doesNotExist"},
		},
	})
	require.NoError(t, err)
	result := completion.QueryResults["query-2"]
	require.False(t, result.Succeeded)
	require.Error(t, result.Failure)
}

func updatableWorkflow(ctx Context) (string, error) {
	approved := false
	err := SetUpdateHandler(ctx, "approve",
		func(args *commonpb.Payloads) error { return nil },
		func(ctx Context, args *commonpb.Payloads) (*commonpb.Payloads, error) {
			approved = true
			return nil, nil
		},
	)
	if err != nil {
		return "", err
	}
	for !approved {
		if err := Await(ctx, func() bool { return approved }); err != nil {
			return "", err
		}
	}
	return "approved", nil
}

func TestEngine_UpdateHandlerRunsExecutePhase(t *testing.T) {
	r := newRegistry()
	r.RegisterWorkflow(updatableWorkflow)
	e := newTestEngine(r)

	_, err := e.ProcessActivation(startActivation("updatableWorkflow", "run-u1", nil))
	require.NoError(t, err)

	completion, err := e.ProcessActivation(&WorkflowActivation{
		WorkflowExecution: WorkflowExecution{ID: "wf-u1", RunID: "run-u1"},
		Jobs: []WorkflowActivationJob{
			{Kind: jobKindDoUpdate, UpdateID: "u1", UpdateName: "approve"},
		},
	})
	require.NoError(t, err)
	require.Len(t, completion.Commands, 1)
	require.Equal(t, commandpb.CommandType_CompleteWorkflowExecution, completion.Commands[0].GetCommandType())
}

func continueAsNewWorkflow(ctx Context) error {
	return ContinueAsNew(ctx, continueAsNewWorkflow)
}

func TestEngine_ContinueAsNewEmitsContinueAsNewCommand(t *testing.T) {
	r := newRegistry()
	r.RegisterWorkflow(continueAsNewWorkflow)
	e := newTestEngine(r)

	completion, err := e.ProcessActivation(startActivation("continueAsNewWorkflow", "run-c1", nil))
	require.NoError(t, err)
	require.Len(t, completion.Commands, 1)
	require.Equal(t, commandpb.CommandType_ContinueAsNewWorkflowExecution, completion.Commands[0].GetCommandType())
	require.Equal(t, 0, e.CacheSize())
}

func TestEngine_CancelWorkflowProducesFailWorkflowExecution(t *testing.T) {
	r := newRegistry()
	r.RegisterWorkflow(queryableWorkflow)
	e := newTestEngine(r)

	_, err := e.ProcessActivation(startActivation("queryableWorkflow", "run-cancel", nil))
	require.NoError(t, err)

	completion, err := e.ProcessActivation(&WorkflowActivation{
		WorkflowExecution: WorkflowExecution{ID: "wf-cancel", RunID: "run-cancel"},
		Jobs:              []WorkflowActivationJob{{Kind: jobKindCancelWorkflow}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, completion.Commands)
	last := completion.Commands[len(completion.Commands)-1]
	require.Equal(t, commandpb.CommandType_FailWorkflowExecution, last.GetCommandType())
}

func negativeSleepWorkflow(ctx Context) (string, error) {
	if err := Sleep(ctx, -time.Second); err != nil {
		return "", err
	}
	return "unreachable", nil
}

func TestNewTimer_InvalidDurationFailsWithoutStartTimerCommand(t *testing.T) {
	r := newRegistry()
	r.RegisterWorkflow(negativeSleepWorkflow)
	e := newTestEngine(r)

	completion, err := e.ProcessActivation(startActivation("negativeSleepWorkflow", "run-timer", nil))
	require.NoError(t, err)

	for _, c := range completion.Commands {
		require.NotEqual(t, commandpb.CommandType_StartTimer, c.GetCommandType(),
			"a negative duration must never emit a StartTimer command")
	}
	require.Len(t, completion.Commands, 1)
	require.Equal(t, commandpb.CommandType_FailWorkflowExecution, completion.Commands[0].GetCommandType())

	failure := completion.Commands[0].GetFailWorkflowExecutionCommandAttributes().GetFailure()
	reconstructed := convertFailureToError(failure, getDefaultDataConverter())
	require.True(t, IsArgumentError(reconstructed))
}

func TestNonDeterminism_CommandMismatchIsBlockedByDefault(t *testing.T) {
	r := newRegistry()
	r.RegisterWorkflow(blockingActivityWorkflow)
	r.RegisterActivity(greetActivity)
	e := newTestEngine(r)

	dc := getDefaultDataConverter()
	completion, err := e.ProcessActivation(startActivation("blockingActivityWorkflow", "run-nd1", encodePayloads(t, dc, "world")))
	require.NoError(t, err)
	require.Len(t, completion.Commands, 1)
	require.Equal(t, commandpb.CommandType_ScheduleActivityTask, completion.Commands[0].GetCommandType())

	// The next activation's history claims a StartTimer where the instance is about to
	// re-emit ScheduleActivityTask — the mismatch a real worker build drift would cause.
	mismatched := &WorkflowActivation{
		WorkflowExecution: WorkflowExecution{ID: "wf-nd1", RunID: "run-nd1"},
		HistoryCommands:   []commandpb.CommandType{commandpb.CommandType_StartTimer},
		Jobs: []WorkflowActivationJob{
			{Kind: jobKindResolveActivity, SeqID: 1, Result: encodePayloads(t, dc, "hello world")},
		},
	}
	completion, err = e.ProcessActivation(mismatched)
	require.NoError(t, err)
	require.Empty(t, completion.Commands, "Block policy must not respond with a terminal command")
	require.Error(t, completion.Failed)
	require.Equal(t, 1, e.CacheSize(), "a blocked task leaves the run itself alive for retry")
}

func TestNonDeterminism_CommandMismatchFailsWorkflowWhenConfigured(t *testing.T) {
	r := newRegistry()
	r.RegisterWorkflow(blockingActivityWorkflow)
	r.RegisterActivity(greetActivity)
	e := newEngine(engineOptions{
		Registry:               r,
		DataConverter:          getDefaultDataConverter(),
		NonDeterministicPolicy: NonDeterministicWorkflowPolicyFailWorkflow,
	})

	dc := getDefaultDataConverter()
	completion, err := e.ProcessActivation(startActivation("blockingActivityWorkflow", "run-nd2", encodePayloads(t, dc, "world")))
	require.NoError(t, err)
	require.Len(t, completion.Commands, 1)

	mismatched := &WorkflowActivation{
		WorkflowExecution: WorkflowExecution{ID: "wf-nd2", RunID: "run-nd2"},
		HistoryCommands:   []commandpb.CommandType{commandpb.CommandType_StartTimer},
		Jobs: []WorkflowActivationJob{
			{Kind: jobKindResolveActivity, SeqID: 1, Result: encodePayloads(t, dc, "hello world")},
		},
	}
	completion, err = e.ProcessActivation(mismatched)
	require.NoError(t, err)
	require.Len(t, completion.Commands, 1)
	require.Equal(t, commandpb.CommandType_FailWorkflowExecution, completion.Commands[0].GetCommandType())
	require.Error(t, completion.Failed)
}

func TestNonDeterminism_OverridePerWorkflowTypeWinsOverDefault(t *testing.T) {
	r := newRegistry()
	r.RegisterWorkflow(blockingActivityWorkflow)
	r.RegisterActivity(greetActivity)
	e := newEngine(engineOptions{
		Registry:      r,
		DataConverter: getDefaultDataConverter(),
		// Worker-wide default is Block; the override below flips this one workflow type
		// to Fail, and instantiate must resolve the override rather than the default.
		NonDeterministicPolicy: NonDeterministicWorkflowPolicyBlockWorkflow,
		NonDeterministicPolicyOverrides: map[string]NonDeterministicWorkflowPolicy{
			"blockingActivityWorkflow": NonDeterministicWorkflowPolicyFailWorkflow,
		},
	})

	dc := getDefaultDataConverter()
	_, err := e.ProcessActivation(startActivation("blockingActivityWorkflow", "run-nd3", encodePayloads(t, dc, "world")))
	require.NoError(t, err)

	mismatched := &WorkflowActivation{
		WorkflowExecution: WorkflowExecution{ID: "wf-nd3", RunID: "run-nd3"},
		HistoryCommands:   []commandpb.CommandType{commandpb.CommandType_StartTimer},
		Jobs: []WorkflowActivationJob{
			{Kind: jobKindResolveActivity, SeqID: 1, Result: encodePayloads(t, dc, "hello world")},
		},
	}
	completion, err := e.ProcessActivation(mismatched)
	require.NoError(t, err)
	require.Len(t, completion.Commands, 1)
	require.Equal(t, commandpb.CommandType_FailWorkflowExecution, completion.Commands[0].GetCommandType())
}
