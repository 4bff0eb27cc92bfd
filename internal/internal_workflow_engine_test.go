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

func echoWorkflow(ctx Context, name string) (string, error) {
	return "hello " + name, nil
}

func blockingActivityWorkflow(ctx Context, name string) (string, error) {
	var result string
	err := ExecuteActivity(ctx, greetActivity, name).Get(ctx, &result)
	return result, err
}

func signalWorkflow(ctx Context) (string, error) {
	ch := GetSignalChannel(ctx, "proceed")
	var v interface{}
	ch.Receive(ctx, &v)
	s, _ := v.(string)
	return s, nil
}

func newTestEngine(r *registry) *engine {
	return newEngine(engineOptions{
		Registry:      r,
		DataConverter: getDefaultDataConverter(),
	})
}

func startActivation(workflowType, runID string, input *commonpb.Payloads) *WorkflowActivation {
	return &WorkflowActivation{
		WorkflowExecution: WorkflowExecution{ID: "wf-" + runID, RunID: runID},
		Timestamp:         time.Unix(0, 0),
		Jobs: []WorkflowActivationJob{
			{
				Kind: jobKindInitializeWorkflow,
				StartAttributes: &ExecuteWorkflowParams{
					WorkflowType: &WorkflowType{Name: workflowType},
					Input:        input,
					WorkflowOptions: WorkflowOptions{
						TaskQueueName: "test-queue",
					},
				},
			},
		},
	}
}

func TestEngine_SimpleWorkflowCompletesImmediately(t *testing.T) {
	r := newRegistry()
	r.RegisterWorkflow(echoWorkflow)
	e := newTestEngine(r)

	dc := getDefaultDataConverter()
	completion, err := e.ProcessActivation(startActivation("echoWorkflow", "run-1", encodePayloads(t, dc, "world")))
	require.NoError(t, err)
	require.Len(t, completion.Commands, 1)
	require.Equal(t, commandpb.CommandType_CompleteWorkflowExecution, completion.Commands[0].GetCommandType())

	var got string
	attrs := completion.Commands[0].GetCompleteWorkflowExecutionCommandAttributes()
	require.NoError(t, dc.FromPayload(attrs.Result.Payloads[0], &got))
	require.Equal(t, "hello world", got)

	require.Equal(t, 0, e.CacheSize(), "a completed run must not stay in the sticky cache")
}

func TestEngine_UnknownWorkflowType(t *testing.T) {
	r := newRegistry()
	e := newTestEngine(r)

	_, err := e.ProcessActivation(startActivation("doesNotExist", "run-2", nil))
	require.Error(t, err)
}

func TestEngine_ActivationWithoutInitializeAndNoCachedRun(t *testing.T) {
	r := newRegistry()
	e := newTestEngine(r)

	act := &WorkflowActivation{
		WorkflowExecution: WorkflowExecution{ID: "wf-3", RunID: "run-3"},
		Jobs:              []WorkflowActivationJob{{Kind: jobKindFireTimer, CorrelationID: "1"}},
	}
	_, err := e.ProcessActivation(act)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no cached workflow")
}

func TestEngine_WorkflowBlocksOnActivityThenResolves(t *testing.T) {
	r := newRegistry()
	r.RegisterWorkflow(blockingActivityWorkflow)
	r.RegisterActivity(greetActivity)
	e := newTestEngine(r)

	dc := getDefaultDataConverter()
	completion, err := e.ProcessActivation(startActivation("blockingActivityWorkflow", "run-4", encodePayloads(t, dc, "world")))
	require.NoError(t, err)
	require.Len(t, completion.Commands, 1)
	require.Equal(t, commandpb.CommandType_ScheduleActivityTask, completion.Commands[0].GetCommandType())
	require.Equal(t, 1, e.CacheSize(), "the instance stays cached while the activity is outstanding")

	seqID := int64(1)
	resolveAct := &WorkflowActivation{
		WorkflowExecution: WorkflowExecution{ID: "wf-4", RunID: "run-4"},
		Jobs: []WorkflowActivationJob{
			{Kind: jobKindResolveActivity, SeqID: seqID, Result: encodePayloads(t, dc, "hello world")},
		},
	}
	completion, err = e.ProcessActivation(resolveAct)
	require.NoError(t, err)
	require.Len(t, completion.Commands, 1, "only the terminal command; the schedule command was already sent")
	require.Equal(t, commandpb.CommandType_CompleteWorkflowExecution, completion.Commands[len(completion.Commands)-1].GetCommandType())
	require.Equal(t, 0, e.CacheSize())
}

func TestEngine_SignalDeliveredThroughChannel(t *testing.T) {
	r := newRegistry()
	r.RegisterWorkflow(signalWorkflow)
	e := newTestEngine(r)

	dc := getDefaultDataConverter()
	completion, err := e.ProcessActivation(startActivation("signalWorkflow", "run-5", nil))
	require.NoError(t, err)
	require.Empty(t, completion.Commands)
	require.Equal(t, 1, e.CacheSize())

	signalAct := &WorkflowActivation{
		WorkflowExecution: WorkflowExecution{ID: "wf-5", RunID: "run-5"},
		Jobs: []WorkflowActivationJob{
			{Kind: jobKindSignalWorkflow, SignalName: "proceed", SignalInput: encodePayloads(t, dc, "go")},
		},
	}
	completion, err = e.ProcessActivation(signalAct)
	require.NoError(t, err)
	require.Len(t, completion.Commands, 1)
	require.Equal(t, commandpb.CommandType_CompleteWorkflowExecution, completion.Commands[0].GetCommandType())

	var got string
	attrs := completion.Commands[0].GetCompleteWorkflowExecutionCommandAttributes()
	require.NoError(t, dc.FromPayload(attrs.Result.Payloads[0], &got))
	require.Equal(t, "go", got)
}

func TestEngine_RemoveFromCacheEvictsUnconditionally(t *testing.T) {
	r := newRegistry()
	r.RegisterWorkflow(signalWorkflow)
	e := newTestEngine(r)

	_, err := e.ProcessActivation(startActivation("signalWorkflow", "run-6", nil))
	require.NoError(t, err)
	require.Equal(t, 1, e.CacheSize())

	completion, err := e.ProcessActivation(&WorkflowActivation{
		WorkflowExecution: WorkflowExecution{ID: "wf-6", RunID: "run-6"},
		Jobs:              []WorkflowActivationJob{{Kind: jobKindRemoveFromCache}},
	})
	require.NoError(t, err)
	require.Empty(t, completion.Commands)
	require.Equal(t, 0, e.CacheSize())
}

func TestStickyCache_EvictsOnlyIdleEntriesAtCapacity(t *testing.T) {
	c := newStickyCache(1)
	busy := &cacheEntry{runID: "busy", executor: &workflowExecutorImpl{}}
	c.put(busy, func(string) bool { return false })
	require.Equal(t, 1, c.size())

	idle := &cacheEntry{runID: "idle", executor: &workflowExecutorImpl{}}
	c.put(idle, func(runID string) bool { return runID == "busy" })

	_, busyStillCached := c.get("busy")
	require.False(t, busyStillCached, "busy should have been evicted once reported evictable")
	_, idleCached := c.get("idle")
	require.True(t, idleCached)
}

func TestStickyCache_RemoveIsUnconditional(t *testing.T) {
	c := newStickyCache(10)
	entry := &cacheEntry{runID: "r1", executor: &workflowExecutorImpl{}}
	c.put(entry, func(string) bool { return false })

	removed, ok := c.remove("r1")
	require.True(t, ok)
	require.Equal(t, "r1", removed.runID)
	require.Equal(t, 0, c.size())
}
