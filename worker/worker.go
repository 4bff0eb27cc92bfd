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

// Package worker manages the lifecycle of a worker process: polling a task queue,
// dispatching workflow and activity tasks to registered implementations, and
// reporting their outcomes back to the server.
package worker

import (
	"go.temporal.io/sdk-core/internal"
)

type (
	// Worker represents objects that can register workflows/activities and be
	// started and stopped against a task queue.
	Worker interface {
		// RegisterWorkflow registers a workflow function under its own name.
		RegisterWorkflow(w interface{})
		// RegisterWorkflowWithOptions registers a workflow function under a
		// caller-chosen name.
		RegisterWorkflowWithOptions(w interface{}, options RegisterWorkflowOptions)
		// RegisterActivity registers an activity function under its own name.
		RegisterActivity(a interface{})
		// RegisterActivityWithOptions registers an activity function under a
		// caller-chosen name.
		RegisterActivityWithOptions(a interface{}, options RegisterActivityOptions)
		// Run starts the worker's poll loops and blocks until Stop drains them.
		Run() error
		// Stop initiates graceful shutdown and returns immediately; Run returns once
		// every poll loop has exited.
		Stop()
	}

	// Options configures a worker instance.
	Options = internal.WorkerOptions

	// RegisterWorkflowOptions customizes the wire name a workflow registers under.
	RegisterWorkflowOptions = internal.RegisterWorkflowOptions

	// RegisterActivityOptions customizes the wire name an activity registers under.
	RegisterActivityOptions = internal.RegisterActivityOptions

	// VersioningStrategy selects how a worker identifies itself to the server for
	// worker-versioning eligibility rules.
	VersioningStrategy = internal.VersioningStrategy

	// NonDeterministicWorkflowPolicy controls what happens when replay detects a
	// workflow definition diverged from its recorded history.
	NonDeterministicWorkflowPolicy = internal.NonDeterministicWorkflowPolicy

	// WorkerInterceptor wraps every workflow task and activity task this worker
	// dispatches.
	WorkerInterceptor = internal.WorkerInterceptor
)

const (
	// VersioningNone sends no build ID; the worker is eligible for every task
	// regardless of deployment or build-ID versioning rules.
	VersioningNone = internal.VersioningStrategyNone
	// VersioningDeploymentBased binds the worker to a deployment name/build ID pair.
	VersioningDeploymentBased = internal.VersioningStrategyDeploymentBased
	// VersioningLegacyBuildIDBased binds a bare build ID using per-task-queue
	// compatible-build-ID chains.
	VersioningLegacyBuildIDBased = internal.VersioningStrategyLegacyBuildIDBased

	// NonDeterministicWorkflowPolicyBlockWorkflow fails only the current workflow
	// task when replay detects non-determinism, leaving the run retryable.
	NonDeterministicWorkflowPolicyBlockWorkflow = internal.NonDeterministicWorkflowPolicyBlockWorkflow
	// NonDeterministicWorkflowPolicyFailWorkflow fails the workflow run outright
	// when replay detects non-determinism.
	NonDeterministicWorkflowPolicyFailWorkflow = internal.NonDeterministicWorkflowPolicyFailWorkflow
)

// workerImpl adapts *internal.AggregatedWorker to the Worker interface.
type workerImpl struct {
	aw *internal.AggregatedWorker
}

func (w *workerImpl) RegisterWorkflow(wf interface{}) { w.aw.RegisterWorkflow(wf) }
func (w *workerImpl) RegisterWorkflowWithOptions(wf interface{}, options RegisterWorkflowOptions) {
	w.aw.RegisterWorkflowWithOptions(wf, options)
}
func (w *workerImpl) RegisterActivity(a interface{}) { w.aw.RegisterActivity(a) }
func (w *workerImpl) RegisterActivityWithOptions(a interface{}, options RegisterActivityOptions) {
	w.aw.RegisterActivityWithOptions(a, options)
}
func (w *workerImpl) Run() error { return w.aw.Run() }
func (w *workerImpl) Stop()      { w.aw.Stop() }

// New creates a worker that polls taskQueue using client's connection and registers
// workflows/activities into client's shared registry. client must be a Client
// returned by client.Dial; options configures slot sizing, poller behavior, and
// worker versioning.
func New(client internal.Client, taskQueue string, options Options) (Worker, error) {
	aw, err := internal.NewAggregatedWorker(client, taskQueue, options)
	if err != nil {
		return nil, err
	}
	return &workerImpl{aw: aw}, nil
}
