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

// Package config loads client/worker settings from a YAML file, so a binary
// embedding this SDK doesn't have to hardcode host ports and poller sizing.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"go.temporal.io/sdk-core/client"
	"go.temporal.io/sdk-core/worker"
)

// ClientConfig is the YAML shape for connecting to a server.
type ClientConfig struct {
	HostPort  string `yaml:"hostPort"`
	Namespace string `yaml:"namespace"`
	Identity  string `yaml:"identity,omitempty"`
}

// WorkerConfig is the YAML shape for one worker's slot sizing and lifecycle knobs.
type WorkerConfig struct {
	TaskQueue string `yaml:"taskQueue"`

	MaxConcurrentWorkflowTaskExecutionSize  int `yaml:"maxConcurrentWorkflowTaskExecutionSize,omitempty"`
	MaxConcurrentActivityExecutionSize      int `yaml:"maxConcurrentActivityExecutionSize,omitempty"`
	MaxConcurrentLocalActivityExecutionSize int `yaml:"maxConcurrentLocalActivityExecutionSize,omitempty"`

	MaxActivitiesPerSecond          float64 `yaml:"maxActivitiesPerSecond,omitempty"`
	MaxTaskQueueActivitiesPerSecond float64 `yaml:"maxTaskQueueActivitiesPerSecond,omitempty"`

	StickyCacheSize                 int           `yaml:"stickyCacheSize,omitempty"`
	StickyScheduleToStartTimeout    time.Duration `yaml:"stickyScheduleToStartTimeout,omitempty"`
	GracefulShutdownPeriod          time.Duration `yaml:"gracefulShutdownPeriod,omitempty"`

	NoRemoteActivities bool `yaml:"noRemoteActivities,omitempty"`
	EnableNexus        bool `yaml:"enableNexus,omitempty"`

	BuildID        string `yaml:"buildId,omitempty"`
	DeploymentName string `yaml:"deploymentName,omitempty"`

	// NonDeterministicWorkflowPolicy selects "block" (default, fail only the task) or
	// "fail" (fail the workflow run outright) when replay detects non-determinism.
	NonDeterministicWorkflowPolicy string `yaml:"nonDeterministicWorkflowPolicy,omitempty"`
}

// Config is the top-level YAML document: one client section, one worker per task
// queue this process hosts.
type Config struct {
	Client  ClientConfig            `yaml:"client"`
	Workers map[string]WorkerConfig `yaml:"workers"`
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the fields every client/worker pair needs to actually dial and
// poll, rather than failing later with an unhelpful zero-value gRPC error.
func (c *Config) Validate() error {
	if c.Client.HostPort == "" {
		return fmt.Errorf("config: client.hostPort is required")
	}
	if c.Client.Namespace == "" {
		return fmt.Errorf("config: client.namespace is required")
	}
	for name, w := range c.Workers {
		if w.TaskQueue == "" {
			return fmt.Errorf("config: workers.%s.taskQueue is required", name)
		}
		switch w.NonDeterministicWorkflowPolicy {
		case "", "block", "fail":
		default:
			return fmt.Errorf("config: workers.%s.nonDeterministicWorkflowPolicy must be %q, %q or empty, got %q",
				name, "block", "fail", w.NonDeterministicWorkflowPolicy)
		}
	}
	return nil
}

// ClientOptions builds a client.Options from the parsed client section.
func (c *Config) ClientOptions() client.Options {
	return client.Options{
		HostPort:  c.Client.HostPort,
		Namespace: c.Client.Namespace,
		Identity:  c.Client.Identity,
	}
}

// WorkerOptions builds a worker.Options for the named worker section.
func (c *Config) WorkerOptions(name string) (worker.Options, error) {
	w, ok := c.Workers[name]
	if !ok {
		return worker.Options{}, fmt.Errorf("config: no worker section named %q", name)
	}
	policy := worker.NonDeterministicWorkflowPolicyBlockWorkflow
	if w.NonDeterministicWorkflowPolicy == "fail" {
		policy = worker.NonDeterministicWorkflowPolicyFailWorkflow
	}
	return worker.Options{
		Identity: c.Client.Identity,

		MaxConcurrentWorkflowTaskExecutionSize:  w.MaxConcurrentWorkflowTaskExecutionSize,
		MaxConcurrentActivityExecutionSize:      w.MaxConcurrentActivityExecutionSize,
		MaxConcurrentLocalActivityExecutionSize: w.MaxConcurrentLocalActivityExecutionSize,

		MaxActivitiesPerSecond:          w.MaxActivitiesPerSecond,
		MaxTaskQueueActivitiesPerSecond: w.MaxTaskQueueActivitiesPerSecond,

		StickyCacheSize:              w.StickyCacheSize,
		StickyScheduleToStartTimeout: w.StickyScheduleToStartTimeout,
		GracefulShutdownPeriod:       w.GracefulShutdownPeriod,

		NoRemoteActivities: w.NoRemoteActivities,
		EnableNexus:        w.EnableNexus,

		BuildID:                        w.BuildID,
		DeploymentName:                 w.DeploymentName,
		NonDeterministicWorkflowPolicy: policy,
	}, nil
}
