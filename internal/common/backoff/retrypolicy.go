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

package backoff

import "time"

// RetryPolicy describes a jittered exponential backoff schedule: each attempt's base
// delay is InitialInterval * Multiplier^(attempt-1), capped at MaxInterval, and jittered
// by +/-50% (never below InitialInterval) before use. MaxElapsedTime (if nonzero) and MaxAttempts (if
// nonzero) bound the whole retry loop; either one hitting its limit stops retries.
type RetryPolicy interface {
	InitialInterval() time.Duration
	MaxInterval() time.Duration
	Multiplier() float64
	MaxAttempts() int
	MaxElapsedTime() time.Duration
	ExpirationInterval() time.Duration
}

type retryPolicy struct {
	initialInterval     time.Duration
	maxInterval         time.Duration
	multiplier          float64
	maxAttempts         int
	maxElapsedTime      time.Duration
	expirationInterval  time.Duration
}

// NewExponentialRetryPolicy creates a RetryPolicy with the given initial interval, a 2.0
// multiplier and a max interval of ten times the initial one; the With* setters on the
// returned policy adjust the remaining fields.
func NewExponentialRetryPolicy(initialInterval time.Duration) *retryPolicy {
	return &retryPolicy{
		initialInterval: initialInterval,
		maxInterval:     10 * initialInterval,
		multiplier:      2.0,
	}
}

// NewRetryPolicy builds a RetryPolicy from explicit fields; used by the bridge client's
// per-call-option-preset tables.
func NewRetryPolicy(initialInterval, maxInterval time.Duration, multiplier float64, maxAttempts int, maxElapsedTime time.Duration) *retryPolicy {
	return &retryPolicy{
		initialInterval: initialInterval,
		maxInterval:     maxInterval,
		multiplier:      multiplier,
		maxAttempts:     maxAttempts,
		maxElapsedTime:  maxElapsedTime,
	}
}

func (p *retryPolicy) WithMaximumAttempts(maxAttempts int) *retryPolicy {
	p.maxAttempts = maxAttempts
	return p
}

func (p *retryPolicy) WithExpirationInterval(expiration time.Duration) *retryPolicy {
	p.expirationInterval = expiration
	return p
}

func (p *retryPolicy) WithMaximumInterval(maxInterval time.Duration) *retryPolicy {
	p.maxInterval = maxInterval
	return p
}

func (p *retryPolicy) WithBackoffCoefficient(multiplier float64) *retryPolicy {
	p.multiplier = multiplier
	return p
}

func (p *retryPolicy) InitialInterval() time.Duration    { return p.initialInterval }
func (p *retryPolicy) MaxInterval() time.Duration        { return p.maxInterval }
func (p *retryPolicy) Multiplier() float64               { return p.multiplier }
func (p *retryPolicy) MaxAttempts() int                  { return p.maxAttempts }
func (p *retryPolicy) MaxElapsedTime() time.Duration     { return p.maxElapsedTime }
func (p *retryPolicy) ExpirationInterval() time.Duration { return p.expirationInterval }
