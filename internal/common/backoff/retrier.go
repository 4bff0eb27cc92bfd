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

import (
	"math"
	"math/rand"
	"time"

	"github.com/facebookgo/clock"
)

// done is returned by Retrier.NextBackOff to signal "stop retrying".
const done time.Duration = -1

// Clock abstracts time.Now so tests can use a fake clock; satisfied by
// github.com/facebookgo/clock.Clock (real or mock).
type Clock interface {
	Now() time.Time
}

// SystemClock is the real wall clock.
var SystemClock Clock = clock.New()

// Retrier hands out successive backoff intervals for one retry loop.
type Retrier interface {
	NextBackOff() time.Duration
	Reset()
}

type retrier struct {
	policy        RetryPolicy
	clock         Clock
	currentAttempt int
	startTime     time.Time
}

// NewRetrier creates a Retrier bound to policy, using clk to read elapsed time.
func NewRetrier(policy RetryPolicy, clk Clock) Retrier {
	return &retrier{
		policy:    policy,
		clock:     clk,
		startTime: clk.Now(),
	}
}

func (r *retrier) Reset() {
	r.currentAttempt = 0
	r.startTime = r.clock.Now()
}

func (r *retrier) NextBackOff() time.Duration {
	if maxAttempts := r.policy.MaxAttempts(); maxAttempts > 0 && r.currentAttempt+1 >= maxAttempts {
		return done
	}

	elapsed := r.expirationInterval()
	if elapsed > 0 && r.clock.Now().Sub(r.startTime) > elapsed {
		return done
	}

	nextInterval := r.computeNextDelay()
	r.currentAttempt++
	return nextInterval
}

func (r *retrier) expirationInterval() time.Duration {
	if exp := r.policy.ExpirationInterval(); exp > 0 {
		return exp
	}
	return r.policy.MaxElapsedTime()
}

func (r *retrier) computeNextDelay() time.Duration {
	initial := float64(r.policy.InitialInterval())
	multiplier := r.policy.Multiplier()
	if multiplier <= 0 {
		multiplier = 1
	}
	base := initial * math.Pow(multiplier, float64(r.currentAttempt))

	if max := float64(r.policy.MaxInterval()); max > 0 && base > max {
		base = max
	}

	// Jitter within +/-50% of base, floored at the initial interval, so concurrent
	// retries from many callers don't collide on the same wall-clock instant.
	jitterFraction := 0.5
	delta := base * jitterFraction
	jittered := base - delta + rand.Float64()*2*delta
	if jittered < initial {
		jittered = initial
	}
	return time.Duration(jittered)
}
