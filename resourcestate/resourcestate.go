// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package resourcestate decides whether a cluster resource is up or down.
//
// The cluster map routes around resources that a FixedBackoffPolicy has
// marked down. The policy is advisory and in-memory only: nothing persists
// across restarts and peers do not coordinate their decisions.
package resourcestate

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/spacemonkeygo/monkit/v3"
	"go.uber.org/zap"
)

var mon = monkit.Package()

// Policy reports the availability of a single resource. Implementations
// must be safe for concurrent use from any goroutine.
type Policy interface {
	// OnError records one failure against the resource.
	OnError()
	// IsDown reports whether the resource is down, soft or hard.
	IsDown() bool
	// IsHardDown reports whether the resource is permanently down.
	IsHardDown() bool
}

// Config holds the failure detection parameters for a FixedBackoffPolicy.
type Config struct {
	// FailureWindow is the sliding span over which failures are counted.
	FailureWindow time.Duration
	// FailureCountThreshold is how many failures within the window take
	// the resource down.
	FailureCountThreshold int
	// RetryBackoff is how long a resource stays down before it is
	// automatically considered up again.
	RetryBackoff time.Duration
}

// FixedBackoffPolicy marks a resource down once failures cluster within the
// failure window and reopens it after a fixed backoff. A hard-down policy
// is down forever regardless of errors.
//
// IsDown reads an atomically published flag while the resource is up, so
// the healthy path takes no lock. Only error recording and the reopen check
// serialize on the mutex.
type FixedBackoffPolicy struct {
	log      *zap.Logger
	resource string
	hardDown bool
	config   Config

	now func() time.Time

	down atomic.Bool

	mu        sync.Mutex
	failures  []time.Time
	downUntil time.Time
}

// NewFixedBackoffPolicy constructs a policy for the named resource. If
// hardDown is set the resource is permanently down.
func NewFixedBackoffPolicy(log *zap.Logger, resource string, hardDown bool, config Config) *FixedBackoffPolicy {
	return &FixedBackoffPolicy{
		log:      log,
		resource: resource,
		hardDown: hardDown,
		config:   config,
		now:      time.Now,
	}
}

// OnError records one failure at the current time. When the failure count
// reaches the threshold within the window, the resource goes down until
// now plus the retry backoff. Errors are absorbed while already down.
func (policy *FixedBackoffPolicy) OnError() {
	policy.mu.Lock()
	defer policy.mu.Unlock()

	if policy.down.Load() {
		return
	}

	now := policy.now()
	cutoff := now.Add(-policy.config.FailureWindow)
	for len(policy.failures) > 0 && policy.failures[0].Before(cutoff) {
		policy.failures = policy.failures[1:]
	}

	if len(policy.failures)+1 < policy.config.FailureCountThreshold {
		policy.failures = append(policy.failures, now)
		return
	}

	policy.failures = policy.failures[:0]
	policy.downUntil = now.Add(policy.config.RetryBackoff)
	policy.down.Store(true)
	mon.Event("resource_down")
	policy.log.Error("resource went down",
		zap.String("resource", policy.resource),
		zap.Duration("backoff", policy.config.RetryBackoff))
}

// IsDown reports whether the resource is down. A soft-down resource comes
// back up on the first call after the backoff expires.
func (policy *FixedBackoffPolicy) IsDown() bool {
	if policy.hardDown {
		return true
	}
	if !policy.down.Load() {
		return false
	}

	policy.mu.Lock()
	defer policy.mu.Unlock()
	if policy.now().After(policy.downUntil) {
		policy.down.Store(false)
		return false
	}
	return true
}

// IsHardDown reports whether the resource is permanently down.
func (policy *FixedBackoffPolicy) IsHardDown() bool {
	return policy.hardDown
}
