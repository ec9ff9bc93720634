// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package clustermap_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storj.io/blobmap/clustermap"
	"storj.io/blobmap/resourcestate"
)

var testConfig = resourcestate.Config{
	FailureWindow:         time.Minute,
	FailureCountThreshold: 2,
	RetryBackoff:          time.Hour,
}

func TestDataNodePolicyState(t *testing.T) {
	policy := clustermap.NewDataNodePolicy(zaptest.NewLogger(t),
		"node-1", clustermap.Available, testConfig)
	require.Equal(t, clustermap.Available, policy.State())

	policy.OnError()
	require.Equal(t, clustermap.Available, policy.State())
	policy.OnError()
	require.Equal(t, clustermap.Unavailable, policy.State())
}

func TestDiskPolicyState(t *testing.T) {
	policy := clustermap.NewDiskPolicy(zaptest.NewLogger(t),
		"disk-1", clustermap.Available, testConfig)
	require.Equal(t, clustermap.Available, policy.State())

	policy.OnError()
	policy.OnError()
	require.Equal(t, clustermap.Unavailable, policy.State())
}

func TestInitiallyUnavailableIsHardDown(t *testing.T) {
	node := clustermap.NewDataNodePolicy(zaptest.NewLogger(t),
		"node-2", clustermap.Unavailable, testConfig)
	require.Equal(t, clustermap.Unavailable, node.State())
	require.True(t, node.IsHardDown())

	disk := clustermap.NewDiskPolicy(zaptest.NewLogger(t),
		"disk-2", clustermap.Unavailable, testConfig)
	require.Equal(t, clustermap.Unavailable, disk.State())
	require.True(t, disk.IsHardDown())
}

func TestHardwareStateString(t *testing.T) {
	assert.Equal(t, "AVAILABLE", clustermap.Available.String())
	assert.Equal(t, "UNAVAILABLE", clustermap.Unavailable.String())
}
