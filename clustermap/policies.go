// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package clustermap

import (
	"go.uber.org/zap"

	"storj.io/blobmap/resourcestate"
)

// DataNodePolicy tracks the availability of a data node. A node whose
// initial state is Unavailable is permanently down.
type DataNodePolicy struct {
	*resourcestate.FixedBackoffPolicy
}

// NewDataNodePolicy constructs the availability policy for the named node.
func NewDataNodePolicy(log *zap.Logger, node string, initialState HardwareState, config resourcestate.Config) *DataNodePolicy {
	return &DataNodePolicy{
		FixedBackoffPolicy: resourcestate.NewFixedBackoffPolicy(
			log, node, initialState == Unavailable, config),
	}
}

// State returns the node's current hardware state.
func (policy *DataNodePolicy) State() HardwareState {
	if policy.IsDown() {
		return Unavailable
	}
	return Available
}

// DiskPolicy tracks the availability of a disk. A disk whose initial state
// is Unavailable is permanently down.
type DiskPolicy struct {
	*resourcestate.FixedBackoffPolicy
}

// NewDiskPolicy constructs the availability policy for the named disk.
func NewDiskPolicy(log *zap.Logger, disk string, initialState HardwareState, config resourcestate.Config) *DiskPolicy {
	return &DiskPolicy{
		FixedBackoffPolicy: resourcestate.NewFixedBackoffPolicy(
			log, disk, initialState == Unavailable, config),
	}
}

// State returns the disk's current hardware state.
func (policy *DiskPolicy) State() HardwareState {
	if policy.IsDown() {
		return Unavailable
	}
	return Available
}
