// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package testrand implements random data generation for tests.
package testrand

import (
	"math/rand"

	"storj.io/blobmap/blobid"
	"storj.io/blobmap/clustermap"
)

// Read reads pseudo-random data into data.
func Read(data []byte) {
	_, _ = rand.Read(data)
}

// BytesN generates size amount of random data.
func BytesN(size int) []byte {
	data := make([]byte, size)
	Read(data)
	return data
}

// Bool returns a random boolean.
func Bool() bool {
	return rand.Intn(2) == 0
}

// DatacenterID returns a random datacenter id.
func DatacenterID() int8 {
	return int8(rand.Intn(1 << 8))
}

// AccountID returns a random account id.
func AccountID() int16 {
	return int16(rand.Intn(1 << 16))
}

// ContainerID returns a random container id.
func ContainerID() int16 {
	return int16(rand.Intn(1 << 16))
}

// Type returns a random blob id type.
func Type() blobid.Type {
	if Bool() {
		return blobid.TypeCrafted
	}
	return blobid.TypeNative
}

// DataType returns a random blob data type.
func DataType() blobid.DataType {
	return blobid.DataType(rand.Intn(3))
}

// Partition returns a random writable partition from dir.
func Partition(dir clustermap.Directory) clustermap.PartitionID {
	writable := dir.WritablePartitions()
	return writable[rand.Intn(len(writable))]
}

// BlobID returns a blob id with random fields at the given version.
func BlobID(version blobid.Version, dir clustermap.Directory) *blobid.BlobID {
	id, err := blobid.New(version, Type(), DatacenterID(), AccountID(), ContainerID(),
		Partition(dir), Bool(), DataType())
	if err != nil {
		panic(err)
	}
	return id
}
