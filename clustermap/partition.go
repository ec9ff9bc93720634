// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package clustermap

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zeebo/errs"
)

var (
	// Error is the default clustermap error class.
	Error = errs.Class("clustermap")

	// ErrUnknownPartition is returned when a partition cannot be resolved
	// from the cluster map.
	ErrUnknownPartition = errs.Class("clustermap: unknown partition")

	// ErrTruncated is returned when a partition serialization ends early.
	ErrTruncated = errs.Class("clustermap: truncated partition")
)

// PartitionID names a logical shard of the blob store. Implementations own
// their serialization; callers treat the bytes as opaque.
type PartitionID interface {
	// Bytes returns the self-describing serialization of the partition.
	Bytes() []byte
	// Compare returns -1, 0, or 1 by the partition's natural order.
	Compare(other PartitionID) int
	// Equal reports whether both ids name the same partition.
	Equal(other PartitionID) bool
}

// Directory resolves partition ids from their serialized form. A Directory
// only resolves partitions that are present in the cluster map.
type Directory interface {
	// ReadPartition consumes one serialized partition id from r.
	ReadPartition(r io.Reader) (PartitionID, error)
	// WritablePartitions lists partitions that accept new blobs.
	WritablePartitions() []PartitionID
}

const partitionVersion = 1

// Partition is a fixed-layout partition id: a u16 layout version followed
// by a u64 index, both big-endian.
type Partition struct {
	index uint64
}

// NewPartition constructs a partition id with the given index.
func NewPartition(index uint64) *Partition {
	return &Partition{index: index}
}

// Index returns the partition's numeric index.
func (p *Partition) Index() uint64 { return p.index }

// Bytes returns the serialized form of the partition id.
func (p *Partition) Bytes() []byte {
	var buf [10]byte
	binary.BigEndian.PutUint16(buf[0:2], partitionVersion)
	binary.BigEndian.PutUint64(buf[2:10], p.index)
	return buf[:]
}

// Compare implements PartitionID by comparing serialized forms.
func (p *Partition) Compare(other PartitionID) int {
	return bytes.Compare(p.Bytes(), other.Bytes())
}

// Equal implements PartitionID.
func (p *Partition) Equal(other PartitionID) bool {
	return p.Compare(other) == 0
}

func (p *Partition) String() string {
	return fmt.Sprintf("partition-%d", p.index)
}

// StaticDirectory is an in-memory Directory over a fixed set of partitions
// numbered 0..count-1.
type StaticDirectory struct {
	partitions []PartitionID
	byIndex    map[uint64]*Partition
}

// NewStaticDirectory creates a directory with count partitions.
func NewStaticDirectory(count int) *StaticDirectory {
	dir := &StaticDirectory{
		byIndex: make(map[uint64]*Partition, count),
	}
	for i := 0; i < count; i++ {
		p := NewPartition(uint64(i))
		dir.partitions = append(dir.partitions, p)
		dir.byIndex[p.index] = p
	}
	return dir
}

// ReadPartition consumes one serialized partition id from r and resolves it
// against the directory.
func (dir *StaticDirectory) ReadPartition(r io.Reader) (PartitionID, error) {
	var buf [10]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, ErrTruncated.Wrap(err)
	}
	if version := binary.BigEndian.Uint16(buf[0:2]); version != partitionVersion {
		return nil, ErrUnknownPartition.New("unsupported layout version %d", version)
	}
	index := binary.BigEndian.Uint64(buf[2:10])
	p, ok := dir.byIndex[index]
	if !ok {
		return nil, ErrUnknownPartition.New("partition %d not in cluster map", index)
	}
	return p, nil
}

// WritablePartitions lists all partitions in the directory.
func (dir *StaticDirectory) WritablePartitions() []PartitionID {
	writable := make([]PartitionID, len(dir.partitions))
	copy(writable, dir.partitions)
	return writable
}
