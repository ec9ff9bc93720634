// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package clustermap_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storj.io/blobmap/clustermap"
)

func TestPartitionBytes(t *testing.T) {
	p := clustermap.NewPartition(0x0102030405060708)
	assert.Equal(t, []byte{
		0x00, 0x01,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	}, p.Bytes())
	assert.Equal(t, uint64(0x0102030405060708), p.Index())
	assert.Equal(t, "partition-72623859790382856", p.String())
}

func TestPartitionCompare(t *testing.T) {
	a := clustermap.NewPartition(1)
	b := clustermap.NewPartition(2)

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(clustermap.NewPartition(1)))

	assert.True(t, a.Equal(clustermap.NewPartition(1)))
	assert.False(t, a.Equal(b))
}

func TestStaticDirectoryRoundTrip(t *testing.T) {
	dir := clustermap.NewStaticDirectory(5)

	for _, p := range dir.WritablePartitions() {
		got, err := dir.ReadPartition(bytes.NewReader(p.Bytes()))
		require.NoError(t, err)
		assert.True(t, p.Equal(got))
	}
}

func TestStaticDirectoryUnknownPartition(t *testing.T) {
	dir := clustermap.NewStaticDirectory(3)

	_, err := dir.ReadPartition(bytes.NewReader(clustermap.NewPartition(200000).Bytes()))
	require.Error(t, err)
	require.True(t, clustermap.ErrUnknownPartition.Has(err))
}

func TestStaticDirectoryBadLayoutVersion(t *testing.T) {
	dir := clustermap.NewStaticDirectory(3)

	raw := clustermap.NewPartition(1).Bytes()
	raw[0], raw[1] = 0x00, 0x07
	_, err := dir.ReadPartition(bytes.NewReader(raw))
	require.Error(t, err)
	require.True(t, clustermap.ErrUnknownPartition.Has(err))
}

func TestStaticDirectoryTruncated(t *testing.T) {
	dir := clustermap.NewStaticDirectory(3)

	raw := clustermap.NewPartition(1).Bytes()
	_, err := dir.ReadPartition(bytes.NewReader(raw[:4]))
	require.Error(t, err)
	require.True(t, clustermap.ErrTruncated.Has(err))
}

func TestWritablePartitionsIsACopy(t *testing.T) {
	dir := clustermap.NewStaticDirectory(3)

	writable := dir.WritablePartitions()
	require.Len(t, writable, 3)
	writable[0] = clustermap.NewPartition(99)

	fresh := dir.WritablePartitions()
	assert.True(t, fresh[0].Equal(clustermap.NewPartition(0)))
}
