// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package blobid implements the versioned blob identifier codec.
//
// A blob identifier uniquely names a stored blob and carries the routing
// metadata (datacenter, account, container, partition) needed to reach it.
// Five wire versions coexist and all of them stay decodable forever.
package blobid

import (
	"strings"

	"github.com/google/uuid"
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"

	"storj.io/blobmap/clustermap"
)

var mon = monkit.Package()

var (
	// Error is the default blobid error class.
	Error = errs.Class("blobid")

	// ErrInvalidEncoding is returned when an id string is neither valid
	// base64url nor valid legacy hex.
	ErrInvalidEncoding = errs.Class("blobid: invalid encoding")

	// ErrTruncated is returned when an id ends before the layout does.
	ErrTruncated = errs.Class("blobid: truncated")

	// ErrUnknownVersion is returned when the version field is not a known
	// wire version.
	ErrUnknownVersion = errs.Class("blobid: unknown version")

	// ErrBadUUIDLength is returned when the uuid length prefix is negative
	// or does not match the encoded uuid.
	ErrBadUUIDLength = errs.Class("blobid: bad uuid length")

	// ErrBadUTF8 is returned when the uuid bytes are not valid UTF-8.
	ErrBadUTF8 = errs.Class("blobid: uuid not utf-8")

	// ErrInvalidCraftTarget is returned when Craft is called with a target
	// version that does not support crafting.
	ErrInvalidCraftTarget = errs.Class("blobid: invalid craft target")
)

// Version is a blob identifier wire version.
type Version uint16

// All known wire versions.
const (
	V1 Version = 1
	V2 Version = 2
	V3 Version = 3
	V4 Version = 4
	V5 Version = 5
)

// AllValidVersions lists every decodable wire version.
func AllValidVersions() []Version {
	return []Version{V1, V2, V3, V4, V5}
}

func validVersion(v Version) bool { return v >= V1 && v <= V5 }

// Type describes the provenance of an identifier.
type Type byte

const (
	// TypeNative marks an identifier generated fresh by the system.
	TypeNative Type = 0
	// TypeCrafted marks an identifier derived from another identifier
	// with a new account and container binding.
	TypeCrafted Type = 1
)

func (t Type) String() string {
	switch t {
	case TypeNative:
		return "NATIVE"
	case TypeCrafted:
		return "CRAFTED"
	default:
		return "INVALID"
	}
}

// DataType describes the kind of data a blob holds. Only V5 identifiers
// carry it on the wire.
type DataType byte

const (
	// DataChunk is a chunk of a composite blob.
	DataChunk DataType = 0
	// Metadata is the metadata blob of a composite blob.
	Metadata DataType = 1
	// Simple is a standalone blob.
	Simple DataType = 2
)

func (d DataType) String() string {
	switch d {
	case DataChunk:
		return "DATACHUNK"
	case Metadata:
		return "METADATA"
	case Simple:
		return "SIMPLE"
	default:
		return "INVALID"
	}
}

// Sentinels for fields that a V1 identifier does not carry.
const (
	UnknownDatacenterID int8  = -1
	UnknownAccountID    int16 = -1
	UnknownContainerID  int16 = -1
)

// BlobID is an immutable blob identifier. Values are produced by New or by
// the decode entry points and are never mutated afterwards.
type BlobID struct {
	version      Version
	typ          Type
	datacenterID int8
	accountID    int16
	containerID  int16
	partition    clustermap.PartitionID
	isEncrypted  bool
	dataType     DataType
	uuid         string
}

// New constructs a fresh identifier for a blob to be stored in the given
// partition. Fields that the chosen version does not carry are normalized
// away: V1/V2 are always NATIVE and unencrypted, V3 drops the encrypted
// flag, and only V5 keeps the data type.
func New(version Version, typ Type, datacenterID int8, accountID, containerID int16, partition clustermap.PartitionID, isEncrypted bool, dataType DataType) (*BlobID, error) {
	return newBlobID(version, typ, datacenterID, accountID, containerID, partition, isEncrypted, dataType, uuid.NewString())
}

func newBlobID(version Version, typ Type, datacenterID int8, accountID, containerID int16, partition clustermap.PartitionID, isEncrypted bool, dataType DataType, blobUUID string) (*BlobID, error) {
	if !validVersion(version) {
		return nil, ErrUnknownVersion.New("%d", version)
	}
	if partition == nil {
		return nil, Error.New("missing partition")
	}

	id := &BlobID{
		version:   version,
		partition: partition,
		uuid:      blobUUID,
	}
	switch version {
	case V1:
		id.typ = TypeNative
		id.datacenterID = UnknownDatacenterID
		id.accountID = UnknownAccountID
		id.containerID = UnknownContainerID
	case V2:
		id.typ = TypeNative
		id.datacenterID = datacenterID
		id.accountID = accountID
		id.containerID = containerID
	case V3:
		id.typ = typ
		id.datacenterID = datacenterID
		id.accountID = accountID
		id.containerID = containerID
	case V4:
		id.typ = typ
		id.datacenterID = datacenterID
		id.accountID = accountID
		id.containerID = containerID
		id.isEncrypted = isEncrypted
	case V5:
		id.typ = typ
		id.datacenterID = datacenterID
		id.accountID = accountID
		id.containerID = containerID
		id.isEncrypted = isEncrypted
		id.dataType = dataType
	}
	return id, nil
}

// Version returns the identifier's wire version.
func (id *BlobID) Version() Version { return id.version }

// Type returns the identifier's provenance.
func (id *BlobID) Type() Type { return id.typ }

// DatacenterID returns the originating datacenter, or UnknownDatacenterID
// for V1 identifiers.
func (id *BlobID) DatacenterID() int8 { return id.datacenterID }

// AccountID returns the bound account, or UnknownAccountID for V1.
func (id *BlobID) AccountID() int16 { return id.accountID }

// ContainerID returns the bound container, or UnknownContainerID for V1.
func (id *BlobID) ContainerID() int16 { return id.containerID }

// Partition returns the partition the blob is stored in.
func (id *BlobID) Partition() clustermap.PartitionID { return id.partition }

// IsEncrypted reports whether the blob data is encrypted. Always false
// below V4.
func (id *BlobID) IsEncrypted() bool { return id.isEncrypted }

// DataType returns the blob data type and whether the identifier carries
// one. Only V5 identifiers do.
func (id *BlobID) DataType() (DataType, bool) {
	if id.version != V5 {
		return 0, false
	}
	return id.dataType, true
}

// UUID returns the identifier's uuid.
func (id *BlobID) UUID() string { return id.uuid }

// IsAccountContainerMatch reports whether the identifier is bound to the
// given account and container. V1 identifiers carry no binding and match
// everything.
func (id *BlobID) IsAccountContainerMatch(accountID, containerID int16) bool {
	if id.version == V1 {
		return true
	}
	return id.accountID == accountID && id.containerID == containerID
}

// versionRank collapses V3..V5 into a single rank: once the uuid became the
// primary key the version stopped participating in ordering.
func versionRank(v Version) int {
	if v >= V3 {
		return 3
	}
	return int(v)
}

// Compare orders identifiers. V1 sorts before V2 sorts before V3..V5.
// Between V3..V5 identifiers only the uuid is compared. Within V1 and V2
// the order is (version, partition, uuid).
func (id *BlobID) Compare(other *BlobID) int {
	ra, rb := versionRank(id.version), versionRank(other.version)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	}
	if ra == 3 {
		return strings.Compare(id.uuid, other.uuid)
	}
	if result := id.partition.Compare(other.partition); result != 0 {
		return result
	}
	return strings.Compare(id.uuid, other.uuid)
}

// Equal reports whether two identifiers are equal under the comparison
// contract.
func (id *BlobID) Equal(other *BlobID) bool {
	return id.Compare(other) == 0
}

// Craft derives a new identifier from input, bound to the given account and
// container. The result has type CRAFTED and the target version; datacenter,
// partition, uuid and the encrypted flag carry over. The data type carries
// over when both versions have it and defaults to DataChunk when only the
// target does. Crafting is idempotent: re-crafting with the same arguments
// yields a byte-identical identifier.
func Craft(input *BlobID, target Version, accountID, containerID int16) (*BlobID, error) {
	if !validVersion(target) {
		return nil, ErrUnknownVersion.New("%d", target)
	}
	if target < V3 {
		return nil, ErrInvalidCraftTarget.New("version %d does not support crafting", target)
	}

	dataType := DataChunk
	if input.version == V5 {
		dataType = input.dataType
	}

	crafted, err := newBlobID(target, TypeCrafted, input.datacenterID, accountID, containerID,
		input.partition, input.isEncrypted, dataType, input.uuid)
	if err != nil {
		return nil, err
	}
	mon.Counter("blobid_crafted").Inc(1)
	return crafted, nil
}
