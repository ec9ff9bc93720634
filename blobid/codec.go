// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package blobid

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"io"
	"unicode/utf8"

	"storj.io/blobmap/clustermap"
)

// Flag byte packing for V3..V5. Historical wire traffic depends on these
// exact bit positions.
const (
	flagCrafted       = 0x01
	flagEncrypted     = 0x02
	flagDataTypeShift = 2
	flagDataTypeMask  = 0x03
)

const maxUUIDLength = 1 << 16

// SizeInBytes returns the length of the identifier's serialized form.
func (id *BlobID) SizeInBytes() int {
	size := 2 + len(id.partition.Bytes()) + 4 + len(id.uuid)
	if id.version >= V2 {
		size += 6
	}
	return size
}

// Bytes returns the big-endian serialized form of the identifier.
func (id *BlobID) Bytes() []byte {
	buf := make([]byte, 0, id.SizeInBytes())
	buf = binary.BigEndian.AppendUint16(buf, uint16(id.version))
	if id.version >= V2 {
		buf = append(buf, id.flagsByte())
		buf = append(buf, byte(id.datacenterID))
		buf = binary.BigEndian.AppendUint16(buf, uint16(id.accountID))
		buf = binary.BigEndian.AppendUint16(buf, uint16(id.containerID))
	}
	buf = append(buf, id.partition.Bytes()...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(id.uuid)))
	buf = append(buf, id.uuid...)
	return buf
}

func (id *BlobID) flagsByte() byte {
	if id.version == V2 {
		return 0
	}
	var flags byte
	if id.typ == TypeCrafted {
		flags |= flagCrafted
	}
	if id.version >= V4 && id.isEncrypted {
		flags |= flagEncrypted
	}
	if id.version == V5 {
		flags |= byte(id.dataType) << flagDataTypeShift
	}
	return flags
}

// String returns the unpadded base64url form of the identifier. This is the
// only string form ever emitted; legacy hex is accepted on decode only.
func (id *BlobID) String() string {
	return base64.RawURLEncoding.EncodeToString(id.Bytes())
}

// FromString decodes an identifier from its string form, resolving the
// partition against dir. Both the base64url form and the legacy hex form
// are accepted. The string must contain the identifier exactly: trailing
// bytes are rejected.
func FromString(s string, dir clustermap.Directory) (*BlobID, error) {
	raw, b64Err := base64.RawURLEncoding.DecodeString(s)
	if b64Err == nil {
		id, err := fromBytesExact(raw, dir)
		if err == nil {
			return id, nil
		}
		// The base64url alphabet contains the hex alphabet, so a legacy
		// hex id decodes as base64 garbage. Retry as hex before failing.
		if hexRaw, hexErr := hex.DecodeString(s); hexErr == nil {
			if id, hexErr := fromBytesExact(hexRaw, dir); hexErr == nil {
				return id, nil
			}
		}
		return nil, err
	}
	hexRaw, hexErr := hex.DecodeString(s)
	if hexErr != nil {
		return nil, ErrInvalidEncoding.New("id is neither base64url nor hex")
	}
	return fromBytesExact(hexRaw, dir)
}

func fromBytesExact(raw []byte, dir clustermap.Directory) (*BlobID, error) {
	r := bytes.NewReader(raw)
	id, err := FromReader(r, dir)
	if err != nil {
		return nil, err
	}
	if r.Len() > 0 {
		return nil, ErrBadUUIDLength.New("%d trailing bytes after uuid", r.Len())
	}
	return id, nil
}

// FromReader decodes an identifier from a stream, resolving the partition
// against dir. Exactly one identifier's worth of bytes is consumed; any
// bytes past the declared uuid length are left on the stream.
func FromReader(r io.Reader, dir clustermap.Directory) (_ *BlobID, err error) {
	defer func() {
		if err != nil {
			mon.Counter("blobid_decode_failures").Inc(1)
		}
	}()

	var verBuf [2]byte
	if _, err := io.ReadFull(r, verBuf[:]); err != nil {
		return nil, ErrTruncated.New("reading version: %v", err)
	}
	version := Version(binary.BigEndian.Uint16(verBuf[:]))
	if !validVersion(version) {
		return nil, ErrUnknownVersion.New("%d", uint16(version))
	}

	typ := TypeNative
	var datacenterID int8
	var accountID, containerID int16
	var isEncrypted bool
	var dataType DataType

	if version >= V2 {
		var header [6]byte
		if _, err := io.ReadFull(r, header[:]); err != nil {
			return nil, ErrTruncated.New("reading header: %v", err)
		}
		flags := header[0]
		datacenterID = int8(header[1])
		accountID = int16(binary.BigEndian.Uint16(header[2:4]))
		containerID = int16(binary.BigEndian.Uint16(header[4:6]))

		if version >= V3 && flags&flagCrafted != 0 {
			typ = TypeCrafted
		}
		if version >= V4 {
			isEncrypted = flags&flagEncrypted != 0
		}
		if version == V5 {
			dataType = DataType(flags >> flagDataTypeShift & flagDataTypeMask)
			if dataType > Simple {
				return nil, Error.New("invalid data type %d", dataType)
			}
		}
	}

	partition, err := dir.ReadPartition(r)
	if err != nil {
		return nil, err
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, ErrTruncated.New("reading uuid length: %v", err)
	}
	uuidLen := int32(binary.BigEndian.Uint32(lenBuf[:]))
	if uuidLen < 0 {
		return nil, ErrBadUUIDLength.New("negative length %d", uuidLen)
	}
	if uuidLen > maxUUIDLength {
		return nil, ErrBadUUIDLength.New("length %d exceeds limit", uuidLen)
	}

	uuidBytes := make([]byte, uuidLen)
	if _, err := io.ReadFull(r, uuidBytes); err != nil {
		return nil, ErrBadUUIDLength.New("declared %d uuid bytes: %v", uuidLen, err)
	}
	if !utf8.Valid(uuidBytes) {
		return nil, ErrBadUTF8.New("uuid is not valid utf-8")
	}

	return newBlobID(version, typ, datacenterID, accountID, containerID,
		partition, isEncrypted, dataType, string(uuidBytes))
}
