// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package blobid

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
)

// The predicates below answer questions about an encoded id string without
// decoding the whole identifier. Only the header prefix is ever decoded, so
// they work without a partition directory.

// VersionOf returns the wire version of an encoded id string.
func VersionOf(s string) (Version, error) {
	header, err := headerBytes(s, 2)
	if err != nil {
		return 0, err
	}
	return Version(binary.BigEndian.Uint16(header[0:2])), nil
}

// IsCrafted reports whether an encoded id string names a crafted
// identifier. Identifiers below V3 are never crafted.
func IsCrafted(s string) (bool, error) {
	version, err := VersionOf(s)
	if err != nil {
		return false, err
	}
	if version < V3 {
		return false, nil
	}
	header, err := headerBytes(s, 3)
	if err != nil {
		return false, err
	}
	return header[2]&flagCrafted != 0, nil
}

// IsEncrypted reports whether an encoded id string names an encrypted blob.
// Identifiers below V4 never do: V3 may carry the bit on the wire but it is
// not honored.
func IsEncrypted(s string) (bool, error) {
	version, err := VersionOf(s)
	if err != nil {
		return false, err
	}
	if version < V4 {
		return false, nil
	}
	header, err := headerBytes(s, 3)
	if err != nil {
		return false, err
	}
	return header[2]&flagEncrypted != 0, nil
}

// AccountAndContainer returns the account and container bound in an encoded
// id string. V1 identifiers carry no binding and yield the sentinels.
func AccountAndContainer(s string) (accountID, containerID int16, err error) {
	version, err := VersionOf(s)
	if err != nil {
		return 0, 0, err
	}
	if version == V1 {
		return UnknownAccountID, UnknownContainerID, nil
	}
	header, err := headerBytes(s, 8)
	if err != nil {
		return 0, 0, err
	}
	accountID = int16(binary.BigEndian.Uint16(header[4:6]))
	containerID = int16(binary.BigEndian.Uint16(header[6:8]))
	return accountID, containerID, nil
}

// base64PrefixLen returns how many unpadded base64url characters encode the
// first n bytes.
func base64PrefixLen(n int) int {
	chars := n / 3 * 4
	switch n % 3 {
	case 1:
		chars += 2
	case 2:
		chars += 3
	}
	return chars
}

// headerBytes decodes the first n bytes of an encoded id string. The
// encoding is picked by which of base64url and legacy hex yields a known
// version in the first two bytes.
func headerBytes(s string, n int) ([]byte, error) {
	chars := base64PrefixLen(n)

	sawBase64 := false
	var base64Version Version
	if len(s) >= chars {
		if raw, err := base64.RawURLEncoding.DecodeString(s[:chars]); err == nil {
			sawBase64 = true
			base64Version = Version(binary.BigEndian.Uint16(raw[0:2]))
			if validVersion(base64Version) {
				return raw[:n], nil
			}
		}
	}
	if len(s) >= 2*n {
		if raw, err := hex.DecodeString(s[:2*n]); err == nil {
			if validVersion(Version(binary.BigEndian.Uint16(raw[0:2]))) {
				return raw, nil
			}
		}
	}

	if sawBase64 {
		return nil, ErrUnknownVersion.New("%d", uint16(base64Version))
	}
	if len(s) < chars && len(s) < 2*n {
		return nil, ErrTruncated.New("id string too short")
	}
	return nil, ErrInvalidEncoding.New("id is neither base64url nor hex")
}
