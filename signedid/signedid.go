// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package signedid wraps blob identifier strings in a metadata-carrying
// envelope.
//
// The envelope is not secure or tamper-proof: nothing is actually signed.
// Callers must not rely on its integrity.
package signedid

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/zeebo/errs"
)

var (
	// Error is the default signedid error class.
	Error = errs.Class("signedid")

	// ErrSerialize is returned when the envelope cannot be serialized.
	ErrSerialize = errs.Class("signedid: serialize")
)

// Prefix marks a signed id string.
const Prefix = "signedId/"

type envelope struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

// Sign wraps a blob id string and its metadata into a signed id string.
func Sign(id string, metadata map[string]string) (string, error) {
	payload, err := json.Marshal(envelope{ID: id, Metadata: metadata})
	if err != nil {
		return "", ErrSerialize.Wrap(err)
	}
	return Prefix + base64.RawURLEncoding.EncodeToString(payload), nil
}

// IsSigned reports whether an id string is a signed id.
func IsSigned(id string) bool {
	return strings.HasPrefix(id, Prefix)
}

// Parse unwraps a signed id string into the blob id string and metadata it
// carries.
func Parse(signed string) (id string, metadata map[string]string, err error) {
	if !IsSigned(signed) {
		return "", nil, Error.New("id is not signed")
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(signed, Prefix))
	if err != nil {
		return "", nil, Error.Wrap(err)
	}
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return "", nil, Error.Wrap(err)
	}
	return env.ID, env.Metadata, nil
}
