// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package receipt implements the transaction-union payload (spec.md
// §4.10, C11): the legacy and modern receipt-chain hashing used by
// signed commands and zkApp commands respectively, and the memo
// encoding both carry.
package receipt

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/monetarium/mina-core/hashdomain"
	"github.com/monetarium/mina-core/pasta"
)

// MemoLen is the fixed wire size of a Memo, per spec.md §6.5.
const MemoLen = 34

const (
	memoTagDigest = 0x00
	memoTagBytes  = 0x01
)

// maxMemoDigestInput is the input-size ceiling create_by_digesting_string
// enforces before hashing.
const maxMemoDigestInput = 1000

// Memo is the fixed 34-byte memo a command carries: a tag byte, a
// length byte, and a zero-padded payload.
type Memo [MemoLen]byte

// ErrMemoTooLong is returned by CreateByDigestingString when the input
// exceeds maxMemoDigestInput bytes.
var ErrMemoTooLong = errors.New("receipt: memo digest input too long")

// ErrMemoPayloadTooLong is returned by WithBytes when payload would not
// fit the 32-byte raw slot.
var ErrMemoPayloadTooLong = errors.New("receipt: memo payload exceeds 32 bytes")

// Empty returns the canonical empty memo: tag=bytes, length=0.
func Empty() Memo {
	var m Memo
	m[0] = memoTagBytes
	return m
}

// Dummy returns the all-zero memo (tag=digest, length=0), used as a
// placeholder when no memo has been attached yet.
func Dummy() Memo {
	return Memo{}
}

// WithBytes packs a raw byte payload (at most 32 bytes) into a Memo.
func WithBytes(payload []byte) (Memo, error) {
	if len(payload) > MemoLen-2 {
		return Memo{}, fmt.Errorf("%w: got %d bytes", ErrMemoPayloadTooLong, len(payload))
	}
	var m Memo
	m[0] = memoTagBytes
	m[1] = byte(len(payload))
	copy(m[2:], payload)
	return m, nil
}

// CreateByDigestingString hashes s with Blake2b-256 and packs the
// digest into a Memo, rejecting inputs over maxMemoDigestInput bytes.
func CreateByDigestingString(s string) (Memo, error) {
	if len(s) > maxMemoDigestInput {
		return Memo{}, fmt.Errorf("%w: got %d bytes", ErrMemoTooLong, len(s))
	}
	digest := blake2b.Sum256([]byte(s))
	var m Memo
	m[0] = memoTagDigest
	m[1] = MemoLen - 2
	copy(m[2:], digest[:MemoLen-2])
	return m, nil
}

// Hash returns the memo's field-element digest, the form
// `ZkAppCommand.memo_hash` and `SignedCommandPayload`'s memo field
// ultimately feed into the commitment/receipt hash chain.
func (m Memo) Hash() pasta.Fp {
	return hashdomain.HashWithDomain(hashdomain.MinaZkappMemo, []pasta.Fp{pasta.NewFromBytesLE(m[:])})
}
