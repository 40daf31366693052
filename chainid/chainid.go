// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainid implements the deterministic 32-byte network
// fingerprint described by spec.md §4.1 (C3): a Blake2b-256 digest over
// constraint-system digests, genesis state hash, genesis constants and
// protocol versions, used to gate peer compatibility and to derive a
// libp2p preshared key.
package chainid

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Len is the fixed byte length of a ChainId.
const Len = 32

// ChainId uniquely identifies a Mina-style network.
type ChainId [Len]byte

// GenesisConstants carries the subset of protocol constants that feed
// the chain-ID derivation (spec.md §4.1 step 2).
type GenesisConstants struct {
	K                           uint32
	SlotsPerEpoch               uint32
	SlotsPerSubWindow           uint32
	Delta                       uint32
	GenesisStateTimestampMillis int64
}

// ErrInvalidStringLength is returned by FromHex when fewer than Len
// bytes decode from the input.
var ErrInvalidStringLength = errors.New("chainid: invalid string length")

// formatGenesisTimestamp renders ms-since-epoch as
// "YYYY-MM-DD HH:MM:SS.ffffffZ" in UTC, per spec.md §4.1 step 2.
func formatGenesisTimestamp(millis int64) string {
	t := time.UnixMilli(millis).UTC()
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d.%06dZ",
		t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/1000)
}

func md5Hex(x uint8) string {
	sum := md5.Sum([]byte(strconv.Itoa(int(x))))
	return hex.EncodeToString(sum[:])
}

func hashGenesisConstants(gc GenesisConstants, txPoolMaxSize uint32) [32]byte {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(strconv.FormatUint(uint64(gc.K), 10)))
	h.Write([]byte(strconv.FormatUint(uint64(gc.SlotsPerEpoch), 10)))
	h.Write([]byte(strconv.FormatUint(uint64(gc.SlotsPerSubWindow), 10)))
	h.Write([]byte(strconv.FormatUint(uint64(gc.Delta), 10)))
	h.Write([]byte(strconv.FormatUint(uint64(txPoolMaxSize), 10)))
	h.Write([]byte(formatGenesisTimestamp(gc.GenesisStateTimestampMillis)))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Compute derives a ChainId from constraint-system digests, a genesis
// state hash, genesis constants and protocol/network versions, per the
// byte-exact procedure of spec.md §4.1.
func Compute(
	csDigests [][16]byte,
	genesisStateHash string,
	gc GenesisConstants,
	txVersion uint8,
	netVersion uint8,
	txPoolMaxSize uint32,
) ChainId {
	var csHash strings.Builder
	for _, d := range csDigests {
		csHash.WriteString(hex.EncodeToString(d[:]))
	}
	gcHash := hashGenesisConstants(gc, txPoolMaxSize)

	h, _ := blake2b.New256(nil)
	h.Write([]byte(genesisStateHash))
	h.Write([]byte(csHash.String()))
	h.Write([]byte(hex.EncodeToString(gcHash[:])))
	h.Write([]byte(md5Hex(txVersion)))
	h.Write([]byte(md5Hex(netVersion)))

	var id ChainId
	copy(id[:], h.Sum(nil))
	return id
}

// PresharedKey derives the libp2p private-network key for id:
// Blake2b256("/coda/0.0.1/" || hex(id)).
func (id ChainId) PresharedKey() [32]byte {
	h, _ := blake2b.New256(nil)
	h.Write([]byte("/coda/0.0.1/"))
	h.Write([]byte(id.String()))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// String returns the lowercase 64-character hex encoding of id.
func (id ChainId) String() string {
	return hex.EncodeToString(id[:])
}

// FromHex parses a case-insensitive hex string into a ChainId. It
// fails with ErrInvalidStringLength if fewer than Len bytes decode.
func FromHex(s string) (ChainId, error) {
	b, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return ChainId{}, fmt.Errorf("chainid: invalid character: %w", err)
	}
	if len(b) < Len {
		return ChainId{}, ErrInvalidStringLength
	}
	var id ChainId
	copy(id[:], b[:Len])
	return id, nil
}

// FromBytes constructs a ChainId from the first Len bytes of b.
func FromBytes(b []byte) ChainId {
	var id ChainId
	copy(id[:], b)
	return id
}

func mustFromHex(s string) ChainId {
	id, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return id
}

// DevnetChainId is the published fingerprint of the Mina development
// network (spec.md §6.1).
var DevnetChainId = mustFromHex("29936104443aaf264a7f0192ac64b1c7173198c1ed404c1bcff5e562e05eb7f6")

// MainnetChainId is the published fingerprint of the Mina production
// network (spec.md §6.1).
var MainnetChainId = mustFromHex("a7351abc7ddf2ea92d1b38cc8e636c271c1dfd2c081c637f62ebc2af34eb7cc1")
