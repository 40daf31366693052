// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"

	"golang.org/x/crypto/blake2b"
)

// EpochData carries the portion of an epoch's seed-chain state that
// fork choice needs to correlate two candidate tips.
type EpochData struct {
	LockCheckpoint [32]byte
}

// ConsensusState is the subset of a block's consensus state that fork
// choice and window-density projection operate on (spec.md §4.3).
type ConsensusState struct {
	BlockchainLength       uint32
	EpochCount             uint32
	GlobalSlotInEpoch      uint32
	GlobalSlotSinceGenesis uint32
	LastVrfOutput          [32]byte
	MinWindowDensity       uint32
	SubWindowDensities     [SubWindowsPerWindow]uint32
	StakingEpochData       EpochData
	NextEpochData          EpochData
}

// Reason names why consensus_take preferred one chain over another.
type Reason int

const (
	// ReasonChainLength prefers the longer chain.
	ReasonChainLength Reason = iota
	// ReasonVrf prefers the chain with the larger last-VRF-output digest.
	ReasonVrf
	// ReasonStateHash breaks a full tie by comparing state hashes.
	ReasonStateHash
	// ReasonSubWindowDensity prefers the chain with the denser window,
	// used only in the long-range comparison.
	ReasonSubWindowDensity
)

// check implements the directional half of IsShortRangeFork: whether
// s1 is exactly one epoch ahead of s2, s2 is already past its seed
// update deadline, and s1's staking checkpoint matches s2's next-epoch
// checkpoint.
func check(c Constants, s1, s2 ConsensusState) bool {
	if s1.EpochCount != s2.EpochCount+1 {
		return false
	}
	if s2.GlobalSlotInEpoch < 2*(c.PC.SlotsPerEpoch/3) {
		return false
	}
	return s1.StakingEpochData.LockCheckpoint == s2.NextEpochData.LockCheckpoint
}

// IsShortRangeFork reports whether a and b share a recent-enough
// common ancestor that fork choice can use the cheap comparison
// (chain length, then VRF, then state hash) instead of the
// window-density projection.
func IsShortRangeFork(c Constants, a, b ConsensusState) bool {
	if a.EpochCount == b.EpochCount {
		return a.StakingEpochData.LockCheckpoint == b.StakingEpochData.LockCheckpoint
	}
	return check(c, a, b) || check(c, b, a)
}

// relativeMinWindowDensity projects b1's sub-window density ring
// forward to max(global_slot(b1), global_slot(b2)) and returns the
// minimum of b1's recorded density and the projected sum, per
// spec.md §4.3.
func relativeMinWindowDensity(b1, b2 ConsensusState) uint32 {
	maxSlot := b1.GlobalSlotSinceGenesis
	if b2.GlobalSlotSinceGenesis > maxSlot {
		maxSlot = b2.GlobalSlotSinceGenesis
	}
	if maxSlot < GracePeriodEndDefault {
		return b1.MinWindowDensity
	}

	var projected [SubWindowsPerWindow]uint32
	projected = b1.SubWindowDensities

	// Saturating subtraction: once b1 is already at or past maxSlot
	// (the common case when b1 is the larger-slot tip), nothing has
	// elapsed to shift the ring forward by.
	var shiftCount uint32
	if maxSlot > b1.GlobalSlotSinceGenesis+1 {
		shiftCount = maxSlot - (b1.GlobalSlotSinceGenesis + 1)
	}
	if shiftCount > SubWindowsPerWindow {
		shiftCount = SubWindowsPerWindow
	}

	i := relativeSubWindowFromGlobalSlot(b1.GlobalSlotSinceGenesis)
	for k := uint32(0); k <= shiftCount; k++ {
		i = (i + 1) % SubWindowsPerWindow
		projected[i] = 0
	}

	var sum uint32
	for _, d := range projected {
		sum += d
	}
	if b1.MinWindowDensity < sum {
		return b1.MinWindowDensity
	}
	return sum
}

func vrfDigest(out [32]byte) [32]byte {
	return blake2b.Sum256(out[:])
}

// ShortRangeForkTake compares two tips known to share a recent common
// ancestor: longer chain wins, then larger VRF-output digest, then
// larger state hash.
func ShortRangeForkTake(tip, cand ConsensusState, tipHash, candHash [32]byte) (bool, Reason) {
	if cand.BlockchainLength != tip.BlockchainLength {
		return cand.BlockchainLength > tip.BlockchainLength, ReasonChainLength
	}
	tipVrf := vrfDigest(tip.LastVrfOutput)
	candVrf := vrfDigest(cand.LastVrfOutput)
	if cmp := bytes.Compare(candVrf[:], tipVrf[:]); cmp != 0 {
		return cmp > 0, ReasonVrf
	}
	return bytes.Compare(candHash[:], tipHash[:]) > 0, ReasonStateHash
}

// LongRangeForkTake compares two tips with no recent common ancestor:
// denser sub-window projection wins, then longer chain, then VRF, then
// state hash.
func LongRangeForkTake(tip, cand ConsensusState, tipHash, candHash [32]byte) (bool, Reason) {
	tipDensity := relativeMinWindowDensity(tip, cand)
	candDensity := relativeMinWindowDensity(cand, tip)
	if tipDensity != candDensity {
		return candDensity > tipDensity, ReasonSubWindowDensity
	}
	take, reason := ShortRangeForkTake(tip, cand, tipHash, candHash)
	return take, reason
}

// ConsensusTake is the top-level fork-choice decision: it dispatches
// to the short- or long-range comparison depending on whether tip and
// cand share a recent enough epoch lineage.
func ConsensusTake(c Constants, tip, cand ConsensusState, tipHash, candHash [32]byte) bool {
	if IsShortRangeFork(c, tip, cand) {
		take, _ := ShortRangeForkTake(tip, cand, tipHash, candHash)
		return take
	}
	take, _ := LongRangeForkTake(tip, cand, tipHash, candHash)
	return take
}
