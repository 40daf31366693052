// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package consensus implements the Ouroboros Samasika timing constants
// (spec.md §4.2, C4) and fork-choice rule (spec.md §4.3, C5) used to
// decide whether a candidate chain tip should replace the current one.
package consensus

import (
	"errors"
	"fmt"

	"github.com/monetarium/mina-core/currency"
)

// CheckpointsPerYear is the fixed divisor used to size the checkpoint
// window, mirroring the network-parameter-table convention of
// chaincfg's Params (one constant table per network, not per block).
const CheckpointsPerYear = 24

// SubWindowsPerWindow is the number of sub-windows tracked by the
// sliding block-density window.
const SubWindowsPerWindow = 11

// SlotsPerSubWindow is the number of slots in each sub-window.
const SlotsPerSubWindow = 7

// GracePeriodEndDefault is the default grace-period boundary (in
// slots) below which the long-range density projection is skipped in
// favor of the tip's own density (spec.md §4.3).
const GracePeriodEndDefault = 1440

// ConstraintConstants carries the network-wide SNARK circuit sizing
// parameters that feed constants derivation.
type ConstraintConstants struct {
	SubWindowsPerWindow   uint32
	BlockWindowDurationMs uint32

	// AccountCreationFee is subtracted from the first amount credited
	// to a brand-new account, the ledger-side cost of the Merkle slot
	// it occupies (spec.md §4.7-4.9).
	AccountCreationFee currency.Fee
}

// ProtocolConstants carries the genesis-configured protocol timing
// parameters.
type ProtocolConstants struct {
	K                 uint32
	SlotsPerEpoch     uint32
	SlotsPerSubWindow uint32
	GracePeriodSlots  uint32
	Delta             uint32
}

// Constants is the fully derived set of timing parameters for a
// network, computed once from CC and PC and then treated as immutable.
type Constants struct {
	CC ConstraintConstants
	PC ProtocolConstants

	SlotsPerWindow               uint32
	GracePeriodEnd               uint32
	EpochDuration                uint64
	DeltaDuration                uint64
	SlotsPerYear                 uint64
	CheckpointWindowSizeInSlots  uint64
}

// ErrInvariantViolated is returned by NewConstants when the derived
// values fail the construction-time invariants of spec.md §4.2.
var ErrInvariantViolated = errors.New("consensus: constants invariant violated")

// NewConstants derives Constants from cc and pc, in the exact order
// spec.md §4.2 specifies, and checks the construction invariants.
func NewConstants(cc ConstraintConstants, pc ProtocolConstants) (Constants, error) {
	slotsPerWindow := pc.SlotsPerSubWindow * cc.SubWindowsPerWindow
	gracePeriodEnd := pc.GracePeriodSlots + slotsPerWindow
	epochDuration := uint64(pc.SlotsPerEpoch) * uint64(cc.BlockWindowDurationMs)
	deltaDuration := uint64(cc.BlockWindowDurationMs) * uint64(pc.Delta+1)

	const msPerYear = 365 * 24 * 60 * 60 * 1000
	slotsPerYear := uint64(msPerYear) / uint64(cc.BlockWindowDurationMs)
	checkpointWindowSize := slotsPerYear / CheckpointsPerYear

	c := Constants{
		CC:                          cc,
		PC:                          pc,
		SlotsPerWindow:              slotsPerWindow,
		GracePeriodEnd:              gracePeriodEnd,
		EpochDuration:               epochDuration,
		DeltaDuration:               deltaDuration,
		SlotsPerYear:                slotsPerYear,
		CheckpointWindowSizeInSlots: checkpointWindowSize,
	}

	if uint64(gracePeriodEnd-slotsPerWindow) >= uint64(pc.SlotsPerEpoch)/3 {
		return Constants{}, fmt.Errorf("%w: grace period extends past epoch/3 boundary", ErrInvariantViolated)
	}
	if slotsPerYear != checkpointWindowSize*CheckpointsPerYear {
		return Constants{}, fmt.Errorf("%w: checkpoint window size does not evenly divide slots per year", ErrInvariantViolated)
	}
	return c, nil
}

// InSeedUpdateRange reports whether slot falls in the leader-seed
// update window of the epoch: slot < 2*(slots_per_epoch/3). PC's
// slots_per_epoch must be divisible by 3.
func (c Constants) InSeedUpdateRange(slot uint32) bool {
	return slot < 2*(c.PC.SlotsPerEpoch/3)
}

// CheckpointWindow returns the checkpoint-window index containing slot.
func (c Constants) CheckpointWindow(slot uint32) uint64 {
	return uint64(slot) / c.CheckpointWindowSizeInSlots
}

// GlobalSubWindow returns the absolute sub-window index for slot.
func (c Constants) GlobalSubWindow(slot uint32) uint32 {
	return slot / c.PC.SlotsPerSubWindow
}

// RelativeSubWindow maps an absolute sub-window index into the
// sliding-window ring's [0, SubWindowsPerWindow) index space.
func (c Constants) RelativeSubWindow(globalSubWindow uint32) uint32 {
	return globalSubWindow % c.CC.SubWindowsPerWindow
}

// relativeSubWindowFromGlobalSlot implements
// `relative_sub_window_from_global_slot` from spec.md §4.3: a
// network-constant form used only inside the fork-choice density
// projection, independent of any particular Constants value.
func relativeSubWindowFromGlobalSlot(slot uint32) uint32 {
	return (slot / SlotsPerSubWindow) % SubWindowsPerWindow
}
