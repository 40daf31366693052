// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zkapp

import "github.com/monetarium/mina-core/currency"

// MinBalanceAtSlot projects the vesting schedule forward to slot,
// returning the minimum balance the account must retain at that slot.
// An untimed account has no floor. This is the same linear-vesting
// projection the reference applier runs on every balance change
// against a timed account.
func (t Timing) MinBalanceAtSlot(slot currency.Slot) currency.Balance {
	if !t.IsTimed {
		return 0
	}
	if slot < t.CliffTime {
		return t.InitialMinimumBalance
	}
	if t.VestingPeriod == 0 {
		return 0
	}
	elapsed, _ := slot.SubSpan(t.CliffTime)
	numPeriods := uint64(elapsed)/uint64(t.VestingPeriod) + 1
	vestingDecrement := t.VestingIncrement.ScaleSaturating(numPeriods)

	pastCliff := t.InitialMinimumBalance.SaturatingSub(currency.Balance(t.CliffAmount))
	return pastCliff.SaturatingSub(currency.Balance(vestingDecrement))
}

// Relax returns t's post-transition form: once the projected minimum
// balance at slot reaches zero the account becomes permanently
// untimed, matching the reference's "once the calculated minimum
// balance becomes zero, the account becomes untimed" rule.
func (t Timing) Relax(slot currency.Slot) Timing {
	if !t.IsTimed || t.MinBalanceAtSlot(slot) > 0 {
		return t
	}
	return Timing{}
}

// ValidateTiming re-checks a balance change against account's vesting
// schedule at slot, after the raw signed-arithmetic balance update has
// already been computed. It reports insufficientBalance when the
// change alone would underflow (independent of timing), and
// invalidTiming when the arithmetic succeeds but the proposed balance
// falls below the slot's minimum. newTiming is the account's timing
// field after the transition: unchanged for an untimed account, and
// for a timed one passed through Relax, so it comes back untimed once
// the minimum balance at slot is zero.
func ValidateTiming(account Account, txnAmount currency.Amount, slot currency.Slot) (newTiming Timing, insufficientBalance, invalidTiming bool) {
	proposed, ok := account.Balance.AddSignedAmount(currency.Signed[currency.Amount]{Magnitude: txnAmount, Sign: currency.Neg})
	if !ok {
		return account.Timing, true, false
	}
	if !account.Timing.IsTimed {
		return account.Timing, false, false
	}
	minBalance := account.Timing.MinBalanceAtSlot(slot)
	if proposed < minBalance {
		return account.Timing.Relax(slot), false, true
	}
	return account.Timing.Relax(slot), false, false
}
