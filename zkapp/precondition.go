// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zkapp

import (
	"github.com/monetarium/mina-core/currency"
	"github.com/monetarium/mina-core/pasta"
)

// CheckAccountPrecondition evaluates every field of p against account,
// in the reverse order spec.md §4.5 names (right-to-left, matching the
// reference implementation), appending one failure per unsatisfied
// check. Evaluation never short-circuits: every field is checked even
// after an earlier one has already failed (spec.md §9, Open Question).
func CheckAccountPrecondition(p AccountPrecondition, account Account, isNew bool) []TransactionFailure {
	var failures []TransactionFailure

	if check, want := p.IsNew.HashFields(); check && want != isNew {
		failures = append(failures, FailureAccountIsNewPreconditionUnsatisfied)
	}
	if check, want := p.ProvedState.HashFields(); check && want != account.ProvedState {
		failures = append(failures, FailureAccountProvedStatePreconditionUnsatisfied)
	}
	if check, want := p.ActionState.HashFields(); check && !account.ActionStateContains(want) {
		failures = append(failures, FailureAccountActionStatePreconditionUnsatisfied)
	}
	for i := 7; i >= 0; i-- {
		if check, want := p.State[i].HashFields(); check && !want.Equal(account.AppState[i]) {
			failures = append(failures, FailureAccountStatePreconditionUnsatisfied)
		}
	}
	if check, want := p.Delegate.HashFields(); check && !want.Equal(account.Delegate) {
		failures = append(failures, FailureAccountDelegatePreconditionUnsatisfied)
	}
	if check, want := p.ReceiptChainHash.HashFields(); check && !want.Equal(account.ReceiptChainHash) {
		failures = append(failures, FailureAccountReceiptChainHashPreconditionUnsatisfied)
	}
	if check, want := p.Nonce.HashFields(); check && !want.Contains(account.Nonce) {
		failures = append(failures, FailureAccountNoncePreconditionUnsatisfied)
	}
	if check, want := p.Balance.HashFields(); check && !want.Contains(account.Balance) {
		failures = append(failures, FailureAccountBalancePreconditionUnsatisfied)
	}
	return failures
}

// NetworkView is the subset of block-level state a network precondition
// is checked against.
type NetworkView struct {
	SnarkedLedgerHash      pasta.Fp
	BlockchainLength       currency.Length
	MinWindowDensity       currency.Length
	TotalCurrency          currency.Amount
	GlobalSlotSinceGenesis currency.Slot
}

// CheckNetworkPrecondition evaluates every field of p against view,
// same non-short-circuit discipline as CheckAccountPrecondition.
func CheckNetworkPrecondition(p NetworkPrecondition, view NetworkView) []TransactionFailure {
	var failures []TransactionFailure

	if check, want := p.GlobalSlotSinceGenesis.HashFields(); check && !want.Contains(view.GlobalSlotSinceGenesis) {
		failures = append(failures, FailureNetworkGlobalSlotSincePreconditionUnsatisfied)
	}
	if check, want := p.TotalCurrency.HashFields(); check && !want.Contains(view.TotalCurrency) {
		failures = append(failures, FailureNetworkTotalCurrencyPreconditionUnsatisfied)
	}
	if check, want := p.MinWindowDensity.HashFields(); check && !want.Contains(view.MinWindowDensity) {
		failures = append(failures, FailureNetworkMinWindowDensityPreconditionUnsatisfied)
	}
	if check, want := p.BlockchainLength.HashFields(); check && !want.Contains(view.BlockchainLength) {
		failures = append(failures, FailureNetworkBlockchainLengthPreconditionUnsatisfied)
	}
	if check, want := p.SnarkedLedgerHash.HashFields(); check && !want.Equal(view.SnarkedLedgerHash) {
		failures = append(failures, FailureNetworkSnarkedLedgerHashPreconditionUnsatisfied)
	}
	return failures
}

// CheckValidWhile reports whether currentSlot falls within w, per
// spec.md §4.5's Slot-interval precondition applied against the
// containing block's global_slot_since_genesis.
func CheckValidWhile(w ValidWhile, currentSlot currency.Slot) bool {
	check, want := w.HashFields()
	if !check {
		return true
	}
	return want.Contains(currentSlot)
}
