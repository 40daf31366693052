// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zkapp

import (
	"github.com/monetarium/mina-core/currency"
	"github.com/monetarium/mina-core/pasta"
)

// ActionStateRingLen is the number of recent action-state commitments
// an account remembers, per spec.md §4.5's 5-slot membership ring.
const ActionStateRingLen = 5

// Account is the full ledger-resident account state the applier reads
// and writes.
type Account struct {
	PublicKey        pasta.Fp
	TokenId          pasta.Fp
	Balance          currency.Balance
	Nonce            currency.Nonce
	ReceiptChainHash pasta.Fp
	Delegate         pasta.Fp
	AppState         [8]pasta.Fp
	ActionState      [ActionStateRingLen]pasta.Fp
	ProvedState      bool
	ZkappURI         string
	VerificationKeyHash pasta.Fp
	Permissions      Permissions
	Timing           Timing
	VotingFor        pasta.Fp
	TokenSymbol      string
}

// NewDefaultAccount returns the zero-value account a brand-new account
// id materializes to before any update is applied (the "creation-fee
// path" of spec.md §4.6 step: "load account ... materialize with
// defaults if absent").
func NewDefaultAccount(id AccountId) Account {
	return Account{
		PublicKey: id.PublicKey,
		TokenId:   id.TokenId,
	}
}

// ActionStateContains reports whether target appears anywhere in the
// account's action-state ring, implementing the "membership in 5-slot
// action-state ring" precondition check of spec.md §4.5.
func (a Account) ActionStateContains(target pasta.Fp) bool {
	for _, slot := range a.ActionState {
		if slot.Equal(target) {
			return true
		}
	}
	return false
}

// Equal reports whether a and other represent the same account state.
// pasta.Fp wraps a big.Int, which is not comparable with ==, so the
// cancellation guard's "did this account change" check goes through
// this method instead of a struct comparison.
func (a Account) Equal(other Account) bool {
	if !a.PublicKey.Equal(other.PublicKey) || !a.TokenId.Equal(other.TokenId) {
		return false
	}
	if a.Balance != other.Balance || a.Nonce != other.Nonce {
		return false
	}
	if !a.ReceiptChainHash.Equal(other.ReceiptChainHash) || !a.Delegate.Equal(other.Delegate) {
		return false
	}
	for i := range a.AppState {
		if !a.AppState[i].Equal(other.AppState[i]) {
			return false
		}
	}
	for i := range a.ActionState {
		if !a.ActionState[i].Equal(other.ActionState[i]) {
			return false
		}
	}
	if a.ProvedState != other.ProvedState || a.ZkappURI != other.ZkappURI || a.TokenSymbol != other.TokenSymbol {
		return false
	}
	if !a.VerificationKeyHash.Equal(other.VerificationKeyHash) || !a.VotingFor.Equal(other.VotingFor) {
		return false
	}
	if a.Permissions != other.Permissions {
		return false
	}
	if a.Timing != other.Timing {
		return false
	}
	return true
}
