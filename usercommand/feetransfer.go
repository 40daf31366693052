// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package usercommand

import (
	"fmt"

	"github.com/monetarium/mina-core/consensus"
	"github.com/monetarium/mina-core/currency"
	"github.com/monetarium/mina-core/zkapp"
)

// SingleFeeTransfer credits Amount to Receiver, drawn from a block
// producer's coinbase-adjacent fee pool.
type SingleFeeTransfer struct {
	Receiver zkapp.AccountId
	Amount   currency.Amount
}

// FeeTransferTag discriminates a one-party from a two-party fee
// transfer.
type FeeTransferTag int

const (
	// FeeTransferOne marks a single-receiver fee transfer.
	FeeTransferOne FeeTransferTag = iota
	// FeeTransferTwo marks a two-receiver fee transfer.
	FeeTransferTwo
)

// FeeTransfer is the tagged One(s)/Two(s1,s2) union apply_fee_transfer
// operates on, per spec.md §4.8.
type FeeTransfer struct {
	Tag   FeeTransferTag
	First SingleFeeTransfer

	// Second is only meaningful when Tag == FeeTransferTwo.
	Second SingleFeeTransfer
}

// FeeTransferApplied is the result of applying a FeeTransfer: the new
// accounts created and the total amount burned because a receiver
// could not accept it.
type FeeTransferApplied struct {
	FeeTransfer  FeeTransfer
	NewAccounts  []zkapp.AccountId
	BurnedTokens currency.Amount
	Failures     [][]zkapp.TransactionFailure
}

// creditSingle applies s to ledger, crediting the creation-fee-adjusted
// amount if the receiver can receive, and burning it otherwise. It
// reports whether a new account was created and what, if anything, was
// burned.
func creditSingle(cc consensus.ConstraintConstants, ledger zkapp.Ledger, s SingleFeeTransfer) (created bool, burned currency.Amount, failures []zkapp.TransactionFailure, err error) {
	account, existed, err := ledger.GetAccount(s.Receiver)
	if err != nil {
		return false, 0, nil, fmt.Errorf("usercommand: loading fee transfer receiver: %w", err)
	}
	if !existed {
		account = zkapp.NewDefaultAccount(s.Receiver)
	}

	amount := s.Amount
	if !existed {
		feeAmount := cc.AccountCreationFee.ToAmount()
		reduced, ok := amount.CheckedSub(feeAmount)
		if !ok {
			return false, 0, nil, fmt.Errorf("%w: account creation fee %d exceeds fee transfer amount %d",
				ErrCommandRejected, feeAmount, amount)
		}
		amount = reduced
	}

	if !authorizesField(account.Permissions.Receive) {
		return !existed, s.Amount, []zkapp.TransactionFailure{zkapp.FailureUpdateNotPermittedBalance}, nil
	}

	credited, ok := account.Balance.CheckedAdd(currency.Balance(amount))
	if !ok {
		return !existed, s.Amount, []zkapp.TransactionFailure{zkapp.FailureOverflow}, nil
	}
	account.Balance = credited
	if err := ledger.SetAccount(s.Receiver, account); err != nil {
		return false, 0, nil, fmt.Errorf("usercommand: committing fee transfer: %w", err)
	}
	return !existed, 0, nil, nil
}

// ApplyFeeTransfer applies a one- or two-party fee transfer, per
// spec.md §4.8. Every fee_token involved must be the default token;
// violating that is a hard error rather than a recorded failure, since
// a fee transfer with a non-default token cannot occur in a
// well-formed block.
func ApplyFeeTransfer(cc consensus.ConstraintConstants, slot currency.Slot, ledger zkapp.Ledger, ft FeeTransfer) (FeeTransferApplied, error) {
	if !ft.First.Receiver.TokenId.IsZero() {
		return FeeTransferApplied{}, fmt.Errorf("%w: fee transfer token must be the default token", ErrCommandRejected)
	}
	if ft.Tag == FeeTransferTwo && !ft.Second.Receiver.TokenId.IsZero() {
		return FeeTransferApplied{}, fmt.Errorf("%w: fee transfer token must be the default token", ErrCommandRejected)
	}

	if ft.Tag == FeeTransferOne {
		created, burned, failures, err := creditSingle(cc, ledger, ft.First)
		if err != nil {
			return FeeTransferApplied{}, err
		}
		applied := FeeTransferApplied{FeeTransfer: ft, BurnedTokens: burned, Failures: [][]zkapp.TransactionFailure{failures}}
		if created {
			applied.NewAccounts = append(applied.NewAccounts, ft.First.Receiver)
		}
		return applied, nil
	}

	if ft.First.Receiver.Key() == ft.Second.Receiver.Key() {
		combined, ok := ft.First.Amount.CheckedAdd(ft.Second.Amount)
		if !ok {
			return FeeTransferApplied{}, fmt.Errorf("%w: combined fee transfer overflows", ErrCommandRejected)
		}
		created, burned, failures, err := creditSingle(cc, ledger, SingleFeeTransfer{Receiver: ft.First.Receiver, Amount: combined})
		if err != nil {
			return FeeTransferApplied{}, err
		}
		applied := FeeTransferApplied{FeeTransfer: ft, BurnedTokens: burned, Failures: [][]zkapp.TransactionFailure{failures}}
		if created {
			applied.NewAccounts = append(applied.NewAccounts, ft.First.Receiver)
		}
		return applied, nil
	}

	created1, burned1, failures1, err := creditSingle(cc, ledger, ft.First)
	if err != nil {
		return FeeTransferApplied{}, err
	}
	created2, burned2, failures2, err := creditSingle(cc, ledger, ft.Second)
	if err != nil {
		return FeeTransferApplied{}, err
	}
	totalBurned, ok := burned1.CheckedAdd(burned2)
	if !ok {
		return FeeTransferApplied{}, fmt.Errorf("%w: burned-tokens total overflows", ErrCommandRejected)
	}

	applied := FeeTransferApplied{FeeTransfer: ft, BurnedTokens: totalBurned, Failures: [][]zkapp.TransactionFailure{failures1, failures2}}
	if created1 {
		applied.NewAccounts = append(applied.NewAccounts, ft.First.Receiver)
	}
	if created2 {
		applied.NewAccounts = append(applied.NewAccounts, ft.Second.Receiver)
	}
	return applied, nil
}
