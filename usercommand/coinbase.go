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

// CoinbaseFeeTransfer is the optional secondary receiver a coinbase
// splits part of its reward to.
type CoinbaseFeeTransfer struct {
	Receiver zkapp.AccountId
	Fee      currency.Fee
}

// Coinbase is the block-reward transaction apply_coinbase operates on.
// FeeTransfer.Fee must not exceed Amount; constructing one where it
// does is rejected at construction time, per spec.md §4.9, so
// ApplyCoinbase treats a violation here as a hard error rather than a
// recorded failure.
type Coinbase struct {
	Receiver    zkapp.AccountId
	Amount      currency.Amount
	FeeTransfer *CoinbaseFeeTransfer
}

// CoinbaseApplied is the result of applying a Coinbase.
type CoinbaseApplied struct {
	Coinbase     Coinbase
	NewAccounts  []zkapp.AccountId
	BurnedTokens currency.Amount
	Failures     [][]zkapp.TransactionFailure
}

// ApplyCoinbase credits a coinbase's receiver (and, if present, its
// fee-transfer receiver) with the block reward, per spec.md §4.9.
func ApplyCoinbase(cc consensus.ConstraintConstants, slot currency.Slot, ledger zkapp.Ledger, cb Coinbase) (CoinbaseApplied, error) {
	receiverReward := cb.Amount
	var ftFailure []zkapp.TransactionFailure
	var ftBurned currency.Amount
	var ftCreated bool

	if cb.FeeTransfer != nil {
		if currency.Amount(cb.FeeTransfer.Fee) > cb.Amount {
			return CoinbaseApplied{}, fmt.Errorf("%w: Coinbase fee transfer too large", ErrCommandRejected)
		}
		reduced, ok := cb.Amount.CheckedSub(currency.Amount(cb.FeeTransfer.Fee))
		if !ok {
			return CoinbaseApplied{}, fmt.Errorf("%w: Coinbase fee transfer too large", ErrCommandRejected)
		}
		receiverReward = reduced

		created, burned, failures, err := creditSingle(cc, ledger, SingleFeeTransfer{
			Receiver: cb.FeeTransfer.Receiver,
			Amount:   currency.Amount(cb.FeeTransfer.Fee),
		})
		if err != nil {
			return CoinbaseApplied{}, err
		}
		ftCreated, ftBurned, ftFailure = created, burned, failures
	}

	receiverAcct, existed, err := ledger.GetAccount(cb.Receiver)
	if err != nil {
		return CoinbaseApplied{}, fmt.Errorf("usercommand: loading coinbase receiver: %w", err)
	}
	if !existed {
		receiverAcct = zkapp.NewDefaultAccount(cb.Receiver)
	}

	amount := receiverReward
	if !existed {
		feeAmount := cc.AccountCreationFee.ToAmount()
		reduced, ok := amount.CheckedSub(feeAmount)
		if !ok {
			return CoinbaseApplied{}, fmt.Errorf("%w: coinbase reward insufficient to create account", ErrCommandRejected)
		}
		amount = reduced
	}

	applied := CoinbaseApplied{Coinbase: cb, BurnedTokens: ftBurned, Failures: [][]zkapp.TransactionFailure{ftFailure, nil}}
	if ftCreated {
		applied.NewAccounts = append(applied.NewAccounts, cb.FeeTransfer.Receiver)
	}

	if !authorizesField(receiverAcct.Permissions.Receive) {
		totalBurned, ok := applied.BurnedTokens.CheckedAdd(receiverReward)
		if !ok {
			return CoinbaseApplied{}, fmt.Errorf("%w: burned-tokens total overflows", ErrCommandRejected)
		}
		applied.BurnedTokens = totalBurned
		applied.Failures[1] = []zkapp.TransactionFailure{zkapp.FailureUpdateNotPermittedBalance}
		return applied, nil
	}

	credited, ok := receiverAcct.Balance.CheckedAdd(currency.Balance(amount))
	if !ok {
		return CoinbaseApplied{}, fmt.Errorf("%w: coinbase reward overflows receiver balance", ErrCommandRejected)
	}
	receiverAcct.Balance = credited

	// Timing is only re-validated when there is no fee transfer, to
	// avoid the extra circuit constraints a second validate_timing call
	// would cost (spec.md §4.9).
	if cb.FeeTransfer == nil {
		newTiming, insufficient, invalid := zkapp.ValidateTiming(receiverAcct, 0, slot)
		if !insufficient && !invalid {
			receiverAcct.Timing = newTiming
		}
	}

	if err := ledger.SetAccount(cb.Receiver, receiverAcct); err != nil {
		return CoinbaseApplied{}, fmt.Errorf("usercommand: committing coinbase: %w", err)
	}
	if !existed {
		applied.NewAccounts = append(applied.NewAccounts, cb.Receiver)
	}
	return applied, nil
}
