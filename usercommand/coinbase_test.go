// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package usercommand

import (
	"testing"

	"github.com/monetarium/mina-core/currency"
	"github.com/monetarium/mina-core/pasta"
	"github.com/monetarium/mina-core/zkapp"
)

func TestApplyCoinbaseNoFeeTransferCreditsReceiver(t *testing.T) {
	ledger := newFakeLedger()
	id := zkapp.AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.Zero()}
	ledger.SetAccount(id, payerAccount(1, 0, 0))

	cb := Coinbase{Receiver: id, Amount: currency.Amount(720)}
	applied, err := ApplyCoinbase(testConstraintConstants(), currency.Slot(1), ledger, cb)
	if err != nil {
		t.Fatalf("ApplyCoinbase: %v", err)
	}
	if applied.BurnedTokens != 0 {
		t.Fatalf("expected nothing burned, got %d", applied.BurnedTokens)
	}
	acc, _, _ := ledger.GetAccount(id)
	if acc.Balance != 720 {
		t.Fatalf("expected receiver balance 720, got %d", acc.Balance)
	}
}

func TestApplyCoinbaseWithFeeTransferSplitsReward(t *testing.T) {
	ledger := newFakeLedger()
	receiverId := zkapp.AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.Zero()}
	transfereeId := zkapp.AccountId{PublicKey: pasta.NewFromUint64(2), TokenId: pasta.Zero()}
	ledger.SetAccount(receiverId, payerAccount(1, 0, 0))
	ledger.SetAccount(transfereeId, payerAccount(2, 0, 0))

	cb := Coinbase{
		Receiver:    receiverId,
		Amount:      currency.Amount(720),
		FeeTransfer: &CoinbaseFeeTransfer{Receiver: transfereeId, Fee: currency.Fee(20)},
	}
	applied, err := ApplyCoinbase(testConstraintConstants(), currency.Slot(1), ledger, cb)
	if err != nil {
		t.Fatalf("ApplyCoinbase: %v", err)
	}
	receiverAcc, _, _ := ledger.GetAccount(receiverId)
	transfereeAcc, _, _ := ledger.GetAccount(transfereeId)
	if receiverAcc.Balance != 700 {
		t.Fatalf("expected receiver reward 700 (720-20), got %d", receiverAcc.Balance)
	}
	if transfereeAcc.Balance != 20 {
		t.Fatalf("expected transferee balance 20, got %d", transfereeAcc.Balance)
	}
	if applied.BurnedTokens != 0 {
		t.Fatalf("expected nothing burned, got %d", applied.BurnedTokens)
	}
}

func TestApplyCoinbaseFeeTransferTooLargeRejects(t *testing.T) {
	ledger := newFakeLedger()
	receiverId := zkapp.AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.Zero()}
	transfereeId := zkapp.AccountId{PublicKey: pasta.NewFromUint64(2), TokenId: pasta.Zero()}

	cb := Coinbase{
		Receiver:    receiverId,
		Amount:      currency.Amount(10),
		FeeTransfer: &CoinbaseFeeTransfer{Receiver: transfereeId, Fee: currency.Fee(20)},
	}
	if _, err := ApplyCoinbase(testConstraintConstants(), currency.Slot(1), ledger, cb); err == nil {
		t.Fatal("expected a rejection when the fee transfer exceeds the coinbase amount")
	}
}

func TestApplyCoinbaseBurnsWhenReceiverCannotReceive(t *testing.T) {
	ledger := newFakeLedger()
	id := zkapp.AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.Zero()}
	acc := payerAccount(1, 0, 0)
	acc.Permissions.Receive = zkapp.AuthKind(99)
	ledger.SetAccount(id, acc)

	cb := Coinbase{Receiver: id, Amount: currency.Amount(720)}
	applied, err := ApplyCoinbase(testConstraintConstants(), currency.Slot(1), ledger, cb)
	if err != nil {
		t.Fatalf("ApplyCoinbase: %v", err)
	}
	if applied.BurnedTokens != 720 {
		t.Fatalf("expected the full reward burned, got %d", applied.BurnedTokens)
	}
	got, _, _ := ledger.GetAccount(id)
	if got.Balance != 0 {
		t.Fatalf("expected balance unchanged at 0, got %d", got.Balance)
	}
	if len(applied.Failures) != 2 || len(applied.Failures[1]) != 1 {
		t.Fatalf("expected a single position-1 failure, got %v", applied.Failures)
	}
}

// TestApplyCoinbaseNoOpOnExistingZeroBalanceAccount exercises property
// P12: a zero-amount coinbase to an already-present zero-balance
// account leaves that account's observable state unchanged.
func TestApplyCoinbaseNoOpOnExistingZeroBalanceAccount(t *testing.T) {
	ledger := newFakeLedger()
	id := zkapp.AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.Zero()}
	before := payerAccount(1, 0, 0)
	ledger.SetAccount(id, before)

	cb := Coinbase{Receiver: id, Amount: currency.Amount(0)}
	applied, err := ApplyCoinbase(testConstraintConstants(), currency.Slot(1), ledger, cb)
	if err != nil {
		t.Fatalf("ApplyCoinbase: %v", err)
	}
	if applied.BurnedTokens != 0 {
		t.Fatalf("expected nothing burned, got %d", applied.BurnedTokens)
	}
	after, _, _ := ledger.GetAccount(id)
	if !after.Equal(before) {
		t.Fatal("expected the account to be unchanged by a zero-amount coinbase")
	}
}
