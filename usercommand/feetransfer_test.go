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

func TestApplyFeeTransferOneCreditsExistingAccount(t *testing.T) {
	ledger := newFakeLedger()
	id := zkapp.AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.Zero()}
	ledger.SetAccount(id, payerAccount(1, 0, 0))

	ft := FeeTransfer{Tag: FeeTransferOne, First: SingleFeeTransfer{Receiver: id, Amount: currency.Amount(20)}}
	applied, err := ApplyFeeTransfer(testConstraintConstants(), currency.Slot(1), ledger, ft)
	if err != nil {
		t.Fatalf("ApplyFeeTransfer: %v", err)
	}
	if len(applied.NewAccounts) != 0 {
		t.Fatalf("expected no new accounts for an existing receiver, got %v", applied.NewAccounts)
	}
	if applied.BurnedTokens != 0 {
		t.Fatalf("expected nothing burned, got %d", applied.BurnedTokens)
	}
	acc, _, _ := ledger.GetAccount(id)
	if acc.Balance != 20 {
		t.Fatalf("expected balance 20, got %d", acc.Balance)
	}
}

func TestApplyFeeTransferOneBurnsWhenReceiveNotPermitted(t *testing.T) {
	ledger := newFakeLedger()
	id := zkapp.AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.Zero()}
	acc := payerAccount(1, 0, 0)
	acc.Permissions.Receive = zkapp.AuthKind(99) // neither AuthNone nor AuthSignature
	ledger.SetAccount(id, acc)

	ft := FeeTransfer{Tag: FeeTransferOne, First: SingleFeeTransfer{Receiver: id, Amount: currency.Amount(20)}}
	applied, err := ApplyFeeTransfer(testConstraintConstants(), currency.Slot(1), ledger, ft)
	if err != nil {
		t.Fatalf("ApplyFeeTransfer: %v", err)
	}
	if applied.BurnedTokens != 20 {
		t.Fatalf("expected the fee to be burned, got %d", applied.BurnedTokens)
	}
	got, _, _ := ledger.GetAccount(id)
	if got.Balance != 0 {
		t.Fatalf("expected balance unchanged at 0, got %d", got.Balance)
	}
	if len(applied.Failures) != 1 || len(applied.Failures[0]) != 1 {
		t.Fatalf("expected a single position-0 failure, got %v", applied.Failures)
	}
}

func TestApplyFeeTransferTwoSameAccountCombinesFees(t *testing.T) {
	ledger := newFakeLedger()
	id := zkapp.AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.Zero()}
	ledger.SetAccount(id, payerAccount(1, 0, 0))

	ft := FeeTransfer{
		Tag:    FeeTransferTwo,
		First:  SingleFeeTransfer{Receiver: id, Amount: currency.Amount(10)},
		Second: SingleFeeTransfer{Receiver: id, Amount: currency.Amount(15)},
	}
	applied, err := ApplyFeeTransfer(testConstraintConstants(), currency.Slot(1), ledger, ft)
	if err != nil {
		t.Fatalf("ApplyFeeTransfer: %v", err)
	}
	acc, _, _ := ledger.GetAccount(id)
	if acc.Balance != 25 {
		t.Fatalf("expected combined balance 25, got %d", acc.Balance)
	}
	if len(applied.Failures) != 1 {
		t.Fatalf("expected a single combined failure-table position, got %v", applied.Failures)
	}
}

func TestApplyFeeTransferTwoDistinctAccountsIndependent(t *testing.T) {
	ledger := newFakeLedger()
	id1 := zkapp.AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.Zero()}
	id2 := zkapp.AccountId{PublicKey: pasta.NewFromUint64(2), TokenId: pasta.Zero()}
	ledger.SetAccount(id1, payerAccount(1, 0, 0))
	ledger.SetAccount(id2, payerAccount(2, 0, 0))

	ft := FeeTransfer{
		Tag:    FeeTransferTwo,
		First:  SingleFeeTransfer{Receiver: id1, Amount: currency.Amount(10)},
		Second: SingleFeeTransfer{Receiver: id2, Amount: currency.Amount(15)},
	}
	applied, err := ApplyFeeTransfer(testConstraintConstants(), currency.Slot(1), ledger, ft)
	if err != nil {
		t.Fatalf("ApplyFeeTransfer: %v", err)
	}
	if len(applied.Failures) != 2 {
		t.Fatalf("expected two independent failure-table positions, got %v", applied.Failures)
	}
	acc1, _, _ := ledger.GetAccount(id1)
	acc2, _, _ := ledger.GetAccount(id2)
	if acc1.Balance != 10 || acc2.Balance != 15 {
		t.Fatalf("expected independent credits 10/15, got %d/%d", acc1.Balance, acc2.Balance)
	}
}

func TestApplyFeeTransferRejectsNonDefaultToken(t *testing.T) {
	ledger := newFakeLedger()
	id := zkapp.AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.NewFromUint64(7)}
	ft := FeeTransfer{Tag: FeeTransferOne, First: SingleFeeTransfer{Receiver: id, Amount: currency.Amount(1)}}
	if _, err := ApplyFeeTransfer(testConstraintConstants(), currency.Slot(1), ledger, ft); err == nil {
		t.Fatal("expected a hard rejection for a non-default fee token")
	}
}
