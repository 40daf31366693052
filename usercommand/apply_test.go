// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package usercommand

import (
	"testing"

	"github.com/monetarium/mina-core/consensus"
	"github.com/monetarium/mina-core/currency"
	"github.com/monetarium/mina-core/pasta"
	"github.com/monetarium/mina-core/receipt"
	"github.com/monetarium/mina-core/zkapp"
)

// fakeLedger is a minimal in-memory zkapp.Ledger for exercising the
// appliers in this package.
type fakeLedger struct {
	accounts map[zkapp.AccountIdKey]zkapp.Account
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{accounts: make(map[zkapp.AccountIdKey]zkapp.Account)}
}

func (l *fakeLedger) GetAccount(id zkapp.AccountId) (zkapp.Account, bool, error) {
	acc, ok := l.accounts[id.Key()]
	return acc, ok, nil
}

func (l *fakeLedger) SetAccount(id zkapp.AccountId, acc zkapp.Account) error {
	l.accounts[id.Key()] = acc
	return nil
}

func (l *fakeLedger) Clone() zkapp.Ledger {
	cp := newFakeLedger()
	for k, v := range l.accounts {
		cp.accounts[k] = v
	}
	return cp
}

func (l *fakeLedger) MerkleRoot() pasta.Fp {
	return pasta.NewFromUint64(uint64(len(l.accounts)))
}

func testConstraintConstants() consensus.ConstraintConstants {
	return consensus.ConstraintConstants{AccountCreationFee: currency.Fee(1)}
}

func payerAccount(pubKey uint64, balance currency.Balance, nonce currency.Nonce) zkapp.Account {
	id := zkapp.AccountId{PublicKey: pasta.NewFromUint64(pubKey), TokenId: pasta.Zero()}
	acc := zkapp.NewDefaultAccount(id)
	acc.Balance = balance
	acc.Nonce = nonce
	return acc
}

func basePayload(payerPub uint64, nonce currency.Nonce, fee currency.Fee) SignedCommandPayload {
	return SignedCommandPayload{
		Common: Common{
			Fee:               fee,
			FeePayerPublicKey: pasta.NewFromUint64(payerPub),
			FeeTokenId:        pasta.Zero(),
			Nonce:             nonce,
			ValidUntil:        currency.Slot(1000),
			Memo:              receipt.Empty(),
		},
	}
}

func TestApplyUserCommandPaymentCreditsReceiver(t *testing.T) {
	ledger := newFakeLedger()
	payerId := zkapp.AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.Zero()}
	receiverId := zkapp.AccountId{PublicKey: pasta.NewFromUint64(2), TokenId: pasta.Zero()}
	ledger.SetAccount(payerId, payerAccount(1, 1000, 0))
	ledger.SetAccount(receiverId, payerAccount(2, 0, 0))

	payload := basePayload(1, 0, currency.Fee(10))
	payload.Body = Body{Tag: TagPayment, Payment: Payment{
		ReceiverPublicKey: pasta.NewFromUint64(2),
		TokenId:           pasta.Zero(),
		Amount:            currency.Amount(100),
	}}
	cmd := SignedCommand{Payload: payload, SignerPublicKey: pasta.NewFromUint64(1), SignatureVerifies: true}

	applied, err := ApplyUserCommand(testConstraintConstants(), currency.Slot(1), ledger, cmd)
	if err != nil {
		t.Fatalf("ApplyUserCommand: %v", err)
	}
	if applied.Body.Tag != AppliedPayments {
		t.Fatalf("expected AppliedPayments, got %v", applied.Body.Tag)
	}
	if len(applied.Failures) != 0 {
		t.Fatalf("expected no failures, got %v", applied.Failures)
	}

	payerAcc, _, _ := ledger.GetAccount(payerId)
	if payerAcc.Balance != 890 {
		t.Fatalf("expected payer balance 890 (1000-10 fee-100 payment), got %d", payerAcc.Balance)
	}
	if payerAcc.Nonce != 1 {
		t.Fatalf("expected payer nonce incremented to 1, got %d", payerAcc.Nonce)
	}
	receiverAcc, _, _ := ledger.GetAccount(receiverId)
	if receiverAcc.Balance != 100 {
		t.Fatalf("expected receiver balance 100, got %d", receiverAcc.Balance)
	}
}

func TestApplyUserCommandIncorrectNonceRejects(t *testing.T) {
	ledger := newFakeLedger()
	payerId := zkapp.AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.Zero()}
	ledger.SetAccount(payerId, payerAccount(1, 1000, 5))

	payload := basePayload(1, 0, currency.Fee(10))
	payload.Body = Body{Tag: TagPayment, Payment: Payment{
		ReceiverPublicKey: pasta.NewFromUint64(2),
		TokenId:           pasta.Zero(),
		Amount:            currency.Amount(100),
	}}
	cmd := SignedCommand{Payload: payload, SignerPublicKey: pasta.NewFromUint64(1), SignatureVerifies: true}

	_, err := ApplyUserCommand(testConstraintConstants(), currency.Slot(1), ledger, cmd)
	if err == nil {
		t.Fatal("expected a nonce-mismatch rejection")
	}
}

func TestApplyUserCommandStakeDelegation(t *testing.T) {
	ledger := newFakeLedger()
	payerId := zkapp.AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.Zero()}
	delegateId := zkapp.AccountId{PublicKey: pasta.NewFromUint64(3), TokenId: pasta.Zero()}
	ledger.SetAccount(payerId, payerAccount(1, 1000, 0))
	ledger.SetAccount(delegateId, payerAccount(3, 0, 0))

	payload := basePayload(1, 0, currency.Fee(10))
	payload.Body = Body{Tag: TagStakeDelegation, StakeDelegation: StakeDelegation{NewDelegate: pasta.NewFromUint64(3)}}
	cmd := SignedCommand{Payload: payload, SignerPublicKey: pasta.NewFromUint64(1), SignatureVerifies: true}

	applied, err := ApplyUserCommand(testConstraintConstants(), currency.Slot(1), ledger, cmd)
	if err != nil {
		t.Fatalf("ApplyUserCommand: %v", err)
	}
	if applied.Body.Tag != AppliedStakeDelegation {
		t.Fatalf("expected AppliedStakeDelegation, got %v", applied.Body.Tag)
	}
	payerAcc, _, _ := ledger.GetAccount(payerId)
	if !payerAcc.Delegate.Equal(pasta.NewFromUint64(3)) {
		t.Fatal("expected payer's delegate to be updated")
	}
}

func TestApplyUserCommandPaymentToNewAccountChargesCreationFee(t *testing.T) {
	ledger := newFakeLedger()
	payerId := zkapp.AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.Zero()}
	ledger.SetAccount(payerId, payerAccount(1, 1000, 0))

	payload := basePayload(1, 0, currency.Fee(10))
	payload.Body = Body{Tag: TagPayment, Payment: Payment{
		ReceiverPublicKey: pasta.NewFromUint64(9),
		TokenId:           pasta.Zero(),
		Amount:            currency.Amount(50),
	}}
	cmd := SignedCommand{Payload: payload, SignerPublicKey: pasta.NewFromUint64(1), SignatureVerifies: true}

	applied, err := ApplyUserCommand(testConstraintConstants(), currency.Slot(1), ledger, cmd)
	if err != nil {
		t.Fatalf("ApplyUserCommand: %v", err)
	}
	if len(applied.Body.NewAccounts) != 1 {
		t.Fatalf("expected one new account, got %v", applied.Body.NewAccounts)
	}
	receiverId := zkapp.AccountId{PublicKey: pasta.NewFromUint64(9), TokenId: pasta.Zero()}
	receiverAcc, existed, _ := ledger.GetAccount(receiverId)
	if !existed {
		t.Fatal("expected the receiver account to have been created")
	}
	if receiverAcc.Balance != 49 {
		t.Fatalf("expected receiver balance 50-1(creation fee)=49, got %d", receiverAcc.Balance)
	}
}
