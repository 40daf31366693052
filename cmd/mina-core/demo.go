// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/monetarium/mina-core/callforest"
	"github.com/monetarium/mina-core/consensus"
	"github.com/monetarium/mina-core/currency"
	"github.com/monetarium/mina-core/ledger"
	"github.com/monetarium/mina-core/pasta"
	"github.com/monetarium/mina-core/receipt"
	"github.com/monetarium/mina-core/usercommand"
	"github.com/monetarium/mina-core/zkapp"
)

const defaultTokenId = 1

func signedChange(amount int64) currency.Signed[currency.Amount] {
	if amount < 0 {
		return currency.Signed[currency.Amount]{Magnitude: currency.Amount(-amount), Sign: currency.Neg}
	}
	return currency.Signed[currency.Amount]{Magnitude: currency.Amount(amount), Sign: currency.Pos}
}

// zkappUpdate builds a minimal single-account-update node: no state
// changes, no preconditions, a plain balance change authorized by
// signature — the shape a simple zkApp-mediated transfer takes.
func zkappUpdate(pubKey uint64, balanceChange int64, incrementNonce bool) zkapp.AccountUpdate {
	return zkapp.AccountUpdate{Body: zkapp.Body{
		PublicKey:         pasta.NewFromUint64(pubKey),
		TokenId:           pasta.NewFromUint64(defaultTokenId),
		BalanceChange:     signedChange(balanceChange),
		IncrementNonce:    incrementNonce,
		AuthorizationKind: zkapp.AuthorizationKind{Kind: zkapp.AuthSignature},
	}}
}

// runZkAppDemo applies a two-account-update zkApp command (fee payer
// plus one receiver) through both passes of the applier against l,
// the same shape the two-pass applier's own fixtures use, and reports
// what happened.
func runZkAppDemo(l *ledger.Ledger) error {
	payerId := zkapp.AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.NewFromUint64(defaultTokenId)}
	receiverId := zkapp.AccountId{PublicKey: pasta.NewFromUint64(2), TokenId: pasta.NewFromUint64(defaultTokenId)}

	if err := l.SetAccount(payerId, zkapp.Account{
		PublicKey:   payerId.PublicKey,
		TokenId:     payerId.TokenId,
		Balance:     1000,
		Permissions: zkapp.Permissions{Send: zkapp.AuthSignature, Receive: zkapp.AuthNone, IncrementNonce: zkapp.AuthSignature},
	}); err != nil {
		return fmt.Errorf("seed fee payer: %w", err)
	}
	if err := l.SetAccount(receiverId, zkapp.Account{
		PublicKey:   receiverId.PublicKey,
		TokenId:     receiverId.TokenId,
		Permissions: zkapp.Permissions{Receive: zkapp.AuthNone},
	}); err != nil {
		return fmt.Errorf("seed receiver: %w", err)
	}

	cmd := zkapp.ZkAppCommand{
		FeePayer: zkappUpdate(1, -100, true),
		AccountUpdates: callforest.NewForest([]*callforest.Tree[zkapp.AccountUpdate]{
			callforest.NewTree(zkappUpdate(2, 100, false), callforest.NewForest[zkapp.AccountUpdate](nil)),
		}),
	}

	pa, err := zkapp.ApplyFirstPass(zkapp.GlobalState{}, currency.Slot(1), l, cmd)
	if err != nil {
		return fmt.Errorf("apply_transaction_first_pass: %w", err)
	}
	result, err := zkapp.ApplySecondPass(pa.Global, l, pa)
	if err != nil {
		return fmt.Errorf("apply_transaction_second_pass: %w", err)
	}

	fmt.Printf("zkApp command applied=%v failures=%v ledger_root=%s\n",
		result.SuccessfullyApplied, result.FailureStatusTbl, l.MerkleRoot().String())
	return nil
}

// runSignedCommandDemo applies a vector of signed commands (a payment
// followed by a stake delegation) sequentially against l, reporting
// the ledger root after each.
func runSignedCommandDemo(cc consensus.ConstraintConstants, l *ledger.Ledger) error {
	payerId := zkapp.AccountId{PublicKey: pasta.NewFromUint64(10), TokenId: pasta.Zero()}
	receiverId := zkapp.AccountId{PublicKey: pasta.NewFromUint64(11), TokenId: pasta.Zero()}

	if err := l.SetAccount(payerId, zkapp.NewDefaultAccount(payerId)); err != nil {
		return fmt.Errorf("seed payer: %w", err)
	}
	payerAcc, _, _ := l.GetAccount(payerId)
	payerAcc.Balance = 5000
	if err := l.SetAccount(payerId, payerAcc); err != nil {
		return fmt.Errorf("fund payer: %w", err)
	}

	commands := []usercommand.SignedCommand{
		{
			Payload: usercommand.SignedCommandPayload{
				Common: usercommand.Common{
					Fee:               currency.Fee(10),
					FeePayerPublicKey: payerId.PublicKey,
					FeeTokenId:        payerId.TokenId,
					Nonce:             0,
					ValidUntil:        currency.Slot(10_000),
					Memo:              receipt.Empty(),
				},
				Body: usercommand.Body{
					Tag: usercommand.TagPayment,
					Payment: usercommand.Payment{
						ReceiverPublicKey: receiverId.PublicKey,
						TokenId:           receiverId.TokenId,
						Amount:            currency.Amount(250),
					},
				},
			},
			SignerPublicKey:   payerId.PublicKey,
			SignatureVerifies: true,
		},
		{
			Payload: usercommand.SignedCommandPayload{
				Common: usercommand.Common{
					Fee:               currency.Fee(10),
					FeePayerPublicKey: payerId.PublicKey,
					FeeTokenId:        payerId.TokenId,
					Nonce:             1,
					ValidUntil:        currency.Slot(10_000),
					Memo:              receipt.Empty(),
				},
				Body: usercommand.Body{
					Tag:             usercommand.TagStakeDelegation,
					StakeDelegation: usercommand.StakeDelegation{NewDelegate: receiverId.PublicKey},
				},
			},
			SignerPublicKey:   payerId.PublicKey,
			SignatureVerifies: true,
		},
	}

	for i, cmd := range commands {
		applied, err := usercommand.ApplyUserCommand(cc, currency.Slot(1), l, cmd)
		if err != nil {
			return fmt.Errorf("signed command %d: %w", i, err)
		}
		fmt.Printf("signed command %d applied body_tag=%d failures=%v ledger_root=%s\n",
			i, applied.Body.Tag, applied.Failures, l.MerkleRoot().String())
	}
	return nil
}

// runConsensusTakeDemo evaluates consensus_take for a pair of fixture
// consensus states: a candidate one block longer than the tip, which
// must win on chain length alone.
func runConsensusTakeDemo(consts consensus.Constants) {
	tip := consensus.ConsensusState{BlockchainLength: 100}
	cand := consensus.ConsensusState{BlockchainLength: 101}
	tipHash := [32]byte{0x01}
	candHash := [32]byte{0x02}

	take := consensus.ConsensusTake(consts, tip, cand, tipHash, candHash)
	fmt.Printf("consensus_take(tip=%d, cand=%d) -> %v\n", tip.BlockchainLength, cand.BlockchainLength, take)
}
