// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package usercommand

import (
	"errors"
	"fmt"

	"github.com/decred/slog"
	"github.com/monetarium/mina-core/consensus"
	"github.com/monetarium/mina-core/currency"
	"github.com/monetarium/mina-core/pasta"
	"github.com/monetarium/mina-core/receipt"
	"github.com/monetarium/mina-core/zkapp"
)

var log = slog.Disabled

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger slog.Logger) {
	log = logger
}

// ErrCommandRejected marks a hard failure: the command must not be
// included in the block at all (as opposed to a soft failure, which
// still commits the fee payment and is recorded in the block).
var ErrCommandRejected = errors.New("usercommand: command rejected")

// ApplyUserCommand applies a signed command's fee payment and, if that
// succeeds, its body (payment or stake delegation), per spec.md §4.7.
func ApplyUserCommand(cc consensus.ConstraintConstants, slot currency.Slot, ledger zkapp.Ledger, cmd SignedCommand) (SignedCommandApplied, error) {
	if slot > cmd.Payload.Common.ValidUntil {
		return SignedCommandApplied{}, fmt.Errorf("%w: command valid_until %d has expired at slot %d",
			ErrCommandRejected, cmd.Payload.Common.ValidUntil, slot)
	}

	feePayerId := cmd.FeePayer()
	feePayerAcct, existed, err := ledger.GetAccount(feePayerId)
	if err != nil {
		return SignedCommandApplied{}, fmt.Errorf("usercommand: loading fee payer: %w", err)
	}
	if !existed {
		feePayerAcct = zkapp.NewDefaultAccount(feePayerId)
	}

	if !cmd.SignerPublicKey.Equal(feePayerAcct.PublicKey) {
		return SignedCommandApplied{}, fmt.Errorf("%w: signer does not match fee payer", ErrCommandRejected)
	}
	if !cmd.Payload.Common.FeeTokenId.IsZero() {
		return SignedCommandApplied{}, fmt.Errorf("%w: fee token must be the default token", ErrCommandRejected)
	}
	if feePayerAcct.Nonce != cmd.Payload.Common.Nonce {
		return SignedCommandApplied{Failures: []zkapp.TransactionFailure{zkapp.FailureIncorrectNonce}},
			fmt.Errorf("%w: incorrect nonce", ErrCommandRejected)
	}
	if !cmd.SignatureVerifies {
		return SignedCommandApplied{}, fmt.Errorf("%w: bad signature", ErrCommandRejected)
	}

	newBalance, ok := feePayerAcct.Balance.CheckedSub(currency.Balance(cmd.Payload.Common.Fee))
	if !ok {
		return SignedCommandApplied{}, fmt.Errorf("%w: fee payer has insufficient balance for the fee", ErrCommandRejected)
	}
	feePayerAcct.Balance = newBalance
	feePayerAcct.Nonce = feePayerAcct.Nonce.Succ()
	feePayerAcct.ReceiptChainHash = consSignedCommandPayload(cmd.Payload, feePayerAcct.ReceiptChainHash)

	if !authorizesField(feePayerAcct.Permissions.Send) {
		return SignedCommandApplied{}, fmt.Errorf("%w: fee payer lacks send permission", ErrCommandRejected)
	}
	if !authorizesField(feePayerAcct.Permissions.IncrementNonce) {
		return SignedCommandApplied{}, fmt.Errorf("%w: fee payer lacks increment_nonce permission", ErrCommandRejected)
	}

	if err := ledger.SetAccount(feePayerId, feePayerAcct); err != nil {
		return SignedCommandApplied{}, fmt.Errorf("usercommand: committing fee payment: %w", err)
	}

	var body AppliedBody
	var failures []zkapp.TransactionFailure
	switch cmd.Payload.Body.Tag {
	case TagStakeDelegation:
		body, failures, err = applyStakeDelegation(ledger, feePayerId, feePayerAcct, cmd.Payload.Body.StakeDelegation, slot)
	default:
		body, failures, err = applyPayment(cc, ledger, feePayerId, cmd.Payload.Body.Payment, slot)
	}
	if err != nil {
		return SignedCommandApplied{}, err
	}
	if len(failures) > 0 {
		body = AppliedBody{Tag: AppliedFailed}
	}

	return SignedCommandApplied{Command: cmd, Body: body, Failures: failures}, nil
}

// consSignedCommandPayload derives the fee payer's next receipt-chain
// hash for cmd, per spec.md §4.10.
func consSignedCommandPayload(p SignedCommandPayload, prev pasta.Fp) pasta.Fp {
	sourcePK := p.Common.FeePayerPublicKey
	receiverPK := p.Common.FeePayerPublicKey
	tokenId := pasta.Zero()
	amount := currency.Amount(0)
	tag := receipt.TagStakeDelegation

	if p.Body.Tag == TagPayment {
		tag = receipt.TagPayment
		receiverPK = p.Body.Payment.ReceiverPublicKey
		tokenId = p.Body.Payment.TokenId
		amount = p.Body.Payment.Amount
	}

	return receipt.ConsSignedCommandPayload(receipt.LegacyPayloadInput{
		Fee:               p.Common.Fee,
		FeePayerPublicKey: p.Common.FeePayerPublicKey,
		Nonce:             p.Common.Nonce,
		ValidUntil:        p.Common.ValidUntil,
		Memo:              p.Common.Memo,
		BodyTag:           tag,
		SourcePublicKey:   sourcePK,
		ReceiverPublicKey: receiverPK,
		TokenId:           tokenId,
		Amount:            amount,
	}, prev)
}

func authorizesField(required zkapp.AuthKind) bool {
	return required == zkapp.AuthNone || required == zkapp.AuthSignature
}

func applyStakeDelegation(ledger zkapp.Ledger, feePayerId zkapp.AccountId, feePayerAcct zkapp.Account, delegation StakeDelegation, slot currency.Slot) (AppliedBody, []zkapp.TransactionFailure, error) {
	receiverId := zkapp.AccountId{PublicKey: delegation.NewDelegate, TokenId: feePayerId.TokenId}
	_, existed, err := ledger.GetAccount(receiverId)
	if err != nil {
		return AppliedBody{}, nil, fmt.Errorf("usercommand: loading delegate target: %w", err)
	}
	if !existed {
		return AppliedBody{}, []zkapp.TransactionFailure{zkapp.FailurePredicate}, nil
	}
	if !authorizesField(feePayerAcct.Permissions.SetDelegate) {
		return AppliedBody{}, []zkapp.TransactionFailure{zkapp.FailureUpdateNotPermittedDelegate}, nil
	}

	newTiming, insufficient, invalid := zkapp.ValidateTiming(feePayerAcct, 0, slot)
	if insufficient || invalid {
		return AppliedBody{}, []zkapp.TransactionFailure{zkapp.FailureSourceMinimumBalanceViolation}, nil
	}

	previousDelegate := feePayerAcct.Delegate
	feePayerAcct.Delegate = delegation.NewDelegate
	feePayerAcct.Timing = newTiming
	if err := ledger.SetAccount(feePayerId, feePayerAcct); err != nil {
		return AppliedBody{}, nil, fmt.Errorf("usercommand: committing delegation: %w", err)
	}
	return AppliedBody{Tag: AppliedStakeDelegation, PreviousDelegate: previousDelegate}, nil, nil
}

func applyPayment(cc consensus.ConstraintConstants, ledger zkapp.Ledger, feePayerId zkapp.AccountId, payment Payment, slot currency.Slot) (AppliedBody, []zkapp.TransactionFailure, error) {
	payerId := feePayerId
	payerAcct, _, err := ledger.GetAccount(payerId)
	if err != nil {
		return AppliedBody{}, nil, fmt.Errorf("usercommand: reloading payer: %w", err)
	}

	newBalance, ok := payerAcct.Balance.CheckedSub(currency.Balance(payment.Amount))
	if !ok {
		return AppliedBody{}, []zkapp.TransactionFailure{zkapp.FailureSourceInsufficientBalance}, nil
	}
	newTiming, insufficient, invalid := zkapp.ValidateTiming(payerAcct, payment.Amount, slot)
	if insufficient {
		return AppliedBody{}, []zkapp.TransactionFailure{zkapp.FailureSourceInsufficientBalance}, nil
	}
	if invalid {
		return AppliedBody{}, []zkapp.TransactionFailure{zkapp.FailureSourceMinimumBalanceViolation}, nil
	}
	if !authorizesField(payerAcct.Permissions.Send) {
		return AppliedBody{}, []zkapp.TransactionFailure{zkapp.FailureUpdateNotPermittedBalance}, nil
	}

	receiverId := zkapp.AccountId{PublicKey: payment.ReceiverPublicKey, TokenId: payment.TokenId}
	sameAccount := receiverId.Key() == payerId.Key()

	var receiverAcct zkapp.Account
	var receiverExisted bool
	if sameAccount {
		receiverAcct, receiverExisted = payerAcct, true
	} else {
		receiverAcct, receiverExisted, err = ledger.GetAccount(receiverId)
		if err != nil {
			return AppliedBody{}, nil, fmt.Errorf("usercommand: loading receiver: %w", err)
		}
		if !receiverExisted {
			receiverAcct = zkapp.NewDefaultAccount(receiverId)
		}
		if !authorizesField(receiverAcct.Permissions.Receive) {
			return AppliedBody{}, []zkapp.TransactionFailure{zkapp.FailureUpdateNotPermittedBalance}, nil
		}
	}

	creditAmount := payment.Amount
	var newAccounts []zkapp.AccountId
	if !receiverExisted {
		feeAmount := cc.AccountCreationFee.ToAmount()
		reduced, ok := creditAmount.CheckedSub(feeAmount)
		if !ok {
			return AppliedBody{}, []zkapp.TransactionFailure{zkapp.FailureAmountInsufficientToCreateAccount}, nil
		}
		creditAmount = reduced
		newAccounts = append(newAccounts, receiverId)
	}

	payerAcct.Balance = newBalance
	payerAcct.Timing = newTiming

	if sameAccount {
		credited, ok := payerAcct.Balance.CheckedAdd(currency.Balance(creditAmount))
		if !ok {
			return AppliedBody{}, []zkapp.TransactionFailure{zkapp.FailureOverflow}, nil
		}
		payerAcct.Balance = credited
		if err := ledger.SetAccount(payerId, payerAcct); err != nil {
			return AppliedBody{}, nil, fmt.Errorf("usercommand: committing self-payment: %w", err)
		}
		return AppliedBody{Tag: AppliedPayments, NewAccounts: newAccounts}, nil, nil
	}

	credited, ok := receiverAcct.Balance.CheckedAdd(currency.Balance(creditAmount))
	if !ok {
		return AppliedBody{}, []zkapp.TransactionFailure{zkapp.FailureOverflow}, nil
	}
	receiverAcct.Balance = credited

	if err := ledger.SetAccount(payerId, payerAcct); err != nil {
		return AppliedBody{}, nil, fmt.Errorf("usercommand: committing payer debit: %w", err)
	}
	if err := ledger.SetAccount(receiverId, receiverAcct); err != nil {
		return AppliedBody{}, nil, fmt.Errorf("usercommand: committing receiver credit: %w", err)
	}
	return AppliedBody{Tag: AppliedPayments, NewAccounts: newAccounts}, nil, nil
}
