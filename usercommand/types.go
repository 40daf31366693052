// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package usercommand implements the signed-command applier (spec.md
// §4.7, C9: payments and stake delegations) and the fee-transfer and
// coinbase appliers (spec.md §4.8-4.9, C10). All three act on the same
// zkapp.Ledger/zkapp.Account model the two-pass applier uses, and
// report the same zkapp.TransactionFailure taxonomy.
package usercommand

import (
	"github.com/monetarium/mina-core/currency"
	"github.com/monetarium/mina-core/pasta"
	"github.com/monetarium/mina-core/receipt"
	"github.com/monetarium/mina-core/zkapp"
)

// BodyTag discriminates a signed command's payload body.
type BodyTag int

const (
	// TagPayment marks a Payment body.
	TagPayment BodyTag = iota
	// TagStakeDelegation marks a StakeDelegation body.
	TagStakeDelegation
)

// Payment moves Amount from the signer to ReceiverPublicKey's account
// on TokenId.
type Payment struct {
	ReceiverPublicKey pasta.Fp
	TokenId           pasta.Fp
	Amount            currency.Amount
}

// StakeDelegation reassigns the signer's delegate to NewDelegate.
type StakeDelegation struct {
	NewDelegate pasta.Fp
}

// Body is the tagged union of a signed command's effect.
type Body struct {
	Tag             BodyTag
	Payment         Payment
	StakeDelegation StakeDelegation
}

// Common is the fee-payment envelope shared by every signed command.
type Common struct {
	Fee               currency.Fee
	FeePayerPublicKey pasta.Fp
	FeeTokenId        pasta.Fp
	Nonce             currency.Nonce
	ValidUntil        currency.Slot
	Memo              receipt.Memo
}

// SignedCommandPayload is the data a signed command's signature covers.
type SignedCommandPayload struct {
	Common Common
	Body   Body
}

// SignedCommand is a payload plus its claimed signer and the result of
// verifying its signature — verification itself is an external oracle
// (in this repository, the authorize package's ECDSA/secp256k1 check), exactly as
// zkapp's Proof/Signature authorization is treated as an oracle boundary
// in the two-pass applier.
type SignedCommand struct {
	Payload           SignedCommandPayload
	SignerPublicKey   pasta.Fp
	SignatureVerifies bool
}

// FeePayer returns the account id the command's fee is charged against.
func (c SignedCommand) FeePayer() zkapp.AccountId {
	return zkapp.AccountId{PublicKey: c.Payload.Common.FeePayerPublicKey, TokenId: c.Payload.Common.FeeTokenId}
}

// Receiver returns the account id the command's body targets: for
// Payment the receiver on the payment's TokenId, and for StakeDelegation
// the existing delegate target on the fee token (the account
// applyStakeDelegation requires to exist).
func (c SignedCommand) Receiver() zkapp.AccountId {
	switch c.Payload.Body.Tag {
	case TagPayment:
		return zkapp.AccountId{PublicKey: c.Payload.Body.Payment.ReceiverPublicKey, TokenId: c.Payload.Body.Payment.TokenId}
	default:
		return zkapp.AccountId{PublicKey: c.Payload.Body.StakeDelegation.NewDelegate, TokenId: c.Payload.Common.FeeTokenId}
	}
}

// AppliedBodyTag mirrors Body's tag in the applied-transaction result,
// plus the Failed variant a soft failure collapses to.
type AppliedBodyTag int

const (
	// AppliedPayments marks a successfully applied Payment.
	AppliedPayments AppliedBodyTag = iota
	// AppliedStakeDelegation marks a successfully applied StakeDelegation.
	AppliedStakeDelegation
	// AppliedFailed marks any soft failure: only the fee payment committed.
	AppliedFailed
)

// AppliedBody carries the tag-specific bookkeeping a successful
// application produces.
type AppliedBody struct {
	Tag             AppliedBodyTag
	NewAccounts     []zkapp.AccountId
	PreviousDelegate pasta.Fp
}

// SignedCommandApplied is the result of applying one signed command.
type SignedCommandApplied struct {
	Command  SignedCommand
	Body     AppliedBody
	Failures []zkapp.TransactionFailure
}
