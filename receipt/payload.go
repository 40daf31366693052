// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package receipt

import (
	"github.com/monetarium/mina-core/currency"
	"github.com/monetarium/mina-core/hashdomain"
	"github.com/monetarium/mina-core/pasta"
)

// BodyTag discriminates a transaction union's body, per spec.md §4.10's
// untagged 5-bit [is_payment, is_stake_delegation, is_fee_transfer,
// is_coinbase, is_user_command] encoding.
type BodyTag int

const (
	// TagPayment marks a payment body.
	TagPayment BodyTag = iota
	// TagStakeDelegation marks a stake-delegation body.
	TagStakeDelegation
	// TagFeeTransfer marks a fee-transfer body.
	TagFeeTransfer
	// TagCoinbase marks a coinbase body.
	TagCoinbase
)

// bits returns [is_payment, is_stake_delegation, is_fee_transfer,
// is_coinbase, is_user_command].
func (t BodyTag) bits() [5]bool {
	var b [5]bool
	switch t {
	case TagPayment:
		b[0], b[4] = true, true
	case TagStakeDelegation:
		b[1], b[4] = true, true
	case TagFeeTransfer:
		b[2] = true
	case TagCoinbase:
		b[3] = true
	}
	return b
}

// LegacyPayloadInput is the flattened field list `to_input_legacy`
// walks for a signed-command payload, per spec.md §6.4. Public keys
// are represented by their field element alone (this module's
// PublicKey type throughout the ledger/zkapp layers is the compressed
// x-coordinate with no separately tracked parity bit, the same
// simplification spec.md's wire fields list as a separate is_odd flag
// would otherwise require a full curve-point type for).
type LegacyPayloadInput struct {
	Fee               currency.Fee
	FeePayerPublicKey pasta.Fp
	Nonce             currency.Nonce
	ValidUntil        currency.Slot
	Memo              Memo

	BodyTag           BodyTag
	SourcePublicKey   pasta.Fp
	ReceiverPublicKey pasta.Fp
	TokenId           pasta.Fp
	Amount            currency.Amount
}

func boolField(b bool) pasta.Fp {
	if b {
		return pasta.One()
	}
	return pasta.Zero()
}

// fields flattens p into the ordered list of field elements
// ConsSignedCommandPayload absorbs, following §6.4's common-then-body
// ordering.
func (p LegacyPayloadInput) fields() []pasta.Fp {
	out := []pasta.Fp{
		pasta.NewFromUint64(uint64(p.Fee)),
		p.FeePayerPublicKey,
		pasta.NewFromUint64(uint64(p.Nonce)),
		pasta.NewFromUint64(uint64(p.ValidUntil)),
		pasta.NewFromBytesLE(p.Memo[:]),
	}
	bits := p.BodyTag.bits()
	for _, b := range bits[:3] {
		out = append(out, boolField(b))
	}
	out = append(out,
		p.SourcePublicKey,
		p.ReceiverPublicKey,
		p.TokenId,
		pasta.NewFromUint64(uint64(p.Amount)),
	)
	return out
}

// ConsSignedCommandPayload computes the next receipt-chain hash for a
// signed command: `legacy_hash(CodaReceiptUC, legacy_encode(payload) ||
// prev)`, per spec.md §4.10.
func ConsSignedCommandPayload(p LegacyPayloadInput, prev pasta.Fp) pasta.Fp {
	inputs := append(p.fields(), prev)
	return hashdomain.HashWithDomain(hashdomain.CodaReceiptUC, inputs)
}

// ConsZkAppCommandCommitment computes the next receipt-chain hash for a
// zkApp command account update: `hash(CodaReceiptUC, [index, commitment,
// prev])`, per spec.md §4.10.
func ConsZkAppCommandCommitment(index currency.Index, commitment, prev pasta.Fp) pasta.Fp {
	return hashdomain.HashWithDomain(hashdomain.CodaReceiptUC, []pasta.Fp{
		pasta.NewFromUint64(uint64(index)), commitment, prev,
	})
}
