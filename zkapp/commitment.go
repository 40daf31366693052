// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zkapp

import (
	"github.com/monetarium/mina-core/hashdomain"
	"github.com/monetarium/mina-core/pasta"
)

func boolField(b bool) pasta.Fp {
	if b {
		return pasta.One()
	}
	return pasta.Zero()
}

// BodyDigest computes an account update body's leaf digest: the
// ordered flattening of its fields, hashed under domain (spec.md
// §4.4's `account_update_digest = hash_with(ACCOUNT_UPDATE_HASH_PARAM,
// body_fields)`).
func BodyDigest(domain string, body Body) pasta.Fp {
	fields := make([]pasta.Fp, 0, 32)
	fields = append(fields, body.PublicKey, body.TokenId)
	for _, s := range body.Update.AppState {
		ok, v := s.HashFields()
		fields = append(fields, boolField(ok), v)
	}
	delegateOK, delegateV := body.Update.Delegate.HashFields()
	fields = append(fields, boolField(delegateOK), delegateV)
	vkOK, vkV := body.Update.VerificationKeyHash.HashFields()
	fields = append(fields, boolField(vkOK), vkV)
	votingOK, votingV := body.Update.VotingFor.HashFields()
	fields = append(fields, boolField(votingOK), votingV)
	fields = append(fields, boolField(body.BalanceChange.IsNegative()), pasta.NewFromUint64(uint64(body.BalanceChange.Magnitude)))
	fields = append(fields, boolField(body.IncrementNonce))
	fields = append(fields, boolField(body.UseFullCommitment))
	fields = append(fields, body.CallerId)
	return hashdomain.HashWithDomain(domain, fields)
}

// TransactionCommitment derives the bare commitment from forestHash (the
// account-updates forest hash, computed under the call-forest's node/cons
// domains) by hashing it once more under MinaAcctUpdateCons; the fee
// payer is not involved.
func TransactionCommitment(forestHash pasta.Fp) pasta.Fp {
	return hashdomain.HashWithDomain(hashdomain.MinaAcctUpdateCons, []pasta.Fp{forestHash})
}

// FullTransactionCommitment folds the fee payer and memo into the
// bare transaction commitment, matching the distinction spec.md §4.6
// draws between `transaction_commitment` and
// `full_transaction_commitment` (the latter is what
// `use_full_commitment` authorizations sign over).
func FullTransactionCommitment(commitment, memoHash, feePayerDigest pasta.Fp) pasta.Fp {
	return hashdomain.HashWithDomain(hashdomain.MinaAcctUpdateCons, []pasta.Fp{commitment, memoHash, feePayerDigest})
}
