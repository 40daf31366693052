// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zkapp

// TransactionFailure enumerates the soft-failure taxonomy a
// transaction segment can accumulate: every variant here is a
// recoverable validation outcome that lands in failure_status_tbl,
// never a panic or hard application error (spec.md §4.6, §7).
type TransactionFailure int

const (
	// FailurePredicate is the generic predicate-unsatisfied fallback.
	FailurePredicate TransactionFailure = iota

	// Account preconditions (spec.md §4.5).
	FailureAccountBalancePreconditionUnsatisfied
	FailureAccountNoncePreconditionUnsatisfied
	FailureAccountReceiptChainHashPreconditionUnsatisfied
	FailureAccountDelegatePreconditionUnsatisfied
	FailureAccountStatePreconditionUnsatisfied
	FailureAccountActionStatePreconditionUnsatisfied
	FailureAccountProvedStatePreconditionUnsatisfied
	FailureAccountIsNewPreconditionUnsatisfied

	// Network preconditions.
	FailureNetworkSnarkedLedgerHashPreconditionUnsatisfied
	FailureNetworkBlockchainLengthPreconditionUnsatisfied
	FailureNetworkMinWindowDensityPreconditionUnsatisfied
	FailureNetworkTotalCurrencyPreconditionUnsatisfied
	FailureNetworkGlobalSlotSincePreconditionUnsatisfied
	FailureStakingEpochDataPreconditionUnsatisfied
	FailureNextEpochDataPreconditionUnsatisfied
	FailureValidWhilePreconditionUnsatisfied

	// Permission-gated field updates (one per Update field).
	FailureUpdateNotPermittedBalance
	FailureUpdateNotPermittedTiming
	FailureUpdateNotPermittedDelegate
	FailureUpdateNotPermittedAppState
	FailureUpdateNotPermittedVerificationKey
	FailureUpdateNotPermittedActionState
	FailureUpdateNotPermittedZkappURI
	FailureUpdateNotPermittedTokenSymbol
	FailureUpdateNotPermittedPermissions
	FailureUpdateNotPermittedNonce
	FailureUpdateNotPermittedVotingFor

	// Balance and nonce application failures.
	FailureOverflow
	FailureSourceInsufficientBalance
	FailureAmountInsufficientToCreateAccount
	FailureFeePayerNonceMustIncrease
	FailureFeePayerMustBeSigned

	// Authorization.
	FailureFeePayerBadSignature
	FailureSignatureVerificationFailed
	FailureIncorrectNonce

	// Command-level.
	FailureInvalidFeeExcess
	FailureCancelled

	// Timing.
	FailureSourceMinimumBalanceViolation
)

// String names a TransactionFailure using the reference taxonomy's own
// spelling, for logs and error messages.
func (f TransactionFailure) String() string {
	switch f {
	case FailureAccountBalancePreconditionUnsatisfied:
		return "Account_balance_precondition_unsatisfied"
	case FailureAccountNoncePreconditionUnsatisfied:
		return "Account_nonce_precondition_unsatisfied"
	case FailureAccountReceiptChainHashPreconditionUnsatisfied:
		return "Account_receipt_chain_hash_precondition_unsatisfied"
	case FailureAccountDelegatePreconditionUnsatisfied:
		return "Account_delegate_precondition_unsatisfied"
	case FailureAccountStatePreconditionUnsatisfied:
		return "Account_app_state_precondition_unsatisfied"
	case FailureAccountActionStatePreconditionUnsatisfied:
		return "Account_action_state_precondition_unsatisfied"
	case FailureAccountProvedStatePreconditionUnsatisfied:
		return "Account_proved_state_precondition_unsatisfied"
	case FailureAccountIsNewPreconditionUnsatisfied:
		return "Account_is_new_precondition_unsatisfied"
	case FailureNetworkSnarkedLedgerHashPreconditionUnsatisfied:
		return "Network_snarked_ledger_hash_precondition_unsatisfied"
	case FailureNetworkBlockchainLengthPreconditionUnsatisfied:
		return "Network_blockchain_length_precondition_unsatisfied"
	case FailureNetworkMinWindowDensityPreconditionUnsatisfied:
		return "Network_min_window_density_precondition_unsatisfied"
	case FailureNetworkTotalCurrencyPreconditionUnsatisfied:
		return "Network_total_currency_precondition_unsatisfied"
	case FailureNetworkGlobalSlotSincePreconditionUnsatisfied:
		return "Network_global_slot_since_genesis_precondition_unsatisfied"
	case FailureStakingEpochDataPreconditionUnsatisfied:
		return "Staking_epoch_data_precondition_unsatisfied"
	case FailureNextEpochDataPreconditionUnsatisfied:
		return "Next_epoch_data_precondition_unsatisfied"
	case FailureValidWhilePreconditionUnsatisfied:
		return "Valid_while_precondition_unsatisfied"
	case FailureUpdateNotPermittedBalance:
		return "Update_not_permitted_balance"
	case FailureUpdateNotPermittedTiming:
		return "Update_not_permitted_timing_existing_account"
	case FailureUpdateNotPermittedDelegate:
		return "Update_not_permitted_delegate"
	case FailureUpdateNotPermittedAppState:
		return "Update_not_permitted_app_state"
	case FailureUpdateNotPermittedVerificationKey:
		return "Update_not_permitted_verification_key"
	case FailureUpdateNotPermittedActionState:
		return "Update_not_permitted_action_state"
	case FailureUpdateNotPermittedZkappURI:
		return "Update_not_permitted_zkapp_uri"
	case FailureUpdateNotPermittedTokenSymbol:
		return "Update_not_permitted_token_symbol"
	case FailureUpdateNotPermittedPermissions:
		return "Update_not_permitted_permissions"
	case FailureUpdateNotPermittedNonce:
		return "Update_not_permitted_nonce"
	case FailureUpdateNotPermittedVotingFor:
		return "Update_not_permitted_voting_for"
	case FailureOverflow:
		return "Overflow"
	case FailureSourceInsufficientBalance:
		return "Source_insufficient_balance"
	case FailureAmountInsufficientToCreateAccount:
		return "Amount_insufficient_to_create_account"
	case FailureFeePayerNonceMustIncrease:
		return "Fee_payer_nonce_must_increase"
	case FailureFeePayerMustBeSigned:
		return "Fee_payer_must_be_signed"
	case FailureFeePayerBadSignature:
		return "Fee_payer_bad_signature"
	case FailureSignatureVerificationFailed:
		return "Signature_verification_failed"
	case FailureIncorrectNonce:
		return "Incorrect_nonce"
	case FailureInvalidFeeExcess:
		return "Invalid_fee_excess"
	case FailureCancelled:
		return "Cancelled"
	case FailureSourceMinimumBalanceViolation:
		return "Source_minimum_balance_violation"
	default:
		return "Predicate"
	}
}
