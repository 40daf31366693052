// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zkapp

import (
	"fmt"

	"github.com/decred/slog"
	"github.com/monetarium/mina-core/callforest"
	"github.com/monetarium/mina-core/currency"
	"github.com/monetarium/mina-core/hashdomain"
	"github.com/monetarium/mina-core/pasta"
)

var log = slog.Disabled

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger slog.Logger) {
	log = logger
}

func hashForest(forest callforest.CallForest[AccountUpdate]) pasta.Fp {
	domains := callforest.Domains{
		AccountUpdate: hashdomain.MinaAcctUpdateCons,
		Node:          hashdomain.MinaAcctUpdateNode,
		Cons:          hashdomain.MinaAcctUpdateCons,
	}
	leaf := func(u AccountUpdate) pasta.Fp { return BodyDigest(hashdomain.MainnetZkappBody, u.Body) }
	return callforest.EnsureHashed(forest, leaf, hashdomain.HashWithDomain, domains)
}

// GlobalState is the transaction-wide state threaded through both
// passes (spec.md §4.6).
type GlobalState struct {
	FirstPassLedger  Ledger
	SecondPassLedger Ledger
	FeeExcess        currency.Signed[currency.Amount]
	SupplyIncrease   currency.Signed[currency.Amount]
	BlockGlobalSlot  currency.Slot
}

// LocalState is the per-command state threaded through the step loop.
type LocalState struct {
	StackFrame                callforest.StackFrame[AccountUpdate]
	CallStack                 []callforest.StackFrame[AccountUpdate]
	TransactionCommitment     pasta.Fp
	FullTransactionCommitment pasta.Fp
	Excess                    currency.Signed[currency.Amount]
	SupplyIncrease            currency.Signed[currency.Amount]
	Ledger                    Ledger
	Success                   bool
	AccountUpdateIndex        currency.Index
	FailureStatusTbl          [][]TransactionFailure
	WillSucceed               bool
}

// accountSnapshot pairs an account id with whether it existed and its
// pre-application state, for the original-account-states bookkeeping
// the second pass and cancellation guard need.
type accountSnapshot struct {
	id      AccountId
	existed bool
	account Account
}

// PartiallyApplied is the handoff value ApplyFirstPass produces and
// ApplySecondPass consumes.
type PartiallyApplied struct {
	Global                      GlobalState
	Local                       LocalState
	Command                     ZkAppCommand
	PreviousHash                pasta.Fp
	OriginalFeePayerState       accountSnapshot
	AllAccountUpdates           callforest.CallForest[AccountUpdate]
}

func accountIdOf(u Body) AccountId {
	return AccountId{PublicKey: u.PublicKey, TokenId: u.TokenId}
}

// ApplyFirstPass performs the setup half of command application:
// snapshotting the fee payer, constructing the initial global/local
// state, and seeding the call stack with every account update
// (fee-payer-first).
func ApplyFirstPass(global GlobalState, slot currency.Slot, ledger Ledger, cmd ZkAppCommand) (PartiallyApplied, error) {
	previousHash := ledger.MerkleRoot()

	feePayerId := accountIdOf(cmd.FeePayer.Body)
	feePayerAcct, existed, err := ledger.GetAccount(feePayerId)
	if err != nil {
		return PartiallyApplied{}, fmt.Errorf("zkapp: loading fee payer: %w", err)
	}
	if !existed {
		feePayerAcct = NewDefaultAccount(feePayerId)
	}

	global.FirstPassLedger = ledger.Clone()
	global.BlockGlobalSlot = slot

	feePayerTree := callforest.NewTree(cmd.FeePayer, callforest.NewForest[AccountUpdate](nil))
	allAccountUpdates := callforest.Cons(feePayerTree, cmd.AccountUpdates, func(u AccountUpdate) pasta.Fp {
		return BodyDigest(hashdomain.MainnetZkappBody, u.Body)
	}, hashdomain.HashWithDomain, callforest.Domains{
		AccountUpdate: hashdomain.MinaAcctUpdateCons,
		Node:          hashdomain.MinaAcctUpdateNode,
		Cons:          hashdomain.MinaAcctUpdateCons,
	})

	bareCommitment := TransactionCommitment(hashForest(cmd.AccountUpdates))
	feePayerDigest := BodyDigest(hashdomain.MainnetZkappBody, cmd.FeePayer.Body)
	fullCommitment := FullTransactionCommitment(bareCommitment, cmd.MemoHash, feePayerDigest)

	local := LocalState{
		StackFrame:                callforest.StackFrame[AccountUpdate]{Calls: allAccountUpdates},
		CallStack:                 nil,
		TransactionCommitment:     bareCommitment,
		FullTransactionCommitment: fullCommitment,
		Excess:                    currency.ZeroSigned[currency.Amount](),
		SupplyIncrease:            currency.ZeroSigned[currency.Amount](),
		Success:                   true,
		AccountUpdateIndex:        0,
		WillSucceed:               true,
	}

	return PartiallyApplied{
		Global:                global,
		Local:                 local,
		Command:               cmd,
		PreviousHash:          previousHash,
		OriginalFeePayerState: accountSnapshot{id: feePayerId, existed: existed, account: feePayerAcct},
		AllAccountUpdates:     allAccountUpdates,
	}, nil
}

// ZkAppCommandApplied is the finished result of applying a command.
type ZkAppCommandApplied struct {
	SuccessfullyApplied bool
	NewAccounts         []AccountId
	FeeExcess           currency.Signed[currency.Amount]
	SupplyIncrease      currency.Signed[currency.Amount]
	FailureStatusTbl    [][]TransactionFailure
}

// ApplySecondPass drives the step loop to completion: every account
// update is popped, preconditioned, permission-checked and applied (or,
// on failure, left unwritten), and the resulting failure table and
// cancellation guard are evaluated at the end. The fee-payer segment
// (index 0) reads and writes ledger directly and, when its own segment
// has no failure, commits whatever the later segments do;
// every other segment runs against a staged clone of ledger that is only
// folded back in if the whole command succeeds, so a later segment's
// failure can never leave an earlier segment's write stranded on the
// live ledger.
func ApplySecondPass(global GlobalState, ledger Ledger, pa PartiallyApplied) (ZkAppCommandApplied, error) {
	global.SecondPassLedger = ledger
	local := pa.Local
	local.Ledger = ledger

	feePayerKey := pa.OriginalFeePayerState.id.Key()
	seen := map[AccountIdKey]*accountSnapshot{feePayerKey: &pa.OriginalFeePayerState}
	newAccounts := map[AccountIdKey]AccountId{}

	var staged Ledger
	for local.StackFrame.Calls.Len() > 0 || len(local.CallStack) > 0 {
		target := ledger
		if local.AccountUpdateIndex != 0 {
			if staged == nil {
				staged = ledger.Clone()
			}
			target = staged
		}
		failures := step(&global, &local, target, seen, newAccounts)
		// Appending keeps the table in evaluation order, so index 0 is
		// the fee-payer segment and no final reversal is needed.
		local.FailureStatusTbl = append(local.FailureStatusTbl, failures)
	}

	successfullyApplied := true
	for _, f := range local.FailureStatusTbl {
		if len(f) > 0 {
			successfullyApplied = false
			break
		}
	}
	if !successfullyApplied {
		for i := 1; i < len(local.FailureStatusTbl); i++ {
			if len(local.FailureStatusTbl[i]) == 0 {
				local.FailureStatusTbl[i] = []TransactionFailure{FailureCancelled}
			}
		}
	}

	var newAccountIds []AccountId
	if successfullyApplied {
		if staged != nil {
			for key, snap := range seen {
				if key == feePayerKey {
					continue
				}
				acc, existed, err := staged.GetAccount(snap.id)
				if err != nil {
					return ZkAppCommandApplied{}, fmt.Errorf("zkapp: %w", err)
				}
				if !existed {
					continue
				}
				if err := ledger.SetAccount(snap.id, acc); err != nil {
					return ZkAppCommandApplied{}, fmt.Errorf("zkapp: %w", err)
				}
			}
		}
		for _, id := range newAccounts {
			newAccountIds = append(newAccountIds, id)
		}
	}
	// On failure, staged (and everything written to it) is simply
	// discarded: the live ledger never saw any non-fee-payer write, so
	// there is nothing to revert and no new account was ever created.

	return ZkAppCommandApplied{
		SuccessfullyApplied: successfullyApplied,
		NewAccounts:         newAccountIds,
		FeeExcess:           local.Excess,
		SupplyIncrease:      local.SupplyIncrease,
		FailureStatusTbl:    local.FailureStatusTbl,
	}, nil
}

// step pops and applies exactly one account update, per spec.md §4.6's
// abstract step semantics.
func step(global *GlobalState, local *LocalState, ledger Ledger, seen map[AccountIdKey]*accountSnapshot, newAccounts map[AccountIdKey]AccountId) []TransactionFailure {
	for local.StackFrame.Calls.Len() == 0 {
		if len(local.CallStack) == 0 {
			return nil
		}
		local.StackFrame = local.CallStack[len(local.CallStack)-1]
		local.CallStack = local.CallStack[:len(local.CallStack)-1]
	}

	tree := local.StackFrame.Calls.At(0)
	local.StackFrame.Calls = callforest.NewForest(sliceTail(local.StackFrame.Calls))

	update := tree.AccountUpdate
	id := accountIdOf(update.Body)

	caller, callerCaller := resolveCallerContext(update.Body.MayUseToken, local.StackFrame, update.Body.CallerId)

	account, existed, err := ledger.GetAccount(id)
	isFeePayer := local.AccountUpdateIndex == 0
	if err != nil {
		return []TransactionFailure{FailurePredicate}
	}
	if !existed {
		account = NewDefaultAccount(id)
	}
	idKey := id.Key()
	if _, ok := seen[idKey]; !ok {
		seen[idKey] = &accountSnapshot{id: id, existed: existed, account: account}
	}

	var failures []TransactionFailure
	failures = append(failures, CheckAccountPrecondition(update.Body.Preconditions.Account, account, !existed)...)
	failures = append(failures, checkPermissions(update.Body, account, existed)...)

	newBalance, newTiming, changed, applyFailures := applyBalanceChange(account, update.Body, global.BlockGlobalSlot)
	failures = append(failures, applyFailures...)

	if update.Body.IncrementNonce {
		account.Nonce = account.Nonce.Succ()
	}
	if isFeePayer && update.Body.UseFullCommitment && !update.Body.IncrementNonce {
		failures = append(failures, FailureFeePayerNonceMustIncrease)
	}

	if changed {
		account.Balance = newBalance
		account.Timing = newTiming
	}
	applyUpdate(&account, update.Body.Update)

	local.Excess, _ = local.Excess.Add(signedAmountFromBalanceChange(update.Body.BalanceChange))
	local.AccountUpdateIndex = local.AccountUpdateIndex.Succ()

	if len(failures) == 0 {
		if err := ledger.SetAccount(id, account); err != nil {
			failures = append(failures, FailurePredicate)
		} else if !existed {
			newAccounts[idKey] = id
		}
	}

	if tree.Calls.Len() > 0 {
		local.CallStack = append(local.CallStack, local.StackFrame)
		local.StackFrame = callforest.StackFrame[AccountUpdate]{
			Caller:       caller,
			CallerCaller: callerCaller,
			Calls:        tree.Calls,
		}
	}

	return failures
}

func sliceTail(f callforest.CallForest[AccountUpdate]) []*callforest.Tree[AccountUpdate] {
	nodes := make([]*callforest.Tree[AccountUpdate], 0, f.Len()-1)
	for i := 1; i < f.Len(); i++ {
		nodes = append(nodes, f.At(i))
	}
	return nodes
}

func resolveCallerContext(mayUse MayUseToken, frame callforest.StackFrame[AccountUpdate], callerId pasta.Fp) (pasta.Fp, pasta.Fp) {
	switch mayUse {
	case MayUseTokenParentsOwnToken:
		return callerId, frame.Caller
	case MayUseTokenInheritFromParent:
		return frame.Caller, frame.CallerCaller
	default:
		return pasta.Zero(), pasta.Zero()
	}
}

func signedAmountFromBalanceChange(change currency.Signed[currency.Amount]) currency.Signed[currency.Amount] {
	return change
}

// applyBalanceChange applies the update's signed balance delta,
// reporting Overflow/SourceInsufficientBalance on failure rather than
// mutating the account, and re-validates the result against the
// account's vesting schedule at slot.
func applyBalanceChange(account Account, body Body, slot currency.Slot) (currency.Balance, Timing, bool, []TransactionFailure) {
	newBalance, ok := account.Balance.AddSignedAmount(body.BalanceChange)
	if !ok {
		if body.BalanceChange.IsNegative() {
			return account.Balance, account.Timing, false, []TransactionFailure{FailureSourceInsufficientBalance}
		}
		return account.Balance, account.Timing, false, []TransactionFailure{FailureOverflow}
	}

	if body.BalanceChange.IsNegative() {
		newTiming, insufficient, invalid := ValidateTiming(account, body.BalanceChange.Magnitude, slot)
		if insufficient {
			return account.Balance, account.Timing, false, []TransactionFailure{FailureSourceInsufficientBalance}
		}
		if invalid {
			return newBalance, newTiming, true, []TransactionFailure{FailureSourceMinimumBalanceViolation}
		}
		return newBalance, newTiming, true, nil
	}
	return newBalance, account.Timing, true, nil
}

// applyUpdate writes every Set(_) field of u into account, leaving
// Keep fields untouched.
func applyUpdate(account *Account, u Update) {
	for i, s := range u.AppState {
		if ok, v := s.HashFields(); ok {
			account.AppState[i] = v
		}
	}
	if ok, v := u.Delegate.HashFields(); ok {
		account.Delegate = v
	}
	if ok, v := u.VerificationKeyHash.HashFields(); ok {
		account.VerificationKeyHash = v
	}
	if ok, v := u.Permissions.HashFields(); ok {
		account.Permissions = v
	}
	if ok, v := u.ZkappURI.HashFields(); ok {
		account.ZkappURI = v
	}
	if ok, v := u.TokenSymbol.HashFields(); ok {
		account.TokenSymbol = v
	}
	if ok, v := u.Timing.HashFields(); ok {
		account.Timing = v
	}
	if ok, v := u.VotingFor.HashFields(); ok {
		account.VotingFor = v
	}
}

// checkPermissions verifies that every Set(_) field in body.Update is
// authorized by the account's current Permissions under body's
// authorization kind, per spec.md §4.6.
func checkPermissions(body Body, account Account, existed bool) []TransactionFailure {
	var failures []TransactionFailure
	kind := body.AuthorizationKind.Kind

	check := func(ok bool, required AuthKind, failure TransactionFailure) {
		if ok && !authorizes(required, kind) {
			failures = append(failures, failure)
		}
	}
	for _, s := range body.Update.AppState {
		ok, _ := s.HashFields()
		check(ok, account.Permissions.EditState, FailureUpdateNotPermittedAppState)
	}
	if ok, _ := body.Update.Delegate.HashFields(); ok {
		check(true, account.Permissions.SetDelegate, FailureUpdateNotPermittedDelegate)
	}
	if ok, _ := body.Update.VerificationKeyHash.HashFields(); ok {
		check(true, account.Permissions.SetVerificationKey, FailureUpdateNotPermittedVerificationKey)
	}
	if ok, _ := body.Update.Permissions.HashFields(); ok {
		check(true, account.Permissions.SetPermissions, FailureUpdateNotPermittedPermissions)
	}
	if ok, _ := body.Update.ZkappURI.HashFields(); ok {
		check(true, account.Permissions.SetZkappURI, FailureUpdateNotPermittedZkappURI)
	}
	if ok, _ := body.Update.TokenSymbol.HashFields(); ok {
		check(true, account.Permissions.SetTokenSymbol, FailureUpdateNotPermittedTokenSymbol)
	}
	if ok, _ := body.Update.Timing.HashFields(); ok && existed {
		check(true, account.Permissions.SetTiming, FailureUpdateNotPermittedTiming)
	}
	if ok, _ := body.Update.VotingFor.HashFields(); ok {
		check(true, account.Permissions.SetVotingFor, FailureUpdateNotPermittedVotingFor)
	}
	if body.IncrementNonce {
		check(true, account.Permissions.IncrementNonce, FailureUpdateNotPermittedNonce)
	}
	if body.BalanceChange.IsNegative() {
		check(true, account.Permissions.Send, FailureUpdateNotPermittedBalance)
	} else if body.BalanceChange.Magnitude != 0 {
		check(true, account.Permissions.Receive, FailureUpdateNotPermittedBalance)
	}
	return failures
}

// authorizes reports whether the presented authorization kind meets
// or exceeds what required demands: None <= Signature <= Proof, and
// a Proof authorization always satisfies a Signature requirement.
func authorizes(required, presented AuthKind) bool {
	if required == AuthNone {
		return true
	}
	return presented >= required
}
