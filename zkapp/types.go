// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zkapp implements the zkApp account-update schema (spec.md
// §4.5, C7), its precondition and permission evaluation, and the
// two-pass command applier (spec.md §4.6, C8).
package zkapp

import (
	"github.com/monetarium/mina-core/callforest"
	"github.com/monetarium/mina-core/currency"
	"github.com/monetarium/mina-core/pasta"
)

// SetOrKeep represents a field update that either replaces the value
// or leaves it untouched.
type SetOrKeep[T any] struct {
	set   bool
	value T
}

// Keep returns the no-op variant of SetOrKeep.
func Keep[T any]() SetOrKeep[T] {
	return SetOrKeep[T]{}
}

// Set returns the replace-with-v variant of SetOrKeep.
func Set[T any](v T) SetOrKeep[T] {
	return SetOrKeep[T]{set: true, value: v}
}

// IsSet reports whether this is the Set(_) variant.
func (s SetOrKeep[T]) IsSet() bool {
	return s.set
}

// Value returns the wrapped value, regardless of variant; callers
// check IsSet first.
func (s SetOrKeep[T]) Value() T {
	return s.value
}

// HashFields emits (bool_is_set, T_or_default()) per spec.md §4.5.
func (s SetOrKeep[T]) HashFields() (bool, T) {
	if s.set {
		return true, s.value
	}
	var zero T
	return false, zero
}

// OrIgnore represents a check that either validates against a value
// or is ignored entirely.
type OrIgnore[T any] struct {
	check bool
	value T
}

// Ignore returns the no-check variant of OrIgnore.
func Ignore[T any]() OrIgnore[T] {
	return OrIgnore[T]{}
}

// Check returns the validate-against-v variant of OrIgnore.
func Check[T any](v T) OrIgnore[T] {
	return OrIgnore[T]{check: true, value: v}
}

// IsCheck reports whether this is the Check(_) variant.
func (o OrIgnore[T]) IsCheck() bool {
	return o.check
}

// Value returns the wrapped value, regardless of variant.
func (o OrIgnore[T]) Value() T {
	return o.value
}

// HashFields emits (bool_is_check, T_or_default()) per spec.md §4.5.
func (o OrIgnore[T]) HashFields() (bool, T) {
	if o.check {
		return true, o.value
	}
	var zero T
	return false, zero
}

// Ordered constrains ClosedInterval to comparable numeric types.
type Ordered interface {
	~uint32 | ~uint64
}

// ClosedInterval is an inclusive [lower, upper] range precondition.
type ClosedInterval[T Ordered] struct {
	Lower T
	Upper T
}

// DefaultInterval returns [T's zero value, max], the default interval
// per spec.md §4.5 when no explicit bound is given.
func DefaultInterval[T Ordered](max T) ClosedInterval[T] {
	var zero T
	return ClosedInterval[T]{Lower: zero, Upper: max}
}

// Contains reports whether v falls within the closed interval.
func (c ClosedInterval[T]) Contains(v T) bool {
	return v >= c.Lower && v <= c.Upper
}

// NumericPrecondition is OrIgnore<ClosedInterval<T>>: either a range
// check or ignored.
type NumericPrecondition[T Ordered] = OrIgnore[ClosedInterval[T]]

// AuthorizationKind names how an account update proves its right to
// act: no authorization required, a signature, or a zk-SNARK proof
// tied to a specific verification key.
type AuthorizationKind struct {
	Kind   AuthKind
	VKHash pasta.Fp // only meaningful when Kind == AuthProof
}

// AuthKind enumerates AuthorizationKind's discriminant.
type AuthKind int

const (
	// AuthNone means the update carries no authorization.
	AuthNone AuthKind = iota
	// AuthSignature means the update must carry a valid signature.
	AuthSignature
	// AuthProof means the update must carry a valid zk-SNARK proof.
	AuthProof
)

// MayUseToken controls how a child account update inherits (or does
// not inherit) its parent's custom token.
type MayUseToken int

const (
	// MayUseTokenNo means the update always uses the default token.
	MayUseTokenNo MayUseToken = iota
	// MayUseTokenParentsOwnToken means the update uses the parent's
	// own token as its token id.
	MayUseTokenParentsOwnToken
	// MayUseTokenInheritFromParent means the update inherits the
	// parent's caller/token context unchanged.
	MayUseTokenInheritFromParent
)

// AccountId identifies an account by its public key and token id.
type AccountId struct {
	PublicKey pasta.Fp
	TokenId   pasta.Fp
}

// AccountIdKey is a comparable, map-key-safe encoding of an AccountId.
// pasta.Fp wraps a big.Int (not comparable, not a valid map key on its
// own), so anywhere an AccountId needs to key a map or set it goes
// through this fixed-size form instead.
type AccountIdKey [2 * pasta.ByteLen]byte

// Key returns id's comparable encoding, used as the deterministic
// AccountIdOrderable-style sort/lookup key spec.md §5 calls for.
func (id AccountId) Key() AccountIdKey {
	var k AccountIdKey
	pk := id.PublicKey.Bytes()
	tk := id.TokenId.Bytes()
	copy(k[:pasta.ByteLen], pk[:])
	copy(k[pasta.ByteLen:], tk[:])
	return k
}

// Permissions gates which kinds of update a given authorization level
// may perform.
type Permissions struct {
	EditState     AuthKind
	Send          AuthKind
	Receive       AuthKind
	SetDelegate   AuthKind
	SetPermissions AuthKind
	SetVerificationKey AuthKind
	SetZkappURI   AuthKind
	EditActionState AuthKind
	SetTokenSymbol AuthKind
	IncrementNonce AuthKind
	SetVotingFor  AuthKind
	SetTiming     AuthKind
}

// Timing is an account's vesting schedule.
type Timing struct {
	IsTimed       bool
	InitialMinimumBalance currency.Balance
	CliffTime     currency.Slot
	CliffAmount   currency.Amount
	VestingPeriod currency.SlotSpan
	VestingIncrement currency.Amount
}

// Update is the set of fields an account update may change, each
// independently Set or Keep.
type Update struct {
	AppState    [8]SetOrKeep[pasta.Fp]
	Delegate    SetOrKeep[pasta.Fp]
	VerificationKeyHash SetOrKeep[pasta.Fp]
	Permissions SetOrKeep[Permissions]
	ZkappURI    SetOrKeep[string]
	TokenSymbol SetOrKeep[string]
	Timing      SetOrKeep[Timing]
	VotingFor   SetOrKeep[pasta.Fp]
}

// AccountPrecondition constrains the account an update applies to.
type AccountPrecondition struct {
	Balance          NumericPrecondition[currency.Balance]
	Nonce            NumericPrecondition[currency.Nonce]
	ReceiptChainHash OrIgnore[pasta.Fp]
	Delegate         OrIgnore[pasta.Fp]
	State            [8]OrIgnore[pasta.Fp]
	ActionState      OrIgnore[pasta.Fp]
	ProvedState      OrIgnore[bool]
	IsNew            OrIgnore[bool]
}

// EpochDataPrecondition constrains one epoch's seed-chain fields.
type EpochDataPrecondition struct {
	LedgerHash      OrIgnore[pasta.Fp]
	TotalCurrency   NumericPrecondition[currency.Amount]
	StartCheckpoint OrIgnore[pasta.Fp]
	LockCheckpoint  OrIgnore[pasta.Fp]
	EpochLength     NumericPrecondition[currency.Length]
}

// NetworkPrecondition constrains the block the command is included in.
type NetworkPrecondition struct {
	SnarkedLedgerHash      OrIgnore[pasta.Fp]
	BlockchainLength       NumericPrecondition[currency.Length]
	MinWindowDensity       NumericPrecondition[currency.Length]
	TotalCurrency          NumericPrecondition[currency.Amount]
	GlobalSlotSinceGenesis NumericPrecondition[currency.Slot]
	StakingEpochData       EpochDataPrecondition
	NextEpochData          EpochDataPrecondition
}

// ValidWhile is a Slot interval the block's global slot must fall
// within for the update to be valid.
type ValidWhile = NumericPrecondition[currency.Slot]

// Preconditions bundles the account, network and valid-while checks
// a single account update carries.
type Preconditions struct {
	Account    AccountPrecondition
	Network    NetworkPrecondition
	ValidWhile ValidWhile
}

// Body is the payload of a single account update: the id it targets,
// the state changes it requests, its preconditions, and its
// authorization/token context.
type Body struct {
	PublicKey        pasta.Fp
	TokenId          pasta.Fp
	Update           Update
	BalanceChange    currency.Signed[currency.Amount]
	IncrementNonce   bool
	Preconditions    Preconditions
	UseFullCommitment bool
	AuthorizationKind AuthorizationKind
	MayUseToken      MayUseToken
	CallerId         pasta.Fp
}

// AccountUpdate is a single node's payload in the call forest.
type AccountUpdate struct {
	Body Body
}

// ZkAppCommand is the top-level transaction: a fee-payer update plus
// the forest of account updates it authorizes, and a digest of its
// memo.
type ZkAppCommand struct {
	FeePayer        AccountUpdate
	AccountUpdates  callforest.CallForest[AccountUpdate]
	MemoHash        pasta.Fp
	Commitment      pasta.Fp
	FullCommitment  pasta.Fp
}
