// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zkapp

import "github.com/monetarium/mina-core/pasta"

// Ledger is the account store the applier reads and writes. The
// concrete implementation (see package ledger) owns persistence and
// Merkle-root bookkeeping; this package only needs get/set/clone.
type Ledger interface {
	GetAccount(id AccountId) (acc Account, existed bool, err error)
	SetAccount(id AccountId, acc Account) error
	Clone() Ledger
	MerkleRoot() pasta.Fp
}
