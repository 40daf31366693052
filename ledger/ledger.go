// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger implements the account store the appliers in zkapp
// and usercommand read and write: an in-memory, maskable-overlay
// account map satisfying zkapp.Ledger. Persistent storage and the real
// sparse Merkle tree the production ledger backs accounts with are out
// of scope (spec.md names only the LedgerIntf capability surface the
// appliers depend on); MerkleRoot here is a lightweight content digest
// good enough to detect "did this ledger change", not a verifiable
// Merkle commitment.
package ledger

import (
	"fmt"
	"sort"
	"sync"

	"github.com/monetarium/mina-core/pasta"
	"github.com/monetarium/mina-core/zkapp"
)

// Action reports whether GetOrCreate materialized a fresh default
// account or found an existing one, mirroring LedgerIntf's
// get_or_create action result.
type Action int

const (
	// ActionExisted means the account was already present.
	ActionExisted Action = iota
	// ActionAdded means a default account was materialized.
	ActionAdded
)

// Ledger is a masked-overlay account store: a Ledger created with
// CreateMasked shares its parent's accounts for any key it hasn't
// locally overridden, the same "mutable view layered over a backing
// store" shape a UTXO viewpoint uses over the backing chain state.
// Writes never touch the parent directly; ApplyMask folds them back in.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[zkapp.AccountIdKey]zkapp.Account
	parent   *Ledger
}

// Empty returns a fresh, parentless ledger. depth is accepted to match
// LedgerIntf's empty(depth) signature but otherwise unused, since this
// implementation has no fixed-depth Merkle tree to size.
func Empty(depth uint32) *Ledger {
	return &Ledger{accounts: make(map[zkapp.AccountIdKey]zkapp.Account)}
}

// LocationOfAccount returns id's storage key and whether it is present
// anywhere in the mask chain.
func (l *Ledger) LocationOfAccount(id zkapp.AccountId) (zkapp.AccountIdKey, bool) {
	_, ok, _ := l.GetAccount(id)
	return id.Key(), ok
}

// GetAccount implements zkapp.Ledger, falling through to the parent
// mask (if any) when the key isn't overridden locally.
func (l *Ledger) GetAccount(id zkapp.AccountId) (zkapp.Account, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for cur := l; cur != nil; cur = cur.parent {
		if acc, ok := cur.accounts[id.Key()]; ok {
			return acc, true, nil
		}
	}
	return zkapp.Account{}, false, nil
}

// GetOrCreate loads id, materializing a default account in the result
// (but not writing it) when absent.
func (l *Ledger) GetOrCreate(id zkapp.AccountId) (Action, zkapp.Account, error) {
	acc, existed, err := l.GetAccount(id)
	if err != nil {
		return 0, zkapp.Account{}, err
	}
	if existed {
		return ActionExisted, acc, nil
	}
	return ActionAdded, zkapp.NewDefaultAccount(id), nil
}

// SetAccount implements zkapp.Ledger, always writing to this mask
// layer rather than the parent it may have been created over.
func (l *Ledger) SetAccount(id zkapp.AccountId, acc zkapp.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[id.Key()] = acc
	return nil
}

// Clone implements zkapp.Ledger by returning an independent deep copy:
// the two-pass applier uses this to snapshot state before a segment
// and restore it on cancellation, so the clone must not alias the
// original's map.
func (l *Ledger) Clone() zkapp.Ledger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cp := &Ledger{accounts: make(map[zkapp.AccountIdKey]zkapp.Account, len(l.accounts))}
	for k, v := range l.accounts {
		cp.accounts[k] = v
	}
	cp.parent = l.parent
	return cp
}

// CreateMasked returns a new overlay ledger backed by l: reads fall
// through to l for any key the overlay hasn't written itself, and
// writes land only in the overlay until ApplyMask commits them.
func (l *Ledger) CreateMasked() *Ledger {
	return &Ledger{accounts: make(map[zkapp.AccountIdKey]zkapp.Account), parent: l}
}

// ApplyMask commits every account other has written into l. other
// must have been created by l.CreateMasked (or one of its own masks);
// any other relationship is a usage error.
func (l *Ledger) ApplyMask(other *Ledger) error {
	if other == nil {
		return fmt.Errorf("ledger: ApplyMask: nil mask")
	}
	found := false
	for cur := other.parent; cur != nil; cur = cur.parent {
		if cur == l {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("ledger: ApplyMask: mask was not created over this ledger")
	}

	other.mu.RLock()
	defer other.mu.RUnlock()
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, v := range other.accounts {
		l.accounts[k] = v
	}
	return nil
}

// MerkleRoot folds every reachable account (local overlay entries
// shadowing the parent's) into a single field element, keyed so the
// result is independent of map iteration order. It is not a Merkle
// commitment: no path, no tree depth, no membership proof — only a
// cheap "did the account set change" fingerprint, sufficient for the
// capability surface the appliers actually use.
func (l *Ledger) MerkleRoot() pasta.Fp {
	merged := l.flatten()
	keys := make([]zkapp.AccountIdKey, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		for b := 0; b < len(keys[i]); b++ {
			if keys[i][b] != keys[j][b] {
				return keys[i][b] < keys[j][b]
			}
		}
		return false
	})

	acc := pasta.NewFromUint64(uint64(len(keys)))
	for _, k := range keys {
		a := merged[k]
		fp := a.PublicKey.Add(a.TokenId).Add(pasta.NewFromUint64(uint64(a.Balance))).Add(pasta.NewFromUint64(uint64(a.Nonce)))
		acc = acc.Mul(pasta.NewFromUint64(1000003)).Add(fp)
	}
	return acc
}

func (l *Ledger) flatten() map[zkapp.AccountIdKey]zkapp.Account {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[zkapp.AccountIdKey]zkapp.Account)
	if l.parent != nil {
		for k, v := range l.parent.flatten() {
			out[k] = v
		}
	}
	for k, v := range l.accounts {
		out[k] = v
	}
	return out
}

var _ zkapp.Ledger = (*Ledger)(nil)
