// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"testing"

	"github.com/monetarium/mina-core/pasta"
	"github.com/monetarium/mina-core/zkapp"
)

func testId(pubKey uint64) zkapp.AccountId {
	return zkapp.AccountId{PublicKey: pasta.NewFromUint64(pubKey), TokenId: pasta.Zero()}
}

func TestGetOrCreateMaterializesDefault(t *testing.T) {
	l := Empty(20)
	action, acc, err := l.GetOrCreate(testId(1))
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if action != ActionAdded {
		t.Fatalf("expected ActionAdded, got %v", action)
	}
	if acc.Balance != 0 {
		t.Fatalf("expected a zero-balance default account, got %d", acc.Balance)
	}

	if err := l.SetAccount(testId(1), acc); err != nil {
		t.Fatalf("SetAccount: %v", err)
	}
	action2, _, err := l.GetOrCreate(testId(1))
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if action2 != ActionExisted {
		t.Fatalf("expected ActionExisted after writing, got %v", action2)
	}
}

func TestCreateMaskedReadsThroughToParent(t *testing.T) {
	base := Empty(20)
	baseAcc := zkapp.NewDefaultAccount(testId(1))
	baseAcc.Balance = 500
	base.SetAccount(testId(1), baseAcc)

	mask := base.CreateMasked()
	acc, existed, err := mask.GetAccount(testId(1))
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if !existed || acc.Balance != 500 {
		t.Fatalf("expected the mask to see the parent's account, got existed=%v balance=%d", existed, acc.Balance)
	}

	updated := acc
	updated.Balance = 400
	mask.SetAccount(testId(1), updated)

	parentAcc, _, _ := base.GetAccount(testId(1))
	if parentAcc.Balance != 500 {
		t.Fatalf("expected the parent to be unaffected by a mask write, got %d", parentAcc.Balance)
	}
	maskAcc, _, _ := mask.GetAccount(testId(1))
	if maskAcc.Balance != 400 {
		t.Fatalf("expected the mask's own view to see the write, got %d", maskAcc.Balance)
	}
}

func TestApplyMaskCommitsIntoParent(t *testing.T) {
	base := Empty(20)
	base.SetAccount(testId(1), zkapp.NewDefaultAccount(testId(1)))

	mask := base.CreateMasked()
	updated := zkapp.NewDefaultAccount(testId(1))
	updated.Balance = 777
	mask.SetAccount(testId(1), updated)

	if err := base.ApplyMask(mask); err != nil {
		t.Fatalf("ApplyMask: %v", err)
	}
	committed, _, _ := base.GetAccount(testId(1))
	if committed.Balance != 777 {
		t.Fatalf("expected the mask's write to be committed into the parent, got %d", committed.Balance)
	}
}

func TestApplyMaskRejectsUnrelatedLedger(t *testing.T) {
	base := Empty(20)
	unrelated := Empty(20)
	if err := base.ApplyMask(unrelated); err == nil {
		t.Fatal("expected ApplyMask to reject a ledger not created over base")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	l := Empty(20)
	l.SetAccount(testId(1), zkapp.NewDefaultAccount(testId(1)))

	cloned := l.Clone()
	updated := zkapp.NewDefaultAccount(testId(1))
	updated.Balance = 42
	if err := cloned.SetAccount(testId(1), updated); err != nil {
		t.Fatalf("SetAccount: %v", err)
	}

	original, _, _ := l.GetAccount(testId(1))
	if original.Balance != 0 {
		t.Fatalf("expected the original ledger to be unaffected by writes to its clone, got %d", original.Balance)
	}
}

func TestMerkleRootChangesWithContentNotOrder(t *testing.T) {
	l1 := Empty(20)
	l1.SetAccount(testId(1), zkapp.NewDefaultAccount(testId(1)))
	l1.SetAccount(testId(2), zkapp.NewDefaultAccount(testId(2)))

	l2 := Empty(20)
	l2.SetAccount(testId(2), zkapp.NewDefaultAccount(testId(2)))
	l2.SetAccount(testId(1), zkapp.NewDefaultAccount(testId(1)))

	if !l1.MerkleRoot().Equal(l2.MerkleRoot()) {
		t.Fatal("expected MerkleRoot to be independent of insertion order")
	}

	acc1, _, _ := l1.GetAccount(testId(1))
	acc1.Balance = 10
	l1.SetAccount(testId(1), acc1)

	if l1.MerkleRoot().Equal(l2.MerkleRoot()) {
		t.Fatal("expected MerkleRoot to change when an account's balance changes")
	}
}

func TestEmptyLedgerMerkleRootIsStable(t *testing.T) {
	if !Empty(20).MerkleRoot().Equal(Empty(20).MerkleRoot()) {
		t.Fatal("expected two empty ledgers to share the same root")
	}
}
