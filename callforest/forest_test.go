// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package callforest

import (
	"testing"

	"github.com/monetarium/mina-core/pasta"
)

type testUpdate struct {
	id pasta.Fp
}

func leafHash(u testUpdate) pasta.Fp {
	return u.id
}

func fakeHashWithDomain(tag string, inputs []pasta.Fp) pasta.Fp {
	acc := pasta.NewFromUint64(uint64(len(tag)))
	for _, in := range inputs {
		acc = acc.Add(in).Mul(pasta.NewFromUint64(3))
	}
	return acc
}

var testDomains = Domains{AccountUpdate: "test-au", Node: "test-node", Cons: "test-cons"}

func leaf(id uint64) *Tree[testUpdate] {
	return NewTree(testUpdate{id: pasta.NewFromUint64(id)}, NewForest[testUpdate](nil))
}

func TestEnsureHashedEmptyForestIsZero(t *testing.T) {
	f := NewForest[testUpdate](nil)
	got := EnsureHashed(f, leafHash, fakeHashWithDomain, testDomains)
	if !got.IsZero() {
		t.Fatal("expected empty forest hash to be zero")
	}
	if !f.Hash().IsZero() {
		t.Fatal("expected Hash() on empty forest to be zero")
	}
}

func TestEnsureHashedSingleNode(t *testing.T) {
	f := NewForest([]*Tree[testUpdate]{leaf(1)})
	got := EnsureHashed(f, leafHash, fakeHashWithDomain, testDomains)
	if got.IsZero() {
		t.Fatal("expected nonzero hash")
	}
	if !f.Hash().Equal(got) {
		t.Fatal("expected cached Hash() to match EnsureHashed's return value")
	}
}

func TestEnsureHashedIsOneShot(t *testing.T) {
	f := NewForest([]*Tree[testUpdate]{leaf(1), leaf(2)})
	first := EnsureHashed(f, leafHash, fakeHashWithDomain, testDomains)

	// Mutate the cached leaf digest out from under the tree: a second
	// EnsureHashed call must not recompute it.
	stale := pasta.NewFromUint64(999)
	f.At(1).accountUpdateDigest = &stale

	second := EnsureHashed(f, leafHash, fakeHashWithDomain, testDomains)
	if !first.Equal(second) {
		t.Fatal("expected one-shot caching to make EnsureHashed idempotent")
	}
}

func TestEnsureHashedOrderSensitive(t *testing.T) {
	a := NewForest([]*Tree[testUpdate]{leaf(1), leaf(2)})
	b := NewForest([]*Tree[testUpdate]{leaf(2), leaf(1)})
	ha := EnsureHashed(a, leafHash, fakeHashWithDomain, testDomains)
	hb := EnsureHashed(b, leafHash, fakeHashWithDomain, testDomains)
	if ha.Equal(hb) {
		t.Fatal("expected sibling order to affect the stack hash")
	}
}

func TestConsRecomputesOnlyHead(t *testing.T) {
	tail := NewForest([]*Tree[testUpdate]{leaf(2)})
	EnsureHashed(tail, leafHash, fakeHashWithDomain, testDomains)
	tailHeadBefore := *tail.stackHashes[0]

	withHead := Cons(leaf(1), tail, leafHash, fakeHashWithDomain, testDomains)
	if withHead.Len() != 2 {
		t.Fatalf("got len %d, want 2", withHead.Len())
	}
	if !(*withHead.stackHashes[1]).Equal(tailHeadBefore) {
		t.Fatal("expected the tail's cached hash to be reused unchanged")
	}
}

func TestFoldPreOrderFeePayerFirst(t *testing.T) {
	child := NewForest([]*Tree[testUpdate]{leaf(2)})
	root := NewTree(testUpdate{id: pasta.NewFromUint64(1)}, child)
	f := NewForest([]*Tree[testUpdate]{root})

	var ids []pasta.Fp
	Fold(f, struct{}{}, func(acc struct{}, u testUpdate) struct{} {
		ids = append(ids, u.id)
		return acc
	})
	if len(ids) != 2 || !ids[0].Equal(pasta.NewFromUint64(1)) || !ids[1].Equal(pasta.NewFromUint64(2)) {
		t.Fatalf("expected pre-order [1, 2], got %v", ids)
	}
}

func TestMapToPreservesDigestsAndStructure(t *testing.T) {
	f := NewForest([]*Tree[testUpdate]{leaf(1), leaf(2)})
	EnsureHashed(f, leafHash, fakeHashWithDomain, testDomains)

	mapped := MapTo(f, func(u testUpdate) testUpdate {
		return testUpdate{id: u.id} // identity mapping, digest-preserving
	})
	if mapped.Len() != f.Len() {
		t.Fatal("expected structure to be preserved")
	}
	if !mapped.Hash().Equal(f.Hash()) {
		t.Fatal("expected cached hashes to carry over unchanged")
	}
}

func TestTryMapToPropagatesError(t *testing.T) {
	f := NewForest([]*Tree[testUpdate]{leaf(1)})
	wantErr := errTestMap
	_, err := TryMapTo(f, func(u testUpdate) (testUpdate, error) {
		return testUpdate{}, wantErr
	})
	if err != wantErr {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
}

var errTestMap = testMapError("boom")

type testMapError string

func (e testMapError) Error() string { return string(e) }
