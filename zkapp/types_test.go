// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zkapp

import (
	"testing"

	"github.com/monetarium/mina-core/pasta"
)

func TestSetOrKeepHashFields(t *testing.T) {
	k := Keep[pasta.Fp]()
	if ok, v := k.HashFields(); ok || !v.IsZero() {
		t.Fatalf("got ok=%v v=%v, want false/zero", ok, v)
	}
	s := Set(pasta.NewFromUint64(7))
	if ok, v := s.HashFields(); !ok || !v.Equal(pasta.NewFromUint64(7)) {
		t.Fatalf("got ok=%v v=%v, want true/7", ok, v)
	}
}

func TestOrIgnoreHashFields(t *testing.T) {
	ig := Ignore[pasta.Fp]()
	if ok, _ := ig.HashFields(); ok {
		t.Fatal("expected Ignore to report false")
	}
	c := Check(pasta.NewFromUint64(3))
	if ok, v := c.HashFields(); !ok || !v.Equal(pasta.NewFromUint64(3)) {
		t.Fatalf("got ok=%v v=%v", ok, v)
	}
}

func TestClosedIntervalContains(t *testing.T) {
	iv := ClosedInterval[uint32]{Lower: 5, Upper: 10}
	if !iv.Contains(7) {
		t.Fatal("expected 7 to be in [5,10]")
	}
	if iv.Contains(11) {
		t.Fatal("expected 11 to be out of range")
	}
	if iv.Contains(4) {
		t.Fatal("expected 4 to be out of range")
	}
}

func TestAccountIdKeyDistinguishes(t *testing.T) {
	a := AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.NewFromUint64(1)}
	b := AccountId{PublicKey: pasta.NewFromUint64(2), TokenId: pasta.NewFromUint64(1)}
	if a.Key() == b.Key() {
		t.Fatal("expected distinct public keys to produce distinct account-id keys")
	}
	c := AccountId{PublicKey: pasta.NewFromUint64(1), TokenId: pasta.NewFromUint64(1)}
	if a.Key() != c.Key() {
		t.Fatal("expected identical ids to produce identical keys")
	}
}
