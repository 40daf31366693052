// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pubkey

import (
	"testing"

	"github.com/monetarium/mina-core/pasta"
)

func TestEmptyIsInvalidSentinel(t *testing.T) {
	if !Empty().IsEmpty() {
		t.Fatal("expected Empty() to report IsEmpty")
	}
	nonEmpty := PublicKey{X: pasta.NewFromUint64(1)}
	if nonEmpty.IsEmpty() {
		t.Fatal("expected a nonzero x-coordinate to not be empty")
	}
}

func TestStringParseRoundTrip(t *testing.T) {
	k := PublicKey{X: pasta.NewFromUint64(123456789), IsOdd: true}
	encoded := k.String()
	decoded, err := Parse(encoded)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !decoded.Equal(k) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, k)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("not a valid encoding"); err == nil {
		t.Fatal("expected an error for garbage input")
	}
}

func TestParseRejectsWrongLength(t *testing.T) {
	// A well-formed base58check string of the wrong payload length.
	short := PublicKey{X: pasta.Zero()}.String()[:10]
	if _, err := Parse(short); err == nil {
		t.Fatal("expected an error for a truncated encoding")
	}
}
