// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pasta implements arithmetic over the base field of the Pasta
// Pallas/Vesta curve pair, Fp, used throughout the zkApp and consensus
// hashing layers as the scalar type for Poseidon.
package pasta

import (
	"errors"
	"math/big"
)

// modulus is the Pasta Fp prime:
//
//	28948022309329048855892746252171976963363056481941560715954676764349967630337
//
// It is the scalar field of the Pallas curve (equivalently the base field
// of Vesta), fixed for all networks; changing it changes every hash domain
// and every account-update digest.
var modulus, _ = new(big.Int).SetString(
	"28948022309329048855892746252171976963363056481941560715954676764349967630337", 10)

// ByteLen is the canonical fixed-width encoding length for an Fp element.
const ByteLen = 32

const byteLen = ByteLen

// Fp is an element of the Pasta base field, always kept in canonical
// (reduced, non-negative) form.
type Fp struct {
	v big.Int
}

// Zero returns the additive identity.
func Zero() Fp {
	return Fp{}
}

// One returns the multiplicative identity.
func One() Fp {
	var f Fp
	f.v.SetInt64(1)
	return f
}

// NewFromUint64 returns the field element equal to n.
func NewFromUint64(n uint64) Fp {
	var f Fp
	f.v.SetUint64(n)
	return f
}

// NewFromBigInt reduces x modulo the field modulus and returns the result.
func NewFromBigInt(x *big.Int) Fp {
	var f Fp
	f.v.Mod(x, modulus)
	return f
}

// NewFromBytesLE interprets b as a little-endian integer and reduces it
// modulo the field modulus.
func NewFromBytesLE(b []byte) Fp {
	be := make([]byte, len(b))
	for i, c := range b {
		be[len(b)-1-i] = c
	}
	var x big.Int
	x.SetBytes(be)
	return NewFromBigInt(&x)
}

// IsZero reports whether f is the additive identity.
func (f Fp) IsZero() bool {
	return f.v.Sign() == 0
}

// Equal reports whether f and g represent the same field element.
func (f Fp) Equal(g Fp) bool {
	return f.v.Cmp(&g.v) == 0
}

// Cmp returns -1, 0 or +1 comparing the canonical big-endian representations
// of f and g, matching the "equality and ordering by canonical
// representation" contract of spec.md's field-element type.
func (f Fp) Cmp(g Fp) int {
	return f.v.Cmp(&g.v)
}

// Add returns f+g mod p.
func (f Fp) Add(g Fp) Fp {
	var r Fp
	r.v.Add(&f.v, &g.v)
	r.v.Mod(&r.v, modulus)
	return r
}

// Sub returns f-g mod p.
func (f Fp) Sub(g Fp) Fp {
	var r Fp
	r.v.Sub(&f.v, &g.v)
	r.v.Mod(&r.v, modulus)
	return r
}

// Mul returns f*g mod p.
func (f Fp) Mul(g Fp) Fp {
	var r Fp
	r.v.Mul(&f.v, &g.v)
	r.v.Mod(&r.v, modulus)
	return r
}

// Square returns f*f mod p.
func (f Fp) Square() Fp {
	return f.Mul(f)
}

// Pow returns f^e mod p.
func (f Fp) Pow(e uint64) Fp {
	var r Fp
	exp := new(big.Int).SetUint64(e)
	r.v.Exp(&f.v, exp, modulus)
	return r
}

// Neg returns -f mod p.
func (f Fp) Neg() Fp {
	var r Fp
	r.v.Neg(&f.v)
	r.v.Mod(&r.v, modulus)
	return r
}

// Bytes returns the 32-byte little-endian canonical encoding of f.
func (f Fp) Bytes() [byteLen]byte {
	var out [byteLen]byte
	be := f.v.FillBytes(make([]byte, byteLen))
	for i, c := range be {
		out[byteLen-1-i] = c
	}
	return out
}

// String returns the decimal representation of f, matching the convention
// Mina itself uses when printing field elements (e.g. in the receipt-chain
// regression vectors of spec.md §8).
func (f Fp) String() string {
	return f.v.String()
}

// ErrNotCanonical is returned by ParseDecimal when the string does not
// parse as a base-10 integer.
var ErrNotCanonical = errors.New("pasta: not a valid decimal field element")

// ParseDecimal parses a base-10 string into a reduced field element.
func ParseDecimal(s string) (Fp, error) {
	var x big.Int
	if _, ok := x.SetString(s, 10); !ok {
		return Fp{}, ErrNotCanonical
	}
	return NewFromBigInt(&x), nil
}
