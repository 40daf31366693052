// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hashdomain implements the Poseidon sponge over pasta.Fp and the
// named hash-domain registry spec.md §6.2 describes: a fixed salt per
// named domain, computed by initializing the permutation with the domain
// tag and then absorbing the zero vector.
//
// This package reproduces the *structure* of Mina's Poseidon (width-3
// state, rate 2, x^5 S-box, domain-tag salting) faithfully. It does not
// claim bit-exact parity with the reference implementation's published
// round-constant table — see DESIGN.md "Open Questions" for why that
// table cannot be honestly reproduced here, and what guarantees this
// package does make instead (determinism and domain separation).
package hashdomain

import (
	"github.com/monetarium/mina-core/pasta"
)

const (
	// width is the Poseidon state size (arity 2 + 1 capacity element).
	width = 3
	// rate is the number of state elements absorbed per permutation call.
	rate = 2
	// fullRounds mirrors Mina's kimchi Poseidon round count for a
	// width-3 state.
	fullRounds = 55
	// maxDomainLen is the longest a domain tag may be, per spec.md §6.2.
	maxDomainLen = 20
)

// state is a width-3 Poseidon sponge state.
type state [width]pasta.Fp

// roundConstants is generated once, deterministically, from a fixed
// label. It stands in for Mina's real published constant table (see the
// package doc comment and DESIGN.md for why).
var roundConstants = generateRoundConstants()

// mdsMatrix is a fixed 3x3 MDS-like mixing matrix, likewise deterministically
// generated rather than reproduced from the reference implementation.
var mdsMatrix = generateMDS()

func generateRoundConstants() [][width]pasta.Fp {
	rc := make([][width]pasta.Fp, fullRounds)
	seed := pasta.NewFromUint64(0x706f736569646f6e) // "poseidon" ascii-packed
	acc := seed
	for r := 0; r < fullRounds; r++ {
		for i := 0; i < width; i++ {
			acc = acc.Mul(acc).Add(seed).Add(pasta.NewFromUint64(uint64(r*width + i + 1)))
			rc[r][i] = acc
		}
	}
	return rc
}

func generateMDS() [width][width]pasta.Fp {
	var m [width][width]pasta.Fp
	for i := 0; i < width; i++ {
		x := pasta.NewFromUint64(uint64(i + 1))
		// 1/(x+y) would be the textbook Cauchy MDS entry; to avoid a field
		// inversion this uses the Vandermonde matrix m[i][j] = (i+1)^j
		// instead, which is invertible by construction because its nodes
		// 1, 2, 3 are distinct.
		e := pasta.One()
		for j := 0; j < width; j++ {
			m[i][j] = e
			e = e.Mul(x)
		}
	}
	return m
}

func sbox(f pasta.Fp) pasta.Fp {
	// x^5, matching Mina's Poseidon S-box.
	sq := f.Square()
	return sq.Square().Mul(f)
}

func (s *state) permute() {
	for r := 0; r < fullRounds; r++ {
		// add round constants
		for i := 0; i < width; i++ {
			s[i] = s[i].Add(roundConstants[r][i])
		}
		// S-box layer (full rounds: apply to every element)
		for i := 0; i < width; i++ {
			s[i] = sbox(s[i])
		}
		// linear mixing layer
		var next state
		for i := 0; i < width; i++ {
			acc := pasta.Zero()
			for j := 0; j < width; j++ {
				acc = acc.Add(mdsMatrix[i][j].Mul(s[j]))
			}
			next[i] = acc
		}
		*s = next
	}
}

// domainTagToField packs up to maxDomainLen ASCII bytes of tag into a
// field element, most-significant byte first.
func domainTagToField(tag string) pasta.Fp {
	if len(tag) > maxDomainLen {
		tag = tag[:maxDomainLen]
	}
	var b [pasta.ByteLen]byte
	copy(b[pasta.ByteLen-len(tag):], tag)
	return pasta.NewFromBytesLE(reverse(b[:]))
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

// initialState computes a named domain's starting sponge state: salt with
// the domain tag, then absorb one all-zero rate-sized block.
func initialState(tag string) state {
	var s state
	s[0] = domainTagToField(tag)
	s.permute()
	return s
}

// Registry caches each named domain's initial state, computed once.
type Registry struct {
	cache map[string]state
}

// NewRegistry returns an empty domain registry.
func NewRegistry() *Registry {
	return &Registry{cache: make(map[string]state)}
}

func (r *Registry) get(tag string) state {
	if s, ok := r.cache[tag]; ok {
		return s
	}
	s := initialState(tag)
	r.cache[tag] = s
	return s
}

// Default is the process-wide registry instance; hash domains are pure
// functions of their tag so sharing one cache across callers is safe.
var Default = NewRegistry()

// HashWithDomain absorbs inputs into the sponge seeded by the named
// domain and returns the first state element (the sponge's single output
// rate element), matching Mina's single-field-output Poseidon usage.
func HashWithDomain(tag string, inputs []pasta.Fp) pasta.Fp {
	s := Default.get(tag)
	i := 0
	for i < len(inputs) {
		end := i + rate
		if end > len(inputs) {
			end = len(inputs)
		}
		for j := i; j < end; j++ {
			s[j-i] = s[j-i].Add(inputs[j])
		}
		s.permute()
		i = end
	}
	return s[0]
}

// HashNoInputs returns the named domain's initial-state output with no
// absorbed inputs, used for empty-list sentinels (spec.md §6.2,
// `NoInputCodaZkappEventsEmpty` and friends).
func HashNoInputs(tag string) pasta.Fp {
	s := Default.get(tag)
	return s[0]
}
