// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package authorize implements the signature oracle the two-pass zkApp
// applier and the signed-command applier both treat as an external
// boundary (zkapp.AuthKind and usercommand.SignedCommand.SignatureVerifies
// are supplied, not computed, by those packages — spec.md describes
// proof and signature checking as capabilities a verifier provides, not
// something the ledger-update logic performs itself).
//
// Mina signs with a Schnorr signature over the Pallas curve; this
// package does not reproduce that scheme bit-exactly. It grounds the
// oracle instead on the ECDSA/secp256k1 verification this codebase's
// own reference material already uses for a different authorization
// check, reusing its domain-separation and canonical-signature shape:
// a domain-tagged digest is bound once per message, and a signature is
// accepted only in low-S canonical form. The digest itself is computed
// with this module's own Poseidon domain registry (hashdomain) rather
// than SHA-256, since every other digest in this codebase is a named
// Poseidon domain and a signature oracle is the one place a raw
// sha256.Sum256 would otherwise have snuck in.
package authorize

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/monetarium/mina-core/hashdomain"
	"github.com/monetarium/mina-core/pasta"
)

// maxSignatureLen mirrors the DER signature length ceiling the
// reference material enforces for consensus safety.
const maxSignatureLen = 73

// ErrInvalidSignature is returned by Verify for any malformed or
// non-canonical signature. A well-formed signature that does not verify
// is reported as false with a nil error.
var ErrInvalidSignature = errors.New("authorize: invalid signature")

// ErrInvalidPublicKey is returned by Verify when the claimed signer's
// public key does not parse as a compressed or uncompressed secp256k1
// point.
var ErrInvalidPublicKey = errors.New("authorize: invalid public key")

// Digest binds a domain tag to a sequence of field elements, the same
// shape every other hashed structure in this codebase uses, and
// returns the 32-byte encoding ecdsa.Sign/Verify expect as a message
// hash.
func Digest(domain string, fields []pasta.Fp) [32]byte {
	return hashdomain.HashWithDomain(domain, fields).Bytes()
}

// Sign produces a deterministic ECDSA signature over fields' domain
// digest. It exists for tests and tooling that need to construct a
// SignatureVerifies=true fixture; production signing happens outside
// this codebase's scope.
func Sign(priv *secp256k1.PrivateKey, domain string, fields []pasta.Fp) *ecdsa.Signature {
	digest := Digest(domain, fields)
	return ecdsa.Sign(priv, digest[:])
}

// Verify reports whether sig is a canonical, valid signature by the
// holder of pubKey over fields' domain digest. pubKey is a compressed
// (33-byte) or uncompressed (65-byte) secp256k1 public key encoding;
// sig is a DER-encoded ECDSA signature.
//
// A non-canonical (high-S) signature is rejected outright: Mina, like
// the reference material this is grounded on, treats low-S as the only
// valid encoding, closing off the usual ECDSA malleability where both
// s and -s (mod n) verify.
func Verify(pubKey, sig []byte, domain string, fields []pasta.Fp) (bool, error) {
	if len(sig) > maxSignatureLen {
		return false, fmt.Errorf("%w: %d bytes exceeds maximum of %d", ErrInvalidSignature, len(sig), maxSignatureLen)
	}
	parsedSig, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if parsedSig.S().IsOverHalfOrder() {
		return false, fmt.Errorf("%w: S value is not canonical (low-S required)", ErrInvalidSignature)
	}
	parsedKey, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	digest := Digest(domain, fields)
	return parsedSig.Verify(digest[:], parsedKey), nil
}
