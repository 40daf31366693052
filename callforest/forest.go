// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package callforest implements the hashed account-update call forest
// (spec.md §4.4, C6): an n-ary tree of account updates where every
// node and every list-of-siblings carries a lazily computed, one-shot
// digest cache.
package callforest

import (
	"github.com/decred/slog"
	"github.com/monetarium/mina-core/pasta"
)

var log = slog.Disabled

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger slog.Logger) {
	log = logger
}

// Hasher computes the leaf digest for an account update body. Callers
// supply this rather than callforest depending on the zkapp package
// directly, keeping the hashed-tree machinery independent of the
// account-update schema it is instantiated over.
type Hasher[T any] func(body T) pasta.Fp

// Tree is a single node of the call forest: an account update plus the
// forest of updates it called.
type Tree[T any] struct {
	AccountUpdate T
	Calls         CallForest[T]

	accountUpdateDigest *pasta.Fp
	nodeDigest          *pasta.Fp
}

// CallForest is an ordered list of sibling Trees, itself carrying a
// lazily computed stack-hash cache (the "cons-list" hash chaining
// siblings together).
type CallForest[T any] struct {
	nodes []*Tree[T]

	stackHashes []*pasta.Fp // parallel to nodes; stackHashes[i] covers nodes[i:]
}

// NewTree constructs an unhashed tree node.
func NewTree[T any](update T, calls CallForest[T]) *Tree[T] {
	return &Tree[T]{AccountUpdate: update, Calls: calls}
}

// NewForest builds a CallForest from an ordered slice of trees, with
// no digests computed yet.
func NewForest[T any](nodes []*Tree[T]) CallForest[T] {
	return CallForest[T]{
		nodes:       nodes,
		stackHashes: make([]*pasta.Fp, len(nodes)),
	}
}

// Len returns the number of siblings at this level.
func (f CallForest[T]) Len() int {
	return len(f.nodes)
}

// At returns the i'th sibling tree.
func (f CallForest[T]) At(i int) *Tree[T] {
	return f.nodes[i]
}

// Domains names the hash salts the caller supplies for hashing
// (callforest is domain-agnostic and does not import hashdomain).
// EnsureHashed uses Node and Cons; AccountUpdate is not read by it,
// since leaf digests come from the caller's Hasher.
type Domains struct {
	AccountUpdate string
	Node          string
	Cons          string
}

// HashWithDomainFunc is supplied by the caller (bound to hashdomain.HashWithDomain
// in production) so this package stays independent of the concrete
// Poseidon implementation.
type HashWithDomainFunc func(tag string, inputs []pasta.Fp) pasta.Fp

// EnsureHashed populates every node_digest and stack_hash cache in f,
// traversing depth-first, last-sibling-first so that by the time node
// i is hashed its child forest and its sibling tail are already
// computed — matching spec.md §4.4's traversal order. Both caches are
// one-shot: a tree or forest that is already fully hashed is left
// untouched.
func EnsureHashed[T any](f CallForest[T], leafHash Hasher[T], hash HashWithDomainFunc, d Domains) pasta.Fp {
	var tailHash pasta.Fp // zero for the empty tail
	for i := f.Len() - 1; i >= 0; i-- {
		node := f.nodes[i]

		childStackHash := pasta.Zero()
		if node.Calls.Len() > 0 {
			childStackHash = EnsureHashed(node.Calls, leafHash, hash, d)
		}

		if node.accountUpdateDigest == nil {
			v := leafHash(node.AccountUpdate)
			node.accountUpdateDigest = &v
		}
		if node.nodeDigest == nil {
			v := hash(d.Node, []pasta.Fp{*node.accountUpdateDigest, childStackHash})
			node.nodeDigest = &v
		}

		if f.stackHashes[i] == nil {
			v := hash(d.Cons, []pasta.Fp{*node.nodeDigest, tailHash})
			f.stackHashes[i] = &v
		}
		tailHash = *f.stackHashes[i]
	}
	if f.Len() == 0 {
		return pasta.Zero()
	}
	return *f.stackHashes[0]
}

// Hash returns the forest's cached stack_hash (0 if empty), per
// spec.md §4.4's `hash(forest)` operation. It panics if EnsureHashed
// has not been called first — callers own the hashing schedule.
func (f CallForest[T]) Hash() pasta.Fp {
	if f.Len() == 0 {
		return pasta.Zero()
	}
	if f.stackHashes[0] == nil {
		panic("callforest: Hash called before EnsureHashed")
	}
	return *f.stackHashes[0]
}

// Cons prepends tree to f, recomputing only the new head's stack_hash
// (the existing siblings' caches are untouched and reused as the new
// tail).
func Cons[T any](tree *Tree[T], f CallForest[T], leafHash Hasher[T], hash HashWithDomainFunc, d Domains) CallForest[T] {
	nodes := make([]*Tree[T], 0, f.Len()+1)
	nodes = append(nodes, tree)
	nodes = append(nodes, f.nodes...)

	stackHashes := make([]*pasta.Fp, len(nodes))
	copy(stackHashes[1:], f.stackHashes)

	out := CallForest[T]{nodes: nodes, stackHashes: stackHashes}

	tailHash := pasta.Zero()
	if f.Len() > 0 {
		tailHash = f.Hash()
	}
	if tree.accountUpdateDigest == nil {
		v := leafHash(tree.AccountUpdate)
		tree.accountUpdateDigest = &v
	}
	childStackHash := pasta.Zero()
	if tree.Calls.Len() > 0 {
		childStackHash = EnsureHashed(tree.Calls, leafHash, hash, d)
	}
	if tree.nodeDigest == nil {
		v := hash(d.Node, []pasta.Fp{*tree.accountUpdateDigest, childStackHash})
		tree.nodeDigest = &v
	}
	head := hash(d.Cons, []pasta.Fp{*tree.nodeDigest, tailHash})
	out.stackHashes[0] = &head
	return out
}

// Fold performs a depth-first, left-to-right, pre-order reduction over
// every account update in the forest (fee-payer-first when applied to
// the full command's all_account_updates list).
func Fold[T, A any](f CallForest[T], init A, step func(acc A, update T) A) A {
	acc := init
	for i := 0; i < f.Len(); i++ {
		node := f.nodes[i]
		acc = step(acc, node.AccountUpdate)
		acc = Fold(node.Calls, acc, step)
	}
	return acc
}

// MapTo rebuilds the forest with each account update transformed by f,
// preserving tree structure and copying cached digests unchanged. This
// is only valid when f does not alter anything the digest covers (see
// spec.md §4.4) — e.g. attaching a verification key after the fact.
func MapTo[T, U any](f CallForest[T], fn func(T) U) CallForest[U] {
	nodes := make([]*Tree[U], f.Len())
	for i, node := range f.nodes {
		nodes[i] = &Tree[U]{
			AccountUpdate:       fn(node.AccountUpdate),
			Calls:               MapTo(node.Calls, fn),
			accountUpdateDigest: node.accountUpdateDigest,
			nodeDigest:          node.nodeDigest,
		}
	}
	stackHashes := make([]*pasta.Fp, len(f.stackHashes))
	copy(stackHashes, f.stackHashes)
	return CallForest[U]{nodes: nodes, stackHashes: stackHashes}
}

// TryMapTo is MapTo's fallible counterpart: fn may reject an update,
// in which case the first error aborts the traversal and is returned.
func TryMapTo[T, U any](f CallForest[T], fn func(T) (U, error)) (CallForest[U], error) {
	nodes := make([]*Tree[U], f.Len())
	for i, node := range f.nodes {
		mapped, err := fn(node.AccountUpdate)
		if err != nil {
			return CallForest[U]{}, err
		}
		calls, err := TryMapTo(node.Calls, fn)
		if err != nil {
			return CallForest[U]{}, err
		}
		nodes[i] = &Tree[U]{
			AccountUpdate:       mapped,
			Calls:               calls,
			accountUpdateDigest: node.accountUpdateDigest,
			nodeDigest:          node.nodeDigest,
		}
	}
	stackHashes := make([]*pasta.Fp, len(f.stackHashes))
	copy(stackHashes, f.stackHashes)
	return CallForest[U]{nodes: nodes, stackHashes: stackHashes}, nil
}
