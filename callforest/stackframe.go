// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package callforest

import "github.com/monetarium/mina-core/pasta"

// StackFrame is the two-pass applier's per-call-stack-entry context:
// the caller and caller-of-the-caller token ids that scope the
// currently executing account update's children (spec.md §4.4).
type StackFrame[T any] struct {
	Caller       pasta.Fp
	CallerCaller pasta.Fp
	Calls        CallForest[T]
}

// Hash computes `hash(frame) := hash_with(MINA_ACCOUNT_UPDATE_STACK_FRAME,
// [caller.0, caller_caller.0, frame.calls.hash()])`. The caller's
// forest must already be hashed via EnsureHashed.
func (sf StackFrame[T]) Hash(hash HashWithDomainFunc, tag string) pasta.Fp {
	return hash(tag, []pasta.Fp{sf.Caller, sf.CallerCaller, sf.Calls.Hash()})
}
