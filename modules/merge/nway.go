// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"github.com/antgroup/structmerge/modules/artifact"
	"github.com/antgroup/structmerge/modules/lang"
)

// Merge is the NWayMerge dispatch: it decides two-way vs three-way (base
// nil means two-way), runs the fixed-arity safety preflight, and then picks
// OrderedMerge or UnorderedMerge per target.IsOrdered() (spec §4.3). target
// must already carry lc's node as a seed (its CreateEmpty clone); Merge
// populates target's children and merged/conflict flags as a side effect.
func (e *Engine[N]) Merge(left, base, right, target *artifact.Artifact[N]) error {
	if left == nil && right == nil {
		return nil
	}
	if left == nil {
		// right-only subtree: nothing to reconcile, just adopt it.
		target.SetChildren(cloneChildren(right))
		return nil
	}
	if right == nil {
		target.SetChildren(cloneChildren(left))
		return nil
	}

	if opaque, ok := e.tryMergeOpaque(left, base, right, target); ok {
		return opaque
	}

	if leaf := left.Node().IsLeaf() && right.Node().IsLeaf(); leaf {
		return nil
	}

	if !e.fixedArityPreflight(left, base, right, target) {
		// target itself becomes the conflict, so no fixed-arity node is left
		// holding a child count its grammar does not allow.
		e.Log.Record(artifact.Operation[N]{Kind: artifact.ConflictOp, Target: target, Left: left, Right: right})
		return nil
	}

	if target.IsOrdered() {
		return e.OrderedMerge(left, base, right, target)
	}
	return e.UnorderedMerge(left, base, right, target)
}

// NewTarget seeds a fresh target artifact for a merge rooted at seed: an
// empty node of the same kind (and, for unique-label kinds, the same label)
// as seed's underlying node, populated only by the Add/Delete/ConflictOp
// operations the merge emits. Seeding target with seed.Clone() instead would
// leave it already holding every one of seed's original descendants before
// the merge even starts, so each Add the merge records would double up
// content that was already there.
func NewTarget[N lang.Node](seed *artifact.Artifact[N]) *artifact.Artifact[N] {
	empty, ok := seed.Node().CreateEmpty().(N)
	if !ok {
		empty = seed.Node()
	}
	return artifact.New[N](empty, artifact.Target)
}

func cloneChildren[N lang.Node](a *artifact.Artifact[N]) []*artifact.Artifact[N] {
	children := a.Children()
	out := make([]*artifact.Artifact[N], len(children))
	for i, c := range children {
		out[i] = c.Clone()
	}
	return out
}

// fixedArityPreflight implements the AST wrapper's safety check (spec
// §4.3): when left/right's shared node kind has a fixed arity and both
// sides changed the parent, a mismatch in arity or per-position child kind
// means structural reconstruction would produce an ill-typed tree. It
// returns false when the preflight trips (caller must emit a whole-subtree
// CONFLICT instead of attempting the structural merge), true otherwise.
func (e *Engine[N]) fixedArityPreflight(left, base, right, target *artifact.Artifact[N]) bool {
	arity := left.Node().FixedArity()
	if arity == lang.FixedArityUnknown {
		return true
	}
	bothChanged := base == nil || (changedFromBase(base, left) && changedFromBase(base, right))
	if !bothChanged {
		return true
	}
	lc, rc := left.Children(), right.Children()
	if len(lc) != arity || len(rc) != arity {
		return false
	}
	for i := 0; i < arity; i++ {
		if lc[i].Kind() != rc[i].Kind() {
			return false
		}
	}
	return true
}
