// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package merge implements the three-way merge engines (OrderedMerge,
// UnorderedMerge, and the NWayMerge dispatch between them) that walk a
// matched (left, base, right) scenario and emit operations against a target
// artifact tree (spec §4.3).
package merge

import (
	"github.com/antgroup/structmerge/modules/artifact"
	"github.com/antgroup/structmerge/modules/lang"
)

// Engine carries the state a merge needs across the whole recursive walk:
// the matchings discovered by a matcher, the operation log the applier
// replays against, and the scenario's side labels for conflict markers.
type Engine[N lang.Node] struct {
	Matchings      *artifact.Matchings[N]
	Log            *artifact.OperationLog[N]
	LeftName       string
	RightName      string
	Semistructured *Semistructured
}

// NewEngine builds an Engine ready to merge scenario using m as the
// precomputed cross-revision matching.
func NewEngine[N lang.Node](scenario *artifact.MergeScenario[N], m *artifact.Matchings[N]) *Engine[N] {
	return &Engine[N]{
		Matchings: m,
		Log:       &artifact.OperationLog[N]{},
		LeftName:  scenario.LeftName,
		RightName: scenario.RightName,
	}
}

// OrderedMerge walks lParent/rParent's children with two cursors per spec
// §4.3's state table, emitting operations against target. baseParent is nil
// for a two-way scenario.
func (e *Engine[N]) OrderedMerge(lParent, baseParent, rParent, target *artifact.Artifact[N]) error {
	lChildren := lParent.Children()
	rChildren := rParent.Children()
	li, ri := 0, 0
	for li < len(lChildren) || ri < len(rChildren) {
		var lc, rc *artifact.Artifact[N]
		if li < len(lChildren) {
			lc = lChildren[li]
		}
		if ri < len(rChildren) {
			rc = rChildren[ri]
		}

		switch {
		case lc != nil && lc.IsMerged():
			li++
			continue
		case rc != nil && rc.IsMerged():
			ri++
			continue

		case lc != nil && rc != nil && e.matchedTo(lc) == rc:
			baseChild := baseOf(baseParent, lc, rc)
			childTarget := NewTarget(lc)
			if err := e.Merge(lc, baseChild, rc, childTarget); err != nil {
				return err
			}
			e.Log.Record(artifact.Operation[N]{Kind: artifact.Add, Target: target, Source: childTarget, Position: -1})
			lc.SetMerged(true)
			rc.SetMerged(true)
			li++
			ri++

		case lc != nil && e.matchedTo(lc) == nil && !inBase(baseParent, lc):
			// left-only insertion
			e.Log.Record(artifact.Operation[N]{Kind: artifact.Add, Target: target, Source: lc.Clone(), Position: -1})
			lc.SetMerged(true)
			li++

		case rc != nil && e.matchedTo(rc) == nil && !inBase(baseParent, rc):
			// right-only insertion
			e.Log.Record(artifact.Operation[N]{Kind: artifact.Add, Target: target, Source: rc.Clone(), Position: -1})
			rc.SetMerged(true)
			ri++

		case lc != nil && inBase(baseParent, lc) && e.matchedTo(lc) == nil:
			// lc is in base but has no right counterpart: right deleted or
			// replaced it. Conflict when the right cursor holds a different
			// element at this position, else a clean delete.
			if rc != nil && !rc.Matches(lc) {
				e.conflict(lc, rc, target)
				li++
				ri++
			} else {
				e.Log.Record(artifact.Operation[N]{Kind: artifact.Delete, Target: lc})
				li++
			}

		case rc != nil && inBase(baseParent, rc) && e.matchedTo(rc) == nil:
			if lc != nil && !lc.Matches(rc) {
				e.conflict(lc, rc, target)
				li++
				ri++
			} else {
				e.Log.Record(artifact.Operation[N]{Kind: artifact.Delete, Target: rc})
				ri++
			}

		case lc != nil && rc != nil:
			// both changed at the same position without matching: conflict.
			e.conflict(lc, rc, target)
			li++
			ri++

		default:
			li++
			ri++
		}
	}
	return nil
}

func (e *Engine[N]) matchedTo(a *artifact.Artifact[N]) *artifact.Artifact[N] {
	if r, ok := e.Matchings.Matched(a); ok {
		return r
	}
	if l, ok := e.Matchings.MatchedRight(a); ok {
		return l
	}
	return nil
}

// conflict records that lc and rc irreconcilably diverge and adds a
// dedicated conflict placeholder as a new child of target, rather than
// marking target itself conflicted: target accumulates every other child
// the merge emits too, and RebuildAST's conflict branch returns a
// substitute node for whatever artifact conflict is set on instead of
// descending into its children, so setting it on the shared parent would
// discard every sibling already recorded against target.
func (e *Engine[N]) conflict(lc, rc, target *artifact.Artifact[N]) {
	placeholder := NewTarget(lc)
	e.Log.Record(artifact.Operation[N]{
		Kind:   artifact.ConflictOp,
		Target: placeholder,
		Left:   lc,
		Right:  rc,
	})
	e.Log.Record(artifact.Operation[N]{Kind: artifact.Add, Target: target, Source: placeholder, Position: -1})
}

// baseOf returns baseParent's child matched to lc/rc, or nil (two-way or no
// corresponding base element — a pure insertion).
func baseOf[N lang.Node](baseParent, lc, rc *artifact.Artifact[N]) *artifact.Artifact[N] {
	if baseParent == nil {
		return nil
	}
	for _, b := range baseParent.Children() {
		if b.Matches(lc) || b.Matches(rc) {
			return b
		}
	}
	return nil
}

func inBase[N lang.Node](baseParent, c *artifact.Artifact[N]) bool {
	if baseParent == nil {
		return false
	}
	for _, b := range baseParent.Children() {
		if b.Matches(c) {
			return true
		}
	}
	return false
}
