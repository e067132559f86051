// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"sort"

	"github.com/antgroup/structmerge/modules/artifact"
	"github.com/antgroup/structmerge/modules/lang"
)

// UnorderedMerge treats lParent/rParent's children as sets keyed by match
// identity, per spec §4.3: members present unchanged on both sides copy
// through, members changed on both sides recursively merge, members missing
// from one side are deleted or conflicted depending on whether the other
// side touched them, and members present on only one side (and absent from
// base) are added. Output order follows the contributing side, left before
// right on ties.
func (e *Engine[N]) UnorderedMerge(lParent, baseParent, rParent, target *artifact.Artifact[N]) error {
	seen := make(map[int64]bool)

	emit := func(c *artifact.Artifact[N]) {
		if seen[c.ID()] {
			return
		}
		seen[c.ID()] = true
	}

	type entry struct {
		side int // 0 = left, 1 = right
		num  int
		fn   func() error
	}
	var entries []entry

	for _, lc := range lParent.Children() {
		if lc.IsMerged() {
			continue
		}
		lcCopy := lc
		rc := e.matchedTo(lc)
		switch {
		case rc != nil:
			emit(lc)
			emit(rc)
			baseChild := baseOf(baseParent, lc, rc)
			entries = append(entries, entry{0, lc.Number(), func() error {
				childTarget := NewTarget(lcCopy)
				if err := e.Merge(lcCopy, baseChild, rc, childTarget); err != nil {
					return err
				}
				e.Log.Record(artifact.Operation[N]{Kind: artifact.Add, Target: target, Source: childTarget, Position: -1})
				lcCopy.SetMerged(true)
				rc.SetMerged(true)
				return nil
			}})
		case inBase(baseParent, lc):
			// lc is present on the left and in base but has no right
			// counterpart: right deleted it. Honor the deletion if left
			// left it unchanged; conflict if left also modified it.
			emit(lc)
			baseChild := matchInBase(baseParent, lc)
			entries = append(entries, entry{0, lc.Number(), func() error {
				if changedFromBase(baseChild, lcCopy) {
					e.conflict(lcCopy, baseChild, target)
				} else {
					e.Log.Record(artifact.Operation[N]{Kind: artifact.Delete, Target: lcCopy})
				}
				lcCopy.SetMerged(true)
				return nil
			}})
		default:
			emit(lc)
			entries = append(entries, entry{0, lc.Number(), func() error {
				e.Log.Record(artifact.Operation[N]{Kind: artifact.Add, Target: target, Source: lcCopy.Clone(), Position: -1})
				lcCopy.SetMerged(true)
				return nil
			}})
		}
	}

	for _, rc := range rParent.Children() {
		if rc.IsMerged() || seen[rc.ID()] {
			continue
		}
		rcCopy := rc
		switch {
		case inBase(baseParent, rc):
			// rc is present on the right and in base but has no left
			// counterpart: left deleted it. Honor the deletion if right
			// left it unchanged; conflict if right also modified it.
			baseChild := matchInBase(baseParent, rc)
			entries = append(entries, entry{1, rc.Number(), func() error {
				if changedFromBase(baseChild, rcCopy) {
					e.conflict(baseChild, rcCopy, target)
				} else {
					e.Log.Record(artifact.Operation[N]{Kind: artifact.Delete, Target: rcCopy})
				}
				rcCopy.SetMerged(true)
				return nil
			}})
		default:
			entries = append(entries, entry{1, rc.Number(), func() error {
				e.Log.Record(artifact.Operation[N]{Kind: artifact.Add, Target: target, Source: rcCopy.Clone(), Position: -1})
				rcCopy.SetMerged(true)
				return nil
			}})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].side != entries[j].side {
			return entries[i].side < entries[j].side
		}
		return entries[i].num < entries[j].num
	})
	for _, en := range entries {
		if err := en.fn(); err != nil {
			return err
		}
	}
	return nil
}

func matchInBase[N lang.Node](baseParent, c *artifact.Artifact[N]) *artifact.Artifact[N] {
	if baseParent == nil {
		return nil
	}
	for _, b := range baseParent.Children() {
		if b.Matches(c) {
			return b
		}
	}
	return nil
}

// changedFromBase reports whether candidate's subtree diverges from
// baseChild: either a different child count or any non-isomorphic child at
// the same matched position.
func changedFromBase[N lang.Node](baseChild, candidate *artifact.Artifact[N]) bool {
	if baseChild == nil || candidate == nil {
		return true
	}
	if len(baseChild.Children()) != len(candidate.Children()) {
		return true
	}
	for i, bc := range baseChild.Children() {
		cc := candidate.Children()[i]
		if !bc.Matches(cc) || changedFromBase(bc, cc) {
			return true
		}
	}
	return false
}
