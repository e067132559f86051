// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package artifact

import "github.com/antgroup/structmerge/modules/lang"

// OperationKind is one of the four actions the merge engines emit against a
// target tree under construction (spec §4.5).
type OperationKind int

const (
	// Add inserts Source as a new child of Target at Position.
	Add OperationKind = iota
	// Delete removes Target from its parent's children.
	Delete
	// Merge marks Target as merged and keeps it in place; applying it does
	// not merge any children itself.
	Merge
	// ConflictOp replaces Target with a conflict pseudo-node built from
	// Left and Right.
	ConflictOp
)

func (k OperationKind) String() string {
	switch k {
	case Add:
		return "ADD"
	case Delete:
		return "DELETE"
	case Merge:
		return "MERGE"
	case ConflictOp:
		return "CONFLICT"
	default:
		return "UNKNOWN"
	}
}

// Operation is a single action an operations applier replays against a
// target artifact tree. Applying the same Operation value twice must be a
// no-op the second time: Add checks Target doesn't already hold Source among
// its children, Delete checks the child is still present, Merge is naturally
// idempotent (re-merging already-merged children changes nothing), and
// ConflictOp checks Target isn't already the conflict it would create.
type Operation[N lang.Node] struct {
	Kind     OperationKind
	Target   *Artifact[N]
	Source   *Artifact[N]
	Position int
	Left     *Artifact[N]
	Right    *Artifact[N]
}

// Apply replays op against the target tree, per spec §4.5: Add inserts into
// Target itself, Delete removes Target from its parent, Merge and ConflictOp
// flag Target. It is safe to call more than once with the same op.
func (op Operation[N]) Apply() {
	switch op.Kind {
	case Add:
		op.applyAdd()
	case Delete:
		op.applyDelete()
	case Merge:
		op.Target.SetMerged(true)
	case ConflictOp:
		op.applyConflict()
	}
}

func (op Operation[N]) applyAdd() {
	parent := op.Target
	for _, c := range parent.children {
		if c.id == op.Source.id {
			return
		}
	}
	at := op.Position
	if at < 0 || at > len(parent.children) {
		at = len(parent.children)
	}
	children := make([]*Artifact[N], 0, len(parent.children)+1)
	children = append(children, parent.children[:at]...)
	children = append(children, op.Source)
	children = append(children, parent.children[at:]...)
	parent.SetChildren(children)
}

func (op Operation[N]) applyDelete() {
	parent := op.Target.parent
	if parent == nil {
		return
	}
	kept := parent.children[:0:0]
	removed := false
	for _, c := range parent.children {
		if c.id == op.Target.id {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if removed {
		parent.SetChildren(kept)
	}
}

func (op Operation[N]) applyConflict() {
	if op.Target.conflict {
		return
	}
	op.Target.SetConflict(true)
	op.Target.Link(op.Left)
	op.Target.Link(op.Right)
}

// OperationLog collects operations an applier has replayed, in order, for
// diagnostics and for tests that assert on merge behavior without
// re-parsing the rebuilt tree.
type OperationLog[N lang.Node] struct {
	ops []Operation[N]
}

func (l *OperationLog[N]) Record(op Operation[N]) {
	op.Apply()
	l.ops = append(l.ops, op)
}

func (l *OperationLog[N]) Operations() []Operation[N] {
	return l.ops
}
