// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"sync/atomic"

	"github.com/antgroup/structmerge/modules/lang"
)

var idSeq int64

func nextArtifactID() int64 {
	return atomic.AddInt64(&idSeq, 1)
}

// Artifact wraps a lang.Node with the provenance and merge-state bookkeeping
// the matcher and merge engines need: which revision it came from, a stable
// pre-order number within that revision's tree, cross-revision match links,
// and the merged/conflict/choice flags the operations applier consults when
// rebuilding the target tree (spec §3, §4.5).
type Artifact[N lang.Node] struct {
	id       int64
	node     N
	revision Revision
	number   int
	parent   *Artifact[N]
	children []*Artifact[N]

	// matches holds the link to the corresponding artifact in another
	// revision's tree, keyed by that revision. A three-way merge populates
	// at most Base and the opposite side; a two-way merge populates only
	// the opposite side.
	matches map[Revision]*Artifact[N]

	merged   bool
	conflict bool
	choice   bool
}

// New wraps node as the root artifact of revision's tree and numbers the
// whole subtree in pre-order.
func New[N lang.Node](node N, revision Revision) *Artifact[N] {
	a := build(node, revision, nil)
	a.Renumber(0)
	return a
}

func build[N lang.Node](node N, revision Revision, parent *Artifact[N]) *Artifact[N] {
	a := &Artifact[N]{
		id:       nextArtifactID(),
		node:     node,
		revision: revision,
		parent:   parent,
		matches:  make(map[Revision]*Artifact[N]),
	}
	for _, c := range node.Children() {
		cn, ok := c.(N)
		if !ok {
			continue
		}
		a.children = append(a.children, build(cn, revision, a))
	}
	return a
}

// Renumber assigns this artifact and its subtree sequential pre-order
// numbers starting at start, and returns the next free number. Matchers and
// merge engines key ordering decisions off Number, never off tree position
// directly, so a rebuilt tree can be renumbered without disturbing matches.
func (a *Artifact[N]) Renumber(start int) int {
	a.number = start
	next := start + 1
	for _, c := range a.children {
		next = c.Renumber(next)
	}
	return next
}

func (a *Artifact[N]) ID() int64          { return a.id }
func (a *Artifact[N]) Number() int        { return a.number }
func (a *Artifact[N]) Node() N            { return a.node }
func (a *Artifact[N]) Revision() Revision { return a.revision }
func (a *Artifact[N]) Parent() *Artifact[N] { return a.parent }
func (a *Artifact[N]) Children() []*Artifact[N] { return a.children }

func (a *Artifact[N]) Kind() string  { return a.node.Kind() }
func (a *Artifact[N]) Label() string { return a.node.Label() }

// Matches reports structural equality at this level, per the underlying
// node's capability set.
func (a *Artifact[N]) Matches(other *Artifact[N]) bool {
	return a.node.Match(other.node)
}

func (a *Artifact[N]) IsOrdered() bool       { return a.node.IsOrdered() }
func (a *Artifact[N]) HasUniqueLabels() bool { return a.node.HasUniqueLabels() }
func (a *Artifact[N]) IsLeaf() bool          { return len(a.children) == 0 }

// AddChild appends child to a's children, reparenting it.
func (a *Artifact[N]) AddChild(child *Artifact[N]) {
	child.parent = a
	a.children = append(a.children, child)
}

// SetChildren replaces a's children wholesale, reparenting each.
func (a *Artifact[N]) SetChildren(children []*Artifact[N]) {
	for _, c := range children {
		c.parent = a
	}
	a.children = children
}

// Link records that a and other are the same logical element across
// revisions. The link is stored symmetrically: a.matches[other.revision] =
// other and other.matches[a.revision] = a, so either side can look up the
// other without the matcher having to remember call direction.
func (a *Artifact[N]) Link(other *Artifact[N]) {
	a.matches[other.revision] = other
	other.matches[a.revision] = a
}

// MatchIn returns the artifact linked to a in revision, or nil if a has no
// counterpart there.
func (a *Artifact[N]) MatchIn(revision Revision) *Artifact[N] {
	return a.matches[revision]
}

func (a *Artifact[N]) SetMerged(v bool)   { a.merged = v }
func (a *Artifact[N]) IsMerged() bool     { return a.merged }
func (a *Artifact[N]) SetConflict(v bool) { a.conflict = v }
func (a *Artifact[N]) IsConflict() bool   { return a.conflict }
func (a *Artifact[N]) SetChoice(v bool)   { a.choice = v }
func (a *Artifact[N]) IsChoice() bool     { return a.choice }

// Clone deep-copies a's subtree as a fresh artifact tree in the same
// revision, with fresh artifact IDs and no match links.
func (a *Artifact[N]) Clone() *Artifact[N] {
	cloned, ok := a.node.Clone().(N)
	if !ok {
		cloned = a.node
	}
	return build(cloned, a.revision, nil)
}

// RebuildAST walks a's artifact subtree and reconciles the underlying
// lang.Node tree to match it: nodes whose children were rearranged by the
// merge get SetChildren called, and conflict/choice artifacts get a fresh
// pseudo-node substituted via the node's own CreateConflict/CreateChoice
// capability-set methods (spec §4.1, §9 design note on polymorphism). A
// conflict side with no Left/Right link falls back to the linked Base
// artifact, and to a's own node when there is none. It returns the lang.Node that should replace a's node in
// the parent's child list.
func (a *Artifact[N]) RebuildAST() lang.Node {
	if a.conflict {
		leftChild, rightChild := a.node, a.node
		var left, right lang.Node = leftChild, rightChild
		if l := a.MatchIn(Left); l != nil {
			left = l.RebuildAST()
		} else if b := a.MatchIn(Base); b != nil {
			left = b.RebuildAST()
		}
		if r := a.MatchIn(Right); r != nil {
			right = r.RebuildAST()
		} else if b := a.MatchIn(Base); b != nil {
			right = b.RebuildAST()
		}
		return a.node.CreateConflict(left, right, string(Left), string(Right))
	}
	if a.choice {
		variants := make(map[string]lang.Node, len(a.node.Data().Choice))
		for cond, n := range a.node.Data().Choice {
			variants[cond] = n
		}
		return a.node.CreateChoice(variants)
	}
	if len(a.children) == 0 {
		return a.node
	}
	rebuilt := make([]lang.Node, len(a.children))
	for i, c := range a.children {
		rebuilt[i] = c.RebuildAST()
	}
	a.node.SetChildren(rebuilt)
	return a.node
}

// PrettyPrint rebuilds the underlying tree from current artifact state and
// serializes it via the node's own printer.
func (a *Artifact[N]) PrettyPrint() string {
	return a.RebuildAST().PrettyPrint()
}
