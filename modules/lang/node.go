// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package lang declares the narrow capability interface the merge core
// requires from a concrete syntax-tree library. A tree library that cannot
// supply one of these operations forces the caller back onto the line-based
// strategy; the core itself never parses or prints source text.
package lang

// FixedArityUnknown marks a node kind whose child count is not fixed by the
// grammar (e.g. a statement list). Node kinds with a fixed arity (a binary
// operator's two operands, a ternary's three) return their exact arity so
// the merge dispatcher can run the fixed-arity safety preflight (see
// merge.Engine.Merge).
const FixedArityUnknown = -1

// UserData holds the per-node slots the core needs to stash onto the
// underlying tree node: a conflict flag, a choice-variant map, a change
// flag, and a stable identifier. RebuildAST reads the choice-variant map when
// it builds a choice pseudo-node; conflict marker lines come from the
// pseudo-node CreateConflict returns, not from the Conflict flag.
type UserData struct {
	Conflict bool
	Choice   map[string]Node
	Changed  bool
	ID       string
}

// Node is the capability set the merge core relies on (§6 of the external
// interface). The concrete tree-library node kind is the type parameter
// carried by artifact.Artifact.
type Node interface {
	// Kind identifies the grammar production this node was parsed from
	// (e.g. "ClassDecl", "MethodDecl", "ImportDecl").
	Kind() string

	// Label is the node's textual identity for kinds with unique labels
	// (import paths, literal text, identifier names). Empty for kinds that
	// are matched structurally instead.
	Label() string

	// Match reports structural equality at this level only, ignoring
	// children. HasUniqueLabels kinds compare by Label; others by Kind.
	Match(other Node) bool

	// IsOrdered reports whether declaration order among this node's
	// children is semantically significant.
	IsOrdered() bool

	// HasUniqueLabels reports whether sibling nodes of this kind can never
	// collide and so must be matched by Label rather than position.
	HasUniqueLabels() bool

	// FixedArity returns the grammar-mandated child count for this node's
	// kind, or FixedArityUnknown if the kind allows a variable number of
	// children.
	FixedArity() int

	// IsLeaf reports whether this node has no mergeable children (either
	// by grammar, or because semistructured mode collapsed it).
	IsLeaf() bool

	// Children enumerates this node's children in declared order.
	Children() []Node

	// SetChildren rewires this node's children, used by rebuildAST to make
	// the underlying tree match the Artifact tree after a merge.
	SetChildren(children []Node)

	// Clone deep-copies this node and its subtree.
	Clone() Node

	// CreateEmpty returns a fresh, childless node of the same kind as this
	// one, used to seed a target-tree node before the merge engine
	// populates its children.
	CreateEmpty() Node

	// CreateConflict builds a conflict pseudo-node of this tree library's
	// own node type, carrying full clones of the two alternatives so the
	// printer can emit marker lines around them.
	CreateConflict(left, right Node, leftName, rightName string) Node

	// CreateChoice builds a choice pseudo-node mapping condition strings to
	// variant subtrees.
	CreateChoice(variants map[string]Node) Node

	// PrettyPrint serializes this subtree back to source text.
	PrettyPrint() string

	// Content returns the opaque text stored on a semistructured leaf.
	Content() string

	// SetContent stores opaque text on a semistructured leaf and forces
	// IsLeaf to report true until the node is reparsed.
	SetContent(content string)

	// Data returns the mutable user-data slots carried on this node.
	Data() *UserData
}
