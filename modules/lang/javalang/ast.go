package javalang

import (
	"fmt"
	"sync/atomic"

	"github.com/antgroup/structmerge/modules/lang"
)

// Node kinds. Field/Method/Import/Class/Package carry a unique label so the
// matcher can align them across revisions without relying on position;
// Block/Params hold ordered children; Conflict/Choice are merge pseudo-nodes.
const (
	KindCompilationUnit = "CompilationUnit"
	KindPackage         = "PackageDecl"
	KindImport          = "ImportDecl"
	KindClass           = "ClassDecl"
	KindField           = "FieldDecl"
	KindMethod          = "MethodDecl"
	KindParams          = "Params"
	KindBlock           = "Block"
	KindStmt            = "Stmt"
	KindBinary          = "BinaryExpr"
	KindTernary         = "TernaryExpr"
	KindUnary           = "UnaryExpr"
	KindPrimary         = "PrimaryExpr"
	KindConflict        = "Conflict"
	KindChoice          = "Choice"
)

var idCounter int64

func nextID() string {
	return fmt.Sprintf("n%d", atomic.AddInt64(&idCounter, 1))
}

// Node is the concrete javalang implementation of lang.Node. One struct
// serves every kind; behavior is driven by the small set of flags set at
// construction time rather than per-kind types, keeping Clone/SetChildren
// generic.
type Node struct {
	kind         string
	label        string
	ordered      bool
	uniqueLabels bool
	fixedArity   int
	leaf         bool
	content      string
	children     []lang.Node
	data         lang.UserData

	// Left/Right/Base back the Conflict/Choice pseudo-kinds; they are not
	// part of Children() so the printer must special-case them.
	Left, Right, Base lang.Node
	LeftName           string
	RightName          string
	Variants           map[string]lang.Node
}

func newNode(kind, label string, ordered, uniqueLabels bool, fixedArity int) *Node {
	return &Node{
		kind:         kind,
		label:        label,
		ordered:      ordered,
		uniqueLabels: uniqueLabels,
		fixedArity:   fixedArity,
		data:         lang.UserData{ID: nextID()},
	}
}

func (n *Node) Kind() string  { return n.kind }
func (n *Node) Label() string { return n.label }

func (n *Node) Match(other lang.Node) bool {
	o, ok := other.(*Node)
	if !ok {
		return false
	}
	if n.kind != o.kind {
		return false
	}
	if n.uniqueLabels || o.uniqueLabels {
		return n.label == o.label
	}
	return true
}

func (n *Node) IsOrdered() bool       { return n.ordered }
func (n *Node) HasUniqueLabels() bool { return n.uniqueLabels }
func (n *Node) FixedArity() int       { return n.fixedArity }
func (n *Node) IsLeaf() bool          { return n.leaf || len(n.children) == 0 }

func (n *Node) Children() []lang.Node { return n.children }

func (n *Node) SetChildren(children []lang.Node) {
	n.children = children
	if len(children) > 0 {
		n.leaf = false
	}
}

func (n *Node) Content() string { return n.content }

func (n *Node) SetContent(content string) {
	n.content = content
	n.children = nil
	n.leaf = true
}

func (n *Node) Data() *lang.UserData { return &n.data }

func (n *Node) PrettyPrint() string {
	if n.leaf && len(n.children) == 0 && n.content != "" {
		return n.content
	}
	return PrettyPrint(n)
}

func (n *Node) Clone() lang.Node {
	clone := &Node{
		kind:         n.kind,
		label:        n.label,
		ordered:      n.ordered,
		uniqueLabels: n.uniqueLabels,
		fixedArity:   n.fixedArity,
		leaf:         n.leaf,
		content:      n.content,
		data:         lang.UserData{ID: nextID()},
		LeftName:     n.LeftName,
		RightName:    n.RightName,
	}
	for _, c := range n.children {
		clone.children = append(clone.children, c.Clone())
	}
	if n.Left != nil {
		clone.Left = n.Left.Clone()
	}
	if n.Right != nil {
		clone.Right = n.Right.Clone()
	}
	if n.Base != nil {
		clone.Base = n.Base.Clone()
	}
	if n.Variants != nil {
		clone.Variants = make(map[string]lang.Node, len(n.Variants))
		for k, v := range n.Variants {
			clone.Variants[k] = v.Clone()
		}
	}
	return clone
}

// CreateEmpty returns a childless node of the same kind, used by the merge
// engine to seed a target-tree node before populating its children.
func (n *Node) CreateEmpty() lang.Node {
	return newNode(n.kind, n.label, n.ordered, n.uniqueLabels, n.fixedArity)
}

// CreateConflict builds a Conflict pseudo-node carrying full clones of the
// two alternatives, per the operations applier (merge §4.5).
func (n *Node) CreateConflict(left, right lang.Node, leftName, rightName string) lang.Node {
	return NewConflict(left, right, leftName, rightName)
}

// CreateChoice builds a Choice pseudo-node mapping condition strings to
// variant subtrees.
func (n *Node) CreateChoice(variants map[string]lang.Node) lang.Node {
	return NewChoice(variants)
}

// NewConflict builds a Conflict pseudo-node carrying full clones of the two
// alternatives, per the operations applier (merge §4.5).
func NewConflict(left, right lang.Node, leftName, rightName string) *Node {
	n := newNode(KindConflict, "", true, false, FixedArityUnknownFromLang)
	if left != nil {
		left = left.Clone()
	}
	if right != nil {
		right = right.Clone()
	}
	n.Left = left
	n.Right = right
	n.LeftName = leftName
	n.RightName = rightName
	return n
}

// NewChoice builds a Choice pseudo-node mapping a condition string to a
// variant subtree.
func NewChoice(variants map[string]lang.Node) *Node {
	n := newNode(KindChoice, "", true, false, FixedArityUnknownFromLang)
	n.Variants = variants
	return n
}

// FixedArityUnknownFromLang mirrors lang.FixedArityUnknown; kept as a local
// alias so this file doesn't need a second import line for one constant.
const FixedArityUnknownFromLang = lang.FixedArityUnknown
