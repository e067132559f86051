package javalang

import "github.com/antgroup/structmerge/modules/lang"

// Opacify walks root and, for every method/constructor node, pretty-prints
// its current subtree, stores the result as the node's opaque content, and
// strips its children so IsLeaf reports true — the semistructured-mode
// initialization step (spec §4.4). It recurses into every other node kind
// looking for nested method declarations (local/anonymous classes), leaving
// everything outside a method body fully structured.
func Opacify(root lang.Node) {
	n, ok := root.(*Node)
	if !ok {
		return
	}
	if n.kind == KindMethod {
		n.content = PrettyPrint(n)
		n.children = nil
		n.leaf = true
		return
	}
	for _, c := range n.children {
		Opacify(c)
	}
}
