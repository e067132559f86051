package javalang

import (
	"fmt"
	"sort"
	"strings"

	"github.com/antgroup/structmerge/modules/lang"
)

// Conflict marker lines, matching the seven-character format used by the
// line-based strategy (textdiff.Sep1/Sep2/Sep3/SepO) so structured and
// line-based output are visually consistent.
const (
	sep1 = "<<<<<<<"
	sepO = "|||||||"
	sep2 = "======="
	sep3 = ">>>>>>>"
)

// PrettyPrint serializes the subtree back to Java-like source text.
func PrettyPrint(n lang.Node) string {
	var sb strings.Builder
	printNode(&sb, n, 0)
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("    ", depth))
}

func printNode(sb *strings.Builder, n lang.Node, depth int) {
	jn, ok := n.(*Node)
	if !ok {
		sb.WriteString(n.PrettyPrint())
		return
	}
	switch jn.kind {
	case KindCompilationUnit:
		for _, c := range sortedTopLevel(jn.children) {
			printNode(sb, c, depth)
		}
	case KindPackage:
		fmt.Fprintf(sb, "package %s;\n\n", jn.label)
	case KindImport:
		fmt.Fprintf(sb, "import %s;\n", jn.label)
	case KindClass:
		indent(sb, depth)
		fmt.Fprintf(sb, "class %s {\n", jn.label)
		for i, c := range jn.children {
			if i > 0 {
				sb.WriteString("\n")
			}
			printNode(sb, c, depth+1)
		}
		indent(sb, depth)
		sb.WriteString("}\n")
	case KindField:
		indent(sb, depth)
		sb.WriteString(jn.label)
		if len(jn.children) > 0 {
			sb.WriteString(" = ")
			printNode(sb, jn.children[0], 0)
		}
		sb.WriteString(";\n")
	case KindMethod:
		indent(sb, depth)
		params := ""
		var body lang.Node
		for _, c := range jn.children {
			if cn, ok := c.(*Node); ok && cn.kind == KindParams {
				params = printParams(cn)
			}
			if cn, ok := c.(*Node); ok && cn.kind == KindBlock {
				body = c
			}
		}
		// The label carries the parameter types for matching; the printed
		// parameter list comes from the Params child.
		sig := jn.label
		if i := strings.IndexByte(sig, '('); i >= 0 {
			sig = sig[:i]
		}
		fmt.Fprintf(sb, "%s(%s)", sig, params)
		if body == nil {
			sb.WriteString(";\n")
			return
		}
		sb.WriteString(" ")
		printNode(sb, body, depth)
	case KindParams:
		// handled inline by KindMethod via printParams
	case KindBlock:
		sb.WriteString("{\n")
		for _, c := range jn.children {
			printNode(sb, c, depth+1)
		}
		indent(sb, depth)
		sb.WriteString("}\n")
	case KindStmt:
		indent(sb, depth)
		sb.WriteString(jn.label)
		if len(jn.children) > 0 {
			sb.WriteString(" ")
			printNode(sb, jn.children[0], depth)
		} else {
			sb.WriteString("\n")
		}
	case KindBinary:
		sb.WriteString("(")
		printNode(sb, jn.children[0], 0)
		fmt.Fprintf(sb, " %s ", jn.label)
		printNode(sb, jn.children[1], 0)
		sb.WriteString(")")
	case KindUnary:
		sb.WriteString(jn.label)
		printNode(sb, jn.children[0], 0)
	case KindTernary:
		printNode(sb, jn.children[0], 0)
		sb.WriteString(" ? ")
		printNode(sb, jn.children[1], 0)
		sb.WriteString(" : ")
		printNode(sb, jn.children[2], 0)
	case KindPrimary:
		sb.WriteString(jn.label)
	case KindConflict:
		printConflict(sb, jn, depth)
	case KindChoice:
		printChoice(sb, jn, depth)
	default:
		sb.WriteString(jn.content)
	}
}

func printParams(paramsNode *Node) string {
	parts := make([]string, 0, len(paramsNode.children))
	for _, p := range paramsNode.children {
		parts = append(parts, p.Label())
	}
	return strings.Join(parts, ", ")
}

// sortedTopLevel keeps package/class nodes in place but sorts ImportDecl
// children lexically, per the unordered-import-set invariant.
func sortedTopLevel(children []lang.Node) []lang.Node {
	out := make([]lang.Node, len(children))
	copy(out, children)
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := out[i], out[j]
		ri := rankTopLevel(ni)
		rj := rankTopLevel(nj)
		if ri != rj {
			return ri < rj
		}
		if ri == 1 { // imports: sort by path
			return ni.Label() < nj.Label()
		}
		return false
	})
	return out
}

func rankTopLevel(n lang.Node) int {
	jn, ok := n.(*Node)
	if !ok {
		return 2
	}
	switch jn.kind {
	case KindPackage:
		return 0
	case KindImport:
		return 1
	default:
		return 2
	}
}

func printConflict(sb *strings.Builder, jn *Node, depth int) {
	fmt.Fprintf(sb, "%s %s\n", sep1, jn.LeftName)
	if jn.Left != nil {
		printNode(sb, jn.Left, depth)
	}
	if jn.Base != nil {
		fmt.Fprintf(sb, "%s\n", sepO)
		printNode(sb, jn.Base, depth)
	}
	fmt.Fprintf(sb, "%s\n", sep2)
	if jn.Right != nil {
		printNode(sb, jn.Right, depth)
	}
	fmt.Fprintf(sb, "%s %s\n", sep3, jn.RightName)
}

func printChoice(sb *strings.Builder, jn *Node, depth int) {
	conds := make([]string, 0, len(jn.Variants))
	for cond := range jn.Variants {
		conds = append(conds, cond)
	}
	sort.Strings(conds)
	for _, cond := range conds {
		fmt.Fprintf(sb, "#if %s\n", cond)
		printNode(sb, jn.Variants[cond], depth)
		fmt.Fprintf(sb, "#endif\n")
	}
}
