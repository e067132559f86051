package javalang

import (
	"strings"

	"github.com/antgroup/structmerge/modules/lang"
)

// parseExprText builds an expression tree from a single initializer
// expression: it tries a top-level ternary (?:), then a binary operator, then
// a '!' or '-' prefix, recursing into the operands, and otherwise falls back
// to a Primary leaf holding the raw text.
// It does not implement full operator precedence; it exists to let the
// fixed-arity safety trap (spec §4.3) be exercised when both sides edit the
// same expression into forms with different child counts.
func parseExprText(text string) (lang.Node, error) {
	text = strings.TrimSpace(text)
	if q, c, ok := splitTernary(text); ok {
		cond, err := parseExprText(q)
		if err != nil {
			return nil, err
		}
		then, err := parseExprText(c[0])
		if err != nil {
			return nil, err
		}
		els, err := parseExprText(c[1])
		if err != nil {
			return nil, err
		}
		n := newNode(KindTernary, "?:", true, true, 3)
		n.SetChildren([]lang.Node{cond, then, els})
		return n, nil
	}
	if op, lhs, rhs, ok := splitBinary(text); ok {
		l, err := parseExprText(lhs)
		if err != nil {
			return nil, err
		}
		r, err := parseExprText(rhs)
		if err != nil {
			return nil, err
		}
		n := newNode(KindBinary, op, true, true, 2)
		n.SetChildren([]lang.Node{l, r})
		return n, nil
	}
	if strings.HasPrefix(text, "!") || strings.HasPrefix(text, "-") {
		op := text[:1]
		operand, err := parseExprText(text[1:])
		if err != nil {
			return nil, err
		}
		n := newNode(KindUnary, op, true, true, 1)
		n.SetChildren([]lang.Node{operand})
		return n, nil
	}
	return newNode(KindPrimary, text, false, true, lang.FixedArityUnknown), nil
}

func splitTernary(text string) (cond string, branches [2]string, ok bool) {
	depth := 0
	qIdx := -1
	for i, c := range text {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case '?':
			if depth == 0 && qIdx == -1 {
				qIdx = i
			}
		}
	}
	if qIdx == -1 {
		return "", branches, false
	}
	depth = 0
	colonIdx := -1
	for i := qIdx + 1; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ':':
			if depth == 0 && colonIdx == -1 {
				colonIdx = i
			}
		}
	}
	if colonIdx == -1 {
		return "", branches, false
	}
	branches[0] = strings.TrimSpace(text[qIdx+1 : colonIdx])
	branches[1] = strings.TrimSpace(text[colonIdx+1:])
	return strings.TrimSpace(text[:qIdx]), branches, true
}

var binaryOps = []string{"==", "!=", "<=", ">=", "&&", "||", "+", "-", "*", "/", "<", ">"}

func splitBinary(text string) (op, lhs, rhs string, ok bool) {
	for _, candidate := range binaryOps {
		depth := 0
		for i := len(text) - len(candidate); i >= 1; i-- {
			c := text[i]
			switch c {
			case ')':
				depth++
			case '(':
				depth--
			}
			if depth != 0 {
				continue
			}
			if text[i:i+len(candidate)] == candidate {
				left := strings.TrimSpace(text[:i])
				right := strings.TrimSpace(text[i+len(candidate):])
				if left == "" || right == "" {
					continue
				}
				return candidate, left, right, true
			}
		}
	}
	return "", "", "", false
}
