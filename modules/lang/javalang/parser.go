package javalang

import (
	"fmt"
	"strings"

	"github.com/antgroup/structmerge/modules/lang"
)

// Parser is a small recursive-descent parser for the Java-like subset this
// package models: an optional package declaration, a run of imports, and
// one or more top-level class bodies of fields and methods. Method bodies are
// parsed into ordered statement lists; statements themselves are kept as
// opaque text leaves (matched by exact text), which is sufficient for the
// structural merge core without building a full expression grammar.
type Parser struct {
	toks []token
	pos  int
}

// Parse builds a CompilationUnit node from Java-like source text.
func Parse(src string) (lang.Node, error) {
	p := &Parser{toks: tokenize(src)}
	return p.parseCompilationUnit()
}

func (p *Parser) peek() token  { return p.toks[p.pos] }
func (p *Parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) atKeyword(kw string) bool {
	t := p.peek()
	return t.kind == tokKeyword && t.text == kw
}

func (p *Parser) atPunct(s string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == s
}

func (p *Parser) expectPunct(s string) error {
	if !p.atPunct(s) {
		return fmt.Errorf("javalang: expected %q, got %q at token %d", s, p.peek().text, p.pos)
	}
	p.advance()
	return nil
}

func (p *Parser) parseQualifiedName() string {
	var sb strings.Builder
	for {
		t := p.peek()
		if t.kind != tokIdent && t.kind != tokKeyword {
			break
		}
		sb.WriteString(t.text)
		p.advance()
		if p.atPunct(".") {
			sb.WriteString(".")
			p.advance()
			continue
		}
		break
	}
	return sb.String()
}

func (p *Parser) parseCompilationUnit() (lang.Node, error) {
	cu := newNode(KindCompilationUnit, "", false, false, lang.FixedArityUnknown)
	var children []lang.Node

	if p.atKeyword("package") {
		p.advance()
		name := p.parseQualifiedName()
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		pkg := newNode(KindPackage, name, false, true, lang.FixedArityUnknown)
		children = append(children, pkg)
	}

	for p.atKeyword("import") {
		p.advance()
		if p.atKeyword("static") {
			p.advance()
		}
		name := p.parseQualifiedName()
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		imp := newNode(KindImport, name, false, true, lang.FixedArityUnknown)
		children = append(children, imp)
	}

	for p.peek().kind != tokEOF {
		cls, err := p.parseClass()
		if err != nil {
			return nil, err
		}
		children = append(children, cls)
	}

	cu.SetChildren(children)
	return cu, nil
}

func (p *Parser) skipModifiers() {
	for {
		t := p.peek()
		if t.kind == tokKeyword && (t.text == "public" || t.text == "private" || t.text == "protected" || t.text == "static" || t.text == "final") {
			p.advance()
			continue
		}
		break
	}
}

func (p *Parser) parseClass() (lang.Node, error) {
	p.skipModifiers()
	if !p.atKeyword("class") && !p.atKeyword("interface") {
		return nil, fmt.Errorf("javalang: expected class declaration, got %q", p.peek().text)
	}
	p.advance()
	name := p.advance().text
	var extra strings.Builder
	for !p.atPunct("{") && p.peek().kind != tokEOF {
		extra.WriteString(p.advance().text)
		extra.WriteString(" ")
	}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	cls := newNode(KindClass, name, false, true, lang.FixedArityUnknown)
	var members []lang.Node
	for !p.atPunct("}") {
		if p.peek().kind == tokEOF {
			return nil, fmt.Errorf("javalang: unexpected EOF in class %s body", name)
		}
		m, err := p.parseMember()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	p.advance()
	cls.SetChildren(members)
	return cls, nil
}

// parseMember parses one field or method declaration by scanning tokens
// until it can decide: a '(' before the terminating ';' or '{' means method.
func (p *Parser) parseMember() (lang.Node, error) {
	p.skipModifiers()
	typeName := p.parseQualifiedName()
	for p.atPunct("[") {
		p.advance()
		if p.atPunct("]") {
			p.advance()
		}
		typeName += "[]"
	}
	name := p.advance().text

	if p.atPunct("(") {
		return p.parseMethodTail(typeName, name)
	}
	return p.parseFieldTail(typeName, name)
}

func (p *Parser) parseFieldTail(typeName, name string) (lang.Node, error) {
	var init strings.Builder
	if t := p.peek(); t.kind == tokOp && t.text == "=" {
		p.advance()
		for !p.atPunct(";") && p.peek().kind != tokEOF {
			init.WriteString(p.advance().text)
			init.WriteString(" ")
		}
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	label := typeName + " " + name
	field := newNode(KindField, label, false, true, lang.FixedArityUnknown)
	if init.Len() > 0 {
		expr, err := parseExprText(strings.TrimSpace(init.String()))
		if err != nil {
			return nil, err
		}
		field.SetChildren([]lang.Node{expr})
	}
	return field, nil
}

func (p *Parser) parseMethodTail(typeName, name string) (lang.Node, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var paramTypes []string
	var params []lang.Node
	for !p.atPunct(")") {
		ptype := p.parseQualifiedName()
		pname := ""
		if p.peek().kind == tokIdent {
			pname = p.advance().text
		}
		paramTypes = append(paramTypes, ptype)
		params = append(params, newNode(KindPrimary, ptype+" "+pname, false, true, lang.FixedArityUnknown))
		if p.atPunct(",") {
			p.advance()
		}
	}
	p.advance() // ')'
	paramsNode := newNode(KindParams, "", true, false, lang.FixedArityUnknown)
	paramsNode.SetChildren(params)

	label := fmt.Sprintf("%s %s(%s)", typeName, name, strings.Join(paramTypes, ","))
	method := newNode(KindMethod, label, false, true, lang.FixedArityUnknown)

	if p.atPunct(";") {
		// abstract/interface method, no body
		p.advance()
		method.SetChildren([]lang.Node{paramsNode})
		return method, nil
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	method.SetChildren([]lang.Node{paramsNode, block})
	return method, nil
}

// parseBlock consumes a balanced '{' ... '}' and splits its contents into
// top-level statements (by ';' or nested balanced blocks), preserving order.
func (p *Parser) parseBlock() (lang.Node, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	block := newNode(KindBlock, "", true, false, lang.FixedArityUnknown)
	var stmts []lang.Node
	for !p.atPunct("}") {
		if p.peek().kind == tokEOF {
			return nil, fmt.Errorf("javalang: unexpected EOF in block")
		}
		if p.atPunct("{") {
			nested, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, nested)
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.advance()
	block.SetChildren(stmts)
	return block, nil
}

// parseStatement scans tokens up to the terminating top-level ';', or up to
// (and including) a trailing '{ ... }' for control-flow headers like
// "if (cond) { ... }", and stores the raw rendered text as the Stmt's label.
func (p *Parser) parseStatement() (lang.Node, error) {
	var sb strings.Builder
	depth := 0
	for {
		t := p.peek()
		if t.kind == tokEOF {
			return nil, fmt.Errorf("javalang: unexpected EOF in statement")
		}
		if t.kind == tokPunct && t.text == "(" {
			depth++
		}
		if t.kind == tokPunct && t.text == ")" {
			depth--
		}
		if depth == 0 && t.kind == tokPunct && t.text == ";" {
			p.advance()
			break
		}
		if depth == 0 && t.kind == tokPunct && t.text == "{" {
			nested, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			header := strings.TrimSpace(sb.String())
			stmt := newNode(KindStmt, header, false, true, lang.FixedArityUnknown)
			stmt.SetChildren([]lang.Node{nested})
			return stmt, nil
		}
		sb.WriteString(t.text)
		if needsSpace(t) {
			sb.WriteString(" ")
		}
		p.advance()
	}
	text := strings.TrimSpace(sb.String()) + ";"
	return newNode(KindStmt, text, false, true, lang.FixedArityUnknown), nil
}

func needsSpace(t token) bool {
	switch t.text {
	case "(", ".", "[", "]":
		return false
	default:
		return true
	}
}
