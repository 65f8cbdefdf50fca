package schema

import (
	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
)

// Parser is a recursive-descent parser for the schema language. It never
// fails: malformed input produces ERROR nodes and zero-width missing nodes,
// the way tree-sitter recovers.
type Parser struct{}

// Parse implements syntax.Parser.
func (Parser) Parse(source []byte) (*syntax.Tree, error) {
	p := &parser{src: source, toks: lex(source)}
	root := p.sourceFile()
	return syntax.NewTree(source, root, nil), nil
}

type parser struct {
	src     []byte
	toks    []token
	pos     int
	lastEnd int
}

// peek returns the next token that is not a comment.
func (p *parser) peek() token {
	for i := p.pos; i < len(p.toks); i++ {
		if p.toks[i].kind != tokenComment {
			return p.toks[i]
		}
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) at(text string) bool {
	tok := p.peek()
	return (tok.kind == tokenKeyword || tok.kind == tokenPunct) && tok.text == text
}

func (p *parser) atEOF() bool { return p.peek().kind == tokenEOF }

// atDeclaration reports whether the next token starts a top-level item, which
// is where error recovery resynchronizes.
func (p *parser) atDeclaration() bool {
	return p.at("type") || p.at("enum") || p.at("fn") || p.at("private")
}

// comments moves pending comments into n.
func (p *parser) comments(n *syntax.Node) {
	for p.pos < len(p.toks) && p.toks[p.pos].kind == tokenComment {
		tok := p.toks[p.pos]
		n.Children = append(n.Children, &syntax.Node{Type: "comment", Named: true, StartByte: tok.start, EndByte: tok.end})
		p.pos++
	}
}

// take consumes the next token as a leaf of n.
func (p *parser) take(n *syntax.Node, field string) *syntax.Node {
	p.comments(n)
	tok := p.toks[p.pos]
	p.pos++
	p.lastEnd = tok.end

	leaf := &syntax.Node{StartByte: tok.start, EndByte: tok.end, Field: field}
	switch tok.kind {
	case tokenIdent:
		leaf.Type, leaf.Named = "identifier", true
	case tokenNumber:
		leaf.Type, leaf.Named = "number", true
	case tokenString:
		leaf.Type, leaf.Named = "string", true
	case tokenKeyword:
		if tok.text == "true" || tok.text == "false" {
			leaf.Type, leaf.Named = "boolean", true
		} else {
			leaf.Type = tok.text
		}
	default:
		leaf.Type = tok.text
	}
	n.Children = append(n.Children, leaf)
	return leaf
}

// missing appends a zero-width placeholder for an absent token.
func (p *parser) missing(n *syntax.Node, nodeType string, named bool, field string) *syntax.Node {
	m := &syntax.Node{
		Type:      nodeType,
		Named:     named,
		Missing:   true,
		Field:     field,
		StartByte: p.lastEnd,
		EndByte:   p.lastEnd,
	}
	n.Children = append(n.Children, m)
	return m
}

func (p *parser) expect(n *syntax.Node, text string) {
	if p.at(text) {
		p.take(n, "")
		return
	}
	p.missing(n, text, false, "")
}

func (p *parser) expectName(n *syntax.Node) {
	if p.peek().kind == tokenIdent {
		p.take(n, "name")
		return
	}
	p.missing(n, "identifier", true, "name")
}

func (p *parser) optional(n *syntax.Node, texts ...string) {
	for _, text := range texts {
		if p.at(text) {
			p.take(n, "")
			return
		}
	}
}

// skip wraps tokens into an ERROR node until stop reports true. At least one
// token is consumed.
func (p *parser) skip(parent *syntax.Node, stop func() bool) {
	errNode := &syntax.Node{Type: "ERROR", Named: true, Error: true}
	p.take(errNode, "")
	for !p.atEOF() && !stop() {
		p.take(errNode, "")
	}
	finish(errNode)
	parent.Children = append(parent.Children, errNode)
}

// finish sets n's byte range from its children.
func finish(n *syntax.Node) *syntax.Node {
	if len(n.Children) == 0 {
		return n
	}
	n.StartByte = n.Children[0].StartByte
	n.EndByte = n.Children[len(n.Children)-1].EndByte
	return n
}

func (p *parser) sourceFile() *syntax.Node {
	root := &syntax.Node{Type: "source_file", Named: true}
	for {
		p.comments(root)
		if p.atEOF() {
			break
		}
		switch {
		case p.atDeclaration():
			root.Children = append(root.Children, p.declaration())
		case p.at("let"):
			root.Children = append(root.Children, p.letStatement())
		default:
			p.skip(root, func() bool { return p.atDeclaration() || p.at("let") })
		}
	}
	root.StartByte, root.EndByte = 0, len(p.src)
	return root
}

func (p *parser) declaration() *syntax.Node {
	n := &syntax.Node{Named: true}
	if p.at("private") {
		p.take(n, "visibility")
	}
	switch {
	case p.at("type"):
		n.Type = "type_declaration"
		p.take(n, "")
		p.expectName(n)
		p.body(n, "{", "}", p.field)
	case p.at("enum"):
		n.Type = "enum_declaration"
		p.take(n, "")
		p.expectName(n)
		p.body(n, "{", "}", p.enumMember)
	case p.at("fn"):
		n.Type = "function_declaration"
		p.take(n, "")
		p.expectName(n)
		p.parameters(n)
		if p.at(":") {
			p.take(n, "")
			p.typeRef(n, "result")
		}
		n.Children = append(n.Children, p.block("body"))
	default:
		// "private" followed by something that is not a declaration.
		n.Type = "ERROR"
		n.Error = true
	}
	return finish(n)
}

// body parses open item* close, where item is parsed by element whenever the
// next token is an identifier.
func (p *parser) body(n *syntax.Node, open, close string, element func() *syntax.Node) {
	p.expect(n, open)
	for {
		p.comments(n)
		switch {
		case p.at(close):
			p.take(n, "")
			return
		case p.atEOF(), p.atDeclaration():
			p.missing(n, close, false, "")
			return
		case p.peek().kind == tokenIdent:
			n.Children = append(n.Children, element())
		default:
			p.skip(n, func() bool {
				return p.at(close) || p.atDeclaration() || p.peek().kind == tokenIdent
			})
		}
	}
}

func (p *parser) field() *syntax.Node {
	n := &syntax.Node{Type: "field", Named: true}
	p.take(n, "name")
	p.expect(n, ":")
	p.typeRef(n, "type")
	p.optional(n, ",", ";")
	return finish(n)
}

func (p *parser) enumMember() *syntax.Node {
	n := &syntax.Node{Type: "enum_member", Named: true}
	p.take(n, "name")
	p.optional(n, ",")
	return finish(n)
}

func (p *parser) typeRef(n *syntax.Node, field string) {
	if p.peek().kind == tokenIdent {
		p.take(n, field).Type = "type_ref"
		return
	}
	p.missing(n, "type_ref", true, field)
}

func (p *parser) parameters(fn *syntax.Node) {
	n := &syntax.Node{Type: "parameter_list", Named: true, Field: "parameters"}
	p.expect(n, "(")
	for p.peek().kind == tokenIdent {
		param := &syntax.Node{Type: "parameter", Named: true}
		p.take(param, "name")
		p.expect(param, ":")
		p.typeRef(param, "type")
		n.Children = append(n.Children, finish(param))
		if !p.at(",") {
			break
		}
		p.take(n, "")
	}
	p.expect(n, ")")
	fn.Children = append(fn.Children, finish(n))
}

func (p *parser) block(field string) *syntax.Node {
	n := &syntax.Node{Type: "block", Named: true, Field: field}
	p.expect(n, "{")
	for {
		p.comments(n)
		switch {
		case p.at("}"):
			p.take(n, "")
			return finish(n)
		case p.atEOF(), p.atDeclaration():
			p.missing(n, "}", false, "")
			return finish(n)
		case p.at("let"):
			n.Children = append(n.Children, p.letStatement())
		case p.at("return"):
			n.Children = append(n.Children, p.returnStatement())
		case p.startsExpression():
			stmt := &syntax.Node{Type: "expression_statement", Named: true}
			stmt.Children = append(stmt.Children, p.expression())
			p.expect(stmt, ";")
			n.Children = append(n.Children, finish(stmt))
		default:
			p.skip(n, func() bool {
				return p.at(";") || p.at("}") || p.at("let") || p.at("return") || p.atDeclaration()
			})
			p.optional(n, ";")
		}
	}
}

func (p *parser) letStatement() *syntax.Node {
	n := &syntax.Node{Type: "let_statement", Named: true}
	p.take(n, "")
	p.expectName(n)
	if p.at(":") {
		p.take(n, "")
		p.typeRef(n, "type")
	}
	p.expect(n, "=")
	p.valueInto(n, "value")
	p.expect(n, ";")
	return finish(n)
}

func (p *parser) returnStatement() *syntax.Node {
	n := &syntax.Node{Type: "return_statement", Named: true}
	p.take(n, "")
	if p.startsExpression() {
		p.valueInto(n, "value")
	}
	p.expect(n, ";")
	return finish(n)
}

func (p *parser) valueInto(n *syntax.Node, field string) {
	if !p.startsExpression() {
		p.missing(n, "expression", true, field)
		return
	}
	e := p.expression()
	e.Field = field
	n.Children = append(n.Children, e)
}

func (p *parser) startsExpression() bool {
	tok := p.peek()
	switch tok.kind {
	case tokenIdent, tokenNumber, tokenString:
		return true
	case tokenKeyword:
		return tok.text == "true" || tok.text == "false"
	case tokenPunct:
		return tok.text == "("
	}
	return false
}

func (p *parser) expression() *syntax.Node {
	left := p.unary()
	for p.at("+") || p.at("-") || p.at("*") || p.at("/") {
		bin := &syntax.Node{Type: "binary_expression", Named: true}
		left.Field = "left"
		bin.Children = append(bin.Children, left)
		p.take(bin, "operator")
		if p.startsExpression() {
			right := p.unary()
			right.Field = "right"
			bin.Children = append(bin.Children, right)
		} else {
			p.missing(bin, "expression", true, "right")
		}
		left = finish(bin)
	}
	return left
}

func (p *parser) unary() *syntax.Node {
	// Comments in front of an operand are dropped along with holder.
	holder := &syntax.Node{}
	var operand *syntax.Node
	switch tok := p.peek(); {
	case tok.kind == tokenIdent:
		operand = p.take(holder, "")
		operand.Type = "name_ref"
	case p.at("("):
		operand = &syntax.Node{Type: "parenthesized_expression", Named: true}
		p.take(operand, "")
		p.valueInto(operand, "")
		p.expect(operand, ")")
		finish(operand)
	default:
		operand = p.take(holder, "")
	}

	if !p.at("(") {
		return operand
	}
	call := &syntax.Node{Type: "call_expression", Named: true}
	operand.Field = "function"
	call.Children = append(call.Children, operand)
	args := &syntax.Node{Type: "argument_list", Named: true, Field: "arguments"}
	p.take(args, "")
	for p.startsExpression() {
		args.Children = append(args.Children, p.expression())
		if !p.at(",") {
			break
		}
		p.take(args, "")
	}
	p.expect(args, ")")
	call.Children = append(call.Children, finish(args))
	return finish(call)
}
