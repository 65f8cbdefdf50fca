// Package treesitter adapts github.com/tree-sitter/go-tree-sitter to the
// syntax.Parser interface.
package treesitter

import (
	"errors"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
)

// ErrParseFailed is returned when tree-sitter produces no tree, which only
// happens when the parser has no language or parsing was cancelled.
var ErrParseFailed = errors.New("tree-sitter parse failed")

// Parser parses source with one tree-sitter grammar.
//
// A Parser is not safe for concurrent use; the server parses from the request
// loop only.
type Parser struct {
	lang   *sitter.Language
	parser *sitter.Parser
}

// NewParser returns a parser for lang.
func NewParser(lang *sitter.Language) (*Parser, error) {
	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, err
	}
	return &Parser{lang: lang, parser: p}, nil
}

// Parse implements syntax.Parser. The native tree stays alive until the
// returned tree is closed.
func (p *Parser) Parse(source []byte) (*syntax.Tree, error) {
	if p.parser == nil {
		return nil, ErrParseFailed
	}
	raw := p.parser.Parse(source, nil)
	if raw == nil {
		return nil, ErrParseFailed
	}

	cursor := raw.Walk()
	defer cursor.Close()

	root := convert(cursor)
	return syntax.NewTree(source, root, raw.Close), nil
}

// Close frees the native parser. Calling it again is a no-op.
func (p *Parser) Close() {
	if p.parser == nil {
		return
	}
	p.parser.Close()
	p.parser = nil
}

// convert copies the node under the cursor and its subtree. The cursor is
// left on the same node it started on.
func convert(cursor *sitter.TreeCursor) *syntax.Node {
	raw := cursor.Node()
	n := &syntax.Node{
		Type:      raw.Kind(),
		StartByte: int(raw.StartByte()),
		EndByte:   int(raw.EndByte()),
		Named:     raw.IsNamed(),
		Error:     raw.IsError(),
		Missing:   raw.IsMissing(),
		Field:     cursor.FieldName(),
	}

	if cursor.GotoFirstChild() {
		for {
			n.Children = append(n.Children, convert(cursor))
			if !cursor.GotoNextSibling() {
				break
			}
		}
		cursor.GotoParent()
	}
	return n
}
