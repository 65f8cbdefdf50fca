package treesitter

import (
	"errors"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
)

// ErrUnknownGrammar is returned by Load for a grammar name that is not
// compiled into the binary.
var ErrUnknownGrammar = errors.New("unknown grammar")

var grammars = map[string]func() *sitter.Language{
	"go": func() *sitter.Language { return sitter.NewLanguage(tree_sitter_go.Language()) },
}

// Load returns a parser for the named grammar.
func Load(name string) (*Parser, error) {
	newLang, ok := grammars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGrammar, name)
	}
	p, err := NewParser(newLang())
	if err != nil {
		return nil, fmt.Errorf("load grammar %s: %w", name, err)
	}
	return p, nil
}

// Grammars lists the grammar names Load accepts.
func Grammars() []string {
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	return names
}
