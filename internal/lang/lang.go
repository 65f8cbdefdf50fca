// Package lang lists the languages compiled into the server.
package lang

import (
	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/lang/golang"
	"github.com/CWBudde/go-sitter-lsp/internal/lang/schema"
	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
	"github.com/CWBudde/go-sitter-lsp/internal/syntax/treesitter"
)

// Definition ties a rule table to the parser that produces its trees.
type Definition struct {
	ID string
	// Patterns are URI globs used when the client's languageId is unknown.
	Patterns []string
	Rules    func() *analysis.Language
	// Load creates the parser. It may fail, for example when a grammar is
	// missing; callers remember the failure.
	Load func() (syntax.Parser, error)
}

// Builtin returns the built-in language definitions.
func Builtin() []*Definition {
	return []*Definition{
		{
			ID:       schema.ID,
			Patterns: []string{"**/*.schema"},
			Rules:    schema.Language,
			Load: func() (syntax.Parser, error) {
				return schema.Parser{}, nil
			},
		},
		{
			ID:       golang.ID,
			Patterns: []string{"**/*.go"},
			Rules:    golang.Language,
			Load: func() (syntax.Parser, error) {
				return treesitter.Load(golang.ID)
			},
		},
	}
}
