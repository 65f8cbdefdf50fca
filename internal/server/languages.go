package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gobwas/glob"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/config"
	"github.com/CWBudde/go-sitter-lsp/internal/lang"
	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
	"github.com/CWBudde/go-sitter-lsp/internal/workspace"
)

// ErrUnknownLanguage is returned when no configured language matches a
// document.
var ErrUnknownLanguage = errors.New("unknown language")

// GrammarLoadError reports that a language's parser could not be created.
// It is remembered, so the load is never retried.
type GrammarLoadError struct {
	Language string
	Err      error
}

func (e *GrammarLoadError) Error() string {
	return fmt.Sprintf("grammar for %s not loaded: %v", e.Language, e.Err)
}

func (e *GrammarLoadError) Unwrap() error { return e.Err }

// Language is one enabled language: its rules, file patterns and lazily
// loaded parser.
type Language struct {
	definition *lang.Definition
	rules      *analysis.Language
	patterns   []glob.Glob

	once   sync.Once
	parser syntax.Parser
	err    error
}

// ID returns the language id.
func (l *Language) ID() string { return l.definition.ID }

// Rules returns the language's rule table.
func (l *Language) Rules() *analysis.Language { return l.rules }

// Parser loads the parser on first use. A failure is returned as a
// *GrammarLoadError, every time.
func (l *Language) Parser() (syntax.Parser, error) {
	l.once.Do(func() {
		parser, err := l.definition.Load()
		if err != nil {
			log.Errorf("loading grammar %s: %v", l.definition.ID, err)
			l.err = &GrammarLoadError{Language: l.definition.ID, Err: err}
			return
		}
		l.parser = parser
	})
	return l.parser, l.err
}

func (l *Language) matches(path string) bool {
	for _, g := range l.patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Languages is the registry of enabled languages.
type Languages struct {
	ordered []*Language
	byID    map[string]*Language
}

// NewLanguages builds the registry from defs, applying the configured
// overrides. An override naming an unknown language is an error.
func NewLanguages(defs []*lang.Definition, overrides []config.LanguageConfig) (*Languages, error) {
	known := make(map[string]bool, len(defs))
	for _, def := range defs {
		known[def.ID] = true
	}
	byOverride := make(map[string]config.LanguageConfig, len(overrides))
	for _, o := range overrides {
		if !known[o.ID] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, o.ID)
		}
		byOverride[o.ID] = o
	}

	ls := &Languages{byID: make(map[string]*Language)}
	for _, def := range defs {
		patterns := def.Patterns
		if o, ok := byOverride[def.ID]; ok {
			if !o.IsEnabled() {
				log.Infof("language %s disabled", def.ID)
				continue
			}
			if len(o.Patterns) > 0 {
				patterns = o.Patterns
			}
		}

		l := &Language{definition: def, rules: def.Rules()}
		for _, p := range patterns {
			g, err := glob.Compile(p, '/')
			if err != nil {
				return nil, fmt.Errorf("language %s: pattern %q: %w", def.ID, p, err)
			}
			l.patterns = append(l.patterns, g)
		}
		ls.ordered = append(ls.ordered, l)
		ls.byID[def.ID] = l
	}
	return ls, nil
}

// Resolve picks the language of a document: by languageID when it names an
// enabled language, else by the first language whose pattern matches uri.
func (ls *Languages) Resolve(languageID, uri string) (*Language, error) {
	if l, ok := ls.byID[languageID]; ok {
		return l, nil
	}
	path := workspace.URIToPath(uri)
	for _, l := range ls.ordered {
		if l.matches(path) {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (%s)", ErrUnknownLanguage, languageID, uri)
}

// Accepts reports whether some language's pattern matches uri.
func (ls *Languages) Accepts(uri string) bool {
	_, err := ls.Resolve("", uri)
	return err == nil
}

// IDs lists the enabled language ids.
func (ls *Languages) IDs() []string {
	ids := make([]string, len(ls.ordered))
	for i, l := range ls.ordered {
		ids[i] = l.ID()
	}
	return ids
}

// Close releases every loaded parser that holds native resources.
func (ls *Languages) Close() {
	for _, l := range ls.ordered {
		if c, ok := l.parser.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
