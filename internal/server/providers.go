package server

import (
	"errors"
	"fmt"
	"runtime/debug"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/features"
	"github.com/CWBudde/go-sitter-lsp/internal/metrics"
)

// MaxWorkspaceSymbols caps a workspace/symbol response.
const MaxWorkspaceSymbols = 500

// ErrProviderFailed is returned by providers that report errors when the
// provider panicked.
var ErrProviderFailed = errors.New("provider failed")

// guard counts the call and turns a panic in fn into the zero result.
func guard[T any](method string, fn func() T) (result T) {
	metrics.RequestsTotal.WithLabelValues(method).Inc()
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("%s panicked: %v\n%s", method, r, debug.Stack())
			metrics.ProviderPanics.WithLabelValues(method).Inc()
			var zero T
			result = zero
		}
	}()
	return fn()
}

// guardErr is guard for providers that return an error.
func guardErr[T any](method string, fn func() (T, error)) (result T, err error) {
	metrics.RequestsTotal.WithLabelValues(method).Inc()
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("%s panicked: %v\n%s", method, r, debug.Stack())
			metrics.ProviderPanics.WithLabelValues(method).Inc()
			var zero T
			result, err = zero, fmt.Errorf("%s: %w", method, ErrProviderFailed)
		}
	}()
	return fn()
}

// Hover returns hover content for the symbol at pos.
func (s *Server) Hover(uri string, pos protocol.Position) *protocol.Hover {
	return guard("hover", func() *protocol.Hover {
		return features.Hover(s.workspace, uri, pos)
	})
}

// Definition returns the declaration of the reference at pos.
func (s *Server) Definition(uri string, pos protocol.Position) *protocol.Location {
	return guard("definition", func() *protocol.Location {
		return features.Definition(s.workspace, uri, pos)
	})
}

// References returns every use of the symbol at pos.
func (s *Server) References(uri string, pos protocol.Position, includeDeclaration bool) []protocol.Location {
	return guard("references", func() []protocol.Location {
		return features.References(s.workspace, uri, pos, includeDeclaration)
	})
}

// Completion returns the proposals at pos.
func (s *Server) Completion(uri string, pos protocol.Position) []protocol.CompletionItem {
	return guard("completion", func() []protocol.CompletionItem {
		return features.Completion(s.workspace, uri, pos)
	})
}

// PrepareRename returns the range and current name of the symbol at pos.
func (s *Server) PrepareRename(uri string, pos protocol.Position) (*protocol.Range, string, error) {
	type prepared struct {
		rng  *protocol.Range
		name string
	}
	p, err := guardErr("prepareRename", func() (prepared, error) {
		rng, name, err := features.PrepareRename(s.workspace, uri, pos)
		return prepared{rng, name}, err
	})
	return p.rng, p.name, err
}

// Rename returns the edits renaming the symbol at pos, grouped by URI.
func (s *Server) Rename(uri string, pos protocol.Position, newName string) (map[protocol.DocumentUri][]protocol.TextEdit, error) {
	return guardErr("rename", func() (map[protocol.DocumentUri][]protocol.TextEdit, error) {
		return features.Rename(s.workspace, uri, pos, newName)
	})
}

// DocumentSymbols returns the flat symbol list of uri.
func (s *Server) DocumentSymbols(uri string) []protocol.DocumentSymbol {
	return guard("documentSymbol", func() []protocol.DocumentSymbol {
		return features.DocumentSymbols(s.workspace, uri)
	})
}

// WorkspaceSymbols searches the public declarations of the workspace.
func (s *Server) WorkspaceSymbols(query string) []protocol.SymbolInformation {
	return guard("workspaceSymbol", func() []protocol.SymbolInformation {
		return features.WorkspaceSymbols(s.workspace, query, MaxWorkspaceSymbols)
	})
}

// SemanticTokensFull returns every token of uri under a new result id, and
// remembers them for later delta requests.
func (s *Server) SemanticTokensFull(uri string) *protocol.SemanticTokens {
	return guard("semanticTokens/full", func() *protocol.SemanticTokens {
		if s.workspace.Get(uri) == nil {
			return nil
		}
		tokens := features.SemanticTokens(s.workspace, uri, s.semanticTokensLegend)
		resultID := NewResultID()
		s.semanticTokensCache.Store(uri, resultID, tokens)
		return &protocol.SemanticTokens{ResultID: &resultID, Data: analysis.EncodeSemanticTokens(tokens)}
	})
}

// SemanticTokensDelta diffs the current tokens of uri against the result
// previousResultID. The result is a *protocol.SemanticTokensDelta, or a
// *protocol.SemanticTokens when the previous result is unknown or the delta
// would not be smaller.
func (s *Server) SemanticTokensDelta(uri, previousResultID string) any {
	return guard[any]("semanticTokens/full/delta", func() any {
		if s.workspace.Get(uri) == nil {
			return nil
		}
		var previous []analysis.SemanticToken
		if cached, ok := s.semanticTokensCache.Retrieve(uri, previousResultID); ok {
			previous = cached.Tokens
		}

		tokens := features.SemanticTokens(s.workspace, uri, s.semanticTokensLegend)
		resultID := NewResultID()
		s.semanticTokensCache.Store(uri, resultID, tokens)

		result := analysis.ComputeSemanticTokensDelta(previous, tokens, resultID)
		if result.IsDelta {
			return result.Delta
		}
		return result.Full
	})
}
