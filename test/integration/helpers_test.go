//go:build integration

package integration

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/config"
	"github.com/CWBudde/go-sitter-lsp/internal/document"
	"github.com/CWBudde/go-sitter-lsp/internal/lang"
	"github.com/CWBudde/go-sitter-lsp/internal/lsp"
	"github.com/CWBudde/go-sitter-lsp/internal/server"
)

// client stands in for an editor: it owns the glsp context handed to every
// handler and keeps the last diagnostics published per document.
type client struct {
	t   *testing.T
	srv *server.Server

	mu          sync.Mutex
	diagnostics map[string][]protocol.Diagnostic
	texts       map[string]string
	versions    map[string]protocol.Integer
}

func newClient(t *testing.T, cfg *config.Config) *client {
	t.Helper()
	srv, err := server.New(cfg, lang.Builtin())
	require.NoError(t, err)
	lsp.SetServer(srv)
	t.Cleanup(func() {
		srv.Shutdown()
		lsp.SetServer(nil)
	})

	return &client{
		t:           t,
		srv:         srv,
		diagnostics: make(map[string][]protocol.Diagnostic),
		texts:       make(map[string]string),
		versions:    make(map[string]protocol.Integer),
	}
}

func (c *client) ctx() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method != protocol.ServerTextDocumentPublishDiagnostics {
				return
			}
			p := params.(*protocol.PublishDiagnosticsParams)
			c.mu.Lock()
			defer c.mu.Unlock()
			c.diagnostics[p.URI] = p.Diagnostics
		},
	}
}

func (c *client) published(uri string) []protocol.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.diagnostics[uri]
}

func (c *client) initialize(rootURI string) protocol.InitializeResult {
	c.t.Helper()
	params := &protocol.InitializeParams{}
	if rootURI != "" {
		params.RootURI = &rootURI
	}
	result, err := lsp.Initialize(c.ctx(), params)
	require.NoError(c.t, err)
	require.NoError(c.t, lsp.Initialized(c.ctx(), &protocol.InitializedParams{}))
	return result.(protocol.InitializeResult)
}

func (c *client) open(uri, languageID, text string) {
	c.t.Helper()
	c.texts[uri] = text
	c.versions[uri] = 1
	require.NoError(c.t, lsp.DidOpen(c.ctx(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: languageID, Version: 1, Text: text},
	}))
}

// apply sends edits as incremental changes, last position first, and keeps
// the client's copy of the text in step.
func (c *client) apply(uri string, edits []protocol.TextEdit) {
	c.t.Helper()
	sorted := append([]protocol.TextEdit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].Range.Start, sorted[j].Range.Start
		if a.Line != b.Line {
			return a.Line > b.Line
		}
		return a.Character > b.Character
	})

	changes := make([]any, 0, len(sorted))
	for _, e := range sorted {
		r := e.Range
		changes = append(changes, protocol.TextDocumentContentChangeEvent{Range: &r, Text: e.NewText})
	}

	text, err := document.ApplyContentChanges(c.texts[uri], changes)
	require.NoError(c.t, err)
	c.texts[uri] = text
	c.versions[uri]++

	require.NoError(c.t, lsp.DidChange(c.ctx(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                c.versions[uri],
		},
		ContentChanges: changes,
	}))
}

func (c *client) close(uri string) {
	c.t.Helper()
	require.NoError(c.t, lsp.DidClose(c.ctx(), &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
}

func at(uri string, line, char uint32) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: line, Character: char},
	}
}
