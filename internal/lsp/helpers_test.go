package lsp

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/lang"
	"github.com/CWBudde/go-sitter-lsp/internal/server"
)

const (
	uriA = "file:///a.schema"
	uriB = "file:///b.schema"
)

// recorder collects the notifications sent through a glsp.Context.
type recorder struct {
	mu        sync.Mutex
	published map[string][]protocol.Diagnostic
	order     []string
}

func newRecorder() *recorder {
	return &recorder{published: make(map[string][]protocol.Diagnostic)}
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method != protocol.ServerTextDocumentPublishDiagnostics {
				return
			}
			p := params.(*protocol.PublishDiagnosticsParams)
			r.mu.Lock()
			defer r.mu.Unlock()
			r.published[p.URI] = p.Diagnostics
			r.order = append(r.order, p.URI)
		},
	}
}

func (r *recorder) diagnostics(uri string) []protocol.Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.published[uri]
}

// setup installs a fresh server for the duration of the test.
func setup(t *testing.T) *server.Server {
	t.Helper()
	srv, err := server.New(nil, lang.Builtin())
	require.NoError(t, err)
	SetServer(srv)
	t.Cleanup(func() {
		srv.Shutdown()
		SetServer(nil)
	})
	return srv
}

func open(t *testing.T, ctx *glsp.Context, uri, text string) {
	t.Helper()
	require.NoError(t, DidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "schema", Version: 1, Text: text},
	}))
}

func docPos(uri string, line, char uint32) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     protocol.Position{Line: line, Character: char},
	}
}
