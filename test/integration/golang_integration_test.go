//go:build integration

package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/config"
	"github.com/CWBudde/go-sitter-lsp/internal/lsp"
	"github.com/CWBudde/go-sitter-lsp/internal/workspace"
)

const mainSource = "package p\n\nfunc run() int {\n\treturn Helper(2)\n}\n"

func TestGoSession(t *testing.T) {
	root := t.TempDir()
	utilPath := filepath.Join(root, "util.go")
	require.NoError(t, os.WriteFile(utilPath, []byte("package p\n\nfunc Helper(n int) int { return n }\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "vendor", "dep.go"), []byte("package dep\n\nfunc Helper() {}\n"), 0o644))
	utilURI := workspace.PathToURI(utilPath)
	mainURI := workspace.PathToURI(filepath.Join(root, "main.go"))

	c := newClient(t, nil)
	c.initialize(workspace.PathToURI(root))
	require.Equal(t, 1, c.srv.Workspace().Len(), "vendor directories are not indexed")

	c.open(mainURI, "go", mainSource)
	assert.Empty(t, c.published(mainURI))

	result, err := lsp.Definition(c.ctx(), &protocol.DefinitionParams{TextDocumentPositionParams: at(mainURI, 3, 9)})
	require.NoError(t, err)
	loc, ok := result.(protocol.Location)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, utilURI, loc.URI)
	assert.Equal(t, protocol.Position{Line: 2, Character: 5}, loc.Range.Start)

	hover, err := lsp.Hover(c.ctx(), &protocol.HoverParams{TextDocumentPositionParams: at(mainURI, 3, 9)})
	require.NoError(t, err)
	require.NotNil(t, hover)
	assert.Equal(t, "```go\nfunc Helper(n int) int\n```", hover.Contents.(protocol.MarkupContent).Value)

	symbols, err := lsp.DocumentSymbol(c.ctx(), &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: mainURI},
	})
	require.NoError(t, err)
	list := symbols.([]protocol.DocumentSymbol)
	require.Len(t, list, 1)
	assert.Equal(t, "run", list[0].Name)
	assert.Equal(t, protocol.SymbolKindFunction, list[0].Kind)

	edit, err := lsp.Rename(c.ctx(), &protocol.RenameParams{
		TextDocumentPositionParams: at(mainURI, 3, 9),
		NewName:                    "Assist",
	})
	require.NoError(t, err)
	assert.Len(t, edit.Changes, 2)
	assert.Len(t, edit.Changes[utilURI], 1)

	// The indexed file stays known after the opened one closes.
	c.close(mainURI)
	assert.Equal(t, 1, c.srv.Workspace().Len())
}

func TestGoSession_SyntaxErrors(t *testing.T) {
	c := newClient(t, nil)
	c.initialize("")

	uri := "file:///broken.go"
	c.open(uri, "go", "package p\n\nfunc f( {\n")
	assert.NotEmpty(t, c.published(uri))

	c.apply(uri, []protocol.TextEdit{{
		Range:   protocol.Range{Start: protocol.Position{Line: 2, Character: 7}, End: protocol.Position{Line: 3, Character: 0}},
		NewText: ") {}\n",
	}})
	assert.Equal(t, "package p\n\nfunc f() {}\n", c.texts[uri])
	assert.Empty(t, c.published(uri))
}

func TestGoSession_DisabledLanguage(t *testing.T) {
	disabled := false
	cfg := config.Default()
	cfg.Languages = []config.LanguageConfig{{ID: "go", Enabled: &disabled}}

	c := newClient(t, cfg)
	c.initialize("")

	c.open("file:///main.go", "go", mainSource)
	_, ok := c.srv.Documents().Get("file:///main.go")
	assert.False(t, ok)
}
