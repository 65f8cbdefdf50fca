package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestInitialize(t *testing.T) {
	srv := setup(t)

	rootURI := "file:///test/workspace"
	result, err := Initialize(&glsp.Context{}, &protocol.InitializeParams{RootURI: &rootURI})
	require.NoError(t, err)

	res, ok := result.(protocol.InitializeResult)
	require.True(t, ok, "got %T", result)
	require.NotNil(t, res.ServerInfo)
	assert.Equal(t, Name, res.ServerInfo.Name)
	assert.Equal(t, Version, *res.ServerInfo.Version)

	caps := res.Capabilities
	sync, ok := caps.TextDocumentSync.(protocol.TextDocumentSyncOptions)
	require.True(t, ok)
	assert.True(t, *sync.OpenClose)
	assert.Equal(t, protocol.TextDocumentSyncKindIncremental, *sync.Change)

	for name, provider := range map[string]any{
		"hover":           caps.HoverProvider,
		"definition":      caps.DefinitionProvider,
		"references":      caps.ReferencesProvider,
		"documentSymbol":  caps.DocumentSymbolProvider,
		"workspaceSymbol": caps.WorkspaceSymbolProvider,
	} {
		b, ok := provider.(*bool)
		require.True(t, ok, name)
		assert.True(t, *b, name)
	}

	require.NotNil(t, caps.CompletionProvider)
	rename, ok := caps.RenameProvider.(*protocol.RenameOptions)
	require.True(t, ok)
	assert.True(t, *rename.PrepareProvider)

	tokens, ok := caps.SemanticTokensProvider.(*protocol.SemanticTokensOptions)
	require.True(t, ok)
	assert.Equal(t, srv.SemanticTokensLegend().TokenTypes, tokens.Legend.TokenTypes)
	full, ok := tokens.Full.(*protocol.SemanticDelta)
	require.True(t, ok)
	assert.True(t, *full.Delta)

	// Without workspace folders the root URI is used.
	assert.Equal(t, []protocol.WorkspaceFolder{{URI: rootURI, Name: "root"}}, srv.WorkspaceFolders())
}

func TestInitialize_WorkspaceFolders(t *testing.T) {
	srv := setup(t)

	folders := []protocol.WorkspaceFolder{{URI: "file:///a", Name: "a"}, {URI: "file:///b", Name: "b"}}
	_, err := Initialize(&glsp.Context{}, &protocol.InitializeParams{WorkspaceFolders: folders})
	require.NoError(t, err)

	assert.Equal(t, folders, srv.WorkspaceFolders())
}

func TestShutdown(t *testing.T) {
	srv := setup(t)
	open(t, newRecorder().context(), uriA, "type A {}")

	require.NoError(t, Shutdown(&glsp.Context{}))
	assert.True(t, srv.IsShuttingDown())
	assert.Empty(t, srv.Documents().List())
}

func TestHandlers_WithoutServer(t *testing.T) {
	SetServer(nil)

	hover, err := Hover(&glsp.Context{}, &protocol.HoverParams{TextDocumentPositionParams: docPos(uriA, 0, 0)})
	assert.NoError(t, err)
	assert.Nil(t, hover)

	assert.NoError(t, DidOpen(&glsp.Context{}, &protocol.DidOpenTextDocumentParams{}))

	_, err = Rename(&glsp.Context{}, &protocol.RenameParams{TextDocumentPositionParams: docPos(uriA, 0, 0), NewName: "X"})
	assert.Error(t, err)
}

func TestNewHandler(t *testing.T) {
	h := NewHandler()

	assert.NotNil(t, h.Initialize)
	assert.NotNil(t, h.TextDocumentDidChange)
	assert.NotNil(t, h.TextDocumentSemanticTokensFullDelta)
	assert.NotNil(t, h.WorkspaceSymbol)
}
