// Package lsp implements the glsp handlers. Each handler decodes the request,
// delegates to the session facade and publishes diagnostics after edits.
package lsp

import (
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/server"
)

var log = commonlog.GetLogger("sitter-lsp.lsp")

// serverInstance holds the server the handlers operate on. It is set by
// SetServer before the transport starts.
var serverInstance *server.Server

// SetServer sets the global server instance for handlers to access.
func SetServer(srv *server.Server) {
	serverInstance = srv
}

// NewHandler returns the protocol handler table.
func NewHandler() *protocol.Handler {
	return &protocol.Handler{
		Initialize:  Initialize,
		Initialized: Initialized,
		Shutdown:    Shutdown,
		Exit:        Exit,
		SetTrace:    SetTrace,

		WorkspaceDidChangeConfiguration:    DidChangeConfiguration,
		WorkspaceDidChangeWorkspaceFolders: DidChangeWorkspaceFolders,
		WorkspaceSymbol:                    WorkspaceSymbol,

		TextDocumentDidOpen:   DidOpen,
		TextDocumentDidChange: DidChange,
		TextDocumentDidClose:  DidClose,

		TextDocumentHover:                   Hover,
		TextDocumentDefinition:              Definition,
		TextDocumentReferences:              References,
		TextDocumentCompletion:              Completion,
		TextDocumentPrepareRename:           PrepareRename,
		TextDocumentRename:                  Rename,
		TextDocumentDocumentSymbol:          DocumentSymbol,
		TextDocumentSemanticTokensFull:      SemanticTokensFull,
		TextDocumentSemanticTokensFullDelta: SemanticTokensFullDelta,
	}
}

// current returns the server, logging when none was set.
func current(method string) *server.Server {
	if serverInstance == nil {
		log.Warningf("%s: server instance not available", method)
	}
	return serverInstance
}

// notify sends a notification when the context can deliver it.
func notify(context *glsp.Context, method string, params any) {
	if context == nil || context.Notify == nil {
		return
	}
	context.Notify(method, params)
}
