package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Name and Version identify the server to clients.
const Name = "sitter-lsp"

var Version = "0.1.0"

// Initialize handles the LSP initialize request. It records the client's
// capabilities and workspace folders and advertises the server's features.
func Initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	srv := current("initialize")
	if srv != nil {
		srv.SetClientCapabilities(&params.Capabilities)

		folders := params.WorkspaceFolders
		if len(folders) == 0 && params.RootURI != nil && *params.RootURI != "" {
			folders = []protocol.WorkspaceFolder{{URI: *params.RootURI, Name: "root"}}
		}
		srv.SetWorkspaceFolders(folders)
	}

	if params.ClientInfo != nil {
		log.Infof("initialize from %s", params.ClientInfo.Name)
	}

	return protocol.InitializeResult{
		Capabilities: capabilities(),
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &Version,
		},
	}, nil
}

func capabilities() protocol.ServerCapabilities {
	changeKind := protocol.TextDocumentSyncKindIncremental
	trueVal := true
	falseVal := false

	var legend protocol.SemanticTokensLegend
	if srv := serverInstance; srv != nil {
		legend = srv.SemanticTokensLegend().ToProtocolLegend()
	}

	return protocol.ServerCapabilities{
		TextDocumentSync: protocol.TextDocumentSyncOptions{
			OpenClose: &trueVal,
			Change:    &changeKind,
			WillSave:  &falseVal,
		},
		HoverProvider:           &trueVal,
		DefinitionProvider:      &trueVal,
		ReferencesProvider:      &trueVal,
		DocumentSymbolProvider:  &trueVal,
		WorkspaceSymbolProvider: &trueVal,
		CompletionProvider: &protocol.CompletionOptions{
			TriggerCharacters: []string{".", ":"},
			ResolveProvider:   &falseVal,
		},
		RenameProvider: &protocol.RenameOptions{
			PrepareProvider: &trueVal,
		},
		SemanticTokensProvider: &protocol.SemanticTokensOptions{
			Legend: legend,
			Full:   &protocol.SemanticDelta{Delta: &trueVal},
		},
		Workspace: &protocol.ServerCapabilitiesWorkspace{
			WorkspaceFolders: &protocol.WorkspaceFoldersServerCapabilities{
				Supported:           &trueVal,
				ChangeNotifications: &protocol.BoolOrString{Value: true},
			},
		},
	}
}

// Initialized indexes the workspace folders and publishes diagnostics for
// the documents opened meanwhile.
func Initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	srv := current("initialized")
	if srv == nil {
		return nil
	}

	if n := srv.IndexWorkspace(srv.WorkspaceFolders()); n > 0 {
		publishAll(context, srv)
	}
	return nil
}

// Shutdown marks the server as shutting down and releases its trees.
func Shutdown(context *glsp.Context) error {
	if srv := current("shutdown"); srv != nil {
		srv.Shutdown()
	}
	log.Info("shutdown")
	return nil
}

// Exit handles the exit notification.
func Exit(context *glsp.Context) error {
	log.Info("exit")
	return nil
}

// SetTrace accepts and ignores trace level changes; verbosity is set by the
// -log-level flag.
func SetTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	log.Debugf("trace set to %s", params.Value)
	return nil
}
