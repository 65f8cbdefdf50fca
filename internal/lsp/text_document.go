package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/document"
)

// DidOpen handles the textDocument/didOpen notification.
func DidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	srv := current("didOpen")
	if srv == nil {
		return nil
	}

	item := params.TextDocument
	log.Debugf("document opened: %s (version %d, language %s, %d bytes)", item.URI, item.Version, item.LanguageID, len(item.Text))

	if err := srv.Open(item.URI, item.LanguageID, item.Version, item.Text); err != nil {
		log.Errorf("opening %s: %v", item.URI, err)
		return nil
	}

	publishAll(context, srv)
	return nil
}

// DidChange handles the textDocument/didChange notification. Ranged and
// whole-document changes are both accepted.
func DidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	srv := current("didChange")
	if srv == nil {
		return nil
	}

	uri := params.TextDocument.URI
	doc, ok := srv.Documents().Get(uri)
	if !ok {
		log.Warningf("didChange for unknown document %s", uri)
		return nil
	}

	text, err := document.ApplyContentChanges(doc.Text, params.ContentChanges)
	if err != nil {
		// keep the last good text rather than a corrupted one
		log.Errorf("applying changes to %s: %v", uri, err)
		return nil
	}

	if err := srv.Change(uri, params.TextDocument.Version, text); err != nil {
		log.Errorf("changing %s: %v", uri, err)
		return nil
	}

	publishAll(context, srv)
	return nil
}

// DidClose handles the textDocument/didClose notification.
func DidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	srv := current("didClose")
	if srv == nil {
		return nil
	}

	uri := params.TextDocument.URI
	if err := srv.Close(uri); err != nil {
		log.Warningf("closing %s: %v", uri, err)
	}
	log.Debugf("document closed: %s", uri)

	// clear the editor's markers for the closed document
	PublishDiagnostics(context, uri, nil)
	publishAll(context, srv)
	return nil
}
