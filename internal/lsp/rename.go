package lsp

import (
	"fmt"
	"sort"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/server"
)

// Rename handles the textDocument/rename request.
func Rename(context *glsp.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	srv := current("rename")
	if srv == nil {
		return nil, fmt.Errorf("rename: server instance not available")
	}

	uri := params.TextDocument.URI
	log.Debugf("rename at %s %d:%d to %q", uri, params.Position.Line, params.Position.Character, params.NewName)

	edits, err := srv.Rename(uri, params.Position, params.NewName)
	if err != nil {
		log.Infof("rename at %s rejected: %v", uri, err)
		return nil, err
	}

	if srv.SupportsDocumentChanges() {
		return buildWorkspaceEdit(edits, srv.Documents()), nil
	}
	return &protocol.WorkspaceEdit{Changes: edits}, nil
}

// PrepareRename handles the textDocument/prepareRename request.
func PrepareRename(context *glsp.Context, params *protocol.PrepareRenameParams) (any, error) {
	srv := current("prepareRename")
	if srv == nil {
		return nil, fmt.Errorf("prepareRename: server instance not available")
	}

	rng, name, err := srv.PrepareRename(params.TextDocument.URI, params.Position)
	if err != nil {
		return nil, err
	}
	return protocol.RangeWithPlaceholder{Range: *rng, Placeholder: name}, nil
}

// buildWorkspaceEdit groups the edits into one versioned TextDocumentEdit per
// document, ordered by URI. Documents the client never opened get no version.
func buildWorkspaceEdit(editsByURI map[protocol.DocumentUri][]protocol.TextEdit, docs *server.DocumentStore) *protocol.WorkspaceEdit {
	uris := make([]string, 0, len(editsByURI))
	for uri := range editsByURI {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	documentChanges := make([]any, 0, len(uris))
	total := 0
	for _, uri := range uris {
		var version *protocol.Integer
		if doc, exists := docs.Get(uri); exists && doc.Open {
			v := doc.Version
			version = &v
		}

		edits := editsByURI[uri]
		total += len(edits)
		documentChanges = append(documentChanges, protocol.TextDocumentEdit{
			TextDocument: protocol.OptionalVersionedTextDocumentIdentifier{
				TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
				Version:                version,
			},
			Edits: convertToEdits(edits),
		})
	}

	log.Debugf("built workspace edit with %d document(s) and %d edit(s)", len(documentChanges), total)
	return &protocol.WorkspaceEdit{DocumentChanges: documentChanges}
}

func convertToEdits(textEdits []protocol.TextEdit) []any {
	edits := make([]any, len(textEdits))
	for i, edit := range textEdits {
		edits[i] = edit
	}
	return edits
}
