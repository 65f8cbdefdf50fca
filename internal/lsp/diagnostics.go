package lsp

import (
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/metrics"
	"github.com/CWBudde/go-sitter-lsp/internal/server"
)

// PublishDiagnostics sends the diagnostics of one document. They are sent in
// the order the passes produced them.
func PublishDiagnostics(context *glsp.Context, uri string, diagnostics []protocol.Diagnostic) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	for _, d := range diagnostics {
		code := ""
		if d.Code != nil {
			code = fmt.Sprint(d.Code.Value)
		}
		metrics.DiagnosticsPublished.WithLabelValues(code).Inc()
	}

	log.Debugf("publishing %d diagnostic(s) for %s", len(diagnostics), uri)
	notify(context, protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// publishAll republishes every open document. An edit re-resolves the whole
// workspace, so any of them may have changed.
func publishAll(context *glsp.Context, srv *server.Server) {
	for _, uri := range srv.OpenDocuments() {
		PublishDiagnostics(context, uri, srv.Diagnostics(uri))
	}
}
