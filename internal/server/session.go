package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/diagnostics"
	"github.com/CWBudde/go-sitter-lsp/internal/metrics"
	"github.com/CWBudde/go-sitter-lsp/internal/workspace"
)

// ErrDocumentNotFound is returned for a URI the server does not know.
var ErrDocumentNotFound = errors.New("document not found")

// Open parses a document opened by the client and resolves the workspace
// against it.
func (s *Server) Open(uri, languageID string, version int32, text string) error {
	return s.load(uri, languageID, version, text, true)
}

// Change replaces the text of an open document.
func (s *Server) Change(uri string, version int32, text string) error {
	doc, ok := s.documents.Get(uri)
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, uri)
	}
	return s.load(uri, doc.LanguageID, version, text, true)
}

// Close forgets a document closed by the client. A file found by the
// workspace indexer reverts to its content on disk.
func (s *Server) Close(uri string) error {
	if _, ok := s.documents.Get(uri); !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, uri)
	}
	s.semanticTokensCache.InvalidateDocument(uri)

	s.mu.RLock()
	path, indexed := s.indexed[uri]
	s.mu.RUnlock()

	if indexed {
		data, err := os.ReadFile(path)
		if err == nil {
			doc, _ := s.documents.Get(uri)
			return s.load(uri, doc.LanguageID, 0, string(data), false)
		}
		log.Warningf("reloading %s: %v", path, err)
	}

	s.workspace.RemoveDocument(uri)
	s.documents.Delete(uri)
	return nil
}

// load parses text and replaces the document. The workspace switches to the
// new tree before the old one is closed.
func (s *Server) load(uri, languageID string, version int32, text string, open bool) error {
	language, err := s.languages.Resolve(languageID, uri)
	if err != nil {
		return err
	}

	doc := &Document{
		URI:        uri,
		Text:       text,
		Version:    version,
		LanguageID: language.ID(),
		Open:       open,
	}

	parser, err := language.Parser()
	if err != nil {
		doc.LoadErr = err
		s.workspace.RemoveDocument(uri)
		s.documents.Replace(doc)
		return nil
	}

	start := time.Now()
	tree, err := parser.Parse([]byte(text))
	metrics.ParseDuration.WithLabelValues(language.ID()).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("parse %s: %w", uri, err)
	}
	doc.Tree = tree

	s.workspace.AddDocument(&analysis.Document{URI: uri, Tree: tree, Language: language.Rules()})
	s.documents.Replace(doc)

	log.Debugf("loaded %s (%s, version %d)", uri, language.ID(), version)
	return nil
}

// IndexWorkspace reads every file under folders that belongs to a known
// language and adds them to the workspace in one batch. Files the client
// already opened are skipped. It returns the number of files added.
func (s *Server) IndexWorkspace(folders []protocol.WorkspaceFolder) int {
	cfg := s.Config()
	if !cfg.Server.ShouldIndexWorkspace() {
		return 0
	}

	indexer := workspace.NewIndexer(s.languages.Accepts, cfg.Server.MaxIndexFiles)
	files := indexer.Scan(folders)

	var docs []*analysis.Document
	for _, f := range files {
		if _, ok := s.documents.Get(f.URI); ok {
			continue
		}
		doc, err := s.readFile(f)
		if err != nil {
			log.Warningf("indexing %s: %v", f.Path, err)
			continue
		}
		if doc == nil {
			continue
		}
		docs = append(docs, doc)
	}

	s.workspace.AddDocuments(docs)
	log.Infof("indexed %d workspace files", len(docs))
	return len(docs)
}

// readFile parses an indexed file and stores it as a closed document. It
// returns nil without error when the language's grammar is unavailable.
func (s *Server) readFile(f workspace.File) (*analysis.Document, error) {
	language, err := s.languages.Resolve("", f.URI)
	if err != nil {
		return nil, err
	}
	parser, err := language.Parser()
	if err != nil {
		return nil, nil
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	tree, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}

	s.documents.Replace(&Document{URI: f.URI, Text: string(data), LanguageID: language.ID(), Tree: tree})
	s.mu.Lock()
	s.indexed[f.URI] = f.Path
	s.mu.Unlock()

	return &analysis.Document{URI: f.URI, Tree: tree, Language: language.Rules()}, nil
}

// Diagnostics runs the diagnostic passes over uri, capped at the configured
// maximum. A document whose grammar failed to load gets a single
// grammar-not-loaded diagnostic.
func (s *Server) Diagnostics(uri string) []protocol.Diagnostic {
	return guard("diagnostics", func() []protocol.Diagnostic {
		doc, ok := s.documents.Get(uri)
		if !ok {
			return nil
		}
		if doc.LoadErr != nil {
			cause := doc.LoadErr
			var loadErr *GrammarLoadError
			if errors.As(cause, &loadErr) {
				cause = loadErr.Err
			}
			return []protocol.Diagnostic{diagnostics.GrammarNotLoaded(doc.LanguageID, cause)}
		}

		entry := s.workspace.Get(uri)
		if entry == nil {
			return nil
		}
		diags := diagnostics.Compute(entry.Scope)

		if limit := s.Config().Server.MaxProblems; limit > 0 && len(diags) > limit {
			log.Debugf("%s: %d diagnostics, publishing %d", uri, len(diags), limit)
			diags = diags[:limit]
		}
		return diags
	})
}

// OpenDocuments returns the URIs of the documents opened by the client.
func (s *Server) OpenDocuments() []string {
	return s.documents.ListOpen()
}
