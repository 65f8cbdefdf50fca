// Package server is the session facade: it owns the documents and their
// trees, picks each document's language, keeps the workspace resolved and
// wraps every provider so a failing request degrades to an empty result.
package server

import (
	"sync"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/config"
	"github.com/CWBudde/go-sitter-lsp/internal/lang"
	"github.com/CWBudde/go-sitter-lsp/internal/workspace"
)

var log = commonlog.GetLogger("sitter-lsp.server")

// Server holds the state of the LSP server.
type Server struct {
	documents *DocumentStore
	workspace *workspace.Workspace
	languages *Languages

	// indexed maps URIs read by the workspace indexer to their paths, so a
	// closed document falls back to its on-disk content.
	indexed map[string]string

	workspaceFolders   []protocol.WorkspaceFolder
	clientCapabilities *protocol.ClientCapabilities

	config *config.Config

	semanticTokensLegend *analysis.SemanticTokensLegend
	semanticTokensCache  *SemanticTokensCache

	mu           sync.RWMutex
	shuttingDown bool
}

// New creates a server for the given languages. A nil cfg uses the defaults.
func New(cfg *config.Config, defs []*lang.Definition) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	languages, err := NewLanguages(defs, cfg.Languages)
	if err != nil {
		return nil, err
	}
	log.Infof("languages: %v", languages.IDs())

	return &Server{
		documents:            NewDocumentStore(),
		workspace:            workspace.New(),
		languages:            languages,
		indexed:              make(map[string]string),
		config:               cfg,
		semanticTokensLegend: analysis.NewSemanticTokensLegend(),
		semanticTokensCache:  NewSemanticTokensCache(),
	}, nil
}

// IsShuttingDown returns true if the server is shutting down.
func (s *Server) IsShuttingDown() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shuttingDown
}

// SetShuttingDown marks the server as shutting down.
func (s *Server) SetShuttingDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shuttingDown = true
}

// Shutdown releases every tree and parser.
func (s *Server) Shutdown() {
	s.SetShuttingDown()
	s.documents.Clear()
	s.semanticTokensCache.Clear()
	s.languages.Close()
}

// Documents returns the document store.
func (s *Server) Documents() *DocumentStore {
	return s.documents
}

// Workspace returns the resolved workspace.
func (s *Server) Workspace() *workspace.Workspace {
	return s.workspace
}

// Languages returns the language registry.
func (s *Server) Languages() *Languages {
	return s.languages
}

// Config returns the server configuration.
func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// UpdateConfig updates the server configuration atomically.
// The update function is called with the current config under a write lock.
func (s *Server) UpdateConfig(update func(*config.Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update(s.config)
}

// SetWorkspaceFolders sets the workspace folders.
func (s *Server) SetWorkspaceFolders(folders []protocol.WorkspaceFolder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaceFolders = folders
}

// WorkspaceFolders returns the workspace folders.
func (s *Server) WorkspaceFolders() []protocol.WorkspaceFolder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspaceFolders
}

// SetClientCapabilities sets the client's capabilities.
func (s *Server) SetClientCapabilities(capabilities *protocol.ClientCapabilities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientCapabilities = capabilities
}

// ClientCapabilities returns the client's capabilities.
func (s *Server) ClientCapabilities() *protocol.ClientCapabilities {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientCapabilities
}

// SupportsDocumentChanges reports whether the client accepts versioned
// document changes in a workspace edit.
func (s *Server) SupportsDocumentChanges() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	caps := s.clientCapabilities
	if caps == nil || caps.Workspace == nil || caps.Workspace.WorkspaceEdit == nil {
		return false
	}
	if caps.Workspace.WorkspaceEdit.DocumentChanges == nil {
		return false
	}
	return *caps.Workspace.WorkspaceEdit.DocumentChanges
}

// SemanticTokensLegend returns the semantic tokens legend.
// The legend is immutable and shared across all requests.
func (s *Server) SemanticTokensLegend() *analysis.SemanticTokensLegend {
	return s.semanticTokensLegend
}

// SemanticTokensCache returns the semantic tokens cache for delta support.
func (s *Server) SemanticTokensCache() *SemanticTokensCache {
	return s.semanticTokensCache
}
