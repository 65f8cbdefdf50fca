package server

import (
	"sort"
	"sync"

	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
)

// Document is a document known to the server, either opened by the client
// or read from a workspace folder.
type Document struct {
	URI        string
	Text       string
	Version    int32
	LanguageID string

	// Tree is owned by the document and closed when it is replaced or
	// deleted. It is nil when the grammar failed to load.
	Tree *syntax.Tree

	// LoadErr is the language's *GrammarLoadError, if any.
	LoadErr error

	// Open is false for files only read from disk by the workspace indexer.
	Open bool
}

// DocumentStore manages all known documents.
type DocumentStore struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Replace stores doc and closes the tree of the version it replaces.
func (ds *DocumentStore) Replace(doc *Document) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if old, ok := ds.documents[doc.URI]; ok && old.Tree != doc.Tree {
		old.Tree.Close()
	}
	ds.documents[doc.URI] = doc
}

// Get retrieves a document by URI.
func (ds *DocumentStore) Get(uri string) (*Document, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	doc, ok := ds.documents[uri]

	return doc, ok
}

// Delete removes a document and closes its tree.
func (ds *DocumentStore) Delete(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if doc, ok := ds.documents[uri]; ok {
		doc.Tree.Close()
		delete(ds.documents, uri)
	}
}

// List returns all document URIs, sorted.
func (ds *DocumentStore) List() []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	uris := make([]string, 0, len(ds.documents))
	for uri := range ds.documents {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	return uris
}

// ListOpen returns the URIs of the documents opened by the client, sorted.
func (ds *DocumentStore) ListOpen() []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	var uris []string
	for uri, doc := range ds.documents {
		if doc.Open {
			uris = append(uris, uri)
		}
	}
	sort.Strings(uris)

	return uris
}

// Clear closes and removes all documents.
func (ds *DocumentStore) Clear() {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	for _, doc := range ds.documents {
		doc.Tree.Close()
	}
	ds.documents = make(map[string]*Document)
}
