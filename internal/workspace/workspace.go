package workspace

import (
	"slices"
	"sync"
	"time"

	"github.com/tliron/commonlog"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/metrics"
)

var log = commonlog.GetLogger("sitter-lsp.workspace")

// Entry is one document and its resolved scope.
type Entry struct {
	Document *analysis.Document
	Scope    *analysis.DocumentScope
}

// Workspace holds every known document. Any change re-resolves all other
// documents so they observe the new public surface.
type Workspace struct {
	mutex   sync.RWMutex
	entries map[string]*Entry
	// order keeps documents in insertion order; it decides which public
	// declaration wins when several documents declare the same name.
	order []string
	index *PublicIndex
}

// New creates an empty workspace.
func New() *Workspace {
	return &Workspace{
		entries: make(map[string]*Entry),
		index:   NewPublicIndex(),
	}
}

// AddDocument resolves doc, publishes its public declarations and re-resolves
// every other document. Adding a URI again replaces the previous version.
func (ws *Workspace) AddDocument(doc *analysis.Document) *analysis.DocumentScope {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	var previous *analysis.DocumentScope
	if e, ok := ws.entries[doc.URI]; ok {
		previous = e.Scope
	} else {
		ws.order = append(ws.order, doc.URI)
	}

	entry := &Entry{Document: doc}
	entry.Scope = ws.build(doc, previous)
	ws.entries[doc.URI] = entry

	ws.rebuildIndex()
	ws.resolveAll(doc.URI)

	metrics.OpenDocuments.Set(float64(len(ws.entries)))
	return entry.Scope
}

// AddDocuments adds several documents at once, resolving each one a single
// time after all of them are published.
func (ws *Workspace) AddDocuments(docs []*analysis.Document) {
	if len(docs) == 0 {
		return
	}

	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	for _, doc := range docs {
		if _, ok := ws.entries[doc.URI]; !ok {
			ws.order = append(ws.order, doc.URI)
		}
		// Without a lookup: only the declarations are needed to build the index.
		ws.entries[doc.URI] = &Entry{Document: doc, Scope: analysis.BuildScopes(doc, nil, nil)}
	}
	ws.rebuildIndex()
	ws.resolveAll("")

	metrics.OpenDocuments.Set(float64(len(ws.entries)))
}

// RemoveDocument drops uri and re-resolves the remaining documents, so
// references into the removed document become unresolved.
func (ws *Workspace) RemoveDocument(uri string) *Entry {
	ws.mutex.Lock()
	defer ws.mutex.Unlock()

	entry, ok := ws.entries[uri]
	if !ok {
		return nil
	}
	delete(ws.entries, uri)
	ws.order = slices.DeleteFunc(ws.order, func(u string) bool { return u == uri })

	ws.rebuildIndex()
	ws.resolveAll("")

	metrics.OpenDocuments.Set(float64(len(ws.entries)))
	return entry
}

// LookupPublic returns the first public declaration of name among kinds.
func (ws *Workspace) LookupPublic(name string, kinds []string) *analysis.Declaration {
	return ws.index.Lookup(name, kinds, "")
}

// Get returns the entry for uri, or nil.
func (ws *Workspace) Get(uri string) *Entry {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()
	return ws.entries[uri]
}

// Entries returns every entry in insertion order.
func (ws *Workspace) Entries() []*Entry {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()

	out := make([]*Entry, 0, len(ws.order))
	for _, uri := range ws.order {
		out = append(out, ws.entries[uri])
	}
	return out
}

// Len returns the number of documents.
func (ws *Workspace) Len() int {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()
	return len(ws.entries)
}

// Index returns the public declaration index.
func (ws *Workspace) Index() *PublicIndex {
	return ws.index
}

// URIOf returns the URI of the document declaring decl, matched by name node
// id, or fallback when no document does.
func (ws *Workspace) URIOf(decl *analysis.Declaration, fallback string) string {
	if e := ws.EntryOf(decl); e != nil {
		return e.Document.URI
	}
	return fallback
}

// EntryOf returns the entry whose document declares decl, or nil. Node ids
// are unique across trees, so the first document knowing the id wins.
func (ws *Workspace) EntryOf(decl *analysis.Declaration) *Entry {
	if decl == nil || decl.Node == nil {
		return nil
	}
	for _, e := range ws.Entries() {
		if e.Scope.DeclarationAt(decl.Node) != nil {
			return e
		}
	}
	return nil
}

// build resolves doc against every other document's public declarations.
func (ws *Workspace) build(doc *analysis.Document, previous *analysis.DocumentScope) *analysis.DocumentScope {
	start := time.Now()
	ds := analysis.BuildScopes(doc, &versionedLookup{index: ws.index, uri: doc.URI}, previous)
	if doc.Language != nil {
		metrics.ScopeBuildDuration.WithLabelValues(doc.Language.ID).Observe(time.Since(start).Seconds())
	}
	return ds
}

// resolveAll re-resolves every document except skip, then refreshes the index
// so it points at the new declarations.
func (ws *Workspace) resolveAll(skip string) {
	count := 0
	for _, uri := range ws.order {
		if uri == skip {
			continue
		}
		e := ws.entries[uri]
		e.Scope = ws.build(e.Document, e.Scope)
		count++
	}
	if count > 0 {
		ws.rebuildIndex()
		log.Debugf("re-resolved %d documents", count)
	}
}

func (ws *Workspace) rebuildIndex() {
	ws.index.Clear()
	for _, uri := range ws.order {
		ws.index.Add(uri, ws.entries[uri].Scope.PublicDeclarations())
	}
	metrics.PublicDeclarations.Set(float64(ws.index.NameCount()))
}

// versionedLookup resolves a document against the public index with its own
// indexed entries swapped for the declarations of the version being built, so
// a rebuild never resolves against its previous version. The document keeps
// its place in index order; a document not indexed yet comes last.
type versionedLookup struct {
	index *PublicIndex
	uri   string
	own   []*analysis.Declaration
}

// Declared implements analysis.DeclarationSink.
func (l *versionedLookup) Declared(ds *analysis.DocumentScope) {
	l.own = ds.PublicDeclarations()
}

func (l *versionedLookup) LookupPublic(name string, kinds []string) *analysis.Declaration {
	ownSeen := false
	for _, e := range l.index.Find(name) {
		if e.URI == l.uri {
			if ownSeen {
				continue
			}
			ownSeen = true
			if d := l.lookupOwn(name, kinds); d != nil {
				return d
			}
			continue
		}
		if matchesKinds(e.Declaration, kinds) {
			return e.Declaration
		}
	}
	if !ownSeen {
		return l.lookupOwn(name, kinds)
	}
	return nil
}

func (l *versionedLookup) lookupOwn(name string, kinds []string) *analysis.Declaration {
	for _, d := range l.own {
		if d.Name == name && matchesKinds(d, kinds) {
			return d
		}
	}
	return nil
}
