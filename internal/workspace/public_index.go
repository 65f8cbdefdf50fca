// Package workspace holds the open documents, their resolved scopes and the
// cross-file index of public declarations.
package workspace

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
)

// IndexEntry is one public declaration and the document declaring it.
type IndexEntry struct {
	URI         string
	Declaration *analysis.Declaration
}

// PublicIndex maps names to the public root-scope declarations of every
// document. Entries keep insertion order, so the first match is stable.
type PublicIndex struct {
	// entries maps declaration names to their locations
	entries map[string][]IndexEntry

	// files maps document URIs to the names they contribute
	files map[string][]string

	mutex sync.RWMutex
}

// NewPublicIndex creates an empty index.
func NewPublicIndex() *PublicIndex {
	return &PublicIndex{
		entries: make(map[string][]IndexEntry),
		files:   make(map[string][]string),
	}
}

// Add indexes decls as declared by uri.
func (pi *PublicIndex) Add(uri string, decls []*analysis.Declaration) {
	pi.mutex.Lock()
	defer pi.mutex.Unlock()

	for _, d := range decls {
		pi.entries[d.Name] = append(pi.entries[d.Name], IndexEntry{URI: uri, Declaration: d})
		pi.files[uri] = append(pi.files[uri], d.Name)
	}
}

// Lookup returns the first declaration of name whose kind is one of kinds,
// skipping entries from the excluded URI. Empty kinds match any kind.
func (pi *PublicIndex) Lookup(name string, kinds []string, exclude string) *analysis.Declaration {
	pi.mutex.RLock()
	defer pi.mutex.RUnlock()

	for _, e := range pi.entries[name] {
		if e.URI == exclude {
			continue
		}
		if matchesKinds(e.Declaration, kinds) {
			return e.Declaration
		}
	}
	return nil
}

// matchesKinds reports whether d is one of kinds. Empty kinds match any kind.
func matchesKinds(d *analysis.Declaration, kinds []string) bool {
	return len(kinds) == 0 || slices.Contains(kinds, d.DeclaredBy)
}

// Find returns every entry for name.
func (pi *PublicIndex) Find(name string) []IndexEntry {
	pi.mutex.RLock()
	defer pi.mutex.RUnlock()

	return slices.Clone(pi.entries[name])
}

// FindInFile returns the entries contributed by uri.
func (pi *PublicIndex) FindInFile(uri string) []IndexEntry {
	pi.mutex.RLock()
	defer pi.mutex.RUnlock()

	var result []IndexEntry
	for _, name := range pi.files[uri] {
		for _, e := range pi.entries[name] {
			if e.URI == uri && !containsEntry(result, e) {
				result = append(result, e)
			}
		}
	}
	return result
}

func containsEntry(entries []IndexEntry, e IndexEntry) bool {
	for _, x := range entries {
		if x.Declaration == e.Declaration {
			return true
		}
	}
	return false
}

// All returns every entry, ordered by name.
func (pi *PublicIndex) All() []IndexEntry {
	return pi.Search("", 0)
}

// Clear empties the index.
func (pi *PublicIndex) Clear() {
	pi.mutex.Lock()
	defer pi.mutex.Unlock()

	pi.entries = make(map[string][]IndexEntry)
	pi.files = make(map[string][]string)
}

// FileCount returns the number of documents with at least one entry.
func (pi *PublicIndex) FileCount() int {
	pi.mutex.RLock()
	defer pi.mutex.RUnlock()
	return len(pi.files)
}

// NameCount returns the number of distinct names.
func (pi *PublicIndex) NameCount() int {
	pi.mutex.RLock()
	defer pi.mutex.RUnlock()
	return len(pi.entries)
}

// Search returns entries whose name contains query, case-insensitively,
// ordered by name. An empty query matches everything. maxResults <= 0 means
// no limit.
func (pi *PublicIndex) Search(query string, maxResults int) []IndexEntry {
	pi.mutex.RLock()
	defer pi.mutex.RUnlock()

	queryLower := strings.ToLower(query)

	names := make([]string, 0, len(pi.entries))
	for name := range pi.entries {
		if strings.Contains(strings.ToLower(name), queryLower) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var results []IndexEntry
	for _, name := range names {
		for _, e := range pi.entries[name] {
			results = append(results, e)
			if maxResults > 0 && len(results) >= maxResults {
				return results
			}
		}
	}
	return results
}
