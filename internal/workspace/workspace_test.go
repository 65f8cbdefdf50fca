package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/lang/schema"
)

func newDoc(t *testing.T, uri, src string) *analysis.Document {
	t.Helper()
	tree, err := schema.Parser{}.Parse([]byte(src))
	require.NoError(t, err)
	return &analysis.Document{URI: uri, Tree: tree, Language: schema.Language()}
}

func refNamed(ds *analysis.DocumentScope, name string) *analysis.Reference {
	for _, ref := range ds.References {
		if ref.Name == name {
			return ref
		}
	}
	return nil
}

func TestWorkspace_CrossDocumentResolution(t *testing.T) {
	ws := New()

	ws.AddDocument(newDoc(t, "file:///a.schema", "type Foo { x: Bar }"))
	a := ws.Get("file:///a.schema")
	require.NotNil(t, a)
	require.NotNil(t, refNamed(a.Scope, "Bar"))
	assert.Nil(t, refNamed(a.Scope, "Bar").Resolved)

	ws.AddDocument(newDoc(t, "file:///b.schema", "enum Bar { A B }"))

	// a was re-resolved against b's public surface.
	a = ws.Get("file:///a.schema")
	ref := refNamed(a.Scope, "Bar")
	require.NotNil(t, ref)
	require.NotNil(t, ref.Resolved)
	assert.Equal(t, schema.KindEnum, ref.Resolved.DeclaredBy)
	assert.Equal(t, "file:///b.schema", ws.URIOf(ref.Resolved, ""))

	ws.RemoveDocument("file:///b.schema")

	a = ws.Get("file:///a.schema")
	assert.Nil(t, refNamed(a.Scope, "Bar").Resolved)
	assert.Equal(t, 1, ws.Len())
}

func TestWorkspace_IsolatedScopeFallsBackToOwnPublicDeclarations(t *testing.T) {
	isolated := schema.Language()
	isolated.Semantic["type_declaration"].Scope = analysis.ScopeIsolated
	docWith := func(uri, src string) *analysis.Document {
		doc := newDoc(t, uri, src)
		doc.Language = isolated
		return doc
	}

	ws := New()
	ws.AddDocument(docWith("file:///a.schema", "type Foo { x: Bar }\nenum Bar { A }"))
	ws.AddDocument(docWith("file:///b.schema", "type Other {}"))

	a := ws.Get("file:///a.schema")
	ref := refNamed(a.Scope, "Bar")
	require.NotNil(t, ref)
	require.NotNil(t, ref.Resolved, "the isolated body reaches Bar through the public index")
	assert.Equal(t, "file:///a.schema", ws.URIOf(ref.Resolved, ""))
	assert.Same(t, a.Scope.DeclarationAt(ref.Resolved.Node), ref.Resolved)

	// The previous version's entries are never used.
	ws.AddDocument(docWith("file:///a.schema", "type Foo { x: Bar }"))
	a = ws.Get("file:///a.schema")
	assert.Nil(t, refNamed(a.Scope, "Bar").Resolved)
}

func TestWorkspace_PrivateDeclarationsStayLocal(t *testing.T) {
	ws := New()

	ws.AddDocument(newDoc(t, "file:///b.schema", "private type Hidden {}\ntype Shown {}"))
	ds := ws.AddDocument(newDoc(t, "file:///a.schema", "type Foo { x: Hidden, y: Shown }"))

	assert.Nil(t, refNamed(ds, "Hidden").Resolved)
	assert.NotNil(t, refNamed(ds, "Shown").Resolved)
	assert.Nil(t, ws.LookupPublic("Hidden", nil))
	assert.NotNil(t, ws.LookupPublic("Shown", []string{schema.KindType}))
}

func TestWorkspace_LocalDeclarationWinsOverPublic(t *testing.T) {
	ws := New()

	ws.AddDocument(newDoc(t, "file:///b.schema", "type Bar {}"))
	ds := ws.AddDocument(newDoc(t, "file:///a.schema", "type Foo { x: Bar }\nenum Bar { Z }"))

	ref := refNamed(ds, "Bar")
	require.NotNil(t, ref.Resolved)
	assert.Equal(t, schema.KindEnum, ref.Resolved.DeclaredBy)
	assert.Equal(t, "file:///a.schema", ws.URIOf(ref.Resolved, ""))
}

func TestWorkspace_RebuildIsDeterministic(t *testing.T) {
	ws := New()
	src := "type Foo { x: Bar }\nenum Bar { A B }"

	first := ws.AddDocument(newDoc(t, "file:///a.schema", src))
	second := ws.AddDocument(newDoc(t, "file:///a.schema", src))

	require.Len(t, second.Declarations, len(first.Declarations))
	for i := range first.Declarations {
		assert.Equal(t, first.Declarations[i].Name, second.Declarations[i].Name)
		assert.Equal(t, first.Declarations[i].DeclaredBy, second.Declarations[i].DeclaredBy)
	}
	ref := refNamed(second, "Bar")
	require.NotNil(t, ref.Resolved)
	// Resolved inside the new version, never against the old one.
	assert.Equal(t, second.Root, ref.Resolved.Scope)
	assert.Equal(t, 1, ws.Len())
	assert.Len(t, ws.Index().FindInFile("file:///a.schema"), 2)
}

func TestWorkspace_AddDocuments(t *testing.T) {
	ws := New()

	ws.AddDocuments([]*analysis.Document{
		newDoc(t, "file:///a.schema", "type Foo { x: Bar }"),
		newDoc(t, "file:///b.schema", "enum Bar { A }"),
	})

	require.Equal(t, 2, ws.Len())
	ref := refNamed(ws.Get("file:///a.schema").Scope, "Bar")
	require.NotNil(t, ref.Resolved)
	assert.Equal(t, "file:///b.schema", ws.URIOf(ref.Resolved, ""))

	entries := ws.Entries()
	assert.Equal(t, "file:///a.schema", entries[0].Document.URI)
	assert.Equal(t, "file:///b.schema", entries[1].Document.URI)
}

func TestWorkspace_RemoveUnknown(t *testing.T) {
	ws := New()
	assert.Nil(t, ws.RemoveDocument("file:///nope.schema"))
}

func TestIndexer_Scan(t *testing.T) {
	root := t.TempDir()
	write := func(rel string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("type A {}"), 0o644))
	}
	write("a.schema")
	write("nested/b.schema")
	write("notes.txt")
	write(".hidden/c.schema")
	write("vendor/d.schema")

	accept := func(uri string) bool { return filepath.Ext(uri) == ".schema" }
	files := NewIndexer(accept, 0).Scan([]protocol.WorkspaceFolder{{URI: PathToURI(root), Name: "root"}})

	var names []string
	for _, f := range files {
		rel, err := filepath.Rel(root, f.Path)
		require.NoError(t, err)
		names = append(names, filepath.ToSlash(rel))
		assert.Equal(t, PathToURI(f.Path), f.URI)
	}
	assert.ElementsMatch(t, []string{"a.schema", "nested/b.schema"}, names)
}

func TestIndexer_MaxFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.schema", "b.schema", "c.schema"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o644))
	}

	files := NewIndexer(func(string) bool { return true }, 2).Scan([]protocol.WorkspaceFolder{{URI: PathToURI(root)}})
	assert.Len(t, files, 2)
}

func TestURIPathConversion(t *testing.T) {
	tests := []struct {
		uri  string
		path string
	}{
		{"file:///tmp/x.schema", "/tmp/x.schema"},
		{"file:///C:/x.schema", "C:/x.schema"},
		{"file:///tmp/my%20types/x.schema", "/tmp/my types/x.schema"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.path, URIToPath(tt.uri))
		assert.Equal(t, tt.uri, PathToURI(tt.path))
	}

	assert.Equal(t, "untitled:Untitled-1", URIToPath("untitled:Untitled-1"))
}
