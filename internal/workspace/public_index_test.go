package workspace

import (
	"testing"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
)

const (
	testURI1 = "file:///one.schema"
	testURI2 = "file:///two.schema"
)

// declare creates a public root-scope declaration backed by a one-node tree.
func declare(name, kind string) *analysis.Declaration {
	tree := syntax.NewTree([]byte(name), &syntax.Node{Type: "identifier", Named: true, EndByte: len(name)}, nil)
	scope := analysis.NewScope(analysis.ScopeGlobal, nil, nil)
	return scope.Declare(name, tree.Root, kind, analysis.Public)
}

func TestPublicIndex_NewPublicIndex(t *testing.T) {
	index := NewPublicIndex()

	if index.FileCount() != 0 {
		t.Errorf("Expected 0 files, got %d", index.FileCount())
	}

	if index.NameCount() != 0 {
		t.Errorf("Expected 0 names, got %d", index.NameCount())
	}
}

func TestPublicIndex_Lookup(t *testing.T) {
	index := NewPublicIndex()

	foo := declare("Foo", "type")
	index.Add(testURI1, []*analysis.Declaration{foo})

	if got := index.Lookup("Foo", nil, ""); got != foo {
		t.Errorf("Expected Foo declaration, got %v", got)
	}

	if got := index.Lookup("Foo", []string{"type", "enum"}, ""); got != foo {
		t.Errorf("Expected Foo declaration for matching kinds, got %v", got)
	}

	if got := index.Lookup("Foo", []string{"enum"}, ""); got != nil {
		t.Errorf("Expected nil for non-matching kind, got %v", got)
	}

	if got := index.Lookup("Foo", nil, testURI1); got != nil {
		t.Errorf("Expected nil when the declaring file is excluded, got %v", got)
	}

	if got := index.Lookup("Missing", nil, ""); got != nil {
		t.Errorf("Expected nil for unknown name, got %v", got)
	}
}

func TestPublicIndex_FirstMatchWins(t *testing.T) {
	index := NewPublicIndex()

	first := declare("Helper", "function")
	second := declare("Helper", "function")
	index.Add(testURI1, []*analysis.Declaration{first})
	index.Add(testURI2, []*analysis.Declaration{second})

	if got := index.Lookup("Helper", nil, ""); got != first {
		t.Error("Expected the first indexed declaration to win")
	}

	entries := index.Find("Helper")
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	if entries[0].URI != testURI1 || entries[1].URI != testURI2 {
		t.Errorf("Expected entries in insertion order, got %s, %s", entries[0].URI, entries[1].URI)
	}
}

func TestPublicIndex_FindInFile(t *testing.T) {
	index := NewPublicIndex()

	index.Add(testURI1, []*analysis.Declaration{declare("A", "type"), declare("B", "enum")})
	index.Add(testURI2, []*analysis.Declaration{declare("A", "type")})

	if got := len(index.FindInFile(testURI1)); got != 2 {
		t.Errorf("Expected 2 entries in first file, got %d", got)
	}

	if got := len(index.FindInFile(testURI2)); got != 1 {
		t.Errorf("Expected 1 entry in second file, got %d", got)
	}

	if index.FileCount() != 2 {
		t.Errorf("Expected 2 files, got %d", index.FileCount())
	}
}

func TestPublicIndex_Clear(t *testing.T) {
	index := NewPublicIndex()
	index.Add(testURI1, []*analysis.Declaration{declare("A", "type")})

	index.Clear()

	if index.NameCount() != 0 || index.FileCount() != 0 {
		t.Errorf("Expected empty index after Clear, got %d names in %d files", index.NameCount(), index.FileCount())
	}
}

func TestPublicIndex_Search(t *testing.T) {
	index := NewPublicIndex()
	index.Add(testURI1, []*analysis.Declaration{
		declare("UserProfile", "type"),
		declare("userId", "variable"),
		declare("Role", "enum"),
	})

	tests := []struct {
		name       string
		query      string
		maxResults int
		want       []string
	}{
		{"case insensitive substring", "user", 0, []string{"UserProfile", "userId"}},
		{"empty query matches all", "", 0, []string{"Role", "UserProfile", "userId"}},
		{"limit", "", 1, []string{"Role"}},
		{"no match", "zzz", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := index.Search(tt.query, tt.maxResults)

			var names []string
			for _, r := range results {
				names = append(names, r.Declaration.Name)
			}

			if len(names) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, names)
			}

			for i := range names {
				if names[i] != tt.want[i] {
					t.Errorf("Expected %v, got %v", tt.want, names)
				}
			}
		})
	}
}
