package golang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/syntax/treesitter"
)

const source = `package main

type Point struct {
	X, Y int
}

func (p Point) Sum() int { return p.X + p.Y }

func add(a, b int) int {
	total := a + b
	for i, v := range []int{1} {
		total += i + v
	}
	return total
}
`

func build(t *testing.T, src string) *analysis.DocumentScope {
	t.Helper()

	p, err := treesitter.Load(ID)
	require.NoError(t, err)
	t.Cleanup(p.Close)

	tree, err := p.Parse([]byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	doc := &analysis.Document{URI: "file:///main.go", Tree: tree, Language: Language()}
	return analysis.BuildScopes(doc, nil, nil)
}

func TestLanguage_Declarations(t *testing.T) {
	ds := build(t, source)

	kinds := map[string]string{}
	for _, d := range ds.Declarations {
		kinds[d.Name] = d.DeclaredBy
	}

	assert.Equal(t, KindType, kinds["Point"])
	assert.Equal(t, KindField, kinds["X"])
	assert.Equal(t, KindMethod, kinds["Sum"])
	assert.Equal(t, KindFunction, kinds["add"])
	assert.Equal(t, KindParameter, kinds["a"])
	assert.Equal(t, KindParameter, kinds["b"])
	assert.Equal(t, KindVariable, kinds["total"])
	assert.Equal(t, KindVariable, kinds["v"])

	public := map[string]bool{}
	for _, d := range ds.PublicDeclarations() {
		public[d.Name] = true
	}
	assert.True(t, public["Point"])
	assert.True(t, public["add"])
	assert.False(t, public["total"], "locals never reach the root scope")
}

func TestLanguage_ResolvesLocals(t *testing.T) {
	ds := build(t, source)

	resolved := map[string]string{}
	for _, ref := range ds.References {
		if ref.Resolved != nil {
			resolved[ref.Name] = ref.Resolved.DeclaredBy
		}
	}

	assert.Equal(t, KindVariable, resolved["total"])
	assert.Equal(t, KindParameter, resolved["a"])
	assert.Equal(t, KindType, resolved["Point"])
}

func TestLanguage_UnresolvedIdentifiersAreIgnored(t *testing.T) {
	ds := build(t, "package main\n\nfunc f() { fmt.Println(undefinedThing) }\n")

	require.NotEmpty(t, ds.Unresolved())
	for _, ref := range ds.Unresolved() {
		rule := Language().ReferenceRuleFor(ref.Node)
		require.NotNil(t, rule)
		assert.Equal(t, analysis.UnresolvedIgnore, rule.OnUnresolved)
	}
}

func TestMethodLabel(t *testing.T) {
	ds := build(t, source)

	for _, d := range ds.Declarations {
		if d.Name == "Sum" {
			assert.Equal(t, "(Point).Sum", methodLabel(d.Parent(), d))
			return
		}
	}
	t.Fatal("method Sum not declared")
}
