package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPair builds the tree for "ab cd" by hand: a root with two named leaves,
// the second one under the "value" field.
func buildPair(t *testing.T) *Tree {
	t.Helper()

	root := &Node{Type: "pair", Named: true, StartByte: 0, EndByte: 5, Children: []*Node{
		{Type: "identifier", Named: true, StartByte: 0, EndByte: 2, Field: "key"},
		{Type: "identifier", Named: true, StartByte: 3, EndByte: 5, Field: "value"},
	}}
	return NewTree([]byte("ab cd"), root, nil)
}

func TestNewTree_LinksNodes(t *testing.T) {
	tree := buildPair(t)
	root := tree.Root

	require.Len(t, root.Children, 2)
	key, value := root.Children[0], root.Children[1]

	assert.Same(t, root, key.Parent())
	assert.Same(t, tree, value.Tree())
	assert.Nil(t, root.Parent())
	assert.NotEqual(t, key.ID(), value.ID())
	assert.Equal(t, "ab", key.Text())
	assert.Equal(t, "cd", value.Text())
	assert.Same(t, value, root.ChildByField("value"))
	assert.Nil(t, root.ChildByField("missing"))
	assert.Equal(t, Point{Line: 0, Character: 3}, value.StartPoint())
	assert.True(t, value.IsLeaf())
	assert.False(t, root.IsLeaf())
}

func TestNewTree_IDsAreUniqueAcrossTrees(t *testing.T) {
	a := buildPair(t)
	b := buildPair(t)

	assert.NotEqual(t, a.Root.ID(), b.Root.ID())
}

func TestTree_CloseReleasesOnce(t *testing.T) {
	calls := 0
	tree := NewTree([]byte("x"), &Node{Type: "x", StartByte: 0, EndByte: 1}, func() { calls++ })

	tree.Close()
	tree.Close()

	assert.Equal(t, 1, calls)

	var nilTree *Tree
	assert.NotPanics(t, func() { nilTree.Close() })
}

func TestLineIndex_RoundTrip(t *testing.T) {
	src := []byte("type Foo {\n  x: Bär\n}\n")
	li := NewLineIndex(src)

	tests := []struct {
		name   string
		offset int
		point  Point
	}{
		{"start of file", 0, Point{0, 0}},
		{"inside first line", 5, Point{0, 5}},
		{"start of second line", 11, Point{1, 0}},
		{"after multibyte rune", 19, Point{1, 7}},
		{"last line", 21, Point{2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.point, li.PointAt(tt.offset))
			assert.Equal(t, tt.offset, li.OffsetAt(tt.point))
		})
	}
}

func TestLineIndex_Clamps(t *testing.T) {
	li := NewLineIndex([]byte("ab\ncd"))

	assert.Equal(t, 2, li.OffsetAt(Point{Line: 0, Character: 99}))
	assert.Equal(t, 5, li.OffsetAt(Point{Line: 9, Character: 0}))
	assert.Equal(t, Point{Line: 1, Character: 2}, li.PointAt(100))
	assert.Equal(t, "cd", li.LineText(1))
	assert.Equal(t, 2, li.LineCount())
}

func TestLineIndex_SurrogatePairs(t *testing.T) {
	li := NewLineIndex([]byte("a😀b"))

	// the emoji takes two UTF-16 units
	assert.Equal(t, Point{Line: 0, Character: 3}, li.PointAt(5))
	assert.Equal(t, 5, li.OffsetAt(Point{Line: 0, Character: 3}))
	assert.Equal(t, 2, UTF16Len("😀"))
}

func TestDescendantForOffset(t *testing.T) {
	tree := buildPair(t)

	assert.Equal(t, "ab", tree.Root.DescendantForOffset(1).Text())
	// the space between the leaves belongs to the root only
	assert.Same(t, tree.Root, tree.Root.DescendantForOffset(2))
	assert.Equal(t, "cd", tree.DescendantForPoint(Point{Line: 0, Character: 3}).Text())
}

func TestDescendantsOfType(t *testing.T) {
	tree := buildPair(t)

	assert.Len(t, tree.Root.DescendantsOfType("identifier"), 2)
	assert.Len(t, tree.Root.DescendantsOfType("pair", "identifier"), 3)
	assert.Empty(t, tree.Root.DescendantsOfType("nothing"))
	assert.Equal(t, []*Node{tree.Root}, tree.Root.Children[0].Ancestors())
}
