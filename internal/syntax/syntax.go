// Package syntax defines the concrete syntax tree the analysis engine works on.
//
// Trees are produced by a Parser (tree-sitter or a hand-written parser) and are
// read-only once built. Positions are 0-based lines and UTF-16 characters, the
// same coordinates LSP uses.
package syntax

import (
	"sync"
	"sync/atomic"
)

// nextID hands out node ids that are unique across every tree in the process,
// so nodes from different documents never collide.
var nextID atomic.Int64

// Point is a 0-based line / UTF-16 character position.
type Point struct {
	Line      int
	Character int
}

// Before reports whether p comes strictly before other.
func (p Point) Before(other Point) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

// Parser turns source text into a syntax tree.
type Parser interface {
	Parse(source []byte) (*Tree, error)
}

// Node is a single node of a concrete syntax tree.
//
// Parsers fill in Type, the byte range, the flags, Field and Children; NewTree
// computes everything else.
type Node struct {
	Type      string
	StartByte int
	EndByte   int
	Named     bool
	Error     bool
	Missing   bool

	// Field is the grammar field under which this node hangs off its parent.
	Field    string
	Children []*Node

	id     int64
	start  Point
	end    Point
	parent *Node
	tree   *Tree
	fields map[string][]*Node
}

// ID returns the node id, unique within the process.
func (n *Node) ID() int64 { return n.id }

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Tree returns the tree the node belongs to.
func (n *Node) Tree() *Tree { return n.tree }

// StartPoint returns the node's start position.
func (n *Node) StartPoint() Point { return n.start }

// EndPoint returns the node's end position.
func (n *Node) EndPoint() Point { return n.end }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Text returns the source text covered by the node.
func (n *Node) Text() string {
	if n.tree == nil {
		return ""
	}
	src := n.tree.source
	if n.StartByte < 0 || n.EndByte > len(src) || n.StartByte > n.EndByte {
		return ""
	}
	return string(src[n.StartByte:n.EndByte])
}

// ChildByField returns the first child stored under the given field.
func (n *Node) ChildByField(field string) *Node {
	children := n.fields[field]
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// ChildrenByField returns every child stored under the given field.
func (n *Node) ChildrenByField(field string) []*Node {
	return n.fields[field]
}

// Tree is a parsed document. It owns the parser's native handle, if any, until
// Close is called.
type Tree struct {
	Root *Node

	source  []byte
	lines   *LineIndex
	release func()
	once    sync.Once
}

// NewTree links the nodes under root (parents, ids, fields, positions) and
// returns the finished tree. release, if non-nil, frees the parser's native
// tree and runs at most once, from Close.
func NewTree(source []byte, root *Node, release func()) *Tree {
	t := &Tree{
		Root:    root,
		source:  source,
		lines:   NewLineIndex(source),
		release: release,
	}
	if root != nil {
		t.link(root, nil)
	}
	return t
}

func (t *Tree) link(n, parent *Node) {
	n.id = nextID.Add(1)
	n.parent = parent
	n.tree = t
	n.start = t.lines.PointAt(n.StartByte)
	n.end = t.lines.PointAt(n.EndByte)
	n.fields = nil
	for _, child := range n.Children {
		if child.Field != "" {
			if n.fields == nil {
				n.fields = make(map[string][]*Node)
			}
			n.fields[child.Field] = append(n.fields[child.Field], child)
		}
		t.link(child, n)
	}
}

// Source returns the text the tree was parsed from.
func (t *Tree) Source() []byte { return t.source }

// Lines returns the UTF-16 line index of the source.
func (t *Tree) Lines() *LineIndex { return t.lines }

// Close releases the parser's native tree. It is safe to call more than once.
func (t *Tree) Close() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		if t.release != nil {
			t.release()
		}
	})
}
