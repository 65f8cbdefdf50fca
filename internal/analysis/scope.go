package analysis

import (
	"slices"

	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
)

// Declaration is a named binding introduced by a syntax node.
type Declaration struct {
	// Node is the name node. Its parent is the declaring node.
	Node       *syntax.Node
	Name       string
	DeclaredBy string
	Visibility Visibility
	Scope      *Scope
}

// Parent returns the declaring node, or the name node itself at the root.
func (d *Declaration) Parent() *syntax.Node {
	if p := d.Node.Parent(); p != nil {
		return p
	}
	return d.Node
}

// Reference is a use of a name. Resolved stays nil when nothing matched.
type Reference struct {
	Node       *syntax.Node
	Name       string
	Candidates []string
	Resolved   *Declaration
	Scope      *Scope
}

// Filter restricts declaration lookups. Zero values match everything.
type Filter struct {
	Kinds      []string
	Visibility Visibility
}

func (f Filter) match(d *Declaration) bool {
	if len(f.Kinds) > 0 && !slices.Contains(f.Kinds, d.DeclaredBy) {
		return false
	}
	if f.Visibility != "" && f.Visibility != d.Visibility {
		return false
	}
	return true
}

// Scope is one namespace in a document's scope tree.
type Scope struct {
	Kind     ScopeKind
	Owner    *syntax.Node
	Parent   *Scope
	Children []*Scope

	declarations map[string][]*Declaration
	// names keeps first-declaration order so listings are stable.
	names []string
}

// NewScope creates a scope and attaches it to parent, if any.
func NewScope(kind ScopeKind, owner *syntax.Node, parent *Scope) *Scope {
	s := &Scope{Kind: kind, Owner: owner}
	s.attach(parent)
	return s
}

func (s *Scope) attach(parent *Scope) {
	s.Parent = parent
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
}

// reset empties the scope for a rebuild while keeping its identity.
func (s *Scope) reset(kind ScopeKind, parent *Scope) {
	s.Kind = kind
	s.Children = nil
	s.declarations = nil
	s.names = nil
	s.attach(parent)
}

// Declare appends a declaration under name. Existing entries are never
// replaced.
func (s *Scope) Declare(name string, node *syntax.Node, declaredBy string, visibility Visibility) *Declaration {
	if s.declarations == nil {
		s.declarations = make(map[string][]*Declaration)
	}
	if _, ok := s.declarations[name]; !ok {
		s.names = append(s.names, name)
	}
	d := &Declaration{
		Node:       node,
		Name:       name,
		DeclaredBy: declaredBy,
		Visibility: visibility,
		Scope:      s,
	}
	s.declarations[name] = append(s.declarations[name], d)
	return d
}

// LookupLocal returns the first declaration of name in this scope only.
func (s *Scope) LookupLocal(name string, f Filter) *Declaration {
	for _, d := range s.declarations[name] {
		if f.match(d) {
			return d
		}
	}
	return nil
}

// Lookup searches this scope, then its ancestors. Isolated scopes end the
// search.
func (s *Scope) Lookup(name string, f Filter) *Declaration {
	for cur := s; cur != nil; cur = cur.Parent {
		if d := cur.LookupLocal(name, f); d != nil {
			return d
		}
		if cur.Kind == ScopeIsolated {
			return nil
		}
	}
	return nil
}

// AllDeclarations returns every declaration in this scope matching f.
func (s *Scope) AllDeclarations(f Filter) []*Declaration {
	var out []*Declaration
	for _, name := range s.names {
		for _, d := range s.declarations[name] {
			if f.match(d) {
				out = append(out, d)
			}
		}
	}
	return out
}

// Global returns the nearest global scope at or above s.
func (s *Scope) Global() *Scope {
	cur := s
	for cur.Kind != ScopeGlobal && cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}
