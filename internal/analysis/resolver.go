package analysis

import (
	"github.com/tliron/commonlog"

	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
)

var log = commonlog.GetLogger("sitter-lsp.analysis")

// Document is one parsed file ready for analysis.
type Document struct {
	URI      string
	Tree     *syntax.Tree
	Language *Language
}

// PublicLookup resolves names against declarations published by other
// documents.
type PublicLookup interface {
	LookupPublic(name string, kinds []string) *Declaration
}

// DeclarationSink is implemented by lookups that also answer from the
// document being built. BuildScopes calls Declared once every declaration of
// the document exists and before any pending reference is resolved.
type DeclarationSink interface {
	Declared(ds *DocumentScope)
}

// DocumentScope is the full resolved state of one document. It is rebuilt
// wholesale on every change, never patched.
type DocumentScope struct {
	Document     *Document
	Root         *Scope
	Declarations []*Declaration
	References   []*Reference

	scopes   map[int64]*Scope
	declByID map[int64]*Declaration
	refByID  map[int64]*Reference
}

// ScopeFor returns the scope owned by node, if it owns one.
func (ds *DocumentScope) ScopeFor(node *syntax.Node) *Scope {
	return ds.scopes[node.ID()]
}

// ScopeOf returns the innermost scope containing node.
func (ds *DocumentScope) ScopeOf(node *syntax.Node) *Scope {
	for cur := node; cur != nil; cur = cur.Parent() {
		if s, ok := ds.scopes[cur.ID()]; ok {
			return s
		}
	}
	return ds.Root
}

// DeclarationAt returns the declaration whose name node is node.
func (ds *DocumentScope) DeclarationAt(node *syntax.Node) *Declaration {
	if node == nil {
		return nil
	}
	return ds.declByID[node.ID()]
}

// ReferenceAt returns the reference whose name node is node.
func (ds *DocumentScope) ReferenceAt(node *syntax.Node) *Reference {
	if node == nil {
		return nil
	}
	return ds.refByID[node.ID()]
}

// PublicDeclarations returns the root scope's public declarations.
func (ds *DocumentScope) PublicDeclarations() []*Declaration {
	return ds.Root.AllDeclarations(Filter{Visibility: Public})
}

// Unresolved returns the references that did not resolve.
func (ds *DocumentScope) Unresolved() []*Reference {
	var out []*Reference
	for _, ref := range ds.References {
		if ref.Resolved == nil {
			out = append(out, ref)
		}
	}
	return out
}

type builder struct {
	lang     *Language
	ds       *DocumentScope
	previous map[int64]*Scope
	declared map[int64]bool
	pending  []*Reference
}

// BuildScopes walks doc's tree, builds its scope tree and resolves every
// reference. Names not found in the document fall back to lookup when it is
// non-nil. Scope objects from previous are reused for nodes that still exist.
func BuildScopes(doc *Document, lookup PublicLookup, previous *DocumentScope) *DocumentScope {
	ds := &DocumentScope{
		Document: doc,
		scopes:   make(map[int64]*Scope),
		declByID: make(map[int64]*Declaration),
		refByID:  make(map[int64]*Reference),
	}
	b := &builder{
		lang:     doc.Language,
		ds:       ds,
		declared: make(map[int64]bool),
	}
	if previous != nil {
		b.previous = previous.scopes
	}

	root := doc.Tree.Root
	kind := ScopeGlobal
	if rule := b.rule(root); rule != nil && rule.Scope != "" {
		kind = rule.Scope
	}
	ds.Root = b.scope(root, kind, nil)

	b.visit(root, ds.Root, true)

	if sink, ok := lookup.(DeclarationSink); ok {
		sink.Declared(ds)
	}
	for _, ref := range b.pending {
		b.resolve(ref, lookup)
	}

	log.Debugf("built scopes for %s: %d declarations, %d references", doc.URI, len(ds.Declarations), len(ds.References))
	return ds
}

func (b *builder) rule(n *syntax.Node) *SemanticRule {
	if b.lang == nil {
		return nil
	}
	return b.lang.Semantic[n.Type]
}

func (b *builder) scope(owner *syntax.Node, kind ScopeKind, parent *Scope) *Scope {
	s, ok := b.previous[owner.ID()]
	if ok {
		s.reset(kind, parent)
	} else {
		s = NewScope(kind, owner, parent)
	}
	b.ds.scopes[owner.ID()] = s
	return s
}

func (b *builder) visit(n *syntax.Node, enclosing *Scope, isRoot bool) {
	rule := b.rule(n)
	current := enclosing
	if rule != nil {
		if rule.Scope != "" && !isRoot {
			current = b.scope(n, rule.Scope, enclosing)
		}
		if rule.Declares != nil {
			b.declare(n, rule.Declares, enclosing)
		}
		if rule.References != nil {
			b.reference(n, rule.References, current)
		}
	}
	for _, child := range n.Children {
		b.visit(child, current, false)
	}
}

func (b *builder) declare(n *syntax.Node, rule *DeclareRule, enclosing *Scope) {
	var names []*syntax.Node
	switch {
	case rule.Names != nil:
		names = rule.Names(n)
	case rule.Field != "":
		names = n.ChildrenByField(rule.Field)
	}

	declaredBy := rule.DeclaredBy
	if declaredBy == "" {
		declaredBy = n.Type
	}
	visibility := rule.Visibility
	if rule.VisibilityFunc != nil {
		visibility = rule.VisibilityFunc(n)
	}
	if visibility == "" {
		visibility = Private
	}

	target := enclosing
	if rule.Target == TargetGlobal {
		target = enclosing.Global()
	}

	for _, nameNode := range names {
		if nameNode == nil || nameNode.Missing {
			continue
		}
		name := nameNode.Text()
		if name == "" {
			continue
		}
		// The name node is never a reference, even when the declaration is dropped.
		b.declared[nameNode.ID()] = true

		if rule.Strategy != StrategyAlways && target.LookupLocal(name, Filter{}) != nil {
			continue
		}
		if rule.Resolve != nil && !rule.Resolve(n, name, target) {
			continue
		}
		d := target.Declare(name, nameNode, declaredBy, visibility)
		b.ds.Declarations = append(b.ds.Declarations, d)
		b.ds.declByID[nameNode.ID()] = d
	}
}

func (b *builder) reference(n *syntax.Node, rule *ReferenceRule, current *Scope) {
	nameNode := n
	if rule.Field != "" {
		nameNode = n.ChildByField(rule.Field)
	}
	if nameNode == nil || nameNode.Missing || b.declared[nameNode.ID()] {
		return
	}
	if _, seen := b.ds.refByID[nameNode.ID()]; seen {
		return
	}
	name := nameNode.Text()
	if name == "" {
		return
	}

	ref := &Reference{
		Node:       nameNode,
		Name:       name,
		Candidates: rule.To,
		Scope:      current,
	}
	b.ds.References = append(b.ds.References, ref)
	b.ds.refByID[nameNode.ID()] = ref

	if rule.Resolve != nil {
		ref.Resolved = rule.Resolve(ref, current)
	}
	if ref.Resolved == nil {
		b.pending = append(b.pending, ref)
	}
}

func (b *builder) resolve(ref *Reference, lookup PublicLookup) {
	owner := b.ds.ScopeOf(ref.Node)
	ref.Scope = owner
	if d := owner.Lookup(ref.Name, Filter{Kinds: ref.Candidates}); d != nil {
		ref.Resolved = d
		return
	}
	if lookup != nil {
		ref.Resolved = lookup.LookupPublic(ref.Name, ref.Candidates)
	}
}
