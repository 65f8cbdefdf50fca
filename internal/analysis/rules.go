package analysis

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
)

// ScopeKind controls how lookups leave a scope.
type ScopeKind string

const (
	// ScopeGlobal is a top-level namespace. Declarations targeting "global" land
	// in the nearest one.
	ScopeGlobal ScopeKind = "global"
	// ScopeLexical scopes fall back to their parent on lookup.
	ScopeLexical ScopeKind = "lexical"
	// ScopeIsolated scopes never search outward, even though they have a parent.
	ScopeIsolated ScopeKind = "isolated"
)

// Visibility decides whether a root-scope declaration is visible to other
// documents.
type Visibility string

const (
	Public  Visibility = "public"
	Private Visibility = "private"
)

// Declaration targets.
const (
	TargetGlobal    = "global"
	TargetEnclosing = "enclosing"
	TargetLocal     = "local"
)

// Declaration strategies.
const (
	// StrategyIfNotDeclared drops a declaration whose name already exists in the
	// target scope. First writer wins.
	StrategyIfNotDeclared = "if-not-declared"
	// StrategyAlways appends unconditionally.
	StrategyAlways = "always"
)

// Unresolved reference handling.
const (
	UnresolvedError   = "error"
	UnresolvedWarning = "warning"
	UnresolvedInfo    = "info"
	UnresolvedHint    = "hint"
	UnresolvedIgnore  = "ignore"
)

// Language is the declarative rule table for one language. The engine holds no
// language-specific logic; everything it knows about a grammar comes from here.
type Language struct {
	ID string

	// Semantic rules keyed by node type.
	Semantic map[string]*SemanticRule
	// Validation rules keyed by node type.
	Validation map[string][]Validator
	// LSP presentation rules keyed by declared kind (DeclareRule.DeclaredBy).
	LSP map[string]*LSPRule
	// Complete hooks keyed by node type.
	Complete map[string]CompleteFunc

	Keywords []string

	// Unresolved overrides the "Cannot find name" message.
	Unresolved func(ref *Reference) string
}

// SemanticRule describes what a node type means for name resolution.
type SemanticRule struct {
	Scope      ScopeKind
	Declares   *DeclareRule
	References *ReferenceRule
}

// DeclareRule describes a node that introduces one or more names.
type DeclareRule struct {
	// Field holds the name node.
	Field string
	// Names, when set, replaces Field for nodes binding several names.
	Names func(node *syntax.Node) []*syntax.Node
	// DeclaredBy is the declared kind; it defaults to the node type.
	DeclaredBy string

	Visibility     Visibility
	VisibilityFunc func(node *syntax.Node) Visibility

	// Target is "global", "enclosing" (default) or "local".
	Target string
	// Strategy is "if-not-declared" (default) or "always".
	Strategy string

	// Resolve may veto a declaration by returning false.
	Resolve func(node *syntax.Node, name string, target *Scope) bool
}

// ReferenceRule describes a node that uses a name.
type ReferenceRule struct {
	// Field holds the name node; empty means the node itself.
	Field string
	// To restricts resolution to these declared kinds. Empty means any kind.
	To []string

	// OnUnresolved is the severity of the unresolved diagnostic, or "ignore".
	OnUnresolved string
	Optional     bool

	// Resolve resolves the reference eagerly, during the walk. A nil result
	// leaves it to the regular scope lookup.
	Resolve func(ref *Reference, scope *Scope) *Declaration
}

// HoverContext is passed to hover handlers.
type HoverContext struct {
	Declaration *Declaration
	Scope       *DocumentScope
}

// SymbolRule controls how a declared kind shows up in symbol lists.
type SymbolRule struct {
	Kind protocol.SymbolKind

	Label     string
	LabelFunc func(parent *syntax.Node, decl *Declaration) string

	Detail     string
	DetailFunc func(parent *syntax.Node, decl *Declaration) string
}

// LSPRule holds presentation hints for one declared kind.
type LSPRule struct {
	Hover          func(parent *syntax.Node, ctx *HoverContext) string
	CompletionKind protocol.CompletionItemKind
	Symbol         *SymbolRule
	// TokenType overrides the semantic token type derived from Symbol.Kind.
	TokenType string
}

// CompletionItem is a single completion proposal produced by a hook.
type CompletionItem struct {
	Label  string
	Kind   protocol.CompletionItemKind
	Detail string
}

// CompletionResult is what a Complete hook returns. Replace drops every other
// source of proposals.
type CompletionResult struct {
	Items   []CompletionItem
	Replace bool
}

// CompletionContext is passed to Complete hooks.
type CompletionContext struct {
	Scope    *DocumentScope
	Position syntax.Point
	// Public holds every public declaration of the workspace.
	Public []*Declaration
}

// CompleteFunc proposes completions for the cursor node.
type CompleteFunc func(node *syntax.Node, ctx *CompletionContext) *CompletionResult

// Validator inspects one node and reports problems through ctx.
type Validator func(node *syntax.Node, ctx ValidationContext)

// ValidationContext is the API validators report through.
type ValidationContext interface {
	Error(target *syntax.Node, message string, opts ...ReportOption)
	Warning(target *syntax.Node, message string, opts ...ReportOption)
	Info(target *syntax.Node, message string, opts ...ReportOption)
	Hint(target *syntax.Node, message string, opts ...ReportOption)

	// Resolve returns the declaration a reference node resolved to.
	Resolve(node *syntax.Node) *Declaration
	ScopeOf(node *syntax.Node) *Scope
	DeclarationsOf(name string) []*Declaration
	DeclarationAt(node *syntax.Node) *Declaration
	ReferencesTo(decl *Declaration) []*Reference
}

// ReportOptions are the optional parts of a validator diagnostic.
type ReportOptions struct {
	Code string
	// At overrides the diagnostic range.
	At *syntax.Node
}

// ReportOption sets one of the ReportOptions.
type ReportOption func(*ReportOptions)

// WithCode sets the diagnostic code.
func WithCode(code string) ReportOption {
	return func(o *ReportOptions) { o.Code = code }
}

// At reports the diagnostic on node instead of the validated node.
func At(node *syntax.Node) ReportOption {
	return func(o *ReportOptions) { o.At = node }
}

// ApplyReportOptions folds opts into a ReportOptions value.
func ApplyReportOptions(opts []ReportOption) ReportOptions {
	var o ReportOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ReferenceRuleFor returns the reference rule of the nearest node, starting at
// n, whose type carries one.
func (l *Language) ReferenceRuleFor(n *syntax.Node) *ReferenceRule {
	for cur := n; cur != nil; cur = cur.Parent() {
		if rule := l.Semantic[cur.Type]; rule != nil && rule.References != nil {
			return rule.References
		}
	}
	return nil
}

// Presentation returns the LSP rule for a declared kind, or nil.
func (l *Language) Presentation(declaredBy string) *LSPRule {
	if l == nil {
		return nil
	}
	return l.LSP[declaredBy]
}
