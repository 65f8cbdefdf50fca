package schema

import (
	"fmt"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
)

// Diagnostic codes reported by the schema validators.
const (
	CodeDuplicateDeclaration = "duplicate-declaration"
	CodeEmptyEnum            = "empty-enum"
)

// validateDuplicate flags a declaration the resolver dropped because its name
// already existed in the same scope.
func validateDuplicate(n *syntax.Node, ctx analysis.ValidationContext) {
	name := n.ChildByField("name")
	if name == nil || name.Missing || ctx.DeclarationAt(name) != nil {
		return
	}
	target := ctx.ScopeOf(n.Parent())
	if isTopLevel(n) {
		target = target.Global()
	}
	if target.LookupLocal(name.Text(), analysis.Filter{}) == nil {
		return
	}
	ctx.Error(n, fmt.Sprintf("Duplicate declaration '%s'", name.Text()),
		analysis.WithCode(CodeDuplicateDeclaration), analysis.At(name))
}

func isTopLevel(n *syntax.Node) bool {
	switch n.Type {
	case "type_declaration", "enum_declaration", "function_declaration":
		return true
	}
	return false
}

func validateEnumMembers(n *syntax.Node, ctx analysis.ValidationContext) {
	if len(n.DescendantsOfType("enum_member")) > 0 {
		return
	}
	at := n
	if name := n.ChildByField("name"); name != nil && !name.Missing {
		at = name
	}
	ctx.Warning(n, fmt.Sprintf("Enum '%s' has no members", at.Text()),
		analysis.WithCode(CodeEmptyEnum), analysis.At(at))
}
