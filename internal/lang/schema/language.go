// Package schema is a small data-definition language used as the reference
// language of the server:
//
//	// comments
//	type User { name: Text, role: Role }
//	enum Role { Admin Guest }
//	private fn greet(u: User): Text { let n = u; return n; }
//
// Types, enums and functions are public unless marked private. Enums are
// isolated scopes: their members never see outer names.
package schema

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
)

// ID is the LSP language id of the schema language.
const ID = "schema"

// Declared kinds.
const (
	KindType       = "type"
	KindEnum       = "enum"
	KindField      = "field"
	KindEnumMember = "enum_member"
	KindFunction   = "function"
	KindParameter  = "parameter"
	KindVariable   = "variable"
)

// Language returns the rule table of the schema language.
func Language() *analysis.Language {
	return &analysis.Language{
		ID: ID,
		Semantic: map[string]*analysis.SemanticRule{
			"source_file": {Scope: analysis.ScopeGlobal},
			"type_declaration": {
				Scope: analysis.ScopeLexical,
				Declares: &analysis.DeclareRule{
					Field:          "name",
					DeclaredBy:     KindType,
					VisibilityFunc: visibility,
					Target:         analysis.TargetGlobal,
				},
			},
			"enum_declaration": {
				Scope: analysis.ScopeIsolated,
				Declares: &analysis.DeclareRule{
					Field:          "name",
					DeclaredBy:     KindEnum,
					VisibilityFunc: visibility,
					Target:         analysis.TargetGlobal,
				},
			},
			"field": {
				Declares: &analysis.DeclareRule{Field: "name", DeclaredBy: KindField},
			},
			"enum_member": {
				Declares: &analysis.DeclareRule{Field: "name", DeclaredBy: KindEnumMember},
			},
			"function_declaration": {
				Scope: analysis.ScopeLexical,
				Declares: &analysis.DeclareRule{
					Field:          "name",
					DeclaredBy:     KindFunction,
					VisibilityFunc: visibility,
					Target:         analysis.TargetGlobal,
				},
			},
			"parameter": {
				Declares: &analysis.DeclareRule{Field: "name", DeclaredBy: KindParameter},
			},
			"block": {Scope: analysis.ScopeLexical},
			"let_statement": {
				Declares: &analysis.DeclareRule{Field: "name", DeclaredBy: KindVariable, Target: analysis.TargetLocal},
			},
			"type_ref": {
				References: &analysis.ReferenceRule{To: []string{KindType, KindEnum}},
			},
			"name_ref": {
				References: &analysis.ReferenceRule{To: []string{KindVariable, KindParameter, KindFunction}},
			},
		},
		Validation: map[string][]analysis.Validator{
			"type_declaration":     {validateDuplicate},
			"enum_declaration":     {validateDuplicate, validateEnumMembers},
			"function_declaration": {validateDuplicate},
			"field":                {validateDuplicate},
			"enum_member":          {validateDuplicate},
			"parameter":            {validateDuplicate},
			"let_statement":        {validateDuplicate},
		},
		LSP: map[string]*analysis.LSPRule{
			KindType: {
				CompletionKind: protocol.CompletionItemKindClass,
				Symbol:         &analysis.SymbolRule{Kind: protocol.SymbolKindClass, DetailFunc: memberCount},
			},
			KindEnum: {
				CompletionKind: protocol.CompletionItemKindEnum,
				Symbol:         &analysis.SymbolRule{Kind: protocol.SymbolKindEnum, DetailFunc: memberCount},
			},
			KindField: {
				Hover:          typedHover(KindField),
				CompletionKind: protocol.CompletionItemKindField,
				TokenType:      analysis.TokenTypeProperty,
			},
			KindEnumMember: {
				CompletionKind: protocol.CompletionItemKindEnumMember,
				TokenType:      analysis.TokenTypeEnumMember,
			},
			KindFunction: {
				Hover:          functionHover,
				CompletionKind: protocol.CompletionItemKindFunction,
				Symbol:         &analysis.SymbolRule{Kind: protocol.SymbolKindFunction, DetailFunc: signature},
			},
			KindParameter: {
				Hover:          typedHover(KindParameter),
				CompletionKind: protocol.CompletionItemKindVariable,
				TokenType:      analysis.TokenTypeParameter,
			},
			KindVariable: {
				Hover:          typedHover(KindVariable),
				CompletionKind: protocol.CompletionItemKindVariable,
			},
		},
		Complete: map[string]analysis.CompleteFunc{
			"type_ref": completeTypes,
		},
		Keywords: []string{"type", "enum", "fn", "let", "return", "private", "true", "false"},
	}
}

func visibility(n *syntax.Node) analysis.Visibility {
	if n.ChildByField("visibility") != nil {
		return analysis.Private
	}
	return analysis.Public
}

// typedHover renders "**kind** `name`: `Type`", leaving out the type when the
// declaration has none.
func typedHover(kind string) func(*syntax.Node, *analysis.HoverContext) string {
	return func(parent *syntax.Node, ctx *analysis.HoverContext) string {
		text := fmt.Sprintf("**%s** `%s`", kind, ctx.Declaration.Name)
		if t := parent.ChildByField("type"); t != nil && !t.Missing {
			text += fmt.Sprintf(": `%s`", t.Text())
		}
		return text
	}
}

func functionHover(parent *syntax.Node, ctx *analysis.HoverContext) string {
	return fmt.Sprintf("**function** `%s%s`", ctx.Declaration.Name, signature(parent, ctx.Declaration))
}

// signature renders "(a: A, b: B): R".
func signature(parent *syntax.Node, _ *analysis.Declaration) string {
	out := "("
	if params := parent.ChildByField("parameters"); params != nil {
		for i, p := range params.DescendantsOfType("parameter") {
			if i > 0 {
				out += ", "
			}
			out += p.ChildByField("name").Text()
			if t := p.ChildByField("type"); t != nil && !t.Missing {
				out += ": " + t.Text()
			}
		}
	}
	out += ")"
	if r := parent.ChildByField("result"); r != nil && !r.Missing {
		out += ": " + r.Text()
	}
	return out
}

func memberCount(parent *syntax.Node, _ *analysis.Declaration) string {
	n := len(parent.DescendantsOfType("field", "enum_member"))
	if n == 1 {
		return "1 member"
	}
	return fmt.Sprintf("%d members", n)
}

// completeTypes offers only type and enum names in a type position.
func completeTypes(_ *syntax.Node, ctx *analysis.CompletionContext) *analysis.CompletionResult {
	result := &analysis.CompletionResult{Replace: true}
	seen := map[string]bool{}
	candidates := ctx.Scope.Root.AllDeclarations(analysis.Filter{})
	candidates = append(candidates, ctx.Public...)
	for _, d := range candidates {
		if (d.DeclaredBy != KindType && d.DeclaredBy != KindEnum) || seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		kind := protocol.CompletionItemKindClass
		if d.DeclaredBy == KindEnum {
			kind = protocol.CompletionItemKindEnum
		}
		result.Items = append(result.Items, analysis.CompletionItem{Label: d.Name, Kind: kind, Detail: d.DeclaredBy})
	}
	return result
}
