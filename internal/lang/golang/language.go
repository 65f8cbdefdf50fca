// Package golang is the rule table for Go source, parsed with tree-sitter-go.
//
// Package-level names are published to the workspace so files of one package
// resolve each other. Builtins and imported package names are not modelled,
// so unresolved identifiers are never reported.
package golang

import (
	"fmt"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
)

// ID is the LSP language id of Go, and the name of its tree-sitter grammar.
const ID = "go"

// Declared kinds.
const (
	KindFunction  = "function"
	KindMethod    = "method"
	KindType      = "type"
	KindField     = "field"
	KindParameter = "parameter"
	KindVariable  = "variable"
	KindConstant  = "constant"
)

var valueKinds = []string{KindFunction, KindVariable, KindParameter, KindConstant}

// Language returns the Go rule table.
func Language() *analysis.Language {
	public := analysis.Public
	lexical := &analysis.SemanticRule{Scope: analysis.ScopeLexical}

	return &analysis.Language{
		ID: ID,
		Semantic: map[string]*analysis.SemanticRule{
			"source_file": {Scope: analysis.ScopeGlobal},
			"function_declaration": {
				Scope:    analysis.ScopeLexical,
				Declares: &analysis.DeclareRule{Field: "name", DeclaredBy: KindFunction, Visibility: public, Target: analysis.TargetGlobal},
			},
			"method_declaration": {
				Scope: analysis.ScopeLexical,
				// Methods of different receivers share names.
				Declares: &analysis.DeclareRule{
					Field:      "name",
					DeclaredBy: KindMethod,
					Visibility: public,
					Target:     analysis.TargetGlobal,
					Strategy:   analysis.StrategyAlways,
				},
			},
			"type_spec": {
				Declares: &analysis.DeclareRule{Field: "name", DeclaredBy: KindType, Visibility: public},
			},
			"type_alias": {
				Declares: &analysis.DeclareRule{Field: "name", DeclaredBy: KindType, Visibility: public},
			},
			"struct_type":    {Scope: analysis.ScopeLexical},
			"interface_type": {Scope: analysis.ScopeLexical},
			"field_declaration": {
				Declares: &analysis.DeclareRule{Field: "name", DeclaredBy: KindField},
			},
			"parameter_declaration": {
				Declares: &analysis.DeclareRule{Field: "name", DeclaredBy: KindParameter},
			},
			"variadic_parameter_declaration": {
				Declares: &analysis.DeclareRule{Field: "name", DeclaredBy: KindParameter},
			},
			"var_spec": {
				Declares: &analysis.DeclareRule{Field: "name", DeclaredBy: KindVariable, Visibility: public},
			},
			"const_spec": {
				Declares: &analysis.DeclareRule{Field: "name", DeclaredBy: KindConstant, Visibility: public},
			},
			"short_var_declaration": {
				Declares: &analysis.DeclareRule{Names: shortVarNames, DeclaredBy: KindVariable},
			},
			"range_clause": {
				Declares: &analysis.DeclareRule{Names: rangeNames, DeclaredBy: KindVariable},
			},
			"block":                       lexical,
			"func_literal":                lexical,
			"if_statement":                lexical,
			"for_statement":               lexical,
			"expression_switch_statement": lexical,
			"type_switch_statement":       lexical,
			"identifier": {
				References: &analysis.ReferenceRule{To: valueKinds, OnUnresolved: analysis.UnresolvedIgnore},
			},
			"type_identifier": {
				References: &analysis.ReferenceRule{To: []string{KindType}, OnUnresolved: analysis.UnresolvedIgnore},
			},
		},
		LSP: map[string]*analysis.LSPRule{
			KindFunction: {
				Hover:          funcHover,
				CompletionKind: protocol.CompletionItemKindFunction,
				Symbol:         &analysis.SymbolRule{Kind: protocol.SymbolKindFunction, DetailFunc: signature},
			},
			KindMethod: {
				Hover:          funcHover,
				CompletionKind: protocol.CompletionItemKindMethod,
				Symbol:         &analysis.SymbolRule{Kind: protocol.SymbolKindMethod, LabelFunc: methodLabel, DetailFunc: signature},
			},
			KindType: {
				Hover:          typeHover,
				CompletionKind: protocol.CompletionItemKindStruct,
				Symbol:         &analysis.SymbolRule{Kind: protocol.SymbolKindStruct},
			},
			KindField: {
				CompletionKind: protocol.CompletionItemKindField,
				TokenType:      analysis.TokenTypeProperty,
			},
			KindParameter: {
				CompletionKind: protocol.CompletionItemKindVariable,
				TokenType:      analysis.TokenTypeParameter,
			},
			KindVariable: {
				CompletionKind: protocol.CompletionItemKindVariable,
			},
			KindConstant: {
				CompletionKind: protocol.CompletionItemKindConstant,
				Symbol:         &analysis.SymbolRule{Kind: protocol.SymbolKindConstant},
			},
		},
		Keywords: keywords,
	}
}

var keywords = []string{
	"break", "case", "chan", "const", "continue", "default", "defer", "else",
	"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
	"map", "package", "range", "return", "select", "struct", "switch", "type", "var",
}

// shortVarNames returns the identifiers on the left of :=.
func shortVarNames(n *syntax.Node) []*syntax.Node {
	return identifiersIn(n.ChildByField("left"))
}

// rangeNames returns the identifiers bound by "for k, v := range".
func rangeNames(n *syntax.Node) []*syntax.Node {
	if op := operatorOf(n); op != ":=" {
		return nil
	}
	return identifiersIn(n.ChildByField("left"))
}

func operatorOf(n *syntax.Node) string {
	for _, c := range n.Children {
		if !c.Named {
			if t := c.Text(); t == ":=" || t == "=" {
				return t
			}
		}
	}
	return ""
}

func identifiersIn(list *syntax.Node) []*syntax.Node {
	if list == nil {
		return nil
	}
	if list.Type == "identifier" {
		return []*syntax.Node{list}
	}
	var out []*syntax.Node
	for _, c := range list.Children {
		if c.Type == "identifier" && c.Text() != "_" {
			out = append(out, c)
		}
	}
	return out
}

// signature renders the parameter and result lists of a func or method.
func signature(parent *syntax.Node, _ *analysis.Declaration) string {
	var b strings.Builder
	if params := parent.ChildByField("parameters"); params != nil {
		b.WriteString(params.Text())
	}
	if result := parent.ChildByField("result"); result != nil {
		b.WriteString(" ")
		b.WriteString(result.Text())
	}
	return b.String()
}

func funcHover(parent *syntax.Node, ctx *analysis.HoverContext) string {
	prefix := "func "
	if recv := parent.ChildByField("receiver"); recv != nil {
		prefix += recv.Text() + " "
	}
	return fmt.Sprintf("```go\n%s%s%s\n```", prefix, ctx.Declaration.Name, signature(parent, ctx.Declaration))
}

func typeHover(parent *syntax.Node, ctx *analysis.HoverContext) string {
	underlying := ""
	if t := parent.ChildByField("type"); t != nil {
		switch t.Type {
		case "struct_type":
			underlying = " struct"
		case "interface_type":
			underlying = " interface"
		default:
			underlying = " " + t.Text()
		}
	}
	return fmt.Sprintf("```go\ntype %s%s\n```", ctx.Declaration.Name, underlying)
}

// methodLabel renders "(Recv).Name".
func methodLabel(parent *syntax.Node, decl *analysis.Declaration) string {
	recv := parent.ChildByField("receiver")
	if recv == nil {
		return decl.Name
	}
	types := recv.DescendantsOfType("type_identifier")
	if len(types) == 0 {
		return decl.Name
	}
	return fmt.Sprintf("(%s).%s", types[0].Text(), decl.Name)
}
