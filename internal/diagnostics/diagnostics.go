// Package diagnostics derives LSP diagnostics from a resolved document.
//
// Three passes run in a fixed order and their results are concatenated, not
// sorted: syntax problems, unresolved references, then language validators.
package diagnostics

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
)

// Source is set on every diagnostic the engine produces.
const Source = "sitter-lsp"

// Diagnostic codes.
const (
	CodeMissingNode         = "missing-node"
	CodeSyntaxError         = "syntax-error"
	CodeUnresolvedReference = "unresolved-reference"
	CodeGrammarNotLoaded    = "grammar-not-loaded"
)

// Compute returns every diagnostic of ds.
func Compute(ds *analysis.DocumentScope) []protocol.Diagnostic {
	if ds == nil || ds.Document == nil || ds.Document.Tree == nil {
		return []protocol.Diagnostic{}
	}

	diagnostics := []protocol.Diagnostic{}
	diagnostics = append(diagnostics, SyntaxErrors(ds.Document.Tree.Root)...)
	diagnostics = append(diagnostics, UnresolvedReferences(ds)...)
	diagnostics = append(diagnostics, Validate(ds)...)
	return diagnostics
}

// SyntaxErrors reports missing nodes and error nodes. An error node is only
// reported when none of its direct children already is a problem, so one
// mistake yields one diagnostic.
func SyntaxErrors(root *syntax.Node) []protocol.Diagnostic {
	var out []protocol.Diagnostic
	var visit func(n *syntax.Node)
	visit = func(n *syntax.Node) {
		if n.Missing {
			out = append(out, newDiagnostic(n, protocol.DiagnosticSeverityError, "Missing "+n.Type, CodeMissingNode))
			return
		}
		if n.Error && !hasProblemChild(n) {
			out = append(out, newDiagnostic(n, protocol.DiagnosticSeverityError, "Syntax error", CodeSyntaxError))
		}
		for _, child := range n.Children {
			visit(child)
		}
	}
	if root != nil {
		visit(root)
	}
	return out
}

func hasProblemChild(n *syntax.Node) bool {
	for _, child := range n.Children {
		if child.Error || child.Missing {
			return true
		}
	}
	return false
}

// UnresolvedReferences reports references that resolved to nothing, with the
// severity of the nearest reference rule.
func UnresolvedReferences(ds *analysis.DocumentScope) []protocol.Diagnostic {
	lang := ds.Document.Language
	var out []protocol.Diagnostic
	for _, ref := range ds.Unresolved() {
		var rule *analysis.ReferenceRule
		if lang != nil {
			rule = lang.ReferenceRuleFor(ref.Node)
		}
		onUnresolved := analysis.UnresolvedError
		if rule != nil {
			if rule.Optional {
				continue
			}
			if rule.OnUnresolved != "" {
				onUnresolved = rule.OnUnresolved
			}
		}
		if onUnresolved == analysis.UnresolvedIgnore {
			continue
		}

		message := ""
		if lang != nil && lang.Unresolved != nil {
			message = lang.Unresolved(ref)
		}
		if message == "" {
			message = fmt.Sprintf("Cannot find name '%s'", ref.Name)
		}
		out = append(out, newDiagnostic(ref.Node, mapSeverity(onUnresolved), message, CodeUnresolvedReference))
	}
	return out
}

// GrammarNotLoaded is the single diagnostic published for a document whose
// language could not be initialized.
func GrammarNotLoaded(language string, err error) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := Source
	code := protocol.IntegerOrString{Value: CodeGrammarNotLoaded}
	return protocol.Diagnostic{
		Range:    protocol.Range{},
		Severity: &severity,
		Code:     &code,
		Source:   &source,
		Message:  fmt.Sprintf("Grammar for %s not loaded: %v", language, err),
	}
}

func newDiagnostic(n *syntax.Node, severity protocol.DiagnosticSeverity, message, code string) protocol.Diagnostic {
	source := Source
	d := protocol.Diagnostic{
		Range:    analysis.Range(n),
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
	if code != "" {
		c := protocol.IntegerOrString{Value: code}
		d.Code = &c
	}
	return d
}

// mapSeverity maps a rule severity name to its LSP value.
func mapSeverity(severity string) protocol.DiagnosticSeverity {
	switch severity {
	case analysis.UnresolvedWarning:
		return protocol.DiagnosticSeverityWarning
	case analysis.UnresolvedInfo:
		return protocol.DiagnosticSeverityInformation
	case analysis.UnresolvedHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}
