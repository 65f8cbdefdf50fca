package diagnostics

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
)

// Validate runs the language's validators over every node of ds in document
// order.
func Validate(ds *analysis.DocumentScope) []protocol.Diagnostic {
	lang := ds.Document.Language
	if lang == nil || len(lang.Validation) == 0 {
		return nil
	}

	ctx := &validationContext{ds: ds}
	syntax.Walk(ds.Document.Tree.Root, func(n *syntax.Node) bool {
		validators := lang.Validation[n.Type]
		if len(validators) == 0 {
			return true
		}
		ctx.node = n
		for _, validate := range validators {
			validate(n, ctx)
		}
		return true
	})
	return ctx.out
}

// validationContext implements analysis.ValidationContext for one document.
type validationContext struct {
	ds   *analysis.DocumentScope
	node *syntax.Node
	out  []protocol.Diagnostic
}

func (c *validationContext) Error(target *syntax.Node, message string, opts ...analysis.ReportOption) {
	c.report(protocol.DiagnosticSeverityError, target, message, opts)
}

func (c *validationContext) Warning(target *syntax.Node, message string, opts ...analysis.ReportOption) {
	c.report(protocol.DiagnosticSeverityWarning, target, message, opts)
}

func (c *validationContext) Info(target *syntax.Node, message string, opts ...analysis.ReportOption) {
	c.report(protocol.DiagnosticSeverityInformation, target, message, opts)
}

func (c *validationContext) Hint(target *syntax.Node, message string, opts ...analysis.ReportOption) {
	c.report(protocol.DiagnosticSeverityHint, target, message, opts)
}

func (c *validationContext) report(severity protocol.DiagnosticSeverity, target *syntax.Node, message string, opts []analysis.ReportOption) {
	o := analysis.ApplyReportOptions(opts)
	at := target
	if o.At != nil {
		at = o.At
	}
	if at == nil {
		at = c.node
	}
	c.out = append(c.out, newDiagnostic(at, severity, message, o.Code))
}

func (c *validationContext) Resolve(node *syntax.Node) *analysis.Declaration {
	if ref := c.ds.ReferenceAt(node); ref != nil {
		return ref.Resolved
	}
	return nil
}

func (c *validationContext) ScopeOf(node *syntax.Node) *analysis.Scope {
	return c.ds.ScopeOf(node)
}

func (c *validationContext) DeclarationsOf(name string) []*analysis.Declaration {
	var out []*analysis.Declaration
	for _, d := range c.ds.Declarations {
		if d.Name == name {
			out = append(out, d)
		}
	}
	return out
}

func (c *validationContext) DeclarationAt(node *syntax.Node) *analysis.Declaration {
	return c.ds.DeclarationAt(node)
}

func (c *validationContext) ReferencesTo(decl *analysis.Declaration) []*analysis.Reference {
	var out []*analysis.Reference
	for _, ref := range c.ds.References {
		if ref.Resolved == decl {
			out = append(out, ref)
		}
	}
	return out
}
