package analysis

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
)

// delimiters never produce a token.
const delimiters = "()[]{};,.:"

// CollectSemanticTokens classifies every leaf of the document's tree and
// returns the tokens sorted by position.
func CollectSemanticTokens(ds *DocumentScope, legend *SemanticTokensLegend) []SemanticToken {
	if ds == nil || legend == nil || ds.Document == nil || ds.Document.Tree == nil {
		return nil
	}

	collector := &tokenCollector{
		ds:     ds,
		lang:   ds.Document.Language,
		lines:  ds.Document.Tree.Lines(),
		legend: legend,
	}

	syntax.Walk(ds.Document.Tree.Root, func(n *syntax.Node) bool {
		if n.IsLeaf() {
			collector.classify(n)
		}
		return true
	})

	sort.SliceStable(collector.tokens, func(i, j int) bool {
		if collector.tokens[i].Line != collector.tokens[j].Line {
			return collector.tokens[i].Line < collector.tokens[j].Line
		}
		return collector.tokens[i].StartChar < collector.tokens[j].StartChar
	})

	return collector.tokens
}

type tokenCollector struct {
	ds     *DocumentScope
	lang   *Language
	lines  *syntax.LineIndex
	legend *SemanticTokensLegend
	tokens []SemanticToken
}

func (tc *tokenCollector) classify(n *syntax.Node) {
	if n.Missing || n.EndByte <= n.StartByte {
		return
	}

	if decl := tc.ds.DeclarationAt(n); decl != nil {
		tc.addToken(n, tc.lang.TokenTypeFor(decl.DeclaredBy), tc.legend.GetModifierMask(TokenModifierDeclaration))
		return
	}
	// Unresolved references fall through to the name-based classification.
	if ref := tc.ds.ReferenceAt(n); ref != nil && ref.Resolved != nil {
		tc.addToken(n, tc.lang.TokenTypeFor(ref.Resolved.DeclaredBy), 0)
		return
	}

	if !n.Named {
		text := n.Text()
		r, _ := utf8.DecodeRuneInString(text)
		switch {
		case unicode.IsLetter(r):
			tc.addToken(n, TokenTypeKeyword, 0)
		case !strings.Contains(delimiters, text):
			tc.addToken(n, TokenTypeOperator, 0)
		}
		return
	}

	if tokenType := literalTokenType(n.Type); tokenType != "" {
		tc.addToken(n, tokenType, 0)
		return
	}
	if tc.lang != nil {
		if rule := tc.lang.Semantic[n.Type]; rule != nil && rule.References != nil {
			tc.addToken(n, TokenTypeVariable, 0)
		}
	}
}

// literalTokenType guesses a token type from a node type name.
func literalTokenType(nodeType string) string {
	t := strings.ToLower(nodeType)
	switch {
	case strings.Contains(t, "comment"):
		return TokenTypeComment
	case strings.Contains(t, "string"), strings.Contains(t, "char"), strings.Contains(t, "rune"):
		return TokenTypeString
	case strings.Contains(t, "number"), strings.Contains(t, "integer"), strings.Contains(t, "int_"),
		strings.Contains(t, "float"), strings.Contains(t, "imaginary"):
		return TokenTypeNumber
	case strings.Contains(t, "bool"), t == "true", t == "false":
		return TokenTypeKeyword
	}
	return ""
}

// addToken records n, split per line since tokens may not span lines.
func (tc *tokenCollector) addToken(n *syntax.Node, tokenType string, modifiers uint32) {
	typeIndex := tc.legend.GetTokenTypeIndex(tokenType)
	if typeIndex < 0 {
		log.Warningf("unknown token type %q for %s", tokenType, n.Type)
		return
	}

	start, end := n.StartPoint(), n.EndPoint()
	for line := start.Line; line <= end.Line; line++ {
		startChar := 0
		if line == start.Line {
			startChar = start.Character
		}
		endChar := end.Character
		if line != end.Line {
			endChar = syntax.UTF16Len(tc.lines.LineText(line))
		}
		if endChar <= startChar {
			continue
		}
		tc.tokens = append(tc.tokens, SemanticToken{
			Line:      uint32(line),
			StartChar: uint32(startChar),
			Length:    uint32(endChar - startChar),
			TokenType: uint32(typeIndex),
			Modifiers: modifiers,
		})
	}
}

// EncodeSemanticTokens delta-encodes sorted tokens into the LSP integer
// stream: deltaLine, deltaStartChar, length, tokenType, modifiers.
func EncodeSemanticTokens(tokens []SemanticToken) []uint32 {
	if len(tokens) == 0 {
		return []uint32{}
	}

	encoded := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevChar uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		deltaChar := token.StartChar
		if deltaLine == 0 {
			deltaChar = token.StartChar - prevChar
		}

		encoded = append(encoded,
			deltaLine,
			deltaChar,
			token.Length,
			token.TokenType,
			token.Modifiers,
		)

		prevLine = token.Line
		prevChar = token.StartChar
	}

	return encoded
}
