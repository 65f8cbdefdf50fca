package analysis

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SemanticToken is a raw semantic token before delta encoding.
type SemanticToken struct {
	Line      uint32 // 0-based line
	StartChar uint32 // 0-based UTF-16 character
	Length    uint32 // UTF-16 length
	TokenType uint32 // index into the legend's token types
	Modifiers uint32 // modifier bit set
}

// SemanticTokensLegend is the fixed set of token types and modifiers the
// server advertises. Indices must stay stable for the lifetime of a session.
type SemanticTokensLegend struct {
	TokenTypes     []string
	TokenModifiers []string
}

// Token types.
const (
	TokenTypeNamespace     = "namespace"
	TokenTypeType          = "type"
	TokenTypeClass         = "class"
	TokenTypeEnum          = "enum"
	TokenTypeInterface     = "interface"
	TokenTypeStruct        = "struct"
	TokenTypeTypeParameter = "typeParameter"
	TokenTypeParameter     = "parameter"
	TokenTypeVariable      = "variable"
	TokenTypeProperty      = "property"
	TokenTypeEnumMember    = "enumMember"
	TokenTypeFunction      = "function"
	TokenTypeMethod        = "method"
	TokenTypeKeyword       = "keyword"
	TokenTypeString        = "string"
	TokenTypeNumber        = "number"
	TokenTypeComment       = "comment"
	TokenTypeOperator      = "operator"
)

// Token modifiers.
const (
	TokenModifierDeclaration = "declaration"
	TokenModifierReadonly    = "readonly"
	TokenModifierStatic      = "static"
	TokenModifierDeprecated  = "deprecated"
)

// NewSemanticTokensLegend returns the legend shared by every language.
func NewSemanticTokensLegend() *SemanticTokensLegend {
	return &SemanticTokensLegend{
		TokenTypes: []string{
			TokenTypeNamespace,
			TokenTypeType,
			TokenTypeClass,
			TokenTypeEnum,
			TokenTypeInterface,
			TokenTypeStruct,
			TokenTypeTypeParameter,
			TokenTypeParameter,
			TokenTypeVariable,
			TokenTypeProperty,
			TokenTypeEnumMember,
			TokenTypeFunction,
			TokenTypeMethod,
			TokenTypeKeyword,
			TokenTypeString,
			TokenTypeNumber,
			TokenTypeComment,
			TokenTypeOperator,
		},
		TokenModifiers: []string{
			TokenModifierDeclaration,
			TokenModifierReadonly,
			TokenModifierStatic,
			TokenModifierDeprecated,
		},
	}
}

// ToProtocolLegend converts the legend to its wire form.
func (l *SemanticTokensLegend) ToProtocolLegend() protocol.SemanticTokensLegend {
	return protocol.SemanticTokensLegend{
		TokenTypes:     l.TokenTypes,
		TokenModifiers: l.TokenModifiers,
	}
}

// GetTokenTypeIndex returns the index of tokenType, or -1.
func (l *SemanticTokensLegend) GetTokenTypeIndex(tokenType string) int {
	for i, t := range l.TokenTypes {
		if t == tokenType {
			return i
		}
	}
	return -1
}

// GetModifierMask ORs the bits of the given modifiers.
func (l *SemanticTokensLegend) GetModifierMask(modifiers ...string) uint32 {
	var mask uint32
	for _, modifier := range modifiers {
		for i, m := range l.TokenModifiers {
			if m == modifier {
				mask |= 1 << uint32(i)
				break
			}
		}
	}
	return mask
}

// TokenTypeForSymbol maps a symbol kind onto the legend.
func TokenTypeForSymbol(kind protocol.SymbolKind) string {
	switch kind {
	case protocol.SymbolKindClass:
		return TokenTypeClass
	case protocol.SymbolKindEnum:
		return TokenTypeEnum
	case protocol.SymbolKindInterface:
		return TokenTypeInterface
	case protocol.SymbolKindStruct:
		return TokenTypeStruct
	case protocol.SymbolKindFunction, protocol.SymbolKindConstructor:
		return TokenTypeFunction
	case protocol.SymbolKindMethod:
		return TokenTypeMethod
	case protocol.SymbolKindField, protocol.SymbolKindProperty:
		return TokenTypeProperty
	case protocol.SymbolKindEnumMember:
		return TokenTypeEnumMember
	case protocol.SymbolKindNamespace, protocol.SymbolKindModule, protocol.SymbolKindPackage:
		return TokenTypeNamespace
	case protocol.SymbolKindTypeParameter:
		return TokenTypeTypeParameter
	default:
		return TokenTypeVariable
	}
}

// TokenTypeFor returns the token type for a declared kind.
func (l *Language) TokenTypeFor(declaredBy string) string {
	rule := l.Presentation(declaredBy)
	switch {
	case rule == nil:
		return TokenTypeVariable
	case rule.TokenType != "":
		return rule.TokenType
	case rule.Symbol != nil:
		return TokenTypeForSymbol(rule.Symbol.Kind)
	default:
		return TokenTypeVariable
	}
}
