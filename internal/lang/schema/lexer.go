package schema

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenKeyword
	tokenNumber
	tokenString
	tokenPunct
	tokenComment
	tokenUnknown
)

type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

var keywords = map[string]bool{
	"type":    true,
	"enum":    true,
	"fn":      true,
	"let":     true,
	"return":  true,
	"private": true,
	"true":    true,
	"false":   true,
}

const punctuation = "{}():;,=+-*/"

// lex splits src into tokens, comments included. The last token is always
// tokenEOF.
func lex(src []byte) []token {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRune(src[i:])
		start := i
		switch {
		case unicode.IsSpace(r):
			i += size
			continue
		case r == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			toks = append(toks, token{kind: tokenComment, start: start, end: i})
		case r == '_' || unicode.IsLetter(r):
			for i < len(src) {
				r, size = utf8.DecodeRune(src[i:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				i += size
			}
			kind := tokenIdent
			if keywords[string(src[start:i])] {
				kind = tokenKeyword
			}
			toks = append(toks, token{kind: kind, start: start, end: i})
		case r >= '0' && r <= '9':
			for i < len(src) && (src[i] >= '0' && src[i] <= '9' || src[i] == '.') {
				i++
			}
			toks = append(toks, token{kind: tokenNumber, start: start, end: i})
		case r == '"':
			i++
			for i < len(src) && src[i] != '"' && src[i] != '\n' {
				if src[i] == '\\' && i+1 < len(src) {
					i++
				}
				i++
			}
			if i < len(src) && src[i] == '"' {
				i++
			}
			toks = append(toks, token{kind: tokenString, start: start, end: i})
		case r < utf8.RuneSelf && strings.IndexByte(punctuation, byte(r)) >= 0:
			i++
			toks = append(toks, token{kind: tokenPunct, start: start, end: i})
		default:
			i += size
			toks = append(toks, token{kind: tokenUnknown, start: start, end: i})
		}
		toks[len(toks)-1].text = string(src[start:i])
	}
	return append(toks, token{kind: tokenEOF, start: len(src), end: len(src)})
}
