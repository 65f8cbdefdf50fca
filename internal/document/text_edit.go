// Package document applies client edits to document text.
package document

import (
	"errors"
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
)

// ErrInvalidRange is returned for an edit range outside the document.
var ErrInvalidRange = errors.New("invalid range")

// ApplyContentChange applies one ranged change to text. Positions are UTF-16
// based, as LSP sends them. A change without a range replaces the whole text.
func ApplyContentChange(text string, change protocol.TextDocumentContentChangeEvent) (string, error) {
	if change.Range == nil {
		return change.Text, nil
	}

	start, end, err := byteRange(text, *change.Range)
	if err != nil {
		return "", err
	}
	return text[:start] + change.Text + text[end:], nil
}

// ApplyContentChanges applies the changes of one didChange notification in
// order. glsp decodes each change as either a ranged event or a whole-text
// event.
func ApplyContentChanges(text string, changes []any) (string, error) {
	for i, change := range changes {
		var err error
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			text, err = ApplyContentChange(text, c)
		case *protocol.TextDocumentContentChangeEvent:
			text, err = ApplyContentChange(text, *c)
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case *protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		default:
			err = fmt.Errorf("unsupported content change %T", change)
		}
		if err != nil {
			return "", fmt.Errorf("change %d: %w", i, err)
		}
	}
	return text, nil
}

// byteRange converts r to byte offsets in text. Lines must exist; characters
// past the end of a line clamp to the line end.
func byteRange(text string, r protocol.Range) (int, int, error) {
	lines := syntax.NewLineIndex([]byte(text))

	start, end := analysisPoint(r.Start), analysisPoint(r.End)
	if start.Line >= lines.LineCount() {
		return 0, 0, fmt.Errorf("%w: start line %d out of range (0-%d)", ErrInvalidRange, start.Line, lines.LineCount()-1)
	}
	if end.Line >= lines.LineCount() {
		return 0, 0, fmt.Errorf("%w: end line %d out of range (0-%d)", ErrInvalidRange, end.Line, lines.LineCount()-1)
	}
	if end.Before(start) {
		return 0, 0, fmt.Errorf("%w: start %d:%d after end %d:%d", ErrInvalidRange, start.Line, start.Character, end.Line, end.Character)
	}
	return lines.OffsetAt(start), lines.OffsetAt(end), nil
}

func analysisPoint(p protocol.Position) syntax.Point {
	return syntax.Point{Line: int(p.Line), Character: int(p.Character)}
}

// PositionToOffset converts a line/character position to a byte offset.
func PositionToOffset(text string, line, character int) (int, error) {
	lines := syntax.NewLineIndex([]byte(text))
	if line < 0 || line >= lines.LineCount() {
		return 0, fmt.Errorf("%w: line %d out of range (0-%d)", ErrInvalidRange, line, lines.LineCount()-1)
	}
	return lines.OffsetAt(syntax.Point{Line: line, Character: character}), nil
}

// OffsetToPosition converts a byte offset to a line/UTF-16 character
// position.
func OffsetToPosition(text string, offset int) (line, character int, err error) {
	if offset < 0 || offset > len(text) {
		return 0, 0, fmt.Errorf("%w: offset %d out of range (0-%d)", ErrInvalidRange, offset, len(text))
	}
	p := syntax.NewLineIndex([]byte(text)).PointAt(offset)
	return p.Line, p.Character, nil
}
