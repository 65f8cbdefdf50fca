package syntax

import (
	"sort"
	"unicode/utf8"
)

// LineIndex converts between byte offsets and LSP positions (0-based line,
// UTF-16 character) for one source text.
type LineIndex struct {
	source []byte
	// starts holds the byte offset of the first byte of every line.
	starts []int
}

// NewLineIndex indexes the line starts of source.
func NewLineIndex(source []byte) *LineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{source: source, starts: starts}
}

// LineCount returns the number of lines, counting a trailing empty line.
func (li *LineIndex) LineCount() int { return len(li.starts) }

// PointAt converts a byte offset into a position. Offsets past the end clamp to
// the end of the source.
func (li *LineIndex) PointAt(offset int) Point {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.source) {
		offset = len(li.source)
	}
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return Point{Line: line, Character: utf16Len(li.source[li.starts[line]:offset])}
}

// OffsetAt converts a position into a byte offset. Characters past the end of a
// line clamp to the line end; lines past the end clamp to the end of the source.
func (li *LineIndex) OffsetAt(p Point) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(li.starts) {
		return len(li.source)
	}
	start := li.starts[p.Line]
	end := len(li.source)
	if p.Line+1 < len(li.starts) {
		// stop before the newline
		end = li.starts[p.Line+1] - 1
	}

	offset := start
	units := 0
	for offset < end && units < p.Character {
		r, size := utf8.DecodeRune(li.source[offset:end])
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		offset += size
	}
	return offset
}

// LineText returns the text of a line without its newline.
func (li *LineIndex) LineText(line int) string {
	if line < 0 || line >= len(li.starts) {
		return ""
	}
	start := li.starts[line]
	end := len(li.source)
	if line+1 < len(li.starts) {
		end = li.starts[line+1] - 1
	}
	return string(li.source[start:end])
}

// utf16Len counts the UTF-16 code units needed to encode b.
func utf16Len(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
		b = b[size:]
	}
	return n
}

// UTF16Len returns the length of s in UTF-16 code units, the unit LSP measures
// token lengths in.
func UTF16Len(s string) int {
	return utf16Len([]byte(s))
}
