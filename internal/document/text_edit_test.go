package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const threeLines = "type A {}\nenum B { X }\nfn f() {}"

func rng(sl, sc, el, ec uint32) *protocol.Range {
	return &protocol.Range{
		Start: protocol.Position{Line: sl, Character: sc},
		End:   protocol.Position{Line: el, Character: ec},
	}
}

func TestApplyContentChange(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		rng   *protocol.Range
		input string
		want  string
	}{
		{"full sync", threeLines, nil, "type Z {}", "type Z {}"},
		{"single line replacement", "type Foo { x: Bar }", rng(0, 14, 0, 17), "Baz", "type Foo { x: Baz }"},
		{"insertion", "type Foo {}", rng(0, 10, 0, 10), " x: Bar ", "type Foo { x: Bar }"},
		{"insertion at line start", threeLines, rng(1, 0, 1, 0), "private ", "type A {}\nprivate enum B { X }\nfn f() {}"},
		{"deletion", "type Foo { x: Bar }", rng(0, 10, 0, 18), "", "type Foo {}"},
		{"delete whole line", threeLines, rng(1, 0, 2, 0), "", "type A {}\nfn f() {}"},
		{"multi line replacement", threeLines, rng(0, 5, 2, 3), "Q", "type Qf() {}"},
		{"character past line end clamps", "type A {}\nx", rng(0, 9, 0, 40), "!", "type A {}!\nx"},
		{"surrogate pair", "Hello \U0001F600 World", rng(0, 6, 0, 8), "\U0001F642", "Hello \U0001F642 World"},
		{"after surrogate pair", "\U0001F600x", rng(0, 2, 0, 3), "y", "\U0001F600y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyContentChange(tt.text, protocol.TextDocumentContentChangeEvent{Range: tt.rng, Text: tt.input})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyContentChange_InvalidRange(t *testing.T) {
	tests := []struct {
		name string
		rng  *protocol.Range
	}{
		{"start line out of bounds", rng(5, 0, 5, 5)},
		{"end line out of bounds", rng(0, 0, 5, 0)},
		{"start after end", rng(0, 5, 0, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyContentChange("type A {}", protocol.TextDocumentContentChangeEvent{Range: tt.rng, Text: "x"})
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

func TestApplyContentChanges(t *testing.T) {
	changes := []any{
		protocol.TextDocumentContentChangeEvent{Range: rng(0, 5, 0, 8), Text: "Foo"},
		&protocol.TextDocumentContentChangeEvent{Range: rng(0, 10, 0, 10), Text: " x: Bar "},
	}

	got, err := ApplyContentChanges("type Abc {}", changes)
	require.NoError(t, err)
	assert.Equal(t, "type Foo { x: Bar }", got)

	got, err = ApplyContentChanges("old", []any{
		protocol.TextDocumentContentChangeEventWhole{Text: "enum B { X }"},
		protocol.TextDocumentContentChangeEvent{Range: rng(0, 5, 0, 6), Text: "C"},
	})
	require.NoError(t, err)
	assert.Equal(t, "enum C { X }", got)
}

func TestApplyContentChanges_Errors(t *testing.T) {
	_, err := ApplyContentChanges("x", []any{"nope"})
	assert.Error(t, err)

	_, err = ApplyContentChanges("x", []any{
		protocol.TextDocumentContentChangeEvent{Range: rng(3, 0, 3, 0), Text: "y"},
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestPositionToOffset(t *testing.T) {
	tests := []struct {
		line, character, want int
	}{
		{0, 0, 0},
		{0, 5, 5},
		{1, 0, 10},
		{1, 5, 15},
		{2, 0, 23},
		{2, 3, 26},
	}

	for _, tt := range tests {
		got, err := PositionToOffset(threeLines, tt.line, tt.character)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "line %d char %d", tt.line, tt.character)
	}

	_, err := PositionToOffset(threeLines, 3, 0)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestOffsetToPosition(t *testing.T) {
	tests := []struct {
		offset, line, character int
	}{
		{0, 0, 0},
		{5, 0, 5},
		{10, 1, 0},
		{15, 1, 5},
		{26, 2, 3},
		{len(threeLines), 2, 9},
	}

	for _, tt := range tests {
		line, character, err := OffsetToPosition(threeLines, tt.offset)
		require.NoError(t, err)
		assert.Equal(t, tt.line, line, "offset %d", tt.offset)
		assert.Equal(t, tt.character, character, "offset %d", tt.offset)
	}

	_, _, err := OffsetToPosition(threeLines, -1)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestRoundTrip_UTF16(t *testing.T) {
	text := "Héllo \U0001F600 Wörld"
	for _, char := range []int{0, 1, 2, 6, 8, 9, 14} {
		offset, err := PositionToOffset(text, 0, char)
		require.NoError(t, err)
		_, got, err := OffsetToPosition(text, offset)
		require.NoError(t, err)
		assert.Equal(t, char, got)
	}
}
