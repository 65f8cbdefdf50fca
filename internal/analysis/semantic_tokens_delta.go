package analysis

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DeltaThreshold is the largest delta, as a fraction of the full encoding,
// still sent as a delta.
const DeltaThreshold = 0.7

// SemanticTokensDeltaResult holds either a delta or a full response.
type SemanticTokensDeltaResult struct {
	IsDelta bool
	Delta   *protocol.SemanticTokensDelta
	Full    *protocol.SemanticTokens
}

// ComputeSemanticTokensDelta diffs oldTokens against newTokens. It falls back
// to a full response when there is nothing to diff against or the delta would
// not be smaller.
func ComputeSemanticTokensDelta(oldTokens, newTokens []SemanticToken, newResultID string) *SemanticTokensDeltaResult {
	newEncoded := EncodeSemanticTokens(newTokens)

	if len(oldTokens) == 0 {
		log.Debug("no previous semantic tokens, returning full result")
		return fullResult(newEncoded, newResultID)
	}

	oldEncoded := EncodeSemanticTokens(oldTokens)

	if len(newTokens) == 0 {
		return deltaResult([]protocol.SemanticTokensEdit{{
			Start:       0,
			DeleteCount: uint32(len(oldEncoded)),
			Data:        []uint32{},
		}}, newResultID)
	}

	edits := computeEdits(oldEncoded, newEncoded)

	deltaSize := calculateDeltaSize(edits)
	fullSize := len(newEncoded)
	if float64(deltaSize) > float64(fullSize)*DeltaThreshold {
		log.Debugf("semantic token delta too large (%d vs %d), returning full result", deltaSize, fullSize)
		return fullResult(newEncoded, newResultID)
	}

	log.Debugf("semantic token delta: %d edits, size %d of %d", len(edits), deltaSize, fullSize)
	return deltaResult(edits, newResultID)
}

func fullResult(data []uint32, resultID string) *SemanticTokensDeltaResult {
	return &SemanticTokensDeltaResult{
		Full: &protocol.SemanticTokens{ResultID: &resultID, Data: data},
	}
}

func deltaResult(edits []protocol.SemanticTokensEdit, resultID string) *SemanticTokensDeltaResult {
	return &SemanticTokensDeltaResult{
		IsDelta: true,
		Delta:   &protocol.SemanticTokensDelta{ResultId: &resultID, Edits: edits},
	}
}

// computeEdits replaces the region between the common prefix and the common
// suffix of the two encodings with a single edit.
func computeEdits(oldEncoded, newEncoded []uint32) []protocol.SemanticTokensEdit {
	edits := []protocol.SemanticTokensEdit{}

	prefix := 0
	for prefix < min(len(oldEncoded), len(newEncoded)) && oldEncoded[prefix] == newEncoded[prefix] {
		prefix++
	}

	suffix := 0
	for suffix < len(oldEncoded)-prefix &&
		suffix < len(newEncoded)-prefix &&
		oldEncoded[len(oldEncoded)-1-suffix] == newEncoded[len(newEncoded)-1-suffix] {
		suffix++
	}

	if prefix+suffix >= max(len(oldEncoded), len(newEncoded)) {
		return edits
	}

	return append(edits, protocol.SemanticTokensEdit{
		Start:       uint32(prefix),
		DeleteCount: uint32(len(oldEncoded) - suffix - prefix),
		Data:        newEncoded[prefix : len(newEncoded)-suffix],
	})
}

// calculateDeltaSize counts the integers a delta puts on the wire.
func calculateDeltaSize(edits []protocol.SemanticTokensEdit) int {
	size := 0
	for _, edit := range edits {
		size += 2 + len(edit.Data)
	}
	return size
}
