package server

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
)

var sampleTokens = []analysis.SemanticToken{
	{Line: 0, StartChar: 0, Length: 3, TokenType: 0, Modifiers: 0},
	{Line: 1, StartChar: 0, Length: 5, TokenType: 1, Modifiers: 1},
}

func TestNewSemanticTokensCache(t *testing.T) {
	cache := NewSemanticTokensCache()
	assert.NotNil(t, cache)
	assert.Equal(t, 0, cache.Size())
}

func TestSemanticTokensCache_StoreAndRetrieve(t *testing.T) {
	cache := NewSemanticTokensCache()
	uri := "file:///a.schema"

	cache.Store(uri, "r1", sampleTokens)
	assert.Equal(t, 1, cache.Size())

	retrieved, found := cache.Retrieve(uri, "r1")
	require.True(t, found)
	assert.Equal(t, "r1", retrieved.ResultID)
	assert.Equal(t, sampleTokens, retrieved.Tokens)
	assert.False(t, retrieved.Timestamp.IsZero())

	_, found = cache.Retrieve(uri, "other")
	assert.False(t, found)
	_, found = cache.Retrieve("file:///b.schema", "r1")
	assert.False(t, found)
}

func TestSemanticTokensCache_StoreReplacesPreviousResult(t *testing.T) {
	cache := NewSemanticTokensCache()
	uri := "file:///a.schema"

	cache.Store(uri, "r1", sampleTokens)
	cache.Store(uri, "r2", sampleTokens[:1])

	assert.Equal(t, 1, cache.Size())
	assert.Equal(t, "r2", cache.LatestResultID(uri))
	_, found := cache.Retrieve(uri, "r1")
	assert.False(t, found)
}

func TestSemanticTokensCache_InvalidateDocument(t *testing.T) {
	cache := NewSemanticTokensCache()

	cache.Store("file:///a.schema", "r1", sampleTokens)
	cache.Store("file:///b.schema", "r2", sampleTokens)

	cache.InvalidateDocument("file:///a.schema")

	assert.Equal(t, 1, cache.Size())
	assert.Empty(t, cache.LatestResultID("file:///a.schema"))
	assert.Equal(t, "r2", cache.LatestResultID("file:///b.schema"))

	// Unknown documents are a no-op.
	cache.InvalidateDocument("file:///nope.schema")
	assert.Equal(t, 1, cache.Size())
}

func TestSemanticTokensCache_Clear(t *testing.T) {
	cache := NewSemanticTokensCache()
	cache.Store("file:///a.schema", "r1", sampleTokens)
	cache.Store("file:///b.schema", "r2", nil)

	cache.Clear()

	assert.Equal(t, 0, cache.Size())
	assert.Empty(t, cache.LatestResultID("file:///a.schema"))
}

func TestSemanticTokensCache_StoreNilTokens(t *testing.T) {
	cache := NewSemanticTokensCache()
	cache.Store("file:///a.schema", "r1", nil)

	retrieved, found := cache.Retrieve("file:///a.schema", "r1")
	require.True(t, found)
	assert.Nil(t, retrieved.Tokens)
}

func TestNewResultID(t *testing.T) {
	a, b := NewResultID(), NewResultID()

	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestSemanticTokensCache_ConcurrentAccess(t *testing.T) {
	cache := NewSemanticTokensCache()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			uri := fmt.Sprintf("file:///doc%d.schema", i)
			for j := 0; j < 20; j++ {
				id := fmt.Sprintf("r%d", j)
				cache.Store(uri, id, sampleTokens)
				cache.Retrieve(uri, id)
				cache.LatestResultID(uri)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, cache.Size())
}
