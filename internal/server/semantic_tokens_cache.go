package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
)

// CachedTokens is one token set handed to the client.
type CachedTokens struct {
	ResultID  string
	Tokens    []analysis.SemanticToken
	Timestamp time.Time
}

type cacheKey struct {
	uri      string
	resultID string
}

// SemanticTokensCache keeps the token sets sent to the client so a later
// delta request can be diffed against them.
type SemanticTokensCache struct {
	cache map[cacheKey]*CachedTokens

	// latestResultID maps a document to the id of its newest token set
	latestResultID map[string]string

	mu sync.RWMutex
}

// NewSemanticTokensCache creates an empty cache.
func NewSemanticTokensCache() *SemanticTokensCache {
	return &SemanticTokensCache{
		cache:          make(map[cacheKey]*CachedTokens),
		latestResultID: make(map[string]string),
	}
}

// NewResultID returns a fresh result id.
func NewResultID() string {
	return uuid.NewString()
}

// Store saves tokens under resultID and makes it the document's latest
// result. Older results of the document are dropped; clients only diff
// against the last one.
func (c *SemanticTokensCache) Store(uri, resultID string, tokens []analysis.SemanticToken) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.latestResultID[uri]; ok && prev != resultID {
		delete(c.cache, cacheKey{uri, prev})
	}
	c.cache[cacheKey{uri, resultID}] = &CachedTokens{
		ResultID:  resultID,
		Tokens:    tokens,
		Timestamp: time.Now(),
	}
	c.latestResultID[uri] = resultID
}

// Retrieve returns the token set stored under uri and resultID.
func (c *SemanticTokensCache) Retrieve(uri, resultID string) (*CachedTokens, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, found := c.cache[cacheKey{uri, resultID}]
	return cached, found
}

// InvalidateDocument drops every token set of uri.
func (c *SemanticTokensCache) InvalidateDocument(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.cache {
		if key.uri == uri {
			delete(c.cache, key)
		}
	}
	delete(c.latestResultID, uri)
}

// LatestResultID returns the newest result id of uri, or "".
func (c *SemanticTokensCache) LatestResultID(uri string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.latestResultID[uri]
}

// Clear empties the cache.
func (c *SemanticTokensCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[cacheKey]*CachedTokens)
	c.latestResultID = make(map[string]string)
}

// Size returns the number of cached token sets.
func (c *SemanticTokensCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.cache)
}
