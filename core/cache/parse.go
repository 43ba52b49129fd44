package cache

import (
	"github.com/FocuswithJustin/atfkit/core/atf/parser"
	"github.com/FocuswithJustin/atfkit/core/cas"
)

// ParseCache memoizes parse results by the BLAKE3 hash of the source text.
// A cached Result is shared between callers and must be treated as
// read-only.
type ParseCache struct {
	cache Cache[string, *parser.Result]
}

// NewParseCache creates a parse cache.
func NewParseCache(config Config) *ParseCache {
	return &ParseCache{cache: NewLRUCache[string, *parser.Result](config)}
}

// Parse returns the cached Result for src, parsing on a miss. The boolean
// reports a cache hit.
func (c *ParseCache) Parse(src string) (*parser.Result, bool) {
	key := cas.SumString(src).BLAKE3
	if res, ok := c.cache.Get(key); ok {
		return res, true
	}
	res := parser.Parse(src)
	c.cache.Put(key, res)
	return res, false
}

// Stats returns cache statistics.
func (c *ParseCache) Stats() Stats {
	return c.cache.Stats()
}
