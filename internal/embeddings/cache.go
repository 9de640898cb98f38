package embeddings

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// NewCached wraps an Embedder with an expiring LRU cache keyed by text, so
// repeated queries skip the embedding API. Returns the inner embedder
// unchanged when caching is effectively disabled.
func NewCached(inner Embedder, size int, ttl time.Duration) Embedder {
	if inner == nil || size <= 0 || ttl <= 0 {
		return inner
	}
	return &cachedEmbedder{
		next:  inner,
		cache: expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

type cachedEmbedder struct {
	next  Embedder
	cache *expirable.LRU[string, []float32]
}

func (c *cachedEmbedder) Name() string {
	return c.next.Name()
}

func (c *cachedEmbedder) Dimensions() int {
	return c.next.Dimensions()
}

func (c *cachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))

	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if cached, ok := c.cache.Get(c.key(text)); ok {
			results[i] = cloneEmbedding(cached)
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return results, nil
	}

	fresh, err := c.next.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, emb := range fresh {
		c.cache.Add(c.key(missing[j]), cloneEmbedding(emb))
		results[missingIdx[j]] = emb
	}

	return results, nil
}

func (c *cachedEmbedder) key(text string) string {
	return c.next.Name() + ":" + text
}

func cloneEmbedding(values []float32) []float32 {
	if len(values) == 0 {
		return nil
	}
	clone := make([]float32, len(values))
	copy(clone, values)
	return clone
}
