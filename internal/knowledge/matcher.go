package knowledge

import "context"

// Match pairs a document with its relevance score for one query. Matches are
// ephemeral; nothing about a query is persisted.
type Match struct {
	Document Document `json:"document"`
	Score    float32  `json:"score"`
}

// Matcher ranks the loaded documents against a free-text query. An empty
// result means "no context available" and is never an error.
type Matcher interface {
	Search(ctx context.Context, query string, topK int) ([]Match, error)
	Name() string
}
