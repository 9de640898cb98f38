package knowledge

import (
	"context"
	"strings"
)

const keywordScore = 1.0

// KeywordMatcher ranks documents by token containment. It backs the keyword
// strategy for deployments without an embedding provider: no ranking signal,
// every match carries the same placeholder score.
type KeywordMatcher struct {
	docs []Document
}

func NewKeywordMatcher(docs []Document) *KeywordMatcher {
	return &KeywordMatcher{docs: docs}
}

func (m *KeywordMatcher) Name() string { return "keyword" }

// Search returns the first topK documents containing any query token as a
// substring of the lower-cased title+body, in storage order.
func (m *KeywordMatcher) Search(_ context.Context, query string, topK int) ([]Match, error) {
	if topK <= 0 {
		return nil, nil
	}

	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil, nil
	}

	var matches []Match
	for _, d := range m.docs {
		text := strings.ToLower(d.EmbedText())
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				matches = append(matches, Match{Document: d, Score: keywordScore})
				break
			}
		}
		if len(matches) == topK {
			break
		}
	}

	return matches, nil
}
