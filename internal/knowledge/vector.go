package knowledge

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	chromem "github.com/philippgille/chromem-go"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/embeddings"
)

const collectionName = "knowledge"

// VectorMatcher ranks documents by cosine similarity over precomputed
// embeddings stored in an in-memory chromem collection.
type VectorMatcher struct {
	db            *chromem.DB
	collection    *chromem.Collection
	docs          []Document
	minSimilarity float32
}

// NewVectorMatcher embeds every document in one batched call and indexes the
// results. Document IDs are positions into docs, so docs must not be mutated
// after construction.
func NewVectorMatcher(ctx context.Context, docs []Document, embedder embeddings.Embedder, minSimilarity float32) (*VectorMatcher, error) {
	db := chromem.NewDB()

	col, err := db.GetOrCreateCollection(collectionName, nil, embeddings.ToChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	m := &VectorMatcher{
		db:            db,
		collection:    col,
		docs:          docs,
		minSimilarity: minSimilarity,
	}
	if len(docs) == 0 {
		return m, nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.EmbedText()
	}

	vecs, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	if len(vecs) != len(docs) {
		return nil, fmt.Errorf("embed documents: got %d embeddings for %d documents", len(vecs), len(docs))
	}

	chromDocs := make([]chromem.Document, len(docs))
	for i, d := range docs {
		chromDocs[i] = chromem.Document{
			ID:        strconv.Itoa(i),
			Content:   d.EmbedText(),
			Metadata:  map[string]string{"title": d.Title},
			Embedding: vecs[i],
		}
	}

	if err := col.AddDocuments(ctx, chromDocs, 1); err != nil {
		return nil, fmt.Errorf("add documents: %w", err)
	}

	return m, nil
}

func (m *VectorMatcher) Name() string { return "vector" }

func (m *VectorMatcher) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	if topK <= 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	// chromem-go requires nResults <= collection size.
	count := m.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	results, err := m.collection.Query(ctx, query, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		if r.Similarity <= m.minSimilarity {
			continue
		}
		idx, err := strconv.Atoi(r.ID)
		if err != nil || idx < 0 || idx >= len(m.docs) {
			continue
		}
		matches = append(matches, Match{Document: m.docs[idx], Score: r.Similarity})
	}

	return matches, nil
}
