package knowledge

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/config"
	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/embeddings"
)

// Store holds the loaded documents and the configured matcher. A Store with
// no matcher is disabled: searches return nothing and contexts report not
// found, so callers degrade instead of branching on nil.
type Store struct {
	docs    []Document
	matcher Matcher
	topK    int
	log     *zap.Logger
}

// New loads documents and builds the configured matcher. Index build
// failures disable the store rather than failing startup; the bot then
// answers without knowledge context.
func New(ctx context.Context, cfg config.KnowledgeConfig, embedder embeddings.Embedder, log *zap.Logger) *Store {
	if !cfg.Enabled {
		return &Store{log: log}
	}

	docs := Load(cfg, log)

	topK := cfg.TopK
	if topK <= 0 {
		topK = 3
	}

	var matcher Matcher
	switch cfg.Strategy {
	case config.StrategyKeyword:
		matcher = NewKeywordMatcher(docs)
	default:
		if embedder == nil {
			log.Warn("no embedding provider, knowledge search disabled")
			return &Store{log: log}
		}
		vm, err := NewVectorMatcher(ctx, docs, embedder, cfg.MinSimilarity)
		if err != nil {
			log.Error("knowledge index build failed, continuing without context", zap.Error(err))
			return &Store{log: log}
		}
		matcher = vm
	}

	log.Info("knowledge store ready",
		zap.String("strategy", matcher.Name()),
		zap.Int("documents", len(docs)))

	return &Store{docs: docs, matcher: matcher, topK: topK, log: log}
}

// Enabled reports whether searches can return results.
func (s *Store) Enabled() bool { return s.matcher != nil }

func (s *Store) Count() int { return len(s.docs) }

func (s *Store) Documents() []Document { return s.docs }

func (s *Store) Strategy() string {
	if s.matcher == nil {
		return "disabled"
	}
	return s.matcher.Name()
}

// Search ranks documents against query. topK <= 0 uses the configured
// default.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	if s.matcher == nil {
		return nil, nil
	}
	if topK <= 0 {
		topK = s.topK
	}
	return s.matcher.Search(ctx, query, topK)
}

// Context runs a bounded search and renders the block handed to the
// response generator. Search failures are logged and reported as not found,
// never propagated.
func (s *Store) Context(ctx context.Context, query string) Context {
	matches, err := s.Search(ctx, query, contextTopK)
	if err != nil {
		s.log.Warn("knowledge search failed", zap.Error(err))
		return Context{Text: Sentinel}
	}
	if len(matches) == 0 {
		return Context{Text: Sentinel}
	}

	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = m.Document.EmbedText()
	}

	return Context{Found: true, Text: strings.Join(parts, "\n\n")}
}
