package embeddings

import (
	"context"
	"sync"
	"testing"
	"time"
)

// countingEmbedder returns a constant vector per text and counts API calls.
type countingEmbedder struct {
	mu    sync.Mutex
	calls int
	texts []string
}

func (e *countingEmbedder) Name() string    { return "counting" }
func (e *countingEmbedder) Dimensions() int { return 3 }

func (e *countingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.texts = append(e.texts, texts...)
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i])), 1, 0}
	}
	return out, nil
}

func TestCachedEmbedderSkipsRepeatCalls(t *testing.T) {
	inner := &countingEmbedder{}
	cached := NewCached(inner, 16, time.Minute)
	ctx := context.Background()

	first, err := cached.Embed(ctx, []string{"personal loan"})
	if err != nil {
		t.Fatalf("first embed: %v", err)
	}
	second, err := cached.Embed(ctx, []string{"personal loan"})
	if err != nil {
		t.Fatalf("second embed: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", inner.calls)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one vector per call")
	}
	for i := range first[0] {
		if first[0][i] != second[0][i] {
			t.Errorf("cached vector differs at %d: %f vs %f", i, first[0][i], second[0][i])
		}
	}
}

func TestCachedEmbedderPartialHit(t *testing.T) {
	inner := &countingEmbedder{}
	cached := NewCached(inner, 16, time.Minute)
	ctx := context.Background()

	if _, err := cached.Embed(ctx, []string{"a"}); err != nil {
		t.Fatalf("seed embed: %v", err)
	}

	out, err := cached.Embed(ctx, []string{"a", "bb"})
	if err != nil {
		t.Fatalf("mixed embed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(out))
	}
	// Only "bb" should have gone upstream on the second call.
	if inner.calls != 2 {
		t.Errorf("expected 2 upstream calls, got %d", inner.calls)
	}
	if len(inner.texts) != 2 || inner.texts[1] != "bb" {
		t.Errorf("expected upstream texts [a bb], got %v", inner.texts)
	}
	if out[0][0] != 1 || out[1][0] != 2 {
		t.Errorf("vectors mapped to wrong positions: %v", out)
	}
}

func TestNewCachedDisabled(t *testing.T) {
	inner := &countingEmbedder{}
	if got := NewCached(inner, 0, time.Minute); got != Embedder(inner) {
		t.Error("size 0 should return the inner embedder unchanged")
	}
	if got := NewCached(nil, 16, time.Minute); got != nil {
		t.Error("nil inner should stay nil")
	}
}

func TestToChromemFunc(t *testing.T) {
	inner := &countingEmbedder{}
	fn := ToChromemFunc(inner)

	vec, err := fn(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("expected 3 dimensions, got %d", len(vec))
	}
}
