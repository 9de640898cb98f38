package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/config"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := f.vectors[t]
		if !ok {
			return nil, fmt.Errorf("no vector for %q", t)
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int { return 3 }

func (f *fakeEmbedder) Name() string { return "fake" }

func TestKeywordMatcherAnyToken(t *testing.T) {
	docs := []Document{
		{Title: "Personal Loan Eligibility", Body: "minimum income RM2,000"},
		{Title: "Car Loan Guidelines", Body: "maximum 90% financing"},
		{Title: "Required Documents", Body: "IC copy, salary slip"},
	}
	m := NewKeywordMatcher(docs)

	matches, err := m.Search(context.Background(), "CAR financing", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Document.Title != "Car Loan Guidelines" {
		t.Errorf("matched %q", matches[0].Document.Title)
	}
	if matches[0].Score != 1.0 {
		t.Errorf("expected placeholder score 1.0, got %v", matches[0].Score)
	}
}

func TestKeywordMatcherStorageOrderAndTopK(t *testing.T) {
	docs := []Document{
		{Title: "First", Body: "loan details"},
		{Title: "Second", Body: "loan details"},
		{Title: "Third", Body: "loan details"},
	}
	m := NewKeywordMatcher(docs)

	matches, err := m.Search(context.Background(), "loan", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Document.Title != "First" || matches[1].Document.Title != "Second" {
		t.Errorf("expected storage order, got %q then %q",
			matches[0].Document.Title, matches[1].Document.Title)
	}
}

func TestKeywordMatcherEmptyQuery(t *testing.T) {
	m := NewKeywordMatcher(DefaultDocuments())

	matches, err := m.Search(context.Background(), "   ", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if matches != nil {
		t.Errorf("expected no matches for blank query, got %d", len(matches))
	}
}

func TestVectorMatcherBatchedEmbedAndThreshold(t *testing.T) {
	docs := []Document{
		{Title: "Rates", Body: "interest"},
		{Title: "Cars", Body: "financing"},
	}
	f := &fakeEmbedder{vectors: map[string][]float32{
		docs[0].EmbedText():   {1, 0, 0},
		docs[1].EmbedText():   {0, 1, 0},
		"what are the rates?": {1, 0, 0},
	}}

	m, err := NewVectorMatcher(context.Background(), docs, f, 0.3)
	if err != nil {
		t.Fatalf("NewVectorMatcher: %v", err)
	}
	if f.calls != 1 {
		t.Errorf("expected one batched embed call at load, got %d", f.calls)
	}

	matches, err := m.Search(context.Background(), "what are the rates?", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match above threshold, got %d", len(matches))
	}
	if matches[0].Document.Title != "Rates" {
		t.Errorf("matched %q", matches[0].Document.Title)
	}
	if matches[0].Score <= 0.3 {
		t.Errorf("score %v not above threshold", matches[0].Score)
	}
}

func TestVectorMatcherEmptyQuery(t *testing.T) {
	docs := []Document{{Title: "Rates", Body: "interest"}}
	f := &fakeEmbedder{vectors: map[string][]float32{
		docs[0].EmbedText(): {1, 0, 0},
	}}

	m, err := NewVectorMatcher(context.Background(), docs, f, 0.3)
	if err != nil {
		t.Fatalf("NewVectorMatcher: %v", err)
	}

	matches, err := m.Search(context.Background(), "  ", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if matches != nil {
		t.Errorf("expected no matches for blank query, got %d", len(matches))
	}
}

func TestVectorMatcherNoDocuments(t *testing.T) {
	f := &fakeEmbedder{vectors: map[string][]float32{}}

	m, err := NewVectorMatcher(context.Background(), nil, f, 0.3)
	if err != nil {
		t.Fatalf("NewVectorMatcher: %v", err)
	}
	if f.calls != 0 {
		t.Errorf("embedder called %d times for empty corpus", f.calls)
	}

	matches, err := m.Search(context.Background(), "anything", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if matches != nil {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func keywordStoreConfig(dir string) config.KnowledgeConfig {
	return config.KnowledgeConfig{
		Enabled:  true,
		Strategy: config.StrategyKeyword,
		Dir:      dir,
		TopK:     3,
	}
}

func TestStoreContextFound(t *testing.T) {
	store := New(context.Background(), keywordStoreConfig(filepath.Join(t.TempDir(), "missing")), nil, zap.NewNop())

	c := store.Context(context.Background(), "CTOS credit")
	if !c.Found {
		t.Fatal("expected context to be found")
	}
	if !strings.Contains(c.Text, "CTOS Credit Report: ") {
		t.Errorf("context missing title prefix: %q", c.Text)
	}
	if parts := strings.Split(c.Text, "\n\n"); len(parts) > 2 {
		t.Errorf("context holds %d blocks, want at most 2", len(parts))
	}
}

func TestStoreContextSentinel(t *testing.T) {
	store := New(context.Background(), keywordStoreConfig(filepath.Join(t.TempDir(), "missing")), nil, zap.NewNop())

	c := store.Context(context.Background(), "zzzqqqxxx")
	if c.Found {
		t.Fatal("expected no context")
	}
	if c.Text != Sentinel {
		t.Errorf("expected sentinel, got %q", c.Text)
	}
}

func TestStoreDisabled(t *testing.T) {
	store := New(context.Background(), config.KnowledgeConfig{Enabled: false}, nil, zap.NewNop())

	if store.Enabled() {
		t.Error("store should be disabled")
	}
	if store.Count() != 0 {
		t.Errorf("expected 0 documents, got %d", store.Count())
	}

	matches, err := store.Search(context.Background(), "loan", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if matches != nil {
		t.Errorf("disabled store returned %d matches", len(matches))
	}

	if c := store.Context(context.Background(), "loan"); c.Found || c.Text != Sentinel {
		t.Errorf("disabled store context = %+v", c)
	}
}

func TestStoreVectorWithoutEmbedderDisabled(t *testing.T) {
	cfg := config.KnowledgeConfig{
		Enabled:  true,
		Strategy: config.StrategyVector,
		Dir:      filepath.Join(t.TempDir(), "missing"),
	}
	store := New(context.Background(), cfg, nil, zap.NewNop())

	if store.Enabled() {
		t.Error("store should be disabled without an embedding provider")
	}
}

func TestEnhanceShortReply(t *testing.T) {
	c := Context{Found: true, Text: "Car Loan Guidelines: maximum 90% financing"}

	got := Enhance("Yes, we offer car loans.", c)
	want := "Yes, we offer car loans.\n\nAdditional information:\nCar Loan Guidelines: maximum 90% financing"
	if got != want {
		t.Errorf("Enhance = %q, want %q", got, want)
	}
}

func TestEnhanceLongReplyUntouched(t *testing.T) {
	c := Context{Found: true, Text: "extra"}
	reply := strings.TrimSpace(strings.Repeat("word ", 50))

	if got := Enhance(reply, c); got != reply {
		t.Errorf("long reply was modified: %q", got)
	}
}

func TestEnhanceNotFoundUntouched(t *testing.T) {
	c := Context{Text: Sentinel}

	if got := Enhance("Short answer.", c); got != "Short answer." {
		t.Errorf("reply was modified without context: %q", got)
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	cfg := config.KnowledgeConfig{Dir: filepath.Join(t.TempDir(), "missing")}

	docs := Load(cfg, zap.NewNop())
	if len(docs) != 5 {
		t.Fatalf("expected 5 built-in documents, got %d", len(docs))
	}
	if docs[0].Title != "Personal Loan Eligibility" {
		t.Errorf("first document = %q", docs[0].Title)
	}
}

func TestLoadIncludesPresets(t *testing.T) {
	cfg := config.KnowledgeConfig{
		Dir:            filepath.Join(t.TempDir(), "missing"),
		IncludePresets: true,
	}

	docs := Load(cfg, zap.NewNop())
	if len(docs) != 9 {
		t.Fatalf("expected 5 defaults + 4 presets, got %d", len(docs))
	}
	if docs[5].Title != "Bank Negara Malaysia Guidelines" {
		t.Errorf("first preset = %q", docs[5].Title)
	}
}

func TestLoadDirSortedAndParsed(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "b.md", "# Housing\n\nDown payment 10%-20%.")
	writeFile(t, dir, "a.json", `{"title":"Rates","content":"Personal loans 6-18%"}`)
	writeFile(t, dir, "c.txt", "CTOS report costs RM25.")

	cfg := config.KnowledgeConfig{Dir: dir, Patterns: config.DefaultPatterns}
	docs := Load(cfg, zap.NewNop())
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	if docs[0].Title != "Rates" || docs[1].Title != "Housing" || docs[2].Title != "c" {
		t.Errorf("unexpected order: %q, %q, %q", docs[0].Title, docs[1].Title, docs[2].Title)
	}
	if docs[0].Body != "Personal loans 6-18%" {
		t.Errorf("json body = %q", docs[0].Body)
	}
	if docs[1].Body != "Down payment 10%-20%." {
		t.Errorf("heading stripped from markdown body, got %q", docs[1].Body)
	}
}

func TestLoadDirSkipsMalformed(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "bad.json", `{"title":`)
	writeFile(t, dir, "good.json", `{"title":"Rates","content":"Personal loans 6-18%"}`)

	cfg := config.KnowledgeConfig{Dir: dir, Patterns: []string{"*.json"}}
	docs := Load(cfg, zap.NewNop())
	if len(docs) != 1 {
		t.Fatalf("expected malformed file skipped, got %d documents", len(docs))
	}
	if docs[0].Title != "Rates" {
		t.Errorf("loaded %q", docs[0].Title)
	}
}

func TestLoadDirPatternFilter(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "doc.json", `{"title":"Rates","content":"Personal loans 6-18%"}`)
	writeFile(t, dir, "notes.md", "ignored")

	cfg := config.KnowledgeConfig{Dir: dir, Patterns: []string{"*.json"}}
	docs := Load(cfg, zap.NewNop())
	if len(docs) != 1 {
		t.Fatalf("expected pattern filter to keep 1 document, got %d", len(docs))
	}
}

func TestSearchRoute(t *testing.T) {
	store := New(context.Background(), keywordStoreConfig(filepath.Join(t.TempDir(), "missing")), nil, zap.NewNop())

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	body := strings.NewReader(`{"query":"housing loan","top_k":2}`)
	req := httptest.NewRequest(http.MethodPost, "/api/knowledge/search", body)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Query   string  `json:"query"`
		Matches []Match `json:"matches"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Matches) == 0 {
		t.Fatal("expected matches for housing loan query")
	}
	if len(resp.Matches) > 2 {
		t.Errorf("top_k not honored, got %d matches", len(resp.Matches))
	}
}

func TestListRoute(t *testing.T) {
	store := New(context.Background(), keywordStoreConfig(filepath.Join(t.TempDir(), "missing")), nil, zap.NewNop())

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest(http.MethodGet, "/api/knowledge", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Count    int    `json:"count"`
		Strategy string `json:"strategy"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 5 {
		t.Errorf("count = %d, want 5", resp.Count)
	}
	if resp.Strategy != "keyword" {
		t.Errorf("strategy = %q", resp.Strategy)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
