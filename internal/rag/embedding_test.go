package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/neersetu/neersetu/internal/model"
)

// fakeEmbedder maps known texts to fixed vectors. A non-zero failures count
// makes that many leading calls fail before it recovers.
type fakeEmbedder struct {
	vectors  map[string][]float32
	err      error
	failures int
	calls    int
}

func (f *fakeEmbedder) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("transient network blip")
	}
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		v, ok := f.vectors[in]
		if !ok {
			v = []float32{0, 0, 1}
		}
		out[i] = v
	}
	return out, nil
}

func TestEmbeddingIndex_RanksByCosine(t *testing.T) {
	corpus := []model.Passage{
		{Text: "stage definitions", Source: "glossary.txt"},
		{Text: "recharge interventions", Source: "interventions.txt"},
	}
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"stage definitions":      {1, 0, 0},
		"recharge interventions": {0, 1, 0},
		"what is a stage":        {0.9, 0.1, 0},
	}}
	index := NewEmbeddingIndex(embedder, corpus)

	hits, err := index.Search(context.Background(), "what is a stage", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 || hits[0].Source != "glossary.txt" {
		t.Errorf("Expected glossary.txt as nearest passage, got %v", hits)
	}
}

func TestEmbeddingIndex_CorpusEmbeddedOnce(t *testing.T) {
	corpus := []model.Passage{{Text: "a", Source: "a.txt"}}
	embedder := &fakeEmbedder{vectors: map[string][]float32{}}
	index := NewEmbeddingIndex(embedder, corpus)

	for i := 0; i < 3; i++ {
		if _, err := index.Search(context.Background(), "q", 1); err != nil {
			t.Fatalf("Search failed: %v", err)
		}
	}
	// 1 corpus call + 3 query calls
	if embedder.calls != 4 {
		t.Errorf("Expected 4 embed calls, got %d", embedder.calls)
	}
}

func TestEmbeddingIndex_RecoversAfterTransientFailure(t *testing.T) {
	corpus := []model.Passage{{Text: "stage definitions", Source: "glossary.txt"}}
	embedder := &fakeEmbedder{
		vectors:  map[string][]float32{"stage definitions": {1, 0, 0}},
		failures: 1,
	}
	index := NewEmbeddingIndex(embedder, corpus)

	if _, err := index.Search(context.Background(), "q", 1); err == nil {
		t.Fatal("Expected first search to surface the embed failure")
	}

	hits, err := index.Search(context.Background(), "q", 1)
	if err != nil {
		t.Fatalf("Expected corpus embedding retried after failure, got %v", err)
	}
	if len(hits) != 1 || hits[0].Source != "glossary.txt" {
		t.Errorf("Unexpected hits after recovery: %v", hits)
	}
	// Failed corpus attempt, then successful corpus + query embeds
	if embedder.calls != 3 {
		t.Errorf("Expected 3 embed calls, got %d", embedder.calls)
	}
}

func TestEmbeddingIndex_PropagatesError(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("boom")}
	index := NewEmbeddingIndex(embedder, []model.Passage{{Text: "a", Source: "a.txt"}})

	if _, err := index.Search(context.Background(), "q", 1); err == nil {
		t.Fatal("Expected error from failing embedder")
	}
}

func TestCosine(t *testing.T) {
	if got := cosine([]float32{1, 0}, []float32{1, 0}); got < 0.999 {
		t.Errorf("Expected ~1.0 for identical vectors, got %v", got)
	}
	if got := cosine([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("Expected 0 for orthogonal vectors, got %v", got)
	}
	if got := cosine([]float32{1}, []float32{1, 2}); got != 0 {
		t.Errorf("Expected 0 for mismatched lengths, got %v", got)
	}
}

func TestNewIndex_FallsBackToKeywordWithoutKey(t *testing.T) {
	cfg := model.RetrievalConfig{Mode: "embedding", TopK: 3}
	index, err := NewIndex(cfg, model.LLMConfig{})
	if err != nil {
		t.Fatalf("NewIndex failed: %v", err)
	}
	if index.Name() != "keyword" {
		t.Errorf("Expected keyword fallback, got %s", index.Name())
	}
}

func TestNewIndex_UnknownMode(t *testing.T) {
	if _, err := NewIndex(model.RetrievalConfig{Mode: "bm25"}, model.LLMConfig{}); err == nil {
		t.Fatal("Expected error for unknown mode")
	}
}
