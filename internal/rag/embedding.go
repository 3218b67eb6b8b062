package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/neersetu/neersetu/internal/model"
)

// Embedder turns texts into vectors. Abstracted so tests can rank against a
// fake without network access.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// OpenAIEmbedder embeds via the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder creates an embedder for the given model identifier.
func NewOpenAIEmbedder(client *openai.Client, embedModel string) *OpenAIEmbedder {
	if embedModel == "" {
		embedModel = "text-embedding-3-small"
	}
	return &OpenAIEmbedder{client: client, model: embedModel}
}

// Embed returns one vector per input, in input order.
func (e *OpenAIEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: inputs,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d, got %d", len(inputs), len(resp.Data))
	}

	vectors := make([][]float32, len(inputs))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(inputs) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

// EmbeddingIndex ranks passages by cosine similarity between query and
// passage embeddings. The corpus is embedded lazily, on first search; a
// failed attempt is retried on the next search rather than cached, so a
// transient embedder outage never disables the index for good.
type EmbeddingIndex struct {
	embedder Embedder
	corpus   []model.Passage

	mu      sync.Mutex
	vectors [][]float32 // nil until the corpus embeds successfully
}

// NewEmbeddingIndex builds an embedding index over corpus.
func NewEmbeddingIndex(embedder Embedder, corpus []model.Passage) *EmbeddingIndex {
	return &EmbeddingIndex{embedder: embedder, corpus: corpus}
}

// Name returns the index implementation name.
func (x *EmbeddingIndex) Name() string {
	return "embedding"
}

// Search embeds the query and returns the k nearest passages by cosine
// similarity.
func (x *EmbeddingIndex) Search(ctx context.Context, query string, k int) ([]model.Passage, error) {
	vectors, err := x.corpusVectors(ctx)
	if err != nil {
		return nil, fmt.Errorf("index corpus: %w", err)
	}

	qvecs, err := x.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	qvec := qvecs[0]

	type scored struct {
		passage model.Passage
		score   float64
	}
	hits := make([]scored, 0, len(x.corpus))
	for i, p := range x.corpus {
		hits = append(hits, scored{passage: p, score: cosine(qvec, vectors[i])})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	out := make([]model.Passage, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.passage)
	}
	return out, nil
}

// corpusVectors returns the corpus embeddings, computing them on the first
// successful call. Only success is cached.
func (x *EmbeddingIndex) corpusVectors(ctx context.Context) ([][]float32, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.vectors != nil {
		return x.vectors, nil
	}

	texts := make([]string, len(x.corpus))
	for i, p := range x.corpus {
		texts[i] = p.Text
	}
	vectors, err := x.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if vectors == nil {
		vectors = [][]float32{}
	}
	x.vectors = vectors
	return vectors, nil
}

// cosine returns the cosine similarity of two vectors; 0 for mismatched or
// zero-magnitude inputs.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
