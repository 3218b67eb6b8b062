package rag

import (
	"context"
	"sort"
	"strings"

	"github.com/neersetu/neersetu/internal/model"
)

// KeywordIndex is a zero-dependency retriever: passages are ranked by how
// many unique query tokens they contain. Works offline with no credentials.
type KeywordIndex struct {
	corpus []model.Passage
}

// NewKeywordIndex builds a keyword index over corpus.
func NewKeywordIndex(corpus []model.Passage) *KeywordIndex {
	return &KeywordIndex{corpus: corpus}
}

// Name returns the index implementation name.
func (x *KeywordIndex) Name() string {
	return "keyword"
}

// Search scores each passage by unique-token containment and returns the
// top k with a positive score.
func (x *KeywordIndex) Search(_ context.Context, query string, k int) ([]model.Passage, error) {
	tokens := queryTokens(query)

	type scored struct {
		passage model.Passage
		score   int
		order   int
	}
	var hits []scored
	for i, p := range x.corpus {
		s := score(tokens, p.Text)
		if s > 0 {
			hits = append(hits, scored{passage: p, score: s, order: i})
		}
	}

	// Stable by corpus order among equal scores
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].order < hits[j].order
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

// queryTokens extracts unique lowercase tokens of length >= 3.
func queryTokens(query string) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if len(t) < 3 || seen[t] {
			continue
		}
		seen[t] = true
		tokens = append(tokens, t)
	}
	return tokens
}

// score counts how many of the tokens appear in text.
func score(tokens []string, text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, t := range tokens {
		if strings.Contains(lower, t) {
			n++
		}
	}
	return n
}
