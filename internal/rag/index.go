// Package rag provides the passage-retrieval capability: a small corpus of
// policy/glossary documents and interchangeable indexes over it.
package rag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neersetu/neersetu/internal/model"
)

// Index returns the top-k best-matching passages for a free-text query.
// Implementations may return fewer than k, or none.
type Index interface {
	// Name returns the index implementation name
	Name() string

	// Search returns passages best-match-first
	Search(ctx context.Context, query string, k int) ([]model.Passage, error)
}

// BuiltinCorpus is the corpus that ships with the binary, available even when
// no docs directory is configured.
func BuiltinCorpus() []model.Passage {
	return []model.Passage{
		{
			Source: "glossary.txt",
			Text: "Over-exploited: Annual groundwater extraction exceeds annual recharge; strict regulation and " +
				"recharge are needed. Critical: Extraction close to recharge; adopt conservation and artificial " +
				"recharge (check-dams, percolation tanks). Safe: Extraction comfortably below recharge. " +
				"Monitor and use efficient irrigation practices.",
		},
		{
			Source: "interventions.txt",
			Text: "Interventions: Check-dams and percolation tanks in upper catchments; roof-top rainwater " +
				"harvesting in settlements and public buildings; water budgeting at panchayat level; crop " +
				"planning to reduce water stress. Citations: CGWB GWRA-2022; Master Plan for Artificial " +
				"Recharge 2020.",
		},
	}
}

// LoadCorpus returns the built-in corpus plus one passage per *.txt file in
// dir (empty dir = built-in only). File basenames become source identifiers.
func LoadCorpus(dir string) ([]model.Passage, error) {
	corpus := BuiltinCorpus()
	if dir == "" {
		return corpus, nil
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("glob docs dir: %w", err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			continue
		}
		corpus = append(corpus, model.Passage{
			Text:   text,
			Source: filepath.Base(path),
		})
	}
	return corpus, nil
}
