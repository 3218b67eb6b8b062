// Package agent implements the question-answering pipeline: query routing,
// evidence assembly, answer composition, and response sanitization.
package agent

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/neersetu/neersetu/internal/cache"
	"github.com/neersetu/neersetu/internal/llm"
	"github.com/neersetu/neersetu/internal/model"
	"github.com/neersetu/neersetu/internal/rag"
	"github.com/neersetu/neersetu/internal/store"
)

// Agent is the top-level entry point. One Agent serves many concurrent
// requests: the stores are read-only, the cache is internally synchronized,
// and each Ask runs independently.
type Agent struct {
	assembler *Assembler
	composer  *Composer

	answerCache cache.Cache // nil = caching disabled
	cacheTTL    time.Duration
}

// Option customizes an Agent.
type Option func(*Agent)

// WithCache enables answer caching with the given TTL.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(a *Agent) {
		a.answerCache = c
		a.cacheTTL = ttl
	}
}

// New creates an agent. backend may be nil (deterministic composition only).
func New(facts store.FactStore, index rag.Index, backend llm.Backend, topK int, opts ...Option) *Agent {
	a := &Agent{
		assembler: NewAssembler(facts, index, topK),
		composer:  NewComposer(backend),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask answers one query. It never returns an error: every failure mode
// degrades to a partial evidence bundle or the deterministic composer, and
// the caller always receives well-formed text.
func (a *Agent) Ask(ctx context.Context, query string) (answer string) {
	defer func() {
		// The entry-point contract is "never raise"; a panic anywhere in
		// the pipeline degrades to a minimal admission instead.
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Warning: pipeline panic recovered: %v\n", r)
			answer = "**Answer**\n\ninsufficient data"
		}
	}()

	var key string
	if a.answerCache != nil {
		key = cache.Key(query)
		if cached, ok := a.answerCache.Get(key); ok {
			return cached
		}
	}

	intent, block, years := Classify(query)
	qc := model.QueryContext{
		RawText: query,
		Intent:  intent,
		Block:   block,
		Years:   years,
	}

	bundle := a.assembler.Assemble(ctx, qc)
	answer = a.composer.Compose(ctx, bundle, query)

	if a.answerCache != nil {
		a.answerCache.Set(key, answer, a.cacheTTL)
	}
	return answer
}
