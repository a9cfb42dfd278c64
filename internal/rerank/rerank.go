// Package rerank reorders lexical search results by semantic similarity
// between the query and each candidate's text.
package rerank

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/hyperjump/tansaku/internal/embedding"
	"github.com/hyperjump/tansaku/internal/metrics"
	"github.com/hyperjump/tansaku/internal/vector"
)

// Default blend weights between the normalized lexical score and the cosine
// similarity.
const (
	DefaultLexicalWeight  = 0.6
	DefaultSemanticWeight = 0.4
)

// Entry is a scored candidate entering the rerank stage. Text is what gets
// embedded; an empty Text falls back to the ID.
type Entry struct {
	ID    string
	Score float64
	Text  string
}

// Lookup resolves a precomputed document vector by ID. Vectors served
// through a Lookup must live in the hash embedder's space, so they are only
// consulted when the hash embedder produces the query vector.
type Lookup func(id string) ([]float32, bool)

// Reranker blends lexical scores with query/document cosine similarity.
// An optional external model supplies embeddings when it reports itself
// available; otherwise the hash embedder serves both sides.
type Reranker struct {
	hash     embedding.Embedder
	model    embedding.Model
	lookup   Lookup
	lexical  float64
	semantic float64
	logger   *zap.Logger
}

// Option configures a Reranker.
type Option func(*Reranker)

// WithModel sets an external embedding model tried before the hash embedder.
func WithModel(m embedding.Model) Option {
	return func(r *Reranker) { r.model = m }
}

// WithLookup sets a source of precomputed hash-space document vectors.
func WithLookup(fn Lookup) Option {
	return func(r *Reranker) { r.lookup = fn }
}

// WithWeights overrides the lexical/semantic blend weights. Non-positive
// pairs are ignored.
func WithWeights(lexical, semantic float64) Option {
	return func(r *Reranker) {
		if lexical <= 0 && semantic <= 0 {
			return
		}
		r.lexical = lexical
		r.semantic = semantic
	}
}

// New creates a Reranker over the given hash embedder.
func New(hash embedding.Embedder, logger *zap.Logger, opts ...Option) *Reranker {
	r := &Reranker{
		hash:     hash,
		lexical:  DefaultLexicalWeight,
		semantic: DefaultSemanticWeight,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rerank rescores entries as lexicalWeight*normalizedScore +
// semanticWeight*cosine(query, entry) and re-sorts descending. Baseline
// scores are normalized to [0,1] by the maximum. Model failures degrade to
// the hash embedder and are never fatal; the input order is preserved for
// tied scores.
func (r *Reranker) Rerank(ctx context.Context, query string, entries []Entry) []Entry {
	if len(entries) == 0 {
		return entries
	}
	if out, ok := r.rerankWithModel(ctx, query, entries); ok {
		return out
	}
	return r.rerankWithHash(ctx, query, entries)
}

// rerankWithModel embeds query and entries through the external model.
// Returns ok=false when the model is absent, unavailable, or errors; absence
// is the normal hash-only configuration and is not counted as a fallback.
func (r *Reranker) rerankWithModel(ctx context.Context, query string, entries []Entry) ([]Entry, bool) {
	if r.model == nil {
		return nil, false
	}
	if !r.model.Available() {
		r.noteFallback("model unavailable", r.model.LastError())
		return nil, false
	}
	queryVec, err := r.model.Embed(ctx, query)
	if err != nil {
		r.noteFallback("query embedding failed", err)
		return nil, false
	}
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = embedText(e)
	}
	vecs, err := r.model.EmbedBatch(ctx, texts)
	if err != nil {
		r.noteFallback("entry embedding failed", err)
		return nil, false
	}
	return r.blend(entries, queryVec, func(i int, _ Entry) []float32 {
		return vecs[i]
	}), true
}

// rerankWithHash embeds through the hash embedder, preferring precomputed
// snapshot vectors when a Lookup is set.
func (r *Reranker) rerankWithHash(ctx context.Context, query string, entries []Entry) []Entry {
	queryVec, err := r.hash.Embed(ctx, query)
	if err != nil {
		// The hash embedder is deterministic and does not fail in
		// practice; keep the lexical order if it somehow does.
		r.logger.Warn("hash embedding failed, keeping lexical order", zap.Error(err))
		return entries
	}
	return r.blend(entries, queryVec, func(_ int, e Entry) []float32 {
		if r.lookup != nil {
			if vec, ok := r.lookup(e.ID); ok {
				return vec
			}
		}
		vec, err := r.hash.Embed(ctx, embedText(e))
		if err != nil {
			return nil
		}
		return vec
	})
}

func (r *Reranker) blend(entries []Entry, queryVec []float32, vecFor func(int, Entry) []float32) []Entry {
	var maxScore float64
	for _, e := range entries {
		if e.Score > maxScore {
			maxScore = e.Score
		}
	}

	out := make([]Entry, len(entries))
	copy(out, entries)
	for i := range out {
		var norm float64
		if maxScore > 0 {
			norm = out[i].Score / maxScore
		}
		sim := vector.Cosine(queryVec, vecFor(i, out[i]))
		out[i].Score = r.lexical*norm + r.semantic*sim
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func (r *Reranker) noteFallback(reason string, err error) {
	metrics.RerankFallbacksTotal.Inc()
	r.logger.Warn("rerank falling back to hash embedder",
		zap.String("reason", reason),
		zap.Error(err))
}

func embedText(e Entry) string {
	if e.Text == "" {
		return e.ID
	}
	return e.Text
}
