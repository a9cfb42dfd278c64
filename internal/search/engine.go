// Package search provides the catalog search engine: immutable scoring
// snapshots, the query pipeline, and result assembly.
package search

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/hyperjump/tansaku/internal/config"
	"github.com/hyperjump/tansaku/internal/embedding"
	"github.com/hyperjump/tansaku/internal/metrics"
	"github.com/hyperjump/tansaku/internal/models"
	"github.com/hyperjump/tansaku/internal/ranking"
	"github.com/hyperjump/tansaku/internal/rerank"
	"github.com/hyperjump/tansaku/internal/storage"
	"github.com/hyperjump/tansaku/internal/synonym"
	"github.com/hyperjump/tansaku/internal/tokenizer"
	"github.com/hyperjump/tansaku/internal/vector"
)

// Snapshot is one immutable view of the catalog: the scoring index, the
// documents by ID, and their precomputed embeddings. Queries read a snapshot
// without locks; rebuilds assemble a new one and swap it in whole.
type Snapshot struct {
	Index      *ranking.Index
	Docs       map[string]*models.Document
	Embeddings *vector.Store
	BuiltAt    time.Time
}

// Stats describes the active snapshot and its surroundings.
type Stats struct {
	Documents      int       `json:"documents"`
	Terms          int       `json:"terms"`
	EmbeddingDims  int       `json:"embedding_dims"`
	BuiltAt        time.Time `json:"built_at"`
	StorePath      string    `json:"store_path"`
	StoreBytes     int64     `json:"store_bytes"`
	ModelAvailable bool      `json:"model_available"`
	ModelError     string    `json:"model_error,omitempty"`
}

// Engine is the search facade. It owns the snapshot lifecycle and runs the
// query pipeline: tokenize, expand, score, suggest, rerank, paginate.
type Engine struct {
	cfg      *config.Config
	store    storage.Store
	logger   *zap.Logger
	expander *synonym.Expander
	scorer   *ranking.Scorer
	embedder embedding.Embedder
	model    embedding.Model
	reranker *rerank.Reranker
	pool     *ants.Pool

	buildMu  sync.Mutex // serializes rebuilds
	snapshot atomic.Pointer[Snapshot]
}

// Option configures an Engine.
type Option func(*Engine)

// WithModel attaches an external embedding model for reranking. The engine
// uses it through the reranker's availability checks; it never blocks
// snapshot builds.
func WithModel(m embedding.Model) Option {
	return func(e *Engine) { e.model = m }
}

// NewEngine creates an engine over the given store. The engine starts with
// an empty snapshot so Search works immediately; call Rebuild to load the
// catalog.
func NewEngine(cfg *config.Config, store storage.Store, logger *zap.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	// Zero-fill so partially constructed configs still get sane limits.
	config.ApplyDefaults(cfg)
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Register()

	e := &Engine{
		cfg:      cfg,
		store:    store,
		logger:   logger,
		expander: synonym.NewExpander(cfg.Synonyms),
		scorer:   ranking.NewScorer(&cfg.Ranking),
		embedder: embedding.NewCached(
			embedding.NewHashEmbedder(cfg.Embedding.Dimensions),
			cfg.Embedding.CacheSize,
		),
	}
	for _, opt := range opts {
		opt(e)
	}

	workers := cfg.Engine.BuildWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create build pool: %w", err)
	}
	e.pool = pool

	rerankOpts := []rerank.Option{
		rerank.WithWeights(cfg.Rerank.LexicalWeight, cfg.Rerank.SemanticWeight),
		rerank.WithLookup(e.lookupVector),
	}
	if e.model != nil {
		rerankOpts = append(rerankOpts, rerank.WithModel(e.model))
	}
	e.reranker = rerank.New(e.embedder, logger.Named("rerank"), rerankOpts...)

	e.snapshot.Store(e.emptySnapshot())
	return e, nil
}

func (e *Engine) emptySnapshot() *Snapshot {
	vs, _ := vector.NewStore(e.embedder.Dimensions())
	return &Snapshot{
		Index:      ranking.BuildIndex(nil, &e.cfg.Ranking),
		Docs:       make(map[string]*models.Document),
		Embeddings: vs,
	}
}

// Rebuild loads the catalog from the store and swaps in a fresh snapshot.
// In-flight queries keep the old snapshot. Documents are embedded in
// parallel on the build pool.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	start := time.Now()
	docs, err := e.store.List(ctx)
	if err != nil {
		metrics.SnapshotBuildsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	index := ranking.BuildIndex(docs, &e.cfg.Ranking)
	vs, err := vector.NewStore(e.embedder.Dimensions())
	if err != nil {
		metrics.SnapshotBuildsTotal.WithLabelValues("error").Inc()
		return err
	}

	byID := make(map[string]*models.Document, len(docs))
	var wg sync.WaitGroup
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		byID[doc.ID] = doc

		doc := doc
		wg.Add(1)
		task := func() {
			defer wg.Done()
			vec, err := e.embedder.Embed(ctx, doc.SearchText())
			if err != nil {
				e.logger.Warn("failed to embed document",
					zap.String("id", doc.ID), zap.Error(err))
				return
			}
			if err := vs.Add(doc.ID, vec); err != nil {
				e.logger.Warn("failed to store embedding",
					zap.String("id", doc.ID), zap.Error(err))
			}
		}
		if err := e.pool.Submit(task); err != nil {
			// Pool exhausted or released; embed on the calling goroutine.
			task()
		}
	}
	wg.Wait()

	e.snapshot.Store(&Snapshot{
		Index:      index,
		Docs:       byID,
		Embeddings: vs,
		BuiltAt:    time.Now(),
	})

	metrics.SnapshotBuildsTotal.WithLabelValues("ok").Inc()
	metrics.SnapshotDocuments.Set(float64(len(byID)))
	e.logger.Info("snapshot built",
		zap.Int("documents", len(byID)),
		zap.Int("terms", index.TermCount()),
		zap.Duration("took", time.Since(start)))
	return nil
}

// Search runs the query pipeline against the active snapshot. An empty or
// unmatched query yields an empty result set, never an error.
func (e *Engine) Search(ctx context.Context, q models.SearchQuery) (*models.SearchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	e.normalize(&q)
	snap := e.snapshot.Load()

	tokens := tokenizer.TokenizeQuery(q.Query)
	var queryTokens []synonym.Token
	if q.Synonyms {
		queryTokens = e.expander.Expand(tokens)
	} else {
		queryTokens = synonym.Wrap(tokens)
	}

	scored := e.scorer.Score(snap.Index, q.Query, queryTokens)
	if q.MinScore > 0 {
		kept := scored[:0]
		for _, r := range scored {
			if r.Score >= q.MinScore {
				kept = append(kept, r)
			}
		}
		scored = kept
	}

	suggestions := Suggest(snap.Index, tokens, maxSuggestions)

	reranked := false
	if q.Rerank && len(scored) > 0 {
		scored = e.rerankScored(ctx, snap, q.Query, scored)
		reranked = true
	}

	total := len(scored)
	lo, hi := q.Offset, q.Offset+q.Limit
	if lo > total {
		lo = total
	}
	if hi > total {
		hi = total
	}

	results := make([]*models.SearchResult, 0, hi-lo)
	for _, r := range scored[lo:hi] {
		result := &models.SearchResult{
			ID:            r.ID,
			Score:         r.Score,
			MatchedFields: r.MatchedFields,
		}
		if doc := snap.Docs[r.ID]; doc != nil {
			result.Title = doc.Title
			result.Snippet = Snippet(doc, e.cfg.Engine.SnippetLength)
		}
		results = append(results, result)
	}

	elapsed := time.Since(start)
	metrics.SearchesTotal.WithLabelValues(strconv.FormatBool(reranked)).Inc()
	metrics.SearchDuration.Observe(elapsed.Seconds())
	e.logger.Debug("search",
		zap.String("query", q.Query),
		zap.Int("total", total),
		zap.Bool("reranked", reranked),
		zap.Duration("took", elapsed))

	return &models.SearchResponse{
		Results:     results,
		Total:       total,
		Query:       q.Query,
		QueryTime:   elapsed.Milliseconds(),
		Reranked:    reranked,
		Suggestions: suggestions,
	}, nil
}

// rerankScored blends the lexical scores with semantic similarity and
// re-sorts, carrying each document's matched fields through.
func (e *Engine) rerankScored(ctx context.Context, snap *Snapshot, query string, scored []ranking.ScoredResult) []ranking.ScoredResult {
	fieldsByID := make(map[string][]string, len(scored))
	entries := make([]rerank.Entry, len(scored))
	for i, r := range scored {
		fieldsByID[r.ID] = r.MatchedFields
		entry := rerank.Entry{ID: r.ID, Score: r.Score}
		if doc := snap.Docs[r.ID]; doc != nil {
			entry.Text = doc.SearchText()
		}
		entries[i] = entry
	}

	blended := e.reranker.Rerank(ctx, query, entries)
	out := make([]ranking.ScoredResult, len(blended))
	for i, entry := range blended {
		out[i] = ranking.ScoredResult{
			ID:            entry.ID,
			Score:         entry.Score,
			MatchedFields: fieldsByID[entry.ID],
		}
	}
	return out
}

// Document returns a document from the active snapshot, so lookups stay
// consistent with what search results reference.
func (e *Engine) Document(id string) (*models.Document, bool) {
	doc, ok := e.snapshot.Load().Docs[id]
	return doc, ok
}

// Documents returns every document in the active snapshot sorted by title,
// with ID as the tiebreak.
func (e *Engine) Documents() []*models.Document {
	snap := e.snapshot.Load()
	docs := make([]*models.Document, 0, len(snap.Docs))
	for _, doc := range snap.Docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		ti := strings.ToLower(docs[i].Title)
		tj := strings.ToLower(docs[j].Title)
		if ti != tj {
			return ti < tj
		}
		return docs[i].ID < docs[j].ID
	})
	return docs
}

// Stats reports on the active snapshot, the backing store, and the external
// model's health.
func (e *Engine) Stats() Stats {
	snap := e.snapshot.Load()
	size, err := e.store.Size()
	if err != nil {
		e.logger.Warn("failed to stat store", zap.Error(err))
	}
	s := Stats{
		Documents:     snap.Index.Len(),
		Terms:         snap.Index.TermCount(),
		EmbeddingDims: e.embedder.Dimensions(),
		BuiltAt:       snap.BuiltAt,
		StorePath:     e.store.Path(),
		StoreBytes:    size,
	}
	if e.model != nil {
		s.ModelAvailable = e.model.Available()
		if lastErr := e.model.LastError(); lastErr != nil {
			s.ModelError = lastErr.Error()
		}
	}
	return s
}

// Close releases the build pool and the embedder cache. The store stays
// open; its owner closes it.
func (e *Engine) Close() error {
	e.pool.Release()
	return e.embedder.Close()
}

// normalize clamps limit and offset to the configured bounds.
func (e *Engine) normalize(q *models.SearchQuery) {
	if q.Limit <= 0 {
		q.Limit = e.cfg.Engine.DefaultLimit
	}
	if q.Limit > e.cfg.Engine.MaxLimit {
		q.Limit = e.cfg.Engine.MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// lookupVector serves precomputed document embeddings to the reranker. The
// hash embedder is deterministic in the document text, so a vector read
// from a just-swapped snapshot is still the right vector for that text.
func (e *Engine) lookupVector(id string) ([]float32, bool) {
	return e.snapshot.Load().Embeddings.Get(id)
}
