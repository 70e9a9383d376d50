// Package indri adapts a local Indri-style index engine as a retrieval back
// end. Ranking (query likelihood with smoothing) is delegated entirely to the
// engine; this package only converts its output into documents.
package indri

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/convsearch/internal/domain"
)

// TextFormatTrecText is the only supported collection text format.
const TextFormatTrecText = "trectext"

// Hit is one ranked (internal document id, score) pair in engine order.
type Hit struct {
	DocID int
	Score float64
}

// Dictionary holds the index term lookup tables, read once at construction.
type Dictionary struct {
	TermID    map[string]int
	IDTerm    map[int]string
	IDDocFreq map[int]int
}

// Engine is the consumer interface for the external index engine (ISP).
type Engine interface {
	// Query returns at most n ranked hits, descending score, ties broken
	// by engine-internal order.
	Query(ctx context.Context, query string, n int) ([]Hit, error)
	Dictionary(ctx context.Context) (Dictionary, error)
	TermFrequencies(ctx context.Context) (map[int]int, error)
}

// DocumentStore fetches raw stored content by internal document id.
type DocumentStore interface {
	Fetch(ctx context.Context, docID int) (string, error)
}

// Config holds retriever settings.
type Config struct {
	ResultsRequested int    // max documents per Retrieve (default 1)
	TextFormat       string // must be TextFormatTrecText
}

// Retriever implements retrieval.Retriever over a local index engine.
// The dictionary and term-frequency table are read-only after construction
// and safe for concurrent access.
type Retriever struct {
	engine           Engine
	docs             DocumentStore
	resultsRequested int
	dict             Dictionary
	termFreqs        map[int]int
	logger           *zap.Logger
}

// New creates an index-backed retriever. The text format is validated before
// any engine call: an unsupported format is a configuration error and no
// external process is ever invoked for it.
func New(ctx context.Context, engine Engine, docs DocumentStore, cfg Config, logger *zap.Logger) (*Retriever, error) {
	if cfg.TextFormat != TextFormatTrecText {
		return nil, fmt.Errorf("text format %q: %w", cfg.TextFormat, domain.ErrUnsupportedTextFormat)
	}

	n := cfg.ResultsRequested
	if n <= 0 {
		n = 1
	}

	dict, err := engine.Dictionary(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w: %w", domain.ErrEngine, err)
	}
	tf, err := engine.TermFrequencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load term frequencies: %w: %w", domain.ErrEngine, err)
	}

	logger.Info("Index opened",
		zap.Int("vocabulary_size", len(dict.TermID)),
		zap.Int("results_requested", n),
	)

	return &Retriever{
		engine:           engine,
		docs:             docs,
		resultsRequested: n,
		dict:             dict,
		termFreqs:        tf,
		logger:           logger,
	}, nil
}

// Retrieve queries the engine for at most ResultsRequested hits and enriches
// each with its stored content, preserving the engine's ranking order. One
// store fetch per hit, sequential, not batched. Any engine, fetch, or parse
// failure aborts the whole call.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]domain.Document, error) {
	hits, err := r.engine.Query(ctx, query, r.resultsRequested)
	if err != nil {
		return nil, fmt.Errorf("query index: %w: %w", domain.ErrEngine, err)
	}

	results := make([]domain.Document, 0, len(hits))
	for _, h := range hits {
		content, err := r.docs.Fetch(ctx, h.DocID)
		if err != nil {
			return nil, fmt.Errorf("fetch doc %d: %w: %w", h.DocID, domain.ErrEngine, err)
		}

		doc, err := ParseTrecText(content)
		if err != nil {
			return nil, fmt.Errorf("parse doc %d: %w", h.DocID, err)
		}

		doc.ID = strconv.Itoa(h.DocID)
		doc.Score = h.Score
		results = append(results, doc)
	}

	return results, nil
}

// VocabularySize returns the number of distinct terms in the index.
func (r *Retriever) VocabularySize() int {
	return len(r.dict.TermID)
}

// DocumentFrequency returns the number of documents containing term,
// 0 for an unknown term.
func (r *Retriever) DocumentFrequency(term string) int {
	id, ok := r.dict.TermID[term]
	if !ok {
		return 0
	}
	return r.dict.IDDocFreq[id]
}

// TermFrequency returns the collection-wide occurrence count of term,
// 0 for an unknown term.
func (r *Retriever) TermFrequency(term string) int {
	id, ok := r.dict.TermID[term]
	if !ok {
		return 0
	}
	return r.termFreqs[id]
}

// HealthCheck verifies that the engine still answers dictionary reads.
func (r *Retriever) HealthCheck(ctx context.Context) error {
	if _, err := r.engine.Dictionary(ctx); err != nil {
		return fmt.Errorf("engine dictionary: %w", err)
	}
	return nil
}
