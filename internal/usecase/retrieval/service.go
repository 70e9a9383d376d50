// Package retrieval pairs conversational query generation with a pluggable
// retrieval back end. GetResults is the only entry point external callers
// should use: it guarantees query derivation and retrieval always happen
// together.
package retrieval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/convsearch/internal/domain"
	"github.com/kailas-cloud/convsearch/internal/metrics"
)

// Service derives a query from a conversation and delegates to a back end.
type Service struct {
	backend   string // metrics label: "indri" or "web"
	gen       QueryGenerator
	retriever Retriever
	reranker  Reranker
	logger    *zap.Logger
}

// New creates a retrieval service.
func New(backend string, gen QueryGenerator, retriever Retriever, logger *zap.Logger) *Service {
	return &Service{
		backend:   backend,
		gen:       gen,
		retriever: retriever,
		logger:    logger,
	}
}

// WithReranker attaches an optional reranking stage applied after Retrieve.
func (s *Service) WithReranker(r Reranker) *Service {
	s.reranker = r
	return s
}

// GetResults derives a query from the conversation (most-recent-first), logs
// it, and retrieves documents. Query generation is called exactly once per
// invocation. All failures propagate to the caller; there is no retry and no
// partial result list.
func (s *Service) GetResults(ctx context.Context, conv []domain.Message) ([]domain.Document, error) {
	query, err := s.gen.GetQuery(ctx, conv)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrQueryGeneration, err)
	}

	s.logger.Info("New query", zap.String("query", query))

	start := time.Now()
	docs, err := s.retriever.Retrieve(ctx, query)
	metrics.RetrievalRequestDuration.WithLabelValues(s.backend).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RetrievalRequestsTotal.WithLabelValues(s.backend, "error").Inc()
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	metrics.RetrievalRequestsTotal.WithLabelValues(s.backend, "success").Inc()
	metrics.RetrievalDocumentsReturned.WithLabelValues(s.backend).Observe(float64(len(docs)))

	if s.reranker != nil {
		docs, err = s.reranker.Rerank(ctx, query, docs)
		if err != nil {
			return nil, fmt.Errorf("rerank: %w", err)
		}
	}

	return docs, nil
}
