package retrieval

import (
	"context"

	"github.com/kailas-cloud/convsearch/internal/domain"
)

// Retriever is a swappable back end turning a query string into ranked
// documents. Implementations return at most their configured number of
// results, in the back end's own ranking order, and never synthesize partial
// results on failure.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]domain.Document, error)
}

// QueryGenerator derives a standalone query string from a conversation.
// The conversation is ordered most-recent-first.
type QueryGenerator interface {
	GetQuery(ctx context.Context, conv []domain.Message) (string, error)
}

// Reranker optionally reorders retrieved documents for a query.
type Reranker interface {
	Rerank(ctx context.Context, query string, docs []domain.Document) ([]domain.Document, error)
}
