package interaction

import (
	"context"

	"github.com/kailas-cloud/convsearch/internal/domain"
)

// Repository is the persistence port for the conversation log.
type Repository interface {
	Record(ctx context.Context, msg domain.Message) error
	History(ctx context.Context, userID string, limit int64) ([]domain.Message, error)
	Count(ctx context.Context, userID string) (int64, error)
}
