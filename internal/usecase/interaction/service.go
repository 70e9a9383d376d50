// Package interaction records every user turn so query generators and
// clients can look back at the conversation.
package interaction

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/convsearch/internal/domain"
)

// Service implements the interaction log operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates an interaction service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record stores one message. A missing timestamp is filled with the current
// time so log order stays meaningful.
func (s *Service) Record(ctx context.Context, msg domain.Message) (domain.Message, error) {
	if msg.Time.IsZero() {
		msg.Time = time.Now().UTC()
	}
	if err := s.repo.Record(ctx, msg); err != nil {
		return domain.Message{}, fmt.Errorf("record interaction: %w", err)
	}
	s.logger.Debug("Interaction recorded",
		zap.String("user_id", msg.UserID),
		zap.String("message_id", msg.ID),
	)
	return msg, nil
}

// History returns the user's most recent messages, oldest first. A
// non-positive limit returns everything.
func (s *Service) History(ctx context.Context, userID string, limit int64) ([]domain.Message, error) {
	msgs, err := s.repo.History(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("load interaction history: %w", err)
	}
	return msgs, nil
}

// Count returns the size of the user's log.
func (s *Service) Count(ctx context.Context, userID string) (int64, error) {
	return s.repo.Count(ctx, userID)
}
