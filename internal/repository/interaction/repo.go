// Package interaction persists the per-user conversation log as an
// append-only list, one JSON-encoded message per entry.
package interaction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/convsearch/internal/domain"
)

// store is the consumer interface for the interaction log (ISP).
type store interface {
	RPush(ctx context.Context, key string, values ...[]byte) error
	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
	LLen(ctx context.Context, key string) (int64, error)
}

const keyPrefix = "convsearch:interactions:"

func logKey(userID string) string {
	return keyPrefix + userID
}

// Repo implements usecase/interaction.Repository.
type Repo struct {
	store store
}

// New creates an interaction repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Record appends one message to the user's log.
func (r *Repo) Record(ctx context.Context, msg domain.Message) error {
	data, err := json.Marshal(toDTO(msg))
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	key := logKey(msg.UserID)
	if err := r.store.RPush(ctx, key, data); err != nil {
		return fmt.Errorf("rpush %s: %w", key, err)
	}
	return nil
}

// History returns the user's most recent messages in chronological order.
// A non-positive limit returns the full log.
func (r *Repo) History(ctx context.Context, userID string, limit int64) ([]domain.Message, error) {
	key := logKey(userID)

	start := int64(0)
	if limit > 0 {
		start = -limit
	}
	raw, err := r.store.LRange(ctx, key, start, -1)
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}

	msgs := make([]domain.Message, 0, len(raw))
	for _, entry := range raw {
		var dto messageDTO
		if err := json.Unmarshal(entry, &dto); err != nil {
			return nil, fmt.Errorf("unmarshal message from %s: %w", key, err)
		}
		msgs = append(msgs, dto.toDomain())
	}
	return msgs, nil
}

// Count returns the number of messages in the user's log.
func (r *Repo) Count(ctx context.Context, userID string) (int64, error) {
	key := logKey(userID)
	n, err := r.store.LLen(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("llen %s: %w", key, err)
	}
	return n, nil
}
