package interaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/kailas-cloud/convsearch/internal/domain"
)

type mockRepo struct {
	recordFn  func(ctx context.Context, msg domain.Message) error
	historyFn func(ctx context.Context, userID string, limit int64) ([]domain.Message, error)
	countFn   func(ctx context.Context, userID string) (int64, error)
}

func (m *mockRepo) Record(ctx context.Context, msg domain.Message) error {
	if m.recordFn != nil {
		return m.recordFn(ctx, msg)
	}
	return nil
}

func (m *mockRepo) History(ctx context.Context, userID string, limit int64) ([]domain.Message, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockRepo) Count(ctx context.Context, userID string) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, userID)
	}
	return 0, nil
}

func TestRecordFillsMissingTimestamp(t *testing.T) {
	repo := &mockRepo{}
	var stored domain.Message
	repo.recordFn = func(_ context.Context, msg domain.Message) error {
		stored = msg
		return nil
	}
	svc := New(repo, zaptest.NewLogger(t))

	before := time.Now().UTC()
	got, err := svc.Record(context.Background(), domain.Message{UserID: "alice", Text: "hi"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.Time.IsZero() || got.Time.Before(before) {
		t.Errorf("timestamp not filled: %v", got.Time)
	}
	if stored.Time != got.Time {
		t.Errorf("stored time %v differs from returned %v", stored.Time, got.Time)
	}
}

func TestRecordKeepsExplicitTimestamp(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, zaptest.NewLogger(t))

	ts := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	got, err := svc.Record(context.Background(), domain.Message{UserID: "alice", Text: "hi", Time: ts})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !got.Time.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", got.Time, ts)
	}
}

func TestHistoryPropagatesRepoError(t *testing.T) {
	repoErr := errors.New("store down")
	repo := &mockRepo{
		historyFn: func(_ context.Context, _ string, _ int64) ([]domain.Message, error) {
			return nil, repoErr
		},
	}
	svc := New(repo, zaptest.NewLogger(t))

	if _, err := svc.History(context.Background(), "alice", 10); !errors.Is(err, repoErr) {
		t.Errorf("error = %v, want wrapped repo error", err)
	}
}
