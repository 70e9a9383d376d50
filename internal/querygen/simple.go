// Package querygen provides heuristic query generation from a conversation.
package querygen

import (
	"context"
	"strings"

	"github.com/kailas-cloud/convsearch/internal/domain"
	"github.com/kailas-cloud/convsearch/internal/metrics"
)

// Simple derives a query by concatenating the most recent conversation turns
// in chronological order. It keeps no state and never fails.
type Simple struct {
	maxTurns int
}

// NewSimple creates a heuristic query generator using at most maxTurns
// messages (default 5 when maxTurns <= 0).
func NewSimple(maxTurns int) *Simple {
	if maxTurns <= 0 {
		maxTurns = 5
	}
	return &Simple{maxTurns: maxTurns}
}

// GetQuery joins the texts of up to maxTurns messages. The conversation is
// most-recent-first; output is chronological so the newest turn carries the
// final position in the query.
func (s *Simple) GetQuery(_ context.Context, conv []domain.Message) (string, error) {
	n := len(conv)
	if n > s.maxTurns {
		n = s.maxTurns
	}

	parts := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		text := strings.TrimSpace(conv[i].Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}

	metrics.QueryGenerationsTotal.WithLabelValues("simple", "success").Inc()
	return strings.Join(parts, " "), nil
}
