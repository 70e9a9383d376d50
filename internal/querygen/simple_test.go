package querygen

import (
	"context"
	"os"
	"testing"

	"github.com/kailas-cloud/convsearch/internal/domain"
	"github.com/kailas-cloud/convsearch/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterRetrievalMetrics()
	os.Exit(m.Run())
}

func TestSimple_JoinsChronologically(t *testing.T) {
	gen := NewSimple(5)
	conv := []domain.Message{
		{Text: "what are its causes?"},
		{Text: "tell me about climate change"},
	}

	q, err := gen.GetQuery(context.Background(), conv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "tell me about climate change what are its causes?"
	if q != expected {
		t.Errorf("query = %q, expected %q", q, expected)
	}
}

func TestSimple_RespectsMaxTurns(t *testing.T) {
	gen := NewSimple(2)
	conv := []domain.Message{
		{Text: "third"},
		{Text: "second"},
		{Text: "first"},
	}

	q, err := gen.GetQuery(context.Background(), conv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "second third" {
		t.Errorf("query = %q, expected only the 2 most recent turns", q)
	}
}

func TestSimple_SkipsEmptyMessages(t *testing.T) {
	gen := NewSimple(5)
	conv := []domain.Message{
		{Text: "question"},
		{Text: "   "},
	}

	q, err := gen.GetQuery(context.Background(), conv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "question" {
		t.Errorf("query = %q, expected %q", q, "question")
	}
}

func TestSimple_EmptyConversation(t *testing.T) {
	gen := NewSimple(5)

	q, err := gen.GetQuery(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "" {
		t.Errorf("query = %q, expected empty", q)
	}
}
