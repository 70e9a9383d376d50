package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/convsearch/internal/domain"
	"github.com/kailas-cloud/convsearch/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterRetrievalMetrics()
	os.Exit(m.Run())
}

// chatCompletionResponse mirrors the OpenAI-compatible chat completion response.
type chatCompletionResponse struct {
	Object  string `json:"object"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func completionServer(t *testing.T, content string, capture *[]map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		if capture != nil {
			var req struct {
				Messages []map[string]any `json:"messages"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			*capture = req.Messages
		}

		resp := chatCompletionResponse{Object: "chat.completion", Model: "test-model"}
		resp.Choices = append(resp.Choices, struct {
			Index   int `json:"index"`
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
		}{})
		resp.Choices[0].Message.Role = "assistant"
		resp.Choices[0].Message.Content = content
		resp.Usage.TotalTokens = 20

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestGenerator(serverURL string) *QueryGenerator {
	return NewQueryGenerator(&Config{
		APIKey:   "test-key",
		BaseURL:  serverURL,
		Model:    "test-model",
		MaxTurns: 3,
		Logger:   zap.NewNop(),
	})
}

func TestGetQuery_RewritesConversation(t *testing.T) {
	var captured []map[string]any
	server := completionServer(t, "  climate change causes\n", &captured)
	defer server.Close()

	gen := newTestGenerator(server.URL)
	conv := []domain.Message{
		{Text: "what about its causes?"},
		{Text: "tell me about climate change"},
	}

	q, err := gen.GetQuery(context.Background(), conv)
	if err != nil {
		t.Fatalf("GetQuery failed: %v", err)
	}
	if q != "climate change causes" {
		t.Errorf("query = %q, expected trimmed completion text", q)
	}

	// system prompt + 2 turns, chronological order
	if len(captured) != 3 {
		t.Fatalf("expected 3 chat messages, got %d", len(captured))
	}
	if captured[0]["role"] != "system" {
		t.Errorf("first message role = %v, expected system", captured[0]["role"])
	}
	if captured[1]["content"] != "tell me about climate change" {
		t.Errorf("turns not in chronological order: %v", captured[1]["content"])
	}
}

func TestGetQuery_MaxTurnsLimitsHistory(t *testing.T) {
	var captured []map[string]any
	server := completionServer(t, "q", &captured)
	defer server.Close()

	gen := newTestGenerator(server.URL)
	conv := []domain.Message{
		{Text: "turn 5"}, {Text: "turn 4"}, {Text: "turn 3"},
		{Text: "turn 2"}, {Text: "turn 1"},
	}

	if _, err := gen.GetQuery(context.Background(), conv); err != nil {
		t.Fatalf("GetQuery failed: %v", err)
	}
	// system prompt + MaxTurns(3) most recent turns
	if len(captured) != 4 {
		t.Fatalf("expected 4 chat messages, got %d", len(captured))
	}
	if captured[1]["content"] != "turn 3" {
		t.Errorf("oldest included turn = %v, expected turn 3", captured[1]["content"])
	}
}

func TestGetQuery_APIErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"overloaded"}`))
	}))
	defer server.Close()

	gen := newTestGenerator(server.URL)

	_, err := gen.GetQuery(context.Background(), []domain.Message{{Text: "q"}})
	if !errors.Is(err, domain.ErrQueryGeneration) {
		t.Fatalf("expected ErrQueryGeneration, got %v", err)
	}
}

func TestGetQuery_BlankCompletionFails(t *testing.T) {
	server := completionServer(t, "   ", nil)
	defer server.Close()

	gen := newTestGenerator(server.URL)

	_, err := gen.GetQuery(context.Background(), []domain.Message{{Text: "q"}})
	if !errors.Is(err, domain.ErrQueryGeneration) {
		t.Fatalf("expected ErrQueryGeneration for blank completion, got %v", err)
	}
}
