package chi

import (
	"time"

	"github.com/kailas-cloud/convsearch/internal/domain"
)

// ErrorCode identifies an error class to API clients.
type ErrorCode string

const (
	CodeBadRequest            ErrorCode = "bad_request"
	CodeValidationFailed      ErrorCode = "validation_failed"
	CodeNotFound              ErrorCode = "not_found"
	CodeQueryGenerationFailed ErrorCode = "query_generation_failed"
	CodeEngineError           ErrorCode = "engine_error"
	CodeSearchAPIError        ErrorCode = "search_api_error"
	CodePageFetchFailed       ErrorCode = "page_fetch_failed"
	CodeRateLimited           ErrorCode = "rate_limited"
	CodeInternalError         ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Message is one conversation turn on the wire.
type Message struct {
	ID     string    `json:"id,omitempty"`
	UserID string    `json:"user_id,omitempty"`
	Text   string    `json:"text"`
	Time   time.Time `json:"time,omitempty"`
}

// SearchRequest is the POST /search body. Conversation is ordered newest
// first; the first entry is the turn being answered.
type SearchRequest struct {
	UserID       string    `json:"user_id,omitempty"`
	Conversation []Message `json:"conversation"`
}

// SearchResult is one retrieved document on the wire.
type SearchResult struct {
	ID    string  `json:"id"`
	Title string  `json:"title,omitempty"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// SearchResponse is the POST /search response.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// HistoryResponse is the GET /interactions/{user_id} response.
type HistoryResponse struct {
	UserID   string    `json:"user_id"`
	Messages []Message `json:"messages"`
}

// HealthResponse is the GET /health response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func messageToDomain(m Message, userID string) domain.Message {
	if m.UserID == "" {
		m.UserID = userID
	}
	return domain.Message{
		ID:     m.ID,
		UserID: m.UserID,
		Text:   m.Text,
		Time:   m.Time,
	}
}

func messageFromDomain(m domain.Message) Message {
	return Message{
		ID:     m.ID,
		UserID: m.UserID,
		Text:   m.Text,
		Time:   m.Time,
	}
}

func resultFromDomain(d domain.Document) SearchResult {
	return SearchResult{
		ID:    d.ID,
		Title: d.Title,
		Text:  d.Text,
		Score: d.Score,
	}
}
