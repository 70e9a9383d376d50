package domain

import "time"

// Document is a single retrieved result. Documents are immutable values
// created by a retrieval back end; Score is engine-specific and must not be
// compared across back ends. ID is unique only within one back end's
// namespace: a stringified internal document id for the index engine, a URL
// for the web engine.
type Document struct {
	ID    string
	Title string
	Text  string
	Score float64
}

// Message is one conversational message. Conversations are passed around as
// []Message ordered most-recent-first.
type Message struct {
	ID     string
	UserID string
	Text   string
	Time   time.Time
}
