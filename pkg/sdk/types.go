package convsearch

import (
	"time"

	"github.com/kailas-cloud/convsearch/internal/domain"
)

// Engine identifies a retrieval back end.
type Engine string

// Engine constants.
const (
	EngineIndri Engine = "indri"
	EngineWeb   Engine = "web"
)

// Message is one conversation turn.
type Message struct {
	ID     string
	UserID string
	Text   string
	Time   time.Time
}

// Document is a retrieved document.
type Document struct {
	ID    string
	Title string
	Text  string
	Score float64
}

func messageToDomain(m Message) domain.Message {
	return domain.Message{ID: m.ID, UserID: m.UserID, Text: m.Text, Time: m.Time}
}

func messageFromDomain(m domain.Message) Message {
	return Message{ID: m.ID, UserID: m.UserID, Text: m.Text, Time: m.Time}
}

func documentFromDomain(d domain.Document) Document {
	return Document{ID: d.ID, Title: d.Title, Text: d.Text, Score: d.Score}
}
