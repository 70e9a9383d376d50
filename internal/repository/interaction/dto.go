package interaction

import (
	"time"

	"github.com/kailas-cloud/convsearch/internal/domain"
)

// messageDTO is the stored JSON shape of a message.
type messageDTO struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id"`
	Text   string    `json:"text"`
	Time   time.Time `json:"time"`
}

func toDTO(msg domain.Message) messageDTO {
	return messageDTO{
		ID:     msg.ID,
		UserID: msg.UserID,
		Text:   msg.Text,
		Time:   msg.Time,
	}
}

func (d messageDTO) toDomain() domain.Message {
	return domain.Message{
		ID:     d.ID,
		UserID: d.UserID,
		Text:   d.Text,
		Time:   d.Time,
	}
}
