package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrContentEmpty = errors.New("message content empty")

// Message is a chat message as persisted by the store. The presence core
// only ever relays messages; it never reads them back.
type Message struct {
	ID        string    `json:"id"`
	GroupID   GroupID   `json:"group_id"`
	Sender    User      `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMessage(group GroupID, sender User, content string) (*Message, error) {
	if content == "" {
		return nil, ErrContentEmpty
	}
	return &Message{
		ID:        uuid.NewString(),
		GroupID:   group,
		Sender:    sender,
		Content:   content,
		CreatedAt: time.Now(),
	}, nil
}
