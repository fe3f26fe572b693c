package models

import "time"

// Message is a short text entry. The service assigns ID and CreatedAt.
type Message struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type MessagesResponse struct {
	Messages []Message `json:"messages"`
}

type DeleteResponse struct {
	Message string   `json:"message"`
	Deleted *Message `json:"deleted,omitempty"`
}
