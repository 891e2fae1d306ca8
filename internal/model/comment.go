package model

import "time"

// Comment is an immutable note attached to an event.
type Comment struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentInput is the ADD_COMMENT payload.
type CommentInput struct {
	EventID string `json:"eventId"`
	Content string `json:"content"`
	UserID  string `json:"userId"`
}
