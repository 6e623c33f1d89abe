package entity

import "time"

type MessageKind string

const (
	MessagePlayer MessageKind = "player"
	MessageSystem MessageKind = "system"
)

type ChatMessage struct {
	ID         MessageID   `json:"id"`
	SenderID   PlayerID    `json:"senderId"`
	SenderName string      `json:"senderName"`
	Text       string      `json:"text"`
	Timestamp  time.Time   `json:"timestamp"`
	Kind       MessageKind `json:"kind"`
}
