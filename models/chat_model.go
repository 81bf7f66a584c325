package models

import "time"

// Chat is a two-participant conversation. PairKey is the sorted participant
// ids joined with ":" and sits under a unique index, so at most one chat can
// exist per pair even when both sides initiate first contact at once.
type Chat struct {
	ID           string          `json:"id" bson:"_id,omitempty"`
	Participants []string        `json:"participants" bson:"participants"`
	PairKey      string          `json:"-" bson:"pair_key"`
	Unread       map[string]bool `json:"unread" bson:"unread"`
	CreatedAt    time.Time       `json:"created_at" bson:"created_at"`
}

type MessageKind string

const (
	MessageText  MessageKind = "text"
	MessageImage MessageKind = "image"
)

type Message struct {
	ID        string      `json:"id" bson:"_id,omitempty"`
	ChatID    string      `json:"chat_id" bson:"chat_id"`
	SenderID  string      `json:"sender_id" bson:"sender_id"`
	Body      string      `json:"body" bson:"body"`
	Kind      MessageKind `json:"kind" bson:"kind,omitempty"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
}

// DisplayMessage is a message mapped for a bottom-anchored chat view.
// Exactly one of Text or Image is set.
type DisplayMessage struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text,omitempty"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatSummary is one row of the conversations screen.
type ChatSummary struct {
	ID          string `json:"id"`
	OtherUserID string `json:"other_user_id"`
	FullName    string `json:"fullname"`
	Avatar      string `json:"avatar,omitempty"`
	Unread      bool   `json:"unread"`
}
