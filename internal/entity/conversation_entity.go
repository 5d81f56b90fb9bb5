package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ConversationMessage is one turn of a widget conversation: either the
// user's text (MessageType "human") or the bot's reply (MessageType "ai").
// ResponseMetadata carries the raw bot payload for ai turns so the
// dashboard can inspect what the widget rendered.
type ConversationMessage struct {
	Id               uuid.UUID
	SessionId        uuid.UUID
	MessageType      string
	MessageContent   string
	ResponseMetadata json.RawMessage
	CreatedAt        time.Time
}

const (
	MessageTypeHuman = "human"
	MessageTypeAI    = "ai"
)
