package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PublishTranscriptTurnMessage is the pub/sub payload for one completed
// widget exchange. The consumer persists it as two conversation rows.
type PublishTranscriptTurnMessage struct {
	SessionId   uuid.UUID       `json:"session_id"`
	UserMessage string          `json:"user_message"`
	BotAnswer   string          `json:"bot_answer"`
	RawResponse json.RawMessage `json:"raw_response,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}
