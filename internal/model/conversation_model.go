package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ConversationMessage struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	MessageType      string         `gorm:"type:varchar(20);not null"`
	MessageContent   string         `gorm:"type:text;not null"`
	ResponseMetadata datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time      `gorm:"autoCreateTime;index"`
}

func (ConversationMessage) TableName() string {
	return "conversations"
}
