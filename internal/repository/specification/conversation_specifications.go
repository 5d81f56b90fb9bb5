package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BySessionId filters conversation messages to a single widget session.
type BySessionId struct {
	SessionId uuid.UUID
}

func (s BySessionId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionId)
}

// ByMessageType filters to "human" or "ai" turns.
type ByMessageType struct {
	MessageType string
}

func (s ByMessageType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("message_type = ?", s.MessageType)
}

// ContentContains does a case-insensitive substring search over message text.
type ContentContains struct {
	Term string
}

func (s ContentContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("message_content ILIKE ?", "%"+s.Term+"%")
}

// CreatedSince filters to rows created at or after the given instant.
type CreatedSince struct {
	Since time.Time
}

func (s CreatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Since)
}
