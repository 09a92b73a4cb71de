package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StartedSince bounds the windowed-context scan to recent conversations.
type StartedSince struct {
	Since time.Time
}

func (s StartedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("started_at >= ?", s.Since)
}

type ByConversationIDs struct {
	IDs []uuid.UUID
}

func (s ByConversationIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id IN ?", s.IDs)
}

type ByConversationID struct {
	ID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ID)
}
