package specification

import (
	"time"

	"gorm.io/gorm"
)

// NotIdentified keeps promoted records out of lifecycle queries while the
// rows themselves are retained for audit.
type NotIdentified struct{}

func (s NotIdentified) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ?", "identified")
}

// AskableAt selects records never asked, or asked before the cooldown
// horizon.
type AskableAt struct {
	Now      time.Time
	Cooldown time.Duration
}

func (s AskableAt) Apply(db *gorm.DB) *gorm.DB {
	horizon := s.Now.Add(-s.Cooldown)
	return db.Where("last_asked_at IS NULL OR last_asked_at <= ?", horizon)
}

// MentionOrder ranks ask candidates: most mentioned first, then most
// recently mentioned.
type MentionOrder struct{}

func (s MentionOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("mention_count DESC").Order("last_mentioned_at DESC NULLS LAST")
}
