package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Conversation struct {
	Id                uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId            uuid.UUID                   `gorm:"type:uuid;not null;index:idx_conversations_user_started,priority:1"`
	Title             string                      `gorm:"type:text;not null"`
	Summary           string                      `gorm:"type:text"`
	Topics            datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	IsActive          bool                        `gorm:"not null;default:true"`
	StartedAt         time.Time                   `gorm:"not null;index:idx_conversations_user_started,priority:2,sort:desc"`
	EndedAt           *time.Time
	TotalMessages     int       `gorm:"not null;default:0"`
	UserMessages      int       `gorm:"not null;default:0"`
	AssistantMessages int       `gorm:"not null;default:0"`
	DebateMessages    int       `gorm:"not null;default:0"`
	ConsensusRounds   int       `gorm:"not null;default:0"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}
