package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ConversationMessage struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_conversation_spoke,priority:1"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index"`
	Role           string    `gorm:"type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	SpokeAt        time.Time `gorm:"not null;index:idx_messages_conversation_spoke,priority:2,sort:desc"`
	AudioRef       string    `gorm:"type:text"`
	Emotion        string    `gorm:"type:varchar(50)"`
	IsDebate       bool      `gorm:"not null;default:false"`
	ReplyToId      *uuid.UUID `gorm:"type:uuid"`
	VisualContext  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

func (ConversationMessage) TableName() string {
	return "conversation_messages"
}
