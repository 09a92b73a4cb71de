package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Instruction struct {
	Id                   uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId               uuid.UUID                   `gorm:"type:uuid;not null;index:idx_instructions_user_active,priority:1"`
	Category             string                      `gorm:"type:varchar(50);not null;index"`
	Instruction          string                      `gorm:"type:text;not null"`
	OriginalUtterance    string                      `gorm:"type:text"`
	Priority             int                         `gorm:"type:smallint;not null;default:5"`
	IsActive             bool                        `gorm:"not null;default:true;index:idx_instructions_user_active,priority:2"`
	Source               string                      `gorm:"type:varchar(20);not null;default:'explicit'"`
	Confidence           float64                     `gorm:"type:double precision;not null;default:1"`
	Tags                 datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	AppliedCount         int                         `gorm:"not null;default:0"`
	LastApplied          *time.Time
	OriginConversationId *uuid.UUID       `gorm:"type:uuid"`
	Embedding            *pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt            time.Time        `gorm:"autoCreateTime"`
	UpdatedAt            time.Time        `gorm:"autoUpdateTime"`
}

func (Instruction) TableName() string {
	return "instructions"
}
