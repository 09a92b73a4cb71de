package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UnknownPerson struct {
	Id              uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_unknown_people_identity,priority:1"`
	Label           string                      `gorm:"type:text;not null"`
	NormalizedLabel string                      `gorm:"type:text;not null;uniqueIndex:idx_unknown_people_identity,priority:2"`
	MentionCount    int                         `gorm:"not null;default:1"`
	ContextSnippets datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"`
	Relationships   datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"`
	Status          string                      `gorm:"type:varchar(20);not null;default:'unknown';index"`
	LastAskedAt     *time.Time
	LastMentionedAt *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (UnknownPerson) TableName() string {
	return "unknown_people"
}
