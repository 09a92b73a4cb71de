package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Person struct {
	Id               uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Name             string                      `gorm:"type:text;not null"`
	Aliases          datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Description      string                      `gorm:"type:text"`
	Relationship     string                      `gorm:"type:varchar(100)"`
	Tags             datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	VoiceEmbeddingId *uuid.UUID                  `gorm:"type:uuid"`
	FaceDescriptor   *pgvector.Vector            `gorm:"type:vector(128)"`
	MentionCount     int                         `gorm:"not null;default:0"`
	LastMentionedAt  *time.Time
	FullyAccounted   bool       `gorm:"not null;default:false"`
	Provenance       string     `gorm:"type:varchar(20);not null;default:'manual'"`
	SourceUnknownId  *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	CreatedAt        time.Time  `gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime"`
}

func (Person) TableName() string {
	return "people"
}
