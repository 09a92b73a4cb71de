package entity

import (
	"time"

	"github.com/google/uuid"
)

// Person is a resolved identity in the registry.
type Person struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	Name             string
	Aliases          []string
	Description      string
	Relationship     string
	Tags             []string
	VoiceEmbeddingId *uuid.UUID
	FaceDescriptor   []float32 // populated only when explicitly requested
	MentionCount     int
	LastMentionedAt  *time.Time
	FullyAccounted   bool
	Provenance       string
	// SourceUnknownId correlates a Person with the unknown-person record it
	// was promoted from, so a retried identification converges instead of
	// duplicating.
	SourceUnknownId *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
