package entity

import (
	"time"

	"github.com/google/uuid"
)

// Instruction is one durable personalization rule. Apart from the
// activity flag, priority and the applied counters it is immutable.
type Instruction struct {
	Id                   uuid.UUID
	UserId               uuid.UUID
	Category             string
	Instruction          string
	OriginalUtterance    string
	Priority             int
	IsActive             bool
	Source               string
	Confidence           float64
	Tags                 []string
	AppliedCount         int
	LastApplied          *time.Time
	OriginConversationId *uuid.UUID
	Embedding            []float32 // populated only when explicitly requested
	CreatedAt            time.Time
	UpdatedAt            *time.Time
}
