package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateInstructionRequest struct {
	Category             string     `json:"category" validate:"required"`
	Instruction          string     `json:"instruction" validate:"required"`
	OriginalUtterance    string     `json:"original_utterance"`
	Priority             int        `json:"priority" validate:"required"`
	Source               string     `json:"source"`
	Confidence           *float64   `json:"confidence"`
	Tags                 []string   `json:"tags"`
	OriginConversationId *uuid.UUID `json:"origin_conversation_id"`
}

type CreateInstructionResponse struct {
	Id uuid.UUID `json:"id"`
}

type SupersedeInstructionRequest struct {
	OldId       uuid.UUID
	Category    string   `json:"category"`
	Instruction string   `json:"instruction" validate:"required"`
	Priority    int      `json:"priority"`
	Tags        []string `json:"tags"`
}

type SupersedeInstructionResponse struct {
	OldId uuid.UUID `json:"old_id"`
	NewId uuid.UUID `json:"new_id"`
}

type ListInstructionsRequest struct {
	Category    string `query:"category"`
	MinPriority int    `query:"min_priority"`
	Limit       int    `query:"limit"`
}

type InstructionResponse struct {
	Id           uuid.UUID  `json:"id"`
	Category     string     `json:"category"`
	Instruction  string     `json:"instruction"`
	Priority     int        `json:"priority"`
	IsActive     bool       `json:"is_active"`
	Source       string     `json:"source"`
	Confidence   float64    `json:"confidence"`
	Tags         []string   `json:"tags"`
	AppliedCount int        `json:"applied_count"`
	LastApplied  *time.Time `json:"last_applied,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// PublishInstructionAppliedMessage is the fire-and-forget payload emitted
// after a render; the consumer performs the counter update off the read
// path.
type PublishInstructionAppliedMessage struct {
	InstructionId uuid.UUID `json:"instruction_id"`
	AppliedAt     time.Time `json:"applied_at"`
}
