package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePersonRequest struct {
	Name         string   `json:"name" validate:"required"`
	Aliases      []string `json:"aliases"`
	Description  string   `json:"description"`
	Relationship string   `json:"relationship"`
	Tags         []string `json:"tags"`
}

type CreatePersonResponse struct {
	Id uuid.UUID `json:"id"`
}

type PersonResponse struct {
	Id              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Aliases         []string   `json:"aliases,omitempty"`
	Description     string     `json:"description,omitempty"`
	Relationship    string     `json:"relationship,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	MentionCount    int        `json:"mention_count"`
	LastMentionedAt *time.Time `json:"last_mentioned_at,omitempty"`
	FullyAccounted  bool       `json:"fully_accounted"`
	Provenance      string     `json:"provenance"`
	CreatedAt       time.Time  `json:"created_at"`
}

type RecordMentionRequest struct {
	Label        string `json:"label" validate:"required"`
	Snippet      string `json:"snippet"`
	Relationship string `json:"relationship"`
}

type RecordMentionResponse struct {
	Id           uuid.UUID `json:"id"`
	MentionCount int       `json:"mention_count"`
}

type UnknownPersonResponse struct {
	Id              uuid.UUID  `json:"id"`
	Label           string     `json:"label"`
	MentionCount    int        `json:"mention_count"`
	ContextSnippets []string   `json:"context_snippets,omitempty"`
	Relationships   []string   `json:"relationships,omitempty"`
	Status          string     `json:"status"`
	LastAskedAt     *time.Time `json:"last_asked_at,omitempty"`
	LastMentionedAt *time.Time `json:"last_mentioned_at,omitempty"`
}

// AskCandidateResponse pairs an unidentified person with the question the
// assistant may use to ask about them.
type AskCandidateResponse struct {
	Person   UnknownPersonResponse `json:"person"`
	Question string                `json:"question"`
}

type IdentifyPersonRequest struct {
	UnknownPersonId uuid.UUID
	Description     string `json:"description" validate:"required"`
	Relationship    string `json:"relationship"`
}

type IdentifyPersonResponse struct {
	PersonId uuid.UUID `json:"person_id"`
}
