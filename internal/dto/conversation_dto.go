package dto

import (
	"time"

	"context-engine-be/internal/entity"

	"github.com/google/uuid"
)

type StartConversationRequest struct {
	Title  string   `json:"title"`
	Topics []string `json:"topics"`
}

type StartConversationResponse struct {
	Id uuid.UUID `json:"id"`
}

type AppendMessageRequest struct {
	ConversationId uuid.UUID
	Role           string                `json:"role" validate:"required"`
	Content        string                `json:"content" validate:"required"`
	SpokeAt        *time.Time            `json:"spoke_at"`
	AudioRef       string                `json:"audio_ref"`
	Emotion        string                `json:"emotion"`
	IsDebate       bool                  `json:"is_debate"`
	ReplyToId      *uuid.UUID            `json:"reply_to_id"`
	VisualContext  *entity.VisualContext `json:"visual_context"`
}

type AppendMessageResponse struct {
	Id uuid.UUID `json:"id"`
}

type ListConversationsRequest struct {
	Limit               int  `query:"limit"`
	Skip                int  `query:"skip"`
	IncludeFullMessages bool `query:"include_full_messages"`
}

type MessageResponse struct {
	Id            uuid.UUID             `json:"id"`
	Role          string                `json:"role"`
	Content       string                `json:"content"`
	SpokeAt       time.Time             `json:"spoke_at"`
	AudioRef      string                `json:"audio_ref,omitempty"`
	Emotion       string                `json:"emotion,omitempty"`
	IsDebate      bool                  `json:"is_debate,omitempty"`
	ReplyToId     *uuid.UUID            `json:"reply_to_id,omitempty"`
	VisualContext *entity.VisualContext `json:"visual_context,omitempty"`
}

type ConversationCountersResponse struct {
	TotalMessages     int `json:"total_messages"`
	UserMessages      int `json:"user_messages"`
	AssistantMessages int `json:"assistant_messages"`
	DebateMessages    int `json:"debate_messages"`
	ConsensusRounds   int `json:"consensus_rounds"`
}

type ConversationResponse struct {
	Id        uuid.UUID                    `json:"id"`
	Title     string                       `json:"title"`
	Summary   string                       `json:"summary,omitempty"`
	Topics    []string                     `json:"topics,omitempty"`
	IsActive  bool                         `json:"is_active"`
	StartedAt time.Time                    `json:"started_at"`
	EndedAt   *time.Time                   `json:"ended_at,omitempty"`
	Counters  ConversationCountersResponse `json:"counters"`
	Messages  []*MessageResponse           `json:"messages"`
}

type WindowedContextRequest struct {
	DayWindow        int `query:"day_window"`
	MaxConversations int `query:"max_conversations"`
	MaxMessages      int `query:"max_messages"`
}

type ContextMessageResponse struct {
	Role             string    `json:"role"`
	Content          string    `json:"content"`
	Timestamp        time.Time `json:"timestamp"`
	ConversationDate time.Time `json:"conversation_date"`
}
