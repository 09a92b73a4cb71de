package entity

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Summary   string
	Topics    []string
	IsActive  bool
	StartedAt time.Time
	EndedAt   *time.Time
	Counters  ConversationCounters
	Messages  []*ConversationMessage
}

// ConversationCounters are maintained by the writer in the same
// transaction as each append; TotalMessages always equals the number of
// stored messages.
type ConversationCounters struct {
	TotalMessages     int
	UserMessages      int
	AssistantMessages int
	DebateMessages    int
	ConsensusRounds   int
}

type ConversationMessage struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	UserId         uuid.UUID
	Role           string
	Content        string
	SpokeAt        time.Time
	AudioRef       string
	Emotion        string
	IsDebate       bool
	ReplyToId      *uuid.UUID
	VisualContext  *VisualContext
}

// VisualContext is the snapshot of what the assistant could see when the
// message was produced.
type VisualContext struct {
	CameraActive bool     `json:"camera_active"`
	ScreenActive bool     `json:"screen_active"`
	FaceLabels   []string `json:"face_labels,omitempty"`
}

// ContextMessage is one entry of the windowed cross-conversation stream.
type ContextMessage struct {
	Role             string
	Content          string
	Timestamp        time.Time
	ConversationDate time.Time
}
