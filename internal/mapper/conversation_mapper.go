package mapper

import (
	"encoding/json"
	"time"

	"context-engine-be/internal/entity"
	"context-engine-be/internal/model"

	"gorm.io/datatypes"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	return &entity.Conversation{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		Summary:   c.Summary,
		Topics:    c.Topics,
		IsActive:  c.IsActive,
		StartedAt: c.StartedAt,
		EndedAt:   c.EndedAt,
		Counters: entity.ConversationCounters{
			TotalMessages:     c.TotalMessages,
			UserMessages:      c.UserMessages,
			AssistantMessages: c.AssistantMessages,
			DebateMessages:    c.DebateMessages,
			ConsensusRounds:   c.ConsensusRounds,
		},
	}
}

func (m *ConversationMapper) ConversationToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	return &model.Conversation{
		Id:                c.Id,
		UserId:            c.UserId,
		Title:             c.Title,
		Summary:           c.Summary,
		Topics:            datatypes.NewJSONSlice(c.Topics),
		IsActive:          c.IsActive,
		StartedAt:         c.StartedAt,
		EndedAt:           c.EndedAt,
		TotalMessages:     c.Counters.TotalMessages,
		UserMessages:      c.Counters.UserMessages,
		AssistantMessages: c.Counters.AssistantMessages,
		DebateMessages:    c.Counters.DebateMessages,
		ConsensusRounds:   c.Counters.ConsensusRounds,
	}
}

func (m *ConversationMapper) MessageToEntity(msg *model.ConversationMessage) *entity.ConversationMessage {
	if msg == nil {
		return nil
	}

	var visual *entity.VisualContext
	if len(msg.VisualContext) > 0 {
		var v entity.VisualContext
		if err := json.Unmarshal(msg.VisualContext, &v); err == nil {
			visual = &v
		}
	}

	return &entity.ConversationMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		UserId:         msg.UserId,
		Role:           msg.Role,
		Content:        msg.Content,
		SpokeAt:        msg.SpokeAt,
		AudioRef:       msg.AudioRef,
		Emotion:        msg.Emotion,
		IsDebate:       msg.IsDebate,
		ReplyToId:      msg.ReplyToId,
		VisualContext:  visual,
	}
}

func (m *ConversationMapper) MessageToModel(msg *entity.ConversationMessage) *model.ConversationMessage {
	if msg == nil {
		return nil
	}

	var visual datatypes.JSON
	if msg.VisualContext != nil {
		if raw, err := json.Marshal(msg.VisualContext); err == nil {
			visual = raw
		}
	}

	spokeAt := msg.SpokeAt
	if spokeAt.IsZero() {
		spokeAt = time.Now()
	}

	return &model.ConversationMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		UserId:         msg.UserId,
		Role:           msg.Role,
		Content:        msg.Content,
		SpokeAt:        spokeAt,
		AudioRef:       msg.AudioRef,
		Emotion:        msg.Emotion,
		IsDebate:       msg.IsDebate,
		ReplyToId:      msg.ReplyToId,
		VisualContext:  visual,
	}
}

func (m *ConversationMapper) MessagesToEntities(models []*model.ConversationMessage) []*entity.ConversationMessage {
	entities := make([]*entity.ConversationMessage, len(models))
	for i, mo := range models {
		entities[i] = m.MessageToEntity(mo)
	}
	return entities
}
