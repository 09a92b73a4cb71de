package mapper

import (
	"time"

	"context-engine-be/internal/entity"
	"context-engine-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type InstructionMapper struct{}

func NewInstructionMapper() *InstructionMapper {
	return &InstructionMapper{}
}

func (m *InstructionMapper) ToEntity(i *model.Instruction) *entity.Instruction {
	if i == nil {
		return nil
	}

	var updatedAt *time.Time
	if !i.UpdatedAt.IsZero() {
		t := i.UpdatedAt
		updatedAt = &t
	}

	var embedding []float32
	if i.Embedding != nil {
		embedding = i.Embedding.Slice()
	}

	return &entity.Instruction{
		Id:                   i.Id,
		UserId:               i.UserId,
		Category:             i.Category,
		Instruction:          i.Instruction,
		OriginalUtterance:    i.OriginalUtterance,
		Priority:             i.Priority,
		IsActive:             i.IsActive,
		Source:               i.Source,
		Confidence:           i.Confidence,
		Tags:                 i.Tags,
		AppliedCount:         i.AppliedCount,
		LastApplied:          i.LastApplied,
		OriginConversationId: i.OriginConversationId,
		Embedding:            embedding,
		CreatedAt:            i.CreatedAt,
		UpdatedAt:            updatedAt,
	}
}

func (m *InstructionMapper) ToModel(i *entity.Instruction) *model.Instruction {
	if i == nil {
		return nil
	}

	var updatedAt time.Time
	if i.UpdatedAt != nil {
		updatedAt = *i.UpdatedAt
	}

	var embedding *pgvector.Vector
	if len(i.Embedding) > 0 {
		v := pgvector.NewVector(i.Embedding)
		embedding = &v
	}

	return &model.Instruction{
		Id:                   i.Id,
		UserId:               i.UserId,
		Category:             i.Category,
		Instruction:          i.Instruction,
		OriginalUtterance:    i.OriginalUtterance,
		Priority:             i.Priority,
		IsActive:             i.IsActive,
		Source:               i.Source,
		Confidence:           i.Confidence,
		Tags:                 datatypes.NewJSONSlice(i.Tags),
		AppliedCount:         i.AppliedCount,
		LastApplied:          i.LastApplied,
		OriginConversationId: i.OriginConversationId,
		Embedding:            embedding,
		CreatedAt:            i.CreatedAt,
		UpdatedAt:            updatedAt,
	}
}

func (m *InstructionMapper) ToEntities(models []*model.Instruction) []*entity.Instruction {
	entities := make([]*entity.Instruction, len(models))
	for i, mo := range models {
		entities[i] = m.ToEntity(mo)
	}
	return entities
}
