package mapper

import (
	"time"

	"context-engine-be/internal/entity"
	"context-engine-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type PersonMapper struct{}

func NewPersonMapper() *PersonMapper {
	return &PersonMapper{}
}

func (m *PersonMapper) PersonToEntity(p *model.Person) *entity.Person {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	var face []float32
	if p.FaceDescriptor != nil {
		face = p.FaceDescriptor.Slice()
	}

	return &entity.Person{
		Id:               p.Id,
		UserId:           p.UserId,
		Name:             p.Name,
		Aliases:          p.Aliases,
		Description:      p.Description,
		Relationship:     p.Relationship,
		Tags:             p.Tags,
		VoiceEmbeddingId: p.VoiceEmbeddingId,
		FaceDescriptor:   face,
		MentionCount:     p.MentionCount,
		LastMentionedAt:  p.LastMentionedAt,
		FullyAccounted:   p.FullyAccounted,
		Provenance:       p.Provenance,
		SourceUnknownId:  p.SourceUnknownId,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *PersonMapper) PersonToModel(p *entity.Person) *model.Person {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	var face *pgvector.Vector
	if len(p.FaceDescriptor) > 0 {
		v := pgvector.NewVector(p.FaceDescriptor)
		face = &v
	}

	return &model.Person{
		Id:               p.Id,
		UserId:           p.UserId,
		Name:             p.Name,
		Aliases:          datatypes.NewJSONSlice(p.Aliases),
		Description:      p.Description,
		Relationship:     p.Relationship,
		Tags:             datatypes.NewJSONSlice(p.Tags),
		VoiceEmbeddingId: p.VoiceEmbeddingId,
		FaceDescriptor:   face,
		MentionCount:     p.MentionCount,
		LastMentionedAt:  p.LastMentionedAt,
		FullyAccounted:   p.FullyAccounted,
		Provenance:       p.Provenance,
		SourceUnknownId:  p.SourceUnknownId,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *PersonMapper) PeopleToEntities(models []*model.Person) []*entity.Person {
	entities := make([]*entity.Person, len(models))
	for i, mo := range models {
		entities[i] = m.PersonToEntity(mo)
	}
	return entities
}

func (m *PersonMapper) UnknownToEntity(u *model.UnknownPerson) *entity.UnknownPerson {
	if u == nil {
		return nil
	}

	var updatedAt *time.Time
	if !u.UpdatedAt.IsZero() {
		t := u.UpdatedAt
		updatedAt = &t
	}

	return &entity.UnknownPerson{
		Id:              u.Id,
		UserId:          u.UserId,
		Label:           u.Label,
		NormalizedLabel: u.NormalizedLabel,
		MentionCount:    u.MentionCount,
		ContextSnippets: u.ContextSnippets,
		Relationships:   u.Relationships,
		Status:          entity.UnknownPersonStatus(u.Status),
		LastAskedAt:     u.LastAskedAt,
		LastMentionedAt: u.LastMentionedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *PersonMapper) UnknownToModel(u *entity.UnknownPerson) *model.UnknownPerson {
	if u == nil {
		return nil
	}

	var updatedAt time.Time
	if u.UpdatedAt != nil {
		updatedAt = *u.UpdatedAt
	}

	return &model.UnknownPerson{
		Id:              u.Id,
		UserId:          u.UserId,
		Label:           u.Label,
		NormalizedLabel: u.NormalizedLabel,
		MentionCount:    u.MentionCount,
		ContextSnippets: datatypes.NewJSONSlice(u.ContextSnippets),
		Relationships:   datatypes.NewJSONSlice(u.Relationships),
		Status:          string(u.Status),
		LastAskedAt:     u.LastAskedAt,
		LastMentionedAt: u.LastMentionedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *PersonMapper) UnknownToEntities(models []*model.UnknownPerson) []*entity.UnknownPerson {
	entities := make([]*entity.UnknownPerson, len(models))
	for i, mo := range models {
		entities[i] = m.UnknownToEntity(mo)
	}
	return entities
}
