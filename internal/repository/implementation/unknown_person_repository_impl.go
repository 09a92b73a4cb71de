package implementation

import (
	"context"
	"errors"
	"time"

	"context-engine-be/internal/entity"
	"context-engine-be/internal/mapper"
	"context-engine-be/internal/model"
	"context-engine-be/internal/repository/contract"
	"context-engine-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UnknownPersonRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PersonMapper
}

func NewUnknownPersonRepository(db *gorm.DB) contract.UnknownPersonRepository {
	return &UnknownPersonRepositoryImpl{
		db:     db,
		mapper: mapper.NewPersonMapper(),
	}
}

func (r *UnknownPersonRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// UpsertMention closes the find-or-create race structurally: the unique
// (user_id, normalized_label) index plus ON CONFLICT turns concurrent
// first mentions into one insert and N-1 increments. Snippet capping and
// relationship dedup happen inside the conflict assignment so the whole
// mention is a single statement.
func (r *UnknownPersonRepositoryImpl) UpsertMention(ctx context.Context, mention contract.MentionUpsert) (*entity.UnknownPerson, error) {
	now := time.Now()

	snippets := []string{}
	if mention.Snippet != "" {
		snippets = append(snippets, mention.Snippet)
	}
	relationships := []string{}
	if mention.Relationship != "" {
		relationships = append(relationships, mention.Relationship)
	}

	m := &model.UnknownPerson{
		Id:              uuid.New(),
		UserId:          mention.UserId,
		Label:           mention.Label,
		NormalizedLabel: entity.NormalizeLabel(mention.Label),
		MentionCount:    1,
		ContextSnippets: datatypes.NewJSONSlice(snippets),
		Relationships:   datatypes.NewJSONSlice(relationships),
		Status:          string(entity.UnknownPersonStatusUnknown),
		LastMentionedAt: &now,
	}

	assignments := map[string]interface{}{
		"mention_count":     gorm.Expr("unknown_people.mention_count + 1"),
		"last_mentioned_at": now,
		"updated_at":        now,
	}
	if mention.Snippet != "" {
		assignments["context_snippets"] = gorm.Expr(
			`CASE WHEN jsonb_array_length(unknown_people.context_snippets) >= ?
			 THEN (unknown_people.context_snippets - 0) || to_jsonb(?::text)
			 ELSE unknown_people.context_snippets || to_jsonb(?::text) END`,
			mention.MaxSnippets, mention.Snippet, mention.Snippet,
		)
	}
	if mention.Relationship != "" {
		assignments["relationships"] = gorm.Expr(
			`CASE WHEN unknown_people.relationships @> to_jsonb(?::text)
			 THEN unknown_people.relationships
			 ELSE unknown_people.relationships || to_jsonb(?::text) END`,
			mention.Relationship, mention.Relationship,
		)
	}

	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "normalized_label"}},
				DoUpdates: clause.Assignments(assignments),
			},
			clause.Returning{},
		).
		Create(m).Error
	if err != nil {
		return nil, err
	}

	return r.mapper.UnknownToEntity(m), nil
}

func (r *UnknownPersonRepositoryImpl) Update(ctx context.Context, person *entity.UnknownPerson) error {
	m := r.mapper.UnknownToModel(person)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*person = *r.mapper.UnknownToEntity(m)
	return nil
}

func (r *UnknownPersonRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.UnknownPerson{}, id).Error
}

func (r *UnknownPersonRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UnknownPerson, error) {
	var m model.UnknownPerson
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.UnknownToEntity(&m), nil
}

func (r *UnknownPersonRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UnknownPerson, error) {
	var models []*model.UnknownPerson
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.UnknownToEntities(models), nil
}

func (r *UnknownPersonRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.UnknownPerson{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
