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
	"gorm.io/gorm"
)

type ConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewConversationRepository(db *gorm.DB) contract.ConversationRepository {
	return &ConversationRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *ConversationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversationRepositoryImpl) Create(ctx context.Context, conversation *entity.Conversation) error {
	m := r.mapper.ConversationToModel(conversation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*conversation = *r.mapper.ConversationToEntity(m)
	return nil
}

func (r *ConversationRepositoryImpl) Update(ctx context.Context, conversation *entity.Conversation) error {
	m := r.mapper.ConversationToModel(conversation)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*conversation = *r.mapper.ConversationToEntity(m)
	return nil
}

func (r *ConversationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	var m model.Conversation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ConversationToEntity(&m), nil
}

func (r *ConversationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	var models []*model.Conversation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Conversation, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ConversationToEntity(m)
	}
	return entities, nil
}

func (r *ConversationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Conversation{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// End closes a conversation. Ending an already-ended conversation keeps
// the original ended_at.
func (r *ConversationRepositoryImpl) End(ctx context.Context, id uuid.UUID, endedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ? AND is_active = ?", id, true).
		UpdateColumns(map[string]interface{}{
			"is_active": false,
			"ended_at":  endedAt,
		}).Error
}

func (r *ConversationRepositoryImpl) IncrementCounters(ctx context.Context, id uuid.UUID, delta contract.CounterDelta) error {
	updates := map[string]interface{}{}
	if delta.Total != 0 {
		updates["total_messages"] = gorm.Expr("total_messages + ?", delta.Total)
	}
	if delta.User != 0 {
		updates["user_messages"] = gorm.Expr("user_messages + ?", delta.User)
	}
	if delta.Assistant != 0 {
		updates["assistant_messages"] = gorm.Expr("assistant_messages + ?", delta.Assistant)
	}
	if delta.Debate != 0 {
		updates["debate_messages"] = gorm.Expr("debate_messages + ?", delta.Debate)
	}
	if delta.Consensus != 0 {
		updates["consensus_rounds"] = gorm.Expr("consensus_rounds + ?", delta.Consensus)
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", id).
		UpdateColumns(updates).Error
}
