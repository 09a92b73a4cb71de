package implementation

import (
	"context"

	"context-engine-be/internal/entity"
	"context-engine-be/internal/mapper"
	"context-engine-be/internal/model"
	"context-engine-be/internal/repository/contract"
	"context-engine-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewConversationMessageRepository(db *gorm.DB) contract.ConversationMessageRepository {
	return &ConversationMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *ConversationMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversationMessageRepositoryImpl) Create(ctx context.Context, message *entity.ConversationMessage) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *ConversationMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error) {
	var models []*model.ConversationMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.MessagesToEntities(models), nil
}

func (r *ConversationMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ConversationMessage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ConversationMessageRepositoryImpl) FindLatestByConversationIds(ctx context.Context, ids []uuid.UUID, limit int) ([]*entity.ConversationMessage, error) {
	if len(ids) == 0 {
		return []*entity.ConversationMessage{}, nil
	}
	var models []*model.ConversationMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id IN ?", ids).
		Order("spoke_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.MessagesToEntities(models), nil
}

func (r *ConversationMessageRepositoryImpl) FindOldestByConversationId(ctx context.Context, id uuid.UUID, limit int) ([]*entity.ConversationMessage, error) {
	var models []*model.ConversationMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", id).
		Order("spoke_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.MessagesToEntities(models), nil
}
