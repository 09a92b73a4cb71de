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

type InstructionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.InstructionMapper
}

func NewInstructionRepository(db *gorm.DB) contract.InstructionRepository {
	return &InstructionRepositoryImpl{
		db:     db,
		mapper: mapper.NewInstructionMapper(),
	}
}

func (r *InstructionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *InstructionRepositoryImpl) Create(ctx context.Context, instruction *entity.Instruction) error {
	m := r.mapper.ToModel(instruction)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*instruction = *r.mapper.ToEntity(m)
	return nil
}

func (r *InstructionRepositoryImpl) Update(ctx context.Context, instruction *entity.Instruction) error {
	m := r.mapper.ToModel(instruction)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*instruction = *r.mapper.ToEntity(m)
	return nil
}

func (r *InstructionRepositoryImpl) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Instruction{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *InstructionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Instruction, error) {
	var m model.Instruction
	// The embedding column is excluded from default reads.
	query := r.applySpecifications(r.db.WithContext(ctx).Omit("embedding"), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *InstructionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Instruction, error) {
	var models []*model.Instruction
	query := r.applySpecifications(r.db.WithContext(ctx).Omit("embedding"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *InstructionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Instruction{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *InstructionRepositoryImpl) IncrementApplied(ctx context.Context, id uuid.UUID, appliedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Instruction{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"applied_count": gorm.Expr("applied_count + 1"),
			"last_applied":  appliedAt,
		}).Error
}
