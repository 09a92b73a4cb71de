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

type PersonRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PersonMapper
}

func NewPersonRepository(db *gorm.DB) contract.PersonRepository {
	return &PersonRepositoryImpl{
		db:     db,
		mapper: mapper.NewPersonMapper(),
	}
}

func (r *PersonRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PersonRepositoryImpl) Create(ctx context.Context, person *entity.Person) error {
	m := r.mapper.PersonToModel(person)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*person = *r.mapper.PersonToEntity(m)
	return nil
}

func (r *PersonRepositoryImpl) Update(ctx context.Context, person *entity.Person) error {
	m := r.mapper.PersonToModel(person)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*person = *r.mapper.PersonToEntity(m)
	return nil
}

func (r *PersonRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Person, error) {
	var m model.Person
	// The face descriptor vector is excluded from default reads.
	query := r.applySpecifications(r.db.WithContext(ctx).Omit("face_descriptor"), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PersonToEntity(&m), nil
}

func (r *PersonRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Person, error) {
	var models []*model.Person
	query := r.applySpecifications(r.db.WithContext(ctx).Omit("face_descriptor"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.PeopleToEntities(models), nil
}

func (r *PersonRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Person{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PersonRepositoryImpl) FindBySourceUnknownId(ctx context.Context, sourceUnknownId uuid.UUID) (*entity.Person, error) {
	var m model.Person
	err := r.db.WithContext(ctx).
		Omit("face_descriptor").
		Where("source_unknown_id = ?", sourceUnknownId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PersonToEntity(&m), nil
}

func (r *PersonRepositoryImpl) IncrementMention(ctx context.Context, id uuid.UUID, mentionedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Person{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"mention_count":     gorm.Expr("mention_count + 1"),
			"last_mentioned_at": mentionedAt,
		}).Error
}
