package contract

import (
	"context"
	"time"

	"context-engine-be/internal/entity"
	"context-engine-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PersonRepository interface {
	Create(ctx context.Context, person *entity.Person) error
	Update(ctx context.Context, person *entity.Person) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Person, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Person, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindBySourceUnknownId resolves the identify-retry correlation key.
	FindBySourceUnknownId(ctx context.Context, sourceUnknownId uuid.UUID) (*entity.Person, error)
	IncrementMention(ctx context.Context, id uuid.UUID, mentionedAt time.Time) error
}
