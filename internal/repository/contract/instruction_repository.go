package contract

import (
	"context"
	"time"

	"context-engine-be/internal/entity"
	"context-engine-be/internal/repository/specification"

	"github.com/google/uuid"
)

type InstructionRepository interface {
	Create(ctx context.Context, instruction *entity.Instruction) error
	Update(ctx context.Context, instruction *entity.Instruction) error
	// Deactivate soft-disables an instruction; rows are never hard-deleted.
	Deactivate(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Instruction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Instruction, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// IncrementApplied bumps applied_count and stamps last_applied as a
	// single atomic update, never read-modify-write.
	IncrementApplied(ctx context.Context, id uuid.UUID, appliedAt time.Time) error
}
