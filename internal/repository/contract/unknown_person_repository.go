package contract

import (
	"context"

	"context-engine-be/internal/entity"
	"context-engine-be/internal/repository/specification"

	"github.com/google/uuid"
)

// MentionUpsert carries one observed mention of a not-yet-known name.
type MentionUpsert struct {
	UserId       uuid.UUID
	Label        string
	Snippet      string
	Relationship string
	// MaxSnippets caps the stored context list; the oldest snippet is
	// dropped on overflow.
	MaxSnippets int
}

type UnknownPersonRepository interface {
	// UpsertMention inserts a new record or atomically increments the
	// mention counter of the existing one, keyed on the owner and the
	// case-normalized label. Concurrent first mentions converge on one row.
	UpsertMention(ctx context.Context, mention MentionUpsert) (*entity.UnknownPerson, error)
	Update(ctx context.Context, person *entity.UnknownPerson) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UnknownPerson, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UnknownPerson, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
